package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
)

func newTestHandler(t *testing.T) (*Handler, *bytes.Buffer) {
	t.Helper()
	saved := color.NoColor
	color.NoColor = true
	t.Cleanup(func() {
		color.NoColor = saved
	})
	var buf bytes.Buffer
	return New(&buf), &buf
}

func TestProgressLine(t *testing.T) {
	handler, buf := newTestHandler(t)
	err := handler.HandleLog(&log.Entry{
		Level:   log.InfoLevel,
		Message: "opening whitepages",
		Fields: log.Fields{
			"type":       "progress",
			"key":        "whitepages",
			"percentage": 0.5,
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("50.00%: opening whitepages\n", buf.String()); diff != "" {
		t.Fatal(diff)
	}
}

func TestFindingItemLine(t *testing.T) {
	handler, buf := newTestHandler(t)
	err := handler.HandleLog(&log.Entry{
		Level: log.InfoLevel,
		Fields: log.Fields{
			"type":             "finding_item",
			"site":             "whitepages",
			"url":              "https://www.whitepages.com/name/Jane-Doe/TX",
			"is_search_engine": false,
			"opened":           true,
			"state":            "done",
			"failure":          "",
			"candidate_count":  int64(3),
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	expect := "✓ whitepages             https://www.whitepages.com/name/Jane-Doe/TX (3 candidates)\n"
	if diff := cmp.Diff(expect, buf.String()); diff != "" {
		t.Fatal(diff)
	}
}

func TestFindingItemFailure(t *testing.T) {
	handler, buf := newTestHandler(t)
	err := handler.HandleLog(&log.Entry{
		Level: log.InfoLevel,
		Fields: log.Fields{
			"type":             "finding_item",
			"site":             "spokeo",
			"url":              "https://www.spokeo.com/Jane-Doe/TX",
			"is_search_engine": false,
			"opened":           false,
			"state":            "failed",
			"failure":          "connection_refused",
			"candidate_count":  int64(0),
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "⨯ spokeo") {
		t.Fatalf("unexpected prefix: %q", out)
	}
	if !strings.Contains(out, "(connection_refused)") {
		t.Fatalf("missing failure: %q", out)
	}
}

func TestCandidateItemLine(t *testing.T) {
	handler, buf := newTestHandler(t)
	err := handler.HandleLog(&log.Entry{
		Level: log.InfoLevel,
		Fields: log.Fields{
			"type":           "candidate_item",
			"site":           "whitepages",
			"title":          "Jane Doe in Austin, TX",
			"url":            "https://www.whitepages.com/name/Jane-Doe/TX",
			"score":          0.55,
			"matched_fields": []string{"jane", "doe", "Austin"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	expect := "  [0.55] whitepages         \"Jane Doe in Austin, TX\" -> https://www.whitepages.com/name/Jane-Doe/TX\n"
	if diff := cmp.Diff(expect, buf.String()); diff != "" {
		t.Fatal(diff)
	}
}

func TestOptOutItemLine(t *testing.T) {
	handler, buf := newTestHandler(t)
	err := handler.HandleLog(&log.Entry{
		Level: log.InfoLevel,
		Fields: log.Fields{
			"type":   "optout_item",
			"site":   "spokeo",
			"url":    "https://www.spokeo.com/optout",
			"status": "done",
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	expect := "- spokeo             https://www.spokeo.com/optout [done]\n"
	if diff := cmp.Diff(expect, buf.String()); diff != "" {
		t.Fatal(diff)
	}
}

func TestSweepItemAndSummary(t *testing.T) {
	handler, buf := newTestHandler(t)
	startTime := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	err := handler.HandleLog(&log.Entry{
		Level: log.InfoLevel,
		Fields: log.Fields{
			"type":            "sweep_item",
			"id":              int64(1),
			"name":            "Jane Doe",
			"selection":       "peoplecore",
			"start_time":      startTime,
			"runtime":         12.5,
			"finding_count":   uint64(9),
			"opened_count":    uint64(9),
			"candidate_count": uint64(4),
			"median_score":    0.55,
			"is_done":         true,
			"index":           0,
			"total_count":     1,
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	err = handler.HandleLog(&log.Entry{
		Level: log.InfoLevel,
		Fields: log.Fields{
			"type":             "sweep_summary",
			"total_sweeps":     int64(1),
			"total_findings":   int64(9),
			"total_candidates": int64(4),
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"#1 - 01 Mar 24 10:30 UTC",
		"Jane Doe",
		"9 findings",
		"9 opened",
		"4 candidates",
		"median score 0.55",
		"1 sweeps",
		"└┬──────────────┬──────────────┬──────────────────┬┘",
		" └──────────────┴──────────────┴──────────────────┘",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestSweepSummaryEmpty(t *testing.T) {
	handler, buf := newTestHandler(t)
	err := handler.HandleLog(&log.Entry{
		Level: log.InfoLevel,
		Fields: log.Fields{
			"type":             "sweep_summary",
			"total_sweeps":     int64(0),
			"total_findings":   int64(0),
			"total_candidates": int64(0),
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No sweeps") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestDefaultLogSkipsSource(t *testing.T) {
	handler, buf := newTestHandler(t)
	err := handler.HandleLog(&log.Entry{
		Level:   log.InfoLevel,
		Message: "hello",
		Fields: log.Fields{
			"source": "somewhere",
			"extra":  "value",
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "extra=value") {
		t.Fatalf("missing field: %q", out)
	}
	if strings.Contains(out, "source") {
		t.Fatalf("source should be skipped: %q", out)
	}
}
