package match

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jkriig/privacy-sweep/internal/model"
	"github.com/jkriig/privacy-sweep/internal/queryparser"
)

func TestScore(t *testing.T) {
	subject := queryparser.Parse("Jane Anne Doe, Austin TX, jane@example.com, 512-555-0199")

	t.Run("everything matches and the score caps at one", func(t *testing.T) {
		text := "Jane Anne Doe in Austin TX: 555-0199, contact jane@example.com"
		score, matched := Score(text, "https://example.com/profile", subject)
		if score != 1.0 {
			t.Fatalf("expected capped score, got %v", score)
		}
		expected := []string{"jane", "anne", "doe", "Austin", "TX", "jane@example.com", "*0199"}
		if diff := cmp.Diff(expected, matched); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("nothing matches", func(t *testing.T) {
		score, matched := Score("totally unrelated listing", "https://example.com/x", subject)
		if score != 0 {
			t.Fatalf("expected zero score, got %v", score)
		}
		if matched != nil {
			t.Fatalf("expected no matched fields, got %v", matched)
		}
	})

	t.Run("url alone can clear the threshold", func(t *testing.T) {
		score, matched := Score("", "https://example.com/jane-doe/austin", subject)
		if score < Threshold {
			t.Fatalf("expected score above threshold, got %v", score)
		}
		// The email counts too because its local part is the first
		// name.
		expected := []string{"jane", "doe", "Austin", "jane@example.com"}
		if diff := cmp.Diff(expected, matched); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("state matches as a bare substring", func(t *testing.T) {
		oregon := queryparser.Parse("Pat Quill, Portland OR")
		score, matched := Score("records for sale", "https://example.com/", oregon)
		if score != 0.10 {
			t.Fatalf("expected the state weight, got %v", score)
		}
		if diff := cmp.Diff([]string{"OR"}, matched); diff != "" {
			t.Fatal(diff)
		}
	})
}

func TestMerge(t *testing.T) {
	rows := []model.Candidate{
		{Site: "a", URL: "https://u1.example/", Score: 0.5},
		{Site: "b", URL: "https://u2.example/", Score: 0.5},
		{Site: "c", URL: "https://u1.example/", Score: 0.8},
	}
	got := Merge(rows)
	expect := []model.Candidate{
		{Site: "c", URL: "https://u1.example/", Score: 0.8},
		{Site: "b", URL: "https://u2.example/", Score: 0.5},
	}
	if diff := cmp.Diff(expect, got); diff != "" {
		t.Fatal(diff)
	}

	t.Run("site breaks score ties in descending order", func(t *testing.T) {
		tied := []model.Candidate{
			{Site: "alpha", URL: "https://a.example/", Score: 0.5},
			{Site: "zeta", URL: "https://z.example/", Score: 0.5},
		}
		got := Merge(tied)
		if got[0].Site != "zeta" || got[1].Site != "alpha" {
			t.Fatalf("unexpected order: %v", got)
		}
	})
}
