package export

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"filippo.io/age"
	"github.com/apex/log"

	"github.com/jkriig/privacy-sweep/internal/model"
	"github.com/jkriig/privacy-sweep/internal/model/mocks"
	"github.com/jkriig/privacy-sweep/internal/sweeptest"
)

func withFakeLogger(t *testing.T) *sweeptest.FakeLoggerHandler {
	t.Helper()
	handler := &sweeptest.FakeLoggerHandler{}
	previous := log.Log
	log.Log = &log.Logger{Handler: handler, Level: log.DebugLevel}
	t.Cleanup(func() {
		log.Log = previous
	})
	return handler
}

func newExportCLI(t *testing.T, sweeps []model.DatabaseSweep) *sweeptest.FakeSweeperCLI {
	t.Helper()
	home := t.TempDir()
	if err := os.MkdirAll(filepath.Join(home, "reports"), 0700); err != nil {
		t.Fatal(err)
	}
	findings := []model.DatabaseFinding{{
		ID:      1,
		SiteKey: "whitepages",
		URL:     "https://www.whitepages.com/name/Jane-Anne-Doe/Austin-TX",
		Opened:  true,
		State:   "done",
		Candidates: sql.NullString{
			String: `[{"site":"whitepages","url":"https://x/1","score":0.9}]`,
			Valid:  true,
		},
		CandidateCount: 1,
	}}
	database := &mocks.Database{
		MockListSweeps: func() ([]model.DatabaseSweep, error) {
			return sweeps, nil
		},
		MockListFindings: func(sweepID int64) ([]model.DatabaseFinding, error) {
			return findings, nil
		},
	}
	return &sweeptest.FakeSweeperCLI{FakeDB: database, FakeHome: home}
}

func testSweeps() []model.DatabaseSweep {
	startTime := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	return []model.DatabaseSweep{{
		ID:        1,
		UUID:      "0f06ef74-bb36-4a05-a57c-3cb5c344cdf1",
		Name:      "Jane Anne Doe",
		Selection: "peoplecore",
		StartTime: startTime,
		IsDone:    true,
	}, {
		ID:        2,
		UUID:      "da7a95b6-1640-4dbc-adbd-9958f8e07fc2",
		Name:      "Jane Anne Doe",
		Selection: "google",
		StartTime: startTime.Add(time.Hour),
		IsDone:    true,
	}}
}

func TestDoexportDefaultsToTheLatestSweep(t *testing.T) {
	withFakeLogger(t)
	cli := newExportCLI(t, testSweeps())
	if err := doexport(cli, doexportoptions{}); err != nil {
		t.Fatal(err)
	}
	csvPath := filepath.Join(cli.FakeHome, "reports",
		"sweep-da7a95b6-1640-4dbc-adbd-9958f8e07fc2.csv")
	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "site,title,url,score,matched_fields\n") {
		t.Fatalf("unexpected CSV: %q", string(data))
	}
	jsonPath := filepath.Join(cli.FakeHome, "reports",
		"sweep-da7a95b6-1640-4dbc-adbd-9958f8e07fc2.json")
	if _, err := os.Stat(jsonPath); err != nil {
		t.Fatal(err)
	}
}

func TestDoexportWritesOnlyTheRequestedFormat(t *testing.T) {
	withFakeLogger(t)
	cli := newExportCLI(t, testSweeps())
	csvPath := filepath.Join(t.TempDir(), "out.csv")
	err := doexport(cli, doexportoptions{SweepID: 1, CSVPath: csvPath})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(csvPath); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(filepath.Join(cli.FakeHome, "reports"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no default reports, got %d", len(entries))
	}
}

func TestDoexportEncryptsWithSuffix(t *testing.T) {
	withFakeLogger(t)
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		t.Fatal(err)
	}
	cli := newExportCLI(t, testSweeps())
	jsonPath := filepath.Join(t.TempDir(), "out.json")
	err = doexport(cli, doexportoptions{
		JSONPath:  jsonPath,
		EncryptTo: identity.Recipient().String(),
	})
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(jsonPath + ".age")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "age-encryption.org/v1") {
		t.Fatalf("unexpected header: %q", string(data[:32]))
	}
}

func TestDoexportUnknownSweep(t *testing.T) {
	withFakeLogger(t)
	cli := newExportCLI(t, testSweeps())
	err := doexport(cli, doexportoptions{SweepID: 99})
	if err == nil || !strings.Contains(err.Error(), "no sweep with id 99") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDoexportWithoutSweeps(t *testing.T) {
	withFakeLogger(t)
	cli := newExportCLI(t, nil)
	err := doexport(cli, doexportoptions{})
	if err == nil || !strings.Contains(err.Error(), "no recorded sweeps") {
		t.Fatalf("unexpected error: %v", err)
	}
}
