package database

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jkriig/privacy-sweep/internal/model"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), "main.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Error(err)
		}
	})
	return d
}

func TestOpenCreatesTables(t *testing.T) {
	d := openTestDB(t)
	colls, err := d.Session().Collections()
	if err != nil {
		t.Fatal(err)
	}
	if len(colls) < 3 {
		t.Fatal("missing tables")
	}
}

func TestSweepLifecycle(t *testing.T) {
	d := openTestDB(t)

	sweep, err := d.CreateSweep("a-uuid", "Jane Doe", "peoplecore", "Jane Doe, Austin TX")
	if err != nil {
		t.Fatal(err)
	}
	if sweep.ID == 0 {
		t.Fatal("expected an assigned sweep id")
	}

	finding, err := d.CreateFinding(sweep.ID, "whitepages", "https://www.whitepages.com/name/Jane+Doe/TX/Austin", false)
	if err != nil {
		t.Fatal(err)
	}
	if finding.State != "active" {
		t.Fatalf("unexpected state %s", finding.State)
	}

	if err := d.FindingOpened(finding); err != nil {
		t.Fatal(err)
	}
	candidates := []model.Candidate{{
		Site:          "whitepages",
		Title:         "Jane Doe in Austin, TX",
		URL:           "https://www.whitepages.com/name/jane-doe",
		Score:         0.45,
		MatchedFields: []string{"jane", "doe", "Austin"},
	}}
	if err := d.SetCandidates(finding, candidates); err != nil {
		t.Fatal(err)
	}
	if err := d.FindingDone(finding); err != nil {
		t.Fatal(err)
	}
	if err := d.FinishSweep(sweep); err != nil {
		t.Fatal(err)
	}
	if err := d.FinishSweep(sweep); err == nil {
		t.Fatal("expected an error finishing twice")
	}

	sweeps, err := d.ListSweeps()
	if err != nil {
		t.Fatal(err)
	}
	if len(sweeps) != 1 || !sweeps[0].IsDone || sweeps[0].UUID != "a-uuid" {
		t.Fatalf("unexpected sweep list: %+v", sweeps)
	}

	findings, err := d.ListFindings(sweep.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(findings) != 1 {
		t.Fatalf("unexpected findings list: %+v", findings)
	}
	got := findings[0]
	if !got.Opened || got.State != "done" || got.CandidateCount != 1 {
		t.Fatalf("unexpected finding: %+v", got)
	}

	entry, err := d.GetFindingJSON(finding.ID)
	if err != nil {
		t.Fatal(err)
	}
	if entry["site"] != "whitepages" {
		t.Fatalf("unexpected finding JSON: %+v", entry)
	}
	if diff := cmp.Diff(candidates, entry["candidates"]); diff != "" {
		t.Fatal(diff)
	}
	if _, ok := entry["failure"]; ok {
		t.Fatal("did not expect a failure key")
	}
}

func TestFindingFailed(t *testing.T) {
	d := openTestDB(t)
	sweep, err := d.CreateSweep("a-uuid", "Jane Doe", "peoplecore", "Jane Doe")
	if err != nil {
		t.Fatal(err)
	}
	finding, err := d.CreateFinding(sweep.ID, "spokeo", "https://www.spokeo.com/Jane-Doe//", false)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.FindingFailed(finding, "connection_refused"); err != nil {
		t.Fatal(err)
	}
	findings, err := d.ListFindings(sweep.ID)
	if err != nil {
		t.Fatal(err)
	}
	if findings[0].State != "failed" || findings[0].Failure.String != "connection_refused" {
		t.Fatalf("unexpected finding: %+v", findings[0])
	}
	entry, err := d.GetFindingJSON(finding.ID)
	if err != nil {
		t.Fatal(err)
	}
	if entry["failure"] != "connection_refused" {
		t.Fatalf("unexpected finding JSON: %+v", entry)
	}
}

func TestDeleteSweep(t *testing.T) {
	d := openTestDB(t)
	sweep, err := d.CreateSweep("a-uuid", "Jane Doe", "peoplecore", "Jane Doe")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.CreateFinding(sweep.ID, "radaris", "https://radaris.com/ng/results", false); err != nil {
		t.Fatal(err)
	}
	if err := d.DeleteSweep(sweep.ID); err != nil {
		t.Fatal(err)
	}
	sweeps, err := d.ListSweeps()
	if err != nil {
		t.Fatal(err)
	}
	if len(sweeps) != 0 {
		t.Fatalf("unexpected sweep list: %+v", sweeps)
	}
	findings, err := d.ListFindings(sweep.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(findings) != 0 {
		t.Fatalf("orphaned findings: %+v", findings)
	}
	if err := d.DeleteSweep(sweep.ID); err == nil {
		t.Fatal("expected an error deleting a missing sweep")
	}
}

func TestUpsertOptOut(t *testing.T) {
	d := openTestDB(t)
	first, err := d.UpsertOptOut("whitepages", "https://www.whitepages.com/suppression_requests", model.OptOutPending)
	if err != nil {
		t.Fatal(err)
	}
	if first.Status != model.OptOutPending {
		t.Fatalf("unexpected status %s", first.Status)
	}
	second, err := d.UpsertOptOut("whitepages", "https://www.whitepages.com/suppression_requests", model.OptOutOpened)
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID {
		t.Fatal("expected the same ledger row")
	}
	if second.Status != model.OptOutOpened {
		t.Fatalf("unexpected status %s", second.Status)
	}
	optouts, err := d.ListOptOuts()
	if err != nil {
		t.Fatal(err)
	}
	if len(optouts) != 1 {
		t.Fatalf("unexpected ledger: %+v", optouts)
	}
}
