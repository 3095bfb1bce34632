package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apex/log"

	"github.com/jkriig/privacy-sweep/internal/config"
	"github.com/jkriig/privacy-sweep/internal/profile"
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

func newProfileCLI(t *testing.T) *sweeptest.FakeSweeperCLI {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.ReadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	return &sweeptest.FakeSweeperCLI{FakeConfig: cfg}
}

func TestDosetSavesTheProvidedQuery(t *testing.T) {
	withFakeLogger(t)
	cli := newProfileCLI(t)
	err := doset(cli, "Jane Anne Doe, Austin TX", false, nil)
	if err != nil {
		t.Fatal(err)
	}
	query, err := profile.Load(cli.FakeConfig)
	if err != nil {
		t.Fatal(err)
	}
	if query != "Jane Anne Doe, Austin TX" {
		t.Fatalf("unexpected query: %q", query)
	}
}

func TestDosetPromptsWhenTheFlagIsMissing(t *testing.T) {
	withFakeLogger(t)
	cli := newProfileCLI(t)
	err := doset(cli, "", false, func() (string, error) {
		return "Jane Anne Doe, Austin TX", nil
	})
	if err != nil {
		t.Fatal(err)
	}
	query, err := profile.Load(cli.FakeConfig)
	if err != nil {
		t.Fatal(err)
	}
	if query != "Jane Anne Doe, Austin TX" {
		t.Fatalf("unexpected query: %q", query)
	}
}

func TestDosetRefusesToPromptInBatchMode(t *testing.T) {
	withFakeLogger(t)
	cli := newProfileCLI(t)
	cli.FakeIsBatch = true
	err := doset(cli, "", false, nil)
	if err == nil || !strings.Contains(err.Error(), "batch mode") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDosetRejectsUnparsableQueries(t *testing.T) {
	withFakeLogger(t)
	err := doset(newProfileCLI(t), " , , ", false, nil)
	if err == nil || !strings.Contains(err.Error(), "cannot parse") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDoshowWithoutProfile(t *testing.T) {
	handler := withFakeLogger(t)
	if err := doshow(newProfileCLI(t)); err != nil {
		t.Fatal(err)
	}
	entries := handler.Entries()
	if len(entries) != 1 || !strings.Contains(entries[0].Message, "no saved profile") {
		t.Fatalf("unexpected entries: %v", entries)
	}
}

func TestDormDeletesTheProfile(t *testing.T) {
	withFakeLogger(t)
	cli := newProfileCLI(t)
	if err := doset(cli, "Jane Anne Doe, Austin TX", false, nil); err != nil {
		t.Fatal(err)
	}
	if err := dorm(cli); err != nil {
		t.Fatal(err)
	}
	query, err := profile.Load(cli.FakeConfig)
	if err != nil {
		t.Fatal(err)
	}
	if query != "" {
		t.Fatalf("expected no profile, got %q", query)
	}
}
