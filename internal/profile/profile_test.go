package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zalando/go-keyring"

	"github.com/jkriig/privacy-sweep/internal/config"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := config.ReadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestSaveAndLoadInConfig(t *testing.T) {
	c := newTestConfig(t)
	if err := Save(c, "Jane Doe, Austin TX", false); err != nil {
		t.Fatal(err)
	}
	query, err := Load(c)
	if err != nil {
		t.Fatal(err)
	}
	if query != "Jane Doe, Austin TX" {
		t.Fatalf("unexpected query: %q", query)
	}
	if c.Profile.DefaultQuery != "Jane Doe, Austin TX" {
		t.Fatal("expected the query in the config file")
	}
}

func TestSaveInKeyringKeepsConfigClean(t *testing.T) {
	keyring.MockInit()
	c := newTestConfig(t)
	if err := Save(c, "Jane Doe, Austin TX", true); err != nil {
		t.Fatal(err)
	}
	if c.Profile.DefaultQuery != "" {
		t.Fatal("expected no query in the config file")
	}
	if !c.Profile.UseKeyring {
		t.Fatal("expected use_keyring to be set")
	}
	query, err := Load(c)
	if err != nil {
		t.Fatal(err)
	}
	if query != "Jane Doe, Austin TX" {
		t.Fatalf("unexpected query: %q", query)
	}
}

func TestLoadWithEmptyKeyring(t *testing.T) {
	keyring.MockInit()
	c := newTestConfig(t)
	c.Profile.UseKeyring = true
	query, err := Load(c)
	if err != nil {
		t.Fatal(err)
	}
	if query != "" {
		t.Fatalf("expected no query, got %q", query)
	}
}

func TestRemoveClearsBothStores(t *testing.T) {
	keyring.MockInit()
	c := newTestConfig(t)
	if err := Save(c, "Jane Doe, Austin TX", true); err != nil {
		t.Fatal(err)
	}
	if err := Remove(c); err != nil {
		t.Fatal(err)
	}
	if c.Profile.UseKeyring || c.Profile.DefaultQuery != "" {
		t.Fatal("expected an empty profile")
	}
	query, err := Load(c)
	if err != nil {
		t.Fatal(err)
	}
	if query != "" {
		t.Fatalf("expected no query, got %q", query)
	}
}
