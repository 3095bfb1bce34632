package config

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func getShasum(path string) (string, error) {
	hasher := sha256.New()
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func TestParseConfig(t *testing.T) {
	config, err := ReadConfig("testdata/valid-config.json")
	if err != nil {
		t.Fatal(err)
	}
	if config.AcknowledgedRisks != true {
		t.Fatal("not the expected value for AcknowledgedRisks")
	}
	if config.Defaults.Group != "brokers_plus" {
		t.Fatal("not the expected value for Defaults.Group")
	}
	if config.Defaults.LimitOpen != 25 {
		t.Fatal("not the expected value for Defaults.LimitOpen")
	}
	if config.Scrape.DelaySeconds != 1.5 {
		t.Fatal("not the expected value for Scrape.DelaySeconds")
	}
	if config.Scrape.TimeoutSeconds != 15.0 {
		t.Fatal("the timeout default was not applied")
	}
	if config.Profile.DefaultQuery != "Jane Doe, Austin TX" {
		t.Fatal("not the expected value for Profile.DefaultQuery")
	}
}

func TestParseConfigValidation(t *testing.T) {
	if _, err := ParseConfig([]byte(`{"defaults": {"limit_open": -1}}`)); err == nil {
		t.Fatal("expected a validation error")
	}
	if _, err := ParseConfig([]byte(`{"scrape": {"delay_seconds": -0.5}}`)); err == nil {
		t.Fatal("expected a validation error")
	}
}

func TestUpdateConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")

	data, err := os.ReadFile("testdata/config-v0.json")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		t.Fatal(err)
	}

	origShasum, err := getShasum(configPath)
	if err != nil {
		t.Fatal(err)
	}
	config, err := ReadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	origAcknowledged := config.AcknowledgedRisks
	origGroup := config.Defaults.Group

	if err := config.MaybeMigrate(); err != nil {
		t.Fatal(err)
	}
	migratedShasum, err := getShasum(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if migratedShasum == origShasum {
		t.Fatal("the config was not migrated")
	}

	newConfig, err := ReadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if newConfig.Version != ConfigVersion {
		t.Fatal("the version was not bumped")
	}
	if newConfig.AcknowledgedRisks != origAcknowledged {
		t.Error("AcknowledgedRisks differs")
	}
	if newConfig.Defaults.Group != origGroup {
		t.Error("Defaults.Group differs")
	}

	// Check that the config file stays the same if it's already the most
	// up to date version
	if err := newConfig.MaybeMigrate(); err != nil {
		t.Fatal(err)
	}
	finalShasum, err := getShasum(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if migratedShasum != finalShasum {
		t.Fatal("the config was migrated again")
	}
}
