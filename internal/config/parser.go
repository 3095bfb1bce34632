package config

import (
	"bytes"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"github.com/rogpeppe/go-internal/lockedfile"

	"github.com/jkriig/privacy-sweep/internal/hujsonx"
)

// ConfigVersion is the current version of the config file format.
const ConfigVersion = 1

// ReadConfig reads the configuration from the path. The file may
// contain comments and trailing commas.
func ReadConfig(path string) (*Config, error) {
	b, err := lockedfile.Read(path)
	if err != nil {
		return nil, err
	}
	c, err := ParseConfig(b)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	c.path = path
	return c, nil
}

// ParseConfig returns config from JSON bytes.
func ParseConfig(b []byte) (*Config, error) {
	var c Config
	if err := hujsonx.Unmarshal(b, &c); err != nil {
		return nil, errors.Wrap(err, "parsing json")
	}
	c.Default()
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating")
	}
	return &c, nil
}

// Config for a privacy-sweep installation.
type Config struct {
	// Private settings
	Comment           string `json:"_"`
	Version           int64  `json:"_config_version"`
	AcknowledgedRisks bool   `json:"_acknowledged_risks"`

	Defaults  Defaults  `json:"defaults"`
	Discovery Discovery `json:"discovery"`
	Scrape    Scrape    `json:"scrape"`
	Profile   Profile   `json:"profile"`

	mutex sync.Mutex
	path  string
}

// Write the config file in json to the path. Comments are not
// preserved across writes.
func (c *Config) Write() error {
	c.Lock()
	defer c.Unlock()
	if c.path == "" {
		return errors.New("config file path is empty")
	}
	configJSON, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "serializing config")
	}
	if err := lockedfile.Write(c.path, bytes.NewReader(configJSON), 0644); err != nil {
		return errors.Wrap(err, "writing config JSON")
	}
	return nil
}

// Lock acquires the write mutex
func (c *Config) Lock() {
	c.mutex.Lock()
}

// Unlock releases the write mutex
func (c *Config) Unlock() {
	c.mutex.Unlock()
}

// Default fills in the zero values a config file may omit.
func (c *Config) Default() {
	if c.Defaults.Group == "" {
		c.Defaults.Group = "peoplecore"
	}
	if c.Defaults.LimitOpen == 0 {
		c.Defaults.LimitOpen = 999
	}
	if c.Scrape.DelaySeconds == 0 {
		c.Scrape.DelaySeconds = 2.0
	}
	if c.Scrape.TimeoutSeconds == 0 {
		c.Scrape.TimeoutSeconds = 15.0
	}
}

// Validate the config file
func (c *Config) Validate() error {
	if c.Defaults.LimitOpen < 0 {
		return errors.New("defaults.limit_open cannot be negative")
	}
	if c.Scrape.DelaySeconds < 0 {
		return errors.New("scrape.delay_seconds cannot be negative")
	}
	if c.Scrape.TimeoutSeconds < 0 {
		return errors.New("scrape.timeout_seconds cannot be negative")
	}
	return nil
}

// MaybeMigrate checks the version of the config file on disk and, when
// it lags behind ConfigVersion, rewrites the file in the current
// format.
func (c *Config) MaybeMigrate() error {
	if c.Version < ConfigVersion {
		c.Version = ConfigVersion
		return c.Write()
	}
	return nil
}
