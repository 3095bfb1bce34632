package config

// Defaults are the settings applied when a flag is not given.
type Defaults struct {
	Group     string `json:"group"`
	LimitOpen int64  `json:"limit_open"`
}

// Discovery settings
type Discovery struct {
	SafeDiscovery   bool `json:"safe_discovery"`
	EnginesOnlyOpen bool `json:"engines_only_open"`
}

// Scrape settings
type Scrape struct {
	DelaySeconds   float64 `json:"delay_seconds"`
	TimeoutSeconds float64 `json:"timeout_seconds"`
}

// Profile settings
type Profile struct {
	DefaultQuery string `json:"default_query"`
	UseKeyring   bool   `json:"use_keyring"`
}
