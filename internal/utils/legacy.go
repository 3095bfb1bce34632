package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// legacySettingsFile is where the predecessor pdr_scanner script
// stored its saved profile.
const legacySettingsFile = ".pdr_scanner.json"

type legacySettings struct {
	DefaultQuery string `json:"default_query"`
}

// LegacyDefaultQuery returns the default query saved by the
// predecessor script, or an empty string when there is none. The
// legacy file is left in place.
func LegacyDefaultQuery() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return legacyDefaultQueryFromFile(filepath.Join(home, legacySettingsFile))
}

func legacyDefaultQueryFromFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var settings legacySettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return ""
	}
	return settings.DefaultQuery
}
