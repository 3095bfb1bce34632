package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// RequiredDirs returns the required sweep home directories
func RequiredDirs(home string) []string {
	requiredDirs := []string{}
	requiredSubdirs := []string{"db", "reports", "sites.d"}
	for _, d := range requiredSubdirs {
		requiredDirs = append(requiredDirs, filepath.Join(home, d))
	}
	return requiredDirs
}

// ConfigPath returns the default config file path for the given home
func ConfigPath(home string) string {
	return filepath.Join(home, "config.json")
}

// DBDir returns the database dir for the given name
func DBDir(home string, name string) string {
	return filepath.Join(home, "db", fmt.Sprintf("%s.db", name))
}

// ReportsDir returns the reports dir for the given home
func ReportsDir(home string) string {
	return filepath.Join(home, "reports")
}

// SitesDDir returns the directory containing user-defined site definitions
func SitesDDir(home string) string {
	return filepath.Join(home, "sites.d")
}

// LockPath returns the path of the lock file guarding the home
func LockPath(home string) string {
	return filepath.Join(home, "lock")
}

// GetSweepHome returns the path of the sweep home directory honoring
// the PRIVACY_SWEEP_HOME environment variable when set.
func GetSweepHome() (string, error) {
	if env := os.Getenv("PRIVACY_SWEEP_HOME"); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".privacy-sweep"), nil
}
