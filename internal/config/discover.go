package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathEnv names a config file explicitly.
const PathEnv = "POISKKINO_CONFIG"

// DefaultPath returns the XDG-compliant default config path.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./config.toml"
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "poiskkino", "config.toml")
}

// Discover finds the config file using the standard search order:
//  1. POISKKINO_CONFIG environment variable
//  2. ./config.toml
//  3. $XDG_CONFIG_HOME/poiskkino/config.toml
//  4. /etc/poiskkino/config.toml
//
// It returns "" without error when no file exists; the defaults apply then.
func Discover() (string, error) {
	if envPath := os.Getenv(PathEnv); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("%s=%s: %w", PathEnv, envPath, err)
		}
		return envPath, nil
	}

	for _, p := range searchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

func searchPaths() []string {
	return []string{
		"./config.toml",
		DefaultPath(),
		"/etc/poiskkino/config.toml",
	}
}

// SearchPaths describes where Discover looks, for error messages.
func SearchPaths() string {
	return strings.Join(searchPaths(), ", ")
}
