// Package config loads and saves the graphmail configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the on-disk configuration. Tokens live here until they
// expire; graphmail keeps no other state between invocations.
type Config struct {
	// TenantID is the Azure AD tenant, "common" for multi-tenant apps.
	TenantID string `toml:"tenant_id"`
	// ClientID is the registered application id.
	ClientID string `toml:"client_id"`
	// User is the default mailbox; empty means the signed-in user (/me).
	User string `toml:"user,omitempty"`
	// AccessToken is the current Graph access token.
	AccessToken string `toml:"access_token,omitempty"`
	// Scopes are the permission scopes granted to the token.
	Scopes []string `toml:"scopes,omitempty"`
}

// DefaultPath returns the default config file location,
// ~/.graphmail/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".graphmail", "config.toml"), nil
}

// Load reads the config file at path. A missing file yields an empty
// config, not an error: every setting has a flag fallback.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Save writes the config file, creating the parent directory when
// needed. The file holds a token, so it is written user-only.
func Save(path string, cfg *Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
