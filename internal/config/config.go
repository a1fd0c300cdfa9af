// Package config handles the configuration directory, settings and token files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
)

const (
	// AppName is the application directory name.
	AppName = "todoctl"

	// ConfigFile is the settings filename inside the config directory.
	ConfigFile = "config.toml"

	// TokenFile is the stored bearer token filename.
	TokenFile = "token.json"

	// LogFile is where the interactive UI writes its log.
	LogFile = "todoctl.log"

	// DefaultAPIURL is the backend base URL used when nothing else is configured.
	DefaultAPIURL = "http://localhost:5001/api"

	// DefaultTimeout bounds a single backend request.
	DefaultTimeout = 5 * time.Second

	// DefaultLogLevel is used unless --debug or log_level says otherwise.
	DefaultLogLevel = "warn"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// APIURL is the backend base URL, without a trailing slash.
	APIURL string

	// Timeout bounds each backend request.
	Timeout time.Duration

	// Token authenticates backend requests when set.
	Token *oauth2.Token

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// LogFormat is one of text, json, logfmt.
	LogFormat string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a new Config with defaults and the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todoctl or $HOME/.config/todoctl.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:       dir,
		APIURL:    DefaultAPIURL,
		Timeout:   DefaultTimeout,
		LogLevel:  DefaultLogLevel,
		LogFormat: "text",
	}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigPath returns the path to the settings file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// TokenPath returns the path to the stored token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// LogPath returns the path to the UI log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, LogFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// LoadToken reads the token file.
func (c *Config) LoadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(c.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", TokenFile, err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", TokenFile, err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("invalid %s: empty access token", TokenFile)
	}
	return &token, nil
}

// SaveToken writes a bearer token to the token file with mode 0600.
func (c *Config) SaveToken(accessToken string) error {
	if err := c.EnsureDir(); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	token := &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.TokenPath(), data, 0600)
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
