package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
)

// Environment variables that override file settings.
const (
	EnvAPIURL    = "TODOCTL_API_URL"
	EnvTimeout   = "TODOCTL_TIMEOUT"
	EnvToken     = "TODOCTL_TOKEN"
	EnvLogLevel  = "TODOCTL_LOG_LEVEL"
	EnvLogFormat = "TODOCTL_LOG_FORMAT"
)

// fileConfig mirrors config.toml.
type fileConfig struct {
	APIURL    string `toml:"api_url"`
	Timeout   string `toml:"timeout"`
	Token     string `toml:"token"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// Load fills c from its sources in priority order:
// 1. Defaults (set by New)
// 2. config.toml in the config directory
// 3. .env in the config directory and the working directory (never overriding the real environment)
// 4. TODOCTL_* environment variables
//
// token.json is read separately by ResolveToken.
// CLI flags are applied by the caller afterwards.
func (c *Config) Load() error {
	if err := c.loadFile(c.ConfigPath()); err != nil {
		return fmt.Errorf("loading config file %s: %w", c.ConfigPath(), err)
	}

	for _, path := range []string{filepath.Join(c.Dir, ".env"), ".env"} {
		if err := loadDotEnv(path); err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
	}

	if err := c.loadEnv(); err != nil {
		return err
	}

	c.APIURL = strings.TrimRight(c.APIURL, "/")
	return nil
}

// ResolveToken fills Token from token.json when no token was configured.
// It is a no-op when the file does not exist.
func (c *Config) ResolveToken() error {
	if c.Token != nil || !c.HasToken() {
		return nil
	}
	token, err := c.LoadToken()
	if err != nil {
		return err
	}
	c.Token = token
	return nil
}

func (c *Config) loadFile(path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	if fc.APIURL != "" {
		c.APIURL = fc.APIURL
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", fc.Timeout, err)
		}
		c.Timeout = d
	}
	if fc.Token != "" {
		c.Token = bearer(fc.Token)
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.LogFormat != "" {
		c.LogFormat = fc.LogFormat
	}
	return nil
}

func (c *Config) loadEnv() error {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvTimeout, v, err)
		}
		c.Timeout = d
	}
	if v := os.Getenv(EnvToken); v != "" {
		c.Token = bearer(v)
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.LogFormat = v
	}
	return nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

func bearer(accessToken string) *oauth2.Token {
	return &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}
}
