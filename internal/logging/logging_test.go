package logging_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"todoctl/internal/config"
	"todoctl/internal/logging"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]log.Level{
		"debug":   log.DebugLevel,
		"INFO":    log.InfoLevel,
		"warning": log.WarnLevel,
		"error":   log.ErrorLevel,
		"":        log.WarnLevel,
		"verbose": log.WarnLevel,
	}
	for in, want := range tests {
		if got := logging.ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q): expected %v, got %v", in, want, got)
		}
	}
}

func TestOptionsFromConfig_DebugWins(t *testing.T) {
	cfg, _ := config.New(t.TempDir())
	cfg.LogLevel = "error"
	cfg.Debug = true

	opts := logging.OptionsFromConfig(cfg)
	if opts.Level != log.DebugLevel {
		t.Errorf("expected debug level, got %v", opts.Level)
	}
	if opts.Prefix != config.AppName {
		t.Errorf("expected prefix %q, got %q", config.AppName, opts.Prefix)
	}
}

func TestNew_JSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, logging.Options{Level: log.InfoLevel, Formatter: log.JSONFormatter})

	logger.Info("loaded todos", "count", 3)
	logger.Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, `"msg":"loaded todos"`) {
		t.Errorf("expected json msg, got %q", out)
	}
	if !strings.Contains(out, `"count":3`) {
		t.Errorf("expected count field, got %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("expected debug line suppressed, got %q", out)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todoctl.log")
	logger, closer, err := logging.OpenFile(path, logging.Options{Level: log.DebugLevel})
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	logger.Debug("request", "method", "GET")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "request") {
		t.Errorf("expected log line in file, got %q", data)
	}
}
