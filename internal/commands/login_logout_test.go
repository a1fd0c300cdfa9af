package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"todoctl/internal/commands"
	"todoctl/internal/config"
	"todoctl/internal/exitcode"
)

// TestLoginCommand_NoToken verifies login requires a token argument
func TestLoginCommand_NoToken(t *testing.T) {
	cmd := &commands.LoginCmd{}

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: t.TempDir()}

	code := cmd.Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if outBuf.String() != "" {
		t.Errorf("expected no stdout, got %q", outBuf.String())
	}
	if errBuf.String() != "error: token required\n" {
		t.Errorf("unexpected stderr %q", errBuf.String())
	}
}

// TestLoginCommand_SavesToken verifies the token is written with mode 0600
func TestLoginCommand_SavesToken(t *testing.T) {
	cmd := &commands.LoginCmd{}

	tmpDir := filepath.Join(t.TempDir(), "todoctl")
	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: tmpDir}

	code := cmd.Run(context.Background(), cfg, nil, []string{"secret"}, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d: %s", exitcode.Success, code, errBuf.String())
	}
	if outBuf.String() != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", outBuf.String())
	}

	info, err := os.Stat(cfg.TokenPath())
	if err != nil {
		t.Fatalf("token.json not written: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %o", info.Mode().Perm())
	}

	token, err := cfg.LoadToken()
	if err != nil {
		t.Fatalf("LoadToken: %v", err)
	}
	if token.AccessToken != "secret" {
		t.Errorf("expected access token %q, got %q", "secret", token.AccessToken)
	}
}

// TestLoginCommand_FromStdin verifies "-" reads the token from input
func TestLoginCommand_FromStdin(t *testing.T) {
	cmd := &commands.LoginCmd{}
	cmd.SetInput(strings.NewReader("  piped-token \n"))

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: t.TempDir()}

	code := cmd.Run(context.Background(), cfg, nil, []string{"-"}, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d: %s", exitcode.Success, code, errBuf.String())
	}
	token, err := cfg.LoadToken()
	if err != nil {
		t.Fatalf("LoadToken: %v", err)
	}
	if token.AccessToken != "piped-token" {
		t.Errorf("expected trimmed token, got %q", token.AccessToken)
	}
}

// TestLoginCommand_AlreadyLoggedIn verifies the same token is not rewritten
func TestLoginCommand_AlreadyLoggedIn(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}
	if err := cfg.SaveToken("secret"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}

	var outBuf, errBuf bytes.Buffer
	code := (&commands.LoginCmd{}).Run(context.Background(), cfg, nil, []string{"secret"}, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if outBuf.String() != "already logged in\n" {
		t.Errorf("expected 'already logged in\\n', got %q", outBuf.String())
	}
}

// TestLoginCommand_ReplacesCorruptToken verifies a corrupt token.json is overwritten
func TestLoginCommand_ReplacesCorruptToken(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "token.json"), []byte("not json"), 0600); err != nil {
		t.Fatalf("failed to write token.json: %v", err)
	}

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: tmpDir}
	code := (&commands.LoginCmd{}).Run(context.Background(), cfg, nil, []string{"fresh"}, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if outBuf.String() != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", outBuf.String())
	}
	token, err := cfg.LoadToken()
	if err != nil || token.AccessToken != "fresh" {
		t.Errorf("expected token replaced, got %v, %v", token, err)
	}
}

// TestLogoutCommand_OnlyRemovesToken verifies logout only removes token.json
func TestLogoutCommand_OnlyRemovesToken(t *testing.T) {
	cmd := &commands.LogoutCmd{}

	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "config.toml")
	if err := os.WriteFile(configPath, []byte(`api_url = "http://localhost:5001/api"`), 0600); err != nil {
		t.Fatalf("failed to write config.toml: %v", err)
	}

	tokenPath := filepath.Join(tmpDir, "token.json")
	if err := os.WriteFile(tokenPath, []byte(`{"access_token":"test"}`), 0600); err != nil {
		t.Fatalf("failed to write token.json: %v", err)
	}

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{
		Dir:   tmpDir,
		Quiet: false,
	}

	code := cmd.Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if errBuf.String() != "" {
		t.Errorf("expected no stderr, got %q", errBuf.String())
	}
	if outBuf.String() != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", outBuf.String())
	}

	if _, err := os.Stat(tokenPath); !os.IsNotExist(err) {
		t.Error("token.json should have been deleted")
	}
	if _, err := os.Stat(configPath); err != nil {
		t.Error("config.toml should NOT have been deleted")
	}
}

// TestLogoutCommand_NotLoggedIn verifies logout handles not being logged in
func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	cmd := &commands.LogoutCmd{}

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: false,
	}

	code := cmd.Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if errBuf.String() != "" {
		t.Errorf("expected no stderr, got %q", errBuf.String())
	}
	if outBuf.String() != "not logged in\n" {
		t.Errorf("expected 'not logged in\\n', got %q", outBuf.String())
	}
}

// TestLogoutCommand_NotLoggedInQuiet verifies logout is quiet when not logged in
func TestLogoutCommand_NotLoggedInQuiet(t *testing.T) {
	cmd := &commands.LogoutCmd{}

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: true,
	}

	code := cmd.Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if errBuf.String() != "" {
		t.Errorf("expected no stderr, got %q", errBuf.String())
	}
	if outBuf.String() != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", outBuf.String())
	}
}
