package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"todoctl/internal/config"
	"todoctl/internal/exitcode"
	"todoctl/internal/service"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command. It stores a bearer token for the backend.
type LoginCmd struct {
	in io.Reader
}

// SetInput sets where "-" reads the token from (for testing).
func (c *LoginCmd) SetInput(r io.Reader) {
	c.in = r
}

func (c *LoginCmd) Name() string       { return "login" }
func (c *LoginCmd) Aliases() []string  { return nil }
func (c *LoginCmd) Synopsis() string   { return "Store a bearer token for the backend" }
func (c *LoginCmd) Usage() string      { return "todoctl login <token|->" }
func (c *LoginCmd) NeedsBackend() bool { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: token required")
		return exitcode.UserError
	}

	token := args[0]
	if token == "-" {
		var err error
		if token, err = c.readToken(); err != nil {
			fmt.Fprintf(errOut, "error: failed to read token: %v\n", err)
			return exitcode.UserError
		}
	}
	token = strings.TrimSpace(token)
	if token == "" {
		fmt.Fprintln(errOut, "error: token required")
		return exitcode.UserError
	}

	if cfg.HasToken() {
		if existing, err := cfg.LoadToken(); err == nil && existing.AccessToken == token {
			if !cfg.Quiet {
				fmt.Fprintln(out, "already logged in")
			}
			return exitcode.Success
		}
	}

	if err := cfg.SaveToken(token); err != nil {
		fmt.Fprintf(errOut, "error: failed to save token: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

func (c *LoginCmd) readToken() (string, error) {
	in := c.in
	if in == nil {
		in = os.Stdin
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return line, nil
}
