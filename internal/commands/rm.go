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
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	force bool
	in    io.Reader
}

// SetForce sets the force flag (for testing).
func (c *RmCmd) SetForce(force bool) {
	c.force = force
}

// SetInput sets where the confirmation answer is read from (for testing).
func (c *RmCmd) SetInput(r io.Reader) {
	c.in = r
}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"delete"} }
func (c *RmCmd) Synopsis() string   { return "Delete a todo" }
func (c *RmCmd) Usage() string      { return "todoctl rm [--force] <ref>" }
func (c *RmCmd) NeedsBackend() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "")
	fs.BoolVar(&c.force, "f", false, "")
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	store, todo, code := resolveArgs(ctx, svc, args, errOut)
	if code != exitcode.Success {
		return code
	}

	if !c.force && !c.confirm(todo, errOut) {
		if !cfg.Quiet {
			fmt.Fprintln(out, "aborted")
		}
		return exitcode.Success
	}

	if err := store.RemoveTask(ctx, todo.ID); err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// confirm asks on errOut and reads the answer. Anything but y/yes declines.
func (c *RmCmd) confirm(todo service.Todo, errOut io.Writer) bool {
	in := c.in
	if in == nil {
		in = os.Stdin
	}
	fmt.Fprintf(errOut, "delete %q? [y/N] ", todo.Title)

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
