package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"todoctl/internal/config"
	"todoctl/internal/exitcode"
	"todoctl/internal/output"
	"todoctl/internal/service"
)

func init() {
	Register(&ShowCmd{})
}

// ShowCmd implements the show command.
type ShowCmd struct {
	now func() time.Time
}

// SetClock sets the time source used for relative timestamps (for testing).
func (c *ShowCmd) SetClock(now func() time.Time) {
	c.now = now
}

func (c *ShowCmd) Name() string       { return "show" }
func (c *ShowCmd) Aliases() []string  { return nil }
func (c *ShowCmd) Synopsis() string   { return "Show one todo in full" }
func (c *ShowCmd) Usage() string      { return "todoctl show <ref>" }
func (c *ShowCmd) NeedsBackend() bool { return true }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	_, todo, code := resolveArgs(ctx, svc, args, errOut)
	if code != exitcode.Success {
		return code
	}

	now := time.Now
	if c.now != nil {
		now = c.now
	}

	output.FormatDetail(out, todo, now())
	if body := output.RenderMarkdown(todo.Description, output.StyleFor(out)); body != "" {
		fmt.Fprintf(out, "\n%s\n", body)
	}
	return exitcode.Success
}
