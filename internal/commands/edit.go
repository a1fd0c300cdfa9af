package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todoctl/internal/config"
	"todoctl/internal/exitcode"
	"todoctl/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
// Unset flags keep the current value.
type EditCmd struct {
	title       optionalString
	description optionalString
}

// optionalString is a flag.Value that remembers whether it was set.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}

// SetTitle sets the new title (for testing).
func (c *EditCmd) SetTitle(t string) { c.title.Set(t) }

// SetDescription sets the new description (for testing).
func (c *EditCmd) SetDescription(d string) { c.description.Set(d) }

func (c *EditCmd) Name() string       { return "edit" }
func (c *EditCmd) Aliases() []string  { return nil }
func (c *EditCmd) Synopsis() string   { return "Change a todo's title or description" }
func (c *EditCmd) Usage() string      { return "todoctl edit [--title <text>] [--description <text>] <ref>" }
func (c *EditCmd) NeedsBackend() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.title, c.description = optionalString{}, optionalString{}
	fs.Var(&c.title, "title", "")
	fs.Var(&c.title, "t", "")
	fs.Var(&c.description, "description", "")
	fs.Var(&c.description, "d", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if !c.title.set && !c.description.set {
		fmt.Fprintln(errOut, "error: nothing to change (use --title or --description)")
		return exitcode.UserError
	}
	if c.title.set && strings.TrimSpace(c.title.value) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	store, todo, code := resolveArgs(ctx, svc, args, errOut)
	if code != exitcode.Success {
		return code
	}

	if c.title.set {
		todo.Title = strings.TrimSpace(c.title.value)
	}
	if c.description.set {
		todo.Description = strings.TrimSpace(c.description.value)
	}

	if _, err := store.EditTask(ctx, todo.ID, todo); err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
