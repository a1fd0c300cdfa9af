package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"

	"todoctl/internal/exitcode"
	"todoctl/internal/service"
	"todoctl/internal/state"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Position int   // 1-based position in the unfiltered list, 0 if ByID
	ID       int64 // backend id, 0 unless ByID
	ByID     bool  // true for the #<id> form
}

func (r TaskRef) String() string {
	if r.ByID {
		return fmt.Sprintf("#%d", r.ID)
	}
	return strconv.Itoa(r.Position)
}

var (
	// ErrTaskRefRequired indicates no task reference was provided.
	ErrTaskRefRequired = errors.New("task reference required")

	// ErrOutOfRange indicates a position past the end of the list.
	ErrOutOfRange = errors.New("task number out of range")

	// ErrNoSuchTodo indicates an id that is not in the list.
	ErrNoSuchTodo = errors.New("todo not found")
)

// ParseTaskRef parses a task reference from args.
//
// Parsing rules:
// 1. No args → error: task reference required
// 2. All digits (e.g., 3) → list position
// 3. # followed by digits (e.g., #42) → backend id
// 4. Otherwise → error: invalid task reference: <ref>
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}

	arg := args[0]

	if isAllDigits(arg) {
		num, err := strconv.Atoi(arg)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{Position: num}, nil
	}

	if rest, ok := strings.CutPrefix(arg, "#"); ok && isAllDigits(rest) {
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{ID: id, ByID: true}, nil
	}

	return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ResolveTaskRef finds the todo ref points at in the loaded store.
func ResolveTaskRef(store *state.Store, ref TaskRef) (service.Todo, error) {
	if ref.ByID {
		t, ok := store.Find(ref.ID)
		if !ok {
			return service.Todo{}, fmt.Errorf("%w: %s", ErrNoSuchTodo, ref)
		}
		return t, nil
	}

	tasks := store.Tasks()
	if ref.Position < 1 || ref.Position > len(tasks) {
		return service.Todo{}, fmt.Errorf("%w: %d", ErrOutOfRange, ref.Position)
	}
	return tasks[ref.Position-1], nil
}

// loadStore creates a store over svc and loads it.
func loadStore(ctx context.Context, svc service.Service) (*state.Store, error) {
	store := state.New(svc, log.Default())
	if err := store.Load(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// resolveArgs parses args as a task reference and resolves it against a
// freshly loaded store. On failure it reports to errOut and returns a
// non-zero exit code.
func resolveArgs(ctx context.Context, svc service.Service, args []string, errOut io.Writer) (*state.Store, service.Todo, int) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return nil, service.Todo{}, exitcode.UserError
	}

	store, err := loadStore(ctx, svc)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return nil, service.Todo{}, exitcode.BackendError
	}

	todo, err := ResolveTaskRef(store, ref)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return nil, service.Todo{}, exitcode.UserError
	}
	return store, todo, exitcode.Success
}
