// Package state holds the authoritative in-memory todo list and reconciles it
// with backend responses.
//
// The list is a cache of the backend: it only changes after a successful
// call, using the record the backend echoed back. Network calls are made
// without holding the lock, so two racing edits of the same todo resolve
// to whichever response is merged last.
package state

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"todoctl/internal/service"
)

// User-facing messages set on the store when a call fails.
const (
	MsgLoadFailed   = "Failed to load todos. Make sure the backend is running."
	MsgCreateFailed = "Failed to add todo."
	MsgUpdateFailed = "Failed to update todo."
	MsgDeleteFailed = "Failed to delete todo."
)

// Store owns the todo list, the loading and error flags, and the active filter.
type Store struct {
	svc service.Service
	log *log.Logger

	mu      sync.RWMutex
	tasks   []service.Todo
	loading bool
	err     string
	filter  Filter

	subMu  sync.Mutex
	subs   map[int]func()
	nextID int
}

// New creates a store over svc. Nothing is loaded until Load is called,
// so the store starts out loading.
func New(svc service.Service, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{
		svc:     svc,
		log:     logger,
		loading: true,
		subs:    make(map[int]func()),
	}
}

// Subscribe registers fn to run after every state change.
// Listeners run on the goroutine that made the change, without the store lock held.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// update applies fn under the write lock and then notifies subscribers.
func (s *Store) update(fn func()) {
	s.mu.Lock()
	fn()
	s.mu.Unlock()
	s.notify()
}

// Load fetches the full list and replaces the cached one.
// On failure the cached list is kept and the load error message is set.
func (s *Store) Load(ctx context.Context) error {
	s.update(func() {
		s.loading = true
		s.err = ""
	})

	todos, err := s.svc.ListTodos(ctx)
	if err != nil {
		s.log.Info("load todos", "err", err)
		s.update(func() {
			s.err = MsgLoadFailed
			s.loading = false
		})
		return err
	}

	s.log.Debug("loaded todos", "count", len(todos))
	s.update(func() {
		s.tasks = append([]service.Todo(nil), todos...)
		s.loading = false
	})
	return nil
}

// AddTask creates a todo and appends the backend's record to the list.
// On failure the error is returned so the caller can keep its draft.
func (s *Store) AddTask(ctx context.Context, draft service.TodoInput) (service.Todo, error) {
	created, err := s.svc.CreateTodo(ctx, draft)
	if err != nil {
		s.log.Info("create todo", "title", draft.Title, "err", err)
		s.update(func() { s.err = MsgCreateFailed })
		return service.Todo{}, err
	}

	s.log.Debug("created todo", "id", created.ID)
	s.update(func() {
		s.tasks = append(s.tasks, created)
	})
	return created, nil
}

// EditTask replaces the todo with the given ID by rec on the backend and
// swaps the backend's record into the list in place.
func (s *Store) EditTask(ctx context.Context, id int64, rec service.Todo) (service.Todo, error) {
	updated, err := s.svc.UpdateTodo(ctx, id, rec)
	if err != nil {
		s.log.Info("update todo", "id", id, "err", err)
		s.update(func() { s.err = MsgUpdateFailed })
		return service.Todo{}, err
	}

	s.log.Debug("updated todo", "id", id)
	s.update(func() {
		for i := range s.tasks {
			if s.tasks[i].ID == id {
				s.tasks[i] = updated
				return
			}
		}
	})
	return updated, nil
}

// RemoveTask deletes the todo with the given ID and drops it from the list.
func (s *Store) RemoveTask(ctx context.Context, id int64) error {
	if _, err := s.svc.DeleteTodo(ctx, id); err != nil {
		s.log.Info("delete todo", "id", id, "err", err)
		s.update(func() { s.err = MsgDeleteFailed })
		return err
	}

	s.log.Debug("deleted todo", "id", id)
	s.update(func() {
		kept := s.tasks[:0:0]
		for _, t := range s.tasks {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		s.tasks = kept
	})
	return nil
}

// Tasks returns a copy of the cached list.
func (s *Store) Tasks() []service.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]service.Todo(nil), s.tasks...)
}

// Find returns the cached todo with the given ID.
func (s *Store) Find(id int64) (service.Todo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Todo{}, false
}

// Loading reports whether a load is in flight (or none has happened yet).
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the current user-facing error message, or "".
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// ClearError dismisses the current error message.
func (s *Store) ClearError() {
	s.update(func() { s.err = "" })
}

// Filter returns the active filter.
func (s *Store) Filter() Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// SetFilter changes the active filter.
func (s *Store) SetFilter(f Filter) {
	s.update(func() { s.filter = f })
}

// View derives the filtered list and stats from the current state.
func (s *Store) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Derive(s.tasks, s.filter)
}
