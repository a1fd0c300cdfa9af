// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"todoctl/internal/service"
)

// ErrNotFound is returned when a todo does not exist.
var ErrNotFound = errors.New("not found")

// BaseTime is the first timestamp handed out by a FakeService clock.
var BaseTime = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

// FakeService is an in-memory implementation of service.Service for testing.
// Its clock advances one second per mutation so updated_at always changes.
type FakeService struct {
	mu     sync.RWMutex
	todos  []service.Todo
	nextID int64
	now    time.Time

	// Error injection for testing
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error

	// Calls counts backend calls by operation.
	Calls map[service.Op]int
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		nextID: 1,
		now:    BaseTime,
		Calls:  make(map[service.Op]int),
	}
}

// AddTodo seeds a todo directly, bypassing error injection, and returns it.
func (f *FakeService) AddTodo(title, description string, completed bool) service.Todo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insert(title, description, completed)
}

// Todos returns a copy of the stored todos.
func (f *FakeService) Todos() []service.Todo {
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.Todo, len(f.todos))
	copy(result, f.todos)
	return result
}

// CallCount returns how many times op was called.
func (f *FakeService) CallCount(op service.Op) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.Calls[op]
}

func (f *FakeService) tick() service.Timestamp {
	f.now = f.now.Add(time.Second)
	return service.NewTimestamp(f.now)
}

func (f *FakeService) insert(title, description string, completed bool) service.Todo {
	ts := f.tick()
	todo := service.Todo{
		ID:          f.nextID,
		Title:       title,
		Description: description,
		Completed:   completed,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	f.nextID++
	f.todos = append(f.todos, todo)
	return todo
}

func (f *FakeService) record(op service.Op) {
	f.Calls[op]++
}

// ListTodos implements service.Service.
func (f *FakeService) ListTodos(ctx context.Context) ([]service.Todo, error) {
	f.mu.Lock()
	f.record(service.OpList)
	f.mu.Unlock()

	if f.ListErr != nil {
		return nil, service.Fail(service.OpList, 0, f.ListErr)
	}
	return f.Todos(), nil
}

// CreateTodo implements service.Service.
func (f *FakeService) CreateTodo(ctx context.Context, in service.TodoInput) (service.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(service.OpCreate)

	if f.CreateErr != nil {
		return service.Todo{}, service.Fail(service.OpCreate, 0, f.CreateErr)
	}
	if strings.TrimSpace(in.Title) == "" {
		return service.Todo{}, service.Fail(service.OpCreate, 400, errors.New("title is required"))
	}
	return f.insert(in.Title, in.Description, in.Completed), nil
}

// UpdateTodo implements service.Service.
func (f *FakeService) UpdateTodo(ctx context.Context, id int64, t service.Todo) (service.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(service.OpUpdate)

	if f.UpdateErr != nil {
		return service.Todo{}, service.Fail(service.OpUpdate, 0, f.UpdateErr)
	}
	for i, existing := range f.todos {
		if existing.ID == id {
			existing.Title = t.Title
			existing.Description = t.Description
			existing.Completed = t.Completed
			existing.UpdatedAt = f.tick()
			f.todos[i] = existing
			return existing, nil
		}
	}
	return service.Todo{}, service.Fail(service.OpUpdate, 404, ErrNotFound)
}

// DeleteTodo implements service.Service.
func (f *FakeService) DeleteTodo(ctx context.Context, id int64) (service.Ack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(service.OpDelete)

	if f.DeleteErr != nil {
		return service.Ack{}, service.Fail(service.OpDelete, 0, f.DeleteErr)
	}
	for i, existing := range f.todos {
		if existing.ID == id {
			f.todos = append(f.todos[:i], f.todos[i+1:]...)
			return service.Ack{Message: "Todo deleted"}, nil
		}
	}
	return service.Ack{}, service.Fail(service.OpDelete, 404, ErrNotFound)
}
