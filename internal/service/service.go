// Package service defines the backend-agnostic interface for todo operations.
package service

import "context"

// Service defines the interface for todo backend operations.
// Every call is a single attempt; failures come back as *RequestError.
type Service interface {
	// ListTodos returns every todo in backend order.
	ListTodos(ctx context.Context) ([]Todo, error)

	// CreateTodo creates a todo and returns the stored record,
	// including the backend-assigned ID and timestamps.
	CreateTodo(ctx context.Context, in TodoInput) (Todo, error)

	// UpdateTodo replaces the todo with the given ID by t
	// and returns the record as stored by the backend.
	UpdateTodo(ctx context.Context, id int64, t Todo) (Todo, error)

	// DeleteTodo deletes the todo with the given ID.
	DeleteTodo(ctx context.Context, id int64) (Ack, error)
}
