package service

import (
	"errors"
	"fmt"
)

// ErrRequestFailed is the generic failure every backend call reports.
// Use errors.Is to test for it.
var ErrRequestFailed = errors.New("request failed")

// Op names the backend operation that failed.
type Op string

const (
	OpList   Op = "list"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// RequestError is returned by Service implementations for any non-2xx
// response, transport failure, or undecodable body.
type RequestError struct {
	Op     Op
	Status int // 0 when no response was received
	Err    error
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s todos: %s (status %d)", e.Op, ErrRequestFailed, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s todos: %s: %v", e.Op, ErrRequestFailed, e.Err)
	}
	return fmt.Sprintf("%s todos: %s", e.Op, ErrRequestFailed)
}

func (e *RequestError) Unwrap() error { return e.Err }

// Is makes every RequestError match ErrRequestFailed.
func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}

// Fail builds a RequestError for op.
func Fail(op Op, status int, err error) error {
	return &RequestError{Op: op, Status: status, Err: err}
}
