package output_test

import (
	"bytes"
	"testing"
	"time"

	"todoctl/internal/output"
	"todoctl/internal/service"
	"todoctl/internal/state"
)

func TestFormatTask(t *testing.T) {
	var buf bytes.Buffer
	output.FormatTask(&buf, 1, service.Todo{Title: "Buy milk"})
	output.FormatTask(&buf, 12, service.Todo{Title: "line\nbreak", Completed: true})
	output.FormatTask(&buf, 3, service.Todo{Title: "   "})

	expected := "   1  [ ] Buy milk\n  12  [x] line break\n   3  [ ] (untitled)\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestFormatStats(t *testing.T) {
	var buf bytes.Buffer
	output.FormatStats(&buf, state.Stats{Total: 3, Active: 2, Completed: 1})

	expected := "total: 3  active: 2  completed: 1\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestFormatDetail(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	created := service.NewTimestamp(now.Add(-2 * time.Hour))

	var buf bytes.Buffer
	output.FormatDetail(&buf, service.Todo{ID: 4, Title: "Buy milk", CreatedAt: created, UpdatedAt: created}, now)
	expected := "#4 Buy milk\nstatus:  active\ncreated: 2 hours ago\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}

	buf.Reset()
	edited := service.Todo{
		ID: 4, Title: "Buy milk", Completed: true,
		CreatedAt: created, UpdatedAt: service.NewTimestamp(now.Add(-time.Minute)),
	}
	output.FormatDetail(&buf, edited, now)
	expected = "#4 Buy milk\nstatus:  completed\ncreated: 2 hours ago\nupdated: 1 minute ago\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestEmptyMessage(t *testing.T) {
	if got := output.EmptyMessage(state.FilterAll); got != "no todos yet" {
		t.Errorf("unexpected message for all: %q", got)
	}
	if got := output.EmptyMessage(state.FilterActive); got != "no active todos" {
		t.Errorf("unexpected message for active: %q", got)
	}
	if got := output.EmptyMessage(state.FilterCompleted); got != "no completed todos yet" {
		t.Errorf("unexpected message for completed: %q", got)
	}
}

func TestRelativeTime_Zero(t *testing.T) {
	if got := output.RelativeTime(service.Timestamp{}, time.Now()); got != "unknown" {
		t.Errorf("expected unknown, got %q", got)
	}
}
