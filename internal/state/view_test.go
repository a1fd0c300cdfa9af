package state_test

import (
	"reflect"
	"testing"

	"todoctl/internal/service"
	"todoctl/internal/state"
)

func sampleTodos() []service.Todo {
	return []service.Todo{
		{ID: 1, Title: "a", Completed: false},
		{ID: 2, Title: "b", Completed: true},
		{ID: 3, Title: "c", Completed: false},
		{ID: 4, Title: "d", Completed: true},
		{ID: 5, Title: "e", Completed: false},
	}
}

func ids(todos []service.Todo) []int64 {
	out := make([]int64, 0, len(todos))
	for _, t := range todos {
		out = append(out, t.ID)
	}
	return out
}

func TestDerive_Filters(t *testing.T) {
	todos := sampleTodos()

	tests := []struct {
		filter state.Filter
		want   []int64
	}{
		{state.FilterAll, []int64{1, 2, 3, 4, 5}},
		{state.FilterActive, []int64{1, 3, 5}},
		{state.FilterCompleted, []int64{2, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.filter.String(), func(t *testing.T) {
			v := state.Derive(todos, tt.filter)
			if got := ids(v.Tasks); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			if v.Filter != tt.filter {
				t.Errorf("expected filter %s, got %s", tt.filter, v.Filter)
			}
		})
	}
}

func TestDerive_StatsIgnoreFilter(t *testing.T) {
	for _, f := range state.Filters {
		v := state.Derive(sampleTodos(), f)
		want := state.Stats{Total: 5, Active: 3, Completed: 2}
		if v.Stats != want {
			t.Errorf("%s: expected %+v, got %+v", f, want, v.Stats)
		}
		if v.Stats.Active+v.Stats.Completed != v.Stats.Total {
			t.Errorf("%s: active+completed != total", f)
		}
	}
}

func TestDerive_AllIsIdentity(t *testing.T) {
	todos := sampleTodos()
	v := state.Derive(todos, state.FilterAll)
	if !reflect.DeepEqual(v.Tasks, todos) {
		t.Error("expected filter all to return the list unchanged")
	}
}

func TestDerive_Empty(t *testing.T) {
	v := state.Derive(nil, state.FilterActive)
	if len(v.Tasks) != 0 {
		t.Errorf("expected no tasks, got %d", len(v.Tasks))
	}
	if v.Stats != (state.Stats{}) {
		t.Errorf("expected zero stats, got %+v", v.Stats)
	}
}

func TestParseFilter(t *testing.T) {
	tests := map[string]state.Filter{
		"":          state.FilterAll,
		"all":       state.FilterAll,
		"Active":    state.FilterActive,
		"completed": state.FilterCompleted,
		"done":      state.FilterCompleted,
	}
	for in, want := range tests {
		got, err := state.ParseFilter(in)
		if err != nil {
			t.Errorf("ParseFilter(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseFilter(%q): expected %s, got %s", in, want, got)
		}
	}

	if _, err := state.ParseFilter("pending"); err == nil {
		t.Error("expected error for unknown filter")
	}
}

func TestFilter_Next(t *testing.T) {
	f := state.FilterAll
	var seen []string
	for range 4 {
		seen = append(seen, f.String())
		f = f.Next()
	}
	want := []string{"all", "active", "completed", "all"}
	if !reflect.DeepEqual(seen, want) {
		t.Errorf("expected %v, got %v", want, seen)
	}
}
