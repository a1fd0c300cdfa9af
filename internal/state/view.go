package state

import (
	"fmt"
	"strings"

	"todoctl/internal/service"
)

// Filter selects which todos the view shows. It never reaches the backend.
type Filter int

const (
	FilterAll Filter = iota
	FilterActive
	FilterCompleted
)

// Filters lists every filter in display order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

func (f Filter) String() string {
	switch f {
	case FilterActive:
		return "active"
	case FilterCompleted:
		return "completed"
	default:
		return "all"
	}
}

// Next cycles all -> active -> completed -> all.
func (f Filter) Next() Filter {
	return Filters[(int(f)+1)%len(Filters)]
}

// Match reports whether t passes the filter.
func (f Filter) Match(t service.Todo) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// ParseFilter parses a filter name, case-insensitively.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "active":
		return FilterActive, nil
	case "completed", "done":
		return FilterCompleted, nil
	default:
		return FilterAll, fmt.Errorf("invalid filter: %s (want all, active or completed)", s)
	}
}

// Stats counts todos over the unfiltered list.
// Active+Completed always equals Total.
type Stats struct {
	Total     int
	Active    int
	Completed int
}

// View is the filtered list plus stats, derived from the store state.
type View struct {
	Filter Filter
	Tasks  []service.Todo
	Stats  Stats
}

// Derive computes the view of tasks under filter. Relative order is kept.
func Derive(tasks []service.Todo, filter Filter) View {
	v := View{Filter: filter, Tasks: make([]service.Todo, 0, len(tasks))}
	for _, t := range tasks {
		v.Stats.Total++
		if t.Completed {
			v.Stats.Completed++
		} else {
			v.Stats.Active++
		}
		if filter.Match(t) {
			v.Tasks = append(v.Tasks, t)
		}
	}
	return v
}
