package kitchenstatus

import (
	"strings"
)

// Status is a kitchen order lifecycle state. Table and delivery statuses are
// separate types even where the names overlap.
type Status struct {
	Name string
	rank int
}

func (s Status) Code() string {
	return s.Name
}

func (s Status) Label() string {
	parts := strings.Split(s.Name, "-")
	for i := range parts {
		if len(parts[i]) > 0 {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, " ")
}

func (s Status) IsZero() bool {
	return s.Name == ""
}

// IsTerminal reports whether the order leaves the active set once it reaches s.
func (s Status) IsTerminal() bool {
	return s.Name == Statuses.Fulfilled.Name
}

// CanTransitionTo reports whether moving from s to next is accepted. Only
// backward moves are refused; same-state writes are no-ops.
func (s Status) CanTransitionTo(next Status) bool {
	if s.IsZero() || next.IsZero() {
		return false
	}
	return next.rank >= s.rank
}

type Enum struct {
	Pending   Status
	Preparing Status
	Ready     Status
	Fulfilled Status
}

var Statuses = Enum{
	Pending:   Status{Name: "pending", rank: 0},
	Preparing: Status{Name: "preparing", rank: 1},
	Ready:     Status{Name: "ready", rank: 2},
	Fulfilled: Status{Name: "fulfilled", rank: 3},
}

var All = []Status{
	Statuses.Pending,
	Statuses.Preparing,
	Statuses.Ready,
	Statuses.Fulfilled,
}

// ByName returns the status for a given name, or nil if not found
func ByName(name string) *Status {
	for _, s := range All {
		if s.Name == name {
			return &s
		}
	}
	return nil
}
