package deliverystatus

import "strings"

// Status is a delivery order state as seen by the rider dashboard.
type Status struct {
	Name string
	rank int
}

func (s Status) Code() string {
	return s.Name
}

func (s Status) Label() string {
	parts := strings.Split(s.Name, "_")
	for i := range parts {
		if len(parts[i]) > 0 {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, " ")
}

// AtLeast reports whether s is other or any later state.
func (s Status) AtLeast(other Status) bool {
	return s.rank >= other.rank
}

// CanAdvanceTo allows forward moves only; riders never move an order back.
func (s Status) CanAdvanceTo(next Status) bool {
	return next.Name != "" && next.rank > s.rank
}

type Enum struct {
	Pending   Status
	Ready     Status
	EnRoute   Status
	Delivered Status
}

var Statuses = Enum{
	Pending:   Status{Name: "pending", rank: 0},
	Ready:     Status{Name: "ready", rank: 1},
	EnRoute:   Status{Name: "en_route", rank: 2},
	Delivered: Status{Name: "delivered", rank: 3},
}

var All = []Status{
	Statuses.Pending,
	Statuses.Ready,
	Statuses.EnRoute,
	Statuses.Delivered,
}

func ByName(name string) *Status {
	for _, s := range All {
		if s.Name == name {
			return &s
		}
	}
	return nil
}
