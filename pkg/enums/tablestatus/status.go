package tablestatus

import "strings"

type Status struct {
	Name string
}

func (s Status) Code() string {
	return s.Name
}

func (s Status) Label() string {
	if s.Name == "" {
		return ""
	}
	return strings.ToUpper(s.Name[:1]) + s.Name[1:]
}

// IsSeated reports whether guests are at the table.
func (s Status) IsSeated() bool {
	return s.Name == Statuses.Occupied.Name || s.Name == Statuses.Served.Name
}

type Enum struct {
	Free     Status
	Occupied Status
	Served   Status
	Paid     Status
}

var Statuses = Enum{
	Free:     Status{Name: "free"},
	Occupied: Status{Name: "occupied"},
	Served:   Status{Name: "served"},
	Paid:     Status{Name: "paid"},
}

var All = []Status{
	Statuses.Free,
	Statuses.Occupied,
	Statuses.Served,
	Statuses.Paid,
}

func ByName(name string) *Status {
	for _, s := range All {
		if s.Name == name {
			return &s
		}
	}
	return nil
}
