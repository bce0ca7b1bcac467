package git

import "time"

// Commit is one entry of a parsed revision log.
type Commit struct {
	Hash   string
	Author string // "Name <email>" as rendered by git
	// Date is the zero time when the rendered date could not be parsed.
	Date    time.Time
	Message string // body lines joined by single spaces
}

func (c Commit) HasDate() bool {
	return !c.Date.IsZero()
}

// Order selects the chronological direction of Revisions.
type Order uint8

const (
	// OrderDescending lists newest commits first, git's natural order.
	OrderDescending Order = iota
	// OrderAscending lists oldest commits first.
	OrderAscending
)

func (o Order) String() string {
	switch o {
	case OrderAscending:
		return "asc"
	default:
		return "desc"
	}
}

// ParseOrder accepts "asc"/"ascending" and "desc"/"descending".
func ParseOrder(raw string) (Order, bool) {
	switch raw {
	case "asc", "ascending":
		return OrderAscending, true
	case "desc", "descending", "":
		return OrderDescending, true
	default:
		return OrderDescending, false
	}
}
