package entity

// DefaultPageSize is used when a view asks for a non-positive page size.
const DefaultPageSize = 10

// SortDirection orders a projected view.
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

func (d SortDirection) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// ViewState is owned by the shell and read by the projector.
type ViewState struct {
	Query         string
	SortKey       string
	SortDirection SortDirection
	PageIndex     int
	PageSize      int
}

// Normalized clamps PageIndex to >= 0 and PageSize to > 0.
func (v ViewState) Normalized() ViewState {
	if v.PageIndex < 0 {
		v.PageIndex = 0
	}
	if v.PageSize <= 0 {
		v.PageSize = DefaultPageSize
	}
	return v
}

// ToggleSort mirrors clicking a column header: the same key flips
// direction, a new key starts ascending.
func (v ViewState) ToggleSort(key string) ViewState {
	if v.SortKey == key && v.SortDirection == Ascending {
		v.SortDirection = Descending
	} else {
		v.SortDirection = Ascending
	}
	v.SortKey = key
	return v
}
