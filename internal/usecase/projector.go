package usecase

import (
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/yourusername/warehouse-client/internal/domain/entity"
)

// Page is one visible slice of a projected collection.
type Page[T any] struct {
	Items     []T
	Total     int // records left after filtering
	PageIndex int
	PageSize  int
	PageCount int
}

// Projector derives the displayed subset of a collection: filter, then
// sort, then paginate. It holds no state and never mutates its input.
type Projector[T any] struct {
	search []func(T) string
	sorts  map[string]func(T) string
}

// NewProjector builds a projector. search lists the fields a query is
// matched against; sorts maps sort keys to the text they compare.
func NewProjector[T any](search []func(T) string, sorts map[string]func(T) string) *Projector[T] {
	return &Projector[T]{search: search, sorts: sorts}
}

// SortKeys lists the accepted sort keys in lexical order.
func (p *Projector[T]) SortKeys() []string {
	keys := make([]string, 0, len(p.sorts))
	for k := range p.sorts {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Filter keeps items where any search field contains query, ignoring case.
// An empty query returns items unchanged.
func (p *Projector[T]) Filter(items []T, query string) []T {
	if query == "" {
		return items
	}
	q := strings.ToLower(query)
	out := make([]T, 0, len(items))
	for _, it := range items {
		for _, field := range p.search {
			if strings.Contains(strings.ToLower(field(it)), q) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

// Sort returns a stably sorted copy. Digit runs compare by value, so "9"
// sorts before "10". Case only decides between otherwise equal keys. An
// unknown key leaves the order as it was.
func (p *Projector[T]) Sort(items []T, key string, dir entity.SortDirection) []T {
	out := slices.Clone(items)
	field, ok := p.sorts[key]
	if !ok {
		return out
	}
	// collators keep scratch buffers and are not safe to share
	c := collate.New(language.Und, collate.Numeric)
	cmp := func(a, b string) int {
		if n := c.CompareString(a, b); n != 0 {
			return n
		}
		return strings.Compare(a, b)
	}
	slices.SortStableFunc(out, func(a, b T) int {
		if dir == entity.Descending {
			return cmp(field(b), field(a))
		}
		return cmp(field(a), field(b))
	})
	return out
}

// Paginate returns page index of size items. Out-of-range pages are empty.
func (p *Projector[T]) Paginate(items []T, index, size int) []T {
	v := entity.ViewState{PageIndex: index, PageSize: size}.Normalized()
	// compare by page so a huge index cannot overflow the offset
	if len(items) == 0 || v.PageIndex > (len(items)-1)/v.PageSize {
		return []T{}
	}
	start := v.PageIndex * v.PageSize
	end := start + min(v.PageSize, len(items)-start)
	return slices.Clone(items[start:end])
}

// Project applies view to items.
func (p *Projector[T]) Project(items []T, view entity.ViewState) Page[T] {
	v := view.Normalized()
	sorted := p.Sort(p.Filter(items, v.Query), v.SortKey, v.SortDirection)
	pages := 0
	if len(sorted) > 0 {
		pages = (len(sorted)-1)/v.PageSize + 1
	}
	return Page[T]{
		Items:     p.Paginate(sorted, v.PageIndex, v.PageSize),
		Total:     len(sorted),
		PageIndex: v.PageIndex,
		PageSize:  v.PageSize,
		PageCount: pages,
	}
}

// NewProductProjector searches name, company and delivery partner.
func NewProductProjector() *Projector[entity.Product] {
	return NewProjector(
		[]func(entity.Product) string{
			func(p entity.Product) string { return p.Name },
			func(p entity.Product) string { return p.Company },
			func(p entity.Product) string { return p.DeliveryPartner },
		},
		map[string]func(entity.Product) string{
			"id":          func(p entity.Product) string { return p.ID.String() },
			"name":        func(p entity.Product) string { return p.Name },
			"description": func(p entity.Product) string { return p.Description },
			// fixed scale so fractional digits compare by value too
			"price":            func(p entity.Product) string { return p.Price.StringFixed(2) },
			"quantity":         func(p entity.Product) string { return strconv.Itoa(p.Quantity) },
			"company":          func(p entity.Product) string { return p.Company },
			"delivery_partner": func(p entity.Product) string { return p.DeliveryPartner },
		},
	)
}

// NewAdminProjector searches email and name.
func NewAdminProjector() *Projector[entity.Admin] {
	return NewProjector(
		[]func(entity.Admin) string{
			func(a entity.Admin) string { return a.Email },
			func(a entity.Admin) string { return a.Name },
		},
		map[string]func(entity.Admin) string{
			"id":    func(a entity.Admin) string { return a.ID.String() },
			"email": func(a entity.Admin) string { return a.Email },
			"name":  func(a entity.Admin) string { return a.Name },
		},
	)
}
