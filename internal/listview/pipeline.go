// Package listview turns a full record set into the slice a list page
// shows: free-text search, categorical and multi-select filters, sorting
// and optional pagination. Every call recomputes from scratch.
package listview

import (
	"slices"
	"strings"
)

// Text reads one searchable field from a record. ok is false when the
// field is absent, and an absent field never matches a search term.
type Text[T any] func(record T) (value string, ok bool)

// Field adapts a plain string accessor to Text
func Field[T any](fn func(T) string) Text[T] {
	return func(r T) (string, bool) { return fn(r), true }
}

// Nullable adapts a nullable string accessor to Text
func Nullable[T any](fn func(T) *string) Text[T] {
	return func(r T) (string, bool) {
		v := fn(r)
		if v == nil {
			return "", false
		}
		return *v, true
	}
}

// All is the categorical selection that leaves a dimension unconstrained
const All = "all"

// Query is the user's current list state
type Query struct {
	Search   string
	Filters  map[string][]string
	Sort     SortState
	Page     int
	PageSize int
}

// Result is the visible slice plus the counts a page shows next to it
type Result[T any] struct {
	Items    []T       `json:"items"`
	Total    int       `json:"total"`
	Filtered int       `json:"filtered"`
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
	Pages    int       `json:"pages"`
	Sort     SortState `json:"sort"`
}

type dimension[T any] struct {
	value func(T) string
	multi bool
}

// Pipeline holds the field accessors for one record type. It is
// configured once and safe for concurrent Apply calls afterwards.
type Pipeline[T any] struct {
	search      []Text[T]
	dimensions  map[string]dimension[T]
	sorts       map[string]SortField[T]
	defaultSort SortState
}

// New creates an empty pipeline that passes every record through unchanged
func New[T any]() *Pipeline[T] {
	return &Pipeline[T]{
		dimensions: make(map[string]dimension[T]),
		sorts:      make(map[string]SortField[T]),
	}
}

// Search sets the fields a search term is matched against
func (p *Pipeline[T]) Search(fields ...Text[T]) *Pipeline[T] {
	p.search = append(p.search, fields...)
	return p
}

// Categorical adds a filter dimension whose selected values must equal the
// record's field exactly. Selecting All, or nothing, disables it.
func (p *Pipeline[T]) Categorical(name string, value func(T) string) *Pipeline[T] {
	p.dimensions[name] = dimension[T]{value: value}
	return p
}

// MultiSelect adds a filter dimension matched case-insensitively against a
// set of active values. An empty set, or one containing All, matches
// everything.
func (p *Pipeline[T]) MultiSelect(name string, value func(T) string) *Pipeline[T] {
	p.dimensions[name] = dimension[T]{value: value, multi: true}
	return p
}

// SortBy registers sortable fields
func (p *Pipeline[T]) SortBy(fields ...SortField[T]) *Pipeline[T] {
	for _, f := range fields {
		p.sorts[f.Name] = f
	}
	return p
}

// DefaultSort is used when a query names no sort field
func (p *Pipeline[T]) DefaultSort(s SortState) *Pipeline[T] {
	p.defaultSort = s
	return p
}

// Sortable reports whether field was registered with SortBy
func (p *Pipeline[T]) Sortable(field string) bool {
	_, ok := p.sorts[field]
	return ok
}

// Apply runs search, filters, sort and pagination over records. The input
// slice is never modified.
func (p *Pipeline[T]) Apply(records []T, q Query) Result[T] {
	matched := make([]T, 0, len(records))
	for _, r := range records {
		if p.matchesSearch(r, q.Search) && p.matchesFilters(r, q.Filters) {
			matched = append(matched, r)
		}
	}

	state := q.Sort
	if state.Field == "" {
		state = p.defaultSort
	}
	if f, ok := p.sorts[state.Field]; ok {
		state = state.normalized()
		slices.SortStableFunc(matched, func(a, b T) int {
			c := f.Compare(a, b)
			if state.Order == Desc {
				return -c
			}
			return c
		})
	} else {
		state = SortState{}
	}

	res := paginate(matched, q.Page, q.PageSize)
	res.Total = len(records)
	res.Sort = state
	return res
}

func (p *Pipeline[T]) matchesSearch(r T, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, field := range p.search {
		v, ok := field(r)
		if ok && strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

func (p *Pipeline[T]) matchesFilters(r T, filters map[string][]string) bool {
	for name, selected := range filters {
		dim, ok := p.dimensions[name]
		if !ok {
			continue
		}
		if dim.multi {
			if !matchesSet(dim.value(r), selected) {
				return false
			}
			continue
		}
		if !matchesCategory(dim.value(r), selected) {
			return false
		}
	}
	return true
}

func matchesCategory(value string, selected []string) bool {
	if len(selected) == 0 || slices.Contains(selected, All) {
		return true
	}
	return slices.Contains(selected, value)
}

func matchesSet(value string, active []string) bool {
	if len(active) == 0 {
		return true
	}
	for _, a := range active {
		if strings.EqualFold(a, All) || strings.EqualFold(a, value) {
			return true
		}
	}
	return false
}
