package listview

import (
	"cmp"
	"strings"
	"time"
)

// Direction is a sort order
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortState is the active sort column and direction. The zero value means
// records keep their original order.
type SortState struct {
	Field string    `json:"field,omitempty"`
	Order Direction `json:"order,omitempty"`
}

// Toggle returns the state after the user picks field: the same field
// flips direction, a different field starts ascending.
func (s SortState) Toggle(field string) SortState {
	if s.Field == field {
		if s.Order == Desc {
			return SortState{Field: field, Order: Asc}
		}
		return SortState{Field: field, Order: Desc}
	}
	return SortState{Field: field, Order: Asc}
}

func (s SortState) normalized() SortState {
	if s.Order != Desc {
		s.Order = Asc
	}
	return s
}

// SortField compares two records on one named column
type SortField[T any] struct {
	Name    string
	Compare func(a, b T) int
}

// Numeric sorts by a number
func Numeric[T any, N cmp.Ordered](name string, value func(T) N) SortField[T] {
	return SortField[T]{Name: name, Compare: func(a, b T) int {
		return cmp.Compare(value(a), value(b))
	}}
}

// Chronological sorts by a point in time
func Chronological[T any](name string, value func(T) time.Time) SortField[T] {
	return SortField[T]{Name: name, Compare: func(a, b T) int {
		return value(a).Compare(value(b))
	}}
}

// Lexicographic sorts by string value
func Lexicographic[T any](name string, value func(T) string) SortField[T] {
	return SortField[T]{Name: name, Compare: func(a, b T) int {
		return strings.Compare(value(a), value(b))
	}}
}

// NullableLexicographic sorts by a nullable string; absent values sort first
func NullableLexicographic[T any](name string, value func(T) *string) SortField[T] {
	return SortField[T]{Name: name, Compare: func(a, b T) int {
		va, vb := value(a), value(b)
		switch {
		case va == nil && vb == nil:
			return 0
		case va == nil:
			return -1
		case vb == nil:
			return 1
		}
		return strings.Compare(*va, *vb)
	}}
}
