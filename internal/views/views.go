// Package views builds the page models of the admin dashboard. Each page
// fetches its records through the entity services, stops at the first
// fetch failure and runs the list pipeline over what it got.
package views

import (
	"context"
	"fmt"
	"time"

	"github.com/dennisdiepolder/monti/dashboard/internal/errs"
	"github.com/dennisdiepolder/monti/dashboard/internal/listview"
	"github.com/dennisdiepolder/monti/dashboard/internal/service"
	"github.com/dennisdiepolder/monti/dashboard/internal/types"
)

// Lister fetches every record of one entity
type Lister[T any] interface {
	GetAll(ctx context.Context) ([]T, error)
}

// Sources are the record fetchers a page draws from
type Sources struct {
	Agents  Lister[types.Agent]
	Calls   Lister[types.Call]
	Queues  Lister[types.Queue]
	Metrics Lister[types.Metric]
}

// FromServices uses the entity services as page sources
func FromServices(s *service.Services) Sources {
	return Sources{
		Agents:  s.Agents,
		Calls:   s.Calls,
		Queues:  s.Queues,
		Metrics: s.Metrics,
	}
}

// Views builds page models
type Views struct {
	src Sources
	now func() time.Time
}

// New creates the page builders. now defaults to time.Now.
func New(src Sources, now func() time.Time) *Views {
	if now == nil {
		now = time.Now
	}
	return &Views{src: src, now: now}
}

// checkSort rejects a sort on a column the page does not offer
func checkSort[T any](p *listview.Pipeline[T], q listview.Query) error {
	if q.Sort.Field == "" || p.Sortable(q.Sort.Field) {
		return nil
	}
	return errs.Invalid("sort", q.Sort.Field, "is not a sortable column")
}

func fetch[T any](ctx context.Context, l Lister[T], what string) ([]T, error) {
	records, err := l.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", what, err)
	}
	return records, nil
}

func mapResult[T, U any](r listview.Result[T], fn func(T) U) listview.Result[U] {
	items := make([]U, len(r.Items))
	for i, it := range r.Items {
		items[i] = fn(it)
	}
	return listview.Result[U]{
		Items:    items,
		Total:    r.Total,
		Filtered: r.Filtered,
		Page:     r.Page,
		PageSize: r.PageSize,
		Pages:    r.Pages,
		Sort:     r.Sort,
	}
}

// round1 rounds to one decimal place
func round1(v float64) float64 {
	if v < 0 {
		return -round1(-v)
	}
	return float64(int64(v*10+0.5)) / 10
}
