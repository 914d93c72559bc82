// Package service implements the asynchronous CRUD facade in front of each
// entity collection. Every operation waits out a simulated network latency
// before touching the store and hands back independent copies.
package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/dennisdiepolder/monti/dashboard/internal/errs"
	"github.com/dennisdiepolder/monti/dashboard/internal/metrics"
	"github.com/dennisdiepolder/monti/dashboard/internal/store"
	"github.com/dennisdiepolder/monti/dashboard/internal/types"
	"github.com/rs/zerolog"
)

const (
	opGetAll  = "getAll"
	opGetByID = "getById"
	opCreate  = "create"
	opUpdate  = "update"
	opDelete  = "delete"
)

// Latency is the simulated round-trip delay per operation
type Latency struct {
	GetAll  time.Duration
	GetByID time.Duration
	Create  time.Duration
	Update  time.Duration
	Delete  time.Duration
}

// DefaultLatency mirrors the delays of the mock API the dashboard was built
// against
func DefaultLatency() Latency {
	return Latency{
		GetAll:  300 * time.Millisecond,
		GetByID: 200 * time.Millisecond,
		Create:  500 * time.Millisecond,
		Update:  400 * time.Millisecond,
		Delete:  300 * time.Millisecond,
	}
}

// Notifier receives every committed mutation
type Notifier interface {
	Publish(change types.Change)
}

// Patch is a partial update for records of type T
type Patch[T any] interface {
	Apply(record T) T
}

// Options configures a Service. The zero value means no latency, no
// notifications, no metrics and a disabled logger.
type Options struct {
	Latency  Latency
	Notifier Notifier
	Metrics  *metrics.Metrics
	Logger   zerolog.Logger
	Now      func() time.Time
}

// Service exposes CRUD over one entity collection
type Service[T types.Entity[T], P Patch[T]] struct {
	kind       types.Kind
	collection *store.Collection[T]
	latency    Latency
	notifier   Notifier
	metrics    *metrics.Metrics
	logger     zerolog.Logger
	now        func() time.Time

	// prepare fills entity defaults on create
	prepare  func(record T, now time.Time) T
	validate func(record T) error
}

func newService[T types.Entity[T], P Patch[T]](kind types.Kind, c *store.Collection[T], opts Options, prepare func(T, time.Time) T, validate func(T) error) *Service[T, P] {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := &Service[T, P]{
		kind:       kind,
		collection: c,
		latency:    opts.Latency,
		notifier:   opts.Notifier,
		metrics:    opts.Metrics,
		logger:     opts.Logger.With().Str("component", "service").Str("entity", string(kind)).Logger(),
		now:        now,
		prepare:    prepare,
		validate:   validate,
	}
	s.metrics.SetRecordCount(kind, c.Len())
	return s
}

// Kind returns the entity kind this service manages
func (s *Service[T, P]) Kind() types.Kind {
	return s.kind
}

// GetAll returns a snapshot of every record
func (s *Service[T, P]) GetAll(ctx context.Context) (records []T, err error) {
	defer s.observe(opGetAll, time.Now(), &err)

	if err := wait(ctx, s.latency.GetAll); err != nil {
		return nil, err
	}
	return s.collection.All(), nil
}

// GetByID returns a copy of one record
func (s *Service[T, P]) GetByID(ctx context.Context, id int) (record T, err error) {
	defer s.observe(opGetByID, time.Now(), &err)

	var zero T
	if err := wait(ctx, s.latency.GetByID); err != nil {
		return zero, err
	}
	r, ok := s.collection.Get(id)
	if !ok {
		return zero, errs.NotFound(s.kind.Label(), id)
	}
	return r, nil
}

// Create assigns the next identifier, fills entity defaults and stores the
// record. Any identifier on the input is ignored.
func (s *Service[T, P]) Create(ctx context.Context, fields T) (record T, err error) {
	defer s.observe(opCreate, time.Now(), &err)

	var zero T
	if err := wait(ctx, s.latency.Create); err != nil {
		return zero, err
	}

	r := fields.Clone()
	if s.prepare != nil {
		r = s.prepare(r, s.now())
	}
	if s.validate != nil {
		if err := s.validate(r); err != nil {
			return zero, err
		}
	}

	created := s.collection.Insert(r)
	s.logger.Debug().Int("id", created.EntityID()).Msg("record created")
	s.publish(types.ActionCreated, created)
	return created, nil
}

// Update shallow-merges patch onto the stored record and returns the result
func (s *Service[T, P]) Update(ctx context.Context, id int, patch P) (record T, err error) {
	defer s.observe(opUpdate, time.Now(), &err)

	var zero T
	if err := wait(ctx, s.latency.Update); err != nil {
		return zero, err
	}

	updated, found, err := s.collection.Update(id, func(current T) (T, error) {
		next := patch.Apply(current)
		if s.validate != nil {
			if err := s.validate(next); err != nil {
				return current, err
			}
		}
		return next, nil
	})
	if !found {
		return zero, errs.NotFound(s.kind.Label(), id)
	}
	if err != nil {
		return zero, err
	}

	s.logger.Debug().Int("id", id).Msg("record updated")
	s.publish(types.ActionUpdated, updated)
	return updated, nil
}

// Delete removes a record and returns it
func (s *Service[T, P]) Delete(ctx context.Context, id int) (record T, err error) {
	defer s.observe(opDelete, time.Now(), &err)

	var zero T
	if err := wait(ctx, s.latency.Delete); err != nil {
		return zero, err
	}
	removed, ok := s.collection.Remove(id)
	if !ok {
		return zero, errs.NotFound(s.kind.Label(), id)
	}

	s.logger.Debug().Int("id", id).Msg("record deleted")
	s.publish(types.ActionDeleted, removed)
	return removed.Clone(), nil
}

// Reseeded announces that the collection was replaced wholesale, sending
// its new contents to subscribers as a single reset change
func (s *Service[T, P]) Reseeded() {
	s.metrics.SetRecordCount(s.kind, s.collection.Len())
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(types.Change{
		Type:      "change",
		Entity:    s.kind,
		Action:    types.ActionReset,
		Record:    s.collection.All(),
		Timestamp: s.now(),
	})
}

func (s *Service[T, P]) publish(action types.ChangeAction, record T) {
	s.metrics.SetRecordCount(s.kind, s.collection.Len())
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(types.Change{
		Type:      "change",
		Entity:    s.kind,
		Action:    action,
		ID:        record.EntityID(),
		Record:    record.Clone(),
		Timestamp: s.now(),
	})
}

func (s *Service[T, P]) observe(op string, start time.Time, err *error) {
	s.metrics.RecordServiceOp(s.kind, op, time.Since(start), *err)
}

// wait blocks for d or until ctx is done. Cancellation is only honoured
// here, before the store is touched.
func wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ParseID converts a textual identifier the way route parameters are read:
// leading whitespace is skipped, then the longest integer prefix is used
// ("7abc" is 7, "0x1f" is 31) and the rest ignored. Anything without a
// positive integer prefix can never match a record, so it is reported as
// not found for the given kind.
func ParseID(kind types.Kind, raw string) (int, error) {
	s := strings.TrimLeft(raw, " \t\r\n")
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	base, digits := 10, "0123456789"
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base, digits = 16, "0123456789abcdefABCDEF"
		s = s[2:]
	}
	end := 0
	for end < len(s) && strings.IndexByte(digits, s[end]) >= 0 {
		end++
	}

	id, err := strconv.ParseInt(s[:end], base, strconv.IntSize)
	if err != nil || neg || id <= 0 {
		return 0, errs.NotFound(kind.Label(), 0)
	}
	return int(id), nil
}
