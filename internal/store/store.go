// Package store holds the canonical in-memory collections behind the
// entity services. It is built once at process start from seed fixtures and
// never persists anything.
package store

import "github.com/dennisdiepolder/monti/dashboard/internal/types"

// Store owns one collection per entity kind
type Store struct {
	Agents  *Collection[types.Agent]
	Calls   *Collection[types.Call]
	Queues  *Collection[types.Queue]
	Metrics *Collection[types.Metric]

	seed Fixtures
}

// New creates a store seeded from f
func New(f Fixtures) *Store {
	return &Store{
		Agents:  NewCollection(f.Agents),
		Calls:   NewCollection(f.Calls),
		Queues:  NewCollection(f.Queues),
		Metrics: NewCollection(f.Metrics),
		seed:    f,
	}
}

// Reset restores every collection to the seed fixtures and returns how many
// records were dropped in total
func (s *Store) Reset() int {
	dropped := s.Agents.Replace(s.seed.Agents)
	dropped += s.Calls.Replace(s.seed.Calls)
	dropped += s.Queues.Replace(s.seed.Queues)
	dropped += s.Metrics.Replace(s.seed.Metrics)
	return dropped
}

// Counts returns the number of records per collection
func (s *Store) Counts() map[types.Kind]int {
	return map[types.Kind]int{
		types.KindAgent:  s.Agents.Len(),
		types.KindCall:   s.Calls.Len(),
		types.KindQueue:  s.Queues.Len(),
		types.KindMetric: s.Metrics.Len(),
	}
}
