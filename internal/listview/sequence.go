package listview

import "sync/atomic"

// Sequencer numbers outstanding requests so a response that arrives after
// a newer request was issued can be recognised and dropped.
type Sequencer struct {
	latest atomic.Uint64
}

// Next issues a new request number, superseding all earlier ones
func (s *Sequencer) Next() uint64 {
	return s.latest.Add(1)
}

// Current reports whether seq is still the latest issued request
func (s *Sequencer) Current(seq uint64) bool {
	return s.latest.Load() == seq
}
