package types

import (
	"slices"

	"github.com/dennisdiepolder/monti/dashboard/internal/errs"
)

// MaxPriority is the most urgent queue priority
const MaxPriority = 10

// Queue is an inbound call queue
type Queue struct {
	ID           int     `json:"Id" yaml:"Id"`
	Name         string  `json:"name" yaml:"name"`
	WaitingCalls int     `json:"waitingCalls" yaml:"waitingCalls"`
	AvgWaitTime  float64 `json:"avgWaitTime" yaml:"avgWaitTime"` // minutes
	Priority     int     `json:"priority" yaml:"priority"`
	Agents       []int   `json:"agents" yaml:"agents"`
}

func (q Queue) EntityID() int { return q.ID }

func (q Queue) WithID(id int) Queue {
	q.ID = id
	return q
}

func (q Queue) Clone() Queue {
	q.Agents = slices.Clone(q.Agents)
	return q
}

func (q Queue) Validate() error {
	if q.WaitingCalls < 0 {
		return errs.Invalid("waitingCalls", q.WaitingCalls, "must not be negative")
	}
	if q.AvgWaitTime < 0 {
		return errs.Invalid("avgWaitTime", q.AvgWaitTime, "must not be negative")
	}
	if q.Priority < 0 || q.Priority > MaxPriority {
		return errs.Invalid("priority", q.Priority, "must be between 0 and 10")
	}
	return nil
}

// QueuePatch is a partial update; nil fields are left untouched
type QueuePatch struct {
	Name         *string  `json:"name,omitempty"`
	WaitingCalls *int     `json:"waitingCalls,omitempty"`
	AvgWaitTime  *float64 `json:"avgWaitTime,omitempty"`
	Priority     *int     `json:"priority,omitempty"`
	Agents       *[]int   `json:"agents,omitempty"`
}

func (p QueuePatch) Apply(q Queue) Queue {
	if p.Name != nil {
		q.Name = *p.Name
	}
	if p.WaitingCalls != nil {
		q.WaitingCalls = *p.WaitingCalls
	}
	if p.AvgWaitTime != nil {
		q.AvgWaitTime = *p.AvgWaitTime
	}
	if p.Priority != nil {
		q.Priority = *p.Priority
	}
	if p.Agents != nil {
		q.Agents = append([]int{}, (*p.Agents)...)
	}
	return q
}
