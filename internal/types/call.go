package types

import (
	"slices"
	"time"

	"github.com/dennisdiepolder/monti/dashboard/internal/errs"
)

// CallStatus represents the outcome of a call
type CallStatus string

const (
	CallCompleted   CallStatus = "completed"
	CallActive      CallStatus = "active"
	CallMissed      CallStatus = "missed"
	CallTransferred CallStatus = "transferred"
)

// AllCallStatuses lists the closed set of call statuses
var AllCallStatuses = []CallStatus{CallCompleted, CallActive, CallMissed, CallTransferred}

func (s CallStatus) Valid() bool {
	switch s {
	case CallCompleted, CallActive, CallMissed, CallTransferred:
		return true
	}
	return false
}

// CallDirection tells whether the customer or the agent placed the call
type CallDirection string

const (
	Inbound  CallDirection = "inbound"
	Outbound CallDirection = "outbound"
)

func (d CallDirection) Valid() bool {
	return d == Inbound || d == Outbound
}

// Call is a single entry in the call log
type Call struct {
	ID            int           `json:"Id" yaml:"Id"`
	Timestamp     time.Time     `json:"timestamp" yaml:"timestamp"`
	Duration      int           `json:"duration" yaml:"duration"` // seconds
	Direction     CallDirection `json:"direction" yaml:"direction"`
	Status        CallStatus    `json:"status" yaml:"status"`
	Queue         string        `json:"queue" yaml:"queue"`
	AgentID       int           `json:"agentId" yaml:"agentId"`
	AgentName     string        `json:"agentName" yaml:"agentName"`
	CustomerName  *string       `json:"customerName" yaml:"customerName"`
	CustomerPhone *string       `json:"customerPhone" yaml:"customerPhone"`
	Recording     *string       `json:"recording,omitempty" yaml:"recording,omitempty"`
	Tags          []string      `json:"tags,omitempty" yaml:"tags,omitempty"`
}

func (c Call) EntityID() int { return c.ID }

func (c Call) WithID(id int) Call {
	c.ID = id
	return c
}

func (c Call) Clone() Call {
	c.CustomerName = cloneString(c.CustomerName)
	c.CustomerPhone = cloneString(c.CustomerPhone)
	c.Recording = cloneString(c.Recording)
	c.Tags = slices.Clone(c.Tags)
	return c
}

func (c Call) Validate() error {
	if !c.Status.Valid() {
		return errs.Invalid("status", c.Status, "")
	}
	if !c.Direction.Valid() {
		return errs.Invalid("direction", c.Direction, "")
	}
	if c.Duration < 0 {
		return errs.Invalid("duration", c.Duration, "must not be negative")
	}
	return nil
}

// CallPatch is a partial update; nil fields are left untouched
type CallPatch struct {
	Timestamp     *time.Time       `json:"timestamp,omitempty"`
	Duration      *int             `json:"duration,omitempty"`
	Direction     *CallDirection   `json:"direction,omitempty"`
	Status        *CallStatus      `json:"status,omitempty"`
	Queue         *string          `json:"queue,omitempty"`
	AgentID       *int             `json:"agentId,omitempty"`
	AgentName     *string          `json:"agentName,omitempty"`
	CustomerName  Optional[string] `json:"customerName,omitzero"`
	CustomerPhone Optional[string] `json:"customerPhone,omitzero"`
	Recording     Optional[string] `json:"recording,omitzero"`
	Tags          *[]string        `json:"tags,omitempty"`
}

func (p CallPatch) Apply(c Call) Call {
	if p.Timestamp != nil {
		c.Timestamp = *p.Timestamp
	}
	if p.Duration != nil {
		c.Duration = *p.Duration
	}
	if p.Direction != nil {
		c.Direction = *p.Direction
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.Queue != nil {
		c.Queue = *p.Queue
	}
	if p.AgentID != nil {
		c.AgentID = *p.AgentID
	}
	if p.AgentName != nil {
		c.AgentName = *p.AgentName
	}
	if p.CustomerName.Set {
		c.CustomerName = cloneString(p.CustomerName.Value)
	}
	if p.CustomerPhone.Set {
		c.CustomerPhone = cloneString(p.CustomerPhone.Value)
	}
	if p.Recording.Set {
		c.Recording = cloneString(p.Recording.Value)
	}
	if p.Tags != nil {
		c.Tags = append([]string(nil), (*p.Tags)...)
	}
	return c
}
