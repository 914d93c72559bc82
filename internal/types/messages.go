package types

import "time"

// ChangeAction is the kind of mutation that produced a Change
type ChangeAction string

const (
	ActionCreated ChangeAction = "created"
	ActionUpdated ChangeAction = "updated"
	ActionDeleted ChangeAction = "deleted"
	// ActionReset replaces a whole collection; Record holds the new contents
	// and ID is zero
	ActionReset ChangeAction = "reset"
)

// Change is broadcast to live dashboard clients after every mutation
type Change struct {
	Type      string       `json:"type"` // always "change"
	Entity    Kind         `json:"entity"`
	Action    ChangeAction `json:"action"`
	ID        int          `json:"id"`
	Record    any          `json:"record"`
	Timestamp time.Time    `json:"timestamp"`
}

// DashboardSnapshot is the periodic live summary pushed to dashboard clients
type DashboardSnapshot struct {
	Type         string    `json:"type"` // always "snapshot"
	Timestamp    time.Time `json:"timestamp"`
	ActiveCalls  int       `json:"activeCalls"`
	WaitingCalls int       `json:"waitingCalls"`
	AgentsOnline int       `json:"agentsOnline"`
	AvgWaitTime  float64   `json:"avgWaitTime"` // minutes
}
