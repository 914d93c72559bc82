package types

import "github.com/dennisdiepolder/monti/dashboard/internal/errs"

// AgentStatus represents the presence state of an agent
type AgentStatus string

const (
	AgentOnline  AgentStatus = "online"
	AgentBusy    AgentStatus = "busy"
	AgentAway    AgentStatus = "away"
	AgentOffline AgentStatus = "offline"
)

// AllAgentStatuses lists the closed set of agent statuses
var AllAgentStatuses = []AgentStatus{AgentOnline, AgentBusy, AgentAway, AgentOffline}

// Valid reports whether s is one of the defined statuses
func (s AgentStatus) Valid() bool {
	switch s {
	case AgentOnline, AgentBusy, AgentAway, AgentOffline:
		return true
	}
	return false
}

// Agent is a call-center agent as shown on the agents page
type Agent struct {
	ID            int         `json:"Id" yaml:"Id"`
	Name          string      `json:"name" yaml:"name"`
	Status        AgentStatus `json:"status" yaml:"status"`
	CurrentCall   *string     `json:"currentCall" yaml:"currentCall"`
	TotalCalls    int         `json:"totalCalls" yaml:"totalCalls"`
	AvgHandleTime int         `json:"avgHandleTime" yaml:"avgHandleTime"` // seconds
	Satisfaction  int         `json:"satisfaction" yaml:"satisfaction"`   // 0-100
}

func (a Agent) EntityID() int { return a.ID }

func (a Agent) WithID(id int) Agent {
	a.ID = id
	return a
}

func (a Agent) Clone() Agent {
	a.CurrentCall = cloneString(a.CurrentCall)
	return a
}

// Validate checks enumerations and ranges
func (a Agent) Validate() error {
	if !a.Status.Valid() {
		return errs.Invalid("status", a.Status, "")
	}
	if a.TotalCalls < 0 {
		return errs.Invalid("totalCalls", a.TotalCalls, "must not be negative")
	}
	if a.AvgHandleTime < 0 {
		return errs.Invalid("avgHandleTime", a.AvgHandleTime, "must not be negative")
	}
	if a.Satisfaction < 0 || a.Satisfaction > 100 {
		return errs.Invalid("satisfaction", a.Satisfaction, "must be between 0 and 100")
	}
	return nil
}

// AgentPatch is a partial update; nil fields are left untouched
type AgentPatch struct {
	Name          *string          `json:"name,omitempty"`
	Status        *AgentStatus     `json:"status,omitempty"`
	CurrentCall   Optional[string] `json:"currentCall,omitzero"`
	TotalCalls    *int             `json:"totalCalls,omitempty"`
	AvgHandleTime *int             `json:"avgHandleTime,omitempty"`
	Satisfaction  *int             `json:"satisfaction,omitempty"`
}

// Apply merges the patch onto a and returns the result
func (p AgentPatch) Apply(a Agent) Agent {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.CurrentCall.Set {
		a.CurrentCall = cloneString(p.CurrentCall.Value)
	}
	if p.TotalCalls != nil {
		a.TotalCalls = *p.TotalCalls
	}
	if p.AvgHandleTime != nil {
		a.AvgHandleTime = *p.AvgHandleTime
	}
	if p.Satisfaction != nil {
		a.Satisfaction = *p.Satisfaction
	}
	return a
}
