package alerts

import (
	"fmt"

	"github.com/dennisdiepolder/monti/dashboard/internal/types"
)

// Severity of a queue alert, or SeverityOK when none applies
type Severity string

const (
	SeverityOK       Severity = "ok"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Waiting-call thresholds above which a queue is flagged
const (
	WarningWaiting  = 5
	CriticalWaiting = 10
)

// High and medium priority floors
const (
	HighPriority   = 8
	MediumPriority = 5
)

// Alert is a rule that fired for a queue
type Alert struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// LoadLevel classifies a queue by the number of calls waiting in it
func LoadLevel(waiting int) Severity {
	switch {
	case waiting > CriticalWaiting:
		return SeverityCritical
	case waiting > WarningWaiting:
		return SeverityWarning
	default:
		return SeverityOK
	}
}

// PriorityBand labels a queue priority as High, Medium or Low
func PriorityBand(priority int) string {
	switch {
	case priority >= HighPriority:
		return "High"
	case priority >= MediumPriority:
		return "Medium"
	default:
		return "Low"
	}
}

// CheckQueue evaluates the alert rules for one queue
func CheckQueue(q types.Queue) []Alert {
	var out []Alert
	if level := LoadLevel(q.WaitingCalls); level != SeverityOK {
		out = append(out, Alert{
			Rule:     "queue_backlog",
			Severity: level,
			Message:  fmt.Sprintf("%d calls waiting in %s", q.WaitingCalls, q.Name),
		})
	}
	if q.WaitingCalls > 0 && len(q.Agents) == 0 {
		out = append(out, Alert{
			Rule:     "queue_unstaffed",
			Severity: SeverityCritical,
			Message:  fmt.Sprintf("%s has waiting calls but no agents", q.Name),
		})
	}
	return out
}
