package views

import (
	"context"
	"strconv"

	"github.com/dennisdiepolder/monti/dashboard/internal/alerts"
	"github.com/dennisdiepolder/monti/dashboard/internal/listview"
	"github.com/dennisdiepolder/monti/dashboard/internal/types"
)

var queuePipeline = listview.New[types.Queue]().
	Search(
		listview.Field(func(q types.Queue) string { return q.Name }),
		listview.Field(func(q types.Queue) string { return strconv.Itoa(q.ID) }),
	).
	SortBy(
		listview.Lexicographic("name", func(q types.Queue) string { return q.Name }),
		listview.Numeric("waitingCalls", func(q types.Queue) int { return q.WaitingCalls }),
		listview.Numeric("avgWaitTime", func(q types.Queue) float64 { return q.AvgWaitTime }),
		listview.Numeric("priority", func(q types.Queue) int { return q.Priority }),
	)

// QueueRow is a queue with its display classification
type QueueRow struct {
	types.Queue
	PriorityBand string          `json:"priorityBand"`
	LoadLevel    alerts.Severity `json:"loadLevel"`
	AgentCount   int             `json:"agentCount"`
	Alerts       []alerts.Alert  `json:"alerts,omitempty"`
}

func queueRow(q types.Queue) QueueRow {
	return QueueRow{
		Queue:        q,
		PriorityBand: alerts.PriorityBand(q.Priority),
		LoadLevel:    alerts.LoadLevel(q.WaitingCalls),
		AgentCount:   len(q.Agents),
		Alerts:       alerts.CheckQueue(q),
	}
}

// QueueStats are the summary cards above the queue table
type QueueStats struct {
	Total        int     `json:"total"`
	WaitingCalls int     `json:"waitingCalls"`
	AvgWaitTime  float64 `json:"avgWaitTime"` // minutes, one decimal
	HighPriority int     `json:"highPriority"`
}

// QueuesPage is the queue management page
type QueuesPage struct {
	listview.Result[QueueRow]
	Stats QueueStats `json:"stats"`
}

// Queues builds the queue page for q
func (v *Views) Queues(ctx context.Context, q listview.Query) (QueuesPage, error) {
	if err := checkSort(queuePipeline, q); err != nil {
		return QueuesPage{}, err
	}
	queues, err := fetch(ctx, v.src.Queues, "queues")
	if err != nil {
		return QueuesPage{}, err
	}

	page := QueuesPage{
		Result: mapResult(queuePipeline.Apply(queues, q), queueRow),
		Stats:  queueStats(queues),
	}
	return page, nil
}

func queueStats(queues []types.Queue) QueueStats {
	s := QueueStats{Total: len(queues)}
	var wait float64
	for _, q := range queues {
		s.WaitingCalls += q.WaitingCalls
		wait += q.AvgWaitTime
		if q.Priority >= alerts.HighPriority {
			s.HighPriority++
		}
	}
	if len(queues) > 0 {
		s.AvgWaitTime = round1(wait / float64(len(queues)))
	}
	return s
}
