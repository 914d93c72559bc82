package views

import (
	"context"
	"fmt"
	"time"

	"github.com/dennisdiepolder/monti/dashboard/internal/listview"
	"github.com/dennisdiepolder/monti/dashboard/internal/types"
)

var callPipeline = listview.New[types.Call]().
	Search(
		listview.Nullable(func(c types.Call) *string { return c.CustomerName }),
		listview.Nullable(func(c types.Call) *string { return c.CustomerPhone }),
		listview.Field(func(c types.Call) string { return c.AgentName }),
	).
	Categorical("status", func(c types.Call) string { return string(c.Status) }).
	Categorical("queue", func(c types.Call) string { return c.Queue }).
	Categorical("direction", func(c types.Call) string { return string(c.Direction) }).
	SortBy(
		listview.Chronological("timestamp", func(c types.Call) time.Time { return c.Timestamp }),
		listview.Numeric("duration", func(c types.Call) int { return c.Duration }),
		listview.NullableLexicographic("customerName", func(c types.Call) *string { return c.CustomerName }),
		listview.Lexicographic("agentName", func(c types.Call) string { return c.AgentName }),
	).
	DefaultSort(listview.SortState{Field: "timestamp", Order: listview.Desc})

// CallsPage is the call log page
type CallsPage struct {
	listview.Result[types.Call]
	// UniqueQueues lists every queue name in the log in first-seen order,
	// for the queue filter
	UniqueQueues []string `json:"uniqueQueues"`
	Summary      string   `json:"summary"`
}

// Calls builds the call log page for q. Filters "status", "queue" and
// "direction" are categorical; "all" disables one.
func (v *Views) Calls(ctx context.Context, q listview.Query) (CallsPage, error) {
	if err := checkSort(callPipeline, q); err != nil {
		return CallsPage{}, err
	}
	calls, err := fetch(ctx, v.src.Calls, "calls")
	if err != nil {
		return CallsPage{}, err
	}

	res := callPipeline.Apply(calls, q)
	return CallsPage{
		Result:       res,
		UniqueQueues: uniqueQueues(calls),
		Summary:      fmt.Sprintf("Showing %d of %d calls", res.Filtered, res.Total),
	}, nil
}

func uniqueQueues(calls []types.Call) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, c := range calls {
		if !seen[c.Queue] {
			seen[c.Queue] = true
			out = append(out, c.Queue)
		}
	}
	return out
}
