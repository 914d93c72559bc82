package views

import (
	"context"
	"strconv"

	"github.com/dennisdiepolder/monti/dashboard/internal/listview"
	"github.com/dennisdiepolder/monti/dashboard/internal/types"
)

var agentPipeline = listview.New[types.Agent]().
	Search(
		listview.Field(func(a types.Agent) string { return a.Name }),
		listview.Field(func(a types.Agent) string { return strconv.Itoa(a.ID) }),
	).
	MultiSelect("status", func(a types.Agent) string { return string(a.Status) }).
	SortBy(
		listview.Lexicographic("name", func(a types.Agent) string { return a.Name }),
		listview.Lexicographic("status", func(a types.Agent) string { return string(a.Status) }),
		listview.NullableLexicographic("currentCall", func(a types.Agent) *string { return a.CurrentCall }),
		listview.Numeric("totalCalls", func(a types.Agent) int { return a.TotalCalls }),
		listview.Numeric("avgHandleTime", func(a types.Agent) int { return a.AvgHandleTime }),
		listview.Numeric("satisfaction", func(a types.Agent) int { return a.Satisfaction }),
	)

// AgentStats are the summary cards above the agent table. They count every
// agent, not just the visible ones.
type AgentStats struct {
	Total  int `json:"total"`
	Online int `json:"online"`
	Busy   int `json:"busy"`
	Away   int `json:"away"`
}

// AgentsPage is the agent management page
type AgentsPage struct {
	listview.Result[types.Agent]
	Stats AgentStats `json:"stats"`
}

// Agents builds the agent page for q. The "status" filter is a
// multi-select over agent statuses.
func (v *Views) Agents(ctx context.Context, q listview.Query) (AgentsPage, error) {
	if err := checkSort(agentPipeline, q); err != nil {
		return AgentsPage{}, err
	}
	agents, err := fetch(ctx, v.src.Agents, "agents")
	if err != nil {
		return AgentsPage{}, err
	}

	page := AgentsPage{Result: agentPipeline.Apply(agents, q)}
	page.Stats.Total = len(agents)
	for _, a := range agents {
		switch a.Status {
		case types.AgentOnline:
			page.Stats.Online++
		case types.AgentBusy:
			page.Stats.Busy++
		case types.AgentAway:
			page.Stats.Away++
		}
	}
	return page, nil
}
