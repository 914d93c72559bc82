package views

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/dennisdiepolder/monti/dashboard/internal/types"
	"golang.org/x/sync/errgroup"
)

// Headline is the row of metric cards at the top of the dashboard
type Headline struct {
	ActiveCalls  int     `json:"activeCalls"`
	WaitingCalls int     `json:"waitingCalls"`
	AgentsOnline int     `json:"agentsOnline"`
	AvgWaitTime  float64 `json:"avgWaitTime"` // minutes, one decimal
}

// DashboardPage is the real-time overview
type DashboardPage struct {
	Headline    Headline       `json:"headline"`
	Metrics     []types.Metric `json:"metrics"` // latest value per metric name
	Agents      []types.Agent  `json:"agents"`
	Queues      []QueueRow     `json:"queues"`
	GeneratedAt time.Time      `json:"generatedAt"`
}

// Dashboard fetches metrics, agents and queues concurrently. If any fetch
// fails the others are cancelled and the error is returned.
func (v *Views) Dashboard(ctx context.Context) (DashboardPage, error) {
	var (
		metrics []types.Metric
		agents  []types.Agent
		queues  []types.Queue
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		metrics, err = fetch(gctx, v.src.Metrics, "metrics")
		return err
	})
	g.Go(func() (err error) {
		agents, err = fetch(gctx, v.src.Agents, "agents")
		return err
	})
	g.Go(func() (err error) {
		queues, err = fetch(gctx, v.src.Queues, "queues")
		return err
	})
	if err := g.Wait(); err != nil {
		return DashboardPage{}, err
	}

	rows := make([]QueueRow, len(queues))
	for i, q := range queues {
		rows[i] = queueRow(q)
	}

	return DashboardPage{
		Headline:    headline(metrics, agents, queues),
		Metrics:     latestPerName(metrics),
		Agents:      agents,
		Queues:      rows,
		GeneratedAt: v.now(),
	}, nil
}

// Snapshot condenses the dashboard into the live feed message
func (v *Views) Snapshot(ctx context.Context) (types.DashboardSnapshot, error) {
	page, err := v.Dashboard(ctx)
	if err != nil {
		return types.DashboardSnapshot{}, err
	}
	return types.DashboardSnapshot{
		Type:         "snapshot",
		Timestamp:    page.GeneratedAt,
		ActiveCalls:  page.Headline.ActiveCalls,
		WaitingCalls: page.Headline.WaitingCalls,
		AgentsOnline: page.Headline.AgentsOnline,
		AvgWaitTime:  page.Headline.AvgWaitTime,
	}, nil
}

// headline derives the cards from live records. Active calls come from the
// latest "activeCalls" metric when one exists, otherwise from busy agents.
func headline(metrics []types.Metric, agents []types.Agent, queues []types.Queue) Headline {
	var h Headline
	busy := 0
	for _, a := range agents {
		if a.Status != types.AgentOffline {
			h.AgentsOnline++
		}
		if a.Status == types.AgentBusy {
			busy++
		}
	}
	h.ActiveCalls = busy
	for _, m := range latestPerName(metrics) {
		if m.Name == "activeCalls" {
			h.ActiveCalls = int(m.Value)
		}
	}

	var wait float64
	for _, q := range queues {
		h.WaitingCalls += q.WaitingCalls
		wait += q.AvgWaitTime
	}
	if len(queues) > 0 {
		h.AvgWaitTime = round1(wait / float64(len(queues)))
	}
	return h
}

// latestPerName keeps the newest metric of each name, ordered by name. Ties
// on timestamp go to the higher id.
func latestPerName(metrics []types.Metric) []types.Metric {
	latest := make(map[string]types.Metric)
	for _, m := range metrics {
		cur, ok := latest[m.Name]
		if !ok || m.Timestamp.After(cur.Timestamp) || (m.Timestamp.Equal(cur.Timestamp) && m.ID > cur.ID) {
			latest[m.Name] = m
		}
	}
	out := make([]types.Metric, 0, len(latest))
	for _, m := range latest {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b types.Metric) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}
