package views

import (
	"context"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/dennisdiepolder/monti/dashboard/internal/errs"
	"github.com/dennisdiepolder/monti/dashboard/internal/types"
)

// DateRange is an analytics window
type DateRange string

const (
	Range24h DateRange = "24h"
	Range7d  DateRange = "7d"
	Range30d DateRange = "30d"
	Range90d DateRange = "90d"

	DefaultRange = Range30d
)

var rangeDurations = map[DateRange]time.Duration{
	Range24h: 24 * time.Hour,
	Range7d:  7 * 24 * time.Hour,
	Range30d: 30 * 24 * time.Hour,
	Range90d: 90 * 24 * time.Hour,
}

// ParseRange accepts 24h, 7d, 30d or 90d; empty means DefaultRange
func ParseRange(raw string) (DateRange, error) {
	if raw == "" {
		return DefaultRange, nil
	}
	r := DateRange(strings.ToLower(raw))
	if _, ok := rangeDurations[r]; !ok {
		return "", errs.Invalid("range", raw, "must be one of 24h, 7d, 30d, 90d")
	}
	return r, nil
}

// MetricSummary aggregates one metric name over the window
type MetricSummary struct {
	Name   string  `json:"name"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Avg    float64 `json:"avg"`
	Latest float64 `json:"latest"`
}

// AnalyticsPage is the performance report
type AnalyticsPage struct {
	Range     DateRange       `json:"range"`
	From      time.Time       `json:"from"`
	To        time.Time       `json:"to"`
	Summaries []MetricSummary `json:"summaries"`
	Metrics   []types.Metric  `json:"metrics"`
}

// Analytics summarises the metrics inside r. The window ends at the newest
// metric so seeded history stays visible; with no metrics it ends now.
func (v *Views) Analytics(ctx context.Context, r DateRange) (AnalyticsPage, error) {
	d, ok := rangeDurations[r]
	if !ok {
		return AnalyticsPage{}, errs.Invalid("range", r, "")
	}
	metrics, err := fetch(ctx, v.src.Metrics, "metrics")
	if err != nil {
		return AnalyticsPage{}, err
	}

	to := v.now()
	if len(metrics) > 0 {
		to = metrics[0].Timestamp
		for _, m := range metrics[1:] {
			if m.Timestamp.After(to) {
				to = m.Timestamp
			}
		}
	}
	from := to.Add(-d)

	inRange := make([]types.Metric, 0, len(metrics))
	for _, m := range metrics {
		if !m.Timestamp.Before(from) && !m.Timestamp.After(to) {
			inRange = append(inRange, m)
		}
	}
	slices.SortStableFunc(inRange, func(a, b types.Metric) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	return AnalyticsPage{
		Range:     r,
		From:      from,
		To:        to,
		Summaries: summarise(inRange),
		Metrics:   inRange,
	}, nil
}

// summarise expects metrics in chronological order
func summarise(metrics []types.Metric) []MetricSummary {
	byName := make(map[string]*MetricSummary)
	var names []string
	sums := make(map[string]float64)
	for _, m := range metrics {
		s, ok := byName[m.Name]
		if !ok {
			s = &MetricSummary{Name: m.Name, Min: math.Inf(1), Max: math.Inf(-1)}
			byName[m.Name] = s
			names = append(names, m.Name)
		}
		s.Count++
		s.Min = math.Min(s.Min, m.Value)
		s.Max = math.Max(s.Max, m.Value)
		s.Latest = m.Value
		sums[m.Name] += m.Value
	}

	slices.Sort(names)
	out := make([]MetricSummary, 0, len(names))
	for _, n := range names {
		s := byName[n]
		s.Avg = sums[n] / float64(s.Count)
		out = append(out, *s)
	}
	return out
}
