package types

import "time"

// Metric is a named numeric measurement; consumers interpret it by name
type Metric struct {
	ID        int       `json:"Id" yaml:"Id"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Name      string    `json:"name" yaml:"name"`
	Value     float64   `json:"value" yaml:"value"`
}

func (m Metric) EntityID() int { return m.ID }

func (m Metric) WithID(id int) Metric {
	m.ID = id
	return m
}

func (m Metric) Clone() Metric { return m }

func (m Metric) Validate() error { return nil }

// MetricPatch is a partial update; nil fields are left untouched
type MetricPatch struct {
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Name      *string    `json:"name,omitempty"`
	Value     *float64   `json:"value,omitempty"`
}

func (p MetricPatch) Apply(m Metric) Metric {
	if p.Timestamp != nil {
		m.Timestamp = *p.Timestamp
	}
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Value != nil {
		m.Value = *p.Value
	}
	return m
}
