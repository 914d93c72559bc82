package service

import (
	"time"

	"github.com/dennisdiepolder/monti/dashboard/internal/store"
	"github.com/dennisdiepolder/monti/dashboard/internal/types"
)

type (
	AgentService  = Service[types.Agent, types.AgentPatch]
	CallService   = Service[types.Call, types.CallPatch]
	QueueService  = Service[types.Queue, types.QueuePatch]
	MetricService = Service[types.Metric, types.MetricPatch]
)

// NewAgentService creates the agent service. New agents start with no
// call history and, unless given one, the offline status.
func NewAgentService(c *store.Collection[types.Agent], opts Options) *AgentService {
	return newService[types.Agent, types.AgentPatch](types.KindAgent, c, opts, prepareAgent, types.Agent.Validate)
}

func prepareAgent(a types.Agent, _ time.Time) types.Agent {
	if a.Status == "" {
		a.Status = types.AgentOffline
	}
	a.TotalCalls = 0
	a.AvgHandleTime = 0
	a.Satisfaction = 0
	return a
}

// NewCallService creates the call service. New calls are stamped with the
// creation time.
func NewCallService(c *store.Collection[types.Call], opts Options) *CallService {
	return newService[types.Call, types.CallPatch](types.KindCall, c, opts, prepareCall, types.Call.Validate)
}

func prepareCall(c types.Call, now time.Time) types.Call {
	c.Timestamp = now
	return c
}

// NewQueueService creates the queue service. New queues start empty with
// no agents assigned.
func NewQueueService(c *store.Collection[types.Queue], opts Options) *QueueService {
	return newService[types.Queue, types.QueuePatch](types.KindQueue, c, opts, prepareQueue, types.Queue.Validate)
}

func prepareQueue(q types.Queue, _ time.Time) types.Queue {
	q.WaitingCalls = 0
	q.AvgWaitTime = 0
	q.Agents = []int{}
	return q
}

// NewMetricService creates the metric service. New metrics are stamped with
// the creation time.
func NewMetricService(c *store.Collection[types.Metric], opts Options) *MetricService {
	return newService[types.Metric, types.MetricPatch](types.KindMetric, c, opts, prepareMetric, types.Metric.Validate)
}

func prepareMetric(m types.Metric, now time.Time) types.Metric {
	m.Timestamp = now
	return m
}

// Services bundles one service per entity over a shared store
type Services struct {
	Agents  *AgentService
	Calls   *CallService
	Queues  *QueueService
	Metrics *MetricService
}

// Reseeded announces a store reset for every entity
func (s *Services) Reseeded() {
	s.Agents.Reseeded()
	s.Calls.Reseeded()
	s.Queues.Reseeded()
	s.Metrics.Reseeded()
}

// New wires a service for every collection in st
func New(st *store.Store, opts Options) *Services {
	return &Services{
		Agents:  NewAgentService(st.Agents, opts),
		Calls:   NewCallService(st.Calls, opts),
		Queues:  NewQueueService(st.Queues, opts),
		Metrics: NewMetricService(st.Metrics, opts),
	}
}
