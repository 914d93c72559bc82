package types

// Entity is implemented by every record kind held in the store.
type Entity[T any] interface {
	// EntityID returns the record's identifier.
	EntityID() int
	// WithID returns a copy of the record carrying id.
	WithID(id int) T
	// Clone returns a deep copy safe to hand to callers.
	Clone() T
}

// Kind names an entity collection
type Kind string

const (
	KindAgent  Kind = "agent"
	KindCall   Kind = "call"
	KindQueue  Kind = "queue"
	KindMetric Kind = "metric"
)

// Label returns the user-facing name used in error messages
func (k Kind) Label() string {
	switch k {
	case KindAgent:
		return "Agent"
	case KindCall:
		return "Call"
	case KindQueue:
		return "Queue"
	case KindMetric:
		return "Metric"
	}
	return string(k)
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
