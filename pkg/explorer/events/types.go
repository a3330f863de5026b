package events

import "time"

type EventType string

const (
	EventTypeError   EventType = "error"
	EventTypeSuccess EventType = "success"
	EventTypeInfo    EventType = "info"
	EventTypeWarning EventType = "warning"
)

// Operation names the explorer action an event was recorded for.
type Operation string

const (
	OperationConnect  Operation = "connect"
	OperationFetch    Operation = "fetch"
	OperationRetry    Operation = "retry"
	OperationCopy     Operation = "copy"
	OperationSettings Operation = "settings"
	OperationNetwork  Operation = "connectivity"
)

// Event is one entry of the activity log. Response bodies are never stored.
type Event struct {
	ID        string                 `json:"id"`
	Timestamp time.Time              `json:"timestamp"`
	Type      EventType              `json:"type"`
	Endpoint  string                 `json:"endpoint,omitempty"`
	Message   string                 `json:"message"`
	Error     string                 `json:"error,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

type EventFilters struct {
	Endpoint string
	Type     EventType
	Since    time.Time
	Until    time.Time
	Limit    int
	Offset   int
}

// ValidType reports whether t is one of the known event types.
func ValidType(t EventType) bool {
	switch t {
	case EventTypeError, EventTypeSuccess, EventTypeInfo, EventTypeWarning:
		return true
	}
	return false
}
