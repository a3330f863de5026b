package events

import "time"

// EventStorage defines the activity log operations.
type EventStorage interface {
	// StoreEvent stores a single event
	StoreEvent(event Event) error

	// StoreEventsBatch stores multiple events in one transaction
	StoreEventsBatch(events []Event) error

	// ListEvents lists events matching the provided filters, newest first
	ListEvents(filters EventFilters) ([]Event, error)

	// GetEventsByEndpoint retrieves events recorded for one endpoint slot
	GetEventsByEndpoint(endpoint string, limit int) ([]Event, error)

	// GetRecentErrors retrieves recent error events
	GetRecentErrors(limit int) ([]Event, error)

	// CleanupOldEvents removes events older than the specified time
	CleanupOldEvents(before time.Time) error

	// DeleteEvent deletes a specific event by ID and timestamp
	DeleteEvent(id string, timestamp time.Time) error
}

var _ EventStorage = (*Storage)(nil)
