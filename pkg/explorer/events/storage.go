package events

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"k8s.io/utils/clock"

	"github.com/garunski/api-explorer/pkg/explorer/database"
	apperrors "github.com/garunski/api-explorer/pkg/explorer/errors"
)

const (
	// DefaultBatchSize bounds the number of keys deleted per transaction.
	DefaultBatchSize = 1000
	// DefaultListLimit applies when a filter carries no limit.
	DefaultListLimit = 100

	keyPrefix        = "events/"
	byEndpointPrefix = "events/by-endpoint/"
	byTypePrefix     = "events/by-type/"
)

type Storage struct {
	db     *database.DB
	logger logr.Logger
	clock  clock.PassiveClock
}

func NewStorage(db *database.DB, logger logr.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
		clock:  clock.RealClock{},
	}
}

// WithClock sets the clock used to stamp events without a timestamp.
func (s *Storage) WithClock(c clock.PassiveClock) *Storage {
	s.clock = c
	return s
}

func timestampKey(e Event) string {
	return fmt.Sprintf("%s%020d/%s", keyPrefix, e.Timestamp.UnixNano(), e.ID)
}

func endpointKey(e Event) string {
	return fmt.Sprintf("%s%s/%020d/%s", byEndpointPrefix, e.Endpoint, e.Timestamp.UnixNano(), e.ID)
}

func typeKey(e Event) string {
	return fmt.Sprintf("%s%s/%020d/%s", byTypePrefix, e.Type, e.Timestamp.UnixNano(), e.ID)
}

func isIndexKey(key string) bool {
	return strings.HasPrefix(key, byEndpointPrefix) || strings.HasPrefix(key, byTypePrefix)
}

// keys returns the primary key followed by the index keys of an event.
func keys(e Event) []string {
	out := []string{timestampKey(e)}
	if e.Endpoint != "" {
		out = append(out, endpointKey(e))
	}
	return append(out, typeKey(e))
}

func (s *Storage) prepare(event Event) Event {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.clock.Now()
	}
	return event
}

func (s *Storage) StoreEvent(event Event) error {
	event = s.prepare(event)

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: marshal event: %w", apperrors.ErrEventStore, err)
	}

	all := keys(event)
	if err := s.db.Set(all[0], data); err != nil {
		return fmt.Errorf("%w: store event: %w", apperrors.ErrEventStore, err)
	}

	for _, key := range all[1:] {
		if err := s.db.Set(key, data); err != nil {
			s.logger.Error(err, "failed to store event index", "key", key)
		}
	}
	return nil
}

func (s *Storage) StoreEventsBatch(events []Event) error {
	if len(events) == 0 {
		return nil
	}

	batchItems := make(map[string][]byte)
	for _, event := range events {
		event = s.prepare(event)

		data, err := json.Marshal(event)
		if err != nil {
			s.logger.Error(err, "failed to marshal event in batch", "eventID", event.ID)
			continue
		}
		for _, key := range keys(event) {
			batchItems[key] = data
		}
	}

	if err := s.db.BatchSet(batchItems); err != nil {
		return fmt.Errorf("%w: store events batch: %w", apperrors.ErrEventStore, err)
	}
	return nil
}

func (s *Storage) ListEvents(filters EventFilters) ([]Event, error) {
	prefix := keyPrefix
	switch {
	case filters.Endpoint != "":
		prefix = byEndpointPrefix + filters.Endpoint + "/"
	case filters.Type != "":
		prefix = byTypePrefix + string(filters.Type) + "/"
	}

	allItems, err := s.db.List(prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: list events: %w", apperrors.ErrEventStore, err)
	}

	events := make([]Event, 0, len(allItems))
	for key, data := range allItems {
		if prefix == keyPrefix && isIndexKey(key) {
			continue
		}

		var event Event
		if err := json.Unmarshal(data, &event); err != nil {
			s.logger.Error(err, "failed to unmarshal event", "key", key)
			continue
		}

		if filters.Endpoint != "" && event.Endpoint != filters.Endpoint {
			continue
		}
		if filters.Type != "" && event.Type != filters.Type {
			continue
		}
		if !filters.Since.IsZero() && event.Timestamp.Before(filters.Since) {
			continue
		}
		if !filters.Until.IsZero() && event.Timestamp.After(filters.Until) {
			continue
		}

		events = append(events, event)
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})

	offset := max(filters.Offset, 0)
	if offset >= len(events) {
		return []Event{}, nil
	}
	events = events[offset:]

	limit := filters.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

func (s *Storage) GetEventsByEndpoint(endpoint string, limit int) ([]Event, error) {
	return s.ListEvents(EventFilters{Endpoint: endpoint, Limit: limit})
}

func (s *Storage) GetRecentErrors(limit int) ([]Event, error) {
	return s.ListEvents(EventFilters{Type: EventTypeError, Limit: limit})
}

func (s *Storage) DeleteEvent(id string, timestamp time.Time) error {
	key := timestampKey(Event{ID: id, Timestamp: timestamp})
	data, err := s.db.Get(key)
	if err != nil {
		return err
	}

	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		// index entries cannot be located without the payload
		return s.db.Delete(key)
	}
	return s.db.BatchDelete(keys(event))
}
