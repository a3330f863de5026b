package events

import (
	"errors"
	"testing"
	"time"

	"github.com/go-logr/logr"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/garunski/api-explorer/pkg/explorer/database"
)

func setupTestEventDB(t *testing.T) (*database.DB, *Storage) {
	t.Helper()
	db, err := database.NewTestDB(t)
	if err != nil {
		t.Fatalf("failed to create test DB: %v", err)
	}
	return db, NewStorage(db, logr.Discard())
}

func TestStorage_StoreAndList(t *testing.T) {
	_, storage := setupTestEventDB(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	batch := []Event{
		{Timestamp: base, Type: EventTypeSuccess, Endpoint: "ping", Message: "Response received for /ping"},
		{Timestamp: base.Add(time.Second), Type: EventTypeError, Endpoint: "info", Message: "Error response received for /info"},
		{Timestamp: base.Add(2 * time.Second), Type: EventTypeSuccess, Endpoint: "ping", Message: "Response received for /ping"},
	}
	if err := storage.StoreEventsBatch(batch); err != nil {
		t.Fatalf("StoreEventsBatch() error = %v", err)
	}

	all, err := storage.ListEvents(EventFilters{})
	if err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("ListEvents() returned %d events, want 3 (index entries must not be listed)", len(all))
	}
	if !all[0].Timestamp.Equal(base.Add(2 * time.Second)) {
		t.Errorf("ListEvents() should return newest first, got %v", all[0].Timestamp)
	}
	for _, e := range all {
		if e.ID == "" {
			t.Error("stored event should have an ID")
		}
	}

	ping, err := storage.GetEventsByEndpoint("ping", 10)
	if err != nil {
		t.Fatalf("GetEventsByEndpoint() error = %v", err)
	}
	if len(ping) != 2 {
		t.Errorf("GetEventsByEndpoint(ping) returned %d events, want 2", len(ping))
	}

	errs, err := storage.GetRecentErrors(10)
	if err != nil {
		t.Fatalf("GetRecentErrors() error = %v", err)
	}
	if len(errs) != 1 || errs[0].Endpoint != "info" {
		t.Errorf("GetRecentErrors() = %+v, want the info error", errs)
	}
}

func TestStorage_ListEventsFilters(t *testing.T) {
	_, storage := setupTestEventDB(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		event := Info("root", OperationFetch, "event")
		event.Timestamp = base.Add(time.Duration(i) * time.Minute)
		if err := storage.StoreEvent(event); err != nil {
			t.Fatalf("StoreEvent() error = %v", err)
		}
	}

	tests := []struct {
		name    string
		filters EventFilters
		want    int
	}{
		{name: "limit", filters: EventFilters{Limit: 2}, want: 2},
		{name: "offset", filters: EventFilters{Offset: 3}, want: 2},
		{name: "offset past end", filters: EventFilters{Offset: 10}, want: 0},
		{name: "since", filters: EventFilters{Since: base.Add(3 * time.Minute)}, want: 2},
		{name: "until", filters: EventFilters{Until: base.Add(time.Minute)}, want: 2},
		{name: "type mismatch", filters: EventFilters{Type: EventTypeError}, want: 0},
		{name: "endpoint", filters: EventFilters{Endpoint: "root"}, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := storage.ListEvents(tt.filters)
			if err != nil {
				t.Fatalf("ListEvents() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("ListEvents() returned %d events, want %d", len(got), tt.want)
			}
		})
	}
}

func TestStorage_CleanupOldEvents(t *testing.T) {
	db, storage := setupTestEventDB(t)
	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	old := Error("healthz", OperationFetch, "Request timeout", errors.New("timeout"))
	old.Timestamp = now.AddDate(0, 0, -8)
	recent := Success("healthz", OperationFetch, "Response received for /healthz")
	recent.Timestamp = now.AddDate(0, 0, -1)

	if err := storage.StoreEventsBatch([]Event{old, recent}); err != nil {
		t.Fatalf("StoreEventsBatch() error = %v", err)
	}
	if err := db.Set("events/00000000000000000001/garbage", []byte("not json")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if err := storage.CleanupOldEvents(now.AddDate(0, 0, -7)); err != nil {
		t.Fatalf("CleanupOldEvents() error = %v", err)
	}

	remaining, err := db.List("events/")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	// primary key plus endpoint and type indexes of the recent event
	if len(remaining) != 3 {
		t.Errorf("after cleanup %d keys remain, want 3: %v", len(remaining), remaining)
	}

	errs, err := storage.GetRecentErrors(10)
	if err != nil {
		t.Fatalf("GetRecentErrors() error = %v", err)
	}
	if len(errs) != 0 {
		t.Errorf("GetRecentErrors() after cleanup = %d, want 0", len(errs))
	}
}

func TestStorage_DeleteEvent(t *testing.T) {
	db, storage := setupTestEventDB(t)
	fc := clocktesting.NewFakeClock(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	storage.WithClock(fc)

	event := Success("ping", OperationConnect, "✓ Connection successful")
	event.Timestamp = time.Time{}
	event.ID = "fixed-id"
	if err := storage.StoreEvent(event); err != nil {
		t.Fatalf("StoreEvent() error = %v", err)
	}

	if err := storage.DeleteEvent("fixed-id", fc.Now()); err != nil {
		t.Fatalf("DeleteEvent() error = %v", err)
	}

	remaining, err := db.List("events/")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("DeleteEvent() should remove indexes too, %d keys remain", len(remaining))
	}
}

func TestStoreEventSafe(t *testing.T) {
	_, storage := setupTestEventDB(t)

	StoreEventSafe(storage, logr.Discard(), Success("info", OperationFetch, "Response received for /info"))
	StoreEventSafe(nil, logr.Discard(), Success("info", OperationFetch, "ignored"))

	got, err := storage.GetEventsByEndpoint("info", 10)
	if err != nil {
		t.Fatalf("GetEventsByEndpoint() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("StoreEventSafe() stored %d events, want 1", len(got))
	}
}
