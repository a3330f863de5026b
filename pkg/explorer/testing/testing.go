package testing

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"

	"github.com/garunski/api-explorer/pkg/explorer/controller"
	"github.com/garunski/api-explorer/pkg/explorer/database"
	"github.com/garunski/api-explorer/pkg/explorer/events"
	"github.com/garunski/api-explorer/pkg/explorer/storage"
	"github.com/garunski/api-explorer/pkg/explorer/view"
)

// NewTestLogger creates a test logger
func NewTestLogger() logr.Logger {
	zapLog, _ := zap.NewDevelopment()
	return zapr.NewLogger(zapLog)
}

// NewTestDB creates a test database
func NewTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.NewTestDB(t)
	if err != nil {
		t.Fatalf("failed to create test DB: %v", err)
	}
	return db
}

// NewTestEventStore creates a test event store
func NewTestEventStore(t *testing.T) *events.Storage {
	t.Helper()
	return events.NewStorage(NewTestDB(t), logr.Discard())
}

// NewTestStore creates an unlimited in-memory URL store
func NewTestStore() *storage.MemoryStore {
	return storage.NewMemoryStore(0)
}

// NewTestPage creates a page with every endpoint slot and both controls
func NewTestPage(input string, opts ...view.PageOption) *view.Page {
	pageOpts := append([]view.PageOption{
		view.WithInput(input),
		view.WithControl(controller.ControlTestConnection, controller.LabelTestConnection),
		view.WithControl(controller.ControlFetchAll, controller.LabelFetchAll),
	}, opts...)
	return view.NewPage(controller.SlotNames(), pageOpts...)
}
