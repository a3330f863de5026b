package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-logr/logr"

	"github.com/garunski/api-explorer/pkg/explorer/controller"
	"github.com/garunski/api-explorer/pkg/explorer/events"
	"github.com/garunski/api-explorer/pkg/explorer/storage"
	explorertest "github.com/garunski/api-explorer/pkg/explorer/testing"
	"github.com/garunski/api-explorer/pkg/explorer/view"
)

type testHandlerConfig struct {
	input         string
	pageOptions   []view.PageOption
	store         storage.Store
	eventStore    events.EventStorage
	eventStoreSet bool
	options       controller.Options
}

type testHandlerOption func(*testHandlerConfig)

func WithTestInput(input string) testHandlerOption {
	return func(c *testHandlerConfig) { c.input = input }
}

func WithTestPageOption(opt view.PageOption) testHandlerOption {
	return func(c *testHandlerConfig) { c.pageOptions = append(c.pageOptions, opt) }
}

func WithTestStore(s storage.Store) testHandlerOption {
	return func(c *testHandlerConfig) { c.store = s }
}

func WithNilEventStore() testHandlerOption {
	return func(c *testHandlerConfig) {
		c.eventStore = nil
		c.eventStoreSet = true
	}
}

func newTestHandler(t *testing.T, opts ...testHandlerOption) (*Handler, error) {
	t.Helper()
	logger := logr.Discard()

	options := controller.DefaultOptions()
	options.Timeout = 2 * time.Second
	options.RetryDelay = 5 * time.Millisecond
	options.FetchAllPause = 5 * time.Millisecond

	cfg := testHandlerConfig{options: options}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.store == nil {
		cfg.store = explorertest.NewTestStore()
	}
	if cfg.eventStore == nil && !cfg.eventStoreSet {
		cfg.eventStore = explorertest.NewTestEventStore(t)
	}

	page := explorertest.NewTestPage(cfg.input, cfg.pageOptions...)

	ctrlOpts := []controller.Option{}
	if cfg.eventStore != nil {
		ctrlOpts = append(ctrlOpts, controller.WithEventStore(cfg.eventStore))
	}
	ctrl := controller.New(page, cfg.store, logger, cfg.options, ctrlOpts...)
	t.Cleanup(ctrl.Close)

	h, err := NewHandler(ctrl, page, cfg.store, cfg.eventStore, logger, "test-app", "test-version", context.Background(), nil)
	if err != nil {
		return nil, err
	}
	t.Cleanup(h.Wait)
	return h, nil
}

func setupTestHandlerWithEventStore(t *testing.T) (*Handler, *events.Storage) {
	t.Helper()
	eventStore := explorertest.NewTestEventStore(t)

	handler, err := newTestHandler(t, func(c *testHandlerConfig) { c.eventStore = eventStore })
	if err != nil {
		t.Fatalf("newTestHandler() error = %v", err)
	}
	return handler, eventStore
}

// newTargetAPI serves the endpoints the explorer fetches.
func newTargetAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/":
			w.Write([]byte(`{"message":"Welcome"}`))
		case "/ping":
			w.Write([]byte(`{"message":"pong"}`))
		case "/healthz":
			w.Write([]byte(`{"status":"ok"}`))
		case "/info":
			w.Header().Set("Content-Type", "text/plain")
			w.Write([]byte("info"))
		default:
			http.NotFound(w, r)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}
