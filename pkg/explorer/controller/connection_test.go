package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	clocktesting "k8s.io/utils/clock/testing"

	"github.com/garunski/api-explorer/pkg/explorer/events"
	"github.com/garunski/api-explorer/pkg/explorer/storage"
	"github.com/garunski/api-explorer/pkg/explorer/view"
)

func TestTestConnection_Success(t *testing.T) {
	srv := newLearnNodeAPI(t, nil)
	eventStore := newTestEventStore(t)
	env := newTestEnv(t, "  "+srv.URL+"  ", fastOptions(), WithEventStore(eventStore))

	env.ctrl.TestConnection(context.Background())

	state := env.page.Snapshot()
	if state.Status.Message != MsgConnected || state.Status.Class != view.StatusSuccess {
		t.Errorf("status = %+v, want connected", state.Status)
	}
	if c := state.Controls[ControlTestConnection]; c.Label != LabelTestConnection || c.Disabled {
		t.Errorf("test control = %+v, want restored", c)
	}

	stored, ok, err := env.store.GetItem(context.Background(), storage.URLKey)
	if err != nil || !ok {
		t.Fatalf("GetItem() = %q, %v, %v", stored, ok, err)
	}
	if stored != srv.URL {
		t.Errorf("stored URL = %q, want trimmed %q", stored, srv.URL)
	}

	recorded, err := eventStore.GetEventsByEndpoint("ping", 10)
	if err != nil {
		t.Fatalf("GetEventsByEndpoint() error = %v", err)
	}
	if len(recorded) != 1 || recorded[0].Details["operation"] != string(events.OperationConnect) {
		t.Errorf("recorded events = %+v", recorded)
	}
}

func TestTestConnection_Failures(t *testing.T) {
	unavailable := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer unavailable.Close()

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name string
		base string
		want string
	}{
		{name: "http status", base: unavailable.URL, want: "✗ Connection failed: HTTP 503: Service Unavailable"},
		{name: "refused", base: closedURL, want: "✗ Connection failed: Network error or CORS issue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.base, fastOptions())
			env.ctrl.TestConnection(context.Background())

			state := env.page.Snapshot()
			if state.Status.Message != tt.want {
				t.Errorf("status = %q, want %q", state.Status.Message, tt.want)
			}
			if state.Status.Class != view.StatusError {
				t.Errorf("status class = %q, want error", state.Status.Class)
			}
			if _, ok, _ := env.store.GetItem(context.Background(), storage.URLKey); ok {
				t.Error("failed connection test must not persist the URL")
			}
		})
	}
}

func TestTestConnection_TimeoutDoesNotRetry(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	fc := clocktesting.NewFakeClock(time.Now())
	opts := DefaultOptions()
	env := newTestEnv(t, srv.URL, opts, WithClock(fc))

	done := make(chan struct{})
	go func() {
		env.ctrl.TestConnection(context.Background())
		close(done)
	}()

	eventually(t, func() bool { return hits.Load() == 1 })
	if got := env.page.Snapshot().Status; got.Message != MsgTesting || got.Class != view.StatusLoading {
		t.Errorf("status while probing = %+v", got)
	}
	if c := env.page.Snapshot().Controls[ControlTestConnection]; !c.Disabled || c.Label != LabelTesting {
		t.Errorf("test control while probing = %+v", c)
	}

	fc.Step(opts.Timeout)
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("connection test did not time out")
	}

	if got := env.page.Snapshot().Status.Message; got != "✗ Connection failed: Request timeout" {
		t.Errorf("status = %q", got)
	}
	if hits.Load() != 1 {
		t.Errorf("server saw %d requests, want 1", hits.Load())
	}
}

func TestTestConnection_StatusClears(t *testing.T) {
	srv := newLearnNodeAPI(t, nil)
	fc := clocktesting.NewFakeClock(time.Now())
	opts := DefaultOptions()
	env := newTestEnv(t, srv.URL, opts, WithClock(fc))

	env.ctrl.TestConnection(context.Background())
	if got := env.page.Snapshot().Status.Message; got != MsgConnected {
		t.Fatalf("status = %q", got)
	}

	fc.Step(opts.StatusClearDelay)
	eventually(t, func() bool { return env.page.Snapshot().Status.Message == "" })
}

func TestTestConnection_InvalidURL(t *testing.T) {
	for _, input := range []string{"not a url", "http://"} {
		t.Run(input, func(t *testing.T) {
			env := newTestEnv(t, input, fastOptions())
			env.ctrl.TestConnection(context.Background())

			state := env.page.Snapshot()
			if state.InputError != MsgInvalidURL {
				t.Errorf("InputError = %q, want %q", state.InputError, MsgInvalidURL)
			}
			if strings.HasPrefix(state.Status.Message, MsgConnectFailed) {
				t.Errorf("invalid URL must not be requested, status = %q", state.Status.Message)
			}
		})
	}
}

func TestTestConnection_Offline(t *testing.T) {
	env := newTestEnv(t, "http://localhost", fastOptions())
	env.ctrl.SetOnline(false)
	env.ctrl.TestConnection(context.Background())

	if got := env.page.Snapshot().Status.Message; got != MsgNoInternet {
		t.Errorf("status = %q, want %q", got, MsgNoInternet)
	}
}
