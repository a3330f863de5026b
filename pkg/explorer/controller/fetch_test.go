package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-logr/logr"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/garunski/api-explorer/pkg/explorer/events"
	"github.com/garunski/api-explorer/pkg/explorer/format"
	"github.com/garunski/api-explorer/pkg/explorer/storage"
	"github.com/garunski/api-explorer/pkg/explorer/view"
)

func TestFetchEndpoint_JSONSuccess(t *testing.T) {
	srv := newLearnNodeAPI(t, nil)
	eventStore := newTestEventStore(t)
	env := newTestEnv(t, srv.URL, fastOptions(), WithEventStore(eventStore))

	env.ctrl.FetchEndpoint(context.Background(), "/ping")

	slot, _ := env.page.Slot("ping")
	if slot.State != string(format.KindSuccess) {
		t.Fatalf("slot state = %q, want success (body %q)", slot.State, slot.Body)
	}
	if !strings.Contains(slot.Body, `"pong"`) {
		t.Errorf("slot body = %q, want it to contain pong", slot.Body)
	}
	if slot.Body != "{\n  \"message\": \"pong\"\n}" {
		t.Errorf("slot body = %q, want 2-space indented JSON", slot.Body)
	}
	if slot.ContentType != "application/json; charset=utf-8" {
		t.Errorf("content type = %q", slot.ContentType)
	}

	value, ok := env.page.SlotValue("ping")
	if !ok {
		t.Fatal("SlotValue() missing")
	}
	if raw, ok := value.(json.RawMessage); !ok || string(raw) != `{"message":"pong"}` {
		t.Errorf("copy value = %#v, want raw JSON", value)
	}

	announcements := env.page.Snapshot().Announcements
	if len(announcements) != 1 || announcements[0].Message != "Response received for /ping" {
		t.Errorf("announcements = %+v", announcements)
	}

	recorded, err := eventStore.GetEventsByEndpoint("ping", 10)
	if err != nil {
		t.Fatalf("GetEventsByEndpoint() error = %v", err)
	}
	if len(recorded) != 1 || recorded[0].Type != events.EventTypeSuccess {
		t.Fatalf("recorded events = %+v", recorded)
	}
	if recorded[0].Details["statusCode"] != float64(200) {
		t.Errorf("statusCode detail = %v", recorded[0].Details["statusCode"])
	}
}

func TestFetchEndpoint_Outcomes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/info":
			w.Header().Set("Content-Type", "text/plain")
			w.Write([]byte("plain info"))
		case "/healthz":
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
		case "/ping":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"message":`))
		default:
			w.Write([]byte("root"))
		}
	}))
	defer srv.Close()

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name      string
		base      string
		path      string
		wantState format.Kind
		wantBody  string
	}{
		{name: "plain text", base: srv.URL, path: "/info", wantState: format.KindText, wantBody: "plain info"},
		{name: "http error", base: srv.URL, path: "/healthz", wantState: format.KindError, wantBody: "Error 503: unhealthy"},
		{name: "malformed json", base: srv.URL, path: "/ping", wantState: format.KindError, wantBody: "Network Error: "},
		{name: "refused", base: closedURL, path: "/", wantState: format.KindError, wantBody: MsgCheckNetworkFix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.base, fastOptions())
			env.ctrl.FetchEndpoint(context.Background(), tt.path)

			slot, _ := env.page.Slot(SlotName(tt.path))
			if slot.State != string(tt.wantState) {
				t.Errorf("state = %q, want %q (body %q)", slot.State, tt.wantState, slot.Body)
			}
			if !strings.Contains(slot.Body, tt.wantBody) {
				t.Errorf("body = %q, want it to contain %q", slot.Body, tt.wantBody)
			}
			if tt.wantState == format.KindError && slot.ContentType != format.DefaultContentType {
				t.Errorf("error header content type = %q, want %q", slot.ContentType, format.DefaultContentType)
			}
		})
	}
}

func TestFetchEndpoint_NoRetryOnHTTPError(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	env := newTestEnv(t, srv.URL, fastOptions())
	env.ctrl.FetchEndpoint(context.Background(), "/info")

	if hits.Load() != 1 {
		t.Errorf("server saw %d requests, want 1", hits.Load())
	}
}

func TestFetchEndpoint_RetriesOnTimeout(t *testing.T) {
	hits := make(chan struct{}, 10)
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits <- struct{}{}
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
		env.ctrl.FetchEndpoint(context.Background(), "/healthz")
		close(done)
	}()

	awaitHit := func(attempt int) {
		t.Helper()
		select {
		case <-hits:
		case <-time.After(3 * time.Second):
			t.Fatalf("attempt %d never reached the server", attempt)
		}
	}

	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		awaitHit(attempt)
		eventually(t, fc.HasWaiters)
		fc.Step(opts.Timeout)
		if attempt == opts.MaxRetries {
			break
		}

		delay := opts.RetryDelay * time.Duration(attempt+1)
		eventually(t, fc.HasWaiters)
		fc.Step(delay - time.Millisecond)
		select {
		case <-hits:
			t.Fatalf("retry %d issued before its %v backoff", attempt+1, delay)
		case <-time.After(20 * time.Millisecond):
		}
		fc.Step(time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("FetchEndpoint did not return after the last timeout")
	}

	if extra := len(hits); extra != 0 {
		t.Errorf("server saw %d requests beyond 1 + %d retries", extra, opts.MaxRetries)
	}
	slot, _ := env.page.Slot("healthz")
	if slot.State != string(format.KindError) || slot.Body != MsgRequestTimeout {
		t.Errorf("slot = %+v, want timeout error", slot)
	}
	if slot.DurationMs != opts.Timeout.Milliseconds() {
		t.Errorf("duration = %dms, want %dms", slot.DurationMs, opts.Timeout.Milliseconds())
	}
}

func TestFetchEndpoint_Offline(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	env := newTestEnv(t, srv.URL, fastOptions())
	env.ctrl.SetOnline(false)
	env.ctrl.FetchEndpoint(context.Background(), "/info")

	if hits.Load() != 0 {
		t.Error("offline fetch must not issue a request")
	}
	slot, _ := env.page.Slot("info")
	if slot.State != string(format.KindError) || slot.Body != MsgNoInternetSlot {
		t.Errorf("slot = %+v", slot)
	}
	if slot.ContentType != "application/json" {
		t.Errorf("content type = %q, want application/json", slot.ContentType)
	}
}

func TestFetchEndpoint_InvalidURL(t *testing.T) {
	env := newTestEnv(t, "", fastOptions())
	env.ctrl.FetchEndpoint(context.Background(), "/ping")

	if got := env.page.Snapshot().InputError; got != MsgURLRequired {
		t.Errorf("InputError = %q", got)
	}
	if slot, _ := env.page.Slot("ping"); slot.State != "idle" {
		t.Errorf("slot state = %q, want idle", slot.State)
	}
}

func TestDisplayResponse_UnknownSlot(t *testing.T) {
	env := newTestEnv(t, "http://localhost", fastOptions())
	env.ctrl.DisplayResponse(Outcome{Endpoint: "/metrics", Body: "x"})

	if got := env.page.Snapshot().Announcements; len(got) != 0 {
		t.Errorf("announcements = %+v, want none for unknown slot", got)
	}
}

func TestDisplayResponse_AnnouncementRetracted(t *testing.T) {
	fc := clocktesting.NewFakeClock(time.Now())
	env := newTestEnv(t, "http://localhost", fastOptions(), WithClock(fc))

	env.ctrl.DisplayResponse(Outcome{Endpoint: "/info", Body: "nope", IsError: true})
	got := env.page.Snapshot().Announcements
	if len(got) != 1 || got[0].Message != "Error response received for /info" {
		t.Fatalf("announcements = %+v", got)
	}
	slot, _ := env.page.Slot("info")
	if slot.DurationMs != 0 {
		t.Errorf("unknown duration rendered as %dms", slot.DurationMs)
	}

	fc.Step(time.Second)
	eventually(t, func() bool { return len(env.page.Snapshot().Announcements) == 0 })
}

func TestFetchAllEndpoints_OrderAndPause(t *testing.T) {
	rec := &recorder{}
	srv := newLearnNodeAPI(t, rec)
	opts := fastOptions()
	env := newTestEnv(t, srv.URL, opts)

	env.ctrl.FetchAllEndpoints(context.Background())

	paths, times := rec.snapshot()
	want := []string{"/", "/ping", "/healthz", "/info"}
	if strings.Join(paths, ",") != strings.Join(want, ",") {
		t.Fatalf("request order = %v, want %v", paths, want)
	}
	for i := 1; i < len(times); i++ {
		if gap := times[i].Sub(times[i-1]); gap < opts.FetchAllPause {
			t.Errorf("gap between %s and %s = %v, want >= %v", paths[i-1], paths[i], gap, opts.FetchAllPause)
		}
	}

	state := env.page.Snapshot()
	for _, slot := range state.Slots {
		if slot.State == "idle" || slot.State == "loading" {
			t.Errorf("slot %s left in state %s", slot.Name, slot.State)
		}
		if !strings.HasPrefix(slot.Class, "response-container active") {
			t.Errorf("slot %s class = %q", slot.Name, slot.Class)
		}
	}
	if c := state.Controls[ControlFetchAll]; c.Label != LabelFetchAll || c.Disabled {
		t.Errorf("fetch-all control = %+v, want restored", c)
	}
}

func TestFetchAllEndpoints_IgnoresConcurrentRun(t *testing.T) {
	var mu sync.Mutex
	count := 0
	first := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		count++
		n := count
		mu.Unlock()
		if n == 1 {
			close(first)
			<-release
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	env := newTestEnv(t, srv.URL, fastOptions())
	done := make(chan struct{})
	go func() {
		env.ctrl.FetchAllEndpoints(context.Background())
		close(done)
	}()

	<-first
	if c := env.page.Snapshot().Controls[ControlFetchAll]; c.Label != LabelFetching || !c.Disabled {
		t.Errorf("fetch-all control during run = %+v", c)
	}
	env.ctrl.FetchAllEndpoints(context.Background())
	close(release)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("fetch all did not finish")
	}

	mu.Lock()
	defer mu.Unlock()
	if count != 4 {
		t.Errorf("server saw %d requests, want 4", count)
	}
}

func TestFetchAllEndpoints_Offline(t *testing.T) {
	env := newTestEnv(t, "http://localhost", fastOptions())
	env.ctrl.SetOnline(false)
	env.ctrl.FetchAllEndpoints(context.Background())

	if got := env.page.Snapshot().Status.Message; got != MsgNoInternet {
		t.Errorf("status = %q, want %q", got, MsgNoInternet)
	}
}

// panickingDisplay fails every time a slot is marked loading.
type panickingDisplay struct {
	*view.Page
}

func (panickingDisplay) SetSlotLoading(string) bool {
	panic("slot unavailable")
}

func TestFetchAllEndpoints_RestoresControlAfterPanic(t *testing.T) {
	srv := newLearnNodeAPI(t, nil)
	page := view.NewPage(SlotNames(), view.WithInput(srv.URL),
		view.WithControl(ControlTestConnection, LabelTestConnection),
		view.WithControl(ControlFetchAll, LabelFetchAll))
	ctrl := New(panickingDisplay{page}, storage.NewMemoryStore(0), logr.Discard(), fastOptions())
	t.Cleanup(ctrl.Close)

	for run := 0; run < 2; run++ {
		ctrl.FetchAllEndpoints(context.Background())

		if c := page.Snapshot().Controls[ControlFetchAll]; c.Label != LabelFetchAll || c.Disabled {
			t.Errorf("run %d: fetch-all control = %+v, want restored", run, c)
		}
		if ctrl.fetchingAll.Load() {
			t.Errorf("run %d: fetch-all still marked running", run)
		}
	}
}

func TestFetchAllEndpoints_Cancelled(t *testing.T) {
	rec := &recorder{}
	srv := newLearnNodeAPI(t, rec)
	opts := fastOptions()
	opts.FetchAllPause = time.Hour
	env := newTestEnv(t, srv.URL, opts)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		env.ctrl.FetchAllEndpoints(ctx)
		close(done)
	}()

	eventually(t, func() bool {
		paths, _ := rec.snapshot()
		return len(paths) == 1
	})
	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("cancelled fetch all did not return")
	}
	if c := env.page.Snapshot().Controls[ControlFetchAll]; c.Label != LabelFetchAll || c.Disabled {
		t.Errorf("fetch-all control = %+v, want restored after cancel", c)
	}
}
