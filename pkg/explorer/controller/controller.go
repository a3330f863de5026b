// Package controller implements the API explorer: it validates and
// persists the base URL, tests connectivity, fetches the fixed endpoint
// set with timeout and retry, and renders outcomes into a view.Display.
package controller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/utils/clock"

	"github.com/garunski/api-explorer/pkg/explorer/events"
	"github.com/garunski/api-explorer/pkg/explorer/schedule"
	"github.com/garunski/api-explorer/pkg/explorer/storage"
	"github.com/garunski/api-explorer/pkg/explorer/transport"
	"github.com/garunski/api-explorer/pkg/explorer/view"
)

// PlaceholderURL is the input value shown before any URL is configured.
const PlaceholderURL = "FIXME_API_URL"

// Control identifiers and labels.
const (
	ControlTestConnection = "test-connection"
	ControlFetchAll       = "fetch-all"

	LabelTestConnection = "Test Connection"
	LabelTesting        = "Testing..."
	LabelFetchAll       = "🔄 Fetch All Endpoints"
	LabelFetching       = "⏳ Fetching..."

	LabelCopied       = "Copied!"
	LabelCopyFailed   = "Copy failed"
	LabelNotSupported = "Not supported"
)

// User facing messages.
const (
	MsgURLRequired     = "API URL is required"
	MsgInvalidURL      = "Please enter a valid URL"
	MsgTesting         = "Testing..."
	MsgConnected       = "✓ Connection successful"
	MsgConnectFailed   = "✗ Connection failed"
	MsgBackOnline      = "📶 Back online"
	MsgOffline         = "📶 You are offline"
	MsgNoInternet      = "📶 No internet connection"
	MsgNoInternetSlot  = "No internet connection"
	MsgRequestTimeout  = "Request timeout"
	MsgNetworkOrCORS   = "Network error or CORS issue"
	MsgCheckNetworkFix = " (Check CORS settings or network connectivity)"
)

const (
	taskStatus   = "status"
	taskSave     = "save"
	taskAutoTest = "auto-test"
)

// Options holds the timing and retry settings of a controller.
type Options struct {
	Timeout          time.Duration
	MaxRetries       int
	RetryDelay       time.Duration
	FetchAllPause    time.Duration
	StatusClearDelay time.Duration
	AnnounceDelay    time.Duration
	CopyResetDelay   time.Duration
	SaveDebounce     time.Duration
	AutoTestDelay    time.Duration
	// Online is the connectivity assumed until the page reports otherwise.
	Online bool
}

func DefaultOptions() Options {
	return Options{
		Timeout:          10 * time.Second,
		MaxRetries:       3,
		RetryDelay:       time.Second,
		FetchAllPause:    300 * time.Millisecond,
		StatusClearDelay: 5 * time.Second,
		AnnounceDelay:    time.Second,
		CopyResetDelay:   2 * time.Second,
		SaveDebounce:     500 * time.Millisecond,
		AutoTestDelay:    time.Second,
		Online:           true,
	}
}

// Settings is a snapshot of the controller configuration state.
type Settings struct {
	BaseURL    string        `json:"baseUrl"`
	Online     bool          `json:"online"`
	Timeout    time.Duration `json:"timeout"`
	MaxRetries int           `json:"maxRetries"`
}

type Controller struct {
	logger  logr.Logger
	display view.Display
	store   storage.Store
	client  *transport.Client
	clock   clock.WithDelayedExecution
	tasks   *schedule.Scheduler
	events  events.EventStorage
	opts    Options

	mu      sync.Mutex
	baseURL string
	online  bool

	probing     atomic.Bool
	fetchingAll atomic.Bool
}

type Option func(*Controller)

// WithClock replaces the real clock, mainly for tests.
func WithClock(c clock.WithDelayedExecution) Option {
	return func(ctrl *Controller) { ctrl.clock = c }
}

func WithClient(c *transport.Client) Option {
	return func(ctrl *Controller) { ctrl.client = c }
}

// WithEventStore records outcomes in the activity log.
func WithEventStore(s events.EventStorage) Option {
	return func(ctrl *Controller) { ctrl.events = s }
}

func New(display view.Display, store storage.Store, logger logr.Logger, opts Options, options ...Option) *Controller {
	c := &Controller{
		logger:  logger,
		display: display,
		store:   store,
		clock:   clock.RealClock{},
		opts:    opts,
		online:  opts.Online,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.client == nil {
		c.client = transport.NewClient()
	}
	c.tasks = schedule.New(c.clock)
	return c
}

// Start restores the stored URL, reports an offline start and schedules
// the automatic connection test when a URL is already configured.
func (c *Controller) Start(ctx context.Context) {
	c.LoadStoredURL(ctx)

	if !c.Online() {
		c.showStatus(MsgOffline, view.StatusError)
	}

	c.mu.Lock()
	configured := c.baseURL != "" && c.baseURL != PlaceholderURL
	c.mu.Unlock()

	if configured {
		c.tasks.Schedule(taskAutoTest, c.opts.AutoTestDelay, func() { c.TestConnection(ctx) })
	}
}

// Close cancels every pending display task.
func (c *Controller) Close() {
	c.tasks.Stop()
}

func (c *Controller) Online() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.online
}

// SetOnline records a connectivity change reported by the platform.
func (c *Controller) SetOnline(online bool) {
	c.mu.Lock()
	changed := c.online != online
	c.online = online
	c.mu.Unlock()

	if !changed {
		return
	}
	if online {
		c.showStatus(MsgBackOnline, view.StatusSuccess)
		c.record(events.Info("", events.OperationNetwork, MsgBackOnline))
		return
	}
	c.showStatus(MsgOffline, view.StatusError)
	c.record(events.Warning("", events.OperationNetwork, MsgOffline))
}

func (c *Controller) Settings() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Settings{
		BaseURL:    c.baseURL,
		Online:     c.online,
		Timeout:    c.opts.Timeout,
		MaxRetries: c.opts.MaxRetries,
	}
}

// Display returns the display the controller renders into.
func (c *Controller) Display() view.Display {
	return c.display
}

// showStatus sets the status line and clears it after the configured
// delay unless a newer status replaces it first.
func (c *Controller) showStatus(message string, class view.StatusClass) {
	c.display.SetStatus(message, class)
	c.tasks.Schedule(taskStatus, c.opts.StatusClearDelay, func() {
		c.display.SetStatus("", view.StatusNone)
	})
}

// showProgress sets a status that stays until the operation reports back.
func (c *Controller) showProgress(message string) {
	c.tasks.Cancel(taskStatus)
	c.display.SetStatus(message, view.StatusLoading)
}

func (c *Controller) record(event events.Event) {
	events.StoreEventSafe(c.events, c.logger, event)
}
