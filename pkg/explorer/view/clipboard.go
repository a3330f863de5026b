package view

import (
	"context"
	"fmt"
	"sync"
	"time"

	"k8s.io/utils/clock"

	apperrors "github.com/garunski/api-explorer/pkg/explorer/errors"
)

// MemoryClipboard holds the last copied text until the browser reads it.
type MemoryClipboard struct {
	mu     sync.Mutex
	text   string
	writes int
}

func NewMemoryClipboard() *MemoryClipboard {
	return &MemoryClipboard{}
}

func (c *MemoryClipboard) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
	c.writes++
	return nil
}

// Text returns the clipboard content and a counter that changes on every write.
func (c *MemoryClipboard) Text() (string, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text, c.writes
}

// CopyRequest is text handed to a browser for its own clipboard.
type CopyRequest struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type copyIDKey struct{}

// WithCopyID addresses clipboard writes made under ctx to one copy request.
func WithCopyID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, copyIDKey{}, id)
}

type copyWaiter struct {
	offered chan CopyRequest
	result  chan error
}

// BrowserClipboard passes each write to the browser that asked for the
// copy and returns the result that browser reports for its own clipboard.
type BrowserClipboard struct {
	clock   clock.Clock
	timeout time.Duration

	mu      sync.Mutex
	waiters map[string]*copyWaiter
}

func NewBrowserClipboard(c clock.Clock, timeout time.Duration) *BrowserClipboard {
	if c == nil {
		c = clock.RealClock{}
	}
	return &BrowserClipboard{
		clock:   c,
		timeout: timeout,
		waiters: make(map[string]*copyWaiter),
	}
}

// Expect registers a copy id. The returned channel delivers the request
// once the text for id is written.
func (c *BrowserClipboard) Expect(id string) <-chan CopyRequest {
	w := &copyWaiter{
		offered: make(chan CopyRequest, 1),
		result:  make(chan error, 1),
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.waiters[id] = w
	return w.offered
}

// Forget drops a copy id.
func (c *BrowserClipboard) Forget(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.waiters, id)
}

func (c *BrowserClipboard) waiter(id string) (*copyWaiter, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	w, ok := c.waiters[id]
	return w, ok
}

// WriteText offers text to the browser addressed by the copy id in ctx and
// waits for its result, the end of ctx or the timeout.
func (c *BrowserClipboard) WriteText(ctx context.Context, text string) error {
	id, _ := ctx.Value(copyIDKey{}).(string)
	w, ok := c.waiter(id)
	if !ok {
		return fmt.Errorf("%w: no browser is waiting for copy %q", apperrors.ErrClipboard, id)
	}
	defer c.Forget(id)

	w.offered <- CopyRequest{ID: id, Text: text}

	timer := c.clock.NewTimer(c.timeout)
	defer timer.Stop()
	select {
	case err := <-w.result:
		return err
	case <-ctx.Done():
		return context.Cause(ctx)
	case <-timer.C():
		return fmt.Errorf("%w: browser did not report copy %s", apperrors.ErrClipboard, id)
	}
}

// Resolve records the browser's clipboard result for id. A nil err means
// the text reached the clipboard.
func (c *BrowserClipboard) Resolve(id string, err error) error {
	w, ok := c.waiter(id)
	if !ok {
		return fmt.Errorf("%w: copy %s", apperrors.ErrNotFound, id)
	}
	select {
	case w.result <- err:
	default:
	}
	return nil
}
