package controller

import (
	"context"
	"errors"
	"net/url"
	"strings"

	apperrors "github.com/garunski/api-explorer/pkg/explorer/errors"
	"github.com/garunski/api-explorer/pkg/explorer/events"
	"github.com/garunski/api-explorer/pkg/explorer/storage"
)

// GetBaseURL returns the trimmed input value.
func (c *Controller) GetBaseURL() string {
	return strings.TrimSpace(c.display.InputValue())
}

// ValidateBaseURL annotates the input when it is empty or not an absolute
// URL and clears the annotation otherwise.
func (c *Controller) ValidateBaseURL() bool {
	raw := c.GetBaseURL()
	if raw == "" {
		c.display.SetInputError(MsgURLRequired)
		return false
	}
	if !IsAbsoluteURL(raw) {
		c.display.SetInputError(MsgInvalidURL)
		return false
	}
	c.display.ClearInputError()
	return true
}

// IsAbsoluteURL reports whether raw parses as a URL with a scheme. Web
// URLs must also name a host.
func IsAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.Host != ""
	}
	return true
}

// LoadStoredURL restores the persisted URL. The input is only replaced
// while it still shows the placeholder.
func (c *Controller) LoadStoredURL(ctx context.Context) {
	stored, ok, err := storage.LoadURL(ctx, c.store)
	if err != nil {
		c.logger.Error(err, "Could not load stored API URL")
		return
	}
	if !ok {
		return
	}

	c.mu.Lock()
	c.baseURL = stored
	c.mu.Unlock()

	if c.display.InputValue() == PlaceholderURL {
		c.display.SetInputValue(stored)
	}
	c.logger.V(1).Info("Restored API URL", "url", stored)
}

// SaveStoredURL persists the current input when it is not empty. Failures
// are logged only.
func (c *Controller) SaveStoredURL(ctx context.Context) {
	current := c.GetBaseURL()
	saved, err := storage.SaveURL(ctx, c.store, current)
	if err != nil {
		c.logger.Error(err, "Could not save API URL")
		if errors.Is(err, apperrors.ErrQuotaExceeded) {
			c.logger.Error(err, "Storage quota exceeded, clear the explorer storage")
		}
		c.record(events.Warning("", events.OperationSettings, "Could not save API URL").With("error", err.Error()))
		return
	}
	if !saved {
		return
	}

	c.mu.Lock()
	c.baseURL = current
	c.mu.Unlock()
	c.logger.V(1).Info("Saved API URL", "url", current)
}

// UpdateInput applies an edit of the URL input and saves it once edits
// pause for the debounce interval.
func (c *Controller) UpdateInput(value string) {
	c.display.SetInputValue(value)
	c.tasks.Schedule(taskSave, c.opts.SaveDebounce, func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.opts.Timeout)
		defer cancel()
		c.SaveStoredURL(ctx)
	})
}

// Blur validates the input when it loses focus.
func (c *Controller) Blur() bool {
	return c.ValidateBaseURL()
}

// Submit runs the connection test, as pressing Enter in the input does.
func (c *Controller) Submit(ctx context.Context) {
	c.TestConnection(ctx)
}
