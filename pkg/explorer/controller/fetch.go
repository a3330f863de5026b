package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/garunski/api-explorer/pkg/explorer/errors"
	"github.com/garunski/api-explorer/pkg/explorer/events"
	"github.com/garunski/api-explorer/pkg/explorer/format"
	"github.com/garunski/api-explorer/pkg/explorer/transport"
	"github.com/garunski/api-explorer/pkg/explorer/view"
)

// FetchEndpoint requests {base}{path} and renders the outcome into the
// endpoint's slot. Timeouts are retried up to MaxRetries times with a
// linear backoff; HTTP and transport errors are rendered immediately.
func (c *Controller) FetchEndpoint(ctx context.Context, path string) {
	c.fetchEndpoint(ctx, path, 0)
}

func (c *Controller) fetchEndpoint(ctx context.Context, path string, attempt int) {
	if !c.Online() {
		c.DisplayResponse(Outcome{
			Endpoint:    path,
			Body:        MsgNoInternetSlot,
			IsError:     true,
			ContentType: "application/json",
		})
		return
	}
	if !c.ValidateBaseURL() {
		return
	}

	base := c.GetBaseURL()
	c.display.SetSlotLoading(SlotName(path))

	start := c.clock.Now()
	resp, err := c.get(ctx, base+path)
	elapsed := c.clock.Since(start)

	switch {
	case err == nil && resp.OK():
		c.DisplayResponse(successOutcome(path, resp, elapsed))

	case err == nil:
		c.DisplayResponse(Outcome{
			Endpoint:   path,
			Body:       fmt.Sprintf("Error %d: %s", resp.StatusCode, resp.Body),
			IsError:    true,
			Duration:   elapsed,
			StatusCode: resp.StatusCode,
		})

	case errors.Is(err, apperrors.ErrTimeout):
		if attempt < c.opts.MaxRetries {
			c.retry(ctx, path, attempt, elapsed)
			return
		}
		c.DisplayResponse(Outcome{
			Endpoint: path,
			Body:     MsgRequestTimeout,
			IsError:  true,
			Duration: elapsed,
		})

	default:
		c.DisplayResponse(networkOutcome(path, err, elapsed))
	}
}

func (c *Controller) retry(ctx context.Context, path string, attempt int, elapsed time.Duration) {
	delay := c.opts.RetryDelay * time.Duration(attempt+1)
	c.logger.Info("Retrying endpoint", "endpoint", path, "attempt", attempt+1, "delay", delay)
	c.record(events.Info(SlotName(path), events.OperationRetry, fmt.Sprintf("Retrying %s (attempt %d)", path, attempt+1)).
		With("delayMs", delay.Milliseconds()))

	select {
	case <-c.clock.After(delay):
	case <-ctx.Done():
		c.DisplayResponse(networkOutcome(path, apperrors.WrapNetwork(context.Cause(ctx), "retry "+path), elapsed))
		return
	}
	c.fetchEndpoint(ctx, path, attempt+1)
}

// successOutcome builds the outcome of a 2xx response. A JSON body that
// does not decode is reported as a network error.
func successOutcome(path string, resp *transport.Response, elapsed time.Duration) Outcome {
	out := Outcome{
		Endpoint:    path,
		Body:        string(resp.Body),
		ContentType: resp.ContentType,
		Duration:    elapsed,
		StatusCode:  resp.StatusCode,
	}
	if !format.IsJSON(resp.ContentType) {
		return out
	}

	var raw json.RawMessage
	if err := json.Unmarshal(resp.Body, &raw); err != nil {
		return networkOutcome(path, apperrors.WrapNetwork(err, "decode "+path), elapsed)
	}
	out.Structured = true
	out.Value = raw
	return out
}

func networkOutcome(path string, err error, elapsed time.Duration) Outcome {
	message := "Network Error: " + transport.Message(err)
	if transport.IsConnectionError(err) {
		message += MsgCheckNetworkFix
	}
	return Outcome{
		Endpoint: path,
		Body:     message,
		IsError:  true,
		Duration: elapsed,
	}
}

// FetchAllEndpoints fetches every endpoint in order, pausing between
// requests. The fetch-all control is restored however the run ends, and a
// run already in progress makes later calls no-ops.
func (c *Controller) FetchAllEndpoints(ctx context.Context) {
	if !c.Online() {
		c.showStatus(MsgNoInternet, view.StatusError)
		return
	}
	if !c.ValidateBaseURL() {
		return
	}
	if !c.fetchingAll.CompareAndSwap(false, true) {
		c.logger.V(1).Info("Fetch all already running")
		return
	}

	c.display.SetControl(ControlFetchAll, LabelFetching, true)
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error(fmt.Errorf("%v", r), "Fetch all endpoints aborted")
		}
		c.display.SetControl(ControlFetchAll, LabelFetchAll, false)
		c.fetchingAll.Store(false)
	}()

	for _, ep := range endpoints {
		c.FetchEndpoint(ctx, ep.Path)

		select {
		case <-c.clock.After(c.opts.FetchAllPause):
		case <-ctx.Done():
			c.logger.Info("Fetch all endpoints cancelled", "at", ep.Path)
			return
		}
	}
}
