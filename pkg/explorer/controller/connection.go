package controller

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/garunski/api-explorer/pkg/explorer/errors"
	"github.com/garunski/api-explorer/pkg/explorer/events"
	"github.com/garunski/api-explorer/pkg/explorer/transport"
	"github.com/garunski/api-explorer/pkg/explorer/view"
)

// TestConnection requests {base}/ping once. It never retries so a
// broken target is reported right away.
func (c *Controller) TestConnection(ctx context.Context) {
	if !c.Online() {
		c.showStatus(MsgNoInternet, view.StatusError)
		return
	}
	if !c.ValidateBaseURL() {
		return
	}
	if !c.probing.CompareAndSwap(false, true) {
		c.logger.V(1).Info("Connection test already running")
		return
	}
	defer c.probing.Store(false)

	base := c.GetBaseURL()
	c.showProgress(MsgTesting)
	c.display.SetControl(ControlTestConnection, LabelTesting, true)
	defer c.display.SetControl(ControlTestConnection, LabelTestConnection, false)

	start := c.clock.Now()
	resp, err := c.get(ctx, base+PingPath)
	elapsed := transport.Elapsed(c.clock.Since(start))

	if err == nil && resp.OK() {
		c.showStatus(MsgConnected, view.StatusSuccess)
		c.SaveStoredURL(ctx)
		c.record(events.Success(SlotName(PingPath), events.OperationConnect, MsgConnected).
			With("url", base).
			With("durationMs", elapsed))
		return
	}

	var message string
	if err == nil {
		message = fmt.Sprintf("%s: HTTP %d: %s", MsgConnectFailed, resp.StatusCode, resp.StatusText)
		err = fmt.Errorf("%w: %d %s", apperrors.ErrHTTPStatus, resp.StatusCode, resp.StatusText)
	} else {
		message = connectFailure(err)
	}
	c.showStatus(message, view.StatusError)
	c.logger.Info("Connection test failed", "url", base, "error", err.Error())
	c.record(events.Error(SlotName(PingPath), events.OperationConnect, message, err).
		With("url", base).
		With("durationMs", elapsed))
}

func connectFailure(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrTimeout):
		return MsgConnectFailed + ": " + MsgRequestTimeout
	case transport.IsConnectionError(err):
		return MsgConnectFailed + ": " + MsgNetworkOrCORS
	default:
		return MsgConnectFailed + ": " + transport.Message(err)
	}
}
