package controller

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/garunski/api-explorer/pkg/explorer/errors"
	"github.com/garunski/api-explorer/pkg/explorer/transport"
)

// get performs one GET guarded by the request timeout. A timeout is
// reported as ErrTimeout, any other failure as ErrNetwork.
func (c *Controller) get(ctx context.Context, url string) (*transport.Response, error) {
	reqCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	timer := c.clock.AfterFunc(c.opts.Timeout, func() { cancel(apperrors.ErrTimeout) })
	defer timer.Stop()

	resp, err := c.client.Get(reqCtx, url)
	if err != nil {
		if errors.Is(context.Cause(reqCtx), apperrors.ErrTimeout) {
			return nil, fmt.Errorf("%w: GET %s after %s", apperrors.ErrTimeout, url, c.opts.Timeout)
		}
		return nil, apperrors.WrapNetwork(err, "GET "+url)
	}
	return resp, nil
}
