package controller

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/garunski/api-explorer/pkg/explorer/errors"
	"github.com/garunski/api-explorer/pkg/explorer/events"
	"github.com/garunski/api-explorer/pkg/explorer/format"
	"github.com/garunski/api-explorer/pkg/explorer/view"
)

// CopyToClipboard copies value as text and acknowledges on the button,
// which returns to its idle state after CopyResetDelay. A busy button
// ignores the call.
func (c *Controller) CopyToClipboard(ctx context.Context, value any, button view.Button) {
	cb := c.display.Clipboard()
	if cb == nil {
		c.logger.Info("Clipboard API not available")
		button.Show(LabelNotSupported, string(view.StatusError))
		c.tasks.Schedule(button.ID(), c.opts.CopyResetDelay, button.Reset)
		return
	}

	if !button.Begin() {
		return
	}

	text := format.ClipboardText(value)
	if err := cb.WriteText(ctx, text); err != nil {
		label := LabelCopyFailed
		if errors.Is(err, apperrors.ErrUnsupported) {
			label = LabelNotSupported
		}
		err = apperrors.WrapClipboard(err, button.ID())
		c.logger.Error(err, "Could not copy to clipboard")
		button.Show(label, string(view.StatusError))
		c.record(events.Warning("", events.OperationCopy, label).With("error", err.Error()))
	} else {
		button.Show(LabelCopied, string(view.StatusSuccess))
	}
	c.tasks.Schedule(button.ID(), c.opts.CopyResetDelay, button.Reset)
}

// CopySlot copies the value rendered in a slot.
func (c *Controller) CopySlot(ctx context.Context, slot string) error {
	value, ok := c.display.SlotValue(slot)
	if !ok {
		return fmt.Errorf("%w: no response rendered for %s", apperrors.ErrNotFound, slot)
	}
	c.CopyToClipboard(ctx, value, c.display.CopyButton(slot))
	return nil
}
