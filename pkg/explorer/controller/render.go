package controller

import (
	"fmt"
	"time"

	"github.com/garunski/api-explorer/pkg/explorer/events"
	"github.com/garunski/api-explorer/pkg/explorer/format"
	"github.com/garunski/api-explorer/pkg/explorer/transport"
	"github.com/garunski/api-explorer/pkg/explorer/view"
)

// Outcome is the classified result of one fetch, consumed by rendering.
type Outcome struct {
	Endpoint    string
	Body        string
	Structured  bool
	ContentType string
	IsError     bool
	// Duration is zero when unknown.
	Duration   time.Duration
	StatusCode int
	// Value is copied by the slot's copy button; the body is used when nil.
	Value any
}

func (o Outcome) copyValue() any {
	if o.Value != nil {
		return o.Value
	}
	return o.Body
}

// DisplayResponse replaces the endpoint's slot with the rendered outcome
// and announces it. Outcomes for unknown slots are logged and dropped.
func (c *Controller) DisplayResponse(o Outcome) {
	slot := SlotName(o.Endpoint)
	kind := format.Classify(o.IsError, o.ContentType)

	content := view.SlotContent{
		Kind:        kind,
		ContentType: format.HeaderContentType(o.ContentType),
		DurationMs:  transport.Elapsed(o.Duration),
		Body:        format.FormatResponse(o.Body, o.ContentType),
		Value:       o.copyValue(),
	}
	if !c.display.RenderSlot(slot, content) {
		c.logger.Error(fmt.Errorf("unknown slot %q", slot), "Response container not found", "endpoint", o.Endpoint)
		return
	}

	c.announce(o.Endpoint, o.IsError)

	var event events.Event
	if o.IsError {
		event = events.Error(slot, events.OperationFetch, "Error response received for "+o.Endpoint, nil)
		if o.StatusCode == 0 {
			// transport failures carry no response body
			event.Error = o.Body
		}
	} else {
		event = events.Success(slot, events.OperationFetch, "Response received for "+o.Endpoint)
	}
	event = event.With("kind", string(kind)).With("durationMs", content.DurationMs)
	if o.StatusCode != 0 {
		event = event.With("statusCode", o.StatusCode)
	}
	if o.ContentType != "" {
		event = event.With("contentType", o.ContentType)
	}
	c.record(event)
}

func (c *Controller) announce(endpoint string, isError bool) {
	message := "Response received for " + endpoint
	if isError {
		message = "Error response received for " + endpoint
	}
	id := c.display.Announce(message)
	c.tasks.Schedule("announce/"+id, c.opts.AnnounceDelay, func() { c.display.Retract(id) })
}
