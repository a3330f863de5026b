// Package view holds the display surfaces the explorer renders into: the
// page model served to the browser and a terminal printer for the CLI.
package view

import (
	"context"

	"github.com/garunski/api-explorer/pkg/explorer/format"
)

type StatusClass string

const (
	StatusNone    StatusClass = ""
	StatusSuccess StatusClass = "success"
	StatusError   StatusClass = "error"
	StatusLoading StatusClass = "loading"
)

// SlotContent is a fully rendered outcome for one response slot.
type SlotContent struct {
	Kind        format.Kind
	ContentType string
	// DurationMs is zero when the elapsed time is unknown.
	DurationMs int64
	Body       string
	// Value is what the slot's copy button places on the clipboard.
	Value any
}

// Button is a copy affordance with a busy guard.
type Button interface {
	ID() string
	// Begin marks the button busy. It returns false if it already was.
	Begin() bool
	Show(label, class string)
	Reset()
}

type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// Display is everything the controller needs from the user interface.
// Slot operations report false for an unknown slot.
type Display interface {
	InputValue() string
	SetInputValue(value string)
	SetInputError(message string)
	ClearInputError()

	SetStatus(message string, class StatusClass)

	SetSlotLoading(slot string) bool
	RenderSlot(slot string, content SlotContent) bool
	SlotValue(slot string) (any, bool)
	CopyButton(slot string) Button

	SetControl(id, label string, disabled bool)

	Announce(message string) string
	Retract(id string)

	// Clipboard returns nil when no clipboard is available.
	Clipboard() Clipboard
}
