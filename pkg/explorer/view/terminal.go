package view

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/garunski/api-explorer/pkg/explorer/format"
)

// Terminal prints outcomes for command line use. It has no clipboard and
// its copy buttons do nothing.
type Terminal struct {
	mu    sync.Mutex
	out   io.Writer
	input string
	slots map[string]bool
	next  int
	// failures counts input errors, error statuses and error slots.
	failures int
}

func NewTerminal(out io.Writer, input string, slots []string) *Terminal {
	known := make(map[string]bool, len(slots))
	for _, s := range slots {
		known[s] = true
	}
	return &Terminal{out: out, input: input, slots: known}
}

func (t *Terminal) printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}

func (t *Terminal) InputValue() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.input
}

func (t *Terminal) SetInputValue(value string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.input = value
}

func (t *Terminal) SetInputError(message string) {
	t.fail()
	t.printf("error: %s\n", message)
}

func (t *Terminal) fail() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failures++
}

// Failures reports how many failures were printed.
func (t *Terminal) Failures() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failures
}

func (t *Terminal) ClearInputError() {}

func (t *Terminal) SetStatus(message string, class StatusClass) {
	if message == "" || class == StatusLoading {
		return
	}
	if class == StatusError {
		t.fail()
	}
	t.printf("%s\n", message)
}

func (t *Terminal) SetSlotLoading(slot string) bool {
	return t.slots[slot]
}

func (t *Terminal) RenderSlot(slot string, content SlotContent) bool {
	if !t.slots[slot] {
		return false
	}
	if content.Kind == format.KindError {
		t.fail()
	}
	header := fmt.Sprintf("== %s [%s] %s", slot, content.Kind, content.ContentType)
	if content.DurationMs > 0 {
		header += fmt.Sprintf(" %dms", content.DurationMs)
	}
	t.printf("%s\n%s\n\n", header, strings.TrimRight(content.Body, "\n"))
	return true
}

func (t *Terminal) SlotValue(string) (any, bool) {
	return nil, false
}

func (t *Terminal) CopyButton(slot string) Button {
	return noopButton(slot)
}

func (t *Terminal) SetControl(string, string, bool) {}

func (t *Terminal) Announce(string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	return fmt.Sprintf("announce-%d", t.next)
}

func (t *Terminal) Retract(string) {}

func (t *Terminal) Clipboard() Clipboard {
	return nil
}

type noopButton string

func (b noopButton) ID() string     { return "copy/" + string(b) }
func (noopButton) Begin() bool      { return false }
func (noopButton) Show(_, _ string) {}
func (noopButton) Reset()           {}
