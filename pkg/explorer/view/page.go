package view

import (
	"sync"

	"github.com/google/uuid"
)

const (
	// CopyLabel is the idle label of a copy button.
	CopyLabel = "Copy"

	slotIdle    = "idle"
	slotLoading = "loading"
)

type Status struct {
	Message string      `json:"message"`
	Class   StatusClass `json:"class"`
}

type Control struct {
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
}

type Announcement struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type ButtonState struct {
	Label    string `json:"label"`
	Class    string `json:"class,omitempty"`
	Disabled bool   `json:"disabled"`
}

type SlotState struct {
	Name string `json:"name"`
	// State is idle, loading or the rendered kind.
	State       string      `json:"state"`
	Class       string      `json:"class"`
	ContentType string      `json:"contentType,omitempty"`
	DurationMs  int64       `json:"durationMs,omitempty"`
	Body        string      `json:"body,omitempty"`
	Copy        ButtonState `json:"copy"`
}

// PageState is a consistent snapshot of the page, serialized for the browser.
type PageState struct {
	Version          uint64             `json:"version"`
	Input            string             `json:"input"`
	InputError       string             `json:"inputError,omitempty"`
	Status           Status             `json:"status"`
	Slots            []SlotState        `json:"slots"`
	Controls         map[string]Control `json:"controls"`
	Announcements    []Announcement     `json:"announcements"`
	ClipboardEnabled bool               `json:"clipboardEnabled"`
}

type pageSlot struct {
	state   SlotState
	value   any
	hasData bool
}

// Page is the in-memory model of the explorer page. It is safe for
// concurrent use; every mutation bumps the snapshot version.
type Page struct {
	mu            sync.RWMutex
	version       uint64
	input         string
	inputError    string
	status        Status
	order         []string
	slots         map[string]*pageSlot
	controls      map[string]Control
	announcements []Announcement
	clipboard     Clipboard
	// noClipboard is set when the browser reports it cannot copy.
	noClipboard bool
}

type PageOption func(*Page)

// WithClipboard replaces the default memory clipboard. A nil clipboard
// marks copying as unsupported.
func WithClipboard(c Clipboard) PageOption {
	return func(p *Page) { p.clipboard = c }
}

// WithInput sets the initial input value.
func WithInput(value string) PageOption {
	return func(p *Page) { p.input = value }
}

// WithControl registers a control with its initial label.
func WithControl(id, label string) PageOption {
	return func(p *Page) { p.controls[id] = Control{Label: label} }
}

func NewPage(slots []string, opts ...PageOption) *Page {
	p := &Page{
		slots:     make(map[string]*pageSlot, len(slots)),
		controls:  make(map[string]Control),
		clipboard: NewMemoryClipboard(),
	}
	for _, name := range slots {
		p.order = append(p.order, name)
		p.slots[name] = &pageSlot{state: idleSlot(name)}
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func idleSlot(name string) SlotState {
	return SlotState{
		Name:  name,
		State: slotIdle,
		Class: "response-container",
		Copy:  ButtonState{Label: CopyLabel},
	}
}

func (p *Page) InputValue() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.input
}

func (p *Page) SetInputValue(value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.input = value
	p.version++
}

func (p *Page) SetInputError(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inputError = message
	p.version++
}

func (p *Page) ClearInputError() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inputError == "" {
		return
	}
	p.inputError = ""
	p.version++
}

func (p *Page) SetStatus(message string, class StatusClass) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = Status{Message: message, Class: class}
	p.version++
}

func (p *Page) SetSlotLoading(slot string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.slots[slot]
	if !ok {
		return false
	}
	s.state = idleSlot(slot)
	s.state.State = slotLoading
	s.state.Class = "response-container active loading"
	s.state.Body = "Loading..."
	s.value, s.hasData = nil, false
	p.version++
	return true
}

func (p *Page) RenderSlot(slot string, content SlotContent) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.slots[slot]
	if !ok {
		return false
	}
	s.state = SlotState{
		Name:        slot,
		State:       string(content.Kind),
		Class:       "response-container active " + string(content.Kind),
		ContentType: content.ContentType,
		DurationMs:  content.DurationMs,
		Body:        content.Body,
		Copy:        ButtonState{Label: CopyLabel},
	}
	s.value, s.hasData = content.Value, true
	p.version++
	return true
}

func (p *Page) SlotValue(slot string) (any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.slots[slot]
	if !ok || !s.hasData {
		return nil, false
	}
	return s.value, true
}

func (p *Page) CopyButton(slot string) Button {
	return &pageButton{page: p, slot: slot}
}

func (p *Page) SetControl(id, label string, disabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.controls[id] = Control{Label: label, Disabled: disabled}
	p.version++
}

func (p *Page) Announce(message string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := uuid.NewString()
	p.announcements = append(p.announcements, Announcement{ID: id, Message: message})
	p.version++
	return id
}

func (p *Page) Retract(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, a := range p.announcements {
		if a.ID == id {
			p.announcements = append(p.announcements[:i], p.announcements[i+1:]...)
			p.version++
			return
		}
	}
}

// Clipboard returns nil when copying is unsupported or the browser
// reported that it has no clipboard.
func (p *Page) Clipboard() Clipboard {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.noClipboard {
		return nil
	}
	return p.clipboard
}

// ClipboardDevice returns the configured clipboard whatever the browser
// reported.
func (p *Page) ClipboardDevice() Clipboard {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.clipboard
}

// SetClipboardAvailable records whether the browser can write to its
// clipboard.
func (p *Page) SetClipboardAvailable(available bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.noClipboard == !available {
		return
	}
	p.noClipboard = !available
	p.version++
}

// Snapshot returns a copy of the page state.
func (p *Page) Snapshot() PageState {
	p.mu.RLock()
	defer p.mu.RUnlock()

	state := PageState{
		Version:          p.version,
		Input:            p.input,
		InputError:       p.inputError,
		Status:           p.status,
		Slots:            make([]SlotState, 0, len(p.order)),
		Controls:         make(map[string]Control, len(p.controls)),
		Announcements:    append([]Announcement{}, p.announcements...),
		ClipboardEnabled: p.clipboard != nil && !p.noClipboard,
	}
	for _, name := range p.order {
		state.Slots = append(state.Slots, p.slots[name].state)
	}
	for id, c := range p.controls {
		state.Controls[id] = c
	}
	return state
}

// Slot returns the state of one slot.
func (p *Page) Slot(name string) (SlotState, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.slots[name]
	if !ok {
		return SlotState{}, false
	}
	return s.state, true
}

type pageButton struct {
	page *Page
	slot string
}

func (b *pageButton) ID() string {
	return "copy/" + b.slot
}

func (b *pageButton) update(fn func(*ButtonState) bool) bool {
	b.page.mu.Lock()
	defer b.page.mu.Unlock()
	s, ok := b.page.slots[b.slot]
	if !ok {
		return false
	}
	if !fn(&s.state.Copy) {
		return false
	}
	b.page.version++
	return true
}

func (b *pageButton) Begin() bool {
	return b.update(func(s *ButtonState) bool {
		if s.Disabled {
			return false
		}
		s.Disabled = true
		return true
	})
}

func (b *pageButton) Show(label, class string) {
	b.update(func(s *ButtonState) bool {
		s.Label, s.Class = label, class
		return true
	})
}

func (b *pageButton) Reset() {
	b.update(func(s *ButtonState) bool {
		*s = ButtonState{Label: CopyLabel}
		return true
	})
}
