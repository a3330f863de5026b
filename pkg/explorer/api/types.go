package api

import (
	"time"

	"github.com/garunski/api-explorer/pkg/explorer/controller"
	"github.com/garunski/api-explorer/pkg/explorer/view"
)

type HealthStatus struct {
	Status     string                     `json:"status"`
	Version    string                     `json:"version,omitempty"`
	Timestamp  time.Time                  `json:"timestamp"`
	Components map[string]ComponentStatus `json:"components,omitempty"`
}

type ComponentStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// StateResponse is polled by the page script.
type StateResponse struct {
	view.PageState
	Settings controller.Settings `json:"settings"`
}

type URLRequest struct {
	Value string `json:"value"`
}

type ValidationResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

type ConnectivityRequest struct {
	Online    *bool `json:"online"`
	Clipboard *bool `json:"clipboard"`
}

type AcceptedResponse struct {
	Status  string `json:"status"`
	Run     string `json:"run"`
	Version uint64 `json:"version"`
}

// CopyResponse carries the copy button state and, when the browser must
// write the text itself, the pending copy request.
type CopyResponse struct {
	Button  view.ButtonState  `json:"button"`
	Request *view.CopyRequest `json:"request,omitempty"`
}

// CopyResultRequest is the browser's report of its clipboard write.
type CopyResultRequest struct {
	OK        bool   `json:"ok"`
	Supported bool   `json:"supported"`
	Error     string `json:"error,omitempty"`
}
