package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/garunski/api-explorer/pkg/explorer/controller"
	apperrors "github.com/garunski/api-explorer/pkg/explorer/errors"
	"github.com/garunski/api-explorer/pkg/explorer/view"
)

func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	WriteJSONResponse(w, h.logger, http.StatusOK, h.state())
}

func (h *Handler) state() StateResponse {
	return StateResponse{
		PageState: h.page.Snapshot(),
		Settings:  h.controller.Settings(),
	}
}

func (h *Handler) accepted(w http.ResponseWriter, run string) {
	WriteJSONResponse(w, h.logger, http.StatusAccepted, AcceptedResponse{
		Status:  "accepted",
		Run:     run,
		Version: h.page.Snapshot().Version,
	})
}

// UpdateURL applies an edit of the URL input. The value is saved after
// edits pause.
func (h *Handler) UpdateURL(w http.ResponseWriter, r *http.Request) {
	var req URLRequest
	if err := h.parseJSONRequest(r, &req); err != nil {
		WriteError(w, h.logger, err)
		return
	}

	h.controller.UpdateInput(req.Value)
	WriteJSONResponse(w, h.logger, http.StatusOK, h.state())
}

func (h *Handler) BlurURL(w http.ResponseWriter, r *http.Request) {
	valid := h.controller.Blur()
	WriteJSONResponse(w, h.logger, http.StatusOK, ValidationResponse{
		Valid: valid,
		Error: h.page.Snapshot().InputError,
	})
}

func (h *Handler) SubmitURL(w http.ResponseWriter, r *http.Request) {
	h.background("submit", h.controller.Submit)
	h.accepted(w, "submit")
}

func (h *Handler) TestConnection(w http.ResponseWriter, r *http.Request) {
	h.background("test-connection", h.controller.TestConnection)
	h.accepted(w, "test-connection")
}

func (h *Handler) ListEndpoints(w http.ResponseWriter, r *http.Request) {
	WriteJSONResponse(w, h.logger, http.StatusOK, controller.Endpoints())
}

func (h *Handler) endpoint(r *http.Request) (controller.Endpoint, error) {
	name := chi.URLParam(r, "name")
	if err := ValidateEndpointName(name); err != nil {
		return controller.Endpoint{}, err
	}
	ep, ok := controller.EndpointByName(name)
	if !ok {
		return controller.Endpoint{}, fmt.Errorf("%w: unknown endpoint %q", apperrors.ErrNotFound, name)
	}
	return ep, nil
}

func (h *Handler) FetchEndpoint(w http.ResponseWriter, r *http.Request) {
	ep, err := h.endpoint(r)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	h.background("fetch/"+ep.Name, func(ctx context.Context) {
		h.controller.FetchEndpoint(ctx, ep.Path)
	})
	h.accepted(w, "fetch/"+ep.Name)
}

func (h *Handler) FetchAllEndpoints(w http.ResponseWriter, r *http.Request) {
	h.background("fetch-all", h.controller.FetchAllEndpoints)
	h.accepted(w, "fetch-all")
}

// CopyEndpoint copies the rendered response of an endpoint. With a browser
// clipboard the text is returned to the caller, whose page writes it and
// reports the outcome through ResolveCopy; the button is acknowledged
// from that report.
func (h *Handler) CopyEndpoint(w http.ResponseWriter, r *http.Request) {
	ep, err := h.endpoint(r)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}
	if _, ok := h.page.SlotValue(ep.Name); !ok {
		WriteError(w, h.logger, fmt.Errorf("%w: no response rendered for %s", apperrors.ErrNotFound, ep.Name))
		return
	}

	browser, ok := h.page.Clipboard().(*view.BrowserClipboard)
	if !ok {
		if err := h.controller.CopySlot(r.Context(), ep.Name); err != nil {
			WriteError(w, h.logger, err)
			return
		}
		h.writeCopy(w, ep.Name, nil)
		return
	}

	id := uuid.NewString()
	offered := browser.Expect(id)
	done := make(chan struct{})
	h.background("copy/"+ep.Name, func(ctx context.Context) {
		defer close(done)
		if err := h.controller.CopySlot(view.WithCopyID(ctx, id), ep.Name); err != nil {
			h.logger.Error(err, "Copy failed", "endpoint", ep.Name)
		}
	})

	select {
	case req := <-offered:
		h.writeCopy(w, ep.Name, &req)
	case <-done:
		// the button was busy, nothing was offered
		browser.Forget(id)
		h.writeCopy(w, ep.Name, nil)
	case <-r.Context().Done():
		browser.Forget(id)
		WriteError(w, h.logger, fmt.Errorf("%w: copy %s was not offered", apperrors.ErrTimeout, id))
	}
}

func (h *Handler) writeCopy(w http.ResponseWriter, slot string, req *view.CopyRequest) {
	state, _ := h.page.Slot(slot)
	status := http.StatusOK
	if req != nil {
		status = http.StatusAccepted
	}
	WriteJSONResponse(w, h.logger, status, CopyResponse{Button: state.Copy, Request: req})
}

// ResolveCopy receives the browser's clipboard result for a copy request.
func (h *Handler) ResolveCopy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req CopyResultRequest
	if err := h.parseJSONRequest(r, &req); err != nil {
		WriteError(w, h.logger, err)
		return
	}

	browser, ok := h.page.ClipboardDevice().(*view.BrowserClipboard)
	if !ok {
		WriteError(w, h.logger, fmt.Errorf("%w: clipboard results are not accepted", apperrors.ErrUnsupported))
		return
	}

	var result error
	switch {
	case !req.Supported:
		result = fmt.Errorf("%w: browser has no clipboard", apperrors.ErrUnsupported)
	case !req.OK:
		result = fmt.Errorf("%w: browser write failed: %s", apperrors.ErrClipboard, req.Error)
	}
	if err := browser.Resolve(id, result); err != nil {
		WriteError(w, h.logger, err)
		return
	}
	WriteJSONResponse(w, h.logger, http.StatusOK, h.state())
}

// SetConnectivity receives the browser's online and offline events and
// whether it has a clipboard.
func (h *Handler) SetConnectivity(w http.ResponseWriter, r *http.Request) {
	var req ConnectivityRequest
	if err := h.parseJSONRequest(r, &req); err != nil {
		WriteError(w, h.logger, err)
		return
	}
	if req.Online == nil && req.Clipboard == nil {
		WriteError(w, h.logger, fmt.Errorf("%w: online or clipboard is required", apperrors.ErrInvalidRequest))
		return
	}

	if req.Clipboard != nil {
		h.page.SetClipboardAvailable(*req.Clipboard)
	}
	if req.Online != nil {
		h.controller.SetOnline(*req.Online)
	}
	WriteJSONResponse(w, h.logger, http.StatusOK, h.state())
}
