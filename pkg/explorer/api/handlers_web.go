package api

import (
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/garunski/api-explorer/pkg/explorer/controller"
)

type endpointCard struct {
	controller.Endpoint
	Slot   string
	Button string
}

func (h *Handler) HomePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	state := h.page.Snapshot()
	cards := make([]endpointCard, 0, len(state.Slots))
	for _, ep := range controller.Endpoints() {
		cards = append(cards, endpointCard{
			Endpoint: ep,
			Slot:     ep.Name + "-response",
			Button:   ep.Name + "-copy",
		})
	}

	input := state.Input
	if input == "" {
		input = controller.PlaceholderURL
	}

	data := map[string]interface{}{
		"Input":            input,
		"Endpoints":        cards,
		"State":            state,
		"TestLabel":        controller.LabelTestConnection,
		"FetchAllLabel":    controller.LabelFetchAll,
		"ClipboardEnabled": state.ClipboardEnabled,
	}

	if err := h.renderTemplate(w, "explorer-page", data); err != nil {
		h.logger.Error(err, "failed to render template")
		WriteErrorResponse(w, h.logger, http.StatusInternalServerError, "template_execution_failed", "Failed to execute template", nil)
	}
}

// ServeStatic serves the page script and stylesheet from the embedded filesystem.
func (h *Handler) ServeStatic(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/static/")
	if name == "" || strings.Contains(name, "..") {
		http.NotFound(w, r)
		return
	}

	file, err := templateFiles.Open(path.Join("templates/static", name))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer file.Close()

	ext := path.Ext(name)
	switch ext {
	case ".js":
		w.Header().Set("Content-Type", "application/javascript")
	case ".css":
		w.Header().Set("Content-Type", "text/css")
	default:
		w.Header().Set("Content-Type", "application/octet-stream")
	}

	if ext == ".js" {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	} else {
		w.Header().Set("Cache-Control", "public, max-age=3600")
	}

	if _, err := io.Copy(w, file); err != nil {
		h.logger.Error(err, "failed to serve static file", "path", name)
	}
}
