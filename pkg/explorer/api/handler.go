package api

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/go-logr/logr"

	"github.com/garunski/api-explorer/pkg/explorer/controller"
	apperrors "github.com/garunski/api-explorer/pkg/explorer/errors"
	"github.com/garunski/api-explorer/pkg/explorer/events"
	"github.com/garunski/api-explorer/pkg/explorer/storage"
	"github.com/garunski/api-explorer/pkg/explorer/view"
)

type Handler struct {
	logger     logr.Logger
	controller *controller.Controller
	page       *view.Page
	store      storage.Store
	eventStore events.EventStorage
	appName    string
	version    string
	templates  *template.Template

	// runCtx bounds the background runs started by API calls.
	runCtx context.Context
	runs   sync.WaitGroup
}

// NewHandler builds the HTTP handler around a controller rendering into page.
// Background operations started by the API are bound to runCtx.
func NewHandler(ctrl *controller.Controller, page *view.Page, store storage.Store, eventStore events.EventStorage, logger logr.Logger, appName, version string, runCtx context.Context, customTemplateFS *embed.FS) (*Handler, error) {
	tmpl, err := loadTemplates(customTemplateFS)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	if appName == "" {
		appName = "API Explorer"
	}
	if runCtx == nil {
		runCtx = context.Background()
	}

	return &Handler{
		logger:     logger,
		controller: ctrl,
		page:       page,
		store:      store,
		eventStore: eventStore,
		appName:    appName,
		version:    version,
		templates:  tmpl,
		runCtx:     runCtx,
	}, nil
}

// Wait blocks until every background run has finished.
func (h *Handler) Wait() {
	h.runs.Wait()
}

// background runs fn outside the request so the page keeps polling state
// while a connection test or fetch is in flight.
func (h *Handler) background(name string, fn func(ctx context.Context)) {
	h.runs.Add(1)
	go func() {
		defer h.runs.Done()
		defer func() {
			if r := recover(); r != nil {
				h.logger.Error(fmt.Errorf("%v", r), "background run panicked", "run", name)
			}
		}()
		start := time.Now()
		fn(h.runCtx)
		h.logger.V(1).Info("background run finished", "run", name, "duration", time.Since(start))
	}()
}

func (h *Handler) renderTemplate(w http.ResponseWriter, name string, data interface{}) error {
	templateData := make(map[string]interface{})
	if dataMap, ok := data.(map[string]interface{}); ok {
		for k, v := range dataMap {
			templateData[k] = v
		}
	} else if data != nil {
		templateData["Data"] = data
	}
	templateData["AppName"] = h.appName
	templateData["AppVersion"] = h.version
	templateData["CacheBust"] = time.Now().Unix()

	if err := h.templates.ExecuteTemplate(w, name, templateData); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return nil
}

func (h *Handler) parseJSONRequest(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return fmt.Errorf("%w: invalid request body: JSON syntax error at position %d: %w", apperrors.ErrInvalidRequest, syntaxErr.Offset, syntaxErr)
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return fmt.Errorf("%w: invalid request body: JSON type error for field %s: expected %s, got %s", apperrors.ErrInvalidRequest, typeErr.Field, typeErr.Type, typeErr.Value)
		}
		return fmt.Errorf("%w: invalid request body: %w", apperrors.ErrInvalidRequest, err)
	}
	return nil
}
