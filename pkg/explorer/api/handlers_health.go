package api

import (
	"context"
	"net/http"
	"time"

	"github.com/garunski/api-explorer/pkg/explorer/storage"
)

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "healthy",
		Version:   h.version,
		Timestamp: time.Now(),
	}

	WriteJSONResponse(w, h.logger, http.StatusOK, status)
}

func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:     "healthy",
		Version:    h.version,
		Timestamp:  time.Now(),
		Components: make(map[string]ComponentStatus),
	}

	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), DefaultHealthCheckTimeout/2)
		defer cancel()
		if _, _, err := h.store.GetItem(ctx, storage.URLKey); err != nil {
			status.Components["store"] = ComponentStatus{
				Status:  "unhealthy",
				Message: err.Error(),
			}
			status.Status = "unhealthy"
		} else {
			status.Components["store"] = ComponentStatus{Status: "healthy"}
		}
	} else {
		status.Components["store"] = ComponentStatus{
			Status:  "unhealthy",
			Message: "Store not initialized",
		}
		status.Status = "unhealthy"
	}

	if h.eventStore != nil {
		if _, err := h.eventStore.GetRecentErrors(1); err != nil {
			status.Components["eventStore"] = ComponentStatus{
				Status:  "unavailable",
				Message: err.Error(),
			}
		} else {
			status.Components["eventStore"] = ComponentStatus{Status: "available"}
		}
	} else {
		status.Components["eventStore"] = ComponentStatus{
			Status:  "unavailable",
			Message: "Event store not initialized",
		}
	}

	statusCode := http.StatusOK
	if status.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	WriteJSONResponse(w, h.logger, statusCode, status)
}
