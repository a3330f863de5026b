package api

import (
	"errors"
	"net/http"

	apperrors "github.com/garunski/api-explorer/pkg/explorer/errors"
)

func httpStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrInvalid) || errors.Is(err, apperrors.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnsupported):
		return http.StatusNotImplemented
	case errors.Is(err, apperrors.ErrOffline):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, apperrors.ErrNetwork) || errors.Is(err, apperrors.ErrHTTPStatus):
		return http.StatusBadGateway
	case errors.Is(err, apperrors.ErrQuotaExceeded):
		return http.StatusInsufficientStorage
	case errors.Is(err, apperrors.ErrEventStore):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func extractErrorCode(err error) string {
	if err == nil {
		return "unknown_error"
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperrors.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, apperrors.ErrInvalid):
		return "validation_error"
	case errors.Is(err, apperrors.ErrUnsupported):
		return "not_supported"
	case errors.Is(err, apperrors.ErrOffline):
		return "offline"
	case errors.Is(err, apperrors.ErrTimeout):
		return "timeout"
	case errors.Is(err, apperrors.ErrHTTPStatus):
		return "http_error"
	case errors.Is(err, apperrors.ErrNetwork):
		return "network_error"
	case errors.Is(err, apperrors.ErrQuotaExceeded):
		return "quota_exceeded"
	case errors.Is(err, apperrors.ErrStorage):
		return "storage_error"
	case errors.Is(err, apperrors.ErrClipboard):
		return "clipboard_error"
	case errors.Is(err, apperrors.ErrEventStore):
		return "event_store_unavailable"
	}
	return "internal_error"
}
