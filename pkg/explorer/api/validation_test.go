package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	apperrors "github.com/garunski/api-explorer/pkg/explorer/errors"
	"github.com/garunski/api-explorer/pkg/explorer/events"
)

func TestValidateEndpointName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "slot name", input: "healthz"},
		{name: "dashed", input: "user-info"},
		{name: "empty", input: "", wantErr: true},
		{name: "uppercase", input: "Ping", wantErr: true},
		{name: "slash", input: "a/b", wantErr: true},
		{name: "too long", input: "a" + fmt.Sprintf("%064d", 0), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEndpointName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEndpointName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, apperrors.ErrInvalid) {
				t.Errorf("ValidateEndpointName(%q) error does not wrap ErrInvalid", tt.input)
			}
		})
	}
}

func TestParseEventQueryParams(t *testing.T) {
	filters, err := ParseEventQueryParams(map[string][]string{
		"endpoint": {"ping"},
		"type":     {"warning"},
		"since":    {"2026-01-02T03:04:05Z"},
		"offset":   {"5"},
	})
	if err != nil {
		t.Fatalf("ParseEventQueryParams() error = %v", err)
	}
	if filters.Endpoint != "ping" || filters.Type != events.EventTypeWarning || filters.Offset != 5 {
		t.Errorf("filters = %+v", filters)
	}
	if filters.Limit != DefaultEventLimit {
		t.Errorf("default limit = %d, want %d", filters.Limit, DefaultEventLimit)
	}
	if filters.Since.IsZero() || !filters.Until.IsZero() {
		t.Errorf("time range = %v..%v", filters.Since, filters.Until)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err      error
		wantCode int
		wantName string
	}{
		{err: fmt.Errorf("%w: slot", apperrors.ErrNotFound), wantCode: http.StatusNotFound, wantName: "not_found"},
		{err: fmt.Errorf("%w: body", apperrors.ErrInvalidRequest), wantCode: http.StatusBadRequest, wantName: "invalid_request"},
		{err: apperrors.ErrInvalid, wantCode: http.StatusBadRequest, wantName: "validation_error"},
		{err: apperrors.ErrUnsupported, wantCode: http.StatusNotImplemented, wantName: "not_supported"},
		{err: apperrors.ErrTimeout, wantCode: http.StatusGatewayTimeout, wantName: "timeout"},
		{err: apperrors.WrapNetwork(errors.New("refused"), "GET /"), wantCode: http.StatusBadGateway, wantName: "network_error"},
		{err: apperrors.WrapStorage(apperrors.ErrQuotaExceeded, "set"), wantCode: http.StatusInsufficientStorage, wantName: "quota_exceeded"},
		{err: apperrors.ErrEventStore, wantCode: http.StatusServiceUnavailable, wantName: "event_store_unavailable"},
		{err: errors.New("boom"), wantCode: http.StatusInternalServerError, wantName: "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			if got := httpStatus(tt.err); got != tt.wantCode {
				t.Errorf("httpStatus() = %v, want %v", got, tt.wantCode)
			}
			if got := extractErrorCode(tt.err); got != tt.wantName {
				t.Errorf("extractErrorCode() = %v, want %v", got, tt.wantName)
			}
		})
	}
}
