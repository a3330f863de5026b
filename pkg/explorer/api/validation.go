package api

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	apperrors "github.com/garunski/api-explorer/pkg/explorer/errors"
	"github.com/garunski/api-explorer/pkg/explorer/events"
)

var endpointNameRegex = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// ValidateEndpointName checks the shape of an endpoint slot name.
func ValidateEndpointName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: endpoint name cannot be empty", apperrors.ErrInvalid)
	}
	if len(name) > 63 {
		return fmt.Errorf("%w: endpoint name must be 63 characters or less", apperrors.ErrInvalid)
	}
	if !endpointNameRegex.MatchString(name) {
		return fmt.Errorf("%w: endpoint name must be lowercase alphanumeric characters or '-'", apperrors.ErrInvalid)
	}
	return nil
}

func parseLimit(value string, fallback int) (int, error) {
	if value == "" {
		return fallback, nil
	}
	limit, err := strconv.Atoi(value)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("%w: limit must be a positive integer", apperrors.ErrInvalid)
	}
	if limit > MaxEventLimit {
		return 0, fmt.Errorf("%w: limit cannot exceed %d", apperrors.ErrInvalid, MaxEventLimit)
	}
	return limit, nil
}

func ParseQueryParams(r *http.Request) (events.EventFilters, error) {
	return ParseEventQueryParams(r.URL.Query())
}

func ParseEventQueryParams(queryParams map[string][]string) (events.EventFilters, error) {
	filters := events.EventFilters{}

	if endpoint := getFirstQueryParam(queryParams, "endpoint"); endpoint != "" {
		if err := ValidateEndpointName(endpoint); err != nil {
			return filters, fmt.Errorf("invalid endpoint parameter: %w", err)
		}
		filters.Endpoint = endpoint
	}

	if typeStr := getFirstQueryParam(queryParams, "type"); typeStr != "" {
		eventType := events.EventType(typeStr)
		if !events.ValidType(eventType) {
			return filters, fmt.Errorf("%w: invalid event type: %s (must be one of: error, success, info, warning)", apperrors.ErrInvalid, typeStr)
		}
		filters.Type = eventType
	}

	if sinceStr := getFirstQueryParam(queryParams, "since"); sinceStr != "" {
		t, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			return filters, fmt.Errorf("%w: invalid since parameter format (use RFC3339): %w", apperrors.ErrInvalid, err)
		}
		filters.Since = t
	}

	if untilStr := getFirstQueryParam(queryParams, "until"); untilStr != "" {
		t, err := time.Parse(time.RFC3339, untilStr)
		if err != nil {
			return filters, fmt.Errorf("%w: invalid until parameter format (use RFC3339): %w", apperrors.ErrInvalid, err)
		}
		filters.Until = t
	}

	limit, err := parseLimit(getFirstQueryParam(queryParams, "limit"), DefaultEventLimit)
	if err != nil {
		return filters, err
	}
	filters.Limit = limit

	if offsetStr := getFirstQueryParam(queryParams, "offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return filters, fmt.Errorf("%w: invalid offset parameter: must be a non-negative integer", apperrors.ErrInvalid)
		}
		filters.Offset = offset
	}

	return filters, nil
}

func getFirstQueryParam(queryParams map[string][]string, key string) string {
	if values, ok := queryParams[key]; ok && len(values) > 0 {
		return values[0]
	}
	return ""
}
