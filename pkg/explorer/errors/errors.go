package errors

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalid        = errors.New("invalid")
	ErrInvalidRequest = errors.New("invalid request")
	ErrStorage        = errors.New("storage error")
	ErrQuotaExceeded  = errors.New("storage quota exceeded")
	ErrEventStore     = errors.New("event store error")
	ErrHTTPStatus     = errors.New("http status error")
	ErrTimeout        = errors.New("request timeout")
	ErrNetwork        = errors.New("network error")
	ErrOffline        = errors.New("no internet connection")
	ErrClipboard      = errors.New("clipboard error")
	ErrUnsupported    = errors.New("not supported")
)
