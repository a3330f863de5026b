// Package format turns response bodies into display text and picks the
// display class of an outcome.
package format

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Kind is the display class of a rendered outcome.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindText    Kind = "text"
)

const (
	// DefaultContentType is shown in the header when a response declares none.
	DefaultContentType = "text/plain"
	indent             = "  "
)

// IsJSON reports whether a declared content type indicates JSON.
func IsJSON(contentType string) bool {
	return strings.Contains(contentType, "application/json")
}

// FormatResponse pretty-prints JSON bodies with a 2-space indent and keeps
// key order. Anything else, including malformed JSON, is returned unchanged.
func FormatResponse(data, contentType string) string {
	if !IsJSON(contentType) {
		return data
	}
	out, ok := indentJSON([]byte(data))
	if !ok {
		return data
	}
	return out
}

func indentJSON(data []byte) (string, bool) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(data), "", indent); err != nil {
		return "", false
	}
	return buf.String(), true
}

// Classify picks the display class: errors first, then JSON, else text.
func Classify(isError bool, contentType string) Kind {
	switch {
	case isError:
		return KindError
	case IsJSON(contentType):
		return KindSuccess
	default:
		return KindText
	}
}

// SlotClass is the CSS class list of a rendered slot.
func SlotClass(kind Kind) string {
	return "active " + string(kind)
}

// HeaderContentType is the content type label shown above a response.
func HeaderContentType(contentType string) string {
	if contentType == "" {
		return DefaultContentType
	}
	return contentType
}
