package controller

import "strings"

// PingPath is requested by the connectivity test.
const PingPath = "/ping"

type Endpoint struct {
	Path        string `json:"path"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var endpoints = [...]Endpoint{
	{Path: "/", Name: "root", Description: "Welcome message and API information"},
	{Path: "/ping", Name: "ping", Description: "Simple ping-pong response for connectivity test"},
	{Path: "/healthz", Name: "healthz", Description: "Health check endpoint with system metrics"},
	{Path: "/info", Name: "info", Description: "Detailed application and system information"},
}

// Endpoints returns the fixed endpoint list in fetch order.
func Endpoints() []Endpoint {
	out := make([]Endpoint, len(endpoints))
	copy(out, endpoints[:])
	return out
}

// SlotNames returns the display slot of every endpoint in fetch order.
func SlotNames() []string {
	names := make([]string, len(endpoints))
	for i, ep := range endpoints {
		names[i] = ep.Name
	}
	return names
}

// EndpointByName looks up an endpoint by its slot name.
func EndpointByName(name string) (Endpoint, bool) {
	for _, ep := range endpoints {
		if ep.Name == name {
			return ep, true
		}
	}
	return Endpoint{}, false
}

// SlotName maps an endpoint path to its display slot: "/" is root and
// any other path drops its first slash.
func SlotName(path string) string {
	if path == "/" {
		return "root"
	}
	return strings.Replace(path, "/", "", 1)
}
