package api

import "time"

const (
	// DefaultPageTimeout bounds page and static asset requests.
	DefaultPageTimeout = 30 * time.Second

	// DefaultActionTimeout bounds API calls that only start background work.
	DefaultActionTimeout = 5 * time.Second

	DefaultHealthCheckTimeout = 10 * time.Second

	// DefaultEventLimit applies when a request names no limit.
	DefaultEventLimit = 100
	DefaultErrorLimit = 50
	MaxEventLimit     = 1000
)
