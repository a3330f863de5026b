package server

import "time"

// DefaultShutdownTimeout is the default timeout for graceful server shutdown
const DefaultShutdownTimeout = 30 * time.Second

// DefaultStorePingTimeout bounds the reachability check of a remote store.
const DefaultStorePingTimeout = 5 * time.Second

// DefaultCopyResultTimeout bounds how long a copy waits for the browser to
// report its clipboard write.
const DefaultCopyResultTimeout = 10 * time.Second
