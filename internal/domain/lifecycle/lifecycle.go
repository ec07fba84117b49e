// Package lifecycle holds timing constants shared by fx start/stop hooks.
package lifecycle

import "time"

// DefaultTimeout bounds a single start or stop hook (database ping, HTTP shutdown).
const DefaultTimeout = 10 * time.Second
