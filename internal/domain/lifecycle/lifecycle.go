// Package lifecycle holds shared settings for start and stop hooks.
package lifecycle

import "time"

// DefaultTimeout bounds every start or stop hook that talks to an external resource.
const DefaultTimeout = 10 * time.Second
