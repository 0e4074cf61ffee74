package builder

import "errors"

// ErrWrite marks a build that failed while persisting the page or the cache.
var ErrWrite = errors.New("cannot persist build output")
