package cache

import "errors"

// ErrCorrupt indicates the cache file could not be decoded and was treated as empty.
var ErrCorrupt = errors.New("cache file is corrupt")

// ErrLocked indicates another build holds the cache lock.
var ErrLocked = errors.New("cache is locked by another build")
