// Package cache persists extracted project metadata keyed by project path so that
// unchanged manifests are not parsed again on the next build.
package cache

import "time"

// FormatVersion is written into every cache file. Files with another version load as empty.
const FormatVersion = 1

// Entry holds the content-derived fields of one project. Path-derived fields
// (section, category) are never stored.
type Entry struct {
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Technologies []string  `json:"technologies"`
	Hash         string    `json:"hash"`
	Modified     time.Time `json:"modified"`
}

// file is the on-disk representation.
type file struct {
	Version int              `json:"version"`
	Entries map[string]Entry `json:"entries"`
}
