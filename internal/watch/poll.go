// Package watch re-runs builds when manifests change, either by polling
// modification times or by listening for filesystem events.
package watch

import (
	"context"
	"maps"
	"os"
	"path/filepath"
	"time"

	"github.com/showcase-dev/showcase/internal/builder"
	"github.com/showcase-dev/showcase/internal/catalog"
)

// Rebuilder is what a watcher triggers.
type Rebuilder interface {
	Build(ctx context.Context) (*builder.Result, error)
}

// BuildFunc is called after every triggered build.
type BuildFunc func(res *builder.Result, err error)

// Poller wakes every Interval, stats every manifest the scanner can see and
// rebuilds when one is newer than the start of the last successful build or
// when projects appeared or disappeared.
type Poller struct {
	Layout   catalog.Layout
	Interval time.Duration
	Builder  Rebuilder
	OnBuild  BuildFunc

	lastStart time.Time
	lastSeen  map[string]time.Time
}

// Run polls until ctx is cancelled. The first poll always builds.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()
	for {
		p.poll(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	seen := p.snapshot()
	if p.lastSeen != nil && !p.changed(seen) {
		return
	}
	start := time.Now()
	res, err := p.Builder.Build(ctx)
	if p.OnBuild != nil {
		p.OnBuild(res, err)
	}
	if err == nil {
		p.lastStart = start
		p.lastSeen = seen
	}
}

func (p *Poller) changed(seen map[string]time.Time) bool {
	if !maps.EqualFunc(seen, p.lastSeen, func(a, b time.Time) bool { return true }) {
		return true
	}
	for _, mod := range seen {
		if mod.After(p.lastStart) {
			return true
		}
	}
	return false
}

// snapshot maps each manifest path to its modification time.
func (p *Poller) snapshot() map[string]time.Time {
	out := map[string]time.Time{}
	scanner := catalog.NewScanner(p.Layout, nil)
	for c := range scanner.Scan() {
		path := filepath.Join(c.Dir, p.Layout.ManifestName)
		if info, err := os.Stat(path); err == nil {
			out[path] = info.ModTime()
		}
	}
	return out
}
