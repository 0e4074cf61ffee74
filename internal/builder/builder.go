// Package builder runs the full index pipeline: scan, extract (through the
// cache), group, render, then persist the page and the cache.
package builder

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/showcase-dev/showcase/internal/catalog"
	"github.com/showcase-dev/showcase/internal/catalog/cache"
	"github.com/showcase-dev/showcase/internal/fsutil"
	"github.com/showcase-dev/showcase/internal/render"
)

// Options controls a build.
type Options struct {
	Layout     catalog.Layout
	OutputFile string
	CacheFile  string
	Page       render.Options
	// Force re-parses every manifest even when the cache holds a matching hash.
	Force bool
	// LockTimeout bounds the wait for the cache lock. Zero means a single try.
	LockTimeout time.Duration
	// Parser overrides the manifest parser. Nil means HTML.
	Parser catalog.ManifestParser
	// Now overrides the clock used for the page timestamp.
	Now func() time.Time
}

// Result summarizes one build.
type Result struct {
	RunID      string
	StartedAt  time.Time
	Summary    catalog.Summary
	Parsed     int
	Reused     int
	Skipped    int
	OutputFile string
	CacheFile  string
}

// Builder runs builds with fixed options. Build may be called repeatedly.
type Builder struct {
	opts     Options
	reporter catalog.Reporter
}

// New returns a Builder. A nil reporter discards skip messages.
func New(opts Options, r catalog.Reporter) (*Builder, error) {
	if opts.OutputFile == "" {
		return nil, fmt.Errorf("output file is required")
	}
	if opts.CacheFile == "" {
		return nil, fmt.Errorf("cache file is required")
	}
	if opts.Layout.ManifestName == "" {
		return nil, fmt.Errorf("manifest name is required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if r == nil {
		r = catalog.NopReporter
	}
	return &Builder{opts: opts, reporter: r}, nil
}

// Build regenerates the page and the cache. Per-project problems are reported and
// skipped; only failing to write the page or the cache fails the build. When the
// page cannot be written the previous page stays in place.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	res := &Result{
		RunID:      uuid.NewString(),
		StartedAt:  b.opts.Now(),
		OutputFile: b.opts.OutputFile,
		CacheFile:  b.opts.CacheFile,
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	store := cache.NewStore(b.opts.CacheFile)
	unlock, err := store.Lock(b.opts.LockTimeout)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var skipped atomic.Int64
	r := catalog.ReporterFunc(func(path string, err error) {
		skipped.Add(1)
		b.reporter.Skip(path, err)
	})

	if err := store.Load(); err != nil {
		// A corrupt cache only costs re-parsing.
		b.reporter.Skip(store.Path(), err)
	}

	scanner := catalog.NewScanner(b.opts.Layout, r)
	extractor := catalog.NewExtractor(b.opts.Layout, store)
	extractor.Force = b.opts.Force
	if b.opts.Parser != nil {
		extractor.Parser = b.opts.Parser
	}
	projects := slices.Collect(extractor.ExtractAll(scanner.Scan(), r))

	idx := catalog.Group(projects)
	res.Summary = catalog.Summarize(idx)
	res.Parsed = extractor.Parsed()
	res.Reused = extractor.Reused()
	res.Skipped = int(skipped.Load())

	page, err := render.New(b.opts.Page).Render(idx, res.Summary, res.StartedAt)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := fsutil.WriteFileAtomic(b.opts.OutputFile, page, 0o644); err != nil {
		return nil, errors.Join(ErrWrite, fmt.Errorf("cannot write page %s: %w", b.opts.OutputFile, err))
	}
	if err := store.Save(); err != nil {
		return nil, errors.Join(ErrWrite, err)
	}
	return res, nil
}
