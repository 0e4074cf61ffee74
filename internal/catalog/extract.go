package catalog

import (
	"crypto/md5"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/showcase-dev/showcase/internal/catalog/cache"
)

// ErrNoManifest indicates a project directory without a manifest document.
var ErrNoManifest = errors.New("no manifest document")

// Cache is the part of the cache store the extractor needs.
type Cache interface {
	Get(path string) (cache.Entry, bool)
	Put(path string, e cache.Entry)
	FindByHash(hash string) (cache.Entry, bool)
}

// Extractor turns candidates into projects, reusing cached metadata when the
// manifest content has not changed.
type Extractor struct {
	BaseDir      string
	ManifestName string
	Cache        Cache
	Parser       ManifestParser
	// Force ignores cache hits. The cache is still updated.
	Force bool

	parsed atomic.Int64
	reused atomic.Int64
}

// NewExtractor returns an Extractor for layout using the HTML parser.
func NewExtractor(layout Layout, c Cache) *Extractor {
	return &Extractor{
		BaseDir:      layout.BaseDir,
		ManifestName: layout.ManifestName,
		Cache:        c,
		Parser:       HTMLParser{},
	}
}

// Parsed returns how many manifests were parsed.
func (x *Extractor) Parsed() int { return int(x.parsed.Load()) }

// Reused returns how many projects were served from the cache.
func (x *Extractor) Reused() int { return int(x.reused.Load()) }

// Extract builds the project record for c. It returns ErrNoManifest when the
// manifest is missing and ErrMalformedManifest (wrapped) when it cannot be parsed.
func (x *Extractor) Extract(c Candidate) (Project, error) {
	manifestPath := filepath.Join(c.Dir, x.ManifestName)
	info, err := os.Stat(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Project{}, ErrNoManifest
		}
		return Project{}, fmt.Errorf("cannot stat %s: %w", manifestPath, err)
	}
	if !info.Mode().IsRegular() {
		return Project{}, ErrNoManifest
	}

	key, err := x.relPath(c.Dir)
	if err != nil {
		return Project{}, err
	}

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return Project{}, fmt.Errorf("cannot read %s: %w", manifestPath, err)
	}
	hash := fmt.Sprintf("%x", md5.Sum(data))

	entry, hit := x.lookup(key, hash)
	if hit {
		x.reused.Add(1)
	} else {
		m, err := x.Parser.Parse(data)
		if err != nil {
			return Project{}, fmt.Errorf("cannot parse %s: %w", manifestPath, err)
		}
		x.parsed.Add(1)
		entry = cache.Entry{
			Title:        m.Title,
			Description:  m.Description,
			Technologies: DetectTechnologies(string(data)),
			Hash:         hash,
		}
	}
	entry.Modified = info.ModTime().UTC()
	if x.Cache != nil {
		x.Cache.Put(key, entry)
	}
	return newProject(key, c, entry), nil
}

// ExtractAll maps candidates to projects. Candidates that fail are reported and dropped.
func (x *Extractor) ExtractAll(candidates iter.Seq[Candidate], r Reporter) iter.Seq[Project] {
	if r == nil {
		r = NopReporter
	}
	return func(yield func(Project) bool) {
		for c := range candidates {
			p, err := x.Extract(c)
			if err != nil {
				if !errors.Is(err, ErrNoManifest) {
					r.Skip(c.Dir, err)
				}
				continue
			}
			if !yield(p) {
				return
			}
		}
	}
}

func (x *Extractor) lookup(key, hash string) (cache.Entry, bool) {
	if x.Force || x.Cache == nil {
		return cache.Entry{}, false
	}
	if e, ok := x.Cache.Get(key); ok && e.Hash != "" && e.Hash == hash {
		return e, true
	}
	return x.Cache.FindByHash(hash)
}

func (x *Extractor) relPath(dir string) (string, error) {
	base := x.BaseDir
	if base == "" {
		base = "."
	}
	rel, err := filepath.Rel(base, dir)
	if err != nil {
		return "", fmt.Errorf("cannot relativize %s: %w", dir, err)
	}
	return filepath.ToSlash(rel), nil
}

// newProject combines cached content fields with fields derived from the
// candidate's current position in the tree.
func newProject(key string, c Candidate, e cache.Entry) Project {
	category := Humanize(c.Category)
	title := e.Title
	if title == "" {
		title = Humanize(filepath.Base(c.Dir))
	}
	desc := e.Description
	if desc == "" {
		desc = fmt.Sprintf("Interactive %s project", category)
	}
	return Project{
		Path:         key,
		Title:        title,
		Description:  desc,
		Technologies: filterKnown(e.Technologies),
		Section:      c.Section,
		Category:     category,
		ContentHash:  e.Hash,
		ModifiedAt:   e.Modified,
	}
}
