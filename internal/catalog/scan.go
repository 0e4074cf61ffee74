package catalog

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
)

// ExperimentsCategory is the category of projects sitting directly under the nested root.
const ExperimentsCategory = "experiments"

// Layout describes where projects live under a base directory.
type Layout struct {
	BaseDir      string
	GroupedRoot  string   // root/<category>/<project>/
	NestedRoot   string   // root/<project>/ or root/<category>/<project>/
	ManifestName string   // file that marks a directory as a project
	Excludes     []string // glob patterns matched against directory names
}

// Scanner enumerates candidate project directories.
type Scanner struct {
	Layout   Layout
	Reporter Reporter
}

// NewScanner returns a Scanner over layout. A nil reporter discards skip messages.
func NewScanner(layout Layout, r Reporter) *Scanner {
	if r == nil {
		r = NopReporter
	}
	return &Scanner{Layout: layout, Reporter: r}
}

// Scan yields every candidate in directory enumeration order. Missing roots yield nothing;
// unreadable subdirectories are reported and skipped.
func (s *Scanner) Scan() iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		if !s.scanGrouped(yield) {
			return
		}
		s.scanNested(yield)
	}
}

// HasManifest reports whether dir directly contains the manifest document.
func (s *Scanner) HasManifest(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, s.Layout.ManifestName))
	return err == nil && info.Mode().IsRegular()
}

func (s *Scanner) scanGrouped(yield func(Candidate) bool) bool {
	if s.Layout.GroupedRoot == "" {
		return true
	}
	root := filepath.Join(s.Layout.BaseDir, s.Layout.GroupedRoot)
	for _, category := range s.subdirs(root) {
		for _, project := range s.subdirs(filepath.Join(root, category)) {
			dir := filepath.Join(root, category, project)
			if !s.HasManifest(dir) {
				continue
			}
			if !yield(Candidate{Dir: dir, Section: SectionChallenges, Category: category}) {
				return false
			}
		}
	}
	return true
}

func (s *Scanner) scanNested(yield func(Candidate) bool) bool {
	if s.Layout.NestedRoot == "" {
		return true
	}
	root := filepath.Join(s.Layout.BaseDir, s.Layout.NestedRoot)
	for _, name := range s.subdirs(root) {
		dir := filepath.Join(root, name)
		if s.HasManifest(dir) {
			if !yield(Candidate{Dir: dir, Section: SectionOther, Category: ExperimentsCategory}) {
				return false
			}
			continue
		}
		for _, project := range s.subdirs(dir) {
			pdir := filepath.Join(dir, project)
			if !s.HasManifest(pdir) {
				continue
			}
			if !yield(Candidate{Dir: pdir, Section: SectionOther, Category: name}) {
				return false
			}
		}
	}
	return true
}

// subdirs lists the non-excluded immediate subdirectories of dir.
func (s *Scanner) subdirs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			s.Reporter.Skip(dir, fmt.Errorf("cannot read directory: %w", err))
		}
		return nil
	}
	var out []string
	for _, e := range entries {
		if matchesExclude(e.Name(), s.Layout.Excludes) {
			continue
		}
		isDir := e.IsDir()
		if e.Type()&os.ModeSymlink != 0 {
			if info, err := os.Stat(filepath.Join(dir, e.Name())); err == nil {
				isDir = info.IsDir()
			}
		}
		if isDir {
			out = append(out, e.Name())
		}
	}
	return out
}

// matchesExclude reports whether name matches any of the given glob patterns.
func matchesExclude(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
