// Package stats produces project statistics from a fresh scan of the tree,
// independent of the builder cache.
package stats

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/showcase-dev/showcase/internal/catalog"
)

// Format selects the report encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatMarkdown:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want json or markdown)", s)
}

// DefaultFile returns the conventional output file name for f.
func (f Format) DefaultFile() string {
	if f == FormatMarkdown {
		return "stats.md"
	}
	return "stats.json"
}

// CategoryCount is the number of projects in one (section, category) bucket.
type CategoryCount struct {
	Section  catalog.Section `json:"section"`
	Category string          `json:"category"`
	Projects int             `json:"projects"`
}

// Report is the statistics snapshot.
type Report struct {
	TotalProjects int             `json:"total_projects"`
	Categories    []CategoryCount `json:"categories"`
	Technologies  map[string]int  `json:"technologies"`
	LastUpdated   time.Time       `json:"last_updated"`
}

// Collect scans layout and counts projects per category and technology.
func Collect(layout catalog.Layout, r catalog.Reporter, now time.Time) *Report {
	scanner := catalog.NewScanner(layout, r)
	extractor := catalog.NewExtractor(layout, nil)
	projects := slices.Collect(extractor.ExtractAll(scanner.Scan(), r))
	idx := catalog.Group(projects)

	rep := &Report{Technologies: map[string]int{}, Categories: []CategoryCount{}, LastUpdated: now}
	for _, sec := range idx.Sections {
		for _, c := range sec.Categories {
			rep.Categories = append(rep.Categories, CategoryCount{Section: sec.Section, Category: c.Name, Projects: len(c.Projects)})
			rep.TotalProjects += len(c.Projects)
			for _, p := range c.Projects {
				for _, t := range p.Technologies {
					rep.Technologies[t]++
				}
			}
		}
	}
	return rep
}

// Encode renders the report in format f.
func (r *Report) Encode(f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		b, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal stats: %w", err)
		}
		return append(b, '\n'), nil
	case FormatMarkdown:
		return r.markdown(), nil
	}
	return nil, fmt.Errorf("unknown format %q", f)
}

func (r *Report) markdown() []byte {
	var sb strings.Builder
	sb.WriteString("# Project Statistics\n\n")
	fmt.Fprintf(&sb, "Last updated: %s\n\n", r.LastUpdated.Format("January 2, 2006"))
	sb.WriteString("## Overview\n")
	fmt.Fprintf(&sb, "- Total Projects: %d\n", r.TotalProjects)
	fmt.Fprintf(&sb, "- Categories: %d\n", len(r.Categories))
	fmt.Fprintf(&sb, "- Technologies: %d\n", len(r.Technologies))

	sb.WriteString("\n## Categories\n")
	for _, c := range r.Categories {
		fmt.Fprintf(&sb, "- %s / %s: %d projects\n", c.Section.Title(), c.Category, c.Projects)
	}

	sb.WriteString("\n## Technologies\n")
	tags := make([]string, 0, len(r.Technologies))
	for t := range r.Technologies {
		tags = append(tags, t)
	}
	slices.Sort(tags)
	for _, t := range tags {
		fmt.Fprintf(&sb, "- %s: %d projects\n", t, r.Technologies[t])
	}
	return []byte(sb.String())
}
