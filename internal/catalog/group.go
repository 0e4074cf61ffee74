package catalog

import (
	"cmp"
	"slices"
)

// CategoryGroup is one category bucket within a section.
type CategoryGroup struct {
	Name     string
	Projects []Project
}

// SectionGroup is one section with its categories in display order.
type SectionGroup struct {
	Section    Section
	Categories []CategoryGroup
}

// Count returns the number of projects across all categories of the section.
func (g SectionGroup) Count() int {
	n := 0
	for _, c := range g.Categories {
		n += len(c.Projects)
	}
	return n
}

// GroupedIndex is Section -> Category -> projects. Empty sections are omitted.
type GroupedIndex struct {
	Sections []SectionGroup
}

// Group partitions projects by section (fixed order), then category (alphabetical),
// then orders each category by title. Titles that are byte-identical fall back to
// path, so the result does not depend on input order. A path seen twice keeps its
// first record only.
func Group(projects []Project) GroupedIndex {
	seen := make(map[string]bool, len(projects))
	sorted := make([]Project, 0, len(projects))
	for _, p := range projects {
		if seen[p.Path] {
			continue
		}
		seen[p.Path] = true
		sorted = append(sorted, p)
	}
	slices.SortStableFunc(sorted, compareProjects)

	var idx GroupedIndex
	for _, p := range sorted {
		n := len(idx.Sections)
		if n == 0 || idx.Sections[n-1].Section != p.Section {
			idx.Sections = append(idx.Sections, SectionGroup{Section: p.Section})
			n++
		}
		sec := &idx.Sections[n-1]
		m := len(sec.Categories)
		if m == 0 || sec.Categories[m-1].Name != p.Category {
			sec.Categories = append(sec.Categories, CategoryGroup{Name: p.Category})
			m++
		}
		sec.Categories[m-1].Projects = append(sec.Categories[m-1].Projects, p)
	}
	return idx
}

func compareProjects(a, b Project) int {
	if c := cmp.Compare(a.Section.Rank(), b.Section.Rank()); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Section, b.Section); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Category, b.Category); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Title, b.Title); c != 0 {
		return c
	}
	return cmp.Compare(a.Path, b.Path)
}

// Summarize counts projects, distinct (section, category) buckets and distinct technologies.
func Summarize(idx GroupedIndex) Summary {
	var s Summary
	techs := map[string]bool{}
	for _, sec := range idx.Sections {
		s.Categories += len(sec.Categories)
		for _, c := range sec.Categories {
			s.Projects += len(c.Projects)
			for _, p := range c.Projects {
				for _, t := range p.Technologies {
					techs[t] = true
				}
			}
		}
	}
	s.Technologies = len(techs)
	return s
}
