package catalog

import "time"

// Section is the top-level grouping a project belongs to, decided by the root it was found under.
type Section string

const (
	SectionChallenges Section = "challenges"
	SectionOther      Section = "other"
)

// Sections lists every section in display order.
var Sections = []Section{SectionChallenges, SectionOther}

// Rank returns the display position of s. Unknown sections sort last.
func (s Section) Rank() int {
	for i, known := range Sections {
		if s == known {
			return i
		}
	}
	return len(Sections)
}

// Title returns the heading shown for the section on the index page.
func (s Section) Title() string {
	switch s {
	case SectionChallenges:
		return "🏆 Challenges"
	case SectionOther:
		return "🔬 Other Projects"
	}
	return Humanize(string(s))
}

// Project is one discovered project.
type Project struct {
	Path         string // slash-separated, relative to the base dir; unique key
	Title        string
	Description  string
	Technologies []string
	Section      Section
	Category     string
	ContentHash  string
	ModifiedAt   time.Time
}

// Candidate is a directory the Scanner believes holds a project.
// Category is the raw directory name the category is derived from.
type Candidate struct {
	Dir      string
	Section  Section
	Category string
}

// Summary holds the counts shown in the page header.
type Summary struct {
	Projects     int
	Categories   int
	Technologies int
}
