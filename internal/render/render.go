// Package render turns a grouped project index into the static index page.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/showcase-dev/showcase/internal/catalog"
)

//go:embed templates/page.html.tmpl
var templateFS embed.FS

// TimestampLayout formats the generation time shown in the page footer.
const TimestampLayout = "January 2, 2006 at 03:04 PM"

var pageTmpl = template.Must(template.New("page.html.tmpl").
	Funcs(template.FuncMap{"projectURL": projectURL}).
	ParseFS(templateFS, "templates/page.html.tmpl"))

// Options holds the page texts that do not come from projects.
type Options struct {
	SiteTitle string
	Subtitle  string
}

// DefaultOptions returns the stock page header.
func DefaultOptions() Options {
	return Options{
		SiteTitle: "🌟 Interactive Project Portfolio",
		Subtitle:  "A collection of creative coding experiments and challenges",
	}
}

// Renderer renders index pages. It holds no state besides its options.
type Renderer struct {
	opts Options
}

// New returns a Renderer. Empty option fields fall back to DefaultOptions.
func New(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.SiteTitle == "" {
		opts.SiteTitle = def.SiteTitle
	}
	if opts.Subtitle == "" {
		opts.Subtitle = def.Subtitle
	}
	return &Renderer{opts: opts}
}

type pageData struct {
	SiteTitle   string
	Subtitle    string
	Summary     catalog.Summary
	Sections    []sectionData
	GeneratedAt string
}

type sectionData struct {
	Key        string
	Title      string
	Icon       string
	Count      int
	Categories []catalog.CategoryGroup
}

// Render produces the page for idx. The output depends only on the arguments.
func (r *Renderer) Render(idx catalog.GroupedIndex, summary catalog.Summary, generatedAt time.Time) ([]byte, error) {
	data := pageData{
		SiteTitle:   r.opts.SiteTitle,
		Subtitle:    r.opts.Subtitle,
		Summary:     summary,
		GeneratedAt: generatedAt.Format(TimestampLayout),
	}
	for _, s := range idx.Sections {
		if s.Count() == 0 {
			continue
		}
		data.Sections = append(data.Sections, sectionData{
			Key:        string(s.Section),
			Title:      s.Section.Title(),
			Icon:       categoryIcon(s.Section),
			Count:      s.Count(),
			Categories: s.Categories,
		})
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}

func categoryIcon(s catalog.Section) string {
	if s == catalog.SectionChallenges {
		return "🚀"
	}
	return "🔬"
}

func projectURL(path string) string {
	return "/" + path + "/"
}
