package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Humanize turns a directory name into a display label:
// "shapes-and-lines" becomes "Shapes And Lines".
func Humanize(name string) string {
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return cases.Title(language.Und).String(strings.Join(strings.Fields(name), " "))
}
