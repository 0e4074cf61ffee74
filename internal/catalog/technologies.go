package catalog

import "strings"

// Signature maps a literal substring of a lowercased manifest to a technology tag.
type Signature struct {
	Needle string
	Tag    string
}

// Signatures is the recognized vocabulary in priority order.
var Signatures = []Signature{
	{"jquery", "jQuery"},
	{"$(", "jQuery"},
	{"react", "React"},
	{"vue", "Vue"},
	{"canvas", "Canvas"},
	{"three.js", "Three.js"},
	{"threejs", "Three.js"},
	{"gsap", "GSAP"},
	{"squircle", "Squircle UI"},
}

// KnownTechnology reports whether tag belongs to the vocabulary.
func KnownTechnology(tag string) bool {
	for _, sig := range Signatures {
		if sig.Tag == tag {
			return true
		}
	}
	return false
}

// DetectTechnologies returns the tags whose signatures occur in content, each once,
// in vocabulary order.
func DetectTechnologies(content string) []string {
	text := strings.ToLower(content)
	var tags []string
	seen := map[string]bool{}
	for _, sig := range Signatures {
		if seen[sig.Tag] || !strings.Contains(text, sig.Needle) {
			continue
		}
		seen[sig.Tag] = true
		tags = append(tags, sig.Tag)
	}
	return tags
}

// filterKnown drops tags outside the vocabulary and duplicates, keeping order.
func filterKnown(tags []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, t := range tags {
		if seen[t] || !KnownTechnology(t) {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
