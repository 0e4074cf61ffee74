package catalog

import (
	"bytes"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrMalformedManifest indicates a manifest that could not be read as a markup document.
var ErrMalformedManifest = errors.New("malformed manifest")

// Manifest is what a parser pulls out of a manifest document. Empty fields mean "not present".
type Manifest struct {
	Title       string
	Description string
}

// ManifestParser parses manifest bytes.
type ManifestParser interface {
	Parse(content []byte) (Manifest, error)
}

// HTMLParser reads the <title> element and the description <meta> of an HTML document.
type HTMLParser struct{}

// Parse implements ManifestParser. Documents that are not valid UTF-8 are rejected.
func (HTMLParser) Parse(content []byte) (Manifest, error) {
	if !utf8.Valid(content) {
		return Manifest{}, errors.Join(ErrMalformedManifest, errors.New("content is not valid UTF-8"))
	}
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return Manifest{}, errors.Join(ErrMalformedManifest, err)
	}

	var m Manifest
	var titleFound, descFound bool
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Title:
				if !titleFound {
					titleFound = true
					m.Title = strings.TrimSpace(textContent(n))
				}
			case atom.Meta:
				if !descFound && strings.EqualFold(attr(n, "name"), "description") {
					descFound = true
					m.Description = strings.TrimSpace(attr(n, "content"))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return m, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
