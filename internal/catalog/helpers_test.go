package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeManifest creates base/rel/index.html with body and returns the project dir.
func writeManifest(t *testing.T, base, rel, body string) string {
	t.Helper()
	dir := filepath.Join(base, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte(body), 0o644))
	return dir
}

func testLayout(base string) Layout {
	return Layout{
		BaseDir:      base,
		GroupedRoot:  "challenges",
		NestedRoot:   "other",
		ManifestName: "index.html",
		Excludes:     []string{".*", "node_modules"},
	}
}

type countingParser struct {
	calls int
	inner ManifestParser
}

func (p *countingParser) Parse(content []byte) (Manifest, error) {
	p.calls++
	return p.inner.Parse(content)
}
