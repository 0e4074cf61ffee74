package catalog

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(s *Scanner) []Candidate {
	return slices.Collect(s.Scan())
}

func TestScan_MissingRootsYieldNothing(t *testing.T) {
	s := NewScanner(testLayout(t.TempDir()), nil)
	assert.Empty(t, collect(s))
}

func TestScan_GroupedRoot(t *testing.T) {
	base := t.TempDir()
	writeManifest(t, base, "challenges/animation/spin", "<title>Spin</title>")
	writeManifest(t, base, "challenges/animation/bounce", "<title>Bounce</title>")
	require.NoError(t, os.MkdirAll(filepath.Join(base, "challenges", "animation", "draft"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "challenges", "stray.html"), nil, 0o644))

	got := collect(NewScanner(testLayout(base), nil))
	require.Len(t, got, 2)
	for _, c := range got {
		assert.Equal(t, SectionChallenges, c.Section)
		assert.Equal(t, "animation", c.Category)
	}
	names := []string{filepath.Base(got[0].Dir), filepath.Base(got[1].Dir)}
	assert.ElementsMatch(t, []string{"spin", "bounce"}, names)
}

func TestScan_NestedRootDirectAndCategorised(t *testing.T) {
	base := t.TempDir()
	writeManifest(t, base, "other/noise-mixer", "<title>Noise</title>")
	writeManifest(t, base, "other/games/word-adventure", "<title>Words</title>")
	writeManifest(t, base, "other/games/deep/nested/too-far", "<title>No</title>")

	got := collect(NewScanner(testLayout(base), nil))
	require.Len(t, got, 2)

	byName := map[string]Candidate{}
	for _, c := range got {
		byName[filepath.Base(c.Dir)] = c
	}
	assert.Equal(t, Candidate{Dir: filepath.Join(base, "other", "noise-mixer"), Section: SectionOther, Category: ExperimentsCategory}, byName["noise-mixer"])
	assert.Equal(t, Candidate{Dir: filepath.Join(base, "other", "games", "word-adventure"), Section: SectionOther, Category: "games"}, byName["word-adventure"])
}

func TestScan_Excludes(t *testing.T) {
	base := t.TempDir()
	writeManifest(t, base, "challenges/.hidden/p", "<title>x</title>")
	writeManifest(t, base, "other/node_modules/pkg", "<title>x</title>")
	writeManifest(t, base, "other/kept", "<title>x</title>")

	got := collect(NewScanner(testLayout(base), nil))
	require.Len(t, got, 1)
	assert.Equal(t, "kept", filepath.Base(got[0].Dir))
}

func TestScan_NoProjectYieldedTwice(t *testing.T) {
	base := t.TempDir()
	writeManifest(t, base, "challenges/a/one", "x")
	writeManifest(t, base, "challenges/b/two", "x")
	writeManifest(t, base, "other/three", "x")
	writeManifest(t, base, "other/c/four", "x")

	seen := map[string]bool{}
	for _, c := range collect(NewScanner(testLayout(base), nil)) {
		assert.False(t, seen[c.Dir], c.Dir)
		seen[c.Dir] = true
	}
	assert.Len(t, seen, 4)
}

func TestScan_StopsEarly(t *testing.T) {
	base := t.TempDir()
	writeManifest(t, base, "challenges/a/one", "x")
	writeManifest(t, base, "challenges/a/two", "x")
	writeManifest(t, base, "other/three", "x")

	n := 0
	for range NewScanner(testLayout(base), nil).Scan() {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestScan_UnreadableCategoryIsReportedAndSkipped(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	base := t.TempDir()
	writeManifest(t, base, "challenges/open/p", "x")
	locked := filepath.Join(base, "challenges", "locked")
	writeManifest(t, base, "challenges/locked/q", "x")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	var skipped []string
	r := ReporterFunc(func(path string, err error) { skipped = append(skipped, path) })
	got := collect(NewScanner(testLayout(base), r))

	require.Len(t, got, 1)
	assert.Equal(t, "p", filepath.Base(got[0].Dir))
	assert.Equal(t, []string{locked}, skipped)
}
