package catalog

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showcase-dev/showcase/internal/catalog/cache"
)

func newTestExtractor(t *testing.T, base string) (*Extractor, *countingParser, *cache.Store) {
	t.Helper()
	store := cache.NewStore(filepath.Join(base, ".project_cache.json"))
	x := NewExtractor(testLayout(base), store)
	p := &countingParser{inner: HTMLParser{}}
	x.Parser = p
	return x, p, store
}

func TestExtract_SpinScenario(t *testing.T) {
	base := t.TempDir()
	dir := writeManifest(t, base, "challenges/animation/spin", "<html><head><title>Spin</title></head></html>")
	x, _, _ := newTestExtractor(t, base)

	p, err := x.Extract(Candidate{Dir: dir, Section: SectionChallenges, Category: "animation"})
	require.NoError(t, err)
	assert.Equal(t, "challenges/animation/spin", p.Path)
	assert.Equal(t, "Spin", p.Title)
	assert.Equal(t, "Animation", p.Category)
	assert.Equal(t, "Interactive Animation project", p.Description)
	assert.Equal(t, SectionChallenges, p.Section)
	assert.NotEmpty(t, p.ContentHash)
	assert.False(t, p.ModifiedAt.IsZero())
}

func TestExtract_FallbackTitleAndExplicitDescription(t *testing.T) {
	base := t.TempDir()
	dir := writeManifest(t, base, "other/games/word-adventure",
		`<meta name="description" content="A text adventure"><canvas></canvas>`)
	x, _, _ := newTestExtractor(t, base)

	p, err := x.Extract(Candidate{Dir: dir, Section: SectionOther, Category: "games"})
	require.NoError(t, err)
	assert.Equal(t, "Word Adventure", p.Title)
	assert.Equal(t, "A text adventure", p.Description)
	assert.Equal(t, []string{"Canvas"}, p.Technologies)
}

func TestExtract_NoManifest(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "challenges", "a", "empty")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	x, _, _ := newTestExtractor(t, base)

	_, err := x.Extract(Candidate{Dir: dir, Section: SectionChallenges, Category: "a"})
	assert.ErrorIs(t, err, ErrNoManifest)
}

func TestExtract_CacheHitSkipsParse(t *testing.T) {
	base := t.TempDir()
	dir := writeManifest(t, base, "challenges/animation/spin", "<title>Spin</title><script src=react.js></script>")
	x, parser, _ := newTestExtractor(t, base)
	c := Candidate{Dir: dir, Section: SectionChallenges, Category: "animation"}

	first, err := x.Extract(c)
	require.NoError(t, err)
	second, err := x.Extract(c)
	require.NoError(t, err)

	assert.Equal(t, 1, parser.calls)
	assert.Equal(t, 1, x.Parsed())
	assert.Equal(t, 1, x.Reused())
	assert.Equal(t, first, second)
}

func TestExtract_ChangedContentReparses(t *testing.T) {
	base := t.TempDir()
	dir := writeManifest(t, base, "challenges/animation/spin", "<title>Spin</title>")
	x, parser, _ := newTestExtractor(t, base)
	c := Candidate{Dir: dir, Section: SectionChallenges, Category: "animation"}

	_, err := x.Extract(c)
	require.NoError(t, err)
	writeManifest(t, base, "challenges/animation/spin", "<title>Spin 2</title>")
	p, err := x.Extract(c)
	require.NoError(t, err)

	assert.Equal(t, 2, parser.calls)
	assert.Equal(t, "Spin 2", p.Title)
}

func TestExtract_ForceIgnoresCache(t *testing.T) {
	base := t.TempDir()
	dir := writeManifest(t, base, "challenges/animation/spin", "<title>Spin</title>")
	x, parser, _ := newTestExtractor(t, base)
	x.Force = true
	c := Candidate{Dir: dir, Section: SectionChallenges, Category: "animation"}

	for i := 0; i < 2; i++ {
		_, err := x.Extract(c)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, parser.calls)
}

// A project moved to another category keeps its cached content fields but
// picks up the new category, including in the synthesized description.
func TestExtract_MovedProjectRederivesPathFields(t *testing.T) {
	base := t.TempDir()
	body := "<title>Spin</title><canvas></canvas>"
	oldDir := writeManifest(t, base, "challenges/animation/spin", body)
	x, parser, _ := newTestExtractor(t, base)

	_, err := x.Extract(Candidate{Dir: oldDir, Section: SectionChallenges, Category: "animation"})
	require.NoError(t, err)

	newDir := filepath.Join(base, "challenges", "motion", "spin")
	require.NoError(t, os.MkdirAll(filepath.Dir(newDir), 0o755))
	require.NoError(t, os.Rename(oldDir, newDir))

	p, err := x.Extract(Candidate{Dir: newDir, Section: SectionChallenges, Category: "motion"})
	require.NoError(t, err)
	assert.Equal(t, 1, parser.calls)
	assert.Equal(t, "challenges/motion/spin", p.Path)
	assert.Equal(t, "Motion", p.Category)
	assert.Equal(t, "Spin", p.Title)
	assert.Equal(t, "Interactive Motion project", p.Description)
	assert.Equal(t, []string{"Canvas"}, p.Technologies)
}

func TestExtract_MovedToOtherSection(t *testing.T) {
	base := t.TempDir()
	body := "<html>no title here</html>"
	oldDir := writeManifest(t, base, "challenges/animation/spin-it", body)
	x, parser, _ := newTestExtractor(t, base)

	_, err := x.Extract(Candidate{Dir: oldDir, Section: SectionChallenges, Category: "animation"})
	require.NoError(t, err)

	newDir := writeManifest(t, base, "other/twirl", body)
	p, err := x.Extract(Candidate{Dir: newDir, Section: SectionOther, Category: ExperimentsCategory})
	require.NoError(t, err)
	assert.Equal(t, 1, parser.calls)
	assert.Equal(t, SectionOther, p.Section)
	assert.Equal(t, "Experiments", p.Category)
	assert.Equal(t, "Twirl", p.Title, "fallback title follows the directory name")
}

func TestExtract_CachedUnknownTechnologyIsDropped(t *testing.T) {
	base := t.TempDir()
	body := "<title>T</title>"
	dir := writeManifest(t, base, "challenges/a/t", body)
	x, parser, store := newTestExtractor(t, base)

	_, err := x.Extract(Candidate{Dir: dir, Section: SectionChallenges, Category: "a"})
	require.NoError(t, err)
	e, _ := store.Get("challenges/a/t")
	e.Technologies = []string{"Svelte", "React"}
	store.Put("challenges/a/t", e)

	p, err := x.Extract(Candidate{Dir: dir, Section: SectionChallenges, Category: "a"})
	require.NoError(t, err)
	assert.Equal(t, 1, parser.calls)
	assert.Equal(t, []string{"React"}, p.Technologies)
}

func TestExtractAll_SkipsMalformedAndReports(t *testing.T) {
	base := t.TempDir()
	writeManifest(t, base, "challenges/a/good", "<title>Good</title>")
	writeManifest(t, base, "challenges/a/bad", "<title>\xff</title>")
	x, _, _ := newTestExtractor(t, base)

	var skipped []string
	r := ReporterFunc(func(path string, err error) {
		assert.ErrorIs(t, err, ErrMalformedManifest)
		skipped = append(skipped, filepath.Base(path))
	})
	projects := slices.Collect(x.ExtractAll(NewScanner(testLayout(base), nil).Scan(), r))

	require.Len(t, projects, 1)
	assert.Equal(t, "Good", projects[0].Title)
	assert.Equal(t, []string{"bad"}, skipped)
}
