package stats

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showcase-dev/showcase/internal/catalog"
)

func fixture(t *testing.T) catalog.Layout {
	t.Helper()
	base := t.TempDir()
	write := func(rel, body string) {
		dir := filepath.Join(base, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte(body), 0o644))
	}
	write("challenges/animation/spin", "<title>Spin</title><canvas></canvas>")
	write("challenges/animation/bounce", "<title>Bounce</title><canvas></canvas><script>gsap</script>")
	write("other/roomba", "<title>Roomba</title>")
	return catalog.Layout{BaseDir: base, GroupedRoot: "challenges", NestedRoot: "other", ManifestName: "index.html"}
}

var now = time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

func TestCollect(t *testing.T) {
	rep := Collect(fixture(t), nil, now)
	assert.Equal(t, 3, rep.TotalProjects)
	assert.Equal(t, []CategoryCount{
		{Section: catalog.SectionChallenges, Category: "Animation", Projects: 2},
		{Section: catalog.SectionOther, Category: "Experiments", Projects: 1},
	}, rep.Categories)
	assert.Equal(t, map[string]int{"Canvas": 2, "GSAP": 1}, rep.Technologies)
}

func TestEncode_JSON(t *testing.T) {
	b, err := Collect(fixture(t), nil, now).Encode(FormatJSON)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.EqualValues(t, 3, decoded["total_projects"])
	assert.Equal(t, "2026-02-03T04:05:06Z", decoded["last_updated"])
}

func TestEncode_Markdown(t *testing.T) {
	b, err := Collect(fixture(t), nil, now).Encode(FormatMarkdown)
	require.NoError(t, err)
	md := string(b)
	assert.Contains(t, md, "Last updated: February 3, 2026")
	assert.Contains(t, md, "- Total Projects: 3\n")
	assert.Contains(t, md, "- Categories: 2\n")
	assert.Contains(t, md, "- 🏆 Challenges / Animation: 2 projects\n")
	assert.Contains(t, md, "- Canvas: 2 projects\n- GSAP: 1 projects\n")
}

func TestEncode_EmptyTree(t *testing.T) {
	layout := catalog.Layout{BaseDir: t.TempDir(), GroupedRoot: "challenges", NestedRoot: "other", ManifestName: "index.html"}
	b, err := Collect(layout, nil, now).Encode(FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"categories": []`)
	assert.Contains(t, string(b), `"technologies": {}`)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("Markdown")
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, f)
	assert.Equal(t, "stats.md", f.DefaultFile())
	assert.Equal(t, "stats.json", FormatJSON.DefaultFile())

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}
