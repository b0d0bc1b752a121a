package cms

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRendersMarkdown(t *testing.T) {
	store := NewStore("testdata")

	page, err := store.Get("about", "company", "en")
	require.NoError(t, err)
	assert.Equal(t, "About us", page.Title)
	assert.Equal(t, "en", page.Lang)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), page.UpdatedAt)

	body := string(page.HTML)
	assert.Contains(t, body, `<h1 id="who-we-are">Who we are</h1>`)
	assert.Contains(t, body, "<strong>certified</strong>")
	assert.Contains(t, body, "<table>")
	assert.NotContains(t, body, "<script")
	assert.Equal(t, "Mobility equipment for every home.", page.Description())
}

func TestStoreFallsBackToOtherLanguage(t *testing.T) {
	store := NewStore("testdata")

	page, err := store.Get("about", "history", "ar")
	require.NoError(t, err)
	assert.Equal(t, "en", page.Lang)
	assert.Equal(t, "History", page.Title)

	ar, err := store.Get("about", "company", "ar")
	require.NoError(t, err)
	assert.Equal(t, "من نحن", ar.Title)
}

func TestStoreMissingAndUnsafeSlugs(t *testing.T) {
	store := NewStore("testdata")
	_, err := store.Get("about", "nope", "en")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get("about", "../about/en/company", "en")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreCachesUntilTTL(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "about", "en", "team.md")
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0o755))
	require.NoError(t, os.WriteFile(file, []byte("# Team\n\nFirst version of the team page."), 0o644))

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewStore(dir, WithCacheTTL(time.Minute), WithClock(func() time.Time { return now }))

	first, err := store.Get("about", "team", "en")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(file, []byte("# Team\n\nSecond version of the team page."), 0o644))

	cached, err := store.Get("about", "team", "en")
	require.NoError(t, err)
	assert.Equal(t, first.HTML, cached.HTML)

	now = now.Add(2 * time.Minute)
	fresh, err := store.Get("about", "team", "en")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(fresh.HTML), "Second version"))
}

func TestExcerptSkipsHeadings(t *testing.T) {
	got := Excerpt(`<h1>Title</h1><p>Alpha beta <em>gamma</em> delta.</p><p>Epsilon zeta eta theta.</p>`, 25)
	assert.Equal(t, "Alpha beta gamma delta…", got)
	assert.Equal(t, "Short text.", Excerpt("<p>Short text.</p>", 100))
}
