package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSnapshotStore(filepath.Join(dir, "movies.json"), filepath.Join(dir, "partners.json"))
	require.NoError(t, err)
	return s
}

func TestGetEntryAbsent(t *testing.T) {
	s := newTestStore(t)

	_, ok, err := s.GetEntry("404")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPutGetDeleteEntry(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.PutEntry(Entry{
		Code:     "123",
		Title:    "Some Title",
		Poster:   "https://example.com/poster.jpg",
		Episodes: []string{"https://example.com/e1", " ", "https://example.com/e2", ""},
	}))

	got, ok, err := s.GetEntry("123")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Some Title", got.Title)
	assert.Equal(t, "https://example.com/poster.jpg", got.Poster)
	assert.Equal(t, []string{"https://example.com/e1", "https://example.com/e2"}, got.Episodes)

	n, err := s.CountEntries()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	removed, err := s.DeleteEntry("123")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.DeleteEntry("123")
	require.NoError(t, err)
	assert.False(t, removed, "second delete must report absence")
}

func TestPutEntryOverwrites(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.PutEntry(Entry{Code: "42", Title: "First"}))
	require.NoError(t, s.PutEntry(Entry{Code: "42", Title: "Second", Episodes: []string{"ep"}}))

	got, ok, err := s.GetEntry("42")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Second", got.Title)
	assert.Equal(t, []string{"ep"}, got.Episodes)

	n, err := s.CountEntries()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAddPartnerNormalizesAndDeduplicates(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.AddPartner("channel_one"))
	require.NoError(t, s.AddPartner("@channel_one"))
	require.NoError(t, s.AddPartner("@channel_two"))

	partners, err := s.ListPartners()
	require.NoError(t, err)
	assert.Equal(t, []string{"@channel_one", "@channel_two"}, partners)
}

func TestDeletePartner(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.AddPartner("@a"))
	require.NoError(t, s.AddPartner("@b"))
	require.NoError(t, s.AddPartner("@c"))

	removed, err := s.DeletePartner("@b")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.DeletePartner("@b")
	require.NoError(t, err)
	assert.False(t, removed)

	partners, err := s.ListPartners()
	require.NoError(t, err)
	assert.Equal(t, []string{"@a", "@c"}, partners, "order preserved after removal")
}

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	moviesFile := filepath.Join(dir, "movies.json")
	partnersFile := filepath.Join(dir, "partners.json")

	s, err := NewSnapshotStore(moviesFile, partnersFile)
	require.NoError(t, err)

	entries := []Entry{
		{Code: "1", Title: "One"},
		{Code: "2", Title: "Two", Poster: "p", Episodes: []string{"a", "b"}},
		{Code: "3", Title: "Three", Episodes: []string{"x"}},
	}
	for _, e := range entries {
		require.NoError(t, s.PutEntry(e))
	}
	require.NoError(t, s.AddPartner("@one"))
	require.NoError(t, s.AddPartner("@two"))
	require.NoError(t, s.Close())

	// Reopen from the same files.
	reopened, err := NewSnapshotStore(moviesFile, partnersFile)
	require.NoError(t, err)

	for _, e := range entries {
		got, ok, err := reopened.GetEntry(e.Code)
		require.NoError(t, err)
		require.True(t, ok, "entry %s must survive reopen", e.Code)
		assert.Equal(t, e.Title, got.Title)
		assert.Equal(t, e.Poster, got.Poster)
		assert.Equal(t, CleanEpisodes(e.Episodes), got.Episodes)
	}
	partners, err := reopened.ListPartners()
	require.NoError(t, err)
	assert.Equal(t, []string{"@one", "@two"}, partners)
}

func TestCorruptSnapshotTreatedAsEmpty(t *testing.T) {
	dir := t.TempDir()
	moviesFile := filepath.Join(dir, "movies.json")
	partnersFile := filepath.Join(dir, "partners.json")

	require.NoError(t, os.WriteFile(moviesFile, []byte("{not json"), 0o644))
	require.NoError(t, os.WriteFile(partnersFile, []byte("also broken"), 0o644))

	s, err := NewSnapshotStore(moviesFile, partnersFile)
	require.NoError(t, err, "corrupt snapshot must not be fatal")

	n, err := s.CountEntries()
	require.NoError(t, err)
	assert.Zero(t, n)

	partners, err := s.ListPartners()
	require.NoError(t, err)
	assert.Empty(t, partners)

	// The store must stay writable after recovery.
	require.NoError(t, s.PutEntry(Entry{Code: "1", Title: "Fresh"}))
	_, ok, err := s.GetEntry("1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWrongShapeSnapshotTreatedAsEmpty(t *testing.T) {
	dir := t.TempDir()
	moviesFile := filepath.Join(dir, "movies.json")
	partnersFile := filepath.Join(dir, "partners.json")

	// Valid JSON of the wrong shape: decoding fails partway through and
	// must not leave zero-valued ghosts behind.
	require.NoError(t, os.WriteFile(moviesFile, []byte(`{"77": {"title": 5}}`), 0o644))
	require.NoError(t, os.WriteFile(partnersFile, []byte(`[1, 2]`), 0o644))

	s, err := NewSnapshotStore(moviesFile, partnersFile)
	require.NoError(t, err)

	n, err := s.CountEntries()
	require.NoError(t, err)
	assert.Zero(t, n)
	_, ok, err := s.GetEntry("77")
	require.NoError(t, err)
	assert.False(t, ok)

	partners, err := s.ListPartners()
	require.NoError(t, err)
	assert.Empty(t, partners, "no ghost partners from a wrong-shape snapshot")
	p, err := s.CountPartners()
	require.NoError(t, err)
	assert.Zero(t, p)
}

func TestNormalizePartner(t *testing.T) {
	assert.Equal(t, "@name", NormalizePartner("name"))
	assert.Equal(t, "@name", NormalizePartner("@name"))
	assert.Equal(t, "@name", NormalizePartner("  name  "))
	assert.Equal(t, "", NormalizePartner("   "))
}

func TestSplitEpisodes(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitEpisodes("a, b ,,c"))
	assert.Empty(t, SplitEpisodes(" , ,"))
	assert.Equal(t, []string{"solo"}, SplitEpisodes("solo"))
}
