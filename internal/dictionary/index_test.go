package dictionary

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTSV = "id\tword\tc2\tc3\tc4\tc5\tc6\tmeaning\n" +
	"1\the'ene or 'ene\tx\tx\tx\tx\tx\this, her, its\n" +
	"2\tʻotua\tx\tx\tx\tx\tx\tgod\n" +
	"3\tfale\tx\tx\tx\tx\tx\thouse\n" +
	"4\tmāhina\tx\tx\tx\tx\tx\tmoon, month\n" +
	"\n" +
	"5\tshort line\n"

func buildTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := BuildIndex(strings.NewReader(testTSV))
	require.NoError(t, err)
	return ix
}

func TestIndexApostropheVariants(t *testing.T) {
	ix := buildTestIndex(t)

	for _, word := range []string{"he'ene", "heʻene", "heene"} {
		entry, ok := ix.Lookup(word)
		require.True(t, ok, "lookup %q", word)
		assert.Equal(t, "he'ene or 'ene", entry.Tongan)
		assert.Equal(t, "his, her, its", entry.English)
	}
}

func TestIndexOrExplosion(t *testing.T) {
	ix := buildTestIndex(t)

	entry, ok := ix.Lookup("'ene")
	require.True(t, ok)
	assert.Equal(t, "his, her, its", entry.English)

	// Leading apostrophe stripped variant.
	entry, ok = ix.Lookup("ene")
	require.True(t, ok)
	assert.Equal(t, "his, her, its", entry.English)
}

func TestIndexGlottalStopHeadword(t *testing.T) {
	ix := buildTestIndex(t)

	for _, word := range []string{"ʻotua", "'otua", "otua", "ʻOtua"} {
		entry, ok := ix.Lookup(word)
		require.True(t, ok, "lookup %q", word)
		assert.Equal(t, "god", entry.English)
	}
}

func TestIndexToloiFolding(t *testing.T) {
	ix := buildTestIndex(t)

	for _, word := range []string{"māhina", "mahina", "Māhina"} {
		entry, ok := ix.Lookup(word)
		require.True(t, ok, "lookup %q", word)
		assert.Equal(t, "moon, month", entry.English)
	}
}

func TestIndexMissAndMalformedLines(t *testing.T) {
	ix := buildTestIndex(t)

	_, ok := ix.Lookup("missing")
	assert.False(t, ok)
	_, ok = ix.Lookup("")
	assert.False(t, ok)
	_, ok = ix.Lookup("short")
	assert.False(t, ok, "lines without a gloss column are skipped")
}

type stubTranslator struct {
	entry Entry
	err   error
	calls int
}

func (s *stubTranslator) Translate(_ context.Context, word string) (Entry, error) {
	s.calls++
	if s.err != nil {
		return Entry{}, s.err
	}
	entry := s.entry
	entry.Tongan = word
	return entry, nil
}

func TestServiceFallbackCaching(t *testing.T) {
	ix := buildTestIndex(t)
	translator := &stubTranslator{entry: Entry{English: "translated"}}
	svc := NewService(ix, translator, slog.New(slog.DiscardHandler))

	entry, err := svc.Lookup(context.Background(), "palangi")
	require.NoError(t, err)
	assert.Equal(t, "translated", entry.English)
	assert.Equal(t, 1, translator.calls)

	// Second lookup served from the fallback cache.
	_, err = svc.Lookup(context.Background(), "palangi")
	require.NoError(t, err)
	assert.Equal(t, 1, translator.calls)
}

func TestServiceNotFound(t *testing.T) {
	ix := buildTestIndex(t)
	translator := &stubTranslator{err: errors.New("boom")}
	svc := NewService(ix, translator, slog.New(slog.DiscardHandler))

	_, err := svc.Lookup(context.Background(), "palangi")
	assert.ErrorIs(t, err, ErrNotFound)

	// Index hits never reach the translator.
	_, err = svc.Lookup(context.Background(), "fale")
	require.NoError(t, err)
	assert.Equal(t, 1, translator.calls)
}
