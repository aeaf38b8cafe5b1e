package bible

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLibrary() *Library {
	return &Library{
		Reference: Corpus{
			"GEN": {
				Name: "Genesis",
				Chapters: map[string]Chapter{
					"1": {
						{Number: "1", Text: "one"},
						{Number: "2", Text: "two"},
						{Number: "3", Text: "three"},
						{Number: "4", Text: "four"},
						{Number: "5", Text: "five"},
					},
					"2": {{Number: "1", Text: "ch2"}},
				},
			},
			"EXO": {
				Name: "Exodus",
				Chapters: map[string]Chapter{
					"1": {{Number: "1", Text: "ex one"}},
				},
			},
		},
		Target: Corpus{
			"GEN": {
				Name: "Senesi",
				Chapters: map[string]Chapter{
					"1": {
						{Number: "1", Text: "taha"},
						{Number: "2-4", Text: "ua tolu fa"},
						{Number: "5", Text: "nima"},
					},
					"2": {{Number: "1", Text: "vahe ua"}},
				},
			},
			"EXO": {
				Name: "ʻEkisoto",
				Chapters: map[string]Chapter{
					"1": {{Number: "1", Text: "taha"}},
				},
			},
		},
	}
}

func TestAlignChapterRangeSuppression(t *testing.T) {
	view, err := testLibrary().AlignChapter("gen", 1)
	require.NoError(t, err)

	require.Len(t, view.Rows, 3)

	assert.Equal(t, []ReferenceVerse{{Number: "1", Text: "one"}}, view.Rows[0].Reference)
	assert.Equal(t, "1", view.Rows[0].Target.Number)

	assert.Equal(t, []ReferenceVerse{
		{Number: "2", Text: "two"},
		{Number: "3", Text: "three"},
		{Number: "4", Text: "four"},
	}, view.Rows[1].Reference)
	assert.Equal(t, "2-4", view.Rows[1].Target.Number)
	assert.Equal(t, "ua tolu fa", view.Rows[1].Target.Text)

	assert.Equal(t, []ReferenceVerse{{Number: "5", Text: "five"}}, view.Rows[2].Reference)
	assert.Equal(t, "5", view.Rows[2].Target.Number)
}

func TestAlignChapterNotFound(t *testing.T) {
	lib := testLibrary()

	_, err := lib.AlignChapter("GEN", 3)
	assert.ErrorIs(t, err, ErrChapterNotFound)

	_, err = lib.AlignChapter("REV", 1)
	assert.ErrorIs(t, err, ErrChapterNotFound)

	// Present in reference but absent in target.
	lib.Target["GEN"].Chapters["3"] = nil
	lib.Reference["GEN"].Chapters["3"] = Chapter{{Number: "1", Text: "x"}}
	_, err = lib.AlignChapter("GEN", 3)
	assert.ErrorIs(t, err, ErrChapterNotFound)
}

func TestAlignChapterOverlappingRanges(t *testing.T) {
	lib := testLibrary()
	// Two ranges both covering verse 3: the one with the lower start wins.
	lib.Target["GEN"].Chapters["1"] = Chapter{
		{Number: "1", Text: "taha"},
		{Number: "3-5", Text: "late"},
		{Number: "2-4", Text: "early"},
	}

	view, err := lib.AlignChapter("GEN", 1)
	require.NoError(t, err)

	// Verse 5 sits inside the losing 3-5 range past its start, so its row
	// is suppressed along with verses 3 and 4.
	require.Len(t, view.Rows, 2)
	assert.Equal(t, "2-4", view.Rows[1].Target.Number)
}

func TestAlignChapterNavigation(t *testing.T) {
	lib := testLibrary()

	view, err := lib.AlignChapter("GEN", 1)
	require.NoError(t, err)
	assert.Nil(t, view.Previous)
	require.NotNil(t, view.Next)
	assert.Equal(t, Location{Book: "GEN", Chapter: 2}, *view.Next)

	view, err = lib.AlignChapter("GEN", 2)
	require.NoError(t, err)
	require.NotNil(t, view.Previous)
	assert.Equal(t, Location{Book: "GEN", Chapter: 1}, *view.Previous)
	require.NotNil(t, view.Next)
	assert.Equal(t, Location{Book: "EXO", Chapter: 1}, *view.Next)

	view, err = lib.AlignChapter("EXO", 1)
	require.NoError(t, err)
	require.NotNil(t, view.Previous)
	assert.Equal(t, Location{Book: "GEN", Chapter: 2}, *view.Previous)
	assert.Nil(t, view.Next)
}

func TestTokenize(t *testing.T) {
	tokens := Tokenize("Naʻe folofola ʻa e ʻOtua, “Ke maama!”")

	lookups := make([]string, len(tokens))
	for i, tok := range tokens {
		lookups[i] = tok.Lookup
	}

	assert.Equal(t, []string{"Naʻe", "folofola", "ʻa", "e", "ʻOtua", "Ke", "maama"}, lookups)
}

func TestCleanWord(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"he'ene,", "he'ene"},
		{"ʻOtua.", "ʻOtua"},
		{"“fie”", "fie"},
		{"lea!?", "lea"},
		{"mo:", "mo"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanWord(tt.in))
	}
}
