package api

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TonganTuring/learning-tongan-app/internal/bible"
)

func testLibrary() *bible.Library {
	return &bible.Library{
		Reference: bible.Corpus{
			"GEN": {Name: "Genesis", Chapters: map[string]bible.Chapter{
				"1": {{Number: "1", Text: "In the beginning"}},
			}},
		},
		Target: bible.Corpus{
			"GEN": {Name: "Senesi", Chapters: map[string]bible.Chapter{
				"1": {{Number: "1", Text: "ʻI he kamataʻanga"}},
			}},
		},
	}
}

func TestBibleGetChapter(t *testing.T) {
	h := NewBibleHandler(testLibrary(), slog.New(slog.DiscardHandler))
	e := echo.New()

	tests := []struct {
		name     string
		book     string
		chapter  string
		wantCode int
	}{
		{name: "found", book: "gen", chapter: "1", wantCode: http.StatusOK},
		{name: "unknown book", book: "xyz", chapter: "1", wantCode: http.StatusNotFound},
		{name: "unknown chapter", book: "GEN", chapter: "2", wantCode: http.StatusNotFound},
		{name: "bad chapter", book: "GEN", chapter: "zero", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetPath("/bible/:book/:chapter")
			c.SetParamNames("book", "chapter")
			c.SetParamValues(tt.book, tt.chapter)

			require.NoError(t, h.GetChapter(c))
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestBibleListBooks(t *testing.T) {
	h := NewBibleHandler(testLibrary(), slog.New(slog.DiscardHandler))
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/bible/books", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, h.ListBooks(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"GEN"`)
	assert.Contains(t, rec.Body.String(), `"name":"Senesi"`)
}
