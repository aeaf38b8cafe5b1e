package api

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TonganTuring/learning-tongan-app/internal/dictionary"
)

type noopTranslator struct{}

func (noopTranslator) Translate(context.Context, string) (dictionary.Entry, error) {
	return dictionary.Entry{}, dictionary.ErrNotFound
}

func newTestDictionaryHandler(t *testing.T) *DictionaryHandler {
	t.Helper()

	tsv := "id\tword\tc2\tc3\tc4\tc5\tc6\tmeaning\n" +
		"1\tfale\tx\tx\tx\tx\tx\thouse\n"
	index, err := dictionary.BuildIndex(strings.NewReader(tsv))
	require.NoError(t, err)

	log := slog.New(slog.DiscardHandler)
	return NewDictionaryHandler(dictionary.NewService(index, noopTranslator{}, log), log)
}

func TestDictionaryLookup(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantCode int
		wantBody string
	}{
		{name: "found", query: "word=fale", wantCode: http.StatusOK, wantBody: `"english":"house"`},
		{name: "missing word param", query: "", wantCode: http.StatusBadRequest, wantBody: `"error":"Word parameter is required"`},
		{name: "unknown word", query: "word=zzz", wantCode: http.StatusNotFound, wantBody: `"error":"Word not found"`},
	}

	h := newTestDictionaryHandler(t)
	e := echo.New()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/dictionary?"+tt.query, nil)
			rec := httptest.NewRecorder()

			err := h.Lookup(e.NewContext(req, rec))
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}
