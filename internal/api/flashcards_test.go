package api

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TonganTuring/learning-tongan-app/internal/study"
)

func TestFlashcardsCreateRefreshesLiveSession(t *testing.T) {
	repo := &stubRepo{cards: apiTestCards()}
	store := study.NewStore(context.Background(), time.Minute)
	h := NewFlashcardsHandler(repo, store, slog.New(slog.DiscardHandler))

	session := study.NewSession(repo.cards)
	session.ApplySettings(study.Settings{SortBy: study.SortOldest, SwapQA: true})
	session.Next()
	store.Put(testUserID, session)

	e := echo.New()
	e.Validator = NewValidator()

	c, rec := newAuthedContext(e, http.MethodPost, "/flashcards",
		`{"tongan_phrase":"vai","english_phrase":"water"}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	refreshed, ok := store.Get(testUserID)
	require.True(t, ok, "a live session survives the edit")
	view := refreshed.View()
	assert.Equal(t, 3, view.Total)
	assert.Equal(t, study.SortOldest, view.Settings.SortBy)
	assert.True(t, view.Settings.SwapQA)
	assert.Equal(t, 1, view.Index)
}

func TestFlashcardsCreateWithoutSession(t *testing.T) {
	repo := &stubRepo{}
	store := study.NewStore(context.Background(), time.Minute)
	h := NewFlashcardsHandler(repo, store, slog.New(slog.DiscardHandler))

	e := echo.New()
	e.Validator = NewValidator()

	c, rec := newAuthedContext(e, http.MethodPost, "/flashcards",
		`{"tongan_phrase":"vai","english_phrase":"water"}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	_, ok := store.Get(testUserID)
	assert.False(t, ok, "no session is created as a side effect")
}
