package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "github.com/TonganTuring/learning-tongan-app/internal/context"
	"github.com/TonganTuring/learning-tongan-app/internal/dal"
	"github.com/TonganTuring/learning-tongan-app/internal/study"
)

const testUserID = "user-1"

type stubRepo struct {
	cards     []dal.Flashcard
	statusErr error
}

func (s *stubRepo) Transact(_ context.Context, txFunc func(dal.Repository) error) error {
	return txFunc(s)
}

func (s *stubRepo) UpsertUser(context.Context, dal.User) error { return nil }
func (s *stubRepo) DeleteUser(context.Context, string) error   { return nil }

func (s *stubRepo) FindUser(context.Context, string) (*dal.User, error) {
	return nil, dal.ErrNotFound
}

func (s *stubRepo) UpdateReadingProgress(context.Context, string, string, int) error { return nil }

func (s *stubRepo) FindFlashcards(context.Context, string, dal.FlashcardsFilter) ([]dal.Flashcard, error) {
	return slices.Clone(s.cards), nil
}

func (s *stubRepo) AddFlashcard(_ context.Context, userID, tonganPhrase, englishPhrase string) (*dal.Flashcard, error) {
	card := dal.Flashcard{
		ID:            fmt.Sprintf("card-%d", len(s.cards)+1),
		ClerkUserID:   userID,
		TonganPhrase:  tonganPhrase,
		EnglishPhrase: englishPhrase,
		Status:        dal.StatusNone,
		CreatedAt:     time.Now(),
	}
	s.cards = append(s.cards, card)
	return &card, nil
}

func (s *stubRepo) UpdateFlashcard(context.Context, string, string, string, string) error { return nil }

func (s *stubRepo) SetFlashcardStatus(context.Context, string, string, dal.FlashcardStatus, time.Time) error {
	return s.statusErr
}

func (s *stubRepo) DeleteFlashcards(context.Context, string, []string) error { return nil }

func (s *stubRepo) GetStatusCounts(context.Context, string) (*dal.StatusCounts, error) {
	return &dal.StatusCounts{}, nil
}

func (s *stubRepo) GetReviewActivity(context.Context, string, time.Time, time.Time) ([]dal.ReviewActivity, error) {
	return nil, nil
}

func apiTestCards() []dal.Flashcard {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return []dal.Flashcard{
		{ID: "c1", ClerkUserID: testUserID, TonganPhrase: "mālō", EnglishPhrase: "thanks", Status: dal.StatusNone, CreatedAt: base},
		{ID: "c2", ClerkUserID: testUserID, TonganPhrase: "fale", EnglishPhrase: "house", Status: dal.StatusGood, CreatedAt: base.Add(time.Hour)},
	}
}

func newAuthedContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = req.WithContext(appctx.WithUserID(req.Context(), testUserID))
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestStudyKeyRatePersistFailure(t *testing.T) {
	repo := &stubRepo{cards: apiTestCards(), statusErr: fmt.Errorf("db is down")}
	store := study.NewStore(context.Background(), time.Minute)
	h := NewStudyHandler(repo, store, slog.New(slog.DiscardHandler))

	e := echo.New()
	e.Validator = NewValidator()

	c, rec := newAuthedContext(e, http.MethodPost, "/study/session/key", `{"key":"3"}`)
	require.NoError(t, h.Key(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), InternalServerError.Message)

	// the session neither rated nor advanced
	session, ok := store.Get(testUserID)
	require.True(t, ok)
	view := session.View()
	assert.Equal(t, 0, view.Index)
	require.NotNil(t, view.Current)
	assert.Equal(t, dal.StatusNone, view.Current.Status)
}

func TestStudyKeyUnknown(t *testing.T) {
	repo := &stubRepo{cards: apiTestCards()}
	store := study.NewStore(context.Background(), time.Minute)
	h := NewStudyHandler(repo, store, slog.New(slog.DiscardHandler))

	e := echo.New()
	e.Validator = NewValidator()

	c, rec := newAuthedContext(e, http.MethodPost, "/study/session/key", `{"key":"escape"}`)
	require.NoError(t, h.Key(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStudyKeyNavigation(t *testing.T) {
	repo := &stubRepo{cards: apiTestCards()}
	store := study.NewStore(context.Background(), time.Minute)
	h := NewStudyHandler(repo, store, slog.New(slog.DiscardHandler))

	e := echo.New()
	e.Validator = NewValidator()

	c, rec := newAuthedContext(e, http.MethodPost, "/study/session/key", `{"key":"right"}`)
	require.NoError(t, h.Key(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"index":1`)
}
