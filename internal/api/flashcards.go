package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	appctx "github.com/TonganTuring/learning-tongan-app/internal/context"
	"github.com/TonganTuring/learning-tongan-app/internal/dal"
	"github.com/TonganTuring/learning-tongan-app/internal/study"
)

var flashcardNotFoundResponse = ErrorResponse{"Flashcard not found"} //nolint:gochecknoglobals // constant response

const reviewActivityWindow = 30 * 24 * time.Hour

type (
	flashcardRequest struct {
		TonganPhrase  string `json:"tongan_phrase" validate:"required,max=500"`
		EnglishPhrase string `json:"english_phrase" validate:"required,max=500"`
	}

	deleteFlashcardsRequest struct {
		IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
	}

	flashcardResponse struct {
		ID             string              `json:"id"`
		TonganPhrase   string              `json:"tongan_phrase"`
		EnglishPhrase  string              `json:"english_phrase"`
		Status         dal.FlashcardStatus `json:"status"`
		LastReviewedAt *time.Time          `json:"last_reviewed_at,omitempty"`
		CreatedAt      time.Time           `json:"created_at"`
	}

	reviewActivityResponse struct {
		Date     string `json:"date"`
		Reviewed int    `json:"reviewed"`
	}

	statsResponse struct {
		Good     int                      `json:"good"`
		Ok       int                      `json:"ok"`
		Bad      int                      `json:"bad"`
		None     int                      `json:"none"`
		Total    int                      `json:"total"`
		Activity []reviewActivityResponse `json:"activity"`
	}

	FlashcardsHandler struct {
		repo     dal.Repository
		sessions *study.Store
		log      *slog.Logger
	}
)

func NewFlashcardsHandler(repo dal.Repository, sessions *study.Store, log *slog.Logger) *FlashcardsHandler {
	return &FlashcardsHandler{repo: repo, sessions: sessions, log: log}
}

func (h *FlashcardsHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	userID := appctx.MustUserIDFromContext(ctx)

	cards, err := h.repo.FindFlashcards(ctx, userID, dal.FlashcardsFilter{
		Search: c.QueryParam("search"),
	})
	if err != nil {
		h.log.ErrorContext(ctx, "failed to find flashcards", "error", err)
		return c.JSON(http.StatusInternalServerError, InternalServerError)
	}

	res := make([]flashcardResponse, 0, len(cards))
	for _, card := range cards {
		res = append(res, toFlashcardResponse(card))
	}
	return c.JSON(http.StatusOK, echo.Map{"flashcards": res})
}

func (h *FlashcardsHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	userID := appctx.MustUserIDFromContext(ctx)

	var req flashcardRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	card, err := h.repo.AddFlashcard(ctx, userID, req.TonganPhrase, req.EnglishPhrase)
	if err != nil {
		h.log.ErrorContext(ctx, "failed to add flashcard", "error", err)
		return c.JSON(http.StatusInternalServerError, InternalServerError)
	}

	h.refreshSession(ctx, userID)
	return c.JSON(http.StatusCreated, toFlashcardResponse(*card))
}

func (h *FlashcardsHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	userID := appctx.MustUserIDFromContext(ctx)
	id := c.Param("id")

	var req flashcardRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.repo.UpdateFlashcard(ctx, userID, id, req.TonganPhrase, req.EnglishPhrase); err != nil {
		if errors.Is(err, dal.ErrNotFound) {
			return c.JSON(http.StatusNotFound, flashcardNotFoundResponse)
		}
		h.log.ErrorContext(ctx, "failed to update flashcard", "id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, InternalServerError)
	}

	h.refreshSession(ctx, userID)
	return c.NoContent(http.StatusNoContent)
}

func (h *FlashcardsHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	userID := appctx.MustUserIDFromContext(ctx)

	var req deleteFlashcardsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.repo.DeleteFlashcards(ctx, userID, req.IDs); err != nil {
		h.log.ErrorContext(ctx, "failed to delete flashcards", "error", err)
		return c.JSON(http.StatusInternalServerError, InternalServerError)
	}

	h.refreshSession(ctx, userID)
	return c.NoContent(http.StatusNoContent)
}

// refreshSession swaps a fresh card snapshot into the user's live study
// session, keeping its position and settings across edits. Falls back to
// dropping the session when the reload fails.
func (h *FlashcardsHandler) refreshSession(ctx context.Context, userID string) {
	session, ok := h.sessions.Get(userID)
	if !ok {
		return
	}

	cards, err := h.repo.FindFlashcards(ctx, userID, dal.FlashcardsFilter{})
	if err != nil {
		h.log.WarnContext(ctx, "failed to refresh study session", "error", err)
		h.sessions.Invalidate(userID)
		return
	}
	session.ReplaceCards(cards)
}

func (h *FlashcardsHandler) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	userID := appctx.MustUserIDFromContext(ctx)

	var (
		counts   *dal.StatusCounts
		activity []dal.ReviewActivity
	)
	err := h.repo.Transact(ctx, func(r dal.Repository) error {
		var err error
		if counts, err = r.GetStatusCounts(ctx, userID); err != nil {
			return err
		}
		now := time.Now()
		activity, err = r.GetReviewActivity(ctx, userID, now.Add(-reviewActivityWindow), now)
		return err
	})
	if err != nil {
		h.log.ErrorContext(ctx, "failed to load flashcard stats", "error", err)
		return c.JSON(http.StatusInternalServerError, InternalServerError)
	}

	res := statsResponse{
		Good:     counts.Good,
		Ok:       counts.Ok,
		Bad:      counts.Bad,
		None:     counts.None,
		Total:    counts.Total,
		Activity: make([]reviewActivityResponse, 0, len(activity)),
	}
	for _, day := range activity {
		res.Activity = append(res.Activity, reviewActivityResponse{
			Date:     day.Date.Format(time.DateOnly),
			Reviewed: day.Reviewed,
		})
	}
	return c.JSON(http.StatusOK, res)
}

func toFlashcardResponse(card dal.Flashcard) flashcardResponse {
	return flashcardResponse{
		ID:             card.ID,
		TonganPhrase:   card.TonganPhrase,
		EnglishPhrase:  card.EnglishPhrase,
		Status:         card.Status,
		LastReviewedAt: card.LastReviewedAt,
		CreatedAt:      card.CreatedAt,
	}
}
