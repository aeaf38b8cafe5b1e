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

var invalidStatusResponse = ErrorResponse{"Invalid status"} //nolint:gochecknoglobals // constant response

type (
	updateSettingsRequest struct {
		SortBy       study.SortBy          `json:"sort_by"`
		StatusFilter []dal.FlashcardStatus `json:"status_filter"`
		SwapQA       bool                  `json:"swap_qa"`
	}

	rateRequest struct {
		Status dal.FlashcardStatus `json:"status" validate:"required"`
	}

	keyRequest struct {
		Key string `json:"key" validate:"required"`
	}

	StudyHandler struct {
		repo     dal.Repository
		sessions *study.Store
		log      *slog.Logger
	}
)

func NewStudyHandler(repo dal.Repository, sessions *study.Store, log *slog.Logger) *StudyHandler {
	return &StudyHandler{repo: repo, sessions: sessions, log: log}
}

func (h *StudyHandler) GetSession(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return h.internalError(c, err)
	}
	return c.JSON(http.StatusOK, session.View())
}

func (h *StudyHandler) UpdateSettings(c echo.Context) error {
	var req updateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}
	for _, status := range req.StatusFilter {
		if !dal.ValidStatus(status) {
			return c.JSON(http.StatusBadRequest, invalidStatusResponse)
		}
	}

	session, err := h.session(c)
	if err != nil {
		return h.internalError(c, err)
	}

	session.ApplySettings(study.Settings{
		SortBy:       req.SortBy,
		StatusFilter: req.StatusFilter,
		SwapQA:       req.SwapQA,
	})
	return c.JSON(http.StatusOK, session.View())
}

func (h *StudyHandler) Next(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return h.internalError(c, err)
	}
	return c.JSON(http.StatusOK, session.Next())
}

func (h *StudyHandler) Previous(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return h.internalError(c, err)
	}
	return c.JSON(http.StatusOK, session.Previous())
}

func (h *StudyHandler) Reveal(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return h.internalError(c, err)
	}
	return c.JSON(http.StatusOK, session.Reveal())
}

func (h *StudyHandler) Rate(c echo.Context) error {
	var req rateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if !dal.ValidStatus(req.Status) || req.Status == dal.StatusNone {
		return c.JSON(http.StatusBadRequest, invalidStatusResponse)
	}

	session, err := h.session(c)
	if err != nil {
		return h.internalError(c, err)
	}

	userID := appctx.MustUserIDFromContext(c.Request().Context())
	view, err := session.Rate(c.Request().Context(), req.Status, h.persistRating(userID))
	if err != nil {
		h.log.ErrorContext(c.Request().Context(), "failed to rate card", "error", err)
		return c.JSON(http.StatusInternalServerError, InternalServerError)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *StudyHandler) Key(c echo.Context) error {
	var req keyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	session, err := h.session(c)
	if err != nil {
		return h.internalError(c, err)
	}

	userID := appctx.MustUserIDFromContext(c.Request().Context())
	view, err := session.HandleKey(c.Request().Context(), req.Key, h.persistRating(userID))
	if err != nil {
		if errors.Is(err, study.ErrUnknownKey) {
			return c.JSON(http.StatusBadRequest, BadRequestError)
		}
		h.log.ErrorContext(c.Request().Context(), "failed to handle study key", "key", req.Key, "error", err)
		return c.JSON(http.StatusInternalServerError, InternalServerError)
	}
	return c.JSON(http.StatusOK, view)
}

// session returns the user's live session, lazily creating one from a fresh
// card snapshot when none exists.
func (h *StudyHandler) session(c echo.Context) (*study.Session, error) {
	ctx := c.Request().Context()
	userID := appctx.MustUserIDFromContext(ctx)

	if session, ok := h.sessions.Get(userID); ok {
		return session, nil
	}

	cards, err := h.repo.FindFlashcards(ctx, userID, dal.FlashcardsFilter{})
	if err != nil {
		return nil, err
	}

	session := study.NewSession(cards)
	h.sessions.Put(userID, session)
	return session, nil
}

func (h *StudyHandler) persistRating(userID string) study.PersistRating {
	return func(ctx context.Context, cardID string, status dal.FlashcardStatus, reviewedAt time.Time) error {
		return h.repo.SetFlashcardStatus(ctx, userID, cardID, status, reviewedAt)
	}
}

func (h *StudyHandler) internalError(c echo.Context, err error) error {
	h.log.ErrorContext(c.Request().Context(), "study session error", "error", err)
	return c.JSON(http.StatusInternalServerError, InternalServerError)
}
