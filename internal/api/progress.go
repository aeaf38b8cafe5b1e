package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/TonganTuring/learning-tongan-app/internal/bible"
	appctx "github.com/TonganTuring/learning-tongan-app/internal/context"
	"github.com/TonganTuring/learning-tongan-app/internal/dal"
)

var unknownBookResponse = ErrorResponse{"Unknown book"} //nolint:gochecknoglobals // constant response

// defaultLocation is where a reader with no saved progress starts.
var defaultLocation = bible.Location{Book: "GEN", Chapter: 1} //nolint:gochecknoglobals // constant

type (
	progressResponse struct {
		Book    string `json:"book"`
		Chapter int    `json:"chapter"`
	}

	updateProgressRequest struct {
		Book    string `json:"book" validate:"required"`
		Chapter int    `json:"chapter" validate:"required,min=1"`
	}

	ProgressHandler struct {
		repo    dal.UsersRepository
		library *bible.Library
		log     *slog.Logger
	}
)

func NewProgressHandler(repo dal.UsersRepository, library *bible.Library, log *slog.Logger) *ProgressHandler {
	return &ProgressHandler{repo: repo, library: library, log: log}
}

func (h *ProgressHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	userID := appctx.MustUserIDFromContext(ctx)

	user, err := h.repo.FindUser(ctx, userID)
	if err != nil {
		if errors.Is(err, dal.ErrNotFound) {
			return c.JSON(http.StatusOK, progressResponse{Book: defaultLocation.Book, Chapter: defaultLocation.Chapter})
		}
		h.log.ErrorContext(ctx, "failed to find user", "error", err)
		return c.JSON(http.StatusInternalServerError, InternalServerError)
	}

	res := progressResponse{Book: defaultLocation.Book, Chapter: defaultLocation.Chapter}
	if user.CurrentBook != nil && user.CurrentChapter != nil {
		res.Book = *user.CurrentBook
		res.Chapter = *user.CurrentChapter
	}
	return c.JSON(http.StatusOK, res)
}

func (h *ProgressHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	userID := appctx.MustUserIDFromContext(ctx)

	var req updateProgressRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	req.Book = strings.ToUpper(req.Book)
	if !h.library.HasBook(req.Book) {
		return c.JSON(http.StatusBadRequest, unknownBookResponse)
	}

	if err := h.repo.UpdateReadingProgress(ctx, userID, req.Book, req.Chapter); err != nil {
		if errors.Is(err, dal.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{"User not found"})
		}
		h.log.ErrorContext(ctx, "failed to update reading progress", "error", err)
		return c.JSON(http.StatusInternalServerError, InternalServerError)
	}

	return c.NoContent(http.StatusNoContent)
}
