package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/TonganTuring/learning-tongan-app/internal/bible"
)

var chapterNotFoundResponse = ErrorResponse{"Chapter not found"} //nolint:gochecknoglobals // constant response

type BibleHandler struct {
	library *bible.Library
	log     *slog.Logger
}

func NewBibleHandler(library *bible.Library, log *slog.Logger) *BibleHandler {
	return &BibleHandler{library: library, log: log}
}

func (h *BibleHandler) GetChapter(c echo.Context) error {
	book := c.Param("book")
	chapter, err := strconv.Atoi(c.Param("chapter"))
	if err != nil || chapter < 1 {
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}

	view, err := h.library.AlignChapter(book, chapter)
	if err != nil {
		if errors.Is(err, bible.ErrChapterNotFound) {
			return c.JSON(http.StatusNotFound, chapterNotFoundResponse)
		}
		h.log.ErrorContext(c.Request().Context(), "failed to align chapter", "book", book, "chapter", chapter, "error", err)
		return c.JSON(http.StatusInternalServerError, InternalServerError)
	}

	return c.JSON(http.StatusOK, view)
}

func (h *BibleHandler) ListBooks(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"books": h.library.Books()})
}
