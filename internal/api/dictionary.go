package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/TonganTuring/learning-tongan-app/internal/dictionary"
)

var (
	wordRequiredResponse = ErrorResponse{"Word parameter is required"} //nolint:gochecknoglobals // constant response
	wordNotFoundResponse = ErrorResponse{"Word not found"}             //nolint:gochecknoglobals // constant response
)

type DictionaryHandler struct {
	service *dictionary.Service
	log     *slog.Logger
}

func NewDictionaryHandler(service *dictionary.Service, log *slog.Logger) *DictionaryHandler {
	return &DictionaryHandler{service: service, log: log}
}

func (h *DictionaryHandler) Lookup(c echo.Context) error {
	word := c.QueryParam("word")
	if word == "" {
		return c.JSON(http.StatusBadRequest, wordRequiredResponse)
	}

	entry, err := h.service.Lookup(c.Request().Context(), word)
	if err != nil {
		if errors.Is(err, dictionary.ErrNotFound) {
			return c.JSON(http.StatusNotFound, wordNotFoundResponse)
		}
		h.log.ErrorContext(c.Request().Context(), "dictionary lookup failed", "word", word, "error", err)
		return c.JSON(http.StatusInternalServerError, InternalServerError)
	}

	return c.JSON(http.StatusOK, entry)
}
