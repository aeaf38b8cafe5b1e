package dictionary

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/TonganTuring/learning-tongan-app/pkg/cache"
)

type (
	// Translator is the fallback used when the local index has no match.
	Translator interface {
		Translate(ctx context.Context, word string) (Entry, error)
	}

	Service struct {
		index      *Index
		translator Translator
		fallbacks  *cache.InMemory[Entry]
		log        *slog.Logger
	}
)

const fallbackTTL = 24 * time.Hour

func NewService(index *Index, translator Translator, log *slog.Logger) *Service {
	return &Service{
		index:      index,
		translator: translator,
		fallbacks:  cache.NewInMemory[Entry](),
		log:        log,
	}
}

// Lookup resolves a word: local index first, then cached fallback results,
// then the translator. Returns ErrNotFound when nothing resolves.
func (s *Service) Lookup(ctx context.Context, word string) (Entry, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return Entry{}, ErrNotFound
	}

	if entry, ok := s.index.Lookup(word); ok {
		return entry, nil
	}

	if entry, ok := s.fallbacks.Get(word); ok {
		return entry, nil
	}

	entry, err := s.translator.Translate(ctx, word)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Entry{}, ErrNotFound
		}
		s.log.WarnContext(ctx, "translator fallback failed", "word", word, "error", err)
		return Entry{}, ErrNotFound
	}

	s.fallbacks.Set(word, entry, fallbackTTL)
	return entry, nil
}
