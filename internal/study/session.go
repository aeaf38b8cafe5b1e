package study

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/TonganTuring/learning-tongan-app/internal/dal"
)

// ErrUnknownKey reports a key outside the control surface. Persistence
// failures from rating keys are returned as-is and are not this error.
var ErrUnknownKey = errors.New("unknown key")

type (
	SortBy string

	// Phase is the explicit card-presentation state: the prompt side is
	// shown first and the answer only after a reveal.
	Phase string

	Settings struct {
		SortBy       SortBy                `json:"sort_by"`
		StatusFilter []dal.FlashcardStatus `json:"status_filter"`
		SwapQA       bool                  `json:"swap_qa"`
	}

	// Session tracks one user's traversal of their flashcards. It owns the
	// card snapshot, the filter/sort configuration, the position and the
	// reveal phase. All methods are safe for concurrent use.
	Session struct {
		mu       sync.Mutex
		cards    []dal.Flashcard
		settings Settings
		index    int
		phase    Phase
		shuffle  []int
		rnd      *rand.Rand
	}

	CardView struct {
		ID     string               `json:"id"`
		Prompt string               `json:"prompt"`
		Answer string               `json:"answer,omitempty"`
		Status dal.FlashcardStatus  `json:"status"`
	}

	View struct {
		OrderedIDs []string  `json:"ordered_ids"`
		Index      int       `json:"index"`
		Total      int       `json:"total"`
		Phase      Phase     `json:"phase"`
		Settings   Settings  `json:"settings"`
		Current    *CardView `json:"current,omitempty"`
	}

	// PersistRating stores a rating for the card; the session only advances
	// after it returns nil.
	PersistRating func(ctx context.Context, cardID string, status dal.FlashcardStatus, reviewedAt time.Time) error

	Option func(*Session)
)

const (
	SortNewest SortBy = "newest"
	SortOldest SortBy = "oldest"
	SortRandom SortBy = "random"

	PhasePrompt   Phase = "prompt"
	PhaseRevealed Phase = "revealed"

	KeyLeft   = "left"
	KeyRight  = "right"
	KeySpace  = "space"
	KeyRate1  = "1"
	KeyRate2  = "2"
	KeyRate3  = "3"
)

// AllStatuses is the full status filter; an emptied filter resets to it.
var AllStatuses = []dal.FlashcardStatus{
	dal.StatusGood, dal.StatusOk, dal.StatusBad, dal.StatusNone,
}

func DefaultSettings() Settings {
	return Settings{
		SortBy:       SortNewest,
		StatusFilter: slices.Clone(AllStatuses),
	}
}

// WithRand overrides the shuffle source; used by tests for determinism.
func WithRand(rnd *rand.Rand) Option {
	return func(s *Session) { s.rnd = rnd }
}

func NewSession(cards []dal.Flashcard, opts ...Option) *Session {
	s := &Session{
		cards:    slices.Clone(cards),
		settings: DefaultSettings(),
		phase:    PhasePrompt,
		rnd:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReplaceCards swaps in a fresh card snapshot, e.g. after CRUD changes.
func (s *Session) ReplaceCards(cards []dal.Flashcard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards = slices.Clone(cards)
}

// ApplySettings updates the configuration. An empty status filter resets to
// the full set rather than filtering everything out.
func (s *Session) ApplySettings(settings Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(settings.StatusFilter) == 0 {
		settings.StatusFilter = slices.Clone(AllStatuses)
	}
	if settings.SortBy == "" {
		settings.SortBy = s.settings.SortBy
	}
	s.settings = settings
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

func (s *Session) Next() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance(1)
	return s.view()
}

func (s *Session) Previous() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance(-1)
	return s.view()
}

// Reveal toggles answer visibility.
func (s *Session) Reveal() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhasePrompt {
		s.phase = PhaseRevealed
	} else {
		s.phase = PhasePrompt
	}
	return s.view()
}

// Rate persists the rating for the current card and, only on success,
// applies it in memory and advances to the next card.
func (s *Session) Rate(ctx context.Context, status dal.FlashcardStatus, persist PersistRating) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ordered := s.ordered()
	if len(ordered) == 0 {
		return s.view(), fmt.Errorf("no card to rate")
	}
	s.clamp(len(ordered))
	current := ordered[s.index]

	reviewedAt := time.Now()
	if err := persist(ctx, current.ID, status, reviewedAt); err != nil {
		return s.view(), fmt.Errorf("persist rating: %w", err)
	}

	for i := range s.cards {
		if s.cards[i].ID == current.ID {
			s.cards[i].Status = status
			s.cards[i].LastReviewedAt = &reviewedAt
			break
		}
	}

	s.advance(1)
	return s.view(), nil
}

// HandleKey maps the keyboard control surface onto session operations.
func (s *Session) HandleKey(ctx context.Context, key string, persist PersistRating) (View, error) {
	switch key {
	case KeyLeft:
		return s.Previous(), nil
	case KeyRight:
		return s.Next(), nil
	case KeySpace:
		return s.Reveal(), nil
	case KeyRate1:
		return s.Rate(ctx, dal.StatusBad, persist)
	case KeyRate2:
		return s.Rate(ctx, dal.StatusOk, persist)
	case KeyRate3:
		return s.Rate(ctx, dal.StatusGood, persist)
	default:
		return View{}, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
}

func (s *Session) advance(delta int) {
	length := len(s.ordered())
	if length == 0 {
		s.index = 0
		s.phase = PhasePrompt
		return
	}
	s.clamp(length)
	s.index = (s.index + delta + length) % length
	s.phase = PhasePrompt
}

func (s *Session) clamp(length int) {
	if length == 0 {
		s.index = 0
		return
	}
	if s.index >= length {
		s.index = length - 1
	}
	if s.index < 0 {
		s.index = 0
	}
}

func (s *Session) view() View {
	ordered := s.ordered()
	s.clamp(len(ordered))

	ids := make([]string, len(ordered))
	for i, card := range ordered {
		ids[i] = card.ID
	}

	view := View{
		OrderedIDs: ids,
		Index:      s.index,
		Total:      len(ordered),
		Phase:      s.phase,
		Settings:   s.settings,
	}
	if len(ordered) == 0 {
		return view
	}

	current := ordered[s.index]
	cardView := &CardView{
		ID:     current.ID,
		Status: current.Status,
	}
	prompt, answer := current.TonganPhrase, current.EnglishPhrase
	if s.settings.SwapQA {
		prompt, answer = answer, prompt
	}
	cardView.Prompt = prompt
	if s.phase == PhaseRevealed {
		cardView.Answer = answer
	}
	view.Current = cardView

	return view
}

// ordered returns the filtered cards in the configured order. The random
// permutation is cached and only regenerated when the filtered length
// changes, so re-rendering with an unchanged configuration is stable.
func (s *Session) ordered() []dal.Flashcard {
	filtered := make([]dal.Flashcard, 0, len(s.cards))
	for _, card := range s.cards {
		if slices.Contains(s.settings.StatusFilter, card.Status) {
			filtered = append(filtered, card)
		}
	}

	switch s.settings.SortBy {
	case SortOldest:
		slices.SortStableFunc(filtered, func(a, b dal.Flashcard) int {
			return compareCreated(a, b, false)
		})
	case SortRandom:
		if len(s.shuffle) != len(filtered) {
			s.shuffle = fisherYates(s.rnd, len(filtered))
		}
		permuted := make([]dal.Flashcard, len(filtered))
		for i, j := range s.shuffle {
			permuted[i] = filtered[j]
		}
		filtered = permuted
	default: // SortNewest
		slices.SortStableFunc(filtered, func(a, b dal.Flashcard) int {
			return compareCreated(a, b, true)
		})
	}

	return filtered
}

// compareCreated orders by creation time; cards with a zero timestamp sort
// before all others under newest and after all others under oldest.
func compareCreated(a, b dal.Flashcard, newestFirst bool) int {
	switch {
	case a.CreatedAt.IsZero() && b.CreatedAt.IsZero():
		return 0
	case a.CreatedAt.IsZero():
		if newestFirst {
			return -1
		}
		return 1
	case b.CreatedAt.IsZero():
		if newestFirst {
			return 1
		}
		return -1
	}

	cmp := a.CreatedAt.Compare(b.CreatedAt)
	if newestFirst {
		return -cmp
	}
	return cmp
}

func fisherYates(rnd *rand.Rand, n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := rnd.IntN(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	return order
}
