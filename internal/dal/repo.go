package dal

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

type (
	FlashcardsFilter struct {
		Search string
	}

	UsersRepository interface {
		UpsertUser(ctx context.Context, user User) error
		DeleteUser(ctx context.Context, clerkID string) error
		FindUser(ctx context.Context, clerkID string) (*User, error)
		UpdateReadingProgress(ctx context.Context, clerkID, book string, chapter int) error
	}

	FlashcardsRepository interface {
		FindFlashcards(ctx context.Context, userID string, filter FlashcardsFilter) ([]Flashcard, error)
		AddFlashcard(ctx context.Context, userID, tonganPhrase, englishPhrase string) (*Flashcard, error)
		UpdateFlashcard(ctx context.Context, userID, id, tonganPhrase, englishPhrase string) error
		SetFlashcardStatus(ctx context.Context, userID, id string, status FlashcardStatus, reviewedAt time.Time) error
		DeleteFlashcards(ctx context.Context, userID string, ids []string) error
		GetStatusCounts(ctx context.Context, userID string) (*StatusCounts, error)
		GetReviewActivity(ctx context.Context, userID string, from, to time.Time) ([]ReviewActivity, error)
	}

	Repository interface {
		Transact(ctx context.Context, txFunc func(r Repository) error) error
		UsersRepository
		FlashcardsRepository
	}
)
