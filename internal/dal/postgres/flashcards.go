package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/TonganTuring/learning-tongan-app/internal/dal"
)

func (r *Repository) FindFlashcards(ctx context.Context, userID string, filter dal.FlashcardsFilter) ([]dal.Flashcard, error) {
	rows, err := r.query(ctx, dal.FindFlashcardsQuery(userID, filter))
	if err != nil {
		return nil, fmt.Errorf("find flashcards: %w", err)
	}
	defer rows.Close()

	var cards []dal.Flashcard
	for rows.Next() {
		card, err := scanFlashcard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan flashcard: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate flashcards: %w", err)
	}
	return cards, nil
}

func (r *Repository) AddFlashcard(ctx context.Context, userID, tonganPhrase, englishPhrase string) (*dal.Flashcard, error) {
	row, err := r.queryRow(ctx, dal.InsertFlashcardQuery(uuid.NewString(), userID, tonganPhrase, englishPhrase))
	if err != nil {
		return nil, err
	}

	card, err := scanFlashcard(row)
	if err != nil {
		return nil, fmt.Errorf("add flashcard: %w", err)
	}
	return &card, nil
}

func (r *Repository) UpdateFlashcard(ctx context.Context, userID, id, tonganPhrase, englishPhrase string) error {
	tag, err := r.exec(ctx, dal.UpdateFlashcardQuery(userID, id, tonganPhrase, englishPhrase))
	if err != nil {
		return fmt.Errorf("update flashcard: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return dal.ErrNotFound
	}
	return nil
}

func (r *Repository) SetFlashcardStatus(ctx context.Context, userID, id string, status dal.FlashcardStatus, reviewedAt time.Time) error {
	tag, err := r.exec(ctx, dal.SetFlashcardStatusQuery(userID, id, status, reviewedAt))
	if err != nil {
		return fmt.Errorf("set flashcard status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return dal.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteFlashcards(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := r.exec(ctx, dal.DeleteFlashcardsQuery(userID, ids)); err != nil {
		return fmt.Errorf("delete flashcards: %w", err)
	}
	return nil
}

func (r *Repository) GetStatusCounts(ctx context.Context, userID string) (*dal.StatusCounts, error) {
	row, err := r.queryRow(ctx, dal.StatusCountsQuery(userID))
	if err != nil {
		return nil, err
	}

	var counts dal.StatusCounts
	err = row.Scan(&counts.Good, &counts.Ok, &counts.Bad, &counts.None, &counts.Total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &dal.StatusCounts{}, nil
		}
		return nil, fmt.Errorf("get status counts: %w", err)
	}
	return &counts, nil
}

func (r *Repository) GetReviewActivity(ctx context.Context, userID string, from, to time.Time) ([]dal.ReviewActivity, error) {
	rows, err := r.query(ctx, dal.ReviewActivityQuery(userID, from, to))
	if err != nil {
		return nil, fmt.Errorf("get review activity: %w", err)
	}
	defer rows.Close()

	var activity []dal.ReviewActivity
	for rows.Next() {
		var item dal.ReviewActivity
		if err := rows.Scan(&item.Date, &item.Reviewed); err != nil {
			return nil, fmt.Errorf("scan review activity: %w", err)
		}
		activity = append(activity, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review activity: %w", err)
	}
	return activity, nil
}

func scanFlashcard(row pgx.Row) (dal.Flashcard, error) {
	var card dal.Flashcard
	err := row.Scan(
		&card.ID,
		&card.ClerkUserID,
		&card.TonganPhrase,
		&card.EnglishPhrase,
		&card.Status,
		&card.LastReviewedAt,
		&card.CreatedAt,
	)
	return card, err
}
