package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/TonganTuring/learning-tongan-app/internal/dal"
)

func (r *Repository) UpsertUser(ctx context.Context, user dal.User) error {
	if _, err := r.exec(ctx, dal.UpsertUserQuery(user)); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func (r *Repository) DeleteUser(ctx context.Context, clerkID string) error {
	if _, err := r.exec(ctx, dal.DeleteUserQuery(clerkID)); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (r *Repository) FindUser(ctx context.Context, clerkID string) (*dal.User, error) {
	row, err := r.queryRow(ctx, dal.FindUserQuery(clerkID))
	if err != nil {
		return nil, err
	}

	var user dal.User
	err = row.Scan(
		&user.ClerkID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.AvatarURL,
		&user.CurrentBook,
		&user.CurrentChapter,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, dal.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (r *Repository) UpdateReadingProgress(ctx context.Context, clerkID, book string, chapter int) error {
	tag, err := r.exec(ctx, dal.UpdateReadingProgressQuery(clerkID, book, chapter))
	if err != nil {
		return fmt.Errorf("update reading progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return dal.ErrNotFound
	}
	return nil
}
