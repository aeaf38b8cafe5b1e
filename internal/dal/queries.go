package dal

import (
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
)

const flashcardColumns = "id, clerk_user_id, tongan_phrase, english_phrase, status, last_reviewed_at, created_at"

// UpsertUserQuery builds an insert-or-update for a user row keyed by the
// external identity id.
func UpsertUserQuery(user User) squirrel.Sqlizer {
	return squirrel.Insert("users").
		Columns("clerk_id", "email", "first_name", "last_name", "avatar_url", "updated_at").
		Values(user.ClerkID, user.Email, user.FirstName, user.LastName, user.AvatarURL, squirrel.Expr("now()")).
		Suffix(`ON CONFLICT (clerk_id) DO UPDATE SET
			email = EXCLUDED.email,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			avatar_url = EXCLUDED.avatar_url,
			updated_at = now()`).
		PlaceholderFormat(squirrel.Dollar)
}

func DeleteUserQuery(clerkID string) squirrel.Sqlizer {
	return squirrel.Delete("users").
		Where(squirrel.Eq{"clerk_id": clerkID}).
		PlaceholderFormat(squirrel.Dollar)
}

func FindUserQuery(clerkID string) squirrel.Sqlizer {
	return squirrel.Select(
		"clerk_id", "COALESCE(email, '')", "COALESCE(first_name, '')",
		"COALESCE(last_name, '')", "COALESCE(avatar_url, '')",
		"current_book", "current_chapter", "created_at", "updated_at",
	).
		From("users").
		Where(squirrel.Eq{"clerk_id": clerkID}).
		PlaceholderFormat(squirrel.Dollar)
}

func UpdateReadingProgressQuery(clerkID, book string, chapter int) squirrel.Sqlizer {
	return squirrel.Update("users").
		Set("current_book", book).
		Set("current_chapter", chapter).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"clerk_id": clerkID}).
		PlaceholderFormat(squirrel.Dollar)
}

// FindFlashcardsQuery builds a query for a user's flashcards, newest first.
func FindFlashcardsQuery(userID string, filter FlashcardsFilter) squirrel.Sqlizer {
	query := squirrel.Select(strings.Split(flashcardColumns, ", ")...).
		From("flashcards").
		Where(squirrel.Eq{"clerk_user_id": userID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if filter.Search != "" {
		pattern := fmt.Sprintf("%%%s%%", strings.ToLower(filter.Search))
		query = query.Where(
			squirrel.Or{
				squirrel.Expr("LOWER(tongan_phrase) LIKE ?", pattern),
				squirrel.Expr("LOWER(english_phrase) LIKE ?", pattern),
			},
		)
	}

	return query
}

func InsertFlashcardQuery(id, userID, tonganPhrase, englishPhrase string) squirrel.Sqlizer {
	return squirrel.Insert("flashcards").
		Columns("id", "clerk_user_id", "tongan_phrase", "english_phrase", "status").
		Values(id, userID, tonganPhrase, englishPhrase, StatusNone).
		Suffix("RETURNING " + flashcardColumns).
		PlaceholderFormat(squirrel.Dollar)
}

func UpdateFlashcardQuery(userID, id, tonganPhrase, englishPhrase string) squirrel.Sqlizer {
	return squirrel.Update("flashcards").
		Set("tongan_phrase", tonganPhrase).
		Set("english_phrase", englishPhrase).
		Where(squirrel.Eq{"clerk_user_id": userID, "id": id}).
		PlaceholderFormat(squirrel.Dollar)
}

func SetFlashcardStatusQuery(userID, id string, status FlashcardStatus, reviewedAt time.Time) squirrel.Sqlizer {
	return squirrel.Update("flashcards").
		Set("status", status).
		Set("last_reviewed_at", reviewedAt).
		Where(squirrel.Eq{"clerk_user_id": userID, "id": id}).
		PlaceholderFormat(squirrel.Dollar)
}

func DeleteFlashcardsQuery(userID string, ids []string) squirrel.Sqlizer {
	return squirrel.Delete("flashcards").
		Where(squirrel.Eq{"clerk_user_id": userID}).
		Where(squirrel.Eq{"id": ids}).
		PlaceholderFormat(squirrel.Dollar)
}

func StatusCountsQuery(userID string) squirrel.Sqlizer {
	return squirrel.Select(
		"COALESCE(SUM(CASE WHEN status = 'good' THEN 1 ELSE 0 END), 0) AS good",
		"COALESCE(SUM(CASE WHEN status = 'ok' THEN 1 ELSE 0 END), 0) AS ok",
		"COALESCE(SUM(CASE WHEN status = 'bad' THEN 1 ELSE 0 END), 0) AS bad",
		"COALESCE(SUM(CASE WHEN status = 'none' THEN 1 ELSE 0 END), 0) AS none",
		"COUNT(*) AS total",
	).
		From("flashcards").
		Where(squirrel.Eq{"clerk_user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)
}

func ReviewActivityQuery(userID string, from, to time.Time) squirrel.Sqlizer {
	return squirrel.Select(
		"DATE(last_reviewed_at) AS day",
		"COUNT(*) AS reviewed",
	).
		From("flashcards").
		Where(squirrel.Eq{"clerk_user_id": userID}).
		Where("last_reviewed_at BETWEEN ? AND ?", from, to).
		GroupBy("DATE(last_reviewed_at)").
		OrderBy("day").
		PlaceholderFormat(squirrel.Dollar)
}
