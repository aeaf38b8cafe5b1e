package dal

import "time"

type FlashcardStatus string

const (
	StatusNone FlashcardStatus = "none"
	StatusBad  FlashcardStatus = "bad"
	StatusOk   FlashcardStatus = "ok"
	StatusGood FlashcardStatus = "good"
)

// ValidStatus reports whether s is one of the four known statuses.
func ValidStatus(s FlashcardStatus) bool {
	switch s {
	case StatusNone, StatusBad, StatusOk, StatusGood:
		return true
	}
	return false
}

type User struct {
	ClerkID        string
	Email          string
	FirstName      string
	LastName       string
	AvatarURL      string
	CurrentBook    *string
	CurrentChapter *int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Flashcard struct {
	ID             string
	ClerkUserID    string
	TonganPhrase   string
	EnglishPhrase  string
	Status         FlashcardStatus
	LastReviewedAt *time.Time
	CreatedAt      time.Time
}

type StatusCounts struct {
	Good  int
	Ok    int
	Bad   int
	None  int
	Total int
}

// ReviewActivity is the number of cards a user reviewed on a given day.
type ReviewActivity struct {
	Date     time.Time
	Reviewed int
}
