package models

import (
	"time"

	"github.com/google/uuid"
)

// CardFace is one side of a study card. For vocabulary cards the front holds
// the Japanese writing and its kana reading, the back holds the translation
// and romaji, with an optional example sentence as the note.
type CardFace struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Note      string `json:"note,omitempty"`
}

type StudyCard struct {
	ID             uuid.UUID  `json:"id"`
	Front          CardFace   `json:"front"`
	Back           CardFace   `json:"back"`
	Category       string     `json:"category"`
	Difficulty     string     `json:"difficulty"` // "easy" | "medium" | "hard"
	ReviewCount    int        `json:"review_count"`
	CorrectCount   int        `json:"correct_count"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
}

// CardProgress is the per-user review record persisted by the answer save
// path. It is queued as a job and written by the worker pool.
type CardProgress struct {
	UserID         uuid.UUID `json:"user_id"`
	CardID         uuid.UUID `json:"card_id"`
	ReviewCount    int       `json:"review_count"`
	CorrectCount   int       `json:"correct_count"`
	LastReviewedAt time.Time `json:"last_reviewed_at"`
}

// StudyStats is the persisted aggregate, merged (never overwritten) on each
// session completion and replaced as a whole blob on save.
type StudyStats struct {
	TodayStudied      int        `json:"today_studied"`
	TodayGoal         int        `json:"today_goal"`
	WeeklyStreak      int        `json:"weekly_streak"`
	TotalCards        int        `json:"total_cards"`
	MasteredCards     int        `json:"mastered_cards"`
	AverageAccuracy   int        `json:"average_accuracy"`
	SessionsCompleted int        `json:"sessions_completed"`
	LastStudiedAt     *time.Time `json:"last_studied_at,omitempty"`
}
