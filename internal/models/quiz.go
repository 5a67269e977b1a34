package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeFillBlank      = "fill_blank"
)

// Quiz is a fixed question set with a whole-session time limit. Immutable
// while a session runs.
type Quiz struct {
	ID                  uuid.UUID  `json:"id"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	Level               string     `json:"level"`
	TimeLimitSeconds    int        `json:"time_limit_seconds"`
	PassingScorePercent int        `json:"passing_score_percent"`
	Questions           []Question `json:"questions"`
	CreatedAt           time.Time  `json:"created_at"`
}

// Question carries its answer as an option index. Fill-blank questions list
// their candidate answers as options, so grading is always by index.
type Question struct {
	ID           string   `json:"id"`
	Type         string   `json:"type"`
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation"`
	Points       int      `json:"points"`
}
