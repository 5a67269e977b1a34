package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rua702356-pixel/Web-Japanese/internal/models"
)

type QuizRepo struct {
	pool *pgxpool.Pool
}

func NewQuizRepo(pool *pgxpool.Pool) *QuizRepo {
	return &QuizRepo{pool: pool}
}

func (r *QuizRepo) Create(ctx context.Context, q *models.Quiz) error {
	q.ID = uuid.New()
	questionsJSON, err := json.Marshal(q.Questions)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}

	query := `INSERT INTO quizzes (id, title, description, level, time_limit_seconds, passing_score_percent, questions_json)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		q.ID, q.Title, q.Description, q.Level, q.TimeLimitSeconds, q.PassingScorePercent, questionsJSON,
	).Scan(&q.CreatedAt)
}

func (r *QuizRepo) List(ctx context.Context) ([]*models.Quiz, error) {
	query := `SELECT id, title, description, level, time_limit_seconds, passing_score_percent, questions_json, created_at
		FROM quizzes ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []*models.Quiz
	for rows.Next() {
		q := &models.Quiz{}
		var questionsJSON []byte
		err := rows.Scan(&q.ID, &q.Title, &q.Description, &q.Level,
			&q.TimeLimitSeconds, &q.PassingScorePercent, &questionsJSON, &q.CreatedAt)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(questionsJSON, &q.Questions); err != nil {
			return nil, fmt.Errorf("decode questions for quiz %s: %w", q.ID, err)
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

func (r *QuizRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Quiz, error) {
	q := &models.Quiz{}
	var questionsJSON []byte

	query := `SELECT id, title, description, level, time_limit_seconds, passing_score_percent, questions_json, created_at
		FROM quizzes WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&q.ID, &q.Title, &q.Description, &q.Level,
		&q.TimeLimitSeconds, &q.PassingScorePercent, &questionsJSON, &q.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(questionsJSON, &q.Questions); err != nil {
		return nil, fmt.Errorf("decode questions for quiz %s: %w", q.ID, err)
	}
	return q, nil
}
