package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rua702356-pixel/Web-Japanese/internal/models"
)

// CardRepo is the item pool provider: the card catalog plus the per-user
// review progress overlaid on it.
type CardRepo struct {
	pool *pgxpool.Pool
}

func NewCardRepo(pool *pgxpool.Pool) *CardRepo {
	return &CardRepo{pool: pool}
}

const cardColumns = `c.id, c.front_primary, c.front_secondary, c.back_primary, c.back_secondary,
	COALESCE(c.back_note, ''), c.category, c.difficulty,
	COALESCE(p.review_count, 0), COALESCE(p.correct_count, 0), p.last_reviewed_at`

func (r *CardRepo) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, "SELECT DISTINCT category FROM study_cards ORDER BY category")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CardsByCategories returns the user's view of every card in the selected
// categories. An empty selection matches nothing.
func (r *CardRepo) CardsByCategories(ctx context.Context, userID uuid.UUID, categories []string) ([]models.StudyCard, error) {
	query := `SELECT ` + cardColumns + `
		FROM study_cards c
		LEFT JOIN card_progress p ON p.card_id = c.id AND p.user_id = $1
		WHERE c.category = ANY($2)
		ORDER BY c.created_at`

	rows, err := r.pool.Query(ctx, query, userID, categories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCards(rows)
}

// ListCards returns the user's view of the whole catalog.
func (r *CardRepo) ListCards(ctx context.Context, userID uuid.UUID) ([]models.StudyCard, error) {
	query := `SELECT ` + cardColumns + `
		FROM study_cards c
		LEFT JOIN card_progress p ON p.card_id = c.id AND p.user_id = $1
		ORDER BY c.created_at`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCards(rows)
}

// SearchCards matches either face of a card against the query.
func (r *CardRepo) SearchCards(ctx context.Context, userID uuid.UUID, search string) ([]models.StudyCard, error) {
	query := `SELECT ` + cardColumns + `
		FROM study_cards c
		LEFT JOIN card_progress p ON p.card_id = c.id AND p.user_id = $1
		WHERE c.front_primary ILIKE '%' || $2 || '%'
		   OR c.front_secondary ILIKE '%' || $2 || '%'
		   OR c.back_primary ILIKE '%' || $2 || '%'
		   OR c.back_secondary ILIKE '%' || $2 || '%'
		ORDER BY c.created_at`

	rows, err := r.pool.Query(ctx, query, userID, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCards(rows)
}

// SaveProgress upserts one card's review record for the user. The worker
// pool calls this for each queued progress job.
func (r *CardRepo) SaveProgress(ctx context.Context, p models.CardProgress) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO card_progress (user_id, card_id, review_count, correct_count, last_reviewed_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, card_id)
		 DO UPDATE SET review_count = $3, correct_count = $4, last_reviewed_at = $5`,
		p.UserID, p.CardID, p.ReviewCount, p.CorrectCount, p.LastReviewedAt,
	)
	return err
}

// PoolCounts reports the catalog size and how many cards the user has
// mastered (five or more correct reviews).
func (r *CardRepo) PoolCounts(ctx context.Context, userID uuid.UUID) (total, mastered int, err error) {
	err = r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM study_cards").Scan(&total)
	if err != nil {
		return 0, 0, err
	}

	err = r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM card_progress WHERE user_id = $1 AND correct_count >= 5",
		userID).Scan(&mastered)
	if err != nil {
		return 0, 0, err
	}

	return total, mastered, nil
}

type cardRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanCards(rows cardRows) ([]models.StudyCard, error) {
	var cards []models.StudyCard
	for rows.Next() {
		c := models.StudyCard{}
		err := rows.Scan(
			&c.ID, &c.Front.Primary, &c.Front.Secondary, &c.Back.Primary, &c.Back.Secondary,
			&c.Back.Note, &c.Category, &c.Difficulty,
			&c.ReviewCount, &c.CorrectCount, &c.LastReviewedAt,
		)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}
