package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"whichcharacter/internal/domain"
)

type FeedbackRepository interface {
	Insert(ctx context.Context, feedback domain.Feedback) error
	ListRecent(ctx context.Context, limit int) ([]domain.Feedback, error)
	Count(ctx context.Context) (int64, error)
}

type PgFeedbackRepository struct {
	pool *pgxpool.Pool
}

func NewPgFeedbackRepository(pool *pgxpool.Pool) *PgFeedbackRepository {
	return &PgFeedbackRepository{pool: pool}
}

func (r *PgFeedbackRepository) Insert(ctx context.Context, feedback domain.Feedback) error {
	const query = `
		INSERT INTO feedback (id, name, selected_trait, note, consent, ip, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		feedback.ID,
		feedback.Name,
		feedback.SelectedTrait,
		feedback.Note,
		feedback.Consent,
		feedback.IP,
		feedback.CreatedAt,
	)
	return err
}

func (r *PgFeedbackRepository) ListRecent(ctx context.Context, limit int) ([]domain.Feedback, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
		SELECT id, name, selected_trait, note, consent, ip, created_at
		FROM feedback
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Feedback
	for rows.Next() {
		var f domain.Feedback
		if err := rows.Scan(&f.ID, &f.Name, &f.SelectedTrait, &f.Note, &f.Consent, &f.IP, &f.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PgFeedbackRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM feedback`).Scan(&count)
	return count, err
}
