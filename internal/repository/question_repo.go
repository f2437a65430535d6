package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"whichcharacter/internal/domain"
)

type QuestionRepository interface {
	List(ctx context.Context) ([]domain.Question, error)
	Insert(ctx context.Context, question domain.Question) error
	Count(ctx context.Context) (int64, error)
}

type PgQuestionRepository struct {
	pool *pgxpool.Pool
}

func NewPgQuestionRepository(pool *pgxpool.Pool) *PgQuestionRepository {
	return &PgQuestionRepository{pool: pool}
}

func (r *PgQuestionRepository) List(ctx context.Context) ([]domain.Question, error) {
	const query = `
		SELECT id, prompt, trait, options
		FROM questions
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var q domain.Question
		var rawOptions []byte
		if err := rows.Scan(&q.ID, &q.Prompt, &q.Trait, &rawOptions); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(rawOptions, &q.Options); err != nil {
			return nil, fmt.Errorf("decode options for question %d: %w", q.ID, err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *PgQuestionRepository) Insert(ctx context.Context, question domain.Question) error {
	rawOptions, err := json.Marshal(question.Options)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}
	const query = `
		INSERT INTO questions (id, prompt, trait, options)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			prompt = EXCLUDED.prompt,
			trait = EXCLUDED.trait,
			options = EXCLUDED.options
	`
	_, err = r.pool.Exec(ctx, query, question.ID, question.Prompt, question.Trait, rawOptions)
	return err
}

func (r *PgQuestionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM questions`).Scan(&count)
	return count, err
}
