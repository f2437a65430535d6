package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"whichcharacter/internal/domain"
	"whichcharacter/internal/traits"
)

type ResultRepository interface {
	Insert(ctx context.Context, result domain.QuizResult) error
	ListRecent(ctx context.Context, limit int) ([]domain.QuizResult, error)
	Count(ctx context.Context) (int64, error)
}

type PgResultRepository struct {
	pool *pgxpool.Pool
}

func NewPgResultRepository(pool *pgxpool.Pool) *PgResultRepository {
	return &PgResultRepository{pool: pool}
}

func (r *PgResultRepository) Insert(ctx context.Context, result domain.QuizResult) error {
	rawAnswers, err := json.Marshal(result.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	rawPrefs, err := json.Marshal(result.Preferences)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	rawMatches, err := json.Marshal(result.TopMatches)
	if err != nil {
		return fmt.Errorf("encode top matches: %w", err)
	}

	const query = `
		INSERT INTO quiz_results (id, name, universes, answers, preferences, question_vector, media_vector, final_vector, top_matches, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = r.pool.Exec(ctx, query,
		result.ID,
		result.Name,
		result.Universes,
		rawAnswers,
		rawPrefs,
		result.QuestionVector.ToPg(),
		result.MediaVector.ToPg(),
		result.FinalVector.ToPg(),
		rawMatches,
		result.CreatedAt,
	)
	return err
}

func (r *PgResultRepository) ListRecent(ctx context.Context, limit int) ([]domain.QuizResult, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
		SELECT id, name, universes, answers, preferences, question_vector, media_vector, final_vector, top_matches, created_at
		FROM quiz_results
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.QuizResult
	for rows.Next() {
		var res domain.QuizResult
		var rawAnswers, rawPrefs, rawMatches []byte
		var qVec, mVec, fVec pgvector.Vector
		if err := rows.Scan(
			&res.ID,
			&res.Name,
			&res.Universes,
			&rawAnswers,
			&rawPrefs,
			&qVec,
			&mVec,
			&fVec,
			&rawMatches,
			&res.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(rawAnswers, &res.Answers); err != nil {
			return nil, fmt.Errorf("decode answers for result %s: %w", res.ID, err)
		}
		if err := json.Unmarshal(rawPrefs, &res.Preferences); err != nil {
			return nil, fmt.Errorf("decode preferences for result %s: %w", res.ID, err)
		}
		if err := json.Unmarshal(rawMatches, &res.TopMatches); err != nil {
			return nil, fmt.Errorf("decode top matches for result %s: %w", res.ID, err)
		}
		res.QuestionVector = traits.FromPg(qVec)
		res.MediaVector = traits.FromPg(mVec)
		res.FinalVector = traits.FromPg(fVec)
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *PgResultRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM quiz_results`).Scan(&count)
	return count, err
}
