package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"whichcharacter/internal/domain"
	"whichcharacter/internal/traits"
)

type CharacterRepository interface {
	List(ctx context.Context, limit int) ([]domain.Character, error)
	ListByUniverses(ctx context.Context, universes []string) ([]domain.Character, error)
	DistinctUniverses(ctx context.Context) ([]string, error)
	Insert(ctx context.Context, character domain.Character) error
	Count(ctx context.Context) (int64, error)
}

type PgCharacterRepository struct {
	pool *pgxpool.Pool
}

func NewPgCharacterRepository(pool *pgxpool.Pool) *PgCharacterRepository {
	return &PgCharacterRepository{pool: pool}
}

const characterColumns = `id, name, universe, description, image_url, traits`

func (r *PgCharacterRepository) List(ctx context.Context, limit int) ([]domain.Character, error) {
	query := `SELECT ` + characterColumns + ` FROM characters ORDER BY universe, name`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCharacters(rows)
}

// ListByUniverses devuelve el catalogo filtrado; lista vacia significa todo.
func (r *PgCharacterRepository) ListByUniverses(ctx context.Context, universes []string) ([]domain.Character, error) {
	if len(universes) == 0 {
		return r.List(ctx, 0)
	}
	const query = `
		SELECT id, name, universe, description, image_url, traits
		FROM characters
		WHERE universe = ANY($1)
		ORDER BY universe, name
	`
	rows, err := r.pool.Query(ctx, query, universes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCharacters(rows)
}

func (r *PgCharacterRepository) DistinctUniverses(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT universe FROM characters ORDER BY universe`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var universes []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		universes = append(universes, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return universes, nil
}

func (r *PgCharacterRepository) Insert(ctx context.Context, character domain.Character) error {
	const query = `
		INSERT INTO characters (id, name, universe, description, image_url, traits)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			universe = EXCLUDED.universe,
			description = EXCLUDED.description,
			image_url = EXCLUDED.image_url,
			traits = EXCLUDED.traits
	`
	_, err := r.pool.Exec(ctx, query,
		character.ID,
		character.Name,
		character.Universe,
		character.Description,
		character.ImageURL,
		character.Traits.ToPg(),
	)
	return err
}

func (r *PgCharacterRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM characters`).Scan(&count)
	return count, err
}

type pgRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanCharacters(rows pgRows) ([]domain.Character, error) {
	var chars []domain.Character
	for rows.Next() {
		var c domain.Character
		var vec pgvector.Vector
		if err := rows.Scan(&c.ID, &c.Name, &c.Universe, &c.Description, &c.ImageURL, &vec); err != nil {
			return nil, err
		}
		c.Traits = traits.FromPg(vec)
		chars = append(chars, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return chars, nil
}
