package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"whichcharacter/internal/domain"
	"whichcharacter/internal/traits"
)

type MappingRepository interface {
	// FindByKey busca por (categoria, nombre normalizado). Devuelve ErrNotFound sin filas.
	FindByKey(ctx context.Context, category, name string) (*domain.TraitMapping, error)
	Insert(ctx context.Context, mapping domain.TraitMapping) error
	DeleteByKey(ctx context.Context, category, name string) error
	Count(ctx context.Context) (int64, error)
}

type PgMappingRepository struct {
	pool *pgxpool.Pool
}

func NewPgMappingRepository(pool *pgxpool.Pool) *PgMappingRepository {
	return &PgMappingRepository{pool: pool}
}

// FindByKey toma la fila mas antigua: inserciones concurrentes duplicadas son
// toleradas y "el primer resultado valido queda consultable".
func (r *PgMappingRepository) FindByKey(ctx context.Context, category, name string) (*domain.TraitMapping, error) {
	const query = `
		SELECT id, name, canonical_title, category, traits, confidence, source, notes, created_at
		FROM trait_mappings
		WHERE category = $1 AND name = $2
		ORDER BY created_at ASC
		LIMIT 1
	`
	var m domain.TraitMapping
	var vec pgvector.Vector
	var confidence sql.NullFloat64
	err := r.pool.QueryRow(ctx, query, category, domain.NormalizeEntityName(name)).Scan(
		&m.ID,
		&m.Name,
		&m.CanonicalTitle,
		&m.Category,
		&vec,
		&confidence,
		&m.Source,
		&m.Notes,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if confidence.Valid {
		val := confidence.Float64
		m.Confidence = &val
	}
	m.Traits = traits.FromPg(vec)
	return &m, nil
}

func (r *PgMappingRepository) Insert(ctx context.Context, mapping domain.TraitMapping) error {
	const query = `
		INSERT INTO trait_mappings (id, name, canonical_title, category, traits, confidence, source, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	var confidence interface{}
	if mapping.Confidence != nil {
		confidence = *mapping.Confidence
	}
	_, err := r.pool.Exec(ctx, query,
		mapping.ID,
		domain.NormalizeEntityName(mapping.Name),
		mapping.CanonicalTitle,
		mapping.Category,
		mapping.Traits.ToPg(),
		confidence,
		mapping.Source,
		mapping.Notes,
		mapping.CreatedAt,
	)
	return err
}

// DeleteByKey borra todas las filas de una clave; es la unica via de re-mapeo.
func (r *PgMappingRepository) DeleteByKey(ctx context.Context, category, name string) error {
	const query = `DELETE FROM trait_mappings WHERE category = $1 AND name = $2`
	_, err := r.pool.Exec(ctx, query, category, domain.NormalizeEntityName(name))
	return err
}

func (r *PgMappingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM trait_mappings`).Scan(&count)
	return count, err
}
