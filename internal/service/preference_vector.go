package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"whichcharacter/internal/traits"
)

// PreferenceVectorBuilder agrega los vectores resueltos de todas las
// entidades de preferencia (canciones, peliculas, etc.) en uno solo.
type PreferenceVectorBuilder struct {
	space    *traits.Space
	resolver EntityResolver
	logger   *zap.Logger
}

func NewPreferenceVectorBuilder(space *traits.Space, resolver EntityResolver, logger *zap.Logger) *PreferenceVectorBuilder {
	return &PreferenceVectorBuilder{space: space, resolver: resolver, logger: logger}
}

// Build resuelve cada entidad no vacia y promedia por dimension.
// Sin entidades resueltas devuelve el vector neutral. Errores del store se
// propagan; la degradacion por falla del oracle ya ocurre dentro del resolver.
func (b *PreferenceVectorBuilder) Build(ctx context.Context, preferences map[string][]string) (traits.Vector, error) {
	var resolved []traits.Vector
	for category, names := range preferences {
		for _, name := range names {
			if strings.TrimSpace(name) == "" {
				continue
			}
			v, err := b.resolver.Resolve(ctx, name, category)
			if err != nil {
				return nil, err
			}
			resolved = append(resolved, v)
		}
	}

	if len(resolved) == 0 {
		return b.space.Neutral(), nil
	}

	out := make(traits.Vector, b.space.Len())
	for _, v := range resolved {
		for i := range out {
			out[i] += v[i]
		}
	}
	for i := range out {
		out[i] /= float64(len(resolved))
	}
	return out, nil
}

// HasEntities indica si el usuario mando al menos una entidad no vacia;
// define si el engine usa alpha adaptativo o 1.0.
func HasEntities(preferences map[string][]string) bool {
	for _, names := range preferences {
		for _, name := range names {
			if strings.TrimSpace(name) != "" {
				return true
			}
		}
	}
	return false
}
