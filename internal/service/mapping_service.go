package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"whichcharacter/internal/domain"
	"whichcharacter/internal/llm"
	"whichcharacter/internal/repository"
	"whichcharacter/internal/traits"
)

// ErrBlankEntity se devuelve cuando el nombre de la entidad esta vacio.
var ErrBlankEntity = errors.New("blank entity name")

// EntityResolver mapea (nombre, categoria) -> vector de rasgos, memoizando.
type EntityResolver interface {
	Resolve(ctx context.Context, name, category string) (traits.Vector, error)
}

// MappingService resuelve entidades con la cadena
// cache caliente -> store persistido -> dataset local -> oracle.
type MappingService struct {
	space         *traits.Space
	repo          repository.MappingRepository
	cache         MappingCache     // opcional
	fallback      *FallbackDataset // opcional
	oracle        llm.Client
	oracleTimeout time.Duration
	logger        *zap.Logger
}

func NewMappingService(
	space *traits.Space,
	repo repository.MappingRepository,
	cache MappingCache,
	fallback *FallbackDataset,
	oracle llm.Client,
	oracleTimeout time.Duration,
	logger *zap.Logger,
) *MappingService {
	if oracleTimeout <= 0 {
		oracleTimeout = 30 * time.Second
	}
	return &MappingService{
		space:         space,
		repo:          repo,
		cache:         cache,
		fallback:      fallback,
		oracle:        oracle,
		oracleTimeout: oracleTimeout,
		logger:        logger,
	}
}

// Resolve aplica la cadena de resolucion; el primer acierto corta el camino.
// Una falla del oracle degrada a vector neutral SIN persistir, asi el proximo
// request reintenta en vez de envenenar el cache. Solo errores del store
// persistido se propagan al caller.
func (s *MappingService) Resolve(ctx context.Context, name, category string) (traits.Vector, error) {
	normalized := domain.NormalizeEntityName(name)
	if normalized == "" {
		return nil, ErrBlankEntity
	}

	if s.cache != nil {
		if v, ok := s.cache.Get(ctx, category, normalized); ok && len(v) == s.space.Len() {
			return v, nil
		}
	}

	existing, err := s.repo.FindByKey(ctx, category, normalized)
	if err == nil {
		s.cacheSet(ctx, category, normalized, existing.Traits)
		return existing.Traits, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("mapping lookup %q/%s: %w", normalized, category, err)
	}

	if v, ok := s.fallback.Lookup(category, normalized); ok {
		// Se persiste bajo la clave normalizada del INPUT, no la del dataset,
		// para que el proximo lookup exacto de este mismo input sea O(1).
		s.persist(ctx, domain.TraitMapping{
			ID:        uuid.NewString(),
			Name:      normalized,
			Category:  category,
			Traits:    v,
			Source:    domain.MappingSourceFallback,
			CreatedAt: time.Now().UTC(),
		})
		s.cacheSet(ctx, category, normalized, v)
		return v, nil
	}

	mapping, err := s.mapViaOracle(ctx, name, category)
	if err != nil {
		s.logger.Warn("oracle mapping failed, degrading to neutral vector",
			zap.String("name", normalized),
			zap.String("category", category),
			zap.Error(err),
		)
		return s.space.Neutral(), nil
	}

	s.persist(ctx, mapping)
	s.cacheSet(ctx, category, normalized, mapping.Traits)
	return mapping.Traits, nil
}

// MapEntity invoca el oracle directamente y persiste el resultado validado.
// A diferencia de Resolve, aca la falla del oracle SI se propaga.
func (s *MappingService) MapEntity(ctx context.Context, name, category string) (domain.TraitMapping, error) {
	mapping, err := s.mapViaOracle(ctx, name, category)
	if err != nil {
		return domain.TraitMapping{}, err
	}
	if err := s.repo.Insert(ctx, mapping); err != nil {
		return domain.TraitMapping{}, fmt.Errorf("persist mapping: %w", err)
	}
	s.cacheSet(ctx, category, mapping.Name, mapping.Traits)
	return mapping, nil
}

// Remap borra el mapping existente y lo vuelve a resolver via oracle.
// Es la unica via de actualizacion: nunca se actualiza in-place.
func (s *MappingService) Remap(ctx context.Context, name, category string) (domain.TraitMapping, error) {
	normalized := domain.NormalizeEntityName(name)
	if normalized == "" {
		return domain.TraitMapping{}, ErrBlankEntity
	}
	if err := s.repo.DeleteByKey(ctx, category, normalized); err != nil {
		return domain.TraitMapping{}, fmt.Errorf("delete mapping: %w", err)
	}
	if s.cache != nil {
		s.cache.Delete(ctx, category, normalized)
	}
	return s.MapEntity(ctx, name, category)
}

func (s *MappingService) cacheSet(ctx context.Context, category, name string, v traits.Vector) {
	if s.cache != nil {
		s.cache.Set(ctx, category, name, v)
	}
}

func (s *MappingService) persist(ctx context.Context, mapping domain.TraitMapping) {
	// Inserciones duplicadas por resoluciones concurrentes son aceptables;
	// el lookup usa la fila mas antigua. Un error aca no invalida la resolucion.
	if err := s.repo.Insert(ctx, mapping); err != nil {
		s.logger.Warn("mapping insert failed",
			zap.String("name", mapping.Name),
			zap.String("category", mapping.Category),
			zap.Error(err),
		)
	}
}

func (s *MappingService) mapViaOracle(ctx context.Context, name, category string) (domain.TraitMapping, error) {
	ctx, cancel := context.WithTimeout(ctx, s.oracleTimeout)
	defer cancel()

	raw, err := s.oracle.Generate(ctx, s.buildPrompt(name, category))
	if err != nil {
		return domain.TraitMapping{}, fmt.Errorf("oracle generate: %w", err)
	}

	reply, err := s.parseOracleReply(raw)
	if err != nil {
		return domain.TraitMapping{}, err
	}

	var confidence *float64
	if reply.Confidence != nil {
		c := *reply.Confidence
		confidence = &c
	}
	return domain.TraitMapping{
		ID:             uuid.NewString(),
		Name:           domain.NormalizeEntityName(name),
		CanonicalTitle: strings.TrimSpace(reply.CanonicalTitle),
		Category:       category,
		Traits:         s.space.FromMap(reply.Traits),
		Confidence:     confidence,
		Source:         domain.MappingSourceOracle,
		Notes:          strings.TrimSpace(reply.Notes),
		CreatedAt:      time.Now().UTC(),
	}, nil
}

type oracleReply struct {
	CanonicalTitle string             `json:"canonical_title"`
	Confidence     *float64           `json:"confidence"`
	Traits         map[string]float64 `json:"traits"`
	Notes          string             `json:"notes"`
}

// parseOracleReply es el unico punto de validacion de la respuesta del oracle:
// una clave de rasgo ausente o un JSON malformado cuentan como falla total.
func (s *MappingService) parseOracleReply(raw string) (oracleReply, error) {
	cleaned := cleanLLMJSONResponse(raw)
	candidate := extractFirstJSONObject(cleaned)
	if candidate == "" {
		candidate = extractFirstJSONObject(raw)
	}
	if candidate == "" {
		return oracleReply{}, fmt.Errorf("oracle reply has no JSON object")
	}

	var reply oracleReply
	if err := json.Unmarshal([]byte(candidate), &reply); err != nil {
		return oracleReply{}, fmt.Errorf("parse oracle reply: %w", err)
	}
	if missing := s.space.MissingKeys(reply.Traits); len(missing) > 0 {
		return oracleReply{}, fmt.Errorf("oracle reply missing traits: %s", strings.Join(missing, ", "))
	}
	return reply, nil
}

var categoryPromptHints = map[string]string{
	domain.CategorySong:        "Based on the lyrics, mood, theme and tone of the song",
	domain.CategoryMovie:       "Based on the plot, theme, protagonists and tone of the movie",
	domain.CategoryActor:       "Based on the public persona and typical roles of the actor",
	domain.CategoryAthlete:     "Based on the playing style, public persona and career of the athlete",
	domain.CategoryPersonality: "Based on the public life and known behavior of the person",
}

func (s *MappingService) buildPrompt(name, category string) string {
	hint, ok := categoryPromptHints[category]
	if !ok {
		hint = "Based on what is publicly known about the subject"
	}

	names := s.space.Names()
	var traitLines strings.Builder
	for i, n := range names {
		traitLines.WriteString(fmt.Sprintf("    %q: 0.00", n))
		if i < len(names)-1 {
			traitLines.WriteString(",")
		}
		traitLines.WriteString("\n")
	}

	return fmt.Sprintf(`You are an assistant that maps a %s title to a numeric personality trait vector.
Return ONLY valid JSON (no markdown, no commentary). Must follow the schema exactly.

Title: %q
Type: %q

Task:
1) Identify the canonical title or name if possible.
2) %s, map it to the following trait keys with numeric values between 0.0 and 1.0:
   %s

Rules:
- Output EXACTLY one JSON object with keys:
  {
   "canonical_title": "<canonical title or empty string>",
   "confidence": 0.00,
   "traits": {
%s   },
   "notes": "<short reason or empty string>"
  }
- Confidence is a float 0.00-1.00 (0.00 unknown / 1.00 exact).
- All trait values must be between 0.00 and 1.00.
- If uncertain about the mapping, set confidence low and keep notes short (1-2 sentences).`,
		category, name, category, hint, strings.Join(names, ", "), traitLines.String())
}
