package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"whichcharacter/internal/domain"
	"whichcharacter/internal/repository"
	"whichcharacter/internal/traits"
)

// ScoreInput es el request del endpoint de score ya validado rio arriba.
type ScoreInput struct {
	Name        string
	Universes   []string
	Answers     []domain.Answer
	Preferences map[string][]string // categoria -> nombres de entidades
}

// ScoreOutput agrupa los resultados de un matching completo.
type ScoreOutput struct {
	TopMatches     []domain.MatchResult          `json:"top_matches"`
	BestByUniverse map[string]domain.MatchResult `json:"best_by_universe"`
	FinalVector    traits.Vector                 `json:"final_vector"`
}

// MatchService combina los vectores de quiz y preferencias y puntua el catalogo.
type MatchService struct {
	space      *traits.Space
	quiz       *QuizVectorBuilder
	prefs      *PreferenceVectorBuilder
	characters repository.CharacterRepository
	audit      *ResultWriter
	alpha      float64
	topK       int
	logger     *zap.Logger
}

func NewMatchService(
	space *traits.Space,
	quiz *QuizVectorBuilder,
	prefs *PreferenceVectorBuilder,
	characters repository.CharacterRepository,
	audit *ResultWriter,
	alpha float64,
	topK int,
	logger *zap.Logger,
) *MatchService {
	if topK <= 0 {
		topK = 3
	}
	return &MatchService{
		space:      space,
		quiz:       quiz,
		prefs:      prefs,
		characters: characters,
		audit:      audit,
		alpha:      alpha,
		topK:       topK,
		logger:     logger,
	}
}

// Score construye ambos vectores, los combina con alpha adaptativo y rankea
// el catalogo por similitud coseno con orden estable (empates por orden de
// iteracion del catalogo). El registro de auditoria se escribe best-effort.
func (s *MatchService) Score(ctx context.Context, input ScoreInput) (ScoreOutput, error) {
	questionVec, err := s.quiz.Build(ctx, input.Answers)
	if err != nil {
		return ScoreOutput{}, err
	}

	mediaVec, err := s.prefs.Build(ctx, input.Preferences)
	if err != nil {
		return ScoreOutput{}, err
	}

	// Sin preferencias el quiz manda al 100%; con preferencias se usa el
	// alpha configurado, sin escalar por cantidad de entidades.
	alpha := 1.0
	if HasEntities(input.Preferences) {
		alpha = s.alpha
	}

	finalVec, err := traits.Combine(questionVec, mediaVec, alpha)
	if err != nil {
		return ScoreOutput{}, err
	}

	catalog, err := s.characters.ListByUniverses(ctx, normalizeUniverseFilter(input.Universes))
	if err != nil {
		return ScoreOutput{}, fmt.Errorf("load catalog: %w", err)
	}

	scored := make([]domain.MatchResult, 0, len(catalog))
	for _, c := range catalog {
		sim := traits.Cosine(finalVec, c.Traits)
		scored = append(scored, domain.MatchResult{
			Character:  c,
			Similarity: sim,
			Percentage: int(math.Round(sim * 100)),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	top := scored
	if len(top) > s.topK {
		top = top[:s.topK]
	}

	// Con la lista ya ordenada descendente y estable, la primera aparicion
	// de cada universo es automaticamente su mejor match.
	best := make(map[string]domain.MatchResult)
	for _, m := range scored {
		if _, ok := best[m.Character.Universe]; !ok {
			best[m.Character.Universe] = m
		}
	}

	if s.audit != nil {
		s.audit.Enqueue(domain.QuizResult{
			ID:             uuid.NewString(),
			Name:           input.Name,
			Universes:      input.Universes,
			Answers:        input.Answers,
			Preferences:    input.Preferences,
			QuestionVector: questionVec,
			MediaVector:    mediaVec,
			FinalVector:    finalVec,
			TopMatches:     top,
			CreatedAt:      time.Now().UTC(),
		})
	}

	return ScoreOutput{
		TopMatches:     top,
		BestByUniverse: best,
		FinalVector:    finalVec,
	}, nil
}

// normalizeUniverseFilter traduce el filtro del request: vacio o "All"
// significa catalogo completo.
func normalizeUniverseFilter(universes []string) []string {
	out := make([]string, 0, len(universes))
	for _, u := range universes {
		if u == "" {
			continue
		}
		if u == "All" {
			return nil
		}
		out = append(out, u)
	}
	return out
}
