package service

import (
	"context"
	"fmt"

	"whichcharacter/internal/domain"
	"whichcharacter/internal/repository"
	"whichcharacter/internal/traits"
)

// QuizVectorBuilder convierte respuestas del quiz en un vector de rasgos.
type QuizVectorBuilder struct {
	space     *traits.Space
	questions repository.QuestionRepository
}

func NewQuizVectorBuilder(space *traits.Space, questions repository.QuestionRepository) *QuizVectorBuilder {
	return &QuizVectorBuilder{space: space, questions: questions}
}

// Build promedia por rasgo los puntajes de las opciones elegidas.
// Respuestas con ids desconocidos se saltan en silencio: una respuesta
// malformada no tumba el request entero. Dimensiones sin respuestas quedan
// en el valor neutral.
func (b *QuizVectorBuilder) Build(ctx context.Context, answers []domain.Answer) (traits.Vector, error) {
	questions, err := b.questions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	byID := make(map[int]domain.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	sums := make(map[string]float64, b.space.Len())
	counts := make(map[string]int, b.space.Len())
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			continue
		}
		var score float64
		found := false
		for _, opt := range q.Options {
			if opt.ID == a.OptionID {
				score = opt.Score
				found = true
				break
			}
		}
		if !found {
			continue
		}
		sums[q.Trait] += score
		counts[q.Trait]++
	}

	means := make(map[string]float64, len(sums))
	for trait, sum := range sums {
		means[trait] = sum / float64(counts[trait])
	}
	return b.space.FromMap(means), nil
}
