package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"whichcharacter/internal/config"
	"whichcharacter/internal/db"
	"whichcharacter/internal/domain"
	"whichcharacter/internal/repository"
	"whichcharacter/internal/traits"
)

// Formato del archivo de personajes: el universo y los rasgos por nombre.
type characterSeed struct {
	Name        string             `json:"name"`
	Universe    string             `json:"universe"`
	Description string             `json:"description"`
	ImageURL    string             `json:"image_url"`
	Traits      map[string]float64 `json:"traits"`
}

func main() {
	charactersPath := flag.String("characters", "", "path to characters JSON file")
	questionsPath := flag.String("questions", "", "path to questions JSON file")
	flag.Parse()

	if *charactersPath == "" && *questionsPath == "" {
		log.Fatal("usage: seed -characters characters.json -questions questions.json")
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	space, err := traits.NewSpace(cfg.TraitNames)
	if err != nil {
		logger.Fatal("trait space", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if *charactersPath != "" {
		seedCharacters(ctx, logger, space, repository.NewPgCharacterRepository(pool), *charactersPath)
	}
	if *questionsPath != "" {
		seedQuestions(ctx, logger, repository.NewPgQuestionRepository(pool), *questionsPath)
	}
}

func seedCharacters(ctx context.Context, logger *zap.Logger, space *traits.Space, repo repository.CharacterRepository, path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("read characters file", zap.Error(err))
	}
	var seeds []characterSeed
	if err := json.Unmarshal(raw, &seeds); err != nil {
		logger.Fatal("parse characters file", zap.Error(err))
	}

	for _, s := range seeds {
		// ID determinista por (universo, nombre) para que re-sembrar sea idempotente.
		c := domain.Character{
			ID:          uuid.NewSHA1(uuid.NameSpaceOID, []byte(s.Universe+"/"+s.Name)).String(),
			Name:        s.Name,
			Universe:    s.Universe,
			Description: s.Description,
			ImageURL:    s.ImageURL,
			Traits:      space.FromMap(s.Traits),
		}
		if err := repo.Insert(ctx, c); err != nil {
			logger.Fatal("insert character", zap.String("name", c.Name), zap.Error(err))
		}
	}
	logger.Info("characters seeded", zap.Int("count", len(seeds)))
}

func seedQuestions(ctx context.Context, logger *zap.Logger, repo repository.QuestionRepository, path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("read questions file", zap.Error(err))
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		logger.Fatal("parse questions file", zap.Error(err))
	}

	for _, q := range questions {
		if err := repo.Insert(ctx, q); err != nil {
			logger.Fatal("insert question", zap.Int("id", q.ID), zap.Error(err))
		}
	}
	logger.Info("questions seeded", zap.Int("count", len(questions)))
}
