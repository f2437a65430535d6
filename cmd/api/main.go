package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"whichcharacter/internal/config"
	"whichcharacter/internal/db"
	apihttp "whichcharacter/internal/http"
	"whichcharacter/internal/llm"
	"whichcharacter/internal/repository"
	"whichcharacter/internal/service"
	"whichcharacter/internal/traits"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	space, err := traits.NewSpace(cfg.TraitNames)
	if err != nil {
		logger.Fatal("trait space", zap.Error(err))
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	questionRepo := repository.NewPgQuestionRepository(pool)
	characterRepo := repository.NewPgCharacterRepository(pool)
	mappingRepo := repository.NewPgMappingRepository(pool)
	resultRepo := repository.NewPgResultRepository(pool)
	feedbackRepo := repository.NewPgFeedbackRepository(pool)

	var mappingCache service.MappingCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, hot cache disabled", zap.Error(err))
		} else {
			mappingCache = service.NewRedisMappingCache(redisClient, 24*time.Hour)
		}
		cancel()
	}

	// La ausencia del dataset local no es fatal: el resolver salta ese paso.
	fallback, err := service.LoadFallbackDataset(cfg.FallbackDatasetPath, space)
	if err != nil {
		logger.Warn("fallback dataset not loaded", zap.String("path", cfg.FallbackDatasetPath), zap.Error(err))
		fallback = nil
	} else {
		logger.Info("fallback dataset loaded", zap.Int("entries", fallback.Len()))
	}

	oracleTimeout := time.Duration(cfg.OracleTimeoutSeconds) * time.Second
	oracle := llm.NewHTTPClient(cfg.OracleBaseURL, cfg.OracleAPIKey, cfg.OracleModel, oracleTimeout, zap.NewStdLog(logger))

	mappingSvc := service.NewMappingService(space, mappingRepo, mappingCache, fallback, oracle, oracleTimeout, logger)
	quizBuilder := service.NewQuizVectorBuilder(space, questionRepo)
	prefsBuilder := service.NewPreferenceVectorBuilder(space, mappingSvc, logger)
	resultWriter := service.NewResultWriter(resultRepo, logger, 64)
	defer resultWriter.Close()
	matchSvc := service.NewMatchService(space, quizBuilder, prefsBuilder, characterRepo, resultWriter, cfg.Alpha, cfg.TopK, logger)

	adminAuth := service.NewAdminAuthService(cfg.JWTSecret, cfg.AdminToken, cfg.AdminTokenBcrypt, time.Hour)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	catalogHandler := apihttp.NewCatalogHandler(logger, questionRepo, characterRepo)
	scoreHandler := apihttp.NewScoreHandler(logger, matchSvc, mappingSvc, feedbackRepo)
	adminHandler := apihttp.NewAdminHandler(logger, adminAuth, resultRepo, feedbackRepo, mappingSvc, mappingRepo, questionRepo, characterRepo)
	router := apihttp.NewRouter(logger, catalogHandler, scoreHandler, adminHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort), zap.Int("traits", space.Len()))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
