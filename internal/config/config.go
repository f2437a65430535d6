package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v10"

	"whichcharacter/internal/traits"
)

// Config centraliza la configuracion del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	OracleAPIKey         string `env:"ORACLE_API_KEY,required"`
	OracleBaseURL        string `env:"ORACLE_BASE_URL" envDefault:"https://api.openai.com/v1"`
	OracleModel          string `env:"ORACLE_MODEL" envDefault:"gpt-4o-mini"`
	OracleTimeoutSeconds int    `env:"ORACLE_TIMEOUT_SECONDS" envDefault:"30"`

	// Alpha pondera quiz vs preferencias cuando el usuario mando preferencias.
	// Sin preferencias el engine usa 1.0 sin importar este valor.
	Alpha float64 `env:"ALPHA" envDefault:"0.6"`
	TopK  int     `env:"TOP_K" envDefault:"3"`

	// TraitNames permite parametrizar el esquema de rasgos entre despliegues.
	// Cambiarlo invalida mappings y personajes ya persistidos.
	TraitNames []string `env:"TRAIT_NAMES" envSeparator:","`

	FallbackDatasetPath string `env:"FALLBACK_DATASET_PATH" envDefault:"data/fallback_traits.json"`

	AdminToken       string `env:"ADMIN_TOKEN"`
	AdminTokenBcrypt string `env:"ADMIN_TOKEN_BCRYPT"`
	JWTSecret        string `env:"JWT_SECRET"`
}

// LoadConfig carga la configuracion desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if len(cfg.TraitNames) == 0 {
		cfg.TraitNames = traits.DefaultNames
	}
	if cfg.Alpha <= 0 || cfg.Alpha >= 1 {
		return nil, fmt.Errorf("config: ALPHA must be in (0,1), got %f", cfg.Alpha)
	}
	if cfg.TopK <= 0 {
		return nil, fmt.Errorf("config: TOP_K must be positive, got %d", cfg.TopK)
	}
	if strings.TrimSpace(cfg.AdminToken) == "" && strings.TrimSpace(cfg.AdminTokenBcrypt) == "" {
		return nil, fmt.Errorf("config: ADMIN_TOKEN or ADMIN_TOKEN_BCRYPT is required")
	}
	return &cfg, nil
}
