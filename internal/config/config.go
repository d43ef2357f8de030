package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`

	LLMAPIKey      string        `env:"LLM_API_KEY"`
	LLMBaseURL     string        `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel       string        `env:"LLM_MODEL" envDefault:"gpt-3.5-turbo"`
	LLMTimeout     time.Duration `env:"LLM_TIMEOUT" envDefault:"15s"`
	LLMMaxTokens   int           `env:"LLM_MAX_TOKENS" envDefault:"250"`
	LLMTemperature float64       `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	LLMTopP        float64       `env:"LLM_TOP_P" envDefault:"0.9"`

	ChatHistoryLimit int    `env:"CHAT_HISTORY_LIMIT" envDefault:"10"`
	LexiconPath      string `env:"LEXICON_PATH"`
	NLPResourcesPath string `env:"NLP_RESOURCES_PATH"`
	// 0 usa la fuente aleatoria global.
	ResponseRandomSeed uint64 `env:"RESPONSE_RANDOM_SEED" envDefault:"0"`

	RedisAddr          string        `env:"REDIS_ADDR"`
	RedisPassword      string        `env:"REDIS_PASSWORD"`
	RedisDB            int           `env:"REDIS_DB" envDefault:"0"`
	DialogueContextTTL time.Duration `env:"DIALOGUE_CONTEXT_TTL" envDefault:"24h"`

	JWTSecret   string        `env:"JWT_SECRET"`
	JWTIssuer   string        `env:"JWT_ISSUER" envDefault:"mindcare-bot"`
	JWTAudience string        `env:"JWT_AUDIENCE" envDefault:"mindcare-api"`
	JWTTTL      time.Duration `env:"JWT_TTL" envDefault:"1h"`

	// mensajes por cliente y ventana en POST /process-message; 0 desactiva el limite.
	RateLimitMessages int           `env:"RATE_LIMIT_MESSAGES" envDefault:"30"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`

	MetricsNamespace string `env:"METRICS_NAMESPACE" envDefault:"mindcare"`
}

// ModelEnabled indica si hay credencial para el modelo externo.
func (c *Config) ModelEnabled() bool {
	return c.LLMAPIKey != ""
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
