package duoquiz

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the settings shared by the binaries, read from the environment
type Config struct {
	Port    string
	GinMode string
	LogMode string

	StoreDriver   string // mongo, sqlite or memory
	MongoURI      string
	MongoDatabase string
	SQLitePath    string

	OpenAIAPIKey   string
	LLMBaseURL     string
	LLMModel       string
	LLMTemperature float32
	TranscriptDir  string // empty disables generation transcripts

	JWTSecret     string
	SessionSecret string

	RabbitMQURI      string
	RabbitMQExchange string

	CORSOrigins []string
}

// LoadConfig loads .env if present and reads the environment
func LoadConfig() (Config, error) {
	// .env is optional; the real environment always wins
	_ = godotenv.Load()

	cfg := Config{
		Port:             getEnvOrDefault("PORT", "8080"),
		GinMode:          getEnvOrDefault("GIN_MODE", "debug"),
		LogMode:          getEnvOrDefault("LOG_MODE", "dev"),
		StoreDriver:      strings.ToLower(getEnvOrDefault("STORE_DRIVER", "sqlite")),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDatabase:    getEnvOrDefault("MONGO_DATABASE", "duoquiz"),
		SQLitePath:       getEnvOrDefault("SQLITE_PATH", "./duoquiz.db"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		LLMBaseURL:       os.Getenv("LLM_BASE_URL"),
		LLMModel:         os.Getenv("LLM_MODEL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		SessionSecret:    os.Getenv("SESSION_SECRET"),
		RabbitMQURI:      os.Getenv("RABBITMQ_URI"),
		RabbitMQExchange: getEnvOrDefault("RABBITMQ_EXCHANGE", "duoquiz.events"),
		CORSOrigins:      splitList(getEnvOrDefault("CORS_ORIGINS", "http://localhost:3000")),
	}

	temp, err := strconv.ParseFloat(getEnvOrDefault("LLM_TEMPERATURE", "0.7"), 32)
	if err != nil {
		return cfg, fmt.Errorf("invalid LLM_TEMPERATURE: %w", err)
	}
	cfg.LLMTemperature = float32(temp)

	if on, _ := strconv.ParseBool(os.Getenv("LLM_TRANSCRIPTS")); on {
		cfg.TranscriptDir = "log"
	}

	switch cfg.StoreDriver {
	case "mongo":
		if cfg.MongoURI == "" {
			return cfg, fmt.Errorf("MONGO_URI is required when STORE_DRIVER=mongo")
		}
	case "sqlite", "memory":
	default:
		return cfg, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	return cfg, nil
}

// OpenStore opens the document store selected by StoreDriver
func (cfg Config) OpenStore(ctx context.Context) (DocumentStore, error) {
	switch cfg.StoreDriver {
	case "mongo":
		return OpenMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case "memory":
		return NewMemStore(), nil
	default:
		return OpenSQLiteStore(cfg.SQLitePath)
	}
}

// OpenPublisher connects to RabbitMQ, or returns a NopPublisher when no broker is configured
func (cfg Config) OpenPublisher() (Publisher, error) {
	if cfg.RabbitMQURI == "" {
		return NopPublisher{}, nil
	}
	return NewAMQPPublisher(cfg.RabbitMQURI, cfg.RabbitMQExchange)
}

// Oracle returns the OpenAI-backed oracle for this configuration
func (cfg Config) Oracle() *OpenAIOracle {
	return NewOpenAIOracle(OracleConfig{
		APIKey:      cfg.OpenAIAPIKey,
		BaseURL:     cfg.LLMBaseURL,
		Model:       cfg.LLMModel,
		Temperature: cfg.LLMTemperature,
	})
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
