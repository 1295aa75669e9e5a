package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	WorkerCount   int
	OutputDir     string
	ManifestPath  string
	LogLevel      string
	DatabaseURL   string
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		WorkerCount:   getEnvInt("WORKER_COUNT", 8),
		OutputDir:     getEnv("OUTPUT_DIR", "out"),
		ManifestPath:  getEnv("MANIFEST_PATH", "corpus.yaml"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		Neo4jURI:      getEnv("NEO4J_URI", ""),
		Neo4jUser:     getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword: getEnv("NEO4J_PASSWORD", "password"),
	}
}

// PostgresEnabled reports whether the PostgreSQL sink is configured.
func (c *Config) PostgresEnabled() bool { return c.DatabaseURL != "" }

// Neo4jEnabled reports whether the Neo4j sink is configured.
func (c *Config) Neo4jEnabled() bool { return c.Neo4jURI != "" }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		log.Warn().Str("key", key).Str("value", v).Msg("Invalid integer setting, using default")
		return fallback
	}
	return n
}
