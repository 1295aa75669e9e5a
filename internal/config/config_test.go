package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"WORKER_COUNT", "OUTPUT_DIR", "MANIFEST_PATH", "LOG_LEVEL", "DATABASE_URL", "NEO4J_URI"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, 8, cfg.WorkerCount)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "corpus.yaml", cfg.ManifestPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.PostgresEnabled())
	assert.False(t, cfg.Neo4jEnabled())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("WORKER_COUNT", "3")
	t.Setenv("OUTPUT_DIR", "/tmp/techs")
	t.Setenv("DATABASE_URL", "postgres://localhost/techs")
	t.Setenv("NEO4J_URI", "bolt://localhost:7687")

	cfg := Load()
	assert.Equal(t, 3, cfg.WorkerCount)
	assert.Equal(t, "/tmp/techs", cfg.OutputDir)
	assert.True(t, cfg.PostgresEnabled())
	assert.True(t, cfg.Neo4jEnabled())
}

func TestInvalidWorkerCountFallsBack(t *testing.T) {
	t.Setenv("WORKER_COUNT", "many")
	assert.Equal(t, 8, Load().WorkerCount)

	t.Setenv("WORKER_COUNT", "0")
	assert.Equal(t, 8, Load().WorkerCount)
}
