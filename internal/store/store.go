// Package store mirrors the results of a run into PostgreSQL.
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"

	"stellaris-techtree/internal/localisation"
	"stellaris-techtree/internal/pipeline"
	"stellaris-techtree/internal/technology"
	"stellaris-techtree/internal/worker"
)

const defaultBatchSize = 500

// DB is the subset of *pgxpool.Pool the store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

const schema = `
CREATE TABLE IF NOT EXISTS ingest_runs (
	id           UUID PRIMARY KEY,
	finished_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	packages     INTEGER NOT NULL,
	technologies INTEGER NOT NULL,
	skipped      INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS technologies (
	id         TEXT PRIMARY KEY,
	package_id TEXT NOT NULL,
	cost       BIGINT NOT NULL,
	tier       TEXT,
	category   TEXT,
	weight     TEXT,
	area       TEXT NOT NULL,
	start_tech BOOLEAN NOT NULL,
	run_id     UUID NOT NULL
);

CREATE TABLE IF NOT EXISTS technology_prerequisites (
	technology_id   TEXT NOT NULL,
	prerequisite_id TEXT NOT NULL,
	position        INTEGER NOT NULL,
	PRIMARY KEY (technology_id, prerequisite_id)
);

CREATE TABLE IF NOT EXISTS localisation (
	language    TEXT NOT NULL,
	key         TEXT NOT NULL,
	value       TEXT NOT NULL,
	name        TEXT,
	description TEXT,
	run_id      UUID NOT NULL,
	PRIMARY KEY (language, key)
);
`

const (
	upsertTechnology = `
INSERT INTO technologies (id, package_id, cost, tier, category, weight, area, start_tech, run_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE SET
	package_id = EXCLUDED.package_id,
	cost = EXCLUDED.cost,
	tier = EXCLUDED.tier,
	category = EXCLUDED.category,
	weight = EXCLUDED.weight,
	area = EXCLUDED.area,
	start_tech = EXCLUDED.start_tech,
	run_id = EXCLUDED.run_id`

	deletePrerequisites = `DELETE FROM technology_prerequisites WHERE technology_id = $1`

	insertPrerequisite = `
INSERT INTO technology_prerequisites (technology_id, prerequisite_id, position)
VALUES ($1, $2, $3)
ON CONFLICT DO NOTHING`

	upsertLocalisation = `
INSERT INTO localisation (language, key, value, name, description, run_id)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (language, key) DO UPDATE SET
	value = EXCLUDED.value,
	name = EXCLUDED.name,
	description = EXCLUDED.description,
	run_id = EXCLUDED.run_id`

	insertRun = `
INSERT INTO ingest_runs (id, packages, technologies, skipped)
VALUES ($1, $2, $3, $4)`
)

// Store writes technologies and localisation to PostgreSQL.
type Store struct {
	db        DB
	batchSize int
}

// NewStore creates a new store.
func NewStore(db DB) *Store {
	return &Store{db: db, batchSize: defaultBatchSize}
}

// EnsureSchema creates the tables when they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	log.Info().Msg("Database schema ensured")
	return nil
}

// SaveRun stores everything a run produced under runID.
func (s *Store) SaveRun(ctx context.Context, runID uuid.UUID, result *pipeline.Result) error {
	if err := s.SaveTechnologies(ctx, runID, result.ByID); err != nil {
		return err
	}
	if err := s.SaveLocalisation(ctx, runID, result.Localisation); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx, insertRun,
		runID.String(), len(result.Packages), len(result.ByID), len(result.Skipped))
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// SaveTechnologies upserts every technology and replaces its prerequisite
// rows.
func (s *Store) SaveTechnologies(ctx context.Context, runID uuid.UUID, byID map[string]*technology.Technology) error {
	techs := sortedTechnologies(byID)
	for _, chunk := range worker.Batch(techs, s.batchSize) {
		if err := s.send(ctx, technologyBatch(runID, chunk)); err != nil {
			return fmt.Errorf("save technologies: %w", err)
		}
	}
	log.Info().Int("count", len(techs)).Msg("Stored technologies")
	return nil
}

// SaveLocalisation upserts the folded text of every language.
func (s *Store) SaveLocalisation(ctx context.Context, runID uuid.UUID, texts map[localisation.Language]map[string]localisation.Text) error {
	rows := localisationRows(texts)
	for _, chunk := range worker.Batch(rows, s.batchSize) {
		if err := s.send(ctx, localisationBatch(runID, chunk)); err != nil {
			return fmt.Errorf("save localisation: %w", err)
		}
	}
	log.Info().Int("count", len(rows)).Msg("Stored localisation")
	return nil
}

func (s *Store) send(ctx context.Context, b *pgx.Batch) error {
	results := s.db.SendBatch(ctx, b)
	for range b.Len() {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return err
		}
	}
	return results.Close()
}
