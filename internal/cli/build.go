package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"stellaris-techtree/internal/config"
	"stellaris-techtree/internal/export"
	"stellaris-techtree/internal/graph"
	"stellaris-techtree/internal/manifest"
	"stellaris-techtree/internal/pipeline"
	"stellaris-techtree/internal/store"
)

func buildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Ingest the corpus named by the manifest and write all artifacts",
		Long: `Parses the base game and every mod listed in the manifest, then writes
localisation.json, all_technologies.json, technologies_map.json,
tech_tree.txt and skipped.tsv to the output directory.

When DATABASE_URL or NEO4J_URI is set the results are also mirrored to
PostgreSQL or Neo4j.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if cmd.Flags().Changed("manifest") {
				cfg.ManifestPath, _ = cmd.Flags().GetString("manifest")
			}
			if cmd.Flags().Changed("workers") {
				cfg.WorkerCount, _ = cmd.Flags().GetInt("workers")
			}
			output, _ := cmd.Flags().GetString("output")
			return runBuild(cfg, output)
		},
	}

	cmd.Flags().String("manifest", "", "Corpus manifest (default $MANIFEST_PATH or corpus.yaml)")
	cmd.Flags().String("output", "", "Output directory (default: manifest output_dir, then $OUTPUT_DIR)")
	cmd.Flags().Int("workers", 0, "Number of parallel workers (default $WORKER_COUNT or 8)")

	return cmd
}

// runBuild handles the `build` command.
func runBuild(cfg *config.Config, output string) error {
	if err := checkWorkers(cfg.WorkerCount); err != nil {
		return err
	}

	ctx, cancel := setupContext()
	defer cancel()

	m, err := manifest.Load(cfg.ManifestPath)
	if err != nil {
		return err
	}
	sources, err := m.Sources()
	if err != nil {
		return fmt.Errorf("resolve sources: %w", err)
	}

	outputDir := firstNonEmpty(output, m.OutputDir, cfg.OutputDir)

	runID := uuid.New()
	logger := log.With().Str("run", runID.String()).Logger()

	result, err := pipeline.New(cfg, logger).Run(ctx, sources)
	if err != nil {
		return err
	}

	if err := export.WriteAll(outputDir, result); err != nil {
		return fmt.Errorf("write artifacts: %w", err)
	}

	if cfg.PostgresEnabled() {
		if err := saveToPostgres(ctx, cfg, runID, result); err != nil {
			return err
		}
	}
	if cfg.Neo4jEnabled() {
		if err := exportToNeo4j(ctx, cfg, result.Tree); err != nil {
			return err
		}
	}

	logger.Info().
		Str("output", outputDir).
		Int("technologies", len(result.ByID)).
		Int("skipped", len(result.Skipped)).
		Msg("Build complete")
	return nil
}

func saveToPostgres(ctx context.Context, cfg *config.Config, runID uuid.UUID, result *pipeline.Result) error {
	pool, err := connectPostgres(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	s := store.NewStore(pool)
	if err := s.EnsureSchema(ctx); err != nil {
		return err
	}
	return s.SaveRun(ctx, runID, result)
}

func exportToNeo4j(ctx context.Context, cfg *config.Config, tree *graph.Tree) error {
	driver, err := connectNeo4j(ctx, cfg)
	if err != nil {
		return err
	}
	defer driver.Close(ctx)

	exporter := graph.NewExporter(driver)
	if err := exporter.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure graph schema: %w", err)
	}
	return exporter.Export(ctx, tree)
}

func connectPostgres(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping PostgreSQL: %w", err)
	}
	log.Info().Msg("Connected to PostgreSQL")
	return pool, nil
}

func connectNeo4j(ctx context.Context, cfg *config.Config) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""))
	if err != nil {
		return nil, fmt.Errorf("connect Neo4j: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("verify Neo4j connectivity: %w", err)
	}
	log.Info().Msg("Connected to Neo4j")
	return driver, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
