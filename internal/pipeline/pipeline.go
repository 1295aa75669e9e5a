// Package pipeline turns an ordered list of content packages into resolved
// localisation, resolved technologies and the prerequisite graph.
//
// Packages and the files inside them are parsed concurrently. Everything
// that combines their outputs runs afterwards as a fold in source order, so
// the result never depends on which task finished first.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"stellaris-techtree/internal/config"
	"stellaris-techtree/internal/filewalker"
	"stellaris-techtree/internal/graph"
	"stellaris-techtree/internal/localisation"
	"stellaris-techtree/internal/parser"
	"stellaris-techtree/internal/technology"
	"stellaris-techtree/internal/worker"
)

// PackageSource is one package root in load order. Base marks the game
// installation itself, which has no descriptor.mod of its own.
type PackageSource struct {
	Path string
	Base bool
}

// Package describes a package that was ingested.
type Package struct {
	ID         string
	Path       string
	Base       bool
	Descriptor parser.Descriptor
	Files      int
}

// SkippedFile is a file or package left out of the result.
type SkippedFile struct {
	Path string
	Err  error
}

// Result is the outcome of a run.
type Result struct {
	// Packages lists the ingested packages in load order.
	Packages []Package
	// Variables is the merged scalar variable map.
	Variables map[string]string
	// Localisation is the folded text of every language.
	Localisation map[localisation.Language]map[string]localisation.Text
	// Technologies holds every resolved record in load order, duplicates
	// included.
	Technologies []*technology.Technology
	// ByID maps each id to the record of the last package defining it.
	ByID map[string]*technology.Technology
	Tree *graph.Tree
	// Skipped lists what failed to parse, in load order.
	Skipped []SkippedFile
	// Problems counts localisation strings with malformed markup.
	Problems int
}

// Pipeline orchestrates ingestion.
type Pipeline struct {
	workers int
	walker  *filewalker.Walker
	log     zerolog.Logger

	descriptors  parser.Parser[parser.Descriptor]
	variables    parser.Parser[map[string]string]
	technologies parser.Parser[[]technology.Entry]
	localisation parser.Parser[*localisation.File]
}

// New creates a pipeline. logger receives every message of the run.
func New(cfg *config.Config, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		workers:      cfg.WorkerCount,
		walker:       filewalker.NewWalker(),
		log:          logger,
		descriptors:  parser.NewDescriptorParser(),
		variables:    parser.NewVariablesParser(),
		technologies: parser.NewTechnologyParser(),
		localisation: parser.NewLocalisationParser(),
	}
}

// Run ingests sources. Malformed files and packages are skipped and
// reported in Result.Skipped; only cancellation of ctx fails the run.
func (p *Pipeline) Run(ctx context.Context, sources []PackageSource) (*Result, error) {
	start := time.Now()
	p.log.Info().Int("packages", len(sources)).Int("workers", p.workers).Msg("Starting ingestion")

	aliases := make(chan alias)
	var collected []alias
	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for a := range aliases {
			collected = append(collected, a)
		}
	}()

	jobs := make([]packageJob, len(sources))
	for i, s := range sources {
		jobs[i] = packageJob{index: i, source: s}
	}
	pool := worker.NewPool("packages", p.workers,
		func(ctx context.Context, job packageJob) (*parsedPackage, error) {
			return p.parsePackage(ctx, job, aliases)
		},
	)
	tasks := pool.Execute(ctx, jobs)

	// Every producer has returned once Execute does.
	close(aliases)
	<-collectorDone

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("ingest packages: %w", err)
	}

	result := &Result{}
	var packages []*parsedPackage
	for _, task := range tasks {
		if task.Err != nil {
			p.log.Warn().Err(task.Err).Str("package", task.Input.source.Path).Msg("Package skipped")
			result.Skipped = append(result.Skipped, SkippedFile{Path: task.Input.source.Path, Err: task.Err})
			continue
		}
		packages = append(packages, task.Result)
		result.Packages = append(result.Packages, task.Result.info)
		result.Skipped = append(result.Skipped, task.Result.skipped...)
	}

	result.Variables = mergeVariables(packages, collected)
	merged := mergeLocalisation(packages)
	result.Localisation, result.Problems = p.resolveLocalisation(merged, result.Variables)
	result.Technologies, result.ByID = p.resolveTechnologies(packages, result.Variables, result.Localisation)
	result.Tree = graph.Build(result.ByID)

	files := 0
	for _, pkg := range result.Packages {
		files += pkg.Files
	}
	p.log.Info().
		Int("packages", len(result.Packages)).
		Int("files", files).
		Int("skipped", len(result.Skipped)).
		Int("variables", len(result.Variables)).
		Int("technologies", len(result.ByID)).
		Int("nodes", result.Tree.Len()).
		Int("dangling", len(result.Tree.Dangling)).
		Int("markup_problems", result.Problems).
		Dur("elapsed", time.Since(start)).
		Msg("Ingestion complete")
	return result, nil
}

// packageID names a package by its workshop id, falling back to the name
// of its directory for local mods.
func packageID(root string, d parser.Descriptor) string {
	if d.RemoteFileID != "" {
		return d.RemoteFileID
	}
	return filepath.Base(root)
}
