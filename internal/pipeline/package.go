package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"stellaris-techtree/internal/localisation"
	"stellaris-techtree/internal/parser"
	"stellaris-techtree/internal/technology"
	"stellaris-techtree/internal/worker"
)

type packageJob struct {
	index  int
	source PackageSource
}

// alias is a technology-file key bound to a bare value. Its position fixes
// where it lands in the variable merge.
type alias struct {
	pkg, file, field int
	key, value       string
}

// parsedPackage is everything one package contributes before merging.
type parsedPackage struct {
	index int
	info  Package
	// variables merges the package's scripted variable files in path order.
	variables    map[string]string
	technologies map[string]technology.Data
	localisation []*localisation.File
	skipped      []SkippedFile
}

var errNoDescriptor = errors.New("missing " + parser.DescriptorFile)

// parsePackage runs the four sub-parses of one package concurrently.
// Per-file failures are recorded on the package; a package without a usable
// descriptor fails as a whole.
func (p *Pipeline) parsePackage(ctx context.Context, job packageJob, aliases chan<- alias) (*parsedPackage, error) {
	files, err := p.walker.Package(job.source.Path)
	if err != nil {
		return nil, err
	}

	pkg := &parsedPackage{
		index:        job.index,
		variables:    make(map[string]string),
		technologies: make(map[string]technology.Data),
	}
	var (
		descriptor                    parser.Descriptor
		varSkipped, techSkipped       []SkippedFile
		locSkipped                    []SkippedFile
		varFiles, techFiles, locFiles int
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if job.source.Base {
			descriptor = parser.GameDescriptor(files.Root)
			return nil
		}
		if files.Descriptor == "" {
			return errNoDescriptor
		}
		d, err := p.descriptors.Parse(files.Descriptor)
		if err != nil {
			return fmt.Errorf("%s: %w", files.Descriptor, err)
		}
		descriptor = d
		return nil
	})

	g.Go(func() error {
		parsed, skipped := parseFiles(gctx, p.log, p.workers, files.Variables, p.variables)
		for _, f := range parsed {
			for k, v := range f.value {
				pkg.variables[k] = v
			}
		}
		varFiles, varSkipped = len(parsed), skipped
		return nil
	})

	g.Go(func() error {
		parsed, skipped := parseFiles(gctx, p.log, p.workers, files.Technologies, p.technologies)
		for _, f := range parsed {
			for field, e := range f.value {
				if e.IsAlias() {
					a := alias{pkg: job.index, file: f.index, field: field, key: e.Key, value: e.Alias}
					select {
					case aliases <- a:
					case <-gctx.Done():
						return gctx.Err()
					}
					continue
				}
				pkg.technologies[e.Key] = *e.Data
			}
		}
		techFiles, techSkipped = len(parsed), skipped
		return nil
	})

	g.Go(func() error {
		parsed, skipped := parseFiles(gctx, p.log, p.workers, files.Localisation, p.localisation)
		for _, f := range parsed {
			pkg.localisation = append(pkg.localisation, f.value)
		}
		locFiles, locSkipped = len(parsed), skipped
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	pkg.info = Package{
		ID:         packageID(files.Root, descriptor),
		Path:       files.Root,
		Base:       job.source.Base,
		Descriptor: descriptor,
		Files:      varFiles + techFiles + locFiles,
	}
	pkg.skipped = append(pkg.skipped, varSkipped...)
	pkg.skipped = append(pkg.skipped, techSkipped...)
	pkg.skipped = append(pkg.skipped, locSkipped...)

	p.log.Debug().
		Str("package", pkg.info.ID).
		Str("name", descriptor.Name).
		Int("files", pkg.info.Files).
		Int("skipped", len(pkg.skipped)).
		Int("technologies", len(pkg.technologies)).
		Msg("Package parsed")
	return pkg, nil
}

type parsedFile[T any] struct {
	index int
	path  string
	value T
}

// parseFiles parses paths on a nested pool. Successful files come back in
// path order with their index into paths; failures are logged and skipped.
func parseFiles[T any](ctx context.Context, logger zerolog.Logger, workers int, paths []string, p parser.Parser[T]) ([]parsedFile[T], []SkippedFile) {
	pool := worker.NewPool("files", workers, func(_ context.Context, path string) (T, error) {
		return p.Parse(path)
	})

	var (
		parsed  []parsedFile[T]
		skipped []SkippedFile
	)
	for i, task := range pool.Execute(ctx, paths) {
		if task.Err != nil {
			logger.Warn().Err(task.Err).Str("file", task.Input).Msg("File skipped")
			skipped = append(skipped, SkippedFile{Path: task.Input, Err: task.Err})
			continue
		}
		parsed = append(parsed, parsedFile[T]{index: i, path: task.Input, value: task.Result})
	}
	return parsed, skipped
}
