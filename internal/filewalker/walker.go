package filewalker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog/log"

	"stellaris-techtree/internal/parser"
)

// PackageFiles lists the files of one package that the parsers handle.
// Every list is sorted by path.
type PackageFiles struct {
	Root         string
	Descriptor   string
	Variables    []string
	Technologies []string
	Localisation []string
}

// Count returns the number of files found.
func (p PackageFiles) Count() int {
	n := len(p.Variables) + len(p.Technologies) + len(p.Localisation)
	if p.Descriptor != "" {
		n++
	}
	return n
}

// Walker discovers the files of a package and routes each to the parser
// that claims it.
type Walker struct {
	descriptor   parser.Matcher
	variables    parser.Matcher
	technologies parser.Matcher
	localisation parser.Matcher
}

// NewWalker creates a Walker with the default parsers.
func NewWalker() *Walker {
	return &Walker{
		descriptor:   parser.NewDescriptorParser(),
		variables:    parser.NewVariablesParser(),
		technologies: parser.NewTechnologyParser(),
		localisation: parser.NewLocalisationParser(),
	}
}

// Package discovers the files of the package rooted at root. Missing
// sub-directories are not errors; a missing or unreadable root is.
func (w *Walker) Package(root string) (PackageFiles, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return PackageFiles{}, fmt.Errorf("resolve package root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return PackageFiles{}, fmt.Errorf("stat package root: %w", err)
	}
	if !info.IsDir() {
		return PackageFiles{}, fmt.Errorf("package root is not a directory: %s", root)
	}

	files := PackageFiles{Root: root}

	if w.descriptor.CanParse(parser.DescriptorFile) {
		p := filepath.Join(root, parser.DescriptorFile)
		if _, err := os.Stat(p); err == nil {
			files.Descriptor = p
		}
	}

	if files.Variables, err = w.collect(root, parser.VariablesDir, false, w.variables); err != nil {
		return PackageFiles{}, err
	}
	if files.Technologies, err = w.collect(root, parser.TechnologyDir, false, w.technologies); err != nil {
		return PackageFiles{}, err
	}
	if files.Localisation, err = w.collect(root, parser.LocalisationDir, true, w.localisation); err != nil {
		return PackageFiles{}, err
	}

	log.Debug().
		Str("root", root).
		Int("variables", len(files.Variables)).
		Int("technologies", len(files.Technologies)).
		Int("localisation", len(files.Localisation)).
		Msg("Discovered package files")
	return files, nil
}

// collect lists the files under root/dir accepted by m.
func (w *Walker) collect(root, dir string, recursive bool, m parser.Matcher) ([]string, error) {
	base := filepath.Join(root, filepath.FromSlash(dir))
	var paths []string

	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == base && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}
		if d.IsDir() {
			if path != base && !recursive {
				return fs.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if m.CanParse(filepath.ToSlash(rel)) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	sort.Strings(paths)
	return paths, nil
}

// DiscoverPackages returns every sub-directory of dir, sorted by name. This
// is the layout of a workshop content directory, one package per directory.
func DiscoverPackages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read package directory: %w", err)
	}

	var roots []string
	for _, e := range entries {
		if e.IsDir() {
			roots = append(roots, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(roots)

	log.Info().Int("count", len(roots)).Str("dir", dir).Msg("Discovered packages")
	return roots, nil
}
