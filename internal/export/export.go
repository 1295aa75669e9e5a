// Package export writes the artifacts of a run to an output directory.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"stellaris-techtree/internal/pipeline"
	"stellaris-techtree/internal/technology"
)

// Artifact file names.
const (
	LocalisationFile    = "localisation.json"
	TechnologiesFile    = "all_technologies.json"
	TechnologiesMapFile = "technologies_map.json"
	TreeFile            = "tech_tree.txt"
	SkippedFile         = "skipped.tsv"
)

// Node is one entry of technologies_map.json. Prerequisites are inlined;
// ids that name no technology are left out.
type Node struct {
	ID            string                   `json:"id"`
	Data          *technology.Technology   `json:"data"`
	Prerequisites []*technology.Technology `json:"prerequisites"`
}

// WriteAll writes every artifact of result into dir, creating it if needed.
func WriteAll(dir string, result *pipeline.Result) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	steps := []struct {
		name  string
		write func(io.Writer) error
	}{
		{LocalisationFile, func(w io.Writer) error { return encodeJSON(w, result.Localisation) }},
		{TechnologiesFile, func(w io.Writer) error { return encodeJSON(w, nonNil(result.Technologies)) }},
		{TechnologiesMapFile, func(w io.Writer) error { return encodeJSON(w, Nodes(result.ByID)) }},
		{TreeFile, result.Tree.Dump},
		{SkippedFile, func(w io.Writer) error { return WriteSkipped(w, result.Skipped) }},
	}
	for _, step := range steps {
		if err := writeFile(filepath.Join(dir, step.name), step.write); err != nil {
			return err
		}
	}

	log.Info().
		Str("dir", dir).
		Int("technologies", len(result.Technologies)).
		Int("skipped", len(result.Skipped)).
		Msg("Exported artifacts")
	return nil
}

// Nodes denormalises byID into technologies_map.json entries.
func Nodes(byID map[string]*technology.Technology) map[string]Node {
	nodes := make(map[string]Node, len(byID))
	for id, tech := range byID {
		prereqs := make([]*technology.Technology, 0, len(tech.Prerequisites))
		for _, p := range tech.Prerequisites {
			if prev, ok := byID[p]; ok {
				prereqs = append(prereqs, prev)
			}
		}
		nodes[id] = Node{ID: id, Data: tech, Prerequisites: prereqs}
	}
	return nodes
}

// WriteSkipped writes one path<TAB>reason line per skipped file.
func WriteSkipped(w io.Writer, skipped []pipeline.SkippedFile) error {
	if _, err := fmt.Fprintln(w, "path\treason"); err != nil {
		return err
	}
	for _, s := range skipped {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", escapeTSV(s.Path), escapeTSV(s.Err.Error())); err != nil {
			return err
		}
	}
	return nil
}

// ReadTechnologies reads all_technologies.json back.
func ReadTechnologies(path string) ([]*technology.Technology, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open technologies: %w", err)
	}
	defer f.Close()

	var techs []*technology.Technology
	if err := json.NewDecoder(f).Decode(&techs); err != nil {
		return nil, fmt.Errorf("decode technologies: %w", err)
	}
	return techs, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	log.Debug().Str("path", path).Msg("Wrote artifact")
	return nil
}

func encodeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(v)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// escapeTSV replaces tabs and newlines so a value stays in its column.
func escapeTSV(s string) string {
	s = strings.ReplaceAll(s, "\t", "\\t")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	return s
}
