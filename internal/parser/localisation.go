package parser

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"stellaris-techtree/internal/localisation"
)

// LocalisationDir holds a package's localisation files, at any depth.
const LocalisationDir = "localisation"

// LocalisationParser reads one .yml localisation file.
type LocalisationParser struct{}

func NewLocalisationParser() *LocalisationParser { return &LocalisationParser{} }

func (p *LocalisationParser) CanParse(rel string) bool {
	return underDir(rel, LocalisationDir, ".yml")
}

func (p *LocalisationParser) Parse(filePath string) (*localisation.File, error) {
	data, err := readLocalisation(filePath)
	if err != nil {
		return nil, err
	}
	file, err := localisation.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse localisation: %w", err)
	}
	for _, d := range file.Diagnostics {
		log.Warn().Str("file", filePath).Int("line", d.Line).Msg(d.Msg)
	}
	return file, nil
}
