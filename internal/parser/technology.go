package parser

import (
	"fmt"

	"stellaris-techtree/internal/script"
	"stellaris-techtree/internal/technology"
)

// TechnologyDir holds a package's technology files.
const TechnologyDir = "common/technology"

// TechnologyParser reads a technology file into its top-level entries,
// technologies and aliases alike, in source order.
type TechnologyParser struct{}

func NewTechnologyParser() *TechnologyParser { return &TechnologyParser{} }

func (p *TechnologyParser) CanParse(rel string) bool {
	return inDir(rel, TechnologyDir, ".txt")
}

func (p *TechnologyParser) Parse(filePath string) ([]technology.Entry, error) {
	data, err := readScript(filePath)
	if err != nil {
		return nil, err
	}
	root, err := script.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse technology file: %w", err)
	}
	return technology.Decode(root), nil
}
