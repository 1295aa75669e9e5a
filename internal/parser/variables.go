package parser

import (
	"fmt"

	"stellaris-techtree/internal/script"
)

// VariablesDir holds a package's scripted variable files.
const VariablesDir = "common/scripted_variables"

// VariablesParser reads a scripted variables file into a flat map. Keys
// keep their leading '@'. A key defined twice keeps its last value; fields
// bound to blocks are ignored.
type VariablesParser struct{}

func NewVariablesParser() *VariablesParser { return &VariablesParser{} }

func (p *VariablesParser) CanParse(rel string) bool {
	return inDir(rel, VariablesDir, ".txt")
}

func (p *VariablesParser) Parse(filePath string) (map[string]string, error) {
	data, err := readScript(filePath)
	if err != nil {
		return nil, err
	}
	root, err := script.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse scripted variables: %w", err)
	}

	vars := make(map[string]string, root.Len())
	for _, f := range root.Fields() {
		if f.Key == "" {
			continue
		}
		if s, ok := f.Value.(script.Scalar); ok {
			vars[f.Key] = s.Text
		}
	}
	return vars, nil
}
