package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"stellaris-techtree/internal/script"
)

// DescriptorFile is the metadata file at the root of every mod.
const DescriptorFile = "descriptor.mod"

// GameName is the descriptor name and package id given to the base game.
const GameName = "Stellaris"

// Descriptor is the metadata of a package.
type Descriptor struct {
	Name             string   `json:"name"`
	Tags             []string `json:"tags,omitempty"`
	Version          string   `json:"version,omitempty"`
	Dependencies     []string `json:"dependencies,omitempty"`
	Picture          string   `json:"picture,omitempty"`
	SupportedVersion string   `json:"supported_version,omitempty"`
	RemoteFileID     string   `json:"remote_file_id,omitempty"`
}

// DescriptorParser reads descriptor.mod.
type DescriptorParser struct{}

func NewDescriptorParser() *DescriptorParser { return &DescriptorParser{} }

func (p *DescriptorParser) CanParse(rel string) bool {
	return rel == DescriptorFile
}

func (p *DescriptorParser) Parse(filePath string) (Descriptor, error) {
	data, err := readScript(filePath)
	if err != nil {
		return Descriptor{}, err
	}
	root, err := script.Parse(data)
	if err != nil {
		return Descriptor{}, fmt.Errorf("parse descriptor: %w", err)
	}

	d := Descriptor{
		Tags:         root.List("tags"),
		Dependencies: root.List("dependencies"),
	}
	d.Name, _ = root.Scalar("name")
	d.Version, _ = root.Scalar("version")
	d.Picture, _ = root.Scalar("picture")
	d.SupportedVersion, _ = root.Scalar("supported_version")
	d.RemoteFileID, _ = root.Scalar("remote_file_id")

	if d.Name == "" {
		return Descriptor{}, errors.New("parse descriptor: missing name")
	}
	return d, nil
}

// GameDescriptor synthesizes the descriptor of the base game installed at
// root. The version comes from launcher-settings.json when it is readable.
func GameDescriptor(root string) Descriptor {
	d := Descriptor{Name: GameName, RemoteFileID: GameName}

	data, err := os.ReadFile(filepath.Join(root, "launcher-settings.json"))
	if err != nil {
		return d
	}
	var settings struct {
		RawVersion string `json:"rawVersion"`
	}
	if json.Unmarshal(data, &settings) == nil {
		d.Version = settings.RawVersion
	}
	return d
}
