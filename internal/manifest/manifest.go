// Package manifest reads the corpus manifest: which packages to ingest and
// in which order.
//
//	game_dir: /games/Stellaris
//	launcher:
//	  registry: ~/.local/share/Paradox Interactive/Stellaris/mods_registry.json
//	  game_data: ~/.local/share/Paradox Interactive/Stellaris/game_data.json
//	packages:
//	  - ./local/my_mod
//	workshop_dir: /steam/workshop/content/281990
//	output_dir: out
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"stellaris-techtree/internal/filewalker"
	"stellaris-techtree/internal/pipeline"
)

// ErrNoSources is returned when a manifest names no package at all.
var ErrNoSources = errors.New("manifest names no packages")

var validate = validator.New()

// Manifest is the corpus description.
type Manifest struct {
	GameDir     string    `yaml:"game_dir" validate:"omitempty,dir"`
	WorkshopDir string    `yaml:"workshop_dir" validate:"omitempty,dir"`
	Packages    []string  `yaml:"packages" validate:"dive,required"`
	Launcher    *Launcher `yaml:"launcher"`
	OutputDir   string    `yaml:"output_dir"`
}

// Launcher points at the Paradox launcher files holding the enabled mods.
type Launcher struct {
	Registry string `yaml:"registry" validate:"required,file"`
	GameData string `yaml:"game_data" validate:"required,file"`
}

// Load reads and validates the manifest at path. Relative paths inside it
// are taken relative to the manifest's directory.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	m.resolve(filepath.Dir(path))
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) resolve(base string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	m.GameDir = abs(m.GameDir)
	m.WorkshopDir = abs(m.WorkshopDir)
	for i, p := range m.Packages {
		m.Packages[i] = abs(p)
	}
	if m.Launcher != nil {
		m.Launcher.Registry = abs(m.Launcher.Registry)
		m.Launcher.GameData = abs(m.Launcher.GameData)
	}
	m.OutputDir = abs(m.OutputDir)
}

// Validate checks that every configured path exists.
func (m *Manifest) Validate() error {
	if err := validate.Struct(m); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// Sources lists the packages in load order: the game itself, the mods
// enabled in the launcher, the explicit packages, then every workshop
// directory. A path listed twice keeps its first position.
func (m *Manifest) Sources() ([]pipeline.PackageSource, error) {
	var sources []pipeline.PackageSource
	seen := make(map[string]bool)
	add := func(path string, base bool) {
		clean := filepath.Clean(path)
		if seen[clean] {
			return
		}
		seen[clean] = true
		sources = append(sources, pipeline.PackageSource{Path: clean, Base: base})
	}

	if m.GameDir != "" {
		add(m.GameDir, true)
	}
	if m.Launcher != nil {
		order, err := LoadOrder(m.Launcher.Registry, m.Launcher.GameData)
		if err != nil {
			return nil, err
		}
		for _, p := range order {
			add(p, false)
		}
	}
	for _, p := range m.Packages {
		add(p, false)
	}
	if m.WorkshopDir != "" {
		roots, err := filewalker.DiscoverPackages(m.WorkshopDir)
		if err != nil {
			return nil, err
		}
		for _, p := range roots {
			add(p, false)
		}
	}

	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	log.Info().Int("packages", len(sources)).Msg("Resolved package sources")
	return sources, nil
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	for _, e := range validationErrs {
		field := e.Namespace()
		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "dir":
			return fmt.Errorf("%s: directory %q does not exist", field, e.Value())
		case "file":
			return fmt.Errorf("%s: file %q does not exist", field, e.Value())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}
	return err
}
