package manifest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// registryEntry is one mod of the launcher's mods_registry.json.
type registryEntry struct {
	DisplayName string `json:"displayName"`
	DirPath     string `json:"dirPath"`
}

// LoadOrder returns the directories of the mods enabled in the Paradox
// launcher, in load order. registryPath is mods_registry.json, which maps
// launcher ids to mod directories; gameDataPath is game_data.json, whose
// modsOrder lists those ids. Ids missing from the registry are skipped.
func LoadOrder(registryPath, gameDataPath string) ([]string, error) {
	data, err := os.ReadFile(registryPath)
	if err != nil {
		return nil, fmt.Errorf("read mod registry: %w", err)
	}
	var registry map[string]registryEntry
	if err := json.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("parse mod registry: %w", err)
	}

	data, err = os.ReadFile(gameDataPath)
	if err != nil {
		return nil, fmt.Errorf("read game data: %w", err)
	}
	var gameData struct {
		ModsOrder []string `json:"modsOrder"`
	}
	if err := json.Unmarshal(data, &gameData); err != nil {
		return nil, fmt.Errorf("parse game data: %w", err)
	}

	dirs := make([]string, 0, len(gameData.ModsOrder))
	for _, id := range gameData.ModsOrder {
		entry, ok := registry[id]
		if !ok || entry.DirPath == "" {
			log.Warn().Str("id", id).Msg("Mod in load order is missing from the registry")
			continue
		}
		dirs = append(dirs, entry.DirPath)
	}

	log.Info().Int("mods", len(dirs)).Msg("Loaded launcher load order")
	return dirs, nil
}
