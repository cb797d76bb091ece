package overlay

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrNoEdits is returned when saving an edit set that still carries NoEditsName
var ErrNoEdits = errors.New("edit set has no name")

// Path returns where an edit set lives under dir
func Path(dir, mapName, editsName string) string {
	return filepath.Join(dir, mapName, editsName+".yaml")
}

// Save writes the edit set to <dir>/<map>/<edits>.yaml and returns the path
func (e *MapEdits) Save(dir string) (string, error) {
	if e.EditsName == "" || e.EditsName == NoEditsName {
		return "", ErrNoEdits
	}
	path := Path(dir, e.MapName, e.EditsName)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create edits directory: %w", err)
	}
	data, err := yaml.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("failed to marshal edits: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write edits: %w", err)
	}
	return path, nil
}

// Load reads an edit set from a YAML file
func Load(path string) (*MapEdits, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read edits: %w", err)
	}
	var edits MapEdits
	if err := yaml.Unmarshal(data, &edits); err != nil {
		return nil, fmt.Errorf("failed to parse edits %s: %w", path, err)
	}
	edits.ensureMaps()
	for id, plan := range edits.TrafficSignalOverrides {
		if plan.ID != id {
			return nil, fmt.Errorf("failed to parse edits %s: signal keyed %s describes %s", path, id, plan.ID)
		}
	}
	return &edits, nil
}

// LoadNamed reads the edit set stored by Save
func LoadNamed(dir, mapName, editsName string) (*MapEdits, error) {
	return Load(Path(dir, mapName, editsName))
}
