package skeleton

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseDefinition decodes a YAML skeleton definition.
func ParseDefinition(data []byte) (Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("skeleton: unmarshal: %w", err)
	}
	return def, nil
}

// LoadDefinition reads a YAML skeleton definition from disk.
func LoadDefinition(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("skeleton: load %s: %w", path, err)
	}
	def, err := ParseDefinition(data)
	if err != nil {
		return Definition{}, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Load reads and builds a skeleton. An empty path selects the humanoid.
func Load(path string) (*Skeleton, error) {
	if path == "" {
		return Humanoid(), nil
	}
	def, err := LoadDefinition(path)
	if err != nil {
		return nil, err
	}
	s, err := Build(def)
	if err != nil {
		return nil, fmt.Errorf("skeleton: build %s: %w", path, err)
	}
	return s, nil
}

// Marshal encodes a definition as YAML.
func Marshal(def Definition) ([]byte, error) {
	data, err := yaml.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("skeleton: marshal: %w", err)
	}
	return data, nil
}

// SaveDefinition writes a definition to disk.
func SaveDefinition(path string, def Definition) error {
	data, err := Marshal(def)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("skeleton: write %s: %w", path, err)
	}
	return nil
}
