package catalog

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Aliases maps entity -> field -> extra header names. It is loaded from a
// TOML file such as:
//
//	[courses]
//	credits = ["ects", "credit points"]
//
//	[students]
//	id = ["matriculation number"]
type Aliases map[string]map[string][]string

// ParseAliases decodes alias overrides from TOML.
func ParseAliases(data []byte) (Aliases, error) {
	var a Aliases
	if err := toml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse aliases: %w", err)
	}
	return a, nil
}

// LoadAliases reads alias overrides from a TOML file.
func LoadAliases(path string) (Aliases, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read aliases: %w", err)
	}
	return ParseAliases(data)
}
