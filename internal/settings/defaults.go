package settings

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

var (
	defaultsOnce sync.Once
	defaults     []Command
)

// ParseCommands decodes a YAML document with a top-level "commands" list.
func ParseCommands(data []byte) ([]Command, error) {
	var doc struct {
		Commands []Command `yaml:"commands"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse commands: %w", err)
	}
	seen := make(map[string]bool, len(doc.Commands))
	for i, c := range doc.Commands {
		if c.Name == "" || c.Prompt == "" {
			return nil, fmt.Errorf("parse commands: entry %d needs a name and a prompt", i)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("parse commands: duplicate name %q", c.Name)
		}
		seen[c.Name] = true
		if err := checkTemperature(c.Temperature); err != nil {
			return nil, fmt.Errorf("parse commands: %q: %w", c.Name, err)
		}
	}
	return doc.Commands, nil
}

// DefaultCommands returns a fresh copy of the built-in commands.
func DefaultCommands() []Command {
	defaultsOnce.Do(func() {
		cmds, err := ParseCommands(defaultsYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded defaults.yaml: %v", err))
		}
		defaults = cmds
	})
	return cloneCommands(defaults)
}
