// Package settings owns the persisted promptdeck configuration: the model server
// connection, the default model, and the ordered list of prompt commands.
package settings

import "strings"

const (
	// DefaultServerURL is the address of a local Ollama server on its stock port.
	DefaultServerURL = "http://localhost:11434"
	// DefaultModelName is the model used by commands that do not name one.
	DefaultModelName = "llama2"
	// DefaultModelToken is the reserved selection value meaning "use the default model".
	// It is never a real model name.
	DefaultModelToken = "Default"
)

// Command is a named prompt template bound to an optional model and temperature.
// An empty Model means the configured default model is used.
type Command struct {
	Name        string   `json:"name" yaml:"name"`
	Prompt      string   `json:"prompt" yaml:"prompt"`
	Model       string   `json:"model,omitempty" yaml:"model,omitempty"`
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
}

// Settings is the whole persisted document. Commands are kept in display order.
type Settings struct {
	ServerURL    string    `json:"serverUrl"`
	DefaultModel string    `json:"defaultModel"`
	Commands     []Command `json:"commands"`
}

// DefaultSettings returns the settings used when nothing has been saved yet.
func DefaultSettings() Settings {
	return Settings{
		ServerURL:    DefaultServerURL,
		DefaultModel: DefaultModelName,
		Commands:     DefaultCommands(),
	}
}

// ResolveModel returns the model a command runs against, falling back to the
// default model when the command has none or carries the reserved token.
func (s Settings) ResolveModel(c Command) string {
	model := strings.TrimSpace(c.Model)
	if model == "" || model == DefaultModelToken {
		return s.DefaultModel
	}
	return model
}

// Clone returns a deep copy of s.
func (s Settings) Clone() Settings {
	out := s
	out.Commands = cloneCommands(s.Commands)
	return out
}

// clone returns a copy of c that shares no pointers with it.
func (c Command) clone() Command {
	out := c
	if c.Temperature != nil {
		t := *c.Temperature
		out.Temperature = &t
	}
	return out
}

func cloneCommands(in []Command) []Command {
	out := make([]Command, len(in))
	for i, c := range in {
		out[i] = c.clone()
	}
	return out
}

// Float returns a pointer to v, for building commands with a temperature.
func Float(v float64) *float64 {
	return &v
}
