package settings

import (
	"strings"
	"sync"

	"github.com/mwiater/promptdeck/internal/logging"
)

// Persister writes the whole settings document somewhere durable.
type Persister interface {
	Save(Settings) error
}

// PersisterFunc adapts a plain function to the Persister interface.
type PersisterFunc func(Settings) error

// Save calls f(s).
func (f PersisterFunc) Save(s Settings) error { return f(s) }

// CommandFields are the mutable parts of a command. Name is the identity key
// and is changed by removing and re-adding.
type CommandFields struct {
	Prompt      string
	Model       string
	Temperature *float64
}

// Store owns the in-memory settings and writes them through its Persister after
// every successful mutation. A mutator returns only once the write has finished;
// a failed write is reported as *PersistError.
type Store struct {
	mu        sync.Mutex
	settings  Settings
	persister Persister
}

// NewStore returns a store seeded with initial. A nil persister discards writes.
func NewStore(initial Settings, persister Persister) *Store {
	if persister == nil {
		persister = PersisterFunc(func(Settings) error { return nil })
	}
	s := &Store{settings: initial.Clone(), persister: persister}
	if s.settings.Commands == nil {
		s.settings.Commands = []Command{}
	}
	return s
}

// Settings returns a copy of the current settings.
func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Clone()
}

// Commands returns a copy of the current commands in display order.
func (s *Store) Commands() []Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneCommands(s.settings.Commands)
}

// Command looks up a command by name.
func (s *Store) Command(name string) (Command, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.settings.Commands, name)
	if i < 0 {
		return Command{}, false
	}
	return s.settings.Commands[i].clone(), true
}

// SetServerURL stores url verbatim. A malformed URL surfaces later as a fetch failure.
func (s *Store) SetServerURL(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.ServerURL = url
	logging.LogEvent("settings: server url set to %q", url)
	return s.persistLocked()
}

// SetDefaultModel stores name verbatim.
func (s *Store) SetDefaultModel(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.DefaultModel = name
	logging.LogEvent("settings: default model set to %q", name)
	return s.persistLocked()
}

// AddCommand validates the draft and appends the resulting command.
// Rejected drafts leave the store untouched and are not persisted.
func (s *Store) AddCommand(d *CommandDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := ValidateDraft(d, s.settings.Commands, s.settings.DefaultModel)
	if !res.OK() {
		logging.LogEvent("settings: add command rejected: %v", res.Err)
		return res.Err
	}
	s.settings.Commands = append(s.settings.Commands, res.Command)
	logging.LogEvent("settings: added command %q", res.Command.Name)
	return s.persistLocked()
}

// RemoveCommand deletes the command called name. Removing an unknown name is a no-op.
func (s *Store) RemoveCommand(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := indexOf(s.settings.Commands, name); i >= 0 {
		s.settings.Commands = append(s.settings.Commands[:i:i], s.settings.Commands[i+1:]...)
		logging.LogEvent("settings: removed command %q", name)
	}
	return s.persistLocked()
}

// UpdateCommand replaces the mutable fields of the command called name, keeping
// its position in the list.
func (s *Store) UpdateCommand(name string, fields CommandFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.settings.Commands, name)
	if i < 0 {
		return &NotFoundError{Name: name}
	}
	if strings.TrimSpace(fields.Prompt) == "" {
		return &ValidationError{Field: "prompt", Reason: "is required"}
	}
	if err := checkTemperature(fields.Temperature); err != nil {
		return err
	}

	cmd := &s.settings.Commands[i]
	cmd.Prompt = fields.Prompt
	cmd.Model = normalizeModel(fields.Model)
	cmd.Temperature = nil
	if fields.Temperature != nil {
		cmd.Temperature = Float(*fields.Temperature)
	}
	logging.LogEvent("settings: updated command %q", name)
	return s.persistLocked()
}

// ResetToDefaults replaces every command with defaults, discarding custom ones.
func (s *Store) ResetToDefaults(defaults []Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Commands = cloneCommands(defaults)
	logging.LogEvent("settings: reset to %d default commands", len(defaults))
	return s.persistLocked()
}

// MergeDefaults refreshes built-in commands without touching custom ones: a
// default whose name already exists overwrites that command's prompt, model and
// temperature in place, and any other default is appended.
func (s *Store) MergeDefaults(defaults []Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated, added int
	for _, def := range defaults {
		def = def.clone()
		if i := indexOf(s.settings.Commands, def.Name); i >= 0 {
			cmd := &s.settings.Commands[i]
			cmd.Prompt = def.Prompt
			cmd.Model = def.Model
			cmd.Temperature = def.Temperature
			updated++
			continue
		}
		s.settings.Commands = append(s.settings.Commands, def)
		added++
	}
	logging.LogEvent("settings: merged defaults (%d updated, %d added)", updated, added)
	return s.persistLocked()
}

func (s *Store) persistLocked() error {
	if err := s.persister.Save(s.settings.Clone()); err != nil {
		logging.LogEvent("settings: persist failed: %v", err)
		return &PersistError{Err: err}
	}
	return nil
}
