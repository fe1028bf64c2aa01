package settings

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CommandDraft collects the fields of a command before it is validated. Forms
// and CLI flags fill it field by field and hand it to ValidateDraft on submit.
type CommandDraft struct {
	Name        string
	Prompt      string
	Model       string
	Temperature *float64
}

// DraftResult is the outcome of validating a draft: exactly one of Command
// (when Err is nil) or Err is meaningful.
type DraftResult struct {
	Command Command
	Err     error
}

// OK reports whether the draft was accepted.
func (r DraftResult) OK() bool { return r.Err == nil }

// ValidateDraft checks a draft against the existing commands and the current
// default model. Checks run in a fixed order so the first problem is reported.
func ValidateDraft(d *CommandDraft, existing []Command, defaultModel string) DraftResult {
	if d == nil {
		return DraftResult{Err: &ValidationError{Field: "name", Reason: "is required"}}
	}
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return DraftResult{Err: &ValidationError{Field: "name", Reason: "is required"}}
	}
	if indexOf(existing, name) >= 0 {
		return DraftResult{Err: &DuplicateNameError{Name: name}}
	}
	if strings.TrimSpace(d.Prompt) == "" {
		return DraftResult{Err: &ValidationError{Field: "prompt", Reason: "is required"}}
	}
	model := normalizeModel(d.Model)
	if model == "" && strings.TrimSpace(defaultModel) == "" {
		return DraftResult{Err: &ValidationError{Field: "model", Reason: "is required when no default model is set"}}
	}
	if err := checkTemperature(d.Temperature); err != nil {
		return DraftResult{Err: err}
	}

	cmd := Command{Name: name, Prompt: d.Prompt, Model: model}
	if d.Temperature != nil {
		cmd.Temperature = Float(*d.Temperature)
	}
	return DraftResult{Command: cmd}
}

// ParseTemperature converts free-form input into an optional temperature.
// Blank input means no temperature.
func ParseTemperature(text string) (*float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, &ValidationError{Field: "temperature", Reason: fmt.Sprintf("%q is not a number", text)}
	}
	if err := checkTemperature(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

func checkTemperature(t *float64) error {
	if t == nil {
		return nil
	}
	if math.IsNaN(*t) || *t < 0 || *t > 1 {
		return &ValidationError{Field: "temperature", Reason: fmt.Sprintf("%g is outside [0, 1]", *t)}
	}
	return nil
}

// normalizeModel maps the reserved selection token to "absent".
func normalizeModel(model string) string {
	model = strings.TrimSpace(model)
	if model == DefaultModelToken {
		return ""
	}
	return model
}

func indexOf(commands []Command, name string) int {
	for i, c := range commands {
		if c.Name == name {
			return i
		}
	}
	return -1
}
