package catalog

import "github.com/mwiater/promptdeck/internal/settings"

// DefaultToken is the synthetic first option meaning "use the default model".
// A real model literally named "Default" cannot be told apart from it.
const DefaultToken = settings.DefaultModelToken

// BuildSelectableList returns the options of a model-choice control: the
// default token followed by names exactly as given.
func BuildSelectableList(names []string) []string {
	out := make([]string, 0, len(names)+1)
	out = append(out, DefaultToken)
	return append(out, names...)
}

// InitialSelection is the option a control shows for a bound model field.
func InitialSelection(field string) string {
	if field == "" {
		return DefaultToken
	}
	return field
}

// SelectionToField converts a chosen option back into a model field value.
func SelectionToField(choice string) string {
	if choice == DefaultToken {
		return ""
	}
	return choice
}
