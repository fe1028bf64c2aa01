// Package snippet derives command identifiers from command names and renders
// the fixed text block users paste into notes to invoke a command.
package snippet

import (
	"fmt"
	"sort"
	"strings"
)

// IDPrefix namespaces command identifiers.
const IDPrefix = "promptdeck:"

// template is the fixed snippet layout; the only variable is the command id.
const template = "```promptdeck\ncommand: %s\n```\n"

// Slugify lowercases name and replaces each whitespace run with one hyphen.
// Leading and trailing whitespace is dropped.
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// CommandID is the user-facing identifier of the command called name.
func CommandID(name string) string {
	return IDPrefix + Slugify(name)
}

// Render returns the copy-paste snippet for the command called name.
func Render(name string) string {
	return fmt.Sprintf(template, CommandID(name))
}

// Collisions groups names whose slugs coincide. Only slugs shared by more than
// one name are returned; names keep their input order.
func Collisions(names []string) map[string][]string {
	bySlug := make(map[string][]string)
	for _, n := range names {
		s := Slugify(n)
		bySlug[s] = append(bySlug[s], n)
	}
	out := make(map[string][]string)
	for s, group := range bySlug {
		if len(group) > 1 {
			out[s] = group
		}
	}
	return out
}

// CollisionWarnings formats Collisions as sorted, human-readable lines.
func CollisionWarnings(names []string) []string {
	collisions := Collisions(names)
	slugs := make([]string, 0, len(collisions))
	for s := range collisions {
		slugs = append(slugs, s)
	}
	sort.Strings(slugs)

	lines := make([]string, 0, len(slugs))
	for _, s := range slugs {
		quoted := make([]string, len(collisions[s]))
		for i, n := range collisions[s] {
			quoted[i] = fmt.Sprintf("%q", n)
		}
		lines = append(lines, fmt.Sprintf("%s share the command id %s", strings.Join(quoted, ", "), IDPrefix+s))
	}
	return lines
}
