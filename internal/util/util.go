// Package util holds small text helpers shared by the CLI and the panel.
package util

import (
	"strings"
	"unicode/utf8"
)

// TruncateRunes cuts text to at most maxRunes runes, marking the cut with an ellipsis.
func TruncateRunes(text string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	return string([]rune(text)[:maxRunes]) + "…"
}

// OneLine collapses every whitespace run, newlines included, into one space.
func OneLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// PromptPreview renders a prompt as a single truncated line for list rows.
func PromptPreview(prompt string, width int) string {
	return TruncateRunes(OneLine(prompt), width)
}

// WrapToWidth wraps text at word boundaries so no line exceeds width runes.
// Words longer than width are split. Blank lines are kept.
func WrapToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		words := strings.Fields(line)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		var cur []rune
		for _, w := range words {
			r := []rune(w)
			if len(cur) > 0 && len(cur)+1+len(r) <= width {
				cur = append(append(cur, ' '), r...)
				continue
			}
			if len(cur) > 0 {
				out = append(out, string(cur))
				cur = nil
			}
			for len(r) > width {
				out = append(out, string(r[:width]))
				r = r[width:]
			}
			cur = r
		}
		if len(cur) > 0 {
			out = append(out, string(cur))
		}
	}
	return strings.Join(out, "\n")
}
