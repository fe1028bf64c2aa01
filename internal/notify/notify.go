// Package notify turns operation outcomes into one-line user notifications.
package notify

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mwiater/promptdeck/internal/catalog"
	"github.com/mwiater/promptdeck/internal/logging"
	"github.com/mwiater/promptdeck/internal/settings"
)

var (
	successText = color.New(color.FgGreen).SprintFunc()
	failureText = color.New(color.FgRed).SprintFunc()
	warningText = color.New(color.FgYellow).SprintFunc()
)

// Message returns the short text shown to the user for err. Fetch failures of
// every kind read the same; the detail goes to the log.
func Message(err error) string {
	var fe *catalog.FetchError
	var pe *settings.PersistError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &fe):
		return fe.UserMessage()
	case errors.As(err, &pe):
		return "Settings changed but could not be saved"
	default:
		return capitalize(err.Error())
	}
}

// Success prints a green confirmation line.
func Success(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, successText(fmt.Sprintf(format, args...)))
}

// Warning prints a yellow advisory line.
func Warning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, warningText(fmt.Sprintf(format, args...)))
}

// Failure logs err in full and prints its short user message in red.
func Failure(w io.Writer, err error) {
	if err == nil {
		return
	}
	logging.LogEvent("error: %v", err)
	fmt.Fprintln(w, failureText(Message(err)))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}
