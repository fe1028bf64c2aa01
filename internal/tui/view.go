package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/promptdeck/internal/catalog"
	"github.com/mwiater/promptdeck/internal/settings"
	"github.com/mwiater/promptdeck/internal/snippet"
	"github.com/mwiater/promptdeck/internal/util"
)

var (
	headerStyle = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	infoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).PaddingLeft(2)
)

// buildForm lays out the add-command form over the current draft. The model
// choices come from the picker, whatever its last refresh produced.
func (m *model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Summarize selection").
				Value(&m.draft.Name),
			huh.NewText().
				Title("Prompt").
				Value(&m.draft.Prompt),
			huh.NewSelect[string]().
				Title("Model").
				Options(huh.NewOptions(m.picker.Options()...)...).
				Value(&m.formModel),
			huh.NewInput().
				Title("Temperature").
				Placeholder("0.0 to 1.0, blank for the model's own").
				Validate(func(s string) error {
					_, err := settings.ParseTemperature(s)
					return err
				}).
				Value(&m.formTemp),
		),
	).WithShowHelp(false).WithWidth(max(m.width-4, 40))
}

// buildServerForm lays out the one-field server URL form.
func (m *model) buildServerForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Server URL").
				Placeholder(settings.DefaultServerURL).
				Value(&m.serverURL),
		),
	).WithShowHelp(false).WithWidth(max(m.width-4, 40))
}

// View renders the panel for the current state.
func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n\n")

	switch m.state {
	case viewForm:
		if m.form != nil {
			b.WriteString(m.form.View())
		}
	case viewModelPicker:
		b.WriteString(m.pickerView())
	default:
		b.WriteString(m.commandsView())
	}

	b.WriteString("\n")
	b.WriteString(m.statusView())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.helpText()))
	return lipgloss.NewStyle().Margin(0, 1).Render(b.String())
}

func (m *model) headerView() string {
	s := m.store.Settings()
	return headerStyle.Render(fmt.Sprintf("promptdeck · server: %s · default model: %s", s.ServerURL, s.DefaultModel))
}

func (m *model) commandsView() string {
	if m.picker != nil && m.picker.Disabled() && m.target == targetForm {
		return fmt.Sprintf("  %s Fetching models from %s...\n", m.spinner.View(), m.store.Settings().ServerURL)
	}
	if len(m.commandList.Items()) == 0 {
		return "  No commands. Press a to add one or m to restore the defaults.\n"
	}

	view := m.commandList.View()
	it, ok := m.commandList.SelectedItem().(commandItem)
	if !ok {
		return view
	}
	width := max(m.width-6, 20)
	var detail strings.Builder
	detail.WriteString(util.WrapToWidth(util.PromptPreview(it.cmd.Prompt, width*3), width))
	if it.cmd.Temperature != nil {
		fmt.Fprintf(&detail, "\ntemperature: %.2f", *it.cmd.Temperature)
	}
	fmt.Fprintf(&detail, "\n%s", snippet.CommandID(it.cmd.Name))
	return view + "\n" + detailStyle.Render(detail.String())
}

func (m *model) pickerView() string {
	if m.picker == nil {
		return ""
	}
	if m.picker.Disabled() {
		return fmt.Sprintf("  %s Fetching models from %s...\n", m.spinner.View(), m.store.Settings().ServerURL)
	}
	view := m.modelList.View()
	if m.picker.State() == catalog.PickerFailed {
		view += "\n" + errorStyle.Render("  Showing the last known choices. Press r to retry.")
	}
	return view
}

func (m *model) statusView() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return errorStyle.Render(m.status)
	}
	return infoStyle.Render(m.status)
}

func (m *model) helpText() string {
	switch m.state {
	case viewForm:
		return "tab: next field · enter: submit · esc: cancel"
	case viewModelPicker:
		return "enter: choose · r: refresh · esc: back"
	default:
		return "a: add · d: delete · r: model · D: default model · s: server · m: merge defaults · R: reset · c: copy snippet · q: quit"
	}
}
