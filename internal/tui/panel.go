// Package tui provides the interactive settings panel: the command list, the
// per-command model picker and the add-command form.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/promptdeck/internal/catalog"
	"github.com/mwiater/promptdeck/internal/logging"
	"github.com/mwiater/promptdeck/internal/notify"
	"github.com/mwiater/promptdeck/internal/settings"
	"github.com/mwiater/promptdeck/internal/snippet"
)

// Options wires the panel to its collaborators.
type Options struct {
	Store    *settings.Store
	Fetcher  catalog.Fetcher
	Defaults func() []settings.Command
	CopyText func(string) error
}

// viewState is the screen the panel is showing.
type viewState int

const (
	// viewCommands lists the configured commands.
	viewCommands viewState = iota
	// viewModelPicker chooses the model of one command or the default model.
	viewModelPicker
	// viewForm collects a new command or the server URL.
	viewForm
)

// formKind says what a completed form is submitted as.
type formKind int

const (
	formAddCommand formKind = iota
	formServer
)

// pickerTarget says what the active picker feeds once its refresh completes.
type pickerTarget int

const (
	targetCommand pickerTarget = iota
	targetForm
	targetDefaultModel
)

// model is the Bubble Tea model of the settings panel.
type model struct {
	ctx      context.Context
	store    *settings.Store
	fetcher  catalog.Fetcher
	defaults func() []settings.Command
	copyText func(string) error

	state       viewState
	commandList list.Model
	modelList   list.Model
	spinner     spinner.Model

	picker  *catalog.ModelPicker
	target  pickerTarget
	editing string

	form      *huh.Form
	formKind  formKind
	serverURL string
	draft     *settings.CommandDraft
	formModel string
	formTemp  string

	confirmReset  bool
	status        string
	statusErr     bool
	width, height int
}

// commandItem is a row of the command list.
type commandItem struct {
	cmd   settings.Command
	model string
}

// Title returns the command name.
func (i commandItem) Title() string { return i.cmd.Name }

// Description shows the resolved model and the snippet id.
func (i commandItem) Description() string {
	return fmt.Sprintf("%s · %s", i.model, snippet.CommandID(i.cmd.Name))
}

// FilterValue filters on the command name.
func (i commandItem) FilterValue() string { return i.cmd.Name }

// modelItem is a row of the model picker.
type modelItem struct {
	name     string
	fallback string
	current  bool
}

// Title returns the option text.
func (i modelItem) Title() string { return i.name }

// Description explains the option.
func (i modelItem) Description() string {
	switch {
	case i.current:
		return "Current choice"
	case i.name == catalog.DefaultToken:
		return fmt.Sprintf("Use the default model (%s)", i.fallback)
	default:
		return "Select this model"
	}
}

// FilterValue filters on the option text.
func (i modelItem) FilterValue() string { return i.name }

// modelsFetchedMsg carries a successful refresh back to the picker that started it.
type modelsFetchedMsg struct {
	picker *catalog.ModelPicker
	names  []string
}

// modelsFetchErr carries a failed refresh back to the picker that started it.
type modelsFetchErr struct {
	picker *catalog.ModelPicker
	error
}

// newModel builds the panel over the store's current commands.
func newModel(ctx context.Context, opts Options) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	commands := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	commands.Title = "Commands"
	commands.DisableQuitKeybindings()

	models := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	models.DisableQuitKeybindings()
	models.SetFilteringEnabled(false)

	defaults := opts.Defaults
	if defaults == nil {
		defaults = settings.DefaultCommands
	}
	copyText := opts.CopyText
	if copyText == nil {
		copyText = func(string) error { return fmt.Errorf("clipboard unavailable") }
	}

	m := &model{
		ctx:         ctx,
		store:       opts.Store,
		fetcher:     opts.Fetcher,
		defaults:    defaults,
		copyText:    copyText,
		state:       viewCommands,
		commandList: commands,
		modelList:   models,
		spinner:     s,
	}
	m.reloadCommands()
	return m
}

// Run starts the panel and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	if opts.Store == nil || opts.Fetcher == nil {
		return fmt.Errorf("panel requires a settings store and a model fetcher")
	}
	m := newModel(ctx, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run panel: %w", err)
	}
	return nil
}

// fetchModelsCmd asks the server for its model names on behalf of picker.
func fetchModelsCmd(ctx context.Context, f catalog.Fetcher, picker *catalog.ModelPicker, serverURL string) tea.Cmd {
	return func() tea.Msg {
		names, err := f.FetchModelNames(ctx, serverURL)
		if err != nil {
			return modelsFetchErr{picker: picker, error: err}
		}
		return modelsFetchedMsg{picker: picker, names: names}
	}
}

// Init starts the spinner animation.
func (m *model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update is the central update function of the panel.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.commandList.SetSize(msg.Width-2, msg.Height-8)
		m.modelList.SetSize(msg.Width-2, msg.Height-8)
		if m.form != nil {
			m.form = m.form.WithWidth(msg.Width - 4)
		}
		return m, nil

	case modelsFetchedMsg:
		msg.picker.Complete(msg.names, nil)
		logging.LogEvent("panel: %d models fetched", len(msg.names))
		return m, m.afterRefresh(msg.picker)

	case modelsFetchErr:
		msg.picker.Complete(nil, msg.error)
		if msg.picker == m.picker {
			m.setError(msg.error)
		}
		return m, m.afterRefresh(msg.picker)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.state {
		case viewForm:
			return m.updateForm(msg)
		case viewModelPicker:
			return m.updateModelPicker(msg)
		default:
			return m.updateCommands(msg)
		}
	}

	if m.state == viewForm && m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

// updateCommands handles keys on the command list.
func (m *model) updateCommands(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.commandList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.commandList, cmd = m.commandList.Update(msg)
		return m, cmd
	}

	key := msg.String()
	if key != "R" {
		m.confirmReset = false
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "a":
		return m, m.openForm()
	case "d":
		m.removeSelected()
		return m, nil
	case "r":
		return m, m.openModelPicker()
	case "D":
		return m, m.openDefaultModelPicker()
	case "s":
		return m, m.openServerForm()
	case "m":
		m.mergeDefaults()
		return m, nil
	case "R":
		m.resetDefaults()
		return m, nil
	case "c":
		m.copySnippet()
		return m, nil
	}

	var cmd tea.Cmd
	m.commandList, cmd = m.commandList.Update(msg)
	return m, cmd
}

// updateModelPicker handles keys while a command's model is being chosen. The
// list ignores input while its picker is fetching.
func (m *model) updateModelPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.closePicker()
		return m, nil
	case "r":
		return m, m.startFetch()
	}
	if m.picker.Disabled() {
		return m, nil
	}
	if msg.String() == "enter" {
		if it, ok := m.modelList.SelectedItem().(modelItem); ok {
			if m.target == targetDefaultModel {
				m.chooseDefaultModel(it.name)
			} else {
				m.chooseModel(it.name)
			}
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.modelList, cmd = m.modelList.Update(msg)
	return m, cmd
}

// updateForm forwards input to the add-command form and submits it on completion.
func (m *model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.closeForm()
		m.setInfo("Add cancelled")
		return m, nil
	}

	fm, cmd := m.form.Update(msg)
	if f, ok := fm.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		if m.formKind == formServer {
			m.submitServer()
		} else {
			m.submitForm()
		}
		m.closeForm()
	case huh.StateAborted:
		m.closeForm()
		m.setInfo("Add cancelled")
	}
	return m, cmd
}

// startFetch begins a refresh of the active picker. A picker that is already
// fetching is left alone.
func (m *model) startFetch() tea.Cmd {
	if m.picker == nil {
		return nil
	}
	if !m.picker.Begin() {
		m.setInfo("Models are already loading")
		return nil
	}
	serverURL := m.store.Settings().ServerURL
	return tea.Batch(m.spinner.Tick, fetchModelsCmd(m.ctx, m.fetcher, m.picker, serverURL))
}

// afterRefresh applies a completed refresh to the screen that owns picker.
// Results for a picker that is no longer shown are dropped.
func (m *model) afterRefresh(picker *catalog.ModelPicker) tea.Cmd {
	if picker != m.picker {
		return nil
	}
	switch m.target {
	case targetForm:
		if m.draft == nil {
			return nil
		}
		m.formKind = formAddCommand
		m.form = m.buildForm()
		m.state = viewForm
		return m.form.Init()
	default:
		if m.state == viewModelPicker {
			m.syncModelList()
		}
		return nil
	}
}

// busy reports, and tells the user, that a refresh is still outstanding. A new
// picker must not replace one that is fetching or its result would be dropped.
func (m *model) busy() bool {
	if m.picker != nil && m.picker.Disabled() {
		m.setInfo("Models are already loading")
		return true
	}
	return false
}

// openModelPicker shows the model choices for the selected command and starts a refresh.
func (m *model) openModelPicker() tea.Cmd {
	if m.busy() {
		return nil
	}
	it, ok := m.commandList.SelectedItem().(commandItem)
	if !ok {
		return nil
	}
	m.picker = catalog.NewModelPicker(it.cmd.Model)
	m.target = targetCommand
	m.editing = it.cmd.Name
	m.state = viewModelPicker
	m.modelList.Title = fmt.Sprintf("Model for %s", it.cmd.Name)
	m.syncModelList()
	return m.startFetch()
}

// openDefaultModelPicker shows the model choices for the default model and starts a refresh.
func (m *model) openDefaultModelPicker() tea.Cmd {
	if m.busy() {
		return nil
	}
	m.picker = catalog.NewModelPicker(m.store.Settings().DefaultModel)
	m.target = targetDefaultModel
	m.editing = ""
	m.state = viewModelPicker
	m.modelList.Title = "Default model"
	m.syncModelList()
	return m.startFetch()
}

// syncModelList mirrors the picker's options into the list. The default model
// cannot point at itself, so its list leaves the Default entry out.
func (m *model) syncModelList() {
	fallback := m.store.Settings().DefaultModel
	var items []list.Item
	selected := 0
	for _, opt := range m.picker.Options() {
		if m.target == targetDefaultModel && opt == catalog.DefaultToken {
			continue
		}
		current := opt == m.picker.Selected()
		if current {
			selected = len(items)
		}
		items = append(items, modelItem{name: opt, fallback: fallback, current: current})
	}
	m.modelList.SetItems(items)
	m.modelList.Select(selected)
}

// chooseModel stores option as the model of the command being edited.
func (m *model) chooseModel(option string) {
	if !m.picker.Select(option) {
		return
	}
	cmd, ok := m.store.Command(m.editing)
	if !ok {
		m.setError(&settings.NotFoundError{Name: m.editing})
		m.closePicker()
		return
	}
	err := m.store.UpdateCommand(cmd.Name, settings.CommandFields{
		Prompt:      cmd.Prompt,
		Model:       m.picker.Field(),
		Temperature: cmd.Temperature,
	})
	m.reloadCommands()
	m.closePicker()
	if err != nil {
		m.setError(err)
		return
	}
	m.setInfo(fmt.Sprintf("%s now uses %s", cmd.Name, option))
}

// chooseDefaultModel stores option as the model used by commands without their own.
func (m *model) chooseDefaultModel(option string) {
	if option == catalog.DefaultToken || !m.picker.Select(option) {
		return
	}
	err := m.store.SetDefaultModel(option)
	m.reloadCommands()
	m.closePicker()
	if err != nil {
		m.setError(err)
		return
	}
	m.setInfo(fmt.Sprintf("Default model set to %s", option))
}

func (m *model) closePicker() {
	m.picker = nil
	m.editing = ""
	m.state = viewCommands
}

// openForm starts a new draft and refreshes the model choices before showing the form.
func (m *model) openForm() tea.Cmd {
	if m.busy() {
		return nil
	}
	m.draft = &settings.CommandDraft{}
	m.formModel = catalog.DefaultToken
	m.formTemp = ""
	m.picker = catalog.NewModelPicker("")
	m.target = targetForm
	return m.startFetch()
}

// submitForm turns the completed form into a command.
func (m *model) submitForm() {
	temp, err := settings.ParseTemperature(m.formTemp)
	if err != nil {
		m.setError(err)
		return
	}
	m.draft.Model = catalog.SelectionToField(m.formModel)
	m.draft.Temperature = temp

	err = m.store.AddCommand(m.draft)
	m.reloadCommands()
	if err != nil {
		m.setError(err)
		return
	}
	m.setInfo(fmt.Sprintf("Added %s", snippet.CommandID(m.draft.Name)))
}

// openServerForm edits the server URL in a one-field form.
func (m *model) openServerForm() tea.Cmd {
	if m.busy() {
		return nil
	}
	m.picker = nil
	m.formKind = formServer
	m.serverURL = m.store.Settings().ServerURL
	m.form = m.buildServerForm()
	m.state = viewForm
	return m.form.Init()
}

// submitServer stores the entered URL verbatim. A bad URL shows up as a
// fetch failure on the next refresh.
func (m *model) submitServer() {
	if err := m.store.SetServerURL(m.serverURL); err != nil {
		m.setError(err)
		return
	}
	m.setInfo(fmt.Sprintf("Server URL set to %s", m.serverURL))
}

func (m *model) closeForm() {
	m.form = nil
	m.formKind = formAddCommand
	m.draft = nil
	m.picker = nil
	m.state = viewCommands
}

func (m *model) removeSelected() {
	it, ok := m.commandList.SelectedItem().(commandItem)
	if !ok {
		return
	}
	err := m.store.RemoveCommand(it.cmd.Name)
	m.reloadCommands()
	if err != nil {
		m.setError(err)
		return
	}
	m.setInfo(fmt.Sprintf("Removed %s", it.cmd.Name))
}

func (m *model) mergeDefaults() {
	err := m.store.MergeDefaults(m.defaults())
	m.reloadCommands()
	if err != nil {
		m.setError(err)
		return
	}
	m.setInfo("Default commands merged")
}

// resetDefaults needs two presses in a row.
func (m *model) resetDefaults() {
	if !m.confirmReset {
		m.confirmReset = true
		m.setInfo("Press R again to replace all commands with the defaults")
		return
	}
	m.confirmReset = false
	err := m.store.ResetToDefaults(m.defaults())
	m.reloadCommands()
	if err != nil {
		m.setError(err)
		return
	}
	m.setInfo("Commands reset to defaults")
}

func (m *model) copySnippet() {
	it, ok := m.commandList.SelectedItem().(commandItem)
	if !ok {
		return
	}
	if err := m.copyText(snippet.Render(it.cmd.Name)); err != nil {
		m.setError(fmt.Errorf("copy snippet: %w", err))
		return
	}
	m.setInfo(fmt.Sprintf("Copied snippet for %s", snippet.CommandID(it.cmd.Name)))
}

// reloadCommands rebuilds the command list from the store, keeping the cursor in range.
func (m *model) reloadCommands() {
	s := m.store.Settings()
	items := make([]list.Item, len(s.Commands))
	for i, c := range s.Commands {
		items[i] = commandItem{cmd: c, model: s.ResolveModel(c)}
	}
	index := m.commandList.Index()
	m.commandList.SetItems(items)
	if index >= len(items) {
		index = len(items) - 1
	}
	if index >= 0 {
		m.commandList.Select(index)
	}
}

func (m *model) setInfo(text string) {
	m.status = text
	m.statusErr = false
}

func (m *model) setError(err error) {
	logging.LogEvent("panel: %v", err)
	m.status = notify.Message(err)
	m.statusErr = true
}
