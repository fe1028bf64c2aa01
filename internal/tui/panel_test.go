package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mwiater/promptdeck/internal/catalog"
	"github.com/mwiater/promptdeck/internal/settings"
)

// stubFetcher records calls and returns canned results.
type stubFetcher struct {
	names []string
	err   error
	calls int
}

func (f *stubFetcher) FetchModelNames(context.Context, string) ([]string, error) {
	f.calls++
	return f.names, f.err
}

func newTestPanel(t *testing.T, fetcher *stubFetcher) (*model, *settings.Store, *[]string) {
	t.Helper()
	initial := settings.Settings{
		ServerURL:    "http://localhost:11434",
		DefaultModel: "llama2",
		Commands: []settings.Command{
			{Name: "Summarize selection", Prompt: "Summarize:"},
			{Name: "Explain selection", Prompt: "Explain:", Model: "mistral", Temperature: settings.Float(0.2)},
		},
	}
	store := settings.NewStore(initial, nil)
	copied := &[]string{}
	m := newModel(context.Background(), Options{
		Store:   store,
		Fetcher: fetcher,
		Defaults: func() []settings.Command {
			return []settings.Command{{Name: "Summarize selection", Prompt: "Summarize briefly:"}, {Name: "Caption selection", Prompt: "Caption:"}}
		},
		CopyText: func(s string) error {
			*copied = append(*copied, s)
			return nil
		},
	})
	_, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, store, copied
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// TestQuitKeys verifies q and ctrl+c quit from the command list.
func TestQuitKeys(t *testing.T) {
	m, _, _ := newTestPanel(t, &stubFetcher{})

	if _, cmd := m.Update(key('q')); cmd == nil {
		t.Fatal("expected a quit command for q")
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC}); cmd == nil {
		t.Fatal("expected a quit command for ctrl+c")
	}
	if m.width != 100 || m.height != 40 {
		t.Fatalf("expected window size to be recorded, got %dx%d", m.width, m.height)
	}
}

// TestModelPickerFlow opens the picker for a command, refuses a second refresh
// while fetching, then applies the fetched list and stores the choice.
func TestModelPickerFlow(t *testing.T) {
	fetcher := &stubFetcher{names: []string{"llama3", "mistral"}}
	m, store, _ := newTestPanel(t, fetcher)

	_, cmd := m.Update(key('r'))
	if cmd == nil || m.state != viewModelPicker {
		t.Fatalf("expected picker view with a fetch command; state=%v", m.state)
	}
	picker := m.picker
	if picker.State() != catalog.PickerFetching || !picker.Disabled() {
		t.Fatalf("expected fetching picker, got %v", picker.State())
	}
	if got := picker.Options(); len(got) != 1 || got[0] != "Default" {
		t.Fatalf("expected initial options [Default], got %v", got)
	}
	if !strings.Contains(m.View(), "Fetching models") {
		t.Fatalf("expected spinner text while fetching; got:\n%s", m.View())
	}

	_, cmd = m.Update(key('r'))
	if cmd != nil {
		t.Fatal("expected no second fetch while one is outstanding")
	}
	if m.status != "Models are already loading" {
		t.Fatalf("unexpected status %q", m.status)
	}

	_, _ = m.Update(modelsFetchedMsg{picker: picker, names: fetcher.names})
	if picker.State() != catalog.PickerPopulated {
		t.Fatalf("expected populated picker, got %v", picker.State())
	}
	if n := len(m.modelList.Items()); n != 3 {
		t.Fatalf("expected 3 options, got %d", n)
	}

	m.modelList.Select(1)
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != viewCommands {
		t.Fatalf("expected return to the command list, got %v", m.state)
	}
	cmdSaved, _ := store.Command("Summarize selection")
	if cmdSaved.Model != "llama3" {
		t.Fatalf("expected model llama3 to be stored, got %q", cmdSaved.Model)
	}
}

// TestModelPickerChooseDefault verifies picking Default clears the command's model.
func TestModelPickerChooseDefault(t *testing.T) {
	m, store, _ := newTestPanel(t, &stubFetcher{})
	m.commandList.Select(1)

	_, _ = m.Update(key('r'))
	picker := m.picker
	if got := picker.Options(); len(got) != 2 || got[1] != "mistral" {
		t.Fatalf("expected bound model among the options, got %v", got)
	}
	_, _ = m.Update(modelsFetchedMsg{picker: picker, names: []string{"mistral", "phi3"}})

	m.modelList.Select(0)
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	cmd, _ := store.Command("Explain selection")
	if cmd.Model != "" {
		t.Fatalf("expected model to be cleared, got %q", cmd.Model)
	}
	if cmd.Temperature == nil || *cmd.Temperature != 0.2 {
		t.Fatalf("expected temperature to be kept, got %v", cmd.Temperature)
	}
}

// TestModelPickerFailureKeepsOptions verifies a failed refresh leaves the options
// alone and shows the fetch failure.
func TestModelPickerFailureKeepsOptions(t *testing.T) {
	m, _, _ := newTestPanel(t, &stubFetcher{})
	m.commandList.Select(1)
	_, _ = m.Update(key('r'))
	picker := m.picker

	fetchErr := &catalog.FetchError{ServerURL: "http://localhost:11434", Kind: catalog.FetchTransport, Err: errors.New("connection refused")}
	_, _ = m.Update(modelsFetchErr{picker: picker, error: fetchErr})

	if picker.State() != catalog.PickerFailed || picker.Disabled() {
		t.Fatalf("expected failed, enabled picker; got %v", picker.State())
	}
	if got := picker.Options(); len(got) != 2 || got[0] != "Default" || got[1] != "mistral" {
		t.Fatalf("expected options to be kept, got %v", got)
	}
	if !m.statusErr || m.status != "Could not fetch models from http://localhost:11434" {
		t.Fatalf("unexpected status %q (err=%v)", m.status, m.statusErr)
	}
	if !strings.Contains(m.View(), "Press r to retry") {
		t.Fatalf("expected retry hint in view")
	}
}

// TestStaleRefreshIgnored verifies a result for a closed picker does not touch the screen.
func TestStaleRefreshIgnored(t *testing.T) {
	m, _, _ := newTestPanel(t, &stubFetcher{})
	_, _ = m.Update(key('r'))
	stale := m.picker
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != viewCommands || m.picker != nil {
		t.Fatalf("expected picker closed")
	}

	_, cmd := m.Update(modelsFetchedMsg{picker: stale, names: []string{"x"}})
	if cmd != nil || m.state != viewCommands {
		t.Fatalf("expected stale result to be ignored")
	}
}

// TestAddFormFlow fetches models, opens the form and submits a draft.
func TestAddFormFlow(t *testing.T) {
	m, store, _ := newTestPanel(t, &stubFetcher{})

	_, cmd := m.Update(key('a'))
	if cmd == nil || m.picker == nil || m.target != targetForm {
		t.Fatal("expected a model refresh before the form opens")
	}
	_, _ = m.Update(modelsFetchedMsg{picker: m.picker, names: []string{"llama3"}})
	if m.state != viewForm || m.form == nil {
		t.Fatalf("expected the form to open, state=%v", m.state)
	}

	m.draft.Name = "Translate selection"
	m.draft.Prompt = "Translate to French:"
	m.formModel = "llama3"
	m.formTemp = "0.4"
	m.submitForm()
	m.closeForm()

	cmdSaved, ok := store.Command("Translate selection")
	if !ok || cmdSaved.Model != "llama3" || cmdSaved.Temperature == nil || *cmdSaved.Temperature != 0.4 {
		t.Fatalf("unexpected stored command %+v (found=%v)", cmdSaved, ok)
	}
	if m.status != "Added promptdeck:translate-selection" {
		t.Fatalf("unexpected status %q", m.status)
	}
	if len(m.commandList.Items()) != 3 {
		t.Fatalf("expected list to show the new command")
	}
}

// TestAddFormRejectsDuplicate verifies validation errors are shown, not stored.
func TestAddFormRejectsDuplicate(t *testing.T) {
	m, store, _ := newTestPanel(t, &stubFetcher{})
	_, _ = m.Update(key('a'))
	_, _ = m.Update(modelsFetchErr{picker: m.picker, error: errors.New("offline")})
	if m.state != viewForm {
		t.Fatalf("expected the form to open after a failed refresh, state=%v", m.state)
	}

	m.draft.Name = "Summarize selection"
	m.draft.Prompt = "Again"
	m.submitForm()

	if !m.statusErr || m.status != `A command named "Summarize selection" already exists` {
		t.Fatalf("unexpected status %q", m.status)
	}
	if len(store.Commands()) != 2 {
		t.Fatalf("expected store unchanged")
	}

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != viewCommands || m.form != nil {
		t.Fatalf("expected esc to cancel the form")
	}
}

// TestCommandKeys covers delete, merge, two-step reset and snippet copy.
func TestCommandKeys(t *testing.T) {
	m, store, copied := newTestPanel(t, &stubFetcher{})

	_, _ = m.Update(key('c'))
	if len(*copied) != 1 || !strings.Contains((*copied)[0], "command: promptdeck:summarize-selection") {
		t.Fatalf("unexpected clipboard contents %v", *copied)
	}

	_, _ = m.Update(key('d'))
	if _, ok := store.Command("Summarize selection"); ok {
		t.Fatal("expected selected command to be removed")
	}

	_, _ = m.Update(key('m'))
	names := []string{}
	for _, c := range store.Commands() {
		names = append(names, c.Name)
	}
	if strings.Join(names, ",") != "Explain selection,Summarize selection,Caption selection" {
		t.Fatalf("unexpected merge result %v", names)
	}

	_, _ = m.Update(key('R'))
	if len(store.Commands()) != 3 {
		t.Fatal("expected first R to only ask for confirmation")
	}
	_, _ = m.Update(key('j'))
	_, _ = m.Update(key('R'))
	if len(store.Commands()) != 3 {
		t.Fatal("expected another key between presses to cancel the reset")
	}
	_, _ = m.Update(key('R'))
	if got := store.Commands(); len(got) != 2 || got[0].Name != "Summarize selection" {
		t.Fatalf("expected reset to defaults, got %+v", got)
	}
}

// TestViewStates checks the rendered output of the main screens.
func TestViewStates(t *testing.T) {
	m, _, _ := newTestPanel(t, &stubFetcher{})

	fresh := newModel(context.Background(), Options{Store: settings.NewStore(settings.Settings{}, nil), Fetcher: &stubFetcher{}})
	if fresh.View() != "Initializing..." {
		t.Fatalf("expected placeholder before the first resize")
	}

	out := m.View()
	for _, want := range []string{"default model: llama2", "Summarize selection", "promptdeck:summarize-selection", "a: add"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
}

// TestDefaultModelPicker chooses the default model from the fetched list. The
// Default entry is not offered because it would point at itself.
func TestDefaultModelPicker(t *testing.T) {
	m, store, _ := newTestPanel(t, &stubFetcher{})

	_, cmd := m.Update(key('D'))
	if cmd == nil || m.state != viewModelPicker || m.target != targetDefaultModel {
		t.Fatalf("expected default model picker with a fetch; state=%v target=%v", m.state, m.target)
	}
	picker := m.picker
	if picker.Selected() != "llama2" {
		t.Fatalf("expected picker bound to llama2, got %q", picker.Selected())
	}

	_, _ = m.Update(modelsFetchedMsg{picker: picker, names: []string{"llama3", "phi3"}})
	var names []string
	for _, it := range m.modelList.Items() {
		names = append(names, it.(modelItem).name)
	}
	if strings.Join(names, ",") != "llama3,phi3,llama2" {
		t.Fatalf("unexpected default model options %v", names)
	}
	if m.modelList.Index() != 2 {
		t.Fatalf("expected the current default to be selected, got index %d", m.modelList.Index())
	}

	m.modelList.Select(1)
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != viewCommands {
		t.Fatalf("expected return to the command list, got %v", m.state)
	}
	if got := store.Settings().DefaultModel; got != "phi3" {
		t.Fatalf("expected default model phi3, got %q", got)
	}
	it := m.commandList.Items()[0].(commandItem)
	if it.model != "phi3" {
		t.Fatalf("expected commands without a model to resolve to phi3, got %q", it.model)
	}
}

// TestServerForm edits the server URL through its form.
func TestServerForm(t *testing.T) {
	m, store, _ := newTestPanel(t, &stubFetcher{})

	_, _ = m.Update(key('s'))
	if m.state != viewForm || m.form == nil || m.formKind != formServer {
		t.Fatalf("expected the server form, state=%v", m.state)
	}
	if m.serverURL != "http://localhost:11434" {
		t.Fatalf("expected the form to start from the current URL, got %q", m.serverURL)
	}

	m.serverURL = "http://models.lan:11434"
	m.submitServer()
	m.closeForm()

	if got := store.Settings().ServerURL; got != "http://models.lan:11434" {
		t.Fatalf("expected server URL to be stored, got %q", got)
	}
	if m.status != "Server URL set to http://models.lan:11434" || !strings.Contains(m.View(), "server: http://models.lan:11434") {
		t.Fatalf("unexpected status %q or header", m.status)
	}

	_, _ = m.Update(key('s'))
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != viewCommands || m.form != nil {
		t.Fatalf("expected esc to cancel the server form")
	}
	if got := store.Settings().ServerURL; got != "http://models.lan:11434" {
		t.Fatalf("cancel must not change the URL, got %q", got)
	}
}

// TestPickerKeysWaitForPendingFetch verifies no key replaces a picker that is
// still fetching, so the add form still opens when its models arrive.
func TestPickerKeysWaitForPendingFetch(t *testing.T) {
	m, _, _ := newTestPanel(t, &stubFetcher{})

	_, _ = m.Update(key('a'))
	formPicker := m.picker
	draft := m.draft

	for _, r := range []rune{'r', 'D', 's', 'a'} {
		_, cmd := m.Update(key(r))
		if cmd != nil {
			t.Fatalf("key %q started work while models were loading", r)
		}
		if m.picker != formPicker || m.draft != draft || m.state != viewCommands {
			t.Fatalf("key %q replaced the pending picker", r)
		}
		if m.status != "Models are already loading" {
			t.Fatalf("unexpected status %q after %q", m.status, r)
		}
	}

	_, _ = m.Update(modelsFetchedMsg{picker: formPicker, names: []string{"llama3"}})
	if m.state != viewForm || m.form == nil || m.formKind != formAddCommand {
		t.Fatalf("expected the add form to open, state=%v", m.state)
	}
}
