package catalog

import (
	"context"
	"slices"
)

// PickerState is the population state of a model-choice control.
type PickerState int

const (
	// PickerIdle has never been refreshed.
	PickerIdle PickerState = iota
	// PickerFetching has a refresh outstanding; the control is disabled.
	PickerFetching
	// PickerPopulated holds the options of the last successful refresh.
	PickerPopulated
	// PickerFailed saw its last refresh fail; earlier options are kept.
	PickerFailed
)

func (s PickerState) String() string {
	switch s {
	case PickerIdle:
		return "idle"
	case PickerFetching:
		return "fetching"
	case PickerPopulated:
		return "populated"
	case PickerFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ModelPicker is the handle for one model-choice control. The presentation
// layer creates it, keeps it, and passes it to every operation on the control.
// It is meant to be driven from a single goroutine.
type ModelPicker struct {
	state    PickerState
	options  []string
	selected string
	lastErr  error
}

// NewModelPicker returns an idle picker bound to a model field value.
func NewModelPicker(bound string) *ModelPicker {
	p := &ModelPicker{selected: InitialSelection(bound)}
	p.options = []string{DefaultToken}
	if p.selected != DefaultToken {
		p.options = append(p.options, p.selected)
	}
	return p
}

// State returns the current population state.
func (p *ModelPicker) State() PickerState { return p.state }

// Disabled reports whether the control must refuse interaction.
func (p *ModelPicker) Disabled() bool { return p.state == PickerFetching }

// Options returns a copy of the current options.
func (p *ModelPicker) Options() []string { return slices.Clone(p.options) }

// Selected returns the chosen option.
func (p *ModelPicker) Selected() string { return p.selected }

// Field returns the selection as a model field value.
func (p *ModelPicker) Field() string { return SelectionToField(p.selected) }

// Err returns the error of the last failed refresh, if the picker is Failed.
func (p *ModelPicker) Err() error {
	if p.state != PickerFailed {
		return nil
	}
	return p.lastErr
}

// Select chooses an option. It reports false when the control is disabled or
// the value is not one of the options.
func (p *ModelPicker) Select(option string) bool {
	if p.Disabled() || !slices.Contains(p.options, option) {
		return false
	}
	p.selected = option
	return true
}

// Begin moves the picker to Fetching. It reports false, starting nothing, when
// a refresh is already outstanding.
func (p *ModelPicker) Begin() bool {
	if p.state == PickerFetching {
		return false
	}
	p.state = PickerFetching
	return true
}

// Complete ends an outstanding refresh. On success the options are replaced by
// the selectable list; on failure they are left exactly as they were.
func (p *ModelPicker) Complete(names []string, err error) {
	if p.state != PickerFetching {
		return
	}
	if err != nil {
		p.state = PickerFailed
		p.lastErr = err
		return
	}
	p.options = BuildSelectableList(names)
	p.lastErr = nil
	p.state = PickerPopulated
	if !slices.Contains(p.options, p.selected) {
		p.options = append(p.options, p.selected)
	}
}

// Refresh runs a whole refresh synchronously. It returns nil without fetching
// when one is already outstanding.
func (p *ModelPicker) Refresh(ctx context.Context, f Fetcher, serverURL string) error {
	if !p.Begin() {
		return nil
	}
	names, err := f.FetchModelNames(ctx, serverURL)
	p.Complete(names, err)
	return err
}
