// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/brightfold/studio-tui/internal/tools"
	"github.com/brightfold/studio-tui/internal/ui/styles"
)

// =============================================================================
// PARAMETER FORM
// =============================================================================

// ParamForm collects the required parameters for a pending tool request,
// one field at a time. Every required parameter gets a field so values
// extracted from the utterance can be reviewed and corrected before the
// tool runs. Text parameters use a free-form input; select parameters
// cycle through their options with the arrow keys.
type ParamForm struct {
	Tool    *tools.Tool
	fields  []tools.Parameter
	prefill map[string]string
	values  map[string]string

	index     int
	optionIdx int
	input     textinput.Model

	done      bool
	cancelled bool
	width     int
	theme     *styles.Theme
}

// NewParamForm creates a form over the tool's required parameters, seeded
// with whatever the pending request already extracted.
func NewParamForm(pending *tools.PendingRequest, theme *styles.Theme) *ParamForm {
	input := textinput.New()
	input.CharLimit = 500
	input.Width = 50
	input.Focus()

	prefill := make(map[string]string, len(pending.Params))
	for k, v := range pending.Params {
		prefill[k] = v
	}

	f := &ParamForm{
		Tool:    pending.Tool,
		fields:  pending.Tool.RequiredParameters(),
		prefill: prefill,
		values:  map[string]string{},
		input:   input,
		width:   80,
		theme:   theme,
	}
	f.prepareField()
	return f
}

// SetWidth sets the render width.
func (f *ParamForm) SetWidth(width int) {
	f.width = width
}

// Done reports whether every field has been filled in.
func (f *ParamForm) Done() bool { return f.done }

// Cancelled reports whether the user abandoned the form.
func (f *ParamForm) Cancelled() bool { return f.cancelled }

// Values returns the collected parameter values.
func (f *ParamForm) Values() map[string]string { return f.values }

// Current returns the field being collected, or nil when the form is done.
func (f *ParamForm) Current() *tools.Parameter {
	if f.index >= len(f.fields) {
		return nil
	}
	return &f.fields[f.index]
}

// prepareField resets per-field state when advancing to the next parameter.
func (f *ParamForm) prepareField() {
	if f.index >= len(f.fields) {
		f.done = true
		return
	}
	field := f.fields[f.index]
	f.optionIdx = 0
	f.input.SetValue(f.prefill[field.Name])
	f.input.CursorEnd()
	f.input.Placeholder = field.Placeholder

	if field.Type == tools.ParamSelect {
		for i, opt := range field.Options {
			if strings.EqualFold(opt, f.prefill[field.Name]) {
				f.optionIdx = i
				break
			}
		}
	}
}

// Update handles key input for the form.
func (f *ParamForm) Update(msg tea.Msg) (*ParamForm, tea.Cmd) {
	if f.done || f.cancelled {
		return f, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		f.input, cmd = f.input.Update(msg)
		return f, cmd
	}

	field := f.Current()
	if field == nil {
		return f, nil
	}

	switch keyMsg.Type {
	case tea.KeyEsc:
		f.cancelled = true
		return f, nil

	case tea.KeyEnter:
		return f.submitField(field), nil

	case tea.KeyUp, tea.KeyShiftTab:
		if field.Type == tools.ParamSelect && len(field.Options) > 0 {
			f.optionIdx = (f.optionIdx - 1 + len(field.Options)) % len(field.Options)
			return f, nil
		}

	case tea.KeyDown, tea.KeyTab:
		if field.Type == tools.ParamSelect && len(field.Options) > 0 {
			f.optionIdx = (f.optionIdx + 1) % len(field.Options)
			return f, nil
		}
	}

	if field.Type == tools.ParamText {
		var cmd tea.Cmd
		f.input, cmd = f.input.Update(msg)
		return f, cmd
	}
	return f, nil
}

// submitField commits the current field's value and advances.
// Required fields reject empty values and keep focus.
func (f *ParamForm) submitField(field *tools.Parameter) *ParamForm {
	var value string
	switch field.Type {
	case tools.ParamSelect:
		if len(field.Options) > 0 {
			value = field.Options[f.optionIdx]
		}
	default:
		value = strings.TrimSpace(f.input.Value())
	}

	if value == "" && field.Required {
		return f
	}

	f.values[field.Name] = value
	f.index++
	f.prepareField()
	return f
}

// View renders the form.
func (f *ParamForm) View() string {
	if f.done || f.cancelled {
		return ""
	}
	field := f.Current()
	if field == nil {
		return ""
	}

	var b strings.Builder

	title := f.theme.FormTitle.Render(f.Tool.Name)
	step := f.theme.FormHint.Render(
		"step " + strconv.Itoa(f.index+1) + " of " + strconv.Itoa(len(f.fields)))
	b.WriteString(title + "  " + step + "\n\n")

	b.WriteString(f.theme.FormLabel.Render(field.Label) + "\n")

	switch field.Type {
	case tools.ParamSelect:
		var opts []string
		for i, opt := range field.Options {
			if i == f.optionIdx {
				opts = append(opts, f.theme.FormOptionSelected.Render(opt))
			} else {
				opts = append(opts, f.theme.FormOption.Render(opt))
			}
		}
		b.WriteString(strings.Join(opts, "\n"))
		b.WriteString("\n" + f.theme.FormHint.Render("up/down to choose, enter to confirm, esc to cancel"))
	default:
		b.WriteString(f.input.View())
		b.WriteString("\n" + f.theme.FormHint.Render("enter to confirm, esc to cancel"))
	}

	maxWidth := f.width - 4
	if maxWidth < 30 {
		maxWidth = 30
	}
	return f.theme.FormBox.MaxWidth(maxWidth).Render(b.String())
}
