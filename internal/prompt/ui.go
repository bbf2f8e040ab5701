// Package prompt renders interactive package selection.
package prompt

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/conn-castle/cargo-install-upgrade/internal/messages"
	"github.com/conn-castle/cargo-install-upgrade/internal/terminal"
)

// ErrCancelled is returned when the user aborts a prompt.
var ErrCancelled = errors.New(messages.PromptCancelled)

// Option is one selectable entry: Label is shown, Value is returned.
type Option struct {
	Label string
	Value string
}

// UI defines the interaction methods.
type UI interface {
	MultiSelect(title string, options []Option, selected *[]string) error
	Confirm(title string, value *bool) error
}

// HuhUI implements UI using charmbracelet/huh.
type HuhUI struct {
	isTerminal func() bool
}

var runFormFunc = func(form *huh.Form) error { return form.Run() }

// NewHuhUI creates a new HuhUI using terminal.IsInteractive.
func NewHuhUI() *HuhUI {
	return &HuhUI{isTerminal: terminal.IsInteractive}
}

// ensureInteractive returns an error when the UI is invoked without a terminal.
func (ui *HuhUI) ensureInteractive() error {
	checker := ui.isTerminal
	if checker == nil {
		checker = terminal.IsInteractive
	}
	if checker() {
		return nil
	}
	return fmt.Errorf(messages.PromptRequiresTerminal)
}

func keyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("ctrl+c", "esc"))
	return km
}

// interruptFilter turns interrupts into a quit so the renderer clears the form.
func interruptFilter(_ tea.Model, msg tea.Msg) tea.Msg {
	if _, ok := msg.(tea.InterruptMsg); ok {
		return tea.QuitMsg{}
	}
	return msg
}

// runForm validates terminal availability and runs the provided form.
func (ui *HuhUI) runForm(form *huh.Form) error {
	if err := ui.ensureInteractive(); err != nil {
		return err
	}
	form.WithKeyMap(keyMap())
	form.WithProgramOptions(
		tea.WithOutput(os.Stderr),
		tea.WithFilter(interruptFilter),
	)
	err := runFormFunc(form)
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrCancelled
	}
	return err
}

// MultiSelect renders a multi-choice prompt. Values already in *selected
// start checked.
func (ui *HuhUI) MultiSelect(title string, options []Option, selected *[]string) error {
	checked := make(map[string]bool, len(*selected))
	for _, v := range *selected {
		checked[v] = true
	}
	opts := make([]huh.Option[string], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o.Label, o.Value).Selected(checked[o.Value])
	}

	return ui.runForm(huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title(title).
				Filterable(false).
				Options(opts...).
				Value(selected),
		),
	))
}

// Confirm renders a yes/no prompt.
func (ui *HuhUI) Confirm(title string, value *bool) error {
	return ui.runForm(huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Value(value),
		),
	))
}
