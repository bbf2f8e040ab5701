package prompt

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withRunForm(t *testing.T, fn func(form *huh.Form) error) {
	t.Helper()
	orig := runFormFunc
	runFormFunc = fn
	t.Cleanup(func() { runFormFunc = orig })
}

func TestNewHuhUI(t *testing.T) {
	ui := NewHuhUI()
	require.NotNil(t, ui)
	assert.NotNil(t, ui.isTerminal)
}

func TestHuhUI_NoTTY(t *testing.T) {
	ui := &HuhUI{isTerminal: func() bool { return false }}
	called := false
	withRunForm(t, func(*huh.Form) error {
		called = true
		return nil
	})

	var selected []string
	err := ui.MultiSelect("Title", []Option{{Label: "a (1.0.0) -> (1.1.0)", Value: "a"}}, &selected)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a terminal")

	var ok bool
	assert.Error(t, ui.Confirm("Title", &ok))
	assert.False(t, called)
}

func TestHuhUI_RunsFormWhenInteractive(t *testing.T) {
	ui := &HuhUI{isTerminal: func() bool { return true }}
	withRunForm(t, func(form *huh.Form) error {
		require.NotNil(t, form)
		return nil
	})

	selected := []string{"a"}
	require.NoError(t, ui.MultiSelect("Title", []Option{{Label: "A", Value: "a"}, {Label: "B", Value: "b"}}, &selected))
	var ok bool
	require.NoError(t, ui.Confirm("Title", &ok))
}

func TestHuhUI_AbortMapsToCancelled(t *testing.T) {
	ui := &HuhUI{isTerminal: func() bool { return true }}
	withRunForm(t, func(*huh.Form) error { return huh.ErrUserAborted })

	var ok bool
	err := ui.Confirm("Title", &ok)
	assert.True(t, errors.Is(err, ErrCancelled))
}

func TestHuhUI_PassesOtherErrors(t *testing.T) {
	ui := &HuhUI{isTerminal: func() bool { return true }}
	boom := errors.New("boom")
	withRunForm(t, func(*huh.Form) error { return boom })

	var selected []string
	assert.Equal(t, boom, ui.MultiSelect("Title", nil, &selected))
}

func TestInterruptFilter(t *testing.T) {
	assert.Equal(t, tea.QuitMsg{}, interruptFilter(nil, tea.InterruptMsg{}))
	keyMsg := tea.KeyMsg{Type: tea.KeyEnter}
	assert.Equal(t, keyMsg, interruptFilter(nil, keyMsg))
}
