package tui_test

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rollseq/rollseq/tracker"
	"github.com/rollseq/rollseq/tracker/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestDefaultKeymap(t *testing.T) {
	km, err := tui.LoadKeymap("")
	require.NoError(t, err)
	assert.Equal(t, []tracker.Command{tracker.CursorUp}, km.Commands(tea.KeyMsg{Type: tea.KeyUp}))
	assert.Equal(t, []tracker.Command{tracker.CursorUp}, km.Commands(runeKey('k')))
	assert.Equal(t, []tracker.Command{tracker.EndLongNote, tracker.ToggleNote}, km.Commands(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Equal(t, []tracker.Command{tracker.TogglePlayback}, km.Commands(runeKey(' ')))
	assert.Equal(t, []tracker.Command{tracker.Save}, km.Commands(tea.KeyMsg{Type: tea.KeyCtrlS}))
	assert.Empty(t, km.Commands(runeKey('Z')))
	assert.Equal(t, "q/ctrl+c", km.Hint(tracker.Quit))
	assert.Equal(t, "space", km.Hint(tracker.TogglePlayback))
}

func TestEveryCommandHasAKey(t *testing.T) {
	km, err := tui.LoadKeymap("")
	require.NoError(t, err)
	for c := range tracker.NumCommands {
		assert.NotEmpty(t, km.Hint(c), c.String())
	}
}

func TestCustomKeymap(t *testing.T) {
	dir := t.TempDir()
	yml := "- {key: q, command: ''}\n- {key: Q, command: Quit}\n- {key: enter, command: ToggleNote}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keybindings.yml"), []byte(yml), 0644))
	km, err := tui.LoadKeymap(dir)
	require.NoError(t, err)
	assert.Empty(t, km.Commands(runeKey('q')))
	assert.Equal(t, []tracker.Command{tracker.Quit}, km.Commands(runeKey('Q')))
	assert.Equal(t, []tracker.Command{tracker.ToggleNote}, km.Commands(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Equal(t, "ctrl+c/Q", km.Hint(tracker.Quit))
}

func TestKeymapErrors(t *testing.T) {
	_, err := tui.NewKeymap([]tui.KeyBinding{{Key: "u", Command: "Undo"}})
	assert.Error(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keybindings.yml"), []byte("- {key: q, action: Quit}\n"), 0644))
	km, err := tui.LoadKeymap(dir)
	assert.Error(t, err, "unknown fields are rejected")
	assert.Equal(t, []tracker.Command{tracker.Quit}, km.Commands(runeKey('q')), "the defaults are kept")
}
