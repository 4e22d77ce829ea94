package tui

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rollseq/rollseq/tracker"
	"gopkg.in/yaml.v3"
)

type (
	KeyBinding struct {
		Key     string `yaml:"key"`
		Command string `yaml:"command"`
	}

	// Keymap maps keys to commands. A key can run one of several commands;
	// the first one enabled wins.
	Keymap struct {
		keys     []string // in the order of first binding
		bindings map[string][]boundCommand
	}

	boundCommand struct {
		key.Binding
		Command tracker.Command
	}
)

//go:embed keybindings.yml
var defaultKeyBindings []byte

func decodeKeyBindings(data []byte) ([]KeyBinding, error) {
	var keyBindings []KeyBinding
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&keyBindings); err != nil {
		return nil, err
	}
	return keyBindings, nil
}

// LoadKeymap returns the default key bindings, with the keys bound in the
// keybindings.yml of dir replacing the defaults.
func LoadKeymap(dir string) (Keymap, error) {
	keyBindings, err := decodeKeyBindings(defaultKeyBindings)
	if err != nil {
		panic(fmt.Errorf("failed to unmarshal default keybindings: %w", err))
	}
	km, err := NewKeymap(keyBindings)
	if err != nil {
		panic(fmt.Errorf("invalid default keybindings: %w", err))
	}
	if dir == "" {
		return km, nil
	}
	data, err := os.ReadFile(filepath.Join(dir, "keybindings.yml"))
	if os.IsNotExist(err) {
		return km, nil
	}
	if err != nil {
		return km, err
	}
	userBindings, err := decodeKeyBindings(data)
	if err != nil {
		return km, fmt.Errorf("keybindings.yml: %w", err)
	}
	return km.Override(userBindings)
}

// NewKeymap builds a keymap from a list of bindings. Bindings with an empty
// command are ignored.
func NewKeymap(keyBindings []KeyBinding) (Keymap, error) {
	return Keymap{bindings: map[string][]boundCommand{}}.Override(keyBindings)
}

// Override returns a copy of the keymap where every key mentioned in
// keyBindings is bound only to the commands listed for it there.
func (km Keymap) Override(keyBindings []KeyBinding) (Keymap, error) {
	ret := Keymap{keys: append([]string(nil), km.keys...), bindings: map[string][]boundCommand{}}
	for k, b := range km.bindings {
		ret.bindings[k] = b
	}
	overridden := map[string]bool{}
	for _, kb := range keyBindings {
		if !overridden[kb.Key] {
			overridden[kb.Key] = true
			if _, ok := ret.bindings[kb.Key]; !ok {
				ret.keys = append(ret.keys, kb.Key)
			}
			ret.bindings[kb.Key] = nil
		}
		if kb.Command == "" { // unbind
			continue
		}
		c, ok := tracker.ParseCommand(kb.Command)
		if !ok {
			return km, fmt.Errorf("unknown command %q bound to key %q", kb.Command, kb.Key)
		}
		b := key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(displayKey(kb.Key), c.String()))
		ret.bindings[kb.Key] = append(ret.bindings[kb.Key], boundCommand{b, c})
	}
	return ret, nil
}

// Commands returns the commands bound to the key of msg, in priority order.
func (km Keymap) Commands(msg tea.KeyMsg) []tracker.Command {
	var ret []tracker.Command
	for _, b := range km.bindings[msg.String()] {
		if key.Matches(msg, b.Binding) {
			ret = append(ret, b.Command)
		}
	}
	return ret
}

// Hint returns the keys bound to a command, e.g. "q/ctrl+c", or an empty
// string if there are none.
func (km Keymap) Hint(c tracker.Command) string {
	var keys []string
	for _, k := range km.keys {
		for _, b := range km.bindings[k] {
			if b.Command == c {
				keys = append(keys, b.Help().Key)
			}
		}
	}
	return strings.Join(keys, "/")
}

func displayKey(k string) string {
	if k == " " {
		return "space"
	}
	return k
}
