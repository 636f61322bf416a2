package config

import (
	"sort"
	"strings"
)

// Actions that keys can be bound to.
const (
	ActionToggleChat  = "toggle_chat"
	ActionClose       = "close"
	ActionSend        = "send"
	ActionToggleEmoji = "toggle_emoji"
	ActionScrollUp    = "scroll_up"
	ActionScrollDown  = "scroll_down"
	ActionQuit        = "quit"
	ActionToggleHelp  = "toggle_help"
)

var knownActions = map[string]map[string]bool{
	"widget": {
		ActionToggleChat: true, ActionClose: true, ActionSend: true,
		ActionToggleEmoji: true, ActionScrollUp: true, ActionScrollDown: true,
	},
	"system": {ActionQuit: true, ActionToggleHelp: true},
}

var actionDescriptions = map[string]string{
	ActionToggleChat:  "Open or close the chat",
	ActionClose:       "Close emoji picker, then the chat",
	ActionSend:        "Send message",
	ActionToggleEmoji: "Toggle emoji picker",
	ActionScrollUp:    "Scroll to older messages",
	ActionScrollDown:  "Scroll to newer messages",
	ActionQuit:        "Quit",
	ActionToggleHelp:  "Toggle help",
}

// Keybinding represents a single keybinding entry
type Keybinding struct {
	Key         string
	Description string
}

// KeybindingSection represents a section of related keybindings
type KeybindingSection struct {
	Title    string
	Bindings []Keybinding
}

// KeybindRegistry resolves keys to actions from the user's bindings.
type KeybindRegistry struct {
	byKey    map[string]string
	byAction map[string][]string
}

// NewKeybindRegistry indexes the [keybindings] section. A key bound to two
// actions resolves to the alphabetically first one.
func NewKeybindRegistry(cfg *UserConfig) *KeybindRegistry {
	r := &KeybindRegistry{
		byKey:    make(map[string]string),
		byAction: make(map[string][]string),
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	for _, section := range []map[string][]string{cfg.Keybindings.Widget, cfg.Keybindings.System} {
		actions := make([]string, 0, len(section))
		for action := range section {
			actions = append(actions, action)
		}
		sort.Strings(actions)
		for _, action := range actions {
			for _, key := range section[action] {
				key = normalizeKey(key)
				if key == "" {
					continue
				}
				if _, taken := r.byKey[key]; !taken {
					r.byKey[key] = action
				}
				r.byAction[action] = append(r.byAction[action], key)
			}
		}
	}
	return r
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// GetAction returns the action bound to key, or "".
func (r *KeybindRegistry) GetAction(key string) string {
	return r.byKey[normalizeKey(key)]
}

// GetKeys returns the keys bound to action.
func (r *KeybindRegistry) GetKeys(action string) []string {
	return r.byAction[action]
}

// GetKeysForDisplay returns the keys for action formatted for help output.
func (r *KeybindRegistry) GetKeysForDisplay(action string) string {
	keys := r.byAction[action]
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = displayKey(k)
	}
	return strings.Join(out, ", ")
}

func displayKey(k string) string {
	parts := strings.Split(k, "+")
	for i, p := range parts {
		switch p {
		case "ctrl", "alt", "shift", "esc", "enter", "tab", "pgup", "pgdown", "up", "down":
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		default:
			if len(p) > 1 && p[0] == 'f' {
				parts[i] = strings.ToUpper(p)
			}
		}
	}
	return strings.Join(parts, "+")
}

// GetKeybindings returns the help sections. A nil registry uses defaults.
func GetKeybindings(registry *KeybindRegistry) []KeybindingSection {
	if registry == nil {
		registry = NewKeybindRegistry(nil)
	}

	chat := KeybindingSection{Title: "CHAT"}
	for _, action := range []string{ActionToggleChat, ActionClose, ActionSend, ActionToggleEmoji, ActionScrollUp, ActionScrollDown} {
		addBinding(&chat, registry, action)
	}
	system := KeybindingSection{Title: "SYSTEM"}
	addBinding(&system, registry, ActionToggleHelp)
	addBinding(&system, registry, ActionQuit)

	return []KeybindingSection{chat, system, {
		Title: "MOUSE",
		Bindings: []Keybinding{
			{"Click anchor", "Open or close the chat"},
			{"Drag anchor or header", "Move the widget"},
			{"Click ☺", "Toggle emoji picker"},
			{"Wheel over chat", "Scroll messages"},
		},
	}}
}

func addBinding(section *KeybindingSection, registry *KeybindRegistry, action string) {
	if keys := registry.GetKeysForDisplay(action); keys != "" {
		section.Bindings = append(section.Bindings, Keybinding{Key: keys, Description: actionDescriptions[action]})
	}
}
