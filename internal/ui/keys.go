package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	PanLeft     key.Binding
	PanRight    key.Binding
	ZoomIn      key.Binding
	ZoomOut     key.Binding
	Fit         key.Binding
	ExpandKind  key.Binding
	CollapseAll key.Binding
	NextProfile key.Binding
	PrevProfile key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		PanLeft: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "pan left"),
		),
		PanRight: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "pan right"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "zoom out"),
		),
		Fit: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "fit"),
		),
		ExpandKind: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "expand kind"),
		),
		CollapseAll: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "collapse all"),
		),
		NextProfile: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next profile"),
		),
		PrevProfile: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous profile"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// WithOverrides rebinds actions named in overrides (action name to a comma
// separated key list). Unknown actions are ignored.
func (keys KeyMap) WithOverrides(overrides map[string]string) KeyMap {
	bindings := map[string]*key.Binding{
		"up":          &keys.Up,
		"down":        &keys.Down,
		"pageUp":      &keys.PageUp,
		"pageDown":    &keys.PageDown,
		"panLeft":     &keys.PanLeft,
		"panRight":    &keys.PanRight,
		"zoomIn":      &keys.ZoomIn,
		"zoomOut":     &keys.ZoomOut,
		"fit":         &keys.Fit,
		"collapseAll": &keys.CollapseAll,
		"nextProfile": &keys.NextProfile,
		"prevProfile": &keys.PrevProfile,
		"help":        &keys.Help,
		"quit":        &keys.Quit,
	}
	for action, value := range overrides {
		binding, ok := bindings[action]
		if !ok {
			continue
		}
		var list []string
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				list = append(list, trimmed)
			}
		}
		if len(list) == 0 {
			continue
		}
		help := binding.Help()
		*binding = key.NewBinding(key.WithKeys(list...), key.WithHelp(strings.Join(list, "/"), help.Desc))
	}
	return keys
}

func (keys KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.ZoomIn, keys.ZoomOut, keys.Fit, keys.ExpandKind, keys.NextProfile, keys.Help, keys.Quit}
}

func (keys KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{keys.Up, keys.Down, keys.PageUp, keys.PageDown},
		{keys.PanLeft, keys.PanRight, keys.ZoomIn, keys.ZoomOut, keys.Fit},
		{keys.ExpandKind, keys.CollapseAll, keys.NextProfile, keys.PrevProfile},
		{keys.Help, keys.Quit},
	}
}
