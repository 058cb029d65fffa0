package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Treble   key.Binding
	Bass     key.Binding
	Shorter  key.Binding
	Longer   key.Binding
	Reset    key.Binding
	Start    key.Binding
	Answer   key.Binding
	Skip     key.Binding
	Quit     key.Binding
	Again    key.Binding
	Menu     key.Binding
	ExitProg key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Treble:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "treble")),
		Bass:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bass")),
		Shorter:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "shorter")),
		Longer:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "longer")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Start:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "start")),
		Answer:   key.NewBinding(key.WithKeys("a", "b", "c", "d", "e", "f", "g", "A", "B", "C", "D", "E", "F", "G"), key.WithHelp("a-g", "answer")),
		Skip:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "skip")),
		Quit:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "quit")),
		Again:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play again")),
		Menu:     key.NewBinding(key.WithKeys("m", "esc"), key.WithHelp("m", "menu")),
		ExitProg: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "exit")),
	}
}

// bindings adapts a fixed list of bindings to help.KeyMap.
type bindings []key.Binding

func (b bindings) ShortHelp() []key.Binding {
	return b
}

func (b bindings) FullHelp() [][]key.Binding {
	return [][]key.Binding{b}
}

func (k keyMap) menuHelp() bindings {
	return bindings{k.Treble, k.Bass, k.Shorter, k.Longer, k.Reset, k.Start, k.ExitProg}
}

func (k keyMap) gameHelp() bindings {
	return bindings{k.Answer, k.Skip, k.Quit}
}

func (k keyMap) summaryHelp() bindings {
	return bindings{k.Again, k.Menu, k.ExitProg}
}
