package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Search   key.Binding
	Tag      key.Binding
	Edition  key.Binding
	Reset    key.Binding
	Reload   key.Binding
	CopySite key.Binding
	Path     key.Binding
	Help     key.Binding
	Quit     key.Binding

	Preview     key.Binding
	HidePreview key.Binding
	OpenPreview key.Binding
	Open        key.Binding
	OpenExpress key.Binding
	OpenFull    key.Binding
	Copy        key.Binding

	SeeProject   key.Binding
	FirstExpress key.Binding
	FirstFull    key.Binding
	Back         key.Binding
	Up           key.Binding
	Down         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Tag:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tag")),
		Edition:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edition")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Reload:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		CopySite: key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "copy site link")),
		Path:     key.NewBinding(key.WithKeys("g", "tab"), key.WithHelp("g", "guided path")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "keys")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Preview:     key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p", "preview")),
		HidePreview: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hide preview")),
		OpenPreview: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open preview")),
		Open:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		OpenExpress: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "express")),
		OpenFull:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "full")),
		Copy:        key.NewBinding(key.WithKeys("y", "c"), key.WithHelp("y", "copy link")),

		SeeProject:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "see project")),
		FirstExpress: key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "first express")),
		FirstFull:    key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "first full")),
		Back:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Up:           key.NewBinding(key.WithKeys("up", "k", "ctrl+p")),
		Down:         key.NewBinding(key.WithKeys("down", "j", "ctrl+n")),
	}
}

// ShortHelp is the footer line for the cards pane.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Tag, k.Edition, k.Preview, k.Open, k.Copy, k.Path, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Tag, k.Edition, k.Reset, k.Reload, k.CopySite, k.Quit},
		{k.Preview, k.HidePreview, k.OpenPreview, k.Open, k.OpenExpress, k.OpenFull, k.Copy},
		{k.Path, k.SeeProject, k.FirstExpress, k.FirstFull, k.Back},
	}
}
