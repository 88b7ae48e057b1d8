package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"showcase-cli/internal/session"
)

type cardItem struct {
	card session.Card
}

func (i cardItem) FilterValue() string { return i.card.Title }

type stepItem struct {
	step session.StepEntry
}

func (i stepItem) FilterValue() string { return i.step.Title }

func (i stepItem) Title() string {
	return fmt.Sprintf("%s. %s", i.step.Label, i.step.Title)
}

func (i stepItem) Description() string {
	desc := strings.TrimSpace(i.step.Desc)
	if desc == "" {
		return i.step.Difficulty
	}
	return i.step.Difficulty + " • " + desc
}

func cardItems(cards []session.Card) []list.Item {
	items := make([]list.Item, 0, len(cards))
	for _, c := range cards {
		items = append(items, cardItem{card: c})
	}
	return items
}

func stepItems(steps []session.StepEntry) []list.Item {
	items := make([]list.Item, 0, len(steps))
	for _, s := range steps {
		items = append(items, stepItem{step: s})
	}
	return items
}

func newList(title string, delegate list.ItemDelegate, items []list.Item) list.Model {
	l := list.New(items, delegate, 0, 0)
	l.Title = title
	// The app draws its own header and footer, so keep list chrome minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	// Search is driven by the catalog query, not the list's own filter.
	l.SetFilteringEnabled(false)
	// esc and q belong to the app (close modal, quit).
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	l.KeyMap.ShowFullHelp.SetEnabled(false)
	l.KeyMap.CloseFullHelp.SetEnabled(false)

	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	cursorUpKeys = append(cursorUpKeys, "ctrl+p")
	l.KeyMap.CursorUp.SetKeys(cursorUpKeys...)

	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	cursorDownKeys = append(cursorDownKeys, "ctrl+n")
	l.KeyMap.CursorDown.SetKeys(cursorDownKeys...)

	// g/G are app keys; keep home/end and add </> for jumping.
	l.KeyMap.GoToStart.SetKeys("home", "<")
	l.KeyMap.GoToEnd.SetKeys("end", ">")
	// h/f are card actions.
	l.KeyMap.PrevPage.SetKeys("left", "pgup")
	l.KeyMap.NextPage.SetKeys("right", "pgdown")
	return l
}

// selectCardByKey moves the cursor to the card with the given key.
func selectCardByKey(l *list.Model, key string) bool {
	for i, it := range l.Items() {
		if ci, ok := it.(cardItem); ok && ci.card.Key == key {
			l.Select(i)
			return true
		}
	}
	return false
}
