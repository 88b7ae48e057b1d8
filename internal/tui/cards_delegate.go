package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"showcase-cli/internal/model"
	"showcase-cli/internal/session"
)

const cardInnerLines = 5

type cardDelegate struct {
	view *termView

	normalCard   lipgloss.Style
	selectedCard lipgloss.Style

	titleStyle   lipgloss.Style
	metaStyle    lipgloss.Style
	tagStyle     lipgloss.Style
	previewStyle lipgloss.Style
}

func newCardDelegate(v *termView) cardDelegate {
	base := lipgloss.NewStyle().
		Padding(0, 1, 0, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorCardBorder).
		Foreground(colorSurfaceFg)

	return cardDelegate{
		view:         v,
		normalCard:   base,
		selectedCard: base.BorderForeground(colorSelectedBorder),
		titleStyle:   lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg),
		metaStyle:    lipgloss.NewStyle().Foreground(colorCardMetaFg),
		tagStyle:     lipgloss.NewStyle().Foreground(colorAccent),
		previewStyle: lipgloss.NewStyle().Foreground(colorAccentFg).Background(colorAccent),
	}
}

func (d cardDelegate) Height() int  { return cardInnerLines + 2 }
func (d cardDelegate) Spacing() int { return 0 }
func (d cardDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d cardDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(cardItem)
	totalW := m.Width()
	if !ok || totalW < 12 {
		fmt.Fprint(w, "")
		return
	}

	card := d.normalCard
	if index == m.Index() {
		card = d.selectedCard
	}
	innerW := totalW - card.GetHorizontalFrameSize()
	if innerW < 1 {
		innerW = 1
	}
	card = card.Width(innerW)

	c := it.card
	meta := c.Difficulty
	if len(c.Tags) > 0 {
		meta += "  " + d.tagStyle.Render("#"+strings.Join(c.Tags, " #"))
	}
	skills := ""
	if len(c.Skills) > 0 {
		skills = "skills: " + strings.Join(c.Skills, ", ")
	}

	lines := []string{
		d.titleStyle.Render(truncateToWidth(c.Icon+" "+c.Title, innerW)),
		d.metaStyle.Render(truncateToWidth(c.Summary, innerW)),
		d.metaStyle.Render(meta),
		d.metaStyle.Render(truncateToWidth(skills, innerW)),
		d.linkLine(c, innerW),
	}
	for i := range lines {
		lines[i] = padOrCutANSI(lines[i], innerW)
	}
	fmt.Fprint(w, card.Render(strings.Join(lines, "\n")))
}

// linkLine shows the open preview's source, or the direct edition links.
func (d cardDelegate) linkLine(c session.Card, innerW int) string {
	if d.view != nil {
		if p := d.view.previews[c.Key]; p.Open {
			return d.previewStyle.Render(truncateToWidth("▶ "+c.Edition.Label()+" preview: "+p.Src, innerW))
		}
	}
	links := make([]string, 0, 2)
	if c.Express != model.MissingLink {
		links = append(links, "Express ↗")
	}
	if c.Full != model.MissingLink {
		links = append(links, "Full ↗")
	}
	if len(links) == 0 {
		return styleMuted().Render("no links")
	}
	return styleMuted().Render(strings.Join(links, "  "))
}
