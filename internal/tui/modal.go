package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"showcase-cli/internal/session"
)

func modalBodyWidth(width int) int {
	w := width - 12
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

func renderModalBox(width int, title, body string) string {
	bodyW := modalBodyWidth(width)
	header := lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg).Render(truncateToWidth(title, bodyW))
	box := lipgloss.NewStyle().
		Width(bodyW+4).
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorModalBorder).
		Foreground(colorSurfaceFg)
	return box.Render(header + "\n\n" + body)
}

// renderPathModal draws the step modal: description, item list with the cursor
// row highlighted, and the key help.
func renderPathModal(width int, m session.ModalView, cursor int) string {
	bodyW := modalBodyWidth(width)
	parts := make([]string, 0, 6)
	if desc := renderMarkdown(m.Desc, bodyW); desc != "" {
		parts = append(parts, desc, "")
	}

	selected := lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
	if len(m.Items) == 0 {
		parts = append(parts, styleMuted().Render("No projects in this step."))
	}
	for i, it := range m.Items {
		line := fmt.Sprintf("%s %s  %s", it.Icon, it.Title, it.Difficulty)
		line = padOrCutANSI(truncateToWidth(line, bodyW), bodyW)
		if i == cursor {
			line = selected.Render(line)
		}
		parts = append(parts, line)
	}

	parts = append(parts, "", styleMuted().Width(bodyW).Render("x/f: open item   X/F: open first   s: see project   esc: close"))
	title := fmt.Sprintf("Step %d: %s", m.Step+1, m.Title)
	return renderModalBox(width, title, strings.Join(parts, "\n"))
}

func renderTagPicker(width int, tags []string, cursor int, current string) string {
	bodyW := modalBodyWidth(width)
	selected := lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
	lines := make([]string, 0, len(tags)+2)
	for i, t := range tags {
		mark := "  "
		if t == current {
			mark = "• "
		}
		line := padOrCutANSI(truncateToWidth(mark+t, bodyW), bodyW)
		if i == cursor {
			line = selected.Render(line)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", styleMuted().Render("enter: select   esc: cancel"))
	return renderModalBox(width, "Tag", strings.Join(lines, "\n"))
}

// renderPrompt shows a value the clipboard could not take, for manual copying.
func renderPrompt(width int, p promptState) string {
	bodyW := modalBodyWidth(width)
	value := lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Render(p.value)
	help := styleMuted().Width(bodyW).Render("Clipboard unavailable; select the text to copy.   enter/esc: close")
	return renderModalBox(width, p.label, lipgloss.NewStyle().Width(bodyW).Render(value)+"\n\n"+help)
}
