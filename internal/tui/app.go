package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"showcase-cli/internal/model"
	"showcase-cli/internal/session"
	"showcase-cli/internal/store"
)

type pane int

const (
	paneCards pane = iota
	paneSteps
)

type overlay int

const (
	overlayNone overlay = iota
	overlayTags
	overlayHelp
)

const toastDuration = 1400 * time.Millisecond

type toastExpiredMsg struct{ seq int }

type reloadResultMsg struct {
	catalog model.Catalog
	err     error
}

type appModel struct {
	sess   *session.Session
	view   *termView
	loader *store.Loader
	log    *zap.Logger
	keys   keyMap
	help   help.Model

	width  int
	height int

	pane    pane
	overlay overlay

	cards  list.Model
	steps  list.Model
	search textinput.Model

	tagCursor   int
	modalCursor int

	// Last seen termView counters.
	cardsSeq    int
	controlsSeq int
	toastSeq    int
	toast       string
}

func newAppModel(opts Options) appModel {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	var clip session.Clipboard = systemClipboard{}
	if opts.Clipboard != nil {
		clip = opts.Clipboard
	}
	var opener session.Opener = osOpener{}
	if opts.Opener != nil {
		opener = opts.Opener
	}

	v := newTermView()
	sess := session.New(session.Options{
		Store:     opts.Store,
		View:      v,
		Clipboard: clip,
		Notifier:  v,
		Opener:    opener,
		PageURL:   opts.PageURL,
		Logger:    log,
	})

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "Search title, summary, skills, tags"

	m := appModel{
		sess:   sess,
		view:   v,
		loader: opts.Loader,
		log:    log,
		keys:   defaultKeyMap(),
		help:   help.New(),
		pane:   paneCards,
		cards:  newList("Projects", newCardDelegate(v), nil),
		steps:  newList("Guided path", list.NewDefaultDelegate(), nil),
		search: search,
	}
	sess.Start(opts.Link)
	_ = m.sync()
	return m
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case ReloadedMsg:
		m.sess.Reload(msg.Catalog)
		return m.synced()

	case reloadResultMsg:
		if msg.err != nil {
			m.log.Warn("catalog reload failed; keeping current catalog", zap.Error(msg.err))
			m.view.Toast("Reload failed")
			return m.synced()
		}
		m.sess.Reload(msg.catalog)
		m.view.Toast("Catalog reloaded")
		return m.synced()

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	if m.search.Focused() {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch {
	case m.view.prompt != nil:
		switch msg.String() {
		case "enter", "esc", "q":
			m.view.prompt = nil
		}
		return m, nil
	case m.search.Focused():
		return m.updateSearch(msg)
	case m.overlay == overlayHelp:
		switch msg.String() {
		case "esc", "?", "q":
			m.overlay = overlayNone
		}
		return m, nil
	case m.overlay == overlayTags:
		return m.updateTagPicker(msg)
	case m.view.modal.Open:
		return m.updateModal(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.overlay = overlayHelp
		return m, nil
	case key.Matches(msg, m.keys.Search):
		cmd := m.search.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Tag):
		m.overlay = overlayTags
		m.tagCursor = 0
		for i, t := range m.view.tags {
			if t == m.view.tag {
				m.tagCursor = i
			}
		}
		return m, nil
	case key.Matches(msg, m.keys.Edition):
		m.sess.SetEdition(m.sess.State().Edition.Other())
		return m.synced()
	case key.Matches(msg, m.keys.Reset):
		m.sess.Reset()
		return m.synced()
	case key.Matches(msg, m.keys.Reload):
		return m, m.reloadCmd()
	case key.Matches(msg, m.keys.CopySite):
		m.sess.CopySiteLink()
		return m.synced()
	case key.Matches(msg, m.keys.Path):
		if m.pane == paneSteps {
			m.pane = paneCards
		} else if len(m.view.steps) > 0 {
			m.pane = paneSteps
		}
		return m, nil
	}

	if m.pane == paneSteps {
		return m.updateSteps(msg)
	}
	return m.updateCards(msg)
}

func (m appModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.search.Blur()
		return m, nil
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != before {
		m.sess.SetQuery(v)
		syncCmd := m.sync()
		return m, tea.Batch(cmd, syncCmd)
	}
	return m, cmd
}

func (m appModel) updateTagPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.overlay = overlayNone
	case key.Matches(msg, m.keys.Up):
		if m.tagCursor > 0 {
			m.tagCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.tagCursor < len(m.view.tags)-1 {
			m.tagCursor++
		}
	case key.Matches(msg, m.keys.Open):
		m.overlay = overlayNone
		if m.tagCursor >= 0 && m.tagCursor < len(m.view.tags) {
			m.sess.SetTag(m.view.tags[m.tagCursor])
			return m.synced()
		}
	}
	return m, nil
}

func (m appModel) updateCards(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if it, ok := m.cards.SelectedItem().(cardItem); ok {
		k := it.card.Key
		action := ""
		switch {
		case key.Matches(msg, m.keys.Preview):
			action = session.ActionPreview
		case key.Matches(msg, m.keys.HidePreview):
			action = session.ActionHidePreview
		case key.Matches(msg, m.keys.OpenPreview):
			if !m.sess.PreviewOf(k).Open {
				return m, nil
			}
			action = session.ActionOpenPreview
		case key.Matches(msg, m.keys.Open):
			action = session.ActionOpenPreview
		case key.Matches(msg, m.keys.OpenExpress):
			action = session.ActionOpenExpress
		case key.Matches(msg, m.keys.OpenFull):
			action = session.ActionOpenFull
		case key.Matches(msg, m.keys.Copy):
			action = session.ActionCopy
		}
		if action != "" {
			m.sess.CardAction(k, action)
			return m.synced()
		}
	}

	var cmd tea.Cmd
	m.cards, cmd = m.cards.Update(msg)
	return m, cmd
}

func (m appModel) updateSteps(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) {
		m.pane = paneCards
		return m, nil
	}
	if it, ok := m.steps.SelectedItem().(stepItem); ok {
		switch {
		case key.Matches(msg, m.keys.Open):
			m.modalCursor = 0
			m.sess.OpenStep(it.step.Index)
			return m.synced()
		case key.Matches(msg, m.keys.SeeProject):
			m.sess.SeeProject(it.step.Index)
			return m.synced()
		}
	}

	var cmd tea.Cmd
	m.steps, cmd = m.steps.Update(msg)
	return m, cmd
}

func (m appModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	mv := m.view.modal
	switch {
	case key.Matches(msg, m.keys.Back), msg.String() == "q":
		m.sess.CloseModal()
	case key.Matches(msg, m.keys.Up):
		if m.modalCursor > 0 {
			m.modalCursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.modalCursor < len(mv.Items)-1 {
			m.modalCursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.OpenExpress), key.Matches(msg, m.keys.Open):
		if m.modalCursor < len(mv.Items) {
			m.sess.OpenProject(mv.Items[m.modalCursor].ID, model.EditionExpress)
		}
	case key.Matches(msg, m.keys.OpenFull):
		if m.modalCursor < len(mv.Items) {
			m.sess.OpenProject(mv.Items[m.modalCursor].ID, model.EditionFull)
		}
	case key.Matches(msg, m.keys.FirstExpress):
		m.sess.OpenFirst(model.EditionExpress)
	case key.Matches(msg, m.keys.FirstFull):
		m.sess.OpenFirst(model.EditionFull)
	case key.Matches(msg, m.keys.SeeProject):
		m.sess.CloseModal()
		m.sess.SeeProject(mv.Step)
	default:
		return m, nil
	}
	return m.synced()
}

func (m appModel) reloadCmd() tea.Cmd {
	if m.loader == nil {
		return nil
	}
	l := *m.loader
	return func() tea.Msg {
		c, err := l.Fetch(context.Background())
		return reloadResultMsg{catalog: c, err: err}
	}
}

// synced returns m after a sync, for Update branches that just called the session.
func (m appModel) synced() (tea.Model, tea.Cmd) {
	cmd := m.sync()
	return m, cmd
}

// sync copies what the session rendered since the last call into the widgets.
func (m *appModel) sync() tea.Cmd {
	v := m.view
	if v.cardsSeq != m.cardsSeq {
		m.cardsSeq = v.cardsSeq
		selectedID := ""
		if it, ok := m.cards.SelectedItem().(cardItem); ok {
			selectedID = it.card.ID
		}
		m.cards.SetItems(cardItems(v.cards.Cards))
		if selectedID != "" {
			if k, ok := m.sess.KeyFor(selectedID); ok {
				selectCardByKey(&m.cards, k)
			}
		}
	}
	m.steps.SetItems(stepItems(v.steps))
	if len(v.steps) == 0 && m.pane == paneSteps {
		m.pane = paneCards
	}
	if v.controlsSeq != m.controlsSeq {
		m.controlsSeq = v.controlsSeq
		m.search.SetValue(v.query)
	}
	if v.scrollTo != "" {
		if selectCardByKey(&m.cards, v.scrollTo) {
			m.pane = paneCards
		}
		v.scrollTo = ""
	}
	if n := len(v.modal.Items); m.modalCursor >= n {
		m.modalCursor = max(0, n-1)
	}
	if v.toastSeq != m.toastSeq {
		m.toastSeq = v.toastSeq
		m.toast = v.toast
		seq := m.toastSeq
		return tea.Tick(toastDuration, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} })
	}
	return nil
}

func (m *appModel) resize() {
	h := m.height - 3
	if h < 3 {
		h = 3
	}
	// SetSize repaginates and can move the cursor; keep the selection.
	cardIdx, stepIdx := m.cards.Index(), m.steps.Index()
	m.cards.SetSize(m.width, h)
	m.steps.SetSize(m.width, h)
	m.cards.Select(cardIdx)
	m.steps.Select(stepIdx)
	m.help.Width = m.width
	m.search.Width = max(10, m.width/2)
}

func (m appModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	switch {
	case m.view.prompt != nil:
		return m.placeCentered(renderPrompt(m.width, *m.view.prompt))
	case m.overlay == overlayHelp:
		return m.placeCentered(renderModalBox(m.width, "Keys", m.help.FullHelpView(m.keys.FullHelp())))
	case m.overlay == overlayTags:
		return m.placeCentered(renderTagPicker(m.width, m.view.tags, m.tagCursor, m.view.tag))
	case m.view.modal.Open:
		return m.placeCentered(renderPathModal(m.width, m.view.modal, m.modalCursor))
	}

	header := m.renderHeader()
	footer := m.renderFooter()
	bodyH := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	return strings.Join([]string{header, normalizePane(m.renderBody(), m.width, bodyH), footer}, "\n")
}

func (m appModel) placeCentered(s string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s)
}

func (m appModel) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg).Render(m.view.title)
	chip := lipgloss.NewStyle().Padding(0, 1).Foreground(colorSurfaceFg).Background(colorControlBg)
	active := chip.Foreground(colorAccentFg).Background(colorAccent).Bold(true)
	chips := make([]string, 0, 2)
	for _, e := range []model.Edition{model.EditionExpress, model.EditionFull} {
		if e == m.view.edition {
			chips = append(chips, active.Render(e.Label()))
		} else {
			chips = append(chips, chip.Render(e.Label()))
		}
	}
	line1 := normalizePane(title+"  "+strings.Join(chips, " "), m.width, 1)

	meta := styleMuted().Render("tag: " + m.view.tag + "   " + m.view.cards.Count)
	line2 := normalizePane(m.search.View()+"   "+meta, m.width, 1)
	return line1 + "\n" + line2
}

func (m appModel) renderBody() string {
	if m.pane == paneSteps {
		return m.steps.View()
	}
	if m.view.cards.Empty {
		return "\n" + lipgloss.NewStyle().Bold(true).Render(session.EmptyTitle) + "\n" +
			styleMuted().Render(session.EmptyHint)
	}
	return m.cards.View()
}

func (m appModel) renderFooter() string {
	line := m.help.View(m.keys)
	if m.toast != "" {
		toast := lipgloss.NewStyle().Padding(0, 1).Foreground(colorAccentFg).Background(colorToastBg).Render(m.toast)
		line = toast + " " + line
	}
	return normalizePane(line, m.width, 1)
}
