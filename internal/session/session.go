package session

import (
	"go.uber.org/zap"

	"showcase-cli/internal/deeplink"
	"showcase-cli/internal/filter"
	"showcase-cli/internal/model"
	"showcase-cli/internal/store"
)

type Options struct {
	Store     *store.Store
	View      View
	Clipboard Clipboard
	Notifier  Notifier
	Opener    Opener
	// PageURL is the address deep links are built from.
	PageURL string
	Logger  *zap.Logger
}

// Session renders the store into a View and handles user actions. It is not safe
// for concurrent use; front ends call it from a single event loop.
type Session struct {
	store  *store.Store
	view   View
	clip   Clipboard
	notify Notifier
	opener Opener
	log    *zap.Logger
	page   string

	// keys lists rendered card keys in order; bindings maps each to its project id.
	keys     []string
	bindings map[string]string
	previews map[string]PreviewState

	modal       ModalView
	hasModal    bool
	unsubscribe func()
}

// New subscribes the session to the store so every intent re-renders. Call
// Start (or Render) for the first paint.
func New(opts Options) *Session {
	s := &Session{
		store:    opts.Store,
		view:     opts.View,
		clip:     opts.Clipboard,
		notify:   opts.Notifier,
		opener:   opts.Opener,
		log:      opts.Logger,
		page:     opts.PageURL,
		bindings: map[string]string{},
		previews: map[string]PreviewState{},
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	s.unsubscribe = s.store.Subscribe(s.render)
	return s
}

// Close detaches the session from the store.
func (s *Session) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

func (s *Session) Store() *store.Store { return s.store }

func (s *Session) State() model.State { return s.store.State() }

func (s *Session) Catalog() model.Catalog { return s.store.Catalog() }

// Start applies a decoded deep link: the edition is set (which renders), the
// controls are synced, and the selected project's card is scrolled to if it
// is rendered.
func (s *Session) Start(sel deeplink.Selection) {
	s.store.SetEdition(sel.Edition)
	st := s.store.State()
	s.view.Controls(st.Query, st.Tag)
	if sel.ProjectID != "" {
		s.scrollToProject(sel.ProjectID)
	}
}

// Render repaints every mount point from the current state.
func (s *Session) Render() {
	st, cat := s.store.Snapshot()
	s.render(st, cat)
}

func (s *Session) render(st model.State, cat model.Catalog) {
	s.view.Title(cat.Title())
	s.view.TagOptions(filter.TagOptions(cat.Projects), st.Tag)
	s.view.Edition(st.Edition)

	list := BuildCards(st, cat)
	s.keys = make([]string, 0, len(list.Cards))
	s.bindings = make(map[string]string, len(list.Cards))
	s.previews = make(map[string]PreviewState, len(list.Cards))
	for _, c := range list.Cards {
		s.keys = append(s.keys, c.Key)
		s.bindings[c.Key] = c.ID
	}
	s.view.Cards(list)

	s.view.Steps(BuildSteps(cat))
	if s.hasModal {
		open := s.modal.Open
		m, ok := BuildModal(cat, s.modal.Step)
		if !ok {
			s.modal, s.hasModal = ModalView{}, false
			s.view.Modal(ModalView{})
			return
		}
		m.Open = open
		s.modal = m
		s.view.Modal(m)
	}
}

func (s *Session) SetEdition(e model.Edition) { s.store.SetEdition(e) }

func (s *Session) SetQuery(q string) { s.store.SetQuery(q) }

func (s *Session) SetTag(tag string) { s.store.SetTag(tag) }

// Reset clears query and tag, and resets the input controls to match.
func (s *Session) Reset() {
	s.store.Reset()
	st := s.store.State()
	s.view.Controls(st.Query, st.Tag)
}

// Reload replaces the whole catalog.
func (s *Session) Reload(c model.Catalog) {
	s.store.Replace(c)
	st := s.store.State()
	s.view.Controls(st.Query, st.Tag)
}

// Keys returns the rendered card keys in display order.
func (s *Session) Keys() []string {
	return append([]string(nil), s.keys...)
}

// ProjectFor returns the project bound to a rendered card.
func (s *Session) ProjectFor(key string) (model.Project, bool) {
	id, ok := s.bindings[key]
	if !ok {
		return model.Project{}, false
	}
	return s.store.Catalog().Project(id)
}

// KeyFor returns the key of the first rendered card showing project id.
func (s *Session) KeyFor(id string) (string, bool) {
	for _, k := range s.keys {
		if s.bindings[k] == id {
			return k, true
		}
	}
	return "", false
}

func (s *Session) PreviewOf(key string) PreviewState {
	return s.previews[key]
}

// CardAction dispatches a per-card action. Unknown keys and actions are ignored.
func (s *Session) CardAction(key, action string) {
	p, ok := s.ProjectFor(key)
	if !ok {
		s.log.Debug("card action on unbound key", zap.String("key", key), zap.String("action", action))
		return
	}
	edition := s.store.State().Edition
	switch action {
	case ActionPreview:
		s.setPreview(key, p, !s.previews[key].Open, edition)
	case ActionHidePreview:
		s.setPreview(key, p, false, edition)
	case ActionOpenPreview:
		s.open(p.Link(edition))
	case ActionOpenExpress:
		s.open(p.Links.Express)
	case ActionOpenFull:
		s.open(p.Links.Full)
	case ActionCopy:
		s.CopyProjectLink(p.ID)
	default:
		s.log.Debug("unknown card action", zap.String("action", action))
	}
}

// setPreview shows or hides a card preview. The source is taken from the
// current edition only when the preview opens.
func (s *Session) setPreview(key string, p model.Project, open bool, e model.Edition) {
	prev := s.previews[key]
	next := PreviewState{Open: open, Src: prev.Src}
	if open {
		next.Src = p.Link(e)
	}
	s.previews[key] = next
	s.view.Preview(key, next)
}

// CopyProjectLink copies the deep link selecting project id in the current edition.
func (s *Session) CopyProjectLink(id string) {
	link, err := deeplink.ProjectLink(s.page, id, s.store.State().Edition)
	if err != nil {
		s.log.Warn("build project link", zap.String("page", s.page), zap.Error(err))
		return
	}
	s.copy(link, PromptCopyLink, ToastCopiedLink)
}

// CopySiteLink copies the page address without its query.
func (s *Session) CopySiteLink() {
	s.copy(deeplink.SiteLink(s.page), PromptCopy, ToastCopiedSiteLink)
}

func (s *Session) copy(text, promptLabel, toast string) {
	var err error
	if s.clip == nil {
		err = errNoClipboard
	} else {
		err = s.clip.WriteText(text)
	}
	if err != nil {
		s.log.Debug("clipboard unavailable", zap.Error(err))
		if s.notify != nil {
			s.notify.Prompt(promptLabel, text)
		}
		return
	}
	if s.notify != nil {
		s.notify.Toast(toast)
	}
}

func (s *Session) open(link string) {
	if link == "" || link == model.MissingLink || s.opener == nil {
		return
	}
	if err := s.opener.Open(link); err != nil {
		s.log.Warn("open link", zap.String("url", link), zap.Error(err))
	}
}

// OpenPath opens the guided path modal at its first step.
func (s *Session) OpenPath() { s.OpenStep(0) }

// OpenStep builds and shows the modal for step i. Without a guided path, or for
// an out-of-range index, it does nothing.
func (s *Session) OpenStep(i int) {
	m, ok := BuildModal(s.store.Catalog(), i)
	if !ok {
		return
	}
	m.Open = true
	s.modal, s.hasModal = m, true
	s.view.Modal(m)
}

// CloseModal hides the modal and keeps its content.
func (s *Session) CloseModal() {
	if !s.hasModal || !s.modal.Open {
		return
	}
	s.modal.Open = false
	s.view.Modal(s.modal)
}

// Modal returns the last built modal and whether one was built.
func (s *Session) Modal() (ModalView, bool) {
	return s.modal, s.hasModal
}

// SeeProject scrolls to the card of step i's first project, if it is rendered.
func (s *Session) SeeProject(i int) {
	step, ok := s.store.Catalog().Step(i)
	if !ok || len(step.ProjectIDs) == 0 {
		return
	}
	s.scrollToProject(step.ProjectIDs[0])
}

// OpenFirst opens the first item of the modal list in the given edition.
func (s *Session) OpenFirst(e model.Edition) {
	if !s.hasModal || len(s.modal.Items) == 0 {
		return
	}
	s.OpenProject(s.modal.Items[0].ID, e)
}

// OpenProject opens project id in the given edition. Unknown ids are ignored.
func (s *Session) OpenProject(id string, e model.Edition) {
	p, ok := s.store.Catalog().Project(id)
	if !ok {
		return
	}
	s.open(p.Link(e))
}

func (s *Session) scrollToProject(id string) {
	if key, ok := s.KeyFor(id); ok {
		s.view.ScrollTo(key)
	}
}
