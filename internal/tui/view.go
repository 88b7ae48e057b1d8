package tui

import (
	"showcase-cli/internal/model"
	"showcase-cli/internal/session"
)

type promptState struct {
	label string
	value string
}

// termView records what the session renders. The app model reads it back after
// every session call; the seq counters tell it which parts changed.
type termView struct {
	title   string
	tags    []string
	tag     string
	edition model.Edition

	query       string
	controlsSeq int

	cards    session.CardList
	cardsSeq int
	previews map[string]session.PreviewState

	steps []session.StepEntry
	modal session.ModalView

	scrollTo string

	toast    string
	toastSeq int
	prompt   *promptState
}

func newTermView() *termView {
	return &termView{
		tag:      model.AllTags,
		edition:  model.EditionExpress,
		previews: map[string]session.PreviewState{},
	}
}

func (v *termView) Title(t string) { v.title = t }

func (v *termView) TagOptions(opts []string, selected string) {
	v.tags = append([]string(nil), opts...)
	v.tag = selected
}

func (v *termView) Edition(e model.Edition) { v.edition = e }

func (v *termView) Controls(query, tag string) {
	v.query, v.tag = query, tag
	v.controlsSeq++
}

func (v *termView) Cards(list session.CardList) {
	v.cards = list
	v.cardsSeq++
	v.previews = map[string]session.PreviewState{}
}

func (v *termView) Preview(key string, p session.PreviewState) {
	v.previews[key] = p
}

func (v *termView) Steps(steps []session.StepEntry) { v.steps = steps }

func (v *termView) Modal(m session.ModalView) { v.modal = m }

func (v *termView) ScrollTo(key string) { v.scrollTo = key }

func (v *termView) Toast(msg string) {
	v.toast = msg
	v.toastSeq++
}

func (v *termView) Prompt(label, value string) {
	v.prompt = &promptState{label: label, value: value}
}
