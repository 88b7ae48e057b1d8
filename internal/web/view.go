package web

import (
	"fmt"

	"github.com/starfederation/datastar-go/datastar"

	"showcase-cli/internal/model"
	"showcase-cli/internal/session"
	"showcase-cli/internal/textutil"
)

// scrollDelayMS lets the first paint land before scrolling to a deep-linked card.
const scrollDelayMS = 150

type patchKind int

const (
	patchElements patchKind = iota
	patchSignals
	patchScript
)

type patch struct {
	kind     patchKind
	selector string
	mode     datastar.ElementPatchMode
	html     string
	signals  map[string]any
	script   string
}

// pageVM is the latest content of every mount point, used for full page loads.
type pageVM struct {
	Title       string
	TagOptions  string
	ChipExpress string
	ChipFull    string
	Cards       string
	Count       string
	PathSection string
	Modal       string
	Query       string
	Tag         string
}

// webView records what the session renders as Datastar patches. It also acts as
// the session's clipboard, notifier and opener: those become scripts executed by
// the browser that triggered the event.
type webView struct {
	page    pageVM
	pending []patch
	cards   map[string]session.Card

	copyText string
	hasCopy  bool
}

func newWebView() *webView {
	return &webView{
		page:  pageVM{Tag: model.AllTags, Modal: modalHTML(session.ModalView{}), PathSection: pathSectionHTML(nil)},
		cards: map[string]session.Card{},
	}
}

func (v *webView) drain() []patch {
	out := v.pending
	v.pending = nil
	return out
}

func (v *webView) elements(selector string, mode datastar.ElementPatchMode, html string) {
	v.pending = append(v.pending, patch{kind: patchElements, selector: selector, mode: mode, html: html})
}

func (v *webView) script(js string) {
	v.pending = append(v.pending, patch{kind: patchScript, script: js})
}

func (v *webView) Title(t string) {
	if v.page.Title == t {
		return
	}
	v.page.Title = t
	v.elements("#pageTitle", datastar.ElementPatchModeInner, esc(t))
	v.script("document.title = " + textutil.JSString(t))
}

func (v *webView) TagOptions(opts []string, selected string) {
	html := tagOptionsHTML(opts, selected)
	if v.page.TagOptions == html {
		return
	}
	v.page.TagOptions = html
	v.elements("#tagSelect", datastar.ElementPatchModeInner, html)
}

func (v *webView) Edition(active model.Edition) {
	ex := chipHTML("chipExpress", model.EditionExpress, active)
	if v.page.ChipExpress == ex {
		return
	}
	v.page.ChipExpress = ex
	v.page.ChipFull = chipHTML("chipFull", model.EditionFull, active)
	v.elements("#chipExpress", datastar.ElementPatchModeOuter, v.page.ChipExpress)
	v.elements("#chipFull", datastar.ElementPatchModeOuter, v.page.ChipFull)
}

func (v *webView) Controls(query, tag string) {
	v.page.Query, v.page.Tag = query, tag
	v.pending = append(v.pending, patch{kind: patchSignals, signals: map[string]any{"query": query, "tag": tag}})
}

func (v *webView) Cards(list session.CardList) {
	v.cards = make(map[string]session.Card, len(list.Cards))
	for _, c := range list.Cards {
		v.cards[c.Key] = c
	}
	v.page.Cards = cardsHTML(list)
	v.page.Count = list.Count
	v.elements("#cards", datastar.ElementPatchModeInner, v.page.Cards)
	v.elements("#count", datastar.ElementPatchModeInner, esc(list.Count))
}

func (v *webView) Preview(key string, p session.PreviewState) {
	c, ok := v.cards[key]
	if !ok {
		return
	}
	v.elements("#"+previewID(key), datastar.ElementPatchModeOuter, previewHTML(key, c.Title, c.Edition, p))
}

func (v *webView) Steps(steps []session.StepEntry) {
	html := pathSectionHTML(steps)
	if v.page.PathSection == html {
		return
	}
	v.page.PathSection = html
	v.elements("#pathSection", datastar.ElementPatchModeOuter, html)
}

func (v *webView) Modal(m session.ModalView) {
	v.page.Modal = modalHTML(m)
	v.elements("#pathModalBack", datastar.ElementPatchModeOuter, v.page.Modal)
}

func (v *webView) ScrollTo(key string) {
	v.script(fmt.Sprintf(
		"setTimeout(() => document.getElementById(%s)?.scrollIntoView({behavior: 'smooth', block: 'start'}), %d)",
		textutil.JSString(key), scrollDelayMS))
}

// WriteText defers the copy to the browser; the following Toast or Prompt
// decides what the page does with it.
func (v *webView) WriteText(text string) error {
	v.copyText, v.hasCopy = text, true
	return nil
}

func (v *webView) Toast(msg string) {
	if !v.hasCopy {
		v.script("showToast(" + textutil.JSString(msg) + ")")
		return
	}
	text := textutil.JSString(v.copyText)
	v.copyText, v.hasCopy = "", false
	v.script(fmt.Sprintf(
		"navigator.clipboard.writeText(%s).then(() => showToast(%s)).catch(() => prompt(%s, %s))",
		text, textutil.JSString(msg), textutil.JSString(promptFor(msg)), text))
}

func (v *webView) Prompt(label, value string) {
	v.copyText, v.hasCopy = "", false
	v.script(fmt.Sprintf("prompt(%s, %s)", textutil.JSString(label), textutil.JSString(value)))
}

func (v *webView) Open(url string) error {
	v.script(fmt.Sprintf("window.open(%s, '_blank', 'noopener,noreferrer')", textutil.JSString(url)))
	return nil
}

func promptFor(toast string) string {
	if toast == session.ToastCopiedSiteLink {
		return session.PromptCopy
	}
	return session.PromptCopyLink
}

func writePatches(sse *datastar.ServerSentEventGenerator, patches []patch) error {
	for _, p := range patches {
		var err error
		switch p.kind {
		case patchElements:
			err = sse.PatchElements(p.html, datastar.WithSelector(p.selector), datastar.WithMode(p.mode))
		case patchSignals:
			err = sse.MarshalAndPatchSignals(p.signals)
		case patchScript:
			err = sse.ExecuteScript(p.script)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
