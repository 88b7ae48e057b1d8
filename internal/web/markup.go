package web

import (
	"fmt"
	"strings"

	"showcase-cli/internal/model"
	"showcase-cli/internal/session"
	"showcase-cli/internal/textutil"
)

var esc = textutil.Escape

func previewID(key string) string { return key + "-preview" }

func tagOptionsHTML(opts []string, selected string) string {
	var b strings.Builder
	for _, t := range opts {
		label := t
		if t == model.AllTags {
			label = "All tags"
		}
		sel := ""
		if t == selected {
			sel = " selected"
		}
		fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`, esc(t), sel, esc(label))
	}
	return b.String()
}

func chipHTML(id string, e, active model.Edition) string {
	on := e == active
	class := "chip"
	if on {
		class += " active"
	}
	icon := "⚡"
	if e == model.EditionFull {
		icon = "🏆"
	}
	return fmt.Sprintf(`<button id="%s" class="%s" role="tab" aria-selected="%t" data-on:click="@post('/edition/%s')">%s %s</button>`,
		id, class, on, e, icon, esc(e.Label()))
}

func cardsHTML(list session.CardList) string {
	if list.Empty {
		return fmt.Sprintf(`<div class="card empty"><h2>%s</h2><p class="sub">%s</p></div>`,
			esc(session.EmptyTitle), esc(session.EmptyHint))
	}
	var b strings.Builder
	for _, c := range list.Cards {
		b.WriteString(cardHTML(c))
	}
	return b.String()
}

func cardHTML(c session.Card) string {
	var tags strings.Builder
	for _, t := range c.Tags {
		fmt.Fprintf(&tags, `<span class="tag">%s</span>`, esc(t))
	}
	for _, s := range c.Skills {
		fmt.Fprintf(&tags, `<span class="tag skill">%s</span>`, esc(s))
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<article id="%s" class="card" data-id="%s" data-on:click="%s">`,
		c.Key, esc(c.ID), esc(cardDispatch(c.Key)))
	fmt.Fprintf(&b, `<img class="thumb" src="%s" alt="Thumbnail: %s" loading="lazy"/>`, esc(c.Thumb), esc(c.Title))
	b.WriteString(`<div class="hd"><div>`)
	fmt.Fprintf(&b, `<div class="row"><span class="pill">%s %s</span><span class="badge diff small">🎯 %s</span></div>`,
		esc(c.Icon), esc(c.ID), esc(c.Difficulty))
	fmt.Fprintf(&b, `<h2>%s</h2><p>%s</p>`, esc(c.Title), esc(c.Summary))
	fmt.Fprintf(&b, `<div class="meta">%s</div>`, tags.String())
	b.WriteString(`</div><div class="row actions">`)
	fmt.Fprintf(&b, `<a class="btn ghost" href="%s" target="_blank" rel="noopener noreferrer">⚡ Express ↗</a>`, esc(c.Express))
	fmt.Fprintf(&b, `<a class="btn primary" href="%s" target="_blank" rel="noopener noreferrer">🏆 Full ↗</a>`, esc(c.Full))
	fmt.Fprintf(&b, `<button class="btn" data-action="%s">👀 Preview</button>`, session.ActionPreview)
	fmt.Fprintf(&b, `<button class="btn" data-action="%s">🔗 Copy</button>`, session.ActionCopy)
	b.WriteString(`</div></div>`)
	b.WriteString(previewHTML(c.Key, c.Title, c.Edition, session.PreviewState{}))
	b.WriteString(`</article>`)
	return b.String()
}

// cardDispatch forwards any click on a [data-action] descendant to the card endpoint.
func cardDispatch(key string) string {
	return fmt.Sprintf(`const a = evt.target.closest('[data-action]'); if (a) { @post('/cards/%s/' + a.dataset.action) }`, key)
}

func previewHTML(key, title string, e model.Edition, p session.PreviewState) string {
	hidden := " hidden"
	if p.Open {
		hidden = ""
	}
	src := ""
	if p.Src != "" {
		src = fmt.Sprintf(` src="%s"`, esc(p.Src))
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<div id="%s" class="preview"%s>`, previewID(key), hidden)
	fmt.Fprintf(&b, `<div class="row spread"><div class="row"><span class="pill">Preview</span><span class="note">Edition: <b>%s</b></span></div>`, esc(string(e)))
	fmt.Fprintf(&b, `<div class="row"><button class="btn" data-action="%s">Open ↗</button><button class="btn" data-action="%s">Hide</button></div></div>`,
		session.ActionOpenPreview, session.ActionHidePreview)
	fmt.Fprintf(&b, `<iframe loading="lazy" title="Preview: %s"%s></iframe>`, esc(title), src)
	b.WriteString(`<div class="note">If the preview is blank, serve the projects over http.</div>`)
	b.WriteString(`</div>`)
	return b.String()
}

func stepsHTML(steps []session.StepEntry) string {
	var b strings.Builder
	for _, s := range steps {
		fmt.Fprintf(&b, `<div class="pathStep" data-step="%d">`, s.Index)
		fmt.Fprintf(&b, `<div class="row spread"><span class="badge diff small">🎯 %s</span><span class="pill">Step %s</span></div>`,
			esc(s.Difficulty), esc(s.Label))
		fmt.Fprintf(&b, `<h3>%s</h3><p>%s</p>`, esc(s.Title), esc(s.Desc))
		fmt.Fprintf(&b, `<div class="row"><button class="btn primary" data-on:click="@post('/path/steps/%d/open')">Open Step</button>`, s.Index)
		fmt.Fprintf(&b, `<button class="btn" data-on:click="@post('/path/steps/%d/see')">See Project</button></div>`, s.Index)
		b.WriteString(`</div>`)
	}
	return b.String()
}

func modalHTML(m session.ModalView) string {
	class := "modalBack"
	if m.Open {
		class += " show"
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<div id="pathModalBack" class="%s" aria-hidden="%t" data-on:click="evt.target === el && @post('/path/close')">`, class, !m.Open)
	b.WriteString(`<div class="modal" role="dialog" aria-modal="true" aria-labelledby="pathModalTitle">`)
	fmt.Fprintf(&b, `<div class="row spread"><h2 id="pathModalTitle">%s</h2>`, esc(m.Title))
	b.WriteString(`<button id="btnPathClose" class="btn" data-on:click="@post('/path/close')">✕</button></div>`)
	if m.Desc != "" {
		fmt.Fprintf(&b, `<p class="sub">%s</p>`, esc(m.Desc))
	}
	fmt.Fprintf(&b, `<div id="pathList">%s</div>`, modalItemsHTML(m.Items))
	b.WriteString(`<div class="row">`)
	fmt.Fprintf(&b, `<button id="btnPathExpress" class="btn" data-on:click="@post('/path/first/%s')">⚡ Open Express</button>`, model.EditionExpress)
	fmt.Fprintf(&b, `<button id="btnPathFull" class="btn primary" data-on:click="@post('/path/first/%s')">🏆 Open Full</button>`, model.EditionFull)
	b.WriteString(`</div></div></div>`)
	return b.String()
}

func modalItemsHTML(items []session.ModalItem) string {
	var b strings.Builder
	for _, p := range items {
		fmt.Fprintf(&b, `<div class="modalItem" data-id="%s"><div class="left">`, esc(p.ID))
		fmt.Fprintf(&b, `<img src="%s" alt="Thumbnail %s" loading="lazy"/>`, esc(p.Thumb), esc(p.Title))
		fmt.Fprintf(&b, `<div><b>%s %s</b><div class="sub">🎯 %s • %s</div></div></div>`,
			esc(p.Icon), esc(p.Title), esc(p.Difficulty), esc(p.ID))
		id := esc(p.ID)
		fmt.Fprintf(&b, `<div class="row"><button class="btn" data-id="%s" data-on:click="%s">⚡</button>`, id, openProjectExpr(model.EditionExpress))
		fmt.Fprintf(&b, `<button class="btn primary" data-id="%s" data-on:click="%s">🏆</button></div>`, id, openProjectExpr(model.EditionFull))
		b.WriteString(`</div>`)
	}
	return b.String()
}

// openProjectExpr reads the project id from the button so it never appears in script text.
func openProjectExpr(e model.Edition) string {
	return fmt.Sprintf(`@post('/path/project?edition=%s&id=' + encodeURIComponent(el.dataset.id))`, e)
}

func pathSectionHTML(steps []session.StepEntry) string {
	if steps == nil {
		return `<section id="pathSection" class="path" hidden></section>`
	}
	var b strings.Builder
	b.WriteString(`<section id="pathSection" class="path">`)
	b.WriteString(`<div class="row spread"><h2>Guided path</h2><div class="row">`)
	b.WriteString(`<button id="btnStart" class="btn primary" data-on:click="@post('/path/open')">▶ Start</button>`)
	b.WriteString(`<button id="btnOpenPath" class="btn" data-on:click="@post('/path/open')">🧭 Open path</button>`)
	b.WriteString(`</div></div>`)
	fmt.Fprintf(&b, `<div id="pathSteps" class="pathSteps">%s</div>`, stepsHTML(steps))
	b.WriteString(`</section>`)
	return b.String()
}
