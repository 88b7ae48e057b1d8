package web

import (
	"crypto/rand"
	"encoding/hex"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"showcase-cli/internal/deeplink"
	"showcase-cli/internal/model"
	"showcase-cli/internal/session"
	"showcase-cli/internal/store"
)

const (
	// pageIdleTTL drops pages whose tab stopped sending events and streaming.
	pageIdleTTL = 30 * time.Minute
	maxPages    = 256
)

// page is one loaded browser tab: its own state store, session and view. All
// of its events run under mu, like the tab's event loop.
type page struct {
	mu   sync.Mutex
	id   string
	sess *session.Session
	view *webView
	hub  *patchHub
	seen time.Time
}

func newPageID() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}

// run applies fn to the page's session and returns the patches it rendered.
func (p *page) run(fn func(*session.Session)) []patch {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p.sess)
	return p.view.drain()
}

func (p *page) touch(now time.Time) {
	p.mu.Lock()
	p.seen = now
	p.mu.Unlock()
}

// pageSet owns the open pages. Each starts from the shared catalog with a fresh
// state decoded from its URL.
type pageSet struct {
	mu    sync.Mutex
	pages map[string]*page
	log   *zap.Logger
	now   func() time.Time
}

func newPageSet(log *zap.Logger) *pageSet {
	return &pageSet{pages: map[string]*page{}, log: log, now: time.Now}
}

func (ps *pageSet) open(cat model.Catalog, pageURL string, sel deeplink.Selection) (*page, error) {
	id, err := newPageID()
	if err != nil {
		return nil, err
	}
	view := newWebView()
	sess := session.New(session.Options{
		Store:     store.New(cat, model.DefaultState()),
		View:      view,
		Clipboard: view,
		Notifier:  view,
		Opener:    view,
		PageURL:   pageURL,
		Logger:    ps.log,
	})
	sess.Render()
	sess.Start(sel)

	p := &page{id: id, sess: sess, view: view, hub: newPatchHub(), seen: ps.now()}

	ps.mu.Lock()
	ps.pruneLocked()
	ps.pages[id] = p
	ps.mu.Unlock()
	return p, nil
}

func (ps *pageSet) get(id string) (*page, bool) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	p, ok := ps.pages[id]
	return p, ok
}

func (ps *pageSet) all() []*page {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	out := make([]*page, 0, len(ps.pages))
	for _, p := range ps.pages {
		out = append(out, p)
	}
	return out
}

func (ps *pageSet) len() int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return len(ps.pages)
}

func (ps *pageSet) closeAll() {
	ps.mu.Lock()
	pages := ps.pages
	ps.pages = map[string]*page{}
	ps.mu.Unlock()
	for _, p := range pages {
		p.close()
	}
}

// pruneLocked drops idle pages without an open stream, then the least recently
// used idle pages while the set is full.
func (ps *pageSet) pruneLocked() {
	now := ps.now()
	var idle []*page
	for id, p := range ps.pages {
		if p.hub.count() > 0 {
			continue
		}
		if now.Sub(p.lastSeen()) > pageIdleTTL {
			delete(ps.pages, id)
			p.close()
			continue
		}
		idle = append(idle, p)
	}
	if len(ps.pages) < maxPages {
		return
	}
	sort.Slice(idle, func(i, j int) bool { return idle[i].lastSeen().Before(idle[j].lastSeen()) })
	for _, p := range idle {
		if len(ps.pages) < maxPages {
			break
		}
		delete(ps.pages, p.id)
		p.close()
	}
}

func (p *page) lastSeen() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seen
}

func (p *page) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sess.Close()
}
