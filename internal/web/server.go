package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/starfederation/datastar-go/datastar"
	"go.uber.org/zap"

	"showcase-cli/internal/deeplink"
	"showcase-cli/internal/model"
	"showcase-cli/internal/session"
	"showcase-cli/internal/store"
)

//go:embed templates/*.html static/*.js static/*.css
var assetsFS embed.FS

const defaultDatastarURL = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"

type ServerConfig struct {
	Addr        string
	DatastarURL string
	Logger      *zap.Logger
}

// Server gives every page load its own browsing session. Requests name their
// page with the "page" signal; the shared store only holds the catalog.
type Server struct {
	cfg     ServerConfig
	tmpl    *template.Template
	log     *zap.Logger
	catalog *store.Store
	pages   *pageSet

	// reloadMu keeps a page load from starting on a catalog a reload is replacing.
	reloadMu sync.RWMutex
}

// reloadScript answers events from a page the server no longer knows.
const reloadScript = "window.location.reload()"

type pageData struct {
	pageVM
	DatastarURL string
	Signals     string
	Scripts     []template.JS
}

func NewServer(cfg ServerConfig, st *store.Store) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.DatastarURL = strings.TrimSpace(cfg.DatastarURL)
	if cfg.Addr == "" {
		return nil, errors.New("web: addr is empty")
	}
	if st == nil {
		return nil, errors.New("web: store is nil")
	}
	if cfg.DatastarURL == "" {
		cfg.DatastarURL = defaultDatastarURL
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"raw": func(s string) template.HTML { return template.HTML(s) },
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Server{cfg: cfg, tmpl: tmpl, log: log, catalog: st, pages: newPageSet(log)}, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

// Close drops every page session.
func (s *Server) Close() {
	s.pages.closeAll()
}

// Reload swaps the catalog for new page loads and pushes the re-render to every
// open page.
func (s *Server) Reload(c model.Catalog) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()
	s.catalog.Replace(c)
	for _, p := range s.pages.all() {
		p.hub.broadcast(p.run(func(sess *session.Session) { sess.Reload(c) }))
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.handleHome)
	r.Get("/health", s.handleHealth)
	r.Get("/events", s.handleEvents)
	r.Get("/docs", s.handleDocs)
	r.Get("/docs/{topic}", s.handleDocs)
	r.Get("/static/app.css", s.handleAppCSS)
	r.Get("/static/app.js", s.handleAppJS)

	r.Post("/edition/{edition}", s.handleEdition)
	r.Post("/query", s.handleQuery)
	r.Post("/tag", s.handleTag)
	r.Post("/reset", s.handleReset)
	r.Post("/copy-site", s.handleCopySite)
	r.Post("/cards/{key}/{action}", s.handleCardAction)

	r.Route("/path", func(r chi.Router) {
		r.Post("/open", s.handlePathOpen)
		r.Post("/close", s.handlePathClose)
		r.Post("/steps/{step}/open", s.handleStepOpen)
		r.Post("/steps/{step}/see", s.handleStepSee)
		r.Post("/first/{edition}", s.handlePathFirst)
		r.Post("/project", s.handlePathProject)
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.reloadMu.RLock()
	p, err := s.pages.open(s.catalog.Catalog(), requestURL(r), deeplink.Decode(r.URL.Query()))
	s.reloadMu.RUnlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	p.mu.Lock()
	patches := p.view.drain()
	data := pageData{pageVM: p.view.page, DatastarURL: s.cfg.DatastarURL}
	p.mu.Unlock()

	sig, err := json.Marshal(signals{Page: p.id, Query: data.Query, Tag: data.Tag})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	data.Signals = string(sig)

	for _, pt := range patches {
		if pt.kind == patchScript {
			data.Scripts = append(data.Scripts, template.JS(pt.script))
		}
	}
	s.writeHTMLTemplate(w, "page.html", data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// handleEvents keeps a stream open for patches not caused by an event of the
// page itself, such as catalog reloads.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	var sig signals
	if err := datastar.ReadSignals(r, &sig); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	p, ok := s.pages.get(sig.Page)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	sse := datastar.NewSSE(w, r)
	ch, cancel := p.hub.subscribe()
	defer cancel()
	defer func() { p.touch(s.pages.now()) }()

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-sse.Context().Done():
			return
		case <-keepAlive.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case patches := <-ch:
			if err := writePatches(sse, patches); err != nil {
				return
			}
		}
	}
}

// signals are the page's Datastar signals, sent with every request.
type signals struct {
	Page  string `json:"page"`
	Query string `json:"query"`
	Tag   string `json:"tag"`
}

func (s *Server) handleEdition(w http.ResponseWriter, r *http.Request) {
	e := model.ParseEdition(chi.URLParam(r, "edition"))
	s.respond(w, r, func(sess *session.Session, _ signals) { sess.SetEdition(e) })
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, func(sess *session.Session, sig signals) { sess.SetQuery(sig.Query) })
}

func (s *Server) handleTag(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, func(sess *session.Session, sig signals) { sess.SetTag(sig.Tag) })
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, func(sess *session.Session, _ signals) { sess.Reset() })
}

func (s *Server) handleCopySite(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, func(sess *session.Session, _ signals) { sess.CopySiteLink() })
}

func (s *Server) handleCardAction(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	action := chi.URLParam(r, "action")
	s.respond(w, r, func(sess *session.Session, _ signals) { sess.CardAction(key, action) })
}

func (s *Server) handlePathOpen(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, func(sess *session.Session, _ signals) { sess.OpenPath() })
}

func (s *Server) handlePathClose(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, func(sess *session.Session, _ signals) { sess.CloseModal() })
}

func (s *Server) handleStepOpen(w http.ResponseWriter, r *http.Request) {
	i, ok := stepParam(r)
	s.respond(w, r, func(sess *session.Session, _ signals) {
		if ok {
			sess.OpenStep(i)
		}
	})
}

func (s *Server) handleStepSee(w http.ResponseWriter, r *http.Request) {
	i, ok := stepParam(r)
	s.respond(w, r, func(sess *session.Session, _ signals) {
		if ok {
			sess.SeeProject(i)
		}
	})
}

func (s *Server) handlePathFirst(w http.ResponseWriter, r *http.Request) {
	e := model.ParseEdition(chi.URLParam(r, "edition"))
	s.respond(w, r, func(sess *session.Session, _ signals) { sess.OpenFirst(e) })
}

func (s *Server) handlePathProject(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id := q.Get("id")
	e := model.ParseEdition(q.Get("edition"))
	s.respond(w, r, func(sess *session.Session, _ signals) { sess.OpenProject(id, e) })
}

// respond runs fn against the sending page's session and streams the resulting
// patches back. A page the server does not know is told to reload.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, fn func(*session.Session, signals)) {
	var sig signals
	if err := datastar.ReadSignals(r, &sig); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var patches []patch
	if p, ok := s.pages.get(sig.Page); ok {
		p.touch(s.pages.now())
		patches = p.run(func(sess *session.Session) { fn(sess, sig) })
	} else {
		s.log.Debug("event from unknown page", zap.String("path", r.URL.Path), zap.String("page", sig.Page))
		patches = []patch{{kind: patchScript, script: reloadScript}}
	}

	sse := datastar.NewSSE(w, r)
	if err := writePatches(sse, patches); err != nil {
		s.log.Debug("write patches", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

func stepParam(r *http.Request) (int, bool) {
	i, err := strconv.Atoi(chi.URLParam(r, "step"))
	if err != nil {
		return 0, false
	}
	return i, true
}

func requestURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")); p != "" {
		scheme = p
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) writeHTMLTemplate(w http.ResponseWriter, name string, data any) {
	html, err := s.renderTemplate(name, data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

func (s *Server) handleAppJS(w http.ResponseWriter, r *http.Request) {
	serveAsset(w, r, "static/app.js", "application/javascript; charset=utf-8")
}

func (s *Server) handleAppCSS(w http.ResponseWriter, r *http.Request) {
	serveAsset(w, r, "static/app.css", "text/css; charset=utf-8")
}

func serveAsset(w http.ResponseWriter, r *http.Request, name, contentType string) {
	b, err := assetsFS.ReadFile(name)
	if err != nil || len(b) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

type patchHub struct {
	mu   sync.Mutex
	subs map[chan []patch]struct{}
}

func newPatchHub() *patchHub {
	return &patchHub{subs: map[chan []patch]struct{}{}}
}

func (h *patchHub) subscribe() (ch chan []patch, cancel func()) {
	ch = make(chan []patch, 8)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
}

func (h *patchHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *patchHub) broadcast(patches []patch) {
	if len(patches) == 0 {
		return
	}
	h.mu.Lock()
	for ch := range h.subs {
		select {
		case ch <- patches:
		default:
		}
	}
	h.mu.Unlock()
}
