// Package webtui serves the terminal browser to a real browser: each WebSocket
// connection gets its own PTY running the showcase TUI, rendered with xterm.js.
package webtui

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"showcase-cli/internal/deeplink"
)

//go:embed templates/*.html static/*.css static/*.js
var assetsFS embed.FS

const defaultXtermURL = "https://cdn.jsdelivr.net/npm/@xterm/xterm@5.5.0"

type ServerConfig struct {
	Addr string
	// BaseURL is the web page address deep links in the child TUI are built from.
	BaseURL string
	// Args are passed to every child TUI (e.g. --data).
	Args []string
	// Command builds the child process; the default re-executes this binary.
	Command  func(args []string) (*exec.Cmd, error)
	XtermURL string
	Logger   *zap.Logger
}

type Server struct {
	cfg  ServerConfig
	tmpl *template.Template
	log  *zap.Logger
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("webtui: missing addr")
	}
	if cfg.Command == nil {
		cfg.Command = selfCommand
	}
	if strings.TrimSpace(cfg.XtermURL) == "" {
		cfg.XtermURL = defaultXtermURL
	}
	tmpl, err := template.ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{cfg: cfg, tmpl: tmpl, log: log}, nil
}

// selfCommand runs this executable with no subcommand, i.e. the interactive TUI.
func selfCommand(args []string) (*exec.Cmd, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	return exec.Command(exe, args...), nil
}

func (s *Server) Addr() string {
	return strings.TrimSpace(s.cfg.Addr)
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		target := "/terminal"
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusFound)
	})
	mux.HandleFunc("GET /terminal", s.handleTerminal)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})

	mux.HandleFunc("GET /static/app.css", s.handleStatic("static/app.css", "text/css; charset=utf-8"))
	mux.HandleFunc("GET /static/app.js", s.handleStatic("static/app.js", "text/javascript; charset=utf-8"))

	return mux
}

func (s *Server) handleStatic(path, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := assetsFS.ReadFile(path)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(b)
	}
}

type terminalVM struct {
	XtermURL string
}

func (s *Server) handleTerminal(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "terminal.html", terminalVM{XtermURL: s.cfg.XtermURL}); err != nil {
		s.log.Warn("render terminal page", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// childArgs appends a --link for the page's p/e query so a deep link opened
// in the browser selects the project in the child TUI.
func (s *Server) childArgs(r *http.Request) []string {
	args := append([]string(nil), s.cfg.Args...)
	sel := deeplink.Decode(r.URL.Query())
	if sel.ProjectID == "" && r.URL.Query().Get(deeplink.ParamEdition) == "" {
		return args
	}
	base := s.cfg.BaseURL
	if strings.TrimSpace(base) == "" {
		base = "http://" + r.Host + "/"
	}
	link, err := deeplink.ProjectLink(deeplink.SiteLink(base), sel.ProjectID, sel.Edition)
	if err != nil {
		s.log.Debug("ignore deep link", zap.Error(err))
		return args
	}
	return append(args, "--link", link)
}
