package web

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"showcase-cli/internal/docs"
)

// Raw HTML in markdown is dropped (html.WithUnsafe is not set).
var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

func renderMarkdownHTML(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return template.HTML("")
	}
	var b bytes.Buffer
	if err := markdownRenderer.Convert([]byte(src), &b); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	return template.HTML(b.String())
}

type docsVM struct {
	Topic  string
	Topics []string
	Body   template.HTML
}

func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	topic := chi.URLParam(r, "topic")
	if topic == "" {
		topic = docs.DefaultTopic
	}
	body, ok := docs.Get(topic)
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.writeHTMLTemplate(w, "docs.html", docsVM{
		Topic:  strings.ToLower(strings.TrimSpace(topic)),
		Topics: docs.Topics(),
		Body:   renderMarkdownHTML(body),
	})
}
