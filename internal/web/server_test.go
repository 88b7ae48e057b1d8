package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"showcase-cli/internal/model"
	"showcase-cli/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testCatalog = `{
  "meta": {
    "title": "Demo",
    "guidedPath": {"steps": [
      {"title": "Start", "desc": "Warm up", "projectIds": ["calc"]},
      {"title": "Ghost", "projectIds": ["missing"]}
    ]}
  },
  "projects": [
    {"id": "todo", "title": "<script>alert(1)</script>", "tags": ["starter"],
     "links": {"express": "todo/x.html", "full": "todo/f.html"}},
    {"id": "calc", "title": "Calculator", "difficulty": "Intermediate", "tags": ["math"],
     "links": {"express": "calc/x.html", "full": "calc/f.html"}},
    {"id": "clock", "title": "Clock", "tags": ["dom"]}
  ]
}`

func newTestServer(t *testing.T, raw string) *Server {
	t.Helper()
	cat, err := model.DecodeJSON([]byte(raw))
	require.NoError(t, err)
	srv, err := NewServer(ServerConfig{Addr: "127.0.0.1:0"}, store.New(cat, model.DefaultState()))
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

// openPage loads target and returns the page id from the body's signals.
func openPage(t *testing.T, srv *Server, target string) (string, *goquery.Document) {
	t.Helper()
	rec := do(t, srv, http.MethodGet, target, "")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parseHTML(t, rec.Body.Bytes())
	var sig signals
	require.NoError(t, json.Unmarshal([]byte(doc.Find("body").AttrOr("data-signals", "")), &sig))
	require.NotEmpty(t, sig.Page)
	return sig.Page, doc
}

// post sends an intent from page id with the given query and tag signals.
func post(t *testing.T, srv *Server, target, id, query, tag string) string {
	t.Helper()
	body, err := json.Marshal(signals{Page: id, Query: query, Tag: tag})
	require.NoError(t, err)
	rec := do(t, srv, http.MethodPost, target, string(body))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func parseHTML(t testing.TB, body []byte) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func TestHome_RendersMountPoints(t *testing.T) {
	srv := newTestServer(t, testCatalog)
	id, doc := openPage(t, srv, "http://example.com/")
	require.Equal(t, "Demo", strings.TrimSpace(doc.Find("#pageTitle").Text()))
	require.Equal(t, "3 / 3", doc.Find("#count").Text())
	require.Equal(t, 3, doc.Find("#cards article.card").Length())
	require.Equal(t, 4, doc.Find("#tagSelect option").Length())
	require.Equal(t, "all", doc.Find("#tagSelect option[selected]").AttrOr("value", ""))
	require.Equal(t, "true", doc.Find("#chipExpress").AttrOr("aria-selected", ""))
	require.Equal(t, "false", doc.Find("#chipFull").AttrOr("aria-selected", ""))
	require.Equal(t, 2, doc.Find("#pathSteps .pathStep").Length())
	require.Equal(t, "true", doc.Find("#pathModalBack").AttrOr("aria-hidden", ""))

	sig := doc.Find("body").AttrOr("data-signals", "")
	require.JSONEq(t, `{"page":"`+id+`","query":"","tag":"all"}`, sig)
}

func TestHome_EscapesCatalogText(t *testing.T) {
	srv := newTestServer(t, testCatalog)
	rec := do(t, srv, http.MethodGet, "http://example.com/", "")
	doc := parseHTML(t, rec.Body.Bytes())

	card := doc.Find(`#cards article[data-id="todo"]`)
	require.Equal(t, "<script>alert(1)</script>", card.Find("h2").Text())
	require.Zero(t, doc.Find("#cards script").Length())
	require.NotContains(t, rec.Body.String(), "<script>alert(1)</script>")
}

func TestHome_DeepLinkSelectsEditionAndScrolls(t *testing.T) {
	srv := newTestServer(t, testCatalog)
	rec := do(t, srv, http.MethodGet, "http://example.com/?e=full&p=calc&utm=x", "")
	doc := parseHTML(t, rec.Body.Bytes())

	require.Equal(t, "true", doc.Find("#chipFull").AttrOr("aria-selected", ""))
	require.True(t, doc.Find("#chipFull").HasClass("active"))

	var scripts []string
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		scripts = append(scripts, s.Text())
	})
	joined := strings.Join(scripts, "\n")
	require.Contains(t, joined, "scrollIntoView")
	require.Contains(t, joined, `"card-1"`)
	require.Contains(t, joined, "150")

	// Copied links keep the page's own parameters.
	var sig signals
	require.NoError(t, json.Unmarshal([]byte(doc.Find("body").AttrOr("data-signals", "")), &sig))
	body := post(t, srv, "/cards/card-0/copy", sig.Page, "", "all")
	require.Contains(t, body, "utm=x")
	require.Contains(t, body, "p=todo")
	require.Contains(t, body, "e=full")
}

func TestQuery_PatchesCardsAndCount(t *testing.T) {
	srv := newTestServer(t, testCatalog)
	id, _ := openPage(t, srv, "http://example.com/")
	body, err := json.Marshal(signals{Page: id, Query: "CALC", Tag: "all"})
	require.NoError(t, err)
	rec := do(t, srv, http.MethodPost, "/query", string(body))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	out := rec.Body.String()
	require.Contains(t, out, "datastar-patch-elements")
	require.Contains(t, out, "#cards")
	require.Contains(t, out, "1 / 3")
	require.Contains(t, out, `data-id="calc"`)
	require.NotContains(t, out, `data-id="clock"`)
}

func TestTagAndReset(t *testing.T) {
	srv := newTestServer(t, testCatalog)
	id, _ := openPage(t, srv, "http://example.com/")
	require.Contains(t, post(t, srv, "/tag", id, "", "dom"), "1 / 3")

	body := post(t, srv, "/reset", id, "", "dom")
	require.Contains(t, body, "3 / 3")
	require.Contains(t, body, "datastar-patch-signals")
	require.Contains(t, body, `"tag":"all"`)
}

func TestEdition_PatchesChips(t *testing.T) {
	srv := newTestServer(t, testCatalog)
	id, _ := openPage(t, srv, "http://example.com/")
	body := post(t, srv, "/edition/full", id, "", "all")
	require.Contains(t, body, "#chipFull")
	require.Contains(t, body, `aria-selected="true"`)
}

func TestCardActions(t *testing.T) {
	srv := newTestServer(t, testCatalog)
	id, _ := openPage(t, srv, "http://example.com/")

	body := post(t, srv, "/cards/card-1/preview", id, "", "all")
	require.Contains(t, body, "#card-1-preview")
	require.Contains(t, body, `src="calc/x.html"`)

	body = post(t, srv, "/cards/card-1/openPreview", id, "", "all")
	require.Contains(t, body, "window.open")
	require.Contains(t, body, "noopener,noreferrer")

	body = post(t, srv, "/cards/card-0/copy", id, "", "all")
	require.Contains(t, body, "navigator.clipboard.writeText")
	require.Contains(t, body, "Copied link ✅")
	require.Contains(t, body, "Copy link:")

	body = post(t, srv, "/cards/card-42/preview", id, "", "all")
	require.NotContains(t, body, "datastar-patch-elements")
}

func TestCopySite(t *testing.T) {
	srv := newTestServer(t, testCatalog)
	id, _ := openPage(t, srv, "http://example.com/?p=todo&e=full")
	body := post(t, srv, "/copy-site", id, "", "all")
	require.Contains(t, body, `"http://example.com/"`)
	require.Contains(t, body, "Copied site link ✅")
	require.Contains(t, body, `"Copy:"`)
}

func TestPathModal(t *testing.T) {
	srv := newTestServer(t, testCatalog)
	id, _ := openPage(t, srv, "http://example.com/")

	body := post(t, srv, "/path/open", id, "", "all")
	require.Contains(t, body, "#pathModalBack")
	require.Contains(t, body, "modalBack show")
	require.Contains(t, body, `data-id="calc"`)

	require.Contains(t, post(t, srv, "/path/first/full", id, "", "all"), "calc/f.html")
	require.Contains(t, post(t, srv, "/path/project?edition=express&id=todo", id, "", "all"), "todo/x.html")
	require.NotContains(t, post(t, srv, "/path/steps/1/open", id, "", "all"), "modalItem")
	require.Contains(t, post(t, srv, "/path/close", id, "", "all"), `aria-hidden="true"`)
	require.Contains(t, post(t, srv, "/path/steps/0/see", id, "", "all"), "scrollIntoView")
	require.NotContains(t, post(t, srv, "/path/steps/nope/open", id, "", "all"), "datastar-patch-elements")
}

func TestPages_HaveIndependentState(t *testing.T) {
	srv := newTestServer(t, testCatalog)

	b, docB := openPage(t, srv, "http://example.com/")
	require.Equal(t, "todo", docB.Find("#card-0").AttrOr("data-id", ""))

	a, _ := openPage(t, srv, "http://example.com/")
	require.NotEqual(t, a, b)
	require.Contains(t, post(t, srv, "/query", a, "calc", "all"), "1 / 3")

	// Page B still shows todo as its first card, and acts on it.
	body := post(t, srv, "/cards/card-0/openPreview", b, "", "all")
	require.Contains(t, body, "todo/x.html")
	require.NotContains(t, body, "calc/x.html")

	// A fresh load starts from its own URL, not from another page's filters.
	_, doc := openPage(t, srv, "http://example.com/")
	require.Equal(t, "3 / 3", doc.Find("#count").Text())
	require.Equal(t, "true", doc.Find("#pathModalBack").AttrOr("aria-hidden", ""))

	require.Contains(t, post(t, srv, "/path/open", a, "calc", "all"), "modalBack show")
	_, doc = openPage(t, srv, "http://example.com/")
	require.Equal(t, "true", doc.Find("#pathModalBack").AttrOr("aria-hidden", ""))
}

func TestUnknownPage(t *testing.T) {
	srv := newTestServer(t, testCatalog)

	body := post(t, srv, "/query", "gone", "calc", "all")
	require.Contains(t, body, reloadScript)
	require.NotContains(t, body, "datastar-patch-elements")

	rec := do(t, srv, http.MethodGet, "/events?datastar="+url.QueryEscape(`{"page":"gone"}`), "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodPost, "/reset", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPages_IdlePagesArePruned(t *testing.T) {
	srv := newTestServer(t, testCatalog)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	srv.pages.now = func() time.Time { return now }

	old, _ := openPage(t, srv, "http://example.com/")
	streaming, _ := openPage(t, srv, "http://example.com/")
	p, ok := srv.pages.get(streaming)
	require.True(t, ok)
	_, cancel := p.hub.subscribe()
	defer cancel()

	now = now.Add(pageIdleTTL + time.Minute)
	openPage(t, srv, "http://example.com/")

	_, ok = srv.pages.get(old)
	require.False(t, ok)
	_, ok = srv.pages.get(streaming)
	require.True(t, ok)
	require.Equal(t, 2, srv.pages.len())
}

func TestReload_BroadcastsToEveryPage(t *testing.T) {
	srv := newTestServer(t, testCatalog)
	a, _ := openPage(t, srv, "http://example.com/")
	b, _ := openPage(t, srv, "http://example.com/")
	post(t, srv, "/query", b, "calc", "all")

	streams := map[string]chan []patch{}
	for _, id := range []string{a, b} {
		p, ok := srv.pages.get(id)
		require.True(t, ok)
		ch, cancel := p.hub.subscribe()
		t.Cleanup(cancel)
		streams[id] = ch
	}

	srv.Reload(store.Fallback())
	for id, ch := range streams {
		select {
		case patches := <-ch:
			var html strings.Builder
			for _, p := range patches {
				html.WriteString(p.html)
				html.WriteString(p.script)
			}
			require.Contains(t, html.String(), store.FallbackTitle)
		case <-time.After(time.Second):
			t.Fatalf("expected reload patches for page %s", id)
		}
	}

	_, doc := openPage(t, srv, "http://example.com/")
	require.Equal(t, "1 / 1", doc.Find("#count").Text())
}

func TestDocs(t *testing.T) {
	srv := newTestServer(t, testCatalog)
	rec := do(t, srv, http.MethodGet, "/docs/links", "")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parseHTML(t, rec.Body.Bytes())
	require.Equal(t, "Links", doc.Find("article.doc h1").Text())

	rec = do(t, srv, http.MethodGet, "/docs", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodGet, "/docs/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, testCatalog)
	rec := do(t, srv, http.MethodGet, "/health", "")
	require.Equal(t, "ok\n", rec.Body.String())
}
