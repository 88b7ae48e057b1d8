package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

const testCatalogJSON = `{
  "meta": {
    "title": "Demo Showcase",
    "guidedPath": {"steps": [
      {"title": "Start", "desc": "First **steps**.", "projectIds": ["calc", "todo", "ghost"]},
      {"title": "Later", "desc": "Time.", "projectIds": ["clock"]}
    ]}
  },
  "projects": [
    {"id": "todo", "title": "To-Do", "summary": "Tasks.", "tags": ["starter", "dom"], "skills": ["DOM"],
     "links": {"express": "projects/todo/express/", "full": "projects/todo/full/"}},
    {"id": "calc", "title": "Calculator", "summary": "Add numbers.", "difficulty": "Intermediate", "tags": ["math"],
     "links": {"express": "projects/calc/express/"}},
    {"id": "clock", "title": "Clock", "summary": "Tick tock.", "tags": ["time", "dom"]}
  ]
}`

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "slides.json")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return p
}

func decodeData(t *testing.T, out []byte) map[string]any {
	t.Helper()
	var env map[string]any
	if err := json.Unmarshal(out, &env); err != nil {
		t.Fatalf("json: %v\n%s", err, string(out))
	}
	data, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %#v", env["data"])
	}
	return data
}

func projectIDs(t *testing.T, v any) []string {
	t.Helper()
	rows, ok := v.([]any)
	if !ok {
		t.Fatalf("expected projects array, got %#v", v)
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		m, _ := r.(map[string]any)
		id, _ := m["id"].(string)
		ids = append(ids, id)
	}
	return ids
}

func TestList_FiltersAndCounts(t *testing.T) {
	data := writeCatalog(t, testCatalogJSON)

	out, _, err := runCLI(t, []string{"--data", data, "list"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := decodeData(t, out)
	if got["title"] != "Demo Showcase" || got["count"] != "3 / 3" {
		t.Fatalf("unexpected header: %#v", got)
	}
	if ids := strings.Join(projectIDs(t, got["projects"]), ","); ids != "todo,calc,clock" {
		t.Fatalf("expected catalog order, got %q", ids)
	}

	out, _, err = runCLI(t, []string{"--data", data, "list", "--tag", "dom", "--query", "TICK", "--edition", "full"})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	got = decodeData(t, out)
	if got["count"] != "1 / 3" || got["edition"] != "full" {
		t.Fatalf("unexpected filtered header: %#v", got)
	}
	rows := got["projects"].([]any)
	row := rows[0].(map[string]any)
	if row["id"] != "clock" || row["link"] != "#" || row["difficulty"] != "Beginner" {
		t.Fatalf("unexpected row: %#v", row)
	}
}

func TestList_NoMatchesHint(t *testing.T) {
	data := writeCatalog(t, testCatalogJSON)

	out, _, err := runCLI(t, []string{"--data", data, "list", "--query", "zzz"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var env map[string]any
	if err := json.Unmarshal(out, &env); err != nil {
		t.Fatalf("json: %v", err)
	}
	hints, _ := env["_hints"].([]any)
	if len(hints) != 1 || !strings.Contains(hints[0].(string), "clearing search") {
		t.Fatalf("expected empty-state hint, got %#v", env["_hints"])
	}
}

func TestList_InvalidEdition(t *testing.T) {
	data := writeCatalog(t, testCatalogJSON)

	_, stderr, err := runCLI(t, []string{"--data", data, "list", "--edition", "deluxe"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(string(stderr), "invalid --edition") {
		t.Fatalf("expected usage message on stderr, got %q", string(stderr))
	}
}

func TestList_FallbackWhenSourceMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.json")

	out, _, err := runCLI(t, []string{"--data", missing, "--log-file", filepath.Join(t.TempDir(), "log.jsonl"), "list"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := decodeData(t, out)
	if got["title"] != "JavaScript Projects Showcase (Fallback)" {
		t.Fatalf("expected fallback title, got %#v", got["title"])
	}
	if ids := projectIDs(t, got["projects"]); len(ids) != 1 || ids[0] != "todo" {
		t.Fatalf("expected fallback todo project, got %#v", ids)
	}
}

func TestList_YAMLFormat(t *testing.T) {
	data := writeCatalog(t, testCatalogJSON)

	out, _, err := runCLI(t, []string{"--data", data, "--format", "yaml", "list", "--tag", "math"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var env struct {
		Data struct {
			Count    string `yaml:"count"`
			Projects []struct {
				ID   string `yaml:"id"`
				Link string `yaml:"link"`
			} `yaml:"projects"`
		} `yaml:"data"`
	}
	if err := yaml.Unmarshal(out, &env); err != nil {
		t.Fatalf("yaml: %v\n%s", err, string(out))
	}
	if env.Data.Count != "1 / 3" || len(env.Data.Projects) != 1 || env.Data.Projects[0].Link != "projects/calc/express/" {
		t.Fatalf("unexpected yaml output: %+v", env.Data)
	}
}

func TestTags(t *testing.T) {
	data := writeCatalog(t, testCatalogJSON)

	out, _, err := runCLI(t, []string{"--data", data, "tags"})
	if err != nil {
		t.Fatalf("tags: %v", err)
	}
	got := decodeData(t, out)
	b, _ := json.Marshal(got["tags"])
	if string(b) != `["all","dom","math","starter","time"]` {
		t.Fatalf("unexpected tags: %s", string(b))
	}
}

func TestPath_StepsAndDetail(t *testing.T) {
	data := writeCatalog(t, testCatalogJSON)

	out, _, err := runCLI(t, []string{"--data", data, "path"})
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	got := decodeData(t, out)
	steps := got["steps"].([]any)
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	first := steps[0].(map[string]any)
	if first["step"] != float64(1) || first["title"] != "Start" || first["difficulty"] != "Intermediate" {
		t.Fatalf("unexpected first step: %#v", first)
	}

	out, _, err = runCLI(t, []string{"--data", data, "path", "1"})
	if err != nil {
		t.Fatalf("path 1: %v", err)
	}
	got = decodeData(t, out)
	if ids := strings.Join(projectIDs(t, got["projects"]), ","); ids != "calc,todo" {
		t.Fatalf("expected resolvable projects in step order, got %q", ids)
	}
}

func TestPath_Errors(t *testing.T) {
	data := writeCatalog(t, testCatalogJSON)

	if _, _, err := runCLI(t, []string{"--data", data, "path", "3"}); err == nil {
		t.Fatalf("expected not found for step 3")
	} else if _, ok := err.(notFoundError); !ok {
		t.Fatalf("expected notFoundError, got %T", err)
	}
	if _, _, err := runCLI(t, []string{"--data", data, "path", "one"}); err == nil {
		t.Fatalf("expected usage error")
	} else if _, ok := err.(usageError); !ok {
		t.Fatalf("expected usageError, got %T", err)
	}

	noPath := writeCatalog(t, `{"projects":[{"id":"a","title":"A"}]}`)
	if _, _, err := runCLI(t, []string{"--data", noPath, "path"}); err == nil {
		t.Fatalf("expected error without a guided path")
	}
}

func TestLink(t *testing.T) {
	data := writeCatalog(t, testCatalogJSON)

	out, _, err := runCLI(t, []string{"--data", data, "--base-url", "https://example.com/show/", "link", "todo", "--edition", "full"})
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	got := decodeData(t, out)
	if got["url"] != "https://example.com/show/?p=todo&e=full" {
		t.Fatalf("unexpected url: %#v", got["url"])
	}

	out, _, err = runCLI(t, []string{"--base-url", "https://example.com/show/?x=1", "link", "--site"})
	if err != nil {
		t.Fatalf("link --site: %v", err)
	}
	if got := decodeData(t, out); got["url"] != "https://example.com/show/" {
		t.Fatalf("unexpected site url: %#v", got["url"])
	}

	if _, _, err := runCLI(t, []string{"--data", data, "link", "ghost"}); err == nil {
		t.Fatalf("expected not found for unknown project")
	}
	if _, _, err := runCLI(t, []string{"--data", data, "link"}); err == nil {
		t.Fatalf("expected usage error without id")
	}
}

func TestLink_KeepsOpenedLinkParams(t *testing.T) {
	data := writeCatalog(t, testCatalogJSON)

	out, _, err := runCLI(t, []string{"--data", data, "--link", "https://example.com/?ref=mail&p=calc", "link", "clock"})
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	got := decodeData(t, out)
	if got["url"] != "https://example.com/?ref=mail&p=clock&e=express" {
		t.Fatalf("unexpected url: %#v", got["url"])
	}
}

func TestResolve(t *testing.T) {
	data := writeCatalog(t, testCatalogJSON)

	out, _, err := runCLI(t, []string{"--data", data, "resolve", "http://x/?p=calc&e=full"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	got := decodeData(t, out)
	if got["found"] != true || got["edition"] != "full" || got["projectId"] != "calc" {
		t.Fatalf("unexpected resolve: %#v", got)
	}
	p := got["project"].(map[string]any)
	if p["link"] != "#" {
		t.Fatalf("expected missing full link, got %#v", p["link"])
	}

	out, _, err = runCLI(t, []string{"--data", data, "resolve", "?p=ghost&e=FULL"})
	if err != nil {
		t.Fatalf("resolve unknown: %v", err)
	}
	got = decodeData(t, out)
	if got["found"] != false || got["edition"] != "express" {
		t.Fatalf("unexpected resolve: %#v", got)
	}
}

func TestValidate(t *testing.T) {
	data := writeCatalog(t, testCatalogJSON)

	out, _, err := runCLI(t, []string{"--data", data, "validate"})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	got := decodeData(t, out)
	if got["valid"] != true || got["projects"] != float64(3) || got["tags"] != float64(4) || got["steps"] != float64(2) {
		t.Fatalf("unexpected validate: %#v", got)
	}

	dup := writeCatalog(t, `{"projects":[{"id":"a"},{"id":"a"}]}`)
	_, stderr, err := runCLI(t, []string{"--data", dup, "--log-file", filepath.Join(t.TempDir(), "log"), "validate"})
	if err == nil {
		t.Fatalf("expected duplicate id error")
	}
	if !strings.Contains(string(stderr), "duplicate id") {
		t.Fatalf("expected error on stderr, got %q", string(stderr))
	}

	if _, _, err := runCLI(t, []string{"--data", writeCatalog(t, `[]`), "validate"}); err == nil {
		t.Fatalf("expected error for non-object payload")
	}
}

func TestDocs(t *testing.T) {
	out, _, err := runCLI(t, []string{"docs"})
	if err != nil {
		t.Fatalf("docs: %v", err)
	}
	got := decodeData(t, out)
	b, _ := json.Marshal(got["topics"])
	if !strings.Contains(string(b), `"keys"`) {
		t.Fatalf("expected keys topic, got %s", string(b))
	}

	out, _, err = runCLI(t, []string{"docs", "links", "--raw"})
	if err != nil {
		t.Fatalf("docs links --raw: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(string(out)), "#") {
		t.Fatalf("expected raw markdown, got %q", string(out))
	}

	out, _, err = runCLI(t, []string{"docs", "keys"})
	if err != nil {
		t.Fatalf("docs keys: %v", err)
	}
	if got := decodeData(t, out); got["topic"] != "keys" || got["markdown"] == "" {
		t.Fatalf("unexpected docs envelope: %#v", got)
	}

	if _, _, err := runCLI(t, []string{"docs", "nope"}); err == nil {
		t.Fatalf("expected unknown topic error")
	}
}

func TestRoot_InvalidLink(t *testing.T) {
	app := &App{Link: "http://[::1"}
	if _, err := app.selection(); err == nil {
		t.Fatalf("expected usage error for malformed link")
	}
	app = &App{}
	sel, err := app.selection()
	if err != nil || sel.Edition != "express" || sel.ProjectID != "" {
		t.Fatalf("unexpected default selection: %#v %v", sel, err)
	}
}
