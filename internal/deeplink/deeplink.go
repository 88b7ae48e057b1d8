// Package deeplink reads and writes the shareable query parameters that select an
// edition and focus a project card.
package deeplink

import (
	"net/url"
	"strings"

	"showcase-cli/internal/model"
)

const (
	ParamProject = "p"
	ParamEdition = "e"
)

// Selection is the decoded deep-link state. An empty ProjectID means no focus.
type Selection struct {
	Edition   model.Edition
	ProjectID string
}

// Decode reads e and p from query values. Any e other than "full" is express.
func Decode(q url.Values) Selection {
	return Selection{
		Edition:   model.ParseEdition(q.Get(ParamEdition)),
		ProjectID: strings.TrimSpace(q.Get(ParamProject)),
	}
}

// Parse decodes a full URL (or a bare query string starting with "?").
func Parse(raw string) (Selection, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Selection{}, err
	}
	return Decode(u.Query()), nil
}

// ProjectLink returns page with p and e set. Like URLSearchParams.set, an
// existing parameter keeps its position (repeats are dropped) and a new one is
// appended; other parameters keep their order, and the fragment is kept.
func ProjectLink(page, id string, edition model.Edition) (string, error) {
	u, err := url.Parse(page)
	if err != nil {
		return "", err
	}
	params := parseParams(u.RawQuery)
	params = setParam(params, ParamProject, id)
	params = setParam(params, ParamEdition, string(edition))
	u.RawQuery = encodeParams(params)
	return u.String(), nil
}

type param struct {
	key, value string
}

// parseParams splits a query in order. Malformed escapes are kept verbatim.
func parseParams(raw string) []param {
	var out []param
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		out = append(out, param{key: unescape(k), value: unescape(v)})
	}
	return out
}

func unescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return s
}

func setParam(params []param, key, value string) []param {
	out := params[:0]
	found := false
	for _, p := range params {
		if p.key != key {
			out = append(out, p)
			continue
		}
		if !found {
			out = append(out, param{key: key, value: value})
			found = true
		}
	}
	if !found {
		out = append(out, param{key: key, value: value})
	}
	return out
}

func encodeParams(params []param) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, url.QueryEscape(p.key)+"="+url.QueryEscape(p.value))
	}
	return strings.Join(parts, "&")
}

// SiteLink strips everything from the first "?".
func SiteLink(page string) string {
	base, _, _ := strings.Cut(page, "?")
	return base
}
