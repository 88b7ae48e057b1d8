package textutil

import (
	"encoding/json"
	"strings"
)

var markupEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// Escape makes untrusted text safe to embed in markup, both as element content
// and inside quoted attribute values.
func Escape(s string) string {
	return markupEscaper.Replace(s)
}

// JSString returns s as a double-quoted JavaScript string literal that is safe
// to place inside a <script> or an inline handler (<, > and & are \u-escaped).
func JSString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(b)
}
