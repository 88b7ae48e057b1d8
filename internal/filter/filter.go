// Package filter holds the catalog search predicate and the tag index.
package filter

import (
	"strings"

	"showcase-cli/internal/model"
)

// Matches reports whether p passes both the tag rule and the query rule of st.
func Matches(st model.State, p model.Project) bool {
	if st.Tag != model.AllTags && !p.HasTag(st.Tag) {
		return false
	}
	q := normalizeQuery(st.Query)
	if q == "" {
		return true
	}
	return strings.Contains(haystack(p), q)
}

// Apply returns the projects matching st, in catalog order.
func Apply(st model.State, projects []model.Project) []model.Project {
	out := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		if Matches(st, p) {
			out = append(out, p)
		}
	}
	return out
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// haystack joins the searchable fields: id, title, summary, skills, tags.
func haystack(p model.Project) string {
	parts := make([]string, 0, 3+len(p.Skills)+len(p.Tags))
	parts = append(parts, p.ID, p.Title, p.Summary)
	parts = append(parts, p.Skills...)
	parts = append(parts, p.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}
