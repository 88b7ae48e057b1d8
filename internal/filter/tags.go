package filter

import (
	"sort"

	"showcase-cli/internal/model"
)

// TagOptions returns "all" followed by every distinct tag, sorted ascending.
func TagOptions(projects []model.Project) []string {
	seen := map[string]bool{}
	tags := make([]string, 0, 16)
	for _, p := range projects {
		for _, t := range p.Tags {
			if seen[t] {
				continue
			}
			seen[t] = true
			tags = append(tags, t)
		}
	}
	sort.Strings(tags)
	return append([]string{model.AllTags}, tags...)
}
