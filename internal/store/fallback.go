package store

import "showcase-cli/internal/model"

const FallbackTitle = "JavaScript Projects Showcase (Fallback)"

// Fallback is the built-in one-project catalog substituted when loading fails.
func Fallback() model.Catalog {
	meta := model.Meta{Title: FallbackTitle, Version: "1.0"}
	projects := []model.Project{{
		ID:         "todo",
		Icon:       "📝",
		Title:      "To‑Do App",
		Summary:    "Add tasks.",
		Difficulty: model.DefaultDifficulty,
		Thumb:      model.DefaultThumb,
		Tags:       []string{"starter"},
		Skills:     []string{"DOM"},
		Links: model.Links{
			Express: "projects/todo/express/index.html",
			Full:    "projects/todo/full/index.html",
		},
	}}
	return model.NewCatalog(meta, projects)
}
