package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"showcase-cli/internal/deeplink"
	"showcase-cli/internal/filter"
	"showcase-cli/internal/model"
	"showcase-cli/internal/session"
)

type projectRow struct {
	ID         string   `json:"id"`
	Icon       string   `json:"icon"`
	Title      string   `json:"title"`
	Summary    string   `json:"summary"`
	Difficulty string   `json:"difficulty"`
	Tags       []string `json:"tags"`
	Skills     []string `json:"skills"`
	Link       string   `json:"link"`
}

type stepRow struct {
	Step       int      `json:"step"`
	Title      string   `json:"title"`
	Desc       string   `json:"desc"`
	Difficulty string   `json:"difficulty"`
	ProjectIDs []string `json:"projectIds"`
}

func newProjectRow(p model.Project, e model.Edition) projectRow {
	return projectRow{
		ID:         p.ID,
		Icon:       p.Icon,
		Title:      p.Title,
		Summary:    p.Summary,
		Difficulty: p.Difficulty,
		Tags:       p.Tags,
		Skills:     p.Skills,
		Link:       p.Link(e),
	}
}

// parseEditionFlag accepts "" (express), "express" or "full".
func parseEditionFlag(s string) (model.Edition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(model.EditionExpress):
		return model.EditionExpress, nil
	case string(model.EditionFull):
		return model.EditionFull, nil
	default:
		return "", errUsage("invalid --edition %q (express|full)", s)
	}
}

func newListCmd(app *App) *cobra.Command {
	var query, tag, edition string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects matching the search and tag filters",
		Example: strings.TrimSpace(`
showcase list
showcase list --query todo --tag starter --edition full
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := parseEditionFlag(edition)
			if err != nil {
				return writeErr(cmd, err)
			}
			log, err := app.logger(false)
			if err != nil {
				return writeErr(cmd, err)
			}
			cat := app.loadCatalog(cmd.Context(), log)

			st := model.DefaultState()
			st.Edition, st.Query = e, query
			if t := strings.TrimSpace(tag); t != "" {
				st.Tag = t
			}
			matched := filter.Apply(st, cat.Projects)
			rows := make([]projectRow, 0, len(matched))
			for _, p := range matched {
				rows = append(rows, newProjectRow(p, e))
			}
			list := session.BuildCards(st, cat)

			hints := []string{}
			if len(rows) > 0 {
				hints = append(hints, "showcase link "+rows[0].ID+" --edition "+string(e))
			} else {
				hints = append(hints, session.EmptyHint)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"title":    cat.Title(),
					"edition":  e,
					"count":    list.Count,
					"projects": rows,
				},
				"_hints": hints,
			})
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "Case-insensitive search over id, title, summary, skills and tags")
	cmd.Flags().StringVar(&tag, "tag", model.AllTags, "Only projects with this tag")
	cmd.Flags().StringVar(&edition, "edition", "", "Edition for links (express|full)")
	return cmd
}

func newTagsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List the tag filter options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := app.logger(false)
			if err != nil {
				return writeErr(cmd, err)
			}
			cat := app.loadCatalog(cmd.Context(), log)
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"tags": filter.TagOptions(cat.Projects)},
			})
		},
	}
}

func newPathCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "path [step]",
		Short: "Show the guided path, or the projects of one step (1-based)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := app.logger(false)
			if err != nil {
				return writeErr(cmd, err)
			}
			cat := app.loadCatalog(cmd.Context(), log)
			if !cat.HasGuidedPath() {
				return writeErr(cmd, errNotFound("guided path", cat.Title()))
			}

			if len(args) == 0 {
				entries := session.BuildSteps(cat)
				rows := make([]stepRow, 0, len(entries))
				for _, s := range entries {
					rows = append(rows, stepRow{
						Step:       s.Index + 1,
						Title:      s.Title,
						Desc:       s.Desc,
						Difficulty: s.Difficulty,
						ProjectIDs: s.ProjectIDs,
					})
				}
				return writeOut(cmd, app, map[string]any{
					"data":   map[string]any{"steps": rows},
					"_hints": []string{"showcase path 1"},
				})
			}

			n, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil {
				return writeErr(cmd, errUsage("invalid step %q (expected a number)", args[0]))
			}
			m, ok := session.BuildModal(cat, n-1)
			if !ok {
				return writeErr(cmd, errNotFound("step", args[0]))
			}
			projects := make([]projectRow, 0, len(m.Items))
			for _, it := range m.Items {
				if p, ok := cat.Project(it.ID); ok {
					projects = append(projects, newProjectRow(p, model.EditionExpress))
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"step":     n,
					"title":    m.Title,
					"desc":     m.Desc,
					"projects": projects,
				},
			})
		},
	}
}

func newLinkCmd(app *App) *cobra.Command {
	var edition string
	var site bool

	cmd := &cobra.Command{
		Use:   "link [project-id]",
		Short: "Print a shareable deep link to a project (or the site link)",
		Example: strings.TrimSpace(`
showcase link todo --edition full
showcase link --site
`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base := app.pageURL()
			if site {
				return writeOut(cmd, app, map[string]any{
					"data": map[string]any{"url": deeplink.SiteLink(base)},
				})
			}
			if len(args) == 0 {
				return writeErr(cmd, errUsage("link: missing project id (or pass --site)"))
			}
			e, err := parseEditionFlag(edition)
			if err != nil {
				return writeErr(cmd, err)
			}
			log, err := app.logger(false)
			if err != nil {
				return writeErr(cmd, err)
			}
			cat := app.loadCatalog(cmd.Context(), log)
			id := strings.TrimSpace(args[0])
			if _, ok := cat.Project(id); !ok {
				return writeErr(cmd, errNotFound("project", id))
			}
			link, err := deeplink.ProjectLink(base, id, e)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data":   map[string]any{"url": link, "id": id, "edition": e},
				"_hints": []string{"showcase --link '" + link + "'"},
			})
		},
	}

	cmd.Flags().StringVar(&edition, "edition", "", "Edition (express|full)")
	cmd.Flags().BoolVar(&site, "site", false, "Print the site link (page address without query)")
	return cmd
}

func newResolveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <url>",
		Short: "Decode a deep link and show the project it selects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := deeplink.Parse(args[0])
			if err != nil {
				return writeErr(cmd, errUsage("invalid url %q: %v", args[0], err))
			}
			data := map[string]any{
				"edition":   sel.Edition,
				"projectId": sel.ProjectID,
				"found":     false,
			}
			if sel.ProjectID != "" {
				log, err := app.logger(false)
				if err != nil {
					return writeErr(cmd, err)
				}
				cat := app.loadCatalog(cmd.Context(), log)
				if p, ok := cat.Project(sel.ProjectID); ok {
					data["found"] = true
					data["project"] = newProjectRow(p, sel.Edition)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": data})
		},
	}
}

func newValidateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the catalog strictly (no fallback) and report problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := app.logger(false)
			if err != nil {
				return writeErr(cmd, err)
			}
			cat, err := app.loader(log).Fetch(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"source":   app.Data,
					"valid":    true,
					"title":    cat.Title(),
					"projects": len(cat.Projects),
					"tags":     len(filter.TagOptions(cat.Projects)) - 1,
					"steps":    len(cat.Steps()),
				},
			})
		},
	}
}
