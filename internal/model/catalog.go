package model

import "strings"

const (
	DefaultTitle      = "Projects Showcase"
	DefaultIcon       = "✨"
	DefaultDifficulty = "Beginner"
	DefaultThumb      = "assets/thumbs/default.svg"
	// MissingLink is substituted for an absent express/full link.
	MissingLink = "#"
)

type Links struct {
	Express string `json:"express"`
	Full    string `json:"full"`
}

type Project struct {
	ID         string   `json:"id"`
	Icon       string   `json:"icon"`
	Title      string   `json:"title"`
	Summary    string   `json:"summary"`
	Difficulty string   `json:"difficulty"`
	Thumb      string   `json:"thumb"`
	Tags       []string `json:"tags"`
	Skills     []string `json:"skills"`
	Links      Links    `json:"links"`
}

// Link returns the project's link for the given edition.
func (p Project) Link(e Edition) string {
	if e == EditionFull {
		return p.Links.Full
	}
	return p.Links.Express
}

func (p Project) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

type Step struct {
	Title      string   `json:"title"`
	Desc       string   `json:"desc"`
	ProjectIDs []string `json:"projectIds"`
}

type GuidedPath struct {
	Steps []Step `json:"steps"`
}

type Meta struct {
	Title      string      `json:"title"`
	Version    string      `json:"version"`
	GuidedPath *GuidedPath `json:"guidedPath,omitempty"`
}

// Catalog is the loaded data set. It is treated as immutable once built; a reload
// produces a new Catalog.
type Catalog struct {
	Meta     Meta      `json:"meta"`
	Projects []Project `json:"projects"`

	// byID maps project id -> index of its first occurrence in Projects.
	byID map[string]int
}

// NewCatalog builds a Catalog and its id index. Projects are used as given (no
// defaults are applied); use DecodeJSON/DecodeYAML for untrusted payloads.
func NewCatalog(meta Meta, projects []Project) Catalog {
	c := Catalog{Meta: meta, Projects: projects}
	c.byID = make(map[string]int, len(projects))
	for i, p := range projects {
		if _, ok := c.byID[p.ID]; !ok {
			c.byID[p.ID] = i
		}
	}
	return c
}

func (c Catalog) Title() string {
	if t := strings.TrimSpace(c.Meta.Title); t != "" {
		return t
	}
	return DefaultTitle
}

// Project returns the first project with the given id.
func (c Catalog) Project(id string) (Project, bool) {
	if c.byID != nil {
		i, ok := c.byID[id]
		if !ok {
			return Project{}, false
		}
		return c.Projects[i], true
	}
	for _, p := range c.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

// Resolve maps ids to projects in order, silently dropping unknown ids.
func (c Catalog) Resolve(ids []string) []Project {
	out := make([]Project, 0, len(ids))
	for _, id := range ids {
		if p, ok := c.Project(id); ok {
			out = append(out, p)
		}
	}
	return out
}

func (c Catalog) HasGuidedPath() bool {
	return c.Meta.GuidedPath != nil
}

func (c Catalog) Steps() []Step {
	if c.Meta.GuidedPath == nil {
		return nil
	}
	return c.Meta.GuidedPath.Steps
}

func (c Catalog) Step(i int) (Step, bool) {
	steps := c.Steps()
	if i < 0 || i >= len(steps) {
		return Step{}, false
	}
	return steps[i], true
}
