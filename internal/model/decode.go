package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Wire schema. Everything except projects[].id is optional; absent or blank values
// are replaced by defaults in normalize, and nowhere else.
type wireCatalog struct {
	Meta     *wireMeta      `json:"meta" yaml:"meta"`
	Projects *[]wireProject `json:"projects" yaml:"projects"`
}

type wireMeta struct {
	Title      string          `json:"title" yaml:"title"`
	Version    string          `json:"version" yaml:"version"`
	GuidedPath *wireGuidedPath `json:"guidedPath" yaml:"guidedPath"`
}

type wireGuidedPath struct {
	Steps []wireStep `json:"steps" yaml:"steps"`
}

type wireStep struct {
	Title      string   `json:"title" yaml:"title"`
	Desc       string   `json:"desc" yaml:"desc"`
	ProjectIDs []string `json:"projectIds" yaml:"projectIds"`
}

type wireProject struct {
	ID         string     `json:"id" yaml:"id"`
	Icon       string     `json:"icon" yaml:"icon"`
	Title      string     `json:"title" yaml:"title"`
	Summary    string     `json:"summary" yaml:"summary"`
	Difficulty string     `json:"difficulty" yaml:"difficulty"`
	Thumb      string     `json:"thumb" yaml:"thumb"`
	Tags       []string   `json:"tags" yaml:"tags"`
	Skills     []string   `json:"skills" yaml:"skills"`
	Links      *wireLinks `json:"links" yaml:"links"`
}

type wireLinks struct {
	Express string `json:"express" yaml:"express"`
	Full    string `json:"full" yaml:"full"`
}

// DecodeJSON parses and validates a JSON catalog payload.
func DecodeJSON(data []byte) (Catalog, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Catalog{}, ErrNotObject
	}
	var w wireCatalog
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return Catalog{}, fmt.Errorf("catalog: parse json: %w", err)
	}
	return w.normalize()
}

// DecodeYAML parses and validates a YAML catalog payload (same schema as JSON).
func DecodeYAML(data []byte) (Catalog, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Catalog{}, fmt.Errorf("catalog: parse yaml: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return Catalog{}, ErrNotObject
	}
	var w wireCatalog
	if err := doc.Content[0].Decode(&w); err != nil {
		return Catalog{}, fmt.Errorf("catalog: parse yaml: %w", err)
	}
	return w.normalize()
}

func (w wireCatalog) normalize() (Catalog, error) {
	if w.Projects == nil {
		return Catalog{}, ErrMissingProjects
	}

	var meta Meta
	if w.Meta != nil {
		meta.Title = strings.TrimSpace(w.Meta.Title)
		meta.Version = strings.TrimSpace(w.Meta.Version)
		if w.Meta.GuidedPath != nil {
			gp := &GuidedPath{Steps: make([]Step, 0, len(w.Meta.GuidedPath.Steps))}
			for _, s := range w.Meta.GuidedPath.Steps {
				gp.Steps = append(gp.Steps, Step{
					Title:      s.Title,
					Desc:       s.Desc,
					ProjectIDs: nonNil(s.ProjectIDs),
				})
			}
			meta.GuidedPath = gp
		}
	}

	seen := make(map[string]int, len(*w.Projects))
	projects := make([]Project, 0, len(*w.Projects))
	for i, wp := range *w.Projects {
		id := strings.TrimSpace(wp.ID)
		if id == "" {
			return Catalog{}, errMissingID(i)
		}
		if first, ok := seen[id]; ok {
			return Catalog{}, errDuplicateID(i, id, first)
		}
		seen[id] = i
		projects = append(projects, wp.project(id))
	}
	return NewCatalog(meta, projects), nil
}

func (wp wireProject) project(id string) Project {
	p := Project{
		ID:         id,
		Icon:       orDefault(wp.Icon, DefaultIcon),
		Title:      wp.Title,
		Summary:    wp.Summary,
		Difficulty: orDefault(wp.Difficulty, DefaultDifficulty),
		Thumb:      orDefault(wp.Thumb, DefaultThumb),
		Tags:       nonNil(wp.Tags),
		Skills:     nonNil(wp.Skills),
		Links:      Links{Express: MissingLink, Full: MissingLink},
	}
	if wp.Links != nil {
		p.Links.Express = orDefault(wp.Links.Express, MissingLink)
		p.Links.Full = orDefault(wp.Links.Full, MissingLink)
	}
	return p
}

func orDefault(v, d string) string {
	if strings.TrimSpace(v) == "" {
		return d
	}
	return v
}

func nonNil(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}
