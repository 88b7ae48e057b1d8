package session

import (
	"strconv"

	"showcase-cli/internal/model"
)

// BuildSteps lists the guided path steps. Each step shows the difficulty of its
// first referenced project only.
func BuildSteps(cat model.Catalog) []StepEntry {
	if !cat.HasGuidedPath() {
		return nil
	}
	steps := cat.Steps()
	out := make([]StepEntry, 0, len(steps))
	for i, s := range steps {
		diff := model.DefaultDifficulty
		if len(s.ProjectIDs) > 0 {
			if p, ok := cat.Project(s.ProjectIDs[0]); ok && p.Difficulty != "" {
				diff = p.Difficulty
			}
		}
		out = append(out, StepEntry{
			Index:      i,
			Label:      strconv.Itoa(i + 1),
			Title:      s.Title,
			Desc:       s.Desc,
			Difficulty: diff,
			ProjectIDs: append([]string(nil), s.ProjectIDs...),
		})
	}
	return out
}

// BuildModal builds the detail view of step i from its resolvable projects.
// It reports false when there is no such step.
func BuildModal(cat model.Catalog, i int) (ModalView, bool) {
	step, ok := cat.Step(i)
	if !ok {
		return ModalView{}, false
	}
	projects := cat.Resolve(step.ProjectIDs)
	m := ModalView{
		Step:  i,
		Title: step.Title,
		Desc:  step.Desc,
		Items: make([]ModalItem, 0, len(projects)),
	}
	for _, p := range projects {
		m.Items = append(m.Items, ModalItem{
			ID:         p.ID,
			Icon:       p.Icon,
			Title:      p.Title,
			Difficulty: p.Difficulty,
			Thumb:      p.Thumb,
			Express:    p.Links.Express,
			Full:       p.Links.Full,
		})
	}
	return m, true
}
