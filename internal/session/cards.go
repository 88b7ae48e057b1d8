package session

import (
	"fmt"

	"showcase-cli/internal/filter"
	"showcase-cli/internal/model"
)

// CardKey names the mount point of the n-th rendered card.
func CardKey(n int) string {
	return fmt.Sprintf("card-%d", n)
}

// BuildCards projects the filtered catalog into cards, in catalog order.
func BuildCards(st model.State, cat model.Catalog) CardList {
	matched := filter.Apply(st, cat.Projects)
	list := CardList{
		Filtered: len(matched),
		Total:    len(cat.Projects),
		Count:    fmt.Sprintf("%d / %d", len(matched), len(cat.Projects)),
		Empty:    len(matched) == 0,
	}
	list.Cards = make([]Card, 0, len(matched))
	for i, p := range matched {
		list.Cards = append(list.Cards, newCard(CardKey(i), p, st.Edition))
	}
	return list
}

func newCard(key string, p model.Project, e model.Edition) Card {
	skills := p.Skills
	if len(skills) > MaxSkills {
		skills = skills[:MaxSkills]
	}
	return Card{
		Key:        key,
		ID:         p.ID,
		Icon:       p.Icon,
		Title:      p.Title,
		Summary:    p.Summary,
		Difficulty: p.Difficulty,
		Thumb:      p.Thumb,
		Tags:       append([]string(nil), p.Tags...),
		Skills:     append([]string(nil), skills...),
		Express:    p.Links.Express,
		Full:       p.Links.Full,
		Edition:    e,
	}
}
