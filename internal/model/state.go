package model

import "strings"

type Edition string

const (
	EditionExpress Edition = "express"
	EditionFull    Edition = "full"
)

// AllTags is the tag filter value that matches every project.
const AllTags = "all"

// ParseEdition returns EditionFull only for "full"; anything else is express.
func ParseEdition(s string) Edition {
	if strings.TrimSpace(s) == string(EditionFull) {
		return EditionFull
	}
	return EditionExpress
}

func (e Edition) Other() Edition {
	if e == EditionFull {
		return EditionExpress
	}
	return EditionFull
}

func (e Edition) Label() string {
	if e == EditionFull {
		return "Full"
	}
	return "Express"
}

// State is the transient browsing state. It lives only for the process lifetime.
type State struct {
	Edition Edition `json:"edition"`
	Query   string  `json:"query"`
	Tag     string  `json:"tag"`
}

func DefaultState() State {
	return State{Edition: EditionExpress, Query: "", Tag: AllTags}
}
