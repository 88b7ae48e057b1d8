// Package session drives the catalog browser: it renders State and Catalog into a
// View on every mutation and dispatches card and guided-path actions.
package session

import "showcase-cli/internal/model"

// View is the set of mount points a front end provides. Every call replaces the
// previous content of that mount point.
type View interface {
	Title(title string)
	// TagOptions receives "all" followed by the sorted distinct tags.
	TagOptions(options []string, selected string)
	Edition(active model.Edition)
	// Controls resets the search and tag inputs to the given values.
	Controls(query, tag string)
	Cards(list CardList)
	Preview(key string, p PreviewState)
	// Steps receives nil when the catalog has no guided path.
	Steps(steps []StepEntry)
	Modal(m ModalView)
	ScrollTo(key string)
}

type Clipboard interface {
	WriteText(text string) error
}

type Notifier interface {
	Toast(msg string)
	// Prompt shows value in a selectable field when the clipboard is unavailable.
	Prompt(label, value string)
}

// Opener opens a link outside the browser, in a new context with no opener and
// no referrer.
type Opener interface {
	Open(url string) error
}

const MaxSkills = 6

type Card struct {
	Key        string
	ID         string
	Icon       string
	Title      string
	Summary    string
	Difficulty string
	Thumb      string
	Tags       []string
	Skills     []string
	Express    string
	Full       string
	Edition    model.Edition
}

type CardList struct {
	Cards    []Card
	Filtered int
	Total    int
	// Count is the "<filtered> / <total>" counter text.
	Count string
	// Empty is set when no project matched and the placeholder should be shown.
	Empty bool
}

type PreviewState struct {
	Open bool
	Src  string
}

type StepEntry struct {
	Index      int
	Label      string
	Title      string
	Desc       string
	Difficulty string
	ProjectIDs []string
}

type ModalItem struct {
	ID         string
	Icon       string
	Title      string
	Difficulty string
	Thumb      string
	Express    string
	Full       string
}

type ModalView struct {
	Open  bool
	Step  int
	Title string
	Desc  string
	Items []ModalItem
}

// Card actions accepted by Session.CardAction.
const (
	ActionPreview     = "preview"
	ActionHidePreview = "hidePreview"
	ActionOpenPreview = "openPreview"
	ActionOpenExpress = "openExpress"
	ActionOpenFull    = "openFull"
	ActionCopy        = "copy"
)

const (
	EmptyTitle = "No matches"
	EmptyHint  = "Try clearing search or choosing another tag."

	ToastCopiedLink     = "Copied link ✅"
	ToastCopiedSiteLink = "Copied site link ✅"
	PromptCopyLink      = "Copy link:"
	PromptCopy          = "Copy:"
)
