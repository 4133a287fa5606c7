package searchbox

import "github.com/xhd2015/partsearch/models"

type NoticeKind string

const (
	NoticeSuggestions NoticeKind = "suggestions"
	NoticeProduct     NoticeKind = "product"
	NoticeImage       NoticeKind = "image"
)

// Notice is a non-blocking inline failure message.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// State is a read-only snapshot handed to the render tree.
type State struct {
	Query       string
	Suggestions []models.Suggestion
	Highlight   int
	Open        bool
	Product     *models.Product
	Thumbnail   []string
	Notice      *Notice

	// set while a selection is in flight
	Selecting bool
	Loading   bool
}

// IsExpanded reports whether the suggestion list is visible. It is
// false whenever there is nothing to show.
func (s State) IsExpanded() bool {
	return s.Open && len(s.Suggestions) > 0
}

// CardVisible reports whether the product card occupies any space.
func (s State) CardVisible() bool {
	return s.Product != nil
}

func (s State) Highlighted() (models.Suggestion, bool) {
	if s.Highlight < 0 || s.Highlight >= len(s.Suggestions) {
		return models.Suggestion{}, false
	}
	return s.Suggestions[s.Highlight], true
}
