package component

import (
	"fmt"

	"github.com/xhd2015/go-dom-tui/colors"
	"github.com/xhd2015/go-dom-tui/dom"
	"github.com/xhd2015/go-dom-tui/styles"
	"github.com/xhd2015/partsearch/models"
	"github.com/xhd2015/partsearch/ui/search"
)

const DefaultSuggestionRows = 8

type SuggestionListProps struct {
	Suggestions []models.Suggestion
	Highlight   int
	// Query is highlighted inside each label
	Query string
	// MaxRows bounds the visible rows; the window follows the highlight.
	MaxRows int
}

// SuggestionList renders the dropdown below the search input. It renders
// nothing for an empty list.
func SuggestionList(props SuggestionListProps) *dom.Node {
	if len(props.Suggestions) == 0 {
		return dom.Fragment()
	}
	maxRows := props.MaxRows
	if maxRows <= 0 {
		maxRows = DefaultSuggestionRows
	}

	w := SliceWindow(len(props.Suggestions), props.Highlight, maxRows)

	var nodes []*dom.Node
	if w.Above > 0 {
		nodes = append(nodes, dom.Div(dom.DivProps{},
			dom.Text(fmt.Sprintf("  ↑ (%d more)", w.Above), styles.Style{
				Color: colors.GREY_TEXT,
			}),
		))
	}
	var items []*dom.Node
	for i := w.Begin; i < w.End; i++ {
		s := props.Suggestions[i]
		highlighted := i == props.Highlight
		prefix := "  "
		if highlighted {
			prefix = "> "
		}
		items = append(items, dom.Li(dom.ListItemProps{
			Selected:   highlighted,
			ItemPrefix: dom.String(prefix),
		}, suggestionLabel(s.Label, props.Query)))
	}
	nodes = append(nodes, dom.Ul(dom.DivProps{}, items...))
	if w.Below > 0 {
		nodes = append(nodes, dom.Div(dom.DivProps{},
			dom.Text(fmt.Sprintf("  ↓ (%d more)", w.Below), styles.Style{
				Color: colors.GREY_TEXT,
			}),
		))
	}
	return dom.Div(dom.DivProps{}, nodes...)
}

func suggestionLabel(label string, query string) *dom.Node {
	parts := search.SplitMatch(label, query)
	if parts == nil {
		return dom.Text(label)
	}
	var nodes []*dom.Node
	for _, part := range parts {
		if part.Match {
			nodes = append(nodes, dom.Text(part.Text, styles.Style{
				Bold:  true,
				Color: "yellow",
			}))
			continue
		}
		nodes = append(nodes, dom.Text(part.Text))
	}
	return dom.HDiv(dom.DivProps{}, nodes...)
}

// Window is the visible slice [Begin, End) of a list.
type Window struct {
	Begin int
	End   int
	Above int
	Below int
}

// SliceWindow picks at most rows items out of n so that selected is
// visible, scrolling no further than needed.
func SliceWindow(n int, selected int, rows int) Window {
	if n <= 0 || rows <= 0 {
		return Window{}
	}
	if selected < 0 {
		selected = 0
	}
	if selected >= n {
		selected = n - 1
	}
	if rows > n {
		rows = n
	}
	begin := 0
	if selected >= rows {
		begin = selected - rows + 1
	}
	end := begin + rows
	return Window{
		Begin: begin,
		End:   end,
		Above: begin,
		Below: n - end,
	}
}
