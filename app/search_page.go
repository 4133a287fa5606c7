package app

import (
	"github.com/xhd2015/go-dom-tui/colors"
	"github.com/xhd2015/go-dom-tui/dom"
	"github.com/xhd2015/go-dom-tui/styles"
	"github.com/xhd2015/partsearch/component"
	"github.com/xhd2015/partsearch/searchbox"
)

// SearchPage renders the input, the dropdown, the inline notice and the
// product card, in that order.
func SearchPage(state *State, width int, height int) *dom.Node {
	st := state.Search.State()

	maxRows := component.DefaultSuggestionRows
	if height > 0 && height < maxRows {
		maxRows = height
	}
	if maxRows < 3 {
		maxRows = 3
	}

	var imageURL string
	if st.Product != nil && state.AssetURL != nil {
		imageURL = state.AssetURL(st.Product.ImageRef)
	}

	return dom.Div(dom.DivProps{},
		dom.HDiv(dom.DivProps{},
			dom.Text("⌕ ", styles.Style{
				Bold:  true,
				Color: colors.GREY_TEXT,
			}),
			component.SearchInput(component.SearchInputProps{
				Placeholder: "Search by part number",
				State:       &state.Input,
				Width:       width - 4,
				OnChange: func(value string) {
					state.StatusBar.Message = ""
					state.Search.OnQueryChange(value)
				},
				OnFocus: func() {
					state.CardFocused = false
					state.Search.OnFocus()
				},
				OnBlur: func() {
					state.Search.OnBlur()
				},
				OnKeyDown: func(event *dom.DOMEvent) {
					keyEvent := event.KeydownEvent
					switch keyEvent.KeyType {
					case dom.KeyTypeUp:
						event.PreventDefault()
						state.Search.MoveHighlight(-1)
					case dom.KeyTypeDown:
						event.PreventDefault()
						state.Search.MoveHighlight(1)
					case dom.KeyTypeEnter:
						if state.Search.SelectHighlighted() {
							state.LeaveInput()
						}
					case dom.KeyTypeEsc:
						state.LeaveInput()
					}
				},
			}),
		),
		func() *dom.Node {
			if !st.IsExpanded() {
				return dom.Fragment()
			}
			return component.SuggestionList(component.SuggestionListProps{
				Suggestions: st.Suggestions,
				Highlight:   st.Highlight,
				Query:       st.Query,
				MaxRows:     maxRows,
			})
		}(),
		NoticeLine(st.Notice),
		component.ProductCard(component.ProductCardProps{
			Product:   st.Product,
			ImageURL:  imageURL,
			Thumbnail: st.Thumbnail,
			Focused:   state.CardFocused && !state.Input.Focused,
			OnFocus: func() {
				state.CardFocused = true
			},
			OnKeyDown: func(event *dom.DOMEvent) {
				keyEvent := event.KeydownEvent
				switch keyEvent.KeyType {
				case dom.KeyTypeEnter:
					state.FocusInput()
					return
				}
				switch string(keyEvent.Runes) {
				case "y":
					event.StopPropagation()
					state.copyPartNumber()
				}
			},
		}),
	)
}

// NoticeLine renders a notice inline without blocking further input.
func NoticeLine(notice *searchbox.Notice) *dom.Node {
	if notice == nil {
		return dom.Fragment()
	}
	return dom.Div(dom.DivProps{},
		dom.Text("! "+notice.Message, styles.Style{
			Bold:  true,
			Color: colors.RED_ERROR,
		}),
	)
}
