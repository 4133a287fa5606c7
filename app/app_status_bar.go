package app

import (
	"strconv"

	"github.com/xhd2015/go-dom-tui/colors"
	"github.com/xhd2015/go-dom-tui/dom"
	"github.com/xhd2015/go-dom-tui/styles"
)

// AppStatusBar renders the application status bar
func AppStatusBar(state *State, width int) *dom.Node {
	st := state.Search.State()

	var nodes []*dom.Node
	nodes = append(nodes, dom.Text("•", styles.Style{
		Bold:  true,
		Color: colors.GREEN_SUCCESS,
	}))
	if state.StatusBar.History != "" {
		nodes = append(nodes, dom.Text("history:"+state.StatusBar.History, styles.Style{
			Bold:  true,
			Color: colors.GREY_TEXT,
		}))
	}
	if state.StatusBar.Error != "" {
		nodes = append(nodes, dom.Text("  "+state.StatusBar.Error, styles.Style{
			Bold:  true,
			Color: colors.RED_ERROR,
		}))
	} else if state.StatusBar.Message != "" {
		nodes = append(nodes, dom.Text("  "+state.StatusBar.Message, styles.Style{
			Color: colors.GREEN_SUCCESS,
		}))
	}

	var activity string
	switch {
	case st.Selecting:
		activity = "Loading product..."
	case st.Loading:
		activity = "Searching..."
	}
	if activity != "" {
		nodes = append(nodes, dom.Text("  •", styles.Style{
			Bold:  true,
			Color: colors.GREEN_SUCCESS,
		}))
		nodes = append(nodes, dom.Text(activity, styles.Style{
			Bold:  true,
			Color: colors.GREEN_SUCCESS,
		}))
	}

	if st.IsExpanded() {
		nodes = append(nodes, dom.Spacer(dom.WithMaxSize(40)))
		nodes = append(nodes, dom.Text(itemCount(len(st.Suggestions)), styles.Style{
			Bold:  true,
			Color: colors.GREY_TEXT,
		}))
	}

	return dom.HDiv(dom.DivProps{Width: width}, nodes...)
}

func itemCount(n int) string {
	if n == 1 {
		return "1 match"
	}
	return strconv.Itoa(n) + " matches"
}
