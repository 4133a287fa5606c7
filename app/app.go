package app

import (
	"fmt"
	"time"

	"github.com/xhd2015/go-dom-tui/colors"
	"github.com/xhd2015/go-dom-tui/dom"
	"github.com/xhd2015/go-dom-tui/styles"
	"github.com/xhd2015/partsearch/app/help"
	"github.com/xhd2015/partsearch/models"
	"github.com/xhd2015/partsearch/searchbox"
)

const (
	CtrlCExitDelayMs = 1000

	UIWidth = 80

	// title, input, status bar and help line
	FIXED_FRAME_HEIGHT = 6
)

type State struct {
	Search *searchbox.Controller

	Input models.InputState
	// CardFocused is set once focus leaves the input for the product card
	CardFocused bool
	ShowHelp    bool

	// AssetURL resolves a product image reference. Optional.
	AssetURL func(ref string) string
	// CopyToClipboard is optional; without it the copy key is ignored.
	CopyToClipboard func(text string) error

	StatusBar StatusBar

	Quit    func()
	Refresh func()

	LastCtrlC time.Time
}

type StatusBar struct {
	History string
	Message string
	Error   string
}

// FocusInput moves focus back to the search input.
func (state *State) FocusInput() {
	state.CardFocused = false
	if state.Input.Focused {
		return
	}
	state.Input.Focused = true
	state.Search.OnFocus()
}

// LeaveInput moves focus out of the search input onto the product card.
func (state *State) LeaveInput() {
	state.CardFocused = true
	if !state.Input.Focused {
		return
	}
	state.Input.Focused = false
	state.Search.OnBlur()
}

func (state *State) copyPartNumber() {
	product := state.Search.State().Product
	if product == nil || state.CopyToClipboard == nil {
		return
	}
	err := state.CopyToClipboard(product.PartNumber)
	if err != nil {
		state.StatusBar.Message = ""
		state.StatusBar.Error = fmt.Sprintf("copy failed: %v", err)
		return
	}
	state.StatusBar.Error = ""
	state.StatusBar.Message = "copied " + product.PartNumber
}

func App(state *State, window *dom.Window) *dom.Node {
	width := UIWidth
	height := 24
	if window != nil {
		if window.Width > 0 && window.Width < width {
			width = window.Width
		}
		if window.Height > 0 {
			height = window.Height
		}
	}

	return dom.Div(dom.DivProps{
		OnKeyDown: func(event *dom.DOMEvent) {
			keyEvent := event.KeydownEvent
			if keyEvent == nil {
				return
			}
			switch keyEvent.KeyType {
			case dom.KeyTypeCtrlC:
				if time.Since(state.LastCtrlC) < time.Millisecond*CtrlCExitDelayMs {
					state.Quit()
					return
				}
				state.LastCtrlC = time.Now()

				go func() {
					time.Sleep(time.Millisecond * CtrlCExitDelayMs)
					state.Refresh()
				}()
				return
			}
			if state.Input.Focused {
				return
			}
			if keyEvent.KeyType == dom.KeyTypeEsc {
				state.ShowHelp = false
				return
			}
			switch string(keyEvent.Runes) {
			case "?":
				state.ShowHelp = !state.ShowHelp
			case "/":
				state.ShowHelp = false
				state.FocusInput()
			case "q":
				state.Quit()
			case "x":
				state.Search.DismissNotice()
			}
		},
	},
		dom.H1(dom.DivProps{}, dom.Text("Product Search", styles.Style{
			Bold:        true,
			BorderColor: "orange",
		})),
		func() *dom.Node {
			if state.ShowHelp {
				return help.Help(help.HelpProps{MaxLines: height - FIXED_FRAME_HEIGHT})
			}
			return SearchPage(state, width, height-FIXED_FRAME_HEIGHT)
		}(),
		AppStatusBar(state, width),
		func() *dom.Node {
			if time.Since(state.LastCtrlC) < time.Millisecond*CtrlCExitDelayMs {
				return dom.Text("press Ctrl-C again to exit", styles.Style{
					Bold:  true,
					Color: "1",
				})
			}
			if state.Input.Focused {
				return dom.Text("↑/↓ move  enter select  esc leave input", styles.Style{
					Color: colors.GREY_TEXT,
				})
			}
			return dom.Text("/ search  y copy part number  x dismiss  ? help  q quit", styles.Style{
				Color: colors.GREY_TEXT,
			})
		}(),
	)
}
