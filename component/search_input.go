package component

import (
	"github.com/xhd2015/go-dom-tui/dom"
	"github.com/xhd2015/partsearch/models"
)

type SearchInputProps struct {
	Placeholder string
	State       *models.InputState
	OnChange    func(value string)
	OnFocus     func()
	OnBlur      func()
	OnKeyDown   func(event *dom.DOMEvent)
	Width       int
}

func SearchInput(props SearchInputProps) *dom.Node {
	width := props.Width
	if width == 0 {
		width = 50
	}

	return dom.Input(dom.InputProps{
		Placeholder:    props.Placeholder,
		Value:          props.State.Value,
		Focused:        props.State.Focused,
		CursorPosition: props.State.CursorPosition,
		Focusable:      dom.Focusable(true),
		Width:          width,
		OnFocus: func() {
			if props.State.Focused {
				return
			}
			props.State.Focused = true
			if props.OnFocus != nil {
				props.OnFocus()
			}
		},
		OnBlur: func() {
			if !props.State.Focused {
				return
			}
			props.State.Focused = false
			if props.OnBlur != nil {
				props.OnBlur()
			}
		},
		OnChange: func(value string) {
			if value == props.State.Value {
				return
			}
			props.State.Value = value
			if props.OnChange != nil {
				props.OnChange(value)
			}
		},
		OnCursorMove: func(position int) {
			if position < 0 {
				position = 0
			}
			n := runeLength(props.State.Value)
			if position > n+1 {
				position = n + 1
			}
			props.State.CursorPosition = position
		},
		OnKeyDown: func(event *dom.DOMEvent) {
			if props.OnKeyDown != nil {
				props.OnKeyDown(event)
			}
		},
	})
}

func runeLength(s string) int {
	return len([]rune(s))
}
