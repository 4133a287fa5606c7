package help

import (
	_ "embed"
	"strings"

	"github.com/xhd2015/go-dom-tui/colors"
	"github.com/xhd2015/go-dom-tui/dom"
	"github.com/xhd2015/go-dom-tui/styles"
)

//go:embed help.md
var helpContent string

type HelpProps struct {
	// MaxLines bounds the rendered lines, 0 means no bound
	MaxLines int
}

// Help renders the embedded key reference.
func Help(props HelpProps) *dom.Node {
	lines := strings.Split(strings.TrimSpace(helpContent), "\n")
	truncated := false
	if props.MaxLines > 0 && len(lines) > props.MaxLines {
		lines = lines[:props.MaxLines-1]
		truncated = true
	}

	var nodes []*dom.Node
	for _, line := range lines {
		nodes = append(nodes, dom.Div(dom.DivProps{}, helpLine(strings.TrimSpace(line))))
	}
	if truncated {
		nodes = append(nodes, dom.Div(dom.DivProps{},
			dom.Text("↓ (enlarge the terminal for more)", styles.Style{
				Color: colors.GREY_TEXT,
			}),
		))
	}
	return dom.Div(dom.DivProps{}, nodes...)
}

func helpLine(line string) *dom.Node {
	switch {
	case line == "":
		return dom.Br()
	case strings.HasPrefix(line, "# "):
		return dom.Text(strings.TrimPrefix(line, "# "), styles.Style{
			Bold:  true,
			Color: colors.GREEN_SUCCESS,
		})
	case strings.HasPrefix(line, "## "):
		return dom.Text(strings.TrimPrefix(line, "## "), styles.Style{
			Bold:  true,
			Color: "cyan",
		})
	case strings.HasPrefix(line, "- "):
		// "key - description"
		parts := strings.SplitN(strings.TrimPrefix(line, "- "), " - ", 2)
		if len(parts) != 2 {
			return dom.Text("  • "+parts[0], styles.Style{Color: colors.GREY_TEXT})
		}
		return dom.HDiv(dom.DivProps{},
			dom.Text("  "+parts[0], styles.Style{
				Bold:  true,
				Color: "yellow",
			}),
			dom.Text(" - "+parts[1], styles.Style{
				Color: colors.GREY_TEXT,
			}),
		)
	}
	return dom.Text(line)
}
