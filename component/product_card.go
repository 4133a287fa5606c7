package component

import (
	"github.com/xhd2015/go-dom-tui/colors"
	"github.com/xhd2015/go-dom-tui/dom"
	"github.com/xhd2015/go-dom-tui/styles"
	"github.com/xhd2015/partsearch/models"
)

type ProductCardProps struct {
	Product   *models.Product
	ImageURL  string
	Thumbnail []string

	// the part number row takes focus when the user leaves the input
	Focused   bool
	OnFocus   func()
	OnBlur    func()
	OnKeyDown func(event *dom.DOMEvent)
}

// CardRow is one labelled line of the product card.
type CardRow struct {
	Label string
	Value string
}

func CardRows(p *models.Product) []CardRow {
	if p == nil {
		return nil
	}
	return []CardRow{
		{"Part Number", p.PartNumber},
		{"Brand Name", p.BrandName},
		{"Part Terminology Name", p.PartTerminologyName},
		{"Product Category", p.CategoryName},
		{"Product Sub-Category", p.SubCategoryName},
	}
}

// ProductCard occupies no rows at all when there is no product.
func ProductCard(props ProductCardProps) *dom.Node {
	if props.Product == nil {
		return dom.Fragment()
	}

	rows := CardRows(props.Product)
	var nodes []*dom.Node
	nodes = append(nodes, dom.Br())

	first := rows[0]
	nodes = append(nodes, dom.Ul(dom.DivProps{}, dom.Li(dom.ListItemProps{
		Focusable: dom.Focusable(true),
		Focused:   props.Focused,
		Selected:  props.Focused,
		OnFocus: func() {
			if props.OnFocus != nil {
				props.OnFocus()
			}
		},
		OnBlur: func() {
			if props.OnBlur != nil {
				props.OnBlur()
			}
		},
		OnKeyDown: func(event *dom.DOMEvent) {
			if props.OnKeyDown != nil {
				props.OnKeyDown(event)
			}
		},
	}, cardRow(first))))

	for _, row := range rows[1:] {
		nodes = append(nodes, cardRow(row))
	}

	if props.ImageURL != "" {
		nodes = append(nodes, dom.HDiv(dom.DivProps{},
			dom.Text("Image: ", styles.Style{Bold: true}),
			dom.Text(props.ImageURL, styles.Style{Color: colors.GREY_TEXT}),
		))
	}
	for _, line := range props.Thumbnail {
		nodes = append(nodes, dom.Div(dom.DivProps{}, dom.Text(line)))
	}
	return dom.Div(dom.DivProps{}, nodes...)
}

func cardRow(row CardRow) *dom.Node {
	value := row.Value
	style := styles.Style{}
	if value == "" {
		value = "-"
		style.Color = colors.GREY_TEXT
	}
	return dom.HDiv(dom.DivProps{},
		dom.Text(row.Label+": ", styles.Style{Bold: true}),
		dom.Text(value, style),
	)
}
