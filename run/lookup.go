package run

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/xhd2015/go-dom-tui/charm/renderer"
	"github.com/xhd2015/less-gen/flags"
	"github.com/xhd2015/partsearch/component"
	"github.com/xhd2015/partsearch/data/asset"
	"github.com/xhd2015/partsearch/data/storage"
	httpstore "github.com/xhd2015/partsearch/data/storage/http"
	"github.com/xhd2015/partsearch/models"
	"golang.org/x/term"
)

const lookupHelp = `
lookup - Print catalog suggestions for a query

Usage: partsearch lookup <query> [OPTIONS]

Options:
  --json                       Output raw JSON data
  --api-base-url <url>         Catalog API base URL
  -h,--help                    Show this help message

Examples:
  partsearch lookup brake
  partsearch lookup "ab 12" --json
`

const showHelp = `
show - Print the product card of one product

Usage: partsearch show <productID> [OPTIONS]

Options:
  --json                       Output raw JSON data
  --api-base-url <url>         Catalog API base URL
  --asset-base-url <url>       Image host base URL
  -h,--help                    Show this help message

Examples:
  partsearch show 42
`

var (
	idStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	labelStyle = lipgloss.NewStyle().Bold(true)
)

func handleLookup(args []string) error {
	var flagSettings Settings
	var jsonOutput bool

	args, err := flags.String("--api-base-url", &flagSettings.APIBaseURL).
		Bool("--json", &jsonOutput).
		Help("-h,--help", lookupHelp).
		Parse(args)
	if err != nil {
		return err
	}
	query := strings.Join(args, " ")
	if query == "" {
		return fmt.Errorf("requires query, usage: partsearch lookup <query>")
	}

	catalog, settings, err := createCatalog(flagSettings)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), settings.Timeout)
	defer cancel()

	suggestions, err := catalog.Suggestions(ctx, query)
	if err != nil {
		return err
	}
	if jsonOutput {
		return outputJSON(os.Stdout, suggestions)
	}
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	renderSuggestions(os.Stdout, suggestions, isTTY, terminalWidth())
	return nil
}

func handleShow(args []string) error {
	var flagSettings Settings
	var jsonOutput bool

	args, err := flags.String("--api-base-url", &flagSettings.APIBaseURL).
		String("--asset-base-url", &flagSettings.AssetBaseURL).
		Bool("--json", &jsonOutput).
		Help("-h,--help", showHelp).
		Parse(args)
	if err != nil {
		return err
	}
	if len(args) != 1 || args[0] == "" {
		return fmt.Errorf("requires exactly one product id, usage: partsearch show <productID>")
	}
	id := models.PartID(args[0])

	catalog, settings, err := createCatalog(flagSettings)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), settings.Timeout)
	defer cancel()

	product, err := catalog.Product(ctx, id)
	if err != nil {
		return err
	}
	if jsonOutput {
		return outputJSON(os.Stdout, product)
	}

	props := component.ProductCardProps{Product: product}
	if settings.AssetBaseURL != "" {
		fetcher := asset.NewFetcher(settings.AssetBaseURL, settings.Timeout)
		props.ImageURL = fetcher.URL(product.ImageRef)
		if !settings.DisableImages && product.ImageRef != "" && term.IsTerminal(int(os.Stdout.Fd())) {
			// the card prints even when the image does not load
			props.Thumbnail, _ = asset.ThumbnailLoader(fetcher, asset.DefaultThumbnailWidth, asset.DefaultThumbnailRows)(ctx, product.ImageRef)
		}
	}
	fmt.Println(renderer.RenderToString(component.ProductCard(props)))
	return nil
}

func createCatalog(flagSettings Settings) (storage.CatalogService, Settings, error) {
	settings, err := ApplyConfigDefaults(flagSettings)
	if err != nil {
		return nil, Settings{}, err
	}
	if err := settings.Validate(); err != nil {
		return nil, Settings{}, err
	}
	return httpstore.NewCatalogService(httpstore.NewClient(settings.APIBaseURL, settings.Timeout)), settings, nil
}

func renderSuggestions(out io.Writer, suggestions []models.Suggestion, isTTY bool, width int) {
	if len(suggestions) == 0 {
		io.WriteString(out, "no matches\n")
		return
	}
	idWidth := 0
	for _, s := range suggestions {
		if n := len(s.ID.String()); n > idWidth {
			idWidth = n
		}
	}
	for _, s := range suggestions {
		id := fmt.Sprintf("%-*s", idWidth, s.ID.String())
		label := s.Label
		if width > 0 {
			label = truncate(label, width-idWidth-2)
		}
		if isTTY {
			io.WriteString(out, idStyle.Render(id)+"  "+labelStyle.Render(label)+"\n")
		} else {
			io.WriteString(out, id+"  "+label+"\n")
		}
	}
}

func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return width
}

func outputJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
