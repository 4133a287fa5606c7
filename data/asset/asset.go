package asset

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/disintegration/imaging"
	"github.com/xhd2015/partsearch/data/storage"
)

const (
	DefaultThumbnailWidth = 24
	DefaultThumbnailRows  = 12

	maxImageSize = 16 << 20
)

// Fetcher downloads product images from the asset host.
type Fetcher struct {
	baseURL    string
	httpClient *http.Client
}

func NewFetcher(baseURL string, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// URL is where the image named by ref lives. An empty ref has no URL.
func (f *Fetcher) URL(ref string) string {
	if ref == "" {
		return ""
	}
	return f.baseURL + "/" + strings.TrimPrefix(ref, "/")
}

func (f *Fetcher) Fetch(ctx context.Context, ref string) (image.Image, error) {
	imgURL := f.URL(ref)
	if imgURL == "" {
		return nil, fmt.Errorf("product has no image")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imgURL, nil)
	if err != nil {
		return nil, &storage.FetchError{Kind: storage.ErrNetwork, Op: "asset", URL: imgURL, Err: err}
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &storage.FetchError{Kind: storage.ErrNetwork, Op: "asset", URL: imgURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &storage.FetchError{Kind: storage.ErrStatus, Op: "asset", URL: imgURL, StatusCode: resp.StatusCode}
	}

	img, err := imaging.Decode(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return nil, &storage.FetchError{Kind: storage.ErrMalformed, Op: "asset", URL: imgURL, Err: err}
	}
	return img, nil
}

// ThumbnailLoader fetches the image named by ref and renders it with
// Thumbnail.
func ThumbnailLoader(f *Fetcher, width int, rows int) func(ctx context.Context, ref string) ([]string, error) {
	return func(ctx context.Context, ref string) ([]string, error) {
		img, err := f.Fetch(ctx, ref)
		if err != nil {
			return nil, err
		}
		return Thumbnail(img, width, rows), nil
	}
}

// Thumbnail renders img into at most rows lines of width cells, two
// pixel rows per cell using the upper half block.
func Thumbnail(img image.Image, width int, rows int) []string {
	if img == nil || width <= 0 || rows <= 0 {
		return nil
	}
	small := imaging.Fit(img, width, rows*2, imaging.Lanczos)
	bounds := small.Bounds()

	var lines []string
	for y := bounds.Min.Y; y < bounds.Max.Y; y += 2 {
		var sb strings.Builder
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			style := lipgloss.NewStyle().Foreground(hexColor(small.At(x, y)))
			if y+1 < bounds.Max.Y {
				style = style.Background(hexColor(small.At(x, y+1)))
			}
			sb.WriteString(style.Render("▀"))
		}
		lines = append(lines, sb.String())
	}
	return lines
}

func hexColor(c color.Color) lipgloss.Color {
	r, g, b, _ := c.RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
}
