// Package preview renders photo thumbnails as ANSI cell art for the grid.
package preview

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"net/http"
	"strings"
	"sync"
	"time"

	// Register the decoders the gallery endpoints serve.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
)

// Render draws img into a block of cells lines high and cells wide, two
// pixel rows per text row via the upper half block.
func Render(img image.Image, cellWidth, cellHeight int) []string {
	if cellWidth <= 0 || cellHeight <= 0 {
		return nil
	}

	scaled := resize.Thumbnail(uint(cellWidth), uint(cellHeight*2), img, resize.Lanczos3)
	bounds := scaled.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	lines := make([]string, 0, (height+1)/2)
	for y := 0; y < height; y += 2 {
		var b strings.Builder
		for x := 0; x < width; x++ {
			top := hexAt(scaled, bounds.Min.X+x, bounds.Min.Y+y)
			bottom := top
			if y+1 < height {
				bottom = hexAt(scaled, bounds.Min.X+x, bounds.Min.Y+y+1)
			}
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom))
			b.WriteString(style.Render("▀"))
		}
		lines = append(lines, b.String())
	}
	return lines
}

// Placeholder renders a solid swatch for a photo whose thumbnail is missing
// or failed to load. The hue is derived from the id so cells stay stable
// across repaints.
func Placeholder(id string, cellWidth, cellHeight int) []string {
	if cellWidth <= 0 || cellHeight <= 0 {
		return nil
	}

	var hash uint32
	for _, r := range id {
		hash = hash*31 + uint32(r)
	}
	hue := float64(hash % 360)
	swatch := colorful.Hsv(hue, 0.35, 0.30)

	style := lipgloss.NewStyle().Background(lipgloss.Color(swatch.Hex()))
	row := style.Render(strings.Repeat(" ", cellWidth))

	lines := make([]string, cellHeight)
	for i := range lines {
		lines[i] = row
	}
	return lines
}

// hexAt converts the pixel at (x, y) to a hex color string.
func hexAt(img image.Image, x, y int) string {
	c, ok := colorful.MakeColor(img.At(x, y))
	if !ok {
		// Fully transparent pixel.
		return "#000000"
	}
	return c.Hex()
}

// AverageColor returns the mean color of img. Used for caption accents.
func AverageColor(img image.Image) color.Color {
	bounds := img.Bounds()
	var r, g, b, n float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				continue
			}
			r += c.R
			g += c.G
			b += c.B
			n++
		}
	}
	if n == 0 {
		return color.Black
	}
	return colorful.Color{R: r / n, G: g / n, B: b / n}
}

// Fetcher downloads and decodes thumbnails, caching rendered cells per
// url and size so scrolling back does not refetch.
type Fetcher struct {
	client *http.Client
	logger *slog.Logger

	mu    sync.Mutex
	cache map[string]rendering
}

// rendering is one cached preview: the cell lines plus the accent color.
type rendering struct {
	lines  []string
	accent string
}

// NewFetcher creates a Fetcher. A nil client uses a 10 second timeout.
func NewFetcher(client *http.Client, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client: client,
		logger: logger,
		cache:  map[string]rendering{},
	}
}

// Fetch returns the rendered cell lines for the thumbnail at url, along with
// the hex accent color derived from the image.
func (f *Fetcher) Fetch(ctx context.Context, url string, cellWidth, cellHeight int) ([]string, string, error) {
	key := fmt.Sprintf("%s|%dx%d", url, cellWidth, cellHeight)

	f.mu.Lock()
	if cached, ok := f.cache[key]; ok {
		f.mu.Unlock()
		return cached.lines, cached.accent, nil
	}
	f.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("building thumbnail request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching thumbnail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetching thumbnail: unexpected status %d", resp.StatusCode)
	}

	img, format, err := image.Decode(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("decoding thumbnail: %w", err)
	}
	f.logger.Debug("thumbnail decoded", "url", url, "format", format)

	rendered := rendering{lines: Render(img, cellWidth, cellHeight)}
	if avg, ok := colorful.MakeColor(AverageColor(img)); ok {
		rendered.accent = avg.Hex()
	}

	f.mu.Lock()
	f.cache[key] = rendered
	f.mu.Unlock()

	return rendered.lines, rendered.accent, nil
}

// Invalidate drops every cached rendering for url.
func (f *Fetcher) Invalidate(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := url + "|"
	for key := range f.cache {
		if strings.HasPrefix(key, prefix) {
			delete(f.cache, key)
		}
	}
}
