package render

import (
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/vgpdf"
)

// reportFont is the face used for the text report pages.
var reportFont = font.Font{Typeface: "Liberation", Variant: "Mono"}

// PageOptions describes the text report page geometry in points.
type PageOptions struct {
	Width      vg.Length
	Height     vg.Length
	Margin     vg.Length
	LineHeight vg.Length
	FontSize   vg.Length
}

// DefaultPageOptions is A4 with a 40pt margin and a 14pt line pitch.
func DefaultPageOptions() PageOptions {
	return PageOptions{
		Width:      vg.Points(595.28),
		Height:     vg.Points(841.89),
		Margin:     vg.Points(40),
		LineHeight: vg.Points(14),
		FontSize:   vg.Points(9),
	}
}

// Paginate splits lines into pages. Lines are placed from the top margin
// downward at LineHeight intervals and a new page starts once the next
// baseline would fall below the bottom margin. The result always has at
// least one page.
func Paginate(lines []string, opt PageOptions) [][]string {
	top := opt.Height - opt.Margin
	pages := [][]string{nil}
	y := top
	for _, line := range lines {
		if y < opt.Margin {
			pages = append(pages, nil)
			y = top
		}
		last := len(pages) - 1
		pages[last] = append(pages[last], line)
		y -= opt.LineHeight
	}
	return pages
}

// TextPDF renders text as a paginated PDF document.
func TextPDF(w io.Writer, body string, opt PageOptions) error {
	if opt.LineHeight <= 0 || opt.Height <= 2*opt.Margin {
		return fmt.Errorf("invalid page geometry: height %v, margin %v, line height %v", opt.Height, opt.Margin, opt.LineHeight)
	}
	if !font.DefaultCache.Has(reportFont) {
		return &DependencyMissingError{Name: fontName(reportFont)}
	}
	face := font.DefaultCache.Lookup(reportFont, opt.FontSize)

	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	c := vgpdf.New(opt.Width, opt.Height)
	c.EmbedFonts(true)
	for i, page := range Paginate(lines, opt) {
		if i > 0 {
			c.NextPage()
		}
		y := opt.Height - opt.Margin
		for _, line := range page {
			if line = strings.TrimRight(line, " \t\r"); line != "" {
				c.FillString(face, vg.Point{X: opt.Margin, Y: y}, line)
			}
			y -= opt.LineHeight
		}
	}
	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
