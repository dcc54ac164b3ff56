package render

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/vg/draw"
)

// DependencyMissingError reports a rendering capability that is not
// available in this build.
type DependencyMissingError struct {
	Name string
	Err  error
}

func (e *DependencyMissingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("required rendering dependency unavailable: %s: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("required rendering dependency unavailable: %s", e.Name)
}

func (e *DependencyMissingError) Unwrap() error { return e.Err }

// Check verifies that the fonts and the chart format needed for a run are
// registered before any analysis output is written.
func Check(chartFormat string) error {
	for _, f := range []font.Font{plot.DefaultFont, reportFont} {
		if !font.DefaultCache.Has(f) {
			return &DependencyMissingError{Name: fontName(f)}
		}
	}
	format, err := ParseFormat(chartFormat)
	if err != nil {
		return err
	}
	for _, f := range []string{format, FormatPDF} {
		if _, err := draw.NewFormattedCanvas(1, 1, f); err != nil {
			return &DependencyMissingError{Name: "canvas format " + f, Err: err}
		}
	}
	return nil
}

func fontName(f font.Font) string {
	return fmt.Sprintf("font %s %s", f.Typeface, f.Variant)
}
