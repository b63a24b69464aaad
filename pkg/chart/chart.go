// Package chart draws the stacked cost bar chart for one topology.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/rrolph575/costmodel-substation/pkg/report"
	"github.com/rrolph575/costmodel-substation/pkg/spec"
)

// Default figure size.
const (
	Width  = 4.75 * vg.Inch
	Height = 3.25 * vg.Inch
)

// Axis labels.
const (
	XLabel = "Voltage [kV]"
	YLabel = "Cost [$M]"
)

var barWidth = vg.Points(14)

// Palette returns n colours spread over the hue circle, red through violet.
func Palette(n int) []color.Color {
	out := make([]color.Color, n)
	for i := range out {
		hue := 0.0
		if n > 1 {
			hue = 300 * float64(i) / float64(n-1)
		}
		out[i] = colorful.Hsv(hue, 0.75, 0.9)
	}
	return out
}

// StackedBar plots one bar per voltage for bus, each stacked by category in
// column order, with a hollow black circle at each validation figure.
// Values are plotted in millions.
func StackedBar(t *report.Table, bus spec.BusType, validation map[spec.Voltage]float64, title string) (*plot.Plot, error) {
	t = t.ForBus(bus).InMillions()
	if len(t.Rows) == 0 {
		return nil, fmt.Errorf("no costs for %s", bus)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = XLabel
	p.Y.Label.Text = YLabel
	p.Legend.Top = true
	p.Legend.Left = true

	colors := Palette(len(t.Columns))
	var below *plotter.BarChart
	bars := make([]*plotter.BarChart, len(t.Columns))
	for i, col := range t.Columns {
		b, err := plotter.NewBarChart(plotter.Values(t.Column(col)), barWidth)
		if err != nil {
			return nil, fmt.Errorf("%s bars: %w", col, err)
		}
		b.Color = colors[i]
		b.LineStyle.Width = 0
		if below != nil {
			b.StackOn(below)
		}
		p.Add(b)
		bars[i] = b
		below = b
	}
	for _, i := range legendOrder(len(bars)) {
		p.Legend.Add(t.Columns[i], bars[i])
	}

	var pts plotter.XYs
	for i, v := range t.Voltages() {
		if fig, ok := validation[v]; ok {
			pts = append(pts, plotter.XY{X: float64(i), Y: fig})
		}
	}
	if len(pts) > 0 {
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("validation markers: %w", err)
		}
		s.GlyphStyle.Shape = draw.RingGlyph{}
		s.GlyphStyle.Color = color.Black
		s.GlyphStyle.Radius = vg.Points(3)
		p.Add(s)
	}

	labels := make([]string, len(t.Rows))
	for i, v := range t.Voltages() {
		labels[i] = v.String()
	}
	p.NominalX(labels...)
	p.Y.Min = 0
	return p, nil
}

// legendOrder lists stacked layers top of the stack first. Validation
// markers are not layers and stay out of the legend.
func legendOrder(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = n - 1 - i
	}
	return out
}

// Save writes the plot at the default size. The image format follows the
// file extension (png, svg, pdf, eps, jpg or tiff).
func Save(p *plot.Plot, path string) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return errors.New("chart path needs an extension such as .png or .svg")
	}
	if err := p.Save(Width, Height, path); err != nil {
		return fmt.Errorf("saving chart %s: %w", path, err)
	}
	return nil
}
