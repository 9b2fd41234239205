package chart

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	DefaultWidth  = 900
	DefaultHeight = 600
)

var lightGray = color.RGBA{R: 211, G: 211, B: 211, A: 255}

// dashes in points, roughly matching plotly's patterns at 2px.
var dashes = map[Dash][]vg.Length{
	DashDash:        {vg.Points(6), vg.Points(4)},
	DashDot:         {vg.Points(1.5), vg.Points(3)},
	DashDashDot:     {vg.Points(6), vg.Points(3), vg.Points(1.5), vg.Points(3)},
	DashLongDash:    {vg.Points(12), vg.Points(4)},
	DashLongDashDot: {vg.Points(12), vg.Points(4), vg.Points(1.5), vg.Points(4)},
}

// RenderPNG draws the figure into a PNG of w by h pixels.
func RenderPNG(fig Figure, w, h int) ([]byte, error) {
	if fig.IsEmpty() {
		return nil, ErrNoData
	}
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}

	p := plot.New()
	p.Title.Text = plainText(fig.Layout.Title)
	p.BackgroundColor = color.White

	xLog := configureAxis(&p.X, fig.Layout.XAxis)
	yLog := configureAxis(&p.Y, fig.Layout.YAxis)

	xGrid := fig.Layout.XAxis != nil && fig.Layout.XAxis.ShowGrid
	yGrid := fig.Layout.YAxis != nil && fig.Layout.YAxis.ShowGrid
	if xGrid || yGrid {
		// A nil colour disables that direction.
		grid := plotter.NewGrid()
		grid.Vertical.Color, grid.Horizontal.Color = nil, nil
		if xGrid {
			grid.Vertical.Color = lightGray
		}
		if yGrid {
			grid.Horizontal.Color = lightGray
		}
		p.Add(grid)
	}

	lines := 0
	for _, tr := range fig.Data {
		xys := make(plotter.XYs, 0, len(tr.X))
		for i := range tr.X {
			if i >= len(tr.Y) {
				break
			}
			x, y := tr.X[i], tr.Y[i]
			if (xLog && x <= 0) || (yLog && y <= 0) {
				continue
			}
			xys = append(xys, plotter.XY{X: x, Y: y})
		}
		if len(xys) == 0 {
			continue
		}

		l, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("trace %q: %w", tr.Name, err)
		}
		styleLine(l, tr.Line)
		p.Add(l)
		lines++
		if tr.Name != "" {
			p.Legend.Add(tr.Name, l)
		}
	}
	if lines == 0 {
		return nil, ErrNoData
	}

	applyRange(&p.X, fig.Layout.XAxis, xLog)
	applyRange(&p.Y, fig.Layout.YAxis, yLog)

	for _, s := range fig.Layout.Shapes {
		x0, x1 := resolve(s.X0, s.X1, s.XRef, p.X)
		y0, y1 := resolve(s.Y0, s.Y1, s.YRef, p.Y)
		if (xLog && (x0 <= 0 || x1 <= 0)) || (yLog && (y0 <= 0 || y1 <= 0)) {
			continue
		}
		l, err := plotter.NewLine(plotter.XYs{{X: x0, Y: y0}, {X: x1, Y: y1}})
		if err != nil {
			return nil, fmt.Errorf("shape: %w", err)
		}
		styleLine(l, s.Line)
		p.Add(l)
	}
	// Shapes must not widen explicit ranges.
	applyRange(&p.X, fig.Layout.XAxis, xLog)
	applyRange(&p.Y, fig.Layout.YAxis, yLog)

	if lg := fig.Layout.Legend; lg != nil {
		p.Legend.Top = lg.Y >= 0.5
		p.Legend.Left = lg.X < 0.5
	} else {
		p.Legend.Top = true
	}
	if fig.Layout.ShowLegend != nil && !*fig.Layout.ShowLegend {
		p.Legend = plot.NewLegend()
	}

	wt, err := p.WriterTo(pixels(w), pixels(h), "png")
	if err != nil {
		return nil, fmt.Errorf("create png canvas: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// pixels converts a pixel count at the default 96 dpi to a vg length.
func pixels(n int) vg.Length {
	return vg.Length(n) * vg.Inch / 96
}

func configureAxis(a *plot.Axis, axis *Axis) bool {
	if axis == nil {
		return false
	}
	a.Label.Text = plainText(axis.Title)
	isLog := axis.Type == AxisLog
	if isLog {
		a.Scale = plot.LogScale{}
		a.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	if len(axis.TickVals) > 0 {
		ticks := make([]plot.Tick, 0, len(axis.TickVals))
		for i, v := range axis.TickVals {
			label := strconv.FormatFloat(v, 'g', -1, 64)
			if i < len(axis.TickText) {
				label = axis.TickText[i]
			}
			ticks = append(ticks, plot.Tick{Value: v, Label: label})
		}
		a.Tick.Marker = plot.ConstantTicks(ticks)
	}
	return isLog
}

// applyRange pins an axis to its explicit range. Without one, a log axis
// still needs strictly positive bounds with Min below Max, since gonum
// widens a single-point axis to Min-1.
func applyRange(a *plot.Axis, axis *Axis, isLog bool) {
	if axis != nil && len(axis.Range) == 2 {
		lo, hi := axis.Range[0], axis.Range[1]
		if isLog {
			lo, hi = math.Pow(10, lo), math.Pow(10, hi)
		}
		a.Min, a.Max = lo, hi
		return
	}
	if !isLog {
		return
	}
	switch {
	case !finite(a.Min) || !finite(a.Max) || a.Max <= 0:
		a.Min, a.Max = 0.1, 10
	case a.Min <= 0:
		a.Min = math.Min(1, a.Max/10)
		if a.Min >= a.Max {
			a.Min = a.Max / 10
		}
	case a.Min >= a.Max:
		v := a.Max
		a.Min, a.Max = v/10, v*10
	}
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// resolve maps plotly "paper" fractions onto the axis span.
func resolve(v0, v1 float64, ref string, a plot.Axis) (float64, float64) {
	if ref != "paper" {
		return v0, v1
	}
	at := func(f float64) float64 {
		if _, ok := a.Scale.(plot.LogScale); ok {
			lo, hi := math.Log10(a.Min), math.Log10(a.Max)
			return math.Pow(10, lo+f*(hi-lo))
		}
		return a.Min + f*(a.Max-a.Min)
	}
	return at(v0), at(v1)
}

func styleLine(l *plotter.Line, axis Line) {
	l.LineStyle.Color = color.Black
	width := axis.Width
	if width <= 0 {
		width = 2
	}
	l.LineStyle.Width = vg.Points(width * 0.75)
	if d, ok := dashes[axis.Dash]; ok {
		l.LineStyle.Dashes = d
	}
}

var tagReplacer = strings.NewReplacer("<sub>", "", "</sub>", "", "<sup>", "", "</sup>", "", "<br>", " ")

func plainText(s string) string {
	return tagReplacer.Replace(s)
}
