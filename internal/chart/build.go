package chart

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog/log"

	"pmdash/internal/tabular"
)

var (
	ErrNoData        = errors.New("no uploaded data")
	ErrMissingColumn = errors.New("missing required column")
)

// Compose turns an uploaded table into the card's figure. Every series
// column must be present; rows where x or y is not a number are skipped.
func Compose(t Template, table *tabular.Table) (Figure, error) {
	if table == nil {
		return Empty(), ErrNoData
	}
	if missing := table.Missing(t.Columns()...); len(missing) > 0 {
		return Empty(), fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	fig := Figure{Data: make([]Trace, 0, len(t.Series)), Layout: t.layout()}
	for _, s := range t.Series {
		xs, ys := points(table.Floats(s.X), table.Floats(s.Y))
		fig.Data = append(fig.Data, Trace{
			Type: "scatter",
			Mode: "lines",
			Name: s.Name,
			X:    xs,
			Y:    ys,
			Line: Line{Color: "black", Dash: s.Dash, Width: s.Width},
		})
	}
	return fig, nil
}

// Build is Compose with failures logged and folded into an empty figure.
func Build(t Template, table *tabular.Table) Figure {
	fig, err := Compose(t, table)
	if err != nil {
		if !errors.Is(err, ErrNoData) {
			log.Warn().Err(err).Str("card", t.ID).Msg("cannot build chart")
		}
		return Empty()
	}
	return fig
}

func (t Template) layout() Layout {
	x, y := t.XAxis, t.YAxis
	margin := t.Margin
	return Layout{
		Title:       t.Title,
		XAxis:       &x,
		YAxis:       &y,
		Legend:      t.Legend,
		ShowLegend:  t.ShowLegend,
		Margin:      &margin,
		PlotBGColor: "white",
		Font:        t.Font,
		Shapes:      t.Shapes,
	}
}

func points(xs, ys []float64) ([]float64, []float64) {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	outX := make([]float64, 0, n)
	outY := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) || math.IsInf(xs[i], 0) || math.IsInf(ys[i], 0) {
			continue
		}
		outX = append(outX, xs[i])
		outY = append(outY, ys[i])
	}
	return outX, outY
}
