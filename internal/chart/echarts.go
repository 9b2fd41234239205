package chart

import (
	"bytes"
	"fmt"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

var echartsDash = map[Dash]string{
	DashSolid:       "solid",
	DashDash:        "dashed",
	DashLongDash:    "dashed",
	DashDot:         "dotted",
	DashDashDot:     "dashed",
	DashLongDashDot: "dashed",
}

// RenderHTML renders the figure as a standalone interactive echarts page.
func RenderHTML(fig Figure) ([]byte, error) {
	if fig.IsEmpty() {
		return nil, ErrNoData
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: plainText(fig.Layout.Title)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(legendShown(fig.Layout)), Top: "30"}),
		charts.WithXAxisOpts(echartsXAxis(fig.Layout.XAxis)),
		charts.WithYAxisOpts(echartsYAxis(fig.Layout.YAxis)),
		charts.WithGridOpts(opts.Grid{Left: "10%", Right: "8%", Bottom: "12%", Top: "80"}),
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "450px"}),
	)

	for _, tr := range fig.Data {
		data := make([]opts.LineData, 0, len(tr.X))
		for i := range tr.X {
			if i >= len(tr.Y) {
				break
			}
			data = append(data, opts.LineData{Value: []interface{}{tr.X[i], tr.Y[i]}})
		}
		width := float32(tr.Line.Width)
		if width <= 0 {
			width = 2
		}
		line.AddSeries(tr.Name, data,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
			charts.WithLineStyleOpts(opts.LineStyle{
				Color: "black",
				Width: width,
				Type:  echartsDash[tr.Line.Dash],
			}),
		)
	}

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return nil, fmt.Errorf("render chart page: %w", err)
	}
	return buf.Bytes(), nil
}

func legendShown(l Layout) bool {
	return l.ShowLegend == nil || *l.ShowLegend
}

func axisBounds(a *Axis) (interface{}, interface{}) {
	if a == nil || len(a.Range) != 2 {
		return nil, nil
	}
	if a.Type == AxisLog {
		return math.Pow(10, a.Range[0]), math.Pow(10, a.Range[1])
	}
	return a.Range[0], a.Range[1]
}

func axisKind(a *Axis) string {
	if a != nil && a.Type == AxisLog {
		return "log"
	}
	return "value"
}

func echartsXAxis(a *Axis) opts.XAxis {
	lo, hi := axisBounds(a)
	x := opts.XAxis{Type: axisKind(a), Min: lo, Max: hi, SplitLine: &opts.SplitLine{Show: opts.Bool(true)}}
	if a != nil {
		x.Name = plainText(a.Title)
	}
	return x
}

func echartsYAxis(a *Axis) opts.YAxis {
	lo, hi := axisBounds(a)
	y := opts.YAxis{Type: axisKind(a), Min: lo, Max: hi, SplitLine: &opts.SplitLine{Show: opts.Bool(true)}}
	if a != nil {
		y.Name = plainText(a.Title)
	}
	return y
}
