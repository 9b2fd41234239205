package chart

// Figure is a plotly-compatible line chart description. The page renders it
// client side, the PNG and echarts renderers consume it server side.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

type Trace struct {
	Type string    `json:"type"`
	Mode string    `json:"mode"`
	Name string    `json:"name"`
	X    []float64 `json:"x"`
	Y    []float64 `json:"y"`
	Line Line      `json:"line"`
}

type Line struct {
	Color string  `json:"color,omitempty"`
	Dash  Dash    `json:"dash,omitempty"`
	Width float64 `json:"width,omitempty"`
}

// Dash names follow plotly's line.dash vocabulary.
type Dash string

const (
	DashSolid       Dash = "solid"
	DashDash        Dash = "dash"
	DashDot         Dash = "dot"
	DashDashDot     Dash = "dashdot"
	DashLongDash    Dash = "longdash"
	DashLongDashDot Dash = "longdashdot"
)

type AxisType string

const (
	AxisLinear AxisType = "linear"
	AxisLog    AxisType = "log"
)

type Layout struct {
	Title       string   `json:"title,omitempty"`
	XAxis       *Axis    `json:"xaxis,omitempty"`
	YAxis       *Axis    `json:"yaxis,omitempty"`
	Legend      *Legend  `json:"legend,omitempty"`
	ShowLegend  *bool    `json:"showlegend,omitempty"`
	Margin      *Margin  `json:"margin,omitempty"`
	PlotBGColor string   `json:"plot_bgcolor,omitempty"`
	Font        *Font    `json:"font,omitempty"`
	Shapes      []Shape  `json:"shapes,omitempty"`
}

// Axis ranges on a log axis are exponents, as in plotly.
type Axis struct {
	Title         string    `json:"title,omitempty"`
	Type          AxisType  `json:"type,omitempty"`
	Range         []float64 `json:"range,omitempty"`
	TickVals      []float64 `json:"tickvals,omitempty"`
	TickText      []string  `json:"ticktext,omitempty"`
	TickMode      string    `json:"tickmode,omitempty"`
	Ticks         string    `json:"ticks,omitempty"`
	TickLen       float64   `json:"ticklen,omitempty"`
	ShowGrid      bool      `json:"showgrid"`
	GridColor     string    `json:"gridcolor,omitempty"`
	ShowLine      bool      `json:"showline"`
	LineColor     string    `json:"linecolor,omitempty"`
	LineWidth     float64   `json:"linewidth,omitempty"`
	Mirror        bool      `json:"mirror"`
	ZeroLine      bool      `json:"zeroline"`
	ZeroLineColor string    `json:"zerolinecolor,omitempty"`
}

// Legend coordinates are paper fractions from the bottom left.
type Legend struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	XAnchor     string  `json:"xanchor,omitempty"`
	YAnchor     string  `json:"yanchor,omitempty"`
	BGColor     string  `json:"bgcolor,omitempty"`
	BorderColor string  `json:"bordercolor,omitempty"`
	BorderWidth float64 `json:"borderwidth,omitempty"`
	Title       string  `json:"title,omitempty"`
}

type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

type Font struct {
	Size int `json:"size"`
}

// Shape is a straight line; XRef/YRef "paper" means 0..1 of the plot area.
type Shape struct {
	Type string  `json:"type"`
	X0   float64 `json:"x0"`
	Y0   float64 `json:"y0"`
	X1   float64 `json:"x1"`
	Y1   float64 `json:"y1"`
	XRef string  `json:"xref,omitempty"`
	YRef string  `json:"yref,omitempty"`
	Line Line    `json:"line"`
}

// Empty is what every failure path returns: no traces, default layout.
func Empty() Figure {
	return Figure{Data: []Trace{}}
}

func (f Figure) IsEmpty() bool {
	return len(f.Data) == 0
}
