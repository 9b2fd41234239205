package chart

import (
	"errors"
	"fmt"
)

var ErrUnknownCard = errors.New("unknown card")

// Template describes one upload card: the columns it needs and how the
// resulting curves are drawn.
type Template struct {
	ID        string `json:"id"`
	UploadID  string `json:"upload_id"`
	CardTitle string `json:"card_title"`
	Subtitle  string `json:"subtitle"`

	Title      string   `json:"-"`
	XAxis      Axis     `json:"-"`
	YAxis      Axis     `json:"-"`
	Series     []Series `json:"-"`
	Legend     *Legend  `json:"-"`
	ShowLegend *bool    `json:"-"`
	Margin     Margin   `json:"-"`
	Font       *Font    `json:"-"`
	Shapes     []Shape  `json:"-"`
}

// Series maps one trace to its x and y columns.
type Series struct {
	Name  string
	X     string
	Y     string
	Dash  Dash
	Width float64
}

// Columns lists the required column names in first-seen order.
func (t Template) Columns() []string {
	seen := make(map[string]bool)
	var cols []string
	for _, s := range t.Series {
		for _, c := range []string{s.X, s.Y} {
			if !seen[c] {
				seen[c] = true
				cols = append(cols, c)
			}
		}
	}
	return cols
}

func steps(from, to, step float64) []float64 {
	var out []float64
	for v := from; v <= to+step/1e6; v += step {
		out = append(out, round(v))
	}
	return out
}

func round(v float64) float64 {
	const p = 1e9
	if v < 0 {
		return -float64(int64(-v*p+0.5)) / p
	}
	return float64(int64(v*p+0.5)) / p
}

func boolPtr(b bool) *bool { return &b }

// framed is the black mirrored frame with light grid most cards share.
func framed(title string, rng, ticks []float64) Axis {
	return Axis{
		Title:         title,
		Type:          AxisLinear,
		Range:         rng,
		TickVals:      ticks,
		ShowGrid:      true,
		GridColor:     "lightgray",
		ZeroLine:      true,
		ZeroLineColor: "black",
		Mirror:        true,
		ShowLine:      true,
		LineWidth:     1,
		LineColor:     "black",
	}
}

func cornerLegend(x, y, border float64) *Legend {
	return &Legend{X: x, Y: y, BGColor: "white", BorderColor: "black", BorderWidth: border}
}

// axisZeroLines draws x=0 and y=0 across the whole plot area.
func axisZeroLines() []Shape {
	return []Shape{
		{Type: "line", X0: 0, X1: 0, Y0: 0, Y1: 1, XRef: "x", YRef: "paper", Line: Line{Color: "black", Width: 1}},
		{Type: "line", X0: 0, X1: 1, Y0: 0, Y1: 0, XRef: "paper", YRef: "y", Line: Line{Color: "black", Width: 1}},
	}
}

func outputTemperatures() []Series {
	return []Series{
		{Name: "Tj = 25℃", X: "VCE_Tj = 25℃", Y: "IC_Tj = 25℃", Dash: DashSolid},
		{Name: "Tj = 150℃", X: "VCE_Tj = 150℃", Y: "IC_Tj = 150℃", Dash: DashDash},
		{Name: "Tj = 175℃", X: "VCE_Tj = 175℃", Y: "IC_Tj = 175℃", Dash: DashDashDot},
	}
}

func gateVoltages() []Series {
	dashes := []Dash{DashSolid, DashDash, DashDot, DashDashDot, DashLongDash, DashLongDashDot}
	var out []Series
	for i, v := range []int{9, 11, 13, 15, 17, 19} {
		out = append(out, Series{
			Name: fmt.Sprintf("VGE = %dV", v),
			X:    fmt.Sprintf("VCE_%dV", v),
			Y:    fmt.Sprintf("IC_%dV", v),
			Dash: dashes[i],
		})
	}
	return out
}

var staticMargin = Margin{L: 40, R: 20, T: 40, B: 40}

var templates = []Template{
	{
		ID: "graph-tj25", UploadID: "upload-tj25",
		CardTitle: "IGBT, Output characteristics", Subtitle: "VGE = 15V, IC = f(VCE)",
		Title:  "Static",
		XAxis:  framed("V<sub>CE</sub> (V)", []float64{0, 3.0}, steps(0, 3.0, 0.5)),
		YAxis:  framed("I<sub>C</sub> (A)", []float64{0, 1600}, steps(0, 1600, 200)),
		Series: outputTemperatures(),
		Legend: cornerLegend(0.01, 0.99, 2),
		Margin: staticMargin,
	},
	{
		ID: "graph-tj150", UploadID: "upload-tj150",
		CardTitle: "IGBT, Output characteristics", Subtitle: "Tj = 25°C, IC = f(VCE)",
		Title:  "Static",
		XAxis:  framed("V<sub>CE</sub> (V)", []float64{0, 3.5}, steps(0, 3.5, 0.5)),
		YAxis:  framed("I<sub>C</sub> (A)", []float64{0, 1600}, steps(0, 1600, 200)),
		Series: gateVoltages(),
		Legend: cornerLegend(0.01, 0.99, 2),
		Margin: staticMargin,
	},
	{
		ID: "graph-tj175", UploadID: "upload-tj175",
		CardTitle: "IGBT, Output characteristics", Subtitle: "Tj = 150°C, IC = f(VCE)",
		Title:  "Static",
		XAxis:  framed("V<sub>CE</sub> (V)", []float64{0, 3.5}, steps(0, 3.5, 0.5)),
		YAxis:  framed("I<sub>C</sub> (A)", []float64{0, 1600}, steps(0, 1600, 200)),
		Series: gateVoltages(),
		Legend: cornerLegend(0.01, 0.99, 2),
		Margin: staticMargin,
	},
	{
		ID: "graph-tjD", UploadID: "upload-tjD",
		CardTitle: "Diode, Forward characteristics", Subtitle: "IF = f(VF)",
		Title: "Static",
		XAxis: framed("V<sub>F</sub> (V)", []float64{0, 3.5}, steps(0, 3.5, 0.5)),
		YAxis: framed("I<sub>F</sub> (A)", []float64{0, 1600}, steps(0, 1600, 200)),
		Series: []Series{
			{Name: "Tj = 25℃", X: "Vf_25℃", Y: "If_25℃", Dash: DashSolid},
			{Name: "Tj = 150℃", X: "Vf_150℃", Y: "If_150℃", Dash: DashDash},
			{Name: "Tj = 175℃", X: "Vf_175℃", Y: "If_175℃", Dash: DashDashDot},
		},
		Legend: cornerLegend(0.01, 0.99, 2),
		Margin: staticMargin,
	},
	{
		ID: "graph-tjE", UploadID: "upload-tjE",
		CardTitle: "IGBT, Switching losses vs. IC",
		Subtitle:  "VGE = -8V / +15V, RG,on = 2.5 Ω, RG,off = 5.0 Ω, VCE = 400V, Eon & Eoff = f(Ic)",
		Title:     "Switching Losses vs IC(A)",
		XAxis:     framed("I<sub>C</sub>(A)", []float64{0, 1400}, steps(0, 1400, 200)),
		YAxis:     framed("E (mJ)", []float64{0, 140}, steps(0, 140, 20)),
		Series: []Series{
			{Name: "Eon_150℃", X: "IC(A)_150℃", Y: "Eon(mJ)_150℃", Dash: DashDot},
			{Name: "Eoff_150℃", X: "IC(A)_150℃", Y: "Eoff(mJ)_150℃", Dash: DashDashDot},
			{Name: "Eon_175℃", X: "IC(A)_175℃", Y: "Eon(mJ)_175℃", Dash: DashLongDash},
			{Name: "Eoff_175℃", X: "IC(A)_175℃", Y: "Eoff(mJ)_175℃", Dash: DashLongDashDot},
		},
		Legend: cornerLegend(0.01, 0.99, 2),
		Margin: staticMargin,
		Shapes: axisZeroLines(),
	},
	{
		ID: "graph-tjF", UploadID: "upload-tjF",
		CardTitle: "IGBT, Switching losses vs. RG",
		Subtitle:  "VGE = -8V / +15V, VCE = 400V, IC = 300A, Eon & Eoff = f(RG)",
		Title:     "Switching Losses vs RG",
		XAxis:     framed("R<sub>G</sub> (Ω)", []float64{0, 25}, steps(0, 25, 2)),
		YAxis:     framed("E (mJ)", []float64{0, 120}, steps(0, 120, 20)),
		Series: []Series{
			{Name: "Eon_150℃", X: "RG_150℃", Y: "Eon(mJ)_150℃", Dash: DashDot},
			{Name: "Eoff_150℃", X: "RG_150℃", Y: "Eoff(mJ)_150℃", Dash: DashDashDot},
			{Name: "Eon_175℃", X: "RG_175℃", Y: "Eon(mJ)_175℃", Dash: DashLongDash},
			{Name: "Eoff_175℃", X: "RG_175℃", Y: "Eoff(mJ)_175℃", Dash: DashLongDashDot},
		},
		Legend: cornerLegend(0.01, 0.99, 2),
		Margin: staticMargin,
		Shapes: axisZeroLines(),
	},
	{
		ID: "graph-tjG", UploadID: "upload-tjG",
		CardTitle: "IGBT Capacitance characteristics",
		Subtitle:  "VGE = 0V, Tj = 25°C, f = 100kHz, C = f(VCE)",
		Title:     "Dynamic Capacitance Characteristics",
		XAxis: func() Axis {
			a := framed("V<sub>CE</sub> (V)", []float64{0, 800}, steps(0, 800, 100))
			a.Ticks, a.TickLen = "inside", 5
			return a
		}(),
		YAxis: func() Axis {
			a := framed("C (nF)", []float64{-1, 2}, []float64{0.1, 1, 10, 100})
			a.Type, a.TickMode = AxisLog, "array"
			a.Ticks, a.TickLen = "inside", 5
			return a
		}(),
		Series: []Series{
			{Name: "Cies", X: "VCE", Y: "Cies", Dash: DashSolid, Width: 2},
			{Name: "Coes", X: "VCE", Y: "Coes", Dash: DashDash, Width: 2},
			{Name: "Cres", X: "VCE", Y: "Cres", Dash: DashDashDot, Width: 2},
		},
		Legend: &Legend{X: 1.02, Y: 1, BorderColor: "black", BorderWidth: 1, Title: "Conditions"},
		Margin: Margin{L: 40, R: 20, T: 30, B: 40},
		Font:   &Font{Size: 12},
	},
	{
		ID: "graph-extra1", UploadID: "upload-extra1",
		CardTitle: "NTC-Thermistor-temperature characteristics", Subtitle: "R = f(TNTC)",
		Title: "NTC-Thermistor Temperature Characteristics",
		XAxis: func() Axis {
			a := framed("T<sub>NTC</sub> (℃)", nil, steps(0, 175, 25))
			a.TickMode, a.LineWidth = "array", 2
			return a
		}(),
		YAxis: func() Axis {
			a := framed("R (Ω)", nil, []float64{100000, 10000, 1000, 100, 10})
			a.Type, a.TickMode, a.LineWidth = AxisLog, "array", 2
			return a
		}(),
		Series: []Series{{Name: "R(typ)", X: "TNTC(℃)", Y: "R(Ω)", Dash: DashSolid, Width: 2}},
		Legend: &Legend{
			X: 0.02, Y: 0.98, XAnchor: "left", YAnchor: "top",
			BGColor: "rgba(255, 255, 255, 0.8)", BorderColor: "black", BorderWidth: 1,
		},
		ShowLegend: boolPtr(true),
		Margin:     Margin{L: 50, R: 50, T: 50, B: 50},
		Font:       &Font{Size: 12},
		Shapes: []Shape{
			{Type: "line", X0: 0, Y0: 1, X1: 175, Y1: 1, Line: Line{Color: "black", Width: 1, Dash: DashDash}},
			{Type: "line", X0: 50, Y0: 10, X1: 50, Y1: 100000, Line: Line{Color: "black", Width: 1, Dash: DashDash}},
		},
	},
	{
		ID: "graph-extra2", UploadID: "upload-extra2",
		CardTitle: "Diode, Switching losses vs. IF", Subtitle: "RG = 2.5 Ω, VR = 400V, Erec = f(IF)",
		Title: "Erec vs IF(A)",
		XAxis: func() Axis {
			a := framed("I<sub>F</sub> (A)", []float64{0, 1400}, steps(0, 1400, 200))
			a.ZeroLine = false
			return a
		}(),
		YAxis: func() Axis {
			a := framed("E (mJ)", []float64{0, 16}, steps(0, 16, 2))
			a.ZeroLine = false
			return a
		}(),
		// Repeated headers in the upload are told apart by their ".1"/".2" suffix.
		Series: []Series{
			{Name: "Erec, Tj = 25℃", X: "IC(A)", Y: "Erec(mJ)", Dash: DashSolid},
			{Name: "Erec, Tj = 150℃", X: "IC(A).1", Y: "Erec(mJ).1", Dash: DashDash},
			{Name: "Erec, Tj = 175℃", X: "IC(A).2", Y: "Erec(mJ).2", Dash: DashDot},
		},
		Legend: cornerLegend(0.02, 0.98, 2),
		Margin: staticMargin,
		Shapes: axisZeroLines(),
	},
	{
		ID: "graph-extra3", UploadID: "upload-extra3",
		CardTitle: "Diode, Switching losses vs. RG", Subtitle: "IF = 300A, VR = 400V, Erec = f(RG)",
		Title: "Erec vs RG (Ω)",
		XAxis: func() Axis {
			a := framed("R<sub>G</sub> (Ω)", []float64{0, 25}, steps(0, 25, 5))
			a.ZeroLine = false
			return a
		}(),
		YAxis: func() Axis {
			a := framed("E (mJ)", []float64{0, 16}, steps(0, 16, 2))
			a.ZeroLine = false
			return a
		}(),
		Series: []Series{
			{Name: "Erec 25℃", X: "RG_25℃", Y: "Erec(mJ)_25℃", Dash: DashSolid},
			{Name: "Erec 150℃", X: "RG_150℃", Y: "Erec(mJ)_150℃", Dash: DashDash},
			{Name: "Erec 175℃", X: "RG_175℃", Y: "Erec(mJ)_175℃", Dash: DashDot},
		},
		Legend: cornerLegend(0.02, 0.98, 2),
		Margin: staticMargin,
		Shapes: axisZeroLines(),
	},
	{
		ID: "graph-extra4", UploadID: "upload-extra4",
		CardTitle: "Reverse bias safe operating area (RBSOA)",
		Subtitle:  "VGE = -8V / + 15V, RG,off = 5.0 Ω, Tj = 175°C",
		XAxis: func() Axis {
			a := framed("V<sub>CE</sub> (V)", []float64{0, 800}, steps(0, 900, 100))
			a.ZeroLine, a.ShowLine = false, false
			return a
		}(),
		YAxis: func() Axis {
			a := framed("I<sub>C</sub> (A)", []float64{0, 1800}, steps(0, 1900, 200))
			a.ZeroLine, a.ShowLine = false, false
			return a
		}(),
		Series: []Series{
			{Name: "IC, Chip", X: "VCE_Chip", Y: "IC_Chip", Dash: DashSolid},
			{Name: "IC, Module", X: "VCE_Module", Y: "IC_Module", Dash: DashDash},
		},
		Legend: cornerLegend(0.02, 0.89, 2),
		Margin: Margin{L: 60, R: 20, T: 20, B: 50},
		Font:   &Font{Size: 12},
	},
	{
		ID: "graph-extra5", UploadID: "upload-extra5",
		CardTitle: "IGBT Total Gate Charge characteristic",
		Subtitle:  "VCE = 400 V, IC = 300A, Tj = 25°C, VGE = f(QG)",
		XAxis: func() Axis {
			a := framed("QG (μC)", []float64{0, 2}, steps(0, 2, 0.4))
			a.ZeroLine, a.ShowLine = false, false
			a.Ticks, a.TickLen = "inside", 5
			return a
		}(),
		YAxis: func() Axis {
			a := framed("VGE (V)", []float64{-8, 16}, steps(-8, 16, 4))
			a.ZeroLine, a.ShowLine = false, false
			a.Ticks, a.TickLen = "inside", 5
			return a
		}(),
		Series: []Series{{Name: "Gate Charge(QG)", X: "QG(μC)_25℃", Y: "VGE(V)_25℃", Dash: DashSolid, Width: 2}},
		Legend: &Legend{
			X: 0.02, Y: 0.98, XAnchor: "left", YAnchor: "top",
			BGColor: "rgba(255, 255, 255, 0.8)", BorderColor: "black", BorderWidth: 1,
		},
		ShowLegend: boolPtr(true),
		Margin:     Margin{L: 50, R: 20, T: 10, B: 50},
		Font:       &Font{Size: 12},
	},
	{
		ID: "graph-extra6", UploadID: "upload-extra6",
		CardTitle: "IGBT Transient thermal impedance",
		Subtitle:  "ZthJF = f(tP), ΔV/Δt = 10 dm3/min, TF = 70°C",
		Title:     "ZthJF vs tP",
		XAxis: Axis{
			Title: "t<sub>P</sub> (s)", Type: AxisLog,
			TickVals:  []float64{1e-6, 1e-5, 1e-4, 1e-3, 1e-2, 1e-1, 1e0, 1e1},
			TickText:  []string{"1µ", "10µ", "100µ", "1m", "10m", "100m", "1", "10"},
			ShowGrid:  true,
			GridColor: "lightgray",
		},
		YAxis: Axis{
			Title: "Z<sub>th</sub> (K/W)", Type: AxisLog,
			TickVals:  []float64{1e-5, 1e-4, 1e-3, 1e-2, 1e-1, 1e0},
			TickText:  []string{"10⁻⁵", "10⁻⁴", "10⁻³", "10⁻²", "10⁻¹", "1"},
			ShowGrid:  true,
			GridColor: "lightgray",
		},
		Series:     []Series{{Name: "ZthJF : IGBT", X: "t [s]", Y: "Zth (t)", Dash: DashSolid, Width: 2}},
		ShowLegend: boolPtr(true),
		Margin:     Margin{L: 20, R: 20, T: 30, B: 20},
	},
	{
		ID: "graph-extra7", UploadID: "upload-extra7",
		CardTitle: "Diode Transient thermal impedance",
		Subtitle:  "ZthJF = f(tP), ΔV/Δt = 10 dm3/min, TF = 70°C",
		Title:     "ZthJF vs tP (Diode)",
		XAxis: Axis{
			Title: "tP (s)", Type: AxisLog,
			TickVals:  []float64{1e-6, 1e-5, 1e-4, 1e-3, 1e-2, 1e-1, 1e0, 1e1},
			TickText:  []string{"1µ", "10µ", "100µ", "1m", "10m", "100m", "1", "10"},
			ShowGrid:  true,
			GridColor: "lightgray",
		},
		YAxis: Axis{
			Title: "Zth (K/W)", Type: AxisLog,
			TickVals:  []float64{1e-4, 1e-3, 1e-2, 1e-1, 1e0},
			TickText:  []string{"10⁻⁴", "10⁻³", "10⁻²", "10⁻¹", "1"},
			ShowGrid:  true,
			GridColor: "lightgray",
		},
		Series:     []Series{{Name: "ZthJF : Diode", X: "t [s]", Y: "Zth (t)", Dash: DashSolid, Width: 2}},
		ShowLegend: boolPtr(true),
		Margin:     Margin{L: 20, R: 20, T: 30, B: 20},
	},
}

var byID = func() map[string]int {
	m := make(map[string]int, len(templates))
	for i, t := range templates {
		m[t.ID] = i
	}
	return m
}()

// Templates returns the card templates in page order. Each entry is a
// deep copy.
func Templates() []Template {
	out := make([]Template, len(templates))
	for i, t := range templates {
		out[i] = t.clone()
	}
	return out
}

func (t Template) clone() Template {
	t.XAxis = t.XAxis.clone()
	t.YAxis = t.YAxis.clone()
	t.Series = append([]Series(nil), t.Series...)
	t.Shapes = append([]Shape(nil), t.Shapes...)
	if t.Legend != nil {
		lg := *t.Legend
		t.Legend = &lg
	}
	if t.ShowLegend != nil {
		show := *t.ShowLegend
		t.ShowLegend = &show
	}
	if t.Font != nil {
		f := *t.Font
		t.Font = &f
	}
	return t
}

func (a Axis) clone() Axis {
	a.Range = append([]float64(nil), a.Range...)
	a.TickVals = append([]float64(nil), a.TickVals...)
	a.TickText = append([]string(nil), a.TickText...)
	return a
}

// Lookup finds a template by its graph id, e.g. "graph-tjD".
func Lookup(id string) (Template, error) {
	i, ok := byID[id]
	if !ok {
		return Template{}, fmt.Errorf("%w: %q", ErrUnknownCard, id)
	}
	return templates[i].clone(), nil
}
