package chart

import (
	"bytes"
	"errors"
	"image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/plot"
	"github.com/stretchr/testify/require"

	"pmdash/internal/tabular"
)

func TestTemplatesOrderAndLookup(t *testing.T) {
	t.Parallel()

	want := []string{
		"graph-tj25", "graph-tj150", "graph-tj175", "graph-tjD", "graph-tjE", "graph-tjF", "graph-tjG",
		"graph-extra1", "graph-extra2", "graph-extra3", "graph-extra4", "graph-extra5", "graph-extra6", "graph-extra7",
	}
	all := Templates()
	require.Len(t, all, len(want))
	for i, id := range want {
		assert.Equal(t, id, all[i].ID)
		assert.Equal(t, "upload-"+id[len("graph-"):], all[i].UploadID)

		got, err := Lookup(id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
	}

	_, err := Lookup("graph-unknown")
	assert.ErrorIs(t, err, ErrUnknownCard)
}

func TestTemplatesAreCopies(t *testing.T) {
	t.Parallel()

	all := Templates()
	all[0].ID = "mutated"
	again, err := Lookup("graph-tj25")
	require.NoError(t, err)
	assert.Equal(t, "graph-tj25", again.ID)

	mutations := []struct {
		name   string
		mutate func(tpl *Template)
	}{
		{name: "series", mutate: func(tpl *Template) { tpl.Series[0].Name = "mutated" }},
		{name: "tick values", mutate: func(tpl *Template) { tpl.XAxis.TickVals[0] = -1 }},
		{name: "y tick values", mutate: func(tpl *Template) { tpl.YAxis.TickVals[0] = -1 }},
		{name: "shapes", mutate: func(tpl *Template) { tpl.Shapes[0].X0 = -1 }},
		{name: "legend", mutate: func(tpl *Template) { tpl.Legend.X = -1 }},
		{name: "show legend", mutate: func(tpl *Template) { *tpl.ShowLegend = false }},
		{name: "font", mutate: func(tpl *Template) { tpl.Font.Size = -1 }},
	}

	for _, m := range mutations {
		m := m
		t.Run(m.name, func(t *testing.T) {
			t.Parallel()

			before, err := Lookup("graph-extra1")
			require.NoError(t, err)
			require.NotEmpty(t, before.XAxis.TickVals)
			require.NotEmpty(t, before.YAxis.TickVals)
			require.NotEmpty(t, before.Shapes)

			mutated, err := Lookup("graph-extra1")
			require.NoError(t, err)
			m.mutate(&mutated)

			listed := Templates()
			require.Equal(t, "graph-extra1", listed[7].ID)
			m.mutate(&listed[7])

			after, err := Lookup("graph-extra1")
			require.NoError(t, err)
			assert.Equal(t, before, after)
		})
	}
}

func TestColumns(t *testing.T) {
	t.Parallel()

	tpl, err := Lookup("graph-tjE")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"IC(A)_150℃", "Eon(mJ)_150℃", "Eoff(mJ)_150℃",
		"IC(A)_175℃", "Eon(mJ)_175℃", "Eoff(mJ)_175℃",
	}, tpl.Columns())
}

func TestSteps(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []float64{0, 0.4, 0.8, 1.2, 1.6, 2}, steps(0, 2, 0.4))
	assert.Equal(t, []float64{-8, -4, 0, 4, 8, 12, 16}, steps(-8, 16, 4))
	assert.Len(t, steps(0, 25, 2), 13)
}

func tj25Table() *tabular.Table {
	return tabular.NewTable(
		[]string{"VCE_Tj = 25℃", "IC_Tj = 25℃", "VCE_Tj = 150℃", "IC_Tj = 150℃", "VCE_Tj = 175℃", "IC_Tj = 175℃"},
		[][]string{
			{"0", "0", "0", "0", "0", "0"},
			{"1.0", "400", "1.1", "380", "1.2", "360"},
			{"2.0", "1200", "", "", "2.2", "1100"},
		},
	)
}

func TestBuild(t *testing.T) {
	t.Parallel()

	tpl, err := Lookup("graph-tj25")
	require.NoError(t, err)

	fig := Build(tpl, tj25Table())
	require.Len(t, fig.Data, 3)

	first := fig.Data[0]
	assert.Equal(t, "Tj = 25℃", first.Name)
	assert.Equal(t, "lines", first.Mode)
	assert.Equal(t, DashSolid, first.Line.Dash)
	assert.Equal(t, "black", first.Line.Color)
	assert.Equal(t, []float64{0, 1, 2}, first.X)
	assert.Equal(t, []float64{0, 400, 1200}, first.Y)

	// The blank row is skipped for the 150℃ series.
	assert.Equal(t, []float64{0, 1.1}, fig.Data[1].X)
	assert.Equal(t, DashDash, fig.Data[1].Line.Dash)
	assert.Equal(t, DashDashDot, fig.Data[2].Line.Dash)

	require.NotNil(t, fig.Layout.XAxis)
	assert.Equal(t, "Static", fig.Layout.Title)
	assert.Equal(t, []float64{0, 3}, fig.Layout.XAxis.Range)
	assert.Equal(t, []float64{0, 1600}, fig.Layout.YAxis.Range)
	assert.Len(t, fig.Layout.YAxis.TickVals, 9)
	assert.Equal(t, 0.01, fig.Layout.Legend.X)
}

func TestBuildFailuresYieldEmptyFigure(t *testing.T) {
	t.Parallel()

	tpl, err := Lookup("graph-tjG")
	require.NoError(t, err)

	tests := []struct {
		name  string
		table *tabular.Table
		err   error
	}{
		{name: "no upload", table: nil, err: ErrNoData},
		{name: "missing column", table: tabular.NewTable([]string{"VCE", "Cies", "Coes"}, nil), err: ErrMissingColumn},
		{name: "unrelated columns", table: tabular.NewTable([]string{"foo"}, [][]string{{"1"}}), err: ErrMissingColumn},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			fig, err := Compose(tpl, tc.table)
			assert.True(t, errors.Is(err, tc.err))
			assert.True(t, fig.IsEmpty())
			assert.NotNil(t, fig.Data)
			assert.True(t, Build(tpl, tc.table).IsEmpty())
		})
	}
}

func TestBuildLogAxes(t *testing.T) {
	t.Parallel()

	tpl, err := Lookup("graph-extra6")
	require.NoError(t, err)
	fig := Build(tpl, tabular.NewTable([]string{"t [s]", "Zth (t)"}, [][]string{
		{"0.000001", "0.00002"},
		{"0.01", "0.004"},
		{"1", "0.05"},
	}))
	require.Len(t, fig.Data, 1)
	assert.Equal(t, "ZthJF : IGBT", fig.Data[0].Name)
	assert.Equal(t, AxisLog, fig.Layout.XAxis.Type)
	assert.Equal(t, "1µ", fig.Layout.XAxis.TickText[0])
	require.NotNil(t, fig.Layout.ShowLegend)
	assert.True(t, *fig.Layout.ShowLegend)
}

func TestBuildDuplicateHeaders(t *testing.T) {
	t.Parallel()

	tpl, err := Lookup("graph-extra2")
	require.NoError(t, err)
	table := tabular.NewTable(
		[]string{"IC(A)", "Erec(mJ)", "IC(A)", "Erec(mJ)", "IC(A)", "Erec(mJ)"},
		[][]string{{"100", "2", "100", "3", "100", "4"}},
	)
	fig := Build(tpl, table)
	require.Len(t, fig.Data, 3)
	assert.Equal(t, []float64{4}, fig.Data[2].Y)
}

func TestParseTrigger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		propID  string
		want    ComponentID
		wantErr bool
	}{
		{name: "preview", propID: `{"type":"Data","index":"graph-tj25"}.n_clicks`, want: ComponentID{Kind: KindPreview, GraphID: "graph-tj25"}},
		{name: "download", propID: `{"type":"button2","graph_id":"graph-extra7"}.n_clicks`, want: ComponentID{Kind: KindDownload, GraphID: "graph-extra7"}},
		{name: "key order", propID: `{"index":"graph-tjD","type":"Data"}.n_clicks`, want: ComponentID{Kind: KindPreview, GraphID: "graph-tjD"}},
		{name: "no suffix", propID: `{"type":"Data","index":"graph-tjF"}`, want: ComponentID{Kind: KindPreview, GraphID: "graph-tjF"}},
		{name: "close", propID: "close-modal.n_clicks", want: ComponentID{Kind: KindClose}},
		{name: "unknown plain id", propID: "open-modal.n_clicks", wantErr: true},
		{name: "unknown card", propID: `{"type":"Data","index":"graph-nope"}.n_clicks`, wantErr: true},
		{name: "unknown type", propID: `{"type":"Other","index":"graph-tj25"}.n_clicks`, wantErr: true},
		{name: "broken json", propID: `{"type":"Data".n_clicks`, wantErr: true},
		{name: "empty", propID: "", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseTrigger(tc.propID)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)

			again, err := ParseTrigger(got.String() + ".n_clicks")
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestRenderPNG(t *testing.T) {
	t.Parallel()

	for _, id := range []string{"graph-tj25", "graph-extra1", "graph-tjE"} {
		tpl, err := Lookup(id)
		require.NoError(t, err)

		var table *tabular.Table
		switch id {
		case "graph-tj25":
			table = tj25Table()
		case "graph-extra1":
			table = tabular.NewTable([]string{"TNTC(℃)", "R(Ω)"}, [][]string{{"0", "0"}, {"25", "5000"}, {"100", "400"}})
		default:
			table = tabular.NewTable(
				[]string{"IC(A)_150℃", "Eon(mJ)_150℃", "Eoff(mJ)_150℃", "IC(A)_175℃", "Eon(mJ)_175℃", "Eoff(mJ)_175℃"},
				[][]string{{"0", "0", "0", "0", "0", "0"}, {"600", "40", "30", "600", "45", "35"}},
			)
		}

		data, err := RenderPNG(Build(tpl, table), 300, 200)
		require.NoError(t, err, id)
		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err, id)
		assert.Equal(t, 300, img.Bounds().Dx(), id)
		assert.Equal(t, 200, img.Bounds().Dy(), id)
	}
}

func TestRenderPNGLogAxesWithoutRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		card    string
		rows    [][]string
		wantErr error
	}{
		{name: "single row", card: "graph-extra6", rows: [][]string{{"0.001", "0.05"}}},
		{name: "single row diode", card: "graph-extra7", rows: [][]string{{"0.01", "0.2"}}},
		{name: "identical rows", card: "graph-extra6", rows: [][]string{{"0.001", "0.05"}, {"0.001", "0.05"}}},
		{name: "non-positive rows only", card: "graph-extra6", rows: [][]string{{"0", "0.05"}, {"-1", "0.1"}}, wantErr: ErrNoData},
		{name: "non-numeric rows", card: "graph-extra6", rows: [][]string{{"n/a", "x"}}, wantErr: ErrNoData},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tpl, err := Lookup(tt.card)
			require.NoError(t, err)
			headers := []string{tpl.Series[0].X, tpl.Series[0].Y}

			var data []byte
			require.NotPanics(t, func() {
				data, err = RenderPNG(Build(tpl, tabular.NewTable(headers, tt.rows)), 300, 200)
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			img, err := png.Decode(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, 300, img.Bounds().Dx())
		})
	}
}

func TestApplyRangeLogBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		min, max         float64
		wantMin, wantMax float64
	}{
		{name: "single point", min: 0.05, max: 0.05, wantMin: 0.005, wantMax: 0.5},
		{name: "no data", min: math.Inf(1), max: math.Inf(-1), wantMin: 0.1, wantMax: 10},
		{name: "widened below zero", min: -0.95, max: 1.05, wantMin: 0.105, wantMax: 1.05},
		{name: "valid span kept", min: 1e-3, max: 10, wantMin: 1e-3, wantMax: 10},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := plot.New()
			p.X.Min, p.X.Max = tt.min, tt.max
			applyRange(&p.X, &Axis{Type: AxisLog}, true)
			assert.InDelta(t, tt.wantMin, p.X.Min, 1e-9)
			assert.InDelta(t, tt.wantMax, p.X.Max, 1e-9)
			assert.Greater(t, p.X.Min, 0.0)
			assert.Less(t, p.X.Min, p.X.Max)
		})
	}
}

func TestRenderEmpty(t *testing.T) {
	t.Parallel()

	_, err := RenderPNG(Empty(), 0, 0)
	assert.ErrorIs(t, err, ErrNoData)
	_, err = RenderHTML(Empty())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestRenderHTML(t *testing.T) {
	t.Parallel()

	tpl, err := Lookup("graph-tj25")
	require.NoError(t, err)
	page, err := RenderHTML(Build(tpl, tj25Table()))
	require.NoError(t, err)
	assert.Contains(t, string(page), "echarts")
	assert.Contains(t, string(page), "Static")
}
