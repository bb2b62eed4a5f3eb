package render

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/banshee-data/microdoppler/internal/microdoppler"
	"github.com/banshee-data/microdoppler/internal/units"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// OverviewFile is the overview's name inside an acquisition's output dir.
const OverviewFile = "overview.html"

var viridis = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

// Overview renders the whole spectrogram of res as an interactive heat map
// with section boundaries listed in the subtitle.
func Overview(res *microdoppler.Result, velocityUnits string) (*charts.HeatMap, error) {
	if err := units.Validate(velocityUnits); err != nil {
		return nil, err
	}
	spec := res.Spectrogram
	rows, cols := spec.Dims()
	p := res.Parameters

	times := spec.TimeAxis()
	xLabels := make([]string, cols)
	for c, t := range times {
		xLabels[c] = strconv.FormatFloat(t, 'f', 2, 64)
	}
	// Category index 0 sits at the bottom, so y runs from the lowest bin up.
	yLabels := make([]string, rows)
	for y := range yLabels {
		v := units.ConvertSpeed(p.Velocity(p.RowFrequency(rows-1-y)), velocityUnits)
		yLabels[y] = strconv.FormatFloat(v, 'f', 2, 64)
	}

	data := make([]opts.HeatMapData, 0, rows*cols)
	lo, hi := 0.0, 0.0
	for y := 0; y < rows; y++ {
		for c := 0; c < cols; c++ {
			z := microdoppler.LogMagnitude(spec.At(rows-1-y, c))
			if len(data) == 0 || z < lo {
				lo = z
			}
			if len(data) == 0 || z > hi {
				hi = z
			}
			data = append(data, opts.HeatMapData{Value: [3]interface{}{c, y, z}})
		}
	}

	width := cols
	if len(res.Sections) > 0 {
		width = res.Sections[0].Width()
	}
	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Micro-Doppler " + res.Label, Theme: "dark", Width: "1200px", Height: "640px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    res.Label,
			Subtitle: fmt.Sprintf("bins=%v windows=%d sections=%d x %d columns", res.Bins, cols, len(res.Sections), width),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: xLabels, Name: "Time (s)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: yLabels, Name: "Velocity (" + units.Label(velocityUnits) + ")", NameLocation: "middle", NameGap: 45}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(lo),
			Max:        float32(hi),
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
	)
	hm.AddSeries("20 log10 |S|", data)
	return hm, nil
}

// WriteOverview renders the overview into outDir and returns its path.
func (w *Writer) WriteOverview(outDir string, res *microdoppler.Result) (string, error) {
	hm, err := Overview(res, w.Options.VelocityUnits)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := hm.Render(&buf); err != nil {
		return "", fmt.Errorf("failed to render overview: %w", err)
	}
	if err := w.FS.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(outDir, OverviewFile)
	if err := w.FS.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
