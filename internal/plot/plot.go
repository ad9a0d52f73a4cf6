// Package plot renders the exploratory charts written next to the EDA report.
package plot

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"regexp"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/KaramelBytes/medprep-cli/internal/analysis"
	"github.com/KaramelBytes/medprep-cli/internal/dataset"
	"github.com/KaramelBytes/medprep-cli/internal/stats"
	"github.com/KaramelBytes/medprep-cli/internal/utils"
)

// DefaultBins is the histogram bin count.
const DefaultBins = 30

// ErrNoData is returned when a chart would have no bar with a positive height.
var ErrNoData = errors.New("nothing to plot")

// Bin is one histogram bucket over [Lo, Hi).
type Bin struct {
	Lo, Hi float64
	Count  int
}

// Histogram buckets vals into n equal-width bins. The last bin is closed.
func Histogram(vals []float64, n int) []Bin {
	lo, hi, ok := stats.MinMax(vals)
	if !ok || n <= 0 {
		return nil
	}
	if lo == hi {
		return []Bin{{Lo: lo, Hi: hi, Count: len(vals)}}
	}
	width := (hi - lo) / float64(n)
	bins := make([]Bin, n)
	for i := range bins {
		bins[i].Lo = lo + float64(i)*width
		bins[i].Hi = lo + float64(i+1)*width
	}
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		i := int((v - lo) / width)
		if i >= n {
			i = n - 1
		}
		bins[i].Count++
	}
	return bins
}

// Bars renders a bar chart to PNG bytes.
func Bars(title, yName string, labels []string, values []float64) ([]byte, error) {
	var bars []chart.Value
	top := 0.0
	for i := range labels {
		top = math.Max(top, values[i])
		bars = append(bars, chart.Value{Value: values[i], Label: labels[i]})
	}
	if top <= 0 {
		return nil, ErrNoData
	}
	const width = 1280
	per := (width - 100) / len(bars)
	barWidth := min(per*2/3, 60)
	graph := chart.BarChart{
		Title: title,
		Background: chart.Style{
			Padding:     chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 40},
			FillColor:   drawing.ColorWhite,
			StrokeColor: drawing.ColorFromHex("efefef"),
			StrokeWidth: 1,
		},
		Height:     768,
		Width:      width,
		BarWidth:   barWidth,
		BarSpacing: max(per-barWidth, 2),
		Bars:       bars,
		YAxis: chart.YAxis{
			Name:  yName,
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.05},
		},
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render %s: %w", title, err)
	}
	return buffer.Bytes(), nil
}

// HistogramPNG renders vals as a histogram chart.
func HistogramPNG(title string, vals []float64, n int) ([]byte, error) {
	bins := Histogram(vals, n)
	labels := make([]string, len(bins))
	counts := make([]float64, len(bins))
	for i, b := range bins {
		labels[i] = fmt.Sprintf("%.3g", b.Lo)
		counts[i] = float64(b.Count)
	}
	return Bars(title, "Frequency", labels, counts)
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// FileName maps a chart name to a safe PNG file name.
func FileName(name string) string {
	s := unsafeChars.ReplaceAllString(name, "_")
	if s == "" {
		s = "chart"
	}
	return s + ".png"
}

// WriteAll renders the report charts into dir and returns the written paths.
// A chart that fails to render is logged and skipped.
func WriteAll(dir string, t *dataset.Table, r *analysis.Report, log *slog.Logger) []string {
	var written []string
	save := func(name string, data []byte, err error) {
		if err != nil {
			log.Warn("chart skipped", "chart", name, "err", err)
			return
		}
		path := filepath.Join(dir, FileName(name))
		if err := utils.SafeWriteFile(path, data); err != nil {
			log.Warn("chart not written", "path", path, "err", err)
			return
		}
		written = append(written, path)
	}

	if len(r.Missing) > 0 {
		labels := make([]string, len(r.Missing))
		pcts := make([]float64, len(r.Missing))
		for i, m := range r.Missing {
			labels[i] = m.Column
			pcts[i] = m.Percent
		}
		data, err := Bars("Missing values (%)", "Percent", labels, pcts)
		save("missing_values", data, err)
	}

	if r.Target != nil {
		if c, ok := t.Column(r.Target.Column); ok {
			data, err := HistogramPNG(r.Target.Column+" distribution", c.Numbers(), DefaultBins)
			save("target_"+r.Target.Column, data, err)
		}
	}

	for _, cs := range r.Categorical {
		labels := make([]string, len(cs.Top))
		counts := make([]float64, len(cs.Top))
		for i, kv := range cs.Top {
			labels[i] = kv.Value
			counts[i] = float64(kv.Count)
		}
		data, err := Bars(cs.Column+" (top values)", "Count", labels, counts)
		save("categorical_"+cs.Column, data, err)
	}

	for _, ns := range r.Numeric {
		if r.Target != nil && ns.Column == r.Target.Column {
			continue
		}
		c, ok := t.Column(ns.Column)
		if !ok {
			continue
		}
		data, err := HistogramPNG(ns.Column+" distribution", c.Numbers(), DefaultBins)
		save("numeric_"+ns.Column, data, err)
	}

	for _, tl := range r.TextLists {
		labels := make([]string, len(tl.Top))
		counts := make([]float64, len(tl.Top))
		for i, kv := range tl.Top {
			labels[i] = kv.Value
			counts[i] = float64(kv.Count)
		}
		data, err := Bars(tl.Column+" (top items)", "Count", labels, counts)
		save("textlist_"+tl.Column, data, err)
	}
	return written
}
