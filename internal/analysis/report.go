package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/medprep-cli/internal/clean"
	"github.com/KaramelBytes/medprep-cli/internal/dataset"
	"github.com/KaramelBytes/medprep-cli/internal/stats"
)

// Options controls the exploratory analysis.
type Options struct {
	// Target is the outcome column analysed on its own.
	Target string
	// TopN limits the frequency tables.
	TopN int
	// CorrThreshold lists column pairs with |r| above it.
	CorrThreshold float64
}

// DefaultOptions returns reasonable defaults for the treatment dataset.
func DefaultOptions() Options {
	return Options{Target: "TedaviSuresi", TopN: 10, CorrThreshold: 0.5}
}

// Report is the exploratory analysis of a cleaned table.
type Report struct {
	Name        string
	Rows        int
	Cols        int
	Missing     []MissingSummary
	Target      *TargetSummary
	Categorical []CategoricalSummary
	Numeric     []NumericSummary
	Corr        *CorrMatrix
	StrongPairs []PairCorr
	TextLists   []TextListSummary
	Warnings    []string
}

// MissingSummary is one row of the missing-data table.
type MissingSummary struct {
	Column  string
	Count   int
	Percent float64
}

// TargetSummary describes the outcome column.
type TargetSummary struct {
	Column   string
	Total    int
	Summary  stats.Summary
	Mode     float64
	Skew     float64
	Kurtosis float64
	Outliers int
	Lower    float64
	Upper    float64
}

// CategoricalSummary captures counts and top values per categorical column.
type CategoricalSummary struct {
	Column    string
	Total     int
	NonNull   int
	Missing   int
	Unique    int
	Top       []stats.Count
	Mode      string
	ModeShare float64
}

// NumericSummary is the describe() view of a numeric column.
type NumericSummary struct {
	Column  string
	Missing int
	Summary stats.Summary
}

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// PairCorr is a simple correlation pair summary.
type PairCorr struct {
	A, B string
	R    float64
}

// TextListSummary describes a comma-separated list column by its items.
type TextListSummary struct {
	Column      string
	Total       int
	NonNull     int
	Missing     int
	Items       int
	Unique      int
	MeanLength  float64
	ItemsPerRow float64
	Top         []stats.Count
}

// Analyze builds the report from a role-tagged table.
func Analyze(name string, t *dataset.Table, opt Options) *Report {
	if opt.TopN <= 0 {
		opt.TopN = 10
	}
	r := &Report{Name: name, Rows: t.Rows(), Cols: t.Width()}
	r.Missing = missingTable(t)

	if c, ok := t.Column(opt.Target); ok {
		if ts := analyzeTarget(c); ts != nil {
			r.Target = ts
		} else {
			r.Warnings = append(r.Warnings, fmt.Sprintf("target %s has no numeric values", opt.Target))
		}
	} else {
		r.Warnings = append(r.Warnings, fmt.Sprintf("target %s not found", opt.Target))
	}

	for _, c := range t.ByRole(dataset.RoleCategorical) {
		r.Categorical = append(r.Categorical, analyzeCategorical(c, t.Rows(), opt.TopN))
	}

	numeric := t.ByRole(dataset.RoleNumeric, dataset.RoleTarget)
	for _, c := range numeric {
		r.Numeric = append(r.Numeric, NumericSummary{Column: c.Name, Missing: c.MissingCount(), Summary: stats.Describe(c.Numbers())})
	}
	if len(numeric) >= 2 {
		r.Corr = correlations(numeric)
		r.StrongPairs = strongPairs(r.Corr, opt.CorrThreshold)
	} else {
		r.Warnings = append(r.Warnings, "fewer than two numeric columns; correlations skipped")
	}

	for _, c := range t.ByRole(dataset.RoleTextList) {
		r.TextLists = append(r.TextLists, analyzeTextList(c, opt.TopN))
	}
	return r
}

func missingTable(t *dataset.Table) []MissingSummary {
	var out []MissingSummary
	for _, c := range t.Columns() {
		n := c.MissingCount()
		if n == 0 {
			continue
		}
		out = append(out, MissingSummary{Column: c.Name, Count: n, Percent: 100 * float64(n) / float64(t.Rows())})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

func analyzeTarget(c *dataset.Column) *TargetSummary {
	vals := c.Numbers()
	if len(vals) == 0 {
		return nil
	}
	ts := &TargetSummary{
		Column:   c.Name,
		Total:    c.Len(),
		Summary:  stats.Describe(vals),
		Mode:     numericMode(vals),
		Skew:     stats.Skew(vals),
		Kurtosis: stats.Kurtosis(vals),
	}
	ts.Lower, ts.Upper = stats.IQRBounds(vals, 1.5)
	for _, v := range vals {
		if v < ts.Lower || v > ts.Upper {
			ts.Outliers++
		}
	}
	return ts
}

// numericMode returns the most frequent value, the smallest on ties.
func numericMode(vals []float64) float64 {
	counts := map[float64]int{}
	for _, v := range vals {
		counts[v]++
	}
	best, bestN := math.Inf(1), 0
	for v, n := range counts {
		if n > bestN || (n == bestN && v < best) {
			best, bestN = v, n
		}
	}
	return best
}

func analyzeCategorical(c *dataset.Column, rows, topN int) CategoricalSummary {
	vals := c.Strings()
	counts := stats.Counts(vals)
	cs := CategoricalSummary{
		Column:  c.Name,
		Total:   rows,
		NonNull: len(vals),
		Missing: rows - len(vals),
		Unique:  len(counts),
	}
	if len(counts) > topN {
		cs.Top = counts[:topN]
	} else {
		cs.Top = counts
	}
	if len(counts) > 0 {
		cs.Mode = counts[0].Value
		cs.ModeShare = 100 * float64(counts[0].Count) / float64(len(vals))
	}
	return cs
}

func correlations(cols []*dataset.Column) *CorrMatrix {
	n := len(cols)
	series := make([][]float64, n)
	for i, c := range cols {
		series[i] = make([]float64, c.Len())
		for k, v := range c.Values {
			f, ok := v.Float()
			if !ok {
				f = math.NaN()
			}
			series[i][k] = f
		}
	}
	m := &CorrMatrix{Values: make([][]float64, n)}
	for i := range cols {
		m.Columns = append(m.Columns, cols[i].Name)
		m.Values[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		m.Values[i][i] = 1
		for j := i + 1; j < n; j++ {
			r, _ := stats.Pearson(series[i], series[j])
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

func strongPairs(m *CorrMatrix, threshold float64) []PairCorr {
	var out []PairCorr
	for i := range m.Columns {
		for j := i + 1; j < len(m.Columns); j++ {
			r := m.Values[i][j]
			if !math.IsNaN(r) && math.Abs(r) > threshold {
				out = append(out, PairCorr{A: m.Columns[i], B: m.Columns[j], R: r})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return math.Abs(out[i].R) > math.Abs(out[j].R) })
	return out
}

func analyzeTextList(c *dataset.Column, topN int) TextListSummary {
	ts := TextListSummary{Column: c.Name, Total: c.Len(), Missing: c.MissingCount()}
	ts.NonNull = ts.Total - ts.Missing
	var items []string
	chars := 0
	for _, v := range c.Values {
		if !v.IsString() {
			continue
		}
		for _, it := range clean.SplitItems(v.Text()) {
			items = append(items, it)
			chars += len([]rune(it))
		}
	}
	ts.Items = len(items)
	if len(items) == 0 {
		return ts
	}
	counts := stats.Counts(items)
	ts.Unique = len(counts)
	ts.MeanLength = float64(chars) / float64(len(items))
	if ts.NonNull > 0 {
		ts.ItemsPerRow = float64(len(items)) / float64(ts.NonNull)
	}
	if len(counts) > topN {
		counts = counts[:topN]
	}
	ts.Top = counts
	return ts
}
