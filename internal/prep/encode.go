package prep

import (
	"log/slog"
	"sort"

	"github.com/KaramelBytes/medprep-cli/internal/dataset"
	"github.com/KaramelBytes/medprep-cli/internal/logging"
	"github.com/KaramelBytes/medprep-cli/internal/stats"
)

// Strategy is the encoding chosen for a column from its cardinality.
type Strategy string

const (
	StrategyBinary       Strategy = "binary"
	StrategyOneHot       Strategy = "onehot"
	StrategyFrequencyTop Strategy = "frequency_top"
)

const (
	maxBinaryLevels = 2
	maxOneHotLevels = 10
	topK            = 10
	// OtherCategory replaces values outside the top set.
	OtherCategory = "Other"
)

// ColumnEncoding is the fitted encoding of one column.
type ColumnEncoding struct {
	Column   string   `json:"column"`
	Strategy Strategy `json:"strategy"`
	// Labels are the binary labels; a label's index is its code.
	Labels []string `json:"labels,omitempty"`
	// Levels are the one-hot levels; Levels[0] is the dropped reference.
	Levels    []string       `json:"levels,omitempty"`
	Frequency map[string]int `json:"frequency,omitempty"`
	Top       []string       `json:"top,omitempty"`
	// TopLevels are the levels of the reduced top/Other column.
	TopLevels []string `json:"top_levels,omitempty"`
	// Renamed maps a generated name that clashed with an existing column
	// to the name the output is written under.
	Renamed map[string]string `json:"renamed,omitempty"`
}

// Encoder holds the fitted encodings in column order.
type Encoder struct {
	Columns []ColumnEncoding `json:"columns"`
}

// FitEncoder chooses a strategy for every categorical column (and list
// column when enabled) from its distinct non-missing values.
func FitEncoder(t *dataset.Table, opt Options) *Encoder {
	roles := []dataset.Role{dataset.RoleCategorical}
	if opt.EncodeTextLists {
		roles = append(roles, dataset.RoleTextList)
	}
	e := &Encoder{}
	taken := map[string]bool{}
	for _, n := range t.Names() {
		taken[n] = true
	}
	for _, c := range t.ByRole(roles...) {
		enc := fitColumn(c)
		enc.resolveNames(taken)
		e.Columns = append(e.Columns, enc)
	}
	return e
}

// resolveNames gives every output that would replace a column in taken a
// "_dummy" suffix and marks the final names as taken.
func (enc *ColumnEncoding) resolveNames(taken map[string]bool) {
	for _, n := range enc.OutputColumns() {
		name := n
		for taken[name] {
			name += "_dummy"
		}
		if name != n {
			if enc.Renamed == nil {
				enc.Renamed = map[string]string{}
			}
			enc.Renamed[n] = name
		}
		taken[name] = true
	}
}

func (enc ColumnEncoding) outName(n string) string {
	if r, ok := enc.Renamed[n]; ok {
		return r
	}
	return n
}

func fitColumn(c *dataset.Column) ColumnEncoding {
	distinct := dataset.Distinct(c)
	enc := ColumnEncoding{Column: c.Name}
	switch {
	case len(distinct) <= maxBinaryLevels:
		enc.Strategy = StrategyBinary
		enc.Labels = distinct
	case len(distinct) <= maxOneHotLevels:
		enc.Strategy = StrategyOneHot
		enc.Levels = orderLevels(distinct, c.Levels)
	default:
		enc.Strategy = StrategyFrequencyTop
		vals := c.Strings()
		enc.Frequency = map[string]int{}
		for _, cnt := range stats.Counts(vals) {
			enc.Frequency[cnt.Value] = cnt.Count
		}
		for _, cnt := range stats.Top(vals, topK) {
			enc.Top = append(enc.Top, cnt.Value)
		}
		reduced := map[string]struct{}{}
		for _, v := range vals {
			reduced[enc.reduce(v)] = struct{}{}
		}
		for k := range reduced {
			enc.TopLevels = append(enc.TopLevels, k)
		}
		sort.Strings(enc.TopLevels)
	}
	return enc
}

// orderLevels keeps observed levels in the declared order when the column
// has one, otherwise sorted.
func orderLevels(observed, declared []string) []string {
	if len(declared) == 0 {
		return observed
	}
	seen := map[string]bool{}
	for _, v := range observed {
		seen[v] = true
	}
	var out []string
	for _, l := range declared {
		if seen[l] {
			out = append(out, l)
			delete(seen, l)
		}
	}
	// values outside the declared levels go last, sorted
	var rest []string
	for v := range seen {
		rest = append(rest, v)
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func (enc ColumnEncoding) reduce(v string) string {
	for _, t := range enc.Top {
		if t == v {
			return v
		}
	}
	return OtherCategory
}

// OutputColumns lists the names this encoding adds, in order.
func (enc ColumnEncoding) OutputColumns() []string {
	var out []string
	switch enc.Strategy {
	case StrategyBinary:
		out = []string{enc.Column + "_encoded"}
	case StrategyOneHot:
		out = dummyNames(enc.Column, enc.Levels)
	default:
		out = []string{enc.Column + "_frequency", enc.Column + "_is_top", enc.Column + "_top_category"}
		out = append(out, dummyNames(enc.Column+"_top", enc.TopLevels)...)
	}
	for i, n := range out {
		out[i] = enc.outName(n)
	}
	return out
}

func dummyNames(prefix string, levels []string) []string {
	if len(levels) < 2 {
		return nil
	}
	out := make([]string, 0, len(levels)-1)
	for _, l := range levels[1:] {
		out = append(out, prefix+"_"+l)
	}
	return out
}

// Apply adds the encoded columns for every fitted column present in t. The
// source columns are kept and outputs never overwrite them. Binary labels
// not seen during fitting encode as -1; unseen values get zero frequency
// and fall into "Other".
func (e *Encoder) Apply(t *dataset.Table, log *slog.Logger) *dataset.Table {
	log = logging.OrDefault(log)
	out := t.Clone()
	for _, enc := range e.Columns {
		c, ok := out.Column(enc.Column)
		if !ok {
			log.Warn("encoding skipped", "error", &MissingColumnError{Column: enc.Column})
			continue
		}
		for _, nc := range enc.encode(c) {
			nc.Name = enc.outName(nc.Name)
			out.MustSet(nc)
		}
		log.Debug("column encoded", "column", enc.Column, "strategy", string(enc.Strategy))
	}
	return out
}

func (enc ColumnEncoding) encode(c *dataset.Column) []*dataset.Column {
	n := len(c.Values)
	switch enc.Strategy {
	case StrategyBinary:
		codes := map[string]int{}
		for i, l := range enc.Labels {
			codes[l] = i
		}
		vals := make([]dataset.Value, n)
		for i, v := range c.Values {
			code, ok := codes[v.Text()]
			if v.IsMissing() || !ok {
				code = -1
			}
			vals[i] = dataset.Num(float64(code))
		}
		return []*dataset.Column{dataset.NewColumn(enc.Column+"_encoded", dataset.RoleNumeric, vals)}

	case StrategyOneHot:
		texts := make([]string, n)
		for i, v := range c.Values {
			if !v.IsMissing() {
				texts[i] = v.Text()
			}
		}
		return oneHot(enc.Column, enc.Levels, texts)

	default:
		freq := make([]dataset.Value, n)
		isTop := make([]dataset.Value, n)
		topCat := make([]dataset.Value, n)
		reduced := make([]string, n)
		for i, v := range c.Values {
			if v.IsMissing() {
				freq[i] = dataset.Num(0)
				isTop[i] = dataset.Num(0)
				topCat[i] = dataset.Str(OtherCategory)
				reduced[i] = OtherCategory
				continue
			}
			s := v.Text()
			r := enc.reduce(s)
			freq[i] = dataset.Num(float64(enc.Frequency[s]))
			isTop[i] = dataset.Bool(r != OtherCategory)
			topCat[i] = dataset.Str(r)
			reduced[i] = r
		}
		cols := []*dataset.Column{
			dataset.NewColumn(enc.Column+"_frequency", dataset.RoleNumeric, freq),
			dataset.NewColumn(enc.Column+"_is_top", dataset.RoleNumeric, isTop),
			dataset.NewColumn(enc.Column+"_top_category", dataset.RoleCategorical, topCat),
		}
		return append(cols, oneHot(enc.Column+"_top", enc.TopLevels, reduced)...)
	}
}

// oneHot emits one indicator per level after the first. A value matching no
// level (including the reference) yields all zeros.
func oneHot(prefix string, levels, texts []string) []*dataset.Column {
	names := dummyNames(prefix, levels)
	cols := make([]*dataset.Column, len(names))
	for k, name := range names {
		level := levels[k+1]
		vals := make([]dataset.Value, len(texts))
		for i, s := range texts {
			vals[i] = dataset.Bool(s == level)
		}
		cols[k] = dataset.NewColumn(name, dataset.RoleIndicator, vals)
	}
	return cols
}

// Encode fits an encoder on t and applies it.
func Encode(t *dataset.Table, opt Options, log *slog.Logger) (*dataset.Table, *Encoder) {
	e := FitEncoder(t, opt)
	out := e.Apply(t, log)
	logging.OrDefault(log).Info("categorical columns encoded", "columns", len(e.Columns))
	return out, e
}
