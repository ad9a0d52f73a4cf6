// Package clean repairs the raw treatment records: embedded numbers are
// pulled out of free-text duration fields, categorical gaps get an explicit
// "unknown" label and comma-separated lists get an item count.
package clean

import (
	"log/slog"
	"strings"

	"github.com/KaramelBytes/medprep-cli/internal/dataset"
	"github.com/KaramelBytes/medprep-cli/internal/logging"
)

const (
	// UnknownCategory fills missing categorical cells during cleaning.
	UnknownCategory = "Bilinmiyor"
	// NoneSentinel fills missing list cells and means "no items".
	NoneSentinel = "Yok"
	// CountSuffix names the item-count column added for each list column.
	CountSuffix = "_Count"
)

// Options selects the columns each cleaning step applies to.
type Options struct {
	NumericText []string
	Categorical []string
	TextList    []string
}

// DefaultOptions mirrors dataset.DefaultSchema.
func DefaultOptions() Options {
	s := dataset.DefaultSchema()
	return Options{NumericText: s.NumericText, Categorical: s.Categorical, TextList: s.TextList}
}

// OptionsFromSchema takes the column lists from a schema.
func OptionsFromSchema(s dataset.Schema) Options {
	return Options{NumericText: s.NumericText, Categorical: s.Categorical, TextList: s.TextList}
}

// Report collects what the cleaner did.
type Report struct {
	Numeric     []NumericResult `json:"numeric"`
	Categorical []CategoryFill  `json:"categorical"`
	TextList    []ListFill      `json:"text_list"`
	Skipped     []string        `json:"skipped,omitempty"`
}

// CategoryFill records one categorical column.
type CategoryFill struct {
	Column string `json:"column"`
	Filled int    `json:"filled"`
	Unique int    `json:"unique"`
}

// ListFill records one list column.
type ListFill struct {
	Column    string  `json:"column"`
	Filled    int     `json:"filled"`
	MeanItems float64 `json:"mean_items"`
}

// Run executes numeric extraction, categorical cleaning and list cleaning in
// that order. The input table is not modified.
func Run(t *dataset.Table, opt Options, log *slog.Logger) (*dataset.Table, *Report) {
	log = logging.OrDefault(log)
	out := t.Clone()
	rep := &Report{}

	for _, name := range opt.NumericText {
		c, ok := out.Column(name)
		if !ok {
			log.Warn("numeric column not found", "column", name)
			rep.Skipped = append(rep.Skipped, name)
			continue
		}
		nc, res := ExtractColumn(c)
		out.MustSet(nc)
		rep.Numeric = append(rep.Numeric, res)
		if res.Unparsed > 0 {
			log.Debug("unparsed numeric values filled", "column", name, "count", res.Unparsed, "value", res.FillValue, "median", res.UsedMedian)
		}
		log.Info("numeric column cleaned", "column", name)
	}

	for _, name := range opt.Categorical {
		c, ok := out.Column(name)
		if !ok {
			log.Warn("categorical column not found", "column", name)
			rep.Skipped = append(rep.Skipped, name)
			continue
		}
		nc, fill := CleanCategorical(c)
		out.MustSet(nc)
		rep.Categorical = append(rep.Categorical, fill)
		log.Info("categorical column cleaned", "column", name, "filled", fill.Filled, "unique", fill.Unique)
	}

	for _, name := range opt.TextList {
		c, ok := out.Column(name)
		if !ok {
			log.Warn("text-list column not found", "column", name)
			rep.Skipped = append(rep.Skipped, name)
			continue
		}
		nc, counts, fill := CleanTextList(c)
		out.MustSet(nc)
		out.MustSet(counts)
		rep.TextList = append(rep.TextList, fill)
		log.Info("text-list column cleaned", "column", name, "filled", fill.Filled, "mean_items", fill.MeanItems)
	}
	return out, rep
}

// CleanCategorical fills missing cells with UnknownCategory and renders
// every cell as text.
func CleanCategorical(c *dataset.Column) (*dataset.Column, CategoryFill) {
	out := c.Clone()
	fill := CategoryFill{Column: c.Name}
	for i, v := range out.Values {
		if v.IsMissing() {
			out.Values[i] = dataset.Str(UnknownCategory)
			fill.Filled++
			continue
		}
		out.Values[i] = dataset.Str(v.Text())
	}
	fill.Unique = len(dataset.Distinct(out))
	return out, fill
}

// CleanTextList fills missing cells with NoneSentinel, trims every cell and
// returns the companion item-count column.
func CleanTextList(c *dataset.Column) (*dataset.Column, *dataset.Column, ListFill) {
	out := c.Clone()
	counts := make([]dataset.Value, len(out.Values))
	fill := ListFill{Column: c.Name}
	total := 0
	for i, v := range out.Values {
		s := NoneSentinel
		if v.IsMissing() {
			fill.Filled++
		} else {
			s = strings.TrimSpace(v.Text())
		}
		out.Values[i] = dataset.Str(s)
		n := 0
		if s != "" && s != NoneSentinel {
			n = CountItems(s)
		}
		total += n
		counts[i] = dataset.Num(float64(n))
	}
	if len(counts) > 0 {
		fill.MeanItems = float64(total) / float64(len(counts))
	}
	return out, dataset.NewColumn(c.Name+CountSuffix, dataset.RoleNumeric, counts), fill
}

// CountItems counts the non-blank comma-separated items of s.
func CountItems(s string) int {
	n := 0
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) != "" {
			n++
		}
	}
	return n
}

// SplitItems returns the trimmed non-blank comma-separated items of s.
func SplitItems(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
