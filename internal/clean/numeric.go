package clean

import (
	"regexp"
	"strconv"

	"github.com/KaramelBytes/medprep-cli/internal/dataset"
	"github.com/KaramelBytes/medprep-cli/internal/stats"
)

var numberPattern = regexp.MustCompile(`\d+\.?\d*`)

// ExtractNumber converts a single cell. Numbers pass through, missing stays
// missing, and text yields its first embedded number. Only the first number
// in a string is used, so "3-5 gün" becomes 3.
func ExtractNumber(v dataset.Value) dataset.Value {
	if v.IsMissing() || v.IsNumber() {
		return v
	}
	m := numberPattern.FindString(v.Text())
	if m == "" {
		return dataset.Missing()
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return dataset.Missing()
	}
	return dataset.Num(f)
}

// NumericResult describes one extraction pass.
type NumericResult struct {
	Column     string  `json:"column"`
	Unparsed   int     `json:"unparsed"`
	FillValue  float64 `json:"fill_value"`
	UsedMedian bool    `json:"used_median"`
}

// ExtractColumn returns a numeric copy of c. Cells that could not be
// converted are filled with the median of the converted cells, or 0 when
// nothing converted.
func ExtractColumn(c *dataset.Column) (*dataset.Column, NumericResult) {
	out := c.Clone()
	if !out.Role.IsNumeric() {
		out.Role = dataset.RoleNumeric
	}
	for i, v := range out.Values {
		out.Values[i] = ExtractNumber(v)
	}
	res := NumericResult{Column: c.Name, Unparsed: out.MissingCount()}
	if res.Unparsed == 0 {
		return out, res
	}
	if m, ok := stats.Median(out.Numbers()); ok {
		res.FillValue, res.UsedMedian = m, true
	}
	fill := dataset.Num(res.FillValue)
	for i, v := range out.Values {
		if v.IsMissing() {
			out.Values[i] = fill
		}
	}
	return out, res
}
