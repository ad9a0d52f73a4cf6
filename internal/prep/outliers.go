package prep

import (
	"log/slog"
	"math"

	"github.com/KaramelBytes/medprep-cli/internal/dataset"
	"github.com/KaramelBytes/medprep-cli/internal/logging"
	"github.com/KaramelBytes/medprep-cli/internal/stats"
)

// OutlierAction is what the treatment did with a column.
type OutlierAction string

const (
	ActionNone      OutlierAction = "none"
	ActionClipped   OutlierAction = "clipped"
	ActionUntouched OutlierAction = "untouched"
)

// maxClipPercent is the flagged share above which non-target columns are
// left as they are.
const maxClipPercent = 5.0

// OutlierResult is the per-column outcome. Bounds are only valid for the
// pass that produced them.
type OutlierResult struct {
	Column  string        `json:"column"`
	Count   int           `json:"count"`
	Percent float64       `json:"percent"`
	Lower   float64       `json:"lower"`
	Upper   float64       `json:"upper"`
	Action  OutlierAction `json:"action"`
}

// OutlierReport collects results in table order.
type OutlierReport struct {
	Method  OutlierMethod   `json:"method"`
	Columns []OutlierResult `json:"columns"`
}

// Bounds computes the outlier interval for vals.
func Bounds(vals []float64, method OutlierMethod) (lower, upper float64, err error) {
	if err := method.validate(); err != nil {
		return 0, 0, err
	}
	if len(vals) == 0 {
		return 0, 0, nil
	}
	if method == OutlierIQR {
		lower, upper = stats.IQRBounds(vals, 1.5)
		return lower, upper, nil
	}
	mean := stats.Mean(vals)
	std := stats.StdSample(vals)
	if math.IsNaN(std) {
		std = 0
	}
	return mean - 3*std, mean + 3*std, nil
}

// Clip returns a copy of c with numbers limited to [lower, upper].
func Clip(c *dataset.Column, lower, upper float64) *dataset.Column {
	out := c.Clone()
	for i, v := range out.Values {
		f, ok := v.Float()
		if !ok {
			continue
		}
		out.Values[i] = dataset.Num(math.Min(math.Max(f, lower), upper))
	}
	return out
}

// TreatOutliers flags values outside the method's bounds in every numeric
// and target column and clips them when at most 5% of rows are flagged.
// The target is clipped regardless of the flagged share. An unknown method
// fails before any column is examined.
func TreatOutliers(t *dataset.Table, method OutlierMethod, target string, log *slog.Logger) (*dataset.Table, *OutlierReport, error) {
	if err := method.validate(); err != nil {
		return nil, nil, err
	}
	log = logging.OrDefault(log)
	out := t.Clone()
	rep := &OutlierReport{Method: method}
	total := t.Rows()

	for _, c := range out.ByRole(dataset.RoleNumeric, dataset.RoleTarget) {
		vals := c.Numbers()
		lower, upper, _ := Bounds(vals, method)
		count := 0
		for _, v := range vals {
			if v < lower || v > upper {
				count++
			}
		}
		res := OutlierResult{Column: c.Name, Count: count, Lower: lower, Upper: upper, Action: ActionNone}
		if total > 0 {
			res.Percent = 100 * float64(count) / float64(total)
		}
		isTarget := c.Role == dataset.RoleTarget || c.Name == target
		if count > 0 {
			res.Action = ActionUntouched
			if isTarget || res.Percent <= maxClipPercent {
				res.Action = ActionClipped
			}
		}
		if res.Action == ActionClipped {
			out.MustSet(Clip(c, lower, upper))
			log.Debug("outliers clipped", "column", c.Name, "count", count, "lower", lower, "upper", upper)
		} else if res.Action == ActionUntouched {
			log.Warn("too many outliers, column left untouched", "column", c.Name, "percent", res.Percent)
		}
		rep.Columns = append(rep.Columns, res)
	}
	log.Info("outliers treated", "method", string(method), "columns", len(rep.Columns))
	return out, rep, nil
}
