package prep

import (
	"log/slog"
	"math"
	"strings"

	"github.com/KaramelBytes/medprep-cli/internal/dataset"
	"github.com/KaramelBytes/medprep-cli/internal/logging"
	"github.com/KaramelBytes/medprep-cli/internal/stats"
)

// boundedSuffixes mark columns that already hold 0/1 style values.
var boundedSuffixes = []string{"_encoded", "_var", "_mu", "_mi"}

// ScaleParam maps x to (x - Location) / Scale.
type ScaleParam struct {
	Column   string  `json:"column"`
	Location float64 `json:"location"`
	Scale    float64 `json:"scale"`
}

// Scaler is a fitted rescaling.
type Scaler struct {
	Method  ScalingMethod `json:"method"`
	Columns []ScaleParam  `json:"columns"`
}

// ScaleCandidates returns the numeric columns eligible for scaling: not the
// target or identifier, not an indicator, and not named like a bounded flag.
func ScaleCandidates(t *dataset.Table, opt Options) []*dataset.Column {
	var out []*dataset.Column
	for _, c := range t.ByRole(dataset.RoleNumeric) {
		if c.Name == opt.Target || c.Name == opt.Identifier || isBounded(c.Name) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func isBounded(name string) bool {
	lower := strings.ToLower(name)
	for _, s := range boundedSuffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

// FitScaler computes location and scale per candidate column, ignoring
// missing cells. A zero spread gets scale 1.
func FitScaler(t *dataset.Table, method ScalingMethod, opt Options) (*Scaler, error) {
	if err := method.validate(); err != nil {
		return nil, err
	}
	s := &Scaler{Method: method}
	for _, c := range ScaleCandidates(t, opt) {
		vals := c.Numbers()
		p := ScaleParam{Column: c.Name, Scale: 1}
		if len(vals) > 0 {
			switch method {
			case ScaleStandard:
				p.Location = stats.Mean(vals)
				if sd := stats.StdPop(vals); sd > 0 && !math.IsNaN(sd) {
					p.Scale = sd
				}
			case ScaleMinMax:
				lo, hi, _ := stats.MinMax(vals)
				p.Location = lo
				if hi > lo {
					p.Scale = hi - lo
				}
			}
		}
		s.Columns = append(s.Columns, p)
	}
	return s, nil
}

// Apply rescales the fitted columns present in t. Missing cells stay missing.
func (s *Scaler) Apply(t *dataset.Table, log *slog.Logger) *dataset.Table {
	log = logging.OrDefault(log)
	out := t.Clone()
	for _, p := range s.Columns {
		c, ok := out.Column(p.Column)
		if !ok {
			log.Warn("scaling skipped", "error", &MissingColumnError{Column: p.Column})
			continue
		}
		for i, v := range c.Values {
			if f, ok := v.Float(); ok {
				c.Values[i] = dataset.Num((f - p.Location) / p.Scale)
			}
		}
	}
	return out
}

// Scale fits a scaler on t and applies it.
func Scale(t *dataset.Table, method ScalingMethod, opt Options, log *slog.Logger) (*dataset.Table, *Scaler, error) {
	s, err := FitScaler(t, method, opt)
	if err != nil {
		return nil, nil, err
	}
	out := s.Apply(t, log)
	logging.OrDefault(log).Info("features scaled", "method", string(method), "columns", len(s.Columns))
	return out, s, nil
}
