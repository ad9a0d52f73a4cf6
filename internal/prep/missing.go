package prep

import (
	"log/slog"
	"math"

	"github.com/KaramelBytes/medprep-cli/internal/dataset"
	"github.com/KaramelBytes/medprep-cli/internal/logging"
	"github.com/KaramelBytes/medprep-cli/internal/stats"
)

const (
	// UnknownCategory fills a categorical column that has no mode.
	UnknownCategory = "Unknown"
	// ListSentinel fills missing list cells.
	ListSentinel = "Yok"
)

// ImputerState is the fitted missing-value policy. The KNN part keeps the
// donor rows so new data is imputed against the training rows.
type ImputerState struct {
	K int `json:"k"`
	// Columns is the KNN column set, pinned at fit time.
	Columns []string `json:"columns"`
	// Donors holds the fitted rows over Columns; null marks a missing cell.
	Donors [][]*float64 `json:"donors"`
	Means  []float64    `json:"means"`

	Target     string  `json:"target,omitempty"`
	TargetFill float64 `json:"target_fill"`
	// CategoryFills maps categorical columns to their mode or UnknownCategory.
	CategoryFills map[string]string `json:"category_fills"`
	ListFill      string            `json:"list_fill"`
}

// MissingFill records what was filled in one column.
type MissingFill struct {
	Column   string `json:"column"`
	Strategy string `json:"strategy"`
	Filled   int    `json:"filled"`
}

// MissingReport lists per-column fills in table order.
type MissingReport struct {
	Fills []MissingFill `json:"fills"`
}

// FitImputer learns the fill policy from t. The KNN set is every column whose
// role is RoleNumeric when the imputer is fitted.
func FitImputer(t *dataset.Table, opt Options) *ImputerState {
	s := &ImputerState{
		K:             opt.KNNNeighbors,
		CategoryFills: map[string]string{},
		ListFill:      ListSentinel,
	}
	if s.K < 1 {
		s.K = 5
	}
	knnCols := t.ByRole(dataset.RoleNumeric)
	for _, c := range knnCols {
		s.Columns = append(s.Columns, c.Name)
	}
	matrix := numericMatrix(knnCols, t.Rows())
	s.Means = columnMeans(matrix, len(knnCols))
	s.Donors = make([][]*float64, len(matrix))
	for i, r := range matrix {
		s.Donors[i] = make([]*float64, len(r))
		for j, v := range r {
			if !math.IsNaN(v) {
				f := v
				s.Donors[i][j] = &f
			}
		}
	}

	for _, c := range t.ByRole(dataset.RoleTarget) {
		s.Target = c.Name
		s.TargetFill = stats.MedianOr(c.Numbers(), 0)
	}
	for _, c := range t.ByRole(dataset.RoleCategorical) {
		if mode, ok := stats.Mode(c.Strings()); ok {
			s.CategoryFills[c.Name] = mode
		} else {
			s.CategoryFills[c.Name] = UnknownCategory
		}
	}
	return s
}

func numericMatrix(cols []*dataset.Column, rows int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, len(cols))
		for j, c := range cols {
			f, ok := c.Values[i].Float()
			if !ok {
				f = math.NaN()
			}
			m[i][j] = f
		}
	}
	return m
}

func (s *ImputerState) model() *knnModel {
	donors := make([][]float64, len(s.Donors))
	for i, r := range s.Donors {
		donors[i] = make([]float64, len(r))
		for j, p := range r {
			if p == nil {
				donors[i][j] = math.NaN()
			} else {
				donors[i][j] = *p
			}
		}
	}
	return &knnModel{k: s.K, donors: donors, means: s.Means}
}

// Apply fills t with the fitted policy and returns a new table. The
// identifier column is never touched. A fitted KNN column absent from t is
// logged and treated as missing in every row.
func (s *ImputerState) Apply(t *dataset.Table, log *slog.Logger) (*dataset.Table, *MissingReport) {
	log = logging.OrDefault(log)
	out := t.Clone()
	rep := &MissingReport{}

	cols := make([]*dataset.Column, len(s.Columns))
	for j, name := range s.Columns {
		c, ok := out.Column(name)
		if !ok {
			log.Warn("imputer column missing", "error", &MissingColumnError{Column: name})
			continue
		}
		cols[j] = c
	}
	if len(cols) > 0 {
		s.applyKNN(cols, out.Rows(), rep)
	}

	for _, c := range out.Columns() {
		switch c.Role {
		case dataset.RoleTarget:
			fill := s.TargetFill
			if c.Name != s.Target {
				fill = stats.MedianOr(c.Numbers(), 0)
			}
			if n := fillMissing(c, dataset.Num(fill)); n > 0 {
				rep.Fills = append(rep.Fills, MissingFill{Column: c.Name, Strategy: "median", Filled: n})
				log.Debug("target filled", "column", c.Name, "value", fill, "count", n)
			}
		case dataset.RoleCategorical:
			fill, ok := s.CategoryFills[c.Name]
			if !ok {
				fill = UnknownCategory
			}
			if n := fillMissing(c, dataset.Str(fill)); n > 0 {
				rep.Fills = append(rep.Fills, MissingFill{Column: c.Name, Strategy: "mode", Filled: n})
				log.Debug("categorical filled", "column", c.Name, "value", fill, "count", n)
			}
		case dataset.RoleTextList:
			if n := fillMissing(c, dataset.Str(s.ListFill)); n > 0 {
				rep.Fills = append(rep.Fills, MissingFill{Column: c.Name, Strategy: "sentinel", Filled: n})
				log.Debug("text list filled", "column", c.Name, "value", s.ListFill, "count", n)
			}
		}
	}
	return out, rep
}

func (s *ImputerState) applyKNN(cols []*dataset.Column, rows int, rep *MissingReport) {
	m := s.model()
	filled := make([]int, len(cols))
	row := make([]float64, len(cols))
	for i := 0; i < rows; i++ {
		for j, c := range cols {
			row[j] = math.NaN()
			if c == nil {
				continue
			}
			if f, ok := c.Values[i].Float(); ok {
				row[j] = f
			}
		}
		if m.impute(row) == 0 {
			continue
		}
		for j, c := range cols {
			if c == nil || !c.Values[i].IsMissing() {
				continue
			}
			c.Values[i] = dataset.Num(row[j])
			filled[j]++
		}
	}
	for j, c := range cols {
		if c != nil && filled[j] > 0 {
			rep.Fills = append(rep.Fills, MissingFill{Column: c.Name, Strategy: "knn", Filled: filled[j]})
		}
	}
}

func fillMissing(c *dataset.Column, v dataset.Value) int {
	n := 0
	for i, cell := range c.Values {
		if cell.IsMissing() {
			c.Values[i] = v
			n++
		}
	}
	return n
}

// HandleMissing fits the imputer on t and applies it to t.
func HandleMissing(t *dataset.Table, opt Options, log *slog.Logger) (*dataset.Table, *ImputerState, *MissingReport) {
	log = logging.OrDefault(log)
	for name, n := range t.MissingCounts() {
		log.Debug("missing values", "column", name, "count", n, "percent", 100*float64(n)/float64(t.Rows()))
	}
	s := FitImputer(t, opt)
	out, rep := s.Apply(t, log)
	log.Info("missing values handled", "knn_columns", len(s.Columns), "k", s.K)
	return out, s, rep
}
