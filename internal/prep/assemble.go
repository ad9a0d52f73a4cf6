package prep

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"

	"github.com/KaramelBytes/medprep-cli/internal/dataset"
	"github.com/KaramelBytes/medprep-cli/internal/logging"
	"github.com/KaramelBytes/medprep-cli/internal/stats"
)

// Split is the model-ready train/test partition.
type Split struct {
	Features   []string
	XTrain     *dataset.Table
	XTest      *dataset.Table
	YTrain     *dataset.Table
	YTest      *dataset.Table
	TrainIndex []int
	TestIndex  []int
}

// FeatureColumns returns the numeric and indicator columns usable as model
// inputs: not the target and not matching any exclude pattern.
func FeatureColumns(t *dataset.Table, opt Options) []string {
	var out []string
	for _, c := range t.ByRole(dataset.RoleNumeric, dataset.RoleIndicator) {
		if c.Name == opt.Target || excluded(c.Name, opt.ExcludePatterns) {
			continue
		}
		out = append(out, c.Name)
	}
	return out
}

func excluded(name string, patterns []string) bool {
	for _, p := range patterns {
		if p != "" && strings.Contains(name, p) {
			return true
		}
	}
	return false
}

// SplitIndices returns a seeded permutation split. The first
// ceil(n*testSize) permuted indices form the test set, the rest train.
func SplitIndices(n int, testSize float64, seed int64) (train, test []int, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("%w: test size %v must be in (0, 1)", ErrInvalidConfig, testSize)
	}
	nTest := int(math.Ceil(float64(n) * testSize))
	if nTest < 1 || nTest >= n {
		return nil, nil, fmt.Errorf("%w: cannot split %d rows with test size %v", ErrInvalidConfig, n, testSize)
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return perm[nTest:], perm[:nTest], nil
}

// Assemble builds the feature matrix and target vector from t and splits
// them. It fails with *MissingColumnError when the target is absent.
// Missing feature and target cells are filled with the column median.
func Assemble(t *dataset.Table, opt Options, log *slog.Logger) (*Split, error) {
	log = logging.OrDefault(log)
	target, ok := t.Column(opt.Target)
	if !ok {
		return nil, &MissingColumnError{Column: opt.Target}
	}
	features := FeatureColumns(t, opt)
	x, err := t.Select(features...)
	if err != nil {
		return nil, fmt.Errorf("select features: %w", err)
	}
	for _, c := range x.Columns() {
		if n := fillMissing(c, dataset.Num(stats.MedianOr(c.Numbers(), 0))); n > 0 {
			log.Debug("residual feature gaps filled", "column", c.Name, "count", n)
		}
	}
	y := dataset.New(t.Rows())
	yc := target.Clone()
	yc.Role = dataset.RoleTarget
	if n := fillMissing(yc, dataset.Num(stats.MedianOr(yc.Numbers(), 0))); n > 0 {
		log.Debug("residual target gaps filled", "count", n)
	}
	y.MustSet(yc)

	train, test, err := SplitIndices(t.Rows(), opt.TestSize, opt.RandomSeed)
	if err != nil {
		return nil, err
	}
	s := &Split{
		Features:   features,
		XTrain:     x.Take(train),
		XTest:      x.Take(test),
		YTrain:     y.Take(train),
		YTest:      y.Take(test),
		TrainIndex: train,
		TestIndex:  test,
	}
	log.Info("dataset assembled", "features", len(features), "train", len(train), "test", len(test))
	return s, nil
}
