package prep

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/KaramelBytes/medprep-cli/internal/dataset"
	"github.com/KaramelBytes/medprep-cli/internal/logging"
)

// Artifacts are the fitted pieces of a pipeline run, reusable on new data.
type Artifacts struct {
	Target   string         `json:"target"`
	Options  Options        `json:"options"`
	Imputer  *ImputerState  `json:"imputer"`
	Outliers *OutlierReport `json:"outliers"`
	Encoder  *Encoder       `json:"encoder"`
	Scaler   *Scaler        `json:"scaler"`
	Features []string       `json:"features"`
	// Engineered lists the columns added by feature engineering.
	Engineered []string `json:"engineered"`
}

// Result is the output of Pipeline.Run.
type Result struct {
	// Table is the fully processed table before the split.
	Table     *dataset.Table
	Split     *Split
	Artifacts *Artifacts
	Missing   *MissingReport
	Steps     []string
}

// Pipeline runs the preprocessing stages in a fixed order.
type Pipeline struct {
	Options Options
	Log     *slog.Logger
}

// New returns a pipeline with the given options.
func New(opt Options, log *slog.Logger) *Pipeline {
	return &Pipeline{Options: opt, Log: logging.OrDefault(log)}
}

func shape(t *dataset.Table) string {
	return fmt.Sprintf("(%d, %d)", t.Rows(), t.Width())
}

// Run executes missing values, outliers, features, encoding, scaling and
// assembly. Options are validated before any stage touches the data.
func (p *Pipeline) Run(t *dataset.Table) (*Result, error) {
	if err := p.Options.Validate(); err != nil {
		return nil, err
	}
	log := logging.OrDefault(p.Log)
	res := &Result{Artifacts: &Artifacts{Target: p.Options.Target, Options: p.Options}}

	step1, imp, miss := HandleMissing(t, p.Options, log)
	res.Artifacts.Imputer = imp
	res.Missing = miss
	res.Steps = append(res.Steps, fmt.Sprintf("missing values handled: %s -> %s", shape(t), shape(step1)))

	step2, outliers, err := TreatOutliers(step1, p.Options.OutlierMethod, p.Options.Target, log)
	if err != nil {
		return nil, fmt.Errorf("outliers: %w", err)
	}
	res.Artifacts.Outliers = outliers
	res.Steps = append(res.Steps, fmt.Sprintf("outliers treated (%s)", p.Options.OutlierMethod))

	step3, added := EngineerFeatures(step2, p.Options, log)
	res.Artifacts.Engineered = added
	res.Steps = append(res.Steps, fmt.Sprintf("features engineered: %s -> %s", shape(step2), shape(step3)))

	step4, enc := Encode(step3, p.Options, log)
	res.Artifacts.Encoder = enc
	res.Steps = append(res.Steps, fmt.Sprintf("categorical encoding: %s -> %s", shape(step3), shape(step4)))

	step5, sc, err := Scale(step4, p.Options.ScalingMethod, p.Options, log)
	if err != nil {
		return nil, fmt.Errorf("scaling: %w", err)
	}
	res.Artifacts.Scaler = sc
	res.Steps = append(res.Steps, fmt.Sprintf("features scaled (%s)", p.Options.ScalingMethod))

	split, err := Assemble(step5, p.Options, log)
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}
	res.Table = step5
	res.Split = split
	res.Artifacts.Features = split.Features
	res.Steps = append(res.Steps, fmt.Sprintf("model-ready dataset: train (%d, %d), test (%d, %d)",
		split.XTrain.Rows(), split.XTrain.Width(), split.XTest.Rows(), split.XTest.Width()))
	return res, nil
}

// Apply replays fitted artifacts on new data: imputation, features,
// encoding and scaling. Outlier clipping is not replayed since its bounds
// belong to the fitting pass.
func (p *Pipeline) Apply(t *dataset.Table, a *Artifacts) (*dataset.Table, error) {
	if a == nil || a.Imputer == nil || a.Encoder == nil || a.Scaler == nil {
		return nil, fmt.Errorf("%w: incomplete artifacts", ErrInvalidConfig)
	}
	log := logging.OrDefault(p.Log)
	opt := a.Options
	out, _ := a.Imputer.Apply(t, log)
	out, _ = EngineerFeatures(out, opt, log)
	out = a.Encoder.Apply(out, log)
	out = a.Scaler.Apply(out, log)
	return out, nil
}

// SelectFeatures returns the artifact feature columns of t in fitted order.
// Features absent from t are reported as *MissingColumnError. Treatment
// features are computed from the target, so unlabelled rows cannot supply
// them.
func SelectFeatures(t *dataset.Table, a *Artifacts) (*dataset.Table, error) {
	for _, f := range a.Features {
		if t.Has(f) {
			continue
		}
		err := &MissingColumnError{Column: f}
		if targetDerived(f) && !t.Has(a.Options.Target) {
			return nil, fmt.Errorf("feature %q is derived from target %q, which the input lacks: %w", f, a.Options.Target, err)
		}
		return nil, err
	}
	return t.Select(a.Features...)
}

func targetDerived(name string) bool {
	return name == ColLongTreatment || name == ColTreatmentBand || strings.HasPrefix(name, ColTreatmentBand+"_")
}
