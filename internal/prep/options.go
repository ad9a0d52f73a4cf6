package prep

import (
	"fmt"
	"strings"
)

// OutlierMethod selects how outlier bounds are computed.
type OutlierMethod string

const (
	OutlierIQR    OutlierMethod = "iqr"
	OutlierZScore OutlierMethod = "zscore"
)

// ScalingMethod selects the numeric rescaling.
type ScalingMethod string

const (
	ScaleStandard ScalingMethod = "standard"
	ScaleMinMax   ScalingMethod = "minmax"
)

// Options configures every preprocessing stage.
type Options struct {
	Target     string `json:"target"`
	Identifier string `json:"identifier"`
	// AgeColumn drives the age-derived features.
	AgeColumn       string        `json:"age_column"`
	HealthColumns   []string      `json:"health_columns"`
	KNNNeighbors    int           `json:"knn_neighbors"`
	OutlierMethod   OutlierMethod `json:"outlier_method"`
	ScalingMethod   ScalingMethod `json:"scaling_method"`
	TestSize        float64       `json:"test_size"`
	RandomSeed      int64         `json:"random_seed"`
	ExcludePatterns []string      `json:"exclude_patterns"`
	// EncodeTextLists also encodes comma-separated list columns.
	EncodeTextLists bool `json:"encode_text_lists"`
}

// DefaultOptions returns the settings used for the treatment dataset.
func DefaultOptions() Options {
	return Options{
		Target:          "TedaviSuresi",
		Identifier:      "HastaNo",
		AgeColumn:       "Yas",
		HealthColumns:   []string{"KronikHastalik", "Alerji", "Tanilar"},
		KNNNeighbors:    5,
		OutlierMethod:   OutlierIQR,
		ScalingMethod:   ScaleStandard,
		TestSize:        0.2,
		RandomSeed:      42,
		ExcludePatterns: []string{"HastaNo", "Unnamed"},
		EncodeTextLists: true,
	}
}

// Validate checks method names and numeric ranges.
func (o Options) Validate() error {
	if err := o.OutlierMethod.validate(); err != nil {
		return err
	}
	if err := o.ScalingMethod.validate(); err != nil {
		return err
	}
	if o.TestSize <= 0 || o.TestSize >= 1 {
		return fmt.Errorf("%w: test size %v must be in (0, 1)", ErrInvalidConfig, o.TestSize)
	}
	if o.KNNNeighbors < 1 {
		return fmt.Errorf("%w: knn neighbors %d must be >= 1", ErrInvalidConfig, o.KNNNeighbors)
	}
	if strings.TrimSpace(o.Target) == "" {
		return fmt.Errorf("%w: target column not set", ErrInvalidConfig)
	}
	return nil
}

func (m OutlierMethod) validate() error {
	switch m {
	case OutlierIQR, OutlierZScore:
		return nil
	}
	return fmt.Errorf("%w: outlier method %q (want iqr or zscore)", ErrInvalidConfig, string(m))
}

func (m ScalingMethod) validate() error {
	switch m {
	case ScaleStandard, ScaleMinMax:
		return nil
	}
	return fmt.Errorf("%w: scaling method %q (want standard or minmax)", ErrInvalidConfig, string(m))
}
