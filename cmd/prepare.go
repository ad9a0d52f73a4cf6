package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/medprep-cli/internal/dataset"
	"github.com/KaramelBytes/medprep-cli/internal/prep"
	"github.com/KaramelBytes/medprep-cli/internal/run"
	"github.com/KaramelBytes/medprep-cli/internal/utils"
)

var (
	prepScaling  string
	prepOutliers string
	prepTestSize float64
	prepSeed     int64
	prepOut      string
	prepName     string
)

var prepareCmd = &cobra.Command{
	Use:   "prepare <file>",
	Short: "Clean and preprocess a file into train/test datasets",
	Long: `Run the cleaning stage and the full preprocessing pipeline: KNN imputation,
outlier treatment, feature engineering, categorical encoding, scaling and a seeded
train/test split. Writes cleaned_dataset.csv, full_preprocessed_data.csv,
X_train.csv, X_test.csv, y_train.csv, y_test.csv and run.json.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := activeConfig()
		if err != nil {
			return err
		}
		opt := c.Prep()
		f := cmd.Flags()
		if f.Changed("scaling") {
			opt.ScalingMethod = prep.ScalingMethod(prepScaling)
		}
		if f.Changed("outliers") {
			opt.OutlierMethod = prep.OutlierMethod(prepOutliers)
		}
		if f.Changed("test-size") {
			opt.TestSize = prepTestSize
		}
		if f.Changed("seed") {
			opt.RandomSeed = prepSeed
		}
		// Reject bad overrides before reading the file.
		if err := opt.Validate(); err != nil {
			return err
		}

		input := args[0]
		t, _, err := loadAndClean(c, input)
		if err != nil {
			return err
		}
		dir, err := runDirFor(c, input, prepOut)
		if err != nil {
			return err
		}
		name := prepName
		if name == "" {
			name = utils.BaseName(input)
		}
		abs, _ := filepath.Abs(input)
		r := run.NewRun(name, abs, dir)
		if snap, err := c.Map(); err == nil {
			r.Config = snap
		}

		if _, err := r.WriteTable(fileCleaned, t); err != nil {
			return err
		}
		r.AddStep(fmt.Sprintf("dataset cleaned: (%d, %d)", t.Rows(), t.Width()))

		res, err := prep.New(opt, logger).Run(t)
		if err != nil {
			return err
		}
		for _, s := range res.Steps {
			r.AddStep(s)
		}
		r.Artifacts = res.Artifacts

		outputs := []struct {
			name  string
			table *dataset.Table
		}{
			{fileFull, res.Table},
			{fileXTrain, res.Split.XTrain},
			{fileXTest, res.Split.XTest},
			{fileYTrain, res.Split.YTrain},
			{fileYTest, res.Split.YTest},
		}
		for _, o := range outputs {
			if _, err := r.WriteTable(o.name, o.table); err != nil {
				return err
			}
		}
		if err := r.Save(); err != nil {
			return fmt.Errorf("save run: %w", err)
		}

		for _, s := range r.Steps {
			fmt.Printf("✓ %s\n", s)
		}
		fmt.Printf("✓ %d features; outputs written to %s\n", len(res.Split.Features), dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(prepareCmd)
	prepareCmd.Flags().StringVar(&prepScaling, "scaling", "", "scaling method: standard or minmax (overrides config)")
	prepareCmd.Flags().StringVar(&prepOutliers, "outliers", "", "outlier method: iqr or zscore (overrides config)")
	prepareCmd.Flags().Float64Var(&prepTestSize, "test-size", 0, "test fraction in (0, 1) (overrides config)")
	prepareCmd.Flags().Int64Var(&prepSeed, "seed", 0, "random seed for the split (overrides config)")
	prepareCmd.Flags().StringVarP(&prepOut, "out", "o", "", "output directory (default <results-dir>/<file name>)")
	prepareCmd.Flags().StringVarP(&prepName, "name", "n", "", "run name (default: input file name)")
}
