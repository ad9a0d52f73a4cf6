package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/medprep-cli/internal/prep"
	"github.com/KaramelBytes/medprep-cli/internal/run"
	"github.com/KaramelBytes/medprep-cli/internal/utils"
)

var (
	applyRun  string
	applyFull bool
)

var applyCmd = &cobra.Command{
	Use:   "apply <file>",
	Short: "Transform new records with the artifacts of a previous prepare run",
	Long: `Clean the input and replay the fitted imputer, feature engineering, encoder and
scaler of a saved run. Outlier clipping is not replayed. The feature columns of the
run are written to <file name>.transformed.csv in the run directory; --full keeps
every column instead.

Uzun_Tedavi and the Tedavi_Kategori dummies are computed from TedaviSuresi. Records
without that column cannot produce them, so feature selection fails; use --full to
write the transformed columns that could be computed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := activeConfig()
		if err != nil {
			return err
		}
		dir, err := resolveRunDir(c, applyRun)
		if err != nil {
			return err
		}
		r, err := run.LoadRun(dir)
		if err != nil {
			return err
		}
		if r.Artifacts == nil {
			return fmt.Errorf("run %s has no fitted artifacts", r.Name)
		}

		t, _, err := loadAndClean(c, args[0])
		if err != nil {
			return err
		}
		out, err := prep.New(r.Artifacts.Options, logger).Apply(t, r.Artifacts)
		if err != nil {
			return err
		}
		if !applyFull {
			if out, err = prep.SelectFeatures(out, r.Artifacts); err != nil {
				var missing *prep.MissingColumnError
				if errors.As(err, &missing) {
					return fmt.Errorf("%w (use --full to write every transformed column)", err)
				}
				return err
			}
		}
		name := utils.BaseName(args[0]) + ".transformed.csv"
		path, err := r.WriteTable(name, out)
		if err != nil {
			return err
		}
		r.AddStep(fmt.Sprintf("artifacts applied to %s: (%d, %d)", args[0], out.Rows(), out.Width()))
		if err := r.Save(); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		fmt.Printf("✓ Transformed %d rows with run %s -> %s\n", out.Rows(), r.Name, path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().StringVarP(&applyRun, "run", "r", "", "run directory or run name under the results dir (default: nearest run.json)")
	applyCmd.Flags().BoolVar(&applyFull, "full", false, "write every column, not only the model features")
}
