package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/medprep-cli/internal/analysis"
	"github.com/KaramelBytes/medprep-cli/internal/plot"
	"github.com/KaramelBytes/medprep-cli/internal/utils"
)

var (
	edaOutput  string
	edaTables  bool
	edaNoPlots bool
	edaTopN    int
	edaCorrThr float64
	edaQuiet   bool
)

var edaCmd = &cobra.Command{
	Use:   "eda <files...>",
	Short: "Clean and analyze one or more CSV/TSV/XLSX files",
	Long: `Clean each input and print an exploratory report: missing data, the target
distribution, categorical frequencies, numeric summaries with correlations and
comma-separated list items. Globs are expanded. Charts are written to
<results-dir>/<file name>/plots unless --no-plots is set.

With a single input, --output names the report file. With several inputs it
names a directory receiving <file name>.eda_report.md per input.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := activeConfig()
		if err != nil {
			return err
		}
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		opt := analysis.DefaultOptions()
		opt.Target = c.TargetColumn
		if edaTopN > 0 {
			opt.TopN = edaTopN
		}
		if cmd.Flags().Changed("corr-threshold") {
			opt.CorrThreshold = edaCorrThr
		}

		total := len(files)
		for i, path := range files {
			if !edaQuiet && total > 1 {
				fmt.Fprintf(os.Stderr, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			t, _, err := loadAndClean(c, path)
			if err != nil {
				return err
			}
			rep := analysis.Analyze(filepath.Base(path), t, opt)
			md := rep.Markdown()

			switch {
			case edaOutput == "":
				fmt.Println(md)
			case total == 1:
				if err := utils.SafeWriteFile(edaOutput, []byte(md)); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				if !edaQuiet {
					fmt.Fprintf(os.Stderr, "✓ Report written to %s\n", edaOutput)
				}
			default:
				out := filepath.Join(edaOutput, utils.BaseName(path)+".eda_report.md")
				if err := utils.SafeWriteFile(out, []byte(md)); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				if !edaQuiet {
					fmt.Fprintf(os.Stderr, "✓ Report written to %s\n", out)
				}
			}
			if edaTables {
				fmt.Println(rep.Tables())
			}
			if edaNoPlots {
				continue
			}
			dir, err := runDirFor(c, path, "")
			if err != nil {
				return err
			}
			written := plot.WriteAll(filepath.Join(dir, dirPlots), t, rep, logger)
			if !edaQuiet {
				fmt.Fprintf(os.Stderr, "✓ %d charts written to %s\n", len(written), filepath.Join(dir, dirPlots))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(edaCmd)
	edaCmd.Flags().StringVarP(&edaOutput, "output", "o", "", "write the report to a file (or a directory with several inputs)")
	edaCmd.Flags().BoolVar(&edaTables, "tables", false, "also print console tables")
	edaCmd.Flags().BoolVar(&edaNoPlots, "no-plots", false, "skip chart rendering")
	edaCmd.Flags().IntVar(&edaTopN, "top", 10, "number of values in frequency tables")
	edaCmd.Flags().Float64Var(&edaCorrThr, "corr-threshold", 0.5, "report column pairs with |r| above this")
	edaCmd.Flags().BoolVarP(&edaQuiet, "quiet", "q", false, "suppress progress output")
}
