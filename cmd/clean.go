package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/medprep-cli/internal/dataset"
)

var cleanOut string

var cleanCmd = &cobra.Command{
	Use:   "clean <file>",
	Short: "Extract embedded numbers, fill categorical gaps and count list items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := activeConfig()
		if err != nil {
			return err
		}
		t, rep, err := loadAndClean(c, args[0])
		if err != nil {
			return err
		}
		dir, err := runDirFor(c, args[0], cleanOut)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, fileCleaned)
		if err := dataset.WriteCSV(path, t); err != nil {
			return fmt.Errorf("write cleaned dataset: %w", err)
		}
		for _, n := range rep.Numeric {
			fmt.Printf("✓ %s: numbers extracted (%d unparsed)\n", n.Column, n.Unparsed)
		}
		for _, f := range rep.Categorical {
			fmt.Printf("✓ %s: %d filled, %d categories\n", f.Column, f.Filled, f.Unique)
		}
		for _, f := range rep.TextList {
			fmt.Printf("✓ %s: %d filled, %.2f items per row\n", f.Column, f.Filled, f.MeanItems)
		}
		for _, s := range rep.Skipped {
			fmt.Printf("⚠ %s: column not found, skipped\n", s)
		}
		fmt.Printf("✓ Cleaned dataset (%d rows, %d columns) written to %s\n", t.Rows(), t.Width(), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVarP(&cleanOut, "out", "o", "", "output directory (default <results-dir>/<file name>)")
}
