package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/medprep-cli/internal/run"
)

var listOutputs bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List preprocessing runs in the results directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := activeConfig()
		if err != nil {
			return err
		}
		root, err := defaultResultsDir(c)
		if err != nil {
			return err
		}
		runs, err := run.List(root)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("(no runs)")
			return nil
		}
		for _, r := range runs {
			fmt.Printf("- %s (%s): %s, %d steps, created %s\n",
				r.Name, shortID(r.ID), r.Source, len(r.Steps), r.CreatedAt.Format("2006-01-02 15:04"))
			if !listOutputs {
				continue
			}
			for _, n := range r.OutputNames() {
				o := r.Outputs[n]
				if o.Rows > 0 {
					fmt.Printf("    %s (%d x %d)\n", n, o.Rows, o.Cols)
				} else {
					fmt.Printf("    %s\n", n)
				}
			}
		}
		return nil
	},
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listOutputs, "outputs", false, "also list the files written by each run")
}
