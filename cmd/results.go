package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/KaramelBytes/medprep-cli/internal/clean"
	cfgpkg "github.com/KaramelBytes/medprep-cli/internal/config"
	"github.com/KaramelBytes/medprep-cli/internal/dataset"
	"github.com/KaramelBytes/medprep-cli/internal/utils"
)

// Output file names written into a run directory.
const (
	fileCleaned = "cleaned_dataset.csv"
	fileFull    = "full_preprocessed_data.csv"
	fileXTrain  = "X_train.csv"
	fileXTest   = "X_test.csv"
	fileYTrain  = "y_train.csv"
	fileYTest   = "y_test.csv"
	fileReport  = "eda_report.md"
	dirPlots    = "plots"
)

func defaultResultsDir(c *cfgpkg.Global) (string, error) {
	dir := filepath.Clean(utils.ExpandHome(c.ResultsDir))
	if err := utils.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("results dir: %w", err)
	}
	return dir, nil
}

// runDirFor returns <results>/<basename of input>, or override when set.
func runDirFor(c *cfgpkg.Global, input, override string) (string, error) {
	if override != "" {
		return filepath.Clean(utils.ExpandHome(override)), nil
	}
	root, err := defaultResultsDir(c)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, utils.BaseName(input)), nil
}

// resolveRunDir accepts either a run directory path or a run name under the
// results directory.
func resolveRunDir(c *cfgpkg.Global, ref string) (string, error) {
	if ref == "" {
		return utils.FindRunRoot("")
	}
	if info, err := os.Stat(ref); err == nil && info.IsDir() {
		return utils.FindRunRoot(ref)
	}
	root, err := defaultResultsDir(c)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, ref), nil
}

// loadAndClean reads an input file and runs the cleaning stage on it.
func loadAndClean(c *cfgpkg.Global, path string) (*dataset.Table, *clean.Report, error) {
	t, err := dataset.LoadFile(path, c.LoadOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	logger.Info("dataset loaded", "path", path, "rows", t.Rows(), "cols", t.Width())
	out, rep := clean.Run(t, c.Clean(), logger)
	return out, rep, nil
}

// expandInputs resolves globs, keeps literal paths that exist and drops duplicates.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}
