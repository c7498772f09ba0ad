// Command ludtwig lints and auto-formats hybrid Twig/HTML templates.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/juju/loggo"
	"github.com/spf13/cobra"

	"github.com/ludtwig-go/ludtwig"
)

var logger = loggo.GetLogger("ludtwig.cli")

var (
	flagNoAnalysis    bool
	flagNoWriting     bool
	flagOutputPath    string
	flagConfigPath    string
	flagCreateConfig  bool
	flagFix           bool
	flagFailOnWarning bool
	flagConcurrency   int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "ludtwig [flags] path...",
	Short: "Lint and auto-format hybrid Twig/HTML templates",
	Long: `ludtwig parses ".twig" files into a lossless syntax tree, runs a
registry of lint rules over it, and can apply each rule's suggested fixes
back onto the original source.`,
	Args: cobra.ArbitraryArgs,
	RunE: run,
}

func init() {
	f := rootCmd.Flags()
	f.BoolVarP(&flagNoAnalysis, "no-analysis", "A", false, "parse only, skip rule checks")
	f.BoolVarP(&flagNoWriting, "no-writing", "W", false, "lint only, never write fixes")
	f.StringVarP(&flagOutputPath, "output-path", "o", "", "output directory; accepted but not used: fixes are always written back to the input files")
	f.StringVarP(&flagConfigPath, "config-path", "c", "ludtwig.toml", "path to the TOML config file")
	f.BoolVarP(&flagCreateConfig, "create-config", "C", false, "write the default config to --config-path and exit")
	f.BoolVar(&flagFix, "fix", false, "apply suggested fixes")
	f.BoolVar(&flagFailOnWarning, "fail-on-warnings", false, "exit 1 if any warning is emitted, not only errors")
	f.IntVar(&flagConcurrency, "concurrency", 4, "number of files to process at once")
}

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func exitCodeFor(err error) int {
	if ee, ok := err.(*exitError); ok {
		return ee.code
	}
	return 3
}

func run(cmd *cobra.Command, args []string) error {
	if flagCreateConfig {
		return writeDefaultConfig(flagConfigPath)
	}
	if len(args) == 0 {
		return &exitError{2, fmt.Errorf("no files or directories given")}
	}

	cfg := ludtwig.DefaultConfig()
	if _, err := os.Stat(flagConfigPath); err == nil {
		loaded, err := ludtwig.LoadConfig(flagConfigPath)
		if err != nil {
			return &exitError{2, err}
		}
		cfg = loaded
	}

	files, err := ludtwig.CollectFiles(args)
	if err != nil {
		return &exitError{3, err}
	}
	if flagNoAnalysis {
		return parseOnly(files)
	}

	minSeverity := ludtwig.SeverityError
	if flagFailOnWarning {
		minSeverity = ludtwig.SeverityWarning
	}

	results := ludtwig.Run(context.Background(), files, ludtwig.RunOptions{
		Concurrency: flagConcurrency,
		Fix:         flagFix && !flagNoWriting,
		MinSeverity: ludtwig.SeverityWarning,
		Config:      cfg,
	})

	worst := ludtwig.Severity(0)
	sawAny := false
	internalErr := false
	for res := range results {
		if res.Err != nil {
			logger.Errorf("%s: %v", res.Path, res.Err)
			internalErr = true
			continue
		}
		if len(res.Diagnostics) == 0 {
			continue
		}
		source, _ := os.ReadFile(res.Path)
		ludtwig.RenderDiagnostics(cmd.OutOrStdout(), res.Path, string(source), res.Diagnostics)
		if sev, ok := ludtwig.WorstSeverity(res.Diagnostics); ok {
			sawAny = true
			if sev > worst {
				worst = sev
			}
		}
	}

	if internalErr {
		return &exitError{3, fmt.Errorf("one or more files failed internally")}
	}
	if sawAny && (worst == ludtwig.SeverityError || (flagFailOnWarning && worst >= minSeverity)) {
		return &exitError{1, fmt.Errorf("diagnostics emitted")}
	}
	return nil
}

func parseOnly(files []string) error {
	for _, path := range files {
		source, err := os.ReadFile(path)
		if err != nil {
			return &exitError{3, err}
		}
		tree := ludtwig.Parse(string(source))
		if len(tree.Diags) > 0 {
			ludtwig.RenderDiagnostics(os.Stdout, path, string(source), tree.Diags)
		}
	}
	return nil
}

func writeDefaultConfig(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return &exitError{3, err}
	}
	defer f.Close()
	enc := toml.NewEncoder(f)
	if err := enc.Encode(ludtwig.DefaultConfig()); err != nil {
		return &exitError{3, err}
	}
	return nil
}
