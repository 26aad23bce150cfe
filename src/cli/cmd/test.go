package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kestrelcove/shipway/src/output"
	"github.com/kestrelcove/shipway/src/pipeline"
	"github.com/kestrelcove/shipway/src/plan"
)

var testCmd = &cobra.Command{
	Use:   "test [all|native|wasm]",
	Short: "Run the test suites",
	Long: `Run the crate's test suites.

With "native" or "wasm", only that suite runs and the exit status is
its result. With "all" (or no argument), both suites run regardless of
individual failures and a summary reports each suite's status; the
exit status is zero only if every attempted suite passed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	selector := ""
	if len(args) > 0 {
		selector = args[0]
	}

	target := pipeline.ParseTarget(selector)
	if target == pipeline.Unknown {
		return fmt.Errorf("unknown target %q (expected all, native, or wasm)", selector)
	}

	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	browser, known := plan.Browser(os.Getenv(plan.BrowserEnv))
	if !known {
		fmt.Fprintf(os.Stderr, "warning: unrecognized %s=%q, using %s\n",
			plan.BrowserEnv, os.Getenv(plan.BrowserEnv), browser)
	}

	mode := pipeline.FailFast
	if target == pipeline.All {
		mode = pipeline.Aggregate
	}
	steps := plan.TestSuites(cfg, target, browser)

	color := output.UseColor()
	rep := &output.Reporter{W: os.Stdout, Color: color}

	output.ContextBlock(os.Stdout, []output.KV{
		{Key: "pipeline", Value: "test"},
		{Key: "mode", Value: mode.String()},
		{Key: "target", Value: target.String()},
		{Key: "browser", Value: browser},
	})

	runner := &pipeline.Runner{
		Exec:     &pipeline.ExecRunner{Dir: rootDir},
		Probe:    pipeline.NewPathProbe(),
		OnStart:  rep.StepStart,
		OnResult: rep.StepResult,
	}

	start := time.Now()
	results, ok := runner.Run(context.Background(), steps, mode)
	rep.Summary("Tests", results, time.Since(start))

	if !ok {
		return fmt.Errorf("failed: %s", strings.Join(failedSteps(results), ", "))
	}
	return nil
}

func failedSteps(results []pipeline.Result) []string {
	var names []string
	for _, r := range results {
		if r.Outcome == pipeline.Failed {
			names = append(names, r.Step)
		}
	}
	return names
}
