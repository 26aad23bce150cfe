package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kestrelcove/shipway/src/guard"
	"github.com/kestrelcove/shipway/src/output"
	"github.com/kestrelcove/shipway/src/pipeline"
	"github.com/kestrelcove/shipway/src/plan"
	"github.com/kestrelcove/shipway/src/scan"
)

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Run the full release pipeline",
	Long: `Run every quality gate in order and publish the crate.

Steps run fail-fast: formatting, native lint and tests, wasm lint and
tests (skipped when the toolchain is absent), example builds, secret
scan, version gate, and the version-control guard. The publish action
only executes if everything before it passed.`,
	Args: cobra.NoArgs,
	RunE: runRelease,
}

func init() {
	rootCmd.AddCommand(releaseCmd)
}

func runRelease(cmd *cobra.Command, args []string) error {
	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	browser, known := plan.Browser(os.Getenv(plan.BrowserEnv))
	if !known {
		fmt.Fprintf(os.Stderr, "warning: unrecognized %s=%q, using %s\n",
			plan.BrowserEnv, os.Getenv(plan.BrowserEnv), browser)
	}

	probe := pipeline.NewPathProbe()
	g := &guard.Guard{
		RootDir:       rootDir,
		Branches:      cfg.Guard.Branches,
		AutoCommit:    cfg.Guard.AutoCommit,
		CommitMessage: cfg.Guard.CommitMessage,
		Probe:         probe,
		ReleaseTool:   pipeline.Tool(cfg.Release.Tool),
	}
	vg := &guard.VersionGate{RootDir: rootDir}
	sc := &scan.SecretScanner{RootDir: rootDir}

	steps := plan.Release(cfg, g, vg, sc, browser)

	color := output.UseColor()
	rep := &output.Reporter{W: os.Stdout, Color: color}

	kv := []output.KV{
		{Key: "pipeline", Value: "release"},
		{Key: "mode", Value: pipeline.FailFast.String()},
		{Key: "browser", Value: browser},
		{Key: "steps", Value: fmt.Sprintf("%d", len(steps))},
	}
	if state, err := g.State(); err == nil {
		kv = append(kv, output.KV{Key: "branch", Value: state.Branch})
	}
	output.ContextBlock(os.Stdout, kv)

	runner := &pipeline.Runner{
		Exec:     &pipeline.ExecRunner{Dir: rootDir},
		Probe:    probe,
		OnStart:  rep.StepStart,
		OnResult: rep.StepResult,
	}

	start := time.Now()
	results, ok := runner.Run(context.Background(), steps, pipeline.FailFast)
	rep.Summary("Release", results, time.Since(start))

	if !ok {
		return fmt.Errorf("release aborted: %s failed", lastFailure(results))
	}
	return nil
}

// lastFailure names the failed step in a result list.
func lastFailure(results []pipeline.Result) string {
	for i := len(results) - 1; i >= 0; i-- {
		if results[i].Outcome == pipeline.Failed {
			return results[i].Step
		}
	}
	return "a step"
}
