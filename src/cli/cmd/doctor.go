package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kestrelcove/shipway/src/output"
	"github.com/kestrelcove/shipway/src/pipeline"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Report availability of every tool the pipelines use",
	Long: `Probe the external tools and compilation targets the release and
test pipelines depend on, and report what is installed. Probing is
informational only; nothing is installed or modified.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	tools := pipeline.KnownTools()
	available := make([]bool, len(tools))

	// Probes are independent; run them concurrently. Pipeline step
	// execution stays sequential, this is presentation only.
	g, ctx := errgroup.WithContext(context.Background())
	for i, tool := range tools {
		i, tool := i, tool
		g.Go(func() error {
			probe := pipeline.NewPathProbe()
			available[i] = probe.Available(ctx, tool)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	color := output.UseColor()
	missing := 0
	fmt.Println()
	for i, tool := range tools {
		status, label := "success", "installed"
		if !available[i] {
			status, label = "skipped", "not installed"
			missing++
		}
		fmt.Printf("  %s %-24s%s\n", output.StatusIcon(status, color), tool, label)
	}

	if missing > 0 {
		fmt.Fprintf(os.Stdout, "\n%d tool(s) missing; gated steps will be skipped or fail per their policy\n", missing)
	}
	return nil
}
