// Package plan defines the two fixed pipelines: the fail-fast release
// sequence and the native/wasm test suites. Step ordering here is the
// contract; the executor never reorders.
package plan

import (
	"fmt"

	"github.com/kestrelcove/shipway/src/config"
	"github.com/kestrelcove/shipway/src/guard"
	"github.com/kestrelcove/shipway/src/pipeline"
	"github.com/kestrelcove/shipway/src/scan"
)

// BrowserEnv selects the headless browser for the wasm test harness.
const BrowserEnv = "SHIPWAY_BROWSER"

const (
	BrowserChrome  = "chrome"
	BrowserFirefox = "firefox"
)

// Browser maps the env selector value to a browser name. Empty or
// unrecognized values fall back to chrome; ok is false on an
// unrecognized value so the caller can warn.
func Browser(value string) (name string, ok bool) {
	switch value {
	case "", BrowserChrome:
		return BrowserChrome, true
	case BrowserFirefox:
		return BrowserFirefox, true
	default:
		return BrowserChrome, false
	}
}

// Release builds the release pipeline step sequence. Run under
// pipeline.FailFast only: the publish step must never execute after a
// failure, and the guard must run after every quality gate.
func Release(cfg *config.Config, g *guard.Guard, vg *guard.VersionGate, sc *scan.SecretScanner, browser string) []pipeline.Step {
	steps := []pipeline.Step{
		{Name: "format", Command: cfg.Checks.Format},
		{Name: "lint", Command: cfg.Checks.Lint},
		{Name: "test", Command: cfg.Test.Native},
		{Name: "lint-wasm", Command: cfg.Checks.LintWasm, Optional: true, Tool: pipeline.ToolWasmTarget},
		{Name: "test-wasm", Command: wasmTestCommand(cfg, browser), Optional: true, Tool: pipeline.ToolWasmPack},
	}

	for _, ex := range cfg.Examples {
		steps = append(steps, pipeline.Step{
			Name:     "example:" + ex.Name,
			Command:  []string{"wasm-pack", "build", ex.Dir, "--target", "web"},
			Optional: true,
			Tool:     pipeline.ToolWasmPack,
		})
	}

	steps = append(steps,
		pipeline.Step{Name: "secrets", Action: sc.Check},
		pipeline.Step{Name: "version", Action: vg.Check},
		pipeline.Step{Name: "guard", Action: g.Check},
		pipeline.Step{Name: "publish", Command: cfg.Release.Command},
	)
	return steps
}

// TestSuites builds the test pipeline steps for a target. All yields both
// suites (run them under Aggregate); Native and Wasm yield that single
// suite (run under FailFast). Unknown yields nothing.
func TestSuites(cfg *config.Config, target pipeline.Target, browser string) []pipeline.Step {
	native := pipeline.Step{Name: "native", Command: cfg.Test.Native}
	wasm := pipeline.Step{
		Name:     "wasm",
		Command:  wasmTestCommand(cfg, browser),
		Optional: true,
		Tool:     pipeline.ToolWasmPack,
	}

	switch target {
	case pipeline.Native:
		return []pipeline.Step{native}
	case pipeline.Wasm:
		return []pipeline.Step{wasm}
	case pipeline.All:
		return []pipeline.Step{native, wasm}
	default:
		return nil
	}
}

// wasmTestCommand appends the headless browser flag to the configured
// wasm test command.
func wasmTestCommand(cfg *config.Config, browser string) []string {
	cmd := make([]string, 0, len(cfg.Test.Wasm)+1)
	cmd = append(cmd, cfg.Test.Wasm...)
	return append(cmd, fmt.Sprintf("--%s", browser))
}
