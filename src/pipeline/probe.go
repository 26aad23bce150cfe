package pipeline

import (
	"context"
	"os/exec"
	"strings"
)

// Tool identifies an external tool or compilation target the pipeline may
// depend on.
type Tool string

const (
	ToolCargo        Tool = "cargo"
	ToolGit          Tool = "git"
	ToolWasmPack     Tool = "wasm-pack"
	ToolCargoRelease Tool = "cargo-release"
	// ToolWasmTarget is the wasm32-unknown-unknown rustup target, probed
	// via rustup rather than PATH lookup.
	ToolWasmTarget Tool = "wasm32-unknown-unknown"
)

// KnownTools lists every tool the pipelines can reference, in display order.
func KnownTools() []Tool {
	return []Tool{ToolCargo, ToolGit, ToolWasmPack, ToolCargoRelease, ToolWasmTarget}
}

// ToolProbe reports whether a tool is installed. Absence is a normal
// outcome, never an error.
type ToolProbe interface {
	Available(ctx context.Context, tool Tool) bool
}

// PathProbe resolves tools against PATH, and the wasm target against the
// installed rustup target list. Results are cached for the process
// lifetime; tool sets don't change mid-run.
type PathProbe struct {
	cache map[Tool]bool
}

// NewPathProbe returns a probe with an empty cache.
func NewPathProbe() *PathProbe {
	return &PathProbe{cache: make(map[Tool]bool)}
}

func (p *PathProbe) Available(ctx context.Context, tool Tool) bool {
	if ok, hit := p.cache[tool]; hit {
		return ok
	}

	var ok bool
	switch tool {
	case ToolWasmTarget:
		ok = rustupTargetInstalled(ctx, string(tool))
	default:
		// cargo subcommands (cargo-release) install as plain binaries,
		// so PATH lookup covers every binary tool.
		_, err := exec.LookPath(string(tool))
		ok = err == nil
	}

	p.cache[tool] = ok
	return ok
}

// rustupTargetInstalled checks `rustup target list --installed` for the
// given triple. Any failure (rustup missing, command error) reads as
// not installed.
func rustupTargetInstalled(ctx context.Context, triple string) bool {
	out, err := exec.CommandContext(ctx, "rustup", "target", "list", "--installed").Output()
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.TrimSpace(line) == triple {
			return true
		}
	}
	return false
}
