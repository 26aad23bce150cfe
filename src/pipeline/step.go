// Package pipeline implements the step orchestration core: typed steps,
// execution results, and a sequential executor with fail-fast and
// aggregate modes. It spawns nothing itself; external commands go through
// the CommandRunner and tool availability through the ToolProbe, both of
// which are injectable for tests.
package pipeline

import (
	"context"
	"time"
)

// Step is one named unit of orchestrated work. Exactly one of Command or
// Action is set: Command is an argv executed via the CommandRunner, Action
// runs in-process (guard checks, secret scan).
type Step struct {
	Name    string
	Command []string
	Action  func(ctx context.Context) error

	// Optional steps are skipped, never failed, when Tool is unavailable.
	Optional bool

	// Tool gates the step on probe availability. Empty means no gate.
	Tool Tool
}

// Outcome classifies a completed step.
type Outcome int

const (
	Passed Outcome = iota
	Failed
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Result records one step's outcome. Immutable once produced.
type Result struct {
	Step    string
	Outcome Outcome
	Message string
	Elapsed time.Duration
}

// Mode selects the executor policy.
type Mode int

const (
	// FailFast stops at the first failed step; remaining steps never run.
	FailFast Mode = iota
	// Aggregate runs every step regardless of prior failures and reports
	// the combined outcome.
	Aggregate
)

func (m Mode) String() string {
	if m == Aggregate {
		return "aggregate"
	}
	return "fail-fast"
}

// Succeeded reports whether a result list represents overall success:
// no failed outcomes among attempted steps. Skips do not count against
// success.
func Succeeded(results []Result) bool {
	for _, r := range results {
		if r.Outcome == Failed {
			return false
		}
	}
	return true
}
