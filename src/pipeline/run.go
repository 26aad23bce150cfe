package pipeline

import (
	"context"
	"fmt"
	"time"
)

// Runner executes step sequences. Exec and Probe are required; the hooks
// are optional and exist so presentation lives outside the executor.
type Runner struct {
	Exec  CommandRunner
	Probe ToolProbe

	// OnStart fires before a step is attempted (not for skipped steps).
	OnStart func(step Step)
	// OnResult fires after every step, including skips.
	OnResult func(res Result)
}

// Run executes steps in order under the given mode and returns every
// produced result plus overall success. Steps never run concurrently and
// never out of order; in FailFast mode no step runs after the first
// failure.
func (r *Runner) Run(ctx context.Context, steps []Step, mode Mode) ([]Result, bool) {
	results := make([]Result, 0, len(steps))

	for _, step := range steps {
		res := r.runStep(ctx, step)
		results = append(results, res)
		if r.OnResult != nil {
			r.OnResult(res)
		}

		if mode == FailFast && res.Outcome == Failed {
			break
		}
	}

	return results, Succeeded(results)
}

func (r *Runner) runStep(ctx context.Context, step Step) Result {
	if step.Tool != "" && !r.Probe.Available(ctx, step.Tool) {
		if step.Optional {
			return Result{
				Step:    step.Name,
				Outcome: Skipped,
				Message: fmt.Sprintf("%s not installed", step.Tool),
			}
		}
		// Missing tool on a required step is a failure, same as a
		// non-zero exit would be.
		return Result{
			Step:    step.Name,
			Outcome: Failed,
			Message: fmt.Sprintf("required tool %s not installed", step.Tool),
		}
	}

	if r.OnStart != nil {
		r.OnStart(step)
	}

	start := time.Now()
	var err error
	switch {
	case step.Action != nil:
		err = step.Action(ctx)
	default:
		err = r.Exec.Run(ctx, step.Command)
	}
	elapsed := time.Since(start)

	if err != nil {
		return Result{Step: step.Name, Outcome: Failed, Message: err.Error(), Elapsed: elapsed}
	}
	return Result{Step: step.Name, Outcome: Passed, Elapsed: elapsed}
}
