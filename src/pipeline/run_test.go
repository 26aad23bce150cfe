package pipeline

import (
	"context"
	"errors"
	"testing"
)

// fakeRunner records every invocation and fails the commands it is told
// to fail. Steps are identified by argv[0].
type fakeRunner struct {
	calls []string
	fail  map[string]bool
}

func (f *fakeRunner) Run(ctx context.Context, argv []string) error {
	f.calls = append(f.calls, argv[0])
	if f.fail[argv[0]] {
		return errors.New("exit status 1")
	}
	return nil
}

// fakeProbe reports every tool available except the listed ones.
type fakeProbe struct {
	missing map[Tool]bool
}

func (f *fakeProbe) Available(ctx context.Context, tool Tool) bool {
	return !f.missing[tool]
}

func newRunner(fail map[string]bool, missing map[Tool]bool) (*Runner, *fakeRunner) {
	exec := &fakeRunner{fail: fail}
	return &Runner{Exec: exec, Probe: &fakeProbe{missing: missing}}, exec
}

func commandSteps(names ...string) []Step {
	steps := make([]Step, 0, len(names))
	for _, n := range names {
		steps = append(steps, Step{Name: n, Command: []string{n}})
	}
	return steps
}

func TestRunner_FailFastStopsAtFirstFailure(t *testing.T) {
	r, exec := newRunner(map[string]bool{"lint": true}, nil)
	steps := commandSteps("format", "lint", "test", "publish")

	results, ok := r.Run(context.Background(), steps, FailFast)

	if ok {
		t.Fatalf("expected overall failure")
	}
	if got := len(exec.calls); got != 2 {
		t.Fatalf("expected 2 commands to run, got %d: %v", got, exec.calls)
	}
	for _, c := range exec.calls {
		if c == "test" || c == "publish" {
			t.Fatalf("step %q ran after the failure", c)
		}
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[1].Outcome != Failed || results[1].Step != "lint" {
		t.Fatalf("unexpected failing result: %+v", results[1])
	}
}

func TestRunner_AggregateRunsEverySuiteOnce(t *testing.T) {
	r, exec := newRunner(map[string]bool{"native": true}, nil)
	steps := commandSteps("native", "wasm")

	results, ok := r.Run(context.Background(), steps, Aggregate)

	if ok {
		t.Fatalf("expected overall failure")
	}
	if len(results) != 2 {
		t.Fatalf("expected both suites to report, got %d results", len(results))
	}

	counts := map[string]int{}
	for _, c := range exec.calls {
		counts[c]++
	}
	for _, name := range []string{"native", "wasm"} {
		if counts[name] != 1 {
			t.Fatalf("suite %q ran %d times, want exactly once", name, counts[name])
		}
	}

	if results[0].Outcome != Failed {
		t.Fatalf("native suite should have failed: %+v", results[0])
	}
	if results[1].Outcome != Passed {
		t.Fatalf("wasm suite should still have run and passed: %+v", results[1])
	}
}

func TestRunner_OptionalStepSkippedWhenToolMissing(t *testing.T) {
	r, exec := newRunner(nil, map[Tool]bool{ToolWasmPack: true})
	steps := []Step{
		{Name: "test", Command: []string{"test"}},
		{Name: "test-wasm", Command: []string{"test-wasm"}, Optional: true, Tool: ToolWasmPack},
	}

	results, ok := r.Run(context.Background(), steps, FailFast)

	if !ok {
		t.Fatalf("a skipped optional step must not fail the run: %+v", results)
	}
	if results[1].Outcome != Skipped {
		t.Fatalf("expected skipped, got %s", results[1].Outcome)
	}
	for _, c := range exec.calls {
		if c == "test-wasm" {
			t.Fatalf("gated command ran despite missing tool")
		}
	}
}

func TestRunner_RequiredStepFailsWhenToolMissing(t *testing.T) {
	r, exec := newRunner(nil, map[Tool]bool{ToolCargoRelease: true})
	steps := []Step{
		{Name: "publish", Command: []string{"publish"}, Tool: ToolCargoRelease},
	}

	results, ok := r.Run(context.Background(), steps, FailFast)

	if ok {
		t.Fatalf("missing required tool must fail the run")
	}
	if results[0].Outcome != Failed {
		t.Fatalf("expected failed, got %s", results[0].Outcome)
	}
	if len(exec.calls) != 0 {
		t.Fatalf("command ran despite missing required tool")
	}
}

func TestRunner_ActionSteps(t *testing.T) {
	ran := 0
	steps := []Step{
		{Name: "gate", Action: func(ctx context.Context) error {
			ran++
			return nil
		}},
		{Name: "veto", Action: func(ctx context.Context) error {
			return errors.New("branch not allowed")
		}},
		{Name: "publish", Command: []string{"publish"}},
	}

	r, exec := newRunner(nil, nil)
	results, ok := r.Run(context.Background(), steps, FailFast)

	if ok {
		t.Fatalf("vetoed run reported success")
	}
	if ran != 1 {
		t.Fatalf("gate action ran %d times", ran)
	}
	if len(exec.calls) != 0 {
		t.Fatalf("publish ran after the guard veto")
	}
	if results[1].Message != "branch not allowed" {
		t.Fatalf("veto message lost: %+v", results[1])
	}
}

func TestRunner_Hooks(t *testing.T) {
	var started, reported []string
	r, _ := newRunner(nil, map[Tool]bool{ToolWasmPack: true})
	r.OnStart = func(s Step) { started = append(started, s.Name) }
	r.OnResult = func(res Result) { reported = append(reported, res.Step) }

	steps := []Step{
		{Name: "a", Command: []string{"a"}},
		{Name: "b", Command: []string{"b"}, Optional: true, Tool: ToolWasmPack},
	}
	r.Run(context.Background(), steps, FailFast)

	if len(started) != 1 || started[0] != "a" {
		t.Fatalf("OnStart should fire only for attempted steps, got %v", started)
	}
	if len(reported) != 2 {
		t.Fatalf("OnResult should fire for every step including skips, got %v", reported)
	}
}

func TestSucceeded(t *testing.T) {
	cases := []struct {
		name    string
		results []Result
		want    bool
	}{
		{"empty", nil, true},
		{"all passed", []Result{{Outcome: Passed}, {Outcome: Passed}}, true},
		{"skip does not fail", []Result{{Outcome: Passed}, {Outcome: Skipped}}, true},
		{"one failure", []Result{{Outcome: Passed}, {Outcome: Failed}}, false},
	}
	for _, tc := range cases {
		if got := Succeeded(tc.results); got != tc.want {
			t.Errorf("%s: Succeeded = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestParseTarget(t *testing.T) {
	cases := []struct {
		selector string
		want     Target
	}{
		{"", All},
		{"all", All},
		{"native", Native},
		{"wasm", Wasm},
		{"bogus", Unknown},
		{"Native", Unknown},
		{"ALL", Unknown},
	}
	for _, tc := range cases {
		if got := ParseTarget(tc.selector); got != tc.want {
			t.Errorf("ParseTarget(%q) = %s, want %s", tc.selector, got, tc.want)
		}
	}
}
