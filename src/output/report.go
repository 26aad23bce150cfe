package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kestrelcove/shipway/src/pipeline"
)

// Reporter writes per-step progress lines and the final summary. Wire its
// methods into the executor hooks.
type Reporter struct {
	W     io.Writer
	Color bool
}

// StepStart announces a step before its command runs.
func (r *Reporter) StepStart(step pipeline.Step) {
	SectionStart(r.W, sectionID(step.Name), step.Name)
	label := fmt.Sprintf("── %s ", step.Name)
	if r.Color {
		// dim cyan for header
		fmt.Fprintf(r.W, "\n\033[2;36m%s%s%s\n", label, strings.Repeat("─", headerWidth(label)), colorReset)
	} else {
		fmt.Fprintf(r.W, "\n%s%s\n", label, strings.Repeat("─", headerWidth(label)))
	}
}

// sectionID makes a step name safe for GitLab section markers.
func sectionID(step string) string {
	return "shipway_" + strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, step)
}

// StepResult writes the outcome line for a step. Failures name the step
// explicitly so they are never swallowed into a generic message; skips
// render as warnings with their reason.
func (r *Reporter) StepResult(res pipeline.Result) {
	switch res.Outcome {
	case pipeline.Passed:
		fmt.Fprintf(r.W, "%s %s %s\n",
			StatusIcon("success", r.Color), res.Step, Dimmed(formatElapsed(res.Elapsed), r.Color))
	case pipeline.Skipped:
		fmt.Fprintf(r.W, "%s %s skipped: %s\n",
			StatusIcon("skipped", r.Color), res.Step, res.Message)
	case pipeline.Failed:
		msg := res.Message
		if msg == "" {
			msg = "failed"
		}
		if r.Color {
			fmt.Fprintf(r.W, "%s %s%s failed%s: %s\n",
				StatusIcon("failed", r.Color), colorRed+colorBold, res.Step, colorReset, msg)
		} else {
			fmt.Fprintf(r.W, "%s %s failed: %s\n",
				StatusIcon("failed", r.Color), res.Step, msg)
		}
	}
	SectionEnd(r.W, sectionID(res.Step))
}

// Summary renders the final per-step summary block with the overall
// status. Used by both pipelines; in aggregate test runs this is the
// per-suite Passed/Failed listing.
func (r *Reporter) Summary(title string, results []pipeline.Result, elapsed time.Duration) {
	label := fmt.Sprintf("── %s ", title)
	fmt.Fprintf(r.W, "\n%s%s\n", label, strings.Repeat("─", headerWidth(label)))

	var total time.Duration
	for _, res := range results {
		total += res.Elapsed
		icon := StatusIcon(iconFor(res.Outcome), r.Color)
		detail := strings.ToUpper(res.Outcome.String()[:1]) + res.Outcome.String()[1:]
		if res.Outcome != pipeline.Passed && res.Message != "" {
			detail = fmt.Sprintf("%s — %s", detail, firstLine(res.Message))
		}
		fmt.Fprintf(r.W, "  %-14s%s  %s\n", res.Step, icon, detail)
	}

	status := "failed"
	if pipeline.Succeeded(results) {
		status = "success"
	}
	if elapsed == 0 {
		elapsed = total
	}
	fmt.Fprintf(r.W, "  %-14s%s  %s\n", "total", StatusIcon(status, r.Color), formatElapsed(elapsed))
}

// StatusIcon returns a status icon, colored when enabled.
func StatusIcon(status string, color bool) string {
	var icon, c string
	switch status {
	case "success":
		icon, c = "✓", colorGreen
	case "failed":
		icon, c = "✗", colorRed
	default:
		icon, c = "⊘", colorYellow
	}
	if !color {
		return icon
	}
	return c + icon + colorReset
}

// Dimmed returns dimmed text if color is enabled.
func Dimmed(text string, color bool) string {
	if !color {
		return text
	}
	return colorGray + text + colorReset
}

func iconFor(o pipeline.Outcome) string {
	switch o {
	case pipeline.Passed:
		return "success"
	case pipeline.Failed:
		return "failed"
	default:
		return "skipped"
	}
}

const lineWidth = 61

func headerWidth(label string) int {
	fill := lineWidth - len([]rune(label))
	if fill < 1 {
		fill = 1
	}
	return fill
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// formatElapsed formats a duration for display.
func formatElapsed(d time.Duration) string {
	if d < time.Millisecond {
		return "<1ms"
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	mins := int(d.Minutes())
	secs := d.Seconds() - float64(mins*60)
	return fmt.Sprintf("%dm%.1fs", mins, secs)
}

// ContextBlock prints the pipeline context header as aligned key-value
// pairs, two per line.
func ContextBlock(w io.Writer, kv []KV) {
	if len(kv) == 0 {
		return
	}
	fmt.Fprintln(w)
	for i := 0; i < len(kv); i += 2 {
		if i+1 < len(kv) {
			fmt.Fprintf(w, "  %-10s%-18s%-10s%s\n",
				kv[i].Key, kv[i].Value, kv[i+1].Key, kv[i+1].Value)
		} else {
			fmt.Fprintf(w, "  %-10s%s\n", kv[i].Key, kv[i].Value)
		}
	}
}

// KV is a key-value pair for the context block.
type KV struct {
	Key   string
	Value string
}
