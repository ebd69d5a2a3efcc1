package report

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"verifyica/internal/engine"
	"verifyica/pkg/api"
	vstrings "verifyica/pkg/strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// summaryDurationPrecision bounds the duration shown in the summary table.
const summaryDurationPrecision = time.Millisecond

// emojiDisabled caches whether emoji display is disabled via environment
// variable. Check NO_EMOJI or VERIFYICA_NO_EMOJI.
var emojiDisabled = os.Getenv("NO_EMOJI") != "" || os.Getenv("VERIFYICA_NO_EMOJI") != ""

// stateIcon returns an icon for the given state, respecting NO_EMOJI.
func stateIcon(emoji, fallback string) string {
	if emojiDisabled {
		return fallback
	}
	return emoji
}

// ConsoleListener renders execution events for CLI consumption. In parallel
// mode the per-class lines are buffered and flushed when the class subtree
// terminates, so output from concurrently executing classes does not
// interleave.
type ConsoleListener struct {
	mu       sync.Mutex
	out      io.Writer
	verbose  bool
	parallel bool
	// buffers holds pending lines per class name while in parallel mode.
	buffers map[string][]string
}

// NewConsoleListener creates a console listener writing to out. Verbose
// enables per-container lines in addition to test method lines.
func NewConsoleListener(out io.Writer, verbose bool) *ConsoleListener {
	return &ConsoleListener{
		out:     out,
		verbose: verbose,
		buffers: make(map[string][]string),
	}
}

// SetParallelMode enables or disables per-class output buffering.
func (l *ConsoleListener) SetParallelMode(parallel bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.parallel = parallel
	if parallel {
		l.buffers = make(map[string][]string)
	}
}

// Started implements api.ExecutionListener.
func (l *ConsoleListener) Started(id api.UniqueID) {
	if !l.verbose {
		return
	}
	switch id.Last().Type {
	case api.SegmentClass:
		l.emit(id, fmt.Sprintf("%s %s", stateIcon("🎯", ">"), id.Last().Value))
	case api.SegmentArgument:
		l.emit(id, fmt.Sprintf("   %s argument[%s]", stateIcon("📦", "-"), id.Last().Value))
	}
}

// Skipped implements api.ExecutionListener.
func (l *ConsoleListener) Skipped(id api.UniqueID, reason string) {
	if id.Last().Type != api.SegmentMethod && !l.verbose {
		return
	}
	l.emit(id, fmt.Sprintf("   %s %s (%s)", stateIcon("⏭️", "~"), nodeLabel(id), reason))
}

// Finished implements api.ExecutionListener.
func (l *ConsoleListener) Finished(id api.UniqueID, result api.TestExecutionResult) {
	switch id.Last().Type {
	case api.SegmentMethod:
		l.emit(id, fmt.Sprintf("   %s %s", statusIcon(result.Status), nodeLabel(id)))
		if result.Status == api.StatusFailed && result.Err != nil {
			l.emit(id, fmt.Sprintf("      %s", text.FgRed.Sprint(result.Err.Error())))
		}
	case api.SegmentClass:
		if l.verbose {
			l.emit(id, fmt.Sprintf("%s %s done", stateIcon("🏁", "<"), id.Last().Value))
		}
		l.flushClass(id)
	}
}

// nodeLabel renders the class-relative part of a node identifier.
func nodeLabel(id api.UniqueID) string {
	label := ""
	for _, seg := range id {
		switch seg.Type {
		case api.SegmentArgument:
			label += "argument[" + seg.Value + "]/"
		case api.SegmentMethod:
			label += seg.Value
		}
	}
	if label == "" {
		return id.Last().Value
	}
	return label
}

func statusIcon(status api.TestExecutionStatus) string {
	switch status {
	case api.StatusSuccessful:
		return stateIcon("✅", "PASS")
	case api.StatusFailed:
		return stateIcon("❌", "FAIL")
	case api.StatusAborted:
		return stateIcon("⚠️", "ABRT")
	default:
		return "?"
	}
}

// emit writes a line, or buffers it in parallel mode until the owning class
// terminates.
func (l *ConsoleListener) emit(id api.UniqueID, line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	className := classOf(id)
	if l.parallel && className != "" {
		l.buffers[className] = append(l.buffers[className], line)
		return
	}
	fmt.Fprintln(l.out, line)
}

// flushClass writes the buffered lines of a terminated class.
func (l *ConsoleListener) flushClass(id api.UniqueID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	className := classOf(id)
	if !l.parallel || className == "" {
		return
	}
	for _, line := range l.buffers[className] {
		fmt.Fprintln(l.out, line)
	}
	delete(l.buffers, className)
}

func classOf(id api.UniqueID) string {
	for _, seg := range id {
		if seg.Type == api.SegmentClass {
			return seg.Value
		}
	}
	return ""
}

// PrintSummary renders the run summary table.
func PrintSummary(out io.Writer, summary *engine.Summary) {
	if summary.DiscoveryError != "" {
		fmt.Fprintf(out, "\n%s discovery failed: %s\n",
			stateIcon("💥", "ERROR"), text.FgRed.Sprint(summary.DiscoveryError))
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.AppendHeader(table.Row{"Classes", "Arguments", "Tests", "Passed", "Failed", "Aborted", "Skipped", "Duration"})
	tw.AppendRow(table.Row{
		summary.Classes,
		summary.Arguments,
		summary.TestsTotal,
		text.FgGreen.Sprintf("%d", summary.TestsPassed),
		colorCount(text.FgRed, summary.TestsFailed),
		colorCount(text.FgYellow, summary.TestsAborted),
		summary.TestsSkipped,
		summary.Duration.Round(summaryDurationPrecision),
	})
	fmt.Fprintln(out)
	tw.Render()

	if len(summary.Failures) > 0 {
		fmt.Fprintf(out, "\n%s Failures:\n", stateIcon("❌", "!"))
		for _, failure := range summary.Failures {
			message := vstrings.TruncateMessage(failure.Message, vstrings.DefaultMessageMaxLen)
			fmt.Fprintf(out, "   %s\n      %s\n", failure.ID, text.FgRed.Sprint(message))
		}
	}

	if summary.Passed() {
		fmt.Fprintf(out, "\n%s all tests passed\n", stateIcon("✅", "OK"))
	} else {
		fmt.Fprintf(out, "\n%s run failed\n", stateIcon("❌", "FAILED"))
	}
}

func colorCount(color text.Color, n int) any {
	if n == 0 {
		return n
	}
	return color.Sprintf("%d", n)
}
