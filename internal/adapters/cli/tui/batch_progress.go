package tui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/devbush/vid2audio/internal/domain"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

const (
	progressBarWidth = 20
	recentResults    = 10
	maxErrorLen      = 160
)

// renderProgressBar creates a text progress bar like [=====>    ]
// current=0, total=10, width=10 → [          ]
// current=5, total=10, width=10 → [=====>    ]
// current=10, total=10, width=10 → [==========]
// current=3, total=10, width=10 → [==>       ]
func renderProgressBar(current, total, width int) string {
	if total <= 0 {
		return "[" + strings.Repeat(" ", width) + "]"
	}

	var bar strings.Builder
	bar.WriteString("[")

	switch {
	case current >= total:
		bar.WriteString(strings.Repeat("=", width))
	case current <= 0:
		bar.WriteString(strings.Repeat(" ", width))
	default:
		// Arrow marks the head; from halfway on it sits after the filled part
		ratio := float64(current) / float64(total)
		arrowPos := int(ratio*float64(width) + 0.5)
		if arrowPos < 1 {
			arrowPos = 1
		}
		if arrowPos > width {
			arrowPos = width
		}

		equals := arrowPos - 1
		if ratio >= 0.5 {
			equals = arrowPos
		}
		if equals > width-1 {
			equals = width - 1
		}

		bar.WriteString(strings.Repeat("=", equals))
		bar.WriteString(">")
		bar.WriteString(strings.Repeat(" ", width-equals-1))
	}

	bar.WriteString("]")
	return bar.String()
}

// ProgressMode selects how batch progress is drawn
type ProgressMode int

const (
	// ProgressRedraw redraws the bar and recent results in place (terminals)
	ProgressRedraw ProgressMode = iota
	// ProgressLines prints one line per finished file
	ProgressLines
	// ProgressQuiet prints nothing
	ProgressQuiet
)

// BatchResult is the display form of one finished conversion
type BatchResult struct {
	Name     string
	Success  bool
	ErrMsg   string
	Duration time.Duration
}

// Summary describes a finished batch
type Summary struct {
	Succeeded  int
	Failed     int
	Skipped    int
	Elapsed    time.Duration
	OutputDir  string
	OutputSize int64
}

// BatchProgress manages batch conversion progress display
type BatchProgress struct {
	out       io.Writer
	root      string
	mode      ProgressMode
	total     int
	completed int
	results   []BatchResult
	failures  []BatchResult
	mu        sync.Mutex
	drawn     int // lines drawn by the last redraw
}

// NewBatchProgress creates a new batch progress display. File names are
// shown relative to root.
func NewBatchProgress(out io.Writer, root string, total int, mode ProgressMode) *BatchProgress {
	if total < 0 {
		total = 0
	}
	return &BatchProgress{
		out:   out,
		root:  root,
		mode:  mode,
		total: total,
	}
}

// Update records a finished file. Its signature matches application.ProgressFunc.
func (bp *BatchProgress) Update(completed, total int, outcome domain.ConversionOutcome) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	result := BatchResult{
		Name:     bp.displayName(outcome.Source),
		Success:  outcome.Succeeded(),
		Duration: outcome.Duration,
	}
	if !result.Success {
		result.ErrMsg = ShortError(outcome.Err)
		bp.failures = append(bp.failures, result)
	}

	bp.results = append(bp.results, result)
	if len(bp.results) > recentResults {
		bp.results = bp.results[len(bp.results)-recentResults:]
	}
	bp.completed = completed
	bp.total = total

	switch bp.mode {
	case ProgressRedraw:
		bp.redraw()
	case ProgressLines:
		fmt.Fprintf(bp.out, "[%d/%d] %s\n", bp.completed, bp.total, resultLine(result))
	}
}

func (bp *BatchProgress) displayName(source string) string {
	if bp.root != "" {
		if rel, err := filepath.Rel(bp.root, source); err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
	}
	return filepath.Base(source)
}

func resultLine(r BatchResult) string {
	if r.Success {
		return fmt.Sprintf("✓ %s (%s)", r.Name, FormatDuration(r.Duration))
	}
	return fmt.Sprintf("✗ %s: %s", r.Name, r.ErrMsg)
}

func (bp *BatchProgress) redraw() {
	if bp.drawn > 0 {
		// Move cursor up and clear
		fmt.Fprintf(bp.out, "\033[%dA\033[J", bp.drawn)
	}

	percent := 0
	if bp.total > 0 {
		percent = (bp.completed * 100) / bp.total
	}
	fmt.Fprintf(bp.out, "Converting %d/%d files %s %d%%\n",
		bp.completed, bp.total, renderProgressBar(bp.completed, bp.total, progressBarWidth), percent)

	for _, r := range bp.results {
		fmt.Fprintln(bp.out, resultLine(r))
	}

	bp.drawn = 1 + len(bp.results)
}

// Complete prints the final summary and a table of failures
func (bp *BatchProgress) Complete(s Summary) {
	if bp.mode == ProgressQuiet {
		return
	}

	bp.mu.Lock()
	failures := make([]BatchResult, len(bp.failures))
	copy(failures, bp.failures)
	bp.mu.Unlock()

	fmt.Fprintln(bp.out)
	line := fmt.Sprintf("%d converted, %d failed", s.Succeeded, s.Failed)
	if s.Skipped > 0 {
		line += fmt.Sprintf(", %d skipped", s.Skipped)
	}
	line += " in " + FormatDuration(s.Elapsed)

	if s.Failed == 0 {
		fmt.Fprintln(bp.out, successStyle.Render("✓ Done: "+line))
	} else {
		fmt.Fprintln(bp.out, failureStyle.Render("✗ Finished with errors: "+line))
	}
	if s.OutputDir != "" {
		fmt.Fprintf(bp.out, "  Output: %s (%s)\n", s.OutputDir, FormatSize(s.OutputSize))
	}

	if len(failures) > 0 {
		rows := make([][]string, 0, len(failures))
		for _, f := range failures {
			rows = append(rows, []string{f.Name, f.ErrMsg})
		}
		fmt.Fprintln(bp.out, "\nFailures:")
		fmt.Fprintln(bp.out, RenderTable([]string{"File", "Error"}, rows))
	}
}

// SuccessCount returns the number of successful results
func (bp *BatchProgress) SuccessCount() int {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return bp.completed - len(bp.failures)
}

// FailureCount returns the number of failed results
func (bp *BatchProgress) FailureCount() int {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return len(bp.failures)
}

// ShortError returns the first line of err, truncated for display
func ShortError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.TrimSpace(err.Error())
	if idx := strings.IndexByte(msg, '\n'); idx >= 0 {
		msg = strings.TrimSpace(msg[:idx]) + " …"
	}
	if len(msg) > maxErrorLen {
		msg = msg[:maxErrorLen-3] + "..."
	}
	return msg
}
