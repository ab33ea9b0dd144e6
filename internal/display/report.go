package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harrison/fixcheck/internal/models"
	"github.com/harrison/fixcheck/internal/verifier"
)

const (
	passMark   = "✅"
	failMark   = "❌"
	bannerChar = "="
	bannerSize = 60
)

// Reporter writes the check-by-check report of a run
type Reporter struct {
	out         io.Writer
	colorOutput bool
	pass        *color.Color
	fail        *color.Color
	label       *color.Color
}

// NewReporter creates a Reporter that writes to out.
// Color output is enabled when out is a terminal and NO_COLOR is unset.
func NewReporter(out io.Writer) *Reporter {
	r := &Reporter{
		out:   out,
		pass:  color.New(color.FgGreen),
		fail:  color.New(color.FgRed),
		label: color.New(color.FgCyan, color.Bold),
	}
	r.SetColor(isTerminal(out))
	return r
}

// SetColor forces color output on or off
func (r *Reporter) SetColor(enabled bool) {
	r.colorOutput = enabled
	for _, c := range []*color.Color{r.pass, r.fail, r.label} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

// isTerminal reports whether w is a file attached to a TTY
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Banner returns the separator line used around titles and summaries
func Banner() string {
	return strings.Repeat(bannerChar, bannerSize)
}

// Header prints the banner-wrapped title followed by the intro line.
// Empty title or intro are skipped.
func (r *Reporter) Header(title, intro string) {
	if title != "" {
		fmt.Fprintln(r.out, Banner())
		fmt.Fprintln(r.out, r.label.Sprint(title))
		fmt.Fprintln(r.out, Banner())
	}
	if intro != "" {
		fmt.Fprintln(r.out, intro)
	}
}

// Outcome prints one check line
func (r *Reporter) Outcome(o models.Outcome) {
	if o.Passed {
		fmt.Fprintf(r.out, "%s %s\n", passMark, r.pass.Sprint(o.Message))
		return
	}
	fmt.Fprintf(r.out, "%s %s\n", failMark, r.fail.Sprint(o.Message))
}

// Summary prints the closing banner with the overall verdict
func (r *Reporter) Summary(result *models.Result, m *models.Manifest) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, Banner())

	if result.Passed {
		success := m.Success
		if success == "" {
			success = fmt.Sprintf("SUCCESS: all %d checks passed", len(result.Outcomes))
		}
		fmt.Fprintln(r.out, r.pass.Sprint(success))
		if len(m.Highlights) > 0 {
			if m.HighlightsTitle != "" {
				fmt.Fprintf(r.out, "%s %s\n", passMark, m.HighlightsTitle)
			}
			for _, h := range m.Highlights {
				fmt.Fprintf(r.out, "   - %s\n", h)
			}
		}
	} else {
		failure := m.Failure
		if failure == "" {
			failure = fmt.Sprintf("FAILED: %d of %d checks failed",
				len(result.Outcomes)-result.PassedCount(), len(result.Outcomes))
		}
		fmt.Fprintf(r.out, "%s %s\n", failMark, r.fail.Sprint(failure))
	}

	fmt.Fprintln(r.out, Banner())
}

// Report prints the full report of a completed run
func (r *Reporter) Report(result *models.Result, m *models.Manifest) {
	r.Header(m.Title, m.Intro)
	for _, o := range result.Outcomes {
		r.Outcome(o)
	}
	r.Summary(result, m)
}

// FileError prints the single line shown when the target could not be read
func (r *Reporter) FileError(err error) {
	fe, ok := verifier.IsFileError(err)
	if !ok {
		fmt.Fprintf(r.out, "%s %s\n", failMark, r.fail.Sprint(err.Error()))
		return
	}

	var msg string
	switch fe.Kind {
	case verifier.KindNotFound:
		msg = fmt.Sprintf("File not found: %s", fe.Path)
	case verifier.KindDecode:
		msg = fmt.Sprintf("File is not valid UTF-8 text: %s", fe.Path)
	default:
		msg = fmt.Sprintf("Cannot read file: %s", fe.Path)
		if fe.Err != nil {
			msg += fmt.Sprintf(" (%v)", fe.Err)
		}
	}
	fmt.Fprintf(r.out, "%s %s\n", failMark, r.fail.Sprint(msg))
}

// ListChecks prints a manifest's checks without evaluating them
func (r *Reporter) ListChecks(m *models.Manifest) {
	fmt.Fprintf(r.out, "%s (%d checks)\n", r.label.Sprint(m.Name), len(m.Checks))
	for i, c := range m.Checks {
		fmt.Fprintf(r.out, "  %d. [%s] %s\n", i+1, c.Expect, c.Label)
		fmt.Fprintf(r.out, "     %s\n", c.Pattern)
	}
}
