package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Warning is a notice about something that does not change the verdict
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Files      []string // Related files (optional)
	Suggestion string   // Action to take (optional)
}

// String renders the warning without color
func (w Warning) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "⚠️  Warning: %s\n", w.Title)
	if w.Message != "" {
		fmt.Fprintf(&b, "    %s\n", w.Message)
	}
	if len(w.Files) == 1 {
		fmt.Fprintf(&b, "    Affected file: %s\n", w.Files[0])
	} else if len(w.Files) > 1 {
		b.WriteString("    Affected files:\n")
		for _, file := range w.Files {
			fmt.Fprintf(&b, "      - %s\n", file)
		}
	}
	if w.Suggestion != "" {
		fmt.Fprintf(&b, "    Suggestion: %s\n", w.Suggestion)
	}
	return b.String()
}

// Display writes the warning, in yellow when out is a terminal
func (w Warning) Display(out io.Writer) {
	text := w.String()
	if isTerminal(out) {
		yellow := color.New(color.FgYellow)
		yellow.EnableColor()
		text = yellow.Sprint(text)
	}
	fmt.Fprint(out, text)
}

// WarnHistoryUnavailable creates the warning shown when a run could not be
// recorded in the history store
func WarnHistoryUnavailable(path string, err error) Warning {
	return Warning{
		Title:      "Run history not recorded",
		Message:    err.Error(),
		Files:      []string{path},
		Suggestion: "Check that the history directory is writable, or drop --history",
	}
}

// WarnNoRequiredPatterns creates the warning shown when a manifest has no
// checks expecting presence, so any file without forbidden patterns passes
func WarnNoRequiredPatterns(name string) Warning {
	return Warning{
		Title:   fmt.Sprintf("Manifest %q requires no patterns to be present", name),
		Message: "Only forbidden patterns are checked; an empty file passes",
	}
}
