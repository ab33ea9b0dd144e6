// Package display renders the human-readable output of a verification run.
//
// All user-facing report formatting lives here: the banner and title, one
// line per check, the closing summary, hard-failure messages, and warnings.
// Colors are applied only when the destination is a terminal.
//
// # Reports
//
//	r := display.NewReporter(os.Stdout)
//	r.Header(m.Title, m.Intro)
//	for _, o := range result.Outcomes {
//	    r.Outcome(o)
//	}
//	r.Summary(result, m)
//
// When the target file cannot be read, only the error line is printed:
//
//	r.FileError(err)
//
// # Warning Messages
//
// Display warnings for problems that do not change the verdict:
//
//	warning := display.Warning{
//	    Title:      "Run history not recorded",
//	    Message:    err.Error(),
//	    Suggestion: "Check that the history directory is writable",
//	}
//	warning.Display(os.Stderr)
package display
