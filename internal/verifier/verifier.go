// Package verifier evaluates an ordered set of regular-expression checks
// against the contents of a single text file.
//
// Every check is evaluated independently: a failing check never prevents the
// remaining checks from running. Checks requiring presence and checks
// requiring absence share one evaluator.
package verifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/harrison/fixcheck/internal/models"
)

// Verifier runs one manifest's checks against target files
type Verifier struct {
	manifest *models.Manifest
	now      func() time.Time
}

// New creates a Verifier for a manifest. The manifest is validated here so
// that every check has a compiled pattern before any file is read.
func New(manifest *models.Manifest) (*Verifier, error) {
	if manifest == nil {
		return nil, fmt.Errorf("manifest is required")
	}
	if err := manifest.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest %q: %w", manifest.Name, err)
	}
	return &Verifier{manifest: manifest, now: time.Now}, nil
}

// Manifest returns the manifest the verifier was built with
func (v *Verifier) Manifest() *models.Manifest {
	return v.manifest
}

// Verify loads the file at path and evaluates every check against it.
// A *FileError is returned, with a nil result, when the content cannot be
// obtained.
func (v *Verifier) Verify(path string) (*models.Result, error) {
	content, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	result := Evaluate(content, v.manifest.Checks)
	result.Target = path
	result.Manifest = v.manifest.Name
	result.CheckedAt = v.now()
	return result, nil
}

// Evaluate tests every check against content in order and aggregates the
// outcomes. Checks must already be compiled. An empty check list passes.
func Evaluate(content string, checks []models.Check) *models.Result {
	result := &models.Result{
		Outcomes: make([]models.Outcome, 0, len(checks)),
		Passed:   true,
	}

	for i := range checks {
		check := &checks[i]
		matched := check.Matches(content)
		passed := check.Satisfied(matched)

		result.Outcomes = append(result.Outcomes, models.Outcome{
			Label:   check.Label,
			Pattern: check.Pattern,
			Expect:  check.Expect,
			Matched: matched,
			Passed:  passed,
			Message: outcomeMessage(check, passed),
		})
		if !passed {
			result.Passed = false
		}
	}

	return result
}

// outcomeMessage renders the report line for a check. Custom messages may
// reference {label} and {pattern}.
func outcomeMessage(c *models.Check, passed bool) string {
	custom := c.FailMessage
	if passed {
		custom = c.PassMessage
	}
	if custom != "" {
		return strings.NewReplacer("{label}", c.Label, "{pattern}", c.Pattern).Replace(custom)
	}

	switch {
	case c.Expect == models.ExpectAbsent && passed:
		return fmt.Sprintf("%s: not present", c.Label)
	case c.Expect == models.ExpectAbsent:
		return fmt.Sprintf("%s: forbidden pattern still present", c.Label)
	case passed:
		return fmt.Sprintf("%s: found", c.Label)
	default:
		return fmt.Sprintf("%s: missing expected pattern: %s", c.Label, c.Pattern)
	}
}
