package models

import "time"

// Outcome is the recorded result of evaluating one check
type Outcome struct {
	Label   string      `yaml:"label" json:"label"`
	Pattern string      `yaml:"pattern" json:"pattern"`
	Expect  Expectation `yaml:"expect" json:"expect"`
	Matched bool        `yaml:"matched" json:"matched"` // Pattern was found in the content
	Passed  bool        `yaml:"passed" json:"passed"`   // Matched agrees with Expect
	Message string      `yaml:"message" json:"message"` // Line text shown in the report
}

// Result is the aggregate result of verifying one file against a manifest
type Result struct {
	RunID     string    `yaml:"run_id,omitempty" json:"run_id,omitempty"`
	Target    string    `yaml:"target" json:"target"`
	Manifest  string    `yaml:"manifest" json:"manifest"`
	Outcomes  []Outcome `yaml:"outcomes" json:"outcomes"`
	Passed    bool      `yaml:"passed" json:"passed"`
	CheckedAt time.Time `yaml:"checked_at" json:"checked_at"`
}

// PassedCount returns the number of outcomes that passed
func (r *Result) PassedCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Passed {
			n++
		}
	}
	return n
}

// Failed returns the outcomes that did not pass, in check order
func (r *Result) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if !o.Passed {
			failed = append(failed, o)
		}
	}
	return failed
}
