package models

import (
	"errors"
	"fmt"
)

// Manifest is a named, ordered set of checks together with the texts used
// when reporting a run against it.
type Manifest struct {
	Name    string `yaml:"name" json:"name"`
	Title   string `yaml:"title,omitempty" json:"title,omitempty"`
	Intro   string `yaml:"intro,omitempty" json:"intro,omitempty"`
	Success string `yaml:"success,omitempty" json:"success,omitempty"`

	// HighlightsTitle introduces Highlights in the success summary
	HighlightsTitle string   `yaml:"highlights_title,omitempty" json:"highlights_title,omitempty"`
	Highlights      []string `yaml:"highlights,omitempty" json:"highlights,omitempty"`

	Failure string  `yaml:"failure,omitempty" json:"failure,omitempty"`
	Target  string  `yaml:"target,omitempty" json:"target,omitempty"`
	Checks  []Check `yaml:"checks" json:"checks"`

	// SourceFile is the file the manifest was loaded from (empty for built-ins)
	SourceFile string `yaml:"-" json:"-"`
}

// Validate compiles every check and rejects duplicate labels.
// Checks are compiled in place.
func (m *Manifest) Validate() error {
	if len(m.Checks) == 0 {
		return errors.New("manifest defines no checks")
	}

	seen := make(map[string]bool, len(m.Checks))
	for i := range m.Checks {
		if err := m.Checks[i].Compile(); err != nil {
			return fmt.Errorf("check %d: %w", i+1, err)
		}
		label := m.Checks[i].Label
		if seen[label] {
			return fmt.Errorf("check %d: duplicate label %q", i+1, label)
		}
		seen[label] = true
	}
	return nil
}

// CountByExpectation returns how many checks require presence and absence
func (m *Manifest) CountByExpectation() (present, absent int) {
	for _, c := range m.Checks {
		if c.Expect == ExpectAbsent {
			absent++
		} else {
			present++
		}
	}
	return present, absent
}
