package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Expectation states whether a check's pattern must be found or must be missing
type Expectation string

const (
	// ExpectPresent requires the pattern to match somewhere in the content
	ExpectPresent Expectation = "present"
	// ExpectAbsent requires the pattern not to match anywhere in the content
	ExpectAbsent Expectation = "absent"
)

// ParseExpectation normalizes a user-supplied expectation.
// An empty string defaults to ExpectPresent.
func ParseExpectation(s string) (Expectation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "present", "required":
		return ExpectPresent, nil
	case "absent", "forbidden":
		return ExpectAbsent, nil
	default:
		return "", fmt.Errorf("invalid expectation %q, must be present or absent", s)
	}
}

// Check is a single labelled pattern with the expectation it must satisfy
type Check struct {
	Label       string      `yaml:"label" json:"label"`
	Pattern     string      `yaml:"pattern" json:"pattern"`
	Expect      Expectation `yaml:"expect,omitempty" json:"expect"`
	PassMessage string      `yaml:"pass_message,omitempty" json:"pass_message,omitempty"`
	FailMessage string      `yaml:"fail_message,omitempty" json:"fail_message,omitempty"`

	re *regexp.Regexp
}

// Compile validates the check and compiles its pattern.
// It must be called before Regexp or Matches.
func (c *Check) Compile() error {
	if strings.TrimSpace(c.Label) == "" {
		return errors.New("check label is required")
	}
	if c.Pattern == "" {
		return fmt.Errorf("check %q: pattern is required", c.Label)
	}

	expect, err := ParseExpectation(string(c.Expect))
	if err != nil {
		return fmt.Errorf("check %q: %w", c.Label, err)
	}
	c.Expect = expect

	re, err := regexp.Compile(c.Pattern)
	if err != nil {
		return fmt.Errorf("check %q: invalid pattern: %w", c.Label, err)
	}
	c.re = re
	return nil
}

// Regexp returns the compiled pattern, or nil if Compile has not succeeded
func (c *Check) Regexp() *regexp.Regexp {
	return c.re
}

// Matches reports whether the pattern occurs anywhere in content
func (c *Check) Matches(content string) bool {
	if c.re == nil {
		return false
	}
	return c.re.MatchString(content)
}

// Satisfied reports whether a match result meets the check's expectation
func (c *Check) Satisfied(matched bool) bool {
	if c.Expect == ExpectAbsent {
		return !matched
	}
	return matched
}
