package manifest

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/harrison/fixcheck/internal/models"
)

var checkHeadingRegex = regexp.MustCompile(`^Check:\s+(.+)$`)

// MarkdownParser parses manifests written as Markdown documents.
//
// The optional YAML frontmatter carries the manifest header (name, title,
// intro, success, highlights, failure, target). Each "## Check: <label>"
// heading opens a check whose pattern is the first fenced code block below
// it. Paragraph lines of the form "Expect: absent", "Pass: ..." and
// "Fail: ..." set the remaining check fields.
type MarkdownParser struct {
	markdown goldmark.Markdown
}

// NewMarkdownParser creates a new Markdown manifest parser
func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{
		markdown: goldmark.New(),
	}
}

// Parse reads a Markdown manifest and validates its checks
func (p *MarkdownParser) Parse(r io.Reader) (*models.Manifest, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	m := &models.Manifest{}
	content, frontmatter := extractFrontmatter(content)
	if frontmatter != nil {
		if err := yaml.Unmarshal(frontmatter, m); err != nil {
			return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
		}
		// Checks come from the document body only
		m.Checks = nil
	}

	doc := p.markdown.Parser().Parse(text.NewReader(content))
	checks, err := extractChecks(doc, content)
	if err != nil {
		return nil, err
	}
	m.Checks = checks

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// extractChecks walks the top-level blocks of the document in order
func extractChecks(doc ast.Node, source []byte) ([]models.Check, error) {
	var checks []models.Check
	var current *models.Check
	var hasPattern bool

	finish := func() error {
		if current == nil {
			return nil
		}
		if !hasPattern {
			return fmt.Errorf("check %q has no fenced pattern block", current.Label)
		}
		checks = append(checks, *current)
		current = nil
		return nil
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level > 2 {
				continue
			}
			if err := finish(); err != nil {
				return nil, err
			}
			if node.Level != 2 {
				continue
			}
			matches := checkHeadingRegex.FindStringSubmatch(strings.TrimSpace(extractText(node, source)))
			if matches == nil {
				continue
			}
			current = &models.Check{Label: strings.TrimSpace(matches[1])}
			hasPattern = false

		case *ast.FencedCodeBlock:
			if current == nil || hasPattern {
				continue
			}
			current.Pattern = strings.TrimRight(blockLines(node, source), "\r\n")
			hasPattern = true

		case *ast.Paragraph:
			if current == nil {
				continue
			}
			if err := applyDirectives(current, lineList(node, source)); err != nil {
				return nil, err
			}
		}
	}

	if err := finish(); err != nil {
		return nil, err
	}
	return checks, nil
}

// applyDirectives reads "Key: value" lines from a paragraph under a check
func applyDirectives(check *models.Check, lines []string) error {
	for _, line := range lines {
		key, value, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}
		key = strings.Trim(strings.ToLower(strings.TrimSpace(key)), "*_")
		value = strings.Trim(strings.TrimSpace(value), "*_ ")

		switch key {
		case "expect":
			expect, err := models.ParseExpectation(value)
			if err != nil {
				return fmt.Errorf("check %q: %w", check.Label, err)
			}
			check.Expect = expect
		case "pass":
			check.PassMessage = value
		case "fail":
			check.FailMessage = value
		}
	}
	return nil
}

// blockLines returns the raw source lines of a block node
func blockLines(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}

// lineList returns each source line of a block node without line endings
func lineList(n ast.Node, source []byte) []string {
	lines := n.Lines()
	out := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		out = append(out, strings.TrimRight(string(seg.Value(source)), "\r\n"))
	}
	return out
}

// extractText concatenates the text of all inline descendants of n
func extractText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(source))
			continue
		}
		buf.WriteString(extractText(c, source))
	}
	return buf.String()
}

// extractFrontmatter splits a leading "---" delimited YAML block from content
func extractFrontmatter(content []byte) ([]byte, []byte) {
	lines := bytes.Split(content, []byte("\n"))

	if len(lines) < 3 || !bytes.Equal(bytes.TrimSpace(lines[0]), []byte("---")) {
		return content, nil
	}

	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), []byte("---")) {
			frontmatter := bytes.Join(lines[1:i], []byte("\n"))
			body := bytes.Join(lines[i+1:], []byte("\n"))
			return body, frontmatter
		}
	}

	return content, nil
}
