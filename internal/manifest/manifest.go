// Package manifest loads check manifests: the built-in category button fix
// set, YAML manifests, and Markdown manifests.
package manifest

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/fixcheck/internal/models"
)

//go:embed builtin/category-button-fix.yaml
var builtinYAML []byte

// BuiltinName is the name of the manifest used when none is configured
const BuiltinName = "category-button-fix"

// Format represents the format of a manifest file
type Format int

const (
	// FormatUnknown represents an unknown or unsupported file format
	FormatUnknown Format = iota
	// FormatMarkdown represents a Markdown (.md, .markdown) manifest
	FormatMarkdown
	// FormatYAML represents a YAML (.yaml, .yml) manifest
	FormatYAML
)

// String returns the string representation of the Format
func (f Format) String() string {
	switch f {
	case FormatMarkdown:
		return "markdown"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// Parser is the interface that all manifest parsers implement
type Parser interface {
	// Parse reads from an io.Reader and returns a validated Manifest
	Parse(r io.Reader) (*models.Manifest, error)
}

// DetectFormat detects the manifest format from the file extension
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return FormatMarkdown
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatUnknown
	}
}

// NewParser creates a parser for the specified format
func NewParser(format Format) (Parser, error) {
	switch format {
	case FormatMarkdown:
		return NewMarkdownParser(), nil
	case FormatYAML:
		return NewYAMLParser(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %v", format)
	}
}

// Builtin returns a fresh copy of the embedded category button fix manifest
func Builtin() (*models.Manifest, error) {
	m, err := parseYAML(builtinYAML)
	if err != nil {
		return nil, fmt.Errorf("built-in manifest: %w", err)
	}
	return m, nil
}

// Load returns the built-in manifest when path is empty or names it,
// otherwise parses the file at path.
func Load(path string) (*models.Manifest, error) {
	if path == "" || path == BuiltinName {
		return Builtin()
	}
	return ParseFile(path)
}

// ParseFile detects the format of path, opens it, and parses it
func ParseFile(path string) (*models.Manifest, error) {
	format := DetectFormat(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("unknown manifest format: %s (supported: .md, .markdown, .yaml, .yml)", path)
	}

	parser, err := NewParser(format)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer file.Close()

	m, err := parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", filepath.Base(path), err)
	}

	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	m.SourceFile = absPath
	return m, nil
}
