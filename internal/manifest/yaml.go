package manifest

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/harrison/fixcheck/internal/models"
)

// YAMLParser parses manifests written as a single YAML document
type YAMLParser struct{}

// NewYAMLParser creates a new YAML manifest parser
func NewYAMLParser() *YAMLParser {
	return &YAMLParser{}
}

// Parse reads a YAML manifest and validates its checks
func (p *YAMLParser) Parse(r io.Reader) (*models.Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}
	return parseYAML(data)
}

func parseYAML(data []byte) (*models.Manifest, error) {
	var m models.Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
