// Package seed reads the optional yaml file that provides the initial
// shortcuts and search engines of an empty store.
package seed

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

var templateVar = regexp.MustCompile(`\{\{[^}]+\}\}`)

// Loader handles loading and parsing of the seed file.
type Loader struct {
	filePath string
}

// NewLoader creates a new seed loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Path returns the file the loader reads.
func (l *Loader) Path() string { return l.filePath }

// Load reads and parses the seed file.
func (l *Loader) Load() (File, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return File{}, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes seed yaml. Homepage template variables ({{HOMEPAGE_VAR_...}})
// are replaced by empty strings first.
func Parse(data []byte) (File, error) {
	data = stripTemplateVariables(data)

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return File{}, fmt.Errorf("failed to parse seed yaml: %w", err)
	}
	if len(root.Content) == 0 {
		return File{}, nil
	}

	var file File
	doc := root.Content[0]
	switch doc.Kind {
	case yaml.SequenceNode:
		// bare Homepage services.yaml
		if err := doc.Decode(&file.Shortcuts); err != nil {
			return File{}, fmt.Errorf("failed to parse services yaml: %w", err)
		}
	case yaml.MappingNode:
		if err := doc.Decode(&file); err != nil {
			return File{}, fmt.Errorf("failed to parse seed yaml: %w", err)
		}
	default:
		return File{}, fmt.Errorf("failed to parse seed yaml: unexpected top-level %s", kindName(doc.Kind))
	}
	return file, nil
}

// stripTemplateVariables removes Homepage template variables from YAML
// Example: {{HOMEPAGE_VAR_ADGUARD_USER}} -> ""
func stripTemplateVariables(data []byte) []byte {
	return templateVar.ReplaceAll(data, []byte(`""`))
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return fmt.Sprintf("node kind %d", k)
	}
}
