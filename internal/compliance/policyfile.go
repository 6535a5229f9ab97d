package compliance

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"reelcheck/internal/classification"
)

//go:embed default_policies.toml
var defaultPolicies []byte

// Format identifies a policy file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

type policyFile struct {
	Jurisdictions []policyJurisdiction `toml:"jurisdiction" yaml:"jurisdiction"`
}

type policyJurisdiction struct {
	Name  string       `toml:"name" yaml:"name"`
	Rules []policyRule `toml:"rule" yaml:"rule"`
}

type policyRule struct {
	Category string `toml:"category" yaml:"category"`
	Presence string `toml:"presence" yaml:"presence"`
	Severity string `toml:"severity,omitempty" yaml:"severity,omitempty"`
}

// DefaultTable returns the built-in USA, China, and India policies.
func DefaultTable() *Table {
	table, err := ParseTable(defaultPolicies, FormatTOML)
	if err != nil {
		panic(fmt.Sprintf("embedded policy table: %v", err))
	}
	return table
}

// DefaultPolicyFile returns the embedded default policy file contents.
func DefaultPolicyFile() []byte {
	return bytes.Clone(defaultPolicies)
}

// FormatForPath picks the policy encoding from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("policy file %s: unsupported extension (want .toml, .yaml or .yml)", path)
	}
}

// LoadTable reads a policy file from disk.
func LoadTable(path string) (*Table, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}
	table, err := ParseTable(data, format)
	if err != nil {
		return nil, fmt.Errorf("policy file %s: %w", path, err)
	}
	return table, nil
}

// ParseTable decodes policy data in the given format. Unknown keys are
// rejected so a misspelled field cannot drop a rule's constraint.
func ParseTable(data []byte, format Format) (*Table, error) {
	var file policyFile
	switch format {
	case FormatTOML:
		decoder := toml.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&file); err != nil {
			return nil, fmt.Errorf("parse policy toml: %w", err)
		}
	case FormatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse policy yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("policy format: unsupported value %q", format)
	}
	if len(file.Jurisdictions) == 0 {
		return nil, fmt.Errorf("%w: no jurisdictions defined", ErrInvalidTable)
	}

	jurisdictions := make([]Jurisdiction, 0, len(file.Jurisdictions))
	for _, entry := range file.Jurisdictions {
		rules := make([]Rule, 0, len(entry.Rules))
		for _, rule := range entry.Rules {
			rules = append(rules, Rule{
				Category:        classification.Category(rule.Category),
				AllowedPresence: classification.Presence(rule.Presence),
				AllowedSeverity: rule.Severity,
			})
		}
		jurisdictions = append(jurisdictions, Jurisdiction{Name: entry.Name, Rules: rules})
	}
	return NewTable(jurisdictions)
}

// MarshalTable encodes a table in the policy file format.
func MarshalTable(table *Table, format Format) ([]byte, error) {
	var file policyFile
	for _, jurisdiction := range table.Jurisdictions() {
		entry := policyJurisdiction{Name: jurisdiction.Name}
		for _, rule := range jurisdiction.Rules {
			entry.Rules = append(entry.Rules, policyRule{
				Category: string(rule.Category),
				Presence: string(rule.AllowedPresence),
				Severity: rule.AllowedSeverity,
			})
		}
		file.Jurisdictions = append(file.Jurisdictions, entry)
	}
	switch format {
	case FormatTOML:
		return toml.Marshal(file)
	case FormatYAML:
		return yaml.Marshal(file)
	default:
		return nil, fmt.Errorf("policy format: unsupported value %q", format)
	}
}
