package compliance

import (
	"errors"
	"fmt"
	"strings"

	"reelcheck/internal/classification"
)

// ErrInvalidTable marks policy tables rejected by NewTable.
var ErrInvalidTable = errors.New("invalid policy table")

// Rule is the policy for one category within a jurisdiction. An empty
// AllowedSeverity means only presence is enforced.
type Rule struct {
	Category        classification.Category
	AllowedPresence classification.Presence
	AllowedSeverity string
}

// Jurisdiction is a named, ordered rule list.
type Jurisdiction struct {
	Name  string
	Rules []Rule
}

// Table is an immutable, ordered set of jurisdiction policies.
type Table struct {
	jurisdictions []Jurisdiction
}

// NewTable validates and copies the supplied jurisdictions. Category names are
// mapped onto their known spellings; unknown categories are accepted as-is.
func NewTable(jurisdictions []Jurisdiction) (*Table, error) {
	seen := make(map[string]struct{}, len(jurisdictions))
	copied := make([]Jurisdiction, 0, len(jurisdictions))
	for i, jurisdiction := range jurisdictions {
		name := strings.TrimSpace(jurisdiction.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: jurisdiction %d has no name", ErrInvalidTable, i+1)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: duplicate jurisdiction %q", ErrInvalidTable, name)
		}
		seen[name] = struct{}{}

		rules := make([]Rule, 0, len(jurisdiction.Rules))
		categories := make(map[classification.Category]struct{}, len(jurisdiction.Rules))
		for _, rule := range jurisdiction.Rules {
			normalized, err := normalizeRule(rule)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTable, name, err)
			}
			if _, dup := categories[normalized.Category]; dup {
				return nil, fmt.Errorf("%w: %s: duplicate category %q", ErrInvalidTable, name, normalized.Category)
			}
			categories[normalized.Category] = struct{}{}
			rules = append(rules, normalized)
		}
		copied = append(copied, Jurisdiction{Name: name, Rules: rules})
	}
	return &Table{jurisdictions: copied}, nil
}

// MustTable is NewTable for static tables; it panics on invalid input.
func MustTable(jurisdictions []Jurisdiction) *Table {
	table, err := NewTable(jurisdictions)
	if err != nil {
		panic(err)
	}
	return table
}

func normalizeRule(rule Rule) (Rule, error) {
	category := classification.CanonicalCategory(string(rule.Category))
	if category == "" {
		return Rule{}, errors.New("rule has no category")
	}
	presence := classification.ParsePresence(string(rule.AllowedPresence))
	if presence != classification.PresenceYes && presence != classification.PresenceNo {
		return Rule{}, fmt.Errorf("category %q: allowed presence must be Yes or No, got %q", category, rule.AllowedPresence)
	}
	severity := strings.TrimSpace(rule.AllowedSeverity)
	if strings.EqualFold(severity, classification.SeverityNone) {
		severity = ""
	}
	return Rule{Category: category, AllowedPresence: presence, AllowedSeverity: severity}, nil
}

// Jurisdictions returns a copy of the table contents in table order.
func (t *Table) Jurisdictions() []Jurisdiction {
	if t == nil {
		return nil
	}
	out := make([]Jurisdiction, len(t.jurisdictions))
	for i, jurisdiction := range t.jurisdictions {
		rules := make([]Rule, len(jurisdiction.Rules))
		copy(rules, jurisdiction.Rules)
		out[i] = Jurisdiction{Name: jurisdiction.Name, Rules: rules}
	}
	return out
}

// Names lists jurisdiction names in table order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.jurisdictions))
	for i, jurisdiction := range t.jurisdictions {
		names[i] = jurisdiction.Name
	}
	return names
}

// Lookup returns the named jurisdiction.
func (t *Table) Lookup(name string) (Jurisdiction, bool) {
	if t == nil {
		return Jurisdiction{}, false
	}
	for _, jurisdiction := range t.jurisdictions {
		if jurisdiction.Name == name {
			rules := make([]Rule, len(jurisdiction.Rules))
			copy(rules, jurisdiction.Rules)
			return Jurisdiction{Name: jurisdiction.Name, Rules: rules}, true
		}
	}
	return Jurisdiction{}, false
}

// Len reports the number of jurisdictions.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.jurisdictions)
}
