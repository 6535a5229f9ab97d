package classification

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Presence is the "Yes"/"No" flag used for findings and the record-level safe flag.
type Presence string

const (
	PresenceYes Presence = "Yes"
	PresenceNo  Presence = "No"
)

// SeverityNone marks an absent or unrated severity.
const SeverityNone = "None"

// ParsePresence normalizes the spellings providers use for a yes/no flag.
// Unrecognized values are returned trimmed so they never compare equal to Yes.
func ParsePresence(value string) Presence {
	trimmed := strings.TrimSpace(value)
	switch strings.ToLower(trimmed) {
	case "yes", "y", "true":
		return PresenceYes
	case "no", "n", "false":
		return PresenceNo
	default:
		return Presence(trimmed)
	}
}

// UnmarshalJSON accepts strings, booleans, and null.
func (p *Presence) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch value := raw.(type) {
	case nil:
		*p = ""
	case bool:
		if value {
			*p = PresenceYes
		} else {
			*p = PresenceNo
		}
	case string:
		*p = ParsePresence(value)
	default:
		return fmt.Errorf("presence: unsupported value %s", strings.TrimSpace(string(data)))
	}
	return nil
}

// Finding is the (presence, severity) pair reported for one category.
type Finding struct {
	Presence Presence
	Severity string
}

// NewFinding builds a finding, normalizing presence spellings and empty severities.
func NewFinding(presence, severity string) Finding {
	severity = strings.TrimSpace(severity)
	if severity == "" {
		severity = SeverityNone
	}
	return Finding{Presence: ParsePresence(presence), Severity: severity}
}

// Present reports whether the category was observed.
func (f Finding) Present() bool {
	return f.Presence == PresenceYes
}

// EffectiveSeverity is the severity that policy checks compare. A category
// reported absent has no severity regardless of what the provider wrote.
func (f Finding) EffectiveSeverity() string {
	if f.Presence == PresenceNo {
		return SeverityNone
	}
	severity := strings.TrimSpace(f.Severity)
	if severity == "" {
		return SeverityNone
	}
	return severity
}

// MarshalJSON writes the finding in the provider's [presence, severity] form.
func (f Finding) MarshalJSON() ([]byte, error) {
	severity := f.Severity
	if strings.TrimSpace(severity) == "" {
		severity = SeverityNone
	}
	return json.Marshal([]string{string(f.Presence), severity})
}

// UnmarshalJSON decodes [presence, severity]. The presence must read as yes
// or no. A missing or null severity becomes "None"; extra elements are ignored.
func (f *Finding) UnmarshalJSON(data []byte) error {
	var parts []any
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("finding: expected [presence, severity]: %w", err)
	}
	if len(parts) == 0 {
		return errors.New("finding: empty array")
	}
	presence, err := scalarString(parts[0])
	if err != nil {
		return fmt.Errorf("finding presence: %w", err)
	}
	if parsed := ParsePresence(presence); parsed != PresenceYes && parsed != PresenceNo {
		return fmt.Errorf("finding presence: want Yes or No, got %q", presence)
	}
	severity := ""
	if len(parts) > 1 {
		if severity, err = scalarString(parts[1]); err != nil {
			return fmt.Errorf("finding severity: %w", err)
		}
	}
	*f = NewFinding(presence, severity)
	return nil
}

// Annotations maps a label to the timestamps where that content occurs.
type Annotations map[string][]string

// UnmarshalJSON accepts a single scalar where a list is expected, and numeric
// timestamps, since providers are loose about both.
func (a *Annotations) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("annotations: %w", err)
	}
	out := make(Annotations, len(raw))
	for key, value := range raw {
		var stamps []string
		switch typed := value.(type) {
		case nil:
		case []any:
			for _, element := range typed {
				stamp, err := scalarString(element)
				if err != nil {
					return fmt.Errorf("annotations %q: %w", key, err)
				}
				if stamp != "" {
					stamps = append(stamps, stamp)
				}
			}
		default:
			stamp, err := scalarString(typed)
			if err != nil {
				return fmt.Errorf("annotations %q: %w", key, err)
			}
			if stamp != "" {
				stamps = append(stamps, stamp)
			}
		}
		out[key] = stamps
	}
	*a = out
	return nil
}

// Record is the classification result for one video.
type Record struct {
	Safe            Presence             `json:"safe"`
	ExplicitContent map[Category]Finding `json:"explicit_content"`
	Annotations     Annotations          `json:"annotations,omitempty"`
}

// Finding returns the finding recorded for a category, if any.
func (r Record) Finding(category Category) (Finding, bool) {
	if r.ExplicitContent == nil {
		return Finding{}, false
	}
	finding, ok := r.ExplicitContent[category]
	return finding, ok
}

// PresentCategories lists the categories reported present, sorted by name.
func (r Record) PresentCategories() []Category {
	var out []Category
	for category, finding := range r.ExplicitContent {
		if finding.Present() {
			out = append(out, category)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// canonicalize rewrites category keys onto their known spellings. Exactly
// spelled keys win over case variants; variants are applied in sorted order so
// the outcome does not depend on map iteration.
func (r *Record) canonicalize() {
	if len(r.ExplicitContent) == 0 {
		return
	}
	out := make(map[Category]Finding, len(r.ExplicitContent))
	var variants []Category
	for category, finding := range r.ExplicitContent {
		if canonical := CanonicalCategory(string(category)); canonical == category {
			out[category] = finding
			continue
		}
		variants = append(variants, category)
	}
	sort.Slice(variants, func(i, j int) bool { return variants[i] < variants[j] })
	for _, category := range variants {
		canonical := CanonicalCategory(string(category))
		if _, exists := out[canonical]; exists {
			continue
		}
		out[canonical] = r.ExplicitContent[category]
	}
	r.ExplicitContent = out
}

func scalarString(value any) (string, error) {
	switch typed := value.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(typed), nil
	case bool:
		return strconv.FormatBool(typed), nil
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported value of type %T", value)
	}
}
