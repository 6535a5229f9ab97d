package compliance

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"reelcheck/internal/classification"
)

const (
	// SafeVideoMessage is the verdict rendered when no jurisdiction reports a violation.
	SafeVideoMessage = "video is safe"
	// SafeJurisdiction is the per-jurisdiction entry when that jurisdiction has no violations.
	SafeJurisdiction = "Safe"
)

// JurisdictionResult lists the categories one jurisdiction flagged, in rule order.
type JurisdictionResult struct {
	Name       string
	Violations []classification.Category
}

// Safe reports whether the jurisdiction flagged nothing.
func (r JurisdictionResult) Safe() bool {
	return len(r.Violations) == 0
}

// Verdict is the outcome of evaluating one record against a table.
type Verdict struct {
	Jurisdictions []JurisdictionResult
}

// Safe reports whether no jurisdiction flagged a violation.
func (v Verdict) Safe() bool {
	for _, result := range v.Jurisdictions {
		if !result.Safe() {
			return false
		}
	}
	return true
}

// Violations returns the flagged jurisdictions only.
func (v Verdict) Violations() []JurisdictionResult {
	var out []JurisdictionResult
	for _, result := range v.Jurisdictions {
		if !result.Safe() {
			out = append(out, result)
		}
	}
	return out
}

// Result returns the entry for a jurisdiction.
func (v Verdict) Result(name string) (JurisdictionResult, bool) {
	for _, result := range v.Jurisdictions {
		if result.Name == name {
			return result, true
		}
	}
	return JurisdictionResult{}, false
}

func (v Verdict) String() string {
	data, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("verdict(%v)", err)
	}
	return string(data)
}

// MarshalJSON renders "video is safe" or an object keyed by jurisdiction in
// table order whose values are "Safe" or the list of violated categories.
func (v Verdict) MarshalJSON() ([]byte, error) {
	if v.Safe() {
		return json.Marshal(SafeVideoMessage)
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, result := range v.Jurisdictions {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(result.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		var value []byte
		if result.Safe() {
			value, err = json.Marshal(SafeJurisdiction)
		} else {
			value, err = json.Marshal(result.Violations)
		}
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads either verdict form. The "video is safe" form carries
// no jurisdiction names, so it decodes to an empty, safe verdict.
func (v *Verdict) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var message string
		if err := json.Unmarshal(trimmed, &message); err != nil {
			return err
		}
		if message != SafeVideoMessage {
			return fmt.Errorf("verdict: unexpected message %q", message)
		}
		*v = Verdict{}
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("verdict: expected string or object")
	}
	var results []JurisdictionResult
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		result := JurisdictionResult{Name: name}
		var entry string
		if err := json.Unmarshal(raw, &entry); err == nil {
			if entry != SafeJurisdiction {
				return fmt.Errorf("verdict: %s: unexpected entry %q", name, entry)
			}
		} else if err := json.Unmarshal(raw, &result.Violations); err != nil {
			return fmt.Errorf("verdict: %s: %w", name, err)
		}
		results = append(results, result)
	}
	*v = Verdict{Jurisdictions: results}
	return nil
}
