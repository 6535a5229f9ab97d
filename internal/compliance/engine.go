package compliance

import (
	"reelcheck/internal/classification"
)

// Engine evaluates classification records against a policy table.
type Engine struct {
	table *Table
}

// NewEngine binds an engine to a table. A nil table yields an engine with no
// jurisdictions, which reports every record as safe.
func NewEngine(table *Table) *Engine {
	if table == nil {
		table = &Table{}
	}
	return &Engine{table: table}
}

// Table returns the policy table the engine evaluates against.
func (e *Engine) Table() *Table {
	if e == nil {
		return nil
	}
	return e.table
}

// Evaluate checks the record against every jurisdiction in table order.
//
// For each rule whose category appears in the record, a present category
// that the jurisdiction forbids is a violation; otherwise, when the rule sets
// a severity, any rated severity other than that exact label is a violation.
// Categories missing from the record are skipped.
func (e *Engine) Evaluate(record classification.Record) Verdict {
	if e == nil || e.table == nil {
		return Verdict{}
	}
	results := make([]JurisdictionResult, 0, len(e.table.jurisdictions))
	for _, jurisdiction := range e.table.jurisdictions {
		var violations []classification.Category
		for _, rule := range jurisdiction.Rules {
			finding, ok := record.Finding(rule.Category)
			if !ok {
				continue
			}
			if violates(rule, finding) {
				violations = append(violations, rule.Category)
			}
		}
		results = append(results, JurisdictionResult{Name: jurisdiction.Name, Violations: violations})
	}
	return Verdict{Jurisdictions: results}
}

func violates(rule Rule, finding classification.Finding) bool {
	if finding.Present() && rule.AllowedPresence == classification.PresenceNo {
		return true
	}
	if rule.AllowedSeverity == "" {
		return false
	}
	severity := finding.EffectiveSeverity()
	return severity != classification.SeverityNone && severity != rule.AllowedSeverity
}
