package fault

import (
	"time"
	"unicode/utf8"
)

// Criteria selects which faults make it into the report.
type Criteria struct {
	MinTransition time.Time   // oldest lastTransition kept (inclusive)
	IncludeAcked  bool        // keep faults already acknowledged on the controller
	Severities    SeveritySet // allowed levels
	MaxDescLength int         // drop faults with longer descriptions; <= 0 disables
}

// Matches reports whether f passes every predicate. It has no side effects.
func (c Criteria) Matches(f Fault) bool {
	if !c.IncludeAcked && f.Ack == AckYes {
		return false
	}
	if !c.Severities.Contains(f.Severity) {
		return false
	}
	if f.LastTransition.Before(c.MinTransition) {
		return false
	}
	if c.MaxDescLength > 0 && utf8.RuneCountInString(f.Descr) > c.MaxDescLength {
		return false
	}
	return true
}

// Filter returns the faults that match c, preserving input order.
func Filter(faults []Fault, c Criteria) []Fault {
	out := make([]Fault, 0, len(faults))
	for _, f := range faults {
		if c.Matches(f) {
			out = append(out, f)
		}
	}
	return out
}
