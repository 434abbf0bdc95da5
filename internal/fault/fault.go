// Package fault holds the canonical fault record and the normalization and
// filtering rules applied to raw controller records.
package fault

import (
	"fmt"
	"time"
)

// PlaceholderCause marks the synthetic record emitted for a fabric that had
// no faults left after filtering.
const PlaceholderCause = "faults-filtered"

// MaxAgeDays is the largest age window accepted, about a century.
const MaxAgeDays = 36500

// TimeLayout is the timestamp format APIC uses for lastTransition.
const TimeLayout = "2006-01-02T15:04:05.000-07:00"

// Fault is one normalized fault record, tagged with the fabric it came from
// and that fabric's health at fetch time.
type Fault struct {
	Fabric         string    `json:"fabric"`
	FabricHealth   int       `json:"fabricHealth"`
	Severity       Severity  `json:"severity"`
	Ack            Ack       `json:"ack"`
	Code           string    `json:"code"`
	Cause          string    `json:"cause"`
	Domain         string    `json:"domain"`
	Descr          string    `json:"descr"`
	LastTransition time.Time `json:"lastTransition"`
	Occur          int       `json:"occur"`
	Placeholder    bool      `json:"placeholder,omitempty"`
}

// NewPlaceholder builds the record that stands in for a fabric with no
// matching faults. It ranks as info and is dated at the age boundary.
func NewPlaceholder(fabric string, health, days int, boundary time.Time) Fault {
	return Fault{
		Fabric:         fabric,
		FabricHealth:   health,
		Severity:       SeverityInfo,
		Ack:            AckNo,
		Cause:          PlaceholderCause,
		Descr:          fmt.Sprintf("No new faults in %d days", days),
		LastTransition: boundary,
		Occur:          1,
		Placeholder:    true,
	}
}

// AgeBoundary returns the oldest lastTransition a fault may have to be
// reported, computed once per run from now. It has minute precision to match
// the controller-side filter. days is clamped to [0, MaxAgeDays].
func AgeBoundary(now time.Time, days int) time.Time {
	days = min(max(days, 0), MaxAgeDays)
	return now.UTC().Add(-time.Duration(days) * 24 * time.Hour).Truncate(time.Minute)
}

// ParseTransition parses an APIC lastTransition timestamp. Fractional
// seconds are optional.
func ParseTransition(v string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, TimeLayout, "2006-01-02T15:04:05.000-0700"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", v)
}
