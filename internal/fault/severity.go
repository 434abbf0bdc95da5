package fault

import (
	"fmt"
	"sort"
	"strings"
)

// Severity is a controller fault severity level.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
	SeverityCleared  Severity = "cleared"
)

// severities is ordered from most to least severe.
var severities = [...]Severity{
	SeverityCritical,
	SeverityMajor,
	SeverityMinor,
	SeverityWarning,
	SeverityInfo,
	SeverityCleared,
}

// AllSeverities returns every known level, most severe first.
func AllSeverities() []Severity {
	out := severities
	return out[:]
}

// Rank orders severities for sorting: critical=6 down to cleared=1.
// Unknown values rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 6
	case SeverityMajor:
		return 5
	case SeverityMinor:
		return 4
	case SeverityWarning:
		return 3
	case SeverityInfo:
		return 2
	case SeverityCleared:
		return 1
	default:
		return 0
	}
}

// Valid reports whether s is one of the six known levels.
func (s Severity) Valid() bool { return s.Rank() > 0 }

func (s Severity) String() string { return string(s) }

// ParseSeverity accepts a level name in any case.
func ParseSeverity(v string) (Severity, error) {
	s := Severity(strings.ToLower(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown severity %q", v)
	}
	return s, nil
}

// SeveritySet is a set of allowed severity levels.
type SeveritySet map[Severity]struct{}

// NewSeveritySet builds a set from the given levels.
func NewSeveritySet(levels ...Severity) SeveritySet {
	set := make(SeveritySet, len(levels))
	for _, l := range levels {
		set[l] = struct{}{}
	}
	return set
}

// ParseSeverities parses a comma-separated list such as "critical,major".
// Blank items are ignored; unknown names are reported together.
func ParseSeverities(list string) (SeveritySet, error) {
	set := SeveritySet{}
	var unknown []string
	for _, item := range strings.Split(list, ",") {
		if strings.TrimSpace(item) == "" {
			continue
		}
		s, err := ParseSeverity(item)
		if err != nil {
			unknown = append(unknown, strings.TrimSpace(item))
			continue
		}
		set[s] = struct{}{}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown severities: %s (valid: %s)",
			strings.Join(unknown, ", "), NewSeveritySet(AllSeverities()...))
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("no severities given")
	}
	return set, nil
}

// Contains reports whether s is in the set.
func (set SeveritySet) Contains(s Severity) bool {
	_, ok := set[s]
	return ok
}

// Slice returns the members, most severe first.
func (set SeveritySet) Slice() []Severity {
	out := make([]Severity, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank() > out[j].Rank() })
	return out
}

func (set SeveritySet) String() string {
	names := make([]string, 0, len(set))
	for _, s := range set.Slice() {
		names = append(names, string(s))
	}
	return strings.Join(names, ",")
}

// Ack is the acknowledgement state of a fault.
type Ack string

const (
	AckYes Ack = "yes"
	AckNo  Ack = "no"
)
