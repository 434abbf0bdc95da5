package fault

import (
	"testing"
)

func TestSeverityRank(t *testing.T) {
	want := map[Severity]int{
		SeverityCritical: 6,
		SeverityMajor:    5,
		SeverityMinor:    4,
		SeverityWarning:  3,
		SeverityInfo:     2,
		SeverityCleared:  1,
		Severity("nope"): 0,
	}
	for s, rank := range want {
		if got := s.Rank(); got != rank {
			t.Errorf("%q.Rank() = %d, want %d", s, got, rank)
		}
	}
}

func TestAllSeveritiesIsACopy(t *testing.T) {
	all := AllSeverities()
	if len(all) != 6 {
		t.Fatalf("expected 6 severities, got %d", len(all))
	}
	all[0] = "mutated"
	if AllSeverities()[0] != SeverityCritical {
		t.Error("AllSeverities() exposed its backing array")
	}
}

func TestParseSeverities(t *testing.T) {
	set, err := ParseSeverities("critical, Major,,")
	if err != nil {
		t.Fatalf("ParseSeverities() error: %v", err)
	}
	if !set.Contains(SeverityCritical) || !set.Contains(SeverityMajor) {
		t.Errorf("expected critical and major, got %s", set)
	}
	if set.Contains(SeverityInfo) {
		t.Error("info should not be in the set")
	}
	if set.String() != "critical,major" {
		t.Errorf("expected 'critical,major', got %q", set.String())
	}
}

func TestParseSeveritiesUnknown(t *testing.T) {
	if _, err := ParseSeverities("critical,urgent"); err == nil {
		t.Error("expected error for unknown severity")
	}
	if _, err := ParseSeverities(" , "); err == nil {
		t.Error("expected error for empty list")
	}
}
