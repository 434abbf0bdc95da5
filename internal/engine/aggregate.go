package engine

import (
	"sort"
	"time"

	"github.com/tonhe/acifault/internal/fault"
)

// Aggregate merges per-fabric results into one ranked list.
//
// A fabric that answered but kept no faults contributes the single record
// returned by placeholderFor. Failed fabrics contribute nothing. The sort is
// stable on (health ascending, severity rank descending, lastTransition
// descending), so ties stay in fabric order and then fetch order.
func Aggregate(results []FabricResult, placeholderFor func(FabricResult) fault.Fault) []fault.Fault {
	var all []fault.Fault
	for _, r := range results {
		if r.Failed() {
			continue
		}
		if len(r.Faults) == 0 {
			all = append(all, placeholderFor(r))
			continue
		}
		all = append(all, r.Faults...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.FabricHealth != b.FabricHealth {
			return a.FabricHealth < b.FabricHealth
		}
		if ra, rb := a.Severity.Rank(), b.Severity.Rank(); ra != rb {
			return ra > rb
		}
		return a.LastTransition.After(b.LastTransition)
	})
	return all
}

// Placeholders returns the placeholderFor function used for a run with the
// given age window.
func Placeholders(days int, boundary time.Time) func(FabricResult) fault.Fault {
	return func(r FabricResult) fault.Fault {
		return fault.NewPlaceholder(r.Fabric, r.Health, days, boundary)
	}
}
