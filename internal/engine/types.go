package engine

import (
	"time"

	"github.com/tonhe/acifault/internal/fault"
	"github.com/tonhe/acifault/internal/inventory"
)

// FabricResult is the outcome of polling one fabric.
type FabricResult struct {
	Target  inventory.Target
	Fabric  string        // name shown in the report
	Health  int           // fabric health score, valid when Err is nil
	Faults  []fault.Fault // normalized and filtered, in fetch order
	Fetched int           // raw records returned by the controller
	Skipped int           // records dropped as malformed
	Err     error         // non-nil when the fabric could not be polled
	Elapsed time.Duration
}

// Failed reports whether the fabric contributed nothing to the report.
func (r FabricResult) Failed() bool { return r.Err != nil }

// RunState represents the lifecycle state of a run.
type RunState int

const (
	RunPending RunState = iota
	RunPolling
	RunDone
)

func (s RunState) String() string {
	switch s {
	case RunPending:
		return "pending"
	case RunPolling:
		return "polling"
	case RunDone:
		return "done"
	default:
		return "unknown"
	}
}

// RunEvent is emitted to subscribers as fabrics start and finish.
type RunEvent struct {
	Index  int // position of the fabric in the inventory
	Target inventory.Target
	State  RunState
	Result *FabricResult // set when State is RunDone
}
