package engine

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tonhe/acifault/internal/apic"
	"github.com/tonhe/acifault/internal/fault"
	"github.com/tonhe/acifault/internal/identity"
	"github.com/tonhe/acifault/internal/inventory"
)

// Poller runs the fault pipeline for a single fabric: login, fetch faults
// and health, logout, then normalize and filter.
type Poller struct {
	target   inventory.Target
	opts     apic.Options
	criteria fault.Criteria
	log      *logrus.Entry
}

// NewPoller creates a Poller for target.
func NewPoller(target inventory.Target, opts apic.Options, criteria fault.Criteria, log *logrus.Entry) *Poller {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Poller{
		target:   target,
		opts:     opts,
		criteria: criteria,
		log:      log.WithField("fabric", target.Host),
	}
}

// Poll contacts the fabric with creds. Any login or query failure is
// recorded on the result; it never aborts the caller's run.
func (p *Poller) Poll(ctx context.Context, creds identity.Credentials) (res FabricResult) {
	start := time.Now()
	res = FabricResult{Target: p.target, Fabric: p.target.Name()}
	defer func() { res.Elapsed = time.Since(start) }()

	client := apic.NewClient(p.target.Host, p.opts, p.log)
	session, err := client.Login(ctx, creds.Username, creds.Password)
	if err != nil {
		res.Err = err
		return res
	}
	// Logout must run even when the caller's context is already cancelled.
	defer session.Logout(context.WithoutCancel(ctx))

	entries, err := session.Faults(ctx, p.criteria.MinTransition)
	if err != nil {
		res.Err = err
		return res
	}
	health, err := session.FabricHealth(ctx)
	if err != nil {
		res.Err = err
		return res
	}

	res.Health = health
	res.Fetched = len(entries)
	res.Faults = p.normalize(entries, health, &res.Skipped)
	res.Faults = fault.Filter(res.Faults, p.criteria)

	p.log.WithFields(logrus.Fields{
		"health":  health,
		"fetched": res.Fetched,
		"kept":    len(res.Faults),
		"skipped": res.Skipped,
	}).Debug("fabric polled")
	return res
}

func (p *Poller) normalize(entries []apic.FaultEntry, health int, skipped *int) []fault.Fault {
	faults := make([]fault.Fault, 0, len(entries))
	for _, entry := range entries {
		f, err := fault.Normalize(p.target.Name(), health, entry)
		if err != nil {
			p.log.WithError(err).WithField("tag", entry.Tag).Warn("skipping fault record")
			*skipped++
			continue
		}
		faults = append(faults, f)
	}
	return faults
}
