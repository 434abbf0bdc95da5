package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/tonhe/acifault/internal/apic"
	"github.com/tonhe/acifault/internal/fault"
	"github.com/tonhe/acifault/internal/identity"
	"github.com/tonhe/acifault/internal/inventory"
)

// Config controls a Manager run.
type Config struct {
	Options  apic.Options
	Criteria fault.Criteria
	Provider identity.Provider
	Parallel int // fabrics polled at once; <= 1 is sequential
	Log      *logrus.Entry
}

// Manager polls every fabric of the inventory and collects one result per
// fabric, in inventory order.
type Manager struct {
	mu          sync.Mutex
	cfg         Config
	subscribers []chan RunEvent
}

// NewManager creates a Manager.
func NewManager(cfg Config) *Manager {
	if cfg.Log == nil {
		cfg.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Manager{cfg: cfg}
}

// Subscribe returns a channel that receives progress events. Delivery is
// best effort; the channel is closed when Run returns.
func (m *Manager) Subscribe() <-chan RunEvent {
	ch := make(chan RunEvent, 16)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, ch)
	return ch
}

// Run polls all targets and returns their results indexed like targets.
//
// Sequentially, credentials are requested right before each fabric is
// contacted. In parallel mode every credential is resolved up front, one
// fabric at a time, before any worker starts.
func (m *Manager) Run(ctx context.Context, targets []inventory.Target) []FabricResult {
	defer m.closeSubscribers()

	results := make([]FabricResult, len(targets))
	if m.cfg.Parallel <= 1 || len(targets) < 2 {
		for i, t := range targets {
			creds, err := m.credentials(ctx, t)
			results[i] = m.pollOne(ctx, i, t, creds, err)
		}
		return results
	}

	creds := make([]identity.Credentials, len(targets))
	credErrs := make([]error, len(targets))
	for i, t := range targets {
		creds[i], credErrs[i] = m.credentials(ctx, t)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	workers := min(m.cfg.Parallel, len(targets))
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = m.pollOne(ctx, i, targets[i], creds[i], credErrs[i])
			}
		}()
	}
	for i := range targets {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

func (m *Manager) credentials(ctx context.Context, t inventory.Target) (identity.Credentials, error) {
	if err := ctx.Err(); err != nil {
		return identity.Credentials{}, err
	}
	creds, err := m.cfg.Provider.Credentials(ctx, t.Host)
	if err != nil {
		return identity.Credentials{}, fmt.Errorf("credentials for %s: %w", t.Host, err)
	}
	return creds, nil
}

func (m *Manager) pollOne(ctx context.Context, i int, t inventory.Target, creds identity.Credentials, credErr error) FabricResult {
	m.notify(RunEvent{Index: i, Target: t, State: RunPolling})

	var res FabricResult
	switch {
	case credErr != nil:
		res = FabricResult{Target: t, Fabric: t.Name(), Err: credErr}
	case ctx.Err() != nil:
		res = FabricResult{Target: t, Fabric: t.Name(), Err: ctx.Err()}
	default:
		res = NewPoller(t, m.cfg.Options, m.cfg.Criteria, m.cfg.Log).Poll(ctx, creds)
	}

	if res.Err != nil {
		m.cfg.Log.WithField("fabric", t.Host).WithError(res.Err).Error("fabric failed")
	}
	m.notify(RunEvent{Index: i, Target: t, State: RunDone, Result: &res})
	return res
}

// notify sends event to all subscribers (non-blocking).
func (m *Manager) notify(event RunEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

func (m *Manager) closeSubscribers() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.subscribers {
		close(ch)
	}
	m.subscribers = nil
}
