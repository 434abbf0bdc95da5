package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tonhe/acifault/internal/apic"
	"github.com/tonhe/acifault/internal/engine"
	"github.com/tonhe/acifault/internal/fault"
	"github.com/tonhe/acifault/internal/identity"
	"github.com/tonhe/acifault/internal/inventory"
	"github.com/tonhe/acifault/internal/report"
	"github.com/tonhe/acifault/tui"
	"github.com/tonhe/acifault/tui/styles"
)

func runReport(cmd *cobra.Command, s *settings, log *logrus.Entry) error {
	sevs, err := fault.ParseSeverities(s.severities)
	if err != nil {
		return fmt.Errorf("--faults: %w", err)
	}
	format, err := report.ParseFormat(s.output)
	if err != nil {
		return err
	}
	switch {
	case s.days < 0 || s.days > fault.MaxAgeDays:
		return fmt.Errorf("--days must be between 0 and %d, got %d", fault.MaxAgeDays, s.days)
	case s.maxDescLength < 0:
		return fmt.Errorf("--max-desc-length must not be negative, got %d", s.maxDescLength)
	case s.parallel < 0:
		return fmt.Errorf("--parallel must not be negative, got %d", s.parallel)
	}
	if s.browse && !isTerminal(cmd.OutOrStdout()) {
		return errors.New("--browse needs a terminal")
	}

	targets, err := inventory.Load(s.fabricFile)
	if err != nil {
		return err
	}

	provider := s.provider(cmd)
	if cache, ok := provider.(*identity.SharedCache); ok {
		defer cache.Forget()
	}

	boundary := fault.AgeBoundary(time.Now(), s.days)
	mgr := engine.NewManager(engine.Config{
		Options: s.apicOptions(),
		Criteria: fault.Criteria{
			MinTransition: boundary,
			IncludeAcked:  s.showAcked,
			Severities:    sevs,
			MaxDescLength: s.maxDescLength,
		},
		Provider: provider,
		Parallel: s.parallel,
		Log:      log,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	events := mgr.Subscribe()
	go func() {
		defer close(done)
		logProgress(log, events, len(targets))
	}()
	results := mgr.Run(ctx, targets)
	<-done

	faults := engine.Aggregate(results, engine.Placeholders(s.days, boundary))
	failures := report.Summary(results)

	if s.browse {
		return tui.Run(tui.NewAppModel(tui.Report{
			Faults:     faults,
			Fabrics:    len(targets),
			Failed:     len(failures),
			Since:      boundary,
			DescLength: s.length,
			Version:    Version,
		}, s.theme))
	}

	opts := report.Options{Format: format, DescLength: s.length}
	if format == report.FormatTable && isTerminal(cmd.OutOrStdout()) {
		opts.Styles = styles.NewStyles(styles.Resolve(s.theme))
	}
	if err := report.Render(cmd.OutOrStdout(), faults, opts); err != nil {
		return err
	}

	printFailures(cmd.ErrOrStderr(), failures, len(targets))
	return nil
}

// provider returns where credentials come from: the environment first, then
// an interactive prompt. With --same-credentials the answer is shared by
// every fabric.
func (s *settings) provider(cmd *cobra.Command) identity.Provider {
	var p identity.Provider = identity.Chain{
		identity.EnvProvider{},
		identity.NewPrompter(cmd.InOrStdin(), cmd.ErrOrStderr()),
	}
	if s.sameCreds {
		p = identity.NewSharedCache(p)
	}
	return p
}

func (s *settings) apicOptions() apic.Options {
	opts := apic.DefaultOptions()
	opts.VerifyTLS = !s.noVerify
	opts.Timeout = s.timeout
	opts.Retries = s.retries
	if s.forceHTTP {
		opts.Scheme = "http"
	}
	return opts
}

func logProgress(log *logrus.Entry, events <-chan engine.RunEvent, total int) {
	finished := 0
	for ev := range events {
		entry := log.WithField("fabric", ev.Target.Host)
		switch ev.State {
		case engine.RunPolling:
			entry.Debug("polling fabric")
		case engine.RunDone:
			finished++
			if ev.Result.Err == nil {
				entry.WithFields(logrus.Fields{
					"health":   ev.Result.Health,
					"faults":   len(ev.Result.Faults),
					"elapsed":  ev.Result.Elapsed.Round(time.Millisecond),
					"progress": fmt.Sprintf("%d/%d", finished, total),
				}).Info("fabric done")
			}
		}
	}
}

func printFailures(w io.Writer, failures []string, total int) {
	if len(failures) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%d of %d fabrics could not be polled:\n", len(failures), total)
	for _, line := range failures {
		fmt.Fprintf(w, "  %s\n", line)
	}
}
