package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tonhe/acifault/internal/apic"
	"github.com/tonhe/acifault/internal/fault"
)

func newCheckCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "check HOST",
		Short: "Log in to one controller and show its health",
		Long: `check logs in to a single APIC with the same transport settings as a
report run, prints the fabric health score and a count of fault records
per severity, then logs out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := s.load(cmd)
			if err != nil {
				return err
			}
			host := strings.TrimSpace(args[0])
			if strings.Contains(host, "://") {
				return fmt.Errorf("%q must be a bare host name or address", host)
			}

			creds, err := s.provider(cmd).Credentials(cmd.Context(), host)
			if err != nil {
				return err
			}

			ctx, cancel := withTimeout(cmd.Context(), s.timeout)
			defer cancel()

			client := apic.NewClient(host, s.apicOptions(), log.WithField("fabric", host))
			session, err := client.Login(ctx, creds.Username, creds.Password)
			if err != nil {
				return err
			}
			defer session.Logout(context.WithoutCancel(ctx))

			health, err := session.FabricHealth(ctx)
			if err != nil {
				return err
			}
			entries, err := session.Faults(ctx, fault.AgeBoundary(time.Now(), s.days))
			if err != nil {
				return err
			}

			counts := make(map[fault.Severity]int)
			malformed := 0
			for _, e := range entries {
				f, err := fault.Normalize(host, health, e)
				if err != nil {
					malformed++
					continue
				}
				counts[f.Severity]++
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: health %d, %d fault records in the last %d days\n", host, health, len(entries), s.days)
			for _, sev := range fault.AllSeverities() {
				if counts[sev] > 0 {
					fmt.Fprintf(out, "  %-9s %d\n", sev, counts[sev])
				}
			}
			if malformed > 0 {
				fmt.Fprintf(out, "  %-9s %d\n", "malformed", malformed)
			}
			return nil
		},
	}
}

// withTimeout bounds single-fabric commands by the request timeout plus a
// margin for the login round trip.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, 4*d)
}
