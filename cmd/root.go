package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tonhe/acifault/internal/config"
	"github.com/tonhe/acifault/internal/logging"
	"golang.org/x/term"
)

// Version is set at build time with -ldflags "-X github.com/tonhe/acifault/cmd.Version=...".
var Version = "0.1.0"

// settings is the effective configuration of one invocation: the defaults
// file overlaid with any flag given on the command line.
type settings struct {
	configPath string

	fabricFile     string
	days           int
	length         int
	maxDescLength  int
	showAcked      bool
	sameCreds      bool
	severities     string
	noVerify       bool
	forceHTTP      bool
	ignoreWarnings bool
	timeout        time.Duration
	retries        int
	parallel       int
	output         string
	browse         bool
	theme          string
	logLevel       string
}

// Execute runs the CLI with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the acifault command tree.
func NewRootCmd() *cobra.Command {
	s := &settings{}
	def := config.DefaultConfig()

	root := &cobra.Command{
		Use:   "acifault",
		Short: "Aggregate and rank faults across ACI fabrics",
		Long: `acifault logs in to every APIC listed in the fabric file, collects recent
faults and the fabric health score, and prints one table ranked by fabric
health, severity and recency.

Credentials are prompted for (or read from ACIFAULT_USERNAME and
ACIFAULT_PASSWORD) and never stored.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := s.load(cmd)
			if err != nil {
				return err
			}
			return runReport(cmd, s, log)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&s.configPath, "config", "", "defaults file (default $XDG_CONFIG_HOME/acifault/config.toml)")
	pf.BoolVar(&s.noVerify, "disable-certificate-check", !def.VerifyTLS, "skip TLS certificate verification")
	pf.BoolVar(&s.forceHTTP, "unsecure-transport", def.ForceHTTP, "talk to the controllers over plain HTTP")
	pf.BoolVar(&s.ignoreWarnings, "ignore-warnings", false, "only log errors")
	pf.DurationVar(&s.timeout, "timeout", def.Timeout, "per-request timeout")
	pf.IntVar(&s.retries, "retries", def.Retries, "retries on network errors and 5xx responses")
	pf.StringVar(&s.logLevel, "log-level", def.LogLevel, "log level: debug, info, warn or error")

	f := root.Flags()
	f.StringVarP(&s.fabricFile, "fabric", "f", def.FabricFile, "fabric file (.json, .yaml or .toml)")
	f.IntVarP(&s.days, "days", "d", def.MaxAgeDays, "only report faults that changed within this many days")
	f.IntVarP(&s.length, "length", "l", def.DisplayLength, "truncate descriptions to this many characters in the output")
	f.IntVar(&s.maxDescLength, "max-desc-length", def.MaxDescLength, "drop faults whose description is longer than this (0 keeps all)")
	f.BoolVarP(&s.showAcked, "ack", "a", def.ShowAcked, "include acknowledged faults")
	f.BoolVar(&s.sameCreds, "same-credentials", def.SameCredentials, "ask for credentials once for all fabrics")
	f.StringVar(&s.severities, "faults", strings.Join(def.Severities, ","), "comma-separated severities to report")
	f.IntVar(&s.parallel, "parallel", def.Parallel, "fabrics to poll at once")
	f.StringVarP(&s.output, "output", "o", def.Output, "output format: table, json or csv")
	f.BoolVar(&s.browse, "browse", false, "browse the report interactively")
	f.StringVar(&s.theme, "theme", def.Theme, "color theme (see 'acifault themes')")

	root.AddCommand(newCheckCmd(s), newConfigCmd(s), newThemesCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "acifault v%s\n", Version)
		},
	}
}

// load reads the defaults file, applies it under any flag set on the command
// line and configures logging.
func (s *settings) load(cmd *cobra.Command) (*logrus.Entry, error) {
	cfg, err := s.loadConfig()
	if err != nil {
		return nil, err
	}
	s.apply(cmd.Flags(), cfg)

	level, err := logging.ParseLevel(s.logLevel)
	if err != nil {
		return nil, err
	}
	log := logging.Init(cmd.ErrOrStderr(), level, s.ignoreWarnings)

	if s.noVerify {
		log.Warn("TLS certificate verification is disabled")
	}
	if s.forceHTTP {
		log.Warn("using plain HTTP; credentials are sent unencrypted")
	}
	return log, nil
}

func (s *settings) loadConfig() (*config.Config, error) {
	path := s.configPath
	if path == "" {
		var err error
		if path, err = config.GetConfigPath(); err != nil {
			return config.DefaultConfig(), nil
		}
	}
	return config.LoadConfig(path)
}

// apply copies config values into every setting whose flag was not given.
func (s *settings) apply(flags *pflag.FlagSet, cfg *config.Config) {
	unset := func(name string) bool {
		fl := flags.Lookup(name)
		return fl == nil || !fl.Changed
	}
	if unset("fabric") {
		s.fabricFile = cfg.FabricFile
	}
	if unset("days") {
		s.days = cfg.MaxAgeDays
	}
	if unset("length") {
		s.length = cfg.DisplayLength
	}
	if unset("max-desc-length") {
		s.maxDescLength = cfg.MaxDescLength
	}
	if unset("ack") {
		s.showAcked = cfg.ShowAcked
	}
	if unset("same-credentials") {
		s.sameCreds = cfg.SameCredentials
	}
	if unset("faults") {
		s.severities = strings.Join(cfg.Severities, ",")
	}
	if unset("disable-certificate-check") {
		s.noVerify = !cfg.VerifyTLS
	}
	if unset("unsecure-transport") {
		s.forceHTTP = cfg.ForceHTTP
	}
	if unset("timeout") {
		s.timeout = cfg.Timeout
	}
	if unset("retries") {
		s.retries = cfg.Retries
	}
	if unset("parallel") {
		s.parallel = cfg.Parallel
	}
	if unset("output") {
		s.output = cfg.Output
	}
	if unset("theme") {
		s.theme = cfg.Theme
	}
	if unset("log-level") {
		s.logLevel = cfg.LogLevel
	}
}

// isTerminal reports whether v is a terminal file.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
