package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/tonhe/acifault/internal/config"
	"github.com/tonhe/acifault/tui/styles"
)

func newConfigCmd(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the defaults file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the defaults file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := s.resolvedConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := s.loadConfig()
			if err != nil {
				return err
			}
			cfg.TimeoutStr = cfg.Timeout.String()
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "theme NAME",
		Short: "Set the default theme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if styles.GetThemeByName(name) == nil {
				return fmt.Errorf("unknown theme %q; run 'acifault themes' to see available themes", name)
			}

			cfg, err := s.loadConfig()
			if err != nil {
				return err
			}
			cfg.Theme = name
			if err := s.saveConfig(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Default theme set to %q.\n", name)
			return nil
		},
	})

	return cmd
}

func newThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List available themes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range styles.ListThemes() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}

func (s *settings) resolvedConfigPath() (string, error) {
	if s.configPath != "" {
		return s.configPath, nil
	}
	return config.GetConfigPath()
}

// saveConfig writes the config to disk, creating directories as needed.
func (s *settings) saveConfig(cfg *config.Config) error {
	path, err := s.resolvedConfigPath()
	if err != nil {
		return err
	}
	if s.configPath == "" {
		if err := config.EnsureConfigDir(); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	if err := config.SaveConfig(cfg, filepath.Clean(path)); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}
