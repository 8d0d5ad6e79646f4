package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/aniarr/internal/config"
	"github.com/Nomadcxx/aniarr/internal/paths"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage aniarr configuration",
		Long: `Commands for managing aniarr configuration.

The config file is looked up in this order:
  --config PATH, ~/.config/aniarr/config.toml, ~/.config/aniarr/aniarr.conf

Examples:
  aniarr config init              # Create default config file
  aniarr config show              # Display effective configuration
  aniarr config path              # Show config file path`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

// targetConfigPath is where config init writes.
func targetConfigPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return paths.ConfigPath()
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Long: `Create a new configuration file holding the built-in rules.

Edit the rules to teach aniarr new extras patterns. Rules are tried in
order and the first match wins.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := targetConfigPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			}

			if err := config.DefaultConfig().Save(path); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Created config file: %s\n", path)
			fmt.Fprintln(out, "\nNext steps:")
			fmt.Fprintln(out, "  1. Edit the rules to match your releases")
			fmt.Fprintln(out, "  2. Run 'aniarr config show' to review settings")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing config file")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load(cfgFile)
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Config source: %s\n", cfg.Source)
			for _, w := range cfg.Warnings {
				fmt.Fprintf(out, "Warning: %s\n", w)
			}
			fmt.Fprintln(out)

			text, err := cfg.ToTOML()
			if err != nil {
				return fmt.Errorf("failed to render config: %w", err)
			}
			fmt.Fprint(out, text)
			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if path := config.Lookup(cfgFile); path != "" {
				fmt.Fprintln(out, path)
				return nil
			}
			path, err := paths.ConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s (not created, using built-in defaults)\n", path)
			return nil
		},
	}
}
