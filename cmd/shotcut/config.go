package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/keagan/shotcut/internal/config"
	"github.com/keagan/shotcut/internal/ui"
	"github.com/spf13/cobra"
)

var (
	configTOML  bool
	configForce bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Config management commands",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := config.FromContext(cmd.Context()).Marshal(configTOML)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration to a file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "./shotcut.yaml"
		if len(args) == 1 {
			path = args[0]
		}

		if _, err := os.Stat(path); err == nil && !configForce {
			ok, err := ui.Terminal{}.Confirm(fmt.Sprintf("%s exists, overwrite", path))
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s already exists", path)
			}
		}

		if err := config.Default().Save(path); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.SuccessStyle.Render("✅ wrote "+path))
		fmt.Fprintln(cmd.OutOrStdout(), "searched on startup: "+strings.Join(config.SearchPaths(), ", "))
		return nil
	},
}

func init() {
	configShowCmd.Flags().BoolVar(&configTOML, "toml", false, "print as TOML")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")
}
