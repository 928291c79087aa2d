// Package cli holds the liquidtab command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/Noyllopa/LiquidNewtab/internal/config"
	"github.com/Noyllopa/LiquidNewtab/internal/logger"
	"github.com/Noyllopa/LiquidNewtab/internal/version"
)

// NewRootCmd creates the liquidtab command. Without a subcommand it serves.
func NewRootCmd() *cobra.Command {
	serve := newServeCmd()

	cmd := &cobra.Command{
		Use:           "liquidtab",
		Short:         "Self-hosted new-tab page",
		Long:          "LiquidNewtab serves a new-tab page with shortcuts, search engines and a themed background. Configuration comes from LIQUIDTAB_* environment variables or a .env file.",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	cmd.AddCommand(serve)
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newImportCmd())

	return cmd
}

// loadRuntime loads the configuration and the logger shared by every command.
func loadRuntime() (*config.Config, logger.Logger) {
	cfg := config.Load()
	return cfg, logger.New(cfg.LogLevel, cfg.PrettyLog)
}
