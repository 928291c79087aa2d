package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Noyllopa/LiquidNewtab/internal/app"
	"github.com/Noyllopa/LiquidNewtab/internal/config"
	"github.com/Noyllopa/LiquidNewtab/internal/logger"
	"github.com/Noyllopa/LiquidNewtab/internal/transfer"
)

// newExportCmd creates the export subcommand
func newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored state as an export document",
		Long:  "Export every stored field and the favicon cache of the configured store as JSON, to stdout or to the file given with --output.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log := loadRuntime()
			defer func() { _ = log.Sync() }()

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}
			return runExport(cmd.Context(), cfg, log, w)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write instead of stdout")
	return cmd
}

// newImportCmd creates the import subcommand
func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Load an export document into the store",
		Long:  "Import overwrites every field present in the document. Use - to read from stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log := loadRuntime()
			defer func() { _ = log.Sync() }()

			r := cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", args[0], err)
				}
				defer func() { _ = f.Close() }()
				r = f
			}

			report, err := runImport(cmd.Context(), cfg, log, r)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d fields, %d favicons\n",
				len(report.Fields), report.Favicons)
			return err
		},
	}
}

func runExport(ctx context.Context, cfg *config.Config, log logger.Logger, w io.Writer) error {
	store, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	services := app.NewServices(cfg, store, nil, log)
	defer services.Close(log)

	return services.Transfer.Export(ctx, w)
}

func runImport(ctx context.Context, cfg *config.Config, log logger.Logger, r io.Reader) (transfer.Report, error) {
	store, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		return transfer.Report{}, err
	}
	services := app.NewServices(cfg, store, nil, log)
	defer services.Close(log)

	return services.Transfer.Import(ctx, r)
}
