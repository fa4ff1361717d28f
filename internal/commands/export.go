package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/formatos-dev/formatos/internal/catalog"
	"github.com/formatos-dev/formatos/internal/excel"
)

func newExportCommand(opts *rootOpts) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export <format-name>",
		Short: "Export a format to an XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := opts.logger()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			_, svc, err := opts.loadService(logger)
			if err != nil {
				return err
			}

			format, ok := svc.FormatByName(args[0])
			if !ok {
				return fmt.Errorf("no format named %q", args[0])
			}

			exporter := &excel.Exporter{
				CostCenters: catalog.NewCostCenters(svc.CostCenters()),
				Logger:      logger,
			}
			data, err := exporter.Export(format)
			if err != nil {
				return fmt.Errorf("exporting %q: %w", format.Name, err)
			}

			if out == "" {
				out = format.Name + ".xlsx"
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}

			fmt.Printf("Exported %q to %s\n", format.Name, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default <format-name>.xlsx)")

	return cmd
}
