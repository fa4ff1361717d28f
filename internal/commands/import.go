package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/formatos-dev/formatos/internal/catalog"
	"github.com/formatos-dev/formatos/internal/excel"
	"github.com/formatos-dev/formatos/internal/tree"
)

func newImportCommand(opts *rootOpts) *cobra.Command {
	var name string
	var legacyKinds bool

	cmd := &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Import a format from an XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := opts.logger()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			cfg, svc, err := opts.loadService(logger)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			importer := &excel.Importer{
				Accounts:            catalog.NewAccounts(svc.Accounts()),
				CostCenters:         catalog.NewCostCenters(svc.CostCenters()),
				Logger:              logger,
				LegacyKindInference: legacyKinds || cfg.Import.LegacyKindInference,
			}
			format, err := importer.Import(data)
			if err != nil {
				return fmt.Errorf("importing %s: %w", args[0], err)
			}

			// Default the format name to the uploaded file name.
			if name == "" {
				base := filepath.Base(args[0])
				name = strings.TrimSuffix(base, filepath.Ext(base))
			}
			format.Name = name

			if _, err := svc.AddImportedFormat(format); err != nil {
				return err
			}

			fmt.Printf("Imported %q (%d nodes)\n", format.Name, tree.Count(format.Structure))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "name for the imported format (default: file name)")
	cmd.Flags().BoolVar(&legacyKinds, "legacy-kinds", false, "accept files without a Node Kind column")

	return cmd
}
