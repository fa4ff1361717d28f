package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/formatos-dev/formatos/internal/tree"
)

func newListCommand(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List report formats",
		Args:  cobra.NoArgs,
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

			formats := svc.Formats()
			if len(formats) == 0 {
				fmt.Println("No formats yet. Import one with 'formatos import'.")
				return nil
			}

			active, _ := svc.ActiveFormat()
			for _, f := range formats {
				marker := " "
				if f.ID == active.ID {
					marker = "*"
				}
				fmt.Printf("%s %-40s %3d nodes\n", marker, f.Name, tree.Count(f.Structure))
			}
			return nil
		},
	}
}
