package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/formatos-dev/formatos/internal/buildinfo"
	"github.com/formatos-dev/formatos/internal/config"
	"github.com/formatos-dev/formatos/internal/store"
)

// rootOpts carries the persistent flags shared by all subcommands.
type rootOpts struct {
	configPath string
	verbose    bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOpts{}

	rootCmd := &cobra.Command{
		Use:     "formatos",
		Short:   "Author hierarchical financial report templates",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", config.FileName, "path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newListCommand(opts))
	rootCmd.AddCommand(newExportCommand(opts))
	rootCmd.AddCommand(newImportCommand(opts))

	return rootCmd
}

func (o *rootOpts) logger() (*zap.Logger, error) {
	if o.verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// loadService opens the configured store and builds the state service.
func (o *rootOpts) loadService(logger *zap.Logger) (*config.Config, *store.Service, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	svc, err := store.NewService(store.NewFileStore(cfg.StorePath()), logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, svc, nil
}
