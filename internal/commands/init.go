package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/formatos-dev/formatos/internal/config"
	"github.com/formatos-dev/formatos/internal/store"
)

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new formatos project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runInit(absDir)
		},
	}
}

func runInit(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating project dir: %w", err)
	}

	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	cfg := config.Default(dir)
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Seed the store with empty collections so later commands have a
	// consistent document to read.
	st := store.NewFileStore(cfg.StorePath())
	for _, key := range []string{store.KeyFormats, store.KeyAccounts, store.KeyCostCenters} {
		if err := st.Set(key, []any{}); err != nil {
			return fmt.Errorf("seeding store: %w", err)
		}
	}

	fmt.Printf("Initialized formatos project at %s\n", dir)
	return nil
}
