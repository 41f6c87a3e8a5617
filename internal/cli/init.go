package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/casefile/pkg/types"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize casefile storage",
		Long: `Create the configuration and data directories, write a default
config.yaml if there is none, and create or migrate the case store.
Running init again is harmless.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := a.configDirPath()
			if err != nil {
				return systemError(fmt.Errorf("resolve config dir: %w", err))
			}
			dataDir, err := a.dataDirPath()
			if err != nil {
				return systemError(fmt.Errorf("resolve data dir: %w", err))
			}
			// Only an explicit --data-dir is pinned in the new config.yaml.
			pinned := ""
			if a.flags.dataDir != "" {
				pinned = dataDir
			}
			wrote, err := writeConfigIfMissing(configDir, pinned)
			if err != nil {
				return systemError(err)
			}

			var version int
			err = a.withStore(cmd, func(ctx context.Context, store types.Store) error {
				version, err = store.SchemaVersion(ctx)
				return err
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return printJSON(w, map[string]any{
					"config_dir":     configDir,
					"data_dir":       dataDir,
					"config_written": wrote,
					"schema_version": version,
				})
			}
			if wrote {
				fmt.Fprintf(w, "Wrote %s/%s\n", configDir, configFileExt)
			}
			fmt.Fprintf(w, "Case store ready in %s (schema version %d)\n", dataDir, version)
			return nil
		},
	}
}

func newMigrateCmd(a *app) *cobra.Command {
	var status bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Bring the case store schema up to date",
		Long: `Migrate upgrades an older case store layout in place. Every step is
idempotent, so running migrate on a current store changes nothing.
The store is also migrated whenever any command opens it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var version int
			err := a.withStore(cmd, func(ctx context.Context, store types.Store) (err error) {
				version, err = store.SchemaVersion(ctx)
				return err
			})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return printJSON(w, map[string]int{"schema_version": version})
			}
			if status {
				fmt.Fprintf(w, "Schema version %d\n", version)
				return nil
			}
			fmt.Fprintf(w, "Migrated to schema version %d\n", version)
			return nil
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "print the schema version only")
	return cmd
}
