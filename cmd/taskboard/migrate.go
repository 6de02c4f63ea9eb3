package main

import (
	"fmt"

	"github.com/sandeepkv93/taskboard/internal/storage"
	"github.com/spf13/cobra"
)

func migrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate up|down",
		Short:     "Apply or roll back the storage schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.Open(cmd.Context(), a.storageConfig())
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer store.Close()

			m, ok := store.(storage.Migrator)
			if !ok {
				return fmt.Errorf("migrate: %T does not support migrations", store)
			}
			if args[0] == "down" {
				err = m.MigrateDown(cmd.Context())
			} else {
				err = m.MigrateUp(cmd.Context())
			}
			if err != nil {
				return err
			}
			a.logger.Infof("migrate: %s applied (storage=%s)", args[0], a.cfg.Storage.Driver)
			fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: ok\n", args[0])
			return nil
		},
	}
}
