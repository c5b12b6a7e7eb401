package main

import (
	"fmt"

	"lingua-bot/internal/database"
	"lingua-bot/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply schema migrations to every configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStores(cfg.Storage)
		if err != nil {
			return err
		}
		defer st.Close()

		for path, db := range st.dbs {
			version, ok, err := database.SchemaVersion(db)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if !ok {
				return fmt.Errorf("%s: no schema version after migrating", path)
			}
			logger.Get().Info("Schema up to date", zap.String("path", path), zap.Uint("version", version))
			fmt.Fprintf(cmd.OutOrStdout(), "%s: schema version %d\n", path, version)
		}
		return nil
	},
}
