package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"purchases/internal/cli"
	"purchases/internal/log"
	"purchases/internal/storage"
)

func importCmd(a *app) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Store purchase records from files in SQLite",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cli.SignalContext(cmd.Context())
			defer cancel()

			if dbPath == "" {
				dbPath = a.cfg.SQLiteDBPath
			}

			svc, cleanup, err := a.orders(ctx, args)
			if err != nil {
				return err
			}
			defer cleanup()

			records, _, err := svc.Records(ctx)
			if err != nil {
				return err
			}

			repo, err := storage.NewSQLiteRepository(dbPath, a.logger)
			if err != nil {
				return err
			}
			defer repo.Close()

			n, err := repo.Import(ctx, records)
			if err != nil {
				return err
			}
			a.logger.Debug("Records imported", log.FieldOperation, log.OpImport, log.FieldRecords, len(records), "db_path", dbPath)

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s purchases from %s records into %s\n",
				humanize.Comma(int64(n)), humanize.Comma(int64(len(records))), dbPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default SQLITE_DB_PATH)")

	return cmd
}
