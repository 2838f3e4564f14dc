package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"purchases/internal/amqp"
	"purchases/internal/cli"
	"purchases/internal/log"
)

func publishCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "publish [files...]",
		Short: "Publish purchase records from files to the AMQP queue",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cli.SignalContext(cmd.Context())
			defer cancel()

			svc, cleanup, err := a.orders(ctx, args)
			if err != nil {
				return err
			}
			defer cleanup()

			records, _, err := svc.Records(ctx)
			if err != nil {
				return err
			}

			client, err := amqp.NewClient(a.cfg.AMQPURL, a.cfg.AMQPExchange, a.cfg.AMQPQueue, a.logger)
			if err != nil {
				return err
			}
			defer client.Close()

			n, err := client.Publisher().PublishRecords(ctx, records)
			if err != nil {
				return fmt.Errorf("published %d of %d records: %w", n, len(records), err)
			}
			a.logger.Debug("Records published", log.FieldOperation, log.OpPublish, log.FieldRecords, n, "queue", a.cfg.AMQPQueue)

			fmt.Fprintf(cmd.OutOrStdout(), "Published %s records to %s\n", humanize.Comma(int64(n)), a.cfg.AMQPQueue)
			return nil
		},
	}
}
