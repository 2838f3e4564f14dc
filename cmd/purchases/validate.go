package main

import (
	"github.com/spf13/cobra"

	"purchases/internal/cli"
	"purchases/internal/report"
	"purchases/internal/validation"
)

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [files...]",
		Short: "Check purchase records and list every problem",
		Long: `Check every record for a valid age, cash, prices and categories.
Exits with status 2 when any record has problems.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cli.SignalContext(cmd.Context())
			defer cancel()

			// Violations are the output here, never a reason to stop early.
			a.cfg.ValidationMode = string(validation.Permissive)

			svc, cleanup, err := a.orders(ctx, args)
			if err != nil {
				return err
			}
			defer cleanup()

			_, rep, err := svc.Records(ctx)
			if err != nil {
				return err
			}

			if err := report.NewRenderer(cmd.OutOrStdout(), report.Options{NoColor: a.noColor}).RenderValidation(rep); err != nil {
				return err
			}
			if !rep.Valid() {
				return errInvalidRecords
			}
			return nil
		},
	}
}
