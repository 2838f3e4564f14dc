package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"purchases/internal/cli"
	"purchases/internal/core"
	"purchases/internal/log"
	"purchases/internal/report"
)

func reportCmd(a *app) *cobra.Command {
	var categories []string

	cmd := &cobra.Command{
		Use:   "report [files...]",
		Short: "Print all purchase reports",
		Long: `Load purchase records from the configured source, or from the given
JSON/YAML files and directories, and print every report.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := parseCategories(categories)
			if err != nil {
				return err
			}

			ctx, cancel := cli.SignalContext(cmd.Context())
			defer cancel()

			svc, cleanup, err := a.orders(ctx, args)
			if err != nil {
				return err
			}
			defer cleanup()

			agg, _, err := svc.Build(ctx)
			if err != nil {
				return err
			}

			if err := report.NewRenderer(cmd.OutOrStdout(), report.Options{
				Categories: cats,
				NoColor:    a.noColor,
			}).Render(agg); err != nil {
				return err
			}
			a.logger.Debug("Report rendered", log.FieldOperation, log.OpRender, log.FieldCustomers, agg.Len())
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&categories, "category", nil, "categories for the max-expense-by-category report (default CLOTHING,BOOK)")

	return cmd
}

func parseCategories(names []string) ([]core.Category, error) {
	cats := make([]core.Category, 0, len(names))
	for _, name := range names {
		c, err := core.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("--category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, nil
}
