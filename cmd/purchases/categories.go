package main

import (
	"github.com/spf13/cobra"

	"purchases/internal/report"
)

func categoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the product categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return report.NewRenderer(cmd.OutOrStdout(), report.Options{NoColor: a.noColor}).RenderCategories()
		},
	}
}
