package main

import (
	"fmt"
	"text/tabwriter"

	"propscout_backend/internal/analysis/scoring"

	"github.com/spf13/cobra"
)

func newTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "Print the city reference tables used for scoring",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "CITY\tTIER\tPRICE/M2\tRENT/M2\tSOURCE")
			for _, row := range scoring.ReferenceTable() {
				fmt.Fprintf(tw, "%s\t%s\t%.0f\t%.0f\t%s\n", row.City, row.Tier, row.PricePerSqm, row.RentPerSqm, source(row))
			}
			return tw.Flush()
		},
	}
}

func source(row scoring.CityReference) string {
	switch {
	case row.HasOwnPrice && row.HasOwnRent:
		return "city"
	case row.HasOwnPrice:
		return "city price, default rent"
	case row.HasOwnRent:
		return "default price, city rent"
	default:
		return "default"
	}
}
