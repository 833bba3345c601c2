package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sozercan/carprice/internal/estimator"
)

func (c *CLI) newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent estimates from the audit log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			records, err := a.Estimator.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tMANUFACTURER\tYEAR\tPRICE\tBACKEND\tPOLICY")
			for _, r := range records {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
					r.ID,
					r.CreatedAt.Format(time.RFC3339),
					r.Request.Manufacturer,
					r.Request.Year,
					estimator.DisplayPrice(r.AdjustedPrice),
					r.Backend,
					r.PolicyVersion,
				)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", estimator.DefaultHistoryLimit, "number of estimates to show")

	return cmd
}
