package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/saep/inventory-console/internal/render"
)

func newAlertsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "List stock records at or below their minimum",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := opts.load(cmd.Context(), cmd.ErrOrStderr())
			dash := render.Dashboard(snap)
			out := cmd.OutOrStdout()
			if len(dash.Alerts) == 0 {
				fmt.Fprintln(out, "Nenhum alerta de estoque.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ESTOQUE\tPRODUTO\tATUAL\tMINIMO")
			for _, a := range dash.Alerts {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", a.StockID, a.ProductName, a.Current, a.Minimum)
			}
			return w.Flush()
		},
	}
}
