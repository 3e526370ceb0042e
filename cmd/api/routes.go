package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/C-1995-O1-HALE-POPP/ris-system/interfaces/navigation"
)

func newRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the dashboard route table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PATH\tVIEW\tACCESS\tREDIRECT")
			for _, r := range navigation.Table {
				view, redirect := r.View, r.Redirect
				if view == "" {
					view = "-"
				}
				if redirect == "" {
					redirect = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Path, view, r.Access, redirect)
			}
			return w.Flush()
		},
	}
}
