package cmd

import (
	"fmt"
	"os"

	"shortwatch/cmd/shorts-cli/utils"
	"shortwatch/lib/shorts"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(activeCmd)
}

var activeCmd = &cobra.Command{
	Use:   "active <company>",
	Short: "Prints the stored alive short positions against a company.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		companies, err := store.StockListing(cmd.Context())
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		company, ok := shorts.FindCompany(companies, args[0])
		if !ok {
			fmt.Fprintf(os.Stderr, "no company matching %q in the stored listing\n", args[0])
			os.Exit(1)
		}

		positions, err := store.ActivePositions(cmd.Context(), company.Ticker)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"Id", "Owner", "Weight %", "Open Date"})
		var total float64
		for _, p := range positions {
			total += p.Weight
			t.AppendRow(table.Row{p.ID, p.Owner, fmt.Sprintf("%.2f", p.Weight), p.OpenDate.Format("2006-01-02")})
		}
		t.AppendFooter(table.Row{"", "Total", fmt.Sprintf("%.2f", total), ""})
		t.Render()
	},
}
