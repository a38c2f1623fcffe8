package cmd

import (
	"fmt"
	"os"

	"shortwatch/cmd/shorts-cli/utils"
	"shortwatch/lib/scrapers/cnmv"
	"shortwatch/lib/shorts"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check <company>",
	Short: "Scrapes the disclosed short positions against a company right now. Accepts a ticker, ISIN, NIF or a (fuzzy) name.",
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

		client, err := cnmv.NewClient(cnmv.ClientOptions{})
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		snapshot, err := client.ShortPositions(cmd.Context(), company)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		fmt.Printf("%s (%s)\n", company.Name, company.Ticker)

		t := utils.NewTable()
		t.AppendHeader(table.Row{"Owner", "Weight %", "Open Date"})
		for _, p := range snapshot.Positions {
			t.AppendRow(table.Row{p.Owner, fmt.Sprintf("%.2f", p.Weight), p.OpenDate.Format("2006-01-02")})
		}
		t.AppendFooter(table.Row{"Total", fmt.Sprintf("%.2f", snapshot.Total), ""})
		t.Render()
	},
}
