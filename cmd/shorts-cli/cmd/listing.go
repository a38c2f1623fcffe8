package cmd

import (
	"fmt"
	"os"

	"shortwatch/cmd/shorts-cli/utils"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listingCmd)
}

var listingCmd = &cobra.Command{
	Use:   "listing",
	Short: "Prints the stored company directory.",
	Run: func(cmd *cobra.Command, args []string) {
		companies, err := store.StockListing(cmd.Context())
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"Ticker", "Name", "ISIN", "NIF"})
		for _, c := range companies {
			t.AppendRow(table.Row{c.Ticker, c.Name, c.ISIN, c.NIF})
		}
		t.Render()
	},
}
