package cmd

import (
	"context"
	"fmt"
	"os"

	"shortwatch/lib/shortstore"

	"github.com/spf13/cobra"
)

var DatabaseUrl string

var store *shortstore.Store

var rootCmd = &cobra.Command{
	Use:   "shorts-cli",
	Short: "shorts-cli inspects the disclosed short positions kept by shortsyncd.",
}

func Execute() {
	var err error
	store, err = shortstore.Connect(context.Background(), DatabaseUrl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	defer store.Close()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
