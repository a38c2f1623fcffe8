package main

import (
	"fmt"
	"os"
	"shortwatch/cmd/shorts-cli/cmd"
)

func main() {
	databaseUrl, ok := os.LookupEnv("SHORTWATCH_DATABASE_URL")
	if !ok {
		fmt.Println("You should specify the database connection string in the environment variable SHORTWATCH_DATABASE_URL.")
		os.Exit(1)
	}
	cmd.DatabaseUrl = databaseUrl

	cmd.Execute()
}
