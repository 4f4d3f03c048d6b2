package main

import (
	"log"

	"github.com/sobadon/sktv/cmd/sktv/run"
	"github.com/sobadon/sktv/cmd/sktv/show"
	"github.com/sobadon/sktv/cmd/sktv/version"
	"github.com/spf13/cobra"

	// SKTV_TZ をどの環境でも解決できるように
	_ "time/tzdata"
)

func main() {
	execute()
}

func execute() {
	var rootCmd = &cobra.Command{
		Use:   "sktv",
		Short: "slovak tv guide from xmltv feeds",
	}

	rootCmd.AddCommand(run.Command())
	rootCmd.AddCommand(show.Command())
	rootCmd.AddCommand(version.Command())

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}
