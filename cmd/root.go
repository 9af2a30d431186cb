package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "harp",
	Short: "BMS score extraction and timing",
	Long:  `harp decodes tokenized BMS charts into tick ordered events and converts between chart ticks and elapsed playback time.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
