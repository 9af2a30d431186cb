package cmd

import (
	"fmt"

	"github.com/jsphweid/harp/chart"
	"github.com/jsphweid/harp/sample"
	"github.com/spf13/cobra"
)

var exportFromMeasure int

func init() {
	exportCmd.Flags().IntVarP(&exportFromMeasure, "from", "f", 0, "measure the preview starts at")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <chart> <out.mid>",
	Short: "Exports a midi preview",
	Long:  `Writes the notes of a chart as a MIDI file, with bpm changes and stops applied.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			panic("Need 2 args...")
		}
		if err := export(args[0], args[1], exportFromMeasure); err != nil {
			panic(err)
		}
	},
}

func export(path string, out string, fromMeasure int) error {
	c, err := chart.ReadChartFile(path)
	if err != nil {
		return err
	}
	var fromTick int
	if fromMeasure > 0 && fromMeasure < len(c.Measures) {
		fromTick = c.Measures[fromMeasure].StartTick
	}

	s := c.Score()
	fmt.Printf("Exporting %v notes from tick %v\n", len(s.Notes), fromTick)
	return sample.WriteFile(sample.Create(s, c.Converter(s), fromTick), out)
}
