package cmd

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/jsphweid/harp/catalog"
	"github.com/jsphweid/harp/chart"
	"github.com/jsphweid/harp/chord"
	"github.com/spf13/cobra"
)

var inspectCheckpoints bool

func init() {
	inspectCmd.Flags().BoolVarP(&inspectCheckpoints, "checkpoints", "c", false, "print the tempo checkpoints")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <chart>",
	Short: "Inspects a chart",
	Long:  `Prints the summary of a tokenized chart file.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			panic("Need 1 arg...")
		}
		inspect(args[0])
	},
}

func formatSeconds(sec float64) string {
	return durafmt.Parse(time.Duration(sec * float64(time.Second))).LimitFirstN(2).String()
}

func inspect(path string) {
	c, err := chart.ReadChartFile(path)
	if err != nil {
		panic(err)
	}
	s := c.Score()
	conv := c.Converter(s)
	summary := catalog.Summarize("", path, c, s, conv)

	fmt.Printf("title: %v\n", summary.Title)
	fmt.Printf("artist: %v\n", summary.Artist)
	fmt.Printf("genre: %v\n", summary.Genre)
	fmt.Printf("level: %v\n", summary.PlayLevel)
	fmt.Printf("bpm: %v (%v - %v)\n", summary.InitialBPM, summary.MinBPM, summary.MaxBPM)
	fmt.Printf("measures: %v\n", len(c.Measures))
	fmt.Printf("notes: %v (%v long)\n", humanize.Comma(int64(summary.NoteCount)), humanize.Comma(int64(summary.LongNoteCount)))
	fmt.Printf("stops: %v\n", summary.StopCount)
	fmt.Printf("length: %v\n", formatSeconds(summary.LengthSec))

	chords := chord.GetChords(s.Notes, conv)
	if len(chords) > 0 {
		shape, count := chord.MostCommon(chords)
		fmt.Printf("chords: %v (up to %v lanes, most common %v x%v)\n", humanize.Comma(int64(len(chords))), chord.Largest(chords), shape, count)
	}

	if inspectCheckpoints {
		cps := conv.Checkpoints()
		for i := len(cps) - 1; i >= 0; i-- {
			fmt.Printf("%10.4fs  tick %-8v bpm %v\n", cps[i].ElapsedAt, cps[i].Tick, cps[i].BPM)
		}
	}
}
