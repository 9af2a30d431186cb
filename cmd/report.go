package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jsphweid/harp/model"
	"github.com/jsphweid/harp/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Creates a report",
	Long:  `Prints totals over the stored chart catalog.`,
	Run: func(cmd *cobra.Command, args []string) {
		report()
	},
}

type catalogReport struct {
	numCharts  int
	numNotes   []int
	numLong    []int
	lengths    []float64
	minBPM     float64
	maxBPM     float64
	longestSec float64
	longest    string
}

func analyzeCatalog(summaries []model.ChartSummary) catalogReport {
	var report catalogReport
	var mins, maxs []float64
	for _, s := range summaries {
		report.numCharts += 1
		report.numNotes = append(report.numNotes, s.NoteCount)
		report.numLong = append(report.numLong, s.LongNoteCount)
		report.lengths = append(report.lengths, s.LengthSec)
		mins = append(mins, s.MinBPM)
		maxs = append(maxs, s.MaxBPM)
		if s.LengthSec > report.longestSec {
			report.longestSec = s.LengthSec
			report.longest = s.Path
		}
	}
	report.minBPM, _ = util.Extent(mins...)
	_, report.maxBPM = util.Extent(maxs...)
	return report
}

func report() {
	summaries := util.ReadBinaryOrPanic[[]model.ChartSummary](util.GetCatalogPath())
	r := analyzeCatalog(summaries)

	fmt.Printf("charts: %v\n", humanize.Comma(int64(r.numCharts)))
	fmt.Printf("notes: %v\n", humanize.Comma(int64(util.Sum(r.numNotes))))
	fmt.Printf("long notes: %v\n", humanize.Comma(int64(util.Sum(r.numLong))))
	fmt.Printf("total length: %v\n", formatSeconds(util.Sum(r.lengths)))
	fmt.Printf("bpm range: %v - %v\n", r.minBPM, r.maxBPM)
	if r.longest != "" {
		fmt.Printf("longest: %v (%v)\n", r.longest, formatSeconds(r.longestSec))
	}
}
