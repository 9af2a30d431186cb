package cmd

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/jsphweid/harp/catalog"
	"github.com/jsphweid/harp/constants"
	"github.com/jsphweid/harp/db"
	"github.com/jsphweid/harp/file"
	"github.com/jsphweid/harp/model"
	"github.com/jsphweid/harp/util"
	"github.com/spf13/cobra"
)

var indexWorkers int
var indexMetadata bool

func init() {
	indexCmd.Flags().IntVarP(&indexWorkers, "workers", "w", runtime.NumCPU(), "number of charts processed at once")
	indexCmd.Flags().BoolVar(&indexMetadata, "metadata", false, "also push chart metadata to DynamoDB")
	rootCmd.AddCommand(indexCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index [max]",
	Short: "Creates the chart catalog",
	Long:  `Summarizes every chart under CHART_PATH and writes the catalog to INDEX_PATH.`,
	Run: func(cmd *cobra.Command, args []string) {
		var maxNum int
		if len(args) == 1 {
			arg1, err := strconv.Atoi(args[0])
			if err != nil {
				panic(err)
			}
			maxNum = arg1
		}

		summaries, err := Index(maxNum)
		if err != nil {
			panic(err)
		}
		if indexMetadata {
			pushMetadata(summaries)
		}
	},
}

// Index summarizes the charts under CHART_PATH and writes the catalog. The
// previous catalog file stays in place when anything fails.
func Index(maxNum int) ([]model.ChartSummary, error) {
	if err := util.EnsureOutputDir(); err != nil {
		return nil, err
	}
	paths, err := util.GatherAllChartPaths(constants.GetChartDir(), maxNum)
	if err != nil {
		return nil, err
	}
	fileNumMap := file.CreateFileNumMap(paths)
	summaries := catalog.CreateAll(fileNumMap, indexWorkers)
	if err := util.CreateBinary(util.GetCatalogPath(), summaries); err != nil {
		return nil, err
	}
	fmt.Printf("Indexed %v of %v charts\n", len(summaries), len(paths))
	return summaries, nil
}

func pushMetadata(summaries []model.ChartSummary) {
	metadatas := make(map[string]model.ChartMetadata)
	for _, s := range summaries {
		metadatas[s.Path] = model.ChartMetadata{
			Title:     s.Title,
			Artist:    s.Artist,
			Genre:     s.Genre,
			PlayLevel: s.PlayLevel,
		}
	}
	if err := db.PutChartMetadatas(metadatas); err != nil {
		fmt.Printf("Could not push metadata: %v\n", err)
		return
	}
	fmt.Printf("Pushed metadata for %v charts\n", len(metadatas))
}
