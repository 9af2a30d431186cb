package catalog

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jsphweid/harp/chart"
	"github.com/jsphweid/harp/model"
	"github.com/jsphweid/harp/timing"
	"github.com/jsphweid/harp/util"
	"github.com/remeh/sizedwaitgroup"
)

// Summarize reduces an extracted chart to the numbers shown in listings.
func Summarize(id string, path string, c *chart.Chart, s model.ScoreData, conv *timing.Converter) model.ChartSummary {
	res := model.ChartSummary{
		ID:         id,
		Path:       path,
		Title:      c.Header.Title,
		Artist:     c.Header.Artist,
		Genre:      c.Header.Genre,
		PlayLevel:  c.Header.PlayLevel,
		InitialBPM: c.Header.BPM,
		TotalTicks: c.TotalTicks(),
	}

	for _, n := range s.Notes {
		if n.Trait.Kind.Playable() {
			res.NoteCount += 1
		}
		if n.Trait.Kind == model.LongStart {
			res.LongNoteCount += 1
		}
	}
	bpms := []float64{c.Header.BPM}
	for _, b := range s.ChangeExBPM {
		bpms = append(bpms, b.Value)
	}
	res.MinBPM, res.MaxBPM = util.Extent(bpms...)
	for _, stop := range s.StopPlay {
		if _, ok := c.Header.Stop.Lookup(stop.Key); ok {
			res.StopCount += 1
		}
	}
	res.LengthSec = conv.ElapsedAt(res.TotalTicks)

	return res
}

func processChart(path string) (model.ChartSummary, error) {
	c, err := chart.ReadChartFile(path)
	if err != nil {
		return model.ChartSummary{}, err
	}
	s := c.Score()
	return Summarize(uuid.New().String(), path, c, s, c.Converter(s)), nil
}

// CreateAll summarizes every chart, at most workers at a time. Charts that
// fail to load are reported and left out.
func CreateAll(m model.FileNumToChartPath, workers int) []model.ChartSummary {
	if workers < 1 {
		workers = 1
	}

	keys := util.SortedKeys(m)

	summaries := make([]model.ChartSummary, len(keys))
	ok := make([]bool, len(keys))
	swg := sizedwaitgroup.New(workers)
	for i, num := range keys {
		fmt.Printf("Processing %v of %v charts\n", i+1, len(keys))
		swg.Add()
		go func(i int, path string) {
			defer swg.Done()
			summary, err := processChart(path)
			if err != nil {
				fmt.Printf("Skipping %v because: %v\n", path, err)
				return
			}
			summaries[i] = summary
			ok[i] = true
		}(i, m[num])
	}
	swg.Wait()

	var res []model.ChartSummary
	for i, s := range summaries {
		if ok[i] {
			res = append(res, s)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Path < res[j].Path
	})
	return res
}

func Find(summaries []model.ChartSummary, id string) (model.ChartSummary, bool) {
	for _, s := range summaries {
		if s.ID == id {
			return s, true
		}
	}
	return model.ChartSummary{}, false
}
