package chart

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jsphweid/harp/constants"
	"github.com/jsphweid/harp/model"
	"github.com/jsphweid/harp/score"
	"github.com/jsphweid/harp/timing"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Format int

const (
	JSON Format = iota
	YAML
)

func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, true
	case ".yml", ".yaml":
		return YAML, true
	}
	return JSON, false
}

// Chart is a tokenized chart, header plus measures laid out on the tick
// timeline.
type Chart struct {
	Header   model.HeaderData
	Measures []model.MeasureChannelData
}

func (c *Chart) Score() model.ScoreData {
	return score.Extract(c.Header, c.Measures)
}

func (c *Chart) Converter(s model.ScoreData) *timing.Converter {
	return timing.New(c.Header.BPM, s.ChangeExBPM, s.StopPlay, c.Header.Stop)
}

// TotalTicks is the tick at which the last measure ends.
func (c *Chart) TotalTicks() int {
	if len(c.Measures) == 0 {
		return 0
	}
	last := c.Measures[len(c.Measures)-1]
	return last.StartTick + last.BarTickCount
}

func ReadChartFile(path string) (*Chart, error) {
	format, ok := FormatFromPath(path)
	if !ok {
		return nil, errors.Errorf("unknown chart format for %v", path)
	}

	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "Error reading chart file...")
	}

	c, err := Decode(dat, format)
	if err != nil {
		return nil, errors.Wrapf(err, "Error parsing chart file %v...", path)
	}
	return c, nil
}

func Decode(data []byte, format Format) (*Chart, error) {
	var f chartFile
	var err error
	switch format {
	case YAML:
		err = yaml.Unmarshal(data, &f)
	default:
		err = json.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, err
	}

	return &Chart{
		Header:   f.Header.toHeaderData(),
		Measures: layoutMeasures(f.Measures),
	}, nil
}

func (h fileHeader) toHeaderData() model.HeaderData {
	res := model.HeaderData{
		Title:     h.Title,
		Artist:    h.Artist,
		Genre:     h.Genre,
		PlayLevel: h.PlayLevel,
		BPM:       h.BPM,
	}
	if res.BPM <= 0 {
		res.BPM = constants.DefaultBPM
	}
	for k, v := range h.Stop {
		if key, ok := score.ParseKey(k); ok {
			res.Stop.Set(key, v)
		}
	}
	for k, v := range h.ExBPM {
		if key, ok := score.ParseKey(k); ok {
			res.ExBPM.Set(key, v)
		}
	}
	if key, ok := score.ParseKey(h.LNObj); ok {
		res.LNObj = key
	}
	return res
}

// layoutMeasures places measures back to back in index order. Missing
// indices are standard 4/4 bars.
func layoutMeasures(measures []fileMeasure) []model.MeasureChannelData {
	if len(measures) == 0 {
		return nil
	}

	byIndex := make(map[int]*model.MeasureChannelData)
	scales := make(map[int]float64)
	maxIndex := 0
	sort.SliceStable(measures, func(i, j int) bool {
		return measures[i].Index < measures[j].Index
	})
	for _, fm := range measures {
		if fm.Index < 0 {
			continue
		}
		m, ok := byIndex[fm.Index]
		if !ok {
			m = &model.MeasureChannelData{}
			byIndex[fm.Index] = m
		}
		if fm.Scale > 0 {
			scales[fm.Index] = fm.Scale
		}
		for _, id := range sortedChannelIDs(fm.Channels) {
			applyChannel(m, id, fm.Channels[id])
		}
		if fm.Index > maxIndex {
			maxIndex = fm.Index
		}
	}

	res := make([]model.MeasureChannelData, 0, maxIndex+1)
	var startTick int
	for i := 0; i <= maxIndex; i++ {
		var m model.MeasureChannelData
		if found, ok := byIndex[i]; ok {
			m = *found
		}
		scale, ok := scales[i]
		if !ok {
			scale = 1
		}
		m.StartTick = startTick
		m.BarTickCount = int(math.Floor(float64(constants.BaseBarTick) * scale))
		startTick += m.BarTickCount
		res = append(res, m)
	}
	return res
}

func sortedChannelIDs(channels map[string]channelData) []string {
	ids := make([]string, 0, len(channels))
	for id := range channels {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// applyChannel stores channel strings on the measure. BGM may repeat within
// a measure, for every other channel the last string wins.
func applyChannel(m *model.MeasureChannelData, id string, data channelData) {
	if len(data) == 0 {
		return
	}
	last := data[len(data)-1]

	switch id {
	case "01":
		m.PlayWav = append(m.PlayWav, data...)
	case "03":
		m.ChangeBPM = last
	case "04":
		m.ChangeBaseLayer = last
	case "06":
		m.ChangePoorLayer = last
	case "08":
		m.ChangeExBPM = last
	case "09":
		m.StopPlay = last
	default:
		trait, ok := model.TraitForChannel(id)
		if !ok {
			return
		}
		if m.Notes == nil {
			m.Notes = make(map[model.NoteTrait]string)
		}
		m.Notes[trait] = last
	}
}
