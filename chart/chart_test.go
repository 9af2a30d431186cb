package chart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/harp/constants"
	"github.com/jsphweid/harp/model"
	"github.com/stretchr/testify/assert"
)

func TestReadsJSONAndYAMLTheSame(t *testing.T) {
	for _, name := range []string{"two_bars.json", "two_bars.yml"} {
		t.Run(name, func(t *testing.T) {
			c, err := ReadChartFile(filepath.Join("testdata", name))

			assert := assert.New(t)
			if !assert.NoError(err) {
				return
			}
			assert.Equal("Two Bars", c.Header.Title)
			assert.Equal("3", c.Header.PlayLevel)
			assert.Equal(120.0, c.Header.BPM)
			assert.Equal(1295, c.Header.LNObj)

			stop, ok := c.Header.Stop.Lookup(1)
			assert.True(ok)
			assert.Equal(192, stop)
			exBPM, ok := c.Header.ExBPM.Lookup(10)
			assert.True(ok)
			assert.Equal(240.0, exBPM)

			assert.Len(c.Measures, 3)
			assert.Equal(0, c.Measures[0].StartTick)
			assert.Equal(constants.BaseBarTick, c.Measures[1].StartTick)
			assert.Equal(2*constants.BaseBarTick, c.Measures[2].StartTick)
			assert.Equal(20160, c.Measures[2].BarTickCount)
			assert.Equal(73920, c.TotalTicks())

			assert.Equal([]string{"01000000", "00000002"}, c.Measures[0].PlayWav)
			assert.Equal("0096", c.Measures[0].ChangeBPM)
			assert.Equal("01010101", c.Measures[0].Notes[model.NoteTrait{Lane: model.P1Key1, Kind: model.Visible}])
			assert.Empty(c.Measures[1].Notes)
			assert.Equal("0101", c.Measures[2].Notes[model.NoteTrait{Lane: model.P1Key1, Kind: model.LongStart}])
			assert.Equal("0000ZZ00", c.Measures[2].Notes[model.NoteTrait{Lane: model.P1Scratch, Kind: model.Visible}])
			assert.Len(c.Measures[2].Notes, 2)
			assert.Equal("01", c.Measures[2].StopPlay)
			assert.Equal("0A", c.Measures[2].ChangeExBPM)
		})
	}
}

func TestScoreAndConverterFromChart(t *testing.T) {
	c, err := ReadChartFile(filepath.Join("testdata", "two_bars.json"))
	assert := assert.New(t)
	if !assert.NoError(err) {
		return
	}

	s := c.Score()
	assert.Len(s.Notes, 7)
	assert.Equal([]model.BPMChangeEvent{
		{Tick: 13440, Value: 150},
		{Tick: 53760, Value: 240},
	}, s.ChangeExBPM)
	assert.Equal([]model.BarEvent{{Tick: 53760, Key: 1}}, s.StopPlay)
	assert.Equal([]model.BarEvent{{Tick: 0, Key: 1}, {Tick: 20160, Key: 2}}, s.PlayWav)

	conv := c.Converter(s)
	assert.InDelta(1.0, conv.ElapsedAt(13440), 1e-9)
	assert.InDelta(3.4, conv.ElapsedAt(53760), 1e-9)
	assert.Equal(53760, conv.TickAt(4.0))
	assert.InDelta(4.4, conv.ElapsedAt(53760+1), 1e-3)
}

func TestDefaultsMissingBPM(t *testing.T) {
	c, err := Decode([]byte(`{"measures": [{"index": 0}]}`), JSON)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(constants.DefaultBPM, c.Header.BPM)
	assert.Equal(0, c.Header.LNObj)
	assert.Len(c.Measures, 1)
}

func TestIgnoresInvalidHeaderKeys(t *testing.T) {
	c, err := Decode([]byte(`{"header": {"bpm": 150, "lnobj": "!", "stop": {"-1": 5, "02": 48}}}`), JSON)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(0, c.Header.LNObj)
	assert.Equal(1, c.Header.Stop.Len())
	assert.Nil(c.Measures)
	assert.Equal(0, c.TotalTicks())
}

func TestReadChartFileErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte("{"), 0644)

	assert := assert.New(t)
	_, err := ReadChartFile(filepath.Join(dir, "missing.json"))
	assert.Error(err)
	_, err = ReadChartFile(filepath.Join(dir, "chart.bms"))
	assert.Error(err)
	_, err = ReadChartFile(bad)
	assert.Error(err)
}

func TestFormatFromPath(t *testing.T) {
	cases := map[string]bool{
		"a.json": true,
		"a.YML":  true,
		"a.yaml": true,
		"a.bme":  false,
	}
	for path, ok := range cases {
		_, got := FormatFromPath(path)
		assert.Equal(t, ok, got, path)
	}
}
