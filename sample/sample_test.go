package sample

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/jsphweid/harp/model"
	"github.com/jsphweid/harp/timing"
	"github.com/stretchr/testify/assert"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type noteEvent struct {
	at   uint32
	key  uint8
	isOn bool
}

func readNotes(t *testing.T, s *smf.SMF) ([]noteEvent, float64) {
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	parsed, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}

	var res []noteEvent
	var bpm float64
	for _, track := range parsed.Tracks {
		var absTicks uint32
		for _, ev := range track {
			absTicks += ev.Delta
			msg := midi.Message(ev.Message)
			var ch, key, vel uint8
			switch {
			case ev.Message.GetMetaTempo(&bpm):
			case msg.GetNoteStart(&ch, &key, &vel):
				res = append(res, noteEvent{at: absTicks, key: key, isOn: true})
			case msg.GetNoteEnd(&ch, &key):
				res = append(res, noteEvent{at: absTicks, key: key})
			}
		}
	}
	return res, bpm
}

func scoreWithLongNote() model.ScoreData {
	return model.ScoreData{Notes: []model.NoteEvent{
		{Tick: 0, Key: 1, Trait: model.NoteTrait{Lane: model.P1Key1, Kind: model.Visible}},
		{Tick: 6720, Key: 2, Trait: model.NoteTrait{Lane: model.P1Key2, Kind: model.LongStart}},
		{Tick: 13440, Key: 2, Trait: model.NoteTrait{Lane: model.P1Key2, Kind: model.LongEnd}},
	}}
}

func TestCreatePlacesNotesByElapsedTime(t *testing.T) {
	conv := timing.New(120, nil, nil, model.Table[int]{})
	notes, bpm := readNotes(t, Create(scoreWithLongNote(), conv, 0))

	assert := assert.New(t)
	assert.Equal(120.0, bpm)
	assert.Equal([]noteEvent{
		{at: 0, key: 60, isOn: true},
		{at: 240, key: 60},
		{at: 960, key: 62, isOn: true},
		{at: 1920, key: 62},
	}, notes)
}

func TestCreateBakesInTempo(t *testing.T) {
	// twice as fast, every note lands at half the distance
	conv := timing.New(240, nil, nil, model.Table[int]{})
	notes, _ := readNotes(t, Create(scoreWithLongNote(), conv, 0))

	assert := assert.New(t)
	assert.Equal([]noteEvent{
		{at: 0, key: 60, isOn: true},
		{at: 240, key: 60},
		{at: 480, key: 62, isOn: true},
		{at: 960, key: 62},
	}, notes)
}

func TestCreateFromTick(t *testing.T) {
	conv := timing.New(120, nil, nil, model.Table[int]{})

	assert := assert.New(t)
	notes, _ := readNotes(t, Create(scoreWithLongNote(), conv, 6720))
	assert.Equal([]noteEvent{
		{at: 0, key: 62, isOn: true},
		{at: 960, key: 62},
	}, notes)

	// the long note started earlier, its end alone is dropped
	notes, _ = readNotes(t, Create(scoreWithLongNote(), conv, 6721))
	assert.Empty(notes)
}

func TestCreateReleasesBeforeNextPressOnLane(t *testing.T) {
	conv := timing.New(120, nil, nil, model.Table[int]{})
	// a 32nd apart, shorter than the sixteenth a visible note lasts
	s := model.ScoreData{Notes: []model.NoteEvent{
		{Tick: 0, Key: 1, Trait: model.NoteTrait{Lane: model.P1Key1, Kind: model.Visible}},
		{Tick: 840, Key: 1, Trait: model.NoteTrait{Lane: model.P1Key1, Kind: model.Visible}},
		{Tick: 840, Key: 1, Trait: model.NoteTrait{Lane: model.P1Key2, Kind: model.Visible}},
		{Tick: 1680, Key: 2, Trait: model.NoteTrait{Lane: model.P1Key2, Kind: model.LongStart}},
		{Tick: 6720, Key: 2, Trait: model.NoteTrait{Lane: model.P1Key2, Kind: model.LongEnd}},
	}}
	notes, _ := readNotes(t, Create(s, conv, 0))

	assert.Equal(t, []noteEvent{
		{at: 0, key: 60, isOn: true},
		{at: 120, key: 60},
		{at: 120, key: 60, isOn: true},
		{at: 120, key: 62, isOn: true},
		{at: 240, key: 62},
		{at: 240, key: 62, isOn: true},
		{at: 360, key: 60},
		{at: 960, key: 62},
	}, notes)
}

func TestCreateReleasesUnterminatedLongNotes(t *testing.T) {
	conv := timing.New(120, nil, nil, model.Table[int]{})
	s := model.ScoreData{Notes: []model.NoteEvent{
		{Tick: 6720, Key: 2, Trait: model.NoteTrait{Lane: model.P2Scratch, Kind: model.LongStart}},
	}}
	notes, _ := readNotes(t, Create(s, conv, 0))

	assert.Equal(t, []noteEvent{
		{at: 960, key: 38, isOn: true},
		{at: 1200, key: 38},
	}, notes)
}

func TestWriteFile(t *testing.T) {
	conv := timing.New(120, nil, nil, model.Table[int]{})
	path := filepath.Join(t.TempDir(), "preview.mid")

	assert := assert.New(t)
	assert.NoError(WriteFile(Create(scoreWithLongNote(), conv, 0), path))
	_, err := smf.ReadFile(path)
	assert.NoError(err)
	assert.Error(WriteFile(Create(scoreWithLongNote(), conv, 0), filepath.Join(t.TempDir(), "missing", "x.mid")))
}
