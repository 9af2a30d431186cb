package sample

import (
	"math"
	"sort"

	"github.com/jsphweid/harp/model"
	"github.com/jsphweid/harp/timing"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Previews are written on a fixed grid. Event positions come from the
// chart's elapsed time so bpm changes and stops are already baked in.
const previewBPM = 120.0
const previewResolution = 960

// a sixteenth
const visibleNoteLength = previewResolution / 4

const velocity = 100

var laneKeys = map[model.Lane]uint8{
	model.P1Scratch: 36,
	model.P1Key1:    60,
	model.P1Key2:    62,
	model.P1Key3:    64,
	model.P1Key4:    65,
	model.P1Key5:    67,
	model.P1Key6:    69,
	model.P1Key7:    71,
	model.P2Scratch: 38,
	model.P2Key1:    72,
	model.P2Key2:    74,
	model.P2Key3:    76,
	model.P2Key4:    77,
	model.P2Key5:    79,
	model.P2Key6:    81,
	model.P2Key7:    83,
}

type timedMessage struct {
	at    uint32
	isOff bool
	msg   midi.Message
}

func toPreviewTick(elapsed float64) uint32 {
	if elapsed <= 0 {
		return 0
	}
	return uint32(math.Round(elapsed * previewBPM / 60 * previewResolution))
}

// visibleNoteEnds gives every visible note its release, a sixteenth later or
// at the next press on the same lane, whichever comes first. notes must be
// sorted by tick.
func visibleNoteEnds(notes []model.NoteEvent, ats []uint32) []uint32 {
	ends := make([]uint32, len(notes))
	nextPress := make(map[model.Lane]uint32)
	for i := len(notes) - 1; i >= 0; i-- {
		n := notes[i]
		ends[i] = ats[i] + visibleNoteLength
		if next, ok := nextPress[n.Trait.Lane]; ok && next < ends[i] {
			ends[i] = next
		}
		if n.Trait.Kind.Playable() {
			nextPress[n.Trait.Lane] = ats[i]
		}
	}
	return ends
}

// Create builds a single track MIDI preview of the chart's notes starting at
// fromTick. Long notes started before fromTick are left out.
func Create(s model.ScoreData, conv *timing.Converter, fromTick int) *smf.SMF {
	offset := conv.ElapsedAt(fromTick)
	ats := make([]uint32, len(s.Notes))
	for i, n := range s.Notes {
		ats[i] = toPreviewTick(conv.ElapsedAt(n.Tick) - offset)
	}
	ends := visibleNoteEnds(s.Notes, ats)

	var msgs []timedMessage
	open := make(map[model.Lane]bool)
	var lastAt uint32
	for i, n := range s.Notes {
		if n.Tick < fromTick {
			continue
		}
		key, ok := laneKeys[n.Trait.Lane]
		if !ok {
			continue
		}

		at := ats[i]
		switch n.Trait.Kind {
		case model.Visible:
			msgs = append(msgs,
				timedMessage{at: at, msg: midi.NoteOn(0, key, velocity)},
				timedMessage{at: ends[i], isOff: true, msg: midi.NoteOff(0, key)})
		case model.LongStart:
			if open[n.Trait.Lane] {
				continue
			}
			msgs = append(msgs, timedMessage{at: at, msg: midi.NoteOn(0, key, velocity)})
			open[n.Trait.Lane] = true
		case model.LongEnd:
			if !open[n.Trait.Lane] {
				continue
			}
			msgs = append(msgs, timedMessage{at: at, isOff: true, msg: midi.NoteOff(0, key)})
			open[n.Trait.Lane] = false
		}
		if at > lastAt {
			lastAt = at
		}
	}

	// long notes that never end are released after the last note
	for _, lane := range model.Lanes {
		if open[lane] {
			msgs = append(msgs, timedMessage{at: lastAt + visibleNoteLength, isOff: true, msg: midi.NoteOff(0, laneKeys[lane])})
		}
	}

	// releases go before presses on the same tick
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].at != msgs[j].at {
			return msgs[i].at < msgs[j].at
		}
		return msgs[i].isOff && !msgs[j].isOff
	})

	var track smf.Track
	track.Add(0, smf.MetaTempo(previewBPM))
	var absTicks uint32
	for _, m := range msgs {
		track.Add(m.at-absTicks, m.msg)
		absTicks = m.at
	}
	track.Close(0)

	res := smf.New()
	res.TimeFormat = smf.MetricTicks(previewResolution)
	res.Add(track)
	return res
}

func WriteFile(s *smf.SMF, path string) error {
	return errors.Wrapf(s.WriteFile(path), "Could not write midi file %v", path)
}
