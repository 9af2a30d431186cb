package score

import (
	"sort"

	"github.com/jsphweid/harp/constants"
	"github.com/jsphweid/harp/model"
)

// bpmTimeline merges both BPM channels. A later write on a tick that already
// has a value replaces it instead of adding a second change.
type bpmTimeline struct {
	events []model.BPMChangeEvent
	byTick map[int]int
}

func (b *bpmTimeline) put(tick int, bpm float64) {
	if b.byTick == nil {
		b.byTick = make(map[int]int)
	}
	if i, ok := b.byTick[tick]; ok {
		b.events[i].Value = bpm
		return
	}
	b.byTick[tick] = len(b.events)
	b.events = append(b.events, model.BPMChangeEvent{Tick: tick, Value: bpm})
}

func storeChangeBPM(target *bpmTimeline, m model.MeasureChannelData, data string) {
	cells := splitCells(data)
	for i, v := range cells {
		if isRest(v) {
			continue
		}
		bpm, ok := parseHex(v)
		if !ok {
			continue
		}
		target.put(cellTick(m.StartTick, m.BarTickCount, i, len(cells)), float64(bpm))
	}
}

func storeChangeExBPM(target *bpmTimeline, exBPM model.Table[float64], m model.MeasureChannelData, data string) {
	cells := splitCells(data)
	for i, v := range cells {
		if isRest(v) {
			continue
		}
		key, ok := ParseKey(v)
		if !ok {
			continue
		}
		bpm, ok := exBPM.Lookup(key)
		if !ok {
			continue
		}
		target.put(cellTick(m.StartTick, m.BarTickCount, i, len(cells)), bpm)
	}
}

func eachKey(m model.MeasureChannelData, data string, fn func(tick, key int)) {
	keyForRest, _ := ParseKey(constants.KeyForRest)
	cells := splitCells(data)
	for i, v := range cells {
		key, ok := ParseKey(v)
		if !ok || key == keyForRest {
			continue
		}
		fn(cellTick(m.StartTick, m.BarTickCount, i, len(cells)), key)
	}
}

func appendBarEvents(target []model.BarEvent, m model.MeasureChannelData, data string) []model.BarEvent {
	eachKey(m, data, func(tick, key int) {
		target = append(target, model.BarEvent{Tick: tick, Key: key})
	})
	return target
}

func appendNoteEvents(target []model.NoteEvent, m model.MeasureChannelData, trait model.NoteTrait, data string) []model.NoteEvent {
	eachKey(m, data, func(tick, key int) {
		target = append(target, model.NoteEvent{Tick: tick, Key: key, Trait: trait})
	})
	return target
}

func sortedTraits(notes map[model.NoteTrait]string) []model.NoteTrait {
	traits := make([]model.NoteTrait, 0, len(notes))
	for t := range notes {
		traits = append(traits, t)
	}
	sort.Slice(traits, func(i, j int) bool {
		return traits[i].Less(traits[j])
	})
	return traits
}

// Extract decodes every measure into tick ordered event sequences and
// resolves both long note encodings. Cells that can't be decoded are skipped.
func Extract(header model.HeaderData, measures []model.MeasureChannelData) model.ScoreData {
	var s model.ScoreData
	var bpm bpmTimeline

	for _, m := range measures {
		for _, data := range m.PlayWav {
			s.PlayWav = appendBarEvents(s.PlayWav, m, data)
		}
		storeChangeBPM(&bpm, m, m.ChangeBPM)
		s.ChangeBaseLayer = appendBarEvents(s.ChangeBaseLayer, m, m.ChangeBaseLayer)
		s.ChangePoorLayer = appendBarEvents(s.ChangePoorLayer, m, m.ChangePoorLayer)
		storeChangeExBPM(&bpm, header.ExBPM, m, m.ChangeExBPM)
		s.StopPlay = appendBarEvents(s.StopPlay, m, m.StopPlay)
		for _, trait := range sortedTraits(m.Notes) {
			s.Notes = appendNoteEvents(s.Notes, m, trait, m.Notes[trait])
		}
	}
	s.ChangeExBPM = bpm.events

	// long notes can be written 2 ways, channel pairs first then #LNOBJ
	s.Notes = ApplyChannelLongNotes(s.Notes)
	s.Notes = ApplyLNObjLongNotes(s.Notes, header.LNObj)

	sortByTickAsc(&s)
	return s
}

func sortByTickAsc(s *model.ScoreData) {
	sortNotes(s.Notes)
	sortBarEvents(s.PlayWav)
	sort.SliceStable(s.ChangeExBPM, func(i, j int) bool {
		return s.ChangeExBPM[i].Tick < s.ChangeExBPM[j].Tick
	})
	sortBarEvents(s.ChangeBaseLayer)
	sortBarEvents(s.ChangePoorLayer)
	sortBarEvents(s.StopPlay)
}

func sortBarEvents(events []model.BarEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Tick < events[j].Tick
	})
}

func sortNotes(notes []model.NoteEvent) {
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Tick < notes[j].Tick
	})
}
