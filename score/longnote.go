package score

import (
	"sort"

	"github.com/jsphweid/harp/model"
)

// groupByLane splits notes per lane keeping their relative order. Lanes are
// returned in ascending order.
func groupByLane(notes []model.NoteEvent) ([]model.Lane, map[model.Lane][]model.NoteEvent) {
	groups := make(map[model.Lane][]model.NoteEvent)
	var lanes []model.Lane
	for _, n := range notes {
		if _, ok := groups[n.Trait.Lane]; !ok {
			lanes = append(lanes, n.Trait.Lane)
		}
		groups[n.Trait.Lane] = append(groups[n.Trait.Lane], n)
	}
	sort.Slice(lanes, func(i, j int) bool {
		return lanes[i] < lanes[j]
	})
	return lanes, groups
}

// ApplyChannelLongNotes resolves long notes written on the long note channels,
// where the same code marks both ends. Every LongStart flips the lane in or
// out of a long note; the closing one becomes LongEnd. Visible notes falling
// inside a long note are dropped. Returns a new slice sorted by tick.
func ApplyChannelLongNotes(notes []model.NoteEvent) []model.NoteEvent {
	sorted := make([]model.NoteEvent, len(notes))
	copy(sorted, notes)
	sortNotes(sorted)

	applied := make([]model.NoteEvent, 0, len(sorted))
	lanes, groups := groupByLane(sorted)
	for _, lane := range lanes {
		inLongNote := false
		for _, n := range groups[lane] {
			if n.Trait.Kind == model.LongStart {
				if inLongNote {
					n.Trait.Kind = model.LongEnd
				}
				applied = append(applied, n)
				inLongNote = !inLongNote
				continue
			}

			if !inLongNote {
				applied = append(applied, n)
			}
		}
	}

	sortNotes(applied)
	return applied
}

// ApplyLNObjLongNotes resolves #LNOBJ long notes, where a note carrying the
// lnobj key ends a long note started by the previous visible note of its lane.
// Each lane is walked backwards in time so the end is found first. Notes
// between the two ends are dropped. With lnobj 0 the notes are returned as is.
func ApplyLNObjLongNotes(notes []model.NoteEvent, lnobj int) []model.NoteEvent {
	if lnobj == 0 {
		return notes
	}

	sorted := make([]model.NoteEvent, len(notes))
	copy(sorted, notes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Tick > sorted[j].Tick
	})

	applied := make([]model.NoteEvent, 0, len(sorted))
	lanes, groups := groupByLane(sorted)
	for _, lane := range lanes {
		inLongNote := false
		for _, n := range groups[lane] {
			if !inLongNote && n.Key == lnobj {
				n.Trait.Kind = model.LongEnd
				applied = append(applied, n)
				inLongNote = true
				continue
			}

			if inLongNote && n.Trait.Kind == model.Visible {
				n.Trait.Kind = model.LongStart
				applied = append(applied, n)
				inLongNote = false
				continue
			}

			if !inLongNote {
				applied = append(applied, n)
			}
		}
	}

	sortNotes(applied)
	return applied
}
