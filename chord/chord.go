package chord

import (
	"sort"
	"strings"

	"github.com/jsphweid/harp/model"
	"github.com/jsphweid/harp/timing"
)

// Chord is a set of lanes the player has to hit on the same tick.
type Chord struct {
	Tick    int
	Elapsed float64
	Lanes   []model.Lane
}

func CreateChordKey(lanes []model.Lane) string {
	sorted := append([]model.Lane(nil), lanes...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})
	var parts []string
	for _, l := range sorted {
		parts = append(parts, l.String())
	}
	return strings.Join(parts, "-")
}

func getChord(tick int, pressed map[model.Lane]bool, conv *timing.Converter) Chord {
	c := Chord{Tick: tick, Elapsed: conv.ElapsedAt(tick)}
	for lane := range pressed {
		c.Lanes = append(c.Lanes, lane)
	}
	sort.Slice(c.Lanes, func(i, j int) bool {
		return c.Lanes[i] < c.Lanes[j]
	})
	return c
}

// GetChords returns every tick where two or more lanes are hit at once,
// ascending by tick. Long note ends are not hits.
func GetChords(notes []model.NoteEvent, conv *timing.Converter) []Chord {
	var hits []model.NoteEvent
	for _, n := range notes {
		if n.Trait.Kind.Playable() {
			hits = append(hits, n)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Tick < hits[j].Tick
	})

	var chords []Chord
	for i := 0; i < len(hits); {
		tick := hits[i].Tick
		pressed := make(map[model.Lane]bool)
		for ; i < len(hits) && hits[i].Tick == tick; i++ {
			pressed[hits[i].Trait.Lane] = true
		}
		if len(pressed) > 1 {
			chords = append(chords, getChord(tick, pressed, conv))
		}
	}
	return chords
}

// Shapes counts how often each lane combination shows up.
func Shapes(chords []Chord) map[string]int {
	res := make(map[string]int)
	for _, c := range chords {
		res[CreateChordKey(c.Lanes)]++
	}
	return res
}

// MostCommon returns the most frequent shape, ties going to the
// lexically smaller key.
func MostCommon(chords []Chord) (string, int) {
	var best string
	var count int
	for key, n := range Shapes(chords) {
		if n > count || (n == count && key < best) {
			best, count = key, n
		}
	}
	return best, count
}

func Largest(chords []Chord) int {
	var res int
	for _, c := range chords {
		if len(c.Lanes) > res {
			res = len(c.Lanes)
		}
	}
	return res
}
