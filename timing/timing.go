package timing

import (
	"math"
	"sort"

	"github.com/jsphweid/harp/constants"
	"github.com/jsphweid/harp/model"
)

// Checkpoint anchors a tick to the elapsed time at which it is reached and
// the BPM in effect from there on. A stop is a checkpoint with BPM 0.
type Checkpoint struct {
	ElapsedAt float64
	Tick      int
	BPM       float64
}

// Converter answers tick <-> elapsed seconds queries for one chart. It is
// immutable once built and safe for concurrent use.
type Converter struct {
	// ordered by ElapsedAt descending
	checkpoints []Checkpoint
}

type timelineEvent struct {
	tick    int
	bpm     float64
	stopKey int
	isStop  bool
}

// New builds the checkpoints for a chart starting at initialBPM. Stops whose
// key is missing from stopTable are ignored.
func New(initialBPM float64, bpmChanges []model.BPMChangeEvent, stops []model.BarEvent, stopTable model.Table[int]) *Converter {
	events := make([]timelineEvent, 0, len(bpmChanges)+len(stops))
	for _, c := range bpmChanges {
		events = append(events, timelineEvent{tick: c.Tick, bpm: c.Value})
	}
	for _, s := range stops {
		events = append(events, timelineEvent{tick: s.Tick, stopKey: s.Key, isStop: true})
	}
	// a bpm change and a stop on the same tick: the stop runs at the new bpm
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].tick < events[j].tick
	})

	result := []Checkpoint{{ElapsedAt: 0, Tick: 0, BPM: initialBPM}}
	for _, e := range events {
		prev := result[len(result)-1]
		if !e.isStop {
			result = append(result, Checkpoint{
				ElapsedAt: elapsedFrom(prev, e.tick),
				Tick:      e.tick,
				BPM:       e.bpm,
			})
			continue
		}

		length, ok := stopTable.Lookup(e.stopKey)
		if !ok {
			continue
		}
		stopStart := Checkpoint{
			ElapsedAt: elapsedFrom(prev, e.tick),
			Tick:      e.tick,
			BPM:       0,
		}
		// tick stays put while stopped, then the bpm before the stop resumes
		stopEnd := Checkpoint{
			ElapsedAt: stopStart.ElapsedAt + stopDuration(length, prev.BPM),
			Tick:      e.tick,
			BPM:       prev.BPM,
		}
		result = append(result, stopStart, stopEnd)
	}

	// reverse first so that on equal ElapsedAt the later checkpoint wins
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ElapsedAt > result[j].ElapsedAt
	})

	return &Converter{checkpoints: result}
}

func beatDuration(bpm float64) float64 {
	if bpm <= 0 {
		return 0
	}
	return 60.0 / bpm
}

func duration(ticks int, bpm float64) float64 {
	beats := float64(ticks) / float64(constants.Resolution)
	return beatDuration(bpm) * beats
}

// stopDuration converts a #STOP length, counted in 1/192 of a 4/4 bar, to
// seconds at the given bpm.
func stopDuration(length int, bpm float64) float64 {
	beats := float64(length) / constants.StopResolution * 4
	return beatDuration(bpm) * beats
}

// elapsedFrom is the elapsed time of tick measured from cp. New, TickAt and
// ElapsedAt all go through it so they agree to the last bit.
func elapsedFrom(cp Checkpoint, tick int) float64 {
	return cp.ElapsedAt + duration(tick-cp.Tick, cp.BPM)
}

// TickAt returns the last chart tick reached after elapsed seconds of
// playback, the largest tick whose ElapsedAt is not after elapsed.
func (c *Converter) TickAt(elapsed float64) int {
	if elapsed <= 0 {
		return 0
	}
	prev, ok := c.previousByElapsed(elapsed)
	if !ok {
		return 0
	}
	if prev.BPM <= 0 {
		return prev.Tick
	}

	ticks := prev.Tick + int(math.Floor((elapsed-prev.ElapsedAt)*(prev.BPM/60.0)*float64(constants.Resolution)))
	// the float floor can land one tick off on either side of a boundary
	if ticks > prev.Tick && elapsedFrom(prev, ticks) > elapsed {
		ticks--
	} else if elapsedFrom(prev, ticks+1) <= elapsed {
		ticks++
	}
	return ticks
}

// ElapsedAt returns the seconds of playback at which tick is reached. A tick
// holding a stop resolves to the moment the stop begins.
func (c *Converter) ElapsedAt(tick int) float64 {
	if tick <= 0 {
		return 0
	}
	prev, ok := c.previousByTick(tick)
	if !ok {
		return 0
	}

	return elapsedFrom(prev, tick)
}

// Checkpoints returns a copy of the checkpoints, latest first.
func (c *Converter) Checkpoints() []Checkpoint {
	res := make([]Checkpoint, len(c.checkpoints))
	copy(res, c.checkpoints)
	return res
}

func (c *Converter) previousByElapsed(elapsed float64) (Checkpoint, bool) {
	for _, cp := range c.checkpoints {
		if elapsed >= cp.ElapsedAt {
			return cp, true
		}
	}
	return Checkpoint{}, false
}

func (c *Converter) previousByTick(tick int) (Checkpoint, bool) {
	// stop start and stop end share a tick, without this the stop end would
	// always be found first
	for _, cp := range c.checkpoints {
		if cp.Tick == tick && cp.BPM == 0 {
			return cp, true
		}
	}
	for _, cp := range c.checkpoints {
		if tick >= cp.Tick {
			return cp, true
		}
	}
	return Checkpoint{}, false
}
