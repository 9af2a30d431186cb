package model

type BPMChangeEvent struct {
	Tick  int     `json:"tick"`
	Value float64 `json:"bpm"`
}

// BarEvent is a keyed trigger on the timeline: a wav to play, a layer change
// or a reference into the #STOP table.
type BarEvent struct {
	Tick int `json:"tick"`
	Key  int `json:"key"`
}

type NoteEvent struct {
	Tick  int       `json:"tick"`
	Key   int       `json:"key"`
	Trait NoteTrait `json:"trait"`
}

type NoteTrait struct {
	Lane Lane     `json:"lane"`
	Kind NoteKind `json:"kind"`
}

func (t NoteTrait) Less(other NoteTrait) bool {
	if t.Lane != other.Lane {
		return t.Lane < other.Lane
	}
	return t.Kind < other.Kind
}

type NoteKind int

const (
	Visible NoteKind = iota
	LongStart
	LongEnd
)

func (k NoteKind) String() string {
	switch k {
	case Visible:
		return "visible"
	case LongStart:
		return "long-start"
	case LongEnd:
		return "long-end"
	}
	return "unknown"
}

func (k NoteKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Playable reports whether the note is something the player hits, i.e. not
// the release half of a long note.
func (k NoteKind) Playable() bool {
	return k == Visible || k == LongStart
}
