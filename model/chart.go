package model

type HeaderData struct {
	Title     string
	Artist    string
	Genre     string
	PlayLevel string

	BPM   float64
	Stop  Table[int]
	ExBPM Table[float64]

	// NOTE: 0 means no #LNOBJ, the rest key can never mark a note anyway
	LNObj int
}

// MeasureChannelData is one measure of tokenized channel strings. StartTick
// and BarTickCount already account for the measure's scale.
type MeasureChannelData struct {
	StartTick    int
	BarTickCount int

	Notes           map[NoteTrait]string
	PlayWav         []string
	ChangeBaseLayer string
	ChangePoorLayer string
	StopPlay        string
	ChangeBPM       string
	ChangeExBPM     string
}

type ScoreData struct {
	Notes           []NoteEvent      `json:"notes"`
	PlayWav         []BarEvent       `json:"play_wav"`
	ChangeExBPM     []BPMChangeEvent `json:"change_bpm"`
	ChangeBaseLayer []BarEvent       `json:"change_base_layer"`
	ChangePoorLayer []BarEvent       `json:"change_poor_layer"`
	StopPlay        []BarEvent       `json:"stop_play"`
}
