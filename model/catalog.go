package model

type FileNumToChartPath = map[uint32]string

type ChartSummary struct {
	ID        string `json:"id"`
	Path      string `json:"path"`
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Genre     string `json:"genre"`
	PlayLevel string `json:"play_level"`

	InitialBPM    float64 `json:"initial_bpm"`
	MinBPM        float64 `json:"min_bpm"`
	MaxBPM        float64 `json:"max_bpm"`
	NoteCount     int     `json:"note_count"`
	LongNoteCount int     `json:"long_note_count"`
	StopCount     int     `json:"stop_count"`
	TotalTicks    int     `json:"total_ticks"`
	LengthSec     float64 `json:"length_sec"`
}

type ChartMetadata struct {
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Genre     string `json:"genre"`
	PlayLevel string `json:"play_level"`
}
