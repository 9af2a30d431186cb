package chart

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

type chartFile struct {
	Header   fileHeader    `json:"header" yaml:"header"`
	Measures []fileMeasure `json:"measures" yaml:"measures"`
}

type fileHeader struct {
	Title     string             `json:"title" yaml:"title"`
	Artist    string             `json:"artist" yaml:"artist"`
	Genre     string             `json:"genre" yaml:"genre"`
	PlayLevel string             `json:"playlevel" yaml:"playlevel"`
	BPM       float64            `json:"bpm" yaml:"bpm"`
	LNObj     string             `json:"lnobj" yaml:"lnobj"`
	Stop      map[string]int     `json:"stop" yaml:"stop"`
	ExBPM     map[string]float64 `json:"exbpm" yaml:"exbpm"`
}

type fileMeasure struct {
	Index    int                    `json:"index" yaml:"index"`
	Scale    float64                `json:"scale" yaml:"scale"`
	Channels map[string]channelData `json:"channels" yaml:"channels"`
}

// channelData is written either as a single string or a list of strings.
type channelData []string

func (c *channelData) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*c = channelData{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*c = many
	return nil
}

func (c *channelData) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*c = channelData{value.Value}
		return nil
	}
	var many []string
	if err := value.Decode(&many); err != nil {
		return err
	}
	*c = many
	return nil
}
