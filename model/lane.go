package model

import "fmt"

type Lane int

const (
	P1Key1 Lane = iota
	P1Key2
	P1Key3
	P1Key4
	P1Key5
	P1Key6
	P1Key7
	P1Scratch
	P2Key1
	P2Key2
	P2Key3
	P2Key4
	P2Key5
	P2Key6
	P2Key7
	P2Scratch
)

var Lanes = []Lane{
	P1Key1, P1Key2, P1Key3, P1Key4, P1Key5, P1Key6, P1Key7, P1Scratch,
	P2Key1, P2Key2, P2Key3, P2Key4, P2Key5, P2Key6, P2Key7, P2Scratch,
}

func (l Lane) Player() int {
	if l >= P2Key1 {
		return 2
	}
	return 1
}

func (l Lane) String() string {
	if l < P1Key1 || l > P2Scratch {
		return "unknown"
	}
	if l == P1Scratch || l == P2Scratch {
		return fmt.Sprintf("%vP-scratch", l.Player())
	}
	return fmt.Sprintf("%vP-key%v", l.Player(), int(l%8)+1)
}

func (l Lane) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// second digit of a note channel id, 7 is the free zone and has no lane
var laneByChannelDigit = map[byte]Lane{
	'1': P1Key1,
	'2': P1Key2,
	'3': P1Key3,
	'4': P1Key4,
	'5': P1Key5,
	'6': P1Scratch,
	'8': P1Key6,
	'9': P1Key7,
}

// TraitForChannel maps a BMS note channel id to the lane and note kind its
// objects are placed with. 1x/2x are visible notes for player 1/2 and 5x/6x
// the channel encoded long notes of the same lanes.
func TraitForChannel(channel string) (NoteTrait, bool) {
	if len(channel) != 2 {
		return NoteTrait{}, false
	}
	lane, ok := laneByChannelDigit[channel[1]]
	if !ok {
		return NoteTrait{}, false
	}

	switch channel[0] {
	case '1':
		return NoteTrait{Lane: lane, Kind: Visible}, true
	case '2':
		return NoteTrait{Lane: lane + P2Key1, Kind: Visible}, true
	case '5':
		return NoteTrait{Lane: lane, Kind: LongStart}, true
	case '6':
		return NoteTrait{Lane: lane + P2Key1, Kind: LongStart}, true
	}
	return NoteTrait{}, false
}
