package score

import (
	"strconv"

	"github.com/jsphweid/harp/constants"
)

// splitCells cuts a channel string into its 2 character cells. Strings with
// an odd length carry no usable data.
func splitCells(data string) []string {
	if len(data) == 0 || len(data)%2 != 0 {
		return nil
	}
	cells := make([]string, 0, len(data)/2)
	for i := 0; i < len(data); i += 2 {
		cells = append(cells, data[i:i+2])
	}
	return cells
}

// cellTick places cell i of n within a measure.
func cellTick(startTick, barTickCount, i, n int) int {
	return startTick + barTickCount*i/n
}

func isDigitIn(c byte, base int) bool {
	var v int
	switch {
	case c >= '0' && c <= '9':
		v = int(c - '0')
	case c >= 'a' && c <= 'z':
		v = int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		v = int(c-'A') + 10
	default:
		return false
	}
	return v < base
}

func parseCell(cell string, base int) (int, bool) {
	if len(cell) == 0 {
		return 0, false
	}
	// strconv accepts signs and underscores, cells never have them
	for i := 0; i < len(cell); i++ {
		if !isDigitIn(cell[i], base) {
			return 0, false
		}
	}
	v, err := strconv.ParseInt(cell, base, 64)
	if err != nil {
		return 0, false
	}
	return int(v), true
}

// ParseKey decodes a base-36 object key like "0A" or "zz".
func ParseKey(cell string) (int, bool) {
	return parseCell(cell, 36)
}

func parseHex(cell string) (int, bool) {
	return parseCell(cell, 16)
}

func isRest(cell string) bool {
	return cell == constants.KeyForRest
}
