package file

import (
	"sort"

	"github.com/jsphweid/harp/model"
)

// CreateFileNumMap numbers chart paths in sorted order so indexing the same
// directory twice numbers it the same way.
func CreateFileNumMap(paths []string) model.FileNumToChartPath {
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)

	res := make(model.FileNumToChartPath)
	for i, v := range sorted {
		res[uint32(i)] = v
	}
	return res
}
