package util

import (
	"encoding/gob"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jsphweid/harp/constants"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

func EnsureOutputDir() error {
	return errors.Wrap(os.MkdirAll(constants.GetIndexDir(), 0777), "Could not create output dir")
}

func GetCatalogPath() string {
	return filepath.Join(constants.GetIndexDir(), constants.CatalogFilename)
}

func IsChartPath(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".json") ||
		strings.HasSuffix(lower, ".yml") ||
		strings.HasSuffix(lower, ".yaml")
}

// GatherAllChartPaths walks path for tokenized chart files. maxNum 0 means
// no limit. A directory that can't be walked fails the whole gather.
func GatherAllChartPaths(path string, maxNum int) ([]string, error) {
	var res []string
	walk := func(s string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsChartPath(s) {
			if maxNum == 0 || len(res) < maxNum {
				res = append(res, s)
			}
		}
		return nil
	}
	if err := filepath.WalkDir(path, walk); err != nil {
		return nil, errors.Wrapf(err, "Error walking %v", path)
	}
	return res, nil
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

// CreateBinary gob encodes data into filename, through a temp file that is
// renamed into place.
func CreateBinary(filename string, data any) error {
	fmt.Printf("Creating binary for filename: %v\n", filename)
	tmp := filename + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return errors.Wrapf(err, "Couldn't open file %v", tmp)
	}

	if err := gob.NewEncoder(f).Encode(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrapf(err, "Could not encode %v", filename)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "Write failed for file %v", filename)
	}
	return errors.Wrapf(os.Rename(tmp, filename), "Could not replace %v", filename)
}

func ReadBinary[A any](path string) (A, error) {
	var data A
	f, err := os.Open(path)
	if err != nil {
		return data, errors.Wrap(err, "Could not load binary file")
	}
	defer f.Close()

	if err := gob.NewDecoder(f).Decode(&data); err != nil {
		return data, errors.Wrap(err, "Could not decode binary file")
	}
	return data, nil
}

func ReadBinaryOrPanic[A any](path string) A {
	data, err := ReadBinary[A](path)
	if err != nil {
		panic(err.Error())
	}
	return data
}

// Extent returns the smallest and largest of values. Both are the zero value
// when values is empty.
func Extent[A constraints.Ordered](values ...A) (A, A) {
	var lo, hi A
	for i, v := range values {
		if i == 0 || v < lo {
			lo = v
		}
		if i == 0 || v > hi {
			hi = v
		}
	}
	return lo, hi
}

func Sum[A constraints.Integer | constraints.Float](nums []A) A {
	var total A
	for _, v := range nums {
		total += v
	}
	return total
}
