package model

import "github.com/jsphweid/harp/constants"

// Table maps the 2 digit base-36 keys a chart header declares (#STOPxx,
// #BPMxx) to their values. The zero value is an empty table.
type Table[V any] struct {
	values []V
	set    []bool
}

func (t *Table[V]) Set(key int, v V) bool {
	if key < 0 || key > constants.MaxKey {
		return false
	}
	if t.values == nil {
		t.values = make([]V, constants.MaxKey+1)
		t.set = make([]bool, constants.MaxKey+1)
	}
	t.values[key] = v
	t.set[key] = true
	return true
}

func (t Table[V]) Lookup(key int) (V, bool) {
	var zero V
	if t.values == nil || key < 0 || key > constants.MaxKey || !t.set[key] {
		return zero, false
	}
	return t.values[key], true
}

func (t Table[V]) Len() int {
	var n int
	for _, ok := range t.set {
		if ok {
			n++
		}
	}
	return n
}
