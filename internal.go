package lframe

import (
	"fmt"
	"reflect"
)

func isSlice(input interface{}) bool {
	if input == nil {
		return false
	}
	return reflect.TypeOf(input).Kind() == reflect.Slice
}

// makeIntRange returns a sequential series of numbers (inclusive of min, exclusive of max)
func makeIntRange(min, max int) []int {
	if max < min {
		return []int{}
	}
	ret := make([]int, max-min)
	for i := range ret {
		ret[i] = min + i
	}
	return ret
}

// makeDefaultLabels returns the labels 0..n-1.
func makeDefaultLabels(n int) []interface{} {
	ret := make([]interface{}, n)
	for i := range ret {
		ret[i] = i
	}
	return ret
}

// toInterfaceSlice copies any slice into []interface{}.
// Tuples and other slices nested inside an []interface{} are kept as elements.
func toInterfaceSlice(slice interface{}) ([]interface{}, error) {
	switch s := slice.(type) {
	case nil:
		return []interface{}{}, nil
	case []interface{}:
		ret := make([]interface{}, len(s))
		copy(ret, s)
		return ret, nil
	case Tuple:
		ret := make([]interface{}, len(s))
		copy(ret, s)
		return ret, nil
	case []Tuple:
		ret := make([]interface{}, len(s))
		for i := range s {
			ret[i] = s[i]
		}
		return ret, nil
	}
	if !isSlice(slice) {
		return nil, fmt.Errorf("unsupported kind (%v); must be slice: %w", reflect.TypeOf(slice).Kind(), ErrArgument)
	}
	v := reflect.ValueOf(slice)
	ret := make([]interface{}, v.Len())
	for i := 0; i < v.Len(); i++ {
		ret[i] = v.Index(i).Interface()
	}
	return ret, nil
}

// normalizePosition resolves a possibly negative position against size.
// Valid positions lie in [-size, size).
func normalizePosition(pos, size int) (int, error) {
	if pos < -size || pos >= size {
		return 0, fmt.Errorf("position %d out of range [%d, %d): %w", pos, -size, size, ErrIndex)
	}
	if pos < 0 {
		pos += size
	}
	return pos, nil
}

// expandPositions resolves ints and Spans into a flat list of non-negative positions.
func expandPositions(keys []interface{}, size int) ([]int, error) {
	var ret []int
	for _, key := range keys {
		switch k := key.(type) {
		case Span:
			positions, err := k.positions(size)
			if err != nil {
				return nil, err
			}
			ret = append(ret, positions...)
		default:
			pos, ok := asPosition(key)
			if !ok {
				return nil, fmt.Errorf("%v (%T) is not a position: %w", key, key, ErrIndex)
			}
			n, err := normalizePosition(pos, size)
			if err != nil {
				return nil, err
			}
			ret = append(ret, n)
		}
	}
	return ret, nil
}

// subsetValues returns the values at the positions specified by index, in that order.
// If any position is out of range, returns an error
func subsetValues(values []interface{}, index []int) ([]interface{}, error) {
	ret := make([]interface{}, len(index))
	for indexPosition, indexValue := range index {
		if indexValue < 0 || indexValue >= len(values) {
			return nil, fmt.Errorf("index out of range (%d > %d): %w", indexValue, len(values)-1, ErrIndex)
		}
		ret[indexPosition] = values[indexValue]
	}
	return ret, nil
}

// dropPosition returns a new slice without the value at pos.
func dropPosition(values []interface{}, pos int) []interface{} {
	ret := make([]interface{}, 0, len(values)-1)
	ret = append(ret, values[:pos]...)
	return append(ret, values[pos+1:]...)
}

// dedupePositions drops repeated positions, keeping first appearance order.
func dedupePositions(positions []int) []int {
	seen := make(map[int]bool, len(positions))
	ret := make([]int, 0, len(positions))
	for _, p := range positions {
		if !seen[p] {
			seen[p] = true
			ret = append(ret, p)
		}
	}
	return ret
}
