package lframe

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Tuple is a composite label with one component per MultiIndex level.
type Tuple []interface{}

// valueClass groups values that have a natural order among themselves.
type valueClass int

const (
	classNumber valueClass = iota
	classString
	classTime
	classBool
	classTuple
	classOther
)

// -- keys

// labelKey returns the canonical key used to hash and compare a label.
// All integer kinds share one key space, so 1 and int64(1) are the same label.
func labelKey(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "n:"
	case string:
		return "s:" + x
	case bool:
		return "b:" + strconv.FormatBool(x)
	case time.Time:
		return "t:" + x.UTC().Format(time.RFC3339Nano)
	case float32:
		return floatKey(float64(x))
	case float64:
		return floatKey(x)
	case Tuple:
		return tupleKey(x)
	case []interface{}:
		return tupleKey(x)
	}
	if i, ok := asInt64(v); ok {
		return "i:" + strconv.FormatInt(i, 10)
	}
	if u, ok := v.(uint64); ok {
		return "i:" + strconv.FormatUint(u, 10)
	}
	if u, ok := v.(uint); ok {
		return "i:" + strconv.FormatUint(uint64(u), 10)
	}
	return fmt.Sprintf("o:%T:%v", v, v)
}

func floatKey(f float64) string {
	if math.IsNaN(f) {
		return "f:NaN"
	}
	return "f:" + strconv.FormatFloat(f, 'g', -1, 64)
}

func tupleKey(t []interface{}) string {
	parts := make([]string, len(t))
	for i := range t {
		parts[i] = labelKey(t[i])
	}
	return "(" + strings.Join(parts, "\x1f") + ")"
}

func labelsEqual(a, b interface{}) bool {
	return labelKey(a) == labelKey(b)
}

// -- converters

// asInt64 reports the value of any integer kind that fits in an int64.
func asInt64(v interface{}) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint:
		if uint64(x) <= math.MaxInt64 {
			return int64(x), true
		}
	case uint64:
		if x <= math.MaxInt64 {
			return int64(x), true
		}
	}
	return 0, false
}

// asPosition reports whether v may be interpreted as a position. Only integer kinds qualify.
func asPosition(v interface{}) (int, bool) {
	i, ok := asInt64(v)
	if !ok {
		return 0, false
	}
	return int(i), true
}

func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	}
	if i, ok := asInt64(v); ok {
		return float64(i), true
	}
	if u, ok := v.(uint64); ok {
		return float64(u), true
	}
	if u, ok := v.(uint); ok {
		return float64(u), true
	}
	return 0, false
}

func isNumber(v interface{}) bool {
	_, ok := toFloat(v)
	return ok
}

func isInteger(v interface{}) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

// isMissing reports whether v is one of the two missing-value sentinels: nil or NaN.
func isMissing(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	}
	return false
}

func isNaN(v interface{}) bool {
	return v != nil && isMissing(v)
}

// convertStringToDateTime parses val in any of the layouts recognized by dateparse.
func convertStringToDateTime(val string) (time.Time, bool) {
	parsedVal, err := dateparse.ParseAny(val)
	if err != nil {
		return time.Time{}, false
	}
	return parsedVal, true
}

// -- ordering

func classOf(v interface{}) valueClass {
	switch v.(type) {
	case string:
		return classString
	case time.Time:
		return classTime
	case bool:
		return classBool
	case Tuple, []interface{}:
		return classTuple
	}
	if isNumber(v) {
		return classNumber
	}
	return classOther
}

func asTuple(v interface{}) []interface{} {
	switch x := v.(type) {
	case Tuple:
		return x
	case []interface{}:
		return x
	}
	return nil
}

// compareSameClass compares two values already known to share a comparable class.
func compareSameClass(a, b interface{}) int {
	switch classOf(a) {
	case classNumber:
		ai, aok := asInt64(a)
		bi, bok := asInt64(b)
		if aok && bok {
			return compareInt64(ai, bi)
		}
		af, _ := toFloat(a)
		bf, _ := toFloat(b)
		// NaN sorts after every number
		switch {
		case math.IsNaN(af) && math.IsNaN(bf):
			return 0
		case math.IsNaN(af):
			return 1
		case math.IsNaN(bf):
			return -1
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	case classString:
		return strings.Compare(a.(string), b.(string))
	case classTime:
		at, bt := a.(time.Time), b.(time.Time)
		switch {
		case at.Before(bt):
			return -1
		case at.After(bt):
			return 1
		}
		return 0
	case classBool:
		ab, bb := a.(bool), b.(bool)
		switch {
		case ab == bb:
			return 0
		case !ab:
			return -1
		}
		return 1
	case classTuple:
		at, bt := asTuple(a), asTuple(b)
		for i := 0; i < len(at) && i < len(bt); i++ {
			if c := compareSameClass(at[i], bt[i]); c != 0 {
				return c
			}
		}
		return compareInt64(int64(len(at)), int64(len(bt)))
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// compareAsStrings is the fallback order for sets that mix incomparable types:
// string representation first, then class rank.
func compareAsStrings(a, b interface{}) int {
	if c := strings.Compare(fmt.Sprint(a), fmt.Sprint(b)); c != 0 {
		return c
	}
	return compareInt64(int64(classOf(a)), int64(classOf(b)))
}

// homogeneous reports whether every value shares one class (and, for tuples,
// whether each level shares one class), so the natural order applies to the whole set.
func homogeneous(values []interface{}) bool {
	if len(values) == 0 {
		return true
	}
	first := classOf(values[0])
	if first == classOther {
		return false
	}
	for _, v := range values[1:] {
		if classOf(v) != first {
			return false
		}
	}
	if first != classTuple {
		return true
	}
	var levels [][]interface{}
	for _, v := range values {
		t := asTuple(v)
		for len(levels) < len(t) {
			levels = append(levels, nil)
		}
		for l := range t {
			levels[l] = append(levels[l], t[l])
		}
	}
	for l := range levels {
		if !homogeneous(levels[l]) {
			return false
		}
	}
	return true
}

// comparatorFor returns the ordering applied to values:
// natural order when the set is homogeneous, string representation otherwise.
func comparatorFor(values []interface{}) func(a, b interface{}) int {
	if homogeneous(values) {
		return compareSameClass
	}
	return compareAsStrings
}

// valueSorter orders values and carries their original positions along.
type valueSorter struct {
	slice []interface{}
	index []int
	cmp   func(a, b interface{}) int
}

// Less compares by value only; sort.Stable keeps ties in original order.
func (vs valueSorter) Less(i, j int) bool {
	return vs.cmp(vs.slice[i], vs.slice[j]) < 0
}

// Len returns the number of values being sorted.
func (vs valueSorter) Len() int {
	return len(vs.slice)
}

// Swap swaps both the values and their original positions.
func (vs valueSorter) Swap(i, j int) {
	vs.slice[i], vs.slice[j] = vs.slice[j], vs.slice[i]
	vs.index[i], vs.index[j] = vs.index[j], vs.index[i]
}

// sortPositions returns the original positions of values in sorted order.
// The sort is stable in both directions. If cmp is nil, the set-level comparator is used.
func sortPositions(values []interface{}, ascending bool, cmp func(a, b interface{}) int) []int {
	vs := valueSorter{
		slice: make([]interface{}, len(values)),
		index: makeIntRange(0, len(values)),
		cmp:   cmp,
	}
	copy(vs.slice, values)
	if vs.cmp == nil {
		vs.cmp = comparatorFor(values)
	}
	var srt sort.Interface = vs
	if !ascending {
		srt = sort.Reverse(srt)
	}
	sort.Stable(srt)
	return vs.index
}
