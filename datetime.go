package lframe

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// A DateTimeIndex is an Index of time labels. In addition to exact lookups,
// a partial date string selects every label in that period:
// "2020" a year, "2020-03" a month, and "2020-03-01" a day when no label matches it exactly.
type DateTimeIndex struct {
	times []time.Time
	keys  map[string]int
	name  string
}

var (
	yearPeriod  = regexp.MustCompile(`^\d{4}$`)
	monthPeriod = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})$`)
)

// NewDateTimeIndex builds a DateTimeIndex from a []time.Time or from any slice of
// time.Time values and strings in a layout recognized by dateparse.
func NewDateTimeIndex(src interface{}) (*DateTimeIndex, error) {
	if ts, ok := src.([]time.Time); ok {
		return newDateTimeIndex(append([]time.Time{}, ts...), ""), nil
	}
	var name string
	if ix, ok := src.(Indexer); ok {
		name = ix.Name()
		src = ix.Labels()
	}
	labels, err := toInterfaceSlice(src)
	if err != nil {
		return nil, fmt.Errorf("constructing DateTimeIndex: %w", err)
	}
	times, err := toTimes(labels)
	if err != nil {
		return nil, fmt.Errorf("constructing DateTimeIndex: %w", err)
	}
	return newDateTimeIndex(times, name), nil
}

// tryDateTimeIndex succeeds only if every label is a time.Time or a string that clearly
// looks like a date (at least 8 characters with a date separator) and parses as one.
func tryDateTimeIndex(labels []interface{}) (*DateTimeIndex, bool) {
	if len(labels) == 0 {
		return nil, false
	}
	for _, l := range labels {
		if s, ok := l.(string); ok && (len(s) < 8 || !strings.ContainsAny(s, "-/")) {
			return nil, false
		}
	}
	times, err := toTimes(labels)
	if err != nil {
		return nil, false
	}
	return newDateTimeIndex(times, ""), true
}

func toTimes(labels []interface{}) ([]time.Time, error) {
	times := make([]time.Time, len(labels))
	for i, l := range labels {
		t, ok := toTime(l)
		if !ok {
			return nil, fmt.Errorf("label %v (%T) at position %d is not a datetime: %w", l, l, i, ErrArgument)
		}
		times[i] = t
	}
	return times, nil
}

func toTime(v interface{}) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		return convertStringToDateTime(x)
	}
	return time.Time{}, false
}

func newDateTimeIndex(times []time.Time, name string) *DateTimeIndex {
	keys := make(map[string]int, len(times))
	for i, t := range times {
		k := labelKey(t)
		if _, ok := keys[k]; !ok {
			keys[k] = i
		}
	}
	if times == nil {
		times = []time.Time{}
	}
	return &DateTimeIndex{times: times, keys: keys, name: name}
}

// WithName returns a copy of the index with a new name.
func (dx *DateTimeIndex) WithName(name string) *DateTimeIndex {
	return &DateTimeIndex{times: dx.times, keys: dx.keys, name: name}
}

// Kind returns TimeIndex.
func (dx *DateTimeIndex) Kind() IndexKind {
	return TimeIndex
}

// Len returns the number of labels.
func (dx *DateTimeIndex) Len() int {
	return len(dx.times)
}

// Name returns the index name.
func (dx *DateTimeIndex) Name() string {
	return dx.name
}

// Labels returns the labels as time.Time values.
func (dx *DateTimeIndex) Labels() []interface{} {
	ret := make([]interface{}, len(dx.times))
	for i := range dx.times {
		ret[i] = dx.times[i]
	}
	return ret
}

// Times returns a copy of the labels.
func (dx *DateTimeIndex) Times() []time.Time {
	return append([]time.Time{}, dx.times...)
}

func (dx *DateTimeIndex) String() string {
	return indexString(dx)
}

// At returns the time.Time at position.
func (dx *DateTimeIndex) At(position int) (interface{}, error) {
	pos, err := normalizePosition(position, dx.Len())
	if err != nil {
		return nil, fmt.Errorf("at: %w", err)
	}
	return dx.times[pos], nil
}

// Contains reports whether label (a time.Time or a date string) is an exact label.
func (dx *DateTimeIndex) Contains(label interface{}) bool {
	_, ok := dx.Locate(label)
	return ok
}

// Locate returns the position of an exact time.Time or date string label.
// A year or year-month string is a period, never an exact label.
func (dx *DateTimeIndex) Locate(label interface{}) (int, bool) {
	if s, ok := label.(string); ok && (yearPeriod.MatchString(s) || monthPeriod.MatchString(s)) {
		return 0, false
	}
	t, ok := toTime(label)
	if !ok {
		return 0, false
	}
	pos, ok := dx.keys[labelKey(t)]
	return pos, ok
}

// Resolve implements Indexer. An exact label is scalar; a partial date string selects its period.
// Integers are positions.
func (dx *DateTimeIndex) Resolve(key interface{}) ([]int, bool, error) {
	switch k := key.(type) {
	case Range:
		positions, err := dx.rangePositions(k)
		return positions, false, err
	case Span:
		positions, err := k.positions(dx.Len())
		return positions, false, err
	}
	if pos, ok := dx.Locate(key); ok {
		return []int{pos}, true, nil
	}
	if s, ok := key.(string); ok {
		if start, end, ok := parsePeriod(s); ok {
			positions := dx.between(start, end)
			if len(positions) > 0 {
				return positions, false, nil
			}
		}
		return nil, false, fmt.Errorf("no label matches %q: %w", s, ErrIndex)
	}
	if p, ok := asPosition(key); ok {
		pos, err := normalizePosition(p, dx.Len())
		if err != nil {
			return nil, false, fmt.Errorf("%v is not a valid position: %w", key, ErrIndex)
		}
		return []int{pos}, true, nil
	}
	return nil, false, fmt.Errorf("label %v not found: %w", key, ErrIndex)
}

// parsePeriod returns the half-open period [start, end) named by a partial date string.
func parsePeriod(s string) (time.Time, time.Time, bool) {
	if yearPeriod.MatchString(s) {
		year, _ := strconv.Atoi(s)
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, 0), true
	}
	if m := monthPeriod.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if month < 1 || month > 12 {
			return time.Time{}, time.Time{}, false
		}
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0), true
	}
	if strings.Contains(s, ":") {
		return time.Time{}, time.Time{}, false
	}
	t, ok := convertStringToDateTime(s)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1), true
}

func (dx *DateTimeIndex) between(start, end time.Time) []int {
	var ret []int
	for i, t := range dx.times {
		if !t.Before(start) && t.Before(end) {
			ret = append(ret, i)
		}
	}
	return ret
}

// rangePositions spans from the first position matching From to the last position matching To.
func (dx *DateTimeIndex) rangePositions(r Range) ([]int, error) {
	from, _, err := dx.Resolve(r.From)
	if err != nil {
		return nil, fmt.Errorf("range start: %w", err)
	}
	to, _, err := dx.Resolve(r.To)
	if err != nil {
		return nil, fmt.Errorf("range end: %w", err)
	}
	return makeIntRange(from[0], to[len(to)-1]+1), nil
}

// Take implements Indexer.
func (dx *DateTimeIndex) Take(positions []int) (Indexer, error) {
	times := make([]time.Time, len(positions))
	for i, p := range positions {
		if p < 0 || p >= dx.Len() {
			return nil, fmt.Errorf("take: position %d out of range [0, %d): %w", p, dx.Len(), ErrIndex)
		}
		times[i] = dx.times[p]
	}
	return newDateTimeIndex(times, dx.name), nil
}

// Add implements Indexer. label must be a time.Time or a date string not already present.
func (dx *DateTimeIndex) Add(label interface{}) (Indexer, error) {
	t, ok := toTime(label)
	if !ok {
		return nil, fmt.Errorf("adding label: %v (%T) is not a datetime: %w", label, label, ErrArgument)
	}
	if dx.Contains(t) {
		return nil, fmt.Errorf("adding label: %v already exists: %w", label, ErrArgument)
	}
	times := append(make([]time.Time, 0, dx.Len()+1), dx.times...)
	return newDateTimeIndex(append(times, t), dx.name), nil
}

// DeleteAt implements Indexer.
func (dx *DateTimeIndex) DeleteAt(position int) (Indexer, error) {
	pos, err := normalizePosition(position, dx.Len())
	if err != nil {
		return nil, fmt.Errorf("deleting label: %w", err)
	}
	times := make([]time.Time, 0, dx.Len()-1)
	times = append(times, dx.times[:pos]...)
	return newDateTimeIndex(append(times, dx.times[pos+1:]...), dx.name), nil
}

// Sort implements Indexer, chronologically.
func (dx *DateTimeIndex) Sort(ascending bool) (Indexer, []int) {
	order := sortPositions(dx.Labels(), ascending, compareSameClass)
	ret, _ := dx.Take(order)
	return ret, order
}

// Equal implements Indexer.
func (dx *DateTimeIndex) Equal(other Indexer) bool {
	o, ok := other.(*DateTimeIndex)
	if !ok || o.Len() != dx.Len() {
		return false
	}
	for i := range dx.times {
		if !dx.times[i].Equal(o.times[i]) {
			return false
		}
	}
	return true
}

func (dx *DateTimeIndex) rebuild(labels []interface{}) (Indexer, error) {
	times := make([]time.Time, len(labels))
	for i, l := range labels {
		t, ok := l.(time.Time)
		if !ok {
			return nil, fmt.Errorf("label %v is not a time.Time: %w", l, ErrArgument)
		}
		times[i] = t
	}
	return newDateTimeIndex(times, dx.name), nil
}
