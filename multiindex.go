package lframe

import (
	"fmt"
	"strings"
)

// A MultiIndex labels each row with a tuple, one component per level.
// Tuples are stored as parallel levels (the distinct values of each level)
// and codes (for each level, one integer per row pointing into that level),
// so that membership at one level is a lookup into that level alone.
type MultiIndex struct {
	levels    [][]interface{}
	codes     [][]int
	names     []string
	levelKeys []map[string]int
	keys      map[string]int
}

// NewMultiIndex builds a MultiIndex from explicit levels and codes.
// Every codes slice must have the same length, and every code must point into its level.
// names is optional; if supplied it must have one name per level.
func NewMultiIndex(levels [][]interface{}, codes [][]int, names ...string) (*MultiIndex, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("constructing MultiIndex: must have at least one level: %w", ErrArgument)
	}
	if len(levels) != len(codes) {
		return nil, fmt.Errorf("constructing MultiIndex: number of levels and codes must match (%d != %d): %w",
			len(levels), len(codes), ErrArgument)
	}
	if len(names) != 0 && len(names) != len(levels) {
		return nil, fmt.Errorf("constructing MultiIndex: number of names and levels must match (%d != %d): %w",
			len(names), len(levels), ErrArgument)
	}
	size := len(codes[0])
	retLevels := make([][]interface{}, len(levels))
	retCodes := make([][]int, len(codes))
	for l := range levels {
		if len(codes[l]) != size {
			return nil, fmt.Errorf("constructing MultiIndex: level %d: all codes must have same length as level 0 (%d != %d): %w",
				l, len(codes[l]), size, ErrArgument)
		}
		for i, c := range codes[l] {
			if c < 0 || c >= len(levels[l]) {
				return nil, fmt.Errorf("constructing MultiIndex: level %d, row %d: code %d out of range [0, %d): %w",
					l, i, c, len(levels[l]), ErrArgument)
			}
		}
		retLevels[l] = append([]interface{}{}, levels[l]...)
		retCodes[l] = append([]int{}, codes[l]...)
	}
	return newMultiIndex(retLevels, retCodes, copyNames(names, len(levels))), nil
}

// MultiIndexFromTuples infers each level as the sorted distinct values at that
// tuple position, and encodes every row against those levels. Row order is preserved.
// All tuples must have the same, non-zero length.
func MultiIndexFromTuples(tuples []Tuple, names ...string) (*MultiIndex, error) {
	raw := make([][]interface{}, len(tuples))
	for i := range tuples {
		raw[i] = tuples[i]
	}
	mi, err := multiIndexFromRaw(raw, names)
	if err != nil {
		return nil, fmt.Errorf("constructing MultiIndex from tuples: %w", err)
	}
	return mi, nil
}

// tryMultiIndex returns a MultiIndex if every label is a tuple of one common length.
func tryMultiIndex(labels []interface{}) (*MultiIndex, bool) {
	if len(labels) == 0 {
		return nil, false
	}
	raw := make([][]interface{}, len(labels))
	for i, l := range labels {
		if classOf(l) != classTuple {
			return nil, false
		}
		raw[i] = asTuple(l)
	}
	mi, err := multiIndexFromRaw(raw, nil)
	if err != nil {
		return nil, false
	}
	return mi, true
}

func multiIndexFromRaw(tuples [][]interface{}, names []string) (*MultiIndex, error) {
	if len(tuples) == 0 {
		return nil, fmt.Errorf("must have at least one tuple: %w", ErrArgument)
	}
	width := len(tuples[0])
	if width == 0 {
		return nil, fmt.Errorf("tuples must have at least one component: %w", ErrArgument)
	}
	if len(names) != 0 && len(names) != width {
		return nil, fmt.Errorf("number of names and levels must match (%d != %d): %w", len(names), width, ErrArgument)
	}
	for i := range tuples {
		if len(tuples[i]) != width {
			return nil, fmt.Errorf("tuple %d: all tuples must have same length as tuple 0 (%d != %d): %w",
				i, len(tuples[i]), width, ErrArgument)
		}
	}
	levels := make([][]interface{}, width)
	codes := make([][]int, width)
	for l := 0; l < width; l++ {
		column := make([]interface{}, len(tuples))
		for i := range tuples {
			column[i] = tuples[i][l]
		}
		distinct := dedupeLabels(column)
		order := sortPositions(distinct, true, nil)
		levels[l] = make([]interface{}, len(order))
		lookup := make(map[string]int, len(order))
		for code, p := range order {
			levels[l][code] = distinct[p]
			lookup[labelKey(distinct[p])] = code
		}
		codes[l] = make([]int, len(tuples))
		for i := range column {
			codes[l][i] = lookup[labelKey(column[i])]
		}
	}
	return newMultiIndex(levels, codes, copyNames(names, width)), nil
}

// newMultiIndex takes ownership of its arguments.
func newMultiIndex(levels [][]interface{}, codes [][]int, names []string) *MultiIndex {
	mi := &MultiIndex{levels: levels, codes: codes, names: names}
	mi.levelKeys = make([]map[string]int, len(levels))
	for l := range levels {
		mi.levelKeys[l] = make(map[string]int, len(levels[l]))
		for code, v := range levels[l] {
			k := labelKey(v)
			if _, ok := mi.levelKeys[l][k]; !ok {
				mi.levelKeys[l][k] = code
			}
		}
	}
	mi.keys = make(map[string]int, mi.Len())
	for i := 0; i < mi.Len(); i++ {
		k := tupleKey(mi.tuple(i))
		if _, ok := mi.keys[k]; !ok {
			mi.keys[k] = i
		}
	}
	return mi
}

func copyNames(names []string, width int) []string {
	ret := make([]string, width)
	copy(ret, names)
	return ret
}

// Kind returns MultiLevelIndex.
func (mi *MultiIndex) Kind() IndexKind {
	return MultiLevelIndex
}

// Len returns the number of rows.
func (mi *MultiIndex) Len() int {
	if len(mi.codes) == 0 {
		return 0
	}
	return len(mi.codes[0])
}

// Width returns the number of levels.
func (mi *MultiIndex) Width() int {
	return len(mi.levels)
}

// Name returns the level names joined by "|", or "" if no level is named.
func (mi *MultiIndex) Name() string {
	for _, n := range mi.names {
		if n != "" {
			return strings.Join(mi.names, "|")
		}
	}
	return ""
}

// Names returns a copy of the level names.
func (mi *MultiIndex) Names() []string {
	return copyNames(mi.names, len(mi.names))
}

// WithNames returns a copy of the index with new level names.
func (mi *MultiIndex) WithNames(names ...string) (*MultiIndex, error) {
	if len(names) != mi.Width() {
		return nil, fmt.Errorf("setting level names: number of names and levels must match (%d != %d): %w",
			len(names), mi.Width(), ErrArgument)
	}
	ret := *mi
	ret.names = copyNames(names, len(names))
	return &ret, nil
}

// Levels returns a copy of the distinct values per level.
func (mi *MultiIndex) Levels() [][]interface{} {
	ret := make([][]interface{}, len(mi.levels))
	for l := range mi.levels {
		ret[l] = append([]interface{}{}, mi.levels[l]...)
	}
	return ret
}

// Codes returns a copy of the per-level codes.
func (mi *MultiIndex) Codes() [][]int {
	ret := make([][]int, len(mi.codes))
	for l := range mi.codes {
		ret[l] = append([]int{}, mi.codes[l]...)
	}
	return ret
}

// expects valid position
func (mi *MultiIndex) tuple(pos int) Tuple {
	ret := make(Tuple, len(mi.levels))
	for l := range mi.levels {
		ret[l] = mi.levels[l][mi.codes[l][pos]]
	}
	return ret
}

// Labels returns every row as a Tuple.
func (mi *MultiIndex) Labels() []interface{} {
	ret := make([]interface{}, mi.Len())
	for i := range ret {
		ret[i] = mi.tuple(i)
	}
	return ret
}

// Tuples returns every row as a Tuple.
func (mi *MultiIndex) Tuples() []Tuple {
	ret := make([]Tuple, mi.Len())
	for i := range ret {
		ret[i] = mi.tuple(i)
	}
	return ret
}

func (mi *MultiIndex) String() string {
	return indexString(mi)
}

// At returns the Tuple at position.
func (mi *MultiIndex) At(position int) (interface{}, error) {
	t, err := mi.TupleAt(position)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// TupleAt decodes the row at position back into a Tuple.
func (mi *MultiIndex) TupleAt(position int) (Tuple, error) {
	pos, err := normalizePosition(position, mi.Len())
	if err != nil {
		return nil, fmt.Errorf("tuple at: %w", err)
	}
	return mi.tuple(pos), nil
}

// SparseTuples returns every row as a Tuple in which the leading components that
// repeat the previous row are replaced by nil. It is used for display only.
func (mi *MultiIndex) SparseTuples() []Tuple {
	ret := make([]Tuple, mi.Len())
	for i := range ret {
		ret[i] = mi.tuple(i)
		if i == 0 {
			continue
		}
		for l := range mi.codes {
			if mi.codes[l][i] != mi.codes[l][i-1] {
				break
			}
			ret[i][l] = nil
		}
	}
	return ret
}

// matchRows narrows the rows level by level and fails at the first level
// where a component is unknown or no row remains.
func (mi *MultiIndex) matchRows(parts []interface{}) ([]int, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty tuple: %w", ErrIndex)
	}
	if len(parts) > mi.Width() {
		return nil, fmt.Errorf("tuple %v has %d components but index has %d levels: %w",
			parts, len(parts), mi.Width(), ErrIndex)
	}
	rows := makeIntRange(0, mi.Len())
	for l, part := range parts {
		code, ok := mi.levelKeys[l][labelKey(part)]
		if !ok {
			return nil, fmt.Errorf("%v not found at level %d: %w", part, l, ErrIndex)
		}
		matched := rows[:0:0]
		for _, r := range rows {
			if mi.codes[l][r] == code {
				matched = append(matched, r)
			}
		}
		if len(matched) == 0 {
			return nil, fmt.Errorf("no row matches %v at level %d: %w", Tuple(parts[:l+1]), l, ErrIndex)
		}
		rows = matched
	}
	return rows, nil
}

// Lookup resolves a full or partial tuple. A full tuple returns its position and a nil MultiIndex.
// A partial tuple (a prefix of the levels) returns -1 and a new MultiIndex over exactly
// the matching rows; the matched levels are kept (see DropLeftLevel).
func (mi *MultiIndex) Lookup(parts ...interface{}) (int, *MultiIndex, error) {
	rows, err := mi.matchRows(parts)
	if err != nil {
		return -1, nil, fmt.Errorf("lookup: %w", err)
	}
	if len(parts) == mi.Width() {
		return rows[0], nil, nil
	}
	return -1, mi.take(rows), nil
}

// DropLeftLevel returns a new MultiIndex without its first n levels.
// At least one level must remain.
func (mi *MultiIndex) DropLeftLevel(n int) (*MultiIndex, error) {
	if n < 1 || n >= mi.Width() {
		return nil, fmt.Errorf("dropping levels: n must be in [1, %d) (got %d): %w", mi.Width(), n, ErrArgument)
	}
	return newMultiIndex(mi.levels[n:], mi.codes[n:], mi.names[n:]), nil
}

// Pos resolves key to row positions. Tuples (and single components, as 1-tuples) are
// matched first; an integer that matches nothing at level 0 is used as a position.
func (mi *MultiIndex) Pos(key interface{}) ([]int, error) {
	positions, _, err := mi.Resolve(key)
	return positions, err
}

// Resolve implements Indexer.
func (mi *MultiIndex) Resolve(key interface{}) ([]int, bool, error) {
	switch k := key.(type) {
	case Range:
		positions, err := mi.rangePositions(k)
		return positions, false, err
	case Span:
		positions, err := k.positions(mi.Len())
		return positions, false, err
	}
	parts := asTuple(key)
	if parts == nil {
		parts = []interface{}{key}
	}
	rows, err := mi.matchRows(parts)
	if err == nil {
		if len(parts) == mi.Width() {
			return rows[:1], true, nil
		}
		return rows, false, nil
	}
	if p, ok := asPosition(key); ok {
		pos, perr := normalizePosition(p, mi.Len())
		if perr == nil {
			return []int{pos}, true, nil
		}
	}
	return nil, false, err
}

func (mi *MultiIndex) rangePositions(r Range) ([]int, error) {
	from, _, err := mi.Resolve(r.From)
	if err != nil {
		return nil, fmt.Errorf("range start: %w", err)
	}
	to, _, err := mi.Resolve(r.To)
	if err != nil {
		return nil, fmt.Errorf("range end: %w", err)
	}
	return makeIntRange(from[0], to[len(to)-1]+1), nil
}

// Contains reports whether label is a full tuple, a leading partial tuple,
// or (for a non-tuple) a value at level 0.
func (mi *MultiIndex) Contains(label interface{}) bool {
	parts := asTuple(label)
	if parts == nil {
		parts = []interface{}{label}
	}
	_, err := mi.matchRows(parts)
	return err == nil
}

// Locate returns the position of a full tuple.
func (mi *MultiIndex) Locate(label interface{}) (int, bool) {
	if classOf(label) != classTuple {
		return 0, false
	}
	pos, ok := mi.keys[labelKey(label)]
	return pos, ok
}

// expects valid positions; levels are shared, codes are re-sliced
func (mi *MultiIndex) take(positions []int) *MultiIndex {
	codes := make([][]int, len(mi.codes))
	for l := range mi.codes {
		codes[l] = make([]int, len(positions))
		for i, p := range positions {
			codes[l][i] = mi.codes[l][p]
		}
	}
	return newMultiIndex(mi.levels, codes, mi.names)
}

// Take implements Indexer.
func (mi *MultiIndex) Take(positions []int) (Indexer, error) {
	for _, p := range positions {
		if p < 0 || p >= mi.Len() {
			return nil, fmt.Errorf("take: position %d out of range [0, %d): %w", p, mi.Len(), ErrIndex)
		}
	}
	return mi.take(positions), nil
}

// Add implements Indexer. label must be a Tuple with one component per level;
// components new to a level are appended to that level.
func (mi *MultiIndex) Add(label interface{}) (Indexer, error) {
	parts := asTuple(label)
	if len(parts) != mi.Width() {
		return nil, fmt.Errorf("adding label: %v must be a tuple of length %d: %w", label, mi.Width(), ErrArgument)
	}
	if _, ok := mi.Locate(label); ok {
		return nil, fmt.Errorf("adding label: %v already exists: %w", label, ErrArgument)
	}
	levels := make([][]interface{}, mi.Width())
	codes := make([][]int, mi.Width())
	for l, part := range parts {
		levels[l] = mi.levels[l]
		code, ok := mi.levelKeys[l][labelKey(part)]
		if !ok {
			levels[l] = append(append([]interface{}{}, mi.levels[l]...), part)
			code = len(levels[l]) - 1
		}
		codes[l] = append(append(make([]int, 0, mi.Len()+1), mi.codes[l]...), code)
	}
	return newMultiIndex(levels, codes, mi.names), nil
}

// DeleteAt implements Indexer. Level values that are no longer used are kept.
func (mi *MultiIndex) DeleteAt(position int) (Indexer, error) {
	pos, err := normalizePosition(position, mi.Len())
	if err != nil {
		return nil, fmt.Errorf("deleting label: %w", err)
	}
	keep := make([]int, 0, mi.Len()-1)
	for i := 0; i < mi.Len(); i++ {
		if i != pos {
			keep = append(keep, i)
		}
	}
	return mi.take(keep), nil
}

// Sort implements Indexer. Rows are ordered lexicographically by level.
func (mi *MultiIndex) Sort(ascending bool) (Indexer, []int) {
	order := sortPositions(mi.Labels(), ascending, nil)
	return mi.take(order), order
}

// Equal implements Indexer: levels and codes must match exactly.
func (mi *MultiIndex) Equal(other Indexer) bool {
	o, ok := other.(*MultiIndex)
	if !ok || o.Width() != mi.Width() || o.Len() != mi.Len() {
		return false
	}
	for l := range mi.levels {
		if !sameLabels(mi.levels[l], o.levels[l]) {
			return false
		}
		for i := range mi.codes[l] {
			if mi.codes[l][i] != o.codes[l][i] {
				return false
			}
		}
	}
	return true
}

func (mi *MultiIndex) rebuild(labels []interface{}) (Indexer, error) {
	if len(labels) == 0 {
		return mi.take(nil), nil
	}
	raw := make([][]interface{}, len(labels))
	for i, l := range labels {
		if classOf(l) != classTuple {
			return nil, fmt.Errorf("label %v is not a tuple: %w", l, ErrArgument)
		}
		raw[i] = asTuple(l)
	}
	return multiIndexFromRaw(raw, mi.names)
}
