package lframe

import (
	"fmt"
)

// An Index is an ordered sequence of labels mapped to the positions 0..n-1.
// Labels are expected to be unique; duplicates are not rejected, and a
// duplicated label resolves to its first position. Use a CategoricalIndex
// when labels repeat on purpose.
type Index struct {
	labels []interface{}
	keys   map[string]int
	name   string
}

// NewIndex builds an Index from src: nil (no labels), a non-negative integer n
// (the labels 0..n-1), or any slice of labels. Unlike CreateIndex, NewIndex never
// returns a specialized kind.
func NewIndex(src interface{}) (*Index, error) {
	if src == nil {
		return newIndexFromLabels(nil, ""), nil
	}
	if n, ok := asPosition(src); ok {
		if n < 0 {
			return nil, fmt.Errorf("constructing Index: size must not be negative (%d): %w", n, ErrArgument)
		}
		return newIndexFromLabels(makeDefaultLabels(n), ""), nil
	}
	if ix, ok := src.(Indexer); ok {
		return newIndexFromLabels(ix.Labels(), ix.Name()), nil
	}
	labels, err := toInterfaceSlice(src)
	if err != nil {
		return nil, fmt.Errorf("constructing Index: %w", err)
	}
	return newIndexFromLabels(labels, ""), nil
}

// newIndexFromLabels takes ownership of labels.
func newIndexFromLabels(labels []interface{}, name string) *Index {
	keys := make(map[string]int, len(labels))
	for i, l := range labels {
		k := labelKey(l)
		if _, ok := keys[k]; !ok {
			keys[k] = i
		}
	}
	if labels == nil {
		labels = []interface{}{}
	}
	return &Index{labels: labels, keys: keys, name: name}
}

// WithName returns a copy of the index with a new name.
func (ix *Index) WithName(name string) *Index {
	return &Index{labels: ix.labels, keys: ix.keys, name: name}
}

// Kind returns PlainIndex.
func (ix *Index) Kind() IndexKind {
	return PlainIndex
}

// Len returns the number of labels.
func (ix *Index) Len() int {
	return len(ix.labels)
}

// Name returns the index name.
func (ix *Index) Name() string {
	return ix.name
}

// Labels returns a copy of the labels in position order.
func (ix *Index) Labels() []interface{} {
	ret := make([]interface{}, len(ix.labels))
	copy(ret, ix.labels)
	return ret
}

func (ix *Index) String() string {
	return indexString(ix)
}

// At returns the label at position. Negative positions count from the end.
func (ix *Index) At(position int) (interface{}, error) {
	pos, err := normalizePosition(position, ix.Len())
	if err != nil {
		return nil, fmt.Errorf("at: %w", err)
	}
	return ix.labels[pos], nil
}

// AtPositions returns a new Index of the labels at the given positions (ints or Spans), in that order.
func (ix *Index) AtPositions(positions ...interface{}) (*Index, error) {
	index, err := expandPositions(positions, ix.Len())
	if err != nil {
		return nil, fmt.Errorf("at positions: %w", err)
	}
	return ix.take(index), nil
}

// Contains reports whether label is one of the labels.
func (ix *Index) Contains(label interface{}) bool {
	_, ok := ix.keys[labelKey(label)]
	return ok
}

// Locate returns the position of label, if present.
func (ix *Index) Locate(label interface{}) (int, bool) {
	pos, ok := ix.keys[labelKey(label)]
	return pos, ok
}

// Pos resolves key to one position: a matching label wins; otherwise an integer
// in [-size, size) is used as a position.
func (ix *Index) Pos(key interface{}) (int, error) {
	if pos, ok := ix.Locate(key); ok {
		return pos, nil
	}
	if p, ok := asPosition(key); ok {
		pos, err := normalizePosition(p, ix.Len())
		if err != nil {
			return 0, fmt.Errorf("%v is neither a label nor a valid position: %w", key, ErrIndex)
		}
		return pos, nil
	}
	return 0, fmt.Errorf("label %v not found: %w", key, ErrIndex)
}

// Resolve implements Indexer.
func (ix *Index) Resolve(key interface{}) ([]int, bool, error) {
	switch k := key.(type) {
	case Range:
		positions, err := ix.rangePositions(k)
		return positions, false, err
	case Span:
		positions, err := k.positions(ix.Len())
		return positions, false, err
	}
	pos, err := ix.Pos(key)
	if err != nil {
		return nil, false, err
	}
	return []int{pos}, true, nil
}

// rangePositions resolves both bounds label-first and returns every position between them, inclusive.
func (ix *Index) rangePositions(r Range) ([]int, error) {
	from, err := ix.Pos(r.From)
	if err != nil {
		return nil, fmt.Errorf("range start: %w", err)
	}
	to, err := ix.Pos(r.To)
	if err != nil {
		return nil, fmt.Errorf("range end: %w", err)
	}
	return makeIntRange(from, to+1), nil
}

// Subset returns a new Index. A single Range selects a contiguous block of labels;
// otherwise each key is resolved label-first, then as a position.
func (ix *Index) Subset(keys ...interface{}) (*Index, error) {
	var positions []int
	for _, key := range keys {
		index, _, err := ix.Resolve(key)
		if err != nil {
			return nil, fmt.Errorf("subset: %w", err)
		}
		positions = append(positions, index...)
	}
	return ix.take(positions), nil
}

// Reorder returns a new Index whose labels are the labels at positions, in that order.
func (ix *Index) Reorder(positions []int) (*Index, error) {
	for _, p := range positions {
		if p < 0 || p >= ix.Len() {
			return nil, fmt.Errorf("reorder: position %d out of range [0, %d): %w", p, ix.Len(), ErrIndex)
		}
	}
	return ix.take(positions), nil
}

// expects valid positions
func (ix *Index) take(positions []int) *Index {
	labels := make([]interface{}, len(positions))
	for i, p := range positions {
		labels[i] = ix.labels[p]
	}
	return newIndexFromLabels(labels, ix.name)
}

// Take implements Indexer.
func (ix *Index) Take(positions []int) (Indexer, error) {
	ret, err := ix.Reorder(positions)
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// Union returns the labels of ix followed by the new labels of other.
func (ix *Index) Union(other *Index) *Index {
	labels := ix.Labels()
	for _, l := range other.labels {
		if !ix.Contains(l) {
			labels = append(labels, l)
		}
	}
	return newIndexFromLabels(dedupeLabels(labels), ix.name)
}

// Intersection returns the labels of ix also contained in other, in the order of ix.
func (ix *Index) Intersection(other *Index) *Index {
	var labels []interface{}
	for _, l := range ix.labels {
		if other.Contains(l) {
			labels = append(labels, l)
		}
	}
	return newIndexFromLabels(labels, ix.name)
}

// Sort implements Indexer. Sets that mix incomparable types are ordered by their string form.
func (ix *Index) Sort(ascending bool) (Indexer, []int) {
	order := sortPositions(ix.labels, ascending, nil)
	return ix.take(order), order
}

// Add implements Indexer. Adding a label that already exists is an error.
func (ix *Index) Add(label interface{}) (Indexer, error) {
	if ix.Contains(label) {
		return nil, fmt.Errorf("adding label: %v already exists: %w", label, ErrArgument)
	}
	labels := make([]interface{}, len(ix.labels), len(ix.labels)+1)
	copy(labels, ix.labels)
	return newIndexFromLabels(append(labels, label), ix.name), nil
}

// DeleteAt implements Indexer.
func (ix *Index) DeleteAt(position int) (Indexer, error) {
	pos, err := normalizePosition(position, ix.Len())
	if err != nil {
		return nil, fmt.Errorf("deleting label: %w", err)
	}
	return newIndexFromLabels(dropPosition(ix.labels, pos), ix.name), nil
}

// Equal implements Indexer. Order matters; names do not.
func (ix *Index) Equal(other Indexer) bool {
	o, ok := other.(*Index)
	if !ok || o.Len() != ix.Len() {
		return false
	}
	return sameLabels(ix.labels, o.labels)
}

func (ix *Index) rebuild(labels []interface{}) (Indexer, error) {
	return newIndexFromLabels(labels, ix.name), nil
}

func sameLabels(a, b []interface{}) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !labelsEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func dedupeLabels(labels []interface{}) []interface{} {
	seen := make(map[string]bool, len(labels))
	ret := make([]interface{}, 0, len(labels))
	for _, l := range labels {
		k := labelKey(l)
		if !seen[k] {
			seen[k] = true
			ret = append(ret, l)
		}
	}
	return ret
}
