package lframe

import (
	"fmt"
	"sort"
)

// A CategoricalIndex is an index whose labels may repeat.
// Each distinct label (category) owns the sorted list of every position bearing it.
type CategoricalIndex struct {
	labels     []interface{}
	categories []interface{}
	positions  map[string][]int
	name       string
}

// NewCategoricalIndex builds a CategoricalIndex from any slice of labels.
// Categories are kept in first-seen order.
func NewCategoricalIndex(src interface{}) (*CategoricalIndex, error) {
	if ix, ok := src.(Indexer); ok {
		return newCategoricalIndex(ix.Labels(), ix.Name()), nil
	}
	labels, err := toInterfaceSlice(src)
	if err != nil {
		return nil, fmt.Errorf("constructing CategoricalIndex: %w", err)
	}
	return newCategoricalIndex(labels, ""), nil
}

// newCategoricalIndex takes ownership of labels.
func newCategoricalIndex(labels []interface{}, name string) *CategoricalIndex {
	cx := &CategoricalIndex{
		labels:    labels,
		positions: make(map[string][]int),
		name:      name,
	}
	if cx.labels == nil {
		cx.labels = []interface{}{}
	}
	for i, l := range cx.labels {
		k := labelKey(l)
		if _, ok := cx.positions[k]; !ok {
			cx.categories = append(cx.categories, l)
		}
		cx.positions[k] = append(cx.positions[k], i)
	}
	return cx
}

// WithName returns a copy of the index with a new name.
func (cx *CategoricalIndex) WithName(name string) *CategoricalIndex {
	return newCategoricalIndex(cx.Labels(), name)
}

// Kind returns CategoryIndex.
func (cx *CategoricalIndex) Kind() IndexKind {
	return CategoryIndex
}

// Len returns the number of positions (not the number of categories).
func (cx *CategoricalIndex) Len() int {
	return len(cx.labels)
}

// Name returns the index name.
func (cx *CategoricalIndex) Name() string {
	return cx.name
}

// Labels returns a copy of the labels in position order.
func (cx *CategoricalIndex) Labels() []interface{} {
	ret := make([]interface{}, len(cx.labels))
	copy(ret, cx.labels)
	return ret
}

// Categories returns the distinct labels in first-seen order.
func (cx *CategoricalIndex) Categories() []interface{} {
	ret := make([]interface{}, len(cx.categories))
	copy(ret, cx.categories)
	return ret
}

func (cx *CategoricalIndex) String() string {
	return indexString(cx)
}

// At returns the label at position.
func (cx *CategoricalIndex) At(position int) (interface{}, error) {
	pos, err := normalizePosition(position, cx.Len())
	if err != nil {
		return nil, fmt.Errorf("at: %w", err)
	}
	return cx.labels[pos], nil
}

// LabelPositions returns every position bearing label, in ascending order, or nil if label is not a category.
func (cx *CategoricalIndex) LabelPositions(label interface{}) []int {
	positions, ok := cx.positions[labelKey(label)]
	if !ok {
		return nil
	}
	return append([]int{}, positions...)
}

// Contains reports whether label is a category.
func (cx *CategoricalIndex) Contains(label interface{}) bool {
	_, ok := cx.positions[labelKey(label)]
	return ok
}

// Locate returns the first position bearing label.
func (cx *CategoricalIndex) Locate(label interface{}) (int, bool) {
	positions, ok := cx.positions[labelKey(label)]
	if !ok {
		return 0, false
	}
	return positions[0], true
}

// Valid reports whether every key is a category or a valid position.
func (cx *CategoricalIndex) Valid(keys ...interface{}) bool {
	for _, key := range keys {
		if cx.Contains(key) {
			continue
		}
		p, ok := asPosition(key)
		if !ok {
			return false
		}
		if _, err := normalizePosition(p, cx.Len()); err != nil {
			return false
		}
	}
	return true
}

// Pos resolves key to every position bearing it; an integer that is not a category is used as a position.
func (cx *CategoricalIndex) Pos(key interface{}) ([]int, error) {
	positions, _, err := cx.Resolve(key)
	return positions, err
}

// Resolve implements Indexer. A category resolves to all of its positions and is scalar
// only when it occurs once.
func (cx *CategoricalIndex) Resolve(key interface{}) ([]int, bool, error) {
	switch k := key.(type) {
	case Range:
		positions, err := cx.rangePositions(k)
		return positions, false, err
	case Span:
		positions, err := k.positions(cx.Len())
		return positions, false, err
	}
	if positions := cx.LabelPositions(key); positions != nil {
		return positions, len(positions) == 1, nil
	}
	if p, ok := asPosition(key); ok {
		pos, err := normalizePosition(p, cx.Len())
		if err != nil {
			return nil, false, fmt.Errorf("%v is neither a category nor a valid position: %w", key, ErrIndex)
		}
		return []int{pos}, true, nil
	}
	return nil, false, fmt.Errorf("category %v not found: %w", key, ErrIndex)
}

// rangePositions spans from the first position of From to the last position of To.
func (cx *CategoricalIndex) rangePositions(r Range) ([]int, error) {
	from, _, err := cx.Resolve(r.From)
	if err != nil {
		return nil, fmt.Errorf("range start: %w", err)
	}
	to, _, err := cx.Resolve(r.To)
	if err != nil {
		return nil, fmt.Errorf("range end: %w", err)
	}
	return makeIntRange(from[0], to[len(to)-1]+1), nil
}

// Take implements Indexer.
func (cx *CategoricalIndex) Take(positions []int) (Indexer, error) {
	labels, err := subsetValues(cx.labels, positions)
	if err != nil {
		return nil, fmt.Errorf("take: %w", err)
	}
	return newCategoricalIndex(labels, cx.name), nil
}

// Add implements Indexer. Repeated labels are allowed.
func (cx *CategoricalIndex) Add(label interface{}) (Indexer, error) {
	ret := cx.clone()
	k := labelKey(label)
	if _, ok := ret.positions[k]; !ok {
		ret.categories = append(ret.categories, label)
	}
	ret.positions[k] = append(ret.positions[k], len(ret.labels))
	ret.labels = append(ret.labels, label)
	return ret, nil
}

// DeleteAt implements Indexer. The deleted position is removed from its category,
// every later position in every category shifts down by one, and a category left
// without positions is dropped.
func (cx *CategoricalIndex) DeleteAt(position int) (Indexer, error) {
	pos, err := normalizePosition(position, cx.Len())
	if err != nil {
		return nil, fmt.Errorf("deleting label: %w", err)
	}
	ret := cx.clone()
	deleted := labelKey(ret.labels[pos])
	for k, positions := range ret.positions {
		if k == deleted {
			i := sort.SearchInts(positions, pos)
			positions = append(positions[:i], positions[i+1:]...)
		}
		// positions are sorted, so only the tail needs shifting
		for i := sort.SearchInts(positions, pos); i < len(positions); i++ {
			positions[i]--
		}
		ret.positions[k] = positions
	}
	if len(ret.positions[deleted]) == 0 {
		delete(ret.positions, deleted)
		for i := range ret.categories {
			if labelKey(ret.categories[i]) == deleted {
				ret.categories = dropPosition(ret.categories, i)
				break
			}
		}
	}
	ret.labels = dropPosition(ret.labels, pos)
	return ret, nil
}

// clone deep-copies the position lists so that incremental updates leave cx untouched.
func (cx *CategoricalIndex) clone() *CategoricalIndex {
	ret := &CategoricalIndex{
		labels:     append(make([]interface{}, 0, len(cx.labels)+1), cx.labels...),
		categories: append([]interface{}{}, cx.categories...),
		positions:  make(map[string][]int, len(cx.positions)),
		name:       cx.name,
	}
	for k, v := range cx.positions {
		ret.positions[k] = append([]int{}, v...)
	}
	return ret
}

// Sort implements Indexer.
func (cx *CategoricalIndex) Sort(ascending bool) (Indexer, []int) {
	order := sortPositions(cx.labels, ascending, nil)
	labels, _ := subsetValues(cx.labels, order)
	return newCategoricalIndex(labels, cx.name), order
}

// Equal implements Indexer.
func (cx *CategoricalIndex) Equal(other Indexer) bool {
	o, ok := other.(*CategoricalIndex)
	if !ok {
		return false
	}
	return sameLabels(cx.labels, o.labels)
}

func (cx *CategoricalIndex) rebuild(labels []interface{}) (Indexer, error) {
	return newCategoricalIndex(labels, cx.name), nil
}
