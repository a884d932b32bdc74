package lframe

import (
	"fmt"
	"strings"
)

// IndexKind identifies the concrete type behind an Indexer.
type IndexKind int

const (
	// PlainIndex is an *Index.
	PlainIndex IndexKind = iota
	// MultiLevelIndex is a *MultiIndex.
	MultiLevelIndex
	// CategoryIndex is a *CategoricalIndex.
	CategoryIndex
	// TimeIndex is a *DateTimeIndex.
	TimeIndex
)

func (k IndexKind) String() string {
	switch k {
	case PlainIndex:
		return "Index"
	case MultiLevelIndex:
		return "MultiIndex"
	case CategoryIndex:
		return "CategoricalIndex"
	case TimeIndex:
		return "DateTimeIndex"
	}
	return fmt.Sprintf("IndexKind(%d)", int(k))
}

// An Indexer maps labels to integer positions. It is implemented only by
// *Index, *MultiIndex, *CategoricalIndex and *DateTimeIndex.
//
// Indexers are immutable: every method that changes labels returns a new Indexer.
type Indexer interface {
	Kind() IndexKind
	Len() int
	Name() string
	// Labels returns a copy of the labels in position order.
	Labels() []interface{}
	// At returns the label at position, which may be negative.
	At(position int) (interface{}, error)
	// Contains reports whether label is a registered label (never a position).
	Contains(label interface{}) bool
	// Locate returns the first position holding exactly label.
	Locate(label interface{}) (int, bool)
	// Resolve resolves a label, a position, a Range or a Span.
	// Labels always win over positions. scalar reports whether key addresses exactly one row by itself.
	Resolve(key interface{}) (positions []int, scalar bool, err error)
	// Take returns a new index of the same kind holding the labels at positions, in that order.
	Take(positions []int) (Indexer, error)
	// Add returns a new index with label appended.
	Add(label interface{}) (Indexer, error)
	// DeleteAt returns a new index without the label at position.
	DeleteAt(position int) (Indexer, error)
	// Sort returns the sorted index and the original positions in sorted order.
	Sort(ascending bool) (Indexer, []int)
	// Equal reports whether other is the same kind with the same labels in the same order.
	Equal(other Indexer) bool

	rebuild(labels []interface{}) (Indexer, error)
}

// Range selects every label from From through To, inclusive.
type Range struct {
	From, To interface{}
}

// Span selects every position from Start through End, inclusive.
// Negative values count back from the end, so Span{0, -2} stops before the last row.
type Span struct {
	Start, End int
}

func (s Span) positions(size int) ([]int, error) {
	start, err := normalizePosition(s.Start, size)
	if err != nil {
		return nil, fmt.Errorf("span start: %w", err)
	}
	end, err := normalizePosition(s.End, size)
	if err != nil {
		return nil, fmt.Errorf("span end: %w", err)
	}
	return makeIntRange(start, end+1), nil
}

// CreateIndex builds an Indexer from src, trying each kind in order:
// an existing Indexer is returned as-is; tuples build a MultiIndex; times
// (or strings that parse as dates) build a DateTimeIndex; anything else builds an Index.
// An integer n builds the labels 0..n-1 and nil builds an empty Index.
func CreateIndex(src interface{}) (Indexer, error) {
	switch s := src.(type) {
	case Indexer:
		return s, nil
	case nil:
		return newIndexFromLabels(nil, ""), nil
	}
	if _, ok := asPosition(src); ok {
		return NewIndex(src)
	}
	labels, err := toInterfaceSlice(src)
	if err != nil {
		return nil, fmt.Errorf("creating index: %w", err)
	}
	if mi, ok := tryMultiIndex(labels); ok {
		return mi, nil
	}
	if dt, ok := tryDateTimeIndex(labels); ok {
		return dt, nil
	}
	return newIndexFromLabels(labels, ""), nil
}

// indexLike builds an index of the same kind as template, falling back to CreateIndex
// when labels do not fit that kind.
func indexLike(template Indexer, labels []interface{}) (Indexer, error) {
	ix, err := template.rebuild(labels)
	if err == nil {
		return ix, nil
	}
	return CreateIndex(labels)
}

// Union returns the labels of a followed by the labels of b that a does not contain.
// The result has the kind of a where the labels allow it.
func Union(a, b Indexer) (Indexer, error) {
	labels := a.Labels()
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		seen[labelKey(l)] = true
	}
	for _, l := range b.Labels() {
		k := labelKey(l)
		if !seen[k] {
			seen[k] = true
			labels = append(labels, l)
		}
	}
	return indexLike(a, labels)
}

// Intersection returns the labels of a that b also contains, in the order of a.
func Intersection(a, b Indexer) (Indexer, error) {
	var labels []interface{}
	for _, l := range a.Labels() {
		if _, ok := b.Locate(l); ok {
			labels = append(labels, l)
		}
	}
	return indexLike(a, labels)
}

// SortedUnion returns the union of every index sorted ascending.
// It is the canonical row order produced by alignment.
func SortedUnion(indexes ...Indexer) (Indexer, error) {
	if len(indexes) == 0 {
		return newIndexFromLabels(nil, ""), nil
	}
	ret := indexes[0]
	var err error
	for _, ix := range indexes[1:] {
		ret, err = Union(ret, ix)
		if err != nil {
			return nil, err
		}
	}
	sorted, _ := ret.Sort(true)
	return sorted, nil
}

// formatLabel renders a label as a single string, joining tuple components with sep.
func formatLabel(label interface{}, sep string) string {
	switch l := label.(type) {
	case nil:
		return ""
	case Tuple, []interface{}:
		t := asTuple(l)
		parts := make([]string, len(t))
		for i := range t {
			parts[i] = formatLabel(t[i], sep)
		}
		return strings.Join(parts, sep)
	}
	return formatValue(label)
}

func indexString(ix Indexer) string {
	labels := ix.Labels()
	parts := make([]string, len(labels))
	for i := range labels {
		parts[i] = fmt.Sprint(labels[i])
	}
	return fmt.Sprintf("%v(%d): [%s]", ix.Kind(), ix.Len(), strings.Join(parts, ", "))
}
