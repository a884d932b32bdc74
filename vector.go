package lframe

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// -- CONSTRUCTORS

// VectorOptionIndex labels the Vector with src, which is passed to CreateIndex
// (an Indexer, a slice of labels, or an integer n for 0..n-1).
// If the index is longer than the values, the values are padded with nil.
func VectorOptionIndex(src interface{}) VectorOption {
	return func(c *vectorConfig) {
		c.index = src
	}
}

// VectorOptionName names the Vector.
func VectorOptionName(name interface{}) VectorOption {
	return func(c *vectorConfig) {
		c.name = name
	}
}

// VectorOptionConfig replaces DefaultConfig() for this Vector.
func VectorOptionConfig(cfg Config) VectorOption {
	return func(c *vectorConfig) {
		c.cfg = &cfg
	}
}

// NewVector constructs a Vector from a slice of values and optional settings.
// If no index is supplied, the labels are 0..n-1.
func NewVector(values interface{}, options ...VectorOption) (*Vector, error) {
	config := vectorConfig{}
	for _, option := range options {
		option(&config)
	}
	slice, err := toInterfaceSlice(values)
	if err != nil {
		return nil, fmt.Errorf("constructing new Vector: values: %w", err)
	}
	var index Indexer
	if config.index != nil {
		index, err = CreateIndex(config.index)
		if err != nil {
			return nil, fmt.Errorf("constructing new Vector: index: %w", err)
		}
	} else {
		index = newIndexFromLabels(makeDefaultLabels(len(slice)), "")
	}
	if index.Len() < len(slice) {
		return nil, fmt.Errorf("constructing new Vector: index is shorter than values (%d < %d): %w",
			index.Len(), len(slice), ErrSize)
	}
	for len(slice) < index.Len() {
		slice = append(slice, nil)
	}
	cfg := DefaultConfig()
	if config.cfg != nil {
		cfg = config.cfg.withDefaults()
	}
	return newVector(slice, index, config.name, cfg), nil
}

// newVector takes ownership of slice; len(slice) must equal index.Len().
func newVector(slice []interface{}, index Indexer, name interface{}, cfg Config) *Vector {
	return &Vector{
		values: &valueContainer{slice: slice, name: name},
		index:  index,
		cfg:    cfg,
	}
}

// Copy returns a deep copy of a Vector with no shared references to the original.
// Indexes are immutable and are shared.
func (v *Vector) Copy() *Vector {
	return newVector(v.Values(), v.index, v.values.name, v.cfg)
}

// -- GETTERS

// Len returns the number of values.
func (v *Vector) Len() int {
	return len(v.values.slice)
}

// Name returns the Vector name.
func (v *Vector) Name() interface{} {
	return v.values.name
}

// WithName returns a copy of the Vector with a new name.
func (v *Vector) WithName(name interface{}) *Vector {
	ret := v.Copy()
	ret.values.name = name
	return ret
}

// Index returns the index.
func (v *Vector) Index() Indexer {
	return v.index
}

// Values returns a copy of the values in position order.
func (v *Vector) Values() []interface{} {
	ret := make([]interface{}, len(v.values.slice))
	copy(ret, v.values.slice)
	return ret
}

// Get returns the single value addressed by key: a label, or an integer position if key is not a label.
// A key that selects more or fewer than one row is an error; use Select instead.
func (v *Vector) Get(key interface{}) (interface{}, error) {
	positions, _, err := v.index.Resolve(key)
	if err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}
	if len(positions) != 1 {
		return nil, fmt.Errorf("get: %v selects %d rows: %w", key, len(positions), ErrIndex)
	}
	return v.values.slice[positions[0]], nil
}

// Select returns a new Vector of the rows addressed by keys, in key order.
// Each key is a label, a position, a Range or a Span.
func (v *Vector) Select(keys ...interface{}) (*Vector, error) {
	var positions []int
	for _, key := range keys {
		index, _, err := v.index.Resolve(key)
		if err != nil {
			return nil, fmt.Errorf("select: %w", err)
		}
		positions = append(positions, index...)
	}
	return v.SubVector(positions)
}

// At returns the value at position. Negative positions count from the end.
func (v *Vector) At(position int) (interface{}, error) {
	pos, err := normalizePosition(position, v.Len())
	if err != nil {
		return nil, fmt.Errorf("at: %w", err)
	}
	return v.values.slice[pos], nil
}

// AtPositions returns a new Vector of the rows at positions (ints or Spans), in that order.
func (v *Vector) AtPositions(positions ...interface{}) (*Vector, error) {
	index, err := expandPositions(positions, v.Len())
	if err != nil {
		return nil, fmt.Errorf("at positions: %w", err)
	}
	return v.SubVector(index)
}

// SubVector returns a new Vector of the rows at non-negative positions, in that order.
func (v *Vector) SubVector(positions []int) (*Vector, error) {
	values, err := subsetValues(v.values.slice, positions)
	if err != nil {
		return nil, fmt.Errorf("subvector: %w", err)
	}
	index, err := v.index.Take(positions)
	if err != nil {
		return nil, fmt.Errorf("subvector: %w", err)
	}
	return newVector(values, index, v.values.name, v.cfg), nil
}

// Head returns the first n rows.
func (v *Vector) Head(n int) *Vector {
	if n > v.Len() {
		n = v.Len()
	}
	if n < 0 {
		n = 0
	}
	ret, _ := v.SubVector(makeIntRange(0, n))
	return ret
}

// Tail returns the last n rows.
func (v *Vector) Tail(n int) *Vector {
	if n > v.Len() {
		n = v.Len()
	}
	if n < 0 {
		n = 0
	}
	ret, _ := v.SubVector(makeIntRange(v.Len()-n, v.Len()))
	return ret
}

// Each calls fn with the label and value of every row, in position order.
func (v *Vector) Each(fn func(label, value interface{})) {
	labels := v.index.Labels()
	for i := range v.values.slice {
		fn(labels[i], v.values.slice[i])
	}
}

// Equal reports whether v and other have equal indexes and equal values at every position.
// Names are ignored. nil equals nil and NaN equals NaN.
func (v *Vector) Equal(other *Vector) bool {
	if other == nil || v.Len() != other.Len() {
		return false
	}
	if !v.index.Equal(other.index) {
		return false
	}
	return sameLabels(v.values.slice, other.values.slice)
}

// -- ALIGNMENT

// Reindex returns a new Vector labeled by src (passed to CreateIndex) whose value at each label
// is the value at the same label in v, or nil if v has no such label.
func (v *Vector) Reindex(src interface{}) (*Vector, error) {
	index, err := CreateIndex(src)
	if err != nil {
		return nil, fmt.Errorf("reindex: %w", err)
	}
	return v.reindex(index), nil
}

func (v *Vector) reindex(index Indexer) *Vector {
	values := make([]interface{}, index.Len())
	if index.Equal(v.index) {
		copy(values, v.values.slice)
	} else {
		for i, label := range index.Labels() {
			if pos, ok := v.index.Locate(label); ok {
				values[i] = v.values.slice[pos]
			}
		}
	}
	return newVector(values, index, v.values.name, v.cfg)
}

// Recode returns a new Vector with fn applied to every value.
func (v *Vector) Recode(fn func(interface{}) interface{}) *Vector {
	values := make([]interface{}, v.Len())
	for i := range values {
		values[i] = fn(v.values.slice[i])
	}
	return newVector(values, v.index, v.values.name, v.cfg)
}

// -- SORT

// Sort returns a new Vector sorted by the first Sorter supplied, or ascending by natural order.
func (v *Vector) Sort(by ...Sorter) *Vector {
	v = v.Copy()
	v.InPlace().Sort(by...)
	return v
}

// SortByIndex returns a new Vector with rows ordered by their labels.
func (v *Vector) SortByIndex(ascending bool) *Vector {
	_, order := v.index.Sort(ascending)
	ret, _ := v.SubVector(order)
	return ret
}

// sortOrder returns the positions of values in sorted order.
func sortOrder(values []interface{}, by Sorter) []int {
	var cmp func(a, b interface{}) int
	if by.Less != nil {
		cmp = func(a, b interface{}) int {
			switch {
			case by.Less(a, b):
				return -1
			case by.Less(b, a):
				return 1
			}
			return 0
		}
	}
	if by.Less != nil && by.HandleNils {
		return sortPositions(values, !by.Descending, cmp)
	}
	var present, missing []int
	var presentValues []interface{}
	for i, val := range values {
		if isMissing(val) {
			missing = append(missing, i)
		} else {
			present = append(present, i)
			presentValues = append(presentValues, val)
		}
	}
	order := sortPositions(presentValues, !by.Descending, cmp)
	sorted := make([]int, 0, len(values))
	if by.NilsFirst {
		sorted = append(sorted, missing...)
	}
	for _, o := range order {
		sorted = append(sorted, present[o])
	}
	if !by.NilsFirst {
		sorted = append(sorted, missing...)
	}
	return sorted
}

// -- TYPE METADATA

func (v *Vector) typeInfo() typeCache {
	if !v.values.cache.valid {
		c := typeCache{valid: true, dtype: Numeric}
		for i, val := range v.values.slice {
			switch {
			case isNaN(val):
				c.nans = append(c.nans, i)
				c.missing = append(c.missing, i)
			case val == nil:
				c.missing = append(c.missing, i)
			case !isNumber(val):
				c.dtype = Object
			}
		}
		v.values.cache = c
	}
	return v.values.cache
}

// invalidate clears the type metadata; every mutation must call it.
func (v *Vector) invalidate() {
	v.values.cache = typeCache{}
}

// DType returns Numeric if every non-missing value is a number, else Object.
func (v *Vector) DType() DType {
	return v.typeInfo().dtype
}

// MissingPositions returns the positions holding nil or NaN.
func (v *Vector) MissingPositions() []int {
	return append([]int{}, v.typeInfo().missing...)
}

// NaNPositions returns the positions holding NaN.
func (v *Vector) NaNPositions() []int {
	return append([]int{}, v.typeInfo().nans...)
}

// -- MATH

// floatValues returns every non-missing numeric value as float64.
func (v *Vector) floatValues() []float64 {
	var ret []float64
	for _, val := range v.values.slice {
		if isMissing(val) {
			continue
		}
		if f, ok := toFloat(val); ok {
			ret = append(ret, f)
		}
	}
	return ret
}

// Sum returns the sum of the non-missing numeric values.
func (v *Vector) Sum() float64 {
	return floats.Sum(v.floatValues())
}

// Mean returns the mean of the non-missing numeric values, or NaN if there are none.
func (v *Vector) Mean() float64 {
	vals := v.floatValues()
	if len(vals) == 0 {
		return math.NaN()
	}
	return stat.Mean(vals, nil)
}

// Std returns the sample standard deviation of the non-missing numeric values,
// or NaN if there are fewer than two.
func (v *Vector) Std() float64 {
	vals := v.floatValues()
	if len(vals) < 2 {
		return math.NaN()
	}
	return stat.StdDev(vals, nil)
}

// Min returns the smallest non-missing numeric value, or NaN if there are none.
func (v *Vector) Min() float64 {
	vals := v.floatValues()
	if len(vals) == 0 {
		return math.NaN()
	}
	return floats.Min(vals)
}

// Max returns the largest non-missing numeric value, or NaN if there are none.
func (v *Vector) Max() float64 {
	vals := v.floatValues()
	if len(vals) == 0 {
		return math.NaN()
	}
	return floats.Max(vals)
}

// Count returns the number of non-missing values.
func (v *Vector) Count() int {
	return v.Len() - len(v.typeInfo().missing)
}

// -- SETTERS

// InPlace returns a VectorMutator, which changes the Vector in place instead of returning a new one.
// A Vector returned by DataFrame.Col is the DataFrame's own column, so changes made in place
// also change the DataFrame.
func (v *Vector) InPlace() *VectorMutator {
	if v.frames > 0 {
		v.cfg.warn(
			"Shared Data Warning: this Vector is a column of a DataFrame " +
				"(via Col() or FrameOptionNoClone), " +
				"so InPlace changes will modify the DataFrame too. " +
				"To avoid this, make a new Vector with Vector.Copy()")
	}
	return &VectorMutator{vector: v}
}

// Set assigns value to every row addressed by key. If key resolves to several rows and value is a slice,
// the slice must have one value per row. If key is neither a label nor a valid position,
// it is added as a new label and the Vector grows by one row.
func (v *VectorMutator) Set(key, value interface{}) error {
	positions, scalar, err := v.vector.index.Resolve(key)
	if err != nil {
		switch key.(type) {
		case Range, Span:
			return fmt.Errorf("set: %w", err)
		}
		if err := v.append(key, value); err != nil {
			return fmt.Errorf("set: %w", err)
		}
		return nil
	}
	values, err := spread(value, len(positions), scalar)
	if err != nil {
		return fmt.Errorf("set: %w", err)
	}
	for i, pos := range positions {
		v.vector.values.slice[pos] = values[i]
	}
	v.vector.invalidate()
	return nil
}

// spread returns one value per position. A slice is spread across positions unless
// the key addressed exactly one row, in which case it is stored as a single value.
func spread(value interface{}, n int, scalar bool) ([]interface{}, error) {
	ret := make([]interface{}, n)
	if !scalar && isSlice(value) {
		if _, ok := value.(Tuple); !ok {
			values, err := toInterfaceSlice(value)
			if err != nil {
				return nil, err
			}
			if len(values) != n {
				return nil, fmt.Errorf("slice has %d values for %d rows: %w", len(values), n, ErrSize)
			}
			return values, nil
		}
	}
	for i := range ret {
		ret[i] = value
	}
	return ret, nil
}

// SetMany assigns values[i] to keys[i], growing the Vector for keys that are absent.
// If any assignment fails, the Vector is left unchanged.
func (v *VectorMutator) SetMany(keys []interface{}, values []interface{}) error {
	if len(keys) != len(values) {
		return fmt.Errorf("set many: %d keys and %d values: %w", len(keys), len(values), ErrSize)
	}
	tmp := &Vector{
		values: &valueContainer{slice: v.vector.Values(), name: v.vector.values.name},
		index:  v.vector.index,
		frames: v.vector.frames,
		cfg:    v.vector.cfg,
	}
	mutator := &VectorMutator{vector: tmp}
	for i := range keys {
		if err := mutator.Set(keys[i], values[i]); err != nil {
			return fmt.Errorf("set many: %w", err)
		}
	}
	v.vector.values.slice = tmp.values.slice
	v.vector.index = tmp.index
	v.vector.invalidate()
	return nil
}

func (v *VectorMutator) append(label, value interface{}) error {
	if v.vector.frames > 0 {
		return fmt.Errorf("cannot add label %v to a DataFrame column; use DataFrame.InPlace().SetRow(): %w",
			label, ErrArgument)
	}
	index, err := v.vector.index.Add(label)
	if err != nil {
		return err
	}
	v.vector.index = index
	v.vector.values.slice = append(v.vector.values.slice, value)
	v.vector.invalidate()
	return nil
}

// Concat appends value as a new row labeled label.
// If label is nil, the label is the Vector's length before appending.
func (v *VectorMutator) Concat(value, label interface{}) error {
	if label == nil {
		label = v.vector.Len()
	}
	if err := v.append(label, value); err != nil {
		return fmt.Errorf("concat: %w", err)
	}
	return nil
}

// Delete removes every row addressed by key.
func (v *VectorMutator) Delete(key interface{}) error {
	positions, _, err := v.vector.index.Resolve(key)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if err := v.deletePositions(positions); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// DeleteAt removes the row at position.
func (v *VectorMutator) DeleteAt(position int) error {
	pos, err := normalizePosition(position, v.vector.Len())
	if err != nil {
		return fmt.Errorf("delete at: %w", err)
	}
	if err := v.deletePositions([]int{pos}); err != nil {
		return fmt.Errorf("delete at: %w", err)
	}
	return nil
}

func (v *VectorMutator) deletePositions(positions []int) error {
	if v.vector.frames > 0 {
		return fmt.Errorf("cannot delete rows from a DataFrame column; use DataFrame.InPlace().DeleteRow(): %w",
			ErrArgument)
	}
	positions = dedupePositions(positions)
	sort.Sort(sort.Reverse(sort.IntSlice(positions)))
	index := v.vector.index
	values := v.vector.values.slice
	for _, pos := range positions {
		var err error
		index, err = index.DeleteAt(pos)
		if err != nil {
			return err
		}
		values = dropPosition(values, pos)
	}
	v.vector.index = index
	v.vector.values.slice = values
	v.vector.invalidate()
	return nil
}

// Sort sorts the values (and their labels) by the first Sorter supplied, or ascending by natural order.
// A DataFrame column cannot be sorted on its own.
func (v *VectorMutator) Sort(by ...Sorter) error {
	if v.vector.frames > 0 {
		return fmt.Errorf("sort: cannot reorder a DataFrame column; use DataFrame.SortBy(): %w", ErrArgument)
	}
	var sorter Sorter
	if len(by) > 0 {
		sorter = by[0]
	}
	order := sortOrder(v.vector.values.slice, sorter)
	values, _ := subsetValues(v.vector.values.slice, order)
	index, _ := v.vector.index.Take(order)
	v.vector.values.slice = values
	v.vector.index = index
	v.vector.invalidate()
	return nil
}
