package lframe

import (
	"fmt"
	"sort"
)

// -- SOURCES

// A Source supplies the data for NewDataFrame. It is one of ColumnMap, ColumnList, RowList or RecordList.
type Source interface {
	isSource()
}

// ColumnMap maps each column label to its values: a slice or a *Vector.
// Without FrameOptionOrder, columns are ordered by their sorted labels.
type ColumnMap map[interface{}]interface{}

// ColumnList is an ordered list of columns, each a slice or a *Vector.
// Without FrameOptionOrder, columns are labeled by their Vector names if every column is a named Vector,
// otherwise 0..n-1.
type ColumnList []interface{}

// RowList is an ordered list of rows, each holding one value per column.
type RowList [][]interface{}

// RecordList is an ordered list of rows, each mapping column labels to values.
// Without FrameOptionOrder, columns are the sorted union of every record's labels.
// A label missing from a record is nil in that row.
type RecordList []map[interface{}]interface{}

func (ColumnMap) isSource()  {}
func (ColumnList) isSource() {}
func (RowList) isSource()    {}
func (RecordList) isSource() {}

// -- OPTIONS

// FrameOptionOrder sets the column labels (a slice or an Indexer), in order.
// With a ColumnMap or RecordList, labels absent from the source become all-nil columns
// and source columns absent from the order are dropped.
// With a nil Source, it creates an empty DataFrame with these columns.
func FrameOptionOrder(src interface{}) FrameOption {
	return func(c *frameConfig) {
		c.order = src
	}
}

// FrameOptionIndex sets the row index. Vectors are reindexed onto it; slices must match its length.
func FrameOptionIndex(src interface{}) FrameOption {
	return func(c *frameConfig) {
		c.index = src
	}
}

// FrameOptionName names the DataFrame.
func FrameOptionName(name string) FrameOption {
	return func(c *frameConfig) {
		c.name = name
	}
}

// FrameOptionNoClone stores supplied Vectors by reference instead of copying them,
// as long as their index already equals the row index.
// Changes made in place to the DataFrame then change those Vectors too.
func FrameOptionNoClone() FrameOption {
	return func(c *frameConfig) {
		c.noClone = true
	}
}

// FrameOptionConfig replaces DefaultConfig() for this DataFrame.
func FrameOptionConfig(cfg Config) FrameOption {
	return func(c *frameConfig) {
		c.cfg = &cfg
	}
}

// -- CONSTRUCTORS

// NewDataFrame creates a new DataFrame from src and optional settings.
//
// If no row index is supplied: when every column is a Vector with an equal index, that index is used;
// when Vectors have different indexes, the row index is the sorted union of all of them and every
// Vector is reindexed onto it (labels a Vector lacks are nil); otherwise the rows are labeled 0..n-1.
// Slices must all have the same length as the row index.
func NewDataFrame(src Source, options ...FrameOption) (*DataFrame, error) {
	config := frameConfig{}
	for _, option := range options {
		option(&config)
	}
	cfg := DefaultConfig()
	if config.cfg != nil {
		cfg = config.cfg.withDefaults()
	}
	var rowIndex, order Indexer
	var err error
	if config.index != nil {
		rowIndex, err = CreateIndex(config.index)
		if err != nil {
			return nil, fmt.Errorf("constructing new DataFrame: index: %w", err)
		}
	}
	if config.order != nil {
		order, err = columnIndex(config.order)
		if err != nil {
			return nil, fmt.Errorf("constructing new DataFrame: order: %w", err)
		}
	}

	var cols []interface{}
	switch s := src.(type) {
	case nil:
		if order == nil {
			order = newIndexFromLabels(nil, "")
		}
		cols = make([]interface{}, order.Len())
		if rowIndex == nil {
			rowIndex = newIndexFromLabels(nil, "")
		}
	case ColumnMap:
		order, cols = fromColumnMap(s, order)
	case ColumnList:
		order, cols, err = fromColumnList(s, order)
	case RowList:
		order, cols, err = fromRowList(s, order)
	case RecordList:
		order, cols = fromRecordList(s, order)
	default:
		err = fmt.Errorf("unsupported source %T: %w", src, ErrArgument)
	}
	if err != nil {
		return nil, fmt.Errorf("constructing new DataFrame: %w", err)
	}
	df, err := newDataFrameFromColumns(cols, order, rowIndex, config.noClone, cfg)
	if err != nil {
		return nil, fmt.Errorf("constructing new DataFrame: %w", err)
	}
	df.name = config.name
	return df, nil
}

// columnIndex builds a column index. Unlike CreateIndex it never converts labels to times,
// so column labels keep the values they were given.
func columnIndex(src interface{}) (Indexer, error) {
	if ix, ok := src.(Indexer); ok {
		return ix, nil
	}
	labels, err := toInterfaceSlice(src)
	if err != nil {
		return nil, err
	}
	if mi, ok := tryMultiIndex(labels); ok {
		return mi, nil
	}
	return newIndexFromLabels(labels, ""), nil
}

func fromColumnMap(src ColumnMap, order Indexer) (Indexer, []interface{}) {
	byKey := make(map[string]interface{}, len(src))
	var labels []interface{}
	for label, col := range src {
		byKey[labelKey(label)] = col
		labels = append(labels, label)
	}
	if order == nil {
		sorted, _ := subsetValues(labels, sortPositions(labels, true, nil))
		order, _ = columnIndex(sorted)
	}
	cols := make([]interface{}, order.Len())
	for j, label := range order.Labels() {
		cols[j] = byKey[labelKey(label)]
	}
	return order, cols
}

func fromColumnList(src ColumnList, order Indexer) (Indexer, []interface{}, error) {
	if order != nil {
		if order.Len() != len(src) {
			return nil, nil, fmt.Errorf("order has %d labels for %d columns: %w", order.Len(), len(src), ErrSize)
		}
		return order, []interface{}(src), nil
	}
	labels := make([]interface{}, len(src))
	seen := make(map[string]bool, len(src))
	named := true
	for j, col := range src {
		v, ok := col.(*Vector)
		if !ok || v.Name() == nil || seen[labelKey(v.Name())] {
			named = false
			break
		}
		seen[labelKey(v.Name())] = true
		labels[j] = v.Name()
	}
	if !named {
		labels = makeDefaultLabels(len(src))
	}
	return newIndexFromLabels(labels, ""), []interface{}(src), nil
}

func fromRowList(src RowList, order Indexer) (Indexer, []interface{}, error) {
	var ncols int
	switch {
	case order != nil:
		ncols = order.Len()
	case len(src) > 0:
		ncols = len(src[0])
	}
	cols := make([]interface{}, ncols)
	columns := make([][]interface{}, ncols)
	for j := range columns {
		columns[j] = make([]interface{}, len(src))
	}
	for i, row := range src {
		if len(row) != ncols {
			return nil, nil, fmt.Errorf("row %d has %d values for %d columns: %w", i, len(row), ncols, ErrSize)
		}
		for j := range row {
			columns[j][i] = row[j]
		}
	}
	for j := range columns {
		cols[j] = columns[j]
	}
	if order == nil {
		order = newIndexFromLabels(makeDefaultLabels(ncols), "")
	}
	return order, cols, nil
}

func fromRecordList(src RecordList, order Indexer) (Indexer, []interface{}) {
	if order == nil {
		var labels []interface{}
		seen := make(map[string]bool)
		for _, record := range src {
			for label := range record {
				if k := labelKey(label); !seen[k] {
					seen[k] = true
					labels = append(labels, label)
				}
			}
		}
		sorted, _ := subsetValues(labels, sortPositions(labels, true, nil))
		order, _ = columnIndex(sorted)
	}
	columns := make([][]interface{}, order.Len())
	for j := range columns {
		columns[j] = make([]interface{}, len(src))
	}
	for i, record := range src {
		byKey := make(map[string]interface{}, len(record))
		for label, val := range record {
			byKey[labelKey(label)] = val
		}
		for j, label := range order.Labels() {
			columns[j][i] = byKey[labelKey(label)]
		}
	}
	cols := make([]interface{}, len(columns))
	for j := range columns {
		cols[j] = columns[j]
	}
	return order, cols
}

// newDataFrameFromColumns aligns every column to one row index.
// A nil column becomes all nil.
func newDataFrameFromColumns(cols []interface{}, vectors, rowIndex Indexer, noClone bool, cfg Config) (*DataFrame, error) {
	if rowIndex == nil {
		var indexes []Indexer
		for _, col := range cols {
			if v, ok := col.(*Vector); ok {
				indexes = append(indexes, v.index)
			}
		}
		if len(indexes) > 0 {
			rowIndex = indexes[0]
			for _, ix := range indexes[1:] {
				if !ix.Equal(rowIndex) {
					var err error
					rowIndex, err = SortedUnion(indexes...)
					if err != nil {
						return nil, fmt.Errorf("aligning vectors: %w", err)
					}
					break
				}
			}
		} else {
			var n int
			for _, col := range cols {
				if col != nil && isSlice(col) {
					n = sliceLen(col)
					break
				}
			}
			rowIndex = newIndexFromLabels(makeDefaultLabels(n), "")
		}
	}
	labels := vectors.Labels()
	data := make([]*Vector, len(cols))
	adopted := make(map[*Vector]bool)
	var shared bool
	for j, col := range cols {
		var vec *Vector
		switch c := col.(type) {
		case *Vector:
			if noClone && c.frames == 0 && !adopted[c] && c.index.Equal(rowIndex) {
				vec = c
				adopted[c] = true
				shared = true
			} else {
				vec = c.reindex(rowIndex)
			}
		case nil:
			vec = newVector(make([]interface{}, rowIndex.Len()), rowIndex, nil, cfg)
		default:
			values, err := toInterfaceSlice(col)
			if err != nil {
				return nil, fmt.Errorf("column %v: %w", labels[j], err)
			}
			if len(values) != rowIndex.Len() {
				return nil, fmt.Errorf("column %v has %d values for %d rows: %w",
					labels[j], len(values), rowIndex.Len(), ErrSize)
			}
			vec = newVector(values, rowIndex, nil, cfg)
		}
		vec.values.name = labels[j]
		data[j] = vec
	}
	df := &DataFrame{data: data, vectors: vectors, index: rowIndex, sharedData: shared, cfg: cfg}
	for _, vec := range data {
		df.adopt(vec)
	}
	return df, nil
}

func sliceLen(slice interface{}) int {
	values, _ := toInterfaceSlice(slice)
	return len(values)
}

// adopt makes vec a column of df sharing the row index by identity.
func (df *DataFrame) adopt(vec *Vector) {
	vec.index = df.index
	vec.frames++
}

func release(vec *Vector) {
	vec.frames--
}

// syncIndex points every column at the row index after it has been replaced.
func (df *DataFrame) syncIndex() {
	for _, vec := range df.data {
		vec.index = df.index
	}
}

// Copy returns a new DataFrame with identical values as the original but no shared Vectors.
func (df *DataFrame) Copy() *DataFrame {
	ret := &DataFrame{
		data:    make([]*Vector, len(df.data)),
		vectors: df.vectors,
		index:   df.index,
		name:    df.name,
		cfg:     df.cfg,
	}
	for j, vec := range df.data {
		ret.data[j] = vec.Copy()
		ret.adopt(ret.data[j])
	}
	return ret
}

// -- GETTERS

// Len returns the number of rows.
func (df *DataFrame) Len() int {
	return df.index.Len()
}

// NumCols returns the number of columns.
func (df *DataFrame) NumCols() int {
	return len(df.data)
}

// Shape returns the number of rows and columns.
func (df *DataFrame) Shape() (int, int) {
	return df.Len(), df.NumCols()
}

// Index returns the row index.
func (df *DataFrame) Index() Indexer {
	return df.index
}

// Vectors returns the column index.
func (df *DataFrame) Vectors() Indexer {
	return df.vectors
}

// Name returns the DataFrame name.
func (df *DataFrame) Name() string {
	return df.name
}

// WithName returns a copy of the DataFrame with a new name.
func (df *DataFrame) WithName(name string) *DataFrame {
	ret := df.Copy()
	ret.name = name
	return ret
}

func (df *DataFrame) colPosition(key interface{}) (int, error) {
	positions, _, err := df.vectors.Resolve(key)
	if err != nil {
		return 0, err
	}
	if len(positions) != 1 {
		return 0, fmt.Errorf("%v selects %d columns: %w", key, len(positions), ErrIndex)
	}
	return positions[0], nil
}

// Col returns the column addressed by key (a label, or a position if key is not a label).
// The Vector is the DataFrame's own column, not a copy.
func (df *DataFrame) Col(key interface{}) (*Vector, error) {
	pos, err := df.colPosition(key)
	if err != nil {
		return nil, fmt.Errorf("col: %w", err)
	}
	return df.data[pos], nil
}

// Cols returns a DataFrame of the columns addressed by keys, in key order.
// The result is a view: its columns are the original's Vectors, so values set in place on either
// are visible in both. A change to the rows of either one copies its columns first, and the other keeps its rows.
func (df *DataFrame) Cols(keys ...interface{}) (*DataFrame, error) {
	var positions []int
	for _, key := range keys {
		index, _, err := df.vectors.Resolve(key)
		if err != nil {
			return nil, fmt.Errorf("cols: %w", err)
		}
		positions = append(positions, index...)
	}
	vectors, err := df.vectors.Take(positions)
	if err != nil {
		return nil, fmt.Errorf("cols: %w", err)
	}
	data := make([]*Vector, len(positions))
	for i, p := range positions {
		data[i] = df.data[p]
		data[i].frames++
	}
	return &DataFrame{
		data:       data,
		vectors:    vectors,
		index:      df.index,
		name:       df.name,
		sharedData: true,
		cfg:        df.cfg,
	}, nil
}

// RowAt returns the row at position as a Vector labeled by the column index and named by the row label.
func (df *DataFrame) RowAt(position int) (*Vector, error) {
	pos, err := normalizePosition(position, df.Len())
	if err != nil {
		return nil, fmt.Errorf("row at: %w", err)
	}
	return df.rowAt(pos), nil
}

// expects valid position
func (df *DataFrame) rowAt(pos int) *Vector {
	values := make([]interface{}, len(df.data))
	for j, vec := range df.data {
		values[j] = vec.values.slice[pos]
	}
	label, _ := df.index.At(pos)
	return newVector(values, df.vectors, label, df.cfg)
}

// Row returns the single row addressed by key (a label, or a position if key is not a label).
func (df *DataFrame) Row(key interface{}) (*Vector, error) {
	positions, _, err := df.index.Resolve(key)
	if err != nil {
		return nil, fmt.Errorf("row: %w", err)
	}
	if len(positions) != 1 {
		return nil, fmt.Errorf("row: %v selects %d rows: %w", key, len(positions), ErrIndex)
	}
	return df.rowAt(positions[0]), nil
}

// Rows returns a new DataFrame of the rows addressed by keys, in key order.
// Each key is a label, a position, a Range or a Span.
func (df *DataFrame) Rows(keys ...interface{}) (*DataFrame, error) {
	var positions []int
	for _, key := range keys {
		index, _, err := df.index.Resolve(key)
		if err != nil {
			return nil, fmt.Errorf("rows: %w", err)
		}
		positions = append(positions, index...)
	}
	return df.take(positions)
}

// RowsAt returns a new DataFrame of the rows at positions (ints or Spans), in that order.
func (df *DataFrame) RowsAt(positions ...interface{}) (*DataFrame, error) {
	index, err := expandPositions(positions, df.Len())
	if err != nil {
		return nil, fmt.Errorf("rows at: %w", err)
	}
	return df.take(index)
}

// Lookup resolves key on the row index. If it matches exactly one row, the row is returned as a Vector;
// if it matches several (a repeated category, a partial tuple, a period, a Range), they are returned as a DataFrame.
func (df *DataFrame) Lookup(key interface{}) (*Vector, *DataFrame, error) {
	positions, _, err := df.index.Resolve(key)
	if err != nil {
		return nil, nil, fmt.Errorf("lookup: %w", err)
	}
	if len(positions) == 1 {
		return df.rowAt(positions[0]), nil, nil
	}
	ret, err := df.take(positions)
	if err != nil {
		return nil, nil, fmt.Errorf("lookup: %w", err)
	}
	return nil, ret, nil
}

// Narrow selects the rows matching a partial tuple on a MultiIndex row index and drops the matched levels.
// If one level remains, the result has a plain Index.
func (df *DataFrame) Narrow(parts ...interface{}) (*DataFrame, error) {
	mi, ok := df.index.(*MultiIndex)
	if !ok {
		return nil, fmt.Errorf("narrow: row index is %v, not MultiIndex: %w", df.index.Kind(), ErrArgument)
	}
	if len(parts) >= mi.Width() {
		return nil, fmt.Errorf("narrow: %d components for %d levels; use Row for a full tuple: %w",
			len(parts), mi.Width(), ErrArgument)
	}
	positions, err := mi.matchRows(parts)
	if err != nil {
		return nil, fmt.Errorf("narrow: %w", err)
	}
	sub, err := mi.take(positions).DropLeftLevel(len(parts))
	if err != nil {
		return nil, fmt.Errorf("narrow: %w", err)
	}
	var index Indexer = sub
	if sub.Width() == 1 {
		labels := make([]interface{}, sub.Len())
		for i, t := range sub.Tuples() {
			labels[i] = t[0]
		}
		index = newIndexFromLabels(labels, sub.names[0])
	}
	ret, err := df.take(positions)
	if err != nil {
		return nil, fmt.Errorf("narrow: %w", err)
	}
	ret.index = index
	ret.syncIndex()
	return ret, nil
}

// take returns a new DataFrame of the rows at non-negative positions.
func (df *DataFrame) take(positions []int) (*DataFrame, error) {
	index, err := df.index.Take(positions)
	if err != nil {
		return nil, err
	}
	ret := &DataFrame{
		data:    make([]*Vector, len(df.data)),
		vectors: df.vectors,
		index:   index,
		name:    df.name,
		cfg:     df.cfg,
	}
	for j, vec := range df.data {
		values, err := subsetValues(vec.values.slice, positions)
		if err != nil {
			return nil, err
		}
		ret.data[j] = newVector(values, index, vec.values.name, vec.cfg)
		ret.adopt(ret.data[j])
	}
	return ret, nil
}

// Head returns the first n rows.
func (df *DataFrame) Head(n int) *DataFrame {
	if n > df.Len() {
		n = df.Len()
	}
	if n < 0 {
		n = 0
	}
	ret, _ := df.take(makeIntRange(0, n))
	return ret
}

// Tail returns the last n rows.
func (df *DataFrame) Tail(n int) *DataFrame {
	if n > df.Len() {
		n = df.Len()
	}
	if n < 0 {
		n = 0
	}
	ret, _ := df.take(makeIntRange(df.Len()-n, df.Len()))
	return ret
}

// Equal reports whether df and other have equal column indexes, equal row indexes and equal values.
// Names are ignored.
func (df *DataFrame) Equal(other *DataFrame) bool {
	if other == nil || len(df.data) != len(other.data) {
		return false
	}
	if !df.vectors.Equal(other.vectors) || !df.index.Equal(other.index) {
		return false
	}
	for j := range df.data {
		if !sameLabels(df.data[j].values.slice, other.data[j].values.slice) {
			return false
		}
	}
	return true
}

// -- ALIGNMENT

// Reindex returns a new DataFrame labeled by src (passed to CreateIndex) in which every column
// is reindexed as by Vector.Reindex.
func (df *DataFrame) Reindex(src interface{}) (*DataFrame, error) {
	index, err := CreateIndex(src)
	if err != nil {
		return nil, fmt.Errorf("reindex: %w", err)
	}
	ret := &DataFrame{
		data:    make([]*Vector, len(df.data)),
		vectors: df.vectors,
		index:   index,
		name:    df.name,
		cfg:     df.cfg,
	}
	for j, vec := range df.data {
		ret.data[j] = vec.reindex(index)
		ret.adopt(ret.data[j])
	}
	return ret, nil
}

// ReindexCols returns a new DataFrame whose columns are labeled by src (a slice of labels or an Indexer).
// Labels df does not have become all-nil columns.
func (df *DataFrame) ReindexCols(src interface{}) (*DataFrame, error) {
	vectors, err := columnIndex(src)
	if err != nil {
		return nil, fmt.Errorf("reindex columns: %w", err)
	}
	ret := &DataFrame{
		data:    make([]*Vector, vectors.Len()),
		vectors: vectors,
		index:   df.index,
		name:    df.name,
		cfg:     df.cfg,
	}
	for j, label := range vectors.Labels() {
		if pos, ok := df.vectors.Locate(label); ok {
			ret.data[j] = df.data[pos].Copy()
		} else {
			ret.data[j] = newVector(make([]interface{}, df.Len()), df.index, nil, df.cfg)
		}
		ret.data[j].values.name = label
		ret.adopt(ret.data[j])
	}
	return ret, nil
}

// -- SORT

// SortBy returns a new DataFrame with rows ordered by the values of one column.
func (df *DataFrame) SortBy(col interface{}, by ...Sorter) (*DataFrame, error) {
	vec, err := df.Col(col)
	if err != nil {
		return nil, fmt.Errorf("sort by: %w", err)
	}
	var sorter Sorter
	if len(by) > 0 {
		sorter = by[0]
	}
	return df.take(sortOrder(vec.values.slice, sorter))
}

// SortByIndex returns a new DataFrame with rows ordered by their labels.
func (df *DataFrame) SortByIndex(ascending bool) *DataFrame {
	_, order := df.index.Sort(ascending)
	ret, _ := df.take(order)
	return ret
}

// -- ITERATION

// Iterator returns an iterator which may be used to access the rows in a DataFrame.
func (df *DataFrame) Iterator() *DataFrameIterator {
	return &DataFrameIterator{
		current: -1,
		df:      df,
	}
}

// Next advances to next row. Returns false at end of iteration.
func (iter *DataFrameIterator) Next() bool {
	iter.current++
	return iter.current < iter.df.Len()
}

// Row returns the current row as a Vector labeled by the column index.
func (iter *DataFrameIterator) Row() *Vector {
	return iter.df.rowAt(iter.current)
}

// EachRow calls fn with the label and values of every row, in position order.
func (df *DataFrame) EachRow(fn func(label interface{}, row *Vector)) {
	iter := df.Iterator()
	for iter.Next() {
		row := iter.Row()
		fn(row.Name(), row)
	}
}

// EachCol calls fn with the label and Vector of every column, in column order.
// The Vectors are the DataFrame's own columns.
func (df *DataFrame) EachCol(fn func(label interface{}, col *Vector)) {
	labels := df.vectors.Labels()
	for j, vec := range df.data {
		fn(labels[j], vec)
	}
}

// ToRows returns a copy of the values, one slice per row.
func (df *DataFrame) ToRows() [][]interface{} {
	ret := make([][]interface{}, df.Len())
	for i := range ret {
		ret[i] = make([]interface{}, len(df.data))
		for j, vec := range df.data {
			ret[i][j] = vec.values.slice[i]
		}
	}
	return ret
}

// checkInvariants reports the first violated structural invariant, if any.
func (df *DataFrame) checkInvariants() error {
	if df.vectors.Len() != len(df.data) {
		return fmt.Errorf("%d column labels for %d columns", df.vectors.Len(), len(df.data))
	}
	for j, vec := range df.data {
		if vec.Len() != df.index.Len() {
			return fmt.Errorf("column %d has %d values for %d rows", j, vec.Len(), df.index.Len())
		}
		if vec.index != df.index {
			return fmt.Errorf("column %d does not share the row index", j)
		}
	}
	return nil
}

// -- SETTERS

// InPlace returns a DataFrameMutator, which changes the DataFrame in place instead of returning a new one.
func (df *DataFrame) InPlace() *DataFrameMutator {
	if df.sharedData {
		df.cfg.warn(
			"Shared Data Warning: this DataFrame shares its columns with the object " +
				"from which it was derived (via Cols() or FrameOptionNoClone), " +
				"so InPlace changes to values will modify the original object too. " +
				"To avoid this, make a new DataFrame with DataFrame.Copy()")
	}
	return &DataFrameMutator{dataframe: df}
}

// detach replaces columns with copies before a change to the row structure:
// every column of a shared DataFrame, and otherwise each column another DataFrame also holds.
func (df *DataFrameMutator) detach() {
	d := df.dataframe
	for j, vec := range d.data {
		if !d.sharedData && vec.frames < 2 {
			continue
		}
		release(vec)
		d.data[j] = vec.Copy()
		d.adopt(d.data[j])
	}
	d.sharedData = false
}

// SetCol assigns value to the column addressed by key (a label, or a position if key is not a label),
// appending a new column labeled key if key addresses no column.
// A *Vector is reindexed onto the row index (rows it lacks are nil); a slice must have one value per row;
// any other value is repeated in every row.
// If the DataFrame has no rows and no columns, a Vector's index (or the length of a slice) sets the rows.
func (df *DataFrameMutator) SetCol(key, value interface{}) error {
	d := df.dataframe
	index := d.index
	empty := d.Len() == 0
	var vec *Vector
	switch val := value.(type) {
	case *Vector:
		if empty {
			index = val.index
			vec = newVector(val.Values(), index, nil, d.cfg)
		} else {
			vec = val.reindex(d.index)
		}
	default:
		var values []interface{}
		_, isTuple := value.(Tuple)
		if isSlice(value) && !isTuple {
			var err error
			values, err = toInterfaceSlice(value)
			if err != nil {
				return fmt.Errorf("set col: %w", err)
			}
			if empty {
				index = newIndexFromLabels(makeDefaultLabels(len(values)), "")
			} else if len(values) != d.Len() {
				return fmt.Errorf("set col: %d values for %d rows: %w", len(values), d.Len(), ErrSize)
			}
		} else {
			values = make([]interface{}, d.Len())
			for i := range values {
				values[i] = value
			}
		}
		vec = newVector(values, index, nil, d.cfg)
	}
	pos, replace := d.vectors.Locate(key)
	if !replace {
		if p, ok := asPosition(key); ok {
			if p, err := normalizePosition(p, len(d.data)); err == nil {
				pos, replace = p, true
				key, _ = d.vectors.At(pos)
			}
		}
	}
	vec.values.name = key
	if index != d.index && index.Len() > 0 {
		// existing columns have no rows yet
		df.detach()
		for _, col := range d.data {
			col.values.slice = make([]interface{}, index.Len())
			col.invalidate()
		}
	}
	if replace {
		release(d.data[pos])
		d.data[pos] = vec
	} else {
		vectors, err := d.vectors.Add(key)
		if err != nil {
			return fmt.Errorf("set col: %w", err)
		}
		d.vectors = vectors
		d.data = append(d.data, vec)
	}
	d.index = index
	d.syncIndex()
	d.adopt(vec)
	return nil
}

// rowValues returns one value per column.
func (df *DataFrame) rowValues(value interface{}) ([]interface{}, error) {
	ret := make([]interface{}, len(df.data))
	switch val := value.(type) {
	case *Vector:
		for j, label := range df.vectors.Labels() {
			if pos, ok := val.index.Locate(label); ok {
				ret[j] = val.values.slice[pos]
			}
		}
		return ret, nil
	}
	if _, isTuple := value.(Tuple); isSlice(value) && !isTuple {
		values, err := toInterfaceSlice(value)
		if err != nil {
			return nil, err
		}
		if len(values) != len(df.data) {
			return nil, fmt.Errorf("%d values for %d columns: %w", len(values), len(df.data), ErrSize)
		}
		return values, nil
	}
	for j := range ret {
		ret[j] = value
	}
	return ret, nil
}

// SetRow assigns value to every row addressed by key. If key is neither a label nor a valid position,
// a new row labeled key is appended.
// A slice must have one value per column. A *Vector is matched to the columns by label
// (columns it lacks are nil). Any other value is repeated in every column.
func (df *DataFrameMutator) SetRow(key, value interface{}) error {
	d := df.dataframe
	values, err := d.rowValues(value)
	if err != nil {
		return fmt.Errorf("set row: %w", err)
	}
	positions, _, err := d.index.Resolve(key)
	if err != nil {
		switch key.(type) {
		case Range, Span:
			return fmt.Errorf("set row: %w", err)
		}
		if err := df.appendRow(key, values); err != nil {
			return fmt.Errorf("set row: %w", err)
		}
		return nil
	}
	for j, vec := range d.data {
		for _, pos := range positions {
			vec.values.slice[pos] = values[j]
		}
		vec.invalidate()
	}
	return nil
}

// AddRow appends a new row labeled label. value is interpreted as in SetRow.
func (df *DataFrameMutator) AddRow(label, value interface{}) error {
	values, err := df.dataframe.rowValues(value)
	if err != nil {
		return fmt.Errorf("add row: %w", err)
	}
	if err := df.appendRow(label, values); err != nil {
		return fmt.Errorf("add row: %w", err)
	}
	return nil
}

func (df *DataFrameMutator) appendRow(label interface{}, values []interface{}) error {
	d := df.dataframe
	index, err := d.index.Add(label)
	if err != nil {
		return err
	}
	df.detach()
	for j, vec := range d.data {
		vec.values.slice = append(vec.values.slice, values[j])
		vec.invalidate()
	}
	d.index = index
	d.syncIndex()
	return nil
}

// DeleteCol removes the column addressed by key (a label, or a position if key is not a label).
func (df *DataFrameMutator) DeleteCol(key interface{}) error {
	d := df.dataframe
	pos, err := d.colPosition(key)
	if err != nil {
		return fmt.Errorf("delete col: %w", err)
	}
	vectors, err := d.vectors.DeleteAt(pos)
	if err != nil {
		return fmt.Errorf("delete col: %w", err)
	}
	release(d.data[pos])
	d.vectors = vectors
	d.data = append(d.data[:pos:pos], d.data[pos+1:]...)
	return nil
}

// DeleteRow removes every row addressed by key.
func (df *DataFrameMutator) DeleteRow(key interface{}) error {
	positions, _, err := df.dataframe.index.Resolve(key)
	if err != nil {
		return fmt.Errorf("delete row: %w", err)
	}
	if err := df.deleteRows(positions); err != nil {
		return fmt.Errorf("delete row: %w", err)
	}
	return nil
}

// DeleteAtPosition removes the row at position.
func (df *DataFrameMutator) DeleteAtPosition(position int) error {
	pos, err := normalizePosition(position, df.dataframe.Len())
	if err != nil {
		return fmt.Errorf("delete at position: %w", err)
	}
	if err := df.deleteRows([]int{pos}); err != nil {
		return fmt.Errorf("delete at position: %w", err)
	}
	return nil
}

func (df *DataFrameMutator) deleteRows(positions []int) error {
	d := df.dataframe
	positions = dedupePositions(positions)
	sort.Sort(sort.Reverse(sort.IntSlice(positions)))
	index := d.index
	for _, pos := range positions {
		var err error
		index, err = index.DeleteAt(pos)
		if err != nil {
			return err
		}
	}
	df.detach()
	for _, vec := range d.data {
		for _, pos := range positions {
			vec.values.slice = dropPosition(vec.values.slice, pos)
		}
		vec.invalidate()
	}
	d.index = index
	d.syncIndex()
	return nil
}

// WithCol returns a new DataFrame with value assigned to the column labeled key, as in SetCol.
func (df *DataFrame) WithCol(key, value interface{}) (*DataFrame, error) {
	df = df.Copy()
	if err := df.InPlace().SetCol(key, value); err != nil {
		return nil, err
	}
	return df, nil
}

// DropCol returns a new DataFrame without the column addressed by key.
func (df *DataFrame) DropCol(key interface{}) (*DataFrame, error) {
	df = df.Copy()
	if err := df.InPlace().DeleteCol(key); err != nil {
		return nil, err
	}
	return df, nil
}

// DropRow returns a new DataFrame without the rows addressed by key.
func (df *DataFrame) DropRow(key interface{}) (*DataFrame, error) {
	df = df.Copy()
	if err := df.InPlace().DeleteRow(key); err != nil {
		return nil, err
	}
	return df, nil
}

// ToDataFrame returns a copy of the Vector as a single-column DataFrame.
// An unnamed Vector becomes column 0.
func (v *Vector) ToDataFrame() *DataFrame {
	name := v.values.name
	if name == nil {
		name = 0
	}
	vec := v.Copy()
	vec.values.name = name
	df := &DataFrame{
		data:    []*Vector{vec},
		vectors: newIndexFromLabels([]interface{}{name}, ""),
		index:   v.index,
		cfg:     v.cfg,
	}
	df.adopt(vec)
	return df
}
