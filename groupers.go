package lframe

import (
	"fmt"
	"strings"
)

// GroupBy groups the rows of df by the values in the columns addressed by cols.
// With more than one column, each group key is the tuple of the row's values.
// If no columns are supplied, rows are grouped by their row labels.
// Groups are listed in sorted key order.
func (df *DataFrame) GroupBy(cols ...interface{}) (*GroupedDataFrame, error) {
	rowKeys := df.index.Labels()
	var by []interface{}
	if len(cols) > 0 {
		positions := make([]int, len(cols))
		for k, col := range cols {
			pos, err := df.colPosition(col)
			if err != nil {
				return nil, fmt.Errorf("GroupBy(): %w", err)
			}
			positions[k] = pos
			by = append(by, df.vectors.Labels()[pos])
		}
		for i := range rowKeys {
			if len(positions) == 1 {
				rowKeys[i] = df.data[positions[0]].values.slice[i]
				continue
			}
			key := make(Tuple, len(positions))
			for k, pos := range positions {
				key[k] = df.data[pos].values.slice[i]
			}
			rowKeys[i] = key
		}
	}
	groups := newCategoricalIndex(rowKeys, "")
	categories := groups.Categories()
	keys, _ := subsetValues(categories, sortPositions(categories, true, nil))
	rowIndices := make([][]int, len(keys))
	for m, key := range keys {
		rowIndices[m] = groups.LabelPositions(key)
	}
	return &GroupedDataFrame{
		by:         by,
		keys:       keys,
		rowIndices: rowIndices,
		groups:     groups,
		df:         df,
	}, nil
}

func (g *GroupedDataFrame) String() string {
	groups := make([]string, len(g.keys))
	for m, key := range g.keys {
		groups[m] = formatLabel(key, g.df.cfg.LevelSeparator)
	}
	return "Groups: " + strings.Join(groups, ",")
}

// Len returns the number of groups.
func (g *GroupedDataFrame) Len() int {
	return len(g.keys)
}

// ListGroups returns the group keys in sorted order.
func (g *GroupedDataFrame) ListGroups() []interface{} {
	ret := make([]interface{}, len(g.keys))
	copy(ret, g.keys)
	return ret
}

// GroupLabels returns, for every row of the underlying DataFrame, the key of the group holding that row.
func (g *GroupedDataFrame) GroupLabels() *CategoricalIndex {
	return g.groups
}

// GetGroup returns the rows whose group key is key, in their original order.
func (g *GroupedDataFrame) GetGroup(key interface{}) (*DataFrame, error) {
	for m := range g.keys {
		if labelsEqual(g.keys[m], key) {
			return g.df.take(g.rowIndices[m])
		}
	}
	return nil, fmt.Errorf("GetGroup(): `group` (%v) not in groups: %w", key, ErrIndex)
}

// IterGroups returns every group as a DataFrame, in sorted key order.
func (g *GroupedDataFrame) IterGroups() []*DataFrame {
	ret := make([]*DataFrame, len(g.rowIndices))
	for m := range g.rowIndices {
		ret[m], _ = g.df.take(g.rowIndices[m])
	}
	return ret
}

// HavingCount returns only the groups whose number of rows satisfies lambda.
func (g *GroupedDataFrame) HavingCount(lambda func(int) bool) *GroupedDataFrame {
	var keys []interface{}
	var rowIndices [][]int
	for m, rows := range g.rowIndices {
		if lambda(len(rows)) {
			keys = append(keys, g.keys[m])
			rowIndices = append(rowIndices, rows)
		}
	}
	return &GroupedDataFrame{
		by:         g.by,
		keys:       keys,
		rowIndices: rowIndices,
		groups:     g.groups,
		df:         g.df,
	}
}

// index labels the reduced rows: a MultiIndex for tuple keys, otherwise an index of the keys.
// Levels are named by the grouping columns, or by the row index names when grouping by row labels.
func (g *GroupedDataFrame) index() (Indexer, error) {
	names := labelHeaders(g.df.index)
	if len(g.by) > 0 {
		names = make([]string, len(g.by))
		for k := range g.by {
			names[k] = formatLabel(g.by[k], g.df.cfg.LevelSeparator)
		}
	}
	keys := make([]interface{}, len(g.keys))
	copy(keys, g.keys)
	if len(names) > 1 {
		tuples := make([]Tuple, len(keys))
		for m := range keys {
			tuples[m] = asTuple(keys[m])
		}
		if len(tuples) == 0 {
			return newIndexFromLabels(nil, ""), nil
		}
		return MultiIndexFromTuples(tuples, names...)
	}
	ix, err := CreateIndex(keys)
	if err != nil {
		return nil, err
	}
	return withIndexNames(ix, names), nil
}

// valueColumns resolves cols to column positions.
// By default, every column except the grouping columns is used.
func (g *GroupedDataFrame) valueColumns(cols []interface{}) ([]int, error) {
	if len(cols) == 0 {
		grouped := make(map[string]bool, len(g.by))
		for _, label := range g.by {
			grouped[labelKey(label)] = true
		}
		var ret []int
		for j, label := range g.df.vectors.Labels() {
			if !grouped[labelKey(label)] {
				ret = append(ret, j)
			}
		}
		return ret, nil
	}
	ret := make([]int, len(cols))
	for k, col := range cols {
		pos, err := g.df.colPosition(col)
		if err != nil {
			return nil, err
		}
		ret[k] = pos
	}
	return ret, nil
}

// Apply reduces every group of every column in cols to one value with lambda,
// returning a DataFrame with one row per group. The result is named `name`.
func (g *GroupedDataFrame) Apply(name string, cols []interface{}, lambda func(*Vector) interface{}) (*DataFrame, error) {
	positions, err := g.valueColumns(cols)
	if err != nil {
		return nil, fmt.Errorf("%s(): %w", name, err)
	}
	index, err := g.index()
	if err != nil {
		return nil, fmt.Errorf("%s(): %w", name, err)
	}
	order, err := g.df.vectors.Take(positions)
	if err != nil {
		return nil, fmt.Errorf("%s(): %w", name, err)
	}
	columns := make(ColumnList, len(positions))
	for k, pos := range positions {
		vec := g.df.data[pos]
		values := make([]interface{}, len(g.rowIndices))
		for m, rows := range g.rowIndices {
			sub, err := vec.SubVector(rows)
			if err != nil {
				return nil, fmt.Errorf("%s(): %w", name, err)
			}
			values[m] = lambda(sub)
		}
		columns[k] = values
	}
	return NewDataFrame(columns,
		FrameOptionOrder(order),
		FrameOptionIndex(index),
		FrameOptionName(name),
		FrameOptionConfig(g.df.cfg))
}

// Sum returns the sum of each group, for every column in cols (default: all non-grouping columns).
func (g *GroupedDataFrame) Sum(cols ...interface{}) (*DataFrame, error) {
	return g.Apply("sum", cols, func(v *Vector) interface{} { return v.Sum() })
}

// Mean returns the mean of each group.
func (g *GroupedDataFrame) Mean(cols ...interface{}) (*DataFrame, error) {
	return g.Apply("mean", cols, func(v *Vector) interface{} { return v.Mean() })
}

// Std returns the sample standard deviation of each group.
func (g *GroupedDataFrame) Std(cols ...interface{}) (*DataFrame, error) {
	return g.Apply("std", cols, func(v *Vector) interface{} { return v.Std() })
}

// Min returns the smallest numeric value of each group.
func (g *GroupedDataFrame) Min(cols ...interface{}) (*DataFrame, error) {
	return g.Apply("min", cols, func(v *Vector) interface{} { return v.Min() })
}

// Max returns the largest numeric value of each group.
func (g *GroupedDataFrame) Max(cols ...interface{}) (*DataFrame, error) {
	return g.Apply("max", cols, func(v *Vector) interface{} { return v.Max() })
}

// Count returns the number of non-missing values in each group.
func (g *GroupedDataFrame) Count(cols ...interface{}) (*DataFrame, error) {
	return g.Apply("count", cols, func(v *Vector) interface{} { return v.Count() })
}

// Nth returns the value at position n of each group (negative n counts from the end), or nil if the group is too short.
func (g *GroupedDataFrame) Nth(n int, cols ...interface{}) (*DataFrame, error) {
	return g.Apply("nth", cols, func(v *Vector) interface{} {
		val, err := v.At(n)
		if err != nil {
			return nil
		}
		return val
	})
}

// First returns the first non-missing value of each group.
func (g *GroupedDataFrame) First(cols ...interface{}) (*DataFrame, error) {
	return g.Apply("first", cols, func(v *Vector) interface{} {
		for _, val := range v.values.slice {
			if !isMissing(val) {
				return val
			}
		}
		return nil
	})
}

// Last returns the last non-missing value of each group.
func (g *GroupedDataFrame) Last(cols ...interface{}) (*DataFrame, error) {
	return g.Apply("last", cols, func(v *Vector) interface{} {
		for i := v.Len() - 1; i >= 0; i-- {
			if !isMissing(v.values.slice[i]) {
				return v.values.slice[i]
			}
		}
		return nil
	})
}
