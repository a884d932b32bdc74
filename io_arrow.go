package lframe

import (
	"fmt"
	"strconv"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// labelLevelsKey is the schema metadata key recording how many leading fields hold row labels.
const labelLevelsKey = "lframe.label_levels"

// ============================================================================
// Arrow Export
// ============================================================================

// ToArrow exports a DataFrame to an Arrow Record.
// The caller is responsible for calling Release() on the returned Record.
//
// Each column becomes one nullable field named by its rendered column label. A column whose
// non-missing values are all integers is Int64, all numbers Float64, all strings String,
// all bools Boolean and all times Timestamp; any other column is written as rendered strings.
// If includeLabels is true, the row labels are written first, one field per label level,
// and recorded in the schema metadata so that NewDataFrameFromArrow restores them as the row index.
func (df *DataFrame) ToArrow(mem memory.Allocator, includeLabels bool) (arrow.Record, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	var names []string
	var columns [][]interface{}
	levels := 0
	if includeLabels {
		levels = labelLevels(df.index)
		headers := labelHeaders(df.index)
		labels := df.index.Labels()
		for l := 0; l < levels; l++ {
			name := headers[l]
			if name == "" {
				name = fmt.Sprintf("__index_level_%d__", l)
			}
			column := make([]interface{}, len(labels))
			for i := range labels {
				if levels > 1 {
					column[i] = asTuple(labels[i])[l]
				} else {
					column[i] = labels[i]
				}
			}
			names = append(names, name)
			columns = append(columns, column)
		}
	}
	for j, label := range df.vectors.Labels() {
		names = append(names, formatLabel(label, df.cfg.LevelSeparator))
		columns = append(columns, df.data[j].values.slice)
	}

	// Build Arrow schema
	fields := make([]arrow.Field, len(columns))
	for k, column := range columns {
		fields[k] = arrow.Field{Name: names[k], Type: inferArrowType(column), Nullable: true}
	}
	md := arrow.NewMetadata([]string{labelLevelsKey}, []string{strconv.Itoa(levels)})
	schema := arrow.NewSchema(fields, &md)

	// Convert each column to Arrow array
	arrays := make([]arrow.Array, len(columns))
	for k, column := range columns {
		arr, err := toArrowArray(column, fields[k].Type, mem, df.cfg.LevelSeparator)
		if err != nil {
			// Clean up already created arrays
			for j := 0; j < k; j++ {
				arrays[j].Release()
			}
			return nil, fmt.Errorf("ToArrow(): field %s: %w", names[k], err)
		}
		arrays[k] = arr
	}

	// Create Record
	record := array.NewRecord(schema, arrays, int64(df.Len()))

	// Release arrays (Record retains them)
	for _, arr := range arrays {
		arr.Release()
	}
	return record, nil
}

// inferArrowType returns the narrowest Arrow type holding every non-missing value.
func inferArrowType(values []interface{}) arrow.DataType {
	allInts, allNumbers, allBools, allTimes := true, true, true, true
	var seen bool
	for _, v := range values {
		if v == nil {
			continue
		}
		seen = true
		_, isBool := v.(bool)
		_, isTime := v.(time.Time)
		allInts = allInts && isInteger(v)
		allNumbers = allNumbers && isNumber(v)
		allBools = allBools && isBool
		allTimes = allTimes && isTime
	}
	switch {
	case !seen:
		return arrow.BinaryTypes.String
	case allInts:
		return arrow.PrimitiveTypes.Int64
	case allNumbers:
		return arrow.PrimitiveTypes.Float64
	case allBools:
		return arrow.FixedWidthTypes.Boolean
	case allTimes:
		return arrow.FixedWidthTypes.Timestamp_ns
	}
	return arrow.BinaryTypes.String
}

func toArrowArray(values []interface{}, dtype arrow.DataType, mem memory.Allocator, sep string) (arrow.Array, error) {
	switch dtype.ID() {
	case arrow.INT64:
		builder := array.NewInt64Builder(mem)
		defer builder.Release()
		for _, v := range values {
			if v == nil {
				builder.AppendNull()
				continue
			}
			i, _ := asInt64(v)
			builder.Append(i)
		}
		return builder.NewArray(), nil

	case arrow.FLOAT64:
		builder := array.NewFloat64Builder(mem)
		defer builder.Release()
		for _, v := range values {
			if v == nil {
				builder.AppendNull()
				continue
			}
			f, _ := toFloat(v)
			builder.Append(f)
		}
		return builder.NewArray(), nil

	case arrow.BOOL:
		builder := array.NewBooleanBuilder(mem)
		defer builder.Release()
		for _, v := range values {
			if v == nil {
				builder.AppendNull()
				continue
			}
			builder.Append(v.(bool))
		}
		return builder.NewArray(), nil

	case arrow.TIMESTAMP:
		builder := array.NewTimestampBuilder(mem, dtype.(*arrow.TimestampType))
		defer builder.Release()
		for _, v := range values {
			if v == nil {
				builder.AppendNull()
				continue
			}
			builder.Append(arrow.Timestamp(v.(time.Time).UnixNano()))
		}
		return builder.NewArray(), nil

	case arrow.STRING:
		builder := array.NewStringBuilder(mem)
		defer builder.Release()
		for _, v := range values {
			switch x := v.(type) {
			case nil:
				builder.AppendNull()
			case string:
				builder.Append(x)
			case Tuple, []interface{}:
				builder.Append(formatLabel(x, sep))
			default:
				builder.Append(formatValue(x))
			}
		}
		return builder.NewArray(), nil
	}
	return nil, fmt.Errorf("unsupported Arrow type %s: %w", dtype, ErrType)
}

// ============================================================================
// Arrow Import
// ============================================================================

// NewDataFrameFromArrow creates a DataFrame from an Arrow Record.
// Every field becomes a column labeled by the field name, except that the leading label fields
// written by ToArrow become the row index. Int64 values are read as int.
func NewDataFrameFromArrow(record arrow.Record, options ...FrameOption) (*DataFrame, error) {
	if record == nil {
		return nil, fmt.Errorf("NewDataFrameFromArrow(): record is nil: %w", ErrArgument)
	}
	schema := record.Schema()
	numCols := int(record.NumCols())
	levels := 0
	md := schema.Metadata()
	if k := md.FindKey(labelLevelsKey); k >= 0 {
		n, err := strconv.Atoi(md.Values()[k])
		if err != nil || n < 0 || n > numCols {
			return nil, fmt.Errorf("NewDataFrameFromArrow(): invalid %s metadata %q: %w",
				labelLevelsKey, md.Values()[k], ErrArgument)
		}
		levels = n
	}

	columns := make([][]interface{}, numCols)
	for k := 0; k < numCols; k++ {
		values, err := fromArrowArray(record.Column(k))
		if err != nil {
			return nil, fmt.Errorf("NewDataFrameFromArrow(): field %s: %w", schema.Field(k).Name, err)
		}
		columns[k] = values
	}

	order := make([]interface{}, numCols-levels)
	cols := make(ColumnList, numCols-levels)
	for j := range cols {
		order[j] = schema.Field(levels + j).Name
		cols[j] = columns[levels+j]
	}
	opts := []FrameOption{FrameOptionOrder(order)}
	if levels > 0 {
		labels := make([]interface{}, record.NumRows())
		for i := range labels {
			if levels == 1 {
				labels[i] = columns[0][i]
				continue
			}
			t := make(Tuple, levels)
			for l := range t {
				t[l] = columns[l][i]
			}
			labels[i] = t
		}
		names := make([]string, levels)
		for l := range names {
			name := schema.Field(l).Name
			if name != fmt.Sprintf("__index_level_%d__", l) {
				names[l] = name
			}
		}
		index, err := CreateIndex(labels)
		if err != nil {
			return nil, fmt.Errorf("NewDataFrameFromArrow(): row labels: %w", err)
		}
		opts = append(opts, FrameOptionIndex(withIndexNames(index, names)))
	}
	df, err := NewDataFrame(cols, append(opts, options...)...)
	if err != nil {
		return nil, fmt.Errorf("NewDataFrameFromArrow(): %w", err)
	}
	return df, nil
}

// fromArrowArray converts an Arrow Array to values, with nil for null slots.
func fromArrowArray(arr arrow.Array) ([]interface{}, error) {
	ret := make([]interface{}, arr.Len())
	switch a := arr.(type) {
	case *array.Int64:
		for i := range ret {
			if !a.IsNull(i) {
				ret[i] = int(a.Value(i))
			}
		}
	case *array.Int32:
		for i := range ret {
			if !a.IsNull(i) {
				ret[i] = int(a.Value(i))
			}
		}
	case *array.Float64:
		for i := range ret {
			if !a.IsNull(i) {
				ret[i] = a.Value(i)
			}
		}
	case *array.Float32:
		for i := range ret {
			if !a.IsNull(i) {
				ret[i] = float64(a.Value(i))
			}
		}
	case *array.Boolean:
		for i := range ret {
			if !a.IsNull(i) {
				ret[i] = a.Value(i)
			}
		}
	case *array.String:
		for i := range ret {
			if !a.IsNull(i) {
				ret[i] = a.Value(i)
			}
		}
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		for i := range ret {
			if !a.IsNull(i) {
				ret[i] = time.Unix(0, int64(a.Value(i))*int64(unit.Multiplier())).UTC()
			}
		}
	default:
		return nil, fmt.Errorf("unsupported Arrow array type %T: %w", arr, ErrType)
	}
	return ret, nil
}
