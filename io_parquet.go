package lframe

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/parquet-go/parquet-go"
)

// parquetCell is one row of the long-format Parquet layout.
// Every value of a DataFrame (and every label of its indexes) is stored as its own cell,
// so columns of mixed types survive a round trip.
type parquetCell struct {
	Part   string `parquet:"part,dict"`
	Column int64  `parquet:"column"`
	Row    int64  `parquet:"row"`
	Kind   string `parquet:"kind,dict"`
	Text   string `parquet:"text"`
}

// parts of the layout
const (
	partFrame      = "frame"
	partData       = "data"
	partIndexMeta  = "index.meta"
	partIndexLabel = "index.label"
	partIndexLevel = "index.level"
	partIndexCode  = "index.code"
	partOrderMeta  = "order.meta"
	partOrderLabel = "order.label"
	partOrderLevel = "order.level"
	partOrderCode  = "order.code"
)

// kinds of encoded values
const (
	kindNil    = "nil"
	kindInt    = "int"
	kindInt64  = "int64"
	kindUint   = "uint"
	kindFloat  = "float"
	kindString = "string"
	kindBool   = "bool"
	kindTime   = "time"
	kindTuple  = "tuple"
)

// indexMeta describes an index apart from its labels.
type indexMeta struct {
	Kind       IndexKind `json:"kind"`
	Name       string    `json:"name,omitempty"`
	Names      []string  `json:"names,omitempty"`
	LevelSizes []int     `json:"level_sizes,omitempty"`
}

// typedValue is the encoding of one tuple component.
type typedValue struct {
	Kind string `json:"k"`
	Text string `json:"t"`
}

// WriteParquet writes the DataFrame to w as a Parquet file, including both indexes and the name.
// Values may be nil, numbers, strings, bools, times or tuples of these; any other value is an error.
func (df *DataFrame) WriteParquet(w io.Writer) error {
	m := df.ToMarshalled()
	cells := []parquetCell{{
		Part:   partFrame,
		Column: int64(len(m.Data)),
		Row:    int64(df.Len()),
		Kind:   kindString,
		Text:   m.Name,
	}}
	var err error
	cells, err = appendIndexCells(cells, m.Index, partIndexMeta, partIndexLabel, partIndexLevel, partIndexCode)
	if err != nil {
		return fmt.Errorf("WriteParquet(): row index: %w", err)
	}
	cells, err = appendIndexCells(cells, m.Order, partOrderMeta, partOrderLabel, partOrderLevel, partOrderCode)
	if err != nil {
		return fmt.Errorf("WriteParquet(): column index: %w", err)
	}
	for j := range m.Data {
		for i, v := range m.Data[j] {
			tv, err := encodeValue(v)
			if err != nil {
				return fmt.Errorf("WriteParquet(): column %d, row %d: %w", j, i, err)
			}
			cells = append(cells, parquetCell{Part: partData, Column: int64(j), Row: int64(i), Kind: tv.Kind, Text: tv.Text})
		}
	}
	if err := parquet.Write(w, cells, parquet.Compression(&parquet.Snappy)); err != nil {
		return fmt.Errorf("WriteParquet(): %w", err)
	}
	return nil
}

func appendIndexCells(cells []parquetCell, m MarshalledIndex, metaPart, labelPart, levelPart, codePart string) ([]parquetCell, error) {
	meta := indexMeta{Kind: m.Kind, Name: m.Name, Names: m.Names}
	for _, level := range m.Levels {
		meta.LevelSizes = append(meta.LevelSizes, len(level))
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}
	cells = append(cells, parquetCell{Part: metaPart, Kind: kindString, Text: string(b)})
	if m.Kind == MultiLevelIndex {
		for l, level := range m.Levels {
			for code, v := range level {
				tv, err := encodeValue(v)
				if err != nil {
					return nil, fmt.Errorf("level %d: %w", l, err)
				}
				cells = append(cells, parquetCell{Part: levelPart, Column: int64(l), Row: int64(code), Kind: tv.Kind, Text: tv.Text})
			}
		}
		for l := range m.Codes {
			for i, code := range m.Codes[l] {
				cells = append(cells, parquetCell{Part: codePart, Column: int64(l), Row: int64(i), Kind: kindInt, Text: strconv.Itoa(code)})
			}
		}
		return cells, nil
	}
	for i, label := range m.Labels {
		tv, err := encodeValue(label)
		if err != nil {
			return nil, fmt.Errorf("label %d: %w", i, err)
		}
		cells = append(cells, parquetCell{Part: labelPart, Row: int64(i), Kind: tv.Kind, Text: tv.Text})
	}
	return cells, nil
}

// ReadParquet reads a DataFrame written by WriteParquet.
func ReadParquet(r io.ReaderAt, size int64, options ...FrameOption) (*DataFrame, error) {
	cells, err := parquet.Read[parquetCell](r, size)
	if err != nil {
		return nil, fmt.Errorf("ReadParquet(): %w", err)
	}
	if len(cells) == 0 || cells[0].Part != partFrame {
		return nil, fmt.Errorf("ReadParquet(): missing frame header: %w", ErrArgument)
	}
	numCols, numRows := int(cells[0].Column), int(cells[0].Row)
	if numCols < 0 || numRows < 0 {
		return nil, fmt.Errorf("ReadParquet(): invalid shape (%d, %d): %w", numRows, numCols, ErrArgument)
	}
	m := Marshalled{Name: cells[0].Text, Data: make([][]interface{}, numCols)}
	for j := range m.Data {
		m.Data[j] = make([]interface{}, numRows)
	}
	index := &indexBuilder{size: numRows}
	order := &indexBuilder{size: numCols}
	for _, cell := range cells[1:] {
		var err error
		switch cell.Part {
		case partData:
			var v interface{}
			v, err = decodeValue(typedValue{Kind: cell.Kind, Text: cell.Text})
			if err == nil {
				if cell.Column < 0 || int(cell.Column) >= numCols || cell.Row < 0 || int(cell.Row) >= numRows {
					err = fmt.Errorf("cell (%d, %d) outside shape (%d, %d): %w", cell.Row, cell.Column, numRows, numCols, ErrSize)
				} else {
					m.Data[cell.Column][cell.Row] = v
				}
			}
		case partIndexMeta, partIndexLabel, partIndexLevel, partIndexCode:
			err = index.add(cell, partIndexMeta, partIndexLabel, partIndexLevel)
		case partOrderMeta, partOrderLabel, partOrderLevel, partOrderCode:
			err = order.add(cell, partOrderMeta, partOrderLabel, partOrderLevel)
		default:
			err = fmt.Errorf("unknown part %q: %w", cell.Part, ErrArgument)
		}
		if err != nil {
			return nil, fmt.Errorf("ReadParquet(): %w", err)
		}
	}
	m.Index = index.marshalled()
	m.Order = order.marshalled()
	df, err := FromMarshalled(m, options...)
	if err != nil {
		return nil, fmt.Errorf("ReadParquet(): %w", err)
	}
	return df, nil
}

// indexBuilder collects the cells of one index.
type indexBuilder struct {
	size   int
	meta   indexMeta
	labels []interface{}
	levels [][]interface{}
	codes  [][]int
}

func (b *indexBuilder) add(cell parquetCell, metaPart, labelPart, levelPart string) error {
	switch cell.Part {
	case metaPart:
		if err := json.Unmarshal([]byte(cell.Text), &b.meta); err != nil {
			return fmt.Errorf("index metadata: %w", err)
		}
		if b.meta.Kind == MultiLevelIndex {
			b.levels = make([][]interface{}, len(b.meta.LevelSizes))
			b.codes = make([][]int, len(b.meta.LevelSizes))
			for l, n := range b.meta.LevelSizes {
				b.levels[l] = make([]interface{}, n)
				b.codes[l] = make([]int, b.size)
			}
		} else {
			b.labels = make([]interface{}, b.size)
		}
		return nil
	case labelPart:
		if cell.Row < 0 || int(cell.Row) >= len(b.labels) {
			return fmt.Errorf("label %d outside index of length %d: %w", cell.Row, len(b.labels), ErrSize)
		}
		v, err := decodeValue(typedValue{Kind: cell.Kind, Text: cell.Text})
		if err != nil {
			return err
		}
		b.labels[cell.Row] = v
		return nil
	case levelPart:
		if cell.Column < 0 || int(cell.Column) >= len(b.levels) ||
			cell.Row < 0 || int(cell.Row) >= len(b.levels[cell.Column]) {
			return fmt.Errorf("level value (%d, %d) outside levels: %w", cell.Column, cell.Row, ErrSize)
		}
		v, err := decodeValue(typedValue{Kind: cell.Kind, Text: cell.Text})
		if err != nil {
			return err
		}
		b.levels[cell.Column][cell.Row] = v
		return nil
	}
	// codes
	if cell.Column < 0 || int(cell.Column) >= len(b.codes) || cell.Row < 0 || int(cell.Row) >= b.size {
		return fmt.Errorf("code (%d, %d) outside codes: %w", cell.Column, cell.Row, ErrSize)
	}
	code, err := strconv.Atoi(cell.Text)
	if err != nil {
		return fmt.Errorf("code (%d, %d): %w", cell.Column, cell.Row, err)
	}
	b.codes[cell.Column][cell.Row] = code
	return nil
}

func (b *indexBuilder) marshalled() MarshalledIndex {
	ret := MarshalledIndex{Kind: b.meta.Kind, Name: b.meta.Name, Names: b.meta.Names}
	if b.meta.Kind == MultiLevelIndex {
		ret.Levels = b.levels
		ret.Codes = b.codes
		return ret
	}
	ret.Labels = b.labels
	if ret.Labels == nil {
		ret.Labels = make([]interface{}, b.size)
	}
	return ret
}

// encodeValue encodes one value as a kind and its text.
func encodeValue(v interface{}) (typedValue, error) {
	switch x := v.(type) {
	case nil:
		return typedValue{Kind: kindNil}, nil
	case int:
		return typedValue{Kind: kindInt, Text: strconv.Itoa(x)}, nil
	case int8, int16, int32, int64:
		i, _ := asInt64(x)
		return typedValue{Kind: kindInt64, Text: strconv.FormatInt(i, 10)}, nil
	case uint, uint8, uint16, uint32, uint64:
		return typedValue{Kind: kindUint, Text: fmt.Sprint(x)}, nil
	case float32:
		return encodeValue(float64(x))
	case float64:
		return typedValue{Kind: kindFloat, Text: strconv.FormatFloat(x, 'g', -1, 64)}, nil
	case string:
		return typedValue{Kind: kindString, Text: x}, nil
	case bool:
		return typedValue{Kind: kindBool, Text: strconv.FormatBool(x)}, nil
	case time.Time:
		return typedValue{Kind: kindTime, Text: x.Format(time.RFC3339Nano)}, nil
	case Tuple, []interface{}:
		t := asTuple(x)
		components := make([]typedValue, len(t))
		for i := range t {
			tv, err := encodeValue(t[i])
			if err != nil {
				return typedValue{}, err
			}
			components[i] = tv
		}
		b, err := json.Marshal(components)
		if err != nil {
			return typedValue{}, err
		}
		return typedValue{Kind: kindTuple, Text: string(b)}, nil
	}
	return typedValue{}, fmt.Errorf("cannot encode %v (%T): %w", v, v, ErrType)
}

// decodeValue reverses encodeValue.
func decodeValue(tv typedValue) (interface{}, error) {
	switch tv.Kind {
	case kindNil:
		return nil, nil
	case kindInt:
		return strconv.Atoi(tv.Text)
	case kindInt64:
		return strconv.ParseInt(tv.Text, 10, 64)
	case kindUint:
		return strconv.ParseUint(tv.Text, 10, 64)
	case kindFloat:
		return strconv.ParseFloat(tv.Text, 64)
	case kindString:
		return tv.Text, nil
	case kindBool:
		return strconv.ParseBool(tv.Text)
	case kindTime:
		return time.Parse(time.RFC3339Nano, tv.Text)
	case kindTuple:
		var components []typedValue
		if err := json.Unmarshal([]byte(tv.Text), &components); err != nil {
			return nil, err
		}
		t := make(Tuple, len(components))
		for i := range components {
			v, err := decodeValue(components[i])
			if err != nil {
				return nil, err
			}
			t[i] = v
		}
		return t, nil
	}
	return nil, fmt.Errorf("unknown value kind %q: %w", tv.Kind, ErrArgument)
}
