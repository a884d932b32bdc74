package lframe

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"unicode"

	"github.com/ptiger10/tablediff"
)

// A Reader can read in a DataFrame from various data sources.
type Reader interface {
	Read() (*DataFrame, error)
}

// A Writer can write a DataFrame into various receivers.
type Writer interface {
	Write(*DataFrame) error
}

// WriteTo writes a Vector to a Writer as a single-column DataFrame.
func (v *Vector) WriteTo(w Writer) error {
	err := w.Write(v.ToDataFrame())
	if err != nil {
		return fmt.Errorf("writing from Vector: %w", err)
	}
	return nil
}

// WriteTo writes a DataFrame to a Writer.
func (df *DataFrame) WriteTo(w Writer) error {
	err := w.Write(df)
	if err != nil {
		return fmt.Errorf("writing to Writer: %w", err)
	}
	return nil
}

// -- READ/WRITERS

// -- [][]string records

// RecordReader reads [][]string records into a DataFrame.
//
// The first HeaderRows records hold the column labels. With more than one header row,
// each column label is the tuple of its header values, so the columns are labeled by a MultiIndex.
// The first LabelLevels fields of every record hold the row labels. With more than one label level,
// each row label is a tuple. Label columns are named by the first header row.
type RecordReader struct {
	HeaderRows  int
	LabelLevels int
	ByColumn    bool
	records     [][]string
}

// NewRecordReader returns a default RecordReader: one header row, no label levels, rows as the major dimension.
func NewRecordReader(records [][]string) RecordReader {
	return RecordReader{
		HeaderRows:  1,
		LabelLevels: 0,
		ByColumn:    false,
		records:     records,
	}
}

// Read reads [][]string records to a DataFrame.
// All values are read as strings.
// Records are read with row as the major dimension, unless r.ByColumn = true.
// If no label levels are supplied, the rows are labeled 0..n-1.
// If no header rows are supplied, the columns are labeled 0..n-1.
func (r RecordReader) Read() (*DataFrame, error) {
	records := make([][]interface{}, len(r.records))
	for i := range r.records {
		records[i] = make([]interface{}, len(r.records[i]))
		for k := range r.records[i] {
			records[i][k] = r.records[i][k]
		}
	}
	df, err := readRecords(records, r.HeaderRows, r.LabelLevels, r.ByColumn)
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}
	return df, nil
}

// RecordWriter writes [][]string records from a DataFrame.
type RecordWriter struct {
	IncludeLabels bool
	ByColumn      bool
	records       [][]string
}

// NewRecordWriter returns a *RecordWriter with default settings
func NewRecordWriter() *RecordWriter {
	return &RecordWriter{
		ByColumn:      false,
		IncludeLabels: false,
	}
}

// Records returns the [][]string records written to w.
func (w RecordWriter) Records() [][]string {
	return w.records
}

// Write reduces a DataFrame to [][]string (as by ToCSV) and writes the result to w.
func (w *RecordWriter) Write(df *DataFrame) error {
	if df == nil {
		return fmt.Errorf("writing records: nil DataFrame: %w", ErrArgument)
	}
	records := df.ToCSV(w.IncludeLabels)
	if w.ByColumn {
		records = transposeStrings(records)
	}
	w.records = records
	return nil
}

// -- encoding/csv

// CSVReader reads encoding/csv.Reader into a DataFrame.
type CSVReader struct {
	RecordReader
	*csv.Reader
}

// NewCSVReader creates a new CSVReader with embedded encoding/csv reader and default settings.
func NewCSVReader(r io.Reader) CSVReader {
	return CSVReader{
		RecordReader: RecordReader{
			HeaderRows:  1,
			LabelLevels: 0,
		},
		Reader: csv.NewReader(r),
	}
}

func (r CSVReader) Read() (*DataFrame, error) {
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("CSVReader: %w", err)
	}
	r.records = records
	df, err := r.RecordReader.Read()
	if err != nil {
		return nil, fmt.Errorf("CSVReader: %w", err)
	}
	return df, nil
}

// CSVWriter writes DataFrame values into an encoding/csv.Writer.
type CSVWriter struct {
	RecordWriter
	*csv.Writer
}

// NewCSVWriter creates a new *CSVWriter with embedded encoding/csv.Writer and default settings.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{
		RecordWriter: RecordWriter{
			IncludeLabels: false,
			ByColumn:      false,
		},
		Writer: csv.NewWriter(w),
	}
}

func (w *CSVWriter) Write(df *DataFrame) error {
	if err := w.RecordWriter.Write(df); err != nil {
		return err
	}
	return w.Writer.WriteAll(w.Records())
}

// -- [][]interface{} records

// InterfaceRecordReader reads [][]interface{} records into a DataFrame.
// Header rows and label levels behave as in RecordReader, but values keep their types.
type InterfaceRecordReader struct {
	HeaderRows  int
	LabelLevels int
	ByColumn    bool
	records     [][]interface{}
}

// NewInterfaceRecordReader returns a default InterfaceRecordReader.
func NewInterfaceRecordReader(records [][]interface{}) InterfaceRecordReader {
	return InterfaceRecordReader{
		HeaderRows:  1,
		LabelLevels: 0,
		ByColumn:    false,
		records:     records,
	}
}

// Read reads [][]interface{} records into a DataFrame.
func (r InterfaceRecordReader) Read() (*DataFrame, error) {
	df, err := readRecords(r.records, r.HeaderRows, r.LabelLevels, r.ByColumn)
	if err != nil {
		return nil, fmt.Errorf("reading interface records: %w", err)
	}
	return df, nil
}

// InterfaceRecordWriter writes DataFrame values into [][]interface{} records.
type InterfaceRecordWriter struct {
	IncludeLabels bool
	ByColumn      bool
	records       [][]interface{}
}

// NewInterfaceRecordWriter returns an *InterfaceRecordWriter with default settings.
func NewInterfaceRecordWriter() *InterfaceRecordWriter {
	return &InterfaceRecordWriter{
		ByColumn:      false,
		IncludeLabels: false,
	}
}

// Records returns the [][]interface{} written to w.
func (w InterfaceRecordWriter) Records() [][]interface{} {
	return w.records
}

// Write reduces a DataFrame to [][]interface{} and writes the result to w.
// The first record holds the column labels. Values are written unchanged, so missing values stay nil.
// If w.IncludeLabels is true, every record starts with the components of its row label,
// and the header starts with the index name(s).
func (w *InterfaceRecordWriter) Write(df *DataFrame) error {
	if df == nil {
		return fmt.Errorf("writing records: nil DataFrame: %w", ErrArgument)
	}
	var header []interface{}
	if w.IncludeLabels {
		for _, name := range labelHeaders(df.index) {
			header = append(header, name)
		}
	}
	header = append(header, df.vectors.Labels()...)
	records := [][]interface{}{header}
	labels := df.index.Labels()
	for i := 0; i < df.Len(); i++ {
		var row []interface{}
		if w.IncludeLabels {
			if df.index.Kind() == MultiLevelIndex {
				row = append(row, asTuple(labels[i])...)
			} else {
				row = append(row, labels[i])
			}
		}
		for _, vec := range df.data {
			row = append(row, vec.values.slice[i])
		}
		records = append(records, row)
	}
	if w.ByColumn {
		records = transposeInterfaces(records)
	}
	w.records = records
	return nil
}

// readRecords splits records into header rows, label columns and values.
func readRecords(records [][]interface{}, headerRows, labelLevels int, byColumn bool) (*DataFrame, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("must have at least one record: %w", ErrArgument)
	}
	if len(records[0]) == 0 {
		return nil, fmt.Errorf("first record cannot be empty: %w", ErrArgument)
	}
	if byColumn {
		for k := range records {
			if len(records[k]) != len(records[0]) {
				return nil, fmt.Errorf("column %d: all columns must have same length as column 0 (%d != %d): %w",
					k, len(records[k]), len(records[0]), ErrSize)
			}
		}
		records = transposeInterfaces(records)
	}
	if headerRows < 0 || headerRows > len(records) {
		return nil, fmt.Errorf("header rows (%d) must be between 0 and the number of records (%d): %w",
			headerRows, len(records), ErrArgument)
	}
	width := len(records[0])
	if labelLevels < 0 || labelLevels > width {
		return nil, fmt.Errorf("label levels (%d) must be between 0 and the number of fields (%d): %w",
			labelLevels, width, ErrArgument)
	}
	for i := range records {
		if len(records[i]) != width {
			return nil, fmt.Errorf("record %d: all records must have same length as record 0 (%d != %d): %w",
				i, len(records[i]), width, ErrSize)
		}
	}
	headers, body := records[:headerRows], records[headerRows:]

	var options []FrameOption
	if headerRows > 0 {
		order := make([]interface{}, width-labelLevels)
		for k := range order {
			order[k] = headerLabel(headers, labelLevels+k)
		}
		options = append(options, FrameOptionOrder(order))
	}
	rows := make(RowList, len(body))
	for i := range body {
		rows[i] = body[i][labelLevels:]
	}
	if labelLevels > 0 {
		labels := make([]interface{}, len(body))
		for i := range body {
			if labelLevels == 1 {
				labels[i] = body[i][0]
			} else {
				labels[i] = Tuple(append([]interface{}{}, body[i][:labelLevels]...))
			}
		}
		names := make([]string, labelLevels)
		if headerRows > 0 {
			for l := range names {
				if headers[0][l] != nil {
					names[l] = fmt.Sprint(headers[0][l])
				}
			}
		}
		index, err := CreateIndex(labels)
		if err != nil {
			return nil, err
		}
		options = append(options, FrameOptionIndex(withIndexNames(index, names)))
	}
	return NewDataFrame(rows, options...)
}

// headerLabel returns the label of column k: one header value, or the tuple of all header values.
func headerLabel(headers [][]interface{}, k int) interface{} {
	if len(headers) == 1 {
		return headers[0][k]
	}
	t := make(Tuple, len(headers))
	for h := range headers {
		t[h] = headers[h][k]
	}
	return t
}

// withIndexNames names an index, one name per label level.
func withIndexNames(ix Indexer, names []string) Indexer {
	switch x := ix.(type) {
	case *MultiIndex:
		if ret, err := x.WithNames(names...); err == nil {
			return ret
		}
	case *Index:
		return x.WithName(names[0])
	case *CategoricalIndex:
		return x.WithName(names[0])
	case *DateTimeIndex:
		return x.WithName(names[0])
	}
	return ix
}

func transposeStrings(records [][]string) [][]string {
	if len(records) == 0 {
		return records
	}
	ret := make([][]string, len(records[0]))
	for k := range ret {
		ret[k] = make([]string, len(records))
		for i := range records {
			ret[k][i] = records[i][k]
		}
	}
	return ret
}

func transposeInterfaces(records [][]interface{}) [][]interface{} {
	if len(records) == 0 {
		return records
	}
	ret := make([][]interface{}, len(records[0]))
	for k := range ret {
		ret[k] = make([]interface{}, len(records))
		for i := range records {
			ret[k][i] = records[i][k]
		}
	}
	return ret
}

// -- structs

// StructReader reads a slice of structs into a DataFrame, one column per exported field.
type StructReader struct {
	s interface{}
	// LabelLevels is the number of leading exported fields used as row labels.
	LabelLevels int
}

// NewStructReader returns a new reader for a slice of structs (or a pointer to one).
func NewStructReader(s interface{}) StructReader {
	return StructReader{
		s:           s,
		LabelLevels: 0,
	}
}

// Read reads the exported fields of every struct into a DataFrame.
//
// If an "lframe" tag is present, the column is labeled by the tag value
// (or the field is skipped if the tag value is "-").
// Otherwise, the column is labeled by the field name.
func (r StructReader) Read() (*DataFrame, error) {
	v := reflect.ValueOf(r.s)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Slice {
		return nil, fmt.Errorf("reading struct slice: must be slice, not %s: %w", v.Kind(), ErrArgument)
	}
	typ := v.Type().Elem()
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("reading struct slice: elements must be structs, not %s: %w", typ.Kind(), ErrArgument)
	}
	var fields []int
	var header []interface{}
	for k := 0; k < typ.NumField(); k++ {
		field := typ.Field(k)
		// is unexported field?
		if unicode.IsLower([]rune(field.Name)[0]) {
			continue
		}
		label := field.Name
		if tag, ok := field.Tag.Lookup("lframe"); ok {
			if tag == "-" {
				continue
			}
			label = tag
		}
		fields = append(fields, k)
		header = append(header, label)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("reading struct slice: struct has no exported fields: %w", ErrArgument)
	}
	records := [][]interface{}{header}
	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		if elem.Kind() == reflect.Ptr {
			if elem.IsNil() {
				return nil, fmt.Errorf("reading struct slice: element %d is nil: %w", i, ErrArgument)
			}
			elem = elem.Elem()
		}
		row := make([]interface{}, len(fields))
		for k, field := range fields {
			row[k] = elem.Field(field).Interface()
		}
		records = append(records, row)
	}
	df, err := readRecords(records, 1, r.LabelLevels, false)
	if err != nil {
		return nil, fmt.Errorf("reading struct slice: %w", err)
	}
	return df, nil
}

// -- matrix

// ReadMatrix reads data satisfying the gonum Matrix interface into a DataFrame,
// one float64 column per matrix column, labeled 0..n-1.
func ReadMatrix(mat Matrix) (*DataFrame, error) {
	numRows, numCols := mat.Dims()
	// major dimension: columns
	data := make(ColumnList, numCols)
	for k := range data {
		floats := make([]float64, numRows)
		for i := 0; i < numRows; i++ {
			floats[i] = mat.At(i, k)
		}
		data[k] = floats
	}
	if numCols == 0 {
		return NewDataFrame(nil, FrameOptionIndex(numRows))
	}
	return NewDataFrame(data)
}

// -- marshalling

// A MarshalledIndex is the serializable form of an Indexer.
// Levels and Codes are set only for a MultiIndex, so that the level order survives a round trip.
type MarshalledIndex struct {
	Kind   IndexKind       `json:"kind"`
	Labels []interface{}   `json:"labels"`
	Name   string          `json:"name,omitempty"`
	Names  []string        `json:"names,omitempty"`
	Levels [][]interface{} `json:"levels,omitempty"`
	Codes  [][]int         `json:"codes,omitempty"`
}

// Marshalled is the serializable form of a DataFrame: its columns of values,
// its row index, its column index and its name.
// Rebuilding a DataFrame from a Marshalled goes through NewDataFrame, so every invariant is re-checked.
type Marshalled struct {
	Data  [][]interface{} `json:"data"`
	Index MarshalledIndex `json:"index"`
	Order MarshalledIndex `json:"order"`
	Name  string          `json:"name,omitempty"`
}

func marshalIndex(ix Indexer) MarshalledIndex {
	ret := MarshalledIndex{Kind: ix.Kind(), Labels: ix.Labels(), Name: ix.Name()}
	if mi, ok := ix.(*MultiIndex); ok {
		ret.Name = ""
		ret.Names = mi.Names()
		ret.Levels = mi.Levels()
		ret.Codes = mi.Codes()
	}
	return ret
}

// Indexer rebuilds the index through the constructor of its kind.
func (m MarshalledIndex) Indexer() (Indexer, error) {
	switch m.Kind {
	case PlainIndex:
		ix, err := NewIndex(m.Labels)
		if err != nil {
			return nil, err
		}
		return ix.WithName(m.Name), nil
	case MultiLevelIndex:
		if m.Levels != nil {
			return NewMultiIndex(m.Levels, m.Codes, m.Names...)
		}
		tuples := make([]Tuple, len(m.Labels))
		for i, l := range m.Labels {
			if classOf(l) != classTuple {
				return nil, fmt.Errorf("label %d is not a tuple (%v): %w", i, l, ErrArgument)
			}
			tuples[i] = asTuple(l)
		}
		return MultiIndexFromTuples(tuples, m.Names...)
	case CategoryIndex:
		cx, err := NewCategoricalIndex(m.Labels)
		if err != nil {
			return nil, err
		}
		return cx.WithName(m.Name), nil
	case TimeIndex:
		dx, err := NewDateTimeIndex(m.Labels)
		if err != nil {
			return nil, err
		}
		return dx.WithName(m.Name), nil
	}
	return nil, fmt.Errorf("unknown index kind %v: %w", m.Kind, ErrArgument)
}

// ToMarshalled returns the serializable form of df. Values are copied.
func (df *DataFrame) ToMarshalled() Marshalled {
	data := make([][]interface{}, len(df.data))
	for j, vec := range df.data {
		data[j] = vec.Values()
	}
	return Marshalled{
		Data:  data,
		Index: marshalIndex(df.index),
		Order: marshalIndex(df.vectors),
		Name:  df.name,
	}
}

// FromMarshalled rebuilds a DataFrame from m, checking every length.
func FromMarshalled(m Marshalled, options ...FrameOption) (*DataFrame, error) {
	index, err := m.Index.Indexer()
	if err != nil {
		return nil, fmt.Errorf("unmarshalling DataFrame: index: %w", err)
	}
	order, err := m.Order.Indexer()
	if err != nil {
		return nil, fmt.Errorf("unmarshalling DataFrame: order: %w", err)
	}
	if order.Len() != len(m.Data) {
		return nil, fmt.Errorf("unmarshalling DataFrame: %d column labels for %d columns: %w",
			order.Len(), len(m.Data), ErrSize)
	}
	cols := make(ColumnList, len(m.Data))
	for j := range m.Data {
		cols[j] = m.Data[j]
	}
	options = append([]FrameOption{
		FrameOptionOrder(order),
		FrameOptionIndex(index),
		FrameOptionName(m.Name),
	}, options...)
	df, err := NewDataFrame(cols, options...)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling DataFrame: %w", err)
	}
	return df, nil
}

// MarshalJSON satisfies the json.Marshaler interface for writing a DataFrame to JSON.
// Times are written as RFC 3339 strings. NaN values cannot be encoded and return an error.
func (df *DataFrame) MarshalJSON() ([]byte, error) {
	return json.Marshal(df.ToMarshalled())
}

// UnmarshalJSON satisfies the json.Unmarshaler interface for reading a DataFrame from JSON.
// Whole numbers are read as int and other numbers as float64; arrays are read as tuples.
func (df *DataFrame) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var m Marshalled
	if err := dec.Decode(&m); err != nil {
		return fmt.Errorf("unmarshalling DataFrame: %w", err)
	}
	for j := range m.Data {
		for i := range m.Data[j] {
			m.Data[j][i] = fromJSON(m.Data[j][i])
		}
	}
	for _, mi := range []*MarshalledIndex{&m.Index, &m.Order} {
		for i := range mi.Labels {
			mi.Labels[i] = fromJSON(mi.Labels[i])
		}
		for l := range mi.Levels {
			for code := range mi.Levels[l] {
				mi.Levels[l][code] = fromJSON(mi.Levels[l][code])
			}
		}
	}
	ret, err := FromMarshalled(m)
	if err != nil {
		return err
	}
	*df = *ret
	for _, vec := range df.data {
		df.adopt(vec)
	}
	return nil
}

// fromJSON converts json.Number to int or float64 and arrays to tuples.
func fromJSON(v interface{}) interface{} {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return int(i)
		}
		f, _ := x.Float64()
		return f
	case []interface{}:
		t := make(Tuple, len(x))
		for i := range x {
			t[i] = fromJSON(x[i])
		}
		return t
	}
	return v
}

// -- comparison

// EqualsCSV converts `df` to csv, compares it to `data`,
// and evaluates whether the stringified values match.
// If `includeLabels` is true, then the DataFrame's labels are included as columns.
// If they do not match, returns a tablediff.Differences object that can be printed to isolate their differences.
func (df *DataFrame) EqualsCSV(data [][]string, includeLabels bool) (bool, *tablediff.Differences, error) {
	if len(data) == 0 {
		return false, nil, fmt.Errorf("EqualsCSV(): `data` must have at least one record: %w", ErrArgument)
	}
	numLines := len(data[0])
	for i := range data {
		if len(data[i]) != numLines {
			return false, nil, fmt.Errorf("EqualsCSV(): `data`: slice %d: all slices must have same length as first slice (%d != %d): %w",
				i, len(data[i]), numLines, ErrSize)
		}
	}
	compare := df.ToCSV(includeLabels)
	diffs, eq := tablediff.Diff(compare, data)
	return eq, diffs, nil
}

// EqualsCSV compares the Vector, rendered as a single-column DataFrame, to `data`.
func (v *Vector) EqualsCSV(data [][]string, includeLabels bool) (bool, *tablediff.Differences, error) {
	return v.ToDataFrame().EqualsCSV(data, includeLabels)
}

// PrettyDiff reads two slices of structs into DataFrames, renders each as csv records,
// and returns whether they are equal. If not, returns the differences between the two.
func PrettyDiff(got, want interface{}) (bool, *tablediff.Differences, error) {
	df1, err := NewStructReader(got).Read()
	if err != nil {
		return false, nil, fmt.Errorf("pretty diffing two structs: reading got: %w", err)
	}
	df2, err := NewStructReader(want).Read()
	if err != nil {
		return false, nil, fmt.Errorf("pretty diffing two structs: reading want: %w", err)
	}
	diffs, eq := tablediff.Diff(df1.ToCSV(false), df2.ToCSV(false))
	return eq, diffs, nil
}
