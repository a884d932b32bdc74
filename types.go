// Package lframe provides labeled, in-memory data tables.
//
// The key data types are Vector and DataFrame.
// A Vector is one column of values paired with an index of row labels, and a
// DataFrame is an ordered set of Vectors sharing one row index, plus an index of column labels.
// Printing either data type will render an ASCII table.
//
// Every index is an Indexer, one of four kinds:
//
// * Index: unique labels
//
// * MultiIndex: tuple labels stored as per-level values and integer codes, with partial-tuple lookup
//
// * CategoricalIndex: repeated labels, each owning every position that bears it
//
// * DateTimeIndex: time labels with partial-date period selection
//
// Lookups resolve labels before positions: an integer key is used as a position only when it is not a label.
// Binary operations between Vectors and DataFrame construction from differently-labeled Vectors
// align on the sorted union of labels, filling gaps with nil.
package lframe

// valueContainer holds the raw values of a Vector and their lazily-derived type metadata.
type valueContainer struct {
	slice []interface{}
	name  interface{}
	cache typeCache
}

// typeCache is recomputed on demand and cleared by every mutation.
type typeCache struct {
	valid   bool
	dtype   DType
	missing []int
	nans    []int
}

// A Vector is a single column of values with one index of aligned labels.
type Vector struct {
	values *valueContainer
	index  Indexer
	// frames counts the DataFrames holding this Vector as a column
	frames int
	cfg   Config
}

// A VectorMutator is used to change Vector values in place.
type VectorMutator struct {
	vector *Vector
}

// A DataFrame is one or more Vectors sharing a row index, labeled by a column index.
// A DataFrame is analogous to a spreadsheet.
type DataFrame struct {
	data []*Vector
	// vectors labels the columns
	vectors    Indexer
	index      Indexer
	name       string
	sharedData bool
	cfg        Config
}

// A DataFrameIterator iterates over the rows in a DataFrame.
type DataFrameIterator struct {
	current int
	df      *DataFrame
}

// A DataFrameMutator is used to change DataFrame values in place.
type DataFrameMutator struct {
	dataframe *DataFrame
}

// A GroupedDataFrame is a collection of row positions sharing the same group key.
// A GroupedDataFrame has a reference to an underlying DataFrame, which is used for reduce operations.
type GroupedDataFrame struct {
	by         []interface{}
	keys       []interface{}
	rowIndices [][]int
	groups     *CategoricalIndex
	df         *DataFrame
}

// A Sorter supplies details to the Sort() function.
// If `Descending` is true, values are sorted in descending order.
// Missing values (nil and NaN) are sorted to the bottom, or to the top if `NilsFirst` is true.
// If `Less` is supplied, it replaces the natural ordering of values;
// missing values are still separated first unless `HandleNils` is true, in which case Less receives them too.
// Ties keep their original order.
type Sorter struct {
	Descending bool
	NilsFirst  bool
	Less       func(a, b interface{}) bool
	HandleNils bool
}

// DType classifies the values of a Vector.
type DType int

const (
	// Numeric means that every non-missing value is a number.
	Numeric DType = iota
	// Object means that at least one non-missing value is not a number.
	Object
)

func (dtype DType) String() string {
	if dtype == Numeric {
		return "numeric"
	}
	return "object"
}

// A VectorOption configures NewVector.
// Available options: VectorOptionIndex, VectorOptionName, VectorOptionConfig.
type VectorOption func(*vectorConfig)

type vectorConfig struct {
	index interface{}
	name  interface{}
	cfg   *Config
}

// A FrameOption configures NewDataFrame.
// Available options: FrameOptionOrder, FrameOptionIndex, FrameOptionName, FrameOptionNoClone, FrameOptionConfig.
type FrameOption func(*frameConfig)

type frameConfig struct {
	order   interface{}
	index   interface{}
	name    string
	noClone bool
	cfg     *Config
}

// Matrix is an interface which is compatible with gonum's mat.Matrix interface
type Matrix interface {
	Dims() (r, c int)
	At(i, j int) float64
}
