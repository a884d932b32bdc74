package lframe

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
	"time"
)

func writeReadParquet(t *testing.T, df *DataFrame) *DataFrame {
	t.Helper()
	var buf bytes.Buffer
	if err := df.WriteParquet(&buf); err != nil {
		t.Fatal(err)
	}
	got, err := ReadParquet(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}
	return got
}

func TestDataFrame_WriteParquet_roundTrip(t *testing.T) {
	mi, _ := NewMultiIndex([][]interface{}{{"b", "a"}, {1, 2}}, [][]int{{0, 0, 1}, {0, 1, 0}}, "letter", "number")
	df, err := NewDataFrame(ColumnList{
		[]interface{}{1, "a", nil},
		[]interface{}{int64(5), 2.5, true},
		[]interface{}{Tuple{"p", 1}, nil, "x"},
	}, FrameOptionOrder([]string{"mixed", "numbers", "tuples"}), FrameOptionIndex(mi), FrameOptionName("foo"))
	if err != nil {
		t.Fatal(err)
	}
	got := writeReadParquet(t, df)
	if !got.Equal(df) {
		t.Errorf("ReadParquet() = %v, want %v", got.ToRows(), df.ToRows())
	}
	if !reflect.DeepEqual(got.ToRows(), df.ToRows()) {
		t.Errorf("ReadParquet() changed value types: %#v, want %#v", got.ToRows(), df.ToRows())
	}
	if got.Name() != "foo" {
		t.Errorf("ReadParquet() name = %v, want foo", got.Name())
	}
	gotIndex, ok := got.Index().(*MultiIndex)
	if !ok {
		t.Fatalf("ReadParquet() index kind = %v, want MultiIndex", got.Index().Kind())
	}
	if !reflect.DeepEqual(gotIndex.Levels(), mi.Levels()) || !reflect.DeepEqual(gotIndex.Names(), mi.Names()) {
		t.Errorf("ReadParquet() index = %v %v, want %v %v", gotIndex.Levels(), gotIndex.Names(), mi.Levels(), mi.Names())
	}
	if err := got.checkInvariants(); err != nil {
		t.Errorf("checkInvariants() = %v", err)
	}
}

func TestDataFrame_WriteParquet_indexKinds(t *testing.T) {
	cx, _ := NewCategoricalIndex([]string{"x", "y", "x"})
	dx, _ := NewDateTimeIndex([]string{"2020-01-01", "2020-01-02", "2020-01-03"})
	tests := []struct {
		name  string
		opts  []FrameOption
		order interface{}
	}{
		{"default", nil, []string{"v"}},
		{"categorical", []FrameOption{FrameOptionIndex(cx.WithName("cat"))}, []string{"v"}},
		{"datetime", []FrameOption{FrameOptionIndex(dx)}, []string{"v"}},
		{"tuple column labels", nil, []Tuple{{"v", 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]FrameOption{FrameOptionOrder(tt.order)}, tt.opts...)
			df, err := NewDataFrame(ColumnList{[]int{1, 2, 3}}, opts...)
			if err != nil {
				t.Fatal(err)
			}
			got := writeReadParquet(t, df)
			if !got.Equal(df) {
				t.Errorf("ReadParquet() = %v, want %v", got.ToRows(), df.ToRows())
			}
			if got.Index().Kind() != df.Index().Kind() || got.Index().Name() != df.Index().Name() {
				t.Errorf("ReadParquet() index = %v %q, want %v %q",
					got.Index().Kind(), got.Index().Name(), df.Index().Kind(), df.Index().Name())
			}
			if got.Vectors().Kind() != df.Vectors().Kind() {
				t.Errorf("ReadParquet() column index = %v, want %v", got.Vectors().Kind(), df.Vectors().Kind())
			}
		})
	}
}

func TestDataFrame_WriteParquet_times(t *testing.T) {
	want := time.Date(2020, 1, 2, 3, 4, 5, 6, time.UTC)
	df, _ := NewDataFrame(ColumnMap{"t": []interface{}{want, nil}})
	got := writeReadParquet(t, df)
	col, _ := got.Col("t")
	val, _ := col.At(0)
	if tm, ok := val.(time.Time); !ok || !tm.Equal(want) {
		t.Errorf("ReadParquet() time = %v, want %v", val, want)
	}
	if val, _ := col.At(1); val != nil {
		t.Errorf("ReadParquet() missing time = %v, want nil", val)
	}
}

func TestDataFrame_WriteParquet_empty(t *testing.T) {
	df, _ := NewDataFrame(nil, FrameOptionOrder([]string{"a", "b"}))
	got := writeReadParquet(t, df)
	if rows, cols := got.Shape(); rows != 0 || cols != 2 {
		t.Errorf("ReadParquet() shape = %v, %v, want 0, 2", rows, cols)
	}
}

func TestDataFrame_WriteParquet_fail(t *testing.T) {
	df, _ := NewDataFrame(ColumnList{[]interface{}{struct{}{}}})
	var buf bytes.Buffer
	if err := df.WriteParquet(&buf); !errors.Is(err, ErrType) {
		t.Errorf("WriteParquet() error = %v, want ErrType", err)
	}
	data := []byte("not parquet")
	if _, err := ReadParquet(bytes.NewReader(data), int64(len(data))); err == nil {
		t.Errorf("ReadParquet() of invalid data returned no error")
	}
}

func Test_encodeValue(t *testing.T) {
	tests := []struct {
		name string
		v    interface{}
		want interface{}
	}{
		{"nil", nil, nil},
		{"int", -1, -1},
		{"int8 widens", int8(-3), int64(-3)},
		{"uint16 widens", uint16(7), uint64(7)},
		{"float32 widens", float32(1.5), 1.5},
		{"float", 1e-7, 1e-7},
		{"string", "s", "s"},
		{"empty string", "", ""},
		{"bool", true, true},
		{"tuple", Tuple{"a", nil, 2.5}, Tuple{"a", nil, 2.5}},
		{"nested tuple", Tuple{"a", Tuple{1, false}}, Tuple{"a", Tuple{1, false}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tv, err := encodeValue(tt.v)
			if err != nil {
				t.Fatal(err)
			}
			got, err := decodeValue(tv)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("decodeValue(encodeValue()) = %#v, want %#v", got, tt.want)
			}
		})
	}
	if _, err := encodeValue(map[string]int{}); !errors.Is(err, ErrType) {
		t.Errorf("encodeValue() error = %v, want ErrType", err)
	}
	if _, err := decodeValue(typedValue{Kind: "complex"}); !errors.Is(err, ErrArgument) {
		t.Errorf("decodeValue() error = %v, want ErrArgument", err)
	}
}
