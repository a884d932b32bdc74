package lframe

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"
)

func Test_formatValue(t *testing.T) {
	tests := []struct {
		name string
		v    interface{}
		want string
	}{
		{"nil", nil, "n/a"},
		{"string", "foo", "foo"},
		{"int", 7, "7"},
		{"float", 1.50, "1.5"},
		{"large float", 1e21, "1000000000000000000000"},
		{"NaN", math.NaN(), "NaN"},
		{"float32", float32(2.5), "2.5"},
		{"bool", true, "true"},
		{"date", time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), "2020-01-02"},
		{"datetime", time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC), "2020-01-02T03:04:05Z"},
		{"tuple", Tuple{"a", 1}, "a|1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatValue(tt.v); got != tt.want {
				t.Errorf("formatValue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDataFrame_ToCSV(t *testing.T) {
	mi, _ := MultiIndexFromTuples([]Tuple{{"a", 1}, {"a", 2}}, "letter", "number")
	cfg := DefaultConfig()
	cfg.LevelSeparator = "/"
	df, err := NewDataFrame(ColumnList{[]interface{}{"x", nil}, []float64{.5, 2}},
		FrameOptionOrder([]Tuple{{"v", 1}, {"v", 2}}), FrameOptionIndex(mi), FrameOptionConfig(cfg))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name          string
		includeLabels bool
		want          [][]string
	}{
		{"values only", false, [][]string{{"v/1", "v/2"}, {"x", "0.5"}, {"n/a", "2"}}},
		{"with labels", true, [][]string{
			{"letter", "number", "v/1", "v/2"},
			{"a", "1", "x", "0.5"},
			{"a", "2", "n/a", "2"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := df.ToCSV(tt.includeLabels); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DataFrame.ToCSV() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_labelCells_sparse(t *testing.T) {
	mi, _ := MultiIndexFromTuples([]Tuple{{"a", 1}, {"a", 2}, {"b", 1}})
	want := [][]string{{"a", "1"}, {"", "2"}, {"b", "1"}}
	if got := labelCells(mi, true); !reflect.DeepEqual(got, want) {
		t.Errorf("labelCells() = %v, want %v", got, want)
	}
	if got := labelLevels(mi); got != 2 {
		t.Errorf("labelLevels() = %v, want 2", got)
	}
}

func makeLongValues(n int) []string {
	ret := make([]string, n)
	for i := range ret {
		ret[i] = fmt.Sprintf("v%d", i)
	}
	return ret
}

func TestDataFrame_String(t *testing.T) {
	df, _ := NewDataFrame(ColumnMap{"foo": []string{"x", "y"}}, FrameOptionIndex([]string{"r1", "r2"}))
	got := df.String()
	for _, want := range []string{"foo", "r1", "r2", "x", "y"} {
		if !strings.Contains(got, want) {
			t.Errorf("DataFrame.String() = %v, missing %q", got, want)
		}
	}

	cfg := DefaultConfig()
	cfg.MaxRows = 4
	long, _ := NewDataFrame(ColumnMap{"foo": makeLongValues(10)}, FrameOptionConfig(cfg))
	got = long.String()
	for _, want := range []string{"...", "v0", "v1", "v8", "v9"} {
		if !strings.Contains(got, want) {
			t.Errorf("DataFrame.String() truncated = %v, missing %q", got, want)
		}
	}
	if strings.Contains(got, "v5") {
		t.Errorf("DataFrame.String() truncated = %v, should elide v5", got)
	}
}

func TestVector_String(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRows = 4
	v, _ := NewVector(makeLongValues(10), VectorOptionName("foo"), VectorOptionConfig(cfg))
	got := v.String()
	for _, want := range []string{"foo", "...", "v0", "v1", "v8", "v9"} {
		if !strings.Contains(got, want) {
			t.Errorf("Vector.String() = %v, missing %q", got, want)
		}
	}
	if strings.Contains(got, "v5") {
		t.Errorf("Vector.String() = %v, should elide v5", got)
	}
	short := makeTestVector(t)
	if got := short.String(); !strings.Contains(got, "foo") || strings.Contains(got, "...") {
		t.Errorf("Vector.String() = %v", got)
	}
}
