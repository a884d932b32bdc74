package lframe

import (
	"errors"
	"reflect"
	"testing"

	"github.com/d4l3k/messagediff"
)

func makeTestMultiIndex(t *testing.T) *MultiIndex {
	t.Helper()
	mi, err := MultiIndexFromTuples([]Tuple{{"a", 1}, {"a", 2}, {"b", 1}}, "letter", "number")
	if err != nil {
		t.Fatal(err)
	}
	return mi
}

func TestMultiIndexFromTuples(t *testing.T) {
	tests := []struct {
		name       string
		tuples     []Tuple
		names      []string
		wantLevels [][]interface{}
		wantCodes  [][]int
		wantErr    bool
	}{
		{"levels are sorted and distinct",
			[]Tuple{{"b", 2}, {"a", 1}, {"b", 1}}, nil,
			[][]interface{}{{"a", "b"}, {1, 2}},
			[][]int{{1, 0, 1}, {1, 0, 0}}, false},
		{"named", []Tuple{{"a", 1}}, []string{"foo", "bar"},
			[][]interface{}{{"a"}, {1}},
			[][]int{{0}, {0}}, false},
		{"fail - ragged tuples", []Tuple{{"a", 1}, {"b"}}, nil, nil, nil, true},
		{"fail - empty tuple", []Tuple{{}}, nil, nil, nil, true},
		{"fail - no tuples", nil, nil, nil, nil, true},
		{"fail - wrong number of names", []Tuple{{"a", 1}}, []string{"foo"}, nil, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MultiIndexFromTuples(tt.tuples, tt.names...)
			if (err != nil) != tt.wantErr {
				t.Errorf("MultiIndexFromTuples() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				if !errors.Is(err, ErrArgument) {
					t.Errorf("MultiIndexFromTuples() error = %v, want ErrArgument", err)
				}
				return
			}
			if !reflect.DeepEqual(got.Levels(), tt.wantLevels) {
				t.Errorf("MultiIndexFromTuples().Levels() = %v, want %v", got.Levels(), tt.wantLevels)
				t.Error(messagediff.PrettyDiff(got.Levels(), tt.wantLevels))
			}
			if !reflect.DeepEqual(got.Codes(), tt.wantCodes) {
				t.Errorf("MultiIndexFromTuples().Codes() = %v, want %v", got.Codes(), tt.wantCodes)
			}
		})
	}
}

func TestMultiIndex_tupleRoundTrip(t *testing.T) {
	tuples := []Tuple{{"b", 2}, {"a", 1}, {"b", 1}, {"c", 3}}
	mi, err := MultiIndexFromTuples(tuples)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(mi.Tuples(), tuples) {
		t.Errorf("MultiIndex.Tuples() = %v, want %v", mi.Tuples(), tuples)
	}
	for i := range tuples {
		got, err := mi.TupleAt(i)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(got, tuples[i]) {
			t.Errorf("MultiIndex.TupleAt(%d) = %v, want %v", i, got, tuples[i])
		}
	}
}

func TestNewMultiIndex(t *testing.T) {
	tests := []struct {
		name    string
		levels  [][]interface{}
		codes   [][]int
		names   []string
		want    []Tuple
		wantErr bool
	}{
		{"normal",
			[][]interface{}{{"x", "y"}, {10, 20}},
			[][]int{{1, 0}, {0, 0}}, nil,
			[]Tuple{{"y", 10}, {"x", 10}}, false},
		{"fail - no levels", nil, nil, nil, nil, true},
		{"fail - levels and codes differ", [][]interface{}{{"x"}}, [][]int{{0}, {0}}, nil, nil, true},
		{"fail - code out of range", [][]interface{}{{"x"}}, [][]int{{1}}, nil, nil, true},
		{"fail - ragged codes", [][]interface{}{{"x"}, {1}}, [][]int{{0, 0}, {0}}, nil, nil, true},
		{"fail - wrong number of names", [][]interface{}{{"x"}}, [][]int{{0}}, []string{"a", "b"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewMultiIndex(tt.levels, tt.codes, tt.names...)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewMultiIndex() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				if !errors.Is(err, ErrArgument) {
					t.Errorf("NewMultiIndex() error = %v, want ErrArgument", err)
				}
				return
			}
			if !reflect.DeepEqual(got.Tuples(), tt.want) {
				t.Errorf("NewMultiIndex().Tuples() = %v, want %v", got.Tuples(), tt.want)
			}
		})
	}
}

func TestNewMultiIndex_copiesInputs(t *testing.T) {
	levels := [][]interface{}{{"x", "y"}}
	codes := [][]int{{0, 1}}
	mi, err := NewMultiIndex(levels, codes)
	if err != nil {
		t.Fatal(err)
	}
	levels[0][0] = "changed"
	codes[0][0] = 1
	if got, want := mi.Tuples(), []Tuple{{"x"}, {"y"}}; !reflect.DeepEqual(got, want) {
		t.Errorf("NewMultiIndex() shares its inputs: %v, want %v", got, want)
	}
}

func TestMultiIndex_Lookup(t *testing.T) {
	mi := makeTestMultiIndex(t)
	pos, sub, err := mi.Lookup("a")
	if err != nil {
		t.Fatal(err)
	}
	if pos != -1 {
		t.Errorf("MultiIndex.Lookup(a) position = %v, want -1", pos)
	}
	if want := []Tuple{{"a", 1}, {"a", 2}}; !reflect.DeepEqual(sub.Tuples(), want) {
		t.Errorf("MultiIndex.Lookup(a) = %v, want %v", sub.Tuples(), want)
	}

	pos, sub, err = mi.Lookup("a", 1)
	if err != nil {
		t.Fatal(err)
	}
	if pos != 0 || sub != nil {
		t.Errorf("MultiIndex.Lookup(a, 1) = %v, %v, want 0, nil", pos, sub)
	}

	pos, _, err = mi.Lookup("b", 1)
	if err != nil || pos != 2 {
		t.Errorf("MultiIndex.Lookup(b, 1) = %v, %v, want 2, nil", pos, err)
	}
}

func TestMultiIndex_Lookup_fail(t *testing.T) {
	mi := makeTestMultiIndex(t)
	tests := []struct {
		name  string
		parts []interface{}
	}{
		{"unknown first level", []interface{}{"z"}},
		{"unknown second level", []interface{}{"a", 3}},
		{"known components, no matching row", []interface{}{"b", 2}},
		{"too many components", []interface{}{"a", 1, "x"}},
		{"empty", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := mi.Lookup(tt.parts...); !errors.Is(err, ErrIndex) {
				t.Errorf("MultiIndex.Lookup() error = %v, want ErrIndex", err)
			}
		})
	}
}

func TestMultiIndex_Resolve(t *testing.T) {
	mi := makeTestMultiIndex(t)
	tests := []struct {
		name       string
		key        interface{}
		want       []int
		wantScalar bool
		wantErr    bool
	}{
		{"full tuple", Tuple{"b", 1}, []int{2}, true, false},
		{"slice as tuple", []interface{}{"a", 2}, []int{1}, true, false},
		{"first-level component", "a", []int{0, 1}, false, false},
		{"partial tuple", Tuple{"b"}, []int{2}, false, false},
		{"integer position fallback", 2, []int{2}, true, false},
		{"range", Range{Tuple{"a", 2}, "b"}, []int{1, 2}, false, false},
		{"span", Span{0, 1}, []int{0, 1}, false, false},
		{"fail", "z", nil, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, scalar, err := mi.Resolve(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("MultiIndex.Resolve() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MultiIndex.Resolve() = %v, want %v", got, tt.want)
			}
			if scalar != tt.wantScalar {
				t.Errorf("MultiIndex.Resolve() scalar = %v, want %v", scalar, tt.wantScalar)
			}
		})
	}
}

func TestMultiIndex_ContainsLocate(t *testing.T) {
	mi := makeTestMultiIndex(t)
	for _, label := range []interface{}{Tuple{"a", 2}, Tuple{"a"}, "b"} {
		if !mi.Contains(label) {
			t.Errorf("MultiIndex.Contains(%v) = false, want true", label)
		}
	}
	if mi.Contains(Tuple{"b", 2}) {
		t.Errorf("MultiIndex.Contains(b, 2) = true, want false")
	}
	if pos, ok := mi.Locate(Tuple{"b", 1}); !ok || pos != 2 {
		t.Errorf("MultiIndex.Locate() = %v, %v, want 2, true", pos, ok)
	}
	if _, ok := mi.Locate("a"); ok {
		t.Errorf("MultiIndex.Locate(a) = true, want false for a partial label")
	}
}

func TestMultiIndex_DropLeftLevel(t *testing.T) {
	mi := makeTestMultiIndex(t)
	got, err := mi.DropLeftLevel(1)
	if err != nil {
		t.Fatal(err)
	}
	if want := []Tuple{{1}, {2}, {1}}; !reflect.DeepEqual(got.Tuples(), want) {
		t.Errorf("MultiIndex.DropLeftLevel() = %v, want %v", got.Tuples(), want)
	}
	if want := []string{"number"}; !reflect.DeepEqual(got.Names(), want) {
		t.Errorf("MultiIndex.DropLeftLevel().Names() = %v, want %v", got.Names(), want)
	}
	for _, n := range []int{0, 2} {
		if _, err := mi.DropLeftLevel(n); !errors.Is(err, ErrArgument) {
			t.Errorf("MultiIndex.DropLeftLevel(%d) error = %v, want ErrArgument", n, err)
		}
	}
}

func TestMultiIndex_Names(t *testing.T) {
	mi := makeTestMultiIndex(t)
	if got, want := mi.Name(), "letter|number"; got != want {
		t.Errorf("MultiIndex.Name() = %v, want %v", got, want)
	}
	renamed, err := mi.WithNames("x", "y")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := renamed.Names(), []string{"x", "y"}; !reflect.DeepEqual(got, want) {
		t.Errorf("MultiIndex.WithNames() = %v, want %v", got, want)
	}
	if got, want := mi.Names(), []string{"letter", "number"}; !reflect.DeepEqual(got, want) {
		t.Errorf("MultiIndex.WithNames() modified the original: %v", got)
	}
	if _, err := mi.WithNames("x"); !errors.Is(err, ErrArgument) {
		t.Errorf("MultiIndex.WithNames() error = %v, want ErrArgument", err)
	}
	unnamed, _ := MultiIndexFromTuples([]Tuple{{"a", 1}})
	if got := unnamed.Name(); got != "" {
		t.Errorf("MultiIndex.Name() = %q, want empty", got)
	}
}

func TestMultiIndex_AddDelete(t *testing.T) {
	mi := makeTestMultiIndex(t)
	added, err := mi.Add(Tuple{"c", 1})
	if err != nil {
		t.Fatal(err)
	}
	if want := []Tuple{{"a", 1}, {"a", 2}, {"b", 1}, {"c", 1}}; !reflect.DeepEqual(added.(*MultiIndex).Tuples(), want) {
		t.Errorf("MultiIndex.Add() = %v, want %v", added, want)
	}
	if got, want := added.(*MultiIndex).Levels()[0], []interface{}{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("MultiIndex.Add() level 0 = %v, want %v", got, want)
	}
	if _, err := mi.Add(Tuple{"a", 1}); !errors.Is(err, ErrArgument) {
		t.Errorf("MultiIndex.Add() duplicate error = %v, want ErrArgument", err)
	}
	if _, err := mi.Add("a"); !errors.Is(err, ErrArgument) {
		t.Errorf("MultiIndex.Add() scalar error = %v, want ErrArgument", err)
	}

	deleted, err := added.DeleteAt(0)
	if err != nil {
		t.Fatal(err)
	}
	if pos, ok := deleted.Locate(Tuple{"c", 1}); !ok || pos != 2 {
		t.Errorf("MultiIndex.DeleteAt().Locate() = %v, %v, want 2, true", pos, ok)
	}
	if _, ok := deleted.Locate(Tuple{"a", 1}); ok {
		t.Errorf("MultiIndex.DeleteAt() kept the deleted tuple")
	}
}

func TestMultiIndex_Sort(t *testing.T) {
	mi, _ := MultiIndexFromTuples([]Tuple{{"b", 1}, {"a", 2}, {"a", 1}})
	got, order := mi.Sort(true)
	if want := []Tuple{{"a", 1}, {"a", 2}, {"b", 1}}; !reflect.DeepEqual(got.(*MultiIndex).Tuples(), want) {
		t.Errorf("MultiIndex.Sort() = %v, want %v", got, want)
	}
	if want := []int{2, 1, 0}; !reflect.DeepEqual(order, want) {
		t.Errorf("MultiIndex.Sort() order = %v, want %v", order, want)
	}
}

func TestMultiIndex_SparseTuples(t *testing.T) {
	mi := makeTestMultiIndex(t)
	want := []Tuple{{"a", 1}, {nil, 2}, {"b", 1}}
	if got := mi.SparseTuples(); !reflect.DeepEqual(got, want) {
		t.Errorf("MultiIndex.SparseTuples() = %v, want %v", got, want)
	}
}

func TestMultiIndex_Equal(t *testing.T) {
	a := makeTestMultiIndex(t)
	b, _ := MultiIndexFromTuples([]Tuple{{"a", 1}, {"a", 2}, {"b", 1}})
	c, _ := MultiIndexFromTuples([]Tuple{{"a", 1}, {"b", 1}, {"a", 2}})
	if !a.Equal(b) {
		t.Errorf("MultiIndex.Equal() = false, want true")
	}
	if a.Equal(c) {
		t.Errorf("MultiIndex.Equal() = true for a different order")
	}
}

func TestCreateIndex_tuplesMakeMultiIndex(t *testing.T) {
	ix, err := CreateIndex([]interface{}{Tuple{"a", 1}, []interface{}{"b", 2}})
	if err != nil {
		t.Fatal(err)
	}
	if ix.Kind() != MultiLevelIndex {
		t.Errorf("CreateIndex() kind = %v, want %v", ix.Kind(), MultiLevelIndex)
	}
	ragged, err := CreateIndex([]interface{}{Tuple{"a", 1}, Tuple{"b"}})
	if err != nil {
		t.Fatal(err)
	}
	if ragged.Kind() != PlainIndex {
		t.Errorf("CreateIndex() ragged kind = %v, want %v", ragged.Kind(), PlainIndex)
	}
}
