package lframe

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewIndex(t *testing.T) {
	tests := []struct {
		name    string
		src     interface{}
		want    []interface{}
		wantErr error
	}{
		{"nil", nil, []interface{}{}, nil},
		{"size", 3, []interface{}{0, 1, 2}, nil},
		{"strings", []string{"a", "b"}, []interface{}{"a", "b"}, nil},
		{"from Indexer", newIndexFromLabels([]interface{}{"x"}, "foo"), []interface{}{"x"}, nil},
		{"fail - negative size", -1, nil, ErrArgument},
		{"fail - not a slice", "a", nil, ErrArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewIndex(tt.src)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewIndex() error = %v, want %v", err, tt.wantErr)
				return
			}
			if err != nil {
				return
			}
			if !reflect.DeepEqual(got.Labels(), tt.want) {
				t.Errorf("NewIndex().Labels() = %v, want %v", got.Labels(), tt.want)
			}
		})
	}
}

func TestIndex_Pos(t *testing.T) {
	ix, _ := NewIndex([]string{"a", "b", "c"})
	numbered, _ := NewIndex([]int{2, 0, 1})
	tests := []struct {
		name    string
		ix      *Index
		key     interface{}
		want    int
		wantErr bool
	}{
		{"label", ix, "b", 1, false},
		{"position", ix, 1, 1, false},
		{"negative position", ix, -1, 2, false},
		{"label wins over position", numbered, 0, 1, false},
		{"label wins over position - int64", numbered, int64(2), 0, false},
		{"fail - unknown label", ix, "z", 0, true},
		{"fail - position out of range", ix, 3, 0, true},
		{"fail - float is not a position", ix, 1.0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.ix.Pos(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("Index.Pos() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && !errors.Is(err, ErrIndex) {
				t.Errorf("Index.Pos() error = %v, want ErrIndex", err)
			}
			if got != tt.want {
				t.Errorf("Index.Pos() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIndex_Resolve(t *testing.T) {
	ix, _ := NewIndex([]string{"a", "b", "c", "d"})
	tests := []struct {
		name       string
		key        interface{}
		want       []int
		wantScalar bool
		wantErr    bool
	}{
		{"label", "c", []int{2}, true, false},
		{"range of labels", Range{"b", "d"}, []int{1, 2, 3}, false, false},
		{"range mixing label and position", Range{"a", 1}, []int{0, 1}, false, false},
		{"span", Span{1, -1}, []int{1, 2, 3}, false, false},
		{"reversed range is empty", Range{"c", "a"}, []int{}, false, false},
		{"fail - range to unknown label", Range{"a", "z"}, nil, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, scalar, err := ix.Resolve(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("Index.Resolve() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Index.Resolve() = %v, want %v", got, tt.want)
			}
			if scalar != tt.wantScalar {
				t.Errorf("Index.Resolve() scalar = %v, want %v", scalar, tt.wantScalar)
			}
		})
	}
}

func TestIndex_Subset(t *testing.T) {
	ix, _ := NewIndex([]string{"a", "b", "c"})
	got, err := ix.Subset("c", 0)
	if err != nil {
		t.Fatal(err)
	}
	if want := []interface{}{"c", "a"}; !reflect.DeepEqual(got.Labels(), want) {
		t.Errorf("Index.Subset() = %v, want %v", got.Labels(), want)
	}
	if _, err := ix.Subset("z"); !errors.Is(err, ErrIndex) {
		t.Errorf("Index.Subset() error = %v, want ErrIndex", err)
	}
}

func TestIndex_AtPositions(t *testing.T) {
	ix, _ := NewIndex([]string{"a", "b", "c"})
	got, err := ix.AtPositions(-1, Span{0, 1})
	if err != nil {
		t.Fatal(err)
	}
	if want := []interface{}{"c", "a", "b"}; !reflect.DeepEqual(got.Labels(), want) {
		t.Errorf("Index.AtPositions() = %v, want %v", got.Labels(), want)
	}
}

func TestIndex_Reorder(t *testing.T) {
	ix, _ := NewIndex([]string{"a", "b", "c"})
	got, err := ix.Reorder([]int{2, 1, 0})
	if err != nil {
		t.Fatal(err)
	}
	if want := []interface{}{"c", "b", "a"}; !reflect.DeepEqual(got.Labels(), want) {
		t.Errorf("Index.Reorder() = %v, want %v", got.Labels(), want)
	}
	if pos, _ := got.Pos("a"); pos != 2 {
		t.Errorf("Index.Reorder().Pos(a) = %v, want 2", pos)
	}
	if _, err := ix.Reorder([]int{3}); !errors.Is(err, ErrIndex) {
		t.Errorf("Index.Reorder() error = %v, want ErrIndex", err)
	}
}

func TestIndex_Add(t *testing.T) {
	ix, _ := NewIndex([]string{"a", "b"})
	got, err := ix.Add("c")
	if err != nil {
		t.Fatal(err)
	}
	if want := []interface{}{"a", "b", "c"}; !reflect.DeepEqual(got.Labels(), want) {
		t.Errorf("Index.Add() = %v, want %v", got.Labels(), want)
	}
	if ix.Len() != 2 {
		t.Errorf("Index.Add() modified the original index: %v", ix)
	}
	if _, err := ix.Add("a"); !errors.Is(err, ErrArgument) {
		t.Errorf("Index.Add() duplicate error = %v, want ErrArgument", err)
	}
}

func TestIndex_DeleteAt(t *testing.T) {
	ix, _ := NewIndex([]string{"a", "b", "c"})
	got, err := ix.DeleteAt(0)
	if err != nil {
		t.Fatal(err)
	}
	if want := []interface{}{"b", "c"}; !reflect.DeepEqual(got.Labels(), want) {
		t.Errorf("Index.DeleteAt() = %v, want %v", got.Labels(), want)
	}
	if pos, _, _ := got.Resolve("c"); !reflect.DeepEqual(pos, []int{1}) {
		t.Errorf("Index.DeleteAt().Resolve(c) = %v, want [1]", pos)
	}
	if _, err := ix.DeleteAt(5); !errors.Is(err, ErrIndex) {
		t.Errorf("Index.DeleteAt() error = %v, want ErrIndex", err)
	}
}

func TestIndex_UnionIntersection(t *testing.T) {
	a, _ := NewIndex([]string{"x", "y"})
	b, _ := NewIndex([]string{"z", "y"})
	if got, want := a.Union(b).Labels(), []interface{}{"x", "y", "z"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Index.Union() = %v, want %v", got, want)
	}
	if got, want := a.Intersection(b).Labels(), []interface{}{"y"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Index.Intersection() = %v, want %v", got, want)
	}
}

func TestIndex_Sort(t *testing.T) {
	ix, _ := NewIndex([]interface{}{"b", "c", "a"})
	got, order := ix.Sort(true)
	if want := []interface{}{"a", "b", "c"}; !reflect.DeepEqual(got.Labels(), want) {
		t.Errorf("Index.Sort() = %v, want %v", got.Labels(), want)
	}
	if want := []int{2, 0, 1}; !reflect.DeepEqual(order, want) {
		t.Errorf("Index.Sort() order = %v, want %v", order, want)
	}
	got, _ = ix.Sort(false)
	if want := []interface{}{"c", "b", "a"}; !reflect.DeepEqual(got.Labels(), want) {
		t.Errorf("Index.Sort(false) = %v, want %v", got.Labels(), want)
	}
}

func TestIndex_Equal(t *testing.T) {
	a, _ := NewIndex([]int{1, 2})
	b, _ := NewIndex([]int64{1, 2})
	c, _ := NewIndex([]int{2, 1})
	cx, _ := NewCategoricalIndex([]int{1, 2})
	if !a.Equal(b.WithName("foo")) {
		t.Errorf("Index.Equal() = false for equal labels with different names")
	}
	if a.Equal(c) {
		t.Errorf("Index.Equal() = true for labels in a different order")
	}
	if a.Equal(cx) {
		t.Errorf("Index.Equal() = true for a different kind")
	}
}

func TestIndex_String(t *testing.T) {
	ix, _ := NewIndex([]string{"a", "b"})
	if got, want := ix.String(), "Index(2): [a, b]"; got != want {
		t.Errorf("Index.String() = %v, want %v", got, want)
	}
}
