package lframe

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func makeTestDateTimeIndex(t *testing.T) *DateTimeIndex {
	t.Helper()
	dx, err := NewDateTimeIndex([]time.Time{
		time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 2, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2021, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}
	return dx
}

func TestNewDateTimeIndex(t *testing.T) {
	dx, err := NewDateTimeIndex([]interface{}{"2020-01-15", time.Date(2020, 2, 10, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatal(err)
	}
	want := []time.Time{
		time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 2, 10, 0, 0, 0, 0, time.UTC),
	}
	got := dx.Times()
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("NewDateTimeIndex()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if _, err := NewDateTimeIndex([]interface{}{"foo"}); !errors.Is(err, ErrArgument) {
		t.Errorf("NewDateTimeIndex() error = %v, want ErrArgument", err)
	}
}

func TestDateTimeIndex_Resolve(t *testing.T) {
	dx := makeTestDateTimeIndex(t)
	tests := []struct {
		name       string
		key        interface{}
		want       []int
		wantScalar bool
		wantErr    bool
	}{
		{"exact time", time.Date(2020, 2, 10, 0, 0, 0, 0, time.UTC), []int{1}, true, false},
		{"exact date string", "2020-01-15", []int{0}, true, false},
		{"exact datetime string", "2021-03-01 12:00:00", []int{2}, true, false},
		{"year", "2020", []int{0, 1}, false, false},
		{"month", "2020-02", []int{1}, false, false},
		{"day without exact label", "2021-03-01", []int{2}, false, false},
		{"position", 1, []int{1}, true, false},
		{"range of periods", Range{"2020-02", "2021"}, []int{1, 2}, false, false},
		{"fail - empty period", "1999", nil, false, true},
		{"fail - not a date", "foo", nil, false, true},
		{"fail - position out of range", 3, nil, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, scalar, err := dx.Resolve(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("DateTimeIndex.Resolve() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && !errors.Is(err, ErrIndex) {
				t.Errorf("DateTimeIndex.Resolve() error = %v, want ErrIndex", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DateTimeIndex.Resolve() = %v, want %v", got, tt.want)
			}
			if scalar != tt.wantScalar {
				t.Errorf("DateTimeIndex.Resolve() scalar = %v, want %v", scalar, tt.wantScalar)
			}
		})
	}
}

func TestDateTimeIndex_Contains(t *testing.T) {
	dx := makeTestDateTimeIndex(t)
	if !dx.Contains("2020-01-15") {
		t.Errorf("DateTimeIndex.Contains() = false for an exact date")
	}
	if dx.Contains("2020") {
		t.Errorf("DateTimeIndex.Contains() = true for a period")
	}
	if dx.Contains(0) {
		t.Errorf("DateTimeIndex.Contains() = true for a position")
	}
}

func TestDateTimeIndex_AddDelete(t *testing.T) {
	dx := makeTestDateTimeIndex(t)
	added, err := dx.Add("2022-01-01")
	if err != nil {
		t.Fatal(err)
	}
	if pos, ok := added.Locate(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)); !ok || pos != 3 {
		t.Errorf("DateTimeIndex.Add().Locate() = %v, %v, want 3, true", pos, ok)
	}
	if _, err := dx.Add("2020-01-15"); !errors.Is(err, ErrArgument) {
		t.Errorf("DateTimeIndex.Add() duplicate error = %v, want ErrArgument", err)
	}
	if _, err := dx.Add("foo"); !errors.Is(err, ErrArgument) {
		t.Errorf("DateTimeIndex.Add() error = %v, want ErrArgument", err)
	}
	deleted, err := added.DeleteAt(0)
	if err != nil {
		t.Fatal(err)
	}
	if got, _, _ := deleted.Resolve("2020"); !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("DateTimeIndex.DeleteAt().Resolve(2020) = %v, want [0]", got)
	}
}

func TestDateTimeIndex_Sort(t *testing.T) {
	dx, _ := NewDateTimeIndex([]string{"2020-03-01", "2020-01-01", "2020-02-01"})
	sorted, order := dx.Sort(true)
	if want := []int{1, 2, 0}; !reflect.DeepEqual(order, want) {
		t.Errorf("DateTimeIndex.Sort() order = %v, want %v", order, want)
	}
	if sorted.Kind() != TimeIndex {
		t.Errorf("DateTimeIndex.Sort() kind = %v, want %v", sorted.Kind(), TimeIndex)
	}
}

func TestCreateIndex_dates(t *testing.T) {
	tests := []struct {
		name string
		src  interface{}
		want IndexKind
	}{
		{"date strings", []string{"2020-01-01", "2020-01-02"}, TimeIndex},
		{"times", []time.Time{time.Now()}, TimeIndex},
		{"plain strings", []string{"a", "b"}, PlainIndex},
		{"short numeric strings", []string{"2020", "2021"}, PlainIndex},
		{"mixed dates and words", []string{"2020-01-01", "foo"}, PlainIndex},
		{"ints", []int{1, 2}, PlainIndex},
		{"size", 2, PlainIndex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CreateIndex(tt.src)
			if err != nil {
				t.Fatal(err)
			}
			if got.Kind() != tt.want {
				t.Errorf("CreateIndex() kind = %v, want %v", got.Kind(), tt.want)
			}
		})
	}
}
