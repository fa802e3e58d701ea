package waveform

import (
	"errors"
	"math"
	"testing"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		t    []float64
		p    []float64
		err  error
	}{
		{name: "ok", t: []float64{0, 1, 2}, p: []float64{1, 2, 3}},
		{name: "length mismatch", t: []float64{0, 1}, p: []float64{1, 2, 3}, err: ErrLengthMismatch},
		{name: "too short", t: []float64{0}, p: []float64{1}, err: ErrTooShort},
		{name: "not monotonic", t: []float64{0, 2, 1}, p: []float64{1, 2, 3}, err: ErrNotMonotonic},
		{name: "nan time", t: []float64{0, math.NaN(), 2}, p: []float64{1, 2, 3}, err: ErrNotMonotonic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.t, tt.p)
			if tt.err == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.err) {
				t.Fatalf("err = %v, want %v", err, tt.err)
			}
		})
	}
}

func TestNewRegularGrid(t *testing.T) {
	w, err := NewRegular([]float64{0, 1, 0, 0}, 0.5, 10)
	if err != nil {
		t.Fatalf("NewRegular: %v", err)
	}

	want := []float64{10, 10.5, 11, 11.5}
	for i, v := range w.Grid() {
		if v != want[i] {
			t.Fatalf("t[%d] = %v, want %v", i, v, want[i])
		}
	}
	if w.Spacing() != 0.5 {
		t.Fatalf("Spacing = %v, want 0.5", w.Spacing())
	}
	if !w.IsRegular() {
		t.Fatal("regular grid reported as irregular")
	}
}

func TestNewRegularRejectsBadSampling(t *testing.T) {
	for _, ts := range []float64{0, -1, math.Inf(1), math.NaN()} {
		if _, err := NewRegular([]float64{1, 2}, ts, 0); !errors.Is(err, ErrBadSampling) {
			t.Errorf("tSamp=%v: err = %v, want ErrBadSampling", ts, err)
		}
	}
}

func TestGridReconstruction(t *testing.T) {
	w := Waveform{P: []float64{1, 2, 3}, TSamp: 2, TStart: -1}
	got := w.Grid()
	if len(got) != 3 || got[0] != -1 || got[2] != 3 {
		t.Fatalf("Grid = %v, want [-1 1 3]", got)
	}
	if err := w.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestSameGrid(t *testing.T) {
	a, _ := NewRegular(make([]float64, 10), 0.1, 0)
	b, _ := New(Grid(10, 0.1, 0), make([]float64, 10))
	c, _ := NewRegular(make([]float64, 10), 0.1, 0.05)

	if !a.SameGrid(b) {
		t.Fatal("identical grids reported different")
	}
	if a.SameGrid(c) {
		t.Fatal("offset grids reported identical")
	}
}

func TestIsRegularIrregular(t *testing.T) {
	w, _ := New([]float64{0, 1, 3, 4}, []float64{1, 1, 1, 1})
	if w.IsRegular() {
		t.Fatal("irregular grid reported as regular")
	}
}
