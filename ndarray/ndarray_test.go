package ndarray_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"tilepart/ndarray"
)

func TestNew(t *testing.T) {
	a := ndarray.New[int](3, 4, 5)

	if got, want := a.Len(), 60; got != want {
		t.Errorf("Len() = %v, want = %v", got, want)
	}
	if diff := cmp.Diff([]int{3, 4, 5}, a.Shape()); diff != "" {
		t.Errorf("Shape() mismatch (-want+got):\n%v", diff)
	}
	if got, want := a.Dim(), 3; got != want {
		t.Errorf("Dim() = %v, want = %v", got, want)
	}
	for i, v := range a.Data() {
		if v != 0 {
			t.Fatalf("Data()[%d] = %v, want zero value", i, v)
		}
	}
}

func TestOffsetIsRowMajor(t *testing.T) {
	a := ndarray.New[int](3, 4, 5)

	offset := 0
	for x := range 3 {
		for y := range 4 {
			for z := range 5 {
				if got := a.Offset(x, y, z); got != offset {
					t.Fatalf("Offset(%d, %d, %d) = %v, want = %v", x, y, z, got, offset)
				}
				offset++
			}
		}
	}
}

func TestSetAndAt(t *testing.T) {
	a := ndarray.New[int32](2, 3)
	for x := range 2 {
		for y := range 3 {
			a.Set(int32(10*x+y), x, y)
		}
	}

	if diff := cmp.Diff([]int32{0, 1, 2, 10, 11, 12}, a.Data()); diff != "" {
		t.Errorf("Data() mismatch (-want+got):\n%v", diff)
	}
	if got, want := a.At(1, 2), int32(12); got != want {
		t.Errorf("At(1, 2) = %v, want = %v", got, want)
	}

	a.SetAtOffset(42, a.Offset(0, 1))
	if got, want := a.At(0, 1), int32(42); got != want {
		t.Errorf("At(0, 1) = %v, want = %v", got, want)
	}
}

func TestReadOnlySharesStorage(t *testing.T) {
	a := ndarray.New[string](2, 2)
	view := a.ReadOnly()

	a.Set("foo", 1, 0)

	if got, want := view.At(1, 0), "foo"; got != want {
		t.Errorf("view.At(1, 0) = %q, want = %q", got, want)
	}

	copied := view
	if got, want := copied.At(1, 0), "foo"; got != want {
		t.Errorf("copied.At(1, 0) = %q, want = %q", got, want)
	}

	shape := view.Shape()
	shape[0] = 100
	if diff := cmp.Diff([]int{2, 2}, view.Shape()); diff != "" {
		t.Errorf("Shape() must return a copy (-want+got):\n%v", diff)
	}
}

func TestNewPanicsForUnaddressableShape(t *testing.T) {
	for _, shape := range [][]int{{-1, 4}, {1 << 32, 1 << 32}, {1 << 62, 4}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("New(%v) did not panic", shape)
				}
			}()
			ndarray.New[int32](shape...)
		}()
	}
}
