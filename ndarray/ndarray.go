// Package ndarray provides a dense, row-major N-dimensional array. The last dimension is the one changing the most
// frequently in memory.
//
// Indices are not validated. Accessing an index outside the shape is a caller error and either panics or addresses
// an unrelated element.
package ndarray

import (
	"fmt"
	"math"
)

// View is a read-only handle on the storage of an Array. Copying a View is cheap and never copies elements.
type View[T any] struct {
	shape   []int
	strides []int
	data    []T
}

// Array owns its elements and is the only way to change them.
type Array[T any] struct {
	View[T]
}

// New allocates a zero-initialized array of the given shape. It panics for negative extents and for shapes whose
// element count does not fit into an int.
func New[T any](shape ...int) *Array[T] {
	ownShape := make([]int, len(shape))
	copy(ownShape, shape)

	strides := make([]int, len(shape))
	size := 1
	for i := len(shape) - 1; i >= 0; i-- {
		if shape[i] < 0 || shape[i] > 0 && size > math.MaxInt/shape[i] {
			panic(fmt.Sprintf("ndarray of shape %v is not addressable", shape))
		}
		strides[i] = size
		size *= shape[i]
	}

	return &Array[T]{
		View: View[T]{
			shape:   ownShape,
			strides: strides,
			data:    make([]T, size),
		},
	}
}

func (v View[T]) Shape() []int {
	shape := make([]int, len(v.shape))
	copy(shape, v.shape)
	return shape
}

func (v View[T]) Dim() int { return len(v.shape) }

// Len returns the total number of elements.
func (v View[T]) Len() int { return len(v.data) }

// Offset returns the position of the element at the given index within the flat storage.
func (v View[T]) Offset(index ...int) int {
	offset := 0
	for i, idx := range index {
		offset += idx * v.strides[i]
	}
	return offset
}

func (v View[T]) At(index ...int) T {
	return v.data[v.Offset(index...)]
}

// Data returns the flat storage. It is shared with the array and must not be modified through a view.
func (v View[T]) Data() []T {
	return v.data
}

func (a *Array[T]) Set(value T, index ...int) {
	a.data[a.Offset(index...)] = value
}

// SetAtOffset writes directly into the flat storage, see Offset.
func (a *Array[T]) SetAtOffset(value T, offset int) {
	a.data[offset] = value
}

// ReadOnly returns a view sharing the storage of this array.
func (a *Array[T]) ReadOnly() View[T] {
	return a.View
}
