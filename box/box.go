// Package box provides the axis-aligned integer box all partitions are built from. Both bounds are inclusive, so
// the box from (0,0) to (3,3) contains 16 cells.
package box

import (
	"fmt"
	"iter"
	"strings"

	"github.com/paulmach/orb"
)

type Box struct {
	Lower Point
	Upper Point
}

func New(lower Point, upper Point) Box {
	return Box{Lower: lower.Clone(), Upper: upper.Clone()}
}

// FromShape creates the box starting at lower with the given number of cells per dimension.
func FromShape(lower Point, shape []int) Box {
	upper := lower.Clone()
	for i := range upper {
		upper[i] += shape[i] - 1
	}
	return Box{Lower: lower.Clone(), Upper: upper}
}

func (b Box) Dim() int { return len(b.Lower) }

// Bounds returns the box itself, which makes a plain Box usable as tile type.
func (b Box) Bounds() Box { return b }

// Valid returns true when both bounds have the same dimension and the box contains at least one cell in every
// dimension.
func (b Box) Valid() bool {
	if len(b.Lower) == 0 || len(b.Lower) != len(b.Upper) {
		return false
	}
	return !b.Lower.isAboveInAny(b.Upper)
}

// Shape returns the number of cells per dimension.
func (b Box) Shape() []int {
	shape := make([]int, b.Dim())
	for i := range shape {
		shape[i] = b.Upper[i] - b.Lower[i] + 1
	}
	return shape
}

// Size returns the number of cells within the box.
func (b Box) Size() int {
	if !b.Valid() {
		return 0
	}
	size := 1
	for _, extent := range b.Shape() {
		size *= extent
	}
	return size
}

func (b Box) Equal(other Box) bool {
	return b.Lower.Equal(other.Lower) && b.Upper.Equal(other.Upper)
}

func (b Box) Contains(cell Point) bool {
	if len(cell) != b.Dim() {
		return false
	}
	return !cell.isAboveInAny(b.Upper) && !cell.isBelowInAny(b.Lower)
}

func (b Box) ContainsBox(other Box) bool {
	return other.Valid() && b.Contains(other.Lower) && b.Contains(other.Upper)
}

// Expand returns the smallest box containing this box and the given cell.
func (b Box) Expand(cell Point) Box {
	if b.Contains(cell) {
		return b
	}

	expanded := New(b.Lower, b.Upper)
	for i := range cell {
		expanded.Lower[i] = min(expanded.Lower[i], cell[i])
		expanded.Upper[i] = max(expanded.Upper[i], cell[i])
	}
	return expanded
}

// Intersect returns the overlap of both boxes. The boolean is false when the boxes are disjoint, when one of them
// is empty or when their dimensions differ.
func (b Box) Intersect(other Box) (Box, bool) {
	if b.Dim() != other.Dim() || b.Dim() == 0 {
		return Box{}, false
	}

	overlap := Box{Lower: make(Point, b.Dim()), Upper: make(Point, b.Dim())}
	for i := range overlap.Lower {
		overlap.Lower[i] = max(b.Lower[i], other.Lower[i])
		overlap.Upper[i] = min(b.Upper[i], other.Upper[i])
		if overlap.Lower[i] > overlap.Upper[i] {
			return Box{}, false
		}
	}
	return overlap, true
}

// Grow moves both bounds outwards. A single amount is applied to all dimensions, otherwise one amount per
// dimension is expected. Negative amounts shrink the box, which may result in an invalid box.
func (b Box) Grow(by ...int) Box {
	amounts := b.amounts(by)
	grown := New(b.Lower, b.Upper)
	for i := range amounts {
		grown.Lower[i] -= amounts[i]
		grown.Upper[i] += amounts[i]
	}
	return grown
}

// Shrink moves both bounds inwards, see Grow.
func (b Box) Shrink(by ...int) Box {
	amounts := b.amounts(by)
	negated := make([]int, len(amounts))
	for i, amount := range amounts {
		negated[i] = -amount
	}
	return b.Grow(negated...)
}

func (b Box) amounts(by []int) []int {
	if len(by) == 1 && b.Dim() != 1 {
		return Splat(b.Dim(), by[0])
	}
	if len(by) != b.Dim() {
		panic(fmt.Sprintf("box of dimension %d cannot be resized by %d amounts", b.Dim(), len(by)))
	}
	return by
}

// Cells yields every cell of the box. The last dimension changes the most frequently. The yielded point is reused
// between iterations, callers keeping it have to clone it.
func (b Box) Cells() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		if !b.Valid() {
			return
		}

		cell := b.Lower.Clone()
		for {
			if !yield(cell) {
				return
			}

			dim := b.Dim() - 1
			for ; dim >= 0; dim-- {
				cell[dim]++
				if cell[dim] <= b.Upper[dim] {
					break
				}
				// carry over into the next slower dimension
				cell[dim] = b.Lower[dim]
			}
			if dim < 0 {
				return
			}
		}
	}
}

// ToPolygon converts a two-dimensional box into a closed ring covering all of its cells. Cell (x,y) spans the area
// from (x*cellWidth, y*cellHeight) to ((x+1)*cellWidth, (y+1)*cellHeight).
func (b Box) ToPolygon(cellWidth float64, cellHeight float64) orb.Polygon {
	lowerLeft := orb.Point{float64(b.Lower[0]) * cellWidth, float64(b.Lower[1]) * cellHeight}
	upperRight := orb.Point{float64(b.Upper[0]+1) * cellWidth, float64(b.Upper[1]+1) * cellHeight}
	return orb.Polygon{
		orb.Ring{
			lowerLeft,
			orb.Point{upperRight.X(), lowerLeft.Y()},
			upperRight,
			orb.Point{lowerLeft.X(), upperRight.Y()},
			lowerLeft,
		},
	}
}

// String returns the box in the same notation the query parser accepts, e.g. "box(0,0,53,53)".
func (b Box) String() string {
	parts := make([]string, 0, 2*b.Dim())
	for _, v := range b.Lower {
		parts = append(parts, fmt.Sprintf("%d", v))
	}
	for _, v := range b.Upper {
		parts = append(parts, fmt.Sprintf("%d", v))
	}
	return "box(" + strings.Join(parts, ",") + ")"
}
