package box

import (
	"fmt"
	"strings"
)

// Point is an integer cell index with one coordinate per dimension.
type Point []int

// Splat returns a point of the given dimension with all coordinates set to value.
func Splat(dim int, value int) Point {
	p := make(Point, dim)
	for i := range p {
		p[i] = value
	}
	return p
}

func (p Point) Dim() int { return len(p) }

func (p Point) Clone() Point {
	c := make(Point, len(p))
	copy(c, p)
	return c
}

func (p Point) Equal(other Point) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

func (p Point) Add(other Point) Point {
	result := p.Clone()
	for i := range result {
		result[i] += other[i]
	}
	return result
}

func (p Point) Sub(other Point) Point {
	result := p.Clone()
	for i := range result {
		result[i] -= other[i]
	}
	return result
}

// isBelowInAny returns true when at least one coordinate of p is smaller than the one of other.
func (p Point) isBelowInAny(other Point) bool {
	for i := range p {
		if p[i] < other[i] {
			return true
		}
	}
	return false
}

// isAboveInAny returns true when at least one coordinate of p is larger than the one of other.
func (p Point) isAboveInAny(other Point) bool {
	for i := range p {
		if p[i] > other[i] {
			return true
		}
	}
	return false
}

func (p Point) String() string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return "(" + strings.Join(parts, ",") + ")"
}
