package tiles

import (
	"iter"

	"github.com/pkg/errors"
	"tilepart/box"
	"tilepart/ndarray"
)

// partition holds everything TileSet and View share. All methods only read.
type partition[T Tile] struct {
	domain   box.Box
	tileSize []int
	shape    []int
	tiles    []T
	cells    ndarray.View[int32] // Tile offset per domain cell, relative to the lower domain corner.
}

func (p partition[T]) Domain() box.Box { return box.New(p.domain.Lower, p.domain.Upper) }

func (p partition[T]) Dim() int { return len(p.shape) }

func (p partition[T]) TileSize() []int { return cloneInts(p.tileSize) }

// Shape returns the number of tiles per dimension.
func (p partition[T]) Shape() []int { return cloneInts(p.shape) }

// Len returns the number of tiles.
func (p partition[T]) Len() int { return len(p.tiles) }

// Tile returns the tile at the given position within the tile storage.
func (p partition[T]) Tile(i int) *T { return &p.tiles[i] }

// All yields all tiles with their position in construction order.
func (p partition[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := range p.tiles {
			if !yield(i, &p.tiles[i]) {
				return
			}
		}
	}
}

// At returns the tile containing the cell with the given absolute coordinates. The cell must be within the domain.
func (p partition[T]) At(cell ...int) *T {
	return &p.tiles[p.IndexAt(cell...)]
}

// IndexAt returns the position of the tile containing the given cell, see At.
func (p partition[T]) IndexAt(cell ...int) int {
	return int(p.cells.Data()[p.cellOffset(cell)])
}

// cellOffset converts absolute cell coordinates into the row-major offset within the reverse index.
func (p partition[T]) cellOffset(cell []int) int {
	offset := 0
	for i, lower := range p.domain.Lower {
		offset = offset*(p.domain.Upper[i]-lower+1) + cell[i] - lower
	}
	return offset
}

// TileCoordinate returns the grid coordinate of the tile at the given storage position.
func (p partition[T]) TileCoordinate(i int) []int {
	coordinate := make([]int, len(p.shape))
	for d := len(p.shape) - 1; d >= 0; d-- {
		coordinate[d] = i % p.shape[d]
		i /= p.shape[d]
	}
	return coordinate
}

// TileIndex returns the storage position of the tile with the given grid coordinate.
func (p partition[T]) TileIndex(coordinate ...int) int {
	i := 0
	for d, c := range coordinate {
		i = i*p.shape[d] + c
	}
	return i
}

// Neighbors returns the storage positions of all tiles sharing a face, an edge or a corner with the given tile, in
// ascending order.
func (p partition[T]) Neighbors(i int) []int {
	dim := len(p.shape)
	coordinate := box.Point(p.TileCoordinate(i))
	grid := box.New(box.Splat(dim, 0), box.Splat(dim, -1).Add(p.shape))

	var neighbors []int
	for offset := range box.New(box.Splat(dim, -1), box.Splat(dim, 1)).Cells() {
		neighbor := coordinate.Add(offset)
		if neighbor.Equal(coordinate) || !grid.Contains(neighbor) {
			continue
		}
		neighbors = append(neighbors, p.TileIndex(neighbor...))
	}
	return neighbors
}

// OverlapsAny returns every tile intersecting the given region. Overlap.Full tells whether the whole tile lies
// within the region.
func (p partition[T]) OverlapsAny(region box.Box) []Overlap[T] {
	var overlaps []Overlap[T]
	for i := range p.tiles {
		bounds := p.tiles[i].Bounds()
		overlap, ok := region.Intersect(bounds)
		if !ok {
			continue
		}
		overlaps = append(overlaps, Overlap[T]{
			Full:  overlap.Size() == bounds.Size(),
			Index: i,
			Tile:  &p.tiles[i],
		})
	}
	return overlaps
}

// OverlapsFully returns only the tiles lying completely within the given region.
func (p partition[T]) OverlapsFully(region box.Box) []*T {
	var overlaps []*T
	for _, i := range p.fullyOverlappedIndices(region) {
		overlaps = append(overlaps, &p.tiles[i])
	}
	return overlaps
}

func (p partition[T]) fullyOverlappedIndices(region box.Box) []int {
	var indices []int
	for i := range p.tiles {
		bounds := p.tiles[i].Bounds()
		if overlap, ok := region.Intersect(bounds); ok && overlap.Size() == bounds.Size() {
			indices = append(indices, i)
		}
	}
	return indices
}

// InnerTiles returns the tiles lying within the domain shrunk by one tile size on every side. Each of them is
// surrounded by full-sized tiles.
func (p partition[T]) InnerTiles() []*T {
	return p.OverlapsFully(p.innerBox())
}

// BorderTiles returns all tiles which are not inner tiles, i.e. the tiles touching the domain boundary plus the
// tiles next to a truncated tile. Every tile is either an inner or a border tile.
func (p partition[T]) BorderTiles() ([]*T, error) {
	indices, err := p.borderIndices()
	if err != nil {
		return nil, err
	}

	border := make([]*T, len(indices))
	for j, i := range indices {
		border[j] = &p.tiles[i]
	}
	return border, nil
}

func (p partition[T]) borderIndices() ([]int, error) {
	for d, size := range p.tileSize {
		if size <= 1 {
			return nil, errors.Wrapf(ErrBorderUndefined, "tile size is %d in dimension %d", size, d)
		}
	}

	isInner := make([]bool, len(p.tiles))
	for _, i := range p.fullyOverlappedIndices(p.innerBox()) {
		isInner[i] = true
	}

	var border []int
	for i, inner := range isInner {
		if !inner {
			border = append(border, i)
		}
	}
	return border, nil
}

func (p partition[T]) innerBox() box.Box {
	return p.domain.Shrink(p.tileSize...)
}

func cloneInts(values []int) []int {
	c := make([]int, len(values))
	copy(c, values)
	return c
}
