// Package tiles partitions an N-dimensional integer domain into a regular grid of tiles.
//
// A TileSet is built once from a domain box and a tile size. Tiles are stored contiguously in row-major order of
// their grid coordinate (last dimension fastest) and the tiles at the upper end of every dimension are truncated to
// the remaining cells of the domain. A dense reverse index maps every cell of the domain to the offset of its tile
// within that storage, so looking up the tile of a cell takes constant time.
//
// TileSet and View are read-only after construction and can be shared between goroutines without locking.
package tiles

import (
	"github.com/pkg/errors"
	"tilepart/box"
)

var (
	ErrInvalidDomain        = errors.New("invalid domain box")
	ErrInvalidTileSize      = errors.New("invalid tile size")
	ErrTileSizeTooLarge     = errors.New("tile size larger than box size")
	ErrTileBoundsMismatch   = errors.New("tile bounds differ from assigned bounds")
	ErrBorderUndefined      = errors.New("border tiles require a tile size larger than one in every dimension")
	ErrUnsupportedDimension = errors.New("unsupported dimension")
)

// Tile is implemented by every type a TileSet can hold. Besides its geometry the engine treats a tile as opaque.
type Tile interface {
	Bounds() box.Box
}

// Overlap is one tile touched by a region.
type Overlap[T Tile] struct {
	Full  bool // True when the tile lies completely inside the region.
	Index int  // Position of the tile within the tile set.
	Tile  *T
}
