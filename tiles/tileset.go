package tiles

import (
	"math"
	"math/bits"
	"sync"
	"time"

	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"
	"tilepart/box"
	"tilepart/ndarray"
)

type options struct {
	workers int
}

type Option func(*options)

// WithWorkers tags the reverse index with the given number of goroutines. Every worker handles a disjoint range of
// tiles, so the result is identical to the sequential construction.
func WithWorkers(workers int) Option {
	return func(o *options) {
		o.workers = max(1, workers)
	}
}

// TileSet owns the tiles of a partition and the reverse index mapping cells to tiles.
type TileSet[T Tile] struct {
	partition[T]
	index *ndarray.Array[int32]
}

// NewBoxes creates a tile set whose tiles are plain boxes.
func NewBoxes(domain box.Box, tileSize []int, opts ...Option) (*TileSet[box.Box], error) {
	return New(domain, tileSize, func(bounds box.Box) box.Box { return bounds }, opts...)
}

// New partitions the domain into tiles of the given size. The newTile function is called once per tile with the
// bounds assigned to it and must return a tile reporting exactly these bounds.
func New[T Tile](domain box.Box, tileSize []int, newTile func(bounds box.Box) T, opts ...Option) (*TileSet[T], error) {
	config := &options{workers: 1}
	for _, opt := range opts {
		opt(config)
	}

	err := validate(domain, tileSize)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	domainShape := domain.Shape()

	shape := make([]int, len(domainShape))
	numberOfTiles := 1
	for i := range shape {
		shape[i] = (domainShape[i] + tileSize[i] - 1) / tileSize[i]
		numberOfTiles *= shape[i]
	}
	if numberOfTiles > math.MaxInt32 {
		return nil, errors.Wrapf(ErrInvalidTileSize, "tile size %v creates %d tiles, at most %d are supported", tileSize, numberOfTiles, math.MaxInt32)
	}

	tileSet := &TileSet[T]{
		partition: partition[T]{
			domain:   box.New(domain.Lower, domain.Upper),
			tileSize: cloneInts(tileSize),
			shape:    shape,
			tiles:    make([]T, numberOfTiles),
		},
	}

	for i := range tileSet.tiles {
		bounds := tileSet.tileBounds(i)
		tile := newTile(bounds)
		if !tile.Bounds().Equal(bounds) {
			return nil, errors.Wrapf(ErrTileBoundsMismatch, "tile %d was assigned %s but reports %s", i, bounds, tile.Bounds())
		}
		tileSet.tiles[i] = tile
		sigolo.Tracef("Created tile %d with bounds %s", i, bounds)
	}

	tileSet.index = ndarray.New[int32](domainShape...)
	tileSet.tagCells(config.workers)
	tileSet.cells = tileSet.index.ReadOnly()

	sigolo.Debugf("Partitioned domain %s into %d tiles (shape %v, tile size %v) in %s", domain, numberOfTiles, shape, tileSize, time.Since(startTime))

	return tileSet, nil
}

// MaxCells is the largest number of domain cells a reverse index may hold.
const MaxCells uint64 = 1 << 40

// CellCount returns the number of cells of the domain. It fails with ErrInvalidDomain for invalid domains and for
// domains with more than MaxCells cells, including those whose cell count does not fit into an int.
func CellCount(domain box.Box) (int, error) {
	if !domain.Valid() {
		return 0, errors.Wrapf(ErrInvalidDomain, "domain %s must have matching bounds with at least one cell per dimension", domain)
	}

	limit := min(uint64(math.MaxInt), MaxCells)
	count := uint64(1)
	for d := range domain.Lower {
		extent := uint64(domain.Upper[d]) - uint64(domain.Lower[d]) + 1
		hi, product := bits.Mul64(count, extent)
		if extent == 0 || hi != 0 || product > limit {
			return 0, errors.Wrapf(ErrInvalidDomain, "domain %s has more than %d cells", domain, limit)
		}
		count = product
	}
	return int(count), nil
}

func validate(domain box.Box, tileSize []int) error {
	_, err := CellCount(domain)
	if err != nil {
		return err
	}
	if len(tileSize) != domain.Dim() {
		return errors.Wrapf(ErrInvalidTileSize, "tile size %v has %d dimensions but domain %s has %d", tileSize, len(tileSize), domain, domain.Dim())
	}

	domainShape := domain.Shape()
	for i, size := range tileSize {
		if size <= 0 {
			return errors.Wrapf(ErrInvalidTileSize, "tile size %v must be positive in dimension %d", tileSize, i)
		}
		if size > domainShape[i] {
			return errors.Wrapf(ErrTileSizeTooLarge, "tile size %d exceeds domain extent %d in dimension %d", size, domainShape[i], i)
		}
	}

	return nil
}

// tileBounds returns the bounds of the tile at the given storage position. The last tile of every dimension is
// truncated to the remaining cells.
func (s *TileSet[T]) tileBounds(i int) box.Box {
	coordinate := s.TileCoordinate(i)
	lower := make(box.Point, len(coordinate))
	upper := make(box.Point, len(coordinate))

	for d, c := range coordinate {
		lower[d] = s.domain.Lower[d] + c*s.tileSize[d]
		upper[d] = min(lower[d]+s.tileSize[d], s.domain.Upper[d]+1) - 1
	}

	return box.Box{Lower: lower, Upper: upper}
}

func (s *TileSet[T]) tagCells(workers int) {
	workers = min(workers, len(s.tiles))
	if workers <= 1 {
		s.tagTiles(0, len(s.tiles))
		return
	}

	tilesPerWorker := (len(s.tiles) + workers - 1) / workers

	wg := &sync.WaitGroup{}
	for start := 0; start < len(s.tiles); start += tilesPerWorker {
		end := min(start+tilesPerWorker, len(s.tiles))
		wg.Add(1)
		go func() {
			defer wg.Done()
			sigolo.Tracef("Tagging cells of tiles %d to %d", start, end-1)
			s.tagTiles(start, end)
		}()
	}
	wg.Wait()
}

// tagTiles writes the offset of every tile in [start, end) into all of its cells. Tiles are disjoint, so concurrent
// calls with disjoint ranges never write the same cell.
func (s *TileSet[T]) tagTiles(start int, end int) {
	for i := start; i < end; i++ {
		for cell := range s.tiles[i].Bounds().Cells() {
			s.index.SetAtOffset(int32(i), s.cellOffset(cell))
		}
	}
}

// MakeView returns a read-only view sharing the tiles and the reverse index of this tile set. The view is only
// meaningful as long as the tile set is in use.
func (s *TileSet[T]) MakeView() View[T] {
	return View[T]{partition: s.partition}
}
