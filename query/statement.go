package query

import (
	"fmt"

	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"
	"tilepart/box"
	"tilepart/tiles"
)

var (
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrCellOutsideDomain = errors.New("cell outside of domain")
)

// Statement is one executable part of a query, e.g. "region(0,0,9,9).any" or "domain.inner".
type Statement interface {
	Execute(view tiles.View[box.Box]) (*Result, error)
	String() string
}

// OverlapsAnyStatement selects all tiles intersecting the region.
type OverlapsAnyStatement struct {
	Region box.Box
}

func (s OverlapsAnyStatement) Execute(view tiles.View[box.Box]) (*Result, error) {
	err := checkDimension(view, s.Region.Dim(), s)
	if err != nil {
		return nil, err
	}

	result := newResult(s)
	for _, overlap := range view.OverlapsAny(s.Region) {
		result.add(overlap.Index, *overlap.Tile, overlap.Full)
	}
	return result, nil
}

func (s OverlapsAnyStatement) String() string {
	return "region" + coordinates(s.Region.Lower, s.Region.Upper) + ".any"
}

// OverlapsFullyStatement selects the tiles lying completely within the region.
type OverlapsFullyStatement struct {
	Region box.Box
}

func (s OverlapsFullyStatement) Execute(view tiles.View[box.Box]) (*Result, error) {
	err := checkDimension(view, s.Region.Dim(), s)
	if err != nil {
		return nil, err
	}

	result := newResult(s)
	for _, tile := range view.OverlapsFully(s.Region) {
		result.add(view.IndexAt(tile.Lower...), *tile, true)
	}
	return result, nil
}

func (s OverlapsFullyStatement) String() string {
	return "region" + coordinates(s.Region.Lower, s.Region.Upper) + ".full"
}

type InnerStatement struct{}

func (s InnerStatement) Execute(view tiles.View[box.Box]) (*Result, error) {
	result := newResult(s)
	for _, tile := range view.InnerTiles() {
		result.add(view.IndexAt(tile.Lower...), *tile, true)
	}
	return result, nil
}

func (s InnerStatement) String() string { return "domain.inner" }

type BorderStatement struct{}

func (s BorderStatement) Execute(view tiles.View[box.Box]) (*Result, error) {
	border, err := view.BorderTiles()
	if err != nil {
		return nil, errors.Wrapf(err, "error executing statement '%s'", s)
	}

	result := newResult(s)
	for _, tile := range border {
		result.add(view.IndexAt(tile.Lower...), *tile, true)
	}
	return result, nil
}

func (s BorderStatement) String() string { return "domain.border" }

type AllStatement struct{}

func (s AllStatement) Execute(view tiles.View[box.Box]) (*Result, error) {
	result := newResult(s)
	for i, tile := range view.All() {
		result.add(i, *tile, true)
	}
	return result, nil
}

func (s AllStatement) String() string { return "domain.all" }

// CellStatement selects the one tile containing the cell.
type CellStatement struct {
	Cell box.Point
}

func (s CellStatement) Execute(view tiles.View[box.Box]) (*Result, error) {
	err := checkDimension(view, s.Cell.Dim(), s)
	if err != nil {
		return nil, err
	}
	if !view.Domain().Contains(s.Cell) {
		return nil, errors.Wrapf(ErrCellOutsideDomain, "cell %s is not within domain %s", s.Cell, view.Domain())
	}

	result := newResult(s)
	index := view.IndexAt(s.Cell...)
	tile := view.Tile(index)
	result.add(index, *tile, tile.Size() == 1)
	return result, nil
}

func (s CellStatement) String() string {
	return "cell" + coordinates(s.Cell) + ".tile"
}

func checkDimension(view tiles.View[box.Box], dim int, statement Statement) error {
	if dim != view.Dim() {
		return errors.Wrapf(ErrDimensionMismatch, "statement '%s' has %d dimensions but the partition has %d", statement, dim, view.Dim())
	}
	sigolo.Tracef("Dimension of statement '%s' matches partition", statement)
	return nil
}

func coordinates(points ...box.Point) string {
	s := "("
	for _, point := range points {
		for _, c := range point {
			if len(s) > 1 {
				s += ","
			}
			s += fmt.Sprintf("%d", c)
		}
	}
	return s + ")"
}
