package tiles

import (
	"slices"
	"testing"

	"tilepart/box"
	"tilepart/util"
)

func TestOverlapsAny_scenarioC(t *testing.T) {
	for dim := 1; dim <= 3; dim++ {
		// Arrange
		tileSet, err := NewBoxes(cube(dim, 0, 53), box.Splat(dim, 4))
		util.AssertNil(t, err)
		region := cube(dim, 11, 34)

		// Act
		overlaps := tileSet.OverlapsAny(region)
		full := tileSet.OverlapsFully(region)

		// Assert
		util.AssertEqual(t, pow(7, dim), len(overlaps))
		util.AssertEqual(t, pow(5, dim), len(full))

		fullCount := 0
		for _, overlap := range overlaps {
			if overlap.Full {
				fullCount++
				util.AssertTrue(t, region.ContainsBox(*overlap.Tile))
			}
			util.AssertTrue(t, overlap.Tile == tileSet.Tile(overlap.Index))
		}
		util.AssertEqual(t, pow(5, dim), fullCount)

		for _, tile := range full {
			util.AssertTrue(t, region.ContainsBox(*tile))
		}
	}
}

func TestOverlapsAny_classification(t *testing.T) {
	tileSet, err := NewBoxes(cube(1, 0, 53), []int{4})
	util.AssertNil(t, err)

	overlaps := tileSet.OverlapsAny(cube(1, 11, 34))

	util.AssertEqual(t, Overlap[box.Box]{Full: false, Index: 2, Tile: tileSet.Tile(2)}, overlaps[0])
	util.AssertEqual(t, Overlap[box.Box]{Full: true, Index: 3, Tile: tileSet.Tile(3)}, overlaps[1])
	util.AssertEqual(t, Overlap[box.Box]{Full: true, Index: 7, Tile: tileSet.Tile(7)}, overlaps[5])
	util.AssertEqual(t, Overlap[box.Box]{Full: false, Index: 8, Tile: tileSet.Tile(8)}, overlaps[6])
	util.AssertEqual(t, cube(1, 8, 11), *overlaps[0].Tile)
	util.AssertEqual(t, cube(1, 32, 35), *overlaps[6].Tile)
}

func TestOverlapsAny_truncatedTileFullyCovered(t *testing.T) {
	tileSet, err := NewBoxes(cube(1, 0, 53), []int{4})
	util.AssertNil(t, err)

	overlaps := tileSet.OverlapsAny(cube(1, 50, 60))

	util.AssertEqual(t, 2, len(overlaps))
	util.AssertFalse(t, overlaps[0].Full)
	util.AssertTrue(t, overlaps[1].Full)
	util.AssertEqual(t, 13, overlaps[1].Index)
}

func TestOverlapsAny_noOverlap(t *testing.T) {
	tileSet, err := NewBoxes(cube(2, 0, 53), []int{4, 4})
	util.AssertNil(t, err)

	util.AssertEqual(t, 0, len(tileSet.OverlapsAny(cube(2, 60, 70))))
	util.AssertEqual(t, 0, len(tileSet.OverlapsFully(cube(2, 60, 70))))
	util.AssertEqual(t, 0, len(tileSet.OverlapsAny(cube(3, 0, 70))))
	// Region within a single tile touches it without covering it
	util.AssertEqual(t, 1, len(tileSet.OverlapsAny(cube(2, 5, 6))))
	util.AssertEqual(t, 0, len(tileSet.OverlapsFully(cube(2, 5, 6))))
}

func TestInnerTiles(t *testing.T) {
	for dim := 1; dim <= 3; dim++ {
		tileSet, err := NewBoxes(cube(dim, 0, 51), box.Splat(dim, 4))
		util.AssertNil(t, err)

		inner := tileSet.InnerTiles()

		util.AssertEqual(t, pow(11, dim), len(inner))
		for _, tile := range inner {
			util.AssertEqual(t, box.Splat(dim, 4), box.Point(tile.Shape()))

			// Every inner tile is surrounded by full-sized tiles
			index := tileSet.IndexAt(tile.Lower...)
			var surrounding []int
			for cell := range tile.Grow(1).Cells() {
				other := tileSet.IndexAt(cell...)
				if other != index && !slices.Contains(surrounding, other) {
					surrounding = append(surrounding, other)
				}
			}
			slices.Sort(surrounding)

			util.AssertEqual(t, pow(3, dim)-1, len(surrounding))
			util.AssertEqual(t, surrounding, tileSet.Neighbors(index))
			for _, neighbor := range surrounding {
				util.AssertEqual(t, box.Splat(dim, 4), box.Point(tileSet.Tile(neighbor).Shape()))
			}
		}
	}
}

func TestBorderTiles(t *testing.T) {
	for dim := 1; dim <= 3; dim++ {
		tileSet, err := NewBoxes(cube(dim, 0, 51), box.Splat(dim, 4))
		util.AssertNil(t, err)

		border, err := tileSet.BorderTiles()

		util.AssertNil(t, err)
		util.AssertEqual(t, pow(13, dim)-pow(11, dim), len(border))
		for _, tile := range border {
			touchesDomainBoundary := false
			for d := range dim {
				touchesDomainBoundary = touchesDomainBoundary || tile.Lower[d] == 0 || tile.Upper[d] == 51
			}
			util.AssertTrue(t, touchesDomainBoundary)
		}
	}
}

func TestInnerAndBorderPartitionTiles(t *testing.T) {
	for _, upper := range []int{46, 51, 53, 3, 7} {
		for dim := 1; dim <= 3; dim++ {
			tileSet, err := NewBoxes(cube(dim, 0, upper), box.Splat(dim, 4))
			util.AssertNil(t, err)

			border, err := tileSet.BorderTiles()
			util.AssertNil(t, err)
			innerIndices := sortedIndices(tileSet, tileSet.InnerTiles())
			borderIndices := sortedIndices(tileSet, border)

			all := append(slices.Clone(innerIndices), borderIndices...)
			slices.Sort(all)
			util.AssertEqual(t, tileSet.Len(), len(all))
			for i, index := range all {
				util.AssertEqual(t, i, index)
			}
		}
	}
}

func TestBorderTiles_truncatedDomain(t *testing.T) {
	tileSet, err := NewBoxes(cube(1, 0, 53), []int{4})
	util.AssertNil(t, err)

	border, err := tileSet.BorderTiles()

	util.AssertNil(t, err)
	// The tile before the truncated last tile is not surrounded by full-sized tiles
	util.AssertEqual(t, []int{0, 12, 13}, sortedIndices(tileSet, border))
	util.AssertEqual(t, 11, len(tileSet.InnerTiles()))
}

func TestBorderTiles_singleTile(t *testing.T) {
	tileSet, err := NewBoxes(cube(2, 0, 3), []int{4, 4})
	util.AssertNil(t, err)

	border, err := tileSet.BorderTiles()

	util.AssertNil(t, err)
	util.AssertEqual(t, 0, len(tileSet.InnerTiles()))
	util.AssertEqual(t, []*box.Box{tileSet.Tile(0)}, border)
}

func TestBorderTiles_undefinedForUnitTileSize(t *testing.T) {
	tileSet, err := NewBoxes(cube(2, 0, 9), []int{4, 1})
	util.AssertNil(t, err)

	border, err := tileSet.BorderTiles()

	util.AssertErrorIs(t, ErrBorderUndefined, err)
	util.AssertNil(t, border)
}

func TestView_equivalence(t *testing.T) {
	for dim := 1; dim <= 3; dim++ {
		tileSet, err := NewBoxes(cube(dim, 0, 53), box.Splat(dim, 4))
		util.AssertNil(t, err)
		view := tileSet.MakeView()
		region := cube(dim, 11, 34)

		util.AssertEqual(t, tileSet.OverlapsAny(region), view.OverlapsAny(region))
		util.AssertEqual(t, tileSet.OverlapsFully(region), view.OverlapsFully(region))
		util.AssertEqual(t, tileSet.InnerTiles(), view.InnerTiles())

		tileSetBorder, tileSetErr := tileSet.BorderTiles()
		viewBorder, viewErr := view.BorderTiles()
		util.AssertEqual(t, tileSetErr, viewErr)
		util.AssertEqual(t, tileSetBorder, viewBorder)

		util.AssertEqual(t, tileSet.Shape(), view.Shape())
		util.AssertEqual(t, tileSet.Len(), view.Len())
		util.AssertEqual(t, tileSet.Domain(), view.Domain())
		util.AssertEqual(t, tileSet.TileSize(), view.TileSize())

		for cell := range tileSet.Domain().Cells() {
			if tileSet.At(cell...) != view.At(cell...) {
				t.Fatalf("view returned a different tile for cell %s", cell)
			}
		}
		for i, tile := range view.All() {
			util.AssertTrue(t, tile == tileSet.Tile(i))
		}
	}
}

func TestView_copiesShareStorage(t *testing.T) {
	tileSet, err := New(cube(2, 0, 9), []int{5, 5}, func(bounds box.Box) payloadTile {
		return payloadTile{bounds: bounds}
	})
	util.AssertNil(t, err)

	view := tileSet.MakeView()
	copied := view
	copied.At(0, 0).value = 3

	util.AssertEqual(t, 3.0, tileSet.Tile(0).value)
	util.AssertEqual(t, 3.0, view.Tile(0).value)
}

func TestLocalityOrder_oneDimensional(t *testing.T) {
	tileSet, err := NewBoxes(cube(1, 0, 53), []int{4})
	util.AssertNil(t, err)

	order, err := tileSet.LocalityOrder()

	util.AssertNil(t, err)
	util.AssertEqual(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13}, order)
}

func TestLocalityOrder_hilbertHasUnitSteps(t *testing.T) {
	tileSet, err := NewBoxes(cube(2, 0, 15), []int{4, 4})
	util.AssertNil(t, err)

	order, err := tileSet.MakeView().LocalityOrder()

	util.AssertNil(t, err)
	assertPermutation(t, order, tileSet.Len())
	for i := 1; i < len(order); i++ {
		previous := tileSet.TileCoordinate(order[i-1])
		current := tileSet.TileCoordinate(order[i])
		distance := abs(previous[0]-current[0]) + abs(previous[1]-current[1])
		util.AssertEqual(t, 1, distance)
	}
}

func TestLocalityOrder_nonSquareShape(t *testing.T) {
	tileSet, err := NewBoxes(box.New(box.Point{0, 0}, box.Point{10, 19}), []int{4, 4})
	util.AssertNil(t, err)

	order, err := tileSet.LocalityOrder()

	util.AssertNil(t, err)
	assertPermutation(t, order, 15)
	util.AssertEqual(t, 0, order[0])
}

func TestLocalityOrder_unsupportedDimension(t *testing.T) {
	tileSet, err := NewBoxes(cube(3, 0, 9), []int{4, 4, 4})
	util.AssertNil(t, err)

	order, err := tileSet.LocalityOrder()

	util.AssertErrorIs(t, ErrUnsupportedDimension, err)
	util.AssertNil(t, order)
}

func assertPermutation(t *testing.T, order []int, n int) {
	sorted := slices.Clone(order)
	slices.Sort(sorted)
	util.AssertEqual(t, n, len(sorted))
	for i, index := range sorted {
		util.AssertEqual(t, i, index)
	}
}

func abs(value int) int {
	return max(value, -value)
}
