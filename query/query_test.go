package query

import (
	"testing"

	"tilepart/box"
	"tilepart/tiles"
	"tilepart/util"
)

func newView(t *testing.T, lower int, upper int, tileSize int) tiles.View[box.Box] {
	tileSet, err := tiles.NewBoxes(box.New(box.Point{lower, lower}, box.Point{upper, upper}), []int{tileSize, tileSize})
	util.AssertNil(t, err)
	return tileSet.MakeView()
}

func TestOverlapsAnyStatement(t *testing.T) {
	// Arrange
	view := newView(t, 0, 11, 4)
	statement := OverlapsAnyStatement{Region: box.New(box.Point{3, 4}, box.Point{4, 7})}

	// Act
	result, err := statement.Execute(view)

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, "region(3,4,4,7).any", result.Statement)
	util.AssertEqual(t, []Match{
		{Index: 1, Lower: []int{0, 4}, Upper: []int{3, 7}, Full: false},
		{Index: 4, Lower: []int{4, 4}, Upper: []int{7, 7}, Full: false},
	}, result.Matches)
}

func TestOverlapsFullyStatement(t *testing.T) {
	view := newView(t, 0, 11, 4)
	statement := OverlapsFullyStatement{Region: box.New(box.Point{0, 2}, box.Point{7, 11})}

	result, err := statement.Execute(view)

	util.AssertNil(t, err)
	util.AssertEqual(t, "region(0,2,7,11).full", result.Statement)
	util.AssertEqual(t, []Match{
		{Index: 1, Lower: []int{0, 4}, Upper: []int{3, 7}, Full: true},
		{Index: 2, Lower: []int{0, 8}, Upper: []int{3, 11}, Full: true},
		{Index: 4, Lower: []int{4, 4}, Upper: []int{7, 7}, Full: true},
		{Index: 5, Lower: []int{4, 8}, Upper: []int{7, 11}, Full: true},
	}, result.Matches)
}

func TestOverlapsStatement_dimensionMismatch(t *testing.T) {
	view := newView(t, 0, 11, 4)

	_, err := OverlapsAnyStatement{Region: box.New(box.Point{0}, box.Point{3})}.Execute(view)
	util.AssertErrorIs(t, ErrDimensionMismatch, err)

	_, err = OverlapsFullyStatement{Region: box.New(box.Point{0, 0, 0}, box.Point{3, 3, 3})}.Execute(view)
	util.AssertErrorIs(t, ErrDimensionMismatch, err)
}

func TestInnerAndBorderStatement(t *testing.T) {
	view := newView(t, 0, 11, 4)

	inner, err := InnerStatement{}.Execute(view)
	util.AssertNil(t, err)
	util.AssertEqual(t, "domain.inner", inner.Statement)
	util.AssertEqual(t, []Match{
		{Index: 4, Lower: []int{4, 4}, Upper: []int{7, 7}, Full: true},
	}, inner.Matches)

	border, err := BorderStatement{}.Execute(view)
	util.AssertNil(t, err)
	util.AssertEqual(t, "domain.border", border.Statement)
	util.AssertEqual(t, 8, len(border.Matches))
	for _, match := range border.Matches {
		util.AssertTrue(t, match.Index != 4)
	}
}

func TestBorderStatement_undefined(t *testing.T) {
	view := newView(t, 0, 11, 1)

	result, err := BorderStatement{}.Execute(view)

	util.AssertNil(t, result)
	util.AssertErrorIs(t, tiles.ErrBorderUndefined, err)
}

func TestAllStatement(t *testing.T) {
	view := newView(t, -2, 3, 4)

	result, err := AllStatement{}.Execute(view)

	util.AssertNil(t, err)
	util.AssertEqual(t, "domain.all", result.Statement)
	util.AssertEqual(t, []Match{
		{Index: 0, Lower: []int{-2, -2}, Upper: []int{1, 1}, Full: true},
		{Index: 1, Lower: []int{-2, 2}, Upper: []int{1, 3}, Full: true},
		{Index: 2, Lower: []int{2, -2}, Upper: []int{3, 1}, Full: true},
		{Index: 3, Lower: []int{2, 2}, Upper: []int{3, 3}, Full: true},
	}, result.Matches)
}

func TestCellStatement(t *testing.T) {
	view := newView(t, 0, 53, 4)

	result, err := CellStatement{Cell: box.Point{13, 53}}.Execute(view)

	util.AssertNil(t, err)
	util.AssertEqual(t, "cell(13,53).tile", result.Statement)
	util.AssertEqual(t, []Match{
		{Index: 3*14 + 13, Lower: []int{12, 52}, Upper: []int{15, 53}, Full: false},
	}, result.Matches)
}

func TestCellStatement_invalidCell(t *testing.T) {
	view := newView(t, 0, 53, 4)

	_, err := CellStatement{Cell: box.Point{13, 54}}.Execute(view)
	util.AssertErrorIs(t, ErrCellOutsideDomain, err)

	_, err = CellStatement{Cell: box.Point{13}}.Execute(view)
	util.AssertErrorIs(t, ErrDimensionMismatch, err)
}

func TestQuery_Execute(t *testing.T) {
	// Arrange
	view := newView(t, 0, 11, 4)
	query := NewQuery([]Statement{
		InnerStatement{},
		CellStatement{Cell: box.Point{0, 0}},
	})

	// Act
	results, err := query.Execute(view)

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, []Result{
		{Statement: "domain.inner", Matches: []Match{{Index: 4, Lower: []int{4, 4}, Upper: []int{7, 7}, Full: true}}},
		{Statement: "cell(0,0).tile", Matches: []Match{{Index: 0, Lower: []int{0, 0}, Upper: []int{3, 3}, Full: false}}},
	}, results)
	util.AssertEqual(t, "domain.inner\ncell(0,0).tile", query.String())
}

func TestQuery_Execute_stopsAtFirstError(t *testing.T) {
	view := newView(t, 0, 11, 4)
	query := NewQuery([]Statement{
		AllStatement{},
		CellStatement{Cell: box.Point{100, 0}},
	})

	results, err := query.Execute(view)

	util.AssertNil(t, results)
	util.AssertErrorIs(t, ErrCellOutsideDomain, err)
}

func TestQuery_Execute_empty(t *testing.T) {
	results, err := NewQuery(nil).Execute(newView(t, 0, 11, 4))

	util.AssertNil(t, err)
	util.AssertEqual(t, []Result{}, results)
}
