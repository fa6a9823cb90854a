package query

import "tilepart/box"

// Match is one tile selected by a statement. Full is true when the location of the statement covers the whole
// tile, which is always the case for the domain selectors.
type Match struct {
	Index int   `json:"index"`
	Lower []int `json:"lower"`
	Upper []int `json:"upper"`
	Full  bool  `json:"full"`
}

type Result struct {
	Statement string  `json:"statement"`
	Matches   []Match `json:"matches"`
}

func newResult(statement Statement) *Result {
	return &Result{
		Statement: statement.String(),
		Matches:   []Match{},
	}
}

func (r *Result) add(index int, tile box.Box, full bool) {
	r.Matches = append(r.Matches, Match{
		Index: index,
		Lower: tile.Lower.Clone(),
		Upper: tile.Upper.Clone(),
		Full:  full,
	})
}
