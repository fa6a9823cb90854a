package tiles

// View is a cheap, copyable read-only handle onto a TileSet. It offers the same queries and returns the same
// results as the tile set it was created from.
type View[T Tile] struct {
	partition[T]
}
