package tiles

import (
	"slices"

	"github.com/google/hilbert"
	"github.com/pkg/errors"
)

// LocalityOrder returns all tile positions ordered such that consecutive tiles are close to each other. One
// dimensional partitions keep their storage order, two dimensional partitions are ordered along a Hilbert curve.
func (p partition[T]) LocalityOrder() ([]int, error) {
	order := make([]int, len(p.tiles))
	for i := range order {
		order[i] = i
	}

	switch len(p.shape) {
	case 1:
		return order, nil
	case 2:
		return p.hilbertOrder(order)
	default:
		return nil, errors.Wrapf(ErrUnsupportedDimension, "locality order is only available for one and two dimensions, not %d", len(p.shape))
	}
}

func (p partition[T]) hilbertOrder(order []int) ([]int, error) {
	n := 1
	for n < max(p.shape[0], p.shape[1]) {
		n <<= 1
	}

	curve, err := hilbert.NewHilbert(n)
	if err != nil {
		return nil, errors.Wrapf(err, "error creating hilbert curve of size %d", n)
	}

	distances := make([]int, len(p.tiles))
	for i := range distances {
		coordinate := p.TileCoordinate(i)
		distances[i], err = curve.MapInverse(coordinate[0], coordinate[1])
		if err != nil {
			return nil, errors.Wrapf(err, "error mapping tile %d at %v onto hilbert curve", i, coordinate)
		}
	}

	slices.SortFunc(order, func(a, b int) int {
		return distances[a] - distances[b]
	})
	return order, nil
}
