package io

import (
	"io"
	"os"
	"time"

	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"tilepart/box"
	"tilepart/tiles"
)

const (
	KindInner  = "inner"
	KindBorder = "border"
	// KindTile is used for all tiles when the partition has no defined border.
	KindTile = "tile"
)

func WriteTilesAsGeoJsonFile(view tiles.View[box.Box], filename string) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "Unable to create GeoJSON file %s", filename)
	}

	defer func() {
		closeErr := file.Close()
		if err == nil && closeErr != nil {
			err = errors.Wrapf(closeErr, "Unable to close file handle for GeoJSON file %s", file.Name())
		}
	}()

	return WriteTilesAsGeoJson(view, file)
}

// WriteTilesAsGeoJson writes one polygon per tile of a two-dimensional partition. Cell (x,y) covers the unit square
// from (x,y) to (x+1,y+1).
func WriteTilesAsGeoJson(view tiles.View[box.Box], writer io.Writer) error {
	if view.Dim() != 2 {
		return errors.Wrapf(tiles.ErrUnsupportedDimension, "GeoJSON export needs a two dimensional partition but got %d dimensions", view.Dim())
	}

	sigolo.Info("Write tiles to GeoJSON")
	writeStartTime := time.Now()

	kinds := tileKinds(view)

	featureCollection := geojson.NewFeatureCollection()
	for i, tile := range view.All() {
		feature := geojson.NewFeature(tile.ToPolygon(1, 1))
		feature.Properties["index"] = i
		feature.Properties["cells"] = tile.Size()
		feature.Properties["kind"] = kinds[i]

		featureCollection.Features = append(featureCollection.Features, feature)
	}

	geojsonBytes, err := featureCollection.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "Unable to marshal tiles to GeoJSON")
	}

	_, err = writer.Write(geojsonBytes)
	if err != nil {
		return errors.Wrap(err, "Unable to write GeoJSON")
	}

	sigolo.Infof("Finished writing %d tiles in %s", view.Len(), time.Since(writeStartTime))

	return nil
}

func tileKinds(view tiles.View[box.Box]) []string {
	kinds := make([]string, view.Len())

	border, err := view.BorderTiles()
	if err != nil {
		sigolo.Debugf("No border available, all tiles are exported as '%s': %s", KindTile, err)
		for i := range kinds {
			kinds[i] = KindTile
		}
		return kinds
	}

	for i := range kinds {
		kinds[i] = KindInner
	}
	for _, tile := range border {
		kinds[view.IndexAt(tile.Lower...)] = KindBorder
	}
	return kinds
}
