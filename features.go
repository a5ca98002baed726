package mapgen

import (
	"github.com/ctessum/geom"
	"github.com/unixpickle/model3d/model2d"

	"github.com/LudoBermejoES/MapGenerator/internal/heightmap"
)

// IslandFeatures is everything produced for one successfully generated
// island. An island is published whole or not at all; validation failures
// discard the entire aggregate.
type IslandFeatures struct {
	// Coastline is the dominant sea-level contour, closed, in world space.
	Coastline []model2d.Coord

	// BeachBands are elevation-band contours between sea level & beach
	// level, ordered by ascending elevation.
	BeachBands [][]model2d.Coord

	// Peaks are local elevation maxima above the peak threshold.
	Peaks []model2d.Coord

	// Valleys are clusters of connected low-elevation cells, one point
	// cloud per cluster.
	Valleys [][]model2d.Coord

	// Grid is the source heightmap, exposed for elevation-aware
	// rendering / export. Treat as read only.
	Grid *heightmap.Grid

	// Centre of the island in world space.
	Centre model2d.Coord

	poly geom.Polygon // cached for classification
}

// Landmass is one solid landmass polygon from the geometric synthesizer.
type Landmass struct {
	Type LandmassType

	// Outline is the closed boundary ring in world space.
	Outline []model2d.Coord

	poly geom.Polygon
}
