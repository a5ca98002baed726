package mapgen

import (
	"image/color"

	"github.com/boljen/go-bitmap"
	"github.com/ctessum/geom"
	"github.com/fogleman/gg"
	"github.com/unixpickle/model3d/model2d"

	"github.com/LudoBermejoES/MapGenerator/internal/geometry"
)

// Water is the land/water classifier: the single sink all generators
// publish into and the single source downstream systems query.
//
// Publishing is atomic per generation cycle; each publish replaces a whole
// polygon set, so consumers never observe a half-built state. There is no
// locking -- correctness relies on the orchestrator's single threaded
// sequencing.
type Water struct {
	world geometry.Rect

	seaPoly  geom.Polygon
	seaRings [][]model2d.Coord
	hasSea   bool

	riverPolys []geom.Polygon
	riverRings [][]model2d.Coord

	islands    []*IslandFeatures
	landmasses []*Landmass

	// ignoreRiver disables the river interior check in IsLand, used by
	// callers that treat the river corridor as passable land.
	ignoreRiver bool

	// hideSea is flipped by the orchestrator while integrating the river
	// so the path can reach world edges through the sea region. Always
	// restored before control is yielded.
	hideSea bool
}

func newWater(world geometry.Rect) *Water {
	return &Water{world: world}
}

// Reset clears all published state, starting a fresh generation cycle.
func (w *Water) Reset() {
	w.seaPoly = nil
	w.seaRings = nil
	w.hasSea = false
	w.riverPolys = nil
	w.riverRings = nil
	w.islands = nil
	w.landmasses = nil
	w.hideSea = false
}

// IsLand is the one predicate external systems need. Island & landmass
// polygons are checked before the sea polygon: the island mode publishes
// the full world rectangle as its sea, so every island sits inside the sea
// region and would vanish under sea-first ordering. Land wins wherever the
// two overlap. The river interior counts as water unless river-ignoring is
// active. With nothing published everything is land.
func (w *Water) IsLand(p model2d.Coord) bool {
	for _, isl := range w.islands {
		if geometry.PointInPolygon(p, isl.poly) {
			return true
		}
	}
	for _, lm := range w.landmasses {
		if geometry.PointInPolygon(p, lm.poly) {
			return true
		}
	}
	if w.hasSea && !w.hideSea && geometry.PointInPolygon(p, w.seaPoly) {
		return false
	}
	if !w.ignoreRiver {
		for _, rp := range w.riverPolys {
			if geometry.PointInPolygon(p, rp) {
				return false
			}
		}
	}
	return true
}

// SetIgnoreRiver toggles the river interior check & returns the previous
// value so callers can save/restore around a generation step.
func (w *Water) SetIgnoreRiver(v bool) bool {
	prev := w.ignoreRiver
	w.ignoreRiver = v
	return prev
}

// setHideSea is the orchestrator-side save/restore for river integration.
func (w *Water) setHideSea(v bool) bool {
	prev := w.hideSea
	w.hideSea = v
	return prev
}

func (w *Water) publishSea(poly geom.Polygon) {
	w.seaPoly = poly
	w.seaRings = geometry.FromPolygon(poly)
	w.hasSea = len(poly) > 0
}

func (w *Water) publishRivers(rings [][]model2d.Coord) {
	w.riverPolys = nil
	w.riverRings = nil
	for _, ring := range rings {
		if len(ring) < 4 {
			continue
		}
		w.riverPolys = append(w.riverPolys, geometry.ToPolygon(ring))
		w.riverRings = append(w.riverRings, ring)
	}
}

func (w *Water) publishIslands(islands []*IslandFeatures) {
	w.islands = islands
}

func (w *Water) publishLandmasses(lms []*Landmass) {
	w.landmasses = lms
}

// SeaRings returns the published sea polygon as closed rings (outer ring
// first, then holes). Empty when no sea was generated.
func (w *Water) SeaRings() [][]model2d.Coord {
	return w.seaRings
}

// SeaPolygon returns the sea in geom form for boolean-op consumers.
func (w *Water) SeaPolygon() geom.Polygon {
	return w.seaPoly
}

// RiverRings returns the river water polygon rings, one per generated
// river. Empty when no river survived generation.
func (w *Water) RiverRings() [][]model2d.Coord {
	return w.riverRings
}

// Islands returns the published island feature sets.
func (w *Water) Islands() []*IslandFeatures {
	return w.islands
}

// Landmasses returns the published solid landmasses.
func (w *Water) Landmasses() []*Landmass {
	return w.landmasses
}

// Outline rasterizes the published polygons into a grid of cellSize world
// units per cell and returns the downstream consumer interface. We paint
// the polygons with a drawing lib & read the pixels back rather than
// classifying every cell through the polygon tests; far cheaper for large
// grids and it matches what the renderer shows.
func (w *Water) Outline(cellSize float64) Outline {
	width := int(w.world.Width()/cellSize) + 1
	height := int(w.world.Height()/cellSize) + 1

	ctx := gg.NewContext(width, height)
	ctx.Scale(1/cellSize, 1/cellSize)
	ctx.SetFillRuleEvenOdd()

	// land is red, water blue; later fills overwrite earlier ones so the
	// order is sea, islands / landmasses, river
	land := color.RGBA{R: 255, A: 255}
	sea := color.RGBA{B: 255, A: 255}

	ctx.SetColor(land)
	fillRing(ctx, w.world.Ring())
	if w.hasSea {
		ctx.SetColor(sea)
		for _, ring := range w.seaRings {
			fillRing(ctx, ring)
		}
	}
	ctx.SetColor(land)
	for _, isl := range w.islands {
		fillRing(ctx, isl.Coastline)
	}
	for _, lm := range w.landmasses {
		fillRing(ctx, lm.Outline)
	}
	if len(w.riverRings) > 0 {
		ctx.SetColor(sea)
		for _, ring := range w.riverRings {
			fillRing(ctx, ring)
		}
	}

	out := &rasterOutline{
		width:  width,
		height: height,
		land:   bitmap.New(width * height),
		water:  bitmap.New(width * height),
		dock:   bitmap.New(width * height),
	}

	img := ctx.Image()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, _, b, _ := img.At(x, y).RGBA()
			i := y*width + x
			if b > r {
				out.water.Set(i, true)
			} else {
				out.land.Set(i, true)
			}
		}
	}

	// dock-suitable: land cells with water among their 8 neighbours
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !out.land.Get(y*width + x) {
				continue
			}
			for dy := -1; dy <= 1 && !out.dock.Get(y*width+x); dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= width || ny >= height {
						continue
					}
					if out.water.Get(ny*width + nx) {
						out.dock.Set(y*width+x, true)
						break
					}
				}
			}
		}
	}

	return out
}

func fillRing(ctx *gg.Context, ring []model2d.Coord) {
	if len(ring) < 3 {
		return
	}
	ctx.MoveTo(ring[0].X, ring[0].Y)
	for _, p := range ring[1:] {
		ctx.LineTo(p.X, p.Y)
	}
	ctx.ClosePath()
	ctx.Fill()
}

// rasterOutline is the bitmap-backed Outline implementation.
type rasterOutline struct {
	width, height     int
	land, water, dock bitmap.Bitmap
}

func (r *rasterOutline) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < r.width && y < r.height
}

// CanBuildOn returns true for dry land cells.
func (r *rasterOutline) CanBuildOn(x, y int) bool {
	return r.inBounds(x, y) && r.land.Get(y*r.width+x)
}

// CanBridgeOver returns true for water cells.
func (r *rasterOutline) CanBridgeOver(x, y int) bool {
	return r.inBounds(x, y) && r.water.Get(y*r.width+x)
}

// SuitableDock returns true for land cells adjacent to water.
func (r *rasterOutline) SuitableDock(x, y int) bool {
	return r.inBounds(x, y) && r.dock.Get(y*r.width+x)
}
