package mapgen

import (
	"log"

	"github.com/unixpickle/model3d/model2d"

	"github.com/LudoBermejoES/MapGenerator/internal/contour"
	"github.com/LudoBermejoES/MapGenerator/internal/geometry"
	"github.com/LudoBermejoES/MapGenerator/internal/heightmap"
	"github.com/LudoBermejoES/MapGenerator/internal/placement"
)

const (
	// placementTries bounds centre sampling per island.
	placementTries = 50

	// islandBuildTries bounds heightmap regeneration per placed centre
	// when the extracted coastline fails validation.
	islandBuildTries = 3

	// minCoastPoints rejects degenerate coastlines.
	minCoastPoints = 20

	// peakLevel & valleyLevel are thresholds on normalized elevation for
	// the feature scans.
	peakLevel   = 0.55
	valleyLevel = -0.1

	// beachBandCount elevation bands between sea level & beach level.
	beachBandCount = 3
)

// generateIslands drives the heightmap engine & contour extractor once per
// island: place a centre, synthesize a masked heightmap, extract the
// coastline and secondary features, and publish the whole set atomically.
// Islands that fail placement or validation are dropped with a warning;
// the rest of the world still generates.
func (m *MapGen) generateIslands() {
	cfg := m.cfg.Island

	sampler := placement.NewSampler(m.world.Min, m.world.Max, m.rng)
	sampler.SetCandidateFilters(func(p model2d.Coord) bool {
		// keep the island footprint inside the world
		half := cfg.BaseSize * (1 + cfg.SizeVariation) / 2
		return p.X-half >= m.world.Min.X && p.X+half <= m.world.Max.X &&
			p.Y-half >= m.world.Min.Y && p.Y+half <= m.world.Max.Y
	})
	sampler.SetSiteFilters(placement.MinDistance(cfg.MinDistance))

	var islands []*IslandFeatures
	for i := 0; i < cfg.NumIslands; i++ {
		centre, ok := placeCentre(sampler)
		if !ok {
			log.Printf("mapgen: island %d omitted, no centre found in %d tries", i, placementTries)
			continue
		}

		isl, ok := m.buildIsland(centre, i)
		if !ok {
			log.Printf("mapgen: island %d omitted, no valid coastline in %d builds", i, islandBuildTries)
			continue
		}
		islands = append(islands, isl)
	}

	// the island mode treats the whole world as sea & the islands as the
	// only land, so downstream queries stay uniform across modes
	m.water.publishSea(geometry.ToPolygon(m.world.Ring()))
	m.water.publishIslands(islands)
}

// placeCentre draws a centre candidate up to placementTries times.
func placeCentre(s *placement.Sampler) (model2d.Coord, bool) {
	for i := 0; i < placementTries; i++ {
		if p, ok := s.AddRandom(); ok {
			return p, true
		}
	}
	return model2d.Coord{}, false
}

// buildIsland generates one island's heightmap & features at the given
// centre. A validation failure discards the whole attempt; nothing is
// partially published.
func (m *MapGen) buildIsland(centre model2d.Coord, index int) (*IslandFeatures, bool) {
	cfg := m.cfg.Island
	size := m.cfg.Heightmap.Size

	scale := cfg.WorldScale
	variation := 1 + (m.rng.Float64()*2-1)*cfg.SizeVariation
	scale *= variation

	for attempt := 0; attempt < islandBuildTries; attempt++ {
		seed := m.islandSeed(index, attempt)

		g, err := heightmap.GenerateSeeded(size, m.cfg.Heightmap.Smoothness, seed)
		if err != nil {
			// config was validated up front; treat as fatal to the island
			log.Printf("mapgen: heightmap generation failed: %v", err)
			return nil, false
		}

		switch {
		case cfg.VolcanoMode:
			g.ApplyVolcanoMask(cfg.FalloffFactor)
		case cfg.AtollMode:
			g.ApplyAtollMask(cfg.FalloffFactor)
		default:
			g.ApplyIslandMask(cfg.FalloffFactor)
		}
		g.Normalize(-1, 1)

		coast := contour.ExtractCoastline(g, cfg.SeaLevel, minCoastPoints)
		if coast == nil || !coast.Closed() || coast.Area() <= 0 {
			continue
		}

		toWorld := gridTransform(centre, size, scale)

		isl := &IslandFeatures{
			Coastline: transformAll(coast.Points, toWorld),
			Grid:      g,
			Centre:    centre,
		}
		isl.poly = geometry.ToPolygon(isl.Coastline)

		// stacked beach bands between sea level & beach level,
		// ascending elevation
		thresholds := make([]float64, 0, beachBandCount)
		for b := 1; b <= beachBandCount; b++ {
			t := cfg.SeaLevel + (cfg.BeachLevel-cfg.SeaLevel)*float64(b)/beachBandCount
			thresholds = append(thresholds, t)
		}
		for _, set := range contour.ExtractBands(g, thresholds, minCoastPoints/2) {
			for _, c := range set {
				isl.BeachBands = append(isl.BeachBands, transformAll(c.Points, toWorld))
			}
		}

		isl.Peaks = transformAll(peakPoints(g), toWorld)
		for _, cluster := range valleyClusters(g) {
			isl.Valleys = append(isl.Valleys, transformAll(cluster, toWorld))
		}

		return isl, true
	}

	return nil, false
}

// islandSeed derives a per-island, per-attempt seed. With a configured
// master seed the whole archipelago reproduces bit-identically.
func (m *MapGen) islandSeed(index, attempt int) int64 {
	if m.cfg.Seed != 0 {
		return m.cfg.Seed + int64(index)*7919 + int64(attempt)*104729
	}
	return m.rng.Int63()
}

// gridTransform maps grid space to world space:
// world = centre + (gridPoint - size/2) * scale
func gridTransform(centre model2d.Coord, size int, scale float64) func(model2d.Coord) model2d.Coord {
	half := float64(size) / 2
	return func(p model2d.Coord) model2d.Coord {
		return centre.Add(model2d.XY((p.X-half)*scale, (p.Y-half)*scale))
	}
}

func transformAll(pts []model2d.Coord, f func(model2d.Coord) model2d.Coord) []model2d.Coord {
	out := make([]model2d.Coord, len(pts))
	for i, p := range pts {
		out[i] = f(p)
	}
	return out
}

// peakPoints scans for local maxima (8-neighbourhood) above the peak
// threshold.
func peakPoints(g *heightmap.Grid) []model2d.Coord {
	var peaks []model2d.Coord
	side := g.Side()
	for y := 1; y < side-1; y++ {
		for x := 1; x < side-1; x++ {
			v := g.At(x, y)
			if v <= peakLevel {
				continue
			}
			isMax := true
			for dy := -1; dy <= 1 && isMax; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					if g.At(x+dx, y+dy) >= v {
						isMax = false
						break
					}
				}
			}
			if isMax {
				peaks = append(peaks, model2d.XY(float64(x), float64(y)))
			}
		}
	}
	return peaks
}

// valleyClusters flood-fills connected regions below the valley threshold
// that sit inside the island interior (the open sea band at the grid rim
// is excluded by radius). Each cluster is returned as a sparse point
// cloud.
func valleyClusters(g *heightmap.Grid) [][]model2d.Coord {
	side := g.Side()
	half := float64(side-1) / 2
	visited := make([]bool, side*side)

	interior := func(x, y int) bool {
		dx, dy := float64(x)-half, float64(y)-half
		return dx*dx+dy*dy <= (0.7*half)*(0.7*half)
	}

	var clusters [][]model2d.Coord
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			idx := y*side + x
			if visited[idx] || g.At(x, y) >= valleyLevel || !interior(x, y) {
				continue
			}

			// breadth-first walk of this low region
			var cluster []model2d.Coord
			queue := []int{idx}
			visited[idx] = true
			for len(queue) > 0 {
				cur := queue[0]
				queue = queue[1:]
				cx, cy := cur%side, cur/side
				cluster = append(cluster, model2d.XY(float64(cx), float64(cy)))

				for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
					nx, ny := cx+d[0], cy+d[1]
					if nx < 0 || ny < 0 || nx >= side || ny >= side {
						continue
					}
					nidx := ny*side + nx
					if visited[nidx] || g.At(nx, ny) >= valleyLevel || !interior(nx, ny) {
						continue
					}
					visited[nidx] = true
					queue = append(queue, nidx)
				}
			}

			if len(cluster) >= 4 {
				clusters = append(clusters, sparsify(cluster, 8))
			}
		}
	}
	return clusters
}

// sparsify keeps every nth point so clusters stay a manageable size.
func sparsify(pts []model2d.Coord, n int) []model2d.Coord {
	if n <= 1 || len(pts) <= n {
		return pts
	}
	out := make([]model2d.Coord, 0, len(pts)/n+1)
	for i := 0; i < len(pts); i += n {
		out = append(out, pts[i])
	}
	return out
}
