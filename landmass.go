package mapgen

import (
	"log"
	"math"

	"github.com/ctessum/geom"
	"github.com/unixpickle/model3d/model2d"

	"github.com/LudoBermejoES/MapGenerator/internal/geometry"
	"github.com/LudoBermejoES/MapGenerator/internal/placement"
)

const (
	// hull-based shapes scatter between hullPointsMin & hullPointsMax
	// control points around a circle
	hullPointsMin = 8
	hullPointsMax = 12

	// anchored shapes sample between circleSamplesMin & circleSamplesMax
	// angular steps
	circleSamplesMin = 32
	circleSamplesMax = 48

	// radius clamp for the harmonic perturbation
	radiusClampLo = 0.4
	radiusClampHi = 1.6

	// complexity above which the fine-detail harmonics switch on
	detailComplexity = 0.5
)

// generateLandmasses builds the solid landmass set geometrically & derives
// the sea as the set-difference of the world rectangle and the landmass
// union.
func (m *MapGen) generateLandmasses() {
	cfg := m.cfg.Landmass

	// primary radius from the configured world-area fraction
	radius := math.Sqrt(cfg.PrimarySize * m.world.Area() / math.Pi)
	centre := m.world.Centre()

	var masses []*Landmass

	var primary []model2d.Coord
	switch cfg.Type {
	case Peninsula:
		primary = m.peninsulaOutline(radius, cfg.CoastalComplexity)
	case IslandChain, Archipelago, Continent:
		if cfg.Type.anchored() {
			primary = m.perturbedCircle(centre, radius, cfg.CoastalComplexity)
		} else {
			primary = m.hullOutline(centre, radius)
		}
	}
	if len(primary) < 4 {
		log.Printf("mapgen: degenerate %s outline, landmass dropped", cfg.Type)
	} else {
		masses = append(masses, &Landmass{
			Type:    cfg.Type,
			Outline: closeRing(primary),
		})
	}

	masses = append(masses, m.secondaryMasses(radius, centre)...)

	for _, lm := range masses {
		lm.poly = geometry.ToPolygon(lm.Outline)
	}

	m.water.publishLandmasses(masses)
	m.water.publishSea(m.seaFromLandmasses(masses))
}

// seaFromLandmasses computes world minus the landmass union. A failed or
// empty boolean result falls back to the full world rectangle.
func (m *MapGen) seaFromLandmasses(masses []*Landmass) geom.Polygon {
	world := geometry.ToPolygon(m.world.Ring())
	if len(masses) == 0 {
		return world
	}

	union := masses[0].poly
	for _, lm := range masses[1:] {
		union = union.Union(lm.poly).(geom.Polygon)
	}

	sea := world.Difference(union).(geom.Polygon)
	if len(sea) == 0 || geometry.PolygonArea(sea) <= 0 {
		log.Printf("mapgen: landmass difference came back empty, falling back to full-world sea")
		return world
	}
	return sea
}

// hullOutline scatters control points around the centre at randomized
// radii (70-130% of base), takes their convex hull & perturbs the hull
// vertices with small random offsets.
func (m *MapGen) hullOutline(centre model2d.Coord, radius float64) []model2d.Coord {
	n := hullPointsMin + m.rng.Intn(hullPointsMax-hullPointsMin+1)

	pts := make([]model2d.Coord, n)
	for i := range pts {
		angle := 2 * math.Pi * float64(i) / float64(n)
		r := radius * (0.7 + m.rng.Float64()*0.6)
		pts[i] = centre.Add(model2d.XY(r*math.Cos(angle), r*math.Sin(angle)))
	}

	hull := geometry.ConvexHull(pts)
	jitter := radius * 0.08
	for i, p := range hull {
		hull[i] = p.Add(model2d.XY(
			(m.rng.Float64()*2-1)*jitter,
			(m.rng.Float64()*2-1)*jitter,
		))
	}
	return hull
}

// perturbedCircle builds an organic outline from a circle whose radius is
// modulated by a weighted sum of sine/cosine harmonics at increasing
// angular frequency. Low harmonics make bays & headlands; the higher ones
// only switch on above the detail complexity threshold.
func (m *MapGen) perturbedCircle(centre model2d.Coord, radius, complexity float64) []model2d.Coord {
	n := circleSamplesMin + m.rng.Intn(circleSamplesMax-circleSamplesMin+1)

	// random phase & weight per harmonic
	type harmonic struct {
		freq   float64
		weight float64
		phase  float64
	}
	hs := []harmonic{
		{2, 0.18, m.rng.Float64() * 2 * math.Pi},
		{3, 0.14, m.rng.Float64() * 2 * math.Pi},
		{5, 0.08, m.rng.Float64() * 2 * math.Pi},
	}
	if complexity > detailComplexity {
		hs = append(hs,
			harmonic{9, 0.05 * complexity, m.rng.Float64() * 2 * math.Pi},
			harmonic{13, 0.04 * complexity, m.rng.Float64() * 2 * math.Pi},
		)
	}

	out := make([]model2d.Coord, 0, n)
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		f := 1.0
		for _, h := range hs {
			f += h.weight * math.Sin(h.freq*angle+h.phase)
		}
		if f < radiusClampLo {
			f = radiusClampLo
		} else if f > radiusClampHi {
			f = radiusClampHi
		}
		r := radius * f
		out = append(out, centre.Add(model2d.XY(r*math.Cos(angle), r*math.Sin(angle))))
	}
	return out
}

// peninsulaOutline attaches a perturbed-circle body to a rectangular base
// sitting flush with a randomly chosen world edge.
func (m *MapGen) peninsulaOutline(radius, complexity float64) []model2d.Coord {
	edge := m.rng.Intn(4)

	// the body centre sits one radius in from the chosen edge
	var centre model2d.Coord
	w, h := m.world.Width(), m.world.Height()
	along := 0.3 + m.rng.Float64()*0.4 // fraction along the edge
	switch edge {
	case 0: // top
		centre = model2d.XY(m.world.Min.X+w*along, m.world.Min.Y+radius)
	case 1: // right
		centre = model2d.XY(m.world.Max.X-radius, m.world.Min.Y+h*along)
	case 2: // bottom
		centre = model2d.XY(m.world.Min.X+w*along, m.world.Max.Y-radius)
	default: // left
		centre = model2d.XY(m.world.Min.X+radius, m.world.Min.Y+h*along)
	}

	body := m.perturbedCircle(centre, radius, complexity)

	// rectangular base spanning from the body centre out past the edge,
	// concatenated with the body shape & unioned into one outline
	half := radius * 0.8
	var base []model2d.Coord
	switch edge {
	case 0:
		base = rectRing(centre.X-half, m.world.Min.Y-radius, centre.X+half, centre.Y)
	case 1:
		base = rectRing(centre.X, centre.Y-half, m.world.Max.X+radius, centre.Y+half)
	case 2:
		base = rectRing(centre.X-half, centre.Y, centre.X+half, m.world.Max.Y+radius)
	default:
		base = rectRing(m.world.Min.X-radius, centre.Y-half, centre.X, centre.Y+half)
	}

	joined := geometry.ToPolygon(closeRing(body)).Union(geometry.ToPolygon(base)).(geom.Polygon)
	rings := geometry.FromPolygon(joined)
	if len(rings) == 0 {
		return body
	}

	// keep the outer (largest) ring; clip back to the world later via the
	// sea difference
	best := rings[0]
	for _, r := range rings[1:] {
		if geometry.RingArea(r) > geometry.RingArea(best) {
			best = r
		}
	}
	return best
}

// secondaryMasses scatters the smaller islands for the chain &
// archipelago types, keeping them clear of each other.
func (m *MapGen) secondaryMasses(primaryRadius float64, centre model2d.Coord) []*Landmass {
	cfg := m.cfg.Landmass
	if cfg.SecondaryCount <= 0 || (cfg.Type != IslandChain && cfg.Type != Archipelago) {
		return nil
	}

	sampler := placement.NewSampler(m.world.Min, m.world.Max, m.rng)
	sampler.SetCandidateFilters(func(p model2d.Coord) bool {
		// outside the primary footprint, inside the world with margin
		margin := primaryRadius * cfg.SecondaryMax
		if p.Dist(centre) < primaryRadius*1.2 {
			return false
		}
		return p.X-margin >= m.world.Min.X && p.X+margin <= m.world.Max.X &&
			p.Y-margin >= m.world.Min.Y && p.Y+margin <= m.world.Max.Y
	})
	sampler.SetSiteFilters(placement.MinDistance(primaryRadius * cfg.SecondaryMax * 2))

	var out []*Landmass
	for i := 0; i < cfg.SecondaryCount; i++ {
		var pos model2d.Coord
		ok := false
		for t := 0; t < placementTries; t++ {
			if p, good := sampler.AddRandom(); good {
				pos, ok = p, true
				break
			}
		}
		if !ok {
			log.Printf("mapgen: secondary landmass %d omitted, no position found", i)
			continue
		}

		frac := cfg.SecondaryMin + m.rng.Float64()*(cfg.SecondaryMax-cfg.SecondaryMin)
		ring := m.perturbedCircle(pos, primaryRadius*frac, cfg.CoastalComplexity)
		out = append(out, &Landmass{
			Type:    cfg.Type,
			Outline: closeRing(ring),
		})
	}
	return out
}

// rectRing builds a closed rectangle ring.
func rectRing(x0, y0, x1, y1 float64) []model2d.Coord {
	return []model2d.Coord{
		model2d.XY(x0, y0),
		model2d.XY(x1, y0),
		model2d.XY(x1, y1),
		model2d.XY(x0, y1),
		model2d.XY(x0, y0),
	}
}
