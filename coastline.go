package mapgen

import (
	"log"

	"github.com/ctessum/geom"
	"github.com/unixpickle/model3d/model2d"

	"github.com/LudoBermejoES/MapGenerator/internal/geometry"
	"github.com/LudoBermejoES/MapGenerator/internal/placement"
)

const (
	// coastTries bounds whole-coastline attempts; on exhaustion the
	// coastline is simply left empty with a warning.
	coastTries = 100

	// seedTries bounds seed re-sampling within one attempt.
	seedTries = 30

	// pathIterations bounds bidirectional integration steps.
	pathIterations = 5000

	// extendSteps is how many integration steps worth of straight-line
	// extension is applied to each raw endpoint.
	extendSteps = 5
)

// generateCoast runs the continental coastline state machine: sample a
// seed, integrate bidirectionally through the flow field, extend the ends
// past the world rectangle & accept only paths whose endpoints exit it.
// The accepted path is simplified and composed with the world rectangle
// into the sea polygon.
func (m *MapGen) generateCoast() {
	cfg := m.cfg.Coast

	if cfg.NoiseEnabled {
		m.field.EnableNoise(cfg.NoiseAngle, cfg.NoiseSize)
		defer m.field.DisableNoise()
	}

	var accepted []model2d.Coord
	for try := 0; try < coastTries; try++ {
		seed, ok := m.sampleSeed()
		if !ok {
			continue
		}

		// 50/50 between the major & minor flow direction
		path, closed := m.integrate(seed, m.rng.Float64() < 0.5)
		if closed || len(path) < 2 {
			// a closed loop never exits the world rectangle
			continue
		}

		path = extendPath(path, float64(extendSteps)*cfg.Step)
		if m.world.Contains(path[0]) || m.world.Contains(path[len(path)-1]) {
			continue
		}

		accepted = path
		break
	}

	if accepted == nil {
		log.Printf("mapgen: no edge-reaching coastline in %d tries, sea left empty", coastTries)
		return
	}

	// register a densified copy for downstream collision queries before
	// simplification throws vertices away
	m.streamlines = append(m.streamlines, geometry.Resample(accepted, cfg.Step))

	simplified := geometry.Simplify(accepted, cfg.SimplifyTolerance)
	sea, coast, ok := m.seaFromCoast(simplified)
	if !ok {
		log.Printf("mapgen: degenerate coastline polygon, falling back to full-world sea")
		sea = geometry.ToPolygon(m.world.Ring())
		coast = nil
	}
	m.Coastline = coast
	m.water.publishSea(sea)
}

// generateRivers attempts each configured river corridor. The sea polygon
// is hidden from the classifier for the duration (saved & restored) so
// rivers can reach world edges through the sea region.
func (m *MapGen) generateRivers() {
	if m.cfg.Coast.NumRivers <= 0 {
		return
	}

	restore := m.water.setHideSea(true)
	defer m.water.setHideSea(restore)

	var rings [][]model2d.Coord
	for i := 0; i < m.cfg.Coast.NumRivers; i++ {
		ring, banks, ok := m.generateRiver()
		if !ok {
			log.Printf("mapgen: river %d omitted, no valid corridor in %d tries", i, coastTries)
			continue
		}
		rings = append(rings, ring)
		m.Banks = append(m.Banks, banks...)
	}
	m.water.publishRivers(rings)
}

// generateRiver integrates one river centreline along the orthogonal field
// direction, then buffers it into the water polygon plus two bank roads.
func (m *MapGen) generateRiver() ([]model2d.Coord, [][]model2d.Coord, bool) {
	cfg := m.cfg.Coast

	var accepted []model2d.Coord
	for try := 0; try < coastTries; try++ {
		seed, ok := m.sampleSeed()
		if !ok {
			continue
		}

		path, closed := m.integrate(seed, false)
		if closed || len(path) < 2 {
			continue
		}

		path = extendPath(path, float64(extendSteps)*cfg.Step)
		if m.world.Contains(path[0]) || m.world.Contains(path[len(path)-1]) {
			continue
		}

		accepted = path
		break
	}
	if accepted == nil {
		return nil, nil, false
	}

	m.streamlines = append(m.streamlines, geometry.Resample(accepted, cfg.Step))

	centre, _, ok := clipToRect(geometry.Simplify(accepted, cfg.SimplifyTolerance), m.world)
	if !ok || len(centre) < 2 {
		return nil, nil, false
	}
	m.Rivers = append(m.Rivers, centre)

	// inner offsets bound the water, outer offsets carry the bank roads
	halfWater := cfg.RiverWidth / 2
	left := geometry.Offset(centre, halfWater)
	right := geometry.Offset(centre, -halfWater)
	ring := closeRing(append(left, reversed(right)...))

	corridor := halfWater + cfg.RiverBankWidth
	leftBank, rightBank := splitBanks(
		geometry.Offset(centre, corridor),
		geometry.Offset(centre, -corridor),
		centre, corridor,
	)

	return ring, [][]model2d.Coord{leftBank, rightBank}, true
}

// splitBanks assigns the corridor offset points to the two banks by
// testing each against a split polygon covering one side of the
// centreline, then reverses the far bank if that shortens the
// endpoint-to-endpoint distance (keeps both banks flowing the same way).
func splitBanks(a, b, centre []model2d.Coord, corridor float64) ([]model2d.Coord, []model2d.Coord) {
	// one-sided region: centreline out to several corridor widths
	far := geometry.Offset(centre, corridor*4)
	split := geometry.ToPolygon(closeRing(append(append([]model2d.Coord{}, centre...), reversed(far)...)))

	var left, right []model2d.Coord
	for _, p := range append(append([]model2d.Coord{}, a...), b...) {
		if geometry.PointInPolygon(p, split) {
			left = append(left, p)
		} else {
			right = append(right, p)
		}
	}
	if len(left) < 2 || len(right) < 2 {
		// degenerate split; fall back to the raw offsets
		left, right = a, b
	}

	straight := left[0].Dist(right[0]) + left[len(left)-1].Dist(right[len(right)-1])
	crossed := left[0].Dist(right[len(right)-1]) + left[len(left)-1].Dist(right[0])
	if crossed < straight {
		right = reversed(right)
	}
	return left, right
}

// sampleSeed draws a streamline seed: inside the world, not on water, and
// clear of every registered streamline by MinSeparation. Bounded tries.
func (m *MapGen) sampleSeed() (model2d.Coord, bool) {
	s := placement.NewSampler(m.world.Min, m.world.Max, m.rng)
	s.SetCandidateFilters(
		func(p model2d.Coord) bool { return m.water.IsLand(p) },
		func(p model2d.Coord) bool { return !m.nearStreamline(p, m.cfg.Coast.MinSeparation) },
	)
	for i := 0; i < seedTries; i++ {
		if p, ok := s.AddRandom(); ok {
			return p, true
		}
	}
	return model2d.Coord{}, false
}

// nearStreamline reports whether p sits within sep of any registered
// (densified) streamline point.
func (m *MapGen) nearStreamline(p model2d.Coord, sep float64) bool {
	for _, sl := range m.streamlines {
		for _, q := range sl {
			if p.Dist(q) < sep {
				return true
			}
		}
	}
	return false
}

// integrate grows a path forward & backward simultaneously from seed by
// repeatedly sampling the flow field and stepping a fixed distance. The
// squared distance between the two fronts is tracked: once they have
// separated past the circle-join threshold and later come back within it,
// the path is closed into a loop (the ordering prevents trivial near-zero
// loops from closing immediately). Fronts stop once strictly outside the
// world rectangle; integration otherwise runs to the iteration cap.
func (m *MapGen) integrate(seed model2d.Coord, major bool) ([]model2d.Coord, bool) {
	step := m.cfg.Coast.Step
	joinSq := m.cfg.Coast.CircleJoin * m.cfg.Coast.CircleJoin

	first := m.direction(seed, major)
	if first.Norm() == 0 {
		return nil, false
	}

	fwd := []model2d.Coord{seed}
	bwd := []model2d.Coord{seed}
	fdir, bdir := first, first.Scale(-1)
	fOn, bOn := true, true
	separated := false

	for i := 0; i < pathIterations && (fOn || bOn); i++ {
		if fOn {
			fdir, fOn = m.advance(&fwd, fdir, major, step)
		}
		if bOn {
			bdir, bOn = m.advance(&bwd, bdir, major, step)
		}

		gap := fwd[len(fwd)-1].Sub(bwd[len(bwd)-1])
		gapSq := gap.Dot(gap)
		if !separated {
			separated = gapSq > joinSq
		} else if gapSq < joinSq {
			// fronts converged again: close the loop
			path := append(reversed(bwd), fwd[1:]...)
			return append(path, path[0]), true
		}
	}

	// backward half runs tail-to-seed, forward half seed-to-tail
	return append(reversed(bwd), fwd[1:]...), false
}

// advance steps one front along the field, keeping direction continuity
// (eigenvector orientation is ambiguous, so flips are undone). Returns the
// new direction & whether the front is still active.
func (m *MapGen) advance(path *[]model2d.Coord, prev model2d.Coord, major bool, step float64) (model2d.Coord, bool) {
	front := (*path)[len(*path)-1]
	d := m.direction(front, major)
	if d.Norm() == 0 {
		return prev, false
	}
	if d.Dot(prev) < 0 {
		d = d.Scale(-1)
	}
	next := front.Add(d.Scale(step))
	*path = append(*path, next)
	if !m.world.Contains(next) {
		// strictly outside: this front is done
		return d, false
	}
	return d, true
}

// direction samples the requested eigenvector direction, normalized.
func (m *MapGen) direction(p model2d.Coord, major bool) model2d.Coord {
	var d model2d.Coord
	if major {
		d = m.field.Sample(p)
	} else {
		d = m.field.SampleMinor(p)
	}
	if n := d.Norm(); n > 0 {
		return d.Scale(1 / n)
	}
	return model2d.Coord{}
}

// extendPath pushes both endpoints outward along their local tangents (not
// along the field) so the path is guaranteed to exit world bounds.
func extendPath(path []model2d.Coord, dist float64) []model2d.Coord {
	if len(path) < 2 {
		return path
	}
	head := path[0].Sub(path[1])
	if n := head.Norm(); n > 0 {
		path = append([]model2d.Coord{path[0].Add(head.Scale(dist / n))}, path...)
	}
	tail := path[len(path)-1].Sub(path[len(path)-2])
	if n := tail.Norm(); n > 0 {
		path = append(path, path[len(path)-1].Add(tail.Scale(dist/n)))
	}
	return path
}

// seaFromCoast clips the accepted coastline to the world rectangle and
// closes it along the boundary in both directions, keeping the region of
// minimum area as the sea. The result is intersected with the world
// rectangle so the published sea never exceeds it.
func (m *MapGen) seaFromCoast(path []model2d.Coord) (geom.Polygon, []model2d.Coord, bool) {
	clipped, _, ok := clipToRect(path, m.world)
	if !ok || len(clipped) < 2 {
		return nil, nil, false
	}

	a := closeAlongBoundary(clipped, m.world, true)
	b := closeAlongBoundary(clipped, m.world, false)

	ring := a
	if geometry.RingArea(b) < geometry.RingArea(a) {
		ring = b
	}
	if geometry.RingArea(ring) <= 0 {
		return nil, nil, false
	}

	sea := geometry.ToPolygon(ring).Intersection(geometry.ToPolygon(m.world.Ring())).(geom.Polygon)
	if len(sea) == 0 || geometry.PolygonArea(sea) <= 0 {
		return nil, nil, false
	}
	return sea, clipped, true
}

// clipToRect keeps the first in-rect run of the path, interpolating exact
// border crossings at both ends. The bool result is false if the path
// never enters the rect.
func clipToRect(path []model2d.Coord, rect geometry.Rect) ([]model2d.Coord, int, bool) {
	first := -1
	for i, p := range path {
		if rect.Contains(p) {
			first = i
			break
		}
	}
	if first < 0 {
		return nil, 0, false
	}

	var out []model2d.Coord
	if first > 0 {
		if cp, ok := rectCrossing(path[first-1], path[first], rect); ok {
			out = append(out, cp)
		}
	}
	last := len(path) - 1
	for i := first; i < len(path); i++ {
		if !rect.Contains(path[i]) {
			last = i - 1
			break
		}
		out = append(out, path[i])
	}
	if last < len(path)-1 {
		if cp, ok := rectCrossing(path[last+1], path[last], rect); ok {
			out = append(out, cp)
		}
	}
	return out, first, true
}

// rectCrossing returns where the segment from outside -> inside crosses
// the rect border (binary refinement; segments are short relative to the
// world so this is plenty accurate).
func rectCrossing(outside, inside model2d.Coord, rect geometry.Rect) (model2d.Coord, bool) {
	if rect.Contains(outside) || !rect.Contains(inside) {
		return model2d.Coord{}, false
	}
	lo, hi := outside, inside
	for i := 0; i < 32; i++ {
		mid := lo.Mid(hi)
		if rect.Contains(mid) {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi, true
}

// closeAlongBoundary closes an open chain whose ends sit on the world
// border by walking the border from the exit point back to the entry
// point, passing whichever corners lie along the way. `forward` picks the
// walk direction, so the two calls produce the two complementary regions.
func closeAlongBoundary(chain []model2d.Coord, rect geometry.Rect, forward bool) []model2d.Coord {
	entry := boundaryParam(chain[0], rect)
	exit := boundaryParam(chain[len(chain)-1], rect)

	perim := 2 * (rect.Width() + rect.Height())
	corners := rect.Corners()
	cornerParams := []float64{
		0,
		rect.Width(),
		rect.Width() + rect.Height(),
		2*rect.Width() + rect.Height(),
	}

	ring := append([]model2d.Coord{}, chain...)

	// walk from exit toward entry collecting corners in between
	span := entry - exit
	if forward {
		if span < 0 {
			span += perim
		}
		for offset := 0.0; ; {
			// next corner strictly after exit+offset
			bestIdx, bestDelta := -1, perim
			for i, cp := range cornerParams {
				d := cp - exit
				for d <= offset+1e-9 {
					d += perim
				}
				if d < bestDelta {
					bestIdx, bestDelta = i, d
				}
			}
			if bestIdx < 0 || bestDelta >= span {
				break
			}
			ring = append(ring, corners[bestIdx])
			offset = bestDelta
		}
	} else {
		if span > 0 {
			span -= perim
		}
		for offset := 0.0; ; {
			bestIdx, bestDelta := -1, -perim
			for i, cp := range cornerParams {
				d := cp - exit
				for d >= offset-1e-9 {
					d -= perim
				}
				if d > bestDelta {
					bestIdx, bestDelta = i, d
				}
			}
			if bestIdx < 0 || bestDelta <= span {
				break
			}
			ring = append(ring, corners[bestIdx])
			offset = bestDelta
		}
	}

	return closeRing(ring)
}

// boundaryParam maps a point on (or near) the rect border to its distance
// along the border, measured clockwise from Min.
func boundaryParam(p model2d.Coord, rect geometry.Rect) float64 {
	// snap to the nearest edge
	dLeft := p.X - rect.Min.X
	dRight := rect.Max.X - p.X
	dTop := p.Y - rect.Min.Y
	dBottom := rect.Max.Y - p.Y

	min := dLeft
	edge := 3 // left
	if dRight < min {
		min, edge = dRight, 1
	}
	if dTop < min {
		min, edge = dTop, 0
	}
	if dBottom < min {
		edge = 2
	}

	switch edge {
	case 0: // top: Min -> (Max.X, Min.Y)
		return p.X - rect.Min.X
	case 1: // right
		return rect.Width() + (p.Y - rect.Min.Y)
	case 2: // bottom
		return rect.Width() + rect.Height() + (rect.Max.X - p.X)
	default: // left
		return 2*rect.Width() + rect.Height() + (rect.Max.Y - p.Y)
	}
}

// closeRing appends the first point if the ring isn't already closed.
func closeRing(ring []model2d.Coord) []model2d.Coord {
	if len(ring) > 1 && ring[0].Dist(ring[len(ring)-1]) > 1e-9 {
		ring = append(ring, ring[0])
	}
	return ring
}

// reversed returns a reversed copy.
func reversed(in []model2d.Coord) []model2d.Coord {
	out := make([]model2d.Coord, len(in))
	for i, p := range in {
		out[len(in)-1-i] = p
	}
	return out
}
