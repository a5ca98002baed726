// Package contour extracts iso-elevation polylines from a heightmap grid
// using marching squares. Segments are produced per 2x2 cell from a fixed
// 16-entry edge table and then stitched into chains by greedily matching
// endpoints.
package contour

import (
	"math"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/model3d/model2d"

	"github.com/LudoBermejoES/MapGenerator/internal/heightmap"
)

const (
	// epsilon for matching two segment endpoints during stitching.
	// Shared cell edges interpolate from the same pair of samples so
	// matches are near-exact; this only absorbs float noise.
	epsilon = 1e-5

	// a chain closes itself once its free end wanders back within
	// 5 x epsilon of its own start
	closeEpsilon = 5 * epsilon
)

// Contour is an ordered run of grid-space points along one iso-elevation
// boundary. It may be open (a chain that hit the grid border) or closed
// (first point repeated at the end).
type Contour struct {
	Points []model2d.Coord
}

// Closed reports whether the contour loops back on itself.
func (c *Contour) Closed() bool {
	if len(c.Points) < 4 {
		return false
	}
	return c.Points[0].Dist(c.Points[len(c.Points)-1]) <= closeEpsilon
}

// Area returns the absolute enclosed area (shoelace formula) of the
// contour, closing a copy first if needed. Open chains still report the
// area of their implied closure; callers decide whether that's meaningful.
func (c *Contour) Area() float64 {
	pts := c.Points
	if len(pts) < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < len(pts); i++ {
		a, b := pts[i], pts[(i+1)%len(pts)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return math.Abs(sum / 2)
}

// Options controls extraction.
type Options struct {
	// Threshold is the iso-elevation to trace.
	Threshold float64

	// Smooth applies one pass of weighted neighbour averaging to
	// interior vertices (endpoints held fixed).
	Smooth bool

	// MinLength discards contours with fewer points.
	MinLength int
}

type segment [2]model2d.Coord

// Extract traces all contours of the grid at the given threshold.
func Extract(g *heightmap.Grid, o Options) []*Contour {
	segs := cellSegments(g, o.Threshold)
	out := stitch(segs)

	kept := out[:0]
	for _, c := range out {
		if len(c.Points) < o.MinLength {
			continue
		}
		if o.Smooth {
			smooth(c)
		}
		kept = append(kept, c)
	}
	return kept
}

// ExtractCoastline traces contours at one threshold and returns the one
// enclosing maximal area, interpreted as the outer land/water boundary.
// Returns nil if nothing valid was found.
func ExtractCoastline(g *heightmap.Grid, threshold float64, minLength int) *Contour {
	var best *Contour
	for _, c := range Extract(g, Options{Threshold: threshold, Smooth: true, MinLength: minLength}) {
		if best == nil || c.Area() > best.Area() {
			best = c
		}
	}
	return best
}

// ExtractBands maps the grid across several thresholds, one contour set
// per threshold in input order. Used to build stacked beach bands.
func ExtractBands(g *heightmap.Grid, thresholds []float64, minLength int) [][]*Contour {
	out := make([][]*Contour, len(thresholds))
	for i, t := range thresholds {
		out[i] = Extract(g, Options{Threshold: t, Smooth: true, MinLength: minLength})
	}
	return out
}

// cellSegments classifies every 2x2 cell into a 4-bit configuration and
// emits its table segments. Corner bit order: 1 = top-left, 2 = top-right,
// 4 = bottom-right, 8 = bottom-left ("above threshold" sets the bit).
// Crossing points are interpolated along cell edges.
func cellSegments(g *heightmap.Grid, threshold float64) []segment {
	var segs []segment
	size := g.Side() - 1

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			tl := g.At(x, y)
			tr := g.At(x+1, y)
			br := g.At(x+1, y+1)
			bl := g.At(x, y+1)

			cfg := 0
			if tl > threshold {
				cfg |= 1
			}
			if tr > threshold {
				cfg |= 2
			}
			if br > threshold {
				cfg |= 4
			}
			if bl > threshold {
				cfg |= 8
			}
			if cfg == 0 || cfg == 15 {
				continue
			}

			fx, fy := float64(x), float64(y)
			top := model2d.XY(fx+cross(tl, tr, threshold), fy)
			bottom := model2d.XY(fx+cross(bl, br, threshold), fy+1)
			left := model2d.XY(fx, fy+cross(tl, bl, threshold))
			right := model2d.XY(fx+1, fy+cross(tr, br, threshold))

			// the two saddle configurations (5 and 10) resolve to a fixed
			// pair of diagonal segments; a known marching-squares
			// ambiguity we deliberately don't disambiguate
			switch cfg {
			case 1, 14:
				segs = append(segs, segment{left, top})
			case 2, 13:
				segs = append(segs, segment{top, right})
			case 3, 12:
				segs = append(segs, segment{left, right})
			case 4, 11:
				segs = append(segs, segment{right, bottom})
			case 5:
				segs = append(segs, segment{left, top}, segment{right, bottom})
			case 6, 9:
				segs = append(segs, segment{top, bottom})
			case 7, 8:
				segs = append(segs, segment{left, bottom})
			case 10:
				segs = append(segs, segment{top, right}, segment{left, bottom})
			}
		}
	}
	return segs
}

// cross returns where the threshold crossing sits between two samples,
// as a fraction in [0, 1] from a toward b.
func cross(a, b, threshold float64) float64 {
	if a == b {
		return 0.5
	}
	t := (threshold - a) / (b - a)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t
}

// stitch greedily connects segments whose endpoints coincide (within
// epsilon) into chains, closing a chain when its free end returns to its
// start.
func stitch(segs []segment) []*Contour {
	var out []*Contour

	for len(segs) > 0 {
		// pull out an arbitrary starting segment
		last := len(segs) - 1
		chain := []model2d.Coord{segs[last][0], segs[last][1]}
		segs = segs[:last]

		closed := false
		for !closed {
			grew := false

			// try to grow the tail, then the head
			tail := chain[len(chain)-1]
			for i := 0; i < len(segs); i++ {
				if next, ok := connects(segs[i], tail); ok {
					chain = append(chain, next)
					essentials.UnorderedDelete(&segs, i)
					grew = true
					break
				}
			}
			if !grew {
				head := chain[0]
				for i := 0; i < len(segs); i++ {
					if next, ok := connects(segs[i], head); ok {
						chain = append([]model2d.Coord{next}, chain...)
						essentials.UnorderedDelete(&segs, i)
						grew = true
						break
					}
				}
			}

			if len(chain) > 2 && chain[len(chain)-1].Dist(chain[0]) <= closeEpsilon {
				chain = append(chain, chain[0])
				closed = true
			}
			if !grew {
				break
			}
		}

		out = append(out, &Contour{Points: chain})
	}

	return out
}

// connects returns the far endpoint if either end of the segment touches p.
func connects(s segment, p model2d.Coord) (model2d.Coord, bool) {
	if s[0].Dist(p) <= epsilon {
		return s[1], true
	}
	if s[1].Dist(p) <= epsilon {
		return s[0], true
	}
	return model2d.Coord{}, false
}

// smooth runs one pass of 1-2-1 neighbour averaging over interior
// vertices. Endpoints are held so open chains keep their grid-border
// anchors and closed chains keep their join point.
func smooth(c *Contour) {
	if len(c.Points) < 3 {
		return
	}
	prev := c.Points[0]
	for i := 1; i < len(c.Points)-1; i++ {
		cur := c.Points[i]
		next := c.Points[i+1]
		c.Points[i] = prev.Scale(0.25).Add(cur.Scale(0.5)).Add(next.Scale(0.25))
		prev = cur
	}
}
