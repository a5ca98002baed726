package heightmap

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// MinSize is the smallest grid dimension we'll accept. Anything lower
// produces coastlines too coarse to stitch into sensible polygons.
const MinSize = 64

// ErrInvalidGridSize indicates a requested grid dimension that is not a
// power of two (or is below MinSize). Callers are expected to round sizes
// before asking us to generate; we refuse rather than silently coerce.
var ErrInvalidGridSize = fmt.Errorf("heightmap size must be a power of two >= %d", MinSize)

// Grid is a square heightfield of (size+1) x (size+1) elevation samples
// stored row-major in a flat slice. `size` itself is always a power of two;
// the extra row/column lets the diamond-square midpoints land on integer
// indices all the way down.
//
// A Grid is owned by whoever generated it and should be treated as
// immutable once handed to the contour extractor.
type Grid struct {
	size  int // power of two; side length is size+1
	cells []float64
}

// Generate builds a heightfield via iterative diamond-square displacement.
// `smoothness` sets the initial random perturbation scale; the scale halves
// every subdivision pass so late passes only add fine detail.
// The seed is taken from the wall clock, see GenerateSeeded for
// reproducible output.
func Generate(size int, smoothness float64) (*Grid, error) {
	return GenerateSeeded(size, smoothness, time.Now().UnixNano())
}

// GenerateSeeded is Generate with a fixed seed. Two calls with identical
// arguments return bit-identical grids.
func GenerateSeeded(size int, smoothness float64, seed int64) (*Grid, error) {
	if size < MinSize || size&(size-1) != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidGridSize, size)
	}

	g := &Grid{
		size:  size,
		cells: make([]float64, (size+1)*(size+1)),
	}
	rng := rand.New(rand.NewSource(seed))

	// corners are seeded independently
	g.set(0, 0, rng.Float64()*2-1)
	g.set(size, 0, rng.Float64()*2-1)
	g.set(0, size, rng.Float64()*2-1)
	g.set(size, size, rng.Float64()*2-1)

	scale := smoothness
	for step := size; step > 1; step /= 2 {
		half := step / 2

		// diamond pass: centre of each step x step square gets the average
		// of its four diagonal neighbours plus a perturbation
		for y := half; y < size; y += step {
			for x := half; x < size; x += step {
				avg := (g.at(x-half, y-half) +
					g.at(x+half, y-half) +
					g.at(x-half, y+half) +
					g.at(x+half, y+half)) / 4
				g.set(x, y, avg+(rng.Float64()*2-1)*scale)
			}
		}

		// square pass: edge midpoints average whichever axis neighbours
		// are in bounds (2 at the grid border, 4 in the interior)
		for y := 0; y <= size; y += half {
			start := half
			if (y/half)%2 == 1 {
				start = 0
			}
			for x := start; x <= size; x += step {
				sum, n := 0.0, 0
				if x-half >= 0 {
					sum += g.at(x-half, y)
					n++
				}
				if x+half <= size {
					sum += g.at(x+half, y)
					n++
				}
				if y-half >= 0 {
					sum += g.at(x, y-half)
					n++
				}
				if y+half <= size {
					sum += g.at(x, y+half)
					n++
				}
				g.set(x, y, sum/float64(n)+(rng.Float64()*2-1)*scale)
			}
		}

		scale /= 2
	}

	return g, nil
}

// Size returns the power-of-two generation size.
func (g *Grid) Size() int { return g.size }

// Side returns the number of samples along one edge (size+1).
func (g *Grid) Side() int { return g.size + 1 }

// At returns the elevation at (x, y). Out of range lookups are clamped to
// the border; the generators never index out of range themselves but the
// extractor's smoothing pass is simpler if it doesn't have to care.
func (g *Grid) At(x, y int) float64 {
	if x < 0 {
		x = 0
	} else if x > g.size {
		x = g.size
	}
	if y < 0 {
		y = 0
	} else if y > g.size {
		y = g.size
	}
	return g.at(x, y)
}

func (g *Grid) at(x, y int) float64     { return g.cells[y*(g.size+1)+x] }
func (g *Grid) set(x, y int, v float64) { g.cells[y*(g.size+1)+x] = v }

// MinMax returns the lowest & highest elevation in the grid.
func (g *Grid) MinMax() (float64, float64) {
	lo, hi := g.cells[0], g.cells[0]
	for _, v := range g.cells {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// Normalize linearly rescales all samples into [min, max].
// A degenerate grid (all values equal) is returned unchanged rather than
// dividing by zero.
func (g *Grid) Normalize(min, max float64) {
	lo, hi := g.MinMax()
	if hi == lo {
		return
	}
	scale := (max - min) / (hi - lo)
	for i, v := range g.cells {
		g.cells[i] = min + (v-lo)*scale
	}
}

// ApplyIslandMask reshapes the raw fractal noise into a radial island
// profile so that every generated island is a single solid landmass:
// - interior (<= 70% of max radius): high base elevation plus damped
//   original variation
// - outer ring (70..100%): a falloff curve raised to `falloff` eases the
//   elevation down below sea level
// - beyond the radius: forced well under water
func (g *Grid) ApplyIslandMask(falloff float64) {
	g.applyRadialProfile(falloff, func(v, fall float64) float64 {
		return (0.6 + 0.3*v) * fall
	})
}

// ApplyVolcanoMask is ApplyIslandMask with a crater: a raised rim around
// 35% of the radius with the centre depressed back toward (and below) the
// rim base.
func (g *Grid) ApplyVolcanoMask(falloff float64) {
	half := float64(g.size) / 2
	g.applyRadialProfile(falloff, func(v, fall float64) float64 {
		return (0.6 + 0.3*v) * fall
	})
	for y := 0; y <= g.size; y++ {
		for x := 0; x <= g.size; x++ {
			r := math.Hypot(float64(x)-half, float64(y)-half) / half
			if r >= 0.35 {
				continue
			}
			// cone up toward the rim, then drop into the crater
			rim := r / 0.35
			crater := 0.9*rim*rim - 0.3*(1-rim)
			g.set(x, y, g.at(x, y)*0.2+crater)
		}
	}
}

// ApplyAtollMask produces a ring-shaped island: a raised annulus around
// 60% of the radius with a lagoon flooded below sea level in the middle.
func (g *Grid) ApplyAtollMask(falloff float64) {
	half := float64(g.size) / 2
	for y := 0; y <= g.size; y++ {
		for x := 0; x <= g.size; x++ {
			r := math.Hypot(float64(x)-half, float64(y)-half) / half
			v := g.at(x, y)
			switch {
			case r > 1.0:
				g.set(x, y, -1.0)
			default:
				// gaussian bump centred on the ring radius, lagoon
				// interior and open sea both fall below zero
				d := (r - 0.6) / 0.18
				ring := 0.7*math.Exp(-d*d) - 0.25
				fall := 1.0
				if r > 0.7 {
					fall = math.Pow(1-(r-0.7)/0.3, falloff)
				}
				g.set(x, y, (ring+0.1*v)*fall-(1-fall)*0.5)
			}
		}
	}
}

// applyRadialProfile implements the shared interior / falloff-ring /
// open-sea split. `inner` maps (original value, falloff weight) to the new
// elevation; the weight is 1 inside 70% of the radius and eases to 0 at
// the rim with curvature `falloff`.
func (g *Grid) applyRadialProfile(falloff float64, inner func(v, fall float64) float64) {
	if falloff <= 0 {
		falloff = 1
	}
	half := float64(g.size) / 2
	for y := 0; y <= g.size; y++ {
		for x := 0; x <= g.size; x++ {
			r := math.Hypot(float64(x)-half, float64(y)-half) / half
			v := g.at(x, y)
			switch {
			case r <= 0.7:
				g.set(x, y, inner(v, 1.0))
			case r <= 1.0:
				fall := math.Pow(1-(r-0.7)/0.3, falloff)
				g.set(x, y, inner(v, fall)-(1-fall)*0.5)
			default:
				g.set(x, y, -1.0)
			}
		}
	}
}

// AboveCount returns how many samples sit strictly above the threshold.
func (g *Grid) AboveCount(threshold float64) int {
	n := 0
	for _, v := range g.cells {
		if v > threshold {
			n++
		}
	}
	return n
}
