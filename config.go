package mapgen

import (
	"fmt"

	"github.com/LudoBermejoES/MapGenerator/internal/heightmap"
)

var (
	// ErrInvalidWorld indicates a world rectangle with non-positive dimensions.
	ErrInvalidWorld = fmt.Errorf("world dimensions must be positive")

	// ErrInvalidGridSize re-exports the heightmap engine's size error so
	// callers can test config failures against a single sentinel.
	ErrInvalidGridSize = heightmap.ErrInvalidGridSize

	// ErrExclusiveModes indicates mutually exclusive island profile flags
	// (volcano & atoll) both set.
	ErrExclusiveModes = fmt.Errorf("volcano and atoll modes are mutually exclusive")

	// ErrUnknownLandmassType indicates a landmass type outside the known set.
	ErrUnknownLandmassType = fmt.Errorf("unknown landmass type")

	// ErrNilFlowField indicates a mode that samples the flow field was
	// configured without one.
	ErrNilFlowField = fmt.Errorf("flow field required for this mode")

	// ErrInvalidBeachLevel indicates a beach level at or below sea level.
	ErrInvalidBeachLevel = fmt.Errorf("beach level must sit above sea level")
)

// CoastMode selects which of the three independent coast generators runs.
// The modes share nothing but the land/water classifier they publish into.
type CoastMode int

const (
	// Continental integrates a single world-spanning coastline (plus an
	// optional river corridor) through the external flow field.
	Continental CoastMode = iota

	// HeightmapIslands generates islands from fractal heightmaps and
	// extracted iso-contours.
	HeightmapIslands

	// SolidLandmass builds organic closed polygons geometrically, with no
	// elevation field involved.
	SolidLandmass
)

// Config holds everything a generation cycle needs. Zero values get
// reasonable defaults applied in New; hard errors (bad grid size, exclusive
// flags) are reported up front and never silently coerced.
type Config struct {
	// World is the map rectangle, origin (0,0). Required.
	World WorldConfig

	// Mode picks the coast generator. Defaults to Continental.
	Mode CoastMode

	// Seed for the rng. A random seed is chosen if 0.
	Seed int64

	Heightmap HeightmapConfig
	Island    IslandConfig
	Coast     CoastConfig
	Landmass  LandmassConfig
}

// WorldConfig is the world-space rectangle everything is generated into.
type WorldConfig struct {
	Width  float64
	Height float64
}

// HeightmapConfig configures the fractal heightmap engine.
type HeightmapConfig struct {
	// Size is the power-of-two grid dimension (minimum 64). Callers are
	// expected to round with RoundGridSize first; a non-power-of-two here
	// is a hard configuration error, never silently coerced.
	Size int

	// Smoothness is the initial random perturbation scale. The scale
	// halves each subdivision pass. Default 1.0.
	Smoothness float64
}

// IslandConfig configures the heightmap-island orchestrator.
type IslandConfig struct {
	// NumIslands is how many islands we attempt to place. Placement or
	// validation failures yield fewer islands, never an error.
	NumIslands int

	// BaseSize is the island diameter in world units; each island varies
	// by +/- SizeVariation (a fraction, e.g. 0.3 for 30%).
	BaseSize      float64
	SizeVariation float64

	// SeaLevel & BeachLevel are contour thresholds in normalized [-1,1]
	// elevation. BeachLevel must sit above SeaLevel; if unset it defaults
	// to SeaLevel + 0.15.
	SeaLevel   float64
	BeachLevel float64

	// WorldScale converts grid units to world units:
	// world = centre + (gridPoint - size/2) * WorldScale
	WorldScale float64

	// FalloffFactor steepens (>1) or softens (<1) the island edge profile.
	FalloffFactor float64

	// VolcanoMode / AtollMode override the radial elevation profile.
	// Mutually exclusive; setting both is a configuration error.
	VolcanoMode bool
	AtollMode   bool

	// MinDistance keeps island centres at least this far apart. Candidate
	// centres violating it are rejected & resampled (bounded tries).
	MinDistance float64
}

// CoastConfig configures the streamline coastline / river generator.
type CoastConfig struct {
	// NoiseEnabled turns on the flow field's rotational noise perturbation
	// during coast integration; Size is the noise frequency and Angle the
	// maximum rotation in degrees.
	NoiseEnabled bool
	NoiseSize    float64
	NoiseAngle   float64

	// Step is the integration step length in world units.
	Step float64

	// CircleJoin is the front-convergence distance: once the forward &
	// backward fronts have separated past it and later come back within
	// it, the path closes into a loop & integration stops.
	CircleJoin float64

	// SimplifyTolerance is the vertex reduction tolerance applied to
	// accepted paths.
	SimplifyTolerance float64

	// MinSeparation keeps streamline seeds away from existing streamlines.
	MinSeparation float64

	// NumRivers is how many river corridors to attempt. The generator
	// targets the single-river continental mode; additional rivers simply
	// re-run the same bounded logic with fresh seeds.
	NumRivers int

	// RiverWidth is the water width of the river; RiverBankWidth the
	// extra corridor margin on each side that carries the bank roads.
	RiverWidth     float64
	RiverBankWidth float64
}

// LandmassConfig configures the solid landmass synthesizer.
type LandmassConfig struct {
	// Type of the primary landmass.
	Type LandmassType

	// PrimarySize is the primary landmass footprint as a fraction of
	// world area (e.g. 0.4).
	PrimarySize float64

	// CoastalComplexity in [0,1]: low values give smooth coasts, values
	// above ~0.5 enable the higher harmonics that add fine coastal detail.
	CoastalComplexity float64

	// SecondaryCount smaller landmasses are scattered for the chain /
	// archipelago types, each sized within [SecondaryMin, SecondaryMax]
	// (fractions of the primary radius).
	SecondaryCount int
	SecondaryMin   float64
	SecondaryMax   float64
}

// RoundGridSize rounds n to the nearest power of two, clamped to the
// engine minimum. This is the caller-side rounding the heightmap engine
// expects to already have happened.
func RoundGridSize(n int) int {
	if n <= heightmap.MinSize {
		return heightmap.MinSize
	}
	p := heightmap.MinSize
	for p < n {
		p *= 2
	}
	// p is the first power >= n; the one below may be closer
	if n-p/2 < p-n {
		return p / 2
	}
	return p
}

// applyDefaults fills zero values with usable settings.
func (c *Config) applyDefaults() {
	if c.Heightmap.Size == 0 {
		c.Heightmap.Size = 256
	}
	if c.Heightmap.Smoothness == 0 {
		c.Heightmap.Smoothness = 1.0
	}

	if c.Island.NumIslands == 0 {
		c.Island.NumIslands = 3
	}
	if c.Island.BaseSize == 0 {
		c.Island.BaseSize = c.World.Width / 5
	}
	if c.Island.WorldScale == 0 && c.Heightmap.Size > 0 {
		c.Island.WorldScale = c.Island.BaseSize / float64(c.Heightmap.Size)
	}
	if c.Island.FalloffFactor == 0 {
		c.Island.FalloffFactor = 2.0
	}
	if c.Island.BeachLevel == 0 {
		c.Island.BeachLevel = c.Island.SeaLevel + 0.15
	}
	if c.Island.MinDistance == 0 {
		c.Island.MinDistance = c.Island.BaseSize
	}

	if c.Coast.Step == 0 {
		c.Coast.Step = c.World.Width / 100
	}
	if c.Coast.CircleJoin == 0 {
		c.Coast.CircleJoin = c.Coast.Step * 5
	}
	if c.Coast.SimplifyTolerance == 0 {
		c.Coast.SimplifyTolerance = c.Coast.Step / 2
	}
	if c.Coast.MinSeparation == 0 {
		c.Coast.MinSeparation = c.Coast.Step * 10
	}
	if c.Coast.RiverWidth == 0 {
		c.Coast.RiverWidth = c.World.Width / 50
	}
	if c.Coast.RiverBankWidth == 0 {
		c.Coast.RiverBankWidth = c.Coast.RiverWidth / 2
	}

	if c.Landmass.Type == "" {
		c.Landmass.Type = Continent
	}
	if c.Landmass.PrimarySize == 0 {
		c.Landmass.PrimarySize = 0.4
	}
	if c.Landmass.SecondaryMin == 0 {
		c.Landmass.SecondaryMin = 0.1
	}
	if c.Landmass.SecondaryMax == 0 {
		c.Landmass.SecondaryMax = 0.3
	}
}

// validate reports hard configuration errors. Exhaustion & degeneracy
// during generation are warnings, but anything here fails fast.
func (c *Config) validate() error {
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("%w: %gx%g", ErrInvalidWorld, c.World.Width, c.World.Height)
	}
	if s := c.Heightmap.Size; s < heightmap.MinSize || s&(s-1) != 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidGridSize, s)
	}
	if c.Island.VolcanoMode && c.Island.AtollMode {
		return ErrExclusiveModes
	}
	if c.Island.BeachLevel <= c.Island.SeaLevel {
		return fmt.Errorf("%w: sea %g, beach %g", ErrInvalidBeachLevel,
			c.Island.SeaLevel, c.Island.BeachLevel)
	}
	if c.Mode == SolidLandmass && !c.Landmass.Type.valid() {
		return fmt.Errorf("%w: %q", ErrUnknownLandmassType, c.Landmass.Type)
	}
	return nil
}
