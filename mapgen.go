// Package mapgen synthesizes the water layout of a procedural map: the
// sea, coastlines, rivers, islands and solid landmasses. The output is a
// land/water classifier plus polygon geometry downstream systems (roads,
// districts, settlements) consume.
package mapgen

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/unixpickle/model3d/model2d"

	"github.com/LudoBermejoES/MapGenerator/internal/geometry"
)

// MapGen holds the generation state & handles the bulk of the math
// operations. One MapGen generates one map; Generate may be called again
// to regenerate from a fresh random state.
type MapGen struct {
	cfg   *Config
	field FlowField

	rng   *rand.Rand
	world geometry.Rect
	water *Water

	// streamlines are densified copies of every accepted coastline &
	// river path, kept for the seed-separation checks
	streamlines [][]model2d.Coord

	// Coastline is the accepted continental coastline clipped to the
	// world; Rivers holds the river centrelines and Banks the bank roads
	// flanking each river corridor.
	Coastline []model2d.Coord   `json:",omitempty"`
	Rivers    [][]model2d.Coord `json:",omitempty"`
	Banks     [][]model2d.Coord `json:",omitempty"`
	Seed      int64
}

// New creates a MapGen from the given configuration & flow field. The
// config is defaulted then validated; the field may be nil only when the
// configured mode never samples it.
func New(cfg *Config, field FlowField) (*MapGen, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if field == nil && cfg.Mode == Continental {
		return nil, ErrNilFlowField
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	world := geometry.NewRect(cfg.World.Width, cfg.World.Height)
	return &MapGen{
		cfg:   cfg,
		field: field,
		rng:   rand.New(rand.NewSource(seed)),
		world: world,
		water: newWater(world),
		Seed:  seed,
	}, nil
}

// Generate runs the generation pipeline for the configured mode. All
// prior output is discarded first, so the classifier never mixes results
// from two cycles.
func (m *MapGen) Generate() error {
	m.water.Reset()
	m.streamlines = nil
	m.Coastline = nil
	m.Rivers = nil
	m.Banks = nil

	switch m.cfg.Mode {
	case Continental:
		m.generateCoast()
		m.generateRivers()
	case HeightmapIslands:
		m.generateIslands()
	case SolidLandmass:
		m.generateLandmasses()
	default:
		return fmt.Errorf("unknown coast mode %d", m.cfg.Mode)
	}
	return nil
}

// Water returns the land/water classifier. Valid after Generate.
func (m *MapGen) Water() *Water {
	return m.water
}

// IsLand reports whether the given world point is land.
func (m *MapGen) IsLand(p model2d.Coord) bool {
	return m.water.IsLand(p)
}

// SeaRings returns the sea polygon rings (outer ring first, then holes).
func (m *MapGen) SeaRings() [][]model2d.Coord {
	return m.water.SeaRings()
}

// RiverRings returns the river water polygon rings, one per river.
func (m *MapGen) RiverRings() [][]model2d.Coord {
	return m.water.RiverRings()
}

// Islands returns the generated island feature sets (heightmap mode).
func (m *MapGen) Islands() []*IslandFeatures {
	return m.water.Islands()
}

// Landmasses returns the generated solid landmasses (landmass mode).
func (m *MapGen) Landmasses() []*Landmass {
	return m.water.Landmasses()
}

// Outline rasterizes the generated water layout at the given cell size
// and returns the consumer-facing grid interface.
func (m *MapGen) Outline(cellSize float64) Outline {
	return m.water.Outline(cellSize)
}

// JSON returns the generated geometry as json.
func (m *MapGen) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// SaveJSON writes a json file to the given path.
func (m *MapGen) SaveJSON(fpath string) error {
	data, err := m.JSON()
	if err != nil {
		return err
	}
	return os.WriteFile(fpath, data, 0644)
}
