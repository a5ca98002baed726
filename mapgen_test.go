package mapgen

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/unixpickle/model3d/model2d"

	"github.com/LudoBermejoES/MapGenerator/internal/geometry"
)

// straightField is a constant tensor field: the major direction is fixed,
// the minor is its perpendicular. Streamlines through it are straight
// lines, which makes acceptance & clipping behaviour easy to reason about.
type straightField struct {
	dir model2d.Coord
}

func (f *straightField) Sample(model2d.Coord) model2d.Coord      { return f.dir }
func (f *straightField) SampleMinor(model2d.Coord) model2d.Coord { return model2d.XY(-f.dir.Y, f.dir.X) }
func (f *straightField) EnableNoise(float64, float64)            {}
func (f *straightField) DisableNoise()                           {}

func continentalConfig(seed int64, rivers int) *Config {
	return &Config{
		World: WorldConfig{Width: 2000, Height: 2000},
		Mode:  Continental,
		Seed:  seed,
		Coast: CoastConfig{NumRivers: rivers},
	}
}

func mustGenerate(t *testing.T, cfg *Config, field FlowField) *MapGen {
	t.Helper()
	m, err := New(cfg, field)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	if err := m.Generate(); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	return m
}

func TestContinentalCoastline(t *testing.T) {
	field := &straightField{dir: model2d.XY(1, 0.3).Normalize()}
	m := mustGenerate(t, continentalConfig(1337, 0), field)

	if len(m.Coastline) < 2 {
		t.Fatalf("coastline has %d points", len(m.Coastline))
	}
	for _, p := range m.Coastline {
		if !m.world.Contains(p) {
			t.Fatalf("clipped coastline point %v outside world", p)
		}
	}
	if len(m.SeaRings()) == 0 {
		t.Fatal("no sea published")
	}
}

func TestStreamlineEndpointsExitWorld(t *testing.T) {
	field := &straightField{dir: model2d.XY(1, 0.3).Normalize()}
	m := mustGenerate(t, continentalConfig(1337, 0), field)

	if len(m.streamlines) == 0 {
		t.Fatal("no streamline registered")
	}
	sl := m.streamlines[0]
	if m.world.Contains(sl[0]) || m.world.Contains(sl[len(sl)-1]) {
		t.Fatalf("raw streamline endpoints %v / %v did not exit the world",
			sl[0], sl[len(sl)-1])
	}
}

func TestExtendPathPushesEndpoints(t *testing.T) {
	path := []model2d.Coord{
		model2d.XY(0, 0), model2d.XY(1, 0), model2d.XY(2, 0),
	}
	out := extendPath(path, 5)

	if len(out) != 5 {
		t.Fatalf("extended path has %d points, expected 5", len(out))
	}
	if math.Abs(out[0].X+5) > 1e-9 {
		t.Fatalf("head extended to %v, expected x=-5", out[0])
	}
	if math.Abs(out[len(out)-1].X-7) > 1e-9 {
		t.Fatalf("tail extended to %v, expected x=7", out[len(out)-1])
	}
}

func TestSeaAreaWithinWorld(t *testing.T) {
	field := &straightField{dir: model2d.XY(1, 0.3).Normalize()}
	m := mustGenerate(t, continentalConfig(99, 0), field)

	sea := m.water.SeaPolygon()
	if len(sea) == 0 {
		t.Fatal("no sea polygon")
	}
	if area := geometry.PolygonArea(sea); area <= 0 || area > m.world.Area()+1e-6 {
		t.Fatalf("sea area %v outside (0, %v]", area, m.world.Area())
	}
}

func TestIsLandConsistency(t *testing.T) {
	field := &straightField{dir: model2d.XY(1, 0.3).Normalize()}
	m := mustGenerate(t, continentalConfig(7, 0), field)

	// with only a sea published, IsLand must be the exact complement of
	// sea membership
	sea := m.water.SeaPolygon()
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		p := model2d.XY(rng.Float64()*2000, rng.Float64()*2000)
		inSea := geometry.PointInPolygon(p, sea)
		if m.IsLand(p) != !inSea {
			t.Fatalf("point %v: IsLand=%v but inSea=%v", p, m.IsLand(p), inSea)
		}
	}
}

func TestContinentalDeterminism(t *testing.T) {
	field := &straightField{dir: model2d.XY(1, 0.3).Normalize()}
	a := mustGenerate(t, continentalConfig(42, 0), field)
	b := mustGenerate(t, continentalConfig(42, 0), field)

	if len(a.Coastline) != len(b.Coastline) {
		t.Fatalf("coastline lengths differ: %d vs %d", len(a.Coastline), len(b.Coastline))
	}
	for i := range a.Coastline {
		if a.Coastline[i] != b.Coastline[i] {
			t.Fatalf("coastlines diverge at %d: %v vs %v", i, a.Coastline[i], b.Coastline[i])
		}
	}
}

func TestRiverGeneration(t *testing.T) {
	field := &straightField{dir: model2d.XY(1, 0.3).Normalize()}
	m := mustGenerate(t, continentalConfig(1337, 1), field)

	if len(m.RiverRings()) != 1 {
		t.Fatalf("expected 1 river ring, got %d", len(m.RiverRings()))
	}
	if len(m.Rivers) != 1 {
		t.Fatalf("expected 1 river centreline, got %d", len(m.Rivers))
	}
	if len(m.Banks) != 2 {
		t.Fatalf("expected 2 bank roads, got %d", len(m.Banks))
	}

	centre := m.Rivers[0]
	mid := centre[len(centre)/2]
	if m.IsLand(mid) {
		t.Fatalf("river centreline midpoint %v classified as land", mid)
	}

	// hideSea must have been restored after generation
	if m.water.hideSea {
		t.Fatal("hideSea left set after generation")
	}
}

func TestIslandScenario(t *testing.T) {
	cfg := &Config{
		World:     WorldConfig{Width: 2000, Height: 2000},
		Mode:      HeightmapIslands,
		Seed:      1337,
		Heightmap: HeightmapConfig{Size: 256, Smoothness: 0.5},
		Island: IslandConfig{
			NumIslands: 1,
			SeaLevel:   0.0,
			WorldScale: 2.0,
		},
	}
	m := mustGenerate(t, cfg, nil)

	islands := m.Islands()
	if len(islands) != 1 {
		t.Fatalf("expected 1 island, got %d", len(islands))
	}

	coast := islands[0].Coastline
	if len(coast) < 20 {
		t.Fatalf("coastline has %d points, expected at least 20", len(coast))
	}
	if area := geometry.RingArea(coast); area <= 1000 {
		t.Fatalf("coastline area %v, expected above 1000", area)
	}
	if coast[0].Dist(coast[len(coast)-1]) > 1e-3 {
		t.Fatal("island coastline not closed")
	}

	// the island interior is land, the far corner is open sea
	if !m.IsLand(islands[0].Centre) {
		t.Fatal("island centre classified as water")
	}
	if m.IsLand(model2d.XY(1, 1)) {
		t.Fatal("world corner classified as land in island mode")
	}
}

func TestIslandPlacementSeparation(t *testing.T) {
	cfg := &Config{
		World:     WorldConfig{Width: 2000, Height: 2000},
		Mode:      HeightmapIslands,
		Seed:      7,
		Heightmap: HeightmapConfig{Size: 64},
		Island: IslandConfig{
			NumIslands:  3,
			BaseSize:    300,
			MinDistance: 800,
		},
	}
	m := mustGenerate(t, cfg, nil)

	islands := m.Islands()
	if len(islands) == 0 {
		t.Fatal("no islands placed")
	}
	if len(islands) > 3 {
		t.Fatalf("placed %d islands, expected at most 3", len(islands))
	}
	for i := range islands {
		for j := i + 1; j < len(islands); j++ {
			if d := islands[i].Centre.Dist(islands[j].Centre); d < 800 {
				t.Fatalf("islands %d & %d only %v apart", i, j, d)
			}
		}
	}
}

func TestLandmassContinent(t *testing.T) {
	cfg := &Config{
		World: WorldConfig{Width: 2000, Height: 2000},
		Mode:  SolidLandmass,
		Seed:  11,
		Landmass: LandmassConfig{
			Type:        Continent,
			PrimarySize: 0.4,
		},
	}
	m := mustGenerate(t, cfg, nil)

	if len(m.Landmasses()) != 1 {
		t.Fatalf("expected 1 landmass, got %d", len(m.Landmasses()))
	}

	if !m.IsLand(m.world.Centre()) {
		t.Fatal("continent centre classified as water")
	}
	if m.IsLand(model2d.XY(1, 1)) {
		t.Fatal("world corner classified as land")
	}

	sea := m.water.SeaPolygon()
	if area := geometry.PolygonArea(sea); area <= 0 || area >= m.world.Area() {
		t.Fatalf("sea area %v, expected inside (0, %v)", area, m.world.Area())
	}
}

func TestLandmassArchipelago(t *testing.T) {
	cfg := &Config{
		World: WorldConfig{Width: 2000, Height: 2000},
		Mode:  SolidLandmass,
		Seed:  13,
		Landmass: LandmassConfig{
			Type:              Archipelago,
			PrimarySize:       0.2,
			CoastalComplexity: 0.8,
			SecondaryCount:    4,
		},
	}
	m := mustGenerate(t, cfg, nil)

	if len(m.Landmasses()) < 1 {
		t.Fatal("no landmasses generated")
	}
	for i, lm := range m.Landmasses() {
		if lm.Outline[0].Dist(lm.Outline[len(lm.Outline)-1]) > 1e-9 {
			t.Fatalf("landmass %d outline not closed", i)
		}
		if geometry.RingArea(lm.Outline) <= 0 {
			t.Fatalf("landmass %d has no area", i)
		}
	}
}

func TestConfigValidation(t *testing.T) {
	field := &straightField{dir: model2d.XY(1, 0)}

	if _, err := New(&Config{}, field); !errors.Is(err, ErrInvalidWorld) {
		t.Fatalf("zero world accepted: %v", err)
	}

	cfg := continentalConfig(1, 0)
	cfg.Heightmap.Size = 100
	if _, err := New(cfg, field); !errors.Is(err, ErrInvalidGridSize) {
		t.Fatalf("non power-of-two size accepted: %v", err)
	}

	cfg = continentalConfig(1, 0)
	cfg.Island.VolcanoMode = true
	cfg.Island.AtollMode = true
	if _, err := New(cfg, field); !errors.Is(err, ErrExclusiveModes) {
		t.Fatalf("volcano+atoll accepted: %v", err)
	}

	cfg = continentalConfig(1, 0)
	cfg.Mode = SolidLandmass
	cfg.Landmass.Type = LandmassType("pangaea")
	if _, err := New(cfg, field); !errors.Is(err, ErrUnknownLandmassType) {
		t.Fatalf("unknown landmass type accepted: %v", err)
	}

	if _, err := New(continentalConfig(1, 0), nil); !errors.Is(err, ErrNilFlowField) {
		t.Fatalf("nil field accepted for continental mode: %v", err)
	}

	cfg = continentalConfig(1, 0)
	cfg.Island.SeaLevel = 0.5
	cfg.Island.BeachLevel = 0.3
	if _, err := New(cfg, field); !errors.Is(err, ErrInvalidBeachLevel) {
		t.Fatalf("beach level below sea level accepted: %v", err)
	}
}

func TestBeachLevelDefaultsAboveSeaLevel(t *testing.T) {
	field := &straightField{dir: model2d.XY(1, 0)}

	cfg := continentalConfig(1, 0)
	cfg.Island.SeaLevel = 0.5
	m, err := New(cfg, field)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	if bl := m.cfg.Island.BeachLevel; bl <= 0.5 {
		t.Fatalf("beach level defaulted to %v, expected above sea level 0.5", bl)
	}
}

func TestRoundGridSize(t *testing.T) {
	cases := map[int]int{
		-5:  64,
		0:   64,
		64:  64,
		65:  64,
		100: 128,
		200: 256,
		256: 256,
		300: 256,
	}
	for in, want := range cases {
		if got := RoundGridSize(in); got != want {
			t.Fatalf("RoundGridSize(%d) = %d, expected %d", in, got, want)
		}
	}
}

func TestWaterToggles(t *testing.T) {
	world := geometry.NewRect(100, 100)
	w := newWater(world)
	w.publishSea(geometry.ToPolygon(world.Ring()))

	p := model2d.XY(50, 50)
	if w.IsLand(p) {
		t.Fatal("sea interior classified as land")
	}

	prev := w.setHideSea(true)
	if prev {
		t.Fatal("hideSea started set")
	}
	if !w.IsLand(p) {
		t.Fatal("hidden sea still classified as water")
	}
	w.setHideSea(prev)
	if w.IsLand(p) {
		t.Fatal("restored sea not classified as water")
	}
}

func TestIslandsWinOverSea(t *testing.T) {
	// island mode publishes the whole world as sea with the islands on
	// top; points inside an island must still classify as land
	world := geometry.NewRect(100, 100)
	w := newWater(world)
	w.publishSea(geometry.ToPolygon(world.Ring()))

	ring := []model2d.Coord{
		model2d.XY(40, 40), model2d.XY(60, 40),
		model2d.XY(60, 60), model2d.XY(40, 60), model2d.XY(40, 40),
	}
	isl := &IslandFeatures{Coastline: ring, poly: geometry.ToPolygon(ring)}
	w.publishIslands([]*IslandFeatures{isl})

	if !w.IsLand(model2d.XY(50, 50)) {
		t.Fatal("island interior swallowed by the world-spanning sea")
	}
	if w.IsLand(model2d.XY(10, 10)) {
		t.Fatal("open sea point classified as land")
	}
}

func TestIgnoreRiverToggle(t *testing.T) {
	world := geometry.NewRect(100, 100)
	w := newWater(world)
	w.publishRivers([][]model2d.Coord{{
		model2d.XY(40, 0), model2d.XY(60, 0),
		model2d.XY(60, 100), model2d.XY(40, 100), model2d.XY(40, 0),
	}})

	p := model2d.XY(50, 50)
	if w.IsLand(p) {
		t.Fatal("river interior classified as land")
	}

	prev := w.SetIgnoreRiver(true)
	if prev {
		t.Fatal("ignoreRiver started set")
	}
	if !w.IsLand(p) {
		t.Fatal("ignored river still classified as water")
	}
	w.SetIgnoreRiver(prev)
}

func TestOutlineRaster(t *testing.T) {
	field := &straightField{dir: model2d.XY(1, 0.3).Normalize()}
	m := mustGenerate(t, continentalConfig(1337, 0), field)

	o := m.Outline(10)
	land, water, dock := 0, 0, 0
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			b := o.CanBuildOn(x, y)
			w := o.CanBridgeOver(x, y)
			if b && w {
				t.Fatalf("cell (%d,%d) both buildable and bridgeable", x, y)
			}
			if o.SuitableDock(x, y) {
				if !b {
					t.Fatalf("dock cell (%d,%d) not buildable", x, y)
				}
				dock++
			}
			if b {
				land++
			}
			if w {
				water++
			}
		}
	}
	if land == 0 || water == 0 {
		t.Fatalf("raster has %d land / %d water cells, expected both", land, water)
	}
	if dock == 0 {
		t.Fatal("no dock-suitable cells along the coastline")
	}

	// out of range queries are simply false
	if o.CanBuildOn(-1, 0) || o.CanBridgeOver(0, -1) || o.SuitableDock(100000, 0) {
		t.Fatal("out of range query returned true")
	}
}

func TestGenerateResets(t *testing.T) {
	field := &straightField{dir: model2d.XY(1, 0.3).Normalize()}
	m := mustGenerate(t, continentalConfig(5, 1), field)

	firstRivers := len(m.RiverRings())
	if err := m.Generate(); err != nil {
		t.Fatalf("regenerate failed: %v", err)
	}
	if len(m.RiverRings()) > firstRivers {
		t.Fatalf("rivers accumulated across generations: %d then %d",
			firstRivers, len(m.RiverRings()))
	}
	if len(m.streamlines) > 2 {
		t.Fatalf("%d streamlines after regeneration, expected at most 2", len(m.streamlines))
	}
}
