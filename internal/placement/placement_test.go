package placement

import (
	"math/rand"
	"testing"

	"github.com/unixpickle/model3d/model2d"
)

func TestAddRandomInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := NewSampler(model2d.XY(10, 20), model2d.XY(110, 220), rng)

	for i := 0; i < 100; i++ {
		p, ok := s.AddRandom()
		if !ok {
			t.Fatalf("unfiltered draw %d rejected", i)
		}
		if p.X < 10 || p.X > 110 || p.Y < 20 || p.Y > 220 {
			t.Fatalf("draw %d out of bounds: %v", i, p)
		}
	}
	if len(s.Accepted()) != 100 {
		t.Fatalf("accepted %d points, expected 100", len(s.Accepted()))
	}
}

func TestCandidateFilter(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	s := NewSampler(model2d.Coord{}, model2d.XY(100, 100), rng)
	s.SetCandidateFilters(func(p model2d.Coord) bool { return p.X < 50 })

	for i := 0; i < 200; i++ {
		s.AddRandom()
	}
	for _, p := range s.Accepted() {
		if p.X >= 50 {
			t.Fatalf("filter leaked %v", p)
		}
	}
	if len(s.Accepted()) == 0 {
		t.Fatal("filter rejected everything")
	}
}

func TestMinDistance(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	s := NewSampler(model2d.Coord{}, model2d.XY(1000, 1000), rng)
	s.SetSiteFilters(MinDistance(100))

	for i := 0; i < 500; i++ {
		s.AddRandom()
	}

	pts := s.Accepted()
	if len(pts) < 2 {
		t.Fatalf("only %d points accepted", len(pts))
	}
	for i := range pts {
		for j := i + 1; j < len(pts); j++ {
			if d := pts[i].Dist(pts[j]); d < 100 {
				t.Fatalf("points %d and %d only %v apart", i, j, d)
			}
		}
	}
}

func TestAddRespectsFilters(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	s := NewSampler(model2d.Coord{}, model2d.XY(100, 100), rng)
	s.SetSiteFilters(MinDistance(10))

	if !s.Add(model2d.XY(50, 50)) {
		t.Fatal("first add rejected")
	}
	if s.Add(model2d.XY(52, 50)) {
		t.Fatal("add inside the separation radius accepted")
	}
	if !s.Add(model2d.XY(80, 50)) {
		t.Fatal("add outside the separation radius rejected")
	}
}
