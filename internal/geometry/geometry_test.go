package geometry

import (
	"math"
	"testing"

	"github.com/ctessum/geom"
	"github.com/unixpickle/model3d/model2d"
)

func TestRectContains(t *testing.T) {
	r := NewRect(100, 50)

	for _, p := range []model2d.Coord{
		model2d.XY(0, 0), model2d.XY(100, 50), model2d.XY(50, 25), model2d.XY(100, 0),
	} {
		if !r.Contains(p) {
			t.Fatalf("%v should be contained", p)
		}
	}
	for _, p := range []model2d.Coord{
		model2d.XY(-1, 0), model2d.XY(101, 25), model2d.XY(50, 51),
	} {
		if r.Contains(p) {
			t.Fatalf("%v should not be contained", p)
		}
	}

	if r.ContainsStrict(model2d.XY(0, 0)) {
		t.Fatal("border point should fail the strict test")
	}
	if !r.ContainsStrict(model2d.XY(50, 25)) {
		t.Fatal("interior point should pass the strict test")
	}
}

func TestRingArea(t *testing.T) {
	r := NewRect(10, 20)
	if a := RingArea(r.Ring()); math.Abs(a-200) > 1e-9 {
		t.Fatalf("ring area = %v, expected 200", a)
	}
	if a := r.Area(); math.Abs(a-200) > 1e-9 {
		t.Fatalf("rect area = %v, expected 200", a)
	}
}

func TestConvexHullDropsInterior(t *testing.T) {
	square := []model2d.Coord{
		model2d.XY(0, 0), model2d.XY(10, 0), model2d.XY(10, 10), model2d.XY(0, 10),
		model2d.XY(5, 5), model2d.XY(3, 7), // interior
	}
	hull := ConvexHull(square)
	if len(hull) != 4 {
		t.Fatalf("hull has %d points, expected 4: %v", len(hull), hull)
	}
	if a := RingArea(hull); math.Abs(a-100) > 1e-9 {
		t.Fatalf("hull area = %v, expected 100", a)
	}
}

func TestResampleSpacing(t *testing.T) {
	path := []model2d.Coord{model2d.XY(0, 0), model2d.XY(10, 0)}
	out := Resample(path, 1)

	if out[0] != path[0] || out[len(out)-1] != path[1] {
		t.Fatal("resample must preserve endpoints")
	}
	if len(out) < 10 {
		t.Fatalf("resample produced %d points, expected about 11", len(out))
	}
	for i := 1; i < len(out)-1; i++ {
		d := out[i].Dist(out[i-1])
		if math.Abs(d-1) > 1e-9 {
			t.Fatalf("spacing %v at index %d, expected 1", d, i)
		}
	}
}

func TestOffsetDistance(t *testing.T) {
	path := []model2d.Coord{model2d.XY(0, 0), model2d.XY(10, 0), model2d.XY(20, 0)}
	out := Offset(path, 2)

	if len(out) != len(path) {
		t.Fatalf("offset changed point count: %d", len(out))
	}
	for i, p := range out {
		if math.Abs(p.Dist(path[i])-2) > 1e-9 {
			t.Fatalf("point %d displaced by %v, expected 2", i, p.Dist(path[i]))
		}
	}
	// all displaced to the same side of a straight line
	for _, p := range out[1:] {
		if (p.Y > 0) != (out[0].Y > 0) {
			t.Fatal("offset points ended on different sides")
		}
	}
}

func TestSimplifyReducesVertices(t *testing.T) {
	// a nearly straight jittered line collapses to few vertices
	var path []model2d.Coord
	for i := 0; i <= 100; i++ {
		jitter := 0.01 * float64(i%2)
		path = append(path, model2d.XY(float64(i), jitter))
	}

	out := Simplify(path, 0.5)
	if len(out) >= len(path) {
		t.Fatalf("simplify kept %d of %d vertices", len(out), len(path))
	}
	if out[0] != path[0] || out[len(out)-1] != path[len(path)-1] {
		t.Fatal("simplify must preserve endpoints")
	}
}

func TestPolygonRoundTrip(t *testing.T) {
	ring := NewRect(10, 10).Ring()
	poly := ToPolygon(ring)

	if a := PolygonArea(poly); math.Abs(a-100) > 1e-9 {
		t.Fatalf("polygon area = %v, expected 100", a)
	}

	back := FromPolygon(poly)
	if len(back) != 1 {
		t.Fatalf("round trip produced %d rings", len(back))
	}
	if first, last := back[0][0], back[0][len(back[0])-1]; first != last {
		t.Fatal("round-tripped ring is not closed")
	}
}

func TestPointInPolygon(t *testing.T) {
	poly := ToPolygon(NewRect(10, 10).Ring())

	if !PointInPolygon(model2d.XY(5, 5), poly) {
		t.Fatal("interior point classified outside")
	}
	if PointInPolygon(model2d.XY(15, 5), poly) {
		t.Fatal("exterior point classified inside")
	}
	if PointInPolygon(model2d.XY(5, 5), nil) {
		t.Fatal("empty polygon should contain nothing")
	}
}

func TestBooleanOps(t *testing.T) {
	a := ToPolygon(NewRect(10, 10).Ring())
	b := ToPolygon(Rect{Min: model2d.XY(5, 0), Max: model2d.XY(15, 10)}.Ring())

	union := a.Union(b).(geom.Polygon)
	if ar := PolygonArea(union); math.Abs(ar-150) > 1e-6 {
		t.Fatalf("union area = %v, expected 150", ar)
	}

	diff := a.Difference(b).(geom.Polygon)
	if ar := PolygonArea(diff); math.Abs(ar-50) > 1e-6 {
		t.Fatalf("difference area = %v, expected 50", ar)
	}

	inter := a.Intersection(b).(geom.Polygon)
	if ar := PolygonArea(inter); math.Abs(ar-50) > 1e-6 {
		t.Fatalf("intersection area = %v, expected 50", ar)
	}
}
