// Package geometry holds the small amount of 2D plumbing shared by the
// generators: world rectangles, convex hulls, polyline resampling and
// conversions into the ctessum/geom types used for boolean operations.
package geometry

import (
	"math"
	"sort"

	"github.com/ctessum/geom"
	"github.com/unixpickle/model3d/model2d"
)

// Rect is an axis-aligned world-space rectangle.
type Rect struct {
	Min, Max model2d.Coord
}

// NewRect builds a rect from origin (0,0) with the given dimensions.
func NewRect(width, height float64) Rect {
	return Rect{Min: model2d.Coord{}, Max: model2d.XY(width, height)}
}

// Contains reports whether p lies inside the rect (borders included).
func (r Rect) Contains(p model2d.Coord) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// ContainsStrict reports whether p lies strictly inside the rect.
func (r Rect) ContainsStrict(p model2d.Coord) bool {
	return p.X > r.Min.X && p.X < r.Max.X && p.Y > r.Min.Y && p.Y < r.Max.Y
}

// Width of the rect.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height of the rect.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Area of the rect.
func (r Rect) Area() float64 { return r.Width() * r.Height() }

// Centre of the rect.
func (r Rect) Centre() model2d.Coord {
	return r.Min.Mid(r.Max)
}

// Ring returns the rect as a closed clockwise ring.
func (r Rect) Ring() []model2d.Coord {
	return []model2d.Coord{
		r.Min,
		model2d.XY(r.Max.X, r.Min.Y),
		r.Max,
		model2d.XY(r.Min.X, r.Max.Y),
		r.Min,
	}
}

// Corners returns the rect corners in boundary order (no closing repeat).
func (r Rect) Corners() []model2d.Coord {
	return []model2d.Coord{
		r.Min,
		model2d.XY(r.Max.X, r.Min.Y),
		r.Max,
		model2d.XY(r.Min.X, r.Max.Y),
	}
}

// RingArea returns the absolute shoelace area of a ring (closed or not).
func RingArea(ring []model2d.Coord) float64 {
	if len(ring) < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < len(ring); i++ {
		a, b := ring[i], ring[(i+1)%len(ring)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return math.Abs(sum / 2)
}

// Length returns the total length of a polyline.
func Length(path []model2d.Coord) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += path[i].Dist(path[i-1])
	}
	return total
}

// ConvexHull returns the convex hull of the given points in boundary
// order (Andrew monotone chain). The input is not modified; fewer than
// 3 points are returned as-is.
func ConvexHull(points []model2d.Coord) []model2d.Coord {
	if len(points) < 3 {
		return append([]model2d.Coord{}, points...)
	}

	pts := append([]model2d.Coord{}, points...)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	cw := func(o, a, b model2d.Coord) bool {
		return (a.X-o.X)*(b.Y-o.Y)-(a.Y-o.Y)*(b.X-o.X) <= 0
	}

	var lower []model2d.Coord
	for _, p := range pts {
		for len(lower) >= 2 && cw(lower[len(lower)-2], lower[len(lower)-1], p) {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	var upper []model2d.Coord
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cw(upper[len(upper)-2], upper[len(upper)-1], p) {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

// Resample re-subdivides a polyline to (approximately) uniform spacing.
// The first & last points are preserved exactly.
func Resample(path []model2d.Coord, spacing float64) []model2d.Coord {
	if len(path) < 2 || spacing <= 0 {
		return append([]model2d.Coord{}, path...)
	}

	out := []model2d.Coord{path[0]}
	carried := 0.0
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		seg := a.Dist(b)
		if seg == 0 {
			continue
		}
		dir := b.Sub(a).Scale(1 / seg)
		pos := spacing - carried
		for pos < seg {
			out = append(out, a.Add(dir.Scale(pos)))
			pos += spacing
		}
		carried = seg - (pos - spacing)
	}
	out = append(out, path[len(path)-1])
	return out
}

// Offset displaces every vertex of a polyline perpendicular to its local
// tangent by dist (positive = left of travel). Endpoints use their single
// adjacent segment; interior points average the two segment normals.
func Offset(path []model2d.Coord, dist float64) []model2d.Coord {
	if len(path) < 2 {
		return append([]model2d.Coord{}, path...)
	}

	normal := func(a, b model2d.Coord) model2d.Coord {
		d := b.Sub(a)
		n := d.Norm()
		if n == 0 {
			return model2d.Coord{}
		}
		return model2d.XY(-d.Y/n, d.X/n)
	}

	out := make([]model2d.Coord, len(path))
	for i := range path {
		var n model2d.Coord
		switch {
		case i == 0:
			n = normal(path[0], path[1])
		case i == len(path)-1:
			n = normal(path[len(path)-2], path[len(path)-1])
		default:
			n = normal(path[i-1], path[i]).Add(normal(path[i], path[i+1]))
			if l := n.Norm(); l > 0 {
				n = n.Scale(1 / l)
			}
		}
		out[i] = path[i].Add(n.Scale(dist))
	}
	return out
}

// Simplify reduces polyline vertices within the given tolerance via the
// geom library's Douglas-Peucker implementation. Endpoints survive.
func Simplify(path []model2d.Coord, tolerance float64) []model2d.Coord {
	if len(path) < 3 || tolerance <= 0 {
		return append([]model2d.Coord{}, path...)
	}
	ls := ToLineString(path)
	simplified, ok := ls.Simplify(tolerance).(geom.LineString)
	if !ok || len(simplified) < 2 {
		return append([]model2d.Coord{}, path...)
	}
	return FromPoints(simplified)
}

// ToPolygon converts a ring to a single-ring geom.Polygon. The ring is
// closed implicitly by geom; a trailing duplicate point is dropped.
func ToPolygon(ring []model2d.Coord) geom.Polygon {
	pts := ring
	if len(pts) > 1 && pts[0].Dist(pts[len(pts)-1]) < 1e-9 {
		pts = pts[:len(pts)-1]
	}
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[i] = geom.Point{X: p.X, Y: p.Y}
	}
	return geom.Polygon{out}
}

// ToLineString converts a polyline to a geom.LineString.
func ToLineString(path []model2d.Coord) geom.LineString {
	out := make(geom.LineString, len(path))
	for i, p := range path {
		out[i] = geom.Point{X: p.X, Y: p.Y}
	}
	return out
}

// FromPoints converts geom points back into coords.
func FromPoints(pts []geom.Point) []model2d.Coord {
	out := make([]model2d.Coord, len(pts))
	for i, p := range pts {
		out[i] = model2d.XY(p.X, p.Y)
	}
	return out
}

// FromPolygon converts every ring of a geom.Polygon back into coord rings,
// each closed with a repeated first point.
func FromPolygon(poly geom.Polygon) [][]model2d.Coord {
	out := make([][]model2d.Coord, 0, len(poly))
	for _, ring := range poly {
		if len(ring) < 3 {
			continue
		}
		r := FromPoints(ring)
		r = append(r, r[0])
		out = append(out, r)
	}
	return out
}

// PointInPolygon reports whether p sits strictly inside the polygon
// (holes respected).
func PointInPolygon(p model2d.Coord, poly geom.Polygon) bool {
	if len(poly) == 0 {
		return false
	}
	return geom.Point{X: p.X, Y: p.Y}.Within(poly) == geom.Inside
}

// PolygonArea returns the absolute area of a geom polygon.
func PolygonArea(poly geom.Polygon) float64 {
	return math.Abs(poly.Area())
}
