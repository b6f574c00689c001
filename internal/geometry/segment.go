// Package geometry holds the planar math used by hit-testing and the viewport.
package geometry

import "math"

// Point is a position in document space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Segment is the closed line segment between A and B.
type Segment struct {
	A Point
	B Point
}

// Seg is shorthand for building a Segment from raw coordinates.
func Seg(x1, y1, x2, y2 float64) Segment {
	return Segment{A: Point{X: x1, Y: y1}, B: Point{X: x2, Y: y2}}
}

// Distance returns the euclidean distance between two points.
func Distance(p, q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// PointToSegmentDistance returns the distance from p to the closest point of
// segment ab. The projection is clamped to the endpoints; a zero-length
// segment degrades to a point distance.
func PointToSegmentDistance(p, a, b Point) float64 {
	cx := b.X - a.X
	cy := b.Y - a.Y
	lenSq := cx*cx + cy*cy

	if lenSq == 0 {
		return Distance(p, a)
	}

	t := ((p.X-a.X)*cx + (p.Y-a.Y)*cy) / lenSq

	var closest Point
	switch {
	case t < 0:
		closest = a
	case t > 1:
		closest = b
	default:
		closest = Point{X: a.X + t*cx, Y: a.Y + t*cy}
	}
	return Distance(p, closest)
}

// ccw reports whether a, b, c make a strict counter-clockwise turn.
func ccw(a, b, c Point) bool {
	return (c.Y-a.Y)*(b.X-a.X) > (b.Y-a.Y)*(c.X-a.X)
}

// SegmentsIntersect reports whether s1 and s2 properly cross. Collinear
// overlap is not reported as an intersection.
func SegmentsIntersect(s1, s2 Segment) bool {
	return ccw(s1.A, s2.A, s2.B) != ccw(s1.B, s2.A, s2.B) &&
		ccw(s1.A, s1.B, s2.A) != ccw(s1.A, s1.B, s2.B)
}

// SegmentToSegmentMinDistance approximates the minimum distance between two
// segments as the smallest endpoint-to-opposite-segment distance. Crossing
// segments can report a positive value; pair it with SegmentsIntersect when
// that matters.
func SegmentToSegmentMinDistance(s1, s2 Segment) float64 {
	d1 := PointToSegmentDistance(s1.A, s2.A, s2.B)
	d2 := PointToSegmentDistance(s1.B, s2.A, s2.B)
	d3 := PointToSegmentDistance(s2.A, s1.A, s1.B)
	d4 := PointToSegmentDistance(s2.B, s1.A, s1.B)
	return min(d1, d2, d3, d4)
}

// Polyline turns an ordered point list into consecutive segments.
func Polyline(points []Point) []Segment {
	if len(points) < 2 {
		return nil
	}
	segs := make([]Segment, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		segs = append(segs, Segment{A: points[i-1], B: points[i]})
	}
	return segs
}
