package document

import (
	"math"

	"github.com/artdeck/artdeck-go/internal/geometry"
)

// circleRingSlack widens the ring test around a circle's outline.
const circleRingSlack = 2

// HitByStroke reports whether an erase stroke touches the shape, where
// threshold is the brush radius in document units.
//
// The bounding box expanded by threshold pre-filters stroke points. Circles,
// lines and arrows then get a tighter per-point check; the other variants
// count a box hit as a hit. Lines additionally test stroke segments for
// crossing or proximity, and freehand paths test segment proximity.
func HitByStroke(s Shape, stroke []geometry.Point, threshold float64) bool {
	if s.Geometry == nil || len(stroke) == 0 {
		return false
	}

	box := s.Bounds().Expand(threshold)
	for _, p := range stroke {
		if !box.Contains(p) {
			continue
		}
		if pointHits(s.Geometry, p, threshold) {
			return true
		}
	}

	switch g := s.Geometry.(type) {
	case Line:
		return strokeNearSegment(stroke, g.Segment(), threshold)
	case Freehand:
		for _, seg := range geometry.Polyline(g.Points) {
			if strokeWithin(stroke, seg, threshold) {
				return true
			}
		}
	}
	return false
}

// pointHits is the per-variant check for a point already inside the
// expanded bounding box.
func pointHits(g Geometry, p geometry.Point, threshold float64) bool {
	switch g := g.(type) {
	case Circle:
		dist := math.Hypot(p.X-g.CenterX, p.Y-g.CenterY)
		if math.Abs(dist-g.Radius) <= threshold+circleRingSlack {
			return true
		}
		return dist <= g.Radius+threshold
	case Line:
		seg := g.Segment()
		return geometry.PointToSegmentDistance(p, seg.A, seg.B) <= threshold
	case Arrow:
		seg := g.Segment()
		return geometry.PointToSegmentDistance(p, seg.A, seg.B) <= threshold
	default:
		return true
	}
}

func strokeNearSegment(stroke []geometry.Point, target geometry.Segment, threshold float64) bool {
	for _, seg := range geometry.Polyline(stroke) {
		if geometry.SegmentsIntersect(seg, target) {
			return true
		}
		if geometry.SegmentToSegmentMinDistance(seg, target) <= threshold {
			return true
		}
	}
	return false
}

func strokeWithin(stroke []geometry.Point, target geometry.Segment, threshold float64) bool {
	for _, seg := range geometry.Polyline(stroke) {
		if geometry.SegmentToSegmentMinDistance(target, seg) <= threshold {
			return true
		}
	}
	return false
}

// HitTest returns the shapes touched by an erase stroke, in z-order.
func (d *Document) HitTest(stroke []geometry.Point, threshold float64) []Shape {
	var hits []Shape
	for _, s := range d.shapes {
		if HitByStroke(s, stroke, threshold) {
			hits = append(hits, s.Clone())
		}
	}
	return hits
}

// TopmostAt returns the frontmost shape whose bounding box, grown by slack,
// contains p. It backs the select tool.
func (d *Document) TopmostAt(p geometry.Point, slack float64) (Shape, bool) {
	for i := len(d.shapes) - 1; i >= 0; i-- {
		s := d.shapes[i]
		if s.Bounds().Expand(slack).Contains(p) {
			return s.Clone(), true
		}
	}
	return Shape{}, false
}
