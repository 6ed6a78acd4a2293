package geometry

import "math"

// Line represents an infinite line through two distinct points.
type Line struct {
	P1 Point2D `json:"p1"`
	P2 Point2D `json:"p2"`
}

// NewLine creates a new Line.
func NewLine(p1, p2 Point2D) Line {
	return Line{P1: p1, P2: p2}
}

// Delta returns P2 - P1.
func (l Line) Delta() Point2D {
	return l.P2.Sub(l.P1)
}

// XAtY returns the x coordinate where the line crosses the horizontal
// line at y. Returns false for horizontal lines, which never cross it.
func (l Line) XAtY(y float64) (float64, bool) {
	d := l.Delta()
	if d.Y == 0 {
		return 0, false
	}
	t := (y - l.P1.Y) / d.Y
	return l.P1.X + t*d.X, true
}

// Normal returns a vector perpendicular to the line's direction.
func (l Line) Normal() Point2D {
	d := l.Delta()
	return Point2D{X: d.Y, Y: -d.X}
}

// ProjectionDist returns the distance from p to its projection onto the line.
func (l Line) ProjectionDist(p Point2D) float64 {
	d := l.Delta()
	sqlen := d.SquaredNorm()
	if sqlen == 0 {
		return p.Distance(l.P1)
	}
	v := p.Sub(l.P1)
	cross := d.X*v.Y - d.Y*v.X
	return math.Abs(cross) / math.Sqrt(sqlen)
}

// Project returns the projection of p onto the line.
func (l Line) Project(p Point2D) Point2D {
	d := l.Delta()
	sqlen := d.SquaredNorm()
	if sqlen == 0 {
		return l.P1
	}
	t := p.Sub(l.P1).Dot(d) / sqlen
	return l.P1.Add(d.Scale(t))
}

// MapBy returns the line with both points mapped through the transform.
func (l Line) MapBy(t AffineTransform) Line {
	return Line{P1: t.Apply(l.P1), P2: t.Apply(l.P2)}
}
