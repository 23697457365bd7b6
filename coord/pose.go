package coord

import (
	"math"
)

// Pose is a field position in inches with a heading in radians.
//
// Heading may be NaN when it is undefined.
type Pose struct{ X, Y, Heading float64 }

func (p Pose) Equal(b Pose) bool {
	return p.X == b.X && p.Y == b.Y && sameHeading(p.Heading, b.Heading)
}

func sameHeading(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return a == b
}

// SamePosition returns true if p and b share X and Y, ignoring heading.
func (p Pose) SamePosition(b Pose) bool {
	return p.X == b.X && p.Y == b.Y
}

// WithHeading returns p with its heading replaced.
func (p Pose) WithHeading(h float64) Pose {
	p.Heading = h
	return p
}

// Displace will move p by d inches along its own heading.
// The heading is left unchanged.
func (p Pose) Displace(d float64) Pose {
	p.X += d * math.Cos(p.Heading)
	p.Y += d * math.Sin(p.Heading)
	return p
}

// DistanceXY will return the 2D distance to p from (x,y).
func (p Pose) DistanceXY(x, y float64) float64 {
	return math.Sqrt(math.Pow(x-p.X, 2) + math.Pow(y-p.Y, 2))
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b Pose) float64 {
	return a.DistanceXY(b.X, b.Y)
}

// HeadingTo returns the angle of the vector from -> to.
func HeadingTo(from, to Pose) float64 {
	return math.Atan2(to.Y-from.Y, to.X-from.X)
}

func Radians(deg float64) float64 { return deg * math.Pi / 180 }
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }
