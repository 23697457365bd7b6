// Package tessellate samples route segments into pixel point lists for
// drawing the path and its draggable control points.
package tessellate

import (
	"log"

	"github.com/mastercactapus/autonpath/coord"
	"github.com/mastercactapus/autonpath/route"
)

const (
	// LineSamples is used for a two-point lateral move; a straight line
	// only needs its endpoints and a midpoint.
	LineSamples = 3

	// CurveSamples is used for everything else.
	CurveSamples = 20
)

// Pixels is a list of screen points stored as parallel X and Y slices.
type Pixels struct {
	X []int `json:"x"`
	Y []int `json:"y"`
}

func (p *Pixels) add(px, py int) {
	p.X = append(p.X, px)
	p.Y = append(p.Y, py)
}

// Len returns the number of points.
func (p Pixels) Len() int { return len(p.X) }

// Frame is everything a renderer needs to draw a route.
type Frame struct {
	// Curve is the sampled path.
	Curve Pixels

	// Handles are the raw control points.
	Handles Pixels

	Segments route.Route
}

// SampleCount returns how many points Tessellate samples for s.
func SampleCount(s route.Segment) int {
	if len(s.Ctrl) == 2 && s.IsLateral() {
		return LineSamples
	}
	return CurveSamples
}

// Tessellate converts r into screen points using f.
//
// A segment that cannot be sampled is logged and left out; the rest of
// the route is still drawn.
func Tessellate(r route.Route, f coord.Field) Frame {
	fr := Frame{Segments: r}

	for i, s := range r {
		if len(s.Ctrl) == 0 {
			continue
		}
		xs, ys, err := coord.Bezier(s.Ctrl, SampleCount(s))
		if err != nil {
			log.Printf("ERROR: sample segment %d (id=%d): %+v", i, s.ID, err)
			continue
		}
		for k := range xs {
			fr.Curve.add(f.PixelX(xs[k]), f.PixelY(ys[k]))
		}
	}

	for _, s := range r {
		for _, p := range s.Ctrl {
			fr.Handles.add(f.ToPixel(p.X, p.Y))
		}
	}

	return fr
}
