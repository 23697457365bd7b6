package route

import (
	"math"

	"github.com/mastercactapus/autonpath/coord"
)

// Edit locates the control point that was just changed by the user.
// The start point of the edited segment is kept as-is by Repopulate.
type Edit struct {
	Segment, Point int
}

// NoEdit marks a pass where every start point inherits continuity.
var NoEdit = Edit{Segment: -1, Point: -1}

func (e Edit) keepsStart(i int) bool {
	return e.Segment == i && e.Point == 0
}

// Repopulate recomputes every segment's control points from start so
// that each segment begins where the previous one ended.
//
// The input route is not modified. The returned pose is the pose
// reached at the end of the route (start if the route has no
// control points).
//
// Running Repopulate a second time with NoEdit and the same start is a
// no-op on its result, provided the first pass did not keep a start
// point that disagrees with its predecessor.
func Repopulate(r Route, edited Edit, start coord.Pose) (Route, coord.Pose) {
	r = r.Clone()
	curr := start

	for i := range r {
		s := &r[i]
		if len(s.Ctrl) == 0 {
			continue
		}
		j := len(s.Ctrl) - 1

		if !edited.keepsStart(i) {
			s.Ctrl[0] = curr
		}

		// Only Follow ends take the tangent heading. Lateral and Command
		// keep the inherited heading so a reversed or zero-length move
		// does not turn the robot.
		switch s.kind {
		case Lateral:
			s.Ctrl[j] = curr.Displace(s.distance)
		case Turn:
			s.Ctrl[j] = s.Ctrl[0].WithHeading(s.angle)
		case Command:
			s.Ctrl[0] = curr
			s.Ctrl[j] = s.Ctrl[0]
		case Follow:
			if j > 0 {
				s.Ctrl[j].Heading = endHeading(s.Ctrl[j-1], s.Ctrl[j], s.Ctrl[j].Heading, s.Lookahead)
			}
		}

		curr = s.Ctrl[j]
	}

	return r, curr
}

// endHeading is the tangent of the final curve piece, reversed when the
// curve is driven backward. A zero-length tangent keeps the old heading.
func endHeading(prev, last coord.Pose, old, lookahead float64) float64 {
	if prev.SamePosition(last) {
		return old
	}
	h := coord.HeadingTo(prev, last)
	if lookahead < 0 {
		h -= math.Pi
	}
	return h
}
