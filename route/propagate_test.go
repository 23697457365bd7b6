package route

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/mastercactapus/autonpath/coord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cmpRoute = []cmp.Option{
	cmp.AllowUnexported(Segment{}),
	cmpopts.EquateNaNs(),
}

var startPose = coord.Pose{X: 0, Y: 0, Heading: math.Pi / 2}

// mixedRoute is deliberately out of sync; Repopulate has to fix it.
func mixedRoute() Route {
	return Route{
		NewFollow(1, []coord.Pose{{X: 5, Y: 5}, {X: 0, Y: 20, Heading: -1}, {X: 20, Y: 20}}, 18, 2, 5000),
		NewLateral(2, coord.Pose{}, 12, 1, 1000),
		{ID: 3},
		NewTurn(4, coord.Pose{}, coord.Radians(180), 1, 1000),
		NewCommand(5, coord.Pose{X: -3}, "intake"),
		NewFollow(6, []coord.Pose{{}, {X: 30, Y: 40}, {X: 40, Y: 40}, {X: 10, Y: 10}}, -12, 2, 5000),
		NewLateral(7, coord.Pose{}, -6, 1, 1000),
	}
}

func TestRepopulate_Scenario(t *testing.T) {
	r := Route{
		NewLateral(1, startPose, 12, 1, 1000),
	}
	end, _ := r[0].End()
	r = append(r, NewTurn(2, end, coord.Radians(90), 1, 1000))

	r, curr := Repopulate(r, NoEdit, startPose)
	require.Len(t, r, 2)

	lat := r[0].Ctrl[1]
	assert.InDelta(t, 0, lat.X, 1e-9)
	assert.InDelta(t, 12, lat.Y, 1e-9)
	assert.InDelta(t, math.Pi/2, lat.Heading, 1e-9)

	for _, p := range r[1].Ctrl {
		assert.InDelta(t, 0, p.X, 1e-9)
		assert.InDelta(t, 12, p.Y, 1e-9)
		assert.InDelta(t, math.Pi/2, p.Heading, 1e-9)
	}
	assert.Equal(t, r[1].Ctrl[1], curr)
}

func TestRepopulate_Idempotent(t *testing.T) {
	edits := []Edit{NoEdit, {Segment: 0, Point: 0}, {Segment: 0, Point: 1}, {Segment: 5, Point: 2}}
	starts := []coord.Pose{startPose, {X: -30, Y: 12, Heading: 0}, {X: 1, Y: 1, Heading: -2.5}}
	for _, e := range edits {
		for _, s := range starts {
			once, end1 := Repopulate(mixedRoute(), e, s)
			twice, end2 := Repopulate(once, Edit{}, s)
			assert.Empty(t, cmp.Diff(once, twice, cmpRoute...), "edit %+v start %+v", e, s)
			assert.Equal(t, end1, end2)

			thrice, _ := Repopulate(twice, NoEdit, s)
			if e.Point != 0 {
				assert.Empty(t, cmp.Diff(once, thrice, cmpRoute...))
			}
		}
	}
}

func TestRepopulate_Continuity(t *testing.T) {
	for _, e := range []Edit{NoEdit, {Segment: 5, Point: 1}, {Segment: 0, Point: 2}} {
		r, end := Repopulate(mixedRoute(), e, startPose)

		first, _ := r[0].Start()
		assert.Equal(t, startPose, first)

		prev := -1
		for i := range r {
			if len(r[i].Ctrl) == 0 {
				continue
			}
			if prev >= 0 {
				a, _ := r[prev].End()
				b, _ := r[i].Start()
				assert.Equal(t, a, b, "segments %d -> %d", prev, i)
			}
			prev = i
		}
		last, _ := r[len(r)-1].End()
		assert.Equal(t, last, end)
	}
}

func TestRepopulate_KeepsEditedStart(t *testing.T) {
	moved := coord.Pose{X: 50, Y: 50, Heading: 1}
	r := mixedRoute()
	r, _ = Repopulate(r, NoEdit, startPose)
	r[5].Ctrl[0] = moved

	out, _ := Repopulate(r, Edit{Segment: 5, Point: 0}, startPose)
	assert.Equal(t, moved, out[5].Ctrl[0])

	out, _ = Repopulate(r, Edit{Segment: 5, Point: 1}, startPose)
	assert.NotEqual(t, moved, out[5].Ctrl[0])
}

func TestRepopulate_DoesNotMutateInput(t *testing.T) {
	in := mixedRoute()
	before := in.Clone()
	Repopulate(in, NoEdit, startPose)
	assert.Empty(t, cmp.Diff(before, in, cmpRoute...))
}

func TestRepopulate_LateralDisplacement(t *testing.T) {
	for _, h := range []float64{0, 0.3, math.Pi / 2, -2, math.Pi} {
		s := coord.Pose{X: 3, Y: -4, Heading: h}
		for _, d := range []float64{12, -7.5, 0} {
			r, end := Repopulate(Route{NewLateral(1, coord.Pose{}, d, 1, 1)}, NoEdit, s)
			assert.InDelta(t, s.X+d*math.Cos(h), end.X, 1e-9)
			assert.InDelta(t, s.Y+d*math.Sin(h), end.Y, 1e-9)
			assert.Equal(t, h, end.Heading)
			if d == 0 {
				assert.Equal(t, r[0].Ctrl[0], r[0].Ctrl[1])
			}
		}
	}
}

func TestRepopulate_ReverseHeading(t *testing.T) {
	configs := [][]coord.Pose{
		{{}, {X: 10, Y: 0}, {X: 10, Y: 10}},
		{{}, {X: -4, Y: 7}, {X: -10, Y: -3}},
		{{}, {X: 1, Y: 1}, {X: 2, Y: -5}, {X: 9, Y: 3}},
		{{}, {X: 0, Y: -8}},
	}
	for _, ctrl := range configs {
		for _, la := range []float64{-18, 18} {
			r, _ := Repopulate(Route{NewFollow(1, ctrl, la, 2, 5000)}, NoEdit, coord.Pose{Heading: 0.25})
			n := len(r[0].Ctrl)
			want := math.Atan2(r[0].Ctrl[n-1].Y-r[0].Ctrl[n-2].Y, r[0].Ctrl[n-1].X-r[0].Ctrl[n-2].X)
			if la < 0 {
				want -= math.Pi
			}
			assert.Equal(t, want, r[0].Ctrl[n-1].Heading)
		}
	}
}

func TestRepopulate_TurnAndCommand(t *testing.T) {
	s := coord.Pose{X: 2, Y: 3, Heading: 0.4}
	r, end := Repopulate(Route{
		NewTurn(1, coord.Pose{}, 1.2, 1, 1),
		NewCommand(2, coord.Pose{X: 99}, "clamp"),
	}, NoEdit, s)

	assert.Equal(t, s, r[0].Ctrl[0])
	assert.Equal(t, coord.Pose{X: 2, Y: 3, Heading: 1.2}, r[0].Ctrl[1])
	assert.Equal(t, r[0].Ctrl[1], r[1].Ctrl[0])
	assert.Equal(t, r[1].Ctrl[0], r[1].Ctrl[1])
	assert.Equal(t, coord.Pose{X: 2, Y: 3, Heading: 1.2}, end)
}

func TestRepopulate_EmptySegments(t *testing.T) {
	r, end := Repopulate(Route{{ID: 1}, {ID: 2, Ctrl: []coord.Pose{{X: 7}}}}, NoEdit, startPose)
	assert.Empty(t, r[0].Ctrl)
	// a single control point is pinned to the incoming pose
	assert.Equal(t, startPose, r[1].Ctrl[0])
	assert.Equal(t, startPose, end)

	_, end = Repopulate(nil, NoEdit, startPose)
	assert.Equal(t, startPose, end)
}
