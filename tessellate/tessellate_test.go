package tessellate

import (
	"math"
	"testing"

	"github.com/mastercactapus/autonpath/coord"
	"github.com/mastercactapus/autonpath/route"
	"github.com/stretchr/testify/assert"
)

var start = coord.Pose{Heading: math.Pi / 2}

func TestTessellate_SampleCounts(t *testing.T) {
	tests := []struct {
		name string
		seg  route.Segment
		n    int
	}{
		{"lateral", route.NewLateral(1, start, 12, 1, 1000), 3},
		{"turn", route.NewTurn(2, start, 1, 1, 1000), 20},
		{"command", route.NewCommand(3, start, "clamp"), 20},
		{"follow", route.NewFollow(4, []coord.Pose{{}, {Y: 5}, {X: 5, Y: 5}}, 18, 2, 5000), 20},
		{"two point follow", route.NewFollow(5, []coord.Pose{{}, {X: 5}}, 18, 2, 5000), 20},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.n, SampleCount(tc.seg))

			fr := Tessellate(route.Route{tc.seg}, coord.DefaultField)
			assert.Equal(t, tc.n, fr.Curve.Len())
			assert.Len(t, fr.Curve.Y, tc.n)
			assert.Equal(t, len(tc.seg.Ctrl), fr.Handles.Len())
		})
	}
}

func TestTessellate_SkipsEmpty(t *testing.T) {
	r := route.Route{
		{ID: 1},
		route.NewLateral(2, start, 12, 1, 1000),
		{ID: 3},
	}
	fr := Tessellate(r, coord.DefaultField)
	assert.Equal(t, 3, fr.Curve.Len())
	assert.Equal(t, 2, fr.Handles.Len())
	assert.Len(t, fr.Segments, 3)
}

func TestTessellate_Pixels(t *testing.T) {
	r := route.Route{route.NewLateral(1, coord.Pose{}, 24, 1, 1000)}
	fr := Tessellate(r, coord.DefaultField)

	assert.Equal(t, Pixels{X: []int{638, 677, 716}, Y: []int{339, 339, 339}}, fr.Curve)
	assert.Equal(t, Pixels{X: []int{638, 716}, Y: []int{339, 339}}, fr.Handles)
}

func TestTessellate_Empty(t *testing.T) {
	fr := Tessellate(nil, coord.DefaultField)
	assert.Equal(t, 0, fr.Curve.Len())
	assert.Equal(t, 0, fr.Handles.Len())
}
