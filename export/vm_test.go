package export

import (
	"bytes"
	"math"
	"testing"

	"github.com/mastercactapus/autonpath/coord"
	"github.com/mastercactapus/autonpath/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVM_MatchesRepopulate(t *testing.T) {
	start := coord.Pose{X: -24, Y: 10, Heading: math.Pi / 2}
	r := route.Route{
		route.NewLateral(1, start, 12, 1, 1000),
		route.NewTurn(2, start, coord.Radians(30), 1, 1000),
		route.NewCommand(3, start, "clamp"),
		route.NewLateral(4, start, -5.5, 1, 1000),
		route.NewTurn(5, start, coord.Radians(-120), 1, 1000),
		route.NewLateral(6, start, 30, 1, 1000),
	}
	r, end := route.Repopulate(r, route.NoEdit, start)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, r))

	vm := NewVM(start)
	require.NoError(t, vm.RunAll(NewParser(&buf)))
	assert.Equal(t, end, vm.Pos())
	assert.Equal(t, []string{"clamp"}, vm.Commands())
	assert.Equal(t, 6, vm.Actions())
	assert.InDelta(t, 47.5, vm.Travel(), 1e-9)
}

func TestVM_Follow(t *testing.T) {
	vm := NewVM(coord.Pose{Heading: 1})
	err := vm.Run(Action{Type: route.Follow, Lookahead: 18, Points: []Point{{0, 0}, {3, 4}, {3, 4}}})
	require.NoError(t, err)
	assert.Equal(t, coord.Pose{X: 3, Y: 4, Heading: math.Atan2(4, 3)}, vm.Pos())
	assert.Equal(t, 5.0, vm.Travel())

	err = vm.Run(Action{Type: route.Follow, Lookahead: -18, Points: []Point{{3, 4}, {3, 0}}})
	require.NoError(t, err)
	assert.Equal(t, coord.Pose{X: 3, Y: 0, Heading: -math.Pi/2 - math.Pi}, vm.Pos())

	assert.Error(t, vm.Run(Action{Type: route.Follow}))
}
