package coord

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBezier_Empty(t *testing.T) {
	_, _, err := Bezier(nil, 20)
	assert.Equal(t, ErrEmptyCurve, err)
}

func TestBezier_Line(t *testing.T) {
	xs, ys, err := Bezier([]Pose{{X: 0, Y: 0}, {X: 10, Y: 20}}, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 5, 10}, xs)
	assert.Equal(t, []float64{0, 10, 20}, ys)
}

func TestBezier_Quadratic(t *testing.T) {
	pts := []Pose{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}}
	xs, ys, err := Bezier(pts, 20)
	require.NoError(t, err)
	require.Len(t, xs, 20)
	require.Len(t, ys, 20)

	// endpoints are interpolated
	assert.Equal(t, 0.0, xs[0])
	assert.Equal(t, 0.0, ys[0])
	assert.InDelta(t, 10, xs[19], 1e-9)
	assert.InDelta(t, 10, ys[19], 1e-9)

	// B(0.5) = 0.25*P0 + 0.5*P1 + 0.25*P2
	xs, ys, err = Bezier(pts, 3)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, xs[1], 1e-9)
	assert.InDelta(t, 7.5, ys[1], 1e-9)
}

func TestBezier_SinglePoint(t *testing.T) {
	xs, ys, err := Bezier([]Pose{{X: 4, Y: -2}}, 5)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 4, 4, 4, 4}, xs)
	assert.Equal(t, []float64{-2, -2, -2, -2, -2}, ys)
}

func TestBezier_SampleCount(t *testing.T) {
	pts := []Pose{{}, {X: 1}}
	for _, n := range []int{0, 1, 2, 10} {
		xs, ys, err := Bezier(pts, n)
		require.NoError(t, err)
		assert.Len(t, xs, n)
		assert.Len(t, ys, n)
	}
}

func TestBinomial(t *testing.T) {
	assert.Equal(t, 1.0, binomial(5, 0))
	assert.Equal(t, 10.0, binomial(5, 2))
	assert.Equal(t, 184756.0, binomial(20, 10))
}
