package coord

import (
	"errors"
	"math"
)

// ErrEmptyCurve is returned when sampling a curve with no control points.
var ErrEmptyCurve = errors.New("curve has no control points")

// factorial is computed in float64. It loses integer precision past 22!
// and overflows past 170!, so Bezier is only meant for short control
// lists (a couple dozen points at most).
func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}

func binomial(n, k int) float64 {
	return factorial(n) / (factorial(k) * factorial(n-k))
}

func bernstein(i, n int, t float64) float64 {
	return binomial(n, i) * math.Pow(t, float64(i)) * math.Pow(1-t, float64(n-i))
}

// linspace returns n evenly spaced values from 0 to 1 inclusive.
func linspace(n int) []float64 {
	if n <= 0 {
		return nil
	}
	t := make([]float64, n)
	if n == 1 {
		return t
	}
	step := 1 / float64(n-1)
	for i := range t {
		t[i] = step * float64(i)
	}
	t[n-1] = 1
	return t
}

// Bezier will sample the Bezier curve defined by points at n evenly
// spaced parameter values in [0,1].
//
// The curve order is len(points)-1. Headings are ignored.
func Bezier(points []Pose, n int) (xs, ys []float64, err error) {
	if len(points) == 0 {
		return nil, nil, ErrEmptyCurve
	}

	t := linspace(n)
	xs = make([]float64, len(t))
	ys = make([]float64, len(t))

	order := len(points) - 1
	for i, p := range points {
		for k, tv := range t {
			b := bernstein(i, order, tv)
			xs[k] += p.X * b
			ys[k] += p.Y * b
		}
	}

	return xs, ys, nil
}
