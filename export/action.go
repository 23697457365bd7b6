// Package export reads and writes the line-oriented route format the
// robot loads at the start of an autonomous period.
//
//	rs                    follow route start
//	<end_tol> <timeout> <lookahead>
//	p <x> <y>             one line per sampled point
//	re                    follow route end
//	ps                    lateral
//	<distance> <end_tol> <timeout>
//	ts                    turn
//	<angle> <end_tol> <timeout>
//	cs                    command
//	<name>
//	eof
package export

import "github.com/mastercactapus/autonpath/route"

// Tags that open an action block.
const (
	TagFollowStart = "rs"
	TagFollowEnd   = "re"
	TagPoint       = "p"
	TagLateral     = "ps"
	TagTurn        = "ts"
	TagCommand     = "cs"
	TagEOF         = "eof"
)

// Point is a sampled follow point.
type Point struct{ X, Y float64 }

// Action is one decoded block of an export file.
type Action struct {
	Type route.Kind

	// Specific is the distance of a lateral or the angle of a turn.
	Specific float64

	EndTol    float64
	Timeout   int
	Lookahead float64

	Name   string
	Points []Point
}
