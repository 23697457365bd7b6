package route

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mastercactapus/autonpath/coord"
)

// Kind identifies the motion a Segment performs.
type Kind byte

const (
	// Follow is a free-form curve through its control points.
	Follow Kind = iota
	// Lateral is a straight move along the starting heading.
	Lateral
	// Turn is an in-place rotation to an absolute heading.
	Turn
	// Command is a zero-length marker that triggers a named action.
	Command
)

var kindNames = [...]string{
	Follow:  "follow",
	Lateral: "lateral",
	Turn:    "turn",
	Command: "command",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return 0, false
}

var (
	// ErrWrongKind is returned when setting a parameter the segment kind does not carry.
	ErrWrongKind = errors.New("parameter not valid for segment kind")
	// ErrInvalidParameter is returned when a tunable value cannot be parsed.
	ErrInvalidParameter = errors.New("invalid segment parameter")
)

// A Segment is one motion unit of a Route.
//
// The variant payload (distance, angle, command name) is only reachable
// through the constructor and setter for that Kind, so a Segment can
// never satisfy two of IsLateral, IsTurn, IsCommand and IsFollow at once.
type Segment struct {
	kind Kind

	// Ctrl holds the control points. The first is the segment start and
	// the last is its end; interior points only shape Follow curves.
	Ctrl []coord.Pose

	EndTol    float64
	Timeout   int
	Lookahead float64
	ID        int

	distance float64
	angle    float64
	name     string
}

// NewLateral creates a straight move of distance inches from start.
func NewLateral(id int, start coord.Pose, distance, endTol float64, timeout int) Segment {
	return Segment{
		kind:     Lateral,
		Ctrl:     []coord.Pose{start, start.Displace(distance)},
		EndTol:   endTol,
		Timeout:  timeout,
		ID:       id,
		distance: distance,
	}
}

// NewTurn creates an in-place rotation at start to angle radians.
func NewTurn(id int, start coord.Pose, angle, endTol float64, timeout int) Segment {
	return Segment{
		kind:    Turn,
		Ctrl:    []coord.Pose{start, start.WithHeading(angle)},
		EndTol:  endTol,
		Timeout: timeout,
		ID:      id,
		angle:   angle,
	}
}

// NewCommand creates a named marker at pos.
func NewCommand(id int, pos coord.Pose, name string) Segment {
	return Segment{
		kind: Command,
		Ctrl: []coord.Pose{pos, pos},
		ID:   id,
		name: name,
	}
}

// NewFollow creates a curve through ctrl. A negative lookahead means the
// controller drives the curve backward.
func NewFollow(id int, ctrl []coord.Pose, lookahead, endTol float64, timeout int) Segment {
	return Segment{
		kind:      Follow,
		Ctrl:      append([]coord.Pose(nil), ctrl...),
		EndTol:    endTol,
		Timeout:   timeout,
		Lookahead: lookahead,
		ID:        id,
	}
}

func (s Segment) Kind() Kind      { return s.kind }
func (s Segment) IsLateral() bool { return s.kind == Lateral }
func (s Segment) IsTurn() bool    { return s.kind == Turn }
func (s Segment) IsCommand() bool { return s.kind == Command }
func (s Segment) IsFollow() bool  { return s.kind == Follow }

// Distance is the lateral travel, 0 for other kinds.
func (s Segment) Distance() float64 {
	if s.kind != Lateral {
		return 0
	}
	return s.distance
}

// Angle is the target heading of a turn, NaN for other kinds.
func (s Segment) Angle() float64 {
	if s.kind != Turn {
		return math.NaN()
	}
	return s.angle
}

// Name is the command name, empty for other kinds.
func (s Segment) Name() string {
	if s.kind != Command {
		return ""
	}
	return s.name
}

// Start returns the first control point.
func (s Segment) Start() (coord.Pose, bool) {
	if len(s.Ctrl) == 0 {
		return coord.Pose{}, false
	}
	return s.Ctrl[0], true
}

// End returns the last control point.
func (s Segment) End() (coord.Pose, bool) {
	if len(s.Ctrl) == 0 {
		return coord.Pose{}, false
	}
	return s.Ctrl[len(s.Ctrl)-1], true
}

func (s *Segment) SetEndTol(v float64)    { s.EndTol = v }
func (s *Segment) SetTimeout(v int)       { s.Timeout = v }
func (s *Segment) SetLookahead(v float64) { s.Lookahead = v }

func (s *Segment) SetDistance(d float64) error {
	if s.kind != Lateral {
		return ErrWrongKind
	}
	s.distance = d
	return nil
}

func (s *Segment) SetAngle(a float64) error {
	if s.kind != Turn {
		return ErrWrongKind
	}
	s.angle = a
	return nil
}

// SetName trims and sets the command name.
func (s *Segment) SetName(name string) error {
	if s.kind != Command {
		return ErrWrongKind
	}
	name = strings.TrimSpace(name)
	err := CheckName(name)
	if err != nil {
		return err
	}
	s.name = name
	return nil
}

// CheckName reports whether name fits on one line of an export file.
// Blank and multi-line names are rejected with ErrInvalidParameter.
func CheckName(name string) error {
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, "\r\n") {
		return fmt.Errorf("command name %q: %w", name, ErrInvalidParameter)
	}
	return nil
}

// Update will parse and apply the kind-specific tunable:
// the angle in degrees for a Turn, the distance for a Lateral,
// the name for a Command and the lookahead for a Follow.
func (s *Segment) Update(specific string) error {
	if s.kind == Command {
		return s.SetName(specific)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(specific), 64)
	if err != nil {
		return fmt.Errorf("parse %q: %w", specific, ErrInvalidParameter)
	}
	switch s.kind {
	case Turn:
		return s.SetAngle(coord.Radians(v))
	case Lateral:
		return s.SetDistance(v)
	default:
		s.SetLookahead(v)
		return nil
	}
}

// Clone returns a copy of s that does not share control points.
func (s Segment) Clone() Segment {
	s.Ctrl = append([]coord.Pose(nil), s.Ctrl...)
	return s
}
