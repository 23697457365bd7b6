// Package editor implements the commands that change a route. Every
// command settles the route with route.Repopulate and returns a fresh
// tessellate.Frame for the renderer.
package editor

import (
	"errors"
	"io"
	"math"
	"strings"
	"sync"

	"github.com/mastercactapus/autonpath/coord"
	"github.com/mastercactapus/autonpath/export"
	"github.com/mastercactapus/autonpath/route"
	"github.com/mastercactapus/autonpath/tessellate"
)

// Defaults for segments created by Click.
const (
	FollowEndTol    = 2.0
	FollowTimeout   = 5000
	FollowLookahead = 18.0
)

// SelectTolerance is how close (in inches) a click must be to a control
// point to select it.
const SelectTolerance = 3.0

// DefaultStart faces up the field from the origin.
var DefaultStart = coord.Pose{X: 0, Y: 0, Heading: math.Pi / 2}

var (
	ErrNoStore        = errors.New("no route store configured")
	ErrUnknownSegment = errors.New("no segment with that id")
)

// Store loads and saves routes by name.
type Store interface {
	Load(name string) (route.Route, error)
	Save(name string, r route.Route) error
}

// Selection is a (segment, control point) index pair.
type Selection struct{ Segment, Point int }

// NoSelection is the empty selection.
var NoSelection = Selection{Segment: -1, Point: -1}

func (s Selection) Valid() bool { return s.Segment >= 0 && s.Point >= 0 }

// State is a copy of everything the editor tracks.
type State struct {
	Route    route.Route
	Current  coord.Pose
	Start    coord.Pose
	Selected Selection
	NextID   int
	Loaded   string
}

type Config struct {
	// Store is used by Load and Save. It may be nil.
	Store Store

	// Field converts pixel input and output. The zero value uses coord.DefaultField.
	Field coord.Field

	// Start is the initial start pose. The zero value uses DefaultStart.
	Start *coord.Pose
}

// Editor owns a route and the editing state around it. All methods are
// safe for concurrent use; commands run one at a time.
type Editor struct {
	mx sync.Mutex

	store Store
	field coord.Field

	route    route.Route
	current  coord.Pose
	start    coord.Pose
	selected Selection
	nextID   int
	loaded   string
}

func New(cfg Config) *Editor {
	e := &Editor{
		store:    cfg.Store,
		field:    cfg.Field,
		start:    DefaultStart,
		selected: NoSelection,
		nextID:   1,
	}
	if e.field == (coord.Field{}) {
		e.field = coord.DefaultField
	}
	if cfg.Start != nil {
		e.start = *cfg.Start
	}
	e.current = e.start
	return e
}

func (e *Editor) id() int {
	id := e.nextID
	e.nextID++
	return id
}

func (e *Editor) settle(edit route.Edit) {
	e.route, e.current = route.Repopulate(e.route, edit, e.start)
}

func (e *Editor) frame() tessellate.Frame {
	return tessellate.Tessellate(e.route.Clone(), e.field)
}

// Frame redraws without changing anything.
func (e *Editor) Frame() tessellate.Frame {
	e.mx.Lock()
	defer e.mx.Unlock()
	return e.frame()
}

func (e *Editor) Snapshot() State {
	e.mx.Lock()
	defer e.mx.Unlock()
	return State{
		Route:    e.route.Clone(),
		Current:  e.current,
		Start:    e.start,
		Selected: e.selected,
		NextID:   e.nextID,
		Loaded:   e.loaded,
	}
}

// Loaded returns the name of the last loaded or saved file.
func (e *Editor) Loaded() string {
	e.mx.Lock()
	defer e.mx.Unlock()
	return e.loaded
}

func (e *Editor) add(s route.Segment) tessellate.Frame {
	e.route = append(e.route, s)
	e.settle(route.NoEdit)
	return e.frame()
}

// Click appends a follow route from the current pose to the clicked
// pixel, with an elbow control point so the curve can be bent.
func (e *Editor) Click(px, py int) tessellate.Frame {
	e.mx.Lock()
	defer e.mx.Unlock()

	x, y := e.field.ToInch(px, py)
	cur := e.current
	elbow := coord.Pose{X: cur.X, Y: y, Heading: cur.Heading}
	end := coord.Pose{X: x, Y: y}
	end.Heading = coord.HeadingTo(elbow, end)

	return e.add(route.NewFollow(e.id(), []coord.Pose{cur, elbow, end}, FollowLookahead, FollowEndTol, FollowTimeout))
}

// AddLateral appends a straight move of distance inches.
func (e *Editor) AddLateral(distance, endTol float64, timeout int) tessellate.Frame {
	e.mx.Lock()
	defer e.mx.Unlock()
	return e.add(route.NewLateral(e.id(), e.current, distance, endTol, timeout))
}

// AddTurn appends a turn to angle degrees.
func (e *Editor) AddTurn(angle, endTol float64, timeout int) tessellate.Frame {
	e.mx.Lock()
	defer e.mx.Unlock()
	return e.add(route.NewTurn(e.id(), e.current, coord.Radians(angle), endTol, timeout))
}

// AddCommand appends a named command. Double quotes and surrounding
// space are removed from name; a blank or multi-line name is rejected
// and the route is left unchanged.
func (e *Editor) AddCommand(name string) (tessellate.Frame, error) {
	e.mx.Lock()
	defer e.mx.Unlock()

	name = strings.TrimSpace(strings.Replace(name, `"`, "", -1))
	err := route.CheckName(name)
	if err != nil {
		return e.frame(), err
	}
	return e.add(route.NewCommand(e.id(), e.current, name)), nil
}

// DeleteLast removes the final segment.
func (e *Editor) DeleteLast() tessellate.Frame {
	e.mx.Lock()
	defer e.mx.Unlock()

	if len(e.route) == 0 {
		return e.frame()
	}
	e.route = e.route[:len(e.route)-1]
	if e.selected.Segment >= len(e.route) {
		e.selected = NoSelection
	}
	e.settle(route.NoEdit)
	return e.frame()
}

// Select picks the follow control point nearest the clicked pixel, if it
// is within SelectTolerance. Ties go to the earliest point in the route.
// If nothing is close enough the selection is kept.
func (e *Editor) Select(px, py int) tessellate.Frame {
	e.mx.Lock()
	defer e.mx.Unlock()

	x, y := e.field.ToInch(px, py)
	if sel, ok := e.nearest(x, y); ok {
		e.selected = sel
	}
	return e.frame()
}

func (e *Editor) nearest(x, y float64) (Selection, bool) {
	best, bestDist := NoSelection, SelectTolerance
	for i, s := range e.route {
		if !s.IsFollow() {
			continue
		}
		for j, p := range s.Ctrl {
			d := p.DistanceXY(x, y)
			if d < bestDist {
				best, bestDist = Selection{Segment: i, Point: j}, d
			}
		}
	}
	return best, best.Valid()
}

func (e *Editor) Deselect() {
	e.mx.Lock()
	e.selected = NoSelection
	e.mx.Unlock()
}

// Selected returns the current selection.
func (e *Editor) Selected() (Selection, bool) {
	e.mx.Lock()
	defer e.mx.Unlock()
	return e.selected, e.selected.Valid()
}

// MoveControl drags the selected control point to the given pixel and
// returns its settled pose. With nothing selected it only redraws.
func (e *Editor) MoveControl(px, py int) (tessellate.Frame, coord.Pose, bool) {
	e.mx.Lock()
	defer e.mx.Unlock()

	sel := e.selected
	if !sel.Valid() || sel.Segment >= len(e.route) || sel.Point >= len(e.route[sel.Segment].Ctrl) {
		return e.frame(), coord.Pose{}, false
	}
	i, j := sel.Segment, sel.Point

	r := e.route.Clone()
	x, y := e.field.ToInch(px, py)
	pt := coord.Pose{X: x, Y: y, Heading: r[i].Ctrl[j].Heading}

	last := len(r[i].Ctrl) - 1
	lastSeg, _ := r.PrevNonEmpty(len(r))
	switch {
	case i == lastSeg && j == last:
		// end of the whole path; Repopulate will report it as the new current pose
	case j == last:
		if k, ok := r.NextNonEmpty(i); ok {
			r[k].Ctrl[0] = pt
		}
	case j == 0:
		if k, ok := r.PrevNonEmpty(i); ok {
			r[k].Ctrl[len(r[k].Ctrl)-1] = pt
		} else {
			// start of the whole path
			e.start = pt
		}
	}
	r[i].Ctrl[j] = pt

	e.route = r
	e.settle(route.Edit{Segment: i, Point: j})
	return e.frame(), e.route[i].Ctrl[j], true
}

// ChangeSegment updates the tunables of the segment with the given id.
// specific is the turn angle in degrees, the lateral distance, the
// command name or the follow lookahead. An unknown id is ignored.
func (e *Editor) ChangeSegment(id int, endTol float64, timeout int, specific string) (tessellate.Frame, error) {
	e.mx.Lock()
	defer e.mx.Unlock()

	idx, ok := e.route.IndexOf(id)
	if !ok {
		return e.frame(), nil
	}

	r := e.route.Clone()
	s := &r[idx]
	err := s.Update(specific)
	if err != nil {
		return e.frame(), err
	}
	s.SetEndTol(endTol)
	s.SetTimeout(timeout)

	e.route = r
	e.settle(route.Edit{Segment: idx, Point: 0})
	// a second pass settles downstream segments; Repopulate is idempotent
	e.settle(route.NoEdit)
	return e.frame(), nil
}

// ChangeStart moves the start of the path. heading is in degrees.
func (e *Editor) ChangeStart(x, y, heading float64) tessellate.Frame {
	e.mx.Lock()
	defer e.mx.Unlock()

	e.start = coord.Pose{X: x, Y: y, Heading: coord.Radians(heading)}
	e.settle(route.NoEdit)
	return e.frame()
}

// Clear drops the route. The start pose is kept.
func (e *Editor) Clear() tessellate.Frame {
	e.mx.Lock()
	defer e.mx.Unlock()

	e.route = nil
	e.current = e.start
	e.selected = NoSelection
	e.nextID = 1
	return e.frame()
}

// Load replaces the route with the named one from the store. On error
// the editor is left unchanged.
func (e *Editor) Load(name string) (tessellate.Frame, error) {
	if e.store == nil {
		return e.Frame(), ErrNoStore
	}
	r, err := e.store.Load(name)

	e.mx.Lock()
	defer e.mx.Unlock()
	if err != nil {
		return e.frame(), err
	}

	if k, ok := r.NextNonEmpty(-1); ok {
		e.start = r[k].Ctrl[0]
	}
	e.route = r
	e.nextID = r.MaxID() + 1
	e.selected = NoSelection
	e.loaded = name
	e.settle(route.NoEdit)
	return e.frame(), nil
}

// Save writes the route to the store under name.
func (e *Editor) Save(name string) error {
	if e.store == nil {
		return ErrNoStore
	}
	e.mx.Lock()
	r := e.route.Clone()
	e.mx.Unlock()

	err := e.store.Save(name, r)
	if err != nil {
		return err
	}

	e.mx.Lock()
	e.loaded = name
	e.mx.Unlock()
	return nil
}

// Export writes the route in the robot's text format.
func (e *Editor) Export(w io.Writer) error {
	e.mx.Lock()
	r := e.route.Clone()
	e.mx.Unlock()

	return export.Encode(w, r)
}

// ExportSegment writes the sampled curve of one follow segment.
func (e *Editor) ExportSegment(w io.Writer, id int) error {
	e.mx.Lock()
	idx, ok := e.route.IndexOf(id)
	var s route.Segment
	if ok {
		s = e.route[idx].Clone()
	}
	e.mx.Unlock()

	if !ok {
		return ErrUnknownSegment
	}
	return export.EncodeSegment(w, s, export.SegmentSamples)
}
