// Package persist saves and loads routes in the editor's JSON format:
//
//	{"items": [{"ctrl": [[x, y, heading], ...], "distance": 0, "angle": null,
//	  "end_tol": 2, "timeout": 5000, "lookahead": 18, "name": "", "id": 1,
//	  "kind": "follow"}, ...]}
//
// "kind" is optional; files without it are classified from the other
// fields. An undefined angle or heading is stored as null.
package persist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/mastercactapus/autonpath/coord"
	"github.com/mastercactapus/autonpath/route"
)

// ErrMalformed is wrapped by every decode error.
var ErrMalformed = errors.New("malformed route file")

// nullFloat is a float64 that maps NaN and infinities to JSON null.
type nullFloat float64

func (f nullFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(v, 'g', -1, 64)), nil
}

func (f *nullFloat) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = nullFloat(math.NaN())
		return nil
	}
	var v float64
	err := json.Unmarshal(data, &v)
	if err != nil {
		return err
	}
	*f = nullFloat(v)
	return nil
}

type record struct {
	Ctrl      [][3]nullFloat `json:"ctrl"`
	Distance  float64        `json:"distance"`
	Angle     nullFloat      `json:"angle"`
	EndTol    float64        `json:"end_tol"`
	Timeout   int            `json:"timeout"`
	Lookahead float64        `json:"lookahead"`
	Name      string         `json:"name"`
	ID        int            `json:"id"`
	Kind      string         `json:"kind"`
}

type document struct {
	Items []record `json:"items"`
}

func newRecord(s route.Segment) record {
	rec := record{
		Ctrl:      make([][3]nullFloat, len(s.Ctrl)),
		Distance:  s.Distance(),
		Angle:     nullFloat(s.Angle()),
		EndTol:    s.EndTol,
		Timeout:   s.Timeout,
		Lookahead: s.Lookahead,
		Name:      s.Name(),
		ID:        s.ID,
		Kind:      s.Kind().String(),
	}
	for i, p := range s.Ctrl {
		rec.Ctrl[i] = [3]nullFloat{nullFloat(p.X), nullFloat(p.Y), nullFloat(p.Heading)}
	}
	return rec
}

// Encode writes r as a JSON document.
func Encode(w io.Writer, r route.Route) error {
	doc := document{Items: make([]record, len(r))}
	for i, s := range r {
		doc.Items[i] = newRecord(s)
	}
	return json.NewEncoder(w).Encode(doc)
}

// Items marshals a route as the "items" list of a route file.
type Items route.Route

func (it Items) MarshalJSON() ([]byte, error) {
	recs := make([]record, len(it))
	for i, s := range it {
		recs[i] = newRecord(s)
	}
	return json.Marshal(recs)
}

func malformed(item int, field string, err error) error {
	if err != nil {
		return fmt.Errorf("%w: item %d: missing or invalid %s: %v", ErrMalformed, item, field, err)
	}
	return fmt.Errorf("%w: item %d: missing or invalid %s", ErrMalformed, item, field)
}

// field decodes a required key of msg into v. Only nullable floats
// accept null.
func field(item int, msg map[string]json.RawMessage, name string, v interface{}) error {
	raw := msg[name]
	if raw == nil {
		return malformed(item, name, nil)
	}
	if _, nullable := v.(*nullFloat); !nullable && bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return malformed(item, name, nil)
	}
	err := json.Unmarshal(raw, v)
	if err != nil {
		return malformed(item, name, err)
	}
	return nil
}

func decodeItem(i int, msg map[string]json.RawMessage) (route.Segment, error) {
	var (
		ctrl      [][]nullFloat
		distance  float64
		angle     nullFloat
		endTol    float64
		timeout   int
		lookahead float64
		name      string
		id        int
	)
	for _, f := range []struct {
		name string
		v    interface{}
	}{
		{"ctrl", &ctrl},
		{"distance", &distance},
		{"angle", &angle},
		{"end_tol", &endTol},
		{"timeout", &timeout},
		{"lookahead", &lookahead},
		{"name", &name},
		{"id", &id},
	} {
		err := field(i, msg, f.name, f.v)
		if err != nil {
			return route.Segment{}, err
		}
	}

	points := make([]coord.Pose, len(ctrl))
	for k, c := range ctrl {
		if len(c) != 3 {
			return route.Segment{}, malformed(i, "ctrl", errors.New("control point must have 3 values"))
		}
		points[k] = coord.Pose{X: float64(c[0]), Y: float64(c[1]), Heading: float64(c[2])}
	}

	kind, err := itemKind(i, msg, distance, float64(angle), name)
	if err != nil {
		return route.Segment{}, err
	}

	var s route.Segment
	switch kind {
	case route.Lateral:
		s = route.NewLateral(id, coord.Pose{}, distance, endTol, timeout)
	case route.Turn:
		if math.IsNaN(float64(angle)) {
			return route.Segment{}, malformed(i, "angle", nil)
		}
		s = route.NewTurn(id, coord.Pose{}, float64(angle), endTol, timeout)
	case route.Command:
		err = route.CheckName(name)
		if err != nil {
			return route.Segment{}, malformed(i, "name", err)
		}
		s = route.NewCommand(id, coord.Pose{}, name)
		s.EndTol = endTol
		s.Timeout = timeout
	default:
		s = route.NewFollow(id, nil, lookahead, endTol, timeout)
	}
	s.Ctrl = points
	s.Lookahead = lookahead

	return s, nil
}

// itemKind reads the explicit kind, falling back to the legacy rules:
// a nonzero distance is a lateral, a defined angle a turn, a name a
// command, and anything else a follow route.
func itemKind(i int, msg map[string]json.RawMessage, distance, angle float64, name string) (route.Kind, error) {
	if raw, ok := msg["kind"]; ok {
		var s string
		err := json.Unmarshal(raw, &s)
		if err != nil {
			return 0, malformed(i, "kind", err)
		}
		k, ok := route.ParseKind(s)
		if !ok {
			return 0, malformed(i, "kind", errors.New("unknown kind "+strconv.Quote(s)))
		}
		return k, nil
	}

	switch {
	case distance != 0:
		return route.Lateral, nil
	case !math.IsNaN(angle):
		return route.Turn, nil
	case name != "":
		return route.Command, nil
	}
	return route.Follow, nil
}

// Decode reads a route document from r.
func Decode(r io.Reader) (route.Route, error) {
	var top map[string]json.RawMessage
	err := json.NewDecoder(r).Decode(&top)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if top["items"] == nil {
		return nil, fmt.Errorf("%w: missing items", ErrMalformed)
	}
	var items []map[string]json.RawMessage
	err = json.Unmarshal(top["items"], &items)
	if err != nil {
		return nil, fmt.Errorf("%w: items: %v", ErrMalformed, err)
	}

	res := make(route.Route, 0, len(items))
	for i, msg := range items {
		s, err := decodeItem(i, msg)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, nil
}
