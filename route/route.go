package route

// A Route is an ordered list of segments in execution order.
type Route []Segment

// Clone returns a deep copy of r.
func (r Route) Clone() Route {
	if r == nil {
		return nil
	}
	c := make(Route, len(r))
	for i, s := range r {
		c[i] = s.Clone()
	}
	return c
}

// IndexOf returns the index of the segment with the given id.
func (r Route) IndexOf(id int) (int, bool) {
	for i, s := range r {
		if s.ID == id {
			return i, true
		}
	}
	return -1, false
}

// MaxID returns the largest segment id, or 0 for an empty route.
func (r Route) MaxID() int {
	var max int
	for _, s := range r {
		if s.ID > max {
			max = s.ID
		}
	}
	return max
}

// PrevNonEmpty returns the closest index before i with control points.
func (r Route) PrevNonEmpty(i int) (int, bool) {
	if i > len(r) {
		i = len(r)
	}
	for k := i - 1; k >= 0; k-- {
		if len(r[k].Ctrl) > 0 {
			return k, true
		}
	}
	return -1, false
}

// NextNonEmpty returns the closest index after i with control points.
func (r Route) NextNonEmpty(i int) (int, bool) {
	if i < -1 {
		i = -1
	}
	for k := i + 1; k < len(r); k++ {
		if len(r[k].Ctrl) > 0 {
			return k, true
		}
	}
	return -1, false
}

// ControlPoints returns the number of control points across all segments.
func (r Route) ControlPoints() int {
	var n int
	for _, s := range r {
		n += len(s.Ctrl)
	}
	return n
}
