package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"

	"github.com/mastercactapus/autonpath/coord"
	"github.com/mastercactapus/autonpath/route"
)

const (
	// FollowSamples is the number of points written per follow route.
	FollowSamples = 20

	// SegmentSamples is the number of points written by EncodeSegment.
	SegmentSamples = 10
)

// ErrNotFollow is returned when exporting a single segment that is not a follow curve.
var ErrNotFollow = errors.New("segment is not a follow route")

// Writer encodes segments in the export format.
type Writer struct {
	bw  *bufio.Writer
	err error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriter(w)}
}

func (w *Writer) line(parts ...string) {
	if w.err != nil {
		return
	}
	for i, p := range parts {
		if i > 0 {
			w.bw.WriteByte(' ')
		}
		w.bw.WriteString(p)
	}
	_, w.err = w.bw.WriteString("\n")
}

// WriteSegment writes the block for s. Empty segments are skipped.
func (w *Writer) WriteSegment(s route.Segment) error {
	if len(s.Ctrl) == 0 {
		return w.err
	}
	switch s.Kind() {
	case route.Follow:
		w.line(TagFollowStart)
		w.line(formatParam(s.EndTol), strconv.Itoa(s.Timeout), formatParam(s.Lookahead))
		xs, ys, err := coord.Bezier(s.Ctrl, FollowSamples)
		if err != nil {
			log.Printf("ERROR: sample segment id=%d: %+v", s.ID, err)
		}
		for i := range xs {
			w.line(TagPoint, formatCoord(xs[i]), formatCoord(ys[i]))
		}
		w.line(TagFollowEnd)
	case route.Lateral:
		w.line(TagLateral)
		w.line(formatParam(s.Distance()), formatParam(s.EndTol), strconv.Itoa(s.Timeout))
	case route.Command:
		err := route.CheckName(s.Name())
		if err != nil {
			return fmt.Errorf("segment id=%d: %w", s.ID, err)
		}
		w.line(TagCommand)
		w.line(s.Name())
	case route.Turn:
		// the controller takes its turn tolerance in radians
		w.line(TagTurn)
		w.line(formatParam(s.Angle()), formatParam(s.EndTol*(math.Pi/180)), strconv.Itoa(s.Timeout))
	}
	return w.err
}

// Close writes the end marker and flushes.
func (w *Writer) Close() error {
	w.line(TagEOF)
	if w.err != nil {
		return w.err
	}
	return w.bw.Flush()
}

// Encode writes the whole route to w.
func Encode(w io.Writer, r route.Route) error {
	ew := NewWriter(w)
	for _, s := range r {
		err := ew.WriteSegment(s)
		if err != nil {
			return err
		}
	}
	return ew.Close()
}

// EncodeSegment writes n sampled "x y" lines of a single follow segment,
// the format robots load a bare route from.
func EncodeSegment(w io.Writer, s route.Segment, n int) error {
	if !s.IsFollow() || len(s.Ctrl) < 3 {
		return ErrNotFollow
	}
	xs, ys, err := coord.Bezier(s.Ctrl, n)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	for i := range xs {
		bw.WriteString(formatCoord(xs[i]) + " " + formatCoord(ys[i]) + "\n")
	}
	return bw.Flush()
}
