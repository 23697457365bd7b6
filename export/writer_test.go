package export

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/mastercactapus/autonpath/coord"
	"github.com/mastercactapus/autonpath/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatParam(t *testing.T) {
	assert.Equal(t, "2.0", formatParam(2))
	assert.Equal(t, "-12.5", formatParam(-12.5))
	assert.Equal(t, "0.0", formatParam(0))
	assert.Equal(t, "NaN", formatParam(math.NaN()))
	assert.Equal(t, "1000000.0", formatParam(1e6))
	assert.Equal(t, "5", formatCoord(5))
	assert.Equal(t, "0.25", formatCoord(0.25))
}

func TestEncode(t *testing.T) {
	start := coord.Pose{}
	r := route.Route{
		route.NewLateral(1, start, 12, 1, 1000),
		{ID: 2},
		route.NewCommand(3, start, "intake"),
		route.NewTurn(4, start, math.Pi/2, 2, 800),
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, r))

	want := "ps\n12.0 1.0 1000\n" +
		"cs\nintake\n" +
		"ts\n" + formatParam(math.Pi/2) + " " + formatParam(2*(math.Pi/180)) + " 800\n" +
		"eof\n"
	assert.Equal(t, want, buf.String())
}

func TestEncode_Follow(t *testing.T) {
	r := route.Route{
		route.NewFollow(1, []coord.Pose{{}, {Y: 10}, {X: 10, Y: 10}}, 18, 2, 5000),
	}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, r))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2+FollowSamples+2)
	assert.Equal(t, "rs", lines[0])
	assert.Equal(t, "2.0 5000 18.0", lines[1])
	assert.Equal(t, "p 0 0", lines[2])
	assert.Equal(t, "p 10 10", lines[FollowSamples+1])
	assert.Equal(t, "re", lines[FollowSamples+2])
	assert.Equal(t, "eof", lines[FollowSamples+3])
}

func TestEncodeSegment(t *testing.T) {
	f := route.NewFollow(1, []coord.Pose{{}, {Y: 10}, {X: 10, Y: 10}}, 18, 2, 5000)
	var buf bytes.Buffer
	require.NoError(t, EncodeSegment(&buf, f, SegmentSamples))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, SegmentSamples)
	assert.Equal(t, "0 0", lines[0])
	assert.Equal(t, "10 10", lines[SegmentSamples-1])

	err := EncodeSegment(&buf, route.NewLateral(2, coord.Pose{}, 3, 1, 1), SegmentSamples)
	assert.Equal(t, ErrNotFollow, err)
}
