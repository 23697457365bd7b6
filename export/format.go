package export

import (
	"math"
	"strconv"
	"strings"
)

// formatParam always keeps a decimal point so a reader can tell a
// parameter float from an integer (2 -> "2.0").
func formatParam(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// formatCoord is the shortest decimal form, without an exponent.
func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
