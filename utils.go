package bboxconv

import (
	"io"
	"math"
	"strconv"
)

// formatFloat formats v with the fewest digits that represent it exactly as a float32, without an
// exponent. Infinities are written as "inf" and "-inf", NaN as "NaN".
func formatFloat(v float32) string {
	f := float64(v)
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'f', -1, 32)
}

// CloseWithErrCheck calls c.Close(). If it returns an error, and (*e == nil), e is set to that
// error.
func CloseWithErrCheck(c io.Closer, e *error) {
	err := c.Close()
	if err != nil && *e == nil {
		*e = err
	}
}
