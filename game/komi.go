package game

import (
	"fmt"
	"strconv"

	"tei/meta"
)

// Komi is a flat-count bonus for black, stored in half points.
type Komi int8

// FromHalfKomi validates a HalfKomi option value.
func FromHalfKomi(half int) (Komi, error) {
	if half < meta.MIN_HALF_KOMI || half > meta.MAX_HALF_KOMI {
		return 0, fmt.Errorf("half komi %d outside [%d, %d]", half, meta.MIN_HALF_KOMI, meta.MAX_HALF_KOMI)
	}
	return Komi(half), nil
}

func (k Komi) HalfKomi() int {
	return int(k)
}

// String renders the komi in points, e.g. "2.5".
func (k Komi) String() string {
	return strconv.FormatFloat(float64(k)/2, 'f', -1, 64)
}

// decide settles a flat count under komi. Ties go to nobody.
func (k Komi) decide(whiteFlats, blackFlats int) Color {
	white := 2 * whiteFlats
	black := 2*blackFlats + int(k)
	switch {
	case white > black:
		return White
	case black > white:
		return Black
	default:
		return NoColor
	}
}
