package game

import (
	"tei/meta"

	"github.com/samber/lo"
)

// Size is the closed set of board sizes the engine plays on. Code that needs a
// position is parametrized by one of these types, so the board size travels
// with the position's type instead of being checked at runtime.
type Size interface {
	Size4 | Size5 | Size6
	N() int
}

type Size4 struct{}
type Size5 struct{}
type Size6 struct{}

func (Size4) N() int { return 4 }
func (Size5) N() int { return 5 }
func (Size6) N() int { return 6 }

// SizeOf returns the number of squares along one edge of an S board.
func SizeOf[S Size]() int {
	var s S
	return s.N()
}

// IsSupportedSize reports whether n is one of the Size types.
func IsSupportedSize(n int) bool {
	return lo.Contains(meta.SUPPORTED_SIZES, n)
}
