package game

import (
	"fmt"

	"github.com/nelhage/taktician/ptn"
	"github.com/nelhage/taktician/tak"
)

// Position is an immutable Tak position on an S board, carrying the komi it
// is scored under.
type Position[S Size] struct {
	tak  *tak.Position
	komi Komi
}

// StartPosition returns the empty board with white to move.
func StartPosition[S Size](komi Komi) *Position[S] {
	return &Position[S]{
		tak:  tak.New(tak.Config{Size: SizeOf[S]()}),
		komi: komi,
	}
}

// FromTPS parses a three-field TPS string. The board in the string must be S
// squares wide.
func FromTPS[S Size](tps string, komi Komi) (*Position[S], error) {
	p, err := ptn.ParseTPS(tps)
	if err != nil {
		return nil, fmt.Errorf("parse tps %q: %w", tps, err)
	}
	if p.Size() != SizeOf[S]() {
		return nil, fmt.Errorf("tps %q is a size %d board, expected size %d", tps, p.Size(), SizeOf[S]())
	}
	return &Position[S]{tak: p, komi: komi}, nil
}

func (p *Position[S]) Size() int {
	return SizeOf[S]()
}

func (p *Position[S]) Komi() Komi {
	return p.komi
}

// ToMove returns the side to move.
func (p *Position[S]) ToMove() Color {
	return p.tak.ToMove()
}

// TPS renders the position.
func (p *Position[S]) TPS() string {
	return ptn.FormatTPS(p.tak)
}

func (p *Position[S]) MoveFromNotation(notation string) (Move, error) {
	m, err := ptn.ParseMove(notation)
	if err != nil {
		return Move{}, fmt.Errorf("parse move %q: %w", notation, err)
	}
	return m, nil
}

func (p *Position[S]) MoveToNotation(m Move) string {
	return ptn.FormatMove(m)
}

// Play returns the position after m. Illegal moves are reported, never
// silently skipped.
func (p *Position[S]) Play(m Move) (*Position[S], error) {
	next, err := p.tak.Move(m)
	if err != nil {
		return nil, fmt.Errorf("illegal move %s: %w", ptn.FormatMove(m), err)
	}
	return &Position[S]{tak: next, komi: p.komi}, nil
}

// Apply parses a move in PTN notation and plays it.
func (p *Position[S]) Apply(notation string) (*Position[S], error) {
	m, err := p.MoveFromNotation(notation)
	if err != nil {
		return nil, err
	}
	return p.Play(m)
}

// LegalMoves appends the moves the generator offers to buf. A few of them may
// still be rejected by Play (e.g. slides over a wall).
func (p *Position[S]) LegalMoves(buf []Move) []Move {
	return p.tak.AllMoves(buf[:0])
}

// AnyMove returns the first generated move that Play accepts. ok is false
// when the side to move has no playable move.
func (p *Position[S]) AnyMove() (Move, bool) {
	for _, m := range p.LegalMoves(nil) {
		if _, err := p.Play(m); err == nil {
			return m, true
		}
	}
	return Move{}, false
}

// Outcome reports whether the game is over. Flat wins are re-scored with the
// position's komi; road wins are not affected by it.
func (p *Position[S]) Outcome() Outcome {
	over, winner := p.tak.GameOver()
	if !over {
		return Outcome{}
	}
	details := p.tak.WinDetails()
	if details.Reason == tak.FlatsWin {
		winner = p.komi.decide(details.WhiteFlats, details.BlackFlats)
	}
	return Outcome{Over: true, Winner: winner}
}

// Evaluate scores the position with fn from white's point of view.
func (p *Position[S]) Evaluate(fn Evaluate) float64 {
	return fn(p.TPS(), p.komi)
}
