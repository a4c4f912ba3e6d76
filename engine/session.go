package engine

import (
	"tei/game"
)

// board is the size-specific half of a session: a board size, fixed by the
// type parameter, and the position set up on it, if any.
type board[S game.Size] struct {
	position *game.Position[S]
}

// boardState is one of *board[game.Size4], *board[game.Size5] or
// *board[game.Size6]. Holding the size and the position in one typed value
// means they can never disagree.
type boardState interface {
	size() int
}

func (b *board[S]) size() int {
	return game.SizeOf[S]()
}

// Session is the game configuration accumulated over a protocol session. It
// is owned by the protocol loop.
type Session struct {
	komi  game.Komi
	board boardState // nil until teinewgame
}

func (s *Session) Komi() game.Komi {
	return s.komi
}

func (s *Session) SetKomi(komi game.Komi) {
	s.komi = komi
}

// Size is the board size of the current game, or 0 before teinewgame.
func (s *Session) Size() int {
	if s.board == nil {
		return 0
	}
	return s.board.size()
}

// HasPosition reports whether a position has been set up for the current game.
func (s *Session) HasPosition() bool {
	switch b := s.board.(type) {
	case *board[game.Size4]:
		return b.position != nil
	case *board[game.Size5]:
		return b.position != nil
	case *board[game.Size6]:
		return b.position != nil
	default:
		return false
	}
}

// NewGame starts a game on a board of the given size, discarding any
// previous position.
func (s *Session) NewGame(size int) error {
	switch size {
	case 4:
		s.board = &board[game.Size4]{}
	case 5:
		s.board = &board[game.Size5]{}
	case 6:
		s.board = &board[game.Size6]{}
	default:
		return invalidInput("Unsupported size %d", size)
	}
	return nil
}

// SetPosition sets up the position of the current game. It fails before
// teinewgame and on any move that cannot be replayed.
func (s *Session) SetPosition(cmd SetPosition) error {
	switch b := s.board.(type) {
	case nil:
		return invalidInput("Received position without receiving teinewgame string")
	case *board[game.Size4]:
		return setPosition(b, cmd, s.komi)
	case *board[game.Size5]:
		return setPosition(b, cmd, s.komi)
	case *board[game.Size6]:
		return setPosition(b, cmd, s.komi)
	default:
		panic("unexpected board type")
	}
}

func setPosition[S game.Size](b *board[S], cmd SetPosition, komi game.Komi) error {
	position := game.StartPosition[S](komi)
	if cmd.TPS != "" {
		var err error
		if position, err = game.FromTPS[S](cmd.TPS, komi); err != nil {
			return invalidInputErr(err, "Invalid tps %q", cmd.TPS)
		}
	}
	for _, notation := range cmd.Moves {
		next, err := position.Apply(notation)
		if err != nil {
			return invalidInputErr(err, "Cannot play %q", notation)
		}
		position = next
	}
	b.position = position
	return nil
}
