package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tei/communication"
	"tei/game"
	"tei/meta"

	"github.com/rs/zerolog"
)

// Engine speaks TEI over a pair of line channels for one session.
type Engine struct {
	cfg     Config
	in      communication.Source
	out     communication.Sink
	log     zerolog.Logger
	session Session
}

func New(cfg Config, in communication.Source, out communication.Sink, logger zerolog.Logger) *Engine {
	return &Engine{
		cfg: cfg.withDefaults(),
		in:  in,
		out: out,
		log: logger,
	}
}

// Session exposes the accumulated game configuration.
func (e *Engine) Session() *Session {
	return &e.session
}

// Run waits for the tei handshake and then serves commands until quit, which
// returns nil. Any other way the session ends is reported as an error.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.awaitHandshake(ctx); err != nil {
		return err
	}
	for {
		line, err := e.recv(ctx)
		if err != nil {
			return err
		}
		quit, err := e.handle(ctx, line)
		if err != nil {
			return err
		}
		if quit {
			e.log.Info().Msg("quit received, ending session")
			return nil
		}
	}
}

func (e *Engine) awaitHandshake(ctx context.Context) error {
	for {
		line, err := e.recv(ctx)
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "tei" {
			return e.identify()
		}
		e.log.Debug().Str("line", line).Msg("ignoring line before tei")
	}
}

func (e *Engine) identify() error {
	lines := []string{
		"id name " + e.cfg.Name,
		"id author " + e.cfg.Author,
		fmt.Sprintf("option name %s type spin default 0 min %d max %d", halfKomiOption, meta.MIN_HALF_KOMI, meta.MAX_HALF_KOMI),
		"teiok",
	}
	for _, line := range lines {
		if err := e.send(line); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) handle(ctx context.Context, line string) (quit bool, err error) {
	e.log.Debug().Str("line", line).Msg("received")
	if strings.TrimSpace(line) == "" {
		return false, nil
	}

	cmd, err := ParseCommand(line)
	if err != nil {
		return false, err
	}
	switch cmd := cmd.(type) {
	case Handshake:
		return false, e.identify()
	case IsReady:
		return false, e.send("readyok")
	case SetOption:
		e.session.SetKomi(cmd.Komi)
		e.log.Info().Stringer("komi", cmd.Komi).Msg("komi set")
		return false, nil
	case NewGame:
		e.log.Info().Int("size", cmd.Size).Msg("new game")
		return false, e.session.NewGame(cmd.Size)
	case SetPosition:
		return false, e.session.SetPosition(cmd)
	case Go:
		return e.dispatchGo(ctx, cmd.Budget)
	case Stop:
		return false, nil
	case Quit:
		return true, nil
	default:
		panic(fmt.Sprintf("unexpected command %T", cmd))
	}
}

// dispatchGo dispatches a go command on the size of the current game.
func (e *Engine) dispatchGo(ctx context.Context, budget Budget) (bool, error) {
	switch b := e.session.board.(type) {
	case nil:
		return false, invalidInput("Received go without receiving teinewgame string")
	case *board[game.Size4]:
		return search(ctx, e, b.position, budget)
	case *board[game.Size5]:
		return search(ctx, e, b.position, budget)
	case *board[game.Size6]:
		return search(ctx, e, b.position, budget)
	default:
		panic("unexpected board type")
	}
}

func (e *Engine) recv(ctx context.Context) (string, error) {
	line, err := e.in.Recv(ctx)
	if errors.Is(err, communication.ErrClosed) {
		return "", &Error{Kind: NoInput}
	}
	return line, err
}

func (e *Engine) send(line string) error {
	if err := e.out.Send(line); err != nil {
		return &Error{Kind: NoOutput, Line: line, Err: err}
	}
	return nil
}
