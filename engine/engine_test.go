package engine

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"tei/communication"
	"tei/game"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const lineTimeout = 5 * time.Second

// testConfig keeps batches and polls small so tests see output quickly.
func testConfig() Config {
	return Config{
		PollInterval: 50,
		BatchBase:    50,
		BatchGrowth:  1.1,
		MaxNodes:     500_000,
		Seed:         1,
	}
}

type harness struct {
	in   *communication.Queue
	out  *communication.Queue
	done chan error
}

func startEngine(t *testing.T, cfg Config) *harness {
	t.Helper()
	h := &harness{
		in:   communication.NewQueue(),
		out:  communication.NewQueue(),
		done: make(chan error, 1),
	}
	e := New(cfg, h.in, h.out, zerolog.Nop())
	go func() { h.done <- e.Run(context.Background()) }()
	return h
}

func (h *harness) send(t *testing.T, lines ...string) {
	t.Helper()
	for _, line := range lines {
		require.NoError(t, h.in.Send(line))
	}
}

func (h *harness) next(t *testing.T) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), lineTimeout)
	defer cancel()
	line, err := h.out.Recv(ctx)
	require.NoError(t, err, "Engine should have produced another line")
	return line
}

func (h *harness) expect(t *testing.T, want ...string) {
	t.Helper()
	for _, line := range want {
		require.Equal(t, line, h.next(t))
	}
}

// until reads lines up to and including the first one starting with prefix.
func (h *harness) until(t *testing.T, prefix string) []string {
	t.Helper()
	var lines []string
	for {
		line := h.next(t)
		lines = append(lines, line)
		if strings.HasPrefix(line, prefix) {
			return lines
		}
	}
}

func (h *harness) wait(t *testing.T) error {
	t.Helper()
	select {
	case err := <-h.done:
		return err
	case <-time.After(lineTimeout):
		t.Fatal("Engine should have ended the session")
		return nil
	}
}

func (h *harness) handshake(t *testing.T) {
	t.Helper()
	h.send(t, "tei")
	h.until(t, "teiok")
}

func countPrefix(lines []string, prefix string) int {
	n := 0
	for _, line := range lines {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}

func TestEngineHandshake(t *testing.T) {
	h := startEngine(t, testConfig())

	h.send(t, "hello", "isready", "tei")
	h.expect(t,
		"id name Tiltak",
		"id author Morten Lohne",
		"option name HalfKomi type spin default 0 min -10 max 10",
		"teiok",
	)
	h.send(t, "isready", "quit")
	h.expect(t, "readyok")

	require.NoError(t, h.wait(t))
	require.Zero(t, h.out.Len(), "Lines before tei should have been ignored")
}

func TestEngineGoMoveTime(t *testing.T) {
	h := startEngine(t, testConfig())
	h.handshake(t)

	h.send(t, "teinewgame 4", "position startpos moves a1 d4", "go movetime 1000")
	start := time.Now()
	lines := h.until(t, "bestmove")
	elapsed := time.Since(start)

	require.GreaterOrEqual(t, countPrefix(lines, "info "), 1, "At least one info line should precede bestmove")
	// Batches grow by 10%, so the last one overshoots 700ms by a small fraction
	require.GreaterOrEqual(t, elapsed, 700*time.Millisecond, "Search should use 70% of the move time")
	require.Less(t, elapsed, time.Second, "Search should stop well before the full move time")

	move := strings.TrimPrefix(lines[len(lines)-1], "bestmove ")
	position, err := game.StartPosition[game.Size4](0).Apply("a1")
	require.NoError(t, err)
	position, err = position.Apply("d4")
	require.NoError(t, err)
	_, err = position.Apply(move)
	require.NoError(t, err, "bestmove %q should be legal", move)

	h.send(t, "isready", "quit")
	h.expect(t, "readyok")
	require.NoError(t, h.wait(t))
}

func TestEngineInfoLine(t *testing.T) {
	h := startEngine(t, testConfig())
	h.handshake(t)

	h.send(t, "teinewgame 5", "position startpos", "go movetime 50")
	lines := h.until(t, "bestmove")

	fields := strings.Fields(lines[0])
	require.GreaterOrEqual(t, len(fields), 15)
	keys := map[int]string{0: "info", 1: "depth", 3: "seldepth", 5: "nodes", 7: "score", 8: "cp", 10: "time", 12: "nps", 14: "pv"}
	for i, key := range keys {
		require.Equal(t, key, fields[i], "info field %d", i)
	}
	seldepth, err := strconv.Atoi(fields[4])
	require.NoError(t, err)
	require.Equal(t, len(fields)-15, seldepth, "seldepth should be the pv length")

	h.send(t, "quit")
	require.NoError(t, h.wait(t))
}

func TestEngineStop(t *testing.T) {
	h := startEngine(t, testConfig())
	h.handshake(t)

	h.send(t, "teinewgame 5", "position startpos", "go infinite")
	h.until(t, "info")
	h.send(t, "stop")
	lines := h.until(t, "bestmove")
	require.Equal(t, 1, countPrefix(lines, "bestmove"))

	h.send(t, "isready", "quit")
	h.expect(t, "readyok")
	require.NoError(t, h.wait(t))
}

func TestEngineQuitDuringSearch(t *testing.T) {
	h := startEngine(t, testConfig())
	h.handshake(t)

	h.send(t, "teinewgame 6", "position startpos", "go infinite")
	h.until(t, "info")
	h.send(t, "quit")

	require.NoError(t, h.wait(t))
	for h.out.Len() > 0 {
		line, err := h.out.TryRecv()
		require.NoError(t, err)
		require.False(t, strings.HasPrefix(line, "bestmove"), "quit should discard the pending bestmove")
	}
}

func TestEngineIsReadyDuringSearch(t *testing.T) {
	h := startEngine(t, testConfig())
	h.handshake(t)

	h.send(t, "teinewgame 4", "position startpos", "go infinite")
	h.until(t, "info")
	h.send(t, "isready")
	lines := h.until(t, "readyok")
	require.Equal(t, 1, countPrefix(lines, "readyok"))
	require.Zero(t, countPrefix(lines, "bestmove"), "isready should not interrupt the search")

	h.send(t, "stop")
	lines = h.until(t, "bestmove")
	require.Zero(t, countPrefix(lines, "readyok"))

	h.send(t, "quit")
	require.NoError(t, h.wait(t))
}

func TestEngineGoClock(t *testing.T) {
	t.Run("searches within the allotment", func(t *testing.T) {
		h := startEngine(t, testConfig())
		h.handshake(t)

		h.send(t, "teinewgame 4", "position startpos", "go wtime 1000 btime 1000 winc 0 binc 0")
		start := time.Now()
		lines := h.until(t, "bestmove")

		require.Less(t, time.Since(start), 500*time.Millisecond, "Allotment is 200ms")
		require.GreaterOrEqual(t, countPrefix(lines, "info "), 1)

		h.send(t, "quit")
		require.NoError(t, h.wait(t))
	})

	t.Run("slatebot rollouts keep to the allotment", func(t *testing.T) {
		cfg := testConfig()
		cfg.Slatebot = true
		cfg.PollInterval = 10_000
		h := startEngine(t, cfg)
		h.handshake(t)

		h.send(t, "teinewgame 6", "position startpos", "go wtime 1000 btime 1000")
		start := time.Now()
		h.until(t, "bestmove")

		require.Less(t, time.Since(start), 500*time.Millisecond, "Allotment is 200ms")

		h.send(t, "quit")
		require.NoError(t, h.wait(t))
	})

	t.Run("answers even with no time left", func(t *testing.T) {
		h := startEngine(t, testConfig())
		h.handshake(t)

		h.send(t, "teinewgame 5", "position startpos moves a1", "go wtime 0 btime 0")
		lines := h.until(t, "bestmove")
		require.Equal(t, 1, countPrefix(lines, "bestmove"))

		h.send(t, "quit")
		require.NoError(t, h.wait(t))
	})

	t.Run("stop ends the search", func(t *testing.T) {
		h := startEngine(t, testConfig())
		h.handshake(t)

		h.send(t, "teinewgame 4", "position startpos", "go wtime 600000 btime 600000")
		h.until(t, "info")
		h.send(t, "stop")
		h.until(t, "bestmove")

		h.send(t, "quit")
		require.NoError(t, h.wait(t))
	})

	t.Run("missing own time is rejected", func(t *testing.T) {
		h := startEngine(t, testConfig())
		h.handshake(t)

		h.send(t, "teinewgame 4", "position startpos", "go btime 1000")
		require.ErrorIs(t, h.wait(t), ErrInvalidInput)
	})
}

func TestEngineKomi(t *testing.T) {
	in, out := communication.NewQueue(), communication.NewQueue()
	e := New(testConfig(), in, out, zerolog.Nop())
	for _, line := range []string{"tei", "setoption name HalfKomi value 3", "quit"} {
		require.NoError(t, in.Send(line))
	}

	require.NoError(t, e.Run(context.Background()))
	require.Equal(t, game.Komi(3), e.Session().Komi())
}

func TestEngineErrors(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  error
	}{
		{"unknown command", []string{"uci"}, ErrInvalidInput},
		{"position before teinewgame", []string{"position startpos"}, ErrInvalidInput},
		{"go before teinewgame", []string{"go movetime 100"}, ErrInvalidInput},
		{"go before position", []string{"teinewgame 5", "go movetime 100"}, ErrInvalidInput},
		{"go after position was discarded", []string{"teinewgame 5", "position startpos", "teinewgame 6", "go movetime 100"}, ErrInvalidInput},
		{"unsupported size", []string{"teinewgame 8"}, ErrInvalidInput},
		{"illegal move replay", []string{"teinewgame 5", "position startpos moves a1 a1"}, ErrInvalidInput},
		{"bad option", []string{"setoption name Hash value 16"}, ErrInvalidInput},
		{"bad komi", []string{"setoption name HalfKomi value foo"}, ErrInvalidInput},
		{"malformed go", []string{"teinewgame 5", "position startpos", "go movetime fast"}, ErrInvalidInput},
		{"unexpected command during search", []string{"teinewgame 4", "position startpos", "go infinite", "teinewgame 5"}, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := startEngine(t, testConfig())
			h.handshake(t)

			h.send(t, tt.lines...)
			require.ErrorIs(t, h.wait(t), tt.want)
		})
	}
}

func TestEngineClosedChannels(t *testing.T) {
	t.Run("input closed while idle", func(t *testing.T) {
		h := startEngine(t, testConfig())
		h.handshake(t)

		h.in.Close()
		require.ErrorIs(t, h.wait(t), ErrNoInput)
	})

	t.Run("input closed during search", func(t *testing.T) {
		h := startEngine(t, testConfig())
		h.handshake(t)

		h.send(t, "teinewgame 4", "position startpos", "go infinite")
		h.until(t, "info")
		h.in.Close()
		require.ErrorIs(t, h.wait(t), ErrNoInput)
	})

	t.Run("output closed", func(t *testing.T) {
		h := startEngine(t, testConfig())
		h.out.Close()

		h.send(t, "tei")
		err := h.wait(t)
		require.ErrorIs(t, err, ErrNoOutput)

		var teiErr *Error
		require.ErrorAs(t, err, &teiErr)
		require.Equal(t, "id name Tiltak", teiErr.Line, "Error should carry the unsent line")
	})
}

func TestEngineStopWhileIdle(t *testing.T) {
	h := startEngine(t, testConfig())
	h.handshake(t)

	h.send(t, "stop", "", "isready", "quit")
	h.expect(t, "readyok")
	require.NoError(t, h.wait(t))
}
