package engine

import (
	"testing"
	"time"

	"tei/game"

	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Command
	}{
		{"handshake", "tei", Handshake{}},
		{"isready", "isready", IsReady{}},
		{"stop", "stop", Stop{}},
		{"quit with surrounding space", "  quit ", Quit{}},
		{"half komi", "setoption name HalfKomi value 3", SetOption{Name: "HalfKomi", Komi: game.Komi(3)}},
		{"negative half komi", "setoption name HalfKomi value -10", SetOption{Name: "HalfKomi", Komi: game.Komi(-10)}},
		{"new game", "teinewgame 6", NewGame{Size: 6}},
		{"startpos", "position startpos", SetPosition{}},
		{"startpos with moves", "position startpos moves a1 b2", SetPosition{Moves: []string{"a1", "b2"}}},
		{"startpos with empty moves", "position startpos moves", SetPosition{}},
		{"tps", "position tps x5/x5/x5/x5/x5 1 1", SetPosition{TPS: "x5/x5/x5/x5/x5 1 1"}},
		{"tps with moves", "position tps x4/x4/x4/x4 1 1 moves a1", SetPosition{TPS: "x4/x4/x4/x4 1 1", Moves: []string{"a1"}}},
		{"movetime", "go movetime 1000", Go{Budget: MoveTime{Limit: time.Second}}},
		{"infinite", "go infinite", Go{Budget: Infinite{}}},
		{"full clock", "go wtime 10000 btime 9000 winc 100 binc 200", Go{Budget: Clock{
			WhiteTime: 10 * time.Second, BlackTime: 9 * time.Second,
			WhiteInc: 100 * time.Millisecond, BlackInc: 200 * time.Millisecond,
			HasWhiteTime: true, HasBlackTime: true,
		}}},
		{"partial clock", "go btime 500", Go{Budget: Clock{BlackTime: 500 * time.Millisecond, HasBlackTime: true}}},
		{"flagged clock", "go wtime -20 btime 100", Go{Budget: Clock{BlackTime: 100 * time.Millisecond, HasWhiteTime: true, HasBlackTime: true}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand(tt.line)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommandRejects(t *testing.T) {
	lines := []string{
		"",
		"uci",
		"setoption name HalfKomi value foo",
		"setoption name HalfKomi value 11",
		"setoption name HalfKomi value -11",
		"setoption name Komi value 3",
		"setoption name HalfKomi 3",
		"setoption name HalfKomi value 3 4",
		"teinewgame",
		"teinewgame 7",
		"teinewgame 3",
		"teinewgame -5",
		"teinewgame five",
		"teinewgame 5 6",
		"position",
		"position fen x5/x5/x5/x5/x5 1 1",
		"position tps x5/x5/x5/x5/x5 1",
		"position startpos a1",
		"go",
		"go movetime",
		"go movetime soon",
		"go movetime 100 200",
		"go infinite now",
		"go depth 5",
		"go wtime",
		"go wtime 100 wtime 200",
		"go wtime 100 btime",
		"go winc 100 binc 100",
		"go wtime 100 movetime 100",
	}
	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			_, err := ParseCommand(line)
			require.ErrorIs(t, err, ErrInvalidInput, "%q should be invalid input", line)
		})
	}
}
