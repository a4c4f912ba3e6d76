package engine

import (
	"strconv"
	"strings"
	"time"

	"tei/game"

	"github.com/samber/lo"
)

// Command is one parsed input line.
type Command interface {
	command()
}

type Handshake struct{}
type IsReady struct{}
type Stop struct{}
type Quit struct{}

// SetOption is "setoption name HalfKomi value <n>", the only option there is.
type SetOption struct {
	Name string
	Komi game.Komi
}

type NewGame struct {
	Size int
}

// SetPosition is a "position" line. An empty TPS means the start position.
type SetPosition struct {
	TPS   string
	Moves []string
}

type Go struct {
	Budget Budget
}

func (Handshake) command()   {}
func (IsReady) command()     {}
func (Stop) command()        {}
func (Quit) command()        {}
func (SetOption) command()   {}
func (NewGame) command()     {}
func (SetPosition) command() {}
func (Go) command()          {}

const halfKomiOption = "HalfKomi"

// ParseCommand tokenizes a line on whitespace and validates it. It checks
// syntax only; whether a command fits the current session is decided by the
// session.
func ParseCommand(line string) (Command, error) {
	words := strings.Fields(line)
	if len(words) == 0 {
		return nil, invalidInput("empty line")
	}
	switch words[0] {
	case "tei":
		return Handshake{}, nil
	case "isready":
		return IsReady{}, nil
	case "stop":
		return Stop{}, nil
	case "quit":
		return Quit{}, nil
	case "setoption":
		return parseSetOption(line, words[1:])
	case "teinewgame":
		return parseNewGame(line, words[1:])
	case "position":
		return parsePosition(line, words[1:])
	case "go":
		return parseGo(line, words[1:])
	default:
		return nil, invalidInput("Unknown command %q", words[0])
	}
}

func parseSetOption(line string, args []string) (Command, error) {
	if len(args) != 4 || strings.Join(args[:3], " ") != "name "+halfKomiOption+" value" {
		return nil, invalidInput("Invalid setoption string %q", line)
	}
	half, err := strconv.Atoi(args[3])
	if err != nil {
		return nil, invalidInputErr(err, "Invalid komi setting %q", line)
	}
	komi, err := game.FromHalfKomi(half)
	if err != nil {
		return nil, invalidInputErr(err, "Invalid komi setting %q", line)
	}
	return SetOption{Name: halfKomiOption, Komi: komi}, nil
}

func parseNewGame(line string, args []string) (Command, error) {
	if len(args) != 1 {
		return nil, invalidInput("Expected a board size in %q", line)
	}
	size, err := strconv.ParseUint(args[0], 10, 8)
	if err != nil {
		return nil, invalidInputErr(err, "Unsupported size %q", args[0])
	}
	if !game.IsSupportedSize(int(size)) {
		return nil, invalidInput("Unsupported size %d", size)
	}
	return NewGame{Size: int(size)}, nil
}

func parsePosition(line string, args []string) (Command, error) {
	var cmd SetPosition
	switch {
	case len(args) > 0 && args[0] == "startpos":
		args = args[1:]
	case len(args) > 0 && args[0] == "tps":
		if len(args) < 4 {
			return nil, invalidInput("Expected three tps fields in %q", line)
		}
		cmd.TPS = strings.Join(args[1:4], " ")
		args = args[4:]
	default:
		return nil, invalidInput("Expected \"startpos\" or \"tps\" to specify position in %q", line)
	}

	if len(args) == 0 {
		return cmd, nil
	}
	if args[0] != "moves" {
		return nil, invalidInput("Expected \"moves\" in %q, got %q", line, args[0])
	}
	cmd.Moves = append([]string(nil), args[1:]...)
	return cmd, nil
}

var clockKeys = []string{"wtime", "btime", "winc", "binc"}

func parseGo(line string, args []string) (Command, error) {
	if len(args) == 0 {
		return nil, invalidInput("Invalid go command %q", line)
	}
	switch args[0] {
	case "infinite":
		if len(args) != 1 {
			return nil, invalidInput("Invalid go command %q", line)
		}
		return Go{Budget: Infinite{}}, nil
	case "movetime":
		if len(args) != 2 {
			return nil, invalidInput("Invalid go command %q", line)
		}
		limit, err := parseMillis(line, args[1])
		if err != nil {
			return nil, err
		}
		return Go{Budget: MoveTime{Limit: limit}}, nil
	}

	var clock Clock
	seen := map[string]bool{}
	for i := 0; i < len(args); i += 2 {
		key := args[i]
		if !lo.Contains(clockKeys, key) || seen[key] || i+1 >= len(args) {
			return nil, invalidInput("Invalid go command %q", line)
		}
		seen[key] = true
		value, err := parseMillis(line, args[i+1])
		if err != nil {
			return nil, err
		}
		switch key {
		case "wtime":
			clock.WhiteTime, clock.HasWhiteTime = value, true
		case "btime":
			clock.BlackTime, clock.HasBlackTime = value, true
		case "winc":
			clock.WhiteInc = value
		case "binc":
			clock.BlackInc = value
		}
	}
	if !clock.HasWhiteTime && !clock.HasBlackTime {
		return nil, invalidInput("Expected wtime or btime in %q", line)
	}
	return Go{Budget: clock}, nil
}

// parseMillis reads a millisecond count. Negative values, which some
// controllers send for a flagged clock, count as zero.
func parseMillis(line, token string) (time.Duration, error) {
	ms, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return 0, invalidInputErr(err, "Invalid time %q in %q", token, line)
	}
	return time.Duration(max(ms, 0)) * time.Millisecond, nil
}
