package game

import (
	"math"
	"strings"
)

// flatWeight scales the flat differential before squashing it into [0, 1].
const flatWeight = 0.35

// EvaluateFlats estimates white's winning chances from the flats each side
// has on top, adjusted by komi, from the board field of a TPS string.
func EvaluateFlats(tps string, komi Komi) float64 {
	white, black := CountFlats(tps)
	diff := float64(white-black) - float64(komi)/2
	return 1 / (1 + math.Exp(-flatWeight*diff))
}

// CountFlats counts the flat stones on top of each stack in a TPS board.
func CountFlats(tps string) (white, black int) {
	board, _, _ := strings.Cut(tps, " ")
	for _, row := range strings.Split(board, "/") {
		for _, square := range strings.Split(row, ",") {
			if square == "" || square[0] == 'x' {
				continue
			}
			if strings.HasSuffix(square, "S") || strings.HasSuffix(square, "C") {
				continue
			}
			switch square[len(square)-1] {
			case '1':
				white++
			case '2':
				black++
			}
		}
	}
	return white, black
}
