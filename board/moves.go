// moves.go deals with move parsing.

package board

import (
	"fmt"
)

var (
	errWrongLength = fmt.Errorf("move string has wrong length")
	errNoSuchMove  = fmt.Errorf("no such move")
)

// UCIToMove parses a move given in UCI long algebraic format.
// s can be "a2a4" or "h7h8q" for pawn promotions.
// The move must be legal in the current position.
func (pos *Position) UCIToMove(s string) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NullMove, errWrongLength
	}

	from, err := SquareFromString(s[0:2])
	if err != nil {
		return NullMove, err
	}
	to, err := SquareFromString(s[2:4])
	if err != nil {
		return NullMove, err
	}

	promotion := NoFigure
	if len(s) == 5 {
		var ok bool
		if promotion, ok = symbolToFigure[s[4]]; !ok {
			return NullMove, fmt.Errorf("unknown promotion figure %q", s[4])
		}
	}

	var buf [256]Move
	legal := buf[:0]
	pos.LegalMoves(&legal)
	for _, m := range legal {
		if m.From() == from && m.To() == to && m.Promotion().Figure() == promotion {
			return m, nil
		}
	}
	return NullMove, errNoSuchMove
}

// MoveToUCI converts a move to UCI long algebraic format.
func (pos *Position) MoveToUCI(m Move) string {
	return m.UCI()
}
