// Copyright 2024 The Lucena Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// fen.go parses and formats Forsyth-Edwards Notation.
// http://en.wikipedia.org/wiki/Forsyth%E2%80%93Edwards_Notation

package board

import (
	"fmt"
	"strconv"
	"strings"
)

var symbolToPiece = map[rune]Piece{
	'p': BlackPawn, 'n': BlackKnight, 'b': BlackBishop,
	'r': BlackRook, 'q': BlackQueen, 'k': BlackKing,
	'P': WhitePawn, 'N': WhiteKnight, 'B': WhiteBishop,
	'R': WhiteRook, 'Q': WhiteQueen, 'K': WhiteKing,
}

// PositionFromFEN parses fen and returns the position.
//
// The halfmove clock and the fullmove number may be omitted.
// Malformed placement, side to move, castling and en passant
// fields are rejected.
func PositionFromFEN(fen string) (*Position, error) {
	fld := strings.Fields(fen)
	if len(fld) < 4 {
		return nil, fmt.Errorf("fen has %d fields, expected at least 4", len(fld))
	}
	if len(fld) > 6 {
		return nil, fmt.Errorf("fen has %d fields, expected at most 6", len(fld))
	}

	pos := NewPosition()
	if err := parsePiecePlacement(fld[0], pos); err != nil {
		return nil, err
	}
	if err := parseSideToMove(fld[1], pos); err != nil {
		return nil, err
	}
	if err := parseCastlingAbility(fld[2], pos); err != nil {
		return nil, err
	}
	if err := parseEnpassantSquare(fld[3], pos); err != nil {
		return nil, err
	}

	var err error
	if len(fld) > 4 {
		if pos.curr.halfmoveClock, err = strconv.Atoi(fld[4]); err != nil {
			return nil, fmt.Errorf("bad halfmove clock %q", fld[4])
		}
	}
	if len(fld) > 5 {
		if pos.curr.fullmoveNumber, err = strconv.Atoi(fld[5]); err != nil {
			return nil, fmt.Errorf("bad fullmove number %q", fld[5])
		}
	}

	pos.computeCheckInfo()
	return pos, nil
}

// String returns the position in FEN format.
func (pos *Position) String() string {
	s := formatPiecePlacement(pos)
	s += " " + formatSideToMove(pos)
	s += " " + pos.CastlingAbility().String()
	s += " " + pos.EnpassantSquare().String()
	s += " " + strconv.Itoa(pos.curr.halfmoveClock)
	s += " " + strconv.Itoa(pos.curr.fullmoveNumber)
	return s
}

func parsePiecePlacement(s string, pos *Position) error {
	ranks := strings.Split(s, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("expected 8 ranks, got %d", len(ranks))
	}
	for r := range ranks {
		f := 0 // FEN describes the board from the 8th rank down
		for _, p := range ranks[r] {
			if '1' <= p && p <= '8' {
				f += int(p - '0')
				continue
			}
			pi, ok := symbolToPiece[p]
			if !ok {
				return fmt.Errorf("unhandled %q in piece placement", p)
			}
			if f >= 8 {
				return fmt.Errorf("rank %d has more than 8 files", 8-r)
			}
			pos.Put(RankFile(7-r, f), pi)
			f++
		}
		if f != 8 {
			return fmt.Errorf("rank %d has %d files, expected 8", 8-r, f)
		}
	}

	for col := ColorMinValue; col <= ColorMaxValue; col++ {
		if kings := pos.ByPiece(col, King).Popcnt(); kings != 1 {
			return fmt.Errorf("expected exactly one %v king, got %d", col, kings)
		}
	}
	return nil
}

func formatPiecePlacement(pos *Position) string {
	var sb strings.Builder
	for r := 7; r >= 0; r-- {
		empty := 0
		for f := 0; f < 8; f++ {
			if pi := pos.Get(RankFile(r, f)); pi == NoPiece {
				empty++
			} else {
				if empty != 0 {
					sb.WriteByte(byte('0' + empty))
					empty = 0
				}
				sb.WriteString(pi.String())
			}
		}
		if empty != 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if r != 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

func parseSideToMove(s string, pos *Position) error {
	switch s {
	case "w":
		pos.SetSideToMove(White)
	case "b":
		pos.SetSideToMove(Black)
	default:
		return fmt.Errorf("unknown side to move %q", s)
	}
	return nil
}

func formatSideToMove(pos *Position) string {
	if pos.SideToMove == Black {
		return "b"
	}
	return "w"
}

func parseCastlingAbility(s string, pos *Position) error {
	if s == "-" {
		return nil
	}

	castle := NoCastle
	for _, p := range s {
		var c Castle
		var kingSq, rookSq Square
		var king, rook Piece
		switch p {
		case 'K':
			c, kingSq, rookSq, king, rook = WhiteOO, SquareE1, SquareH1, WhiteKing, WhiteRook
		case 'Q':
			c, kingSq, rookSq, king, rook = WhiteOOO, SquareE1, SquareA1, WhiteKing, WhiteRook
		case 'k':
			c, kingSq, rookSq, king, rook = BlackOO, SquareE8, SquareH8, BlackKing, BlackRook
		case 'q':
			c, kingSq, rookSq, king, rook = BlackOOO, SquareE8, SquareA8, BlackKing, BlackRook
		default:
			return fmt.Errorf("unknown castling right %q", p)
		}
		if pos.Get(kingSq) != king || pos.Get(rookSq) != rook {
			return fmt.Errorf("castling right %q is inconsistent with the piece placement", p)
		}
		castle |= c
	}

	pos.SetCastlingAbility(castle)
	return nil
}

func parseEnpassantSquare(s string, pos *Position) error {
	if s == "-" {
		return nil
	}

	sq, err := SquareFromString(s)
	if err != nil {
		return err
	}

	// The en passant square is the landing square of the capturing
	// pawn, so the double-pushed enemy pawn sits right behind it.
	var pawn Piece
	var pawnSq Square
	switch {
	case pos.SideToMove == White && sq.Rank() == 5:
		pawn, pawnSq = BlackPawn, sq.Relative(-1, 0)
	case pos.SideToMove == Black && sq.Rank() == 2:
		pawn, pawnSq = WhitePawn, sq.Relative(+1, 0)
	default:
		return fmt.Errorf("en passant square %v is inconsistent with the side to move", sq)
	}
	if pos.Get(pawnSq) != pawn {
		return fmt.Errorf("no double-pushed pawn behind en passant square %v", sq)
	}

	pos.SetEnpassantSquare(sq)
	return nil
}
