// Copyright 2024 The Lucena Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// material.go implements position evaluation.
//
// The evaluation is material plus piece square tables for pawns and
// the king, interpolated between middle game and end game on the
// remaining material. Other figures did not earn their tables.

package engine

import (
	. "github.com/lucena-chess/lucena/board"
)

// Piece square tables, indexed from White's point of view with
// A1 = 0, so the first row is the first rank. Black mirrors the ranks.

var wPawnMid = [SquareArraySize]int32{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, -20, -20, 10, 10, 5,
	5, -5, -10, 0, 0, -10, -5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, 5, 10, 25, 25, 10, 5, 5,
	10, 10, 20, 30, 30, 20, 10, 10,
	50, 50, 50, 50, 50, 50, 50, 50,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var wPawnEnd = [SquareArraySize]int32{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 5, 5, 5, 5, 5, 5, 5,
	10, 10, 10, 10, 10, 10, 10, 10,
	20, 20, 20, 20, 20, 20, 20, 20,
	30, 30, 30, 30, 30, 30, 30, 30,
	45, 45, 45, 45, 45, 45, 45, 45,
	70, 70, 70, 70, 70, 70, 70, 70,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var wKingMid = [SquareArraySize]int32{
	20, 30, 10, 0, 0, 10, 30, 20,
	20, 20, 0, 0, 0, 0, 20, 20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
}

var wKingEnd = [SquareArraySize]int32{
	-50, -30, -30, -30, -30, -30, -30, -50,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-50, -40, -30, -20, -20, -30, -40, -50,
}

// relativeSquare mirrors sq to col's point of view.
func relativeSquare(col Color, sq Square) Square {
	if col == White {
		return sq
	}
	return sq ^ 0x38
}

// Evaluate scores the position in centipawns from White's point of view.
func Evaluate(pos *Position) int32 {
	var mid, end int32
	for col := ColorMinValue; col <= ColorMaxValue; col++ {
		sign := col.Multiplier()

		for fig := Pawn; fig <= Queen; fig++ {
			material := sign * pos.ByPiece(col, fig).Popcnt() * figureScore[fig]
			mid += material
			end += material
		}

		for bb := pos.ByPiece(col, Pawn); bb != 0; {
			sq := relativeSquare(col, bb.Pop())
			mid += sign * wPawnMid[sq]
			end += sign * wPawnEnd[sq]
		}

		kingSq := relativeSquare(col, pos.KingSquare(col))
		mid += sign * wKingMid[kingSq]
		end += sign * wKingEnd[kingSq]
	}

	p := phase(pos)
	return (mid*p + end*(TotalPhase-p)) / TotalPhase
}
