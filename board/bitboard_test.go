// Copyright 2024 The Lucena Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBetween(t *testing.T) {
	data := []struct {
		i, j Square
		bb   Bitboard
	}{
		// Same file.
		{SquareA1, SquareA8, SquareA2.Bitboard() | SquareA3.Bitboard() | SquareA4.Bitboard() |
			SquareA5.Bitboard() | SquareA6.Bitboard() | SquareA7.Bitboard()},
		// Same rank.
		{SquareB4, SquareE4, SquareC4.Bitboard() | SquareD4.Bitboard()},
		// Diagonal.
		{SquareC1, SquareH6, SquareD2.Bitboard() | SquareE3.Bitboard() | SquareF4.Bitboard() | SquareG5.Bitboard()},
		// Adjacent squares have nothing in between.
		{SquareE4, SquareE5, BbEmpty},
		{SquareE4, SquareD5, BbEmpty},
		// Not aligned.
		{SquareA1, SquareB3, BbEmpty},
		{SquareC2, SquareH4, BbEmpty},
	}
	for _, d := range data {
		assert.Equal(t, d.bb, Between(d.i, d.j), "between %v and %v", d.i, d.j)
		assert.Equal(t, d.bb, Between(d.j, d.i), "between %v and %v", d.j, d.i)
	}
}

func TestDirections(t *testing.T) {
	e4 := SquareE4.Bitboard()
	assert.Equal(t, SquareE5.Bitboard(), North(e4))
	assert.Equal(t, SquareE3.Bitboard(), South(e4))
	assert.Equal(t, SquareF4.Bitboard(), East(e4))
	assert.Equal(t, SquareD4.Bitboard(), West(e4))

	// Shifts do not wrap around the board edge.
	assert.Equal(t, BbEmpty, East(SquareH4.Bitboard()))
	assert.Equal(t, BbEmpty, West(SquareA4.Bitboard()))
	assert.Equal(t, BbEmpty, North(SquareE8.Bitboard()))
	assert.Equal(t, BbEmpty, South(SquareE1.Bitboard()))

	assert.Equal(t, SquareE5.Bitboard(), Forward(White, e4))
	assert.Equal(t, SquareE3.Bitboard(), Forward(Black, e4))
	assert.Equal(t, SquareE3.Bitboard(), Backward(White, e4))
}

func TestForwardSpan(t *testing.T) {
	e2 := SquareE2.Bitboard()
	want := BbEmpty
	for _, sq := range []Square{SquareE3, SquareE4, SquareE5, SquareE6, SquareE7, SquareE8} {
		want |= sq.Bitboard()
	}
	assert.Equal(t, want, ForwardSpan(White, e2))

	want = SquareE1.Bitboard()
	assert.Equal(t, want, BackwardSpan(White, e2))
	assert.Equal(t, want, ForwardSpan(Black, e2))
}

func TestRelativeRankBb(t *testing.T) {
	assert.Equal(t, BbRank7, RelativeRankBb(White, 6))
	assert.Equal(t, BbRank2, RelativeRankBb(Black, 6))
	assert.Equal(t, BbRank1, RelativeRankBb(White, 0))
	assert.Equal(t, BbRank8, RelativeRankBb(Black, 0))
}

func TestBitboardOps(t *testing.T) {
	bb := SquareC3.Bitboard() | SquareF6.Bitboard() | SquareH8.Bitboard()
	assert.True(t, bb.Has(SquareC3))
	assert.False(t, bb.Has(SquareC4))
	assert.Equal(t, int32(3), bb.Popcnt())
	assert.Equal(t, int32(2), bb.CountMax2())
	assert.Equal(t, int32(1), SquareA1.Bitboard().CountMax2())
	assert.Equal(t, int32(0), BbEmpty.CountMax2())

	assert.Equal(t, SquareC3, bb.AsSquare())
	sq := bb.Pop()
	assert.Equal(t, SquareC3, sq)
	assert.Equal(t, SquareF6, bb.Pop())
	assert.Equal(t, SquareH8, bb.Pop())
	assert.Equal(t, BbEmpty, bb)
}

func TestAttackTables(t *testing.T) {
	// Knight on b1 attacks a3, c3 and d2.
	want := SquareA3.Bitboard() | SquareC3.Bitboard() | SquareD2.Bitboard()
	assert.Equal(t, want, KnightAttacks(SquareB1))

	// King in the corner.
	want = SquareA2.Bitboard() | SquareB2.Bitboard() | SquareB1.Bitboard()
	assert.Equal(t, want, KingAttacks(SquareA1))

	// Pawns attack diagonally forward only.
	want = SquareD5.Bitboard() | SquareF5.Bitboard()
	assert.Equal(t, want, PawnAttacks(White, SquareE4))
	want = SquareD3.Bitboard() | SquareF3.Bitboard()
	assert.Equal(t, want, PawnAttacks(Black, SquareE4))
	assert.Equal(t, SquareB3.Bitboard(), PawnAttacks(White, SquareA2))

	// Rook attacks stop at the blockers, which are included.
	occ := SquareE7.Bitboard() | SquareB4.Bitboard() | SquareE2.Bitboard()
	want = BbEmpty
	for _, sq := range []Square{
		SquareE5, SquareE6, SquareE7, // north, blocked at e7
		SquareE3, SquareE2, // south, blocked at e2
		SquareF4, SquareG4, SquareH4, // east
		SquareD4, SquareC4, SquareB4, // west, blocked at b4
	} {
		want |= sq.Bitboard()
	}
	assert.Equal(t, want, RookAttacks(SquareE4, occ))

	// Bishop attacks on an empty board.
	assert.Equal(t,
		slidingAttack(SquareC1, bishopDeltas, BbEmpty),
		BishopAttacks(SquareC1, BbEmpty))

	// Queen is rook plus bishop.
	assert.Equal(t,
		RookAttacks(SquareD5, occ)|BishopAttacks(SquareD5, occ),
		QueenAttacks(SquareD5, occ))

	// The magic tables must agree with the slow sliding attack
	// for a bunch of random-ish occupancies.
	for sq := SquareMinValue; sq <= SquareMaxValue; sq++ {
		occ := Bitboard(0x1234567890abcdef) >> uint(sq%13) &^ sq.Bitboard()
		assert.Equal(t, slidingAttack(sq, rookDeltas, occ), RookAttacks(sq, occ), "rook on %v", sq)
		assert.Equal(t, slidingAttack(sq, bishopDeltas, occ), BishopAttacks(sq, occ), "bishop on %v", sq)
	}
}
