// Copyright 2024 The Lucena Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/lucena-chess/lucena/board"
)

func newStack(pos *Position) *stack {
	st := &stack{history: new(historyTable)}
	st.Reset(pos)
	return st
}

func popAll(st *stack) []Move {
	var moves []Move
	for m := st.PopMove(); m != NullMove; m = st.PopMove() {
		moves = append(moves, m)
	}
	return moves
}

// The stack returns every generated move exactly once.
func TestStackReturnsAllMoves(t *testing.T) {
	pos := mustPosition(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")

	var want []Move
	pos.GenerateMoves(All, &want)

	st := newStack(pos)
	st.GenerateMoves(All, NullMove)
	got := popAll(st)

	require.Len(t, got, len(want))
	seen := make(map[Move]bool)
	for _, m := range got {
		assert.False(t, seen[m], "%v returned twice", m)
		seen[m] = true
	}
	for _, m := range want {
		assert.True(t, seen[m], "%v never returned", m)
	}
}

// The hash move is returned first when it is part of the position.
func TestStackHashMoveFirst(t *testing.T) {
	pos := mustPosition(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	hash := mustMove(t, pos, "e2a6") // bishop takes bishop

	st := newStack(pos)
	st.GenerateMoves(All, hash)
	got := popAll(st)
	require.NotEmpty(t, got)
	assert.Equal(t, hash, got[0])
}

// Violent moves are returned before quiet moves.
func TestStackViolentBeforeQuiet(t *testing.T) {
	pos := mustPosition(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")

	st := newStack(pos)
	st.GenerateMoves(All, NullMove)
	quietSeen := false
	for _, m := range popAll(st) {
		if m.IsQuiet() {
			quietSeen = true
		} else {
			assert.False(t, quietSeen, "%v returned after a quiet move", m)
		}
	}
}

// Killers come before the other quiet moves.
func TestStackKillersFirstAmongQuiets(t *testing.T) {
	pos := mustPosition(t, FENStartPos)
	killer := mustMove(t, pos, "a2a3")

	st := newStack(pos)
	st.GenerateMoves(All, NullMove)
	popAll(st)
	st.SaveKiller(killer)
	assert.True(t, st.IsKiller(killer))

	st.GenerateMoves(All, NullMove)
	got := popAll(st)
	require.NotEmpty(t, got)

	for _, m := range got {
		if m.IsQuiet() {
			assert.Equal(t, killer, m, "the killer must be the first quiet move")
			break
		}
	}
}

// When in check a single batch holds the full evasion set.
func TestStackEvasions(t *testing.T) {
	pos := mustPosition(t, "4k3/8/8/8/7b/3n4/8/4K3 w - - 0 1")
	require.NotZero(t, pos.Checkers())

	var want []Move
	pos.GenerateMoves(All, &want)

	st := newStack(pos)
	st.GenerateMoves(All, NullMove)
	assert.Len(t, popAll(st), len(want))
}

// Quiescence asks only for violent moves.
func TestStackViolentOnly(t *testing.T) {
	pos := mustPosition(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")

	var want []Move
	pos.GenerateMoves(Violent, &want)

	st := newStack(pos)
	st.GenerateMoves(Violent, NullMove)
	got := popAll(st)
	assert.Len(t, got, len(want))
	for _, m := range got {
		assert.True(t, m.IsViolent())
	}
}

func TestMvvLva(t *testing.T) {
	// Pawn takes queen beats queen takes pawn.
	pxq := MakeMove(Normal, SquareE4, SquareD5, BlackQueen, WhitePawn)
	qxp := MakeMove(Normal, SquareD1, SquareD5, BlackPawn, WhiteQueen)
	assert.Greater(t, mvvlva(pxq), mvvlva(qxp))
}
