// Copyright 2024 The Lucena Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func legalMoves(t *testing.T, fen string) (*Position, []Move) {
	pos, err := PositionFromFEN(fen)
	require.NoError(t, err, fen)
	var moves []Move
	pos.LegalMoves(&moves)
	return pos, moves
}

func containsMove(moves []Move, uci string) bool {
	for _, m := range moves {
		if m.UCI() == uci {
			return true
		}
	}
	return false
}

func TestLegalMoveCounts(t *testing.T) {
	data := []struct {
		fen  string
		want int
	}{
		{FENStartPos, 20},
		{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 48},
		{"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 14},
		{"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 6},
		{"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", 44},
		{"r4rk1/1pp1qppp/p1np1n2/2b1p1b1/2B1P1B1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10", 46},
		// Castling both ways.
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", 26},
		// Stalemate.
		{"R1R5/7R/1k6/7R/8/8/8/1K6 b - - 0 1", 0},
		// Double check, only the king moves.
		{"4k3/8/8/8/7b/3n4/8/4K3 w - - 0 1", 4},
		// Checked by a rook, the king cannot back off along the ray.
		{"4k3/8/8/8/8/8/8/r4K2 w - - 0 1", 3},
		// A single push promotion expands into four moves.
		{"2k5/4P3/8/8/8/8/8/4K3 w - - 0 1", 9},
	}
	for _, d := range data {
		_, moves := legalMoves(t, d.fen)
		assert.Len(t, moves, d.want, d.fen)
	}
}

func TestLegalMovesLeaveKingSafe(t *testing.T) {
	for _, fen := range testFENs {
		pos, moves := legalMoves(t, fen)
		us := pos.Us()
		before := pos.String()
		for _, m := range moves {
			pos.DoMove(m)
			assert.False(t, pos.IsChecked(us), "%v leaves the king in check in %s", m, fen)
			require.NoError(t, pos.Verify())
			pos.UndoMove()
		}
		assert.Equal(t, before, pos.String())
	}
}

// The violent and quiet sets partition the full move set.
func TestGenerationKinds(t *testing.T) {
	for _, fen := range testFENs {
		pos, err := PositionFromFEN(fen)
		require.NoError(t, err)
		if pos.Checkers() != 0 {
			continue
		}

		var all, violent, quiet []Move
		pos.GenerateMoves(All, &all)
		pos.GenerateMoves(Violent, &violent)
		pos.GenerateMoves(Quiet, &quiet)

		assert.Len(t, all, len(violent)+len(quiet), fen)
		for _, m := range violent {
			assert.True(t, m.IsViolent(), "%v generated as violent in %s", m, fen)
		}
		for _, m := range quiet {
			if m.MoveType() != Promotion {
				assert.True(t, m.IsQuiet(), "%v generated as quiet in %s", m, fen)
			}
		}

		seen := make(map[Move]bool)
		for _, m := range all {
			assert.False(t, seen[m], "%v generated twice in %s", m, fen)
			seen[m] = true
		}
		for _, m := range append(violent, quiet...) {
			assert.True(t, seen[m], "%v missing from the full set in %s", m, fen)
		}
	}
}

func TestEnpassantCapture(t *testing.T) {
	// Black captures e4's pawn en passant.
	_, moves := legalMoves(t, "rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	assert.True(t, containsMove(moves, "d4e3"))
}

func TestEnpassantEvasion(t *testing.T) {
	// The double-pushed pawn checks the king and is captured en passant.
	_, moves := legalMoves(t, "8/8/8/2k5/3Pp3/8/8/4K3 b - d3 0 1")
	assert.True(t, containsMove(moves, "e4d3"))
}

func TestEnpassantPin(t *testing.T) {
	// Capturing en passant would expose the king to the h5 rook.
	_, moves := legalMoves(t, "8/8/8/K2pP2r/8/8/8/4k3 w - d6 0 1")
	assert.False(t, containsMove(moves, "e5d6"))
}

func TestCastlingRules(t *testing.T) {
	// Both castles are available.
	_, moves := legalMoves(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	assert.True(t, containsMove(moves, "e1g1"))
	assert.True(t, containsMove(moves, "e1c1"))

	// The queen side path is blocked.
	_, moves = legalMoves(t, "r3k2r/8/8/8/8/8/8/R2QK2R w KQkq - 0 1")
	assert.True(t, containsMove(moves, "e1g1"))
	assert.False(t, containsMove(moves, "e1c1"))

	// The queen on f3 attacks f1 and d1, no castling at all.
	_, moves = legalMoves(t, "r3k2r/8/8/8/8/5q2/8/R3K2R w KQkq - 0 1")
	assert.False(t, containsMove(moves, "e1g1"))
	assert.False(t, containsMove(moves, "e1c1"))

	// No castling without the right, even with a free path.
	_, moves = legalMoves(t, "r3k2r/8/8/8/8/8/8/R3K2R w - - 0 1")
	assert.False(t, containsMove(moves, "e1g1"))
	assert.False(t, containsMove(moves, "e1c1"))
}

func TestEvasionsBlockOrCapture(t *testing.T) {
	// White is checked by the rook on e8. Legal answers: block on the
	// e-file or step aside.
	pos, moves := legalMoves(t, "4r1k1/8/8/8/R7/8/8/4K3 w - - 0 1")
	require.True(t, pos.IsChecked(White))
	assert.True(t, containsMove(moves, "a4e4"))  // block
	assert.True(t, containsMove(moves, "e1d2"))  // step aside
	assert.False(t, containsMove(moves, "a4b4")) // does not address the check
	assert.False(t, containsMove(moves, "e1e2")) // stays on the ray
}

func TestPromotionKinds(t *testing.T) {
	pos, err := PositionFromFEN("2k5/4P3/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	var violent, quiet []Move
	pos.GenerateMoves(Violent, &violent)
	pos.GenerateMoves(Quiet, &quiet)

	assert.True(t, containsMove(violent, "e7e8q"))
	assert.False(t, containsMove(violent, "e7e8r"))
	assert.True(t, containsMove(quiet, "e7e8r"))
	assert.True(t, containsMove(quiet, "e7e8b"))
	assert.True(t, containsMove(quiet, "e7e8n"))
	assert.False(t, containsMove(quiet, "e7e8q"))
}
