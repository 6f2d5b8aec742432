// Copyright 2024 The Lucena Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package perft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucena-chess/lucena/board"
)

// Published counts from https://chessprogramming.wikispaces.com/Perft+Results.
// Deep counts are skipped in -short mode.
var perftResults = []struct {
	fen    string
	counts []uint64
}{
	{board.FENStartPos,
		[]uint64{20, 400, 8902, 197281, 4865609}},
	{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		[]uint64{48, 2039, 97862, 4085603}},
	{"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		[]uint64{14, 191, 2812, 43238, 674624}},
	{"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		[]uint64{6, 264, 9467, 422333}},
	{"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		[]uint64{44, 1486, 62379, 2103487}},
	{"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
		[]uint64{46, 2079, 89890, 3894594}},
}

const shortModeLimit = 100000

func TestPerft(t *testing.T) {
	for _, d := range perftResults {
		pos, err := board.PositionFromFEN(d.fen)
		require.NoError(t, err, d.fen)

		for i, want := range d.counts {
			if testing.Short() && want > shortModeLimit {
				break
			}
			depth := i + 1
			got := Perft(pos, depth)
			assert.Equal(t, want, got, "perft(%d) of %s", depth, d.fen)
		}

		// The board must come back unchanged.
		assert.Equal(t, d.fen, pos.String())
	}
}

func TestDivideSumsToPerft(t *testing.T) {
	pos, err := board.PositionFromFEN(board.FENStartPos)
	require.NoError(t, err)

	div := Divide(pos, 3)
	assert.Len(t, div, 20)
	var sum uint64
	for _, n := range div {
		sum += n
	}
	assert.Equal(t, Perft(pos, 3), sum)
}

func BenchmarkPerftStartPos(b *testing.B) {
	pos, _ := board.PositionFromFEN(board.FENStartPos)
	for i := 0; i < b.N; i++ {
		Perft(pos, 4)
	}
}
