// Copyright 2024 The Lucena Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package perft implements the performance test, the standard
// correctness oracle for move generators: the number of leaf nodes
// at a fixed depth must match the published counts.
// https://chessprogramming.wikispaces.com/Perft
package perft

import (
	"github.com/lucena-chess/lucena/board"
)

// Perft returns the number of leaf nodes at depth.
func Perft(pos *board.Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}

	var moves []board.Move
	pos.LegalMoves(&moves)
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		pos.DoMove(m)
		nodes += Perft(pos, depth-1)
		pos.UndoMove()
	}
	return nodes
}

// Divide returns the perft count per root move, useful to track down
// a generator bug by comparing against another engine.
func Divide(pos *board.Position, depth int) map[string]uint64 {
	div := make(map[string]uint64)
	var moves []board.Move
	pos.LegalMoves(&moves)
	for _, m := range moves {
		pos.DoMove(m)
		div[m.UCI()] = Perft(pos, depth-1)
		pos.UndoMove()
	}
	return div
}
