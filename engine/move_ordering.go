// Copyright 2024 The Lucena Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// move_ordering.go generates and orders moves for the search.
// Generation is done in two phases, violent moves first, so the
// quiet move generation can often be skipped after a cutoff.
//
// The hash move and the killer moves are not returned out of band:
// they are promoted by ordering weight inside the generated batches,
// so only generator output is ever executed. A corrupt hash move from
// a table collision is simply never matched.

package engine

import (
	. "github.com/lucena-chess/lucena/board"
)

const (
	// Move generation states.

	msGenViolent    = iota // generate violent moves (or all evasions when in check)
	msReturnViolent        // return violent moves in order
	msGenQuiet             // generate quiet moves
	msReturnQuiet          // return quiet moves in order
	msDone                 // all moves returned
)

const (
	hashMoveBonus   int32 = 1 << 20
	killerMoveBonus int32 = 1 << 18
	quietMoveScore  int32 = -20000
)

// mvvlvaBonus values based on one pawn = 10.
var mvvlvaBonus = [FigureArraySize]int32{0, 10, 40, 45, 68, 145, 256}

// mvvlva computes Most Valuable Victim / Least Valuable Aggressor.
// https://chessprogramming.wikispaces.com/MVV-LVA
func mvvlva(m Move) int32 {
	v := m.Capture().Figure()
	a := m.Target().Figure()
	return mvvlvaBonus[v]*64 - mvvlvaBonus[a]
}

// moveStack is the moves of one ply.
type moveStack struct {
	moves []Move  // list of moves
	order []int32 // weight of each move for comparison

	kind   int     // violent or all
	state  int     // current generation state
	hash   Move    // hash move
	killer [2]Move // killer moves
}

// stack is a stack of plies (moveStack).
type stack struct {
	position *Position
	moves    []moveStack
	history  *historyTable
}

// Reset clears the stack for a new position.
func (st *stack) Reset(pos *Position) {
	st.position = pos
	st.moves = st.moves[:0]
}

// get returns the moveStack for the current ply.
// Allocates memory if necessary.
func (st *stack) get() *moveStack {
	for len(st.moves) <= st.position.Ply {
		st.moves = append(st.moves, moveStack{
			moves: make([]Move, 0, 16),
			order: make([]int32, 0, 16),
		})
	}
	return &st.moves[st.position.Ply]
}

// GenerateMoves initializes move generation of kind at the current ply.
// hash is the transposition table move, returned first when generated.
func (st *stack) GenerateMoves(kind int, hash Move) {
	ms := st.get()
	ms.moves = ms.moves[:0] // clear the array, but keep the backing memory
	ms.order = ms.order[:0]
	ms.kind = kind
	ms.state = msGenViolent
	ms.hash = hash
	// killers are kept from the last visit of this ply
}

// generate generates and scores the moves of kind at the current ply.
func (st *stack) generate(kind int) {
	ms := &st.moves[st.position.Ply]
	st.position.GenerateMoves(kind, &ms.moves)
	for _, m := range ms.moves[len(ms.order):] {
		ms.order = append(ms.order, st.scoreMove(ms, m))
	}
	st.sort()
}

// scoreMove weighs a move for ordering: the hash move first, then
// captures by MVV-LVA, then the killers, then the remaining quiet
// moves by history with a nudge for likely checking moves.
func (st *stack) scoreMove(ms *moveStack, m Move) int32 {
	if m == ms.hash {
		return hashMoveBonus
	}
	if m.IsViolent() {
		return mvvlva(m)
	}
	if m == ms.killer[0] {
		return killerMoveBonus + 1
	}
	if m == ms.killer[1] {
		return killerMoveBonus
	}

	w := quietMoveScore + st.history.get(m)
	pos := st.position
	if pos.CheckSquares(m.Target().Figure()).Has(m.To()) || pos.Discovered().Has(m.From()) {
		// Checks and discovered checks tend to be good quiet moves.
		w += 8
	}
	return w
}

// Gaps from Best Increments for the Average Case of Shellsort, Marcin Ciura.
var shellSortGaps = [...]int{132, 57, 23, 10, 4, 1}

func (st *stack) sort() {
	ms := &st.moves[st.position.Ply]
	for _, gap := range shellSortGaps {
		for i := gap; i < len(ms.order); i++ {
			j := i
			to, tm := ms.order[j], ms.moves[j]
			for ; j >= gap && ms.order[j-gap] > to; j -= gap {
				ms.order[j] = ms.order[j-gap]
				ms.moves[j] = ms.moves[j-gap]
			}
			ms.order[j], ms.moves[j] = to, tm
		}
	}
}

// popFront pops the best remaining move.
// The list is sorted ascending so the best move is the last.
func (st *stack) popFront() Move {
	ms := &st.moves[st.position.Ply]
	if len(ms.moves) == 0 {
		return NullMove
	}

	last := len(ms.moves) - 1
	move := ms.moves[last]
	ms.moves = ms.moves[:last]
	ms.order = ms.order[:last]
	return move
}

// PopMove returns the next move in order.
// Returns NullMove when there are no moves left.
func (st *stack) PopMove() Move {
	ms := &st.moves[st.position.Ply]
	for {
		switch ms.state {
		case msGenViolent:
			ms.state = msReturnViolent
			// When in check the violent batch holds the full evasion set.
			if ms.kind&Violent != 0 || st.position.Checkers() != 0 {
				st.generate(Violent)
			}

		case msReturnViolent:
			if m := st.popFront(); m == NullMove {
				if ms.kind&Quiet == 0 || st.position.Checkers() != 0 {
					// Quiescence, or the evasions already covered everything.
					ms.state = msDone
				} else {
					ms.state = msGenQuiet
				}
			} else {
				return m
			}

		case msGenQuiet:
			ms.state = msReturnQuiet
			st.generate(Quiet)

		case msReturnQuiet:
			if m := st.popFront(); m == NullMove {
				ms.state = msDone
			} else {
				return m
			}

		case msDone:
			// Just in case another move is requested.
			return NullMove
		}
	}
}

// IsKiller returns true if m is a killer move for the current ply.
func (st *stack) IsKiller(m Move) bool {
	ms := &st.moves[st.position.Ply]
	return m == ms.killer[0] || m == ms.killer[1]
}

// SaveKiller saves a killer move, m.
func (st *stack) SaveKiller(m Move) {
	ms := &st.moves[st.position.Ply]
	if !m.IsViolent() && m != ms.killer[0] {
		// Move the newly found killer first.
		ms.killer[1] = ms.killer[0]
		ms.killer[0] = m
	}
}
