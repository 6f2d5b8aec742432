// Copyright 2024 The Lucena Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package engine implements position searching on top of the board package.
//
// Search (engine.go) features implemented are:
//
//   - Aspiration window - https://chessprogramming.wikispaces.com/Aspiration+Windows
//   - Check extension - https://chessprogramming.wikispaces.com/Check+Extensions
//   - Fail soft - https://chessprogramming.wikispaces.com/Fail-Soft
//   - Futility pruning - https://chessprogramming.wikispaces.com/Futility+pruning
//   - History leaf pruning - https://chessprogramming.wikispaces.com/History+Leaf+Pruning
//   - Killer move heuristic - https://chessprogramming.wikispaces.com/Killer+Heuristic
//   - Late move reduction (LMR) - https://chessprogramming.wikispaces.com/Late+Move+Reductions
//   - Mate distance pruning - https://chessprogramming.wikispaces.com/Mate+Distance+Pruning
//   - Negamax framework - http://chessprogramming.wikispaces.com/Alpha-Beta#Implementation-Negamax%20Framework
//   - Null move pruning (NMP) - https://chessprogramming.wikispaces.com/Null+Move+Pruning
//   - Principal variation search (PVS) - https://chessprogramming.wikispaces.com/Principal+Variation+Search
//   - Quiescence search - https://chessprogramming.wikispaces.com/Quiescence+Search
//   - Static exchange evaluation - https://chessprogramming.wikispaces.com/Static+Exchange+Evaluation
//   - Zobrist hashing - https://chessprogramming.wikispaces.com/Zobrist+Hashing
//
// Move ordering (move_ordering.go) consists of:
//
//   - Hash move heuristic
//   - Captures sorted by MVVLVA - https://chessprogramming.wikispaces.com/MVV-LVA
//   - Killer moves - https://chessprogramming.wikispaces.com/Killer+Move
//   - Quiet moves by history, with a small bonus for likely checks
//
// Evaluation (material.go) is material with piece square tables for
// pawns and king, interpolated between middle and end game.
package engine

import (
	"errors"

	. "github.com/lucena-chess/lucena/board"
)

const (
	checkDepthExtension int32 = 1 // how much to extend search in case of checks
	nullMoveDepthLimit  int32 = 1 // disable null-move below and including this limit
	lmrDepthLimit       int32 = 3 // do not do LMR below and including this limit
	futilityDepthLimit  int32 = 3 // maximum depth to do futility pruning

	initialAspirationWindow = 21  // ~a quarter of a pawn
	futilityMargin          = 150 // ~one and a half pawn
	checkpointStep          = 10000
)

// ErrIllegalMove is returned by ApplyMove for moves outside the legal set.
var ErrIllegalMove = errors.New("illegal move")

// Options keeps the engine's options.
type Options struct {
	AnalyseMode bool // true to display info strings
}

// Stats stores statistics about the search.
type Stats struct {
	CacheHit  uint64 // number of times the position was found in the transposition table
	CacheMiss uint64 // number of times the position was not found in the transposition table
	Nodes     uint64 // number of nodes searched
	Depth     int32  // depth searched
	SelDepth  int32  // maximum depth reached on PV (doesn't include the hash moves)
}

// CacheHitRatio returns the ratio of transposition table hits over the total number of lookups.
func (s *Stats) CacheHitRatio() float32 {
	return float32(s.CacheHit) / float32(s.CacheHit+s.CacheMiss)
}

// Logger logs search progress.
type Logger interface {
	// BeginSearch signals a new search is started.
	BeginSearch()
	// EndSearch signals end of search.
	EndSearch()
	// PrintPV logs the principal variation after
	// iterative deepening completed one depth.
	PrintPV(stats Stats, score int32, pv []Move)
}

// NulLogger is a logger that does nothing.
type NulLogger struct{}

func (nl *NulLogger) BeginSearch()                              {}
func (nl *NulLogger) EndSearch()                                {}
func (nl *NulLogger) PrintPV(stats Stats, score int32, pv []Move) {}

// historyEntry keeps counts of how well a move performed in the past.
type historyEntry struct {
	stat int32
	move Move
}

// historyTable is a hash table that contains the history of moves.
//
// Old moves are automatically evicted when new moves are inserted
// so this cache is approx. LRU.
type historyTable [1024]historyEntry

// historyHash hashes the move and returns an index into the history table.
func historyHash(m Move) uint32 {
	// This is a murmur inspired hash so upper bits are better
	// mixed than the lower bits. The hash multiplier was chosen
	// to minimize the number of misses.
	h := uint32(m) * 438650727
	return (h + (h << 17)) >> 22
}

// get returns the stats for a move, m.
// If the move is not in the table, returns 0.
func (ht *historyTable) get(m Move) int32 {
	h := historyHash(m)
	if ht[h].move != m {
		return 0
	}
	return ht[h].stat
}

// add increments the counters for m.
// Evicts an old move if necessary.
func (ht *historyTable) add(m Move, delta int32) {
	h := historyHash(m)
	if ht[h].move != m {
		ht[h] = historyEntry{stat: delta, move: m}
	} else {
		ht[h].stat += delta
	}
}

// Engine implements the logic to search for the best move in a position.
type Engine struct {
	Options  Options   // engine options
	Log      Logger    // logger
	Stats    Stats     // search statistics
	Position *Position // current position

	rootPly int           // position's ply at the start of the search
	stack   stack         // stack of moves
	pvTable pvTable       // principal variation table
	history *historyTable // keeps the history of quiet moves

	timeControl *TimeControl
	stopped     bool
	checkpoint  uint64
}

// NewEngine creates a new engine searching pos.
// If pos is nil then the starting position is used.
func NewEngine(pos *Position, log Logger, options Options) *Engine {
	if log == nil {
		log = &NulLogger{}
	}
	eng := &Engine{
		Options: options,
		Log:     log,
		pvTable: newPvTable(),
		history: new(historyTable),
	}
	eng.stack.history = eng.history
	eng.SetPosition(pos)
	return eng
}

// SetPosition sets the current position.
// If pos is nil, the starting position is set.
func (eng *Engine) SetPosition(pos *Position) {
	if pos != nil {
		eng.Position = pos
	} else {
		eng.Position, _ = PositionFromFEN(FENStartPos)
	}
	eng.stack.Reset(eng.Position)
}

// SetPositionFromFEN sets the current position from a FEN string.
func (eng *Engine) SetPositionFromFEN(fen string) error {
	pos, err := PositionFromFEN(fen)
	if err != nil {
		return err
	}
	eng.SetPosition(pos)
	return nil
}

// DoMove executes a move without legality checks.
func (eng *Engine) DoMove(move Move) {
	eng.Position.DoMove(move)
}

// UndoMove undoes the last move.
func (eng *Engine) UndoMove() {
	eng.Position.UndoMove()
}

// ApplyMove executes a move after verifying it is legal.
// The position is unchanged if the move is rejected.
func (eng *Engine) ApplyMove(move Move) error {
	if !eng.Position.IsLegal(move) {
		return ErrIllegalMove
	}
	eng.Position.DoMove(move)
	return nil
}

// Stop requests a cooperative stop of the running search.
func (eng *Engine) Stop() {
	if eng.timeControl != nil {
		eng.timeControl.Stop()
	}
}

// ClearHash drops all cached scores of the transposition table,
// e.g. at the start of a new game.
func (eng *Engine) ClearHash() {
	GlobalHashTable.Clear()
}

// Score evaluates the current position from the current player's POV.
func (eng *Engine) Score() int32 {
	return Evaluate(eng.Position) * eng.Position.Us().Multiplier()
}

// ply returns the ply from the beginning of the search.
func (eng *Engine) ply() int32 {
	return int32(eng.Position.Ply - eng.rootPly)
}

// endPosition determines whether the current position is drawn by rule.
// Returns the score and a bool indicating if the game has ended.
func (eng *Engine) endPosition() (int32, bool) {
	pos := eng.Position // shortcut
	// Neither side can mate.
	if pos.InsufficientMaterial() {
		return DrawScore, true
	}
	// Fifty full moves without a capture or a pawn move.
	if pos.FiftyMoveRule() {
		return DrawScore, true
	}
	// Repetition is a draw.
	// At root we need to continue searching even if we saw two repetitions
	// already, however we can prune deeper searches at two repetitions.
	if r := pos.ThreeFoldRepetition(); eng.ply() > 0 && r >= 2 || r >= 3 {
		return DrawScore, true
	}
	return DrawScore, false
}

// retrieveHash gets the current position from GlobalHashTable.
func (eng *Engine) retrieveHash() hashEntry {
	entry := GlobalHashTable.get(eng.Position)
	if entry.kind == noEntry {
		eng.Stats.CacheMiss++
		return hashEntry{}
	}

	// Return the mate score relative to root.
	// The score was adjusted relative to the position before
	// the hash table was updated.
	if entry.score < int16(KnownLossScore) {
		if entry.kind == exact {
			entry.score += int16(eng.ply())
		}
	} else if entry.score > int16(KnownWinScore) {
		if entry.kind == exact {
			entry.score -= int16(eng.ply())
		}
	}

	eng.Stats.CacheHit++
	return entry
}

// updateHash updates GlobalHashTable with the current position.
func (eng *Engine) updateHash(α, β, depth, score int32, move Move) {
	kind := exact
	if score <= α {
		kind = failedLow
	} else if score >= β {
		kind = failedHigh
	}

	// Save the mate score relative to the current position.
	// When retrieving from hash the score will be adjusted relative to root.
	if score < KnownLossScore {
		if kind == exact {
			score -= eng.ply()
		} else if kind == failedLow {
			score = KnownLossScore
		} else {
			return
		}
	} else if score > KnownWinScore {
		if kind == exact {
			score += eng.ply()
		} else if kind == failedHigh {
			score = KnownWinScore
		} else {
			return
		}
	}

	GlobalHashTable.put(eng.Position, hashEntry{
		kind:  kind,
		score: int16(score),
		depth: int8(depth),
		move:  move,
	})
}

// searchQuiescence evaluates the position after solving all captures.
//
// This is a very limited search that considers only violent moves.
// When the side to move is in check, the full evasion set is searched
// instead, so mates at the horizon are scored exactly.
func (eng *Engine) searchQuiescence(α, β int32) int32 {
	eng.Stats.Nodes++
	if score, done := eng.endPosition(); done {
		return score
	}

	pos := eng.Position
	us := pos.Us()
	inCheck := pos.IsChecked(us)

	localα := α
	static := int32(0)
	if !inCheck {
		// Stand pat.
		static = eng.Score()
		if static >= β {
			return static
		}
		localα = max(localα, static)
	}

	hasMoves := false
	var bestMove Move
	eng.stack.GenerateMoves(Violent, NullMove)
	for move := eng.stack.PopMove(); move != NullMove; move = eng.stack.PopMove() {
		if !inCheck {
			// Prune futile moves that would anyway result in a
			// stand-pat at the next depth, and losing captures.
			if isFutile(pos, static, localα, futilityMargin, move) {
				continue
			}
			if move.MoveType() == Normal && seeSign(pos, move) {
				continue
			}
		}

		// Discard illegal moves.
		eng.DoMove(move)
		if pos.IsChecked(us) {
			eng.UndoMove()
			continue
		}
		hasMoves = true

		score := -eng.searchQuiescence(-β, -localα)
		eng.UndoMove()

		if score >= β {
			return score
		}
		if score > localα {
			localα = score
			bestMove = move
		}
	}

	if inCheck && !hasMoves {
		// All evasions were generated, so this is checkmate.
		return MatedScore + eng.ply()
	}

	if α < localα && localα < β {
		eng.pvTable.Put(pos, bestMove)
	}
	return localα
}

// tryMove makes a move and descends the search tree.
//
// α, β represent the lower and upper bounds.
// depth is the remaining depth (decreasing).
// lmr is how much to reduce a late move. Implies non-null move.
// nullWindow indicates whether to scout first. Implies non-null move.
// move is the move to execute. Can be NullMove.
//
// Returns the score from the deeper search.
func (eng *Engine) tryMove(α, β, depth, lmr int32, nullWindow bool, move Move) int32 {
	depth--

	score := α + 1
	if lmr > 0 { // reduce late moves
		score = -eng.searchTree(-α-1, -α, depth-lmr)
	}

	if score > α { // if late move reduction is disabled or has failed
		if nullWindow {
			score = -eng.searchTree(-α-1, -α, depth)
			if α < score && score < β {
				score = -eng.searchTree(-β, -α, depth)
			}
		} else {
			score = -eng.searchTree(-β, -α, depth)
		}
	}

	eng.UndoMove()
	return score
}

// passed returns true if a passed pawn appears or disappears.
//
// The heuristic is incomplete and doesn't handle discovered passed pawns.
func passed(pos *Position, m Move) bool {
	if m.Piece().Figure() == Pawn {
		// Check no pawns are in front and on its adjacent files.
		bb := m.To().Bitboard()
		bb = West(bb) | bb | East(bb)
		pawns := pos.ByFigure[Pawn] &^ m.To().Bitboard() &^ m.From().Bitboard()
		if ForwardSpan(m.SideToMove(), bb)&pawns == 0 {
			return true
		}
	}
	if m.Capture().Figure() == Pawn {
		// Check no pawns are in front and on its adjacent files.
		bb := m.To().Bitboard()
		bb = West(bb) | bb | East(bb)
		pawns := pos.ByFigure[Pawn] &^ m.To().Bitboard() &^ m.From().Bitboard()
		if BackwardSpan(m.SideToMove(), bb)&pawns == 0 {
			return true
		}
	}
	return false
}

// isFutile returns true if m cannot raise the current static
// evaluation above α. This is just a heuristic and mistakes
// can happen.
func isFutile(pos *Position, static, α, margin int32, m Move) bool {
	if m.MoveType() == Promotion {
		// Promotions and passed pawns can increase the static
		// evaluation by more than futilityMargin.
		return false
	}
	δ := futilityFigureBonus[m.Capture().Figure()]
	return static+δ+margin < α && !passed(pos, m)
}

// searchTree implements the negamax framework.
//
// searchTree fails soft, i.e. the score returned can be outside the bounds.
//
// α, β represent the lower and upper bounds.
// depth is the search depth (decreasing).
//
// Returns the score of the current position up to depth (modulo
// reductions/extensions). The returned score is from the current
// player's POV.
//
// Invariants:
//
//	If score <= α then the search failed low and the score is an upper bound.
//	else if score >= β then the search failed high and the score is a lower bound.
//	else score is exact.
//
// Assuming this is a maximizing node, failing high means that a
// minimizing ancestor node already has a better alternative.
func (eng *Engine) searchTree(α, β, depth int32) int32 {
	ply := eng.ply()
	pvNode := α+1 < β
	pos := eng.Position
	us, them := pos.Us(), pos.Them()

	// Update statistics.
	eng.Stats.Nodes++
	if !eng.stopped && eng.Stats.Nodes >= eng.checkpoint {
		eng.checkpoint = eng.Stats.Nodes + checkpointStep
		if eng.timeControl.Stopped() {
			eng.stopped = true
		}
	}
	if eng.stopped {
		return α
	}
	if pvNode && ply > eng.Stats.SelDepth {
		eng.Stats.SelDepth = ply
	}

	// Verify that this is not already a draw by rule.
	if score, done := eng.endPosition(); done {
		if ply != 0 || score != 0 {
			// At root we ignore draws because some GUIs don't properly
			// detect theoretical draws, and a move must be returned.
			return score
		}
	}

	// Mate pruning: if an ancestor already has a mate in ply moves then
	// the search will always fail low so we return the lowest winning score.
	if MateScore-ply <= α {
		return KnownWinScore
	}

	// Check the transposition table.
	entry := eng.retrieveHash()
	hash := entry.move
	if entry.kind != noEntry && depth <= int32(entry.depth) {
		score := int32(entry.score)
		if entry.kind == exact {
			// Simply return if the score is exact.
			// Update the principal variation table if possible.
			if α < score && score < β {
				eng.pvTable.Put(pos, hash)
			}
			return score
		}
		if entry.kind == failedLow && score <= α {
			// Previously the move failed low so the actual score is at
			// most entry.score. If that's lower than α this will also
			// fail low.
			return score
		}
		if entry.kind == failedHigh && score >= β {
			// Previously the move failed high so the actual score is at
			// least entry.score. If that's higher than β this will also
			// fail high.
			return score
		}
	}

	// Stop searching when the maximum search depth is reached.
	if depth <= 0 {
		// This is already won / lost and quiescence cannot change
		// that because it only looks at violent moves.
		if α >= KnownWinScore || β <= KnownLossScore {
			return eng.Score()
		}

		// Depth can be < 0 due to aggressive LMR.
		score := eng.searchQuiescence(α, β)
		eng.updateHash(α, β, depth, score, NullMove)
		return score
	}

	sideIsChecked := pos.IsChecked(us)

	// Do a null move. If the null move fails high then the current
	// position is too good, so the opponent will not play into it.
	if depth > nullMoveDepthLimit && // not very close to leafs
		!sideIsChecked && // null move is illegal when in check
		pos.MinorsAndMajors(us) != 0 && // at least one minor/major piece
		KnownLossScore < α && β < KnownWinScore { // disable in lost or won positions
		eng.DoMove(NullMove)
		reduction := pos.MinorsAndMajors(us).CountMax2()
		score := eng.tryMove(β-1, β, depth-reduction, 0, false, NullMove)
		if score >= β {
			return score
		}
	}

	bestMove, bestScore := NullMove, -InfinityScore

	// Futility and history pruning at frontier nodes.
	// Based on Deep Futility Pruning http://home.hccnet.nl/h.g.muller/deepfut.html
	// Based on History Leaf Pruning https://chessprogramming.wikispaces.com/History+Leaf+Pruning
	static := int32(0)
	allowLeafsPruning := false
	if depth <= futilityDepthLimit && // enable when close to the frontier
		!sideIsChecked && // disable in check
		!pvNode && // disable in pv nodes
		KnownLossScore < α && β < KnownWinScore { // disable when searching for a mate
		allowLeafsPruning = true
		static = eng.Score()
	}

	// Principal variation search: search with a null window if there is already a good move.
	nullWindow := false // updated once alpha is improved
	// Late move reduction: search the best moves with full depth, reduce the rest.
	allowLateMove := !sideIsChecked && depth > lmrDepthLimit

	// dropped is true if not all moves were searched.
	// Mate cannot be declared unless all moves were tested.
	dropped := false
	numMoves := int32(0)
	localα := α

	eng.stack.GenerateMoves(All, hash)
	for move := eng.stack.PopMove(); move != NullMove; move = eng.stack.PopMove() {
		critical := move == hash || eng.stack.IsKiller(move)
		numMoves++

		newDepth := depth
		eng.DoMove(move)

		// Skip illegal moves that leave the king in check.
		if pos.IsChecked(us) {
			eng.UndoMove()
			continue
		}

		// Extend the search when our move gives check, unless the
		// checking piece just hangs on an undefended square.
		// When the move gives check, history pruning and futility
		// pruning are also disabled.
		givesCheck := pos.IsChecked(them)
		if givesCheck {
			if !pos.IsAttacked(move.To(), them) || pos.IsAttacked(move.To(), us) {
				newDepth += checkDepthExtension
			}
		}

		// Reduce late quiet moves and bad captures.
		lmr := int32(0)
		if allowLateMove && !givesCheck && !critical {
			if move.IsQuiet() || seeSign(pos, move) {
				// Reduce quiet and bad capture moves more at high
				// depths and after many tried moves. A large numMoves
				// means it's likely not a CUT node. A large depth
				// means reductions are less risky.
				lmr = 1 + min(depth, numMoves)/5
			}
		}

		// Prune moves close to the frontier.
		if allowLeafsPruning && !givesCheck && !critical {
			// Prune quiet moves that performed badly historically.
			if stat := eng.history.get(move); stat < -15 && (move.IsQuiet() || seeSign(pos, move)) {
				dropped = true
				eng.UndoMove()
				continue
			}
			// Prune moves that do not raise alpha.
			if isFutile(pos, static, localα, depth*futilityMargin, move) {
				bestScore = max(bestScore, static)
				dropped = true
				eng.UndoMove()
				continue
			}
		}

		score := eng.tryMove(localα, β, newDepth, lmr, nullWindow, move)
		if allowLeafsPruning && !givesCheck { // update history scores
			if score > localα {
				eng.history.add(move, 16)
			} else {
				eng.history.add(move, -1)
			}
		}

		if score >= β {
			// Fail high, cut node.
			eng.stack.SaveKiller(move)
			eng.updateHash(α, β, depth, score, move)
			return score
		}
		if score > bestScore {
			nullWindow = true
			bestMove, bestScore = move, score
			localα = max(localα, score)
		}
	}

	if !dropped {
		// If no move was found then the game is over.
		if bestMove == NullMove {
			if sideIsChecked {
				bestScore = MatedScore + ply
			} else {
				bestScore = DrawScore
			}
		}
		// Update the hash and principal variation tables.
		eng.updateHash(α, β, depth, bestScore, bestMove)
		if α < bestScore && bestScore < β {
			eng.pvTable.Put(pos, bestMove)
		}
	}

	return bestScore
}

// search starts the search up to depth depth.
// The returned score is from the current side to move's POV.
// estimated is the score from the previous depths.
func (eng *Engine) search(depth, estimated int32) int32 {
	// This method only implements aspiration windows.
	//
	// The gradual widening algorithm is the one used by RobboLito
	// and Stockfish and it is explained here:
	// http://www.talkchess.com/forum/viewtopic.php?topic_view=threads&p=499768&t=46624
	γ, δ := estimated, int32(initialAspirationWindow)
	α, β := max(γ-δ, -InfinityScore), min(γ+δ, InfinityScore)
	score := estimated

	if depth < 4 {
		// Disable the aspiration window for very low search depths.
		α = -InfinityScore
		β = +InfinityScore
	}

	for !eng.stopped {
		// At root a non-null move is required, cannot prune based on null-move.
		score = eng.searchTree(α, β, depth)
		if score <= α {
			α = max(α-δ, -InfinityScore)
			δ += δ / 2
		} else if score >= β {
			β = min(β+δ, InfinityScore)
			δ += δ / 2
		} else {
			return score
		}
	}

	return score
}

// Play searches the current position under the given time control.
//
// Returns the score of the last completed iteration and the principal
// variation: pv[0] is the best move found, pv[1] is the pondering move.
//
// If the side to move has no legal moves the pv is empty and the score
// is DrawScore for stalemate or MatedScore for checkmate.
//
// The time control, tc, must already be started.
func (eng *Engine) Play(tc *TimeControl) (score int32, pv []Move) {
	eng.Log.BeginSearch()
	eng.Stats = Stats{Depth: -1}

	eng.rootPly = eng.Position.Ply
	eng.timeControl = tc
	eng.stopped = false
	eng.checkpoint = checkpointStep
	eng.stack.Reset(eng.Position)
	GlobalHashTable.NewSearch()

	for depth := int32(1); depth < 64; depth++ {
		if !tc.NextDepth(depth) {
			// Stop if the time control says we are done.
			// Search at least one depth, otherwise a move cannot be returned.
			break
		}

		eng.Stats.Depth = depth
		if s := eng.search(depth, score); !eng.stopped {
			// If eng has not been stopped then this is a legit iteration.
			score = s
			pv = eng.pvTable.Get(eng.Position)
			eng.Log.PrintPV(eng.Stats, score, pv)
		}
	}

	eng.Log.EndSearch()
	return score, pv
}

// Think searches the current position to the given depth in plies.
//
// Returns the best move, its score and the principal variation.
// When the side to move has no legal moves, the best move is NullMove
// and the score is DrawScore for stalemate, MatedScore for checkmate.
func (eng *Engine) Think(depth int32) (bestMove Move, bestScore int32, pv []Move) {
	tc := NewFixedDepthTimeControl(depth)
	tc.Start()
	score, pv := eng.Play(tc)
	if len(pv) == 0 {
		return NullMove, score, nil
	}
	return pv[0], score, pv
}
