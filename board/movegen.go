// Copyright 2024 The Lucena Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// movegen.go generates moves. Generation is split into violent and
// quiet moves so that the quiescence search can ask for captures only.
// When the side to move is in check the generator emits check evasions
// restricted to the block-or-capture target set.
//
// Generated moves are pseudo-legal: they can leave the own king in
// check. LegalMoves filters them by executing each move.

package board

const (
	// Quiet selects quiet moves, castling and underpromotions.
	Quiet int = 1 << iota
	// Violent selects captures and queen promotions.
	Violent
	// All selects all moves.
	All = Quiet | Violent
)

var (
	// Squares between king and rook that must be empty for castling.
	castlePathOO  = [ColorArraySize]Bitboard{0, 0x0000000000000060, 0x6000000000000000}
	castlePathOOO = [ColorArraySize]Bitboard{0, 0x000000000000000e, 0x0e00000000000000}
	// Squares the king travels over, none of which may be attacked.
	kingCastlePathOO  = [ColorArraySize]Bitboard{0, 0x0000000000000070, 0x7000000000000000}
	kingCastlePathOOO = [ColorArraySize]Bitboard{0, 0x000000000000001c, 0x1c00000000000000}
)

// GenerateMoves appends to moves all pseudo-legal moves of kind.
// If the side to move is in check, the full evasion set is generated
// regardless of kind.
func (pos *Position) GenerateMoves(kind int, moves *[]Move) {
	if pos.curr.checkers != 0 {
		pos.genEvasions(moves)
		return
	}

	all := pos.ByColor[White] | pos.ByColor[Black]
	if kind&Violent != 0 {
		targets := pos.ByColor[pos.Them()]
		pos.genPieceMoves(targets, moves)
		pos.genPawnMoves(kind&Violent, BbFull, moves)
		pos.genKingMoves(targets, moves)
	}
	if kind&Quiet != 0 {
		targets := ^all
		pos.genPieceMoves(targets, moves)
		pos.genPawnMoves(kind&Quiet, BbFull, moves)
		pos.genKingMoves(targets, moves)
		if pos.CanCastle(pos.Us()) {
			pos.genCastles(moves)
		}
	}
}

// LegalMoves appends to moves all legal moves of the side to move.
func (pos *Position) LegalMoves(moves *[]Move) {
	var buf [256]Move
	pseudo := buf[:0]
	pos.GenerateMoves(All, &pseudo)

	us := pos.Us()
	for _, m := range pseudo {
		pos.DoMove(m)
		if !pos.IsChecked(us) {
			*moves = append(*moves, m)
		}
		pos.UndoMove()
	}
}

// IsLegal returns true if m is in the legal move set of the position.
func (pos *Position) IsLegal(m Move) bool {
	var buf [256]Move
	legal := buf[:0]
	pos.LegalMoves(&legal)
	for _, lm := range legal {
		if lm == m {
			return true
		}
	}
	return false
}

// genEvasions generates the moves that can answer a check: king moves,
// and when not in double check, blocks of the checking ray and captures
// of the checker.
func (pos *Position) genEvasions(moves *[]Move) {
	us := pos.Us()
	checkers := pos.curr.checkers

	if checkers&(checkers-1) == 0 {
		// Single check. Non-king pieces can block the ray or
		// capture the checker.
		kingSq := pos.KingSquare(us)
		checker := checkers.AsSquare()
		targets := bbBetween[checker][kingSq] | checkers

		pos.genPieceMoves(targets, moves)
		pos.genPawnMoves(All, targets, moves)
	}

	// Only the king moves escape a double check.
	pos.genKingMoves(^pos.ByColor[us], moves)
}

// genPieceMoves generates knight, bishop, rook and queen moves
// into the target set.
func (pos *Position) genPieceMoves(targets Bitboard, moves *[]Move) {
	us := pos.Us()
	all := pos.ByColor[White] | pos.ByColor[Black]

	for fig := Knight; fig <= Queen; fig++ {
		pi := ColorFigure(us, fig)
		for bb := pos.ByPiece(us, fig); bb != 0; {
			from := bb.Pop()
			att := FigureAttacks(from, fig, all) & targets
			for att != 0 {
				to := att.Pop()
				*moves = append(*moves, MakeMove(Normal, from, to, pos.Get(to), pi))
			}
		}
	}
}

// genPawnMoves generates pawn moves whose destination is inside targets.
// kind&Violent selects captures, en passants and queen promotions,
// kind&Quiet selects pushes and underpromotions.
func (pos *Position) genPawnMoves(kind int, targets Bitboard, moves *[]Move) {
	us, them := pos.Us(), pos.Them()
	all := pos.ByColor[White] | pos.ByColor[Black]
	theirs := pos.ByColor[them]
	ourPawn := ColorFigure(us, Pawn)
	rank8 := RelativeRankBb(us, 7)

	pawns := pos.ByPiece(us, Pawn)

	// Captures, including capturing promotions.
	for bb := pawns; bb != 0; {
		from := bb.Pop()
		att := PawnAttacks(us, from) & theirs & targets
		for att != 0 {
			to := att.Pop()
			if rank8.Has(to) {
				pos.appendPromotions(kind, from, to, pos.Get(to), moves)
			} else if kind&Violent != 0 {
				*moves = append(*moves, MakeMove(Normal, from, to, pos.Get(to), ourPawn))
			}
		}
	}

	// En passant. While evading a check it is generated only when the
	// captured pawn is the checker or the landing square blocks the ray.
	if kind&Violent != 0 {
		if ep := pos.EnpassantSquare(); ep != NoSquare {
			captured := Backward(us, ep.Bitboard()).AsSquare()
			if targets.Has(captured) || targets.Has(ep) {
				theirPawn := ColorFigure(them, Pawn)
				for bb := PawnAttacks(them, ep) & pawns; bb != 0; {
					from := bb.Pop()
					*moves = append(*moves, MakeMove(Enpassant, from, ep, theirPawn, ourPawn))
				}
			}
		}
	}

	// Pushes, including push promotions.
	var single, double Bitboard
	var delta int
	if us == White {
		single = North(pawns) &^ all
		double = North(single&BbRank3) &^ all
		delta = 8
	} else {
		single = South(pawns) &^ all
		double = South(single&BbRank6) &^ all
		delta = -8
	}

	for bb := single & targets; bb != 0; {
		to := bb.Pop()
		from := Square(int(to) - delta)
		if rank8.Has(to) {
			pos.appendPromotions(kind, from, to, NoPiece, moves)
		} else if kind&Quiet != 0 {
			*moves = append(*moves, MakeMove(Normal, from, to, NoPiece, ourPawn))
		}
	}
	if kind&Quiet != 0 {
		for bb := double & targets; bb != 0; {
			to := bb.Pop()
			from := Square(int(to) - 2*delta)
			*moves = append(*moves, MakeMove(Normal, from, to, NoPiece, ourPawn))
		}
	}
}

// appendPromotions expands one promoting pawn move. The queen promotion
// is violent, underpromotions are quiet. This asymmetry keeps the
// quiescence search tractable.
func (pos *Position) appendPromotions(kind int, from, to Square, capture Piece, moves *[]Move) {
	us := pos.Us()
	if kind&Violent != 0 {
		*moves = append(*moves, MakeMove(Promotion, from, to, capture, ColorFigure(us, Queen)))
	}
	if kind&Quiet != 0 {
		for fig := Rook; fig >= Knight; fig-- {
			*moves = append(*moves, MakeMove(Promotion, from, to, capture, ColorFigure(us, fig)))
		}
	}
}

// genKingMoves generates king moves into the target set.
// Castling is generated separately.
func (pos *Position) genKingMoves(targets Bitboard, moves *[]Move) {
	us := pos.Us()
	pi := ColorFigure(us, King)
	from := pos.KingSquare(us)
	att := KingAttacks(from) & targets
	for att != 0 {
		to := att.Pop()
		*moves = append(*moves, MakeMove(Normal, from, to, pos.Get(to), pi))
	}
}

// genCastles generates the castling moves. The path between king and
// rook must be empty and no square the king travels may be attacked.
func (pos *Position) genCastles(moves *[]Move) {
	us, them := pos.Us(), pos.Them()
	all := pos.ByColor[White] | pos.ByColor[Black]
	king := ColorFigure(us, King)
	rank := us.KingHomeRank()
	from := RankFile(rank, 4)

	if pos.CanCastleOO(us) &&
		all&castlePathOO[us] == 0 &&
		!pos.IsBitboardAttacked(kingCastlePathOO[us], them) {
		*moves = append(*moves, MakeMove(Castling, from, RankFile(rank, 6), NoPiece, king))
	}

	if pos.CanCastleOOO(us) &&
		all&castlePathOOO[us] == 0 &&
		!pos.IsBitboardAttacked(kingCastlePathOOO[us], them) {
		*moves = append(*moves, MakeMove(Castling, from, RankFile(rank, 2), NoPiece, king))
	}
}
