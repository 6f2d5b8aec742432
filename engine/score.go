// Copyright 2024 The Lucena Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	. "github.com/lucena-chess/lucena/board"
)

const (
	// Figure values in centipawns.
	PawnScore   int32 = 100
	KnightScore int32 = 320
	BishopScore int32 = 330
	RookScore   int32 = 500
	QueenScore  int32 = 900
	KingScore   int32 = 20000

	// DrawScore is the score of a drawn position.
	DrawScore int32 = 0
	// MateScore - N means mate in N plies.
	MateScore int32 = 32000
	// MatedScore + N means mated in N plies.
	MatedScore int32 = -MateScore
	// InfinityScore is above any possible score.
	InfinityScore int32 = 32500

	// KnownWinScore is strictly greater than all evaluation scores (mates not included).
	KnownWinScore int32 = 30000
	// KnownLossScore is strictly smaller than all evaluation scores (mates not included).
	KnownLossScore int32 = -KnownWinScore

	// TotalPhase is the material sum of a full board, pawns included,
	// kings excluded. The evaluation interpolates between the middle
	// game and the end game tables on remaining material over TotalPhase.
	TotalPhase int32 = 2*QueenScore + 4*RookScore + 4*BishopScore + 4*KnightScore + 16*PawnScore
)

// figureScore values each figure for material counting.
var figureScore = [FigureArraySize]int32{
	NoFigure: 0,
	Pawn:     PawnScore,
	Knight:   KnightScore,
	Bishop:   BishopScore,
	Rook:     RookScore,
	Queen:    QueenScore,
	King:     KingScore,
}

// Figure bonuses to use when computing the futility margin.
var futilityFigureBonus = figureScore

// phase measures the remaining material, TotalPhase for a full board,
// 0 when only the kings are left.
func phase(pos *Position) int32 {
	total := int32(0)
	for fig := Pawn; fig <= Queen; fig++ {
		total += pos.ByFigure[fig].Popcnt() * figureScore[fig]
	}
	return min(total, TotalPhase)
}
