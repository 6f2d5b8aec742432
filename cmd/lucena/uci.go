// Copyright 2024 The Lucena Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// uci.go implements the UCI protocol which is described here
// http://wbec-ridderkerk.nl/html/UCIProtocol.html.

package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lucena-chess/lucena/board"
	"github.com/lucena-chess/lucena/engine"
	"github.com/lucena-chess/lucena/internal/config"
	"github.com/lucena-chess/lucena/perft"
)

var errQuit = errors.New("quit")

// uciLogger outputs the search progress in UCI format.
type uciLogger struct {
	start time.Time
	buf   *bytes.Buffer
}

func newUCILogger() *uciLogger {
	return &uciLogger{buf: &bytes.Buffer{}}
}

func (ul *uciLogger) BeginSearch() {
	ul.start = time.Now()
	ul.buf.Reset()
}

func (ul *uciLogger) EndSearch() {
	ul.flush()
}

func (ul *uciLogger) PrintPV(stats engine.Stats, score int32, pv []board.Move) {
	fmt.Fprintf(ul.buf, "info depth %d seldepth %d ", stats.Depth, stats.SelDepth)

	// Write the score, mates in moves rather than plies.
	if score > engine.KnownWinScore {
		fmt.Fprintf(ul.buf, "score mate %d ", (engine.MateScore-score+1)/2)
	} else if score < engine.KnownLossScore {
		fmt.Fprintf(ul.buf, "score mate %d ", (engine.MatedScore-score)/2)
	} else {
		fmt.Fprintf(ul.buf, "score cp %d ", score)
	}

	// Write the search statistics.
	elapsed := time.Since(ul.start)
	if elapsed < time.Microsecond {
		elapsed = time.Microsecond
	}
	nps := uint64(time.Second) * stats.Nodes / uint64(elapsed)
	fmt.Fprintf(ul.buf, "nodes %d time %d nps %d ", stats.Nodes, elapsed/time.Millisecond, nps)

	// Write the principal variation.
	fmt.Fprintf(ul.buf, "pv")
	for _, m := range pv {
		fmt.Fprintf(ul.buf, " %v", m.UCI())
	}
	fmt.Fprintf(ul.buf, "\n")

	ul.flush()
}

// flush writes the buffer to stdout.
func (ul *uciLogger) flush() {
	os.Stdout.Write(ul.buf.Bytes())
	ul.buf.Reset()
}

// UCI implements the UCI protocol on top of an Engine.
type UCI struct {
	eng          *engine.Engine
	defaultDepth int32
}

// NewUCI returns a UCI protocol handler configured by cfg.
func NewUCI(cfg config.Settings) *UCI {
	if cfg.HashSizeMB != engine.DefaultHashTableSizeMB {
		engine.GlobalHashTable = engine.NewHashTable(cfg.HashSizeMB)
	}
	return &UCI{
		eng:          engine.NewEngine(nil, newUCILogger(), engine.Options{AnalyseMode: true}),
		defaultDepth: int32(cfg.Depth),
	}
}

// Execute handles one UCI command.
func (u *UCI) Execute(line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}

	switch args[0] {
	case "uci":
		fmt.Printf("id name lucena %v\n", buildVersion)
		fmt.Printf("id author The Lucena Authors\n")
		fmt.Printf("option name Hash type spin default %v min 1 max 1024\n", engine.DefaultHashTableSizeMB)
		fmt.Println("uciok")
		return nil
	case "isready":
		fmt.Println("readyok")
		return nil
	case "ucinewgame":
		u.eng.ClearHash()
		return nil
	case "position":
		return u.position(args[1:])
	case "go":
		return u.goCommand(args[1:])
	case "stop":
		u.eng.Stop()
		return nil
	case "setoption":
		return u.setoption(args[1:])
	case "perft":
		return u.perft(args[1:])
	case "quit":
		return errQuit
	}
	return fmt.Errorf("unknown command %q", args[0])
}

func (u *UCI) position(args []string) error {
	if len(args) == 0 {
		return errors.New("missing position")
	}

	var fen string
	var moves []string
	switch args[0] {
	case "startpos":
		fen = board.FENStartPos
		if len(args) > 1 && args[1] == "moves" {
			moves = args[2:]
		}
	case "fen":
		rest := args[1:]
		for i, f := range rest {
			if f == "moves" {
				moves = rest[i+1:]
				rest = rest[:i]
				break
			}
		}
		fen = strings.Join(rest, " ")
	default:
		return fmt.Errorf("unknown position %q", args[0])
	}

	if err := u.eng.SetPositionFromFEN(fen); err != nil {
		return err
	}
	for _, ms := range moves {
		m, err := u.eng.Position.UCIToMove(ms)
		if err != nil {
			return err
		}
		u.eng.DoMove(m)
	}
	return nil
}

func (u *UCI) goCommand(args []string) error {
	tc := engine.NewFixedDepthTimeControl(u.defaultDepth)
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			i++
			d, err := strconv.Atoi(args[i])
			if err != nil {
				return err
			}
			tc.Depth = int32(d)
		case "movetime":
			i++
			ms, err := strconv.Atoi(args[i])
			if err != nil {
				return err
			}
			tc.MoveTime = time.Duration(ms) * time.Millisecond
		case "infinite":
			tc.Depth = 63
		}
	}

	tc.Start()
	go func() {
		_, pv := u.eng.Play(tc)
		best := "0000"
		if len(pv) > 0 {
			best = pv[0].UCI()
		}
		fmt.Printf("bestmove %v\n", best)
	}()
	return nil
}

func (u *UCI) setoption(args []string) error {
	if len(args) != 4 || args[0] != "name" || args[2] != "value" {
		return errors.New("malformed setoption")
	}
	switch args[1] {
	case "Hash":
		mb, err := strconv.Atoi(args[3])
		if err != nil {
			return err
		}
		engine.GlobalHashTable = engine.NewHashTable(mb)
		return nil
	}
	return fmt.Errorf("unknown option %q", args[1])
}

func (u *UCI) perft(args []string) error {
	depth := 5
	if len(args) > 0 {
		var err error
		if depth, err = strconv.Atoi(args[0]); err != nil {
			return err
		}
	}

	start := time.Now()
	nodes := perft.Perft(u.eng.Position, depth)
	elapsed := time.Since(start)
	log.Infof("perft %d = %d in %v", depth, nodes, elapsed)
	fmt.Printf("perft %d = %d\n", depth, nodes)
	return nil
}
