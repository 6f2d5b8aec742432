// Copyright 2024 The Lucena Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"sync"
	"time"
)

// atomicFlag is an atomic bool that can only be set.
type atomicFlag struct {
	lock sync.Mutex
	flag bool
}

func (af *atomicFlag) set() {
	af.lock.Lock()
	af.flag = true
	af.lock.Unlock()
}

func (af *atomicFlag) get() bool {
	af.lock.Lock()
	tmp := af.flag
	af.lock.Unlock()
	return tmp
}

// TimeControl bounds a search by depth and, optionally, wall time.
// The search polls Stopped at node checkpoints; Stop can be called
// from another goroutine to terminate the search cooperatively.
type TimeControl struct {
	// Depth is the maximum search depth (inclusive), in plies.
	Depth int32
	// MoveTime bounds the search wall time. Zero means no bound.
	MoveTime time.Duration

	stopped  atomicFlag
	deadline time.Time
}

// NewTimeControl returns a time control with no limits.
func NewTimeControl() *TimeControl {
	return &TimeControl{Depth: 63}
}

// NewFixedDepthTimeControl returns a time control limited to depth plies.
func NewFixedDepthTimeControl(depth int32) *TimeControl {
	tc := NewTimeControl()
	tc.Depth = depth
	return tc
}

// NewDeadlineTimeControl returns a time control limited to a wall time.
func NewDeadlineTimeControl(deadline time.Duration) *TimeControl {
	tc := NewTimeControl()
	tc.MoveTime = deadline
	return tc
}

// Start starts the timer. Must be called before the search begins.
func (tc *TimeControl) Start() {
	tc.stopped = atomicFlag{}
	if tc.MoveTime != 0 {
		tc.deadline = time.Now().Add(tc.MoveTime)
	} else {
		tc.deadline = time.Time{}
	}
}

// NextDepth returns true if the search should proceed at depth.
// At least two plies are searched so that a move can be returned.
func (tc *TimeControl) NextDepth(depth int32) bool {
	return depth <= tc.Depth && (depth <= 2 || !tc.Stopped())
}

// Stop marks the search as stopped.
// The result of the last completed iteration is going to be used.
func (tc *TimeControl) Stop() {
	tc.stopped.set()
}

// Stopped returns true if the search has stopped.
func (tc *TimeControl) Stopped() bool {
	if tc.stopped.get() {
		return true
	}
	if !tc.deadline.IsZero() && time.Now().After(tc.deadline) {
		tc.stopped.set()
		return true
	}
	return false
}
