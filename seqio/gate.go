/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package seqio implements the sequential reader/writer chains that back a
// single TCP/TLS connection carrying pipelined HTTP requests: slot k+1 may
// be allocated before slot k is drained, but it does not yield a byte (for
// readers) or accept a write (for writers) until slot k is released. This
// is the ordering primitive the rest of the module relies on to keep
// request bodies and response bodies from interleaving on the wire.
package seqio

import "sync"

// gate hands out monotonically increasing turn numbers and blocks callers
// until their turn number is current. It is the same condition-variable
// pattern used to serialize background reads against a foreground Read,
// generalized here to an arbitrary chain of slots instead of a single
// pending read.
type gate struct {
	mu        sync.Mutex
	cond      *sync.Cond
	turn      uint64
	allocated uint64
}

func newGate() *gate {
	g := &gate{}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// alloc reserves the next slot id. It never blocks: this is what lets slot
// k+1 be created while slot k is still being drained.
func (g *gate) alloc() uint64 {
	g.mu.Lock()
	id := g.allocated
	g.allocated++
	g.mu.Unlock()
	return id
}

// await blocks until id is the active turn.
func (g *gate) await(id uint64) {
	g.mu.Lock()
	for g.turn != id {
		g.cond.Wait()
	}
	g.mu.Unlock()
}

// advance retires id, unblocking id+1. Safe to call more than once for the
// same id; only the first call has an effect.
func (g *gate) advance(id uint64) {
	g.mu.Lock()
	if g.turn == id {
		g.turn++
		g.cond.Broadcast()
	}
	g.mu.Unlock()
}
