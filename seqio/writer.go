/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package seqio

import "bufio"

// WriterChain is the write-side mirror of ReaderChain: response N+1 may be
// composed (and written to its slot) while response N is still in flight,
// but none of its bytes reach the wire until slot N is Closed. This is how
// the module supports an application answering pipelined requests out of
// order while the bytes still leave the socket in arrival order.
type WriterChain struct {
	w *bufio.Writer
	g *gate
}

// NewWriterChain builds a chain writing to w. The first slot is
// immediately active.
func NewWriterChain(w *bufio.Writer) *WriterChain {
	return &WriterChain{w: w, g: newGate()}
}

// Next allocates the next slot. It does not block.
func (c *WriterChain) Next() *WriterSlot {
	return &WriterSlot{chain: c, id: c.g.alloc()}
}

// WriterSlot is one link in a WriterChain.
type WriterSlot struct {
	chain  *WriterChain
	id     uint64
	closed bool
}

// Write blocks until every earlier slot has been Closed, then writes
// directly to the chain's shared buffered writer.
func (s *WriterSlot) Write(p []byte) (int, error) {
	s.chain.g.await(s.id)
	return s.chain.w.Write(p)
}

// Flush pushes whatever this slot has written out to the underlying
// connection without ending the slot's turn. This is needed when a slot
// must put some bytes on the wire before the rest of its data is ready,
// such as a deferred "100 Continue" status line that must reach the
// client before the final response.
func (s *WriterSlot) Flush() error {
	s.chain.g.await(s.id)
	return s.chain.w.Flush()
}

// Close flushes whatever this slot wrote to the underlying connection and
// unblocks the next slot. Idempotent.
func (s *WriterSlot) Close() error {
	if s.closed {
		return nil
	}
	s.chain.g.await(s.id)
	err := s.chain.w.Flush()
	s.closed = true
	s.chain.g.advance(s.id)
	return err
}
