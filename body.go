/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package http

import (
	"io"

	"github.com/sww1235/tiny-http/chunked"
	"github.com/sww1235/tiny-http/seqio"
)

// body is the capped reader slot backing a Request's body: it reads a
// prefix of the connection stream up to a boundary fixed at construction
// time (a byte count, a chunked terminator, or zero). It is released back
// into the reader chain exactly once, either when fully drained or when
// explicitly discarded.
type body struct {
	slot     *seqio.ReaderSlot
	limit    int64 // bytes left to read for an identity body; unused when chunkedR != nil
	chunkedR *chunked.Reader
	released bool

	// armContinue, if set, fires on the first Read and is then cleared.
	// It is how Request.Body arms the deferred "100 Continue" status
	// line: the continue line is only written once the application
	// actually starts reading the body.
	armContinue func() error
}

func newZeroLengthBody(slot *seqio.ReaderSlot) *body {
	b := &body{slot: slot}
	b.release()
	return b
}

func newIdentityBody(slot *seqio.ReaderSlot, n int64, armContinue func() error) *body {
	if n <= 0 {
		return newZeroLengthBody(slot)
	}
	return &body{slot: slot, limit: n, armContinue: armContinue}
}

func newChunkedBody(slot *seqio.ReaderSlot, armContinue func() error) *body {
	return &body{slot: slot, chunkedR: chunked.NewReader(slot), armContinue: armContinue}
}

func (b *body) Read(p []byte) (int, error) {
	if b.armContinue != nil {
		fn := b.armContinue
		b.armContinue = nil
		if err := fn(); err != nil {
			return 0, err
		}
	}
	if b.released {
		return 0, io.EOF
	}

	if b.chunkedR != nil {
		n, err := b.chunkedR.Read(p)
		if err == io.EOF {
			b.release()
		}
		return n, err
	}

	if b.limit <= 0 {
		b.release()
		return 0, io.EOF
	}
	if int64(len(p)) > b.limit {
		p = p[:b.limit]
	}
	n, err := b.slot.Read(p)
	b.limit -= int64(n)
	if err != nil {
		b.release()
		return n, err
	}
	if b.limit == 0 {
		b.release()
	}
	return n, nil
}

func (b *body) release() {
	if b.released {
		return
	}
	b.released = true
	b.slot.Release()
}

// discard drains any unread bytes so the reader chain's next slot can
// unblock: request bodies must be fully consumed or discarded before the
// next request's headers are parsed. Called by Respond, Upgrade, and the
// request's drop-without-response path.
func (b *body) discard() {
	if b.released {
		return
	}
	io.Copy(io.Discard, b)
	b.release()
}
