/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package http

import (
	"fmt"
	"io"
	"net"

	"github.com/sww1235/tiny-http/hdr"
	"github.com/sww1235/tiny-http/seqio"
	"github.com/sww1235/tiny-http/stream"
)

// Request is one parsed HTTP request, paired with the writer slot its
// response must go through. A Request is consumed exactly once, by
// Respond or Upgrade. Responses on a connection go out in request order,
// so a Request that is never answered holds back every later response on
// its connection; an empty 200 OK is sent in its place (see drop) only for
// a Request the server could not deliver because Shutdown was in progress.
type Request struct {
	Method     string
	URL        string // the request target, taken verbatim from the request line
	ProtoMajor int
	ProtoMinor int
	Header     hdr.List
	RemoteAddr net.Addr
	Secure     bool

	body         *body
	responseSlot *seqio.WriterSlot
	rawStream    stream.Stream

	done     bool
	upgraded bool
}

// Body returns a reader over the request body. The first read triggers
// the deferred "100 Continue" status line if the client sent
// Expect: 100-continue on this request.
func (r *Request) Body() io.Reader {
	return r.body
}

// Respond consumes the request and writes resp to the paired writer
// slot. Any unread body bytes are discarded first so the next pipelined
// request can be parsed.
func (r *Request) Respond(resp *Response) error {
	if r.upgraded {
		return ErrUpgraded
	}
	if r.done {
		return ErrResponded
	}
	r.done = true
	r.body.discard()

	doNotSendBody := r.Method == HEAD
	err := resp.rawPrint(r.responseSlot, r.ProtoMajor, r.ProtoMinor, r.Header, doNotSendBody, nil)
	if closeErr := r.responseSlot.Close(); err == nil {
		err = closeErr
	}
	return err
}

// Upgrade consumes the request, sends resp with Connection: Upgrade and
// Upgrade: protocol forced to the front of its headers and transfer
// encoding disabled, then hands back the raw bidirectional stream. The
// caller owns the stream after this call returns. The connection's request
// loop stops producing requests only when this request's own Connection
// header contained "upgrade"; Upgrade itself does not latch the connection.
func (r *Request) Upgrade(protocol string, resp *Response) (stream.Stream, error) {
	if r.upgraded {
		return nil, ErrUpgraded
	}
	if r.done {
		return nil, ErrResponded
	}
	r.done = true
	r.upgraded = true
	r.body.discard()

	err := resp.rawPrint(r.responseSlot, r.ProtoMajor, r.ProtoMinor, r.Header, false, &protocol)
	if closeErr := r.responseSlot.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, err
	}
	return r.rawStream, nil
}

// drop sends the default empty 200 OK for a Request that was not answered
// by Respond or Upgrade, so the writer chain is not left blocked by it. The
// server's connection worker calls it for a parsed Request it could not
// deliver because Shutdown was in progress; nothing calls it for a Request
// the application received and then abandoned.
func (r *Request) drop() {
	if r.done {
		return
	}
	r.done = true
	r.body.discard()
	resp := NewEmpty(200)
	resp.rawPrint(r.responseSlot, r.ProtoMajor, r.ProtoMinor, r.Header, r.Method == HEAD, nil)
	r.responseSlot.Close()
}

// armExpectContinue wires the request's body so its first Read emits the
// deferred "100 Continue" status line before returning any bytes. The line
// is flushed immediately rather than left buffered, since the client is
// waiting on it before it sends the body.
func (r *Request) armExpectContinue() {
	r.body.armContinue = func() error {
		if _, err := fmt.Fprint(r.responseSlot, "HTTP/1.1 100 Continue\r\n\r\n"); err != nil {
			return err
		}
		return r.responseSlot.Flush()
	}
}
