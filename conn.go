/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package http

import (
	"bufio"
	"context"
	"io"
	"net"
	"strings"

	"github.com/sww1235/tiny-http/hdr"
	"github.com/sww1235/tiny-http/seqio"
	"github.com/sww1235/tiny-http/stream"
)

// ClientConnection drives one accepted TCP (or TLS) connection: it owns
// the reader and writer chains, parses requests off the front of the
// reader chain, and yields them one at a time through Next. Pipelined
// requests are supported because the reader chain lets request N+1's
// header bytes sit buffered while request N's body is still being
// consumed by the application.
type ClientConnection struct {
	stream     stream.Stream
	remoteAddr net.Addr
	secure     bool

	readChain  *seqio.ReaderChain
	writeChain *seqio.WriterChain

	nextHeaderSlot *seqio.ReaderSlot
	noMoreRequests bool
}

// NewClientConnection wraps an accepted Stream. The first request's
// header slot is allocated immediately.
func NewClientConnection(s stream.Stream) *ClientConnection {
	readChain := seqio.NewReaderChain(bufio.NewReaderSize(s, 1024))
	writeChain := seqio.NewWriterChain(bufio.NewWriterSize(s, 1024))
	return &ClientConnection{
		stream:         s,
		remoteAddr:     s.PeerAddr(),
		secure:         s.Secure(),
		readChain:      readChain,
		writeChain:     writeChain,
		nextHeaderSlot: readChain.Next(),
	}
}

type connErrKind int

const (
	ekWrongRequestLine connErrKind = iota
	ekWrongHeader
	ekExpectationFailed
	ekReadIOTimeout
	ekReadIOOther
)

type connReadError struct {
	kind      connErrKind
	httpMajor int
	httpMinor int
}

func (e *connReadError) Error() string { return "http: connection read error" }

func ioErrToConnError(err error) *connReadError {
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return &connReadError{kind: ekReadIOTimeout, httpMajor: 1, httpMinor: 1}
	}
	return &connReadError{kind: ekReadIOOther}
}

// Next blocks until the next request's header block has been read,
// returning io.EOF once the connection's no_more_requests latch has
// tripped (Connection: close/upgrade, HTTP/1.0 default-close, or a
// parse/protocol error that forces the connection shut). There is no
// cooperative mid-read cancellation: ctx is only checked before the read
// begins, since the underlying socket timeout is what actually bounds a
// stalled client.
func (c *ClientConnection) Next(ctx context.Context) (*Request, error) {
	if c.noMoreRequests {
		return nil, io.EOF
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rq, cerr := c.read()
	if cerr != nil {
		c.respondToReadError(cerr)
		c.noMoreRequests = true
		return nil, io.EOF
	}

	if rq.ProtoMajor != 1 || rq.ProtoMinor > 1 {
		resp := FromString("This server only supports HTTP versions 1.0 and 1.1").WithStatusCode(505)
		resp.rawPrint(rq.responseSlot, 1, 1, nil, false, nil)
		rq.responseSlot.Close()
		rq.rawStream.Shutdown(stream.ShutdownBoth)
		c.noMoreRequests = true
		return nil, io.EOF
	}

	c.updateLatch(rq)
	return rq, nil
}

// updateLatch applies the Connection-header and HTTP/1.0 default-close
// rules, trapping the latch so that Next refuses to read any further
// request once this one has been handled.
func (c *ClientConnection) updateLatch(rq *Request) {
	conn := strings.ToLower(rq.Header.Get(hConnection))
	switch {
	case strings.Contains(conn, doClose):
		c.noMoreRequests = true
	case strings.Contains(conn, doUpgrade):
		c.noMoreRequests = true
	case conn != "" && !strings.Contains(conn, doKeepAlive) && rq.ProtoMajor == 1 && rq.ProtoMinor == 0:
		c.noMoreRequests = true
	case conn == "" && rq.ProtoMajor == 1 && rq.ProtoMinor == 0:
		c.noMoreRequests = true
	}
}

// read parses one request line and header block off the current header
// slot, frames its body, and allocates the writer slot and the next
// header slot.
func (c *ClientConnection) read() (*Request, *connReadError) {
	line, err := readLine(c.nextHeaderSlot)
	if err != nil {
		return nil, ioErrToConnError(err)
	}

	method, target, major, minor, err := parseRequestLine(line)
	if err != nil {
		return nil, &connReadError{kind: ekWrongRequestLine, httpMajor: 1, httpMinor: 1}
	}

	headers, err := parseHeaderBlock(c.nextHeaderSlot)
	if err != nil {
		if _, ok := err.(badRequestError); ok {
			return nil, &connReadError{kind: ekWrongHeader, httpMajor: major, httpMinor: minor}
		}
		return nil, ioErrToConnError(err)
	}

	if expect := headers.Get(hExpect); expect != "" && !strings.EqualFold(expect, expect100Continue) {
		return nil, &connReadError{kind: ekExpectationFailed, httpMajor: major, httpMinor: minor}
	}

	writerSlot := c.writeChain.Next()
	bodySlot := c.nextHeaderSlot
	c.nextHeaderSlot = c.readChain.Next()

	rq := &Request{
		Method:       method,
		URL:          target,
		ProtoMajor:   major,
		ProtoMinor:   minor,
		Header:       headers,
		RemoteAddr:   c.remoteAddr,
		Secure:       c.secure,
		responseSlot: writerSlot,
		rawStream:    c.stream.Clone(),
	}

	if err := c.frameBody(rq, bodySlot, headers); err != nil {
		writerSlot.Close()
		rq.rawStream.Shutdown(stream.ShutdownBoth)
		return nil, &connReadError{kind: ekWrongHeader, httpMajor: major, httpMinor: minor}
	}

	if strings.EqualFold(headers.Get(hExpect), expect100Continue) {
		rq.armExpectContinue()
	}

	return rq, nil
}

// frameBody picks the body slot implementation per the tie-break rule:
// a chunked Transfer-Encoding always wins over Content-Length.
func (c *ClientConnection) frameBody(rq *Request, slot *seqio.ReaderSlot, headers hdr.List) error {
	if strings.EqualFold(headers.Get(hTransferEncoding), doChunked) {
		rq.body = newChunkedBody(slot, nil)
		return nil
	}
	if cl := headers.Get(hContentLength); cl != "" {
		n, err := parseContentLength(cl)
		if err != nil {
			return err
		}
		rq.body = newIdentityBody(slot, n, nil)
		return nil
	}
	rq.body = newZeroLengthBody(slot)
	return nil
}

// respondToReadError sends the appropriate status code for a failed
// read: 400 for a malformed request line or header block, 417 for an
// unsatisfiable Expect, 408 for a read timeout. A silent I/O error
// (client gone) sends nothing.
func (c *ClientConnection) respondToReadError(e *connReadError) {
	switch e.kind {
	case ekWrongRequestLine, ekWrongHeader:
		c.sendStatus(400, e.httpMajor, e.httpMinor, false)
	case ekExpectationFailed:
		c.sendStatus(417, e.httpMajor, e.httpMinor, true)
	case ekReadIOTimeout:
		c.sendStatus(408, e.httpMajor, e.httpMinor, false)
	case ekReadIOOther:
		// client disconnected mid-read; nothing to send
	}
}

func (c *ClientConnection) sendStatus(code, major, minor int, doNotSendBody bool) {
	w := c.writeChain.Next()
	resp := NewEmpty(code)
	resp.rawPrint(w, major, minor, nil, doNotSendBody, nil)
	w.Close()
}
