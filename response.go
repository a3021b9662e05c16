/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package http

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sww1235/tiny-http/chunked"
	"github.com/sww1235/tiny-http/hdr"
	"github.com/sww1235/tiny-http/seqio"
)

// httpTimeFormat is the wire format for the Date header: always GMT,
// regardless of the local time zone.
const httpTimeFormat = "Mon, 02 Jan 2006 15:04:05 GMT"

// serverHeaderValue is the default Server header value, written only when
// the caller has not already set one.
const serverHeaderValue = "tiny-http (Go)"

// Response is an HTTP response, built up by the application and handed to
// a Request's Respond method.
//
// A small set of headers cannot be set through AddHeader/WithHeader:
// Connection, Trailer, Transfer-Encoding and Upgrade are controlled by the
// pipeline itself, and any attempt to add them is silently dropped.
// Content-Length instead adjusts the response's declared body length, and
// Content-Type overwrites rather than accumulates.
type Response struct {
	StatusCode int
	Header     hdr.List

	body   io.Reader
	length *int64 // nil means unknown length

	chunkedThreshold int64 // 0 means "use defaultChunkedThreshold"
}

// NewEmpty builds a response with no body.
func NewEmpty(statusCode int) *Response {
	zero := int64(0)
	return &Response{StatusCode: statusCode, body: bytes.NewReader(nil), length: &zero}
}

// FromString builds a 200 OK text/plain response from s.
func FromString(s string) *Response {
	n := int64(len(s))
	r := &Response{StatusCode: 200, body: strings.NewReader(s), length: &n}
	r.Header.Add(hContentType, "text/plain; charset=UTF-8")
	return r
}

// FromData builds a 200 OK response whose body is exactly b.
func FromData(b []byte) *Response {
	n := int64(len(b))
	return &Response{StatusCode: 200, body: bytes.NewReader(b), length: &n}
}

// FromFile builds a 200 OK response whose body is read from f. The
// Content-Type is not set automatically; callers must add it themselves.
// If f's size cannot be determined, the response falls back to an unknown
// length and is sent chunked.
func FromFile(f *os.File) *Response {
	r := &Response{StatusCode: 200, body: f}
	if fi, err := f.Stat(); err == nil {
		n := fi.Size()
		r.length = &n
	}
	return r
}

// WithChunkedThreshold sets the Content-Length at or above which rawPrint
// switches to chunked transfer encoding. A threshold of 0 restores the
// default of 32768 bytes.
func (r *Response) WithChunkedThreshold(n int64) *Response {
	r.chunkedThreshold = n
	return r
}

func (r *Response) effectiveChunkedThreshold() int64 {
	if r.chunkedThreshold > 0 {
		return r.chunkedThreshold
	}
	return defaultChunkedThreshold
}

// AddHeader adds name/value to the response, applying the forbidden- and
// special-header policy described on Response.
func (r *Response) AddHeader(name, value string) {
	switch hdr.CanonicalKey(name) {
	case hConnection, hTrailer, hTransferEncoding, hUpgrade:
		return
	case hContentLength:
		if n, err := strconv.ParseInt(value, 10, 64); err == nil && n >= 0 {
			r.length = &n
		}
		return
	case hContentType:
		r.Header.Set(hContentType, value)
		return
	}
	r.Header.Add(hdr.CanonicalKey(name), value)
}

// WithHeader returns r after adding name/value, for builder-style chaining.
func (r *Response) WithHeader(name, value string) *Response {
	r.AddHeader(name, value)
	return r
}

// WithStatusCode returns r with its status code changed.
func (r *Response) WithStatusCode(code int) *Response {
	r.StatusCode = code
	return r
}

// WithData returns r with its body and declared length replaced.
func (r *Response) WithData(body io.Reader, length *int64) *Response {
	r.body = body
	r.length = length
	return r
}

// rawPrint writes the full status line, headers and (unless suppressed)
// body of r to writer, choosing identity or chunked transfer encoding per
// chooseTransferEncoding. It never flushes the writer; the caller's
// WriterSlot.Close does that.
func (r *Response) rawPrint(writer *seqio.WriterSlot, httpMajor, httpMinor int, requestHeaders hdr.List, doNotSendBody bool, upgrade *string) error {
	var encoding *transferEncoding
	if upgrade == nil {
		enc := chooseTransferEncoding(r.StatusCode, httpMajor, httpMinor, requestHeaders, r.length, false, r.effectiveChunkedThreshold())
		encoding = &enc
	}

	if r.Header.Get(hDate) == "" {
		r.Header.Add(hDate, time.Now().UTC().Format(httpTimeFormat))
	}
	if r.Header.Get(hServer) == "" {
		r.Header.Add(hServer, serverHeaderValue)
	}

	if upgrade != nil {
		r.Header.InsertFirst(hConnection, doUpgrade)
		r.Header.InsertFirst(hUpgrade, *upgrade)
	}

	body := r.body
	length := r.length
	if length == nil && encoding != nil && *encoding == teIdentity {
		buf, err := io.ReadAll(body)
		if err != nil {
			return err
		}
		n := int64(len(buf))
		body = bytes.NewReader(buf)
		length = &n
	}

	doNotSendBody = doNotSendBody || isBodylessStatus(r.StatusCode)

	if encoding != nil {
		switch *encoding {
		case teChunked:
			r.Header.Add(hTransferEncoding, doChunked)
		case teIdentity:
			r.Header.Add(hContentLength, strconv.FormatInt(*length, 10))
		}
	}

	if _, err := fmt.Fprintf(writer, "HTTP/%d.%d %d %s\r\n", httpMajor, httpMinor, r.StatusCode, StatusText(r.StatusCode)); err != nil {
		return err
	}
	if _, err := r.Header.WriteTo(writer); err != nil {
		return err
	}
	if _, err := writer.Write(crlf); err != nil {
		return err
	}

	if doNotSendBody || body == nil {
		return nil
	}

	if encoding != nil && *encoding == teChunked {
		cw := chunked.NewWriter(writer)
		if _, err := io.Copy(cw, body); err != nil {
			return err
		}
		return cw.Close()
	}

	if length != nil && *length >= 1 {
		_, err := io.Copy(writer, body)
		return err
	}
	return nil
}
