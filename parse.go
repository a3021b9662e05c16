/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package http

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/sww1235/tiny-http/hdr"
	"github.com/sww1235/tiny-http/seqio"
)

// errConnectionAborted marks EOF encountered before a CRLF terminator.
var errConnectionAborted = errors.New("http: unexpected EOF reading line")

// errNotASCII marks a header or request line containing a byte outside
// the 7-bit ASCII range.
var errNotASCII = errors.New("http: line is not 7-bit ASCII")

// readLine reads one CRLF-terminated line from slot, stripping the
// trailing CR. Every byte must be 7-bit ASCII or the line is rejected.
func readLine(slot *seqio.ReaderSlot) (string, error) {
	var buf []byte
	prevWasCR := false
	for {
		b, err := slot.ReadByte()
		if err != nil {
			if err == io.EOF {
				return "", errConnectionAborted
			}
			return "", err
		}
		if b == '\n' && prevWasCR {
			buf = buf[:len(buf)-1] // drop the '\r'
			break
		}
		prevWasCR = b == '\r'
		if b >= 0x80 {
			return "", errNotASCII
		}
		buf = append(buf, b)
	}
	return string(buf), nil
}

// supportedVersionTokens is the full set the wire format may name; only
// HTTP/1.0 and HTTP/1.1 are accepted for processing, the rest yield 505
// further up the pipeline.
var supportedVersionTokens = map[string][2]int{
	"HTTP/0.9": {0, 9},
	"HTTP/1.0": {1, 0},
	"HTTP/1.1": {1, 1},
	"HTTP/2.0": {2, 0},
	"HTTP/3.0": {3, 0},
}

// parseRequestLine splits "METHOD target HTTP/x.y" into its three tokens.
func parseRequestLine(line string) (method, target string, major, minor int, err error) {
	parts := strings.Split(line, " ")
	if len(parts) != 3 {
		return "", "", 0, 0, errWrongRequestLine
	}
	method, target, versionTok := parts[0], parts[1], parts[2]
	if method == "" || target == "" {
		return "", "", 0, 0, errWrongRequestLine
	}
	v, ok := supportedVersionTokens[versionTok]
	if !ok {
		return "", "", 0, 0, errWrongRequestLine
	}
	return method, target, v[0], v[1], nil
}

// parseHeaderBlock reads header lines until the terminating empty line,
// rejecting any field name or value that carries illegal whitespace.
func parseHeaderBlock(slot *seqio.ReaderSlot) (hdr.List, error) {
	var list hdr.List
	for {
		line, err := readLine(slot)
		if err != nil {
			return nil, err
		}
		if line == "" {
			return list, nil
		}
		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			return nil, badRequestError("malformed header line")
		}
		name := line[:idx]
		value := hdr.TrimOWS(line[idx+1:])
		if !hdr.ValidFieldName(name) {
			return nil, badRequestError("invalid header field name")
		}
		if !hdr.ValidFieldValue(value) {
			return nil, badRequestError("invalid header field value")
		}
		list.Add(hdr.CanonicalKey(name), value)
	}
}

func parseContentLength(s string) (int64, error) {
	if s == "" {
		return -1, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, errors.New("http: invalid Content-Length")
	}
	return n, nil
}
