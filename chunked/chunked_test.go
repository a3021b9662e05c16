/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package chunked

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestWriterTerminatesWithZeroChunk(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Write([]byte("hello"))
	w.Write([]byte(" world"))
	w.Close()

	want := "5\r\nhello\r\n6\r\n world\r\n0\r\n\r\n"
	if got := buf.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestReaderDecodesChunks(t *testing.T) {
	raw := "4\r\nWiki\r\n5\r\npedia\r\n0\r\n\r\n"
	r := NewReader(bufio.NewReader(strings.NewReader(raw)))

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "Wikipedia" {
		t.Fatalf("got %q", got)
	}
}

func TestReaderHandlesChunkExtension(t *testing.T) {
	raw := "4;foo=bar\r\ntest\r\n0\r\n\r\n"
	r := NewReader(bufio.NewReader(strings.NewReader(raw)))
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "test" {
		t.Fatalf("got %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	payload := bytes.Repeat([]byte("x"), 100000)
	w.Write(payload)
	w.Close()

	r := NewReader(bufio.NewReader(&buf))
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", len(got), len(payload))
	}
}
