/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package chunked

import (
	"fmt"
	"io"
)

// Writer encodes a response body as chunked transfer-coding onto the
// underlying writer. Close must be called exactly once, after the last
// Write, to emit the terminating "0\r\n\r\n" chunk.
type Writer struct {
	w io.Writer
}

// NewWriter wraps w as a chunked encoder.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (e *Writer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if _, err := fmt.Fprintf(e.w, "%x\r\n", len(p)); err != nil {
		return 0, err
	}
	n, err := e.w.Write(p)
	if err != nil {
		return n, err
	}
	if _, err := io.WriteString(e.w, "\r\n"); err != nil {
		return n, err
	}
	return n, nil
}

// Close emits the terminating zero-length chunk and final CRLF.
func (e *Writer) Close() error {
	_, err := io.WriteString(e.w, "0\r\n\r\n")
	return err
}
