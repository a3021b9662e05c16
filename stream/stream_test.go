/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package stream

import (
	"net"
	"testing"
)

func TestTCPCloneSharesCloseUntilLastRelease(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()

	s := NewTCP(server)
	clone := s.Clone()

	if err := s.Shutdown(ShutdownBoth); err != nil {
		t.Fatalf("first Shutdown: %v", err)
	}

	// The underlying pipe must still be open: clone holds a reference.
	done := make(chan struct{})
	go func() {
		buf := make([]byte, 1)
		clone.Read(buf)
		close(done)
	}()

	if err := clone.Shutdown(ShutdownBoth); err != nil {
		t.Fatalf("second Shutdown: %v", err)
	}
	<-done
}

func TestLoadTLSConfigRejectsEmptyChain(t *testing.T) {
	_, err := LoadTLSConfig([]byte("not a cert"), []byte("not a key"))
	if err != ErrEmptyCertificateChain {
		t.Fatalf("got %v, want ErrEmptyCertificateChain", err)
	}
}
