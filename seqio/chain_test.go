/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package seqio

import (
	"bufio"
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestReaderChainOrdersSlots(t *testing.T) {
	r := NewReaderChain(bufio.NewReader(strings.NewReader("abcdef")))

	s0 := r.Next()
	s1 := r.Next() // allocated before s0 is drained; must not block here.

	done := make(chan string, 1)
	go func() {
		buf := make([]byte, 3)
		n, err := s1.Read(buf)
		if err != nil {
			t.Error(err)
		}
		done <- string(buf[:n])
	}()

	select {
	case <-done:
		t.Fatal("slot 1 read before slot 0 was released")
	case <-time.After(30 * time.Millisecond):
	}

	buf := make([]byte, 3)
	n, err := s0.Read(buf)
	if err != nil || string(buf[:n]) != "abc" {
		t.Fatalf("s0.Read = %q, %v", buf[:n], err)
	}
	s0.Release()

	select {
	case got := <-done:
		if got != "def" {
			t.Fatalf("s1.Read = %q, want def", got)
		}
	case <-time.After(time.Second):
		t.Fatal("slot 1 never unblocked after slot 0 released")
	}
}

func TestWriterChainPreservesOrderRegardlessOfCompletionOrder(t *testing.T) {
	var buf bytes.Buffer
	chain := NewWriterChain(bufio.NewWriter(&buf))

	first := chain.Next()
	second := chain.Next()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		time.Sleep(20 * time.Millisecond) // second "finishes" first
		second.Write([]byte("second"))
		second.Close()
	}()
	go func() {
		defer wg.Done()
		time.Sleep(60 * time.Millisecond)
		first.Write([]byte("first"))
		first.Close()
	}()
	wg.Wait()

	if got := buf.String(); got != "firstsecond" {
		t.Fatalf("writer chain reordered output: %q", got)
	}
}

func TestReaderSlotReleaseIsIdempotent(t *testing.T) {
	r := NewReaderChain(bufio.NewReader(strings.NewReader("x")))
	s0 := r.Next()
	s1 := r.Next()
	s0.Release()
	s0.Release() // must not double-advance the gate and skip s1's turn

	done := make(chan struct{})
	go func() {
		s1.Read(make([]byte, 1))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("double Release desynchronized the chain")
	}
}
