/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package http

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"
)

func TestServerBindAcceptsAndDeliversRequest(t *testing.T) {
	srv, err := Bind("127.0.0.1:0", nil)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	defer srv.Shutdown()

	addr := srv.listener.Addr().String()
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("GET /ping HTTP/1.1\r\nHost: h\r\nConnection: close\r\n\r\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	rq, ok := srv.RecvTimeout(2 * time.Second)
	if !ok {
		t.Fatalf("no request delivered")
	}
	if rq.Method != "GET" || rq.URL != "/ping" {
		t.Fatalf("got method=%q url=%q", rq.Method, rq.URL)
	}

	if err := rq.Respond(FromString("pong")); err != nil {
		t.Fatalf("Respond: %v", err)
	}

	r := bufio.NewReader(conn)
	line, err := r.ReadString('\n')
	if err != nil || !strings.HasPrefix(line, "HTTP/1.1 200") {
		t.Fatalf("status line: %q, %v", line, err)
	}
}

func TestServerTryRecvNonBlocking(t *testing.T) {
	srv, err := Bind("127.0.0.1:0", nil)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	defer srv.Shutdown()

	if _, ok := srv.TryRecv(); ok {
		t.Fatalf("expected no request to be available")
	}
}

func TestServerShutdownStopsAcceptingAndClosesChannel(t *testing.T) {
	srv, err := Bind("127.0.0.1:0", nil)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	addr := srv.listener.Addr().String()

	srv.Shutdown()
	srv.Shutdown() // idempotent

	if _, ok := <-srv.IncomingRequests(); ok {
		t.Fatalf("expected IncomingRequests channel to be closed after Shutdown")
	}

	if _, err := net.DialTimeout("tcp", addr, 200*time.Millisecond); err == nil {
		t.Fatalf("expected dialing a shut-down listener to fail")
	}
}

func TestServerShutdownDropsInFlightRequestWithDefaultResponse(t *testing.T) {
	srv, err := Bind("127.0.0.1:0", nil)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	addr := srv.listener.Addr().String()

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("GET / HTTP/1.1\r\nHost: h\r\nConnection: close\r\n\r\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Give the accept loop a chance to pick up the connection and park the
	// parsed request on the doneChan/requests select before we shut down;
	// the connection worker must notice doneChan and send the default
	// response rather than hang.
	time.Sleep(50 * time.Millisecond)
	srv.Shutdown()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	r := bufio.NewReader(conn)
	line, err := r.ReadString('\n')
	if err != nil || !strings.HasPrefix(line, "HTTP/1.1 200") {
		t.Fatalf("status line: %q, %v", line, err)
	}
}
