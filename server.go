/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package http

import (
	"context"
	"crypto/tls"
	"errors"
	"log"
	"net"
	"runtime"
	"sync"
	"time"

	"github.com/sww1235/tiny-http/stream"
)

// ErrServerClosed reports that a Server has been shut down. No function in
// this package returns it.
var ErrServerClosed = errors.New("http: Server closed")

// tcpKeepAliveListener wraps a *net.TCPListener so every accepted
// connection has TCP keep-alives enabled, matching what ListenAndServe
// does for plain net/http servers.
type tcpKeepAliveListener struct {
	*net.TCPListener
}

// Server binds a listener and hands completed Requests to the
// application through IncomingRequests, TryRecv or RecvTimeout. It has
// no routing or handler-dispatch concept; delivering the parsed Request
// is the entire job.
type Server struct {
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
	ErrorLog          *log.Logger

	listener net.Listener
	requests chan *Request

	mu       sync.Mutex
	closed   bool
	doneChan chan struct{}
	wg       sync.WaitGroup
}

// Bind listens on addr and returns a Server ready to accept connections.
// If tlsConfig is non-nil, accepted connections are TLS-wrapped and the
// handshake happens lazily on first use of the stream, exactly as
// crypto/tls.Listener behaves.
func Bind(addr string, tlsConfig *tls.Config) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	var listener net.Listener = tcpKeepAliveListener{ln.(*net.TCPListener)}
	if tlsConfig != nil {
		listener = tls.NewListener(listener, tlsConfig)
	}

	srv := &Server{
		listener: listener,
		requests: make(chan *Request),
		doneChan: make(chan struct{}),
	}
	go srv.acceptLoop()
	return srv, nil
}

func (s *Server) logf(format string, args ...interface{}) {
	if s.ErrorLog != nil {
		s.ErrorLog.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// IncomingRequests returns the channel Requests are delivered on. The
// channel is closed once Shutdown has drained every in-flight
// connection.
func (s *Server) IncomingRequests() <-chan *Request {
	return s.requests
}

// TryRecv returns the next Request if one is immediately available,
// without blocking.
func (s *Server) TryRecv() (*Request, bool) {
	select {
	case rq, ok := <-s.requests:
		return rq, ok
	default:
		return nil, false
	}
}

// RecvTimeout waits up to d for the next Request.
func (s *Server) RecvTimeout(d time.Duration) (*Request, bool) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case rq, ok := <-s.requests:
		return rq, ok
	case <-timer.C:
		return nil, false
	}
}

// Shutdown stops accepting new connections and blocks until every
// in-flight connection worker has exited.
func (s *Server) Shutdown() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.doneChan)
	s.mu.Unlock()

	s.listener.Close()
	s.wg.Wait()
	close(s.requests)
}

func (s *Server) acceptLoop() {
	var tempDelay time.Duration
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.doneChan:
				return
			default:
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				if tempDelay == 0 {
					tempDelay = 5 * time.Millisecond
				} else {
					tempDelay *= 2
				}
				if max := 1 * time.Second; tempDelay > max {
					tempDelay = max
				}
				s.logf("http: Accept error: %v; retrying in %v", err, tempDelay)
				time.Sleep(tempDelay)
				continue
			}
			s.logf("http: Accept error: %v", err)
			return
		}
		tempDelay = 0

		s.wg.Add(1)
		go s.serveConn(conn)
	}
}

func (s *Server) serveConn(conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		if err := recover(); err != nil {
			const size = 64 << 10
			buf := make([]byte, size)
			buf = buf[:runtime.Stack(buf, false)]
			s.logf("http: panic serving %v: %v\n%s", conn.RemoteAddr(), err, buf)
		}
	}()

	var st stream.Stream
	if tlsConn, ok := conn.(*tls.Conn); ok {
		st = stream.NewTLS(tlsConn)
	} else {
		st = stream.NewTCP(conn)
	}
	defer st.Shutdown(stream.ShutdownBoth)

	cc := NewClientConnection(st)
	ctx := context.Background()

	for {
		if d := s.ReadHeaderTimeout; d != 0 {
			conn.SetReadDeadline(time.Now().Add(d))
		}

		rq, err := cc.Next(ctx)
		if err != nil {
			return
		}

		select {
		case s.requests <- rq:
		case <-s.doneChan:
			rq.drop()
			return
		}
	}
}
