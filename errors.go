/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package http

import "errors"

// badRequestError carries the human-readable reason a request line or
// header block failed to parse.
type badRequestError string

func (e badRequestError) Error() string { return "bad request: " + string(e) }

var (
	// ErrUpgraded is returned by Request methods once the request has
	// already been consumed by Upgrade; the caller now owns the raw
	// stream and the pipeline no longer manages it.
	ErrUpgraded = errors.New("http: request already upgraded")

	// ErrResponded is returned by Request methods once Respond or
	// Upgrade has already been called.
	ErrResponded = errors.New("http: request already responded to")

	// errWrongRequestLine marks a malformed request line.
	errWrongRequestLine = errors.New("http: malformed request line")
)
