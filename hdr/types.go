/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package hdr holds the ordered header-list type shared by requests and
// responses. Unlike net/http's map-based Header, field order and duplicate
// fields must survive unchanged, so the list is kept as a slice of pairs.
package hdr

// Pair is one header field as it appeared on the wire (or as inserted by
// the application, in insertion order).
type Pair struct {
	Name  string
	Value string
}

// List is an ordered, duplicate-preserving set of header fields. The zero
// value is an empty list ready to use.
type List []Pair
