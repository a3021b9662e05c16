/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package hdr

import (
	"io"
	"strings"
)

// Add appends name/value to the list, preserving insertion order.
func (l *List) Add(name, value string) {
	*l = append(*l, Pair{Name: name, Value: value})
}

// InsertFirst makes name/value the first occurrence of name in the list.
// Existing occurrences of name are kept, shifted after the new pair, as
// required when forcing Upgrade/Connection to the front of a response.
func (l *List) InsertFirst(name, value string) {
	out := make(List, 0, len(*l)+1)
	out = append(out, Pair{Name: name, Value: value})
	out = append(out, *l...)
	*l = out
}

// Get returns the first case-insensitive match for name, or "".
func (l List) Get(name string) string {
	for _, p := range l {
		if strings.EqualFold(p.Name, name) {
			return p.Value
		}
	}
	return ""
}

// Has reports whether name is present at all (case-insensitive).
func (l List) Has(name string) bool {
	for _, p := range l {
		if strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

// Values returns every case-insensitive match for name, in order.
func (l List) Values(name string) []string {
	var out []string
	for _, p := range l {
		if strings.EqualFold(p.Name, name) {
			out = append(out, p.Value)
		}
	}
	return out
}

// Del removes every case-insensitive match for name.
func (l *List) Del(name string) {
	out := (*l)[:0]
	for _, p := range *l {
		if !strings.EqualFold(p.Name, name) {
			out = append(out, p)
		}
	}
	*l = out
}

// Set replaces every occurrence of name with a single name/value pair,
// inserted at the position of the first existing occurrence (or appended
// if name was absent).
func (l *List) Set(name, value string) {
	replaced := false
	out := make(List, 0, len(*l))
	for _, p := range *l {
		if strings.EqualFold(p.Name, name) {
			if !replaced {
				out = append(out, Pair{Name: name, Value: value})
				replaced = true
			}
			continue
		}
		out = append(out, p)
	}
	if !replaced {
		out = append(out, Pair{Name: name, Value: value})
	}
	*l = out
}

// Clone returns an independent copy of the list.
func (l List) Clone() List {
	out := make(List, len(l))
	copy(out, l)
	return out
}

// WriteTo writes the list in wire format, one "Name: value\r\n" per pair,
// in insertion order.
func (l List) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for _, p := range l {
		n, err := io.WriteString(w, p.Name+": "+p.Value+"\r\n")
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}
