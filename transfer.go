/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package http

import (
	"sort"
	"strconv"
	"strings"

	"github.com/sww1235/tiny-http/hdr"
)

type transferEncoding int

const (
	teIdentity transferEncoding = iota
	teChunked
)

// qValue is one element of a parsed TE request header: a token and its
// relative-quality weight.
type qValue struct {
	token string
	q     float64
}

// parseQValues parses a header value such as "trailers, chunked;q=0.5"
// into its tokens and q weights, defaulting q to 1.0 when absent.
func parseQValues(v string) []qValue {
	var out []qValue
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		token := part
		q := 1.0
		if idx := strings.IndexByte(part, ';'); idx >= 0 {
			token = strings.TrimSpace(part[:idx])
			params := part[idx+1:]
			for _, p := range strings.Split(params, ";") {
				p = strings.TrimSpace(p)
				if strings.HasPrefix(p, "q=") {
					if f, err := strconv.ParseFloat(strings.TrimPrefix(p, "q="), 64); err == nil {
						q = f
					}
				}
			}
		}
		out = append(out, qValue{token: token, q: q})
	}
	return out
}

// chooseTransferEncoding implements the response encoding decision: HTTP/1.0
// clients only ever get identity, 1xx/204 responses never carry a
// Transfer-Encoding header at all, the client's TE request header (sorted by
// descending q, ties broken by original order) is honored ahead of any
// default, an in-flight additional-headers channel forces chunked, and
// otherwise a response of unknown or large length is chunked while a short
// known length stays identity.
func chooseTransferEncoding(statusCode, httpMajor, httpMinor int, requestHeaders hdr.List, entityLength *int64, hasAdditionalHeaders bool, chunkedThreshold int64) transferEncoding {
	if httpMajor < 1 || (httpMajor == 1 && httpMinor == 0) {
		return teIdentity
	}

	if (statusCode >= 100 && statusCode <= 199) || statusCode == 204 {
		return teIdentity
	}

	if te := requestHeaders.Get(hTE); te != "" {
		values := parseQValues(te)
		sort.SliceStable(values, func(i, j int) bool { return values[i].q > values[j].q })
		for _, v := range values {
			if v.q <= 0 {
				continue
			}
			switch {
			case strings.EqualFold(v.token, doIdentity):
				return teIdentity
			case strings.EqualFold(v.token, doChunked):
				return teChunked
			}
		}
	}

	if hasAdditionalHeaders {
		return teChunked
	}

	if entityLength == nil || *entityLength >= chunkedThreshold {
		return teChunked
	}

	return teIdentity
}
