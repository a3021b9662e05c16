/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package http

import (
	"testing"

	"github.com/sww1235/tiny-http/hdr"
)

func TestChooseTransferEncodingHTTP10AlwaysIdentity(t *testing.T) {
	got := chooseTransferEncoding(200, 1, 0, nil, nil, false, defaultChunkedThreshold)
	if got != teIdentity {
		t.Fatalf("got %v, want identity", got)
	}
}

func TestChooseTransferEncodingInformationalAndNoContentNeverChunked(t *testing.T) {
	if got := chooseTransferEncoding(204, 1, 1, nil, nil, false, defaultChunkedThreshold); got != teIdentity {
		t.Fatalf("204 got %v", got)
	}
	if got := chooseTransferEncoding(101, 1, 1, nil, nil, false, defaultChunkedThreshold); got != teIdentity {
		t.Fatalf("101 got %v", got)
	}
}

func TestChooseTransferEncodingUnknownLengthIsChunked(t *testing.T) {
	got := chooseTransferEncoding(200, 1, 1, nil, nil, false, defaultChunkedThreshold)
	if got != teChunked {
		t.Fatalf("got %v, want chunked", got)
	}
}

func TestChooseTransferEncodingShortKnownLengthIsIdentity(t *testing.T) {
	n := int64(10)
	got := chooseTransferEncoding(200, 1, 1, nil, &n, false, defaultChunkedThreshold)
	if got != teIdentity {
		t.Fatalf("got %v, want identity", got)
	}
}

func TestChooseTransferEncodingLongLengthIsChunked(t *testing.T) {
	n := int64(defaultChunkedThreshold)
	got := chooseTransferEncoding(200, 1, 1, nil, &n, false, defaultChunkedThreshold)
	if got != teChunked {
		t.Fatalf("got %v, want chunked", got)
	}
}

func TestChooseTransferEncodingHonorsTEHeader(t *testing.T) {
	var reqHeaders hdr.List
	reqHeaders.Add(hTE, "identity")
	n := int64(10_000_000)
	got := chooseTransferEncoding(200, 1, 1, reqHeaders, &n, false, defaultChunkedThreshold)
	if got != teIdentity {
		t.Fatalf("got %v, want identity honoring TE header", got)
	}
}

func TestChooseTransferEncodingTEHeaderQValuesRanked(t *testing.T) {
	var reqHeaders hdr.List
	reqHeaders.Add(hTE, "identity;q=0.1, chunked;q=0.9")
	got := chooseTransferEncoding(200, 1, 1, reqHeaders, nil, false, defaultChunkedThreshold)
	if got != teChunked {
		t.Fatalf("got %v, want chunked (higher q)", got)
	}
}

func TestChooseTransferEncodingAdditionalHeadersForceChunked(t *testing.T) {
	n := int64(1)
	got := chooseTransferEncoding(200, 1, 1, nil, &n, true, defaultChunkedThreshold)
	if got != teChunked {
		t.Fatalf("got %v, want chunked", got)
	}
}
