/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package http

// Methods the pipeline treats specially. Any other token is still a legal
// method: the request line accepts any valid token in that position.
const (
	GET     = "GET"
	HEAD    = "HEAD"
	POST    = "POST"
	PUT     = "PUT"
	DELETE  = "DELETE"
	CONNECT = "CONNECT"
	OPTIONS = "OPTIONS"
	TRACE   = "TRACE"
	PATCH   = "PATCH"
)

const (
	hConnection       = "Connection"
	hTrailer          = "Trailer"
	hTransferEncoding = "Transfer-Encoding"
	hUpgrade          = "Upgrade"
	hContentLength    = "Content-Length"
	hContentType      = "Content-Type"
	hExpect           = "Expect"
	hTE               = "TE"
	hDate             = "Date"
	hServer           = "Server"

	doClose     = "close"
	doKeepAlive = "keep-alive"
	doChunked   = "chunked"
	doIdentity  = "identity"
	doUpgrade   = "upgrade"

	expect100Continue = "100-continue"
)

// defaultChunkedThreshold is the response body length at or above which
// rawPrint switches an identity-framed response to chunked encoding.
const defaultChunkedThreshold = 32768

var crlf = []byte("\r\n")
