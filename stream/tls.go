/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package stream

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
)

// ErrEmptyCertificateChain is returned by LoadTLSConfig when certPEM does
// not contain at least one certificate.
var ErrEmptyCertificateChain = errors.New("stream: certificate chain is empty")

// LoadTLSConfig builds a server-side *tls.Config from a PEM-encoded
// certificate chain and a PEM-encoded private key. The key is tried as
// PKCS#8 first; if that yields no key, it falls back to PKCS#1 RSA.
func LoadTLSConfig(certPEM, keyPEM []byte) (*tls.Config, error) {
	var chain []byte
	var certCount int
	rest := certPEM
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type == "CERTIFICATE" {
			certCount++
		}
	}
	if certCount == 0 {
		return nil, ErrEmptyCertificateChain
	}
	chain = certPEM

	key, err := decodePrivateKey(keyPEM)
	if err != nil {
		return nil, err
	}

	cert, err := tls.X509KeyPair(chain, key)
	if err != nil {
		return nil, err
	}
	return &tls.Config{Certificates: []tls.Certificate{cert}}, nil
}

// decodePrivateKey checks that the first PEM block of keyPEM parses as a
// PKCS#8 key or, failing that, as a PKCS#1 RSA key, and returns keyPEM
// unchanged for tls.X509KeyPair (which accepts PKCS#1, PKCS#8 and EC PEM
// blocks interchangeably) to consume; this keeps the PKCS#8-first,
// PKCS#1-fallback contract explicit rather than relying on X509KeyPair's
// own internal fallback.
func decodePrivateKey(keyPEM []byte) ([]byte, error) {
	block, _ := pem.Decode(keyPEM)
	if block == nil {
		return nil, errors.New("stream: no PEM block found in private key")
	}

	if _, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		return keyPEM, nil
	}
	if _, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return keyPEM, nil
	}
	return nil, errors.New("stream: private key is neither PKCS#8 nor PKCS#1 RSA")
}
