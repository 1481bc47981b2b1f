// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-nsm.
//
// go-nsm is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package attestation requests and verifies NSM attestation documents. The
// device wraps each document in a COSE_Sign1 envelope signed with the
// enclave's attestation key; verification checks the certificate chain, the
// envelope signature and, optionally, nonce and freshness.
package attestation

import (
	"crypto/x509"
	"errors"
	"fmt"
	"time"
)

// Digest algorithms a document may declare.
const (
	DigestSHA256 = "SHA256"
	DigestSHA384 = "SHA384"
	DigestSHA512 = "SHA512"
)

var (
	ErrMalformedDocument = errors.New("attestation: malformed document")
	ErrInvalidSignature  = errors.New("attestation: invalid signature")
	ErrNonceMismatch     = errors.New("attestation: nonce mismatch")
	ErrDocumentTooOld    = errors.New("attestation: document outside freshness window")
)

// Document is the attestation payload produced by the NSM device.
type Document struct {
	// ModuleID identifies the NSM instance that produced the document
	ModuleID string `cbor:"module_id"`

	// Digest is the hash algorithm used for the PCR values
	Digest string `cbor:"digest"`

	// Timestamp is milliseconds since the Unix epoch
	Timestamp uint64 `cbor:"timestamp"`

	// PCRs maps register index to digest at the time of attestation
	PCRs map[uint][]byte `cbor:"pcrs"`

	// Certificate is the DER-encoded certificate of the signing key
	Certificate []byte `cbor:"certificate"`

	// CABundle holds the DER-encoded issuing chain, root first
	CABundle [][]byte `cbor:"cabundle"`

	// PublicKey is the optional caller public key bound into the document
	PublicKey []byte `cbor:"public_key"`

	// UserData is the optional caller data bound into the document
	UserData []byte `cbor:"user_data"`

	// Nonce is the optional caller challenge bound into the document
	Nonce []byte `cbor:"nonce"`
}

// Validate checks the mandatory document fields.
func (d *Document) Validate() error {
	if d.ModuleID == "" {
		return fmt.Errorf("%w: empty module id", ErrMalformedDocument)
	}
	switch d.Digest {
	case DigestSHA256, DigestSHA384, DigestSHA512:
	default:
		return fmt.Errorf("%w: unknown digest %q", ErrMalformedDocument, d.Digest)
	}
	if d.Timestamp == 0 {
		return fmt.Errorf("%w: zero timestamp", ErrMalformedDocument)
	}
	if len(d.PCRs) == 0 || len(d.PCRs) > 32 {
		return fmt.Errorf("%w: %d PCRs", ErrMalformedDocument, len(d.PCRs))
	}
	for index, value := range d.PCRs {
		switch len(value) {
		case 32, 48, 64:
		default:
			return fmt.Errorf("%w: PCR %d has %d-byte digest", ErrMalformedDocument, index, len(value))
		}
	}
	if len(d.Certificate) == 0 {
		return fmt.Errorf("%w: missing certificate", ErrMalformedDocument)
	}
	if len(d.CABundle) == 0 {
		return fmt.Errorf("%w: missing CA bundle", ErrMalformedDocument)
	}
	for i, der := range d.CABundle {
		if len(der) == 0 {
			return fmt.Errorf("%w: empty CA bundle entry %d", ErrMalformedDocument, i)
		}
	}
	return nil
}

// SignedAt returns the document timestamp as a time.Time.
func (d *Document) SignedAt() time.Time {
	return time.UnixMilli(int64(d.Timestamp))
}

// LeafCertificate parses the signing certificate.
func (d *Document) LeafCertificate() (*x509.Certificate, error) {
	cert, err := x509.ParseCertificate(d.Certificate)
	if err != nil {
		return nil, fmt.Errorf("%w: bad certificate: %v", ErrMalformedDocument, err)
	}
	return cert, nil
}

// Bundle parses the issuing chain carried in the document.
func (d *Document) Bundle() ([]*x509.Certificate, error) {
	certs := make([]*x509.Certificate, 0, len(d.CABundle))
	for i, der := range d.CABundle {
		cert, err := x509.ParseCertificate(der)
		if err != nil {
			return nil, fmt.Errorf("%w: bad CA bundle entry %d: %v", ErrMalformedDocument, i, err)
		}
		certs = append(certs, cert)
	}
	return certs, nil
}
