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

package attestation

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/sha512"
	"crypto/x509"
	"fmt"
	"math/big"
	"time"
)

// VerifyOptions controls optional verification checks.
type VerifyOptions struct {
	// CurrentTime anchors chain validation and freshness; time.Now when zero
	CurrentTime time.Time

	// Nonce, when set, must match the nonce bound into the document
	Nonce []byte

	// MaxAge, when positive, bounds the document age relative to CurrentTime
	MaxAge time.Duration
}

// Result carries the outcome of a successful verification.
type Result struct {
	// Document is the verified attestation payload
	Document *Document

	// Certificates is the parsed chain, leaf first
	Certificates []*x509.Certificate
}

// Verifier validates COSE_Sign1 attestation documents against a set of
// trusted roots.
type Verifier struct {
	trustedRoots *x509.CertPool
}

// NewVerifier creates a verifier anchored at roots. A nil pool trusts the
// root carried in the document's own CA bundle, which proves only that the
// envelope is internally consistent.
func NewVerifier(roots *x509.CertPool) *Verifier {
	return &Verifier{trustedRoots: roots}
}

// Verify parses and validates a COSE_Sign1 attestation document, returning
// the decoded payload on success.
//
// Checks performed, in order:
//  1. Envelope and payload structure
//  2. Certificate chain from the document's signing certificate to a
//     trusted root
//  3. ECDSA P-384 signature over the COSE Sig_structure
//  4. Nonce equality and freshness, when requested
func (v *Verifier) Verify(data []byte, opts *VerifyOptions) (*Result, error) {
	if opts == nil {
		opts = &VerifyOptions{}
	}
	now := opts.CurrentTime
	if now.IsZero() {
		now = time.Now()
	}

	envelope, err := ParseSign1(data)
	if err != nil {
		return nil, err
	}
	doc, err := envelope.Document()
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	chain, err := v.verifyChain(doc, now)
	if err != nil {
		return nil, err
	}

	if err := verifySignature(envelope, chain[0]); err != nil {
		return nil, err
	}

	if opts.Nonce != nil && !bytes.Equal(opts.Nonce, doc.Nonce) {
		return nil, ErrNonceMismatch
	}
	if opts.MaxAge > 0 {
		if age := now.Sub(doc.SignedAt()); age < 0 || age > opts.MaxAge {
			return nil, ErrDocumentTooOld
		}
	}

	return &Result{Document: doc, Certificates: chain}, nil
}

// verifyChain validates the signing certificate against the trusted roots,
// using the document's CA bundle as the intermediate pool.
func (v *Verifier) verifyChain(doc *Document, now time.Time) ([]*x509.Certificate, error) {
	leaf, err := doc.LeafCertificate()
	if err != nil {
		return nil, err
	}
	bundle, err := doc.Bundle()
	if err != nil {
		return nil, err
	}

	roots := v.trustedRoots
	intermediates := x509.NewCertPool()
	if roots == nil {
		roots = x509.NewCertPool()
		roots.AddCert(bundle[0])
	}
	for _, cert := range bundle {
		intermediates.AddCert(cert)
	}

	if _, err := leaf.Verify(x509.VerifyOptions{
		Roots:         roots,
		Intermediates: intermediates,
		CurrentTime:   now,
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
	}); err != nil {
		return nil, fmt.Errorf("attestation: certificate chain: %w", err)
	}

	return append([]*x509.Certificate{leaf}, bundle...), nil
}

// verifySignature checks the COSE signature with the leaf's ECDSA P-384 key.
// The signature is the raw r||s concatenation, each half padded to the curve
// size.
func verifySignature(envelope *Sign1, leaf *x509.Certificate) error {
	alg, err := envelope.Algorithm()
	if err != nil {
		return err
	}
	if alg != coseAlgES384 {
		return fmt.Errorf("%w: unsupported algorithm %d", ErrInvalidSignature, alg)
	}

	public, ok := leaf.PublicKey.(*ecdsa.PublicKey)
	if !ok {
		return fmt.Errorf("%w: signing certificate key is not ECDSA", ErrInvalidSignature)
	}

	sig := envelope.Signature
	if len(sig) == 0 || len(sig)%2 != 0 {
		return fmt.Errorf("%w: bad signature length %d", ErrInvalidSignature, len(sig))
	}
	r := new(big.Int).SetBytes(sig[:len(sig)/2])
	s := new(big.Int).SetBytes(sig[len(sig)/2:])

	structure, err := envelope.SigStructure()
	if err != nil {
		return err
	}
	digest := sha512.Sum384(structure)

	if !ecdsa.Verify(public, digest[:], r, s) {
		return ErrInvalidSignature
	}
	return nil
}
