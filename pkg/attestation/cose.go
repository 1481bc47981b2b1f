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
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// COSE constants used by the NSM envelope (RFC 9052).
const (
	coseSign1Tag   = 18
	coseHeaderAlg  = 1
	coseAlgES384   = -35
	sigContextText = "Signature1"
)

// Sign1 is the COSE_Sign1 envelope the device wraps every attestation
// document in: protected header, unprotected header, payload and signature.
type Sign1 struct {
	_ struct{} `cbor:",toarray"`

	Protected   []byte
	Unprotected cbor.RawMessage
	Payload     []byte
	Signature   []byte
}

// ParseSign1 decodes a COSE_Sign1 envelope, with or without its CBOR tag.
func ParseSign1(data []byte) (*Sign1, error) {
	var tagged cbor.RawTag
	if err := cbor.Unmarshal(data, &tagged); err == nil && tagged.Number == coseSign1Tag {
		data = tagged.Content
	}

	var envelope Sign1
	if err := cbor.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: bad COSE envelope: %v", ErrMalformedDocument, err)
	}
	if len(envelope.Payload) == 0 {
		return nil, fmt.Errorf("%w: empty COSE payload", ErrMalformedDocument)
	}
	if len(envelope.Signature) == 0 {
		return nil, fmt.Errorf("%w: empty COSE signature", ErrMalformedDocument)
	}
	return &envelope, nil
}

// Algorithm returns the signature algorithm declared in the protected header.
func (s *Sign1) Algorithm() (int64, error) {
	var header map[int64]cbor.RawMessage
	if err := cbor.Unmarshal(s.Protected, &header); err != nil {
		return 0, fmt.Errorf("%w: bad protected header: %v", ErrMalformedDocument, err)
	}
	raw, ok := header[coseHeaderAlg]
	if !ok {
		return 0, fmt.Errorf("%w: protected header without algorithm", ErrMalformedDocument)
	}
	var alg int64
	if err := cbor.Unmarshal(raw, &alg); err != nil {
		return 0, fmt.Errorf("%w: bad algorithm value: %v", ErrMalformedDocument, err)
	}
	return alg, nil
}

// Document decodes the payload into the attestation document.
func (s *Sign1) Document() (*Document, error) {
	var doc Document
	if err := cbor.Unmarshal(s.Payload, &doc); err != nil {
		return nil, fmt.Errorf("%w: bad payload: %v", ErrMalformedDocument, err)
	}
	return &doc, nil
}

// SigStructure builds the canonical Sig_structure the signature covers.
func (s *Sign1) SigStructure() ([]byte, error) {
	structure := []any{
		sigContextText,
		s.Protected,
		[]byte{}, // external AAD, unused by the NSM
		s.Payload,
	}
	data, err := cbor.Marshal(structure)
	if err != nil {
		return nil, fmt.Errorf("attestation: encoding Sig_structure: %w", err)
	}
	return data, nil
}
