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

// Package response defines the replies produced by the Nitro Secure Module
// and their CBOR wire form. Like requests, replies are externally tagged:
// variants without data arrive as a bare text string, variants with data as a
// single-key map. Exactly one variant is populated per response.
package response

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// ErrorCode enumerates the failure kinds a response can carry. The zero
// value means the response is not an error.
type ErrorCode string

const (
	ErrSuccess          ErrorCode = "Success"
	ErrInvalidArgument  ErrorCode = "InvalidArgument"
	ErrInvalidIndex     ErrorCode = "InvalidIndex"
	ErrInvalidResponse  ErrorCode = "InvalidResponse"
	ErrReadOnlyIndex    ErrorCode = "ReadOnlyIndex"
	ErrInvalidOperation ErrorCode = "InvalidOperation"
	ErrBufferTooSmall   ErrorCode = "BufferTooSmall"
	ErrInputTooLarge    ErrorCode = "InputTooLarge"
	ErrInternalError    ErrorCode = "InternalError"
)

// DescribePCR is the reply to a request.DescribePCR command.
type DescribePCR struct {
	// Lock reports whether the PCR is locked against extension
	Lock bool `cbor:"lock"`

	// Data is the current PCR digest
	Data []byte `cbor:"data"`
}

// ExtendPCR is the reply to a request.ExtendPCR command.
type ExtendPCR struct {
	// Data is the PCR digest after the extension
	Data []byte `cbor:"data"`
}

// LockPCR is the reply to a request.LockPCR command. It carries no data.
type LockPCR struct{}

// LockPCRs is the reply to a request.LockPCRs command. It carries no data.
type LockPCRs struct{}

// DescribeNSM is the reply to a request.DescribeNSM command.
type DescribeNSM struct {
	VersionMajor uint16 `cbor:"version_major"`
	VersionMinor uint16 `cbor:"version_minor"`
	VersionPatch uint16 `cbor:"version_patch"`

	// ModuleID uniquely identifies the device instance
	ModuleID string `cbor:"module_id"`

	// MaxPCRs is the number of PCRs the device exposes
	MaxPCRs uint16 `cbor:"max_pcrs"`

	// LockedPCRs lists the indexes currently locked
	LockedPCRs []uint16 `cbor:"locked_pcrs"`

	// Digest is the hash algorithm used for PCRs (for example "SHA384")
	Digest string `cbor:"digest"`
}

// Attestation is the reply to a request.Attestation command.
type Attestation struct {
	// Document is the COSE_Sign1 encoded attestation document
	Document []byte `cbor:"document"`
}

// GetRandom is the reply to a request.GetRandom command.
type GetRandom struct {
	// Random holds the entropy drawn from the device
	Random []byte `cbor:"random"`
}

// Response is one reply from the NSM device. Exactly one field is set; an
// Error value means the device, or this library on its behalf, rejected the
// request.
type Response struct {
	DescribePCR *DescribePCR
	ExtendPCR   *ExtendPCR
	LockPCR     *LockPCR
	LockPCRs    *LockPCRs
	DescribeNSM *DescribeNSM
	Attestation *Attestation
	GetRandom   *GetRandom
	Error       ErrorCode
}

var errNoVariant = errors.New("response: no variant set")

var encMode = func() cbor.EncMode {
	em, err := cbor.EncOptions{Sort: cbor.SortCanonical}.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// Encode serializes the response into its tagged CBOR wire form. Encoding is
// deterministic: equal responses produce identical bytes.
func (r Response) Encode() ([]byte, error) {
	switch {
	case r.DescribePCR != nil:
		return encMode.Marshal(map[string]any{"DescribePCR": r.DescribePCR})
	case r.ExtendPCR != nil:
		return encMode.Marshal(map[string]any{"ExtendPCR": r.ExtendPCR})
	case r.LockPCR != nil:
		return encMode.Marshal("LockPCR")
	case r.LockPCRs != nil:
		return encMode.Marshal("LockPCRs")
	case r.DescribeNSM != nil:
		return encMode.Marshal(map[string]any{"DescribeNSM": r.DescribeNSM})
	case r.Attestation != nil:
		return encMode.Marshal(map[string]any{"Attestation": r.Attestation})
	case r.GetRandom != nil:
		return encMode.Marshal(map[string]any{"GetRandom": r.GetRandom})
	case r.Error != "":
		return encMode.Marshal(map[string]any{"Error": r.Error})
	}
	return nil, errNoVariant
}

// Decode parses one tagged CBOR response from data. Trailing bytes beyond the
// first CBOR item are ignored, so a fixed-capacity exchange buffer with zero
// padding decodes cleanly. Malformed or unrecognized input yields an error;
// callers wanting the fail-safe contract use nsm.DecodeResponse instead.
func Decode(data []byte) (Response, error) {
	// Variants without data arrive as a bare text string.
	var unit string
	if _, err := cbor.UnmarshalFirst(data, &unit); err == nil {
		switch unit {
		case "LockPCR":
			return Response{LockPCR: &LockPCR{}}, nil
		case "LockPCRs":
			return Response{LockPCRs: &LockPCRs{}}, nil
		}
		return Response{}, fmt.Errorf("response: unknown variant %q", unit)
	}

	var envelope map[string]cbor.RawMessage
	if _, err := cbor.UnmarshalFirst(data, &envelope); err != nil {
		return Response{}, fmt.Errorf("response: malformed envelope: %w", err)
	}
	if len(envelope) != 1 {
		return Response{}, fmt.Errorf("response: expected one variant, found %d", len(envelope))
	}

	var res Response
	for name, raw := range envelope {
		var err error
		switch name {
		case "DescribePCR":
			res.DescribePCR = &DescribePCR{}
			err = cbor.Unmarshal(raw, res.DescribePCR)
		case "ExtendPCR":
			res.ExtendPCR = &ExtendPCR{}
			err = cbor.Unmarshal(raw, res.ExtendPCR)
		case "DescribeNSM":
			res.DescribeNSM = &DescribeNSM{}
			err = cbor.Unmarshal(raw, res.DescribeNSM)
		case "Attestation":
			res.Attestation = &Attestation{}
			err = cbor.Unmarshal(raw, res.Attestation)
		case "GetRandom":
			res.GetRandom = &GetRandom{}
			err = cbor.Unmarshal(raw, res.GetRandom)
		case "Error":
			err = cbor.Unmarshal(raw, &res.Error)
		default:
			return Response{}, fmt.Errorf("response: unknown variant %q", name)
		}
		if err != nil {
			return Response{}, fmt.Errorf("response: malformed %s variant: %w", name, err)
		}
	}
	return res, nil
}
