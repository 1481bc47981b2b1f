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

// Package request defines the commands accepted by the Nitro Secure Module.
// On the wire each request is an externally tagged CBOR value: commands
// without parameters encode as a bare text string, commands with parameters
// encode as a single-key map from the command name to its parameters.
package request

// Request is one command for the NSM device. Implementations return the
// externally tagged value handed to the CBOR encoder.
type Request interface {
	// Encoded returns the tagged wire representation of the request.
	Encoded() any

	// Name returns the command name, used for logging and metrics labels.
	Name() string
}

// DescribePCR reads the state of a Platform Configuration Register.
type DescribePCR struct {
	// Index of the PCR to describe
	Index uint16 `cbor:"index"`
}

func (r DescribePCR) Encoded() any { return map[string]any{"DescribePCR": r} }
func (r DescribePCR) Name() string { return "DescribePCR" }

// ExtendPCR extends a Platform Configuration Register with additional data.
type ExtendPCR struct {
	// Index of the PCR to extend
	Index uint16 `cbor:"index"`

	// Data mixed into the PCR state
	Data []byte `cbor:"data"`
}

func (r ExtendPCR) Encoded() any { return map[string]any{"ExtendPCR": r} }
func (r ExtendPCR) Name() string { return "ExtendPCR" }

// LockPCR locks a single Platform Configuration Register from further
// extension.
type LockPCR struct {
	// Index of the PCR to lock
	Index uint16 `cbor:"index"`
}

func (r LockPCR) Encoded() any { return map[string]any{"LockPCR": r} }
func (r LockPCR) Name() string { return "LockPCR" }

// LockPCRs locks all Platform Configuration Registers with an index lower
// than Range.
type LockPCRs struct {
	// Range is the exclusive upper bound of PCR indexes to lock
	Range uint16 `cbor:"range"`
}

func (r LockPCRs) Encoded() any { return map[string]any{"LockPCRs": r} }
func (r LockPCRs) Name() string { return "LockPCRs" }

// DescribeNSM queries the device for its version, digest and PCR
// configuration. It carries no parameters.
type DescribeNSM struct{}

func (DescribeNSM) Encoded() any { return "DescribeNSM" }
func (DescribeNSM) Name() string { return "DescribeNSM" }

// Attestation asks the device to produce a signed attestation document.
// All three fields are optional and are reflected verbatim in the document.
type Attestation struct {
	// UserData is opaque caller data bound into the document
	UserData []byte `cbor:"user_data"`

	// Nonce is a caller challenge proving document freshness
	Nonce []byte `cbor:"nonce"`

	// PublicKey is a DER-encoded public key bound into the document
	PublicKey []byte `cbor:"public_key"`
}

func (r Attestation) Encoded() any { return map[string]any{"Attestation": r} }
func (r Attestation) Name() string { return "Attestation" }

// GetRandom draws entropy from the device's hardware source. It carries no
// parameters.
type GetRandom struct{}

func (GetRandom) Encoded() any { return "GetRandom" }
func (GetRandom) Name() string { return "GetRandom" }
