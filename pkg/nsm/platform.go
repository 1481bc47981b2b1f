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

// Package nsm implements user-space communication with the Nitro Secure
// Module character device. Requests are CBOR-encoded, exchanged with the
// kernel driver through a single read/write ioctl, and the reply is decoded
// back into a typed response. The request/response catalog lives in the
// request and response subpackages.
package nsm

import "errors"

const (
	// DevFile is the default path of the NSM character device
	DevFile = "/dev/nsm"

	// IoctlMagic is the ioctl type code of the NSM driver
	IoctlMagic = 0x0A

	// MaxRequestSize is the largest encoded request the driver accepts
	MaxRequestSize = 0x1000

	// MaxResponseSize is the fixed capacity of the response buffer
	MaxResponseSize = 0x3000
)

var (
	ErrDeviceUnavailable = errors.New("nsm: device unavailable")
	ErrSessionClosed     = errors.New("nsm: session closed")
	ErrInvalidResponse   = errors.New("nsm: invalid device response")
)

// Message is the envelope passed through one exchange: the encoded request
// and a caller-allocated response buffer. A Message is built fresh for every
// exchange and must not be reused; the platform may shrink Response in place
// to the length the driver actually produced.
type Message struct {
	// Request holds the encoded request bytes, at most MaxRequestSize
	Request []byte

	// Response is the output region the driver writes into
	Response []byte
}

// Platform supplies the operating-system capabilities needed to talk to the
// NSM device. Exactly one production implementation exists per target
// (DevicePlatform) alongside the in-memory MockPlatform used for tests.
// Implementations report failure through return values and logging, never by
// panicking.
type Platform interface {
	// OpenDevice opens the device and returns its handle, or -1 when the
	// device cannot be opened. The failure is logged, not returned.
	OpenDevice() int

	// Exchange performs one combined write/read transfer for msg. A zero
	// return means success; any other value is the raw operating-system
	// error number.
	Exchange(fd int, msg *Message) int

	// CloseDevice releases the handle. Failures are logged, never returned.
	CloseDevice(fd int)
}
