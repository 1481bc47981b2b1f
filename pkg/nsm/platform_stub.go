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

//go:build !linux

package nsm

import "github.com/jeremyhahn/go-nsm/pkg/logging"

// errnoNotSupported is ENOSYS, returned by the stub exchange on platforms
// without the NSM character device.
const errnoNotSupported = 38

// DevicePlatform is a stub on non-Linux platforms. The NSM character device
// only exists on Linux; every operation fails with a logged diagnostic.
type DevicePlatform struct {
	// Path overrides the device path, DevFile when empty
	Path string

	// Logger overrides the diagnostic logger
	Logger *logging.Logger
}

// OpenDevice always returns the -1 sentinel on non-Linux platforms.
func (p *DevicePlatform) OpenDevice() int {
	p.logger().Errorf("NSM device access is only supported on Linux")
	return -1
}

// Exchange always fails with ENOSYS on non-Linux platforms.
func (p *DevicePlatform) Exchange(fd int, msg *Message) int {
	return errnoNotSupported
}

// CloseDevice is a no-op on non-Linux platforms.
func (p *DevicePlatform) CloseDevice(fd int) {
	p.logger().Debugf("ignoring close of descriptor %d: NSM device access is only supported on Linux", fd)
}

func (p *DevicePlatform) logger() *logging.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return logging.DefaultLogger()
}

func defaultPlatform() Platform {
	return &DevicePlatform{}
}
