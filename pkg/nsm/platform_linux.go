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

//go:build linux

package nsm

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/jeremyhahn/go-nsm/pkg/logging"
	"github.com/jeremyhahn/go-nsm/pkg/metrics"
	"github.com/jeremyhahn/go-nsm/pkg/nsm/ioc"
)

// ioctlMessage is the exact memory layout the kernel driver expects: the
// request iovec followed by the response iovec. The driver writes the number
// of response bytes it produced back into the response iovec length.
type ioctlMessage struct {
	request  unix.Iovec
	response unix.Iovec
}

// DevicePlatform is the production Platform bound to the Linux NSM character
// device. The zero value uses DevFile and the package default logger.
type DevicePlatform struct {
	// Path overrides the device path, DevFile when empty
	Path string

	// Logger overrides the diagnostic logger
	Logger *logging.Logger
}

// OpenDevice opens the NSM character device read-write and returns its file
// descriptor, or -1 when the device cannot be opened.
func (p *DevicePlatform) OpenDevice() int {
	fd, err := unix.Open(p.path(), unix.O_RDWR, 0)
	if err != nil {
		p.logger().Errorf("device file '%s' failed to open: %v", p.path(), err)
		metrics.RecordDeviceOpen(metrics.StatusError)
		return -1
	}
	p.logger().Debugf("device file '%s' opened successfully", p.path())
	metrics.RecordDeviceOpen(metrics.StatusSuccess)
	return fd
}

// Exchange performs the NSM ioctl for msg. On success the response slice is
// shrunk to the length reported back by the driver, so no trailing padding
// reaches the decoder on this path.
func (p *DevicePlatform) Exchange(fd int, msg *Message) int {
	if len(msg.Request) == 0 || len(msg.Response) == 0 {
		return int(unix.EINVAL)
	}

	var iomsg ioctlMessage
	iomsg.request.Base = &msg.Request[0]
	iomsg.request.SetLen(len(msg.Request))
	iomsg.response.Base = &msg.Response[0]
	iomsg.response.SetLen(len(msg.Response))

	code := ioc.IOWR(IoctlMagic, 0, unsafe.Sizeof(iomsg))
	_, _, errno := unix.Syscall(
		unix.SYS_IOCTL,
		uintptr(fd),
		code,
		uintptr(unsafe.Pointer(&iomsg)),
	)
	if errno != 0 {
		return int(errno)
	}

	if n := int(iomsg.response.Len); n >= 0 && n <= len(msg.Response) {
		msg.Response = msg.Response[:n]
	}
	return 0
}

// CloseDevice closes the file descriptor. A close failure is observed only
// through logging.
func (p *DevicePlatform) CloseDevice(fd int) {
	if err := unix.Close(fd); err != nil {
		p.logger().Errorf("file of descriptor %d failed to close: %v", fd, err)
		return
	}
	p.logger().Debugf("file of descriptor %d closed successfully", fd)
}

func (p *DevicePlatform) path() string {
	if p.Path != "" {
		return p.Path
	}
	return DevFile
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
