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
	"path/filepath"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-nsm/pkg/nsm/request"
	"github.com/jeremyhahn/go-nsm/pkg/nsm/response"
)

func TestOpenDeviceUnopenablePath(t *testing.T) {
	platform := &DevicePlatform{Path: filepath.Join(t.TempDir(), "no-such-device")}

	fd := platform.OpenDevice()
	assert.Equal(t, -1, fd)
}

func TestCloseDeviceInvalidHandle(t *testing.T) {
	platform := &DevicePlatform{}

	// Close failure is observed only through logging; any handle value,
	// including an already-invalid one, completes without error.
	platform.CloseDevice(-1)
	platform.CloseDevice(1 << 20)
}

func TestExchangeRejectsEmptyRegions(t *testing.T) {
	platform := &DevicePlatform{}

	msg := Message{}
	errno := platform.Exchange(0, &msg)
	assert.Equal(t, int(unix.EINVAL), errno)
}

func TestExchangeAgainstNonDevice(t *testing.T) {
	// A regular file does not implement the NSM ioctl; the exchange reports
	// a nonzero error number and the orchestrator collapses it.
	path := filepath.Join(t.TempDir(), "not-a-device")
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CREAT, 0o600)
	require.NoError(t, err)
	defer func() { _ = unix.Close(fd) }()

	platform := &DevicePlatform{}
	res := ProcessRequest(platform, fd, request.DescribeNSM{})
	assert.Equal(t, response.ErrInternalError, res.Error)
}

func TestDefaultPlatformPath(t *testing.T) {
	platform := &DevicePlatform{}
	assert.Equal(t, DevFile, platform.path())

	platform.Path = "/dev/nsm0"
	assert.Equal(t, "/dev/nsm0", platform.path())
}
