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

package ioc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommand(t *testing.T) {
	// Known-answer values computed from the asm-generic _IOC macro
	assert.Equal(t, uintptr(0x0000_0A00), Command(None, 0x0A, 0, 0))
	assert.Equal(t, uintptr(0x4020_0A00), Command(Write, 0x0A, 0, 32))
	assert.Equal(t, uintptr(0x8020_0A00), Command(Read, 0x0A, 0, 32))
}

func TestIOWR(t *testing.T) {
	// The NSM exchange code: _IOWR(0x0A, 0, struct of two iovecs)
	assert.Equal(t, uintptr(0xC020_0A00), IOWR(0x0A, 0, 32))
	assert.Equal(t, uintptr(0xC010_0A01), IOWR(0x0A, 1, 16))
}

func TestIOWRDirectionBits(t *testing.T) {
	code := IOWR(0x0A, 0, 32)
	assert.Equal(t, Read|Write, code>>dirShift)
	assert.Equal(t, uintptr(0x0A), (code>>typeShift)&0xFF)
	assert.Equal(t, uintptr(32), (code>>sizeShift)&0x3FFF)
}
