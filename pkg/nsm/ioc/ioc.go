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

// Package ioc computes Linux ioctl request codes using the asm-generic
// encoding shared by every architecture the NSM driver ships on.
package ioc

// Direction bits of an ioctl request code.
const (
	None  uintptr = 0
	Write uintptr = 1
	Read  uintptr = 2
)

// Field widths and shifts of the asm-generic ioctl encoding.
const (
	numberBits = 8
	typeBits   = 8
	sizeBits   = 14

	numberShift = 0
	typeShift   = numberShift + numberBits
	sizeShift   = typeShift + typeBits
	dirShift    = sizeShift + sizeBits
)

// Command encodes an ioctl request code from its direction, type (magic),
// command number and argument size.
func Command(dir, typ, nr, size uintptr) uintptr {
	return dir<<dirShift | typ<<typeShift | nr<<numberShift | size<<sizeShift
}

// IOWR encodes a read/write ioctl request code, the equivalent of the
// kernel's _IOWR macro.
func IOWR(typ, nr, size uintptr) uintptr {
	return Command(Read|Write, typ, nr, size)
}
