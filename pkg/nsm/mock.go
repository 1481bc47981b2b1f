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

package nsm

import "sync"

// MockPlatform implements Platform in memory, recording every call and
// returning programmed outcomes. It lets the exchange path be exercised
// without a real NSM device.
type MockPlatform struct {
	mu sync.Mutex

	// OpenFD is the handle OpenDevice returns (use -1 to simulate open
	// failure)
	OpenFD int

	// ExchangeErrno is returned by Exchange; 0 means success
	ExchangeErrno int

	// ResponseBytes is copied into the front of the response region on a
	// successful exchange. The remainder of the region stays zero.
	ResponseBytes []byte

	// OpenCalls counts OpenDevice invocations
	OpenCalls int

	// ExchangedRequests records a copy of the request bytes of every
	// Exchange call
	ExchangedRequests [][]byte

	// ClosedFDs records the handle of every CloseDevice call
	ClosedFDs []int
}

// OpenDevice returns the programmed handle and records the call.
func (m *MockPlatform) OpenDevice() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OpenCalls++
	return m.OpenFD
}

// Exchange records the request bytes and, on programmed success, writes
// ResponseBytes into the response region. The region is deliberately not
// resliced: trailing zero padding is left for the decoder, mirroring a driver
// that does not report the produced length.
func (m *MockPlatform) Exchange(fd int, msg *Message) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	req := make([]byte, len(msg.Request))
	copy(req, msg.Request)
	m.ExchangedRequests = append(m.ExchangedRequests, req)

	if m.ExchangeErrno != 0 {
		return m.ExchangeErrno
	}
	copy(msg.Response, m.ResponseBytes)
	return 0
}

// CloseDevice records the handle.
func (m *MockPlatform) CloseDevice(fd int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClosedFDs = append(m.ClosedFDs, fd)
}

// ExchangeCount returns the number of Exchange calls recorded.
func (m *MockPlatform) ExchangeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ExchangedRequests)
}
