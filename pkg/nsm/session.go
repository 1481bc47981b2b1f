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

import (
	"sync"
	"time"

	"github.com/jeremyhahn/go-nsm/pkg/metrics"
	"github.com/jeremyhahn/go-nsm/pkg/nsm/request"
	"github.com/jeremyhahn/go-nsm/pkg/nsm/response"
)

// Session owns one open device handle across its lifetime. Exchanges on a
// Session are synchronous and blocking; a Session must not be shared across
// goroutines without external mutual exclusion, with the exception of the
// Read entropy path which carries its own lock.
type Session struct {
	platform Platform
	fd       int

	mu      sync.Mutex
	entropy []byte
	closed  bool
}

// OpenSession opens the device through p and returns a Session bound to the
// new handle. ErrDeviceUnavailable is returned when the platform reports the
// open sentinel.
func OpenSession(p Platform) (*Session, error) {
	fd := p.OpenDevice()
	if fd < 0 {
		return nil, ErrDeviceUnavailable
	}
	return &Session{platform: p, fd: fd}, nil
}

// OpenDefaultSession opens a Session against the production platform and the
// default device path.
func OpenDefaultSession() (*Session, error) {
	return OpenSession(defaultPlatform())
}

// Send issues one request and returns the device's typed response. The
// response itself may carry an ErrorCode; Send only fails with a Go error
// when the session is closed.
func (s *Session) Send(req request.Request) (response.Response, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return response.Response{}, ErrSessionClosed
	}

	started := time.Now()
	res := ProcessRequest(s.platform, s.fd, req)

	status := metrics.StatusSuccess
	if res.Error != "" {
		status = metrics.StatusError
	}
	metrics.RecordExchange(req.Name(), status, time.Since(started).Seconds())

	return res, nil
}

// Read fills p with entropy drawn from the device, satisfying io.Reader.
// Unused entropy from previous GetRandom replies is buffered for the next
// call.
func (s *Session) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrSessionClosed
	}

	for len(s.entropy) < len(p) {
		res := ProcessRequest(s.platform, s.fd, request.GetRandom{})
		switch {
		case res.Error != "":
			return 0, ErrInvalidResponse
		case res.GetRandom == nil || len(res.GetRandom.Random) == 0:
			return 0, ErrInvalidResponse
		}
		s.entropy = append(s.entropy, res.GetRandom.Random...)
	}

	n := copy(p, s.entropy)
	s.entropy = s.entropy[n:]
	return n, nil
}

// Close releases the device handle. Close failures are observed only through
// logging; the returned error is always nil and exists to satisfy io.Closer.
// A closed Session rejects further exchanges.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.entropy = nil
	s.platform.CloseDevice(s.fd)
	s.fd = -1
	return nil
}
