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
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-nsm/pkg/nsm/request"
	"github.com/jeremyhahn/go-nsm/pkg/nsm/response"
)

// encodedResponse programs a mock success outcome from a typed response.
func encodedResponse(t *testing.T, res response.Response) []byte {
	t.Helper()
	data, err := res.Encode()
	require.NoError(t, err)
	return data
}

func TestProcessRequestTooLarge(t *testing.T) {
	mock := &MockPlatform{OpenFD: 3}

	// Encodes past MaxRequestSize: the exchange must never happen
	req := request.ExtendPCR{Index: 0, Data: make([]byte, MaxRequestSize+1)}
	res := ProcessRequest(mock, 3, req)

	assert.Equal(t, response.ErrInputTooLarge, res.Error)
	assert.Equal(t, 0, mock.ExchangeCount())
}

func TestProcessRequestSuccess(t *testing.T) {
	want := response.Response{DescribeNSM: &response.DescribeNSM{
		VersionMajor: 1,
		ModuleID:     "i-1234-enc5678",
		MaxPCRs:      32,
		LockedPCRs:   []uint16{0},
		Digest:       "SHA384",
	}}
	mock := &MockPlatform{ResponseBytes: encodedResponse(t, want)}

	res := ProcessRequest(mock, 3, request.DescribeNSM{})

	assert.Equal(t, want, res)
	require.Equal(t, 1, mock.ExchangeCount())

	// The exchanged bytes are the deterministic encoding of the request
	encoded, err := EncodeRequest(request.DescribeNSM{})
	require.NoError(t, err)
	assert.Equal(t, encoded, mock.ExchangedRequests[0])
	assert.LessOrEqual(t, len(encoded), MaxRequestSize)
}

func TestProcessRequestPaddedResponse(t *testing.T) {
	// The mock leaves everything past the written bytes zero, mirroring a
	// driver that does not report the produced length.
	want := response.Response{GetRandom: &response.GetRandom{Random: []byte{9, 8, 7, 6}}}
	mock := &MockPlatform{ResponseBytes: encodedResponse(t, want)}

	res := ProcessRequest(mock, 3, request.GetRandom{})

	assert.Equal(t, want, res)
}

func TestProcessRequestErrnoMapping(t *testing.T) {
	tests := []struct {
		name  string
		errno int
		want  response.ErrorCode
	}{
		{name: "EMSGSIZE maps to InputTooLarge", errno: 90, want: response.ErrInputTooLarge},
		{name: "EIO collapses to InternalError", errno: 5, want: response.ErrInternalError},
		{name: "ENOMEM collapses to InternalError", errno: 12, want: response.ErrInternalError},
		{name: "EINVAL collapses to InternalError", errno: 22, want: response.ErrInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockPlatform{ExchangeErrno: tt.errno}
			res := ProcessRequest(mock, 3, request.DescribeNSM{})
			assert.Equal(t, tt.want, res.Error)
			assert.Equal(t, 1, mock.ExchangeCount())
		})
	}
}

func TestProcessRequestMalformedResponse(t *testing.T) {
	mock := &MockPlatform{ResponseBytes: []byte{0xFF, 0xFF, 0xFF}}

	res := ProcessRequest(mock, 3, request.DescribeNSM{})

	assert.Equal(t, response.ErrInternalError, res.Error)
}

func TestExitInvalidHandle(t *testing.T) {
	// Close failures surface only through logging; an invalid handle never
	// reaches the caller as an error.
	Exit(-1)
}

func TestEncodeRequestDeterministic(t *testing.T) {
	req := request.Attestation{
		Nonce:    []byte("challenge"),
		UserData: []byte("user"),
	}

	first, err := EncodeRequest(req)
	require.NoError(t, err)
	second, err := EncodeRequest(req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDecodeResponseFailSafe(t *testing.T) {
	valid := encodedResponse(t, response.Response{LockPCR: &response.LockPCR{}})

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "all zeros", data: make([]byte, MaxResponseSize)},
		{name: "truncated", data: valid[:3]},
		{name: "not a response", data: []byte{0x01, 0x02, 0x03}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := DecodeResponse(tt.data)
			assert.Equal(t, response.ErrInternalError, res.Error)
		})
	}

	// Random byte sequences must collapse to InternalError, never panic
	for i := 0; i < 256; i++ {
		buf := make([]byte, 128)
		_, err := rand.Read(buf)
		require.NoError(t, err)
		res := DecodeResponse(buf)
		if res.Error == "" {
			// Astronomically unlikely to be a valid response by chance
			t.Fatalf("random input decoded without error: %x", buf)
		}
	}
}
