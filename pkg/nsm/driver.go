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
	"github.com/jeremyhahn/go-nsm/pkg/nsm/request"
	"github.com/jeremyhahn/go-nsm/pkg/nsm/response"
)

// errnoMessageTooLong is EMSGSIZE on Linux, the code the NSM driver uses to
// reject an oversized request after the fact. Other targets must remap it.
const errnoMessageTooLong = 90

// ProcessRequest encodes req, exchanges it with the device behind fd and
// returns the decoded response. The outcome is always a typed response:
// requests whose encoding exceeds MaxRequestSize short-circuit to
// Error(InputTooLarge) without touching the device, driver failure code 90
// maps to Error(InputTooLarge), and every other failure collapses to
// Error(InternalError). No retries are attempted and no state is retained
// between calls.
func ProcessRequest(p Platform, fd int, req request.Request) response.Response {
	encoded, err := EncodeRequest(req)
	if err != nil {
		return response.Response{Error: response.ErrInternalError}
	}
	if len(encoded) > MaxRequestSize {
		return response.Response{Error: response.ErrInputTooLarge}
	}

	msg := Message{
		Request:  encoded,
		Response: make([]byte, MaxResponseSize),
	}

	switch errno := p.Exchange(fd, &msg); errno {
	case 0:
		return DecodeResponse(msg.Response)
	case errnoMessageTooLong:
		return response.Response{Error: response.ErrInputTooLarge}
	default:
		return response.Response{Error: response.ErrInternalError}
	}
}

// Init opens the default NSM device and returns its handle, or -1 when the
// device cannot be opened. Callers must test the sentinel; open failure is
// never returned as an error.
func Init() int {
	return defaultPlatform().OpenDevice()
}

// Exit releases a handle obtained from Init. Close failures are logged only;
// the handle must not be used for further exchanges afterwards.
func Exit(fd int) {
	defaultPlatform().CloseDevice(fd)
}
