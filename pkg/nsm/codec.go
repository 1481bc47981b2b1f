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
	"github.com/fxamacker/cbor/v2"

	"github.com/jeremyhahn/go-nsm/pkg/nsm/request"
	"github.com/jeremyhahn/go-nsm/pkg/nsm/response"
)

// Canonical sorting keeps encoding deterministic: logically identical
// requests always produce identical bytes.
var encMode = func() cbor.EncMode {
	em, err := cbor.EncOptions{Sort: cbor.SortCanonical}.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// EncodeRequest serializes a request into its tagged CBOR wire form.
func EncodeRequest(req request.Request) ([]byte, error) {
	return encMode.Marshal(req.Encoded())
}

// DecodeResponse parses response bytes with the fail-safe contract the
// exchange path relies on: any malformed, truncated or unrecognized input
// collapses to Error(InternalError) rather than surfacing a parse failure.
func DecodeResponse(data []byte) response.Response {
	res, err := response.Decode(data)
	if err != nil {
		return response.Response{Error: response.ErrInternalError}
	}
	return res
}
