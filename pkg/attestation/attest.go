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

package attestation

import (
	"errors"
	"fmt"

	"github.com/jeremyhahn/go-nsm/pkg/nsm/request"
	"github.com/jeremyhahn/go-nsm/pkg/nsm/response"
)

// Requester issues NSM commands. *nsm.Session satisfies it.
type Requester interface {
	Send(req request.Request) (response.Response, error)
}

// Options are the optional values bound into a requested document.
type Options struct {
	// Nonce is a caller challenge proving freshness
	Nonce []byte

	// UserData is opaque caller data reflected in the document
	UserData []byte

	// PublicKey is a DER-encoded public key reflected in the document
	PublicKey []byte
}

var errMissingDocument = errors.New("attestation: device reply carried no document")

// RequestDocument asks the device for a signed attestation document and
// returns the raw COSE_Sign1 bytes.
func RequestDocument(r Requester, opts Options) ([]byte, error) {
	res, err := r.Send(request.Attestation{
		Nonce:     opts.Nonce,
		UserData:  opts.UserData,
		PublicKey: opts.PublicKey,
	})
	if err != nil {
		return nil, err
	}
	if res.Error != "" {
		return nil, fmt.Errorf("attestation: device error: %s", res.Error)
	}
	if res.Attestation == nil || len(res.Attestation.Document) == 0 {
		return nil, errMissingDocument
	}
	return res.Attestation.Document, nil
}
