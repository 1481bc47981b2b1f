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

package cli

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-nsm/pkg/attestation"
)

// attestCmd requests a signed attestation document
var attestCmd = &cobra.Command{
	Use:   "attest",
	Short: "Request a signed attestation document",
	Long: `Request a COSE_Sign1 attestation document from the Nitro Secure Module.
The optional nonce, user data and public key are reflected in the signed document.`,
	Run: func(cmd *cobra.Command, args []string) {
		printer := NewPrinter(flagOutputFormat, os.Stdout)

		nonceHex, _ := cmd.Flags().GetString("nonce")
		userDataFile, _ := cmd.Flags().GetString("user-data")
		publicKeyFile, _ := cmd.Flags().GetString("public-key")
		outFile, _ := cmd.Flags().GetString("out")

		var opts attestation.Options
		if nonceHex != "" {
			nonce, err := hex.DecodeString(nonceHex)
			if err != nil {
				handleError(fmt.Errorf("invalid nonce: %w", err))
				return
			}
			opts.Nonce = nonce
		}
		if userDataFile != "" {
			data, err := os.ReadFile(userDataFile)
			if err != nil {
				handleError(fmt.Errorf("reading user data: %w", err))
				return
			}
			opts.UserData = data
		}
		if publicKeyFile != "" {
			data, err := os.ReadFile(publicKeyFile)
			if err != nil {
				handleError(fmt.Errorf("reading public key: %w", err))
				return
			}
			opts.PublicKey = data
		}

		session, err := openSession()
		if err != nil {
			handleError(err)
			return
		}
		defer func() { _ = session.Close() }()

		printVerbose("Requesting attestation document")
		document, err := attestation.RequestDocument(session, opts)
		if err != nil {
			handleError(err)
			return
		}

		if outFile != "" {
			if err := os.WriteFile(outFile, document, 0o600); err != nil {
				handleError(fmt.Errorf("writing %s: %w", outFile, err))
				return
			}
			_ = printer.PrintMessage(fmt.Sprintf("attestation document written to %s", outFile))
			return
		}

		if err := printer.PrintAttestation(document); err != nil {
			handleError(err)
		}
	},
}

func init() {
	attestCmd.Flags().String("nonce", "", "hex-encoded nonce bound into the document")
	attestCmd.Flags().String("user-data", "", "file with opaque user data bound into the document")
	attestCmd.Flags().String("public-key", "", "file with a DER-encoded public key bound into the document")
	attestCmd.Flags().String("out", "", "write the raw document to a file instead of stdout")
}
