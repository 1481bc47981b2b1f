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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-nsm/pkg/nsm/request"
)

// describeCmd queries the module for its version and PCR configuration
var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Describe the NSM device",
	Long:  `Query the Nitro Secure Module for its version, module ID, digest algorithm and PCR configuration`,
	Run: func(cmd *cobra.Command, args []string) {
		printer := NewPrinter(flagOutputFormat, os.Stdout)

		session, err := openSession()
		if err != nil {
			handleError(err)
			return
		}
		defer func() { _ = session.Close() }()

		printVerbose("Sending DescribeNSM")
		res, err := session.Send(request.DescribeNSM{})
		if err != nil {
			handleError(err)
			return
		}
		if res.Error != "" {
			handleError(fmt.Errorf("device error: %s", res.Error))
			return
		}
		if res.DescribeNSM == nil {
			handleError(fmt.Errorf("unexpected device reply"))
			return
		}

		if err := printer.PrintDescribe(res.DescribeNSM); err != nil {
			handleError(err)
		}
	},
}
