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
	"io"
	"os"

	"github.com/spf13/cobra"
)

// randomCmd draws entropy from the module's hardware source
var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Draw entropy from the NSM hardware source",
	Run: func(cmd *cobra.Command, args []string) {
		printer := NewPrinter(flagOutputFormat, os.Stdout)

		count, _ := cmd.Flags().GetInt("bytes")
		if count <= 0 || count > 1<<20 {
			handleError(fmt.Errorf("byte count must be between 1 and %d", 1<<20))
			return
		}

		session, err := openSession()
		if err != nil {
			handleError(err)
			return
		}
		defer func() { _ = session.Close() }()

		printVerbose("Reading %d bytes of entropy", count)
		buf := make([]byte, count)
		if _, err := io.ReadFull(session, buf); err != nil {
			handleError(err)
			return
		}

		if err := printer.PrintRandom(buf); err != nil {
			handleError(err)
		}
	},
}

func init() {
	randomCmd.Flags().IntP("bytes", "n", 32, "number of entropy bytes to draw")
}
