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

	"github.com/jeremyhahn/go-nsm/pkg/nsm/request"
	"github.com/jeremyhahn/go-nsm/pkg/nsm/response"
)

// pcrCmd groups the platform configuration register operations
var pcrCmd = &cobra.Command{
	Use:   "pcr",
	Short: "Manage platform configuration registers",
	Long:  `Describe, extend and lock the module's platform configuration registers`,
}

// pcrDescribeCmd reads one PCR
var pcrDescribeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Describe a platform configuration register",
	Run: func(cmd *cobra.Command, args []string) {
		index, _ := cmd.Flags().GetUint16("index")

		res, err := sendPCRRequest(request.DescribePCR{Index: index})
		if err != nil {
			handleError(err)
			return
		}
		if res.DescribePCR == nil {
			handleError(fmt.Errorf("unexpected device reply"))
			return
		}

		printer := NewPrinter(flagOutputFormat, os.Stdout)
		if err := printer.PrintPCR(index, res.DescribePCR.Lock, res.DescribePCR.Data); err != nil {
			handleError(err)
		}
	},
}

// pcrExtendCmd extends one PCR with caller data
var pcrExtendCmd = &cobra.Command{
	Use:   "extend",
	Short: "Extend a platform configuration register",
	Run: func(cmd *cobra.Command, args []string) {
		index, _ := cmd.Flags().GetUint16("index")
		dataHex, _ := cmd.Flags().GetString("data")

		data, err := hex.DecodeString(dataHex)
		if err != nil {
			handleError(fmt.Errorf("invalid data: %w", err))
			return
		}
		if len(data) == 0 {
			handleError(fmt.Errorf("extend requires --data"))
			return
		}

		res, err := sendPCRRequest(request.ExtendPCR{Index: index, Data: data})
		if err != nil {
			handleError(err)
			return
		}
		if res.ExtendPCR == nil {
			handleError(fmt.Errorf("unexpected device reply"))
			return
		}

		printer := NewPrinter(flagOutputFormat, os.Stdout)
		if err := printer.PrintPCR(index, false, res.ExtendPCR.Data); err != nil {
			handleError(err)
		}
	},
}

// pcrLockCmd locks one PCR against further extension
var pcrLockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Lock a platform configuration register",
	Run: func(cmd *cobra.Command, args []string) {
		index, _ := cmd.Flags().GetUint16("index")

		res, err := sendPCRRequest(request.LockPCR{Index: index})
		if err != nil {
			handleError(err)
			return
		}
		if res.LockPCR == nil {
			handleError(fmt.Errorf("unexpected device reply"))
			return
		}

		printer := NewPrinter(flagOutputFormat, os.Stdout)
		_ = printer.PrintMessage(fmt.Sprintf("PCR %d locked", index))
	},
}

// pcrLockRangeCmd locks every PCR below an index
var pcrLockRangeCmd = &cobra.Command{
	Use:   "lock-range",
	Short: "Lock all platform configuration registers below an index",
	Run: func(cmd *cobra.Command, args []string) {
		bound, _ := cmd.Flags().GetUint16("range")

		res, err := sendPCRRequest(request.LockPCRs{Range: bound})
		if err != nil {
			handleError(err)
			return
		}
		if res.LockPCRs == nil {
			handleError(fmt.Errorf("unexpected device reply"))
			return
		}

		printer := NewPrinter(flagOutputFormat, os.Stdout)
		_ = printer.PrintMessage(fmt.Sprintf("PCRs 0..%d locked", bound))
	},
}

// sendPCRRequest issues one PCR command over a fresh session.
func sendPCRRequest(req request.Request) (response.Response, error) {
	session, err := openSession()
	if err != nil {
		return response.Response{}, err
	}
	defer func() { _ = session.Close() }()

	printVerbose("Sending %s", req.Name())
	res, err := session.Send(req)
	if err != nil {
		return response.Response{}, err
	}
	if res.Error != "" {
		return response.Response{}, fmt.Errorf("device error: %s", res.Error)
	}
	return res, nil
}

func init() {
	pcrCmd.AddCommand(pcrDescribeCmd)
	pcrCmd.AddCommand(pcrExtendCmd)
	pcrCmd.AddCommand(pcrLockCmd)
	pcrCmd.AddCommand(pcrLockRangeCmd)

	pcrDescribeCmd.Flags().Uint16("index", 0, "PCR index")
	pcrExtendCmd.Flags().Uint16("index", 0, "PCR index")
	pcrExtendCmd.Flags().String("data", "", "hex-encoded data to extend the PCR with")
	pcrLockCmd.Flags().Uint16("index", 0, "PCR index")
	pcrLockRangeCmd.Flags().Uint16("range", 0, "exclusive upper bound of PCR indexes to lock")
}
