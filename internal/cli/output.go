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
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jeremyhahn/go-nsm/pkg/nsm/response"
)

// OutputFormat defines the output format type
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
)

// Printer handles formatted output
type Printer struct {
	format OutputFormat
	writer io.Writer
}

// NewPrinter creates a new Printer
func NewPrinter(format string, writer io.Writer) *Printer {
	return &Printer{
		format: OutputFormat(format),
		writer: writer,
	}
}

// PrintDescribe prints the module description
func (p *Printer) PrintDescribe(info *response.DescribeNSM) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"version":     fmt.Sprintf("%d.%d.%d", info.VersionMajor, info.VersionMinor, info.VersionPatch),
			"module_id":   info.ModuleID,
			"max_pcrs":    info.MaxPCRs,
			"locked_pcrs": info.LockedPCRs,
			"digest":      info.Digest,
		})
	case OutputFormatText:
		fmt.Fprintf(p.writer, "Module ID:   %s\n", info.ModuleID)
		fmt.Fprintf(p.writer, "Version:     %d.%d.%d\n", info.VersionMajor, info.VersionMinor, info.VersionPatch)
		fmt.Fprintf(p.writer, "Digest:      %s\n", info.Digest)
		fmt.Fprintf(p.writer, "Max PCRs:    %d\n", info.MaxPCRs)
		fmt.Fprintf(p.writer, "Locked PCRs: %v\n", info.LockedPCRs)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintPCR prints one PCR's state
func (p *Printer) PrintPCR(index uint16, lock bool, data []byte) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"index": index,
			"lock":  lock,
			"data":  hex.EncodeToString(data),
		})
	case OutputFormatText:
		fmt.Fprintf(p.writer, "PCR %d:\n", index)
		fmt.Fprintf(p.writer, "  Locked: %t\n", lock)
		fmt.Fprintf(p.writer, "  Data:   %s\n", hex.EncodeToString(data))
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintAttestation prints a raw COSE_Sign1 attestation document
func (p *Printer) PrintAttestation(document []byte) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"document": base64.StdEncoding.EncodeToString(document),
		})
	case OutputFormatText:
		fmt.Fprintln(p.writer, base64.StdEncoding.EncodeToString(document))
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintRandom prints entropy drawn from the device
func (p *Printer) PrintRandom(data []byte) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"random": hex.EncodeToString(data),
		})
	case OutputFormatText:
		fmt.Fprintln(p.writer, hex.EncodeToString(data))
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintMessage prints a plain status message
func (p *Printer) PrintMessage(msg string) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"message": msg,
		})
	case OutputFormatText:
		fmt.Fprintln(p.writer, msg)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintError prints an error
func (p *Printer) PrintError(err error) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"error": err.Error(),
		})
	default:
		fmt.Fprintf(p.writer, "Error: %v\n", err)
		return nil
	}
}

// printJSON prints a value as indented JSON
func (p *Printer) printJSON(v interface{}) error {
	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
