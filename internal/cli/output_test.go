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
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-nsm/pkg/nsm/response"
)

func TestPrintDescribeText(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter("text", &buf)

	err := printer.PrintDescribe(&response.DescribeNSM{
		VersionMajor: 1,
		VersionMinor: 2,
		VersionPatch: 3,
		ModuleID:     "i-1234-enc5678",
		MaxPCRs:      32,
		LockedPCRs:   []uint16{0, 1},
		Digest:       "SHA384",
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "i-1234-enc5678")
	assert.Contains(t, out, "1.2.3")
	assert.Contains(t, out, "SHA384")
}

func TestPrintDescribeJSON(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter("json", &buf)

	err := printer.PrintDescribe(&response.DescribeNSM{ModuleID: "i-abc", Digest: "SHA384"})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "i-abc", decoded["module_id"])
	assert.Equal(t, "SHA384", decoded["digest"])
}

func TestPrintPCR(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter("text", &buf)

	err := printer.PrintPCR(3, true, []byte{0xAB, 0xCD})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "PCR 3")
	assert.Contains(t, buf.String(), "abcd")
}

func TestPrintRandomJSON(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter("json", &buf)

	require.NoError(t, printer.PrintRandom([]byte{0xDE, 0xAD}))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "dead", decoded["random"])
}

func TestPrintAttestationText(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter("text", &buf)

	require.NoError(t, printer.PrintAttestation([]byte("doc")))
	assert.Equal(t, "ZG9j\n", buf.String())
}

func TestPrintErrorFormats(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter("text", &buf)
	require.NoError(t, printer.PrintError(errors.New("boom")))
	assert.Contains(t, buf.String(), "Error: boom")

	buf.Reset()
	printer = NewPrinter("json", &buf)
	require.NoError(t, printer.PrintError(errors.New("boom")))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "boom", decoded["error"])
}

func TestPrinterUnknownFormat(t *testing.T) {
	printer := NewPrinter("xml", &bytes.Buffer{})
	assert.Error(t, printer.PrintDescribe(&response.DescribeNSM{}))
	assert.Error(t, printer.PrintRandom(nil))
	assert.Error(t, printer.PrintMessage("hi"))
}
