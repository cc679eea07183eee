// Copyright 2024 the gpiotab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxboot/gpiotab/pkg/pad"
	"github.com/linuxboot/gpiotab/pkg/report"
)

func encodeDescriptor(mode pad.Mode, reset pad.ResetDomain, rxDisabled, txDisabled bool) []byte {
	var dw0 uint32
	dw0 |= uint32(mode) << 10
	dw0 |= uint32(reset) << 30
	if rxDisabled {
		dw0 |= 1 << 23
	}
	if txDisabled {
		dw0 |= 1 << 24
	}
	buf := make([]byte, pad.Size)
	binary.LittleEndian.PutUint32(buf[0:4], dw0)
	binary.LittleEndian.PutUint32(buf[4:8], 1<<13)
	return buf
}

func buildAlderLakeImage(t *testing.T) []byte {
	t.Helper()
	const descriptorSize = 0x1000
	region := make([]byte, 8*1024*1024)
	for i := range region {
		region[i] = 0xFF
	}
	signature := []byte{}
	signature = append(signature, encodeDescriptor(pad.ModeGPIO, pad.ResetPLTRST, false, false)...)
	for i := 0; i < 4; i++ {
		signature = append(signature, encodeDescriptor(pad.ModeNF1, pad.ResetPLTRST, true, true)...)
	}
	for i := 5; i < 253; i++ {
		signature = append(signature, encodeDescriptor(pad.ModeGPIO, pad.ResetPLTRST, false, false)...)
	}
	copy(region[0x10000:], signature)

	buf := make([]byte, descriptorSize+len(region))
	copy(buf[16:20], []byte{0x5A, 0xA5, 0xF0, 0x0F})
	const regionBase = 4
	binary.LittleEndian.PutUint32(buf[20:24], uint32(regionBase)<<12)
	regionTableStart := regionBase*0x10 + 4
	binary.LittleEndian.PutUint16(buf[regionTableStart:regionTableStart+2], 1)
	limitBlocks := uint16((descriptorSize + len(region)) / 0x1000)
	binary.LittleEndian.PutUint16(buf[regionTableStart+2:regionTableStart+4], limitBlocks-1)
	copy(buf[descriptorSize:], region)
	return buf
}

func TestRunMissingRequiredFlagsReturnsError(t *testing.T) {
	err := run(&bytes.Buffer{}, []string{})
	assert.ErrorIs(t, err, errMissingRequiredFlag)
}

func TestRunUnsupportedPlatform(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "image.bin")
	require.NoError(t, os.WriteFile(input, []byte{0}, 0o644))

	err := run(&bytes.Buffer{}, []string{"--platform", "nonesuch", "--input", input})
	require.Error(t, err)
}

func TestRunWritesJSONReportForPhysicalTable(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "image.bin")
	require.NoError(t, os.WriteFile(input, buildAlderLakeImage(t), 0o644))
	jsonOut := filepath.Join(dir, "report.json")

	err := run(&bytes.Buffer{}, []string{
		"--platform", "alderlake",
		"--input", input,
		"--json", jsonOut,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(jsonOut)
	require.NoError(t, err)
	var doc report.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Tables, 1)
	assert.Equal(t, "PHYSICAL", doc.Tables[0].Classification)
	assert.Equal(t, 253, doc.Tables[0].EntryCount)
}

func TestRunVerbosePrintsSummaryTable(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "image.bin")
	require.NoError(t, os.WriteFile(input, buildAlderLakeImage(t), 0o644))

	var stdout bytes.Buffer
	err := run(&stdout, []string{
		"--platform", "alderlake",
		"--input", input,
		"--verbose",
	})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "classification")
	assert.Contains(t, stdout.String(), "PHYSICAL")
}
