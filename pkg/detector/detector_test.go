// Copyright 2024 the gpiotab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package detector

import (
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/linuxboot/gpiotab/pkg/pad"
	"github.com/linuxboot/gpiotab/pkg/platform"
)

// encodeDescriptor packs one pad.Size-byte descriptor using the same bit
// layout as pkg/pad's DecodeDW0/DecodeDW1, so tests can build fixtures
// without depending on pkg/pad's unexported constants.
func encodeDescriptor(mode pad.Mode, reset pad.ResetDomain, rxDisabled, txDisabled bool, route pad.InterruptRoute, trig pad.Trigger, term pad.Termination) []byte {
	var dw0 uint32
	dw0 |= uint32(trig) << 8
	dw0 |= uint32(mode) << 10
	dw0 |= uint32(route) << 17
	if rxDisabled {
		dw0 |= 1 << 23
	}
	if txDisabled {
		dw0 |= 1 << 24
	}
	dw0 |= uint32(reset) << 30

	dw1 := uint32(term) << 10

	buf := make([]byte, pad.Size)
	binary.LittleEndian.PutUint32(buf[0:4], dw0)
	binary.LittleEndian.PutUint32(buf[4:8], dw1)
	return buf
}

// validGPIO returns an accepted GPIO-mode descriptor's bytes: input only
// (tx buffer disabled), termination disabled, no interrupt route.
func validGPIO() []byte {
	return encodeDescriptor(pad.ModeGPIO, pad.ResetPLTRST, false, true, 0, pad.TriggerLevel, 0)
}

// validNF1 returns an accepted NF1-mode descriptor's bytes: both buffers
// disabled, no stray latch bits.
func validNF1() []byte {
	return encodeDescriptor(pad.ModeNF1, pad.ResetPLTRST, true, true, 0, pad.TriggerLevel, 0)
}

// fill returns an n-byte buffer of trivial (erased-flash) bytes.
func fill(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = 0xFF
	}
	return b
}

// place writes entries (each a descriptor's worth of bytes, zero-padded to
// entrySize) into buf starting at offset.
func place(buf []byte, offset, entrySize int, entries [][]byte) {
	for i, e := range entries {
		slot := buf[offset+i*entrySize : offset+(i+1)*entrySize]
		copy(slot, e)
	}
}

func TestScanSignatureFindsAnchorAndExtends(t *testing.T) {
	buf := fill(4096)
	entries := append([][]byte{validGPIO(), validNF1(), validNF1(), validNF1(), validNF1()})
	for i := 0; i < 10; i++ {
		entries = append(entries, validGPIO())
	}
	const offset = 104
	place(buf, offset, 8, entries)

	tables := ScanSignature(buf, platform.AlderLake)
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(tables))
	}
	tbl := tables[0]
	if tbl.Offset != offset {
		t.Errorf("Offset = %d, want %d", tbl.Offset, offset)
	}
	if tbl.EntrySize != 8 {
		t.Errorf("EntrySize = %d, want 8", tbl.EntrySize)
	}
	if tbl.EntryCount() != len(entries) {
		t.Errorf("EntryCount = %d, want %d", tbl.EntryCount(), len(entries))
	}
	if tbl.Origin != OriginSignature {
		t.Errorf("Origin = %v, want OriginSignature", tbl.Origin)
	}
}

func TestScanSignatureStopsAtFirstInvalidEntry(t *testing.T) {
	buf := fill(4096)
	entries := [][]byte{validGPIO(), validNF1(), validNF1(), validNF1(), validNF1(), validGPIO(), validGPIO()}
	const offset = 200
	place(buf, offset, 8, entries)
	// The byte right after the run is already 0xFF (trivial), so extension
	// should stop exactly at len(entries).

	tables := ScanSignature(buf, platform.AlderLake)
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(tables))
	}
	if tables[0].EntryCount() != len(entries) {
		t.Errorf("EntryCount = %d, want %d", tables[0].EntryCount(), len(entries))
	}
}

func TestScanSignatureFalsePositiveRateOnRandomData(t *testing.T) {
	// Property P5: the signature scanner's false-positive rate on uniformly
	// random data is effectively zero, since it requires five consecutive
	// exact (mode, reset) matches.
	r := rand.New(rand.NewSource(2))
	buf := make([]byte, 8*1024*1024)
	r.Read(buf)

	tables := ScanSignature(buf, platform.AlderLake)
	if len(tables) > 0 {
		t.Errorf("ScanSignature found %d spurious anchors in random data, want 0", len(tables))
	}
}

func TestScanVGPIORunAccepted(t *testing.T) {
	buf := fill(8192)
	const entrySize = 12
	const offset = 1000
	const runLen = 37 // within AlderLake.VGPIOBand [35,40]
	entries := make([][]byte, runLen)
	for i := range entries {
		entries[i] = validGPIO()
	}
	place(buf, offset, entrySize, entries)

	tables := ScanVGPIO(buf, platform.AlderLake)
	var found *Table
	for i := range tables {
		if tables[i].Offset == offset && tables[i].EntrySize == entrySize {
			found = &tables[i]
		}
	}
	if found == nil {
		t.Fatalf("no VGPIO table found at offset %d, got %d tables total", offset, len(tables))
	}
	if found.EntryCount() != runLen {
		t.Errorf("EntryCount = %d, want %d", found.EntryCount(), runLen)
	}
	if found.Origin != OriginVGPIO {
		t.Errorf("Origin = %v, want OriginVGPIO", found.Origin)
	}
}

func TestScanVGPIORunOutsideBandDiscarded(t *testing.T) {
	buf := fill(8192)
	const entrySize = 12
	const offset = 1000
	const runLen = 20 // not in any of AlderLake's VGPIO bands (10-15, 35-40, 75-85)
	entries := make([][]byte, runLen)
	for i := range entries {
		entries[i] = validGPIO()
	}
	place(buf, offset, entrySize, entries)

	for _, tbl := range ScanVGPIO(buf, platform.AlderLake) {
		if tbl.Offset == offset {
			t.Fatalf("expected run of length %d to be discarded, but got a table with %d entries", runLen, tbl.EntryCount())
		}
	}
}

func TestScanVGPIORunAtCeilingDiscarded(t *testing.T) {
	buf := fill(8192)
	const entrySize = 12
	const offset = 1000
	const runLen = 150 // stretches past AlderLake.VGPIORunCeiling (100)
	entries := make([][]byte, runLen)
	for i := range entries {
		entries[i] = validGPIO()
	}
	place(buf, offset, entrySize, entries)

	for _, tbl := range ScanVGPIO(buf, platform.AlderLake) {
		if tbl.Offset == offset {
			t.Fatalf("expected run stretching to the ceiling to be discarded, got table with %d entries", tbl.EntryCount())
		}
	}
}

func TestDetectMergesBothStrategiesWithoutDuplicates(t *testing.T) {
	buf := fill(16384)

	sigEntries := [][]byte{validGPIO(), validNF1(), validNF1(), validNF1(), validNF1()}
	for i := 0; i < 10; i++ {
		sigEntries = append(sigEntries, validGPIO())
	}
	place(buf, 104, 8, sigEntries)

	vgpioEntries := make([][]byte, 37)
	for i := range vgpioEntries {
		vgpioEntries[i] = validGPIO()
	}
	place(buf, 8000, 12, vgpioEntries)

	tables := Detect(buf, platform.AlderLake)
	if len(tables) != 2 {
		t.Fatalf("got %d tables, want 2", len(tables))
	}

	seen := map[key]Origin{}
	for _, tbl := range tables {
		k := key{tbl.Offset, tbl.EntrySize}
		if _, dup := seen[k]; dup {
			t.Fatalf("duplicate table at offset=%d entrySize=%d", tbl.Offset, tbl.EntrySize)
		}
		seen[k] = tbl.Origin
	}
	if seen[key{104, 8}] != OriginSignature {
		t.Errorf("table at offset 104 should have OriginSignature")
	}
	if seen[key{8000, 12}] != OriginVGPIO {
		t.Errorf("table at offset 8000 should have OriginVGPIO")
	}
}
