// Copyright 2024 the gpiotab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package detector

import (
	"io"

	"github.com/linuxboot/gpiotab/pkg/pad"
	"github.com/linuxboot/gpiotab/pkg/platform"
	"github.com/linuxboot/gpiotab/pkg/validator"
	"github.com/xaionaro-go/bytesextra"
)

// inAnyVGPIOBand reports whether n falls in the union of the platform's
// three VGPIO size ranges.
func inAnyVGPIOBand(prof platform.Profile, n int) bool {
	return prof.VGPIOUSBBand.Contains(n) || prof.VGPIOBand.Contains(n) || prof.VGPIOPCIeBand.Contains(n)
}

// ScanVGPIO implements §4.C.2: no fixed signature exists for VGPIO tables,
// so the scan walks every 4-byte-aligned position, greedily extending a run
// of validator-accepted descriptors up to VGPIORunCeiling. A completed run
// is accepted as a candidate iff its length lies in one of the VGPIO size
// bands; runs outside every band, and runs that stretch to the ceiling
// without the validator ever rejecting, are discarded. On acceptance the
// scan advances past the run; on rejection it advances by 4 bytes.
func ScanVGPIO(data []byte, prof platform.Profile) []Table {
	var tables []Table
	rs := bytesextra.NewReadWriteSeeker(data)
	const step = 4

	for _, entrySize := range prof.VGPIOEntrySizes {
		if entrySize <= 0 {
			continue
		}
		pos := 0
		for pos+entrySize <= len(data) {
			entries := make([]pad.Descriptor, 0)
			hitCeiling := false
			for len(entries) < prof.VGPIORunCeiling {
				off := pos + len(entries)*entrySize
				if off+entrySize > len(data) {
					break
				}
				d, err := readDescriptor(rs, off, entrySize)
				if err != nil {
					break
				}
				ok, _ := validator.Validate(d)
				if !ok {
					break
				}
				entries = append(entries, d)
			}
			if len(entries) >= prof.VGPIORunCeiling {
				hitCeiling = true
			}

			if !hitCeiling && inAnyVGPIOBand(prof, len(entries)) {
				tables = append(tables, Table{
					Offset:    pos,
					EntrySize: entrySize,
					Entries:   entries,
					Origin:    OriginVGPIO,
				})
				pos += len(entries) * entrySize
				continue
			}
			pos += step
		}
	}
	return tables
}
