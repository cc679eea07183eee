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

// readDescriptor seeks to offset in rs and decodes one pad.Descriptor from
// the entrySize-byte slot there. Only the first pad.Size bytes of a slot
// carry the DW0/DW1 configuration words; VGPIO slots (12 or 16 bytes) carry
// additional per-entry metadata the pad table format does not expose.
func readDescriptor(rs io.ReadSeeker, offset, entrySize int) (pad.Descriptor, error) {
	if _, err := rs.Seek(int64(offset), io.SeekStart); err != nil {
		return pad.Descriptor{}, err
	}
	buf := make([]byte, pad.Size)
	if _, err := io.ReadFull(rs, buf); err != nil {
		return pad.Descriptor{}, err
	}
	return pad.DecodeAt(buf, 0)
}

// ScanSignature implements §4.C.1: for each candidate physical entry size,
// walk every entry_size-aligned offset looking for the platform's fixed
// (mode, reset) signature pattern. Each match anchors a candidate table,
// which is then greedily extended one descriptor at a time for as long as
// the Pad Validator accepts the next entry, up to MaxPhysicalEntries.
func ScanSignature(data []byte, prof platform.Profile) []Table {
	var tables []Table
	rs := bytesextra.NewReadWriteSeeker(data)
	n := len(prof.Signature)
	if n == 0 {
		return tables
	}

	for _, entrySize := range prof.EntrySizes {
		if entrySize <= 0 {
			continue
		}
		for offset := 0; offset+n*entrySize <= len(data); offset += entrySize {
			entries := make([]pad.Descriptor, 0, n)
			matched := true
			for i := 0; i < n; i++ {
				d, err := readDescriptor(rs, offset+i*entrySize, entrySize)
				if err != nil {
					matched = false
					break
				}
				sig := prof.Signature[i]
				if sig.Required && (d.Mode != sig.Mode || d.ResetDomain != sig.Reset) {
					matched = false
					break
				}
				if ok, _ := validator.Validate(d); !ok {
					matched = false
					break
				}
				entries = append(entries, d)
			}
			if !matched {
				continue
			}

			// Extend the anchor past the fixed signature prefix for as long
			// as the validator keeps accepting.
			idx := n
			for idx < prof.MaxPhysicalEntries {
				next := offset + idx*entrySize
				if next+entrySize > len(data) {
					break
				}
				d, err := readDescriptor(rs, next, entrySize)
				if err != nil {
					break
				}
				if ok, _ := validator.Validate(d); !ok {
					break
				}
				entries = append(entries, d)
				idx++
			}

			tables = append(tables, Table{
				Offset:    offset,
				EntrySize: entrySize,
				Entries:   entries,
				Origin:    OriginSignature,
			})
		}
	}
	return tables
}
