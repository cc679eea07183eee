// Copyright 2024 the gpiotab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package detector

import "github.com/linuxboot/gpiotab/pkg/platform"

// key identifies a candidate table by its location and stride, which is
// enough to recognize the same physical bytes found twice by the two scan
// strategies.
type key struct {
	offset    int
	entrySize int
}

// Detect runs both scan strategies over data and merges their candidates,
// per §4.C.3. Signature-scan candidates are collected first, so a table
// found by both strategies at the same (offset, entry_size) keeps its
// OriginSignature origin and is never duplicated. A VGPIO-scan candidate
// whose bytes overlap a signature-scan table is dropped, since it is the
// physical table re-read at another stride.
func Detect(data []byte, prof platform.Profile) []Table {
	seen := make(map[key]bool)
	var merged []Table

	for _, t := range ScanSignature(data, prof) {
		k := key{t.Offset, t.EntrySize}
		if seen[k] {
			continue
		}
		seen[k] = true
		merged = append(merged, t)
	}
	nSig := len(merged)
	for _, t := range ScanVGPIO(data, prof) {
		k := key{t.Offset, t.EntrySize}
		if seen[k] {
			continue
		}
		overlaps := false
		for _, s := range merged[:nSig] {
			if t.Offset < s.Offset+s.EntryCount()*s.EntrySize && s.Offset < t.Offset+t.EntryCount()*t.EntrySize {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}
		seen[k] = true
		merged = append(merged, t)
	}
	return merged
}
