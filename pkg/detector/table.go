// Copyright 2024 the gpiotab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package detector implements the two Table Detector strategies: an
// exact-signature scan for the physical pad table, and a targeted
// heuristic scan for VGPIO tables. Candidates from both are merged and
// deduplicated before being handed to the Calibrator.
package detector

import "github.com/linuxboot/gpiotab/pkg/pad"

// Origin records which strategy produced a candidate table. The Calibrator
// uses this to classify a signature-scan anchor as PHYSICAL regardless of
// its entry count (spec.md §4.E: "the signature-scan anchor... is always
// classified PHYSICAL regardless of count").
type Origin int

const (
	OriginSignature Origin = iota
	OriginVGPIO
)

// Table is a candidate Pad Table: a contiguous, entry_size-aligned byte
// range whose every descriptor has passed the Pad Validator.
type Table struct {
	Offset    int
	EntrySize int
	Entries   []pad.Descriptor
	Origin    Origin
}

// EntryCount is the number of validated descriptors in the table.
func (t Table) EntryCount() int {
	return len(t.Entries)
}
