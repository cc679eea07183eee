// Copyright 2024 the gpiotab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package platform carries per-platform GPIO knowledge as data: the IFD
// region-decoding quirk, the physical-table signature, VGPIO size bands,
// module-name patterns, and pad-group layouts. Adding a new platform (e.g.
// Raptor Lake) means adding a Profile value, never editing the Detector,
// Validator, or Calibrator.
package platform

import "github.com/linuxboot/gpiotab/pkg/pad"

// SignatureEntry describes one expected (mode, reset) pair at a fixed
// position in the platform's canonical physical pad table.
type SignatureEntry struct {
	Mode     pad.Mode
	Reset    pad.ResetDomain
	Required bool
}

// SizeBand is an inclusive entry-count range used to classify a candidate
// table.
type SizeBand struct {
	Min, Max int
}

// Contains reports whether n falls within the band, inclusive.
func (b SizeBand) Contains(n int) bool {
	return n >= b.Min && n <= b.Max
}

// PadGroup names one physical or virtual pad group and how many pads it
// contains, in the platform's physical wiring order.
type PadGroup struct {
	Name string
	Size int
}

// IFDQuirk decodes the region-base and master-base fields out of FLMAP0 for
// a platform whose Flash Descriptor Map diverges from the generic layout.
// It returns the block indices (6 bits wide on Alder Lake) exactly as the
// hardware encodes them;
// the caller still multiplies by 0x10 to get a byte offset.
type IFDQuirk func(flmap0 uint32) (regionBase, masterBase uint8)

// Profile is the complete set of platform-specific knowledge the pipeline
// needs. It is pure data: none of its fields are executable detection
// logic, per spec.md's "Signature data, not code" design note.
type Profile struct {
	// Tag is the CLI-facing platform token, e.g. "alderlake".
	Tag string

	// IFDQuirk is mandatory; the Region Extractor refuses to run without
	// one selected via Tag.
	IFDQuirk IFDQuirk

	// EntrySizes lists the physical-table entry sizes to try, in bytes.
	EntrySizes []int

	// VGPIOEntrySizes lists the VGPIO-table entry sizes to try, in bytes.
	VGPIOEntrySizes []int

	// Signature is the ordered (mode, reset) pattern expected at the start
	// of the canonical physical pad table.
	Signature []SignatureEntry

	// MaxPhysicalEntries caps signature-anchored table extension.
	MaxPhysicalEntries int

	// VGPIORunCeiling caps a single greedy VGPIO run before it's discarded
	// as implausible.
	VGPIORunCeiling int

	// PhysicalBand, VGPIOBand, VGPIOUSBBand, VGPIOPCIeBand classify a
	// candidate table by its validated entry count.
	PhysicalBand  SizeBand
	VGPIOBand     SizeBand
	VGPIOUSBBand  SizeBand
	VGPIOPCIeBand SizeBand

	// PhysicalGroups is the ordered physical pad-group layout, e.g.
	// GPP_A, GPP_B, ... in silicon wiring order.
	PhysicalGroups []PadGroup

	// VGPIOGroups, VGPIOUSBGroups, VGPIOPCIeGroups are the analogous
	// layouts for the three VGPIO classes.
	VGPIOGroups     []PadGroup
	VGPIOUSBGroups  []PadGroup
	VGPIOPCIeGroups []PadGroup

	// ModulePatterns are verified substrings of the UEFI section or file
	// UI names of GPIO-bearing modules. No pipeline component reads them:
	// Module Spans are neither filtered nor reordered by name. Unverified GUIDs are
	// deliberately never added here (see DESIGN.md Open Questions).
	ModulePatterns []string
}

// TotalPads returns the sum of group sizes, i.e. the number of pads a fully
// populated table of this class would name.
func TotalPads(groups []PadGroup) int {
	n := 0
	for _, g := range groups {
		n += g.Size
	}
	return n
}
