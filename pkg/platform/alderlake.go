// Copyright 2024 the gpiotab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package platform

import "github.com/linuxboot/gpiotab/pkg/pad"

// alderLakeIFDQuirk decodes FLMAP0's region/master base fields for Alder
// Lake descriptors. Earlier platforms leave bits [27:24] and [11:8] as the
// plain 4-bit region/master block indices; Alder Lake's descriptor moved
// the high two bits of each field one position up, so a naive decode reads
// the correct region *length* but the wrong region *start*. This is the
// platform tag spec.md calls "load-bearing": without selecting this quirk,
// BaseOffset/EndOffset silently point at the wrong bytes.
func alderLakeIFDQuirk(flmap0 uint32) (regionBase, masterBase uint8) {
	regionBase = uint8((flmap0>>12)&0xFF) & 0x3F
	masterBase = uint8((flmap0>>24)&0xFF) & 0x3F
	return
}

// AlderLake is the Profile for Intel Alder Lake PCH images.
var AlderLake = Profile{
	Tag:      "alderlake",
	IFDQuirk: alderLakeIFDQuirk,

	EntrySizes:       []int{8},
	VGPIOEntrySizes:  []int{12, 16},

	// The first five descriptors of the canonical physical table: one GPIO
	// pad followed by four native-function pads, all reset on PLTRST.
	Signature: []SignatureEntry{
		{Mode: pad.ModeGPIO, Reset: pad.ResetPLTRST, Required: true},
		{Mode: pad.ModeNF1, Reset: pad.ResetPLTRST, Required: true},
		{Mode: pad.ModeNF1, Reset: pad.ResetPLTRST, Required: true},
		{Mode: pad.ModeNF1, Reset: pad.ResetPLTRST, Required: true},
		{Mode: pad.ModeNF1, Reset: pad.ResetPLTRST, Required: true},
	},
	MaxPhysicalEntries: 350,
	VGPIORunCeiling:    100,

	PhysicalBand:  SizeBand{Min: 250, Max: 260},
	VGPIOUSBBand:  SizeBand{Min: 10, Max: 15},
	VGPIOBand:     SizeBand{Min: 35, Max: 40},
	VGPIOPCIeBand: SizeBand{Min: 75, Max: 85},

	// Physical pad-group layout in silicon wiring order. Positional: the
	// i-th descriptor of a PHYSICAL table is always the i-th pad below.
	PhysicalGroups: []PadGroup{
		{Name: "GPP_A", Size: 25},
		{Name: "GPP_B", Size: 26},
		{Name: "GPP_C", Size: 24},
		{Name: "GPP_D", Size: 24},
		{Name: "GPP_E", Size: 13},
		{Name: "GPP_F", Size: 24},
		{Name: "GPP_H", Size: 24},
		{Name: "GPP_J", Size: 12},
		{Name: "GPP_K", Size: 12},
		{Name: "GPP_R", Size: 8},
		{Name: "GPP_S", Size: 8},
		{Name: "GPP_T", Size: 16},
		{Name: "GPP_U", Size: 24},
		{Name: "GPP_V", Size: 4},
		{Name: "GPD", Size: 12},
	},

	VGPIOUSBGroups: []PadGroup{
		{Name: "VGPIO_USB", Size: 13},
	},
	VGPIOGroups: []PadGroup{
		{Name: "VGPIO", Size: 38},
	},
	VGPIOPCIeGroups: []PadGroup{
		{Name: "VGPIO_PCIE", Size: 81},
	},

	// Verified substrings only; see DESIGN.md's "Unverified module GUIDs"
	// Open Question resolution.
	ModulePatterns: []string{"Gpio", "PchInit", "FspS"},
}

// ByTag resolves a platform tag to its Profile. It is the only place a
// caller needs to know the set of supported tags.
func ByTag(tag string) (Profile, bool) {
	if tag == AlderLake.Tag {
		return AlderLake, true
	}
	return Profile{}, false
}
