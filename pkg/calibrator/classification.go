// Copyright 2024 the gpiotab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package calibrator implements the Calibrator: it classifies surviving
// candidate Pad Tables, names their pads positionally from the Platform
// Profile, scores them against an optional reference header, and selects at
// most one winner per classification.
package calibrator

import (
	"github.com/linuxboot/gpiotab/pkg/detector"
	"github.com/linuxboot/gpiotab/pkg/platform"
)

// Classification is one of the four pad-table classes the Profile's size
// bands distinguish.
type Classification int

const (
	Physical Classification = iota
	VGPIO
	VGPIOUSB
	VGPIOPCIe
)

// Order is the fixed rendering order for the four classifications. Result
// .Winners is a map, whose iteration order is randomized by Go; callers that
// must render winners deterministically (pkg/report, cmds/gpiotab
// --verbose) should range over Order instead of the map directly, per
// spec.md's determinism requirement (identical inputs, bit-identical
// output).
var Order = []Classification{Physical, VGPIO, VGPIOUSB, VGPIOPCIe}

func (c Classification) String() string {
	switch c {
	case Physical:
		return "PHYSICAL"
	case VGPIO:
		return "VGPIO"
	case VGPIOUSB:
		return "VGPIO_USB"
	case VGPIOPCIe:
		return "VGPIO_PCIE"
	}
	return "UNKNOWN"
}

// classify assigns t to a Classification by entry count, or reports ok ==
// false if no band matches. A signature-scan anchor is always PHYSICAL
// regardless of its entry count, since its origin is dispositive (spec.md
// §4.E).
func classify(t detector.Table, prof platform.Profile) (Classification, bool) {
	if t.Origin == detector.OriginSignature {
		return Physical, true
	}
	switch {
	case prof.PhysicalBand.Contains(t.EntryCount()):
		return Physical, true
	case prof.VGPIOUSBBand.Contains(t.EntryCount()):
		return VGPIOUSB, true
	case prof.VGPIOBand.Contains(t.EntryCount()):
		return VGPIO, true
	case prof.VGPIOPCIeBand.Contains(t.EntryCount()):
		return VGPIOPCIe, true
	}
	return 0, false
}

// groupsFor returns the ordered pad-group layout gpiotab uses to name every
// pad of a table classified as c.
func groupsFor(c Classification, prof platform.Profile) []platform.PadGroup {
	switch c {
	case Physical:
		return prof.PhysicalGroups
	case VGPIO:
		return prof.VGPIOGroups
	case VGPIOUSB:
		return prof.VGPIOUSBGroups
	case VGPIOPCIe:
		return prof.VGPIOPCIeGroups
	}
	return nil
}
