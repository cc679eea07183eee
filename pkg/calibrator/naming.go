// Copyright 2024 the gpiotab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package calibrator

import (
	"fmt"

	"github.com/linuxboot/gpiotab/pkg/pad"
	"github.com/linuxboot/gpiotab/pkg/platform"
)

// PadName is a pad's positional name, e.g. "GPP_A0" or "VGPIO_USB3".
type PadName string

// NamedPad pairs a decoded descriptor with the name its position in the
// table's pad-group layout gives it.
type NamedPad struct {
	Name       PadName
	Descriptor pad.Descriptor
}

// nameAt returns the name of the index-th pad (0-based) in groups, in
// silicon wiring order, or ok == false if index falls past the end of every
// group (e.g. the table has fewer entries than the layout expects, or a
// trailing group like VGPIO_USB_0 is simply absent).
func nameAt(groups []platform.PadGroup, index int) (PadName, bool) {
	for _, g := range groups {
		if index < g.Size {
			return PadName(fmt.Sprintf("%s%d", g.Name, index)), true
		}
		index -= g.Size
	}
	return "", false
}

// namePads names every descriptor in entries positionally against groups.
// Entries past the end of the layout are silently left unnamed rather than
// treated as an error: a missing trailing pad (e.g. VGPIO_USB_0) is normal.
func namePads(entries []pad.Descriptor, groups []platform.PadGroup) []NamedPad {
	named := make([]NamedPad, 0, len(entries))
	for i, d := range entries {
		name, ok := nameAt(groups, i)
		if !ok {
			continue
		}
		named = append(named, NamedPad{Name: name, Descriptor: d})
	}
	return named
}
