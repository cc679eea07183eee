// Copyright 2024 the gpiotab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package calibrator

import "github.com/linuxboot/gpiotab/pkg/refheader"

// score counts how many of named's pads match the reference on mode and
// reset domain and, unless the reference expects a native function, on
// direction as well. A pad the reference doesn't
// mention at all neither helps nor hurts the score. A nil ref always
// scores 0 and every candidate ties, which selection then breaks by entry
// count and offset exactly as if no reference had been supplied.
func score(named []NamedPad, ref refheader.Reference) int {
	if ref == nil {
		return 0
	}
	n := 0
	for _, p := range named {
		exp, ok := ref[string(p.Name)]
		if !ok {
			continue
		}
		if exp.Mode == p.Descriptor.Mode &&
			exp.ResetDomain == p.Descriptor.ResetDomain &&
			(exp.Direction == p.Descriptor.Direction() || exp.Mode.IsNativeFunction()) {
			n++
		}
	}
	return n
}
