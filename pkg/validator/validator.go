// Copyright 2024 the gpiotab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package validator implements the pad-descriptor semantic validity check:
// a pure, deterministic function with no side effects that decides whether
// a decoded pad.Descriptor can plausibly represent a real hardware pad.
// Rejection is never an error — it is the normal signal that terminates
// table extension in the Detector.
package validator

import "github.com/linuxboot/gpiotab/pkg/pad"

// Reason names which rule rejected a descriptor. It exists only for
// diagnostics: the Detector only ever looks at the boolean from Validate,
// and no other package reads the Reason.
type Reason int

const (
	// Accepted means the descriptor passed every rule.
	Accepted Reason = iota
	// TrivialPattern: all-zero or all-ones descriptor.
	TrivialPattern
	// InvalidMode: mode decodes to one of the reserved 8-15 values.
	InvalidMode
	// DeadGPIO: mode is GPIO with both rx and tx disabled.
	DeadGPIO
	// StrayLatchBits: mode is a native function but tx/rx latch bits are set.
	StrayLatchBits
	// PartialNFBuffer: mode is a native function with only one of rx/tx disabled.
	PartialNFBuffer
	// RouteWithoutTrigger: an interrupt route is selected but trigger == off.
	RouteWithoutTrigger
	// DrivenWithTermination: mode is GPIO, tx is enabled, and termination is non-zero.
	DrivenWithTermination
)

func (r Reason) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case TrivialPattern:
		return "trivial pattern"
	case InvalidMode:
		return "invalid mode"
	case DeadGPIO:
		return "dead GPIO (rx and tx both disabled)"
	case StrayLatchBits:
		return "native-function pad with stray GPIO latch bits"
	case PartialNFBuffer:
		return "native-function pad with partial rx/tx buffer enable"
	case RouteWithoutTrigger:
		return "interrupt route selected with trigger off"
	case DrivenWithTermination:
		return "actively driven pad with termination enabled"
	}
	return "unknown"
}

// Validate checks a descriptor against every §4.D semantic rule and reports
// the first rule it fails, or Accepted if all pass.
func Validate(d pad.Descriptor) (bool, Reason) {
	// Rule 1: not a trivial pattern (empty slot or erased flash).
	if d.IsTrivial() {
		return false, TrivialPattern
	}

	// Rule 3: mode in enum (reset domain is always valid - it's a 2-bit
	// field with all four encodings meaningful, rule 2 is automatic).
	if !d.Mode.Valid() {
		return false, InvalidMode
	}

	if d.Mode == pad.ModeGPIO {
		// Rule 4: GPIO consistency - not functionally dead.
		if d.RxDisabled && d.TxDisabled {
			return false, DeadGPIO
		}
		// Rule 8: output-termination isolation.
		if !d.TxDisabled && !d.Termination.Disabled() {
			return false, DrivenWithTermination
		}
	}

	if d.Mode.IsNativeFunction() {
		// Rule 5: native-function isolation - no stray GPIO latch bits.
		if d.RxState || d.TxState {
			return false, StrayLatchBits
		}
		// Rule 6: native-function buffer consistency - all-enabled or
		// all-disabled, never a partial enable.
		if d.RxDisabled != d.TxDisabled {
			return false, PartialNFBuffer
		}
	}

	// Rule 7: interrupt/trigger consistency.
	if !d.InterruptRoute.None() && d.Trigger == pad.TriggerOff {
		return false, RouteWithoutTrigger
	}

	return true, Accepted
}
