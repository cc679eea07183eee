// Copyright 2024 the gpiotab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pad decodes Intel PCH GPIO pad descriptors: the fixed-size DW0/DW1
// record pairs that make up a physical or VGPIO pad table. Decoding is a
// small set of pure functions over the two 32-bit words, so that every
// consumer (the signature scanner, the VGPIO scanner, and the validator)
// works off the same named fields instead of ad-hoc bit shifts.
package pad

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Size is the Alder Lake pad descriptor size in bytes: two little-endian
// 32-bit configuration words.
const Size = 8

// Mode selects the pad's multiplexer function.
type Mode uint8

// Pad modes. Values 8-15 decode from the 4-bit DW0 field but are not valid
// modes.
const (
	ModeGPIO Mode = 0
	ModeNF1  Mode = 1
	ModeNF2  Mode = 2
	ModeNF3  Mode = 3
	ModeNF4  Mode = 4
	ModeNF5  Mode = 5
	ModeNF6  Mode = 6
	ModeNF7  Mode = 7
)

// Valid reports whether m is one of GPIO or NF1..NF7.
func (m Mode) Valid() bool {
	return m <= ModeNF7
}

// IsNativeFunction reports whether m is one of NF1..NF7.
func (m Mode) IsNativeFunction() bool {
	return m >= ModeNF1 && m <= ModeNF7
}

func (m Mode) String() string {
	if m == ModeGPIO {
		return "GPIO"
	}
	if m.IsNativeFunction() {
		return fmt.Sprintf("NF%d", m)
	}
	return fmt.Sprintf("INVALID(%d)", uint8(m))
}

// ResetDomain is the clock/power domain whose reset returns the pad to its
// defaults.
type ResetDomain uint8

// Reset domains. All four 2-bit encodings are valid.
const (
	ResetPWROK   ResetDomain = 0
	ResetDEEP    ResetDomain = 1
	ResetPLTRST  ResetDomain = 2
	ResetRSMRST  ResetDomain = 3
)

func (r ResetDomain) String() string {
	switch r {
	case ResetPWROK:
		return "PWROK"
	case ResetDEEP:
		return "DEEP"
	case ResetPLTRST:
		return "PLTRST"
	case ResetRSMRST:
		return "RSMRST"
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(r))
}

// Trigger is the interrupt/wake trigger type.
type Trigger uint8

const (
	TriggerLevel    Trigger = 0
	TriggerEdge     Trigger = 1
	TriggerOff      Trigger = 2
	TriggerEdgeBoth Trigger = 3
)

func (t Trigger) String() string {
	switch t {
	case TriggerLevel:
		return "level"
	case TriggerEdge:
		return "edge"
	case TriggerOff:
		return "off"
	case TriggerEdgeBoth:
		return "edge_both"
	}
	return fmt.Sprintf("unknown(%d)", uint8(t))
}

// InterruptRoute is a bitmask of APIC/SCI/SMI/NMI routing selections.
type InterruptRoute uint8

const (
	RouteNMI    InterruptRoute = 1 << 0
	RouteSMI    InterruptRoute = 1 << 1
	RouteSCI    InterruptRoute = 1 << 2
	RouteIOAPIC InterruptRoute = 1 << 3
)

// None reports whether no interrupt route is selected.
func (r InterruptRoute) None() bool {
	return r == 0
}

// Termination is the pull-up/pull-down resistor configuration. Zero means
// the termination is disabled (no pull).
type Termination uint8

// Disabled reports whether the pad has no pull resistor enabled.
func (t Termination) Disabled() bool {
	return t == 0
}

// Direction is the logical signal direction of a GPIO-mode pad, derived
// from its rx/tx buffer enable state. It has no meaning for native-function
// pads.
type Direction uint8

const (
	DirectionUnknown Direction = iota
	DirectionInput
	DirectionOutput
	DirectionBidirectional
	DirectionDisabled
)

func (d Direction) String() string {
	switch d {
	case DirectionInput:
		return "input"
	case DirectionOutput:
		return "output"
	case DirectionBidirectional:
		return "bidirectional"
	case DirectionDisabled:
		return "disabled"
	}
	return "unknown"
}

// Descriptor is one decoded pad descriptor: the two raw configuration words
// plus the fields derived from them.
type Descriptor struct {
	DW0 uint32
	DW1 uint32

	Mode           Mode
	ResetDomain    ResetDomain
	RxDisabled     bool
	TxDisabled     bool
	RxState        bool
	TxState        bool
	InterruptRoute InterruptRoute
	Trigger        Trigger
	Termination    Termination
}

// DW0 bit layout (Alder Lake PAD_CFG_DW0).
const (
	bitRxState     = 0
	bitTxState     = 1
	shiftTrigger   = 8
	maskTrigger    = 0x3
	shiftMode      = 10
	maskMode       = 0xF
	shiftRoute     = 17
	maskRoute      = 0xF
	bitRxDisable   = 23
	bitTxDisable   = 24
	shiftResetDom  = 30
	maskResetDom   = 0x3
)

// DW1 bit layout (Alder Lake PAD_CFG_DW1).
const (
	shiftTermination = 10
	maskTermination  = 0x7
)

// DecodeDW0 extracts the DW0-derived fields of a descriptor.
func DecodeDW0(dw0 uint32) (mode Mode, reset ResetDomain, rxDisabled, txDisabled, rxState, txState bool, route InterruptRoute, trig Trigger) {
	mode = Mode((dw0 >> shiftMode) & maskMode)
	reset = ResetDomain((dw0 >> shiftResetDom) & maskResetDom)
	rxDisabled = dw0&(1<<bitRxDisable) != 0
	txDisabled = dw0&(1<<bitTxDisable) != 0
	rxState = dw0&(1<<bitRxState) != 0
	txState = dw0&(1<<bitTxState) != 0
	route = InterruptRoute((dw0 >> shiftRoute) & maskRoute)
	trig = Trigger((dw0 >> shiftTrigger) & maskTrigger)
	return
}

// DecodeDW1 extracts the DW1-derived fields of a descriptor.
func DecodeDW1(dw1 uint32) (term Termination) {
	return Termination((dw1 >> shiftTermination) & maskTermination)
}

// Decode builds a Descriptor from raw DW0/DW1 words.
func Decode(dw0, dw1 uint32) Descriptor {
	mode, reset, rxDis, txDis, rxState, txState, route, trig := DecodeDW0(dw0)
	return Descriptor{
		DW0:            dw0,
		DW1:            dw1,
		Mode:           mode,
		ResetDomain:    reset,
		RxDisabled:     rxDis,
		TxDisabled:     txDis,
		RxState:        rxState,
		TxState:        txState,
		InterruptRoute: route,
		Trigger:        trig,
		Termination:    DecodeDW1(dw1),
	}
}

// DecodeAt reads one Size-byte descriptor at offset from buf.
func DecodeAt(buf []byte, offset int) (Descriptor, error) {
	if offset < 0 || offset+Size > len(buf) {
		return Descriptor{}, fmt.Errorf("pad: offset %#x out of range for buffer of length %#x", offset, len(buf))
	}
	var raw [2]uint32
	if err := binary.Read(bytes.NewReader(buf[offset:offset+Size]), binary.LittleEndian, &raw); err != nil {
		return Descriptor{}, fmt.Errorf("pad: failed to read descriptor at %#x: %w", offset, err)
	}
	return Decode(raw[0], raw[1]), nil
}

// Direction derives the logical signal direction of a GPIO-mode pad from
// its rx/tx buffer enable state. The result is only meaningful when
// d.Mode == ModeGPIO.
func (d Descriptor) Direction() Direction {
	switch {
	case d.RxDisabled && d.TxDisabled:
		return DirectionDisabled
	case !d.RxDisabled && !d.TxDisabled:
		return DirectionBidirectional
	case !d.RxDisabled:
		return DirectionInput
	default:
		return DirectionOutput
	}
}

// IsTrivial reports whether the descriptor is all-zero (empty slot) or
// all-ones in either word (erased flash).
func (d Descriptor) IsTrivial() bool {
	if d.DW0 == 0 && d.DW1 == 0 {
		return true
	}
	return d.DW0 == 0xFFFFFFFF || d.DW1 == 0xFFFFFFFF
}
