// Copyright 2024 the gpiotab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pad

import "testing"

func TestDecodeDW0(t *testing.T) {
	var tests = []struct {
		name       string
		dw0        uint32
		wantMode   Mode
		wantReset  ResetDomain
		wantRxDis  bool
		wantTxDis  bool
		wantRoute  InterruptRoute
		wantTrig   Trigger
	}{
		{
			name:      "gpio pltrst both enabled",
			dw0:       uint32(ResetPLTRST) << shiftResetDom,
			wantMode:  ModeGPIO,
			wantReset: ResetPLTRST,
		},
		{
			name:      "nf1 pltrst",
			dw0:       uint32(ModeNF1)<<shiftMode | uint32(ResetPLTRST)<<shiftResetDom,
			wantMode:  ModeNF1,
			wantReset: ResetPLTRST,
		},
		{
			name:      "both disabled",
			dw0:       1<<bitRxDisable | 1<<bitTxDisable,
			wantRxDis: true,
			wantTxDis: true,
		},
		{
			name:      "route ioapic and sci",
			dw0:       uint32(RouteIOAPIC|RouteSCI) << shiftRoute,
			wantRoute: RouteIOAPIC | RouteSCI,
		},
		{
			name:     "trigger edge",
			dw0:      uint32(TriggerEdge) << shiftTrigger,
			wantTrig: TriggerEdge,
		},
		{
			name:      "mode 8 is out of enum range",
			dw0:       8 << shiftMode,
			wantMode:  Mode(8),
			wantReset: ResetPWROK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, reset, rxDis, txDis, _, _, route, trig := DecodeDW0(tt.dw0)
			if mode != tt.wantMode {
				t.Errorf("mode = %v, want %v", mode, tt.wantMode)
			}
			if reset != tt.wantReset {
				t.Errorf("reset = %v, want %v", reset, tt.wantReset)
			}
			if rxDis != tt.wantRxDis || txDis != tt.wantTxDis {
				t.Errorf("rxDis,txDis = %v,%v want %v,%v", rxDis, txDis, tt.wantRxDis, tt.wantTxDis)
			}
			if route != tt.wantRoute {
				t.Errorf("route = %v, want %v", route, tt.wantRoute)
			}
			if trig != tt.wantTrig {
				t.Errorf("trigger = %v, want %v", trig, tt.wantTrig)
			}
		})
	}
}

func TestModeValid(t *testing.T) {
	for m := Mode(0); m <= 7; m++ {
		if !m.Valid() {
			t.Errorf("Mode(%d).Valid() = false, want true", m)
		}
	}
	for m := Mode(8); m <= 15; m++ {
		if m.Valid() {
			t.Errorf("Mode(%d).Valid() = true, want false", m)
		}
	}
}

func TestIsTrivial(t *testing.T) {
	var tests = []struct {
		name string
		d    Descriptor
		want bool
	}{
		{"all zero", Descriptor{DW0: 0, DW1: 0}, true},
		{"dw0 erased", Descriptor{DW0: 0xFFFFFFFF, DW1: 0x12345678}, true},
		{"dw1 erased", Descriptor{DW0: 0x12345678, DW1: 0xFFFFFFFF}, true},
		{"normal", Descriptor{DW0: 0x00000800, DW1: 0}, false},
	}
	for _, tt := range tests {
		if got := tt.d.IsTrivial(); got != tt.want {
			t.Errorf("%s: IsTrivial() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDirection(t *testing.T) {
	var tests = []struct {
		name               string
		rxDisabled, txDisabled bool
		want               Direction
	}{
		{"both enabled", false, false, DirectionBidirectional},
		{"rx disabled (output only)", true, false, DirectionOutput},
		{"tx disabled (input only)", false, true, DirectionInput},
		{"both disabled", true, true, DirectionDisabled},
	}
	for _, tt := range tests {
		d := Descriptor{RxDisabled: tt.rxDisabled, TxDisabled: tt.txDisabled}
		if got := d.Direction(); got != tt.want {
			t.Errorf("%s: Direction() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDecodeAtRoundTrip(t *testing.T) {
	buf := make([]byte, 16)
	dw0 := uint32(ModeNF2)<<shiftMode | uint32(ResetDEEP)<<shiftResetDom
	dw1 := uint32(0x2) << shiftTermination
	buf[0] = byte(dw0)
	buf[1] = byte(dw0 >> 8)
	buf[2] = byte(dw0 >> 16)
	buf[3] = byte(dw0 >> 24)
	buf[4] = byte(dw1)
	buf[5] = byte(dw1 >> 8)
	buf[6] = byte(dw1 >> 16)
	buf[7] = byte(dw1 >> 24)

	d, err := DecodeAt(buf, 0)
	if err != nil {
		t.Fatalf("DecodeAt: %v", err)
	}
	if d.Mode != ModeNF2 || d.ResetDomain != ResetDEEP {
		t.Errorf("decoded %+v, want mode=NF2 reset=DEEP", d)
	}
	if d.Termination.Disabled() {
		t.Errorf("expected termination enabled")
	}

	if _, err := DecodeAt(buf, 12); err == nil {
		t.Errorf("expected out-of-range error")
	}
}
