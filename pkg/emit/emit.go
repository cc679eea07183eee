// Copyright 2024 the gpiotab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package emit renders a Calibrator Result's PHYSICAL winner as a
// coreboot-style GPIO header: an array of PAD_CFG_GPO/PAD_CFG_GPI/
// PAD_CFG_NF macro invocations (or _PAD_CFG_STRUCT with the raw DW0/DW1
// words for a GPIO pad that is neither input-only nor output-only), one
// per named pad, grouped by pad group
// the same way a real coreboot gpio.h lays them out. Like pkg/report, it
// is an external collaborator; no core package depends on it.
package emit

import (
	"fmt"
	"io"
	"strings"

	"github.com/linuxboot/gpiotab/pkg/calibrator"
	"github.com/linuxboot/gpiotab/pkg/pad"
)

func resetToken(r pad.ResetDomain) string {
	switch r {
	case pad.ResetPWROK:
		return "PWROK"
	case pad.ResetDEEP:
		return "DEEP"
	case pad.ResetPLTRST:
		return "PLTRST"
	case pad.ResetRSMRST:
		return "RSMRST"
	}
	return "PLTRST"
}

func padGroup(name string) string {
	if i := strings.LastIndexAny(name, "0123456789"); i >= 0 {
		for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
			i--
		}
		return name[:i]
	}
	return name
}

func macroLine(p calibrator.NamedPad) string {
	d := p.Descriptor
	if d.Mode.IsNativeFunction() {
		return fmt.Sprintf("\tPAD_CFG_NF(%s, NONE, %s, %s),", p.Name, resetToken(d.ResetDomain), d.Mode)
	}
	switch d.Direction() {
	case pad.DirectionOutput:
		state := 0
		if d.TxState {
			state = 1
		}
		return fmt.Sprintf("\tPAD_CFG_GPO(%s, %d, %s),", p.Name, state, resetToken(d.ResetDomain))
	case pad.DirectionInput:
		return fmt.Sprintf("\tPAD_CFG_GPI(%s, NONE, %s),", p.Name, resetToken(d.ResetDomain))
	default:
		return fmt.Sprintf("\t_PAD_CFG_STRUCT(%s, %#08x, %#08x),", p.Name, d.DW0, d.DW1)
	}
}

// CorebootHeader writes result's PHYSICAL winner as a coreboot gpio.h-style
// pad table, grouped by pad group in positional order. It writes nothing
// and returns nil if result carries no PHYSICAL winner.
func CorebootHeader(w io.Writer, result *calibrator.Result) error {
	winner, ok := result.Winners[calibrator.Physical]
	if !ok {
		return nil
	}

	if _, err := fmt.Fprint(w, "static const struct pad_config gpio_table[] = {\n"); err != nil {
		return err
	}

	currentGroup := ""
	for _, p := range winner.Pads {
		g := padGroup(string(p.Name))
		if g != currentGroup {
			if currentGroup != "" {
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, "\t/* %s */\n", g); err != nil {
				return err
			}
			currentGroup = g
		}
		if _, err := fmt.Fprintln(w, macroLine(p)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprint(w, "};\n")
	return err
}
