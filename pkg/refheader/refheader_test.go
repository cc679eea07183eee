// Copyright 2024 the gpiotab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refheader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxboot/gpiotab/pkg/pad"
)

const sampleHeader = `
/* auto-generated, do not edit */
#include <soc/gpio.h>

static const struct pad_config gpio_table[] = {
	PAD_CFG_GPO(GPP_A0, 1, PLTRST),
	PAD_CFG_GPI_APIC(GPP_A1, NONE, PLTRST, LEVEL, INVERT),
	PAD_CFG_NF(GPP_A2, NONE, PWROK, NF1),
	/* reserved */
	PAD_CFG_GPO(VGPIO_USB_0, 0, DEEP),
	_PAD_CFG_STRUCT(VGPIO_0, 0x80000000, 0x0),
};
`

func TestParseRecognizesEachMacroKind(t *testing.T) {
	ref, err := Parse(strings.NewReader(sampleHeader))
	require.NoError(t, err)

	assert.Equal(t, Expectation{Mode: pad.ModeGPIO, ResetDomain: pad.ResetPLTRST, Direction: pad.DirectionOutput}, ref["GPP_A0"])
	assert.Equal(t, Expectation{Mode: pad.ModeGPIO, ResetDomain: pad.ResetPLTRST, Direction: pad.DirectionInput}, ref["GPP_A1"])
	assert.Equal(t, Expectation{Mode: pad.ModeNF1, ResetDomain: pad.ResetPWROK, Direction: pad.DirectionUnknown}, ref["GPP_A2"])
	assert.Equal(t, Expectation{Mode: pad.ModeGPIO, ResetDomain: pad.ResetDEEP, Direction: pad.DirectionOutput}, ref["VGPIO_USB_0"])
	assert.Equal(t, Expectation{Mode: pad.ModeGPIO, ResetDomain: pad.ResetPLTRST, Direction: pad.DirectionBidirectional}, ref["VGPIO_0"])
}

func TestParseSkipsUnrelatedLines(t *testing.T) {
	ref, err := Parse(strings.NewReader("// just a comment\nint x = 0;\n"))
	require.NoError(t, err)
	assert.Empty(t, ref)
}

func TestParseCollectsUnrecognizedResetToken(t *testing.T) {
	_, err := Parse(strings.NewReader("PAD_CFG_GPO(GPP_A0, 1, BOGUS_DOMAIN),\n"))
	require.Error(t, err)
	var parseErr *ErrParse
	assert.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 1, parseErr.Line)
}
