// Copyright 2024 the gpiotab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package refheader parses a coreboot-style GPIO header (a C source file
// whose body is a series of PAD_CFG_* / _PAD_CFG_STRUCT macro invocations,
// one per pad) into a Reference the Calibrator can score candidate pad
// tables against. Parsing is best-effort and line-oriented: a line the
// grammar doesn't recognize is skipped, not fatal, since reference headers
// routinely interleave comments, #include lines, and array boilerplate
// around the macros that matter.
package refheader

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/linuxboot/gpiotab/pkg/pad"
)

// Expectation is what a reference header says one named pad should look
// like.
type Expectation struct {
	Mode        pad.Mode
	ResetDomain pad.ResetDomain
	Direction   pad.Direction
}

// Reference maps a positional pad name (as pkg/calibrator assigns it) to
// its expected configuration.
type Reference map[string]Expectation

// ErrParse reports one line the grammar rejected.
type ErrParse struct {
	Line int
	Text string
}

func (e *ErrParse) Error() string {
	return fmt.Sprintf("refheader: line %d: unrecognized macro arguments: %q", e.Line, e.Text)
}

// macroLine matches a PAD_CFG_GPI/PAD_CFG_GPO/PAD_CFG_NF invocation and
// captures its pad name, its reset-domain argument and, when present, the
// NFn number of a fourth argument. All three forms place the reset domain
// as the third macro argument (PAD_CFG_GPO(pad, val, rst), PAD_CFG_GPI(pad,
// pull, rst), PAD_CFG_NF(pad, pull, rst, func)), so the second argument is
// matched but not captured.
var macroLine = regexp.MustCompile(
	`\b(PAD_CFG_GPO|PAD_CFG_GPI(?:_[A-Z0-9_]*)?|PAD_CFG_NF)\s*\(\s*(GPP_[A-Z0-9_]+|VGPIO_[A-Z0-9_]+)\s*,\s*[^,)]+\s*,\s*([^,)]+)(?:\s*,\s*NF([1-7]))?`,
)

// structLine matches a raw _PAD_CFG_STRUCT(name, dw0, dw1) invocation, used
// by VGPIO classes that have no symbolic reset-domain/mode macro form: the
// configuration is carried directly in the two raw words.
var structLine = regexp.MustCompile(
	`\b_PAD_CFG_STRUCT\s*\(\s*(GPP_[A-Z0-9_]+|VGPIO_[A-Z0-9_]+)\s*,\s*([^,]+)\s*,\s*([^,)]+)\s*\)`,
)

type resetDomainPattern struct {
	domain  pad.ResetDomain
	pattern *regexp.Regexp
}

var resetDomainPatterns = []resetDomainPattern{
	{pad.ResetPWROK, regexp.MustCompile(`\bPWROK\b`)},
	{pad.ResetDEEP, regexp.MustCompile(`\bDEEP\b`)},
	{pad.ResetPLTRST, regexp.MustCompile(`\bPLTRST\b`)},
	{pad.ResetRSMRST, regexp.MustCompile(`\bRSMRST\b`)},
}

// Parse reads a reference header from r, returning a Reference built from
// every macro line it recognizes. Unrecognized macro invocations are
// collected as a *multierror.Error rather than aborting the whole parse,
// since a single malformed line shouldn't discard the rest of a header
// that's otherwise usable for scoring.
func Parse(r io.Reader) (Reference, error) {
	ref := Reference{}
	var errs *multierror.Error

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if m := structLine.FindStringSubmatch(line); m != nil {
			name, dw0Token, dw1Token := m[1], m[2], m[3]
			dw0, err0 := parseWord(dw0Token)
			dw1, err1 := parseWord(dw1Token)
			if err0 != nil || err1 != nil {
				errs = multierror.Append(errs, &ErrParse{Line: lineNo, Text: line})
				continue
			}
			d := pad.Decode(dw0, dw1)
			exp := Expectation{Mode: d.Mode, ResetDomain: d.ResetDomain}
			if d.Mode == pad.ModeGPIO {
				exp.Direction = d.Direction()
			}
			ref[name] = exp
			continue
		}

		m := macroLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		macro, name, resetToken := m[1], m[2], m[3]

		reset, ok := resetDomain(resetToken)
		if !ok {
			errs = multierror.Append(errs, &ErrParse{Line: lineNo, Text: line})
			continue
		}

		exp := Expectation{ResetDomain: reset}
		switch macro {
		case "PAD_CFG_GPO":
			exp.Mode = pad.ModeGPIO
			exp.Direction = pad.DirectionOutput
		case "PAD_CFG_NF":
			exp.Mode = pad.ModeNF1
			if m[4] != "" {
				exp.Mode = pad.Mode(m[4][0] - '0')
			}
			exp.Direction = pad.DirectionUnknown
		default: // PAD_CFG_GPI and its _APIC/_SCI/_SMI/_IOAPIC variants
			exp.Mode = pad.ModeGPIO
			exp.Direction = pad.DirectionInput
		}
		ref[name] = exp
	}
	if err := scanner.Err(); err != nil {
		errs = multierror.Append(errs, err)
	}
	return ref, errs.ErrorOrNil()
}

// parseWord parses a _PAD_CFG_STRUCT dw0/dw1 argument, which is always a C
// integer literal (typically hex, e.g. "0x44000402").
func parseWord(token string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(token), 0, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

func resetDomain(token string) (pad.ResetDomain, bool) {
	for _, p := range resetDomainPatterns {
		if p.pattern.MatchString(token) {
			return p.domain, true
		}
	}
	return 0, false
}
