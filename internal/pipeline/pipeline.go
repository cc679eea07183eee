// Copyright 2024 the gpiotab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pipeline composes the Region Extractor, Span Enumerator, Table
// Detector, Pad Validator, and Calibrator into the single ordered pass
// spec.md §5 describes. It is the only package that knows about all five
// components at once; cmds/gpiotab talks to the pipeline, never to the
// individual components directly, mirroring how fiano's higher-level
// fit/uefi packages compose their own leaf parsers.
package pipeline

import (
	"fmt"

	"github.com/linuxboot/gpiotab/pkg/calibrator"
	"github.com/linuxboot/gpiotab/pkg/detector"
	"github.com/linuxboot/gpiotab/pkg/flashdesc"
	"github.com/linuxboot/gpiotab/pkg/fwvolume"
	"github.com/linuxboot/gpiotab/pkg/gplog"
	"github.com/linuxboot/gpiotab/pkg/platform"
	"github.com/linuxboot/gpiotab/pkg/refheader"
)

// Config selects the platform and optional collaborators for one Run.
type Config struct {
	// Profile is mandatory: it is the platform whose IFD quirk, signature,
	// VGPIO bands, and pad-group layout drive every downstream stage.
	Profile platform.Profile

	// Unpacker is optional. A nil Unpacker narrows the Span Enumerator to
	// whole-volume and GUIDed-section spans, per spec.md §4.B.
	Unpacker fwvolume.Unpacker

	// WorkDir stages the Unpacker's per-volume extraction, if Unpacker is
	// non-nil. Ignored otherwise.
	WorkDir string

	// Reference is optional. A nil Reference means every candidate scores
	// 0 and selection falls back to (entry_count desc, offset asc).
	Reference refheader.Reference
}

// Run executes the full A->B->C->D->E pass over a raw firmware image and
// returns the Calibrator's Result. A non-nil error other than
// calibrator.ErrNoPhysicalTableFound means the image could not be parsed
// at all (not descriptor-formatted, wrong platform, or no valid BIOS
// region); ErrNoPhysicalTableFound is returned alongside a usable Result
// and is not itself fatal to the caller.
func Run(image []byte, cfg Config) (*calibrator.Result, error) {
	if cfg.Profile.IFDQuirk == nil {
		return nil, fmt.Errorf("pipeline: Config.Profile is required")
	}

	flash, err := flashdesc.Parse(image, cfg.Profile)
	if err != nil {
		return nil, fmt.Errorf("pipeline: region extraction failed: %w", err)
	}
	bios := flash.BIOS()
	gplog.Infof("pipeline: platform=%s bios_region=%#x-%#x", cfg.Profile.Tag, flash.BIOSRegion.BaseOffset(), flash.BIOSRegion.EndOffset())

	spans, err := fwvolume.Enumerate(bios, cfg.Unpacker, cfg.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("pipeline: span enumeration failed: %w", err)
	}

	var tables []detector.Table
	for _, span := range spans {
		tables = append(tables, detector.Detect(span.Data, cfg.Profile)...)
	}
	gplog.Infof("pipeline: detected %d candidate table(s) across %d span(s)", len(tables), len(spans))

	return calibrator.Calibrate(tables, cfg.Profile, cfg.Reference)
}
