// Copyright 2024 the gpiotab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fwvolume

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/linuxboot/gpiotab/pkg/gplog"
)

// Unpacker extracts the individual firmware files out of one firmware
// volume's raw bytes and reports their spans back. gpiotab treats file and
// section parsing as an opaque external collaborator (spec.md §1/§4.B):
// SPEC_FULL.md only needs whatever byte spans the unpacker produces, never
// the FFS directory structure itself.
type Unpacker interface {
	Unpack(volume Span, destDir string) ([]Span, error)
}

// ExternalUnpacker shells out to a configured firmware-volume unpacking
// tool. A missing tool on PATH narrows detection coverage; it is logged and
// treated as "nothing extracted", not a pipeline error, matching spec.md
// §4.B's framing of the unpacker as optional.
type ExternalUnpacker struct {
	// ToolPath is the unpacker binary, e.g. "UEFIExtract". Defaults to
	// "UEFIExtract" if empty.
	ToolPath string
}

// Unpack writes volume's bytes to a staging file in destDir, invokes the
// configured tool to explode it, and reads back whatever regular files the
// tool produced as Spans.
func (u ExternalUnpacker) Unpack(volume Span, destDir string) ([]Span, error) {
	toolPath := u.ToolPath
	if toolPath == "" {
		toolPath = "UEFIExtract"
	}
	if _, err := exec.LookPath(toolPath); err != nil {
		gplog.Warnf("fwvolume: unpacker %q not found on PATH, skipping file-level extraction of volume %q", toolPath, volume.Name)
		return nil, nil
	}

	volPath := filepath.Join(destDir, "volume.fv")
	if err := os.WriteFile(volPath, volume.Data, 0o644); err != nil {
		return nil, fmt.Errorf("fwvolume: failed to stage volume for unpacking: %w", err)
	}

	cmd := exec.Command(toolPath, volPath, "dump")
	cmd.Dir = destDir
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("fwvolume: unpacker %q failed: %w (%s)", toolPath, err, out)
	}
	return readExtractedFiles(destDir)
}

// readExtractedFiles reads every regular file the unpacker left in destDir
// (other than the staged volume itself) back in as Spans.
func readExtractedFiles(destDir string) ([]Span, error) {
	entries, err := os.ReadDir(destDir)
	if err != nil {
		return nil, fmt.Errorf("fwvolume: failed to read unpacker output directory: %w", err)
	}
	var spans []Span
	for _, e := range entries {
		if e.IsDir() || e.Name() == "volume.fv" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(destDir, e.Name()))
		if err != nil {
			continue
		}
		spans = append(spans, Span{Name: e.Name(), Length: len(data), Data: data})
	}
	return spans, nil
}
