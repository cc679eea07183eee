// Copyright 2024 the gpiotab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fwvolume

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/linuxboot/gpiotab/pkg/gplog"
)

// Enumerate produces the complete set of candidate spans the Table Detector
// will scan, per spec.md §4.B: the whole BIOS region (always present, so
// detection never depends on volume parsing succeeding), every firmware
// volume found by walking "_FVH" headers, the single-level decompression of
// each volume's GUIDed LZMA/LZ4 sections, and — when unpacker is non-nil —
// whatever file-level spans the external Unpacker extracts from each
// volume, staged under workDir.
func Enumerate(biosRegion []byte, unpacker Unpacker, workDir string) ([]Span, error) {
	spans := []Span{{
		Offset: 0,
		Length: len(biosRegion),
		Name:   "bios-region",
		Data:   biosRegion,
	}}

	volumes := WalkVolumes(biosRegion)
	gplog.Infof("fwvolume: found %d firmware volume(s) in BIOS region", len(volumes))

	for i, vol := range volumes {
		spans = append(spans, vol)
		spans = append(spans, scanGUIDSections(vol.Data, vol.Offset)...)

		if unpacker == nil {
			continue
		}
		volDir, err := os.MkdirTemp(workDir, fmt.Sprintf("vol%d-", i))
		if err != nil {
			return nil, fmt.Errorf("fwvolume: failed to stage working directory for volume %d: %w", i, err)
		}
		extracted, err := unpacker.Unpack(vol, volDir)
		if err != nil {
			gplog.Warnf("fwvolume: unpacker failed on volume %q: %v", vol.Name, err)
			continue
		}
		for _, e := range extracted {
			e.Offset = vol.Offset
			e.Name = filepath.Join(vol.Name, e.Name)
			spans = append(spans, e)
		}
	}
	return spans, nil
}
