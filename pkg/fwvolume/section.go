// Copyright 2024 the gpiotab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fwvolume

import (
	"encoding/binary"
	"fmt"

	"github.com/linuxboot/gpiotab/pkg/guid"
)

// sectionTypeGUIDDefined is EFI_SECTION_GUID_DEFINED from the UEFI PI spec.
const sectionTypeGUIDDefined = 0x02

// commonSectionHeader is the fixed prefix every UEFI firmware-file section
// starts with: a 24-bit size and a one-byte type.
type commonSectionHeader struct {
	Size [3]byte
	Type uint8
}

func (h commonSectionHeader) size() int {
	return int(h.Size[0]) | int(h.Size[1])<<8 | int(h.Size[2])<<16
}

// guidDefinedHeader follows commonSectionHeader when Type ==
// sectionTypeGUIDDefined.
type guidDefinedHeader struct {
	SectionDefinitionGUID guid.GUID
	DataOffset            uint16
	Attributes            uint16
}

// decodeGUIDSection parses one candidate GUID_DEFINED section starting at
// data[0] and, if its GUID names a compressor gpiotab knows, decodes its
// payload.
func decodeGUIDSection(data []byte) (guid.GUID, []byte, error) {
	const headerLen = 4 + 16 + 2 + 2 // commonSectionHeader + guidDefinedHeader
	if len(data) < headerLen {
		return guid.GUID{}, nil, fmt.Errorf("fwvolume: section too short for a GUID_DEFINED header")
	}
	var common commonSectionHeader
	copy(common.Size[:], data[0:3])
	common.Type = data[3]
	if common.Type != sectionTypeGUIDDefined {
		return guid.GUID{}, nil, fmt.Errorf("fwvolume: not a GUID_DEFINED section (type %#x)", common.Type)
	}
	size := common.size()
	if size < headerLen || size > len(data) {
		return guid.GUID{}, nil, fmt.Errorf("fwvolume: GUID_DEFINED section size %#x out of range", size)
	}

	var g guid.GUID
	copy(g[:], data[4:20])
	dataOffset := binary.LittleEndian.Uint16(data[20:22])
	if int(dataOffset) > size {
		return guid.GUID{}, nil, fmt.Errorf("fwvolume: GUID_DEFINED section data offset %#x beyond section size %#x", dataOffset, size)
	}

	compressor := CompressorFromGUID(g)
	if compressor == nil {
		return g, nil, fmt.Errorf("fwvolume: no in-process decoder for section GUID %v", g)
	}
	decoded, err := compressor.Decode(data[dataOffset:size])
	if err != nil {
		return g, nil, fmt.Errorf("fwvolume: %s decode failed: %w", compressor.Name(), err)
	}
	return g, decoded, nil
}

// scanGUIDSections performs a single-level scan of data for GUID_DEFINED
// sections gpiotab can decompress in-process (LZMA, LZ4), returning one
// decompressed Span per match. This widens candidate coverage without
// requiring the external Unpacker: it does not walk a full FFS file/section
// tree, it only looks for the section headers directly, on 4-byte
// alignment, the same granularity UEFI section data is always aligned to.
func scanGUIDSections(data []byte, base int) []Span {
	var spans []Span
	for offset := 0; offset+24 <= len(data); offset += 4 {
		g, decoded, err := decodeGUIDSection(data[offset:])
		if err != nil || decoded == nil {
			continue
		}
		spans = append(spans, Span{
			Offset: base + offset,
			Length: len(decoded),
			Name:   "guided-section",
			GUID:   g,
			Data:   decoded,
		})
	}
	return spans
}
