// Copyright 2024 the gpiotab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fwvolume

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/linuxboot/gpiotab/pkg/guid"
)

const (
	fixedHeaderSize  = 56
	minVolumeSize    = fixedHeaderSize + 8 // +8 for the null block that terminates the block list
	extHeaderMinSize = 20
)

// block describes number and size of one run of firmware-volume blocks.
type block struct {
	Count uint32
	Size  uint32
}

// fixedHeader is the UEFI PI firmware-volume header, up to but not
// including the block map.
type fixedHeader struct {
	_               [16]uint8
	FileSystemGUID  guid.GUID
	Length          uint64
	Signature       uint32
	Attributes      uint32
	HeaderLen       uint16
	Checksum        uint16
	ExtHeaderOffset uint16
	Reserved        uint8
	Revision        uint8
}

type extHeader struct {
	FVName        guid.GUID
	ExtHeaderSize uint32
}

// header is everything gpiotab needs out of a firmware volume's own framing:
// its filesystem GUID, its total length, and where its data begins. Unlike
// fiano's FirmwareVolume, it never parses the FFS file table underneath —
// that's the external Unpacker's job (see unpacker.go).
type header struct {
	fixedHeader
	DataOffset uint64
	FVName     guid.GUID
}

// findVolumeOffset searches data for an "_FVH" signature on 8-byte
// alignment, starting at byte 32 (the signature never appears earlier than
// that in a real header). It returns the offset of the volume's own start
// (40 bytes before the signature), or -1 if none is found.
func findVolumeOffset(data []byte) int64 {
	if len(data) < 32 {
		return -1
	}
	sig := []byte("_FVH")
	for offset := int64(32); offset+4 <= int64(len(data)); offset += 8 {
		if bytes.Equal(data[offset:offset+4], sig) {
			return offset - 40
		}
	}
	return -1
}

// parseHeader parses a firmware-volume header (fixed header, block map, and
// optional extended header) starting at the beginning of data.
func parseHeader(data []byte) (*header, error) {
	if len(data) < minVolumeSize {
		return nil, fmt.Errorf("fwvolume: too small for a firmware volume header: %d bytes", len(data))
	}
	r := bytes.NewReader(data)
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h.fixedHeader); err != nil {
		return nil, fmt.Errorf("fwvolume: failed to read fixed header: %w", err)
	}
	for {
		var b block
		if err := binary.Read(r, binary.LittleEndian, &b); err != nil {
			return nil, fmt.Errorf("fwvolume: failed to read block map: %w", err)
		}
		if b.Count == 0 && b.Size == 0 {
			break
		}
	}
	if h.Length > uint64(len(data)) {
		return nil, fmt.Errorf("fwvolume: header claims length %d, have %d bytes", h.Length, len(data))
	}

	h.DataOffset = uint64(h.HeaderLen)
	if h.ExtHeaderOffset != 0 &&
		h.Length >= extHeaderMinSize &&
		uint64(h.ExtHeaderOffset) < h.Length-extHeaderMinSize {
		er := bytes.NewReader(data[h.ExtHeaderOffset:])
		var eh extHeader
		if err := binary.Read(er, binary.LittleEndian, &eh); err != nil {
			return nil, fmt.Errorf("fwvolume: failed to read extended header: %w", err)
		}
		h.FVName = eh.FVName
		h.DataOffset = uint64(h.ExtHeaderOffset) + uint64(eh.ExtHeaderSize)
	}
	h.DataOffset = align8(h.DataOffset)
	return &h, nil
}

func align8(n uint64) uint64 {
	return (n + 7) &^ 7
}

// WalkVolumes repeatedly searches data for firmware-volume headers and
// returns one Span per volume found, each covering that volume's full
// Length. Parse failures at a candidate signature are treated as a false
// positive: the walk resumes 8 bytes past it rather than aborting.
func WalkVolumes(data []byte) []Span {
	var spans []Span
	pos := 0
	for pos < len(data) {
		idx := findVolumeOffset(data[pos:])
		if idx < 0 {
			break
		}
		abs := pos + int(idx)
		if abs < 0 {
			pos += 8
			continue
		}
		if abs >= len(data) {
			break
		}
		h, err := parseHeader(data[abs:])
		// The candidate's signature sits 40 bytes past abs and
		// findVolumeOffset only looks from 32 bytes into its window, so
		// restarting at abs+16 resumes the search 8 bytes past the signature.
		if err != nil {
			pos = abs + 16
			continue
		}
		end := abs + int(h.Length)
		if end > len(data) {
			pos = abs + 16
			continue
		}
		spans = append(spans, Span{
			Offset: abs,
			Length: int(h.Length),
			Name:   h.FVName.String(),
			GUID:   h.FileSystemGUID,
			Data:   data[abs:end],
		})
		pos = end
	}
	return spans
}
