// Copyright 2024 the gpiotab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flashdesc implements the Region Extractor: it locates the Intel
// Flash Descriptor inside a raw flash image and carves out the BIOS
// region's bytes, applying whatever platform.Profile.IFDQuirk the selected
// platform needs to decode the region table's true location.
package flashdesc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/linuxboot/gpiotab/pkg/gplog"
	"github.com/linuxboot/gpiotab/pkg/platform"
)

// FlashSignature is the sequence of bytes that marks the start of the Intel
// Flash Descriptor.
var FlashSignature = []byte{0x5A, 0xA5, 0xF0, 0x0F}

const flashSignatureLength = 4

var (
	// ErrNotDescriptorFormatted means neither the PCH (offset 16) nor the
	// legacy ICH (offset 0) flash-signature location matched.
	ErrNotDescriptorFormatted = errors.New("flashdesc: flash signature not found, image is not descriptor-formatted")
	// ErrUnsupportedPlatform means the selected platform.Profile has no
	// IFDQuirk, so the descriptor map can't be decoded at all.
	ErrUnsupportedPlatform = errors.New("flashdesc: platform has no IFD quirk selected")
	// ErrDescriptorPlatformMismatch means the region table location or BIOS
	// region bounds the quirk resolved don't fit inside the image. This
	// usually means the wrong platform tag was passed for this image.
	ErrDescriptorPlatformMismatch = errors.New("flashdesc: resolved region table or BIOS region bounds do not fit the image")
)

// FindSignature locates the Intel flash signature and returns the offset
// where the Flash Descriptor Map begins, immediately after it. PCH-era
// chipsets reserve the first 16 bytes and place the signature at offset 16;
// older ICH8/9/10 images place it at offset 0.
func FindSignature(buf []byte) (int, error) {
	if len(buf) < 20 {
		return -1, fmt.Errorf("%w: image too small (%d bytes)", ErrNotDescriptorFormatted, len(buf))
	}
	if bytes.Equal(buf[16:16+flashSignatureLength], FlashSignature) {
		return 20, nil
	}
	if bytes.Equal(buf[:flashSignatureLength], FlashSignature) {
		return flashSignatureLength, nil
	}
	return -1, ErrNotDescriptorFormatted
}

// FlashImage is a parsed Intel flash image: enough of the Flash Descriptor
// to know where the BIOS region lives.
type FlashImage struct {
	Data            []byte
	DescriptorStart int
	RegionBase      uint8
	MasterBase      uint8
	BIOSRegion      Region
}

// Parse locates the Flash Descriptor in data, applies prof's IFD quirk to
// find the region table, and extracts the BIOS region's bounds. It does not
// validate any other region (ME, GbE, ...): gpiotab's pipeline never reads
// them.
func Parse(data []byte, prof platform.Profile) (*FlashImage, error) {
	if prof.IFDQuirk == nil {
		return nil, ErrUnsupportedPlatform
	}

	descStart, err := FindSignature(data)
	if err != nil {
		return nil, err
	}
	if descStart+4 > len(data) {
		return nil, fmt.Errorf("%w: descriptor map truncated", ErrNotDescriptorFormatted)
	}
	flmap0 := binary.LittleEndian.Uint32(data[descStart : descStart+4])
	regionBase, masterBase := prof.IFDQuirk(flmap0)
	gplog.Infof("flashdesc: platform=%s region_table_block=%#x master_table_block=%#x", prof.Tag, regionBase, masterBase)

	regionTableStart := int(regionBase)*0x10 + regionTableHeaderSize
	if regionTableStart < 0 || regionTableStart+4 > len(data) {
		return nil, fmt.Errorf("%w: region table at block %#x is out of bounds", ErrDescriptorPlatformMismatch, regionBase)
	}

	bios, err := decodeRegion(data[regionTableStart : regionTableStart+4])
	if err != nil {
		return nil, err
	}
	if !bios.Valid() {
		return nil, fmt.Errorf("%w: BIOS region %v is not valid", ErrDescriptorPlatformMismatch, bios)
	}
	if uint64(bios.EndOffset()) > uint64(len(data)) {
		return nil, fmt.Errorf("%w: BIOS region end %#x exceeds image size %#x", ErrDescriptorPlatformMismatch, bios.EndOffset(), len(data))
	}

	return &FlashImage{
		Data:            data,
		DescriptorStart: descStart,
		RegionBase:      regionBase,
		MasterBase:      masterBase,
		BIOSRegion:      bios,
	}, nil
}

// BIOS returns the BIOS region's bytes.
func (f *FlashImage) BIOS() []byte {
	return f.Data[f.BIOSRegion.BaseOffset():f.BIOSRegion.EndOffset()]
}
