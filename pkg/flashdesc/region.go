// Copyright 2024 the gpiotab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flashdesc

import (
	"encoding/binary"
	"fmt"
)

// regionBlockSize is the granularity of Base/Limit in a flash region table
// entry, per the Intel Flash Descriptor layout.
const regionBlockSize = 0x1000

// regionTableHeaderSize is the width of FlashRegionSection's two reserved/
// erase-size words that precede its FlashRegions array. The BIOS region is
// always FlashRegions[0], but that array starts 4 bytes after the region
// table's own base block, not at it.
const regionTableHeaderSize = 4

// Region holds the block-granular bounds of the BIOS region. The first
// entry in the Flash Region table's FlashRegions array (immediately after
// its 4-byte reserved/erase-size header) is always the BIOS region,
// regardless of platform, so gpiotab never needs to decode the other
// region types.
type Region struct {
	Base  uint16
	Limit uint16
}

// Valid reports whether the region table entry describes a present region.
// Some images report an unprogrammed base/limit of 0xFFFF for absent
// regions rather than an all-zero entry.
func (r Region) Valid() bool {
	return r.Limit > 0 && r.Limit >= r.Base && r.Limit != 0xFFFF && r.Base != 0xFFFF
}

func (r Region) String() string {
	return fmt.Sprintf("[%#x, %#x)", r.Base, r.Limit)
}

// BaseOffset is the byte offset where the region begins.
func (r Region) BaseOffset() uint32 {
	return uint32(r.Base) * regionBlockSize
}

// EndOffset is the byte offset immediately past the region.
func (r Region) EndOffset() uint32 {
	return (uint32(r.Limit) + 1) * regionBlockSize
}

// decodeRegion reads one 4-byte {Base, Limit} region-table entry.
func decodeRegion(buf []byte) (Region, error) {
	if len(buf) < 4 {
		return Region{}, fmt.Errorf("flashdesc: region table entry truncated")
	}
	return Region{
		Base:  binary.LittleEndian.Uint16(buf[0:2]),
		Limit: binary.LittleEndian.Uint16(buf[2:4]),
	}, nil
}
