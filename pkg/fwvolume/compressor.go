// Copyright 2024 the gpiotab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fwvolume

import (
	"bytes"
	"io"

	"github.com/linuxboot/gpiotab/pkg/guid"
	"github.com/linuxboot/gpiotab/pkg/lzma"
	"github.com/pierrec/lz4"
)

// Compressor decodes one GUIDed-section compression scheme. gpiotab never
// writes firmware back out, so only Decode is part of the interface.
type Compressor interface {
	Name() string
	Decode(encoded []byte) ([]byte, error)
}

// Well-known GUIDs for GUIDed sections containing compressed data that
// gpiotab's enumerator is able to decode in-process.
var (
	// LZMAGUID is the Tiano-compressed-section GUID used throughout EDK2
	// firmware volumes.
	LZMAGUID = *guid.MustParse("EE4E5898-3914-4259-9D6E-DC7BD79403CF")

	// LZ4GUID identifies an OEM reference-code GUIDed section carrying raw
	// LZ4 block data. It is rarer than LZMAGUID but appears in some PEI
	// module volumes that prioritize decompression speed.
	LZ4GUID = *guid.MustParse("9D471E87-EACF-4A98-9C6F-BB26758E1F2E")
)

// CompressorFromGUID returns the Compressor for a GUIDed section, or nil if
// the section type isn't one gpiotab can decode in-process. A nil return is
// not an error: the enumerator falls back to treating the section as an
// opaque span for the external Unpacker.
func CompressorFromGUID(g guid.GUID) Compressor {
	switch g {
	case LZMAGUID:
		return &lzmaCompressor{}
	case LZ4GUID:
		return &lz4Compressor{}
	}
	return nil
}

type lzmaCompressor struct{}

func (c *lzmaCompressor) Name() string { return "LZMA" }

func (c *lzmaCompressor) Decode(encoded []byte) ([]byte, error) {
	return lzma.Decode(encoded)
}

type lz4Compressor struct{}

func (c *lz4Compressor) Name() string { return "LZ4" }

func (c *lz4Compressor) Decode(encoded []byte) ([]byte, error) {
	return io.ReadAll(lz4.NewReader(bytes.NewReader(encoded)))
}
