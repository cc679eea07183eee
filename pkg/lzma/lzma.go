// Copyright 2024 the gpiotab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lzma decodes the LZMA stream format used inside Tiano GUIDed
// firmware-volume sections. gpiotab only ever decodes: it extracts a
// candidate pad table's bytes out of a compressed FSP/PEI module, it never
// writes firmware back out. Encode exists only so tests (this package's and
// pkg/fwvolume's) can build round-trip fixtures without a testdata corpus.
package lzma

import (
	"bytes"
	"io"

	"github.com/ulikunitz/xz/lzma"
)

// Decode decompresses an LZMA stream with the header layout EDK2-derived
// firmware uses: a known size written into the header rather than an
// end-of-stream marker.
func Decode(encoded []byte) ([]byte, error) {
	r, err := lzma.NewReader(bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

// Encode compresses decoded with the same header layout Decode expects.
func Encode(decoded []byte) ([]byte, error) {
	wc := lzma.WriterConfig{
		SizeInHeader: true,
		Size:         int64(len(decoded)),
		EOSMarker:    false,
	}
	if err := wc.Verify(); err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	w, err := wc.NewWriter(buf)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(w, bytes.NewReader(decoded)); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
