// Copyright 2024 the gpiotab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fwvolume implements the Module Enumerator: it walks the BIOS
// region for UEFI firmware-volume headers and produces the set of candidate
// byte spans the Table Detector scans. A span is either the whole BIOS
// region (the always-present fallback), a firmware volume's own bytes, or
// the decompressed payload of a GUIDed compressed section found inside one.
package fwvolume

import "github.com/linuxboot/gpiotab/pkg/guid"

// Span is one candidate byte range the Table Detector will scan. Name and
// GUID are diagnostic only; detection never depends on them.
type Span struct {
	Offset int
	Length int
	Name   string
	GUID   guid.GUID
	Data   []byte
}
