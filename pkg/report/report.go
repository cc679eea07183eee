// Copyright 2024 the gpiotab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report renders a Calibrator Result as structured JSON. It is an
// external collaborator, not a core component: nothing in pkg/detector,
// pkg/validator, or pkg/calibrator depends on it.
package report

import (
	"encoding/json"
	"io"

	"github.com/linuxboot/gpiotab/pkg/calibrator"
	"github.com/linuxboot/gpiotab/pkg/detector"
)

// Pad is one named, decoded pad in a reported table.
type Pad struct {
	Name        string `json:"name"`
	Mode        string `json:"mode"`
	ResetDomain string `json:"reset_domain"`
	Direction   string `json:"direction,omitempty"`
	DW0         uint32 `json:"dw0"`
	DW1         uint32 `json:"dw1"`
}

// Table is one winning candidate, rendered for output.
type Table struct {
	Classification string `json:"classification"`
	Offset         int    `json:"offset"`
	EntrySize      int    `json:"entry_size"`
	EntryCount     int    `json:"entry_count"`
	Origin         string `json:"origin"`
	Score          int    `json:"score"`
	Pads           []Pad  `json:"pads"`
}

// RejectedTable is a candidate the Calibrator could not classify.
type RejectedTable struct {
	Offset     int    `json:"offset"`
	EntrySize  int    `json:"entry_size"`
	EntryCount int    `json:"entry_count"`
	Reason     string `json:"reason"`
}

// Document is the top-level JSON report shape.
type Document struct {
	Tables   []Table         `json:"tables"`
	Rejected []RejectedTable `json:"rejected"`
}

func originString(o detector.Origin) string {
	if o == detector.OriginSignature {
		return "signature"
	}
	return "vgpio"
}

// FromResult converts a Calibrator Result into a Document.
func FromResult(result *calibrator.Result) Document {
	doc := Document{}
	for _, class := range calibrator.Order {
		if c, ok := result.Winners[class]; ok {
			doc.Tables = append(doc.Tables, tableFromCandidate(c))
		}
	}
	for _, r := range result.Rejected {
		doc.Rejected = append(doc.Rejected, RejectedTable{
			Offset:     r.Table.Offset,
			EntrySize:  r.Table.EntrySize,
			EntryCount: r.Table.EntryCount(),
			Reason:     r.Reason,
		})
	}
	return doc
}

func tableFromCandidate(c calibrator.Candidate) Table {
	t := Table{
		Classification: c.Classification.String(),
		Offset:         c.Table.Offset,
		EntrySize:      c.Table.EntrySize,
		EntryCount:     c.Table.EntryCount(),
		Origin:         originString(c.Table.Origin),
		Score:          c.Score,
	}
	for _, p := range c.Pads {
		pd := Pad{
			Name:        string(p.Name),
			Mode:        p.Descriptor.Mode.String(),
			ResetDomain: p.Descriptor.ResetDomain.String(),
			DW0:         p.Descriptor.DW0,
			DW1:         p.Descriptor.DW1,
		}
		if p.Descriptor.Mode == 0 {
			pd.Direction = p.Descriptor.Direction().String()
		}
		t.Pads = append(t.Pads, pd)
	}
	return t
}

// JSON writes result to w as indented JSON.
func JSON(w io.Writer, result *calibrator.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(FromResult(result))
}
