// Copyright 2024 the gpiotab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package calibrator

import (
	"errors"

	"github.com/linuxboot/gpiotab/pkg/detector"
	"github.com/linuxboot/gpiotab/pkg/platform"
	"github.com/linuxboot/gpiotab/pkg/refheader"
)

// ErrNoPhysicalTableFound is returned when no surviving candidate
// classifies as PHYSICAL. It is not a fatal pipeline error: cmds/gpiotab
// reports it and still exits 0, since "the image genuinely carries no
// physical pad table" is a legitimate answer, not a crash.
var ErrNoPhysicalTableFound = errors.New("calibrator: no candidate classified as PHYSICAL")

// Candidate is one classified, named, and scored surviving table.
type Candidate struct {
	Table          detector.Table
	Classification Classification
	Pads           []NamedPad
	Score          int
}

// Rejected is a candidate table that reached the Calibrator but matched no
// classification band.
type Rejected struct {
	Table  detector.Table
	Reason string
}

// Result is the Calibrator's final output: at most one winner per
// classification, plus every table it rejected along the way.
type Result struct {
	Winners  map[Classification]Candidate
	Rejected []Rejected
}

// Calibrate classifies every surviving table, names its pads from prof's
// pad-group layout, scores it against ref (nil means unscored), and
// selects at most one winner per classification. Tables whose entry count
// matches no band are recorded in Result.Rejected rather than discarded
// silently.
//
// Calibrate returns ErrNoPhysicalTableFound alongside a non-nil Result
// when every table failed to classify as PHYSICAL or no tables were
// supplied at all; callers that only care about the physical table can
// treat this as the expected "not present" signal.
func Calibrate(tables []detector.Table, prof platform.Profile, ref refheader.Reference) (*Result, error) {
	result := &Result{Winners: map[Classification]Candidate{}}

	byClass := map[Classification][]Candidate{}
	for _, t := range tables {
		c, ok := classify(t, prof)
		if !ok {
			result.Rejected = append(result.Rejected, Rejected{
				Table:  t,
				Reason: "entry count matches no classification band",
			})
			continue
		}
		named := namePads(t.Entries, groupsFor(c, prof))
		byClass[c] = append(byClass[c], Candidate{
			Table:          t,
			Classification: c,
			Pads:           named,
			Score:          score(named, ref),
		})
	}

	for c, candidates := range byClass {
		result.Winners[c] = selectWinner(candidates)
	}

	if _, ok := result.Winners[Physical]; !ok {
		return result, ErrNoPhysicalTableFound
	}
	return result, nil
}

// selectWinner picks the best of a non-empty slice of same-class
// candidates by (score desc, entry count desc, offset asc), in that order.
func selectWinner(candidates []Candidate) Candidate {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if better(c, best) {
			best = c
		}
	}
	return best
}

func better(a, b Candidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Table.EntryCount() != b.Table.EntryCount() {
		return a.Table.EntryCount() > b.Table.EntryCount()
	}
	return a.Table.Offset < b.Table.Offset
}
