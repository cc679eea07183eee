// Copyright 2024 the gpiotab Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command gpiotab extracts Intel PCH GPIO pad configuration tables from a
// vendor UEFI firmware image and optionally renders them as a coreboot
// GPIO header.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	flag "github.com/spf13/pflag"

	"github.com/linuxboot/gpiotab/internal/pipeline"
	"github.com/linuxboot/gpiotab/pkg/calibrator"
	"github.com/linuxboot/gpiotab/pkg/emit"
	"github.com/linuxboot/gpiotab/pkg/fwvolume"
	"github.com/linuxboot/gpiotab/pkg/gplog"
	"github.com/linuxboot/gpiotab/pkg/platform"
	"github.com/linuxboot/gpiotab/pkg/refheader"
	"github.com/linuxboot/gpiotab/pkg/report"
	"github.com/linuxboot/gpiotab/pkg/workdir"
)

var errMissingRequiredFlag = errors.New("gpiotab: --platform and --input are required")

func run(stdout io.Writer, args []string) error {
	fs := flag.NewFlagSet("gpiotab", flag.ContinueOnError)
	platformTag := fs.String("platform", "", "platform tag (alderlake)")
	inputPath := fs.String("input", "", "path to the flash image")
	outputPath := fs.String("output", "", "path to write the coreboot GPIO header (optional)")
	jsonPath := fs.String("json", "", "path to write the structured JSON report (optional)")
	calibrateWith := fs.String("calibrate-with", "", "path to an optional reference header to score candidates against")
	verbose := fs.Bool("verbose", false, "print a table of the winning candidates and of the rejected candidates that matched no size band")
	unpackerPath := fs.String("unpacker", "", "UEFI volume unpacker binary (defaults to UEFIExtract on PATH)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("gpiotab: %w", err)
	}

	if *platformTag == "" || *inputPath == "" {
		return errMissingRequiredFlag
	}

	prof, ok := platform.ByTag(*platformTag)
	if !ok {
		return fmt.Errorf("gpiotab: unsupported platform %q", *platformTag)
	}

	image, err := os.ReadFile(*inputPath)
	if err != nil {
		return fmt.Errorf("gpiotab: failed to read %s: %w", *inputPath, err)
	}
	gplog.Infof("gpiotab: loaded %s image from %s", humanize.Bytes(uint64(len(image))), *inputPath)

	var ref refheader.Reference
	if *calibrateWith != "" {
		f, err := os.Open(*calibrateWith)
		if err != nil {
			return fmt.Errorf("gpiotab: failed to open reference header %s: %w", *calibrateWith, err)
		}
		defer f.Close()
		ref, err = refheader.Parse(f)
		if err != nil {
			return fmt.Errorf("gpiotab: reference header parse error: %w", err)
		}
	}

	work, err := workdir.New("")
	if err != nil {
		return fmt.Errorf("gpiotab: failed to create working directory: %w", err)
	}
	defer work.Close()

	result, err := pipeline.Run(image, pipeline.Config{
		Profile:   prof,
		Unpacker:  fwvolume.ExternalUnpacker{ToolPath: *unpackerPath},
		WorkDir:   work.Path(),
		Reference: ref,
	})
	if err != nil && !errors.Is(err, calibrator.ErrNoPhysicalTableFound) {
		return fmt.Errorf("gpiotab: pipeline failed: %w", err)
	}
	if errors.Is(err, calibrator.ErrNoPhysicalTableFound) {
		gplog.Warnf("gpiotab: no candidate classified as PHYSICAL")
	}

	if *verbose {
		printSummary(stdout, result)
	}

	if *jsonPath != "" {
		f, err := os.Create(*jsonPath)
		if err != nil {
			return fmt.Errorf("gpiotab: failed to create %s: %w", *jsonPath, err)
		}
		defer f.Close()
		if err := report.JSON(f, result); err != nil {
			return fmt.Errorf("gpiotab: failed to write JSON report: %w", err)
		}
	}

	if *outputPath != "" {
		f, err := os.Create(*outputPath)
		if err != nil {
			return fmt.Errorf("gpiotab: failed to create %s: %w", *outputPath, err)
		}
		defer f.Close()
		if err := emit.CorebootHeader(f, result); err != nil {
			return fmt.Errorf("gpiotab: failed to write coreboot header: %w", err)
		}
	}

	return nil
}

func printSummary(stdout io.Writer, result *calibrator.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(stdout)
	t.AppendHeader(table.Row{"classification", "offset", "entry size", "entry count", "score"})
	for _, class := range calibrator.Order {
		c, ok := result.Winners[class]
		if !ok {
			continue
		}
		t.AppendRow(table.Row{c.Classification, fmt.Sprintf("%#x", c.Table.Offset), c.Table.EntrySize, c.Table.EntryCount(), c.Score})
	}
	t.Render()

	if len(result.Rejected) == 0 {
		return
	}
	rt := table.NewWriter()
	rt.SetOutputMirror(stdout)
	rt.AppendHeader(table.Row{"offset", "entry size", "entry count", "reason"})
	for _, r := range result.Rejected {
		rt.AppendRow(table.Row{fmt.Sprintf("%#x", r.Table.Offset), r.Table.EntrySize, r.Table.EntryCount(), r.Reason})
	}
	rt.Render()
}

func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		gplog.Errorf("%v", err)
		os.Exit(1)
	}
}
