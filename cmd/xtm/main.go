// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/xtm

// Command xtm verifies and reassembles split archives produced by the
// Xtremsplit file splitter.
//
// Usage:
//
//	xtm [flags] <part-or-directory>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/woozymasta/pathrules"
	"github.com/woozymasta/xtm"
)

var (
	outPath    = flag.String("o", "", "output path override (single archive only)")
	outDir     = flag.String("C", "", "write the output file under this directory")
	quiet      = flag.Bool("q", false, "suppress the progress bar")
	verifyOnly = flag.Bool("verify", false, "verify checksums only, join nothing")
	infoOnly   = flag.Bool("info", false, "print header metadata and the part table")
	skipVerify = flag.Bool("skip-verify", false, "join without the checksum pass")
	digestName = flag.String("digest", "md5", "manifest digest scheme: md5 or blake2b128")
	workers    = flag.Int("workers", 1, "concurrent digest workers")
	atomicSave = flag.Bool("atomic", false, "write through a temporary file, rename on success")

	rules  []pathrules.Rule
	scheme xtm.Digest
)

func main() {
	flag.Usage = usage
	flag.Func("include", "include pattern for directory mode (repeatable)", func(p string) error {
		rules = append(rules, pathrules.Rule{Action: pathrules.ActionInclude, Pattern: p})
		return nil
	})
	flag.Func("exclude", "exclude pattern for directory mode (repeatable)", func(p string) error {
		rules = append(rules, pathrules.Rule{Action: pathrules.ActionExclude, Pattern: p})
		return nil
	})
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	var err error
	scheme, err = xtm.ParseDigest(*digestName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "xtm: %v\n", err)
		os.Exit(2)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "xtm: %v\n", err)
		os.Exit(1)
	}
}

// usage prints the command synopsis and flag defaults to stderr.
func usage() {
	fmt.Fprint(os.Stderr, `xtm reassembles split archives produced by Xtremsplit.

Usage:

  xtm [flags] <part-or-directory>

The argument is any part of a split set (movie.001.xtm) or a directory
to scan for first parts. Flags:

`)
	flag.PrintDefaults()
}

// run dispatches on the positional argument: a single part joins one
// archive, a directory processes every archive found under it.
func run(target string) error {
	fi, err := os.Stat(target)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if !fi.IsDir() {
		return runOne(ctx, target)
	}

	if *outPath != "" {
		fmt.Fprintln(os.Stderr, "xtm: -o requires a single archive argument")
		os.Exit(2)
	}

	return runDir(ctx, target)
}

// runDir scans a directory for archive first parts and processes each
// in turn; failures are reported per archive and folded into one error.
func runDir(ctx context.Context, dir string) error {
	paths, err := xtm.ScanDir(dir, xtm.ScanOptions{Rules: rules})
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no archives found under %s", dir)
	}

	var failed int
	for _, p := range paths {
		if err := runOne(ctx, p); err != nil {
			fmt.Fprintf(os.Stderr, "xtm: %v\n", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d archives failed", failed, len(paths))
	}

	return nil
}

// runOne opens the part set and performs the selected operation on it.
func runOne(ctx context.Context, path string) error {
	a, err := xtm.Open(path)
	if err != nil {
		return err
	}

	if *infoOnly {
		printInfo(a)
		return nil
	}

	vopts := xtm.VerifyOptions{Digest: scheme, Workers: *workers}

	if *verifyOnly {
		if !a.Header.Checksums {
			fmt.Printf("%s: no checksum manifest declared\n", path)
			return nil
		}
		if err := a.Verify(ctx, vopts); err != nil {
			return err
		}
		fmt.Printf("%s: %d parts verified\n", path, len(a.Parts))

		return nil
	}

	if !*skipVerify && a.Header.Checksums {
		if err := a.Verify(ctx, vopts); err != nil {
			return err
		}
	}

	jopts := xtm.JoinOptions{
		OutputPath: *outPath,
		OutputDir:  *outDir,
		Atomic:     *atomicSave,
	}

	var bar *xtm.Bar
	if !*quiet {
		bar = xtm.NewBar(xtm.BarOptions{Total: a.Header.PayloadSize})
		jopts.Progress = bar
	}

	res, err := a.Join(ctx, jopts)
	if err != nil {
		if bar != nil {
			fmt.Fprintln(os.Stderr)
		}
		return err
	}
	if bar != nil {
		bar.Finish()
	}
	fmt.Printf("%s: %s in %s\n",
		res.Path, humanize.Bytes(uint64(res.Written)), res.Duration.Round(time.Millisecond))

	return nil
}

// printInfo dumps header metadata and the located part table.
func printInfo(a *xtm.Archive) {
	h := a.Header
	fmt.Printf("output:    %s\n", h.Filename)
	fmt.Printf("software:  %s\n", h.Software)
	fmt.Printf("parts:     %d\n", h.PartCount)
	fmt.Printf("payload:   %s (%d bytes)\n", humanize.Bytes(h.PayloadSize), h.PayloadSize)
	fmt.Printf("checksums: %v\n", h.Checksums)
	for i := range a.Parts {
		p := &a.Parts[i]
		fmt.Printf("  %03d %-6s %12d %12d  %s\n",
			p.Index, p.Role.String(), p.Size, p.PayloadLen(), p.Path)
	}
}
