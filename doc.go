// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/xtm

/*
Package xtm discovers, verifies, and reassembles split archives produced
by the Xtremsplit file splitter (part sets named <base>.001.<ext>,
<base>.002.<ext>, ...). It is designed for streaming workflows: parts are
read in fixed-size blocks and payload is never loaded into memory whole.

Format rules (summary):
  - only the first part carries the fixed 104-byte archive header;
  - only the last part carries the checksum manifest trailer
    (one 32-char uppercase hex record per part, in part order);
  - every part except the last is digested whole, header included;
    the last part is digested without its trailing manifest;
  - ascending case-insensitive name order equals numeric part order.

# Joining

Reassemble the original file from any part of the set:

	res, err := xtm.JoinFile(ctx, "movie.001.xtm", xtm.JoinFileOptions{})
	if err != nil {
	    return err
	}
	fmt.Println(res.Path, res.Written)

JoinFile verifies checksums first whenever the header declares them.
Skip verification, or redirect the output, through the nested options:

	res, err := xtm.JoinFile(ctx, "movie.001.xtm", xtm.JoinFileOptions{
	    SkipVerify: true,
	    Join: xtm.JoinOptions{
	        OutputDir: "restored/",
	        Atomic:    true,
	    },
	})

# Inspecting

Open resolves the part set without reading any payload:

	a, err := xtm.Open("movie.001.xtm")
	if err != nil {
	    return err
	}
	fmt.Println(a.Header.Filename, a.Header.PartCount, a.Header.PayloadSize)
	for _, p := range a.Parts {
	    fmt.Println(p.Path, p.Role, p.PayloadLen())
	}

Lower-level parsing helpers work on single files and raw buffers:
ReadHeader, ReadManifest, ParsePartName, PayloadRange.

# Verifying

Check every part against the manifest without writing anything:

	if err := a.Verify(ctx, xtm.VerifyOptions{Workers: 4}); err != nil {
	    return err
	}

Verification fails fast on a part count mismatch and otherwise reports
the first mismatching part by path. Workers above one digest disjoint
parts concurrently with the same reported outcome. The digest scheme is
pluggable for manifests produced by non-standard splitters:

	err = a.Verify(ctx, xtm.VerifyOptions{Digest: xtm.DigestBLAKE2b128})

# Progress

Join reports cumulative fractions of the declared payload size after
every block through an injected sink. Bar renders them as a fixed-width
terminal bar; any func(float64) can be a sink via ProgressFunc:

	bar := xtm.NewBar(xtm.BarOptions{Total: a.Header.PayloadSize})
	res, err := a.Join(ctx, xtm.JoinOptions{Progress: bar})
	bar.Finish()

# Scanning

Find every archive first part under a directory, with optional
include/exclude rules from github.com/woozymasta/pathrules:

	paths, err := xtm.ScanDir("downloads/", xtm.ScanOptions{
	    Rules: []pathrules.Rule{
	        {Action: pathrules.ActionExclude, Pattern: "*.tmp.*"},
	    },
	})
*/
package xtm
