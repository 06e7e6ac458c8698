// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/xtm

package xtm

import (
	"context"
	"fmt"
	"os"
)

// Open locates every part of the archive the given path belongs to, parses
// the first part's header and, when the header declares checksums, the last
// part's manifest, then resolves the payload range of each part. The returned
// Archive is read-only.
//
// The path may point at any part; the naming pattern is derived from it.
func Open(path string) (*Archive, error) {
	parts, err := LocateParts(path)
	if err != nil {
		return nil, err
	}

	header, err := ReadHeader(parts[0].Path)
	if err != nil {
		return nil, err
	}

	a := &Archive{Header: header, Parts: parts}
	if header.Checksums {
		manifest, err := ReadManifest(parts[len(parts)-1].Path, header.PartCount)
		if err != nil {
			return nil, err
		}

		a.Manifest = manifest
	}

	if err := resolveParts(a.Parts, a.Header.ManifestLen()); err != nil {
		return nil, err
	}

	return a, nil
}

// JoinFileOptions configures the one-call reassembly flow.
type JoinFileOptions struct {
	// Verify options are applied to the pre-assembly checksum pass.
	Verify VerifyOptions `json:"verify,omitzero" yaml:"verify,omitzero"`
	// Join options are applied to the assembly pass.
	Join JoinOptions `json:"join,omitzero" yaml:"join,omitzero"`
	// SkipVerify joins without the checksum pass even when a manifest is present.
	SkipVerify bool `json:"skip_verify,omitempty" yaml:"skip_verify,omitempty"`
}

// JoinFile reassembles the archive that partPath belongs to: locate and parse
// the archive, verify part checksums when the header declares them, then join
// the payload into the destination file.
func JoinFile(ctx context.Context, partPath string, opts JoinFileOptions) (JoinResult, error) {
	a, err := Open(partPath)
	if err != nil {
		return JoinResult{}, err
	}

	if a.Header.Checksums && !opts.SkipVerify {
		if err := a.Verify(ctx, opts.Verify); err != nil {
			return JoinResult{}, err
		}
	}

	return a.Join(ctx, opts.Join)
}

// openFileWithSize opens a file and returns a handle plus current size.
func openFileWithSize(path string) (*os.File, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open part: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, fmt.Errorf("stat: %w", err)
	}

	return f, fi.Size(), nil
}
