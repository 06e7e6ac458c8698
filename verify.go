// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/xtm

package xtm

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Verify checks every part against its manifest record before assembly.
//
// Digests cover the raw file bytes of each part: the whole file for all parts
// except the last, whose digest stops before the trailing manifest (this
// includes the 104-byte header of part 1, and a single-part archive hashes
// everything up to its manifest). The first mismatching part, in ascending
// part order, aborts with ErrChecksumMismatch naming its path; parts after it
// are not checked. Requires the located part count to equal the manifest
// record count, failing with ErrPartCountMismatch before any digest work.
//
// Verification is a no-op for archives without a checksum manifest.
// Workers > 1 digests disjoint parts concurrently with the same reported
// outcome as the sequential order.
func (a *Archive) Verify(ctx context.Context, opts VerifyOptions) error {
	if a == nil {
		return ErrNilReader
	}
	if !a.Header.Checksums && a.Manifest == nil {
		return nil
	}

	opts.applyDefaults()
	if err := opts.Digest.Valid(); err != nil {
		return err
	}

	if len(a.Parts) != len(a.Manifest) {
		return fmt.Errorf("%w: found %d parts, manifest declares %d",
			ErrPartCountMismatch, len(a.Parts), len(a.Manifest))
	}

	failures := make([]error, len(a.Parts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := range a.Parts {
		g.Go(func() error {
			err := a.verifyOne(gctx, i, opts)
			failures[i] = err

			return err
		})
	}

	werr := g.Wait()
	if err := ctx.Err(); err != nil {
		return err
	}

	// The lowest-indexed real failure wins. A failing part cancels the group,
	// so an earlier sibling may have been cut off mid-digest; re-check those
	// slots so concurrent runs report the same part a sequential pass would.
	for i := range failures {
		err := failures[i]
		if err == nil {
			continue
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			err = a.verifyOne(ctx, i, opts)
			if err == nil {
				continue
			}
		}

		return err
	}

	return werr
}

// verifyOne digests a single part and compares it to its manifest record.
func (a *Archive) verifyOne(ctx context.Context, i int, opts VerifyOptions) error {
	sum, err := digestPart(ctx, a.Parts[i], a.Header.ManifestLen(), opts.Digest, opts.BlockSize)
	if err != nil {
		return err
	}

	if sum != strings.ToUpper(a.Manifest[i]) {
		return fmt.Errorf("%w: %s", ErrChecksumMismatch, a.Parts[i].Path)
	}

	return nil
}

// digestPart streams one part's checksummed span through the scheme hash in
// fixed-size blocks and returns the uppercase hex sum. The span is the whole
// raw file, shortened by manifestLen for the part carrying the trailer.
func digestPart(ctx context.Context, part Part, manifestLen int64, scheme Digest, blockSize int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := os.Open(part.Path)
	if err != nil {
		return "", fmt.Errorf("open part: %w", err)
	}
	defer func() { _ = f.Close() }()

	span := part.Size
	if part.Role.IsLast() {
		span -= manifestLen
	}
	if span < 0 {
		return "", fmt.Errorf("%w: %s", ErrTruncatedTrailer, part.Path)
	}

	h, err := scheme.New()
	if err != nil {
		return "", err
	}

	buf := make([]byte, blockSize)
	var off int64
	for off < span {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		chunk := int64(len(buf))
		if chunk > span-off {
			chunk = span - off
		}

		n, readErr := f.ReadAt(buf[:chunk], off)
		if n > 0 {
			if _, writeErr := h.Write(buf[:n]); writeErr != nil {
				return "", fmt.Errorf("hash part %s: %w", part.Path, writeErr)
			}

			off += int64(n)
		}

		if readErr != nil {
			if readErr == io.EOF && off == span {
				break
			}

			return "", fmt.Errorf("read part %s: %w", part.Path, readErr)
		}
		if n == 0 {
			return "", fmt.Errorf("read part %s: %w", part.Path, io.ErrNoProgress)
		}
	}

	return strings.ToUpper(hex.EncodeToString(h.Sum(nil))), nil
}
