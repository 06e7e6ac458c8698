// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/xtm

package xtm

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Join streams the payload range of every part, in ascending order, into the
// destination file, truncating existing content. The destination defaults to
// the header-declared output filename in the current working directory;
// OutputPath or OutputDir override it. After every written block the
// cumulative fraction of the header-declared payload size is reported to the
// progress sink.
//
// A part yielding fewer bytes than its resolved range fails with ErrShortRead
// naming that part. Unless IgnoreDeclaredSize is set, Join refuses to start
// when the combined payload ranges disagree with the declared payload size
// (ErrSizeMismatch), which catches missing parts even without checksums. On
// failure a partially written destination is left in place; in Atomic mode
// the write goes to a temporary sibling that is renamed onto the destination
// only on full success and removed otherwise.
//
// The assembled output is not checksummed: correctness relies on the
// pre-assembly Verify pass and exact boundary arithmetic.
func (a *Archive) Join(ctx context.Context, opts JoinOptions) (JoinResult, error) {
	var res JoinResult
	if a == nil {
		return res, ErrNilReader
	}

	opts.applyDefaults()

	if !opts.IgnoreDeclaredSize {
		total := a.PayloadTotal()
		if total < 0 || uint64(total) != a.Header.PayloadSize {
			return res, fmt.Errorf("%w: parts carry %d payload bytes, header declares %d",
				ErrSizeMismatch, total, a.Header.PayloadSize)
		}
	}

	dest, err := resolveOutputPath(a.Header.Filename, opts)
	if err != nil {
		return res, err
	}

	writePath := dest
	if opts.Atomic {
		writePath = dest + ".partial"
	}

	started := time.Now()
	out, err := os.OpenFile(writePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return res, fmt.Errorf("create output: %w", err)
	}

	written, joinErr := a.streamParts(ctx, out, opts)
	res.Written = written

	if joinErr == nil {
		joinErr = out.Sync()
	}
	if closeErr := out.Close(); joinErr == nil {
		joinErr = closeErr
	}

	if joinErr != nil {
		if opts.Atomic {
			_ = os.Remove(writePath)
		}

		return res, joinErr
	}

	if opts.Atomic {
		if err := os.Rename(writePath, dest); err != nil {
			_ = os.Remove(writePath)
			return res, fmt.Errorf("finalize output: %w", err)
		}
	}

	res.Path = dest
	res.Duration = time.Since(started)

	return res, nil
}

// streamParts copies all payload ranges to out and drives the progress sink.
func (a *Archive) streamParts(ctx context.Context, out *os.File, opts JoinOptions) (int64, error) {
	buf := make([]byte, opts.BlockSize)
	denom := a.Header.PayloadSize

	var written int64
	onBlock := func(n int64) {
		written += n
		if opts.Progress != nil && denom > 0 {
			opts.Progress.Update(float64(written) / float64(denom))
		}
	}

	for i := range a.Parts {
		if err := joinPart(ctx, out, a.Parts[i], buf, onBlock); err != nil {
			return written, err
		}
	}

	return written, nil
}

// joinPart streams one part's payload range into out in block-sized reads.
// The part handle is scoped to this call and released on every path.
func joinPart(ctx context.Context, out *os.File, part Part, buf []byte, onBlock func(int64)) error {
	f, err := os.Open(part.Path)
	if err != nil {
		return fmt.Errorf("open part: %w", err)
	}
	defer func() { _ = f.Close() }()

	src := io.NewSectionReader(f, part.Start, part.PayloadLen())
	want := part.PayloadLen()

	var copied int64
	for copied < want {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		chunk := int64(len(buf))
		if chunk > want-copied {
			chunk = want - copied
		}

		readN, readErr := src.Read(buf[:chunk])
		if readN > 0 {
			writeN, writeErr := out.Write(buf[:readN])
			copied += int64(writeN)

			if writeErr != nil {
				return fmt.Errorf("write output: %w", writeErr)
			}
			if writeN != readN {
				return io.ErrShortWrite
			}

			onBlock(int64(writeN))
		}

		if readErr != nil {
			if readErr == io.EOF && copied == want {
				break
			}
			if readErr == io.EOF || readErr == io.ErrUnexpectedEOF {
				return fmt.Errorf("%w: %s", ErrShortRead, part.Path)
			}

			return fmt.Errorf("read part %s: %w", part.Path, readErr)
		}
		if readN == 0 {
			return fmt.Errorf("read part %s: %w", part.Path, io.ErrNoProgress)
		}
	}

	return nil
}

// resolveOutputPath picks the join destination: an explicit override, or the
// header-declared name reduced to a safe base name, optionally under a
// directory.
func resolveOutputPath(declared string, opts JoinOptions) (string, error) {
	if opts.OutputPath != "" {
		return opts.OutputPath, nil
	}

	name := sanitizeOutputName(declared)
	if name == "" {
		return "", fmt.Errorf("%w: unusable output filename %q", ErrInvalidHeader, declared)
	}

	dir := opts.OutputDir
	if dir == "" {
		dir = "."
	}

	return filepath.Join(dir, name), nil
}

// sanitizeOutputName reduces a header-declared filename to a safe base name:
// both separator flavors are honored, directory components and control bytes
// are dropped. Returns "" when nothing usable remains.
func sanitizeOutputName(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.ReplaceAll(raw, `\`, `/`)
	raw = raw[strings.LastIndexByte(raw, '/')+1:]

	var b strings.Builder
	for _, r := range raw {
		if r < 0x20 || r == 0x7f {
			continue
		}

		b.WriteRune(r)
	}

	name := b.String()
	if name == "." || name == ".." {
		return ""
	}

	return name
}
