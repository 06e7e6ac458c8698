// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/xtm

package xtm

import "errors"

// Sentinel errors for split-archive operations. Use errors.Is in callers.
var (
	// ErrInvalidName means the file name does not match the <base>.<NNN>.<ext> part pattern.
	ErrInvalidName = errors.New("file name does not match part naming pattern")
	// ErrTruncatedHeader means the first part is shorter than the 104-byte archive header.
	ErrTruncatedHeader = errors.New("part too short for archive header")
	// ErrInvalidHeader means the header is structurally impossible (zero part count).
	ErrInvalidHeader = errors.New("invalid archive header")
	// ErrTruncatedTrailer means the last part is shorter than the checksum manifest.
	ErrTruncatedTrailer = errors.New("last part too short for checksum manifest")
	// ErrInvalidRange means a resolved payload range has negative length.
	ErrInvalidRange = errors.New("payload range has negative length")
	// ErrPartCountMismatch means the located part count disagrees with the manifest.
	ErrPartCountMismatch = errors.New("part count disagrees with manifest")
	// ErrChecksumMismatch means a part digest disagrees with its manifest record.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrShortRead means a part ended before its payload range was exhausted.
	ErrShortRead = errors.New("part ended before payload range was exhausted")
	// ErrSizeMismatch means the combined payload ranges disagree with the declared payload size.
	ErrSizeMismatch = errors.New("combined payload size disagrees with header")
	// ErrUnknownDigest means the digest scheme is not registered.
	ErrUnknownDigest = errors.New("unknown digest scheme")
	// ErrNilReader means the reader is nil.
	ErrNilReader = errors.New("reader is nil")
	// ErrInvalidScanPattern means one or more scan rules are invalid.
	ErrInvalidScanPattern = errors.New("invalid scan rules")
)
