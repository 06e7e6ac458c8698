// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/xtm

package xtm

import "fmt"

// PayloadRange computes the payload byte range [start, end) of one part:
// first parts exclude the 104-byte header, last parts exclude the trailing
// manifest, middle parts stream whole. A single-part archive is both first
// and last and both adjustments apply unconditionally. manifestLen is zero
// when the archive carries no checksums.
//
// Returns ErrInvalidRange when the resulting range has negative length, that
// is when the raw file is too small to contain its declared header or trailer.
func PayloadRange(size int64, role Role, manifestLen int64) (start, end int64, err error) {
	end = size
	if role.IsFirst() {
		start = headerSize
	}
	if role.IsLast() {
		end = size - manifestLen
	}

	if end < start {
		return 0, 0, fmt.Errorf("%w: [%d, %d) in %d-byte %s part", ErrInvalidRange, start, end, size, role)
	}

	return start, end, nil
}

// resolveParts fills the payload ranges of all parts in place.
func resolveParts(parts []Part, manifestLen int64) error {
	for i := range parts {
		start, end, err := PayloadRange(parts[i].Size, parts[i].Role, manifestLen)
		if err != nil {
			return fmt.Errorf("%s: %w", parts[i].Path, err)
		}

		parts[i].Start, parts[i].End = start, end
	}

	return nil
}
