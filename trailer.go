// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/xtm

package xtm

import (
	"fmt"
	"io"
)

// ReadManifestFromReaderAt reads the checksum manifest from the tail of the
// last part: partCount consecutive 32-byte ASCII digest records occupying the
// final 32*partCount bytes of the file, first record belonging to part 1.
// Returns ErrTruncatedTrailer when the file is shorter than the manifest.
func ReadManifestFromReaderAt(ra io.ReaderAt, size int64, partCount uint32) (Manifest, error) {
	if ra == nil {
		return nil, ErrNilReader
	}

	manifestLen := int64(partCount) * digestHexLen
	if size < manifestLen {
		return nil, fmt.Errorf("%w: manifest needs %d bytes, part is %d", ErrTruncatedTrailer, manifestLen, size)
	}

	buf := make([]byte, manifestLen)
	if _, err := ra.ReadAt(buf, size-manifestLen); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	records := make(Manifest, 0, partCount)
	for off := int64(0); off < manifestLen; off += digestHexLen {
		records = append(records, string(buf[off:off+digestHexLen]))
	}

	return records, nil
}

// ReadManifest opens the last part and reads its checksum manifest.
// The file is read through ReadAt only: the handle's read cursor stays at
// position 0, so the part remains directly usable for payload extraction.
func ReadManifest(path string, partCount uint32) (Manifest, error) {
	f, size, err := openFileWithSize(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	m, err := ReadManifestFromReaderAt(f, size, partCount)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}
