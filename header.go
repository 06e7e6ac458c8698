// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/xtm

package xtm

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ParseHeader decodes the fixed 104-byte archive header from the first part.
// Only the first 104 bytes of buf are consumed. String length bytes are not
// validated against their 39/50-byte field windows; reads are clamped to the
// header so a hostile length cannot reach past it, but no error is raised and
// callers must not rely on overflow protection.
func ParseHeader(buf []byte) (Header, error) {
	if len(buf) < headerSize {
		return Header{}, fmt.Errorf("%w: got %d of %d bytes", ErrTruncatedHeader, len(buf), headerSize)
	}
	buf = buf[:headerSize]

	h := Header{
		Software:    headerString(buf, headerNameOffset),
		Filename:    headerString(buf, headerFileOffset),
		Checksums:   buf[headerFlagOffset] != 0,
		PartCount:   binary.LittleEndian.Uint32(buf[headerCountMark : headerCountMark+4]),
		PayloadSize: binary.LittleEndian.Uint64(buf[headerSizeMark : headerSizeMark+8]),
	}
	if h.PartCount == 0 {
		return Header{}, fmt.Errorf("%w: declared part count is zero", ErrInvalidHeader)
	}

	return h, nil
}

// ReadHeaderFromReaderAt reads the archive header from a random-access source.
func ReadHeaderFromReaderAt(ra io.ReaderAt, size int64) (Header, error) {
	if ra == nil {
		return Header{}, ErrNilReader
	}
	if size < headerSize {
		return Header{}, fmt.Errorf("%w: part is %d of %d bytes", ErrTruncatedHeader, size, headerSize)
	}

	buf := make([]byte, headerSize)
	if _, err := ra.ReadAt(buf, 0); err != nil {
		return Header{}, fmt.Errorf("read header: %w", err)
	}

	return ParseHeader(buf)
}

// ReadHeader opens the first part and reads the archive header.
func ReadHeader(path string) (Header, error) {
	f, size, err := openFileWithSize(path)
	if err != nil {
		return Header{}, err
	}
	defer func() { _ = f.Close() }()

	h, err := ReadHeaderFromReaderAt(f, size)
	if err != nil {
		return Header{}, fmt.Errorf("%s: %w", path, err)
	}

	return h, nil
}

// headerString decodes one length-prefixed text field: a 1-byte length at
// offset followed by that many bytes of Latin-1 text.
func headerString(buf []byte, offset int) string {
	n := int(buf[offset])
	start := offset + 1
	end := start + n
	if end > len(buf) {
		end = len(buf)
	}

	return decodeLatin1(buf[start:end])
}

// decodeLatin1 maps raw single-byte text to the equivalent Unicode code
// points. The decoding is total: every byte sequence is representable.
func decodeLatin1(b []byte) string {
	out := make([]rune, len(b))
	for i, c := range b {
		out[i] = rune(c)
	}

	return string(out)
}
