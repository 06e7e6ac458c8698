package xtm

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

// latin1BytesForTest encodes s as Latin-1, failing on unrepresentable runes.
func latin1BytesForTest(t *testing.T, s string) []byte {
	t.Helper()
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			t.Fatalf("rune %q is not representable in Latin-1", r)
		}
		out = append(out, byte(r))
	}

	return out
}

// encodeTestHeader builds a 104-byte first-part header for fixture archives.
func encodeTestHeader(t *testing.T, software, filename string, checksums bool, partCount uint32, payloadSize uint64) []byte {
	t.Helper()

	name := latin1BytesForTest(t, software)
	file := latin1BytesForTest(t, filename)
	if len(name) > 39 {
		t.Fatalf("software name %q exceeds the 39-byte field", software)
	}
	if len(file) > 50 {
		t.Fatalf("filename %q exceeds the 50-byte field", filename)
	}

	buf := make([]byte, headerSize)
	buf[headerNameOffset] = byte(len(name))
	copy(buf[headerNameOffset+1:], name)
	buf[headerFileOffset] = byte(len(file))
	copy(buf[headerFileOffset+1:], file)
	if checksums {
		buf[headerFlagOffset] = 1
	}
	binary.LittleEndian.PutUint32(buf[headerCountMark:headerCountMark+4], partCount)
	binary.LittleEndian.PutUint64(buf[headerSizeMark:headerSizeMark+8], payloadSize)

	return buf
}

func TestParseHeader_RoundTrip(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		software  string
		filename  string
		checksums bool
		count     uint32
		size      uint64
	}{
		{name: "typical", software: "Xtremsplit v1.2", filename: "movie.mkv", checksums: true, count: 3, size: 2000},
		{name: "window limits", software: strings.Repeat("s", 39), filename: strings.Repeat("f", 50), checksums: true, count: 999, size: 1 << 40},
		{name: "no software no checksums", software: "", filename: "doc.txt", checksums: false, count: 1, size: 7},
		{name: "latin-1 text", software: "Xtremsplit", filename: "Déjà vu.bin", checksums: true, count: 2, size: 512},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			buf := encodeTestHeader(t, tc.software, tc.filename, tc.checksums, tc.count, tc.size)
			h, err := ParseHeader(buf)
			if err != nil {
				t.Fatalf("ParseHeader: %v", err)
			}

			if h.Software != tc.software {
				t.Errorf("Software = %q, want %q", h.Software, tc.software)
			}
			if h.Filename != tc.filename {
				t.Errorf("Filename = %q, want %q", h.Filename, tc.filename)
			}
			if h.Checksums != tc.checksums {
				t.Errorf("Checksums = %v, want %v", h.Checksums, tc.checksums)
			}
			if h.PartCount != tc.count {
				t.Errorf("PartCount = %d, want %d", h.PartCount, tc.count)
			}
			if h.PayloadSize != tc.size {
				t.Errorf("PayloadSize = %d, want %d", h.PayloadSize, tc.size)
			}

			wantManifest := int64(0)
			if tc.checksums {
				wantManifest = int64(tc.count) * digestHexLen
			}
			if got := h.ManifestLen(); got != wantManifest {
				t.Errorf("ManifestLen = %d, want %d", got, wantManifest)
			}
		})
	}
}

func TestParseHeader_Truncated(t *testing.T) {
	t.Parallel()

	_, err := ParseHeader(make([]byte, headerSize-1))
	if !errors.Is(err, ErrTruncatedHeader) {
		t.Fatalf("expected ErrTruncatedHeader, got %v", err)
	}

	_, err = ParseHeader(nil)
	if !errors.Is(err, ErrTruncatedHeader) {
		t.Fatalf("expected ErrTruncatedHeader for nil buffer, got %v", err)
	}
}

func TestParseHeader_ZeroPartCount(t *testing.T) {
	t.Parallel()

	buf := encodeTestHeader(t, "Xtremsplit", "doc.txt", true, 0, 100)
	_, err := ParseHeader(buf)
	if !errors.Is(err, ErrInvalidHeader) {
		t.Fatalf("expected ErrInvalidHeader, got %v", err)
	}
}

func TestParseHeader_FlagVariants(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		flag byte
		want bool
	}{
		{name: "zero is off", flag: 0x00, want: false},
		{name: "one is on", flag: 0x01, want: true},
		{name: "any nonzero is on", flag: 0x7f, want: true},
		{name: "high bit is on", flag: 0xff, want: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			buf := encodeTestHeader(t, "Xtremsplit", "doc.txt", false, 2, 100)
			buf[headerFlagOffset] = tc.flag

			h, err := ParseHeader(buf)
			if err != nil {
				t.Fatalf("ParseHeader: %v", err)
			}
			if h.Checksums != tc.want {
				t.Errorf("Checksums = %v for flag 0x%02x, want %v", h.Checksums, tc.flag, tc.want)
			}
		})
	}
}

// Length bytes beyond their field windows must not fail parsing: the decode
// is clamped to the header buffer and the fixed fields stay intact.
func TestParseHeader_OversizedLengthBytes(t *testing.T) {
	t.Parallel()

	buf := encodeTestHeader(t, "Xtremsplit", "doc.txt", true, 5, 12345)
	buf[headerNameOffset] = 0xff
	buf[headerFileOffset] = 0xff

	h, err := ParseHeader(buf)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}

	if got, want := utf8.RuneCountInString(h.Software), headerSize-headerNameOffset-1; got != want {
		t.Errorf("Software clamped to %d chars, want %d", got, want)
	}
	if got, want := utf8.RuneCountInString(h.Filename), headerSize-headerFileOffset-1; got != want {
		t.Errorf("Filename clamped to %d chars, want %d", got, want)
	}
	if h.PartCount != 5 {
		t.Errorf("PartCount = %d, want 5", h.PartCount)
	}
	if h.PayloadSize != 12345 {
		t.Errorf("PayloadSize = %d, want 12345", h.PayloadSize)
	}
}

func TestParseHeader_IgnoresTrailingBytes(t *testing.T) {
	t.Parallel()

	buf := encodeTestHeader(t, "Xtremsplit", "doc.txt", true, 2, 2000)
	withPayload := append(append([]byte{}, buf...), bytes.Repeat([]byte{0xAA}, 500)...)

	want, err := ParseHeader(buf)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	got, err := ParseHeader(withPayload)
	if err != nil {
		t.Fatalf("ParseHeader with payload: %v", err)
	}
	if got != want {
		t.Errorf("headers differ: got %+v, want %+v", got, want)
	}
}

func TestReadHeader_File(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.001.xtm")
	buf := encodeTestHeader(t, "Xtremsplit", "doc.txt", true, 2, 2000)
	content := append(append([]byte{}, buf...), bytes.Repeat([]byte{0x42}, 1000)...)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	h, err := ReadHeader(path)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.Filename != "doc.txt" || h.PartCount != 2 || h.PayloadSize != 2000 || !h.Checksums {
		t.Errorf("header = %+v", h)
	}
}

func TestReadHeader_TooSmall(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.001.xtm")
	if err := os.WriteFile(path, make([]byte, headerSize-10), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := ReadHeader(path)
	if !errors.Is(err, ErrTruncatedHeader) {
		t.Fatalf("expected ErrTruncatedHeader, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q does not name the file", err)
	}
}

func TestReadHeader_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := ReadHeader(filepath.Join(t.TempDir(), "ghost.001.xtm"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadHeaderFromReaderAt_NilReader(t *testing.T) {
	t.Parallel()

	_, err := ReadHeaderFromReaderAt(nil, headerSize)
	if !errors.Is(err, ErrNilReader) {
		t.Fatalf("expected ErrNilReader, got %v", err)
	}
}

func TestReadHeaderFromReaderAt_TooSmall(t *testing.T) {
	t.Parallel()

	src := bytes.NewReader(make([]byte, 10))
	_, err := ReadHeaderFromReaderAt(src, 10)
	if !errors.Is(err, ErrTruncatedHeader) {
		t.Fatalf("expected ErrTruncatedHeader, got %v", err)
	}
}
