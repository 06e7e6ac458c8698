package xtm

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeLastPartForTest writes a last-part file: payload bytes followed by
// one fabricated 32-char manifest record per part. Returns path and records.
func writeLastPartForTest(t *testing.T, partCount int, payloadLen int) (string, []string) {
	t.Helper()

	records := make([]string, 0, partCount)
	var tail bytes.Buffer
	for i := 0; i < partCount; i++ {
		rec := fmt.Sprintf("%032X", i+1)
		records = append(records, rec)
		tail.WriteString(rec)
	}

	content := append(bytes.Repeat([]byte{0x5A}, payloadLen), tail.Bytes()...)
	path := filepath.Join(t.TempDir(), fmt.Sprintf("doc.%03d.xtm", partCount))
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	return path, records
}

func TestReadManifest_Records(t *testing.T) {
	t.Parallel()

	path, want := writeLastPartForTest(t, 3, 500)

	got, err := ReadManifest(path, 3)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	for i, rec := range got {
		if len(rec) != digestHexLen {
			t.Errorf("record %d has length %d, want %d", i, len(rec), digestHexLen)
		}
		if rec != want[i] {
			t.Errorf("record %d = %q, want %q", i, rec, want[i])
		}
	}
}

// The manifest read must leave the part handle's cursor at the start of the
// file so the same handle can stream payload immediately afterwards.
func TestReadManifestFromReaderAt_CursorStaysAtStart(t *testing.T) {
	t.Parallel()

	path, _ := writeLastPartForTest(t, 2, 100)
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	fi, err := f.Stat()
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ReadManifestFromReaderAt(f, fi.Size(), 2); err != nil {
		t.Fatalf("ReadManifestFromReaderAt: %v", err)
	}

	pos, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		t.Fatal(err)
	}
	if pos != 0 {
		t.Fatalf("cursor moved to %d, want 0", pos)
	}
}

func TestReadManifest_Truncated(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "doc.002.xtm")
	if err := os.WriteFile(path, make([]byte, 3*digestHexLen-1), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := ReadManifest(path, 3)
	if !errors.Is(err, ErrTruncatedTrailer) {
		t.Fatalf("expected ErrTruncatedTrailer, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q does not name the file", err)
	}
}

func TestReadManifestFromReaderAt_NilReader(t *testing.T) {
	t.Parallel()

	_, err := ReadManifestFromReaderAt(nil, 1000, 2)
	if !errors.Is(err, ErrNilReader) {
		t.Fatalf("expected ErrNilReader, got %v", err)
	}
}

func TestReadManifest_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := ReadManifest(filepath.Join(t.TempDir(), "ghost.002.xtm"), 2)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
