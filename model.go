// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/xtm

package xtm

import (
	"time"

	"github.com/woozymasta/pathrules"
)

// Internal binary layout and format limits.
const (
	headerSize       = 104 // fixed archive header size in bytes, first part only
	headerNameOffset = 0   // software-name length byte
	headerFileOffset = 40  // output-filename length byte
	headerFlagOffset = 91  // checksum-present flag
	headerCountMark  = 92  // declared part count (u32 LE)
	headerSizeMark   = 96  // declared payload size (u64 LE)
	digestHexLen     = 32  // manifest record width: 128-bit digest as uppercase hex
	partIndexDigits  = 3   // fixed-width zero-padded part index
	maxPartIndex     = 999 // highest index representable with 3 digits
)

// DefaultBlockSize is the streaming block size for digest and join reads.
const DefaultBlockSize = 64 * 1024

// Role marks the position of a part within the ordered part list.
type Role uint8

// Part position flags. A single-part archive is both first and last.
const (
	// RoleMiddle marks a part with neither header nor trailer bytes.
	RoleMiddle Role = 0
	// RoleFirst marks the part carrying the 104-byte archive header.
	RoleFirst Role = 1 << 0
	// RoleLast marks the part carrying the checksum manifest trailer.
	RoleLast Role = 1 << 1
)

// IsFirst reports whether this part carries the archive header.
func (r Role) IsFirst() bool {
	return r&RoleFirst != 0
}

// IsLast reports whether this part carries the manifest trailer.
func (r Role) IsLast() bool {
	return r&RoleLast != 0
}

// String returns a human-readable role name.
func (r Role) String() string {
	switch {
	case r.IsFirst() && r.IsLast():
		return "single"
	case r.IsFirst():
		return "first"
	case r.IsLast():
		return "last"
	default:
		return "middle"
	}
}

// Header is the fixed 104-byte metadata block embedded at the start of part 1.
// Text fields are decoded as Latin-1: the producing software wrote single-byte
// ANSI strings, and Latin-1 maps every byte to the equivalent code point.
type Header struct {
	// Software is the informational producer name.
	Software string `json:"software,omitempty" yaml:"software,omitempty"`
	// Filename is the declared logical output filename.
	Filename string `json:"filename" yaml:"filename"`
	// PartCount is the declared number of parts.
	PartCount uint32 `json:"part_count" yaml:"part_count"`
	// PayloadSize is the declared total payload size in bytes.
	PayloadSize uint64 `json:"payload_size" yaml:"payload_size"`
	// Checksums reports whether the last part carries a digest manifest.
	Checksums bool `json:"checksums" yaml:"checksums"`
}

// ManifestLen returns the manifest trailer length in bytes, zero without checksums.
func (h Header) ManifestLen() int64 {
	if !h.Checksums {
		return 0
	}

	return int64(h.PartCount) * digestHexLen
}

// Manifest is the ordered sequence of per-part digest records from the last
// part's trailer, first record belonging to part 1. Records are 32 ASCII
// characters of uppercase hex.
type Manifest []string

// Part describes one located part file of a split archive.
type Part struct {
	// Path is the part file path.
	Path string `json:"path" yaml:"path"`
	// Index is the 1-based part index parsed from the filename.
	Index int `json:"index" yaml:"index"`
	// Size is the raw file size on disk in bytes.
	Size int64 `json:"size" yaml:"size"`
	// Start is the inclusive payload range start within the raw file.
	Start int64 `json:"start" yaml:"start"`
	// End is the exclusive payload range end within the raw file.
	End int64 `json:"end" yaml:"end"`
	// Role marks the part position in the ordered list.
	Role Role `json:"role" yaml:"role"`
}

// PayloadLen returns the resolved payload byte count of this part.
func (p Part) PayloadLen() int64 {
	return p.End - p.Start
}

// Archive is the parsed state of one split archive: header, ordered parts
// with resolved payload ranges, and the checksum manifest when present.
// Read-only after Open; concurrent invocations never share mutable state.
type Archive struct {
	// Header is the parsed first-part header.
	Header Header `json:"header" yaml:"header"`
	// Parts are the located parts in ascending index order.
	Parts []Part `json:"parts" yaml:"parts"`
	// Manifest holds per-part digest records; nil when checksums are absent.
	Manifest Manifest `json:"manifest,omitempty" yaml:"manifest,omitempty"`
}

// PayloadTotal returns the sum of all resolved payload ranges.
func (a *Archive) PayloadTotal() int64 {
	var total int64
	for i := range a.Parts {
		total += a.Parts[i].PayloadLen()
	}

	return total
}

// VerifyOptions configures integrity verification behavior.
type VerifyOptions struct {
	// Digest selects the manifest digest scheme. Default is DigestMD5,
	// matching manifests produced by the original splitter.
	Digest Digest `json:"digest,omitempty" yaml:"digest,omitempty"`
	// BlockSize is the streaming block size in bytes for digest reads.
	BlockSize int `json:"block_size,omitempty" yaml:"block_size,omitempty"`
	// Workers is the number of concurrent digest workers.
	// Default 1 preserves strictly sequential checking; higher values
	// digest disjoint parts in parallel with the same reported outcome.
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty"`
}

// JoinOptions configures join behavior.
type JoinOptions struct {
	// Progress receives fraction-done updates after every written block.
	Progress Progress `json:"-" yaml:"-"`
	// OutputPath overrides the destination path entirely.
	OutputPath string `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	// OutputDir places the header-declared output name under this directory.
	OutputDir string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
	// BlockSize is the streaming block size in bytes.
	BlockSize int `json:"block_size,omitempty" yaml:"block_size,omitempty"`
	// Atomic writes to a temporary sibling file and renames it onto the
	// destination only on full success.
	Atomic bool `json:"atomic,omitempty" yaml:"atomic,omitempty"`
	// IgnoreDeclaredSize skips the combined-payload versus header size guard.
	IgnoreDeclaredSize bool `json:"ignore_declared_size,omitempty" yaml:"ignore_declared_size,omitempty"`
}

// JoinResult contains join output statistics.
type JoinResult struct {
	// Path is the written destination path.
	Path string `json:"path" yaml:"path"`
	// Written is total payload bytes written.
	Written int64 `json:"written" yaml:"written"`
	// Duration is end-to-end join duration.
	Duration time.Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// ScanOptions configures directory scanning for archive first parts.
type ScanOptions struct {
	// Rules are ordered include/exclude patterns applied to candidate names.
	Rules []pathrules.Rule `json:"rules,omitempty" yaml:"rules,omitempty"`
	// MatcherOptions control rule matching.
	MatcherOptions pathrules.MatcherOptions `json:"matcher_options,omitzero" yaml:"matcher_options,omitzero"`
}

// applyDefaults fills zero-valued verify options with defaults.
func (opts *VerifyOptions) applyDefaults() {
	if opts.Digest == DigestUnknown {
		opts.Digest = DigestMD5
	}

	if opts.BlockSize <= 0 {
		opts.BlockSize = DefaultBlockSize
	}

	if opts.Workers <= 0 {
		opts.Workers = 1
	}
}

// applyDefaults fills zero-valued join options with defaults.
func (opts *JoinOptions) applyDefaults() {
	if opts.BlockSize <= 0 {
		opts.BlockSize = DefaultBlockSize
	}
}

// applyDefaults fills zero-valued scan options with defaults.
func (opts *ScanOptions) applyDefaults() {
	if opts.MatcherOptions == (pathrules.MatcherOptions{}) {
		opts.MatcherOptions = pathrules.MatcherOptions{
			CaseInsensitive: true,
			DefaultAction:   pathrules.ActionInclude,
		}
	}

	if opts.MatcherOptions.DefaultAction == pathrules.ActionUnknown {
		opts.MatcherOptions.DefaultAction = pathrules.ActionInclude
	}
}
