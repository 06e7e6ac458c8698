// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/xtm

package xtm

import (
	"crypto/md5" //nolint:gosec // Manifest format requires a 128-bit digest; MD5 is what the splitter writes.
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Digest selects the content digest scheme used for manifest records.
// Every scheme must produce a 128-bit sum so its uppercase-hex rendering
// fills exactly one 32-character manifest record; any other width would
// break the trailer length arithmetic.
type Digest uint8

// Available digest schemes.
const (
	// DigestUnknown is the zero value; options default it to DigestMD5.
	DigestUnknown Digest = iota
	// DigestMD5 matches manifests produced by the original splitter.
	DigestMD5
	// DigestBLAKE2b128 is a 128-bit BLAKE2b drop-in with the same record width.
	DigestBLAKE2b128
)

// Valid returns nil iff the digest scheme is known.
func (d Digest) Valid() error {
	switch d {
	case DigestMD5, DigestBLAKE2b128:
		return nil
	default:
		return fmt.Errorf("%w: 0x%02x", ErrUnknownDigest, uint8(d))
	}
}

// String returns the scheme name as accepted by ParseDigest.
func (d Digest) String() string {
	switch d {
	case DigestMD5:
		return "md5"
	case DigestBLAKE2b128:
		return "blake2b128"
	default:
		return fmt.Sprintf("digest(0x%02x)", uint8(d))
	}
}

// New returns a fresh hash for this scheme.
func (d Digest) New() (hash.Hash, error) {
	switch d {
	case DigestMD5:
		return md5.New(), nil //nolint:gosec // Manifest format requires MD5-width digests.
	case DigestBLAKE2b128:
		return blake2b.New(digestHexLen/2, nil)
	default:
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownDigest, uint8(d))
	}
}

// ParseDigest resolves a scheme by name. The empty string selects the
// default DigestMD5.
func ParseDigest(name string) (Digest, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "md5":
		return DigestMD5, nil
	case "blake2b128", "blake2b-128":
		return DigestBLAKE2b128, nil
	default:
		return DigestUnknown, fmt.Errorf("%w: %q", ErrUnknownDigest, name)
	}
}
